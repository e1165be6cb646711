// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"io"
	"os"
	"slices"
	"strconv"
)

// ErrResultChildrenHasError is set on a parent result when any child failed.
var ErrResultChildrenHasError = errors.New("result has children with errors")

// Result represents the outcome of running a command or batch.
type Result struct {
	Label      string       // Label of the command or batch
	ExitCode   int          // Exit code of the command or batch
	Error      error        // Error, if any
	Status     ResultStatus // Outcome classification
	StdOut     []byte       // Captured standard output, when not redirected to a file
	StdErr     []byte       // Captured standard error
	OutputFile string       // Path of the file standard output was redirected to, if any
	Children   Results      // Nested results for tree output
}

// Results is a slice of Result pointers, used to represent multiple results.
type Results []*Result

// HasError reports whether any result in the tree failed.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Error != nil || v.ExitCode != 0 {
			return true
		}

		if v.Children.HasError() {
			return true
		}
	}

	return false
}

// Tally holds counts of leaf results by outcome.
type Tally struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// Total returns the total number of tallied leaf results.
func (t Tally) Total() int {
	return t.Succeeded + t.Failed + t.Skipped
}

// Tally counts the leaf results in the tree by status. Parent results that
// only aggregate children are not counted.
func (r Results) Tally() Tally {
	var t Tally

	for v := range slices.Values(r) {
		if len(v.Children) > 0 {
			ct := v.Children.Tally()
			t.Succeeded += ct.Succeeded
			t.Failed += ct.Failed
			t.Skipped += ct.Skipped

			continue
		}

		switch v.Status {
		case ResultStatusSkipped:
			t.Skipped++
		case ResultStatusError:
			t.Failed++
		default:
			t.Succeeded++
		}
	}

	return t
}

// Failed returns a flat list of leaf results that have an error.
func (r Results) Failed() Results {
	var failed Results

	for v := range slices.Values(r) {
		if len(v.Children) > 0 {
			failed = slices.Concat(failed, v.Children.Failed())
			continue
		}

		if v.Error != nil || v.ExitCode != 0 {
			failed = append(failed, v)
		}
	}

	return failed
}

// Print outputs the results to stdout with default options.
func (r Results) Print() error {
	return WriteResults(os.Stdout, r, nil)
}

// Write outputs the results to the specified writer with default options.
func (r Results) Write(w io.Writer) error {
	return WriteResults(w, r, nil)
}

// WriteWithOptions outputs the results to the specified writer with the specified options.
func (r Results) WriteWithOptions(w io.Writer, options *OutputOptions) error {
	return WriteResults(w, r, options)
}

// BatchError aggregates errors from multiple commands and formats a detailed error message.
type BatchError struct {
	FailedResults Results
}

func (e *BatchError) Error() string {
	msg := "Batch execution failed:\n"
	for _, r := range e.FailedResults {
		errStr := "non-zero exit"
		if r.Error != nil {
			errStr = r.Error.Error()
		}

		msg += r.Label + ": " + errStr + " (exit code: " + strconv.Itoa(r.ExitCode) + ")\n"
	}

	return msg
}
