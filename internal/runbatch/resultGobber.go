// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"encoding/gob"
	"errors"
	"io"
)

var (
	// ErrWriteGob is returned when writing the results to a binary format fails.
	ErrWriteGob = errors.New("failed to write binary results")
	// ErrReadGob is returned when reading results from a binary format fails.
	ErrReadGob = errors.New("failed to read binary results")
)

// gobResult mirrors Result with the error flattened to a string, since the
// error interface cannot be gob-encoded without registering every concrete type.
type gobResult struct {
	Label      string
	ExitCode   int
	Status     ResultStatus
	Err        string
	StdOut     []byte
	StdErr     []byte
	OutputFile string
	Children   []gobResult
}

func toGob(results Results) []gobResult {
	out := make([]gobResult, 0, len(results))

	for _, r := range results {
		g := gobResult{
			Label:      r.Label,
			ExitCode:   r.ExitCode,
			Status:     r.Status,
			StdOut:     r.StdOut,
			StdErr:     r.StdErr,
			OutputFile: r.OutputFile,
			Children:   toGob(r.Children),
		}
		if r.Error != nil {
			g.Err = r.Error.Error()
		}

		out = append(out, g)
	}

	return out
}

func fromGob(in []gobResult) Results {
	out := make(Results, 0, len(in))

	for _, g := range in {
		r := &Result{
			Label:      g.Label,
			ExitCode:   g.ExitCode,
			Status:     g.Status,
			StdOut:     g.StdOut,
			StdErr:     g.StdErr,
			OutputFile: g.OutputFile,
			Children:   fromGob(g.Children),
		}
		if g.Err != "" {
			r.Error = errors.New(g.Err)
		}

		out = append(out, r)
	}

	return out
}

// WriteBinary encodes the results to the writer in gob format,
// suitable for later display with the show command.
func (r Results) WriteBinary(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(toGob(r)); err != nil {
		return errors.Join(ErrWriteGob, err)
	}

	return nil
}

// ReadBinaryResults decodes results previously written with WriteBinary.
func ReadBinaryResults(r io.Reader) (Results, error) {
	dec := gob.NewDecoder(r)

	var in []gobResult
	if err := dec.Decode(&in); err != nil {
		return nil, errors.Join(ErrReadGob, err)
	}

	return fromGob(in), nil
}
