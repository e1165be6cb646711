// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/dftbatch/internal/color"
)

// OutputOptions controls what is included in the output.
type OutputOptions struct {
	IncludeStdOut      bool // Whether to include captured stdout in the output
	IncludeStdErr      bool // Whether to include captured stderr in the output
	ShowSuccessDetails bool // Whether to show details for successful commands
	ShowSummary        bool // Whether to append a one-line tally of item outcomes
}

// DefaultOutputOptions returns a default set of output options.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		IncludeStdOut:      false,
		IncludeStdErr:      true,
		ShowSuccessDetails: false,
		ShowSummary:        true,
	}
}

// WriteResults writes formatted results to the provided writer.
func WriteResults(w io.Writer, results Results, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	for _, r := range results {
		if err := writeResultWithIndent(w, r, "", options); err != nil {
			return err
		}
	}

	if options.ShowSummary {
		writeSummary(w, results)
	}

	return nil
}

func writeSummary(w io.Writer, results Results) {
	t := results.Tally()

	failedStr := fmt.Sprintf("%d failed", t.Failed)
	if t.Failed > 0 {
		failedStr = color.Colorize(failedStr, color.Bold, color.FgRed)
	}

	fmt.Fprintf(w, "\n%d items: %s succeeded, %s, %d skipped\n", //nolint:errcheck
		t.Total(),
		color.Colorize(fmt.Sprintf("%d", t.Succeeded), color.FgGreen),
		failedStr,
		t.Skipped,
	)
}

func writeResultWithIndent(w io.Writer, r *Result, indent string, options *OutputOptions) error {
	var statusStr, labelPrefix string

	switch r.Status {
	case ResultStatusSkipped:
		statusStr = color.Colorize("~", color.FgYellow)               // Yellow tilde
		labelPrefix = color.ControlString(color.Bold, color.FgYellow) // Bold yellow
	case ResultStatusError:
		statusStr = color.Colorize("✗", color.FgRed)               // Red X
		labelPrefix = color.ControlString(color.Bold, color.FgRed) // Bold red
	case ResultStatusSuccess:
		statusStr = color.Colorize("✓", color.FgGreen)               // Green checkmark
		labelPrefix = color.ControlString(color.Bold, color.FgGreen) // Bold green
	default:
		statusStr = color.Colorize("?", color.FgWhite) // White question mark for unknown status
	}

	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	fmt.Fprintf( //nolint:errcheck
		w,
		"%s%s %s%s%s",
		indent,
		statusStr,
		labelPrefix,
		label,
		color.ControlString(color.Reset),
	)

	if r.ExitCode != 0 {
		fmt.Fprintf(w, " (exit code: %d)", r.ExitCode) //nolint:errcheck
	}

	if r.OutputFile != "" {
		fmt.Fprintf(w, " → %s", r.OutputFile) //nolint:errcheck
	}

	fmt.Fprintln(w) //nolint:errcheck

	if r.Error != nil {
		errColor := color.FgWhite

		switch r.Status {
		case ResultStatusSkipped:
			errColor = color.FgYellow
		case ResultStatusError:
			errColor = color.FgRed
		}

		// Skip printing ErrResultChildrenHasError since it's redundant with the actual errors
		if !errors.Is(r.Error, ErrResultChildrenHasError) {
			fmt.Fprintf( //nolint:errcheck
				w,
				"%s  %s %s%s\n",
				indent,
				color.ColorizeNoReset("➜ Error:", errColor),
				r.Error.Error(),
				color.ControlString(color.Reset),
			)
		}
	}

	// Show details only for failed commands or if explicitly asked to show success details
	shouldShowDetails := (r.Error != nil || r.ExitCode != 0 || options.ShowSuccessDetails) &&
		len(r.Children) == 0

	if shouldShowDetails && options.IncludeStdOut && len(r.StdOut) > 0 {
		fmt.Fprintf(w, "%s  ➜ Output:\n", indent)                    //nolint:errcheck
		fmt.Fprintf(w, "%s", formatOutput(r.StdOut, indent+"     ")) //nolint:errcheck
	}

	if shouldShowDetails && options.IncludeStdErr && len(r.StdErr) > 0 {
		fmt.Fprintf(w, "%s  %s\n", indent, color.Colorize("➜ Error Output:", color.FgHiRed)) //nolint:errcheck
		fmt.Fprintf(w, "%s", formatOutput(r.StdErr, indent+"     "))                         //nolint:errcheck
	}

	if len(r.Children) > 0 {
		childIndent := indent + "  "
		for _, child := range r.Children {
			if err := writeResultWithIndent(w, child, childIndent, options); err != nil {
				return err
			}
		}
	}

	return nil
}

// formatOutput formats multi-line output with proper indentation.
func formatOutput(output []byte, indent string) string {
	sb := strings.Builder{}
	lines := strings.Split(string(output), "\n")
	sb.Grow(len(output) + len(lines)*len(indent)) // Preallocate enough space

	for _, line := range lines {
		if line == "" {
			sb.WriteString("\n") // Preserve empty lines
			continue
		}

		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}
