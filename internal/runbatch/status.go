// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

// ResultStatus represents the outcome classification of a command or batch.
type ResultStatus int

const (
	// ResultStatusUnknown means the command's outcome has not been classified.
	ResultStatusUnknown ResultStatus = iota
	// ResultStatusSuccess means the command completed successfully.
	ResultStatusSuccess
	// ResultStatusError means the command failed or could not be started.
	ResultStatusError
	// ResultStatusSkipped means the command was not run.
	ResultStatusSkipped
)

// String returns the string representation of the ResultStatus.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return "success"
	case ResultStatusError:
		return "error"
	case ResultStatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}
