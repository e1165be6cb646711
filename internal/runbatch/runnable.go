// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import "context"

// Runnable defines the interface for commands and batches that can be run.
type Runnable interface {
	// Run executes the command or batch and returns the results.
	// It should handle context cancellation and pass signals to any spawned process.
	Run(context.Context) Results
	// SetCwd sets the working directory for the command or batch.
	// It should be called before Run(). The boolean parameter indicates
	// whether to overwrite a working directory that is already set.
	SetCwd(string, bool)
	// InheritEnv adds environment variables to the command or batch without
	// overwriting variables that are already set.
	InheritEnv(map[string]string)
	// GetLabel returns the label or description of the command or batch.
	GetLabel() string
	// GetParent returns the parent for this command or batch.
	GetParent() Runnable
	// SetParent sets the parent for this command or batch.
	SetParent(Runnable)
	// ShouldRun reports what to do given the status of the previous command.
	ShouldRun(prev PreviousCommandStatus) ShouldRunAction
}

// PreviousCommandStatus holds the state of the previous command execution.
type PreviousCommandStatus struct {
	// State is the result status of the previous command.
	State ResultStatus
	// ExitCode is the exit code of the previous command.
	ExitCode int
	// Err is the error from the previous command, if any.
	Err error
}

// ShouldRunAction defines the action to take based on the result of a command's pre-check.
type ShouldRunAction int

const (
	// ShouldRunActionRun means run the command.
	ShouldRunActionRun ShouldRunAction = iota
	// ShouldRunActionSkip means skip the command.
	ShouldRunActionSkip
	// ShouldRunActionError means an error occurred, do not run the command.
	ShouldRunActionError
)
