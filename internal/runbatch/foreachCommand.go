// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

var _ Runnable = (*ForEachCommand)(nil)

const (
	// ItemEnvVar is the environment variable name used to store the current item in the iteration.
	ItemEnvVar = "ITEM"
)

// ItemsProviderFunc is a function that returns a list of items to iterate over.
// It takes a context and the current working directory, and returns a list of items and an error.
type ItemsProviderFunc func(ctx context.Context, workingDirectory string) ([]string, error)

// CommandFactory builds the Runnable for a single item. The item is the
// path of a work directory; the returned command must run with that
// directory as its working directory.
type CommandFactory func(item string) Runnable

// ErrItemsProviderFailed is returned when the items provider function fails.
var ErrItemsProviderFailed = errors.New("items provider function failed")

// ErrNoCommandFactory is returned when a ForEachCommand has no factory to build item commands.
var ErrNoCommandFactory = errors.New("no command factory provided")

// ForEachMode determines whether the item commands are executed in serial or parallel.
type ForEachMode int

const (
	// ForEachSerial executes one item at a time, in provider order.
	ForEachSerial ForEachMode = iota
	// ForEachParallel executes all items concurrently.
	ForEachParallel
)

// NewForEachMode creates a ForEachMode from a string.
func NewForEachMode(s string) (ForEachMode, error) {
	switch s {
	case "serial", "":
		return ForEachSerial, nil
	case "parallel":
		return ForEachParallel, nil
	default:
		return ForEachMode(-1), fmt.Errorf("unknown foreach mode %q", s)
	}
}

// ForEachCommand executes a command for each item returned by an items provider function.
type ForEachCommand struct {
	*BaseCommand
	ItemsProvider ItemsProviderFunc
	Make          CommandFactory
	Mode          ForEachMode
}

// GetLabel returns the label of the batch.
func (f *ForEachCommand) GetLabel() string {
	if f.Label == "" {
		return "ForEach Command"
	}

	return f.Label
}

// Run implements the Runnable interface for ForEachCommand.
func (f *ForEachCommand) Run(ctx context.Context) Results {
	result := &Result{
		Label:    f.Label,
		ExitCode: 0,
		Status:   ResultStatusSuccess,
		Children: Results{},
	}

	if f.Make == nil {
		result.ExitCode = -1
		result.Error = ErrNoCommandFactory
		result.Status = ResultStatusError

		return Results{result}
	}

	items, err := f.ItemsProvider(ctx, f.Cwd)
	if err != nil {
		result.ExitCode = -1
		result.Error = fmt.Errorf("%w: %v", ErrItemsProviderFailed, err)
		result.Status = ResultStatusError

		return Results{result}
	}

	// An empty item list is not an error: zero invocations, success.
	if len(items) == 0 {
		return Results{result}
	}

	foreachCommands := make([]Runnable, len(items))

	for i, item := range items {
		// Clone the environment for each item and expose the item path in ITEM.
		newEnv := maps.Clone(f.Env)
		if newEnv == nil {
			newEnv = make(map[string]string)
		}

		newEnv[ItemEnvVar] = item

		cmd := f.Make(item)
		cmd.InheritEnv(newEnv)
		foreachCommands[i] = cmd
	}

	base := NewBaseCommand(f.Label, f.Cwd, f.RunsOnCondition, maps.Clone(f.Env))
	base.SetParent(f.GetParent())

	var run Runnable

	switch f.Mode {
	case ForEachParallel:
		run = &ParallelBatch{
			BaseCommand: base,
			Commands:    foreachCommands,
		}
	default:
		run = &SerialBatch{
			BaseCommand: base,
			Commands:    foreachCommands,
		}
	}

	for _, cmd := range foreachCommands {
		cmd.SetParent(run)
	}

	results := run.Run(ctx)
	result.Children = results

	if results.HasError() {
		result.Error = ErrResultChildrenHasError
		result.ExitCode = -1
		result.Status = ResultStatusError
	}

	return Results{result}
}

// NewForEachCommand creates a new ForEachCommand.
func NewForEachCommand(
	base *BaseCommand,
	provider ItemsProviderFunc,
	mode ForEachMode,
	factory CommandFactory,
) *ForEachCommand {
	return &ForEachCommand{
		BaseCommand:   base,
		ItemsProvider: provider,
		Make:          factory,
		Mode:          mode,
	}
}
