// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package show

import (
	"context"
	"errors"
	"os"

	"github.com/matt-FFFFFF/dftbatch/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	fileArg = "file"

	outputStdErrFlag         = "output-stderr"
	outputStdOutFlag         = "output-stdout"
	outputSuccessDetailsFlag = "output-success-details"
)

var (
	// ErrReadFile is returned when the file cannot be read.
	ErrReadFile = errors.New("failed to read file")
	// ErrWriteResults is returned when the results cannot be written to stdout.
	ErrWriteResults = errors.New("failed to write results to stdout")
)

// ShowCmd pretty-prints results previously saved with `run --out`.
var ShowCmd = newShowCmd()

// newShowCmd builds a fresh command instance. Flag values live on the flag
// structs, so each parse needs its own copy.
func newShowCmd() *cli.Command {
	return &cli.Command{
		Name:        "show",
		Description: "Show previously saved results.",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      fileArg,
				UsageText: "RESULTSFILE",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    outputSuccessDetailsFlag,
				Aliases: []string{"success"},
				Usage:   "Include successful results in the output",
			},
			&cli.BoolFlag{
				Name:    outputStdErrFlag,
				Aliases: []string{"stderr"},
				Usage:   "Include stderr output in the results",
				Value:   true,
			},
			&cli.BoolFlag{
				Name:    outputStdOutFlag,
				Aliases: []string{"stdout"},
				Usage:   "Include stdout output in the results",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			file, err := os.Open(cmd.StringArg(fileArg))
			if err != nil {
				return errors.Join(ErrReadFile, err)
			}
			defer file.Close() //nolint:errcheck

			results, err := runbatch.ReadBinaryResults(file)
			if err != nil {
				return err
			}

			opts := runbatch.DefaultOutputOptions()
			opts.IncludeStdErr = cmd.Bool(outputStdErrFlag)
			opts.IncludeStdOut = cmd.Bool(outputStdOutFlag)
			opts.ShowSuccessDetails = cmd.Bool(outputSuccessDetailsFlag)

			if err := results.WriteWithOptions(cmd.Writer, opts); err != nil {
				return errors.Join(ErrWriteResults, err)
			}

			return nil
		},
	}
}
