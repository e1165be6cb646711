// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/dftbatch/internal/config"
	"github.com/matt-FFFFFF/dftbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/dftbatch/internal/runbatch"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	patternArg = "pattern"

	argFlag                  = "arg"
	configFlag               = "config"
	outFlag                  = "out"
	outputFileFlag           = "output-file"
	outputStdErrFlag         = "output-stderr"
	outputStdOutFlag         = "output-stdout"
	outputSuccessDetailsFlag = "output-success-details"
	parallelFlag             = "parallel"
	programFlag              = "program"
	timeoutFlag              = "timeout"
)

// RunCmd runs the external program once in every matched work directory.
var RunCmd = newRunCmd()

// newRunCmd builds a fresh command instance. Flag values live on the flag
// structs, so each parse needs its own copy.
func newRunCmd() *cli.Command {
	return &cli.Command{
		Name:        "run",
		Description: "Run the simulation binary in every directory matching the pattern.",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      patternArg,
				UsageText: "[PATTERN]",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      configFlag,
				Aliases:   []string{"c"},
				Usage:     "YAML batch definition file",
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:  programFlag,
				Usage: "Program to run in each directory",
			},
			&cli.StringSliceFlag{
				Name:  argFlag,
				Usage: "Argument passed to the program (repeatable)",
			},
			&cli.StringFlag{
				Name:  outputFileFlag,
				Usage: "Per-directory file capturing the program's stdout",
			},
			&cli.BoolFlag{
				Name:  parallelFlag,
				Usage: "Run the matched directories concurrently instead of in order",
			},
			&cli.DurationFlag{
				Name:  timeoutFlag,
				Usage: "Cancel the whole batch after this duration",
			},
			&cli.StringFlag{
				Name:      outFlag,
				Usage:     "Write results in binary form to this file instead of printing them",
				TakesFile: true,
			},
			&cli.BoolFlag{
				Name:        outputSuccessDetailsFlag,
				Aliases:     []string{"success"},
				Usage:       "Include successful results in the output",
				DefaultText: "false",
				Value:       false,
			},
			&cli.BoolFlag{
				Name:        outputStdErrFlag,
				Aliases:     []string{"stderr"},
				Usage:       "Include stderr output in the results",
				DefaultText: "true",
				Value:       true,
			},
			&cli.BoolFlag{
				Name:        outputStdOutFlag,
				Aliases:     []string{"stdout"},
				Usage:       "Include stdout output in the results",
				DefaultText: "false",
				Value:       false,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	def, err := definitionFromCmd(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	timeout, err := def.TimeoutDuration()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if d := cmd.Duration(timeoutFlag); d > 0 {
		timeout = d
	}

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rb, err := config.BuildRunnable(ctx, def, afero.NewOsFs())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	wd, err := os.Getwd()
	if err != nil {
		return cli.Exit("failed to determine working directory: "+err.Error(), 1)
	}

	rb.SetCwd(wd, true)

	ctxlog.Info(ctx, "starting batch",
		"name", def.Name, "pattern", def.Pattern, "mode", def.Mode)

	res := rb.Run(ctx)

	if outFileName := cmd.String(outFlag); outFileName != "" {
		f, err := os.Create(outFileName)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to create output file %s: %s", outFileName, err.Error()), 1)
		}

		defer f.Close() //nolint:errcheck

		if err := res.WriteBinary(f); err != nil {
			return cli.Exit(fmt.Sprintf("failed to write results to file %s: %s", outFileName, err.Error()), 1)
		}
	} else {
		opts := runbatch.DefaultOutputOptions()
		opts.IncludeStdErr = cmd.Bool(outputStdErrFlag)
		opts.IncludeStdOut = cmd.Bool(outputStdOutFlag)
		opts.ShowSuccessDetails = cmd.Bool(outputSuccessDetailsFlag)

		if err := res.WriteWithOptions(cmd.Writer, opts); err != nil {
			return cli.Exit("failed to write results: "+err.Error(), 1)
		}
	}

	// Failed directories are visible in the exit code, not just the report.
	if res.HasError() {
		return cli.Exit("", 1)
	}

	return nil
}

// definitionFromCmd loads the batch definition, then lets command-line flags
// and the pattern argument override individual fields.
func definitionFromCmd(cmd *cli.Command) (*config.Definition, error) {
	def := config.Default()

	if configFile := cmd.String(configFlag); configFile != "" {
		var err error

		def, err = config.Load(afero.NewOsFs(), configFile)
		if err != nil {
			return nil, err
		}
	}

	if pattern := cmd.StringArg(patternArg); pattern != "" {
		def.Pattern = pattern
	}

	if program := cmd.String(programFlag); program != "" {
		def.Program = program
	}

	if args := cmd.StringSlice(argFlag); len(args) > 0 {
		def.Args = args
	}

	if outputFile := cmd.String(outputFileFlag); outputFile != "" {
		def.OutputFile = outputFile
	}

	if cmd.Bool(parallelFlag) {
		def.Mode = "parallel"
	}

	if d := cmd.Duration(timeoutFlag); d > 0 {
		def.Timeout = d.String()
	}

	return def, def.Validate()
}
