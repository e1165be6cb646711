// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/dftbatch/cmd/average"
	"github.com/matt-FFFFFF/dftbatch/cmd/run"
	"github.com/matt-FFFFFF/dftbatch/cmd/show"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		run.RunCmd,
		show.ShowCmd,
		average.AverageCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "dftbatch",
	Description: `Dftbatch drives batches of DFTB+ calculations over trees of
displaced-structure directories. It enumerates the work directories matching a
glob pattern, runs the simulation binary once in each with stdout captured to a
per-directory output file, and reports a per-directory outcome summary. It can
also scrape scalar properties back out of the output files and compute their
weighted averages.`,
	Usage:     "dftbatch run 'mu_displaced/*'",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}
