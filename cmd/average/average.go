// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package average

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/dftbatch/internal/average"
	"github.com/matt-FFFFFF/dftbatch/internal/config"
	"github.com/matt-FFFFFF/dftbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/dftbatch/internal/extract"
	"github.com/matt-FFFFFF/dftbatch/internal/workscan"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	patternArg = "pattern"

	columnFlag     = "column"
	configFlag     = "config"
	matchFlag      = "match"
	propertyFlag   = "property"
	reportFlag     = "report"
	sourceFileFlag = "source-file"
	weightsFlag    = "weights"
)

// AverageCmd extracts a scalar property from each work directory's output
// file and writes its weighted average.
var AverageCmd = newAverageCmd()

// newAverageCmd builds a fresh command instance. Flag values live on the
// flag structs, so each parse needs its own copy.
func newAverageCmd() *cli.Command {
	return &cli.Command{
		Name:        "average",
		Description: "Average a property scraped from the output files of an already-run batch.",
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
				Usage:     "YAML batch definition file carrying property definitions",
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:  propertyFlag,
				Usage: "Name of a property defined in the config file",
			},
			&cli.StringFlag{
				Name:  matchFlag,
				Usage: "Substring selecting the line carrying the value",
			},
			&cli.IntFlag{
				Name:  columnFlag,
				Usage: "1-based whitespace-separated field holding the value",
			},
			&cli.StringFlag{
				Name:  sourceFileFlag,
				Usage: "Per-directory file to scrape",
				Value: config.DefaultOutputFile,
			},
			&cli.StringFlag{
				Name:      weightsFlag,
				Usage:     "File of per-configuration weights, uniform when omitted",
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:  reportFlag,
				Usage: "Report file to write",
				Value: "averages.dat",
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	fsys := afero.NewOsFs()

	pattern, prop, err := scrapeTarget(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	wd, err := os.Getwd()
	if err != nil {
		return cli.Exit("failed to determine working directory: "+err.Error(), 1)
	}

	dirs, err := workscan.ListMatchingDirs(fsys, pattern)(ctx, wd)
	if err != nil {
		return cli.Exit("failed to enumerate work directories: "+err.Error(), 1)
	}

	values, err := extract.FromDirs(fsys, dirs, cmd.String(sourceFileFlag), prop)
	if err != nil {
		// Partial extraction still averages; the failures are reported.
		ctxlog.Warn(ctx, "some directories yielded no value", "err", err.Error())
	}

	if len(values) == 0 {
		return cli.Exit("no values extracted from "+pattern, 1)
	}

	var weights []float64
	if weightsFile := cmd.String(weightsFlag); weightsFile != "" {
		weights, err = average.LoadWeights(fsys, weightsFile)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	mean, err := average.Mean(values, weights)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	reportFile := cmd.String(reportFlag)

	f, err := fsys.Create(reportFile)
	if err != nil {
		return cli.Exit("failed to create report file "+reportFile+": "+err.Error(), 1)
	}

	defer f.Close() //nolint:errcheck

	if err := average.WriteReport(f, prop.Name, values, weights, mean); err != nil {
		return cli.Exit("failed to write report: "+err.Error(), 1)
	}

	fmt.Fprintf(cmd.Writer, "%s = %.10g over %d configurations (report: %s)\n",
		prop.Name, mean, len(values), reportFile)

	return nil
}

// scrapeTarget resolves the pattern and property, either from a config file
// property by name or from the match/column flags directly.
func scrapeTarget(cmd *cli.Command) (string, extract.Property, error) {
	pattern := cmd.StringArg(patternArg)
	if pattern == "" {
		pattern = config.DefaultPattern
	}

	if configFile := cmd.String(configFlag); configFile != "" {
		def, err := config.Load(afero.NewOsFs(), configFile)
		if err != nil {
			return "", extract.Property{}, err
		}

		if cmd.StringArg(patternArg) == "" {
			pattern = def.Pattern
		}

		name := cmd.String(propertyFlag)
		if name == "" && len(def.Properties) == 1 {
			name = def.Properties[0].Name
		}

		p, err := def.PropertyByName(name)
		if err != nil {
			return "", extract.Property{}, err
		}

		return pattern, extract.Property{Name: p.Name, Match: p.Match, Column: p.Column}, nil
	}

	match := cmd.String(matchFlag)
	column := cmd.Int(columnFlag)

	if match == "" || column < 1 {
		return "", extract.Property{}, fmt.Errorf("%w: provide --match and a 1-based --column, or a config file",
			config.ErrInvalidProperty)
	}

	return pattern, extract.Property{Name: match, Match: match, Column: column}, nil
}
