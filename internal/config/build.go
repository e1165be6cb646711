// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/matt-FFFFFF/dftbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/dftbatch/internal/runbatch"
	"github.com/matt-FFFFFF/dftbatch/internal/workscan"
	"github.com/spf13/afero"
)

// ErrProgramNotFound is returned when the external binary cannot be located.
var ErrProgramNotFound = errors.New("program not found in PATH")

// BuildRunnable assembles the batch Runnable for the definition: a for-each
// over the matched work directories, each item running the external program
// with the item directory as its working directory and stdout redirected to
// the per-directory output file.
func BuildRunnable(ctx context.Context, def *Definition, fsys afero.Fs) (runbatch.Runnable, error) {
	program, err := ResolveProgram(def.Program)
	if err != nil {
		return nil, err
	}

	ctxlog.Debug(ctx, "resolved program", "program", def.Program, "path", program)

	fe := runbatch.NewForEachCommand(
		runbatch.NewBaseCommand(def.Name, "", runbatch.RunOnAlways, maps.Clone(def.Env)),
		workscan.ListMatchingDirs(fsys, def.Pattern),
		mustMode(def.Mode),
		func(item string) runbatch.Runnable {
			return &runbatch.OSCommand{
				// One failing directory never stops the rest of the batch.
				BaseCommand: runbatch.NewBaseCommand(item, item, runbatch.RunOnAlways, nil),
				Path:        program,
				Args:        def.Args,
				OutputFile:  def.OutputFile,
			}
		},
	)

	return fe, nil
}

// mustMode converts a validated mode string. Definitions are validated
// before they reach here, so an unknown mode falls back to serial.
func mustMode(s string) runbatch.ForEachMode {
	mode, err := runbatch.NewForEachMode(s)
	if err != nil {
		return runbatch.ForEachSerial
	}

	return mode
}

// ResolveProgram locates an executable on the PATH. An input containing a
// path separator is treated as a path and returned absolute.
func ResolveProgram(program string) (string, error) {
	if program == "" {
		return "", fmt.Errorf("%w: empty program name", ErrProgramNotFound)
	}

	if strings.ContainsRune(program, os.PathSeparator) {
		abs, err := filepath.Abs(program)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrProgramNotFound, err)
		}

		if !isExecutable(abs) {
			return "", fmt.Errorf("%w: %s", ErrProgramNotFound, program)
		}

		return abs, nil
	}

	for _, p := range strings.Split(os.Getenv("PATH"), string(os.PathListSeparator)) {
		candidate := filepath.Join(p, program)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrProgramNotFound, program)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	if runtime.GOOS != "windows" && info.Mode()&0111 == 0 {
		return false
	}

	return true
}
