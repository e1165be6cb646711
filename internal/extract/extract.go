// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package extract scrapes scalar property values from the text output files
// that the external program leaves in each work directory. It knows nothing
// about the program's format beyond "a line containing a marker, with the
// value in a fixed whitespace-separated column".
package extract

import (
	"bufio"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

var (
	// ErrNoMatch is returned when no line in the output file matches the property marker.
	ErrNoMatch = errors.New("no line matching property marker")
	// ErrBadColumn is returned when the matched line has no parseable value at the requested column.
	ErrBadColumn = errors.New("no numeric value at requested column")
)

// Property describes where to find a scalar value in an output file.
type Property struct {
	// Name identifies the property in reports.
	Name string
	// Match is a substring selecting the line carrying the value.
	Match string
	// Column is the 1-based whitespace-separated field holding the value.
	Column int
}

// Value is one extracted datum, keyed by the directory it came from.
type Value struct {
	Dir   string
	Value float64
}

// FromFile scans a single output file and returns the property value from
// the last matching line. Programs that print the quantity repeatedly
// (e.g. once per SCF cycle) converge on the final value.
func FromFile(fsys afero.Fs, path string, prop Property) (float64, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	var (
		found bool
		value float64
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, prop.Match) {
			continue
		}

		fields := strings.Fields(line)
		if prop.Column > len(fields) {
			return 0, fmt.Errorf("%w: %q has %d fields, want column %d",
				ErrBadColumn, line, len(fields), prop.Column)
		}

		v, err := strconv.ParseFloat(fields[prop.Column-1], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrBadColumn, fields[prop.Column-1], err)
		}

		found = true
		value = v
	}

	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if !found {
		return 0, fmt.Errorf("%w: %q in %s", ErrNoMatch, prop.Match, path)
	}

	return value, nil
}

// FromDirs extracts the property from sourceFile inside each directory.
// Directories that fail to yield a value are collected into the returned
// multierror; extraction keeps going so that one bad directory does not
// hide the values of the others.
func FromDirs(fsys afero.Fs, dirs []string, sourceFile string, prop Property) ([]Value, error) {
	values := make([]Value, 0, len(dirs))

	var errs *multierror.Error

	for _, dir := range dirs {
		v, err := FromFile(fsys, filepath.Join(dir, sourceFile), prop)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}

		values = append(values, Value{Dir: dir, Value: v})
	}

	return values, errs.ErrorOrNil()
}
