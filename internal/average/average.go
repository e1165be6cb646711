// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package average computes weighted means of per-directory property values
// and writes a plain-text report, one line per configuration plus the
// averaged result.
package average

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matt-FFFFFF/dftbatch/internal/extract"
	"github.com/spf13/afero"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNoValues is returned when there is nothing to average.
	ErrNoValues = errors.New("no values to average")
	// ErrWeightCount is returned when the number of weights does not match the number of values.
	ErrWeightCount = errors.New("weight count does not match value count")
	// ErrBadWeight is returned when a weights file entry is not a number.
	ErrBadWeight = errors.New("invalid weight")
)

// Mean computes the weighted mean of the extracted values. A nil weights
// slice means uniform weighting. Weights are normalized by gonum, so they
// need not sum to one.
func Mean(values []extract.Value, weights []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoValues
	}

	if weights != nil && len(weights) != len(values) {
		return 0, fmt.Errorf("%w: %d weights for %d values", ErrWeightCount, len(weights), len(values))
	}

	xs := make([]float64, len(values))
	for i, v := range values {
		xs[i] = v.Value
	}

	return stat.Mean(xs, weights), nil
}

// LoadWeights reads one weight per configuration from a text file.
// Whitespace separates entries; blank lines and lines starting with '#'
// are ignored, so the file may carry a short header.
func LoadWeights(fsys afero.Fs, path string) ([]float64, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open weights file %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	var weights []float64

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		for _, field := range strings.Fields(line) {
			w, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q in %s", ErrBadWeight, field, path)
			}

			weights = append(weights, w)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read weights file %s: %w", path, err)
	}

	return weights, nil
}

// WriteReport writes the averaging report: the property name, the averaged
// value, then every configuration's value and weight.
func WriteReport(w io.Writer, property string, values []extract.Value, weights []float64, mean float64) error {
	if _, err := fmt.Fprintf(w, "Average of %s over %d configurations.\n\n", property, len(values)); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Averaged value:\n\n%.10g\n\nAll values, by configuration:\n\n", mean); err != nil {
		return err
	}

	for i, v := range values {
		weight := 1.0 / float64(len(values))
		if weights != nil {
			weight = weights[i]
		}

		if _, err := fmt.Fprintf(w, "Conf: %s (Weight = %g)\n%.10g\n\n", v.Dir, weight, v.Value); err != nil {
			return err
		}
	}

	return nil
}
