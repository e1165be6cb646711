// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package average

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func writeOutput(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dftb.out"), []byte(content), 0o644))
}

func TestAverageFromFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	writeOutput(t, "mu_displaced/0", "Total energy: -1.0 H\n")
	writeOutput(t, "mu_displaced/1", "Total energy: -3.0 H\n")

	err := newAverageCmd().Run(context.Background(), []string{
		"average",
		"--match", "Total energy:",
		"--column", "3",
		"--report", "averages.dat",
		"mu_displaced/*",
	})
	require.NoError(t, err)

	report, err := os.ReadFile("averages.dat")
	require.NoError(t, err)
	assert.Contains(t, string(report), "-2\n")
	assert.Contains(t, string(report), "Conf: ")
}

func TestAverageFromConfigProperty(t *testing.T) {
	t.Chdir(t.TempDir())
	writeOutput(t, "work/a", "Total energy: -2.0 H\n")

	require.NoError(t, os.WriteFile("batch.yaml", []byte(`
name: avg test
pattern: "work/*"
properties:
  - name: total_energy
    match: "Total energy:"
    column: 3
`), 0o644))

	err := newAverageCmd().Run(context.Background(), []string{
		"average", "--config", "batch.yaml",
	})
	require.NoError(t, err)

	report, err := os.ReadFile("averages.dat")
	require.NoError(t, err)
	assert.Contains(t, string(report), "Average of total_energy")
}

func TestAverageWithWeights(t *testing.T) {
	t.Chdir(t.TempDir())
	writeOutput(t, "work/a", "Total energy: -1.0 H\n")
	writeOutput(t, "work/b", "Total energy: -3.0 H\n")

	require.NoError(t, os.WriteFile("weights.dat", []byte("3 1\n"), 0o644))

	err := newAverageCmd().Run(context.Background(), []string{
		"average",
		"--match", "Total energy:",
		"--column", "3",
		"--weights", "weights.dat",
		"work/*",
	})
	require.NoError(t, err)

	report, err := os.ReadFile("averages.dat")
	require.NoError(t, err)
	assert.Contains(t, string(report), "-1.5\n")
}

func TestAverageNoValues(t *testing.T) {
	t.Chdir(t.TempDir())

	err := newAverageCmd().Run(context.Background(), []string{
		"average", "--match", "x", "--column", "1", "empty/*",
	})
	require.Error(t, err)

	var coder cli.ExitCoder
	require.ErrorAs(t, err, &coder)
	assert.Equal(t, 1, coder.ExitCode())
}

func TestAverageMissingMatch(t *testing.T) {
	t.Chdir(t.TempDir())

	err := newAverageCmd().Run(context.Background(), []string{"average"})
	require.Error(t, err)
}
