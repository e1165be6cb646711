// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matt-FFFFFF/dftbatch/internal/config"
	"github.com/matt-FFFFFF/dftbatch/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func mkWorkDirs(t *testing.T, names ...string) {
	t.Helper()

	for _, name := range names {
		require.NoError(t, os.MkdirAll(name, 0o755))
	}
}

func TestRunWritesOutputFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	mkWorkDirs(t, "mu_displaced/0", "mu_displaced/1")

	err := newRunCmd().Run(context.Background(), []string{
		"run",
		"--program", "sh",
		"--arg", "-c",
		"--arg", "echo hello",
		"mu_displaced/*",
	})
	require.NoError(t, err)

	for _, dir := range []string{"mu_displaced/0", "mu_displaced/1"} {
		data, err := os.ReadFile(filepath.Join(dir, config.DefaultOutputFile))
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(data))
	}
}

func TestRunWritesBinaryResults(t *testing.T) {
	t.Chdir(t.TempDir())
	mkWorkDirs(t, "work/a")

	err := newRunCmd().Run(context.Background(), []string{
		"run",
		"--program", "true",
		"--out", "results.bin",
		"work/*",
	})
	require.NoError(t, err)

	f, err := os.Open("results.bin")
	require.NoError(t, err)

	defer f.Close() //nolint:errcheck

	results, err := runbatch.ReadBinaryResults(f)
	require.NoError(t, err)
	assert.False(t, results.HasError())
}

func TestRunExitsNonZeroOnFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	mkWorkDirs(t, "work/a", "work/b")

	require.NoError(t, os.WriteFile("batch.yaml", []byte(`
name: failing batch
program: sh
args: ["-c", "exit 3"]
pattern: "work/*"
`), 0o644))

	err := newRunCmd().Run(context.Background(), []string{
		"run", "--config", "batch.yaml",
	})
	require.Error(t, err)

	var coder cli.ExitCoder
	require.ErrorAs(t, err, &coder)
	assert.Equal(t, 1, coder.ExitCode())

	// Both directories still ran despite the failures.
	for _, dir := range []string{"work/a", "work/b"} {
		_, err := os.Stat(filepath.Join(dir, config.DefaultOutputFile))
		assert.NoError(t, err)
	}
}

func TestRunUnknownProgram(t *testing.T) {
	t.Chdir(t.TempDir())

	err := newRunCmd().Run(context.Background(), []string{
		"run", "--program", "definitely-not-a-real-binary-name",
	})
	require.Error(t, err)
}

func TestDefinitionFromCmd(t *testing.T) {
	var def *config.Definition

	cmd := newRunCmd()
	cmd.Action = func(_ context.Context, c *cli.Command) error {
		var err error
		def, err = definitionFromCmd(c)

		return err
	}

	err := cmd.Run(context.Background(), []string{
		"run",
		"--program", "myprog",
		"--arg", "-v",
		"--output-file", "run.log",
		"--parallel",
		"--timeout", "90s",
		"custom/*",
	})
	require.NoError(t, err)
	require.NotNil(t, def)

	assert.Equal(t, "myprog", def.Program)
	assert.Equal(t, []string{"-v"}, def.Args)
	assert.Equal(t, "run.log", def.OutputFile)
	assert.Equal(t, "parallel", def.Mode)
	assert.Equal(t, "custom/*", def.Pattern)

	timeout, err := def.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, timeout)
}

func TestDefinitionFromCmdDefaults(t *testing.T) {
	var def *config.Definition

	cmd := newRunCmd()
	cmd.Action = func(_ context.Context, c *cli.Command) error {
		var err error
		def, err = definitionFromCmd(c)

		return err
	}

	require.NoError(t, cmd.Run(context.Background(), []string{"run"}))
	require.NotNil(t, def)

	assert.Equal(t, config.DefaultProgram, def.Program)
	assert.Equal(t, config.DefaultPattern, def.Pattern)
	assert.Equal(t, config.DefaultOutputFile, def.OutputFile)
}
