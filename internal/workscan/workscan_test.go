// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workscan

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFs(t *testing.T, dirs []string, files []string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for _, d := range dirs {
		require.NoError(t, fsys.MkdirAll(d, 0o755))
	}

	for _, f := range files {
		require.NoError(t, afero.WriteFile(fsys, f, []byte("x"), 0o644))
	}

	return fsys
}

func TestListMatchingDirsSorted(t *testing.T) {
	fsys := newTestFs(t,
		[]string{"/base/mu_displaced/2", "/base/mu_displaced/0", "/base/mu_displaced/1"},
		nil,
	)

	provider := ListMatchingDirs(fsys, "mu_displaced/*")

	items, err := provider(context.Background(), "/base")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/base/mu_displaced/0",
		"/base/mu_displaced/1",
		"/base/mu_displaced/2",
	}, items)
}

func TestListMatchingDirsExcludesFiles(t *testing.T) {
	fsys := newTestFs(t,
		[]string{"/base/runs/a"},
		[]string{"/base/runs/notes.txt"},
	)

	provider := ListMatchingDirs(fsys, "runs/*")

	items, err := provider(context.Background(), "/base")
	require.NoError(t, err)
	assert.Equal(t, []string{"/base/runs/a"}, items)
}

func TestListMatchingDirsNoMatches(t *testing.T) {
	fsys := newTestFs(t, []string{"/base"}, nil)

	provider := ListMatchingDirs(fsys, "missing/*")

	items, err := provider(context.Background(), "/base")
	require.NoError(t, err, "no matches is not an error")
	assert.Empty(t, items)
}

func TestListMatchingDirsAbsolutePattern(t *testing.T) {
	fsys := newTestFs(t, []string{"/elsewhere/x", "/elsewhere/y"}, nil)

	provider := ListMatchingDirs(fsys, "/elsewhere/*")

	items, err := provider(context.Background(), "/base")
	require.NoError(t, err)
	assert.Equal(t, []string{"/elsewhere/x", "/elsewhere/y"}, items)
}

func TestListMatchingDirsCancelledContext(t *testing.T) {
	fsys := newTestFs(t, []string{"/base/a"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := ListMatchingDirs(fsys, "*")

	_, err := provider(ctx, "/base")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListDirectoriesDepth(t *testing.T) {
	fsys := newTestFs(t,
		[]string{"/base/a/deep/deeper", "/base/b", "/base/.hidden/c"},
		nil,
	)

	provider := ListDirectoriesDepth(fsys, 1, HiddenExclude)

	items, err := provider(context.Background(), "/base")
	require.NoError(t, err)
	assert.Equal(t, []string{"/base/a", "/base/b"}, items)
}

func TestListDirectoriesDepthIncludeHidden(t *testing.T) {
	fsys := newTestFs(t, []string{"/base/.hidden", "/base/a"}, nil)

	provider := ListDirectoriesDepth(fsys, 1, HiddenInclude)

	items, err := provider(context.Background(), "/base")
	require.NoError(t, err)
	assert.Equal(t, []string{"/base/.hidden", "/base/a"}, items)
}
