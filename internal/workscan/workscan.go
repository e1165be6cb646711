// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workscan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matt-FFFFFF/dftbatch/internal/runbatch"
	"github.com/spf13/afero"
)

// IncludeHidden is a type that indicates whether to include hidden directories.
type IncludeHidden bool

var (
	// HiddenInclude tells the scanner to include hidden directories.
	HiddenInclude = IncludeHidden(true)
	// HiddenExclude tells the scanner to exclude hidden directories.
	HiddenExclude = IncludeHidden(false)
)

// ListMatchingDirs is an item provider that lists directories matching a glob
// pattern. Relative patterns are resolved against the provided working
// directory. Matches that are not directories are dropped, and the result is
// sorted lexicographically so that iteration order is a stable, documented
// contract rather than filesystem happenstance.
func ListMatchingDirs(fsys afero.Fs, pattern string) runbatch.ItemsProviderFunc {
	return func(ctx context.Context, workingDirectory string) ([]string, error) {
		searchPattern := pattern
		if !filepath.IsAbs(pattern) {
			searchPattern = filepath.Join(workingDirectory, pattern)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		matches, err := afero.Glob(fsys, searchPattern)
		if err != nil {
			return nil, fmt.Errorf("failed to list directories with pattern %s: %w", pattern, err)
		}

		dirs := make([]string, 0, len(matches))

		for _, m := range matches {
			info, err := fsys.Stat(m)
			if err != nil {
				return nil, fmt.Errorf("failed to stat %s: %w", m, err)
			}

			if !info.IsDir() {
				continue
			}

			dirs = append(dirs, m)
		}

		sort.Strings(dirs)

		return dirs, nil
	}
}

// ListDirectoriesDepth is an item provider that lists all directories under
// the working directory up to the given depth. A depth of 0 means no limit.
func ListDirectoriesDepth(fsys afero.Fs, depth int, includeHidden IncludeHidden) runbatch.ItemsProviderFunc {
	return func(ctx context.Context, workingDirectory string) ([]string, error) {
		var dirs []string

		err := afero.Walk(fsys, workingDirectory, func(path string, info fs.FileInfo, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err != nil {
				return err
			}

			if !info.IsDir() || path == workingDirectory {
				return nil
			}

			if !bool(includeHidden) && strings.HasPrefix(filepath.Base(path), ".") {
				return filepath.SkipDir
			}

			relPath, err := filepath.Rel(workingDirectory, path)
			if err != nil {
				return fmt.Errorf("failed to get relative path for %s: %w", path, err)
			}

			if depth > 0 && strings.Count(relPath, string(os.PathSeparator)) > depth-1 {
				return filepath.SkipDir // Skip directories deeper than specified depth
			}

			dirs = append(dirs, path)

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list directories in %s: %w", workingDirectory, err)
		}

		sort.Strings(dirs)

		return dirs, nil
	}
}
