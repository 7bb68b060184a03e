// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/petar-djukic/bunbind/pkg/types"
)

// skipDirs contains directory names that Discover never descends into.
var skipDirs = map[string]bool{
	".git":         true,
	"target":       true,
	"node_modules": true,
}

// Discover walks srcRoot and returns every file with the given extension as
// a SourceModule, sorted by path. Files matched by a .gitignore at srcRoot
// are skipped.
func Discover(fs afero.Fs, srcRoot, ext string) ([]types.SourceModule, error) {
	info, err := fs.Stat(srcRoot)
	if err != nil {
		return nil, fmt.Errorf("stat source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", srcRoot)
	}

	ignorer := loadGitignore(fs, srcRoot)

	var modules []types.SourceModule
	err = afero.Walk(fs, srcRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if info.IsDir() {
			if skipDirs[info.Name()] && path != srcRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ext {
			return nil
		}
		relPath, relErr := filepath.Rel(srcRoot, path)
		if relErr != nil {
			relPath = path
		}
		if ignorer.isIgnored(relPath) {
			return nil
		}
		modules = append(modules, types.SourceModule{
			Path:     path,
			RelDir:   filepath.Dir(relPath),
			BaseName: strings.TrimSuffix(filepath.Base(path), ext),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking source directory: %w", err)
	}

	sort.Slice(modules, func(i, j int) bool { return modules[i].Path < modules[j].Path })
	return modules, nil
}

// gitignorer provides simple .gitignore matching.
type gitignorer struct {
	patterns []string
}

// loadGitignore reads .gitignore from the root directory. A missing file
// yields an ignorer that matches nothing.
func loadGitignore(fs afero.Fs, root string) gitignorer {
	data, err := afero.ReadFile(fs, filepath.Join(root, ".gitignore"))
	if err != nil {
		return gitignorer{}
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return gitignorer{patterns: patterns}
}

// isIgnored checks a relative path against the patterns: directory prefixes
// and filepath.Match globs only.
func (g gitignorer) isIgnored(relPath string) bool {
	for _, pattern := range g.patterns {
		dirPattern := strings.TrimSuffix(pattern, "/")

		for _, part := range strings.Split(relPath, string(filepath.Separator)) {
			if matched, _ := filepath.Match(dirPattern, part); matched {
				return true
			}
		}
		if matched, _ := filepath.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}
