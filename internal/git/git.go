// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git commits generated binding artifacts and undoes such commits.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	generatedTrailer = "Generated-By: bunbind"
	authorName       = "bunbind"
	authorEmail      = "noreply@bunbind"
)

// ErrNotBunbindCommit is returned when undo targets a commit not made by bunbind.
var ErrNotBunbindCommit = errors.New("not a bunbind commit")

// ErrDirtyIndex is returned when the shared index has uncommitted edits that
// a bunbind commit would sweep in.
var ErrDirtyIndex = errors.New("index has uncommitted changes")

// ErrNoGit is returned when the working directory is not inside a git repository.
var ErrNoGit = errors.New("not a git repository")

// Config configures git integration.
type Config struct {
	WorkDir string // Any directory inside the repository
}

// Repo wraps a go-git repository for the operations we need.
type Repo struct {
	repo *gogit.Repository
	root string
}

// Open opens the repository containing the configured directory, searching
// parent directories for .git. Returns ErrNoGit if there is none.
func Open(cfg Config) (*Repo, error) {
	r, err := gogit.PlainOpenWithOptions(cfg.WorkDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	return &Repo{repo: r, root: wt.Filesystem.Root()}, nil
}

// Root returns the worktree root directory.
func (r *Repo) Root() string { return r.root }

// IsDirty returns true if the working tree has uncommitted changes
// (either staged or unstaged). With paths it considers only those files;
// files that were never committed do not count.
func (r *Repo) IsDirty(paths ...string) (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting status: %w", err)
	}

	if len(paths) == 0 {
		return !status.IsClean(), nil
	}
	for _, p := range paths {
		rel, err := r.relPath(p)
		if err != nil {
			return false, err
		}
		fs, ok := status[rel]
		if !ok || fs.Worktree == gogit.Untracked {
			continue
		}
		if fs.Worktree != gogit.Unmodified || fs.Staging != gogit.Unmodified {
			return true, nil
		}
	}
	return false, nil
}

// IsBunbindCommit checks whether the HEAD commit was made by bunbind by
// looking for the Generated-By trailer.
func (r *Repo) IsBunbindCommit() (bool, error) {
	msg, err := r.lastCommitMessage()
	if err != nil {
		return false, err
	}
	return strings.Contains(msg, generatedTrailer), nil
}

// relPath converts a path to the slash-separated form go-git expects,
// relative to the worktree root.
func (r *Repo) relPath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path), nil
	}
	abs, err := filepath.EvalSymlinks(path)
	if err != nil {
		abs = path
	}
	root, err := filepath.EvalSymlinks(r.root)
	if err != nil {
		root = r.root
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the repository", path)
	}
	return filepath.ToSlash(rel), nil
}

// lastCommitMessage returns the message of the HEAD commit.
func (r *Repo) lastCommitMessage() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("getting commit: %w", err)
	}
	return commit.Message, nil
}

// commitCount returns the total number of commits reachable from HEAD.
func (r *Repo) commitCount() (int, error) {
	iter, err := r.repo.Log(&gogit.LogOptions{})
	if err != nil {
		return 0, err
	}
	count := 0
	err = iter.ForEach(func(c *object.Commit) error {
		count++
		return nil
	})
	return count, err
}
