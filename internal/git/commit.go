// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit stages only the given generated files and commits them. It returns
// false without committing when none of the files changed.
func (r *Repo) Commit(files []string, summary Summary) (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	var rels []string
	for _, f := range files {
		rel, err := r.relPath(f)
		if err != nil {
			return false, err
		}
		if _, err := wt.Add(rel); err != nil {
			return false, fmt.Errorf("staging %s: %w", rel, err)
		}
		rels = append(rels, rel)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting status: %w", err)
	}
	staged := false
	for _, rel := range rels {
		s := status.File(rel)
		if s.Staging != gogit.Unmodified && s.Staging != gogit.Untracked {
			staged = true
			break
		}
	}
	if !staged {
		return false, nil
	}

	summary.Files = rels
	_, err = wt.Commit(GenerateMessage(summary), &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return false, fmt.Errorf("committing: %w", err)
	}
	return true, nil
}

// Undo reverts the last commit if it was made by bunbind. It uses a soft
// reset so the generated files stay in the working tree.
func (r *Repo) Undo() error {
	ok, err := r.IsBunbindCommit()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotBunbindCommit
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return fmt.Errorf("getting commit: %w", err)
	}

	if commit.NumParents() == 0 {
		return fmt.Errorf("cannot undo: HEAD is the initial commit")
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return fmt.Errorf("getting parent commit: %w", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	err = wt.Reset(&gogit.ResetOptions{
		Commit: parent.Hash,
		Mode:   gogit.SoftReset,
	})
	if err != nil {
		return fmt.Errorf("resetting to parent: %w", err)
	}

	return nil
}
