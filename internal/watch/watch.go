// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package watch triggers regeneration when Rust sources change.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Config configures a watch loop.
type Config struct {
	Dir      string        // Source directory to watch recursively
	Ext      string        // Only changes to files with this extension count
	Debounce time.Duration // Quiet period before firing (default 250ms)
	Logger   *slog.Logger
}

// Run watches cfg.Dir until ctx is done, calling onChange with the sorted,
// de-duplicated set of changed paths after each quiet period. Directories
// created while watching are added automatically.
func Run(ctx context.Context, cfg Config, onChange func(changed []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursive(watcher, cfg.Dir); err != nil {
		return err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
					if err := addRecursive(watcher, path); err != nil {
						log.Warn("cannot watch new directory", "path", path, "error", err)
					}
					continue
				}
			}
			if !Relevant(event, cfg.Ext) {
				continue
			}
			log.Debug("source changed", "path", path, "op", event.Op.String())
			pending[path] = true
			timer.Reset(debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = map[string]bool{}
			onChange(changed)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return watchErr
		}
	}
}

// Relevant reports whether an event should trigger regeneration.
func Relevant(event fsnotify.Event, ext string) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return ext == "" || filepath.Ext(event.Name) == ext
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && (entry.Name() == "target" || entry.Name() == ".git") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
