// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	gitpkg "github.com/petar-djukic/bunbind/internal/git"
	"github.com/petar-djukic/bunbind/internal/logging"
	"github.com/petar-djukic/bunbind/pkg/bindgen"
	"github.com/petar-djukic/bunbind/pkg/types"
)

// errFailed marks a run whose status is failed.
var errFailed = errors.New("generation failed")

// newGenerateCmd creates the "generate" command.
func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate bindings and update the shared index",
		Long: "Generate extracts every exported function from the Rust sources, overwrites the\n" +
			"binding modules, and appends new re-exports to the shared index without touching\n" +
			"existing lines.",
		RunE: runGenerate,
	}

	cmd.Flags().Bool("dry-run", false, "Report what would change without writing")
	cmd.Flags().Bool("commit", false, "Commit the generated files with git")
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	viper.BindPFlag("dry-run", cmd.Flags().Lookup("dry-run"))
	viper.BindPFlag("commit", cmd.Flags().Lookup("commit"))

	return cmd
}

// runGenerate executes one generation pass.
func runGenerate(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	logger, closer, err := newLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	commit := viper.GetBool("commit") && !viper.GetBool("dry-run")
	root := viper.GetString("root")
	var repo *gitpkg.Repo
	if commit {
		repo, err = prepareCommit(root, filepath.Join(root, viper.GetString("index-file")))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return err
		}
	}

	result, err := generateOnce(ctx, logger, viper.GetBool("dry-run"))
	if result != nil {
		if asJSON {
			printJSON(cmd.OutOrStdout(), result)
		} else {
			printSummary(cmd.OutOrStdout(), result)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	if commit {
		if err := commitResult(repo, root, result); err != nil {
			return fmt.Errorf("commit failed: %w", err)
		}
	}
	return nil
}

// generateOnce builds a Generator from viper settings and runs it.
func generateOnce(ctx context.Context, logger *slog.Logger, dryRun bool) (*bindgen.Result, error) {
	gen, err := bindgen.New(configFromViper(logger, dryRun))
	if err != nil {
		return nil, fmt.Errorf("initialization failed: %w", err)
	}
	result, err := gen.Run(ctx)
	if err != nil {
		return result, err
	}
	if result.Status == types.StatusFailed {
		return result, errFailed
	}
	return result, nil
}

func configFromViper(logger *slog.Logger, dryRun bool) bindgen.Config {
	return bindgen.Config{
		Root:        viper.GetString("root"),
		SourceDir:   viper.GetString("source-dir"),
		OutputDir:   viper.GetString("output-dir"),
		IndexFile:   viper.GetString("index-file"),
		BinDir:      viper.GetString("bin-dir"),
		Platform:    viper.GetString("platform"),
		Parser:      viper.GetString("parser"),
		Concurrency: viper.GetInt("concurrency"),
		DryRun:      dryRun,
		Logger:      logger,
	}
}

func newLogger() (*slog.Logger, io.Closer, error) {
	return logging.New(logging.Config{
		Level:   viper.GetString("log-level"),
		Format:  viper.GetString("log-format"),
		LogFile: viper.GetString("log-file"),
	})
}

// prepareCommit opens the repository and refuses to continue when the shared
// index carries uncommitted edits, which the bunbind commit would include.
func prepareCommit(root, indexPath string) (*gitpkg.Repo, error) {
	repo, err := gitpkg.Open(gitpkg.Config{WorkDir: root})
	if err != nil {
		return nil, err
	}
	dirty, err := repo.IsDirty(absPath(indexPath))
	if err != nil {
		return nil, err
	}
	if dirty {
		return nil, fmt.Errorf("%w: commit or revert %s before using --commit", gitpkg.ErrDirtyIndex, indexPath)
	}
	return repo, nil
}

// commitResult commits the written bindings and the index.
func commitResult(repo *gitpkg.Repo, root string, result *bindgen.Result) error {
	var files []string
	for _, w := range result.Written {
		files = append(files, absPath(filepath.Join(root, w)))
	}
	if result.IndexChanged {
		files = append(files, absPath(result.IndexPath))
	}
	if len(files) == 0 {
		return nil
	}

	skipped := 0
	for _, d := range result.Diagnostics {
		if d.Severity == types.Error {
			skipped++
		}
	}
	committed, err := repo.Commit(files, gitpkg.Summary{Bindings: len(result.Written), Skipped: skipped})
	if err != nil {
		return err
	}
	if committed {
		fmt.Println("Committed generated bindings.")
	}
	return nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// printSummary writes a human-readable result.
func printSummary(w io.Writer, result *bindgen.Result) {
	for _, d := range result.Diagnostics {
		fmt.Fprintln(w, d.String())
	}
	for _, b := range result.Bindings {
		fmt.Fprintf(w, "%s: %s\n", b.ImportPath, strings.Join(b.Names, ", "))
	}
	if result.IndexDiff != "" {
		fmt.Fprintf(w, "--- %s\n%s", result.IndexPath, result.IndexDiff)
	}
	fmt.Fprintf(w, "status: %s (%d modules, %d bindings, index changed: %t)\n",
		result.Status, result.Modules, len(result.Bindings), result.IndexChanged)
}

// printJSON outputs the result as JSON.
func printJSON(w io.Writer, result *bindgen.Result) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling result: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(out))
}
