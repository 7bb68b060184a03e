// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	gitpkg "github.com/petar-djukic/bunbind/internal/git"
	"github.com/petar-djukic/bunbind/internal/watch"
)

// newWatchCmd creates the "watch" command.
func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate bindings whenever a Rust source changes",
		RunE:  runWatch,
	}
	cmd.Flags().Duration("debounce", 250*time.Millisecond, "Quiet period before regenerating")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, _ := cmd.Flags().GetDuration("debounce")

	logger, closer, err := newLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	regenerate := func() {
		result, err := generateOnce(ctx, logger, false)
		if err != nil {
			logger.Error("generation failed", "error", err)
			return
		}
		printSummary(cmd.OutOrStdout(), result)
	}

	regenerate()

	srcDir := filepath.Join(viper.GetString("root"), viper.GetString("source-dir"))
	fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", srcDir)
	return watch.Run(ctx, watch.Config{
		Dir:      srcDir,
		Ext:      ".rs",
		Debounce: debounce,
		Logger:   logger,
	}, func(changed []string) {
		logger.Info("sources changed", "paths", strings.Join(changed, ","))
		regenerate()
	})
}

// newUndoCmd creates the "undo" command.
func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last bunbind commit",
		Long:  "Undo performs a soft reset of the last commit if it was made by bunbind generate --commit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := gitpkg.Open(gitpkg.Config{WorkDir: viper.GetString("root")})
			if err != nil {
				return fmt.Errorf("opening repository: %w", err)
			}

			if err := repo.Undo(); err != nil {
				return fmt.Errorf("undo failed: %w", err)
			}

			fmt.Println("Successfully reverted last bunbind commit.")
			return nil
		},
	}
}
