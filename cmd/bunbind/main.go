// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command bunbind generates Bun FFI TypeScript bindings for the C-ABI
// functions exported by a tree of Rust sources.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "bunbind",
		Short: "Generate bun:ffi bindings from Rust sources",
		Long: "bunbind scans <root>/rs for functions exported with pub extern, writes one TypeScript\n" +
			"binding module per source file under <root>/mod, and merges them into <root>/index.ts.",
		SilenceUsage: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().String("root", "lib", "Library root directory")
	rootCmd.PersistentFlags().String("source-dir", "rs", "Rust source directory under the root")
	rootCmd.PersistentFlags().String("output-dir", "mod", "Binding output directory under the root")
	rootCmd.PersistentFlags().String("index-file", "index.ts", "Shared entry point under the root")
	rootCmd.PersistentFlags().String("bin-dir", "bin", "Compiled library directory under the root")
	rootCmd.PersistentFlags().String("platform", "", "Target platform: windows, linux or darwin (default: host)")
	rootCmd.PersistentFlags().String("parser", "lexical", "Signature parser: lexical or tree-sitter")
	rootCmd.PersistentFlags().Int("concurrency", 0, "Modules processed in parallel (default: NumCPU)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().String("log-file", "", "Append logs to this file instead of stderr")

	// Bind flags to viper.
	for _, name := range []string{
		"root", "source-dir", "output-dir", "index-file", "bin-dir",
		"platform", "parser", "concurrency", "log-level", "log-format", "log-file",
	} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	// Env vars: BUNBIND_ROOT, BUNBIND_PLATFORM, etc.
	viper.SetEnvPrefix("BUNBIND")
	viper.SetEnvKeyReplacer(newEnvReplacer())
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".bunbind")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print bunbind version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bunbind %s\n", version)
		},
	}
}
