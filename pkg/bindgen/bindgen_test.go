// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package bindgen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/bunbind/pkg/types"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{Root: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{Root: t.TempDir(), Parser: "regex", Platform: "linux"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{Root: t.TempDir(), Platform: "plan9"})
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestNew_RejectsLayoutOutsideRoot(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"parent output dir", Config{OutputDir: "../out"}},
		{"nested parent output dir", Config{OutputDir: "mod/../../out"}},
		{"absolute output dir", Config{OutputDir: "/tmp/out"}},
		{"parent source dir", Config{SourceDir: "../rs"}},
		{"parent index", Config{IndexFile: "../index.ts"}},
		{"absolute bin dir", Config{BinDir: "/usr/lib"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Root = root
			cfg.Platform = "linux"
			_, err := New(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := New(Config{Root: root, Platform: "linux", OutputDir: "gen/mod", BinDir: "native/bin"})
	assert.NoError(t, err)
}

func TestGenerator_RunOnDisk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "rs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "rs", "add.rs"), []byte(
		"#[no_mangle]\npub extern \"C\" fn add(a: i32, b: i32) -> i32 { a + b }\n"), 0o644))

	gen, err := New(Config{Root: root, Platform: "windows"})
	require.NoError(t, err)

	res, err := gen.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.StatusSuccess, res.Status)
	assert.True(t, res.IndexChanged)

	binding, err := os.ReadFile(filepath.Join(root, "mod", "add.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(binding), "`add.${suffix}`")

	first, err := os.ReadFile(filepath.Join(root, "index.ts"))
	require.NoError(t, err)

	res, err = gen.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.IndexChanged)

	second, err := os.ReadFile(filepath.Join(root, "index.ts"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
