// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Config{Level: "warn", Output: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("no exported functions", "path", "rs/empty.rs")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "path=rs/empty.rs")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.Info("done", "modules", 2)
	assert.Contains(t, buf.String(), `"modules":2`)
}

func TestNew_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bunbind.log")
	logger, closer, err := New(Config{LogFile: path})
	require.NoError(t, err)

	logger.Error("boom")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "boom")
}

func TestNew_Invalid(t *testing.T) {
	_, _, err := New(Config{Level: "loud"})
	assert.Error(t, err)

	_, _, err = New(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}
