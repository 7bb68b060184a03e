// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import "strings"

// newEnvReplacer maps flag names to env var suffixes: log-level -> LOG_LEVEL.
func newEnvReplacer() *strings.Replacer {
	return strings.NewReplacer("-", "_")
}
