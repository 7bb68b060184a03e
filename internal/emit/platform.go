// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package emit

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrUnsupportedPlatform is returned for any target outside the known
// library naming conventions. There is deliberately no fallback.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Platform is the closed set of targets whose dynamic-library naming is known.
type Platform int

const (
	Windows Platform = iota + 1 // <name>.dll
	Linux                       // lib<name>.so
	Darwin                      // lib<name>.dylib
)

func (p Platform) String() string {
	switch p {
	case Windows:
		return "windows"
	case Linux:
		return "linux"
	case Darwin:
		return "darwin"
	default:
		return fmt.Sprintf("Platform(%d)", int(p))
	}
}

// ParsePlatform maps a GOOS-style name to a Platform. An empty name selects
// the host platform.
func ParsePlatform(name string) (Platform, error) {
	if name == "" {
		name = runtime.GOOS
	}
	switch name {
	case "windows", "win32":
		return Windows, nil
	case "linux":
		return Linux, nil
	case "darwin", "macos":
		return Darwin, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, name)
	}
}

// LibraryFile returns the dynamic-library file name for a module as a
// TypeScript template literal body; ${suffix} is resolved by bun:ffi at load
// time.
func (p Platform) LibraryFile(baseName string) (string, error) {
	switch p {
	case Windows:
		return baseName + ".${suffix}", nil
	case Linux, Darwin:
		return "lib" + baseName + ".${suffix}", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, p)
	}
}
