// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

//go:build aix || darwin || dragonfly || freebsd || (js && wasm) || linux || netbsd || openbsd || solaris

package compiler

import (
	"os"
	"path/filepath"
	"strings"
)

// getDefaultRoots returns the "nl" directory below XDG_DATA_HOME followed by
// one below every entry of XDG_DATA_DIRS.
func getDefaultRoots(lookup func(string) (string, bool)) []string {
	expand := func(s string) string {
		v, _ := lookup(s)
		return v
	}
	roots := make([]string, 0, 3)
	if home, ok := lookup("XDG_DATA_HOME"); ok && home != "" {
		roots = append(roots, filepath.Join(os.Expand(home, expand), "nl"))
	}
	xdgDirs, ok := lookup("XDG_DATA_DIRS")
	if !ok || xdgDirs == "" {
		xdgDirs = "/usr/local/share/:/usr/share/"
	}
	for _, dataDir := range strings.Split(xdgDirs, ":") {
		if dataDir == "" {
			continue
		}
		roots = append(roots, filepath.Join(os.Expand(dataDir, expand), "nl"))
	}
	return roots
}
