// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package target

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Normalize converts a compile target into the form expected by the file
// systems.
//
// Targets may be file paths or URIs. File paths and file URIs become clean,
// slash separated, rooted paths. Any other URI is returned unchanged for a
// FileSystem that understands its scheme.
func Normalize(target string) string {
	u, err := url.Parse(target)
	if err == nil && u.Scheme != "" && u.Scheme != "file" && len(u.Scheme) > 1 {
		return target
	}
	if err == nil && u.Scheme == "file" {
		target = u.Path
	}
	target = filepath.ToSlash(target)
	if vol := filepath.VolumeName(target); vol != "" {
		target = strings.TrimPrefix(target, vol)
	}
	return path.Join("/", target)
}
