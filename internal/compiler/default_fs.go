// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"path/filepath"

	"gopkg.nlang.org/compiler.go/internal/exc"
	"gopkg.nlang.org/compiler.go/internal/fs"
	"gopkg.nlang.org/compiler.go/internal/lang"
)

// NewDefaultFS searches the system wide NL data directories.
func NewDefaultFS(lookup func(string) (string, bool)) (lang.FileSystem, error) {
	f, err := NewRootsFS(getDefaultRoots(lookup))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// NewRootsFS layers a local file system for each root, searched in order.
func NewRootsFS(roots []string) (fs.FileSystemMulti, error) {
	f := make(fs.FileSystemMulti, 0, len(roots))
	for _, root := range roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			return nil, exc.WrapUnknown(exc.Location{URI: root}, errAbs)
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			return nil, err
		}
		f = append(f, rf)
	}
	return f, nil
}
