// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.nlang.org/compiler.go/internal/exc"
	"gopkg.nlang.org/compiler.go/internal/lang"
)

var _ lang.FileSystem = (*FileSystemMemory)(nil)

// FileSystemMemory is a FileSystem held entirely in memory. Opening a
// directory returns every file with a known extension directly below it.
type FileSystemMemory struct {
	lock  sync.RWMutex
	files map[string]string
}

// NewFileSystemMemory creates an in-memory FileSystem seeded with the given
// path to content mapping.
func NewFileSystemMemory(files map[string]string) *FileSystemMemory {
	m := &FileSystemMemory{files: make(map[string]string, len(files))}
	for path, content := range files {
		m.files[relativePath(path)] = content
	}
	return m
}

func (m *FileSystemMemory) Open(ctx context.Context, uri string) ([]lang.File, error) {
	p := relativePath(uri)
	m.lock.RLock()
	defer m.lock.RUnlock()
	if content, ok := m.files[p]; ok {
		return []lang.File{NewFileString("/"+p, content, KindOf(p))}, nil
	}
	prefix := ""
	if p != "." {
		prefix = p + "/"
	}
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		if !strings.HasPrefix(name, prefix) || strings.Contains(name[len(prefix):], "/") {
			continue
		}
		if KindOf(name) == lang.FileKindNone {
			continue
		}
		names = append(names, name)
	}
	if len(names) < 1 {
		return nil, exc.New(exc.Location{URI: "/" + p}, exc.CodeFileNotFound, fmt.Sprintf("%s not found", uri))
	}
	sort.Strings(names)
	files := make([]lang.File, 0, len(names))
	for _, name := range names {
		files = append(files, NewFileString("/"+name, m.files[name], KindOf(name)))
	}
	return files, nil
}

func (m *FileSystemMemory) Write(ctx context.Context, uri string, content string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.files[relativePath(uri)] = content
	return nil
}

// Content returns the content written at a path.
func (m *FileSystemMemory) Content(uri string) (string, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	content, ok := m.files[relativePath(uri)]
	return content, ok
}
