// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package lang holds the types shared by every stage of the NL front end:
// source locations and the file system abstraction used to load sources.
package lang

import (
	"context"
	"fmt"
)

// Location is a position within a source file. Line and Column are 1-based,
// Offset is a 0-based byte offset.
type Location struct {
	Line   int32
	Column int32
	Offset int64
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

type Closer interface {
	Close(ctx context.Context) error
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

type FileBody interface {
	Reader
	Closer
}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	FileKindNL
	FileKindASTBinary
	FileKindASTJSON
)

func (k FileKind) String() string {
	switch k {
	case FileKindNone:
		return "none"
	case FileKindNL:
		return "nl"
	case FileKindASTBinary:
		return "nl-ast"
	case FileKindASTJSON:
		return "nl-ast-json"
	default:
		return fmt.Sprintf("unknown-%d", k)
	}
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}
