// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"gopkg.nlang.org/compiler.go/internal/exc"
	"gopkg.nlang.org/compiler.go/internal/lang"
)

// NewFileString wraps static string content in lang.File.
func NewFileString(path string, content string, kind lang.FileKind) lang.File {
	return NewFileFN(path, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}, kind)
}

type fileIOFunc struct {
	path string
	kind lang.FileKind
	body func() (io.ReadCloser, error)
}

// NewFileFN wraps file based content in the lang.File interface. The body
// function is called for every call to Body so it must return a fresh
// io.ReadCloser each time.
func NewFileFN(path string, body func() (io.ReadCloser, error), kind lang.FileKind) lang.File {
	return &fileIOFunc{
		path: path,
		kind: kind,
		body: body,
	}
}

func (f *fileIOFunc) Path(ctx context.Context) string {
	return f.path
}

func (f *fileIOFunc) Kind(ctx context.Context) lang.FileKind {
	return f.kind
}

func (f *fileIOFunc) Body(ctx context.Context) (lang.FileBody, error) {
	rc, err := f.body()
	if err != nil {
		return nil, fsErr(f.path, err)
	}
	return bodyFromIO(&bufioReaderCloser{
		Reader: bufio.NewReader(rc),
		Closer: rc,
	}), nil
}

type bufioReaderCloser struct {
	*bufio.Reader
	io.Closer
}

const readChunk = 32 * 1024

// ReadAll drains the body of a file. The parser works on whole buffers so
// every sub-compiler starts here.
func ReadAll(ctx context.Context, file lang.File) ([]byte, error) {
	body, err := file.Body(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close(ctx)
	var out []byte
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := body.Read(ctx, readChunk)
		out = append(out, b...)
		var e exc.Exception
		if errors.As(err, &e) && e.Code() == exc.CodeEOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
