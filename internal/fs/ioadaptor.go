// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"io"

	"gopkg.nlang.org/compiler.go/internal/exc"
	"gopkg.nlang.org/compiler.go/internal/lang"
)

func bodyFromIO(v io.ReadCloser) lang.FileBody {
	return &ioFileBody{rc: v}
}

// ioFileBody adapts an io.ReadCloser to lang.FileBody. End of input is
// signalled with an exception carrying exc.CodeEOF.
type ioFileBody struct {
	rc io.ReadCloser
	b  []byte
}

func (self *ioFileBody) Read(ctx context.Context, size int32) ([]byte, error) {
	if len(self.b) < int(size) {
		self.b = make([]byte, size)
	}
	count, err := io.ReadFull(self.rc, self.b[:size])
	switch err {
	case nil:
		return self.b[:count], nil
	case io.EOF, io.ErrUnexpectedEOF:
		return self.b[:count], exc.Wrap(exc.Location{}, exc.CodeEOF, io.EOF)
	default:
		return nil, exc.WrapUnknown(exc.Location{}, err)
	}
}

func (self *ioFileBody) Close(ctx context.Context) error {
	return self.rc.Close()
}
