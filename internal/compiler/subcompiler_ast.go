// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"

	"gopkg.nlang.org/compiler.go/internal/compiler/nl"
	"gopkg.nlang.org/compiler.go/internal/exc"
	"gopkg.nlang.org/compiler.go/internal/export"
	"gopkg.nlang.org/compiler.go/internal/fs"
	"gopkg.nlang.org/compiler.go/internal/lang"
)

// SubCompilerAST loads a tree that was previously exported in either the
// binary or the JSON encoding.
type SubCompilerAST struct{}

func (self *SubCompilerAST) CompileFile(ctx context.Context, r exc.Reporter, file lang.File) (*nl.File, error) {
	path := file.Path(ctx)
	b, err := fs.ReadAll(ctx, file)
	if err != nil {
		return nil, r.Report(asException(path, err))
	}
	parsed, err := export.Decode(b, file.Kind(ctx), path)
	if err != nil {
		return nil, r.Report(asException(path, err))
	}
	return parsed, nil
}
