// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"

	"gopkg.nlang.org/compiler.go/internal/compiler/nl"
	"gopkg.nlang.org/compiler.go/internal/exc"
	"gopkg.nlang.org/compiler.go/internal/fs"
	"gopkg.nlang.org/compiler.go/internal/lang"
)

// SubCompilerNL parses NL source text.
type SubCompilerNL struct{}

func (self *SubCompilerNL) CompileFile(ctx context.Context, r exc.Reporter, file lang.File) (*nl.File, error) {
	path := file.Path(ctx)
	b, err := fs.ReadAll(ctx, file)
	if err != nil {
		return nil, r.Report(asException(path, err))
	}
	parsed, err := nl.Parse(string(b), path)
	if err != nil {
		return nil, r.Report(asException(path, err))
	}
	return parsed, nil
}
