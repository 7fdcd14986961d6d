// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/repr"

	"gopkg.nlang.org/compiler.go/internal/compiler/nl"
	"gopkg.nlang.org/compiler.go/internal/exc"
	"gopkg.nlang.org/compiler.go/internal/lang"
)

// SubCompiler turns one file of a specific kind into a syntax tree. Failures
// are passed through the Reporter and the value it returns is the error.
type SubCompiler interface {
	CompileFile(ctx context.Context, r exc.Reporter, file lang.File) (*nl.File, error)
}

func DefaultSubCompilers() map[lang.FileKind]SubCompiler {
	scast := &SubCompilerAST{}
	return map[lang.FileKind]SubCompiler{
		lang.FileKindNL:        &SubCompilerNL{},
		lang.FileKindASTBinary: scast,
		lang.FileKindASTJSON:   scast,
	}
}

func asException(uri string, err error) exc.Exception {
	var e exc.Exception
	if errors.As(err, &e) {
		return e
	}
	return exc.WrapUnknown(exc.Location{URI: uri}, err)
}

func dumpTreeTo(w io.Writer, file *nl.File) {
	fmt.Fprintln(w, repr.String(file, repr.Indent("  "), repr.OmitEmpty(true)))
}
