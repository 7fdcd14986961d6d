// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package export converts NL syntax trees to and from an exchange format built
// on protobuf's well known Struct type. Backend plugins receive trees in this
// form and the compiler can load previously exported trees.
package export

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"gopkg.nlang.org/compiler.go/internal/compiler/nl"
	"gopkg.nlang.org/compiler.go/internal/exc"
	"gopkg.nlang.org/compiler.go/internal/lang"
)

// Encode renders a file as a protobuf binary or JSON document depending on
// kind.
func Encode(file *nl.File, kind lang.FileKind) ([]byte, error) {
	s, err := ToStruct(file)
	if err != nil {
		return nil, err
	}
	return encodeStruct(s, kind, file.Name)
}

// Decode is the inverse of Encode.
func Decode(b []byte, kind lang.FileKind, uri string) (*nl.File, error) {
	s := &structpb.Struct{}
	if err := decodeStruct(b, s, kind, uri); err != nil {
		return nil, err
	}
	file, err := FromStruct(s)
	if err != nil {
		return nil, err
	}
	if file.Name == "" {
		file.Name = uri
	}
	return file, nil
}

func encodeStruct(m proto.Message, kind lang.FileKind, uri string) ([]byte, error) {
	var b []byte
	var err error
	switch kind {
	case lang.FileKindASTBinary:
		b, err = proto.MarshalOptions{Deterministic: true}.Marshal(m)
	case lang.FileKindASTJSON:
		b, err = protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(m)
	default:
		return nil, exc.New(exc.Location{URI: uri}, exc.CodeUnsupportedFileFormat, fmt.Sprintf("cannot export to %s", kind))
	}
	if err != nil {
		return nil, exc.WrapUnknown(exc.Location{URI: uri}, err)
	}
	return b, nil
}

func decodeStruct(b []byte, m proto.Message, kind lang.FileKind, uri string) error {
	var err error
	switch kind {
	case lang.FileKindASTBinary:
		err = proto.Unmarshal(b, m)
	case lang.FileKindASTJSON:
		err = protojson.Unmarshal(b, m)
	default:
		return exc.New(exc.Location{URI: uri}, exc.CodeUnsupportedFileFormat, fmt.Sprintf("cannot import from %s", kind))
	}
	if err != nil {
		return exc.Wrap(exc.Location{URI: uri}, exc.CodeUnsupportedFileFormat, err)
	}
	return nil
}

// Stats counts the declarations and operations of a file by category.
func Stats(file *nl.File) map[string]int {
	stats := map[string]int{}
	nl.Walk(file, func(node interface{}) {
		switch node.(type) {
		case *nl.Struct:
			stats["structs"]++
		case *nl.Trait:
			stats["traits"]++
		case *nl.Function:
			stats["functions"]++
		case *nl.Enum:
			stats["enums"]++
		case *nl.Method, *nl.Getter, *nl.Setter:
			stats["implementors"]++
		case *nl.Block:
			stats["blocks"]++
		case *nl.File, *nl.StructVariable, *nl.Implementation, *nl.Variant, *nl.Argument, nl.Pattern:
		default:
			stats["operations"]++
		}
	})
	return stats
}
