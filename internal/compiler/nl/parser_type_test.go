// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadType(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		input    string
		expected Type
	}{
		{name: "i32", input: "i32", expected: Primitive(TypeKindI32)},
		{name: "u64", input: "u64", expected: Primitive(TypeKindU64)},
		{name: "bool", input: "bool", expected: Primitive(TypeKindBoolean)},
		{name: "borrowed string", input: "str", expected: Primitive(TypeKindBorrowedString)},
		{name: "spelled out borrowed string", input: "&str", expected: Primitive(TypeKindBorrowedString)},
		{name: "owned string", input: "String", expected: Primitive(TypeKindOwnedString)},
		{name: "struct", input: "Point", expected: Type{Kind: TypeKindOwnedStruct, Name: "Point"}},
		{name: "primitive prefix is a name", input: "i32x", expected: Type{Kind: TypeKindOwnedStruct, Name: "i32x"}},
		{name: "referenced struct", input: "&Point", expected: Type{Kind: TypeKindReferencedStruct, Name: "Point"}},
		{name: "mutable referenced struct", input: "& mut Point", expected: Type{Kind: TypeKindMutableReferencedStruct, Name: "Point"}},
		{name: "mut without reference", input: "mut Point", expected: Type{Kind: TypeKindOwnedStruct, Name: "Point"}},
		{name: "trait", input: "dyn Shape", expected: Type{Kind: TypeKindOwnedTrait, Name: "Shape"}},
		{name: "referenced trait", input: "&dyn Shape", expected: Type{Kind: TypeKindReferencedTrait, Name: "Shape"}},
		{name: "mutable referenced trait", input: "&mut dyn Shape", expected: Type{Kind: TypeKindMutableReferencedTrait, Name: "Shape"}},
		{name: "self", input: "self", expected: Type{Kind: TypeKindSelfReference}},
		{name: "mutable self", input: "&mut self", expected: Type{Kind: TypeKindMutableSelfReference}},
		{name: "tuple", input: "(i32, &Point)", expected: Type{Kind: TypeKindTuple, Elements: []Type{
			Primitive(TypeKindI32),
			{Kind: TypeKindReferencedStruct, Name: "Point"},
		}}},
		{name: "empty tuple", input: "()", expected: Type{Kind: TypeKindTuple}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			p := &parser{}
			rest, actual, err := p.readType(testCase.input)
			require.NoError(t, err)
			require.Equal(t, "", rest)
			require.Equal(t, testCase.expected, actual)
		})
	}
}

func TestReadTypeFailures(t *testing.T) {
	t.Parallel()
	p := &parser{}

	_, _, err := p.readType("42")
	require.Error(t, err)
	require.False(t, isFatal(err))

	_, _, err = p.readType("&42")
	require.True(t, isFatal(err))
	require.Equal(t, "unknown variable type", asFailure(err).context)

	_, _, err = p.readType("(i32, 42)")
	require.True(t, isFatal(err))
}

func TestReadArguments(t *testing.T) {
	t.Parallel()
	self := Argument{Name: "self", Type: Type{Kind: TypeKindSelfReference}}
	mutSelf := Argument{Name: "self", Type: Type{Kind: TypeKindMutableSelfReference}}
	testCases := []struct {
		name     string
		input    string
		expected []Argument
	}{
		{name: "empty", input: "()", expected: nil},
		{name: "self", input: "(&self)", expected: []Argument{self}},
		{name: "spaced self", input: "(& self)", expected: []Argument{self}},
		{name: "mut self", input: "(&mut self)", expected: []Argument{mutSelf}},
		{name: "spaced mut self", input: "(& mut self)", expected: []Argument{mutSelf}},
		{name: "tabbed mut self", input: "(&\tmut\tself)", expected: []Argument{mutSelf}},
		{name: "typed", input: "(&self, a: i32, b: &mut Point,)", expected: []Argument{
			self,
			{Name: "a", Type: Primitive(TypeKindI32)},
			{Name: "b", Type: Type{Kind: TypeKindMutableReferencedStruct, Name: "Point"}},
		}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			p := &parser{}
			rest, actual, err := p.readArguments(testCase.input)
			require.NoError(t, err)
			require.Equal(t, "", rest)
			require.Equal(t, testCase.expected, actual)
		})
	}
}

func TestTypedArgumentsRejectSelf(t *testing.T) {
	t.Parallel()
	p := &parser{}
	_, _, err := p.readTypedArguments("(&self)")
	require.True(t, isFatal(err))
}

func TestTypePredicates(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		kind     TypeKind
		integer  bool
		signed   bool
		float    bool
		bits     int
		spelling string
	}{
		{kind: TypeKindI8, integer: true, signed: true, bits: 8, spelling: "i8"},
		{kind: TypeKindU16, integer: true, bits: 16, spelling: "u16"},
		{kind: TypeKindI64, integer: true, signed: true, bits: 64, spelling: "i64"},
		{kind: TypeKindF32, float: true, bits: 32, spelling: "f32"},
		{kind: TypeKindF64, float: true, bits: 64, spelling: "f64"},
		{kind: TypeKindBoolean, bits: 1, spelling: "bool"},
		{kind: TypeKindBorrowedString, spelling: "str"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.kind.String(), func(t *testing.T) {
			t.Parallel()
			typ := Primitive(testCase.kind)
			require.Equal(t, testCase.integer, typ.IsInteger())
			require.Equal(t, testCase.signed, typ.IsSigned())
			require.Equal(t, testCase.float, typ.IsFloat())
			require.Equal(t, testCase.bits, typ.Bits())
			require.True(t, typ.IsPrimitive())
			require.Equal(t, testCase.spelling, FormatType(typ))
		})
	}
}
