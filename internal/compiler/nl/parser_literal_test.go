// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.nlang.org/compiler.go/internal/exc"
)

func TestReadConstant(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		input    string
		expected Constant
		rest     string
	}{
		{name: "decimal", input: "5", expected: Integer(5, TypeKindI32)},
		{name: "hex", input: "0xFF", expected: Integer(255, TypeKindI32)},
		{name: "upper hex", input: "0XfF", expected: Integer(255, TypeKindI32)},
		{name: "binary", input: "0b101", expected: Integer(5, TypeKindI32)},
		{name: "octal", input: "0o17", expected: Integer(15, TypeKindI32)},
		{name: "negative with suffix", input: "-5i64", expected: Integer(-5, TypeKindI64)},
		{name: "separators", input: "1_000_000", expected: Integer(1000000, TypeKindI32)},
		{name: "unsigned suffix", input: "255u8", expected: Integer(255, TypeKindU8)},
		{name: "i16 suffix", input: "7i16", expected: Integer(7, TypeKindI16)},
		{name: "hex suffix", input: "0x10u64", expected: Integer(16, TypeKindU64)},
		{name: "as cast", input: "5 as i64", expected: Integer(5, TypeKindI64)},
		{name: "as cast to float", input: "5 as f64", expected: ConstantFloat64{Value: 5}},
		{name: "min i8", input: "-128i8", expected: Integer(-128, TypeKindI8)},
		{name: "max u64", input: "18446744073709551615u64", expected: ConstantInteger{Kind: TypeKindU64, Magnitude: 18446744073709551615}},
		{name: "negative zero unsigned", input: "-0u8", expected: Integer(0, TypeKindU8)},
		{name: "float", input: "5.5", expected: ConstantFloat32{Value: 5.5}},
		{name: "float64 suffix", input: "5.5f64", expected: ConstantFloat64{Value: 5.5}},
		{name: "leading dot", input: ".5", expected: ConstantFloat32{Value: 0.5}},
		{name: "trailing dot", input: "2.", expected: ConstantFloat32{Value: 2}},
		{name: "exponent", input: "1e3", expected: ConstantFloat32{Value: 1000}},
		{name: "negative exponent", input: "-2.5e-1f64", expected: ConstantFloat64{Value: -0.25}},
		{name: "integer with float suffix", input: "3f32", expected: ConstantFloat32{Value: 3}},
		{name: "range is not a float", input: "1..5", expected: Integer(1, TypeKindI32), rest: "..5"},
		{name: "true", input: "true", expected: ConstantBoolean{Value: true}},
		{name: "false", input: " false ", expected: ConstantBoolean{Value: false}, rest: " "},
		{name: "string", input: `"hello world"`, expected: ConstantString{Value: "hello world"}},
		{name: "string keeps escapes", input: `"a\nb"`, expected: ConstantString{Value: `a\nb`}},
		{name: "empty string", input: `""`, expected: ConstantString{Value: ""}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			p := &parser{}
			rest, c, err := p.readConstant(testCase.input)
			require.NoError(t, err)
			require.Equal(t, testCase.expected, c)
			require.Equal(t, testCase.rest, rest)
		})
	}
}

func TestReadConstantFailures(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name  string
		input string
		fatal bool
		code  string
	}{
		{name: "name", input: "abc", fatal: false},
		{name: "keyword prefix", input: "trueish", fatal: false},
		{name: "boolean suffix", input: "5bool", fatal: true, code: exc.CodeInvalidNumber},
		{name: "cast to bool", input: "5 as bool", fatal: true, code: exc.CodeInvalidNumber},
		{name: "cast to struct", input: "5 as Foo", fatal: true, code: exc.CodeSyntax},
		{name: "i8 overflow", input: "128i8", fatal: true, code: exc.CodeInvalidNumber},
		{name: "i8 underflow", input: "-129i8", fatal: true, code: exc.CodeInvalidNumber},
		{name: "i32 overflow", input: "2147483648", fatal: true, code: exc.CodeInvalidNumber},
		{name: "negative unsigned", input: "-1u32", fatal: true, code: exc.CodeInvalidNumber},
		{name: "u64 overflow", input: "18446744073709551616u64", fatal: true, code: exc.CodeInvalidNumber},
		{name: "binary digit", input: "0b102", fatal: true, code: exc.CodeInvalidNumber},
		{name: "octal digit", input: "0o8", fatal: true, code: exc.CodeInvalidNumber},
		{name: "empty hex", input: "0x", fatal: true, code: exc.CodeInvalidNumber},
		{name: "fraction with integer suffix", input: "5.5i32", fatal: true, code: exc.CodeInvalidNumber},
		{name: "unknown suffix", input: "5q", fatal: true, code: exc.CodeInvalidNumber},
		{name: "unterminated string", input: `"abc`, fatal: true, code: exc.CodeUnexpectedEOF},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			p := &parser{}
			_, _, err := p.readConstant(testCase.input)
			require.Error(t, err)
			require.Equal(t, testCase.fatal, isFatal(err))
			if testCase.fatal {
				require.Equal(t, testCase.code, asFailure(err).code)
			}
		})
	}
}

func TestConstantIntegerAccessors(t *testing.T) {
	t.Parallel()
	require.Equal(t, int64(-9223372036854775808), Integer(-9223372036854775808, TypeKindI64).Int64())
	require.Equal(t, uint64(9223372036854775808), Integer(-9223372036854775808, TypeKindI64).Uint64())
	require.Equal(t, int64(42), Integer(42, TypeKindU8).Int64())
	require.True(t, Integer(-9223372036854775808, TypeKindI64).fits())
	require.False(t, Integer(256, TypeKindU8).fits())
	require.True(t, Integer(65535, TypeKindU16).fits())
}
