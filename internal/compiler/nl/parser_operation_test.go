// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nl

import (
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/repr"
	"github.com/stretchr/testify/require"
)

func i32(v int64) ConstantInteger {
	return Integer(v, TypeKindI32)
}

func TestReadOperation(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		input    string
		expected Operation
	}{
		{
			name:     "constant",
			input:    "5",
			expected: i32(5),
		},
		{
			name:     "variable",
			input:    "counter",
			expected: Variable{Name: "counter"},
		},
		{
			name:     "scoped variable",
			input:    "self.width",
			expected: Variable{Name: "self.width"},
		},
		{
			name:     "keyword prefix is a variable",
			input:    "letter",
			expected: Variable{Name: "letter"},
		},
		{
			name:  "let",
			input: "let x = 5",
			expected: &Assignment{
				Define:  true,
				Targets: []string{"x"},
				Value:   i32(5),
			},
		},
		{
			name:  "let with type",
			input: "let x: i64 = 5i64",
			expected: &Assignment{
				Define:  true,
				Targets: []string{"x"},
				Types:   []Type{Primitive(TypeKindI64)},
				Value:   Integer(5, TypeKindI64),
			},
		},
		{
			name:  "let destructuring",
			input: "let (fore, five) = (4, 5)",
			expected: &Assignment{
				Define:  true,
				Targets: []string{"fore", "five"},
				Value:   &Tuple{Elements: []Operation{i32(4), i32(5)}},
			},
		},
		{
			name:  "mutation",
			input: "x = y",
			expected: &Assignment{
				Targets: []string{"x"},
				Value:   Variable{Name: "y"},
			},
		},
		{
			name:  "destructuring mutation",
			input: "(a, b) = pair",
			expected: &Assignment{
				Targets: []string{"a", "b"},
				Value:   Variable{Name: "pair"},
			},
		},
		{
			name:  "assignment of a binary operator",
			input: "total = a + b",
			expected: &Assignment{
				Targets: []string{"total"},
				Value:   &BinaryOperator{Kind: BinaryAdd, Left: Variable{Name: "a"}, Right: Variable{Name: "b"}},
			},
		},
		{
			name:     "equality is not assignment",
			input:    "a == b",
			expected: &BinaryOperator{Kind: BinaryEqual, Left: Variable{Name: "a"}, Right: Variable{Name: "b"}},
		},
		{
			name:     "range",
			input:    "1 .. 2",
			expected: &BinaryOperator{Kind: BinaryRange, Left: i32(1), Right: i32(2)},
		},
		{
			name:     "tight range",
			input:    "0..10",
			expected: &BinaryOperator{Kind: BinaryRange, Left: i32(0), Right: i32(10)},
		},
		{
			name:     "shift",
			input:    "a << 2",
			expected: &BinaryOperator{Kind: BinaryShiftLeft, Left: Variable{Name: "a"}, Right: i32(2)},
		},
		{
			name:     "logical xor",
			input:    "a ^^ b",
			expected: &BinaryOperator{Kind: BinaryLogicalXor, Left: Variable{Name: "a"}, Right: Variable{Name: "b"}},
		},
		{
			name:     "negative literal operand",
			input:    "a - -1",
			expected: &BinaryOperator{Kind: BinarySubtract, Left: Variable{Name: "a"}, Right: i32(-1)},
		},
		{
			name:  "unary operand",
			input: "-a * b",
			expected: &BinaryOperator{
				Kind:  BinaryMultiply,
				Left:  &UnaryOperator{Kind: UnaryArithmeticNegate, Operand: Variable{Name: "a"}},
				Right: Variable{Name: "b"},
			},
		},
		{
			name:     "negated group",
			input:    "-(-5)",
			expected: &UnaryOperator{Kind: UnaryArithmeticNegate, Operand: &Tuple{Elements: []Operation{i32(-5)}}},
		},
		{
			name:     "logical not",
			input:    "!done",
			expected: &UnaryOperator{Kind: UnaryLogicalNegate, Operand: Variable{Name: "done"}},
		},
		{
			name:     "bit not",
			input:    "~mask",
			expected: &UnaryOperator{Kind: UnaryBitNegate, Operand: Variable{Name: "mask"}},
		},
		{
			name:     "tuple",
			input:    "(1, \"two\", 3.0)",
			expected: &Tuple{Elements: []Operation{i32(1), ConstantString{Value: "two"}, ConstantFloat32{Value: 3}}},
		},
		{
			name:     "empty tuple",
			input:    "()",
			expected: &Tuple{},
		},
		{
			name:     "function call",
			input:    "math.max(a, b)",
			expected: &FunctionCall{Path: "math.max", Arguments: []string{"a", "b"}},
		},
		{
			name:     "function call without arguments",
			input:    "tick()",
			expected: &FunctionCall{Path: "tick"},
		},
		{
			name:  "block",
			input: "{ let a = 1; a }",
			expected: &Block{Operations: []Operation{
				&Assignment{Define: true, Targets: []string{"a"}, Value: i32(1)},
				Variable{Name: "a"},
			}},
		},
		{
			name:  "if",
			input: "if a < b { a } else { b }",
			expected: &If{
				Condition: &BinaryOperator{Kind: BinaryLess, Left: Variable{Name: "a"}, Right: Variable{Name: "b"}},
				True:      Block{Operations: []Operation{Variable{Name: "a"}}},
				False:     Block{Operations: []Operation{Variable{Name: "b"}}},
			},
		},
		{
			name:  "if without else",
			input: "if ready { go() }",
			expected: &If{
				Condition: Variable{Name: "ready"},
				True:      Block{Operations: []Operation{&FunctionCall{Path: "go"}}},
			},
		},
		{
			name:     "loop",
			input:    "loop { break }",
			expected: &Loop{Body: Block{Operations: []Operation{Break{}}}},
		},
		{
			name:  "while",
			input: "while i != 0 { i = i - 1; }",
			expected: &WhileLoop{
				Condition: &BinaryOperator{Kind: BinaryNotEqual, Left: Variable{Name: "i"}, Right: i32(0)},
				Body: Block{Operations: []Operation{
					&Assignment{
						Targets: []string{"i"},
						Value:   &BinaryOperator{Kind: BinarySubtract, Left: Variable{Name: "i"}, Right: i32(1)},
					},
				}},
			},
		},
		{
			name:  "for",
			input: "for item in 0..10 { print(item) }",
			expected: &ForLoop{
				Variable: "item",
				Iterator: &BinaryOperator{Kind: BinaryRange, Left: i32(0), Right: i32(10)},
				Body:     Block{Operations: []Operation{&FunctionCall{Path: "print", Arguments: []string{"item"}}}},
			},
		},
		{
			name:  "match",
			input: "match v { E::A => 1, E::B(x) => 2 }",
			expected: &Match{
				Input: Variable{Name: "v"},
				Branches: []MatchBranch{
					{Pattern: &EnumPattern{Enum: "E", Variant: "A"}, Body: i32(1)},
					{Pattern: &EnumPattern{Enum: "E", Variant: "B", Fields: []string{"x"}}, Body: i32(2)},
				},
			},
		},
		{
			name:  "match constants and ranges",
			input: "match n { 0 => zero(), 1..10 => small(), \"x\" => { other() }, }",
			expected: &Match{
				Input: Variable{Name: "n"},
				Branches: []MatchBranch{
					{Pattern: &ConstantPattern{Value: i32(0)}, Body: &FunctionCall{Path: "zero"}},
					{Pattern: &RangePattern{Low: 1, High: 10}, Body: &FunctionCall{Path: "small"}},
					{Pattern: &ConstantPattern{Value: ConstantString{Value: "x"}}, Body: &Block{Operations: []Operation{&FunctionCall{Path: "other"}}}},
				},
			},
		},
		{
			name:     "call with space before arguments",
			input:    "g (x)",
			expected: &FunctionCall{Path: "g", Arguments: []string{"x"}},
		},
		{
			name:     "call with comment before arguments",
			input:    "g/*c*/(x)",
			expected: &FunctionCall{Path: "g", Arguments: []string{"x"}},
		},
		{
			name:  "let with tuple type",
			input: "let (a, b): (i32, bool) = t",
			expected: &Assignment{
				Define:  true,
				Targets: []string{"a", "b"},
				Types:   []Type{Primitive(TypeKindI32), Primitive(TypeKindBoolean)},
				Value:   Variable{Name: "t"},
			},
		},
		{
			name:  "comments between tokens",
			input: "let /* name */ x // trailing\n = 5",
			expected: &Assignment{
				Define:  true,
				Targets: []string{"x"},
				Value:   i32(5),
			},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			p := &parser{}
			rest, actual, err := p.readOperation(testCase.input)
			require.NoError(t, err)
			require.Equal(t, "", rest)
			require.Equal(t, testCase.expected, actual, repr.String(actual, repr.Indent("  ")))
		})
	}
}

func TestReadOperationFlatOperators(t *testing.T) {
	t.Parallel()

	// operators do not chain: the second operator is left unread
	rest, actual, err := (&parser{}).readOperation("a + b + c")
	require.NoError(t, err)
	require.Equal(t, " + c", rest)
	require.Equal(t, &BinaryOperator{Kind: BinaryAdd, Left: Variable{Name: "a"}, Right: Variable{Name: "b"}}, actual)

	// a leading group is read as a tuple on its own
	rest, actual, err = (&parser{}).readOperation("(1) + 2")
	require.NoError(t, err)
	require.Equal(t, " + 2", rest)
	require.Equal(t, &Tuple{Elements: []Operation{i32(1)}}, actual)
}

func TestReadOperationFailures(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		input   string
		fatal   bool
		context string
	}{
		{name: "nothing", input: "}", fatal: false},
		{name: "unknown binary operator", input: "a <> b", fatal: true, context: `unknown operator "<>"`},
		{name: "unknown unary operator", input: "*a", fatal: true, context: `unknown operator "*"`},
		{name: "call with expression", input: "f(1)", fatal: true, context: "function call arguments must be bare names"},
		{name: "let without name", input: "let = 5", fatal: true, context: "expected a variable name after let"},
		{name: "let without value", input: "let x", fatal: true, context: "expected '=' in let"},
		{name: "missing operand", input: "a + }", fatal: true, context: "expected an operand after '+'"},
		{name: "unclosed block", input: "{ a", fatal: true, context: "expected an operation or '}'"},
		{name: "if without block", input: "if a", fatal: true, context: "expected a block after the if condition"},
		{name: "match without arrow", input: "match v { E::A 1 }", fatal: true, context: "expected '=>' after the match pattern"},
		{name: "unterminated comment", input: "a /* b", fatal: true, context: "unterminated block comment"},
		{name: "for without in", input: "for x of y {}", fatal: true, context: "expected in after the for variable"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			p := &parser{}
			_, _, err := p.readOperation(testCase.input)
			require.Error(t, err)
			require.Equal(t, testCase.fatal, isFatal(err))
			if testCase.fatal {
				require.Equal(t, testCase.context, asFailure(err).context)
			}
		})
	}
}

func TestReadOperationDeepNesting(t *testing.T) {
	t.Parallel()
	const depth = 200
	input := "x = " + strings.Repeat("-(", depth) + "a" + strings.Repeat(")", depth)

	start := time.Now()
	rest, actual, err := (&parser{}).readOperation(input)
	require.Less(t, time.Since(start), 2*time.Second)
	require.NoError(t, err)
	require.Equal(t, "", rest)

	assignment, ok := actual.(*Assignment)
	require.True(t, ok)
	value := assignment.Value
	for i := 0; i < depth; i = i + 1 {
		unary, ok := value.(*UnaryOperator)
		require.True(t, ok, "level %d", i)
		require.Equal(t, UnaryArithmeticNegate, unary.Kind)
		tuple, ok := unary.Operand.(*Tuple)
		require.True(t, ok, "level %d", i)
		require.Len(t, tuple.Elements, 1)
		value = tuple.Elements[0]
	}
	require.Equal(t, Variable{Name: "a"}, value)
}
