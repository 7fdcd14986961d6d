// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nl

import (
	"testing"

	"github.com/alecthomas/repr"
	"github.com/stretchr/testify/require"
)

const kitchenSink = `
// Every production at least once.
struct Point {
	x: f64,
	y: f64,
	label: String,
	origin: &Point,
	owner: &mut Owner,
	shape: dyn Shape,
	view: &dyn Shape,
	edit: &mut dyn Shape,
	pair: (i32, u8),
}
impl Point {
	met len(&self) -> f64 {
		let sq: f64 = self.x * self.x;
		sqrt(sq)
	}
	met reset(&mut self);
	get x: default -> f64;
	get y(&self) -> f64 { self.y }
	set y(&mut self, v: f64) { self.y = v; }
	set label: default;
}
impl Shape {}

trait Shape {
	met area(&self) -> f64;
	get name: default -> str;
}

fn main() {
	let count = 0;
	let (a, b) = (1u8, -2i16);
	(a, b) = swap(a, b);
	let big = 18446744073709551615u64;
	let f = 2.5;
	let g = 1e-7f64;
	let s = "text \n raw";
	let flag = !ready;
	let neg = - 5;
	let inv = ~mask;
	let both = ! -x;
	loop {
		count = count + 1;
		if count >= 10 { break } else { continue_on() }
	}
	while count != 0 { count = count - 1 }
	for i in 0..10 {
		print(i);
	}
	match shape {
		Shape::Circle(r) => r,
		Shape::Empty => 0,
		0 => zero(),
		-5..5 => small(),
		"x" => { other(); },
		true => yes(),
	}
	{ nested(); }
	x = a + b = 3;
	y = a && b;
	z = a % 2;
	w = a ^ b;
	v = a | b;
	u = a >> 1;
	t = a <= b;
}

fn forward(a: &str, b: (i32, i32)) -> (bool, f32);

enum Shape {
	Circle(r: f64),
	Rect(w: f64, h: f64),
	Empty,
}
`

func TestFormatRoundTrip(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "struct", input: "struct MyStruct { a: i32, b: i32 }"},
		{name: "function", input: "fn f() -> i32 { 5 }"},
		{name: "match", input: "fn m() { match v { E::A => 1, E::B(x) => 2 } }"},
		{name: "self arguments", input: "trait T { met a(& self); met b(&   mut\tself); }"},
		{name: "kitchen sink", input: kitchenSink},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			first, err := Parse(testCase.input, "a.nl")
			require.NoError(t, err)
			formatted := Format(first)
			second, err := Parse(formatted, "a.nl")
			require.NoError(t, err, formatted)
			require.Equal(t, first, second, "%s\n%s", formatted, repr.String(second, repr.Indent("  ")))
			require.Equal(t, formatted, Format(second))
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()
	file, err := Parse("struct S{a:i32} impl S{met get_a(&self)->i32{self.a}} fn f(){let x=5;x=x+1;} enum E{A,B(v:u8)}", "")
	require.NoError(t, err)
	require.Equal(t, `struct S {
	a: i32,
}
impl S {
	met get_a(&self) -> i32 {
		self.a;
	}
}

fn f() {
	let x = 5;
	x = x + 1;
}

enum E {
	A,
	B(v: u8),
}
`, Format(file))
}

func TestFormatOperation(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		op       Operation
		expected string
	}{
		{name: "negated literal", op: &UnaryOperator{Kind: UnaryArithmeticNegate, Operand: Integer(5, TypeKindI32)}, expected: "- 5"},
		{name: "negated variable", op: &UnaryOperator{Kind: UnaryArithmeticNegate, Operand: Variable{Name: "x"}}, expected: "-x"},
		{name: "whole float", op: ConstantFloat32{Value: 3}, expected: "3.0"},
		{name: "float64", op: ConstantFloat64{Value: 0.5}, expected: "0.5f64"},
		{name: "large float", op: ConstantFloat32{Value: 1e6}, expected: "1e+06"},
		{name: "typed integer", op: Integer(-7, TypeKindI8), expected: "-7i8"},
		{name: "range pattern", op: &Match{Input: Variable{Name: "n"}, Branches: []MatchBranch{{Pattern: &RangePattern{Low: -1, High: 4}, Body: Break{}}}}, expected: "match n {\n\t-1..4 => break,\n}"},
		{name: "destructuring", op: &Assignment{Define: true, Targets: []string{"a", "b"}, Types: []Type{Primitive(TypeKindI32), Primitive(TypeKindBoolean)}, Value: Variable{Name: "t"}}, expected: "let (a, b): i32, bool = t"},
		{name: "if without else", op: &If{Condition: Variable{Name: "c"}, True: Block{Operations: []Operation{Break{}}}}, expected: "if c {\n\tbreak;\n}"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.expected, FormatOperation(testCase.op))
		})
	}
}
