// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nl

import (
	"fmt"
)

// Names stored in the tree are substrings of the parsed source and share its
// backing array.

type TypeKind uint8

const (
	TypeKindNone TypeKind = iota
	TypeKindBoolean
	TypeKindI8
	TypeKindI16
	TypeKindI32
	TypeKindI64
	TypeKindU8
	TypeKindU16
	TypeKindU32
	TypeKindU64
	TypeKindF32
	TypeKindF64
	TypeKindOwnedString
	TypeKindBorrowedString
	TypeKindTuple
	TypeKindOwnedStruct
	TypeKindReferencedStruct
	TypeKindMutableReferencedStruct
	TypeKindOwnedTrait
	TypeKindReferencedTrait
	TypeKindMutableReferencedTrait
	TypeKindSelfReference
	TypeKindMutableSelfReference
)

var typeKindNames = [...]string{
	TypeKindNone:                    "None",
	TypeKindBoolean:                 "Boolean",
	TypeKindI8:                      "I8",
	TypeKindI16:                     "I16",
	TypeKindI32:                     "I32",
	TypeKindI64:                     "I64",
	TypeKindU8:                      "U8",
	TypeKindU16:                     "U16",
	TypeKindU32:                     "U32",
	TypeKindU64:                     "U64",
	TypeKindF32:                     "F32",
	TypeKindF64:                     "F64",
	TypeKindOwnedString:             "OwnedString",
	TypeKindBorrowedString:          "BorrowedString",
	TypeKindTuple:                   "Tuple",
	TypeKindOwnedStruct:             "OwnedStruct",
	TypeKindReferencedStruct:        "ReferencedStruct",
	TypeKindMutableReferencedStruct: "MutableReferencedStruct",
	TypeKindOwnedTrait:              "OwnedTrait",
	TypeKindReferencedTrait:         "ReferencedTrait",
	TypeKindMutableReferencedTrait:  "MutableReferencedTrait",
	TypeKindSelfReference:           "SelfReference",
	TypeKindMutableSelfReference:    "MutableSelfReference",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return fmt.Sprintf("TypeKind(%d)", k)
}

// TypeKindNamed is the inverse of TypeKind.String.
func TypeKindNamed(name string) (TypeKind, bool) {
	for kind, n := range typeKindNames {
		if n == name {
			return TypeKind(kind), true
		}
	}
	return TypeKindNone, false
}

// Type is a value type. Name is set for the struct and trait kinds, Elements
// for tuples.
type Type struct {
	Kind     TypeKind
	Name     string
	Elements []Type
}

// Primitive returns a Type of the given kind with no name or elements.
func Primitive(kind TypeKind) Type {
	return Type{Kind: kind}
}

func (t Type) IsNone() bool {
	return t.Kind == TypeKindNone
}

func (t Type) IsBoolean() bool {
	return t.Kind == TypeKindBoolean
}

func (t Type) IsSigned() bool {
	switch t.Kind {
	case TypeKindI8, TypeKindI16, TypeKindI32, TypeKindI64:
		return true
	}
	return false
}

func (t Type) IsUnsigned() bool {
	switch t.Kind {
	case TypeKindU8, TypeKindU16, TypeKindU32, TypeKindU64:
		return true
	}
	return false
}

func (t Type) IsInteger() bool {
	return t.IsSigned() || t.IsUnsigned()
}

func (t Type) IsFloat() bool {
	return t.Kind == TypeKindF32 || t.Kind == TypeKindF64
}

func (t Type) IsPrimitive() bool {
	return t.IsBoolean() || t.IsInteger() || t.IsFloat() || t.Kind == TypeKindBorrowedString || t.Kind == TypeKindOwnedString
}

// Bits reports the storage width of numeric and boolean types and 0 for
// everything else.
func (t Type) Bits() int {
	switch t.Kind {
	case TypeKindBoolean:
		return 1
	case TypeKindI8, TypeKindU8:
		return 8
	case TypeKindI16, TypeKindU16:
		return 16
	case TypeKindI32, TypeKindU32, TypeKindF32:
		return 32
	case TypeKindI64, TypeKindU64, TypeKindF64:
		return 64
	}
	return 0
}

type Argument struct {
	Name string
	Type Type
}

type StructVariable struct {
	Name string
	Type Type
}

// Operation is implemented by every node that can appear in a Block.
type Operation interface {
	operation()
}

// Constant is implemented by the literal operations.
type Constant interface {
	Operation
	constant()
}

type Block struct {
	Operations []Operation
}

type ConstantBoolean struct {
	Value bool
}

// ConstantInteger stores sign and magnitude separately so that the full range
// of both I64 and U64 is representable.
type ConstantInteger struct {
	Kind      TypeKind
	Negative  bool
	Magnitude uint64
}

// Integer is a convenience constructor for signed values.
func Integer(v int64, kind TypeKind) ConstantInteger {
	if v < 0 {
		return ConstantInteger{Kind: kind, Negative: true, Magnitude: uint64(-(v + 1)) + 1}
	}
	return ConstantInteger{Kind: kind, Magnitude: uint64(v)}
}

func (c ConstantInteger) Int64() int64 {
	if c.Negative {
		return -int64(c.Magnitude)
	}
	return int64(c.Magnitude)
}

func (c ConstantInteger) Uint64() uint64 {
	return c.Magnitude
}

// fits reports whether the value is representable in c.Kind.
func (c ConstantInteger) fits() bool {
	t := Primitive(c.Kind)
	if t.IsUnsigned() {
		if c.Negative {
			return false
		}
		return t.Bits() == 64 || c.Magnitude <= uint64(1)<<t.Bits()-1
	}
	if !t.IsSigned() {
		return false
	}
	limit := uint64(1) << (t.Bits() - 1)
	if c.Negative {
		return c.Magnitude <= limit
	}
	return c.Magnitude <= limit-1
}

type ConstantFloat32 struct {
	Value float32
}

type ConstantFloat64 struct {
	Value float64
}

// ConstantString holds the raw text between the quotes. Escape sequences are
// not interpreted.
type ConstantString struct {
	Value string
}

// Assignment defines (let) or mutates one or more variables. Multiple targets
// destructure a tuple.
type Assignment struct {
	Define  bool
	Targets []string
	Types   []Type
	Value   Operation
}

// Variable is a variable access. Name may be a dotted path.
type Variable struct {
	Name string
}

type Tuple struct {
	Elements []Operation
}

type BinaryKind uint8

const (
	BinaryEqual BinaryKind = iota
	BinaryNotEqual
	BinaryGreater
	BinaryLess
	BinaryGreaterEqual
	BinaryLessEqual
	BinaryLogicalAnd
	BinaryLogicalOr
	BinaryLogicalXor
	BinaryBitAnd
	BinaryBitOr
	BinaryBitXor
	BinaryShiftLeft
	BinaryShiftRight
	BinaryModulo
	BinaryAdd
	BinarySubtract
	BinaryMultiply
	BinaryDivide
	BinaryRange
)

var binarySymbols = [...]string{
	BinaryEqual:        "==",
	BinaryNotEqual:     "!=",
	BinaryGreater:      ">",
	BinaryLess:         "<",
	BinaryGreaterEqual: ">=",
	BinaryLessEqual:    "<=",
	BinaryLogicalAnd:   "&&",
	BinaryLogicalOr:    "||",
	BinaryLogicalXor:   "^^",
	BinaryBitAnd:       "&",
	BinaryBitOr:        "|",
	BinaryBitXor:       "^",
	BinaryShiftLeft:    "<<",
	BinaryShiftRight:   ">>",
	BinaryModulo:       "%",
	BinaryAdd:          "+",
	BinarySubtract:     "-",
	BinaryMultiply:     "*",
	BinaryDivide:       "/",
	BinaryRange:        "..",
}

// Symbol returns the source spelling of the operator.
func (k BinaryKind) Symbol() string {
	if int(k) < len(binarySymbols) {
		return binarySymbols[k]
	}
	return fmt.Sprintf("BinaryKind(%d)", k)
}

// BinaryKindOf looks up an operator by its source spelling.
func BinaryKindOf(symbol string) (BinaryKind, bool) {
	kind, ok := binaryKinds[symbol]
	return kind, ok
}

type BinaryOperator struct {
	Kind  BinaryKind
	Left  Operation
	Right Operation
}

type UnaryKind uint8

const (
	UnaryLogicalNegate UnaryKind = iota
	UnaryBitNegate
	UnaryArithmeticNegate
)

var unarySymbols = [...]string{
	UnaryLogicalNegate:    "!",
	UnaryBitNegate:        "~",
	UnaryArithmeticNegate: "-",
}

func (k UnaryKind) Symbol() string {
	if int(k) < len(unarySymbols) {
		return unarySymbols[k]
	}
	return fmt.Sprintf("UnaryKind(%d)", k)
}

func UnaryKindOf(symbol string) (UnaryKind, bool) {
	kind, ok := unaryKinds[symbol]
	return kind, ok
}

type UnaryOperator struct {
	Kind    UnaryKind
	Operand Operation
}

// If has an empty False block when no else arm was written.
type If struct {
	Condition Operation
	True      Block
	False     Block
}

type Loop struct {
	Body Block
}

type WhileLoop struct {
	Condition Operation
	Body      Block
}

type ForLoop struct {
	Variable string
	Iterator Operation
	Body     Block
}

type Break struct{}

type Match struct {
	Input    Operation
	Branches []MatchBranch
}

type MatchBranch struct {
	Pattern Pattern
	Body    Operation
}

type Pattern interface {
	pattern()
}

type EnumPattern struct {
	Enum    string
	Variant string
	Fields  []string
}

type ConstantPattern struct {
	Value Constant
}

// RangePattern matches integers in [Low, High).
type RangePattern struct {
	Low  int64
	High int64
}

// FunctionCall arguments are bare variable names.
type FunctionCall struct {
	Path      string
	Arguments []string
}

func (*Block) operation() {}
func (ConstantBoolean) operation() {}
func (ConstantInteger) operation() {}
func (ConstantFloat32) operation() {}
func (ConstantFloat64) operation() {}
func (ConstantString) operation() {}
func (*Assignment) operation() {}
func (Variable) operation() {}
func (*Tuple) operation() {}
func (*BinaryOperator) operation() {}
func (*UnaryOperator) operation() {}
func (*If) operation() {}
func (*Loop) operation() {}
func (*WhileLoop) operation() {}
func (*ForLoop) operation() {}
func (Break) operation() {}
func (*Match) operation() {}
func (*FunctionCall) operation() {}
func (ConstantBoolean) constant() {}
func (ConstantInteger) constant() {}
func (ConstantFloat32) constant() {}
func (ConstantFloat64) constant() {}
func (ConstantString) constant() {}
func (*EnumPattern) pattern() {}
func (*ConstantPattern) pattern() {}
func (*RangePattern) pattern() {}

// Function is a free function. A nil Block marks a forward declaration.
type Function struct {
	Name       string
	Arguments  []Argument
	ReturnType Type
	Block      *Block
}

// Implementor is a Method, Getter or Setter.
type Implementor interface {
	implementor()
}

type Method struct {
	Function
}

type encapsulationKind uint8

const (
	encapsulationNone encapsulationKind = iota
	encapsulationBlock
	encapsulationDefault
)

// Encapsulation is the body of a getter or setter. It is exactly one of a
// block, a forward declaration or the default implementation.
type Encapsulation struct {
	kind  encapsulationKind
	block *Block
}

func EncapsulateBlock(b *Block) Encapsulation {
	return Encapsulation{kind: encapsulationBlock, block: b}
}

func EncapsulateNone() Encapsulation {
	return Encapsulation{kind: encapsulationNone}
}

func EncapsulateDefault() Encapsulation {
	return Encapsulation{kind: encapsulationDefault}
}

func (e Encapsulation) IsDefault() bool {
	return e.kind == encapsulationDefault
}

func (e Encapsulation) IsNone() bool {
	return e.kind == encapsulationNone
}

// Block returns the concrete body, if there is one.
func (e Encapsulation) Block() (*Block, bool) {
	return e.block, e.kind == encapsulationBlock
}

type Getter struct {
	Name       string
	Arguments  []Argument
	ReturnType Type
	Body       Encapsulation
}

type Setter struct {
	Name      string
	Arguments []Argument
	Body      Encapsulation
}

func (*Method) implementor() {}
func (*Getter) implementor() {}
func (*Setter) implementor() {}

type Implementation struct {
	Target       string
	Implementors []Implementor
}

type Struct struct {
	Name            string
	Variables       []StructVariable
	Implementations []Implementation
}

type Trait struct {
	Name         string
	Implementors []Implementor
}

type Variant struct {
	Name   string
	Fields []Argument
}

type Enum struct {
	Name     string
	Variants []Variant
}

type File struct {
	Name      string
	Structs   []Struct
	Traits    []Trait
	Functions []Function
	Enums     []Enum
}
