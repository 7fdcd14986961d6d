// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nl

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders f as canonical NL source. Parsing the output produces a
// tree equal to f. Declarations are grouped by kind in the order structs,
// traits, functions, enums.
func Format(f *File) string {
	var sections []string
	for _, s := range f.Structs {
		sections = append(sections, formatStruct(s))
	}
	for _, t := range f.Traits {
		sections = append(sections, "trait "+t.Name+" "+formatImplementors(t.Implementors))
	}
	for _, fn := range f.Functions {
		sections = append(sections, "fn "+formatSignature(fn, 0))
	}
	for _, e := range f.Enums {
		sections = append(sections, formatEnum(e))
	}
	if len(sections) == 0 {
		return ""
	}
	return strings.Join(sections, "\n\n") + "\n"
}

// FormatOperation renders a single operation without a trailing separator.
func FormatOperation(op Operation) string {
	return formatOperation(op, 0)
}

func FormatType(t Type) string {
	switch t.Kind {
	case TypeKindNone:
		return ""
	case TypeKindBoolean:
		return "bool"
	case TypeKindOwnedString:
		return "String"
	case TypeKindBorrowedString:
		return "str"
	case TypeKindTuple:
		elements := make([]string, 0, len(t.Elements))
		for _, e := range t.Elements {
			elements = append(elements, FormatType(e))
		}
		return "(" + strings.Join(elements, ", ") + ")"
	case TypeKindOwnedStruct:
		return t.Name
	case TypeKindReferencedStruct:
		return "&" + t.Name
	case TypeKindMutableReferencedStruct:
		return "&mut " + t.Name
	case TypeKindOwnedTrait:
		return "dyn " + t.Name
	case TypeKindReferencedTrait:
		return "&dyn " + t.Name
	case TypeKindMutableReferencedTrait:
		return "&mut dyn " + t.Name
	case TypeKindSelfReference:
		return "self"
	case TypeKindMutableSelfReference:
		return "&mut self"
	}
	// the numeric kinds share their spelling with their name
	return strings.ToLower(t.Kind.String())
}

func indent(depth int) string {
	return strings.Repeat("\t", depth)
}

func formatStruct(s Struct) string {
	var b strings.Builder
	b.WriteString("struct " + s.Name + " {")
	if len(s.Variables) > 0 {
		b.WriteString("\n")
		for _, v := range s.Variables {
			b.WriteString("\t" + v.Name + ": " + FormatType(v.Type) + ",\n")
		}
	}
	b.WriteString("}")
	for _, impl := range s.Implementations {
		b.WriteString("\nimpl " + impl.Target + " " + formatImplementors(impl.Implementors))
	}
	return b.String()
}

func formatImplementors(implementors []Implementor) string {
	if len(implementors) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	for _, i := range implementors {
		b.WriteString("\t" + formatImplementor(i) + "\n")
	}
	b.WriteString("}")
	return b.String()
}

func formatImplementor(i Implementor) string {
	switch i := i.(type) {
	case *Method:
		return "met " + formatSignature(i.Function, 1)
	case *Getter:
		if i.Body.IsDefault() {
			return "get " + i.Name + ": default" + formatReturnType(i.ReturnType) + ";"
		}
		block, _ := i.Body.Block()
		return "get " + i.Name + formatArguments(i.Arguments) + formatReturnType(i.ReturnType) + formatBody(block, 1)
	case *Setter:
		if i.Body.IsDefault() {
			return "set " + i.Name + ": default;"
		}
		block, _ := i.Body.Block()
		return "set " + i.Name + formatArguments(i.Arguments) + formatBody(block, 1)
	}
	panic(fmt.Sprintf("unknown implementor %T", i))
}

func formatSignature(f Function, depth int) string {
	return f.Name + formatArguments(f.Arguments) + formatReturnType(f.ReturnType) + formatBody(f.Block, depth)
}

func formatArguments(arguments []Argument) string {
	parts := make([]string, 0, len(arguments))
	for _, a := range arguments {
		switch {
		case a.Name == "self" && a.Type.Kind == TypeKindSelfReference:
			parts = append(parts, "&self")
		case a.Name == "self" && a.Type.Kind == TypeKindMutableSelfReference:
			parts = append(parts, "&mut self")
		default:
			parts = append(parts, a.Name+": "+FormatType(a.Type))
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatReturnType(t Type) string {
	if t.IsNone() {
		return ""
	}
	return " -> " + FormatType(t)
}

func formatBody(block *Block, depth int) string {
	if block == nil {
		return ";"
	}
	return " " + formatBlock(*block, depth)
}

func formatEnum(e Enum) string {
	var b strings.Builder
	b.WriteString("enum " + e.Name + " {")
	if len(e.Variants) > 0 {
		b.WriteString("\n")
		for _, v := range e.Variants {
			b.WriteString("\t" + v.Name)
			if len(v.Fields) > 0 {
				b.WriteString(formatArguments(v.Fields))
			}
			b.WriteString(",\n")
		}
	}
	b.WriteString("}")
	return b.String()
}

func formatBlock(block Block, depth int) string {
	if len(block.Operations) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	for _, op := range block.Operations {
		b.WriteString(indent(depth+1) + formatOperation(op, depth+1))
		if !endsWithBlock(op) {
			b.WriteString(";")
		}
		b.WriteString("\n")
	}
	b.WriteString(indent(depth) + "}")
	return b.String()
}

// endsWithBlock reports whether op is a statement that needs no ';' to be
// separated from the next one.
func endsWithBlock(op Operation) bool {
	switch op.(type) {
	case *Block, *If, *Loop, *WhileLoop, *ForLoop, *Match:
		return true
	}
	return false
}

func formatOperation(op Operation, depth int) string {
	switch op := op.(type) {
	case *Block:
		return formatBlock(*op, depth)
	case Constant:
		return formatConstant(op)
	case *Assignment:
		var b strings.Builder
		if op.Define {
			b.WriteString("let ")
		}
		if len(op.Targets) == 1 {
			b.WriteString(op.Targets[0])
		} else {
			b.WriteString("(" + strings.Join(op.Targets, ", ") + ")")
		}
		if len(op.Types) > 0 {
			types := make([]string, 0, len(op.Types))
			for _, t := range op.Types {
				types = append(types, FormatType(t))
			}
			b.WriteString(": " + strings.Join(types, ", "))
		}
		b.WriteString(" = " + formatOperation(op.Value, depth))
		return b.String()
	case Variable:
		return op.Name
	case *Tuple:
		elements := make([]string, 0, len(op.Elements))
		for _, e := range op.Elements {
			elements = append(elements, formatOperation(e, depth))
		}
		return "(" + strings.Join(elements, ", ") + ")"
	case *BinaryOperator:
		return formatOperation(op.Left, depth) + " " + op.Kind.Symbol() + " " + formatOperation(op.Right, depth)
	case *UnaryOperator:
		operand := formatOperation(op.Operand, depth)
		// keep "- 5" from reading back as the literal -5 and "! -x" from
		// reading as the operator "!-"
		if operand != "" && (isDigit(operand[0]) || operand[0] == '.' || strings.IndexByte(symbolAlphabet, operand[0]) >= 0) {
			return op.Kind.Symbol() + " " + operand
		}
		return op.Kind.Symbol() + operand
	case *If:
		s := "if " + formatOperation(op.Condition, depth) + " " + formatBlock(op.True, depth)
		if len(op.False.Operations) > 0 {
			s = s + " else " + formatBlock(op.False, depth)
		}
		return s
	case *Loop:
		return "loop " + formatBlock(op.Body, depth)
	case *WhileLoop:
		return "while " + formatOperation(op.Condition, depth) + " " + formatBlock(op.Body, depth)
	case *ForLoop:
		return "for " + op.Variable + " in " + formatOperation(op.Iterator, depth) + " " + formatBlock(op.Body, depth)
	case Break:
		return "break"
	case *Match:
		var b strings.Builder
		b.WriteString("match " + formatOperation(op.Input, depth) + " {")
		if len(op.Branches) > 0 {
			b.WriteString("\n")
			for _, branch := range op.Branches {
				b.WriteString(indent(depth+1) + formatPattern(branch.Pattern) + " => " + formatOperation(branch.Body, depth+1) + ",\n")
			}
			b.WriteString(indent(depth))
		}
		b.WriteString("}")
		return b.String()
	case *FunctionCall:
		return op.Path + "(" + strings.Join(op.Arguments, ", ") + ")"
	}
	panic(fmt.Sprintf("unknown operation %T", op))
}

func formatPattern(pattern Pattern) string {
	switch pattern := pattern.(type) {
	case *EnumPattern:
		s := pattern.Enum + "::" + pattern.Variant
		if len(pattern.Fields) > 0 {
			s = s + "(" + strings.Join(pattern.Fields, ", ") + ")"
		}
		return s
	case *ConstantPattern:
		return formatConstant(pattern.Value)
	case *RangePattern:
		return strconv.FormatInt(pattern.Low, 10) + ".." + strconv.FormatInt(pattern.High, 10)
	}
	panic(fmt.Sprintf("unknown pattern %T", pattern))
}

func formatConstant(c Constant) string {
	switch c := c.(type) {
	case ConstantBoolean:
		return strconv.FormatBool(c.Value)
	case ConstantInteger:
		s := strconv.FormatUint(c.Magnitude, 10)
		if c.Negative {
			s = "-" + s
		}
		if c.Kind != TypeKindI32 {
			s = s + FormatType(Primitive(c.Kind))
		}
		return s
	case ConstantFloat32:
		return formatFloat(float64(c.Value), 32)
	case ConstantFloat64:
		return formatFloat(c.Value, 64) + "f64"
	case ConstantString:
		return `"` + c.Value + `"`
	}
	panic(fmt.Sprintf("unknown constant %T", c))
}

// formatFloat always produces text that reads back as a float rather than
// an integer.
func formatFloat(v float64, bits int) string {
	s := strconv.FormatFloat(v, 'g', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s = s + ".0"
	}
	return s
}
