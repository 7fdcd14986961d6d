// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"gopkg.nlang.org/compiler.go/internal/compiler/nl"
	"gopkg.nlang.org/compiler.go/internal/exc"
)

// FromStruct rebuilds a file from its exchange form. The "stats" member is
// derived data and is ignored.
func FromStruct(s *structpb.Struct) (*nl.File, error) {
	d := &decoder{}
	file := d.file(s.AsMap())
	if d.err != nil {
		return nil, d.err
	}
	return file, nil
}

// decoder keeps the first error and turns every later read into a no-op.
type decoder struct {
	err  error
	path string
}

func (d *decoder) fail(format string, args ...interface{}) {
	if d.err == nil {
		d.err = exc.New(exc.Location{URI: d.path}, exc.CodeUnsupportedFileFormat, "malformed AST: "+fmt.Sprintf(format, args...))
	}
}

func (d *decoder) str(o object, key string) string {
	v, ok := o[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.fail("%s must be a string", key)
	}
	return s
}

func (d *decoder) boolean(o object, key string) bool {
	v, ok := o[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		d.fail("%s must be a boolean", key)
	}
	return b
}

func (d *decoder) list(o object, key string) list {
	v, ok := o[key]
	if !ok || v == nil {
		return nil
	}
	l, ok := v.(list)
	if !ok {
		d.fail("%s must be a list", key)
	}
	return l
}

func (d *decoder) object(v interface{}, what string) object {
	o, ok := v.(object)
	if !ok {
		d.fail("%s must be an object", what)
		return object{}
	}
	return o
}

func (d *decoder) strings(o object, key string) []string {
	var out []string
	for _, v := range d.list(o, key) {
		s, ok := v.(string)
		if !ok {
			d.fail("%s must hold strings", key)
			return nil
		}
		out = append(out, s)
	}
	return out
}

func (d *decoder) file(o object) *nl.File {
	file := &nl.File{Name: d.str(o, "name")}
	d.path = file.Name
	for _, v := range d.list(o, "structs") {
		file.Structs = append(file.Structs, d.structDecl(d.object(v, "struct")))
	}
	for _, v := range d.list(o, "traits") {
		t := d.object(v, "trait")
		file.Traits = append(file.Traits, nl.Trait{
			Name:         d.str(t, "name"),
			Implementors: d.implementors(t),
		})
	}
	for _, v := range d.list(o, "functions") {
		file.Functions = append(file.Functions, d.function(d.object(v, "function")))
	}
	for _, v := range d.list(o, "enums") {
		e := d.object(v, "enum")
		enum := nl.Enum{Name: d.str(e, "name")}
		for _, vv := range d.list(e, "variants") {
			variant := d.object(vv, "variant")
			enum.Variants = append(enum.Variants, nl.Variant{
				Name:   d.str(variant, "name"),
				Fields: d.arguments(variant, "fields"),
			})
		}
		file.Enums = append(file.Enums, enum)
	}
	return file
}

func (d *decoder) structDecl(o object) nl.Struct {
	s := nl.Struct{Name: d.str(o, "name")}
	for _, v := range d.list(o, "variables") {
		variable := d.object(v, "variable")
		s.Variables = append(s.Variables, nl.StructVariable{
			Name: d.str(variable, "name"),
			Type: d.typ(variable["type"]),
		})
	}
	for _, v := range d.list(o, "implementations") {
		impl := d.object(v, "implementation")
		s.Implementations = append(s.Implementations, nl.Implementation{
			Target:       d.str(impl, "target"),
			Implementors: d.implementors(impl),
		})
	}
	return s
}

func (d *decoder) typ(v interface{}) nl.Type {
	o := d.object(v, "type")
	kind, ok := nl.TypeKindNamed(d.str(o, "kind"))
	if !ok {
		d.fail("unknown type kind %q", d.str(o, "kind"))
	}
	t := nl.Type{Kind: kind, Name: d.str(o, "name")}
	for _, e := range d.list(o, "elements") {
		t.Elements = append(t.Elements, d.typ(e))
	}
	return t
}

func (d *decoder) arguments(o object, key string) []nl.Argument {
	var out []nl.Argument
	for _, v := range d.list(o, key) {
		a := d.object(v, "argument")
		out = append(out, nl.Argument{Name: d.str(a, "name"), Type: d.typ(a["type"])})
	}
	return out
}

func (d *decoder) function(o object) nl.Function {
	f := nl.Function{
		Name:       d.str(o, "name"),
		Arguments:  d.arguments(o, "arguments"),
		ReturnType: d.typ(o["return_type"]),
	}
	if _, ok := o["body"]; ok {
		f.Block = d.block(o, "body")
	}
	return f
}

func (d *decoder) encapsulation(o object) nl.Encapsulation {
	switch e := d.str(o, "encapsulation"); e {
	case "default":
		return nl.EncapsulateDefault()
	case "none":
		return nl.EncapsulateNone()
	case "block":
		return nl.EncapsulateBlock(d.block(o, "body"))
	default:
		d.fail("unknown encapsulation %q", e)
		return nl.EncapsulateNone()
	}
}

func (d *decoder) implementors(o object) []nl.Implementor {
	var out []nl.Implementor
	for _, v := range d.list(o, "implementors") {
		i := d.object(v, "implementor")
		switch kind := d.str(i, "implementor"); kind {
		case "method":
			out = append(out, &nl.Method{Function: d.function(i)})
		case "get":
			out = append(out, &nl.Getter{
				Name:       d.str(i, "name"),
				Arguments:  d.arguments(i, "arguments"),
				ReturnType: d.typ(i["return_type"]),
				Body:       d.encapsulation(i),
			})
		case "set":
			out = append(out, &nl.Setter{
				Name:      d.str(i, "name"),
				Arguments: d.arguments(i, "arguments"),
				Body:      d.encapsulation(i),
			})
		default:
			d.fail("unknown implementor %q", kind)
		}
	}
	return out
}

func (d *decoder) block(o object, key string) *nl.Block {
	return &nl.Block{Operations: d.operations(o, key)}
}

func (d *decoder) operations(o object, key string) []nl.Operation {
	var out []nl.Operation
	for _, v := range d.list(o, key) {
		out = append(out, d.operation(v))
	}
	return out
}

func (d *decoder) uint64(s string, what string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		d.fail("invalid %s %q", what, s)
	}
	return v
}

func (d *decoder) int64(s string, what string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		d.fail("invalid %s %q", what, s)
	}
	return v
}

func (d *decoder) float(o object) float64 {
	f, ok := o["value"].(float64)
	if !ok {
		d.fail("float value must be a number")
	}
	return f
}

func (d *decoder) operation(v interface{}) nl.Operation {
	o := d.object(v, "operation")
	switch op := d.str(o, "op"); op {
	case "block":
		return d.block(o, "operations")
	case "bool":
		return nl.ConstantBoolean{Value: d.boolean(o, "value")}
	case "int":
		kind, ok := nl.TypeKindNamed(d.str(o, "type"))
		if !ok || !nl.Primitive(kind).IsInteger() {
			d.fail("invalid integer type %q", d.str(o, "type"))
		}
		return nl.ConstantInteger{
			Kind:      kind,
			Negative:  d.boolean(o, "negative"),
			Magnitude: d.uint64(d.str(o, "magnitude"), "integer magnitude"),
		}
	case "f32":
		return nl.ConstantFloat32{Value: float32(d.float(o))}
	case "f64":
		return nl.ConstantFloat64{Value: d.float(o)}
	case "str":
		return nl.ConstantString{Value: d.str(o, "value")}
	case "assign":
		a := &nl.Assignment{
			Define:  d.boolean(o, "define"),
			Targets: d.strings(o, "targets"),
			Value:   d.operation(o["value"]),
		}
		for _, t := range d.list(o, "types") {
			a.Types = append(a.Types, d.typ(t))
		}
		return a
	case "var":
		return nl.Variable{Name: d.str(o, "name")}
	case "tuple":
		return &nl.Tuple{Elements: d.operations(o, "elements")}
	case "binary":
		kind, ok := nl.BinaryKindOf(d.str(o, "operator"))
		if !ok {
			d.fail("unknown operator %q", d.str(o, "operator"))
		}
		return &nl.BinaryOperator{Kind: kind, Left: d.operation(o["left"]), Right: d.operation(o["right"])}
	case "unary":
		kind, ok := nl.UnaryKindOf(d.str(o, "operator"))
		if !ok {
			d.fail("unknown operator %q", d.str(o, "operator"))
		}
		return &nl.UnaryOperator{Kind: kind, Operand: d.operation(o["operand"])}
	case "if":
		return &nl.If{
			Condition: d.operation(o["condition"]),
			True:      *d.block(o, "true"),
			False:     *d.block(o, "false"),
		}
	case "loop":
		return &nl.Loop{Body: *d.block(o, "body")}
	case "while":
		return &nl.WhileLoop{Condition: d.operation(o["condition"]), Body: *d.block(o, "body")}
	case "for":
		return &nl.ForLoop{
			Variable: d.str(o, "variable"),
			Iterator: d.operation(o["iterator"]),
			Body:     *d.block(o, "body"),
		}
	case "break":
		return nl.Break{}
	case "match":
		m := &nl.Match{Input: d.operation(o["input"])}
		for _, v := range d.list(o, "branches") {
			branch := d.object(v, "branch")
			m.Branches = append(m.Branches, nl.MatchBranch{
				Pattern: d.pattern(branch["pattern"]),
				Body:    d.operation(branch["body"]),
			})
		}
		return m
	case "call":
		return &nl.FunctionCall{Path: d.str(o, "path"), Arguments: d.strings(o, "arguments")}
	default:
		d.fail("unknown operation %q", op)
		return nl.Break{}
	}
}

func (d *decoder) pattern(v interface{}) nl.Pattern {
	o := d.object(v, "pattern")
	switch kind := d.str(o, "pattern"); kind {
	case "enum":
		return &nl.EnumPattern{Enum: d.str(o, "enum"), Variant: d.str(o, "variant"), Fields: d.strings(o, "fields")}
	case "constant":
		value, ok := d.operation(o["value"]).(nl.Constant)
		if !ok {
			d.fail("constant pattern must hold a constant")
		}
		return &nl.ConstantPattern{Value: value}
	case "range":
		return &nl.RangePattern{
			Low:  d.int64(d.str(o, "low"), "range bound"),
			High: d.int64(d.str(o, "high"), "range bound"),
		}
	default:
		d.fail("unknown pattern %q", kind)
		return &nl.RangePattern{}
	}
}
