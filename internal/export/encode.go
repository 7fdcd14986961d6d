// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"gopkg.nlang.org/compiler.go/internal/compiler/nl"
	"gopkg.nlang.org/compiler.go/internal/exc"
)

type object = map[string]interface{}
type list = []interface{}

// ToStruct converts a parsed file into its exchange form. Integer magnitudes
// and range bounds are carried as decimal strings because structpb numbers
// are doubles.
func ToStruct(file *nl.File) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fileObject(file))
	if err != nil {
		return nil, exc.WrapUnknown(exc.Location{URI: file.Name}, err)
	}
	return s, nil
}

func fileObject(file *nl.File) object {
	structs := make(list, 0, len(file.Structs))
	for _, s := range file.Structs {
		structs = append(structs, structObject(s))
	}
	traits := make(list, 0, len(file.Traits))
	for _, t := range file.Traits {
		traits = append(traits, object{
			"name":         t.Name,
			"implementors": implementorList(t.Implementors),
		})
	}
	functions := make(list, 0, len(file.Functions))
	for i := range file.Functions {
		functions = append(functions, functionObject(&file.Functions[i]))
	}
	enums := make(list, 0, len(file.Enums))
	for _, e := range file.Enums {
		variants := make(list, 0, len(e.Variants))
		for _, v := range e.Variants {
			variants = append(variants, object{
				"name":   v.Name,
				"fields": argumentList(v.Fields),
			})
		}
		enums = append(enums, object{"name": e.Name, "variants": variants})
	}
	stats := object{}
	for name, count := range Stats(file) {
		stats[name] = count
	}
	return object{
		"name":      file.Name,
		"structs":   structs,
		"traits":    traits,
		"functions": functions,
		"enums":     enums,
		"stats":     stats,
	}
}

func structObject(s nl.Struct) object {
	variables := make(list, 0, len(s.Variables))
	for _, v := range s.Variables {
		variables = append(variables, object{"name": v.Name, "type": typeObject(v.Type)})
	}
	implementations := make(list, 0, len(s.Implementations))
	for _, impl := range s.Implementations {
		implementations = append(implementations, object{
			"target":       impl.Target,
			"implementors": implementorList(impl.Implementors),
		})
	}
	return object{
		"name":            s.Name,
		"variables":       variables,
		"implementations": implementations,
	}
}

func typeObject(t nl.Type) object {
	o := object{"kind": t.Kind.String()}
	if t.Name != "" {
		o["name"] = t.Name
	}
	if t.Kind == nl.TypeKindTuple {
		elements := make(list, 0, len(t.Elements))
		for _, e := range t.Elements {
			elements = append(elements, typeObject(e))
		}
		o["elements"] = elements
	}
	return o
}

func typeList(types []nl.Type) list {
	out := make(list, 0, len(types))
	for _, t := range types {
		out = append(out, typeObject(t))
	}
	return out
}

func argumentList(arguments []nl.Argument) list {
	out := make(list, 0, len(arguments))
	for _, a := range arguments {
		out = append(out, object{"name": a.Name, "type": typeObject(a.Type)})
	}
	return out
}

func stringList(values []string) list {
	out := make(list, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func functionObject(f *nl.Function) object {
	o := object{
		"name":        f.Name,
		"arguments":   argumentList(f.Arguments),
		"return_type": typeObject(f.ReturnType),
	}
	if f.Block != nil {
		o["body"] = blockList(f.Block)
	}
	return o
}

func encapsulate(o object, body nl.Encapsulation) {
	switch {
	case body.IsDefault():
		o["encapsulation"] = "default"
	case body.IsNone():
		o["encapsulation"] = "none"
	default:
		b, _ := body.Block()
		o["encapsulation"] = "block"
		o["body"] = blockList(b)
	}
}

func implementorList(implementors []nl.Implementor) list {
	out := make(list, 0, len(implementors))
	for _, implementor := range implementors {
		switch i := implementor.(type) {
		case *nl.Method:
			o := functionObject(&i.Function)
			o["implementor"] = "method"
			out = append(out, o)
		case *nl.Getter:
			o := object{
				"implementor": "get",
				"name":        i.Name,
				"arguments":   argumentList(i.Arguments),
				"return_type": typeObject(i.ReturnType),
			}
			encapsulate(o, i.Body)
			out = append(out, o)
		case *nl.Setter:
			o := object{
				"implementor": "set",
				"name":        i.Name,
				"arguments":   argumentList(i.Arguments),
			}
			encapsulate(o, i.Body)
			out = append(out, o)
		}
	}
	return out
}

func blockList(b *nl.Block) list {
	out := make(list, 0, len(b.Operations))
	for _, op := range b.Operations {
		out = append(out, operationObject(op))
	}
	return out
}

func operationList(ops []nl.Operation) list {
	return blockList(&nl.Block{Operations: ops})
}

func operationObject(op nl.Operation) object {
	switch o := op.(type) {
	case *nl.Block:
		return object{"op": "block", "operations": blockList(o)}
	case nl.ConstantBoolean:
		return object{"op": "bool", "value": o.Value}
	case nl.ConstantInteger:
		return object{
			"op":        "int",
			"type":      o.Kind.String(),
			"negative":  o.Negative,
			"magnitude": strconv.FormatUint(o.Magnitude, 10),
		}
	case nl.ConstantFloat32:
		return object{"op": "f32", "value": float64(o.Value)}
	case nl.ConstantFloat64:
		return object{"op": "f64", "value": o.Value}
	case nl.ConstantString:
		return object{"op": "str", "value": o.Value}
	case *nl.Assignment:
		return object{
			"op":      "assign",
			"define":  o.Define,
			"targets": stringList(o.Targets),
			"types":   typeList(o.Types),
			"value":   operationObject(o.Value),
		}
	case nl.Variable:
		return object{"op": "var", "name": o.Name}
	case *nl.Tuple:
		return object{"op": "tuple", "elements": operationList(o.Elements)}
	case *nl.BinaryOperator:
		return object{
			"op":       "binary",
			"operator": o.Kind.Symbol(),
			"left":     operationObject(o.Left),
			"right":    operationObject(o.Right),
		}
	case *nl.UnaryOperator:
		return object{
			"op":       "unary",
			"operator": o.Kind.Symbol(),
			"operand":  operationObject(o.Operand),
		}
	case *nl.If:
		return object{
			"op":        "if",
			"condition": operationObject(o.Condition),
			"true":      blockList(&o.True),
			"false":     blockList(&o.False),
		}
	case *nl.Loop:
		return object{"op": "loop", "body": blockList(&o.Body)}
	case *nl.WhileLoop:
		return object{
			"op":        "while",
			"condition": operationObject(o.Condition),
			"body":      blockList(&o.Body),
		}
	case *nl.ForLoop:
		return object{
			"op":       "for",
			"variable": o.Variable,
			"iterator": operationObject(o.Iterator),
			"body":     blockList(&o.Body),
		}
	case nl.Break:
		return object{"op": "break"}
	case *nl.Match:
		branches := make(list, 0, len(o.Branches))
		for _, branch := range o.Branches {
			branches = append(branches, object{
				"pattern": patternObject(branch.Pattern),
				"body":    operationObject(branch.Body),
			})
		}
		return object{"op": "match", "input": operationObject(o.Input), "branches": branches}
	case *nl.FunctionCall:
		return object{"op": "call", "path": o.Path, "arguments": stringList(o.Arguments)}
	}
	return object{"op": "unknown"}
}

func patternObject(p nl.Pattern) object {
	switch o := p.(type) {
	case *nl.EnumPattern:
		return object{
			"pattern": "enum",
			"enum":    o.Enum,
			"variant": o.Variant,
			"fields":  stringList(o.Fields),
		}
	case *nl.ConstantPattern:
		return object{"pattern": "constant", "value": operationObject(o.Value)}
	case *nl.RangePattern:
		return object{
			"pattern": "range",
			"low":     strconv.FormatInt(o.Low, 10),
			"high":    strconv.FormatInt(o.High, 10),
		}
	}
	return object{"pattern": "unknown"}
}
