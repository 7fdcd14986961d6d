// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nl

// Walk calls f for every declaration and operation of file. Children are
// visited before their parent and file itself is visited last. Values are
// passed as stored in the tree: *File, *Struct, *StructVariable,
// *Implementation, *Method, *Getter, *Setter, *Trait, *Function, *Enum,
// *Variant, *Argument, Operation and Pattern.
func Walk(file *File, f func(interface{})) {
	for i := range file.Structs {
		walkStruct(&file.Structs[i], f)
	}
	for i := range file.Traits {
		walkTrait(&file.Traits[i], f)
	}
	for i := range file.Functions {
		walkFunction(&file.Functions[i], f)
	}
	for i := range file.Enums {
		walkEnum(&file.Enums[i], f)
	}
	f(file)
}

func walkStruct(s *Struct, f func(interface{})) {
	for i := range s.Variables {
		f(&s.Variables[i])
	}
	for i := range s.Implementations {
		walkImplementation(&s.Implementations[i], f)
	}
	f(s)
}

func walkImplementation(impl *Implementation, f func(interface{})) {
	for _, implementor := range impl.Implementors {
		walkImplementor(implementor, f)
	}
	f(impl)
}

func walkTrait(t *Trait, f func(interface{})) {
	for _, implementor := range t.Implementors {
		walkImplementor(implementor, f)
	}
	f(t)
}

func walkImplementor(implementor Implementor, f func(interface{})) {
	switch i := implementor.(type) {
	case *Method:
		walkArguments(i.Arguments, f)
		if i.Block != nil {
			WalkOperation(i.Block, f)
		}
	case *Getter:
		walkArguments(i.Arguments, f)
		if b, ok := i.Body.Block(); ok {
			WalkOperation(b, f)
		}
	case *Setter:
		walkArguments(i.Arguments, f)
		if b, ok := i.Body.Block(); ok {
			WalkOperation(b, f)
		}
	}
	f(implementor)
}

func walkFunction(fn *Function, f func(interface{})) {
	walkArguments(fn.Arguments, f)
	if fn.Block != nil {
		WalkOperation(fn.Block, f)
	}
	f(fn)
}

func walkArguments(arguments []Argument, f func(interface{})) {
	for i := range arguments {
		f(&arguments[i])
	}
}

func walkEnum(e *Enum, f func(interface{})) {
	for i := range e.Variants {
		walkArguments(e.Variants[i].Fields, f)
		f(&e.Variants[i])
	}
	f(e)
}

func walkBlock(b *Block, f func(interface{})) {
	for _, op := range b.Operations {
		WalkOperation(op, f)
	}
}

// WalkOperation visits op and every operation and pattern beneath it, children
// first.
func WalkOperation(op Operation, f func(interface{})) {
	switch op := op.(type) {
	case *Block:
		walkBlock(op, f)
	case *Assignment:
		WalkOperation(op.Value, f)
	case *Tuple:
		for _, e := range op.Elements {
			WalkOperation(e, f)
		}
	case *BinaryOperator:
		WalkOperation(op.Left, f)
		WalkOperation(op.Right, f)
	case *UnaryOperator:
		WalkOperation(op.Operand, f)
	case *If:
		WalkOperation(op.Condition, f)
		walkBlock(&op.True, f)
		walkBlock(&op.False, f)
	case *Loop:
		walkBlock(&op.Body, f)
	case *WhileLoop:
		WalkOperation(op.Condition, f)
		walkBlock(&op.Body, f)
	case *ForLoop:
		WalkOperation(op.Iterator, f)
		walkBlock(&op.Body, f)
	case *Match:
		WalkOperation(op.Input, f)
		for _, branch := range op.Branches {
			f(branch.Pattern)
			WalkOperation(branch.Body, f)
		}
	}
	f(op)
}
