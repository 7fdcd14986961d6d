// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nl

// Type = PrimitiveType | TupleType | NominalType
func (p *parser) readType(in string) (string, Type, error) {
	return choice[Type](in, "unknown variable type",
		p.readPrimitiveType,
		p.readTupleType,
		p.readNominalType,
	)
}

var primitiveTypes = []struct {
	text string
	kind TypeKind
}{
	{"i8", TypeKindI8},
	{"i16", TypeKindI16},
	{"i32", TypeKindI32},
	{"i64", TypeKindI64},
	{"u8", TypeKindU8},
	{"u16", TypeKindU16},
	{"u32", TypeKindU32},
	{"u64", TypeKindU64},
	{"f32", TypeKindF32},
	{"f64", TypeKindF64},
	{"bool", TypeKindBoolean},
	{"str", TypeKindBorrowedString},
	{"String", TypeKindOwnedString},
}

// PrimitiveType = i8 | i16 | i32 | i64 | u8 | u16 | u32 | u64 | f32 | f64 | bool | str | String
func (p *parser) readPrimitiveType(in string) (string, Type, error) {
	for _, primitive := range primitiveTypes {
		rest, err := p.keyword(in, primitive.text)
		if err == nil {
			return rest, Primitive(primitive.kind), nil
		}
		if isFatal(err) {
			return rest, Type{}, err
		}
	}
	return in, Type{}, p.decline(in, "must be a primitive type")
}

// TupleType = paren_open [ Type { comma Type } [comma] ] paren_close
func (p *parser) readTupleType(in string) (string, Type, error) {
	rest, elements, err := commaList[Type](p, in, "(", p.readType, ")", "a type")
	if err != nil {
		return rest, Type{}, err
	}
	return rest, Type{Kind: TypeKindTuple, Elements: elements}, nil
}

// NominalType = [ampersand] [mut] [dyn] ( self | declaration_name ) | ampersand str
func (p *parser) readNominalType(in string) (string, Type, error) {
	start := in
	reference, mutable, dynamic := false, false, false
	if rest, err := p.punct(in, "&"); err == nil {
		reference = true
		in = rest
	} else if isFatal(err) {
		return rest, Type{}, err
	}
	if rest, err := p.keyword(in, "mut"); err == nil {
		// mut is only meaningful behind a reference; an owned value is
		// already mutable by its owner.
		mutable = reference
		in = rest
	} else if isFatal(err) {
		return rest, Type{}, err
	}
	if rest, err := p.keyword(in, "dyn"); err == nil {
		dynamic = true
		in = rest
	} else if isFatal(err) {
		return rest, Type{}, err
	}
	if rest, err := p.keyword(in, "str"); err == nil && reference && !mutable && !dynamic {
		// &str is the spelled-out form of the borrowed string
		return rest, Primitive(TypeKindBorrowedString), nil
	} else if isFatal(err) {
		return rest, Type{}, err
	}
	if rest, err := p.keyword(in, "self"); err == nil {
		if mutable {
			return rest, Type{Kind: TypeKindMutableSelfReference}, nil
		}
		return rest, Type{Kind: TypeKindSelfReference}, nil
	} else if isFatal(err) {
		return rest, Type{}, err
	}
	rest, name, err := p.readDeclarationName(in)
	if err != nil {
		if in != start {
			return rest, Type{}, must(err, "unknown variable type")
		}
		return rest, Type{}, err
	}
	var kind TypeKind
	switch {
	case dynamic && mutable:
		kind = TypeKindMutableReferencedTrait
	case dynamic && reference:
		kind = TypeKindReferencedTrait
	case dynamic:
		kind = TypeKindOwnedTrait
	case mutable:
		kind = TypeKindMutableReferencedStruct
	case reference:
		kind = TypeKindReferencedStruct
	default:
		kind = TypeKindOwnedStruct
	}
	return rest, Type{Kind: kind, Name: name}, nil
}

// SelfArgument = ampersand [mut] self
func (p *parser) readSelfArgument(in string) (string, Argument, error) {
	rest, err := p.punct(in, "&")
	if err != nil {
		return rest, Argument{}, err
	}
	kind := TypeKindSelfReference
	if after, err := p.keyword(rest, "mut"); err == nil {
		kind = TypeKindMutableSelfReference
		rest = after
	} else if isFatal(err) {
		return after, Argument{}, err
	}
	rest, err = p.skipTrivia(rest)
	if err != nil {
		return rest, Argument{}, err
	}
	after, err := p.keyword(rest, "self")
	if err != nil {
		return in, Argument{}, p.decline(in, "expected &self or &mut self")
	}
	return after, Argument{Name: rest[:len("self")], Type: Type{Kind: kind}}, nil
}

// TypedArgument = name colon Type
func (p *parser) readTypedArgument(in string) (string, Argument, error) {
	rest, name, err := p.readBindingName(in)
	if err != nil {
		return rest, Argument{}, err
	}
	rest, err = p.punct(rest, ":")
	if err != nil {
		return rest, Argument{}, err
	}
	rest, t, err := p.readType(rest)
	if err != nil {
		return rest, Argument{}, must(err, "unknown variable type")
	}
	return rest, Argument{Name: name, Type: t}, nil
}

// Argument = SelfArgument | TypedArgument
func (p *parser) readArgument(in string) (string, Argument, error) {
	return choice[Argument](in, "expected an argument",
		p.readSelfArgument,
		p.readTypedArgument,
	)
}

// Arguments = paren_open [ Argument { comma Argument } [comma] ] paren_close
func (p *parser) readArguments(in string) (string, []Argument, error) {
	return commaList[Argument](p, in, "(", p.readArgument, ")", "an argument")
}

// TypedArguments is Arguments without the self forms. Used by enum variants.
func (p *parser) readTypedArguments(in string) (string, []Argument, error) {
	return commaList[Argument](p, in, "(", p.readTypedArgument, ")", "a typed field")
}
