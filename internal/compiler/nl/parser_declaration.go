// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nl

// Struct = struct declaration_name brace_open [ StructVariable { comma StructVariable } [comma] ] brace_close { Implementation }
func (p *parser) readStruct(in string) (string, Struct, error) {
	rest, err := p.keyword(in, "struct")
	if err != nil {
		return rest, Struct{}, err
	}
	rest, name, err := p.readDeclarationName(rest)
	if err != nil {
		return rest, Struct{}, must(err, "expected a struct name")
	}
	rest, variables, err := commaList[StructVariable](p, rest, "{", p.readStructVariable, "}", "a struct variable")
	if err != nil {
		return rest, Struct{}, must(err, "expected '{' after the struct name")
	}
	rest, implementations, err := many[Implementation](rest, p.readImplementation)
	if err != nil {
		return rest, Struct{}, err
	}
	return rest, Struct{Name: name, Variables: variables, Implementations: implementations}, nil
}

// StructVariable = name colon Type
func (p *parser) readStructVariable(in string) (string, StructVariable, error) {
	rest, arg, err := p.readTypedArgument(in)
	if err != nil {
		return rest, StructVariable{}, err
	}
	return rest, StructVariable{Name: arg.Name, Type: arg.Type}, nil
}

// Implementation = impl declaration_name Implementors
func (p *parser) readImplementation(in string) (string, Implementation, error) {
	rest, err := p.keyword(in, "impl")
	if err != nil {
		return rest, Implementation{}, err
	}
	rest, target, err := p.readDeclarationName(rest)
	if err != nil {
		return rest, Implementation{}, must(err, "expected a name after impl")
	}
	rest, implementors, err := p.readImplementors(rest)
	if err != nil {
		return rest, Implementation{}, must(err, "expected '{' after the impl target")
	}
	return rest, Implementation{Target: target, Implementors: implementors}, nil
}

// Trait = trait declaration_name Implementors
func (p *parser) readTrait(in string) (string, Trait, error) {
	rest, err := p.keyword(in, "trait")
	if err != nil {
		return rest, Trait{}, err
	}
	rest, name, err := p.readDeclarationName(rest)
	if err != nil {
		return rest, Trait{}, must(err, "expected a trait name")
	}
	rest, implementors, err := p.readImplementors(rest)
	if err != nil {
		return rest, Trait{}, must(err, "expected '{' after the trait name")
	}
	return rest, Trait{Name: name, Implementors: implementors}, nil
}

// Implementors = brace_open { Method | Getter | Setter } brace_close
func (p *parser) readImplementors(in string) (string, []Implementor, error) {
	rest, err := p.punct(in, "{")
	if err != nil {
		return rest, nil, err
	}
	rest, implementors, err := many[Implementor](rest, p.readImplementor)
	if err != nil {
		return rest, nil, err
	}
	rest, err = p.punct(rest, "}")
	if err != nil {
		return rest, nil, must(err, "expected met, get, set or '}'")
	}
	return rest, implementors, nil
}

func (p *parser) readImplementor(in string) (string, Implementor, error) {
	return choice[Implementor](in, "expected met, get or set",
		p.readMethod,
		p.readGetter,
		p.readSetter,
	)
}

// Method = met Signature
func (p *parser) readMethod(in string) (string, Implementor, error) {
	rest, err := p.keyword(in, "met")
	if err != nil {
		return rest, nil, err
	}
	rest, f, err := p.readSignature(rest, "method")
	if err != nil {
		return rest, nil, err
	}
	return rest, &Method{Function: f}, nil
}

// Function = fn Signature
func (p *parser) readFunction(in string) (string, Function, error) {
	rest, err := p.keyword(in, "fn")
	if err != nil {
		return rest, Function{}, err
	}
	return p.readSignature(rest, "function")
}

// Signature = declaration_name Arguments [arrow Type] ( Block | semicolon )
func (p *parser) readSignature(in string, what string) (string, Function, error) {
	rest, name, err := p.readDeclarationName(in)
	if err != nil {
		return rest, Function{}, must(err, "expected a "+what+" name")
	}
	rest, arguments, err := p.readArguments(rest)
	if err != nil {
		return rest, Function{}, must(err, "expected an argument list after the "+what+" name")
	}
	rest, returnType, err := opt[Type](rest, p.readReturnType)
	if err != nil {
		return rest, Function{}, err
	}
	rest, block, err := p.readBody(rest)
	if err != nil {
		return rest, Function{}, err
	}
	return rest, Function{
		Name:       name,
		Arguments:  arguments,
		ReturnType: returnType.ValueOr(Type{}),
		Block:      block,
	}, nil
}

// ReturnType = arrow Type
func (p *parser) readReturnType(in string) (string, Type, error) {
	rest, err := p.punct(in, "->")
	if err != nil {
		return rest, Type{}, err
	}
	rest, t, err := p.readType(rest)
	if err != nil {
		return rest, Type{}, must(err, "unknown variable type")
	}
	return rest, t, nil
}

// Body = Block | semicolon. A nil block is a forward declaration.
func (p *parser) readBody(in string) (string, *Block, error) {
	rest, block, err := p.readBlock(in)
	if err == nil || isFatal(err) {
		return rest, block, err
	}
	rest, err = p.punct(in, ";")
	if err != nil {
		return rest, nil, must(err, "expected a block or ';'")
	}
	return rest, nil, nil
}

// DefaultBody = colon default
func (p *parser) readDefaultBody(in string) (string, bool, error) {
	rest, err := p.punct(in, ":")
	if err != nil {
		if isFatal(err) {
			return rest, false, err
		}
		return in, false, nil
	}
	rest, err = p.keyword(rest, "default")
	if err != nil {
		return rest, false, must(err, "expected default after ':'")
	}
	return rest, true, nil
}

func encapsulate(block *Block) Encapsulation {
	if block == nil {
		return EncapsulateNone()
	}
	return EncapsulateBlock(block)
}

// Getter = get declaration_name ( DefaultBody [arrow Type] semicolon | Arguments [arrow Type] Body )
func (p *parser) readGetter(in string) (string, Implementor, error) {
	rest, err := p.keyword(in, "get")
	if err != nil {
		return rest, nil, err
	}
	rest, name, err := p.readDeclarationName(rest)
	if err != nil {
		return rest, nil, must(err, "expected a getter name")
	}
	rest, isDefault, err := p.readDefaultBody(rest)
	if err != nil {
		return rest, nil, err
	}
	getter := &Getter{Name: name}
	if !isDefault {
		rest, getter.Arguments, err = p.readArguments(rest)
		if err != nil {
			return rest, nil, must(err, "expected ': default' or an argument list after the getter name")
		}
	}
	rest, returnType, err := opt[Type](rest, p.readReturnType)
	if err != nil {
		return rest, nil, err
	}
	getter.ReturnType = returnType.ValueOr(Type{})
	if isDefault {
		rest, err = p.punct(rest, ";")
		if err != nil {
			return rest, nil, must(err, "expected ';' after default")
		}
		getter.Body = EncapsulateDefault()
		return rest, getter, nil
	}
	rest, block, err := p.readBody(rest)
	if err != nil {
		return rest, nil, err
	}
	getter.Body = encapsulate(block)
	return rest, getter, nil
}

// Setter = set declaration_name ( DefaultBody semicolon | Arguments Body )
func (p *parser) readSetter(in string) (string, Implementor, error) {
	rest, err := p.keyword(in, "set")
	if err != nil {
		return rest, nil, err
	}
	rest, name, err := p.readDeclarationName(rest)
	if err != nil {
		return rest, nil, must(err, "expected a setter name")
	}
	rest, isDefault, err := p.readDefaultBody(rest)
	if err != nil {
		return rest, nil, err
	}
	setter := &Setter{Name: name}
	if isDefault {
		rest, err = p.punct(rest, ";")
		if err != nil {
			return rest, nil, must(err, "expected ';' after default")
		}
		setter.Body = EncapsulateDefault()
		return rest, setter, nil
	}
	rest, setter.Arguments, err = p.readArguments(rest)
	if err != nil {
		return rest, nil, must(err, "expected ': default' or an argument list after the setter name")
	}
	rest, block, err := p.readBody(rest)
	if err != nil {
		return rest, nil, err
	}
	setter.Body = encapsulate(block)
	return rest, setter, nil
}

// Enum = enum declaration_name brace_open [ Variant { comma Variant } [comma] ] brace_close
func (p *parser) readEnum(in string) (string, Enum, error) {
	rest, err := p.keyword(in, "enum")
	if err != nil {
		return rest, Enum{}, err
	}
	rest, name, err := p.readDeclarationName(rest)
	if err != nil {
		return rest, Enum{}, must(err, "expected an enum name")
	}
	rest, variants, err := commaList[Variant](p, rest, "{", p.readVariant, "}", "an enum variant")
	if err != nil {
		return rest, Enum{}, must(err, "expected '{' after the enum name")
	}
	return rest, Enum{Name: name, Variants: variants}, nil
}

// Variant = declaration_name [ TypedArguments ]
func (p *parser) readVariant(in string) (string, Variant, error) {
	rest, name, err := p.readDeclarationName(in)
	if err != nil {
		return rest, Variant{}, err
	}
	variant := Variant{Name: name}
	if after, fields, err := p.readTypedArguments(rest); err == nil {
		variant.Fields = fields
		rest = after
	} else if isFatal(err) {
		return after, Variant{}, err
	}
	return rest, variant, nil
}
