// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nl

import (
	"math"
	"strings"

	"gopkg.nlang.org/compiler.go/internal/exc"
)

// Operation = Block | If | Match | Break | Loop | WhileLoop | ForLoop | Tuple
//           | FunctionCall | Assignment | BinaryOperator | Constant
//           | UnaryOperator | VariableAccess
//
// The order is significant: the first alternative that matches wins.
func (p *parser) readOperation(in string) (string, Operation, error) {
	return memoize(&p.operations, in, p.readOperationUncached)
}

func (p *parser) readOperationUncached(in string) (string, Operation, error) {
	return choice[Operation](in, "expected an operation",
		p.readBlockOperation,
		p.readIf,
		p.readMatch,
		p.readBreak,
		p.readLoop,
		p.readWhileLoop,
		p.readForLoop,
		p.readTuple,
		p.readFunctionCall,
		p.readAssignment,
		p.readBinaryOperator,
		p.readConstantOperation,
		p.readUnaryOperator,
		p.readVariable,
	)
}

// SubOperation is an operand of a binary or unary operator. It excludes
// control flow and binary operators, so operators neither chain nor have
// precedence.
//
// SubOperation = Block | Tuple | FunctionCall | Assignment | Constant | UnaryOperator | VariableAccess
func (p *parser) readSubOperation(in string) (string, Operation, error) {
	return memoize(&p.subOperations, in, p.readSubOperationUncached)
}

func (p *parser) readSubOperationUncached(in string) (string, Operation, error) {
	return choice[Operation](in, "expected an operand",
		p.readBlockOperation,
		p.readTuple,
		p.readFunctionCall,
		p.readAssignment,
		p.readConstantOperation,
		p.readUnaryOperator,
		p.readVariable,
	)
}

// Block = brace_open { Operation [semicolon] } brace_close
func (p *parser) readBlock(in string) (string, *Block, error) {
	rest, err := p.punct(in, "{")
	if err != nil {
		return rest, nil, err
	}
	rest, operations, err := many[Operation](rest, p.readStatement)
	if err != nil {
		return rest, nil, err
	}
	rest, err = p.punct(rest, "}")
	if err != nil {
		return rest, nil, must(err, "expected an operation or '}'")
	}
	return rest, &Block{Operations: operations}, nil
}

func (p *parser) readStatement(in string) (string, Operation, error) {
	rest, op, err := p.readOperation(in)
	if err != nil {
		return rest, nil, err
	}
	if after, err := p.punct(rest, ";"); err == nil {
		rest = after
	} else if isFatal(err) {
		return after, nil, err
	}
	return rest, op, nil
}

func (p *parser) readBlockOperation(in string) (string, Operation, error) {
	rest, b, err := p.readBlock(in)
	if err != nil {
		return rest, nil, err
	}
	return rest, b, nil
}

// If = if Operation Block [else Block]
func (p *parser) readIf(in string) (string, Operation, error) {
	rest, err := p.keyword(in, "if")
	if err != nil {
		return rest, nil, err
	}
	rest, condition, err := p.readOperation(rest)
	if err != nil {
		return rest, nil, must(err, "expected a condition after if")
	}
	rest, t, err := p.readBlock(rest)
	if err != nil {
		return rest, nil, must(err, "expected a block after the if condition")
	}
	op := &If{Condition: condition, True: *t}
	if after, err := p.keyword(rest, "else"); err == nil {
		after, f, err := p.readBlock(after)
		if err != nil {
			return after, nil, must(err, "expected a block after else")
		}
		op.False = *f
		rest = after
	} else if isFatal(err) {
		return after, nil, err
	}
	return rest, op, nil
}

// Loop = loop Block
func (p *parser) readLoop(in string) (string, Operation, error) {
	rest, err := p.keyword(in, "loop")
	if err != nil {
		return rest, nil, err
	}
	rest, body, err := p.readBlock(rest)
	if err != nil {
		return rest, nil, must(err, "expected a block after loop")
	}
	return rest, &Loop{Body: *body}, nil
}

// WhileLoop = while Operation Block
func (p *parser) readWhileLoop(in string) (string, Operation, error) {
	rest, err := p.keyword(in, "while")
	if err != nil {
		return rest, nil, err
	}
	rest, condition, err := p.readOperation(rest)
	if err != nil {
		return rest, nil, must(err, "expected a condition after while")
	}
	rest, body, err := p.readBlock(rest)
	if err != nil {
		return rest, nil, must(err, "expected a block after the while condition")
	}
	return rest, &WhileLoop{Condition: condition, Body: *body}, nil
}

// ForLoop = for name in Operation Block
func (p *parser) readForLoop(in string) (string, Operation, error) {
	rest, err := p.keyword(in, "for")
	if err != nil {
		return rest, nil, err
	}
	rest, variable, err := p.readBindingName(rest)
	if err != nil {
		return rest, nil, must(err, "expected a variable name after for")
	}
	rest, err = p.keyword(rest, "in")
	if err != nil {
		return rest, nil, must(err, "expected in after the for variable")
	}
	rest, iterator, err := p.readOperation(rest)
	if err != nil {
		return rest, nil, must(err, "expected an iterator after in")
	}
	rest, body, err := p.readBlock(rest)
	if err != nil {
		return rest, nil, must(err, "expected a block after the for iterator")
	}
	return rest, &ForLoop{Variable: variable, Iterator: iterator, Body: *body}, nil
}

// Break = break
func (p *parser) readBreak(in string) (string, Operation, error) {
	rest, err := p.keyword(in, "break")
	if err != nil {
		return rest, nil, err
	}
	return rest, Break{}, nil
}

// Match = match Operation brace_open [ MatchBranch { comma MatchBranch } [comma] ] brace_close
func (p *parser) readMatch(in string) (string, Operation, error) {
	rest, err := p.keyword(in, "match")
	if err != nil {
		return rest, nil, err
	}
	rest, input, err := p.readOperation(rest)
	if err != nil {
		return rest, nil, must(err, "expected a value after match")
	}
	rest, branches, err := commaList[MatchBranch](p, rest, "{", p.readMatchBranch, "}", "a match branch")
	if err != nil {
		return rest, nil, must(err, "expected '{' after the match value")
	}
	return rest, &Match{Input: input, Branches: branches}, nil
}

// MatchBranch = ( EnumPattern | ConstantPattern | RangePattern ) fat_arrow Operation
func (p *parser) readMatchBranch(in string) (string, MatchBranch, error) {
	rest, pattern, err := choice[Pattern](in, "expected a match pattern",
		p.readEnumPattern,
		p.readConstantPattern,
		p.readRangePattern,
	)
	if err != nil {
		return rest, MatchBranch{}, err
	}
	rest, err = p.punct(rest, "=>")
	if err != nil {
		return rest, MatchBranch{}, must(err, "expected '=>' after the match pattern")
	}
	rest, body, err := p.readOperation(rest)
	if err != nil {
		return rest, MatchBranch{}, must(err, "expected an operation after '=>'")
	}
	return rest, MatchBranch{Pattern: pattern, Body: body}, nil
}

// EnumPattern = declaration_name double_colon declaration_name [ paren_open [ name { comma name } [comma] ] paren_close ]
func (p *parser) readEnumPattern(in string) (string, Pattern, error) {
	rest, enum, err := p.readDeclarationName(in)
	if err != nil {
		return rest, nil, err
	}
	rest, err = p.punct(rest, "::")
	if err != nil {
		return in, nil, p.decline(in, "expected an enum pattern")
	}
	rest, variant, err := p.readDeclarationName(rest)
	if err != nil {
		return rest, nil, must(err, "expected a variant name after '::'")
	}
	pattern := &EnumPattern{Enum: enum, Variant: variant}
	if after, fields, err := commaList[string](p, rest, "(", p.readBindingName, ")", "a field name"); err == nil {
		pattern.Fields = fields
		rest = after
	} else if isFatal(err) {
		return after, nil, err
	}
	return rest, pattern, nil
}

// ConstantPattern = Constant, only when followed by fat_arrow.
func (p *parser) readConstantPattern(in string) (string, Pattern, error) {
	rest, value, err := p.readConstant(in)
	if err != nil {
		return rest, nil, err
	}
	if _, err := p.punct(rest, "=>"); err != nil {
		if isFatal(err) {
			return rest, nil, err
		}
		return in, nil, p.decline(in, "expected a constant pattern")
	}
	return rest, &ConstantPattern{Value: value}, nil
}

// RangePattern = integer range integer
func (p *parser) readRangePattern(in string) (string, Pattern, error) {
	rest, low, err := p.readRangeBound(in)
	if err != nil {
		return rest, nil, err
	}
	rest, err = p.punct(rest, "..")
	if err != nil {
		return in, nil, p.decline(in, "expected a range pattern")
	}
	rest, high, err := p.readRangeBound(rest)
	if err != nil {
		return rest, nil, must(err, "expected an integer after '..'")
	}
	return rest, &RangePattern{Low: low, High: high}, nil
}

func (p *parser) readRangeBound(in string) (string, int64, error) {
	rest, value, err := p.readNumber(in)
	if err != nil {
		return rest, 0, err
	}
	c, ok := value.(ConstantInteger)
	if !ok {
		return in, 0, p.decline(in, "range bounds must be integers")
	}
	if !c.Negative && c.Magnitude > math.MaxInt64 {
		return in, 0, p.fatal(in, exc.CodeInvalidNumber, "range bound %d is too large", c.Magnitude)
	}
	return rest, c.Int64(), nil
}

// Tuple = paren_open [ Operation { comma Operation } [comma] ] paren_close
//
// A tuple directly followed by a standalone '=' is left to Assignment as a
// destructuring target.
func (p *parser) readTuple(in string) (string, Operation, error) {
	rest, elements, err := commaList[Operation](p, in, "(", p.readOperation, ")", "an operation")
	if err != nil {
		return rest, nil, err
	}
	if p.atAssign(rest) {
		return in, nil, p.decline(in, "tuple is an assignment target")
	}
	return rest, &Tuple{Elements: elements}, nil
}

// FunctionCall = scoped_name paren_open [ name { comma name } [comma] ] paren_close
func (p *parser) readFunctionCall(in string) (string, Operation, error) {
	rest, path, err := p.readScopedName(in)
	if err != nil {
		return rest, nil, err
	}
	if _, err := p.punct(rest, "("); err != nil {
		if isFatal(err) {
			return rest, nil, err
		}
		return in, nil, p.decline(in, "expected a function call")
	}
	rest, arguments, err := commaList[string](p, rest, "(", p.readCallArgument, ")", "an argument")
	if err != nil {
		return rest, nil, err
	}
	return rest, &FunctionCall{Path: path, Arguments: arguments}, nil
}

func (p *parser) readCallArgument(in string) (string, string, error) {
	rest, name, err := p.readBindingName(in)
	if err != nil {
		return rest, "", must(err, "function call arguments must be bare names")
	}
	return rest, name, nil
}

// Assignment = [let] AssignmentTarget [ colon Type { comma Type } ] equal Operation
// AssignmentTarget = scoped_name | paren_open [ name { comma name } [comma] ] paren_close
func (p *parser) readAssignment(in string) (string, Operation, error) {
	op := &Assignment{}
	rest := in
	if after, err := p.keyword(in, "let"); err == nil {
		op.Define = true
		rest = after
	} else if isFatal(err) {
		return after, nil, err
	}
	// let commits; a plain mutation commits only once '=' is seen.
	bail := func(err error, context string) (string, Operation, error) {
		if op.Define || isFatal(err) {
			return in, nil, must(err, context)
		}
		return in, nil, p.decline(in, "expected an assignment")
	}

	rest, targets, err := p.readAssignmentTargets(rest)
	if err != nil {
		return bail(err, "expected a variable name after let")
	}
	op.Targets = targets

	if after, err := p.punct(rest, ":"); err == nil {
		after, types, err := p.readTypeList(after)
		if err != nil {
			return bail(err, "unknown variable type")
		}
		// a tuple annotation gives one type per target
		if len(types) == 1 && types[0].Kind == TypeKindTuple {
			types = types[0].Elements
		}
		op.Types = types
		rest = after
	} else if isFatal(err) {
		return after, nil, err
	}

	rest, err = p.skipTrivia(rest)
	if err != nil {
		return rest, nil, err
	}
	if !p.atAssign(rest) {
		return bail(p.decline(rest, "expected '='"), "expected '=' in let")
	}
	rest, value, err := p.readOperation(rest[1:])
	if err != nil {
		return rest, nil, must(err, "expected a value after '='")
	}
	op.Value = value
	return rest, op, nil
}

func (p *parser) readAssignmentTargets(in string) (string, []string, error) {
	if rest, names, err := commaList[string](p, in, "(", p.readBindingName, ")", "a variable name"); err == nil || isFatal(err) {
		return rest, names, err
	}
	rest, name, err := p.readScopedName(in)
	if err != nil {
		return rest, nil, err
	}
	return rest, []string{name}, nil
}

func (p *parser) readTypeList(in string) (string, []Type, error) {
	rest, first, err := p.readType(in)
	if err != nil {
		return rest, nil, err
	}
	types := []Type{first}
	for {
		after, err := p.punct(rest, ",")
		if err != nil {
			if isFatal(err) {
				return after, nil, err
			}
			return rest, types, nil
		}
		after, t, err := p.readType(after)
		if err != nil {
			return after, nil, must(err, "unknown variable type")
		}
		types = append(types, t)
		rest = after
	}
}

// atAssign reports whether in starts with a standalone '=' that is not part
// of a longer operator such as '==' or '=>'.
func (p *parser) atAssign(in string) bool {
	in, err := p.skipTrivia(in)
	if err != nil {
		return false
	}
	return symbolRun(in) == "="
}

const symbolAlphabet = "=!~|&^%+-*/<>."

// symbolRun returns the longest prefix of in made of operator symbols. A
// comment opener ends the run.
func symbolRun(in string) string {
	n := 0
	for n < len(in) && strings.IndexByte(symbolAlphabet, in[n]) >= 0 {
		if in[n] == '/' && n+1 < len(in) && (in[n+1] == '/' || in[n+1] == '*') {
			break
		}
		n = n + 1
	}
	return in[:n]
}

var binaryKinds = func() map[string]BinaryKind {
	kinds := make(map[string]BinaryKind, len(binarySymbols))
	for kind, symbol := range binarySymbols {
		kinds[symbol] = BinaryKind(kind)
	}
	return kinds
}()

var unaryKinds = func() map[string]UnaryKind {
	kinds := make(map[string]UnaryKind, len(unarySymbols))
	for kind, symbol := range unarySymbols {
		kinds[symbol] = UnaryKind(kind)
	}
	return kinds
}()

// BinaryOperator = SubOperation symbol SubOperation
func (p *parser) readBinaryOperator(in string) (string, Operation, error) {
	rest, left, err := p.readSubOperation(in)
	if err != nil {
		return rest, nil, err
	}
	rest, err = p.skipTrivia(rest)
	if err != nil {
		return rest, nil, err
	}
	symbol := symbolRun(rest)
	if symbol == "" {
		return in, nil, p.decline(in, "expected a binary operator")
	}
	kind, ok := binaryKinds[symbol]
	if !ok {
		return rest, nil, p.fatal(rest, exc.CodeSyntax, "unknown operator %q", symbol)
	}
	rest, right, err := p.readSubOperation(rest[len(symbol):])
	if err != nil {
		return rest, nil, must(err, "expected an operand after '"+symbol+"'")
	}
	return rest, &BinaryOperator{Kind: kind, Left: left, Right: right}, nil
}

// UnaryOperator = symbol SubOperation
func (p *parser) readUnaryOperator(in string) (string, Operation, error) {
	rest, err := p.skipTrivia(in)
	if err != nil {
		return rest, nil, err
	}
	symbol := symbolRun(rest)
	if symbol == "" {
		return in, nil, p.decline(in, "expected a unary operator")
	}
	kind, ok := unaryKinds[symbol]
	if !ok {
		return rest, nil, p.fatal(rest, exc.CodeSyntax, "unknown operator %q", symbol)
	}
	rest, operand, err := p.readSubOperation(rest[len(symbol):])
	if err != nil {
		return rest, nil, must(err, "expected an operand after '"+symbol+"'")
	}
	return rest, &UnaryOperator{Kind: kind, Operand: operand}, nil
}

func (p *parser) readConstantOperation(in string) (string, Operation, error) {
	rest, c, err := p.readConstant(in)
	if err != nil {
		return rest, nil, err
	}
	return rest, c, nil
}

// VariableAccess = scoped_name
func (p *parser) readVariable(in string) (string, Operation, error) {
	rest, name, err := p.readScopedName(in)
	if err != nil {
		return rest, nil, err
	}
	return rest, Variable{Name: name}, nil
}
