// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nl

import (
	"strconv"
	"strings"

	"gopkg.nlang.org/compiler.go/internal/exc"
)

// Constant = Boolean | String | Number
func (p *parser) readConstant(in string) (string, Constant, error) {
	return choice[Constant](in, "expected a constant",
		p.readBoolean,
		p.readString,
		p.readNumber,
	)
}

// Boolean = "true" | "false"
func (p *parser) readBoolean(in string) (string, Constant, error) {
	if rest, err := p.keyword(in, "true"); err == nil {
		return rest, ConstantBoolean{Value: true}, nil
	}
	rest, err := p.keyword(in, "false")
	if err != nil {
		return rest, nil, err
	}
	return rest, ConstantBoolean{Value: false}, nil
}

// String = quote { not_quote } quote
func (p *parser) readString(in string) (string, Constant, error) {
	in, err := p.punct(in, `"`)
	if err != nil {
		return in, nil, err
	}
	end := strings.IndexByte(in, '"')
	if end < 0 {
		return in, nil, p.fatal(in, exc.CodeUnexpectedEOF, "unterminated string literal")
	}
	return in[end+1:], ConstantString{Value: in[:end]}, nil
}

// Number = ( Float | Integer ) [ suffix | "as" PrimitiveType ]
//
// Floats are tried first. The suffix is written without whitespace.
func (p *parser) readNumber(in string) (string, Constant, error) {
	in, err := p.skipTrivia(in)
	if err != nil {
		return in, nil, err
	}
	if n := floatLength(in); n > 0 {
		return p.finishNumber(in, in[:n], true)
	}
	if n := integerLength(in); n > 0 {
		return p.finishNumber(in, in[:n], false)
	}
	return in, nil, p.decline(in, "expected a number")
}

func (p *parser) finishNumber(start string, text string, fractional bool) (string, Constant, error) {
	in := start[len(text):]
	kind := TypeKindNone
	if rest, k, ok := numericSuffix(in); ok {
		kind = k
		in = rest
		if len(in) > 0 && isWordChar(in[0]) {
			return in, nil, p.fatal(in, exc.CodeInvalidNumber, "invalid character %q in numeric literal", in[:1])
		}
	} else if len(in) > 0 && isWordChar(in[0]) {
		return in, nil, p.fatal(in, exc.CodeInvalidNumber, "invalid character %q in numeric literal", in[:1])
	} else if rest, err := p.keyword(in, "as"); err == nil {
		rest, t, err := p.readPrimitiveType(rest)
		if err != nil {
			return rest, nil, must(err, "must be a primitive type")
		}
		kind = t.Kind
		in = rest
	} else if isFatal(err) {
		return rest, nil, err
	}

	switch {
	case kind == TypeKindBoolean:
		return start, nil, p.fatal(start, exc.CodeInvalidNumber, "a numeric literal cannot have type bool")
	case kind == TypeKindBorrowedString || kind == TypeKindOwnedString:
		return start, nil, p.fatal(start, exc.CodeInvalidNumber, "a numeric literal cannot have type %s", kind)
	case kind == TypeKindNone && fractional:
		kind = TypeKindF32
	case kind == TypeKindNone:
		kind = TypeKindI32
	case fractional && !Primitive(kind).IsFloat():
		return start, nil, p.fatal(start, exc.CodeInvalidNumber, "fractional literal %q cannot have integer type %s", text, kind)
	}

	if Primitive(kind).IsFloat() {
		bits := Primitive(kind).Bits()
		v, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), bits)
		if err != nil {
			return start, nil, p.fatal(start, exc.CodeInvalidNumber, "invalid float literal %q for %s", text, kind)
		}
		if kind == TypeKindF32 {
			return in, ConstantFloat32{Value: float32(v)}, nil
		}
		return in, ConstantFloat64{Value: v}, nil
	}

	c, err := p.integerValue(start, text, kind)
	if err != nil {
		return start, nil, err
	}
	return in, c, nil
}

func (p *parser) integerValue(start string, text string, kind TypeKind) (ConstantInteger, error) {
	negative := strings.HasPrefix(text, "-")
	digits := strings.TrimPrefix(text, "-")
	base := 10
	if len(digits) > 1 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}
		if base != 10 {
			digits = digits[2:]
		}
	}
	digits = strings.ReplaceAll(digits, "_", "")
	if digits == "" {
		return ConstantInteger{}, p.fatal(start, exc.CodeInvalidNumber, "missing digits in integer literal %q", text)
	}
	magnitude, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return ConstantInteger{}, p.fatal(start, exc.CodeInvalidNumber, "invalid integer literal %q", text)
	}
	c := ConstantInteger{Kind: kind, Negative: negative && magnitude != 0, Magnitude: magnitude}
	if !c.fits() {
		return ConstantInteger{}, p.fatal(start, exc.CodeInvalidNumber, "integer literal %q does not fit in %s", text, kind)
	}
	return c, nil
}

// floatLength returns the length of the float at the start of in, or 0.
// Accepted forms: -?.digits[exp], -?digits[.digits]exp, -?digits.[digits].
// A '.' followed by another '.' is a range, never a fraction.
func floatLength(in string) int {
	i := 0
	if i < len(in) && in[i] == '-' {
		i = i + 1
	}
	whole := digitRun(in[i:])
	i = i + whole
	fraction := false
	if i < len(in) && in[i] == '.' && !(i+1 < len(in) && in[i+1] == '.') {
		part := digitRun(in[i+1:])
		if whole == 0 && part == 0 {
			return 0
		}
		i = i + 1 + part
		fraction = true
	} else if whole == 0 {
		return 0
	}
	exp := exponentLength(in[i:])
	if !fraction && exp == 0 {
		return 0
	}
	return i + exp
}

// integerLength returns the length of the integer at the start of in, or 0.
// Radix prefixes are recognised in the order hex, binary, octal.
func integerLength(in string) int {
	i := 0
	if i < len(in) && in[i] == '-' {
		i = i + 1
	}
	rest := in[i:]
	if len(rest) >= 2 && rest[0] == '0' {
		var valid func(byte) bool
		switch rest[1] {
		case 'x', 'X':
			valid = isHexDigit
		case 'b', 'B', 'o', 'O':
			valid = isDigit
		}
		if valid != nil {
			n := 2
			for n < len(rest) && (valid(rest[n]) || rest[n] == '_') {
				n = n + 1
			}
			return i + n
		}
	}
	n := digitRun(rest)
	if n == 0 {
		return 0
	}
	return i + n
}

// digitRun = digit { digit | "_" }
func digitRun(in string) int {
	if len(in) == 0 || !isDigit(in[0]) {
		return 0
	}
	n := 1
	for n < len(in) && (isDigit(in[n]) || in[n] == '_') {
		n = n + 1
	}
	return n
}

func exponentLength(in string) int {
	if len(in) == 0 || (in[0] != 'e' && in[0] != 'E') {
		return 0
	}
	n := 1
	if n < len(in) && (in[n] == '+' || in[n] == '-') {
		n = n + 1
	}
	d := digitRun(in[n:])
	if d == 0 {
		return 0
	}
	return n + d
}

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// numericSuffix matches a primitive type keyword immediately following a
// literal. bool is matched so that it can be rejected.
func numericSuffix(in string) (string, TypeKind, bool) {
	for _, suffix := range numericSuffixes {
		if strings.HasPrefix(in, suffix.text) {
			return in[len(suffix.text):], suffix.kind, true
		}
	}
	return in, TypeKindNone, false
}

// Longer spellings come first so that i16 is not read as i1 followed by 6.
var numericSuffixes = []struct {
	text string
	kind TypeKind
}{
	{"i16", TypeKindI16},
	{"i32", TypeKindI32},
	{"i64", TypeKindI64},
	{"i8", TypeKindI8},
	{"u16", TypeKindU16},
	{"u32", TypeKindU32},
	{"u64", TypeKindU64},
	{"u8", TypeKindU8},
	{"f32", TypeKindF32},
	{"f64", TypeKindF64},
	{"bool", TypeKindBoolean},
}
