// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nl

import (
	"fmt"
	"strings"
	"unicode"

	"gopkg.nlang.org/compiler.go/internal/exc"
	"gopkg.nlang.org/compiler.go/internal/optional"
)

// Parse converts NL source into a File. fileName only populates File.Name and
// the location of a returned exc.Exception. Parsing stops at the first fatal
// syntax error.
func Parse(source string, fileName string) (*File, error) {
	p := &parser{}
	_, file, err := p.readFile(source)
	if err != nil {
		f := asFailure(err)
		return nil, exc.NewInSource(fileName, source, len(source)-len(f.rest), f.code, f.context)
	}
	file.Name = fileName
	return file, nil
}

// failure is the error type of every production. rest is the input at the
// point of failure. A fatal failure is never absorbed by an alternative.
type failure struct {
	rest    string
	context string
	code    string
	fatal   bool
}

func (f *failure) Error() string {
	return f.context
}

func asFailure(err error) *failure {
	if f, ok := err.(*failure); ok {
		return f
	}
	return &failure{context: err.Error(), code: exc.CodeUnknownFatal, fatal: true}
}

func isFatal(err error) bool {
	return err != nil && asFailure(err).fatal
}

// parser holds per-input state. Results of the operation productions are
// memoized by the length of the remaining input, so one parser must only be
// used for a single source.
type parser struct {
	operations    map[int]memoized
	subOperations map[int]memoized
}

type memoized struct {
	rest string
	op   Operation
	err  error
}

func memoize(table *map[int]memoized, in string, read production[Operation]) (string, Operation, error) {
	if *table == nil {
		*table = make(map[int]memoized)
	}
	if m, ok := (*table)[len(in)]; ok {
		return m.rest, m.op, m.err
	}
	rest, op, err := read(in)
	(*table)[len(in)] = memoized{rest: rest, op: op, err: err}
	return rest, op, err
}

func (p *parser) decline(in string, format string, args ...interface{}) error {
	return &failure{rest: in, context: fmt.Sprintf(format, args...), code: exc.CodeSyntax}
}

func (p *parser) fatal(in string, code string, format string, args ...interface{}) error {
	return &failure{rest: in, context: fmt.Sprintf(format, args...), code: code, fatal: true}
}

// must is applied once a production has committed to a form. Recoverable
// failures become fatal with the given context.
func must(err error, context string) error {
	f := asFailure(err)
	if f.fatal {
		return f
	}
	return &failure{rest: f.rest, context: context, code: exc.CodeSyntax, fatal: true}
}

type production[T any] func(in string) (string, T, error)

// choice returns the result of the first alternative that matches. When none
// does, the failure is located at the furthest point any alternative reached.
func choice[T any](in string, context string, alternatives ...production[T]) (string, T, error) {
	var zero T
	furthest := in
	for _, alternative := range alternatives {
		rest, v, err := alternative(in)
		if err == nil {
			return rest, v, nil
		}
		if isFatal(err) {
			return in, zero, err
		}
		if f := asFailure(err); len(f.rest) < len(furthest) {
			furthest = f.rest
		}
	}
	return furthest, zero, &failure{rest: furthest, context: context, code: exc.CodeSyntax}
}

// many applies item until it declines or stops consuming input.
func many[T any](in string, item production[T]) (string, []T, error) {
	var values []T
	for {
		rest, v, err := item(in)
		if err != nil {
			if isFatal(err) {
				return in, nil, err
			}
			return in, values, nil
		}
		if len(rest) == len(in) {
			return in, values, nil
		}
		values = append(values, v)
		in = rest
	}
}

func opt[T any](in string, item production[T]) (string, optional.Optional[T], error) {
	rest, v, err := item(in)
	if err != nil {
		if isFatal(err) {
			return in, optional.None[T](), err
		}
		return in, optional.None[T](), nil
	}
	return rest, optional.Some(v), nil
}

// commaList reads `open [item {, item} [,]] close`. Nothing is consumed when
// open is absent; after open every failure is fatal.
func commaList[T any](p *parser, in string, open string, item production[T], close string, what string) (string, []T, error) {
	in, err := p.punct(in, open)
	if err != nil {
		return in, nil, err
	}
	var values []T
	for {
		if rest, err := p.punct(in, close); err == nil {
			return rest, values, nil
		} else if isFatal(err) {
			return in, nil, err
		}
		rest, v, err := item(in)
		if err != nil {
			return rest, nil, must(err, fmt.Sprintf("expected %s or %q", what, close))
		}
		values = append(values, v)
		in = rest
		if rest, err := p.punct(in, ","); err == nil {
			in = rest
			continue
		} else if isFatal(err) {
			return in, nil, err
		}
		rest, err = p.punct(in, close)
		if err != nil {
			return rest, nil, must(err, fmt.Sprintf("expected ',' or %q after %s", close, what))
		}
		return rest, values, nil
	}
}

// skipTrivia consumes whitespace, line comments and block comments.
func (p *parser) skipTrivia(in string) (string, error) {
	for {
		in = strings.TrimLeftFunc(in, unicode.IsSpace)
		switch {
		case strings.HasPrefix(in, "//"):
			end := strings.IndexByte(in, '\n')
			if end < 0 {
				return "", nil
			}
			in = in[end+1:]
		case strings.HasPrefix(in, "/*"):
			end := strings.Index(in[2:], "*/")
			if end < 0 {
				return in, p.fatal(in, exc.CodeUnexpectedEOF, "unterminated block comment")
			}
			in = in[2+end+2:]
		default:
			return in, nil
		}
	}
}

func isNameChar(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isWordChar(c byte) bool {
	return isNameChar(c) || isDigit(c)
}

var keywords = map[string]bool{
	"struct": true, "trait": true, "impl": true, "enum": true, "fn": true,
	"met": true, "get": true, "set": true, "let": true, "if": true,
	"else": true, "loop": true, "while": true, "for": true, "in": true,
	"break": true, "match": true, "as": true, "mut": true, "dyn": true,
	"default": true, "true": true, "false": true,
}

// IsKeyword reports whether name is reserved. self is a keyword in type and
// argument position but may be used as a value.
func IsKeyword(name string) bool {
	return keywords[name] || name == "self"
}

func (p *parser) punct(in string, s string) (string, error) {
	in, err := p.skipTrivia(in)
	if err != nil {
		return in, err
	}
	if !strings.HasPrefix(in, s) {
		return in, p.decline(in, "expected %q", s)
	}
	return in[len(s):], nil
}

// keyword matches kw only when it is not followed by another word character.
func (p *parser) keyword(in string, kw string) (string, error) {
	in, err := p.skipTrivia(in)
	if err != nil {
		return in, err
	}
	if !strings.HasPrefix(in, kw) || (len(in) > len(kw) && isWordChar(in[len(kw)])) {
		return in, p.decline(in, "expected %q", kw)
	}
	return in[len(kw):], nil
}

// name = letter_or_underscore { letter_or_underscore }
func (p *parser) readName(in string) (string, string, error) {
	in, err := p.skipTrivia(in)
	if err != nil {
		return in, "", err
	}
	n := 0
	for n < len(in) && isNameChar(in[n]) {
		n = n + 1
	}
	if n == 0 {
		return in, "", p.decline(in, "expected a name")
	}
	return in[n:], in[:n], nil
}

// readBindingName is a name that is not a reserved word.
func (p *parser) readBindingName(in string) (string, string, error) {
	rest, name, err := p.readName(in)
	if err != nil {
		return rest, "", err
	}
	if keywords[name] {
		return in, "", p.decline(in, "%q is a reserved word", name)
	}
	return rest, name, nil
}

// scoped_name = name { "." name }
func (p *parser) readScopedName(in string) (string, string, error) {
	in, err := p.skipTrivia(in)
	if err != nil {
		return in, "", err
	}
	n := 0
	for {
		start := n
		for n < len(in) && isNameChar(in[n]) {
			n = n + 1
		}
		if n == start {
			break
		}
		if n+1 < len(in) && in[n] == '.' && isNameChar(in[n+1]) {
			n = n + 1
			continue
		}
		break
	}
	if n == 0 {
		return in, "", p.decline(in, "expected a name")
	}
	if keywords[in[:n]] {
		return in, "", p.decline(in, "%q is a reserved word", in[:n])
	}
	return in[n:], in[:n], nil
}

// declaration_name = letter_or_underscore { letter_or_underscore | digit }
func (p *parser) readDeclarationName(in string) (string, string, error) {
	in, err := p.skipTrivia(in)
	if err != nil {
		return in, "", err
	}
	if len(in) == 0 || !isNameChar(in[0]) {
		return in, "", p.decline(in, "expected a name")
	}
	n := 1
	for n < len(in) && isWordChar(in[n]) {
		n = n + 1
	}
	if IsKeyword(in[:n]) {
		return in, "", p.decline(in, "%q is a reserved word", in[:n])
	}
	return in[n:], in[:n], nil
}

// File = { Struct | Trait | Function | Enum }
func (p *parser) readFile(in string) (string, *File, error) {
	file := &File{}
	for {
		rest, err := p.skipTrivia(in)
		if err != nil {
			return rest, nil, err
		}
		in = rest
		if in == "" {
			return in, file, nil
		}
		if rest, s, err := p.readStruct(in); err == nil {
			file.Structs = append(file.Structs, s)
			in = rest
			continue
		} else if isFatal(err) {
			return rest, nil, err
		}
		if rest, t, err := p.readTrait(in); err == nil {
			file.Traits = append(file.Traits, t)
			in = rest
			continue
		} else if isFatal(err) {
			return rest, nil, err
		}
		if rest, f, err := p.readFunction(in); err == nil {
			file.Functions = append(file.Functions, f)
			in = rest
			continue
		} else if isFatal(err) {
			return rest, nil, err
		}
		if rest, e, err := p.readEnum(in); err == nil {
			file.Enums = append(file.Enums, e)
			in = rest
			continue
		} else if isFatal(err) {
			return rest, nil, err
		}
		return in, nil, p.fatal(in, exc.CodeSyntax, "expected a root declaration (struct, trait, fn or enum)")
	}
}
