// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"fmt"

	"gopkg.nlang.org/compiler.go/internal/lang"
)

type Exception interface {
	error
	Code() string
	Message() string
	Location() Location
}

type Location struct {
	lang.Location
	URI string
}

type exc struct {
	code     string
	message  string
	location Location
	excerpt  string
}

func (e *exc) Error() string {
	head := fmt.Sprintf("%s:%d:%d -- %s: %s", e.location.URI, e.location.Line, e.location.Column, e.code, e.message)
	if e.excerpt == "" {
		return head
	}
	return head + "\n" + e.excerpt
}

func (e *exc) Code() string {
	return e.code
}

func (e *exc) Message() string {
	return e.message
}

func (e *exc) Location() Location {
	return e.location
}

type excUnwrap struct {
	Exception
	cause error
}

func (e *excUnwrap) Unwrap() error {
	return e.cause
}

func New(location Location, code string, message string) Exception {
	return &exc{
		location: location,
		message:  message,
		code:     code,
	}
}

// NewInSource creates an Exception located at the given byte offset of
// source. The rendered error carries an excerpt of the offending line with a
// caret under the failing column.
func NewInSource(uri string, source string, offset int, code string, message string) Exception {
	loc := Locate(source, offset)
	return &exc{
		location: Location{URI: uri, Location: loc},
		message:  message,
		code:     code,
		excerpt:  Excerpt(source, loc),
	}
}

func Wrap(location Location, code string, err error) Exception {
	if err == nil {
		return nil
	}
	if e, ok := err.(Exception); ok {
		return &excUnwrap{
			Exception: New(location, code, e.Message()),
			cause:     e,
		}
	}
	return &excUnwrap{
		cause:     err,
		Exception: New(location, code, err.Error()),
	}
}

func WrapUnknown(location Location, err error) Exception {
	return Wrap(location, CodeUnknownFatal, err)
}
