// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.nlang.org/compiler.go/internal/lang"
)

// Locate converts a byte offset into a line and column. Columns count code
// points, not bytes. Offsets beyond the end of source are clamped.
func Locate(source string, offset int) lang.Location {
	if offset > len(source) {
		offset = len(source)
	}
	if offset < 0 {
		offset = 0
	}
	prefix := source[:offset]
	line := int32(strings.Count(prefix, "\n") + 1)
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	col := int32(utf8.RuneCountInString(prefix[lineStart:]) + 1)
	return lang.Location{Line: line, Column: col, Offset: int64(offset)}
}

// Excerpt renders the source line containing loc followed by a marker line
// with a caret under loc.Column:
//
//	   3 | struct Foo { a i32 }
//	     |                ^
func Excerpt(source string, loc lang.Location) string {
	if loc.Line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if int(loc.Line) > len(lines) {
		return ""
	}
	text := strings.TrimRight(lines[loc.Line-1], "\r")
	var b strings.Builder
	fmt.Fprintf(&b, "%4d | %s\n", loc.Line, text)
	b.WriteString("     | ")
	runes := []rune(text)
	for x := 1; x < int(loc.Column); x = x + 1 {
		if x <= len(runes) && runes[x-1] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')
	return b.String()
}
