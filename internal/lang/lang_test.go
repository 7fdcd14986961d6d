// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileKindString(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		kind     FileKind
		expected string
	}{
		{kind: FileKindNone, expected: "none"},
		{kind: FileKindNL, expected: "nl"},
		{kind: FileKindASTBinary, expected: "nl-ast"},
		{kind: FileKindASTJSON, expected: "nl-ast-json"},
		{kind: FileKind(42), expected: "unknown-42"},
	}
	for _, testCase := range testCases {
		require.Equal(t, testCase.expected, testCase.kind.String())
	}
	require.Equal(t, "3:7", Location{Line: 3, Column: 7, Offset: 20}.String())
}
