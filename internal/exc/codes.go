// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

const (
	CodeUnknownFatal                  = "N0000"
	CodeFileNotFound                  = "N0001"
	CodeUnsuportedFileSystemOperation = "N0002"
	CodePermissionDenied              = "N0003"
	CodeUnsupportedFileFormat         = "N0004"
	CodeUnexpectedEOF                 = "N0005"
	CodeSyntax                        = "N0006"
	CodeInvalidNumber                 = "N0007"
	CodeInvalidConfig                 = "N0008"
	CodePluginFailure                 = "N0009"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{}
)
