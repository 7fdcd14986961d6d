// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"gopkg.nlang.org/compiler.go/internal/exc"
	"gopkg.nlang.org/compiler.go/internal/lang"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		expected lang.FileKind
	}{
		{"main.nl", lang.FileKindNL},
		{"main.nlast", lang.FileKindASTBinary},
		{"main.nlast.json", lang.FileKindASTJSON},
		{"main.json", lang.FileKindNone},
		{"main.nl.txt", lang.FileKindNone},
		{"nl", lang.FileKindNone},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.expected, KindOf(testCase.name))
		})
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var e exc.Exception
	require.True(t, errors.As(err, &e), "%T is not an exception", err)
	require.Equal(t, code, e.Code())
}

func mapFS(m fstest.MapFS) FileSystemLocalOption {
	return WithOptionFSFactory(func(string) fs.FS { return m })
}

func TestFileSystemLocal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lfs, err := NewFileSystemLocal("/", mapFS(fstest.MapFS{
		"src/a.nl":         {Data: []byte("fn a() {}")},
		"src/b.nlast.json": {Data: []byte("{}")},
		"src/readme.md":    {Data: []byte("# docs")},
		"src/sub/c.nl":     {Data: []byte("fn c() {}")},
		"empty/readme.md":  {Data: []byte("# nothing")},
	}))
	require.NoError(t, err)

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		files, err := lfs.Open(ctx, "/src/a.nl")
		require.NoError(t, err)
		require.Len(t, files, 1)
		require.Equal(t, "/src/a.nl", files[0].Path(ctx))
		require.Equal(t, lang.FileKindNL, files[0].Kind(ctx))
		b, err := ReadAll(ctx, files[0])
		require.NoError(t, err)
		require.Equal(t, "fn a() {}", string(b))
	})

	t.Run("file uri", func(t *testing.T) {
		t.Parallel()
		files, err := lfs.Open(ctx, "file:///src/sub/c.nl")
		require.NoError(t, err)
		require.Len(t, files, 1)
		require.Equal(t, "/src/sub/c.nl", files[0].Path(ctx))
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		files, err := lfs.Open(ctx, "src")
		require.NoError(t, err)
		require.Len(t, files, 2)
		require.Equal(t, "/src/a.nl", files[0].Path(ctx))
		require.Equal(t, "/src/b.nlast.json", files[1].Path(ctx))
		require.Equal(t, lang.FileKindASTJSON, files[1].Kind(ctx))
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		_, err := lfs.Open(ctx, "/src/missing.nl")
		requireCode(t, err, exc.CodeFileNotFound)
	})

	t.Run("directory without sources", func(t *testing.T) {
		t.Parallel()
		_, err := lfs.Open(ctx, "/empty")
		requireCode(t, err, exc.CodeFileNotFound)
	})
}

func TestFileSystemLocalWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lfs, err := NewFileSystemLocal(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, lfs.Write(ctx, "/out/generated.nl", "fn g() {}"))

	files, err := lfs.Open(ctx, "out")
	require.NoError(t, err)
	require.Len(t, files, 1)
	b, err := ReadAll(ctx, files[0])
	require.NoError(t, err)
	require.Equal(t, "fn g() {}", string(b))
}

func TestFileSystemMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mfs := NewFileSystemMemory(map[string]string{
		"/pkg/b.nl":      "fn b() {}",
		"/pkg/a.nl":      "fn a() {}",
		"/pkg/notes":     "ignored",
		"/pkg/deep/c.nl": "fn c() {}",
	})

	files, err := mfs.Open(ctx, "/pkg")
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "/pkg/a.nl", files[0].Path(ctx))
	require.Equal(t, "/pkg/b.nl", files[1].Path(ctx))

	files, err = mfs.Open(ctx, "pkg/deep/c.nl")
	require.NoError(t, err)
	require.Len(t, files, 1)

	_, err = mfs.Open(ctx, "/nowhere")
	requireCode(t, err, exc.CodeFileNotFound)

	require.NoError(t, mfs.Write(ctx, "/out/x.nl", "struct X {}"))
	content, ok := mfs.Content("out/x.nl")
	require.True(t, ok)
	require.Equal(t, "struct X {}", content)
}

func TestFileSystemMulti(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	multi := FileSystemMulti{
		NewFileSystemMemory(map[string]string{"/first/a.nl": "fn a() {}"}),
		NewFileSystemMemory(map[string]string{"/second/b.nl": "fn b() {}"}),
	}

	files, err := multi.Open(ctx, "/second/b.nl")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "/second/b.nl", files[0].Path(ctx))

	_, err = multi.Open(ctx, "/third/c.nl")
	requireCode(t, err, exc.CodeFileNotFound)

	err = multi.Write(ctx, "/first/a.nl", "")
	requireCode(t, err, exc.CodeUnsuportedFileSystemOperation)
}

func TestReadAllLargeBody(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	content := strings.Repeat("fn f() {}\n", 10000)
	b, err := ReadAll(ctx, NewFileString("/big.nl", content, lang.FileKindNL))
	require.NoError(t, err)
	require.Equal(t, content, string(b))
}
