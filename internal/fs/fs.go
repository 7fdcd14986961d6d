// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.nlang.org/compiler.go/internal/exc"
	"gopkg.nlang.org/compiler.go/internal/lang"
)

const (
	sourceExt  = ".nl"         // NL source text
	astExt     = ".nlast"      // An exported AST in protobuf binary format
	astJSONExt = ".nlast.json" // An exported AST in protobuf JSON format
)

// Longer extensions come first so that compound suffixes win.
var knownExts = []struct {
	ext  string
	kind lang.FileKind
}{
	{astJSONExt, lang.FileKindASTJSON},
	{astExt, lang.FileKindASTBinary},
	{sourceExt, lang.FileKindNL},
}

// KindOf reports the file kind implied by the name's extension.
func KindOf(name string) lang.FileKind {
	for _, known := range knownExts {
		if strings.HasSuffix(name, known.ext) {
			return known.kind
		}
	}
	return lang.FileKindNone
}

var _ lang.FileSystem = FileSystemMulti{}

// FileSystemMulti is an ordered set of FileSystem implementations that are
// tried in order. Writes are not supported and must go to a single backend.
type FileSystemMulti []lang.FileSystem

func (r FileSystemMulti) Open(ctx context.Context, uri string) ([]lang.File, error) {
	for _, fs := range r {
		files, err := fs.Open(ctx, uri)
		if err != nil {
			continue
		}
		return files, nil
	}
	return nil, exc.New(exc.Location{URI: uri}, exc.CodeFileNotFound, fmt.Sprintf("could not open %s from any file system", uri))
}

func (r FileSystemMulti) Write(ctx context.Context, uri string, content string) error {
	return exc.New(exc.Location{URI: uri}, exc.CodeUnsuportedFileSystemOperation, "cannot write to a composite file system")
}

// FileFilter selects which files to open when the path being opened is a
// directory.
type FileFilter func(ctx context.Context, fname string) bool

type FileSystemLocalOption func(*fileSystemLocal)

// WithOptionFSFactory installs the factory used to produce the underlying
// fs.FS for a root directory. The default is os.DirFS. Paths given to Open
// are relative to that root.
func WithOptionFSFactory(v func(root string) fs.FS) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.fsFactory = v
	}
}

// WithOptionFileFilter installs the filter used for directory targets. The
// default accepts every file with a known extension.
func WithOptionFileFilter(v FileFilter) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.fileFilter = v
	}
}

type fileSystemLocal struct {
	root       string
	fsFactory  func(string) fs.FS
	fileFilter FileFilter
}

// NewFileSystemLocal creates a FileSystem rooted at the given directory of
// the local file system.
func NewFileSystemLocal(root string, options ...FileSystemLocalOption) (lang.FileSystem, error) {
	absroot, err := filepath.Abs(root)
	if err != nil {
		return nil, exc.WrapUnknown(exc.Location{URI: root}, err)
	}
	result := &fileSystemLocal{
		root:      absroot,
		fsFactory: os.DirFS,
		fileFilter: func(ctx context.Context, fname string) bool {
			return KindOf(fname) != lang.FileKindNone
		},
	}
	for _, option := range options {
		option(result)
	}
	return result, nil
}

// Root returns the absolute directory the file system is rooted at.
func (r *fileSystemLocal) Root() string {
	return r.root
}

func (r *fileSystemLocal) Open(ctx context.Context, uri string) ([]lang.File, error) {
	p := relativePath(uri)
	dir := r.fsFactory(r.root)
	d, err := dir.Open(p)
	if err != nil {
		return nil, fsErr(p, err)
	}
	defer d.Close()
	stat, err := d.Stat()
	if err != nil {
		return nil, fsErr(p, err)
	}
	if !stat.IsDir() {
		return []lang.File{r.file(dir, p)}, nil
	}
	rdf, ok := d.(fs.ReadDirFile)
	if !ok {
		return nil, exc.New(exc.Location{URI: p}, exc.CodeUnsuportedFileSystemOperation, "directory cannot be listed")
	}
	dfs, err := rdf.ReadDir(-1)
	if err != nil {
		return nil, fsErr(p, err)
	}
	files := make([]lang.File, 0, len(dfs))
	for _, df := range dfs {
		if df.IsDir() || !r.fileFilter(ctx, df.Name()) {
			continue
		}
		files = append(files, r.file(dir, joinPath(p, df.Name())))
	}
	if len(files) < 1 {
		return nil, exc.New(exc.Location{URI: "/" + p}, exc.CodeFileNotFound, fmt.Sprintf("found directory /%s but it contains no NL files", p))
	}
	return files, nil
}

func (r *fileSystemLocal) file(dir fs.FS, p string) lang.File {
	return NewFileFN("/"+p, func() (io.ReadCloser, error) {
		return dir.Open(p)
	}, KindOf(p))
}

func (r *fileSystemLocal) Write(ctx context.Context, uri string, content string) error {
	p := filepath.Join(r.root, filepath.FromSlash(relativePath(uri)))
	d := filepath.Dir(p)
	if err := os.MkdirAll(d, os.ModeDir|0o755); err != nil {
		return fsErr(d, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return fsErr(p, err)
	}
	return nil
}

// relativePath converts a file path or URI into the un-rooted, slash
// separated form required by fs.FS. The root itself becomes ".".
func relativePath(uri string) string {
	path := uri
	if u, err := url.Parse(uri); err == nil && (u.Scheme == "" || u.Scheme == "file") {
		path = u.Path
	}
	path = filepath.ToSlash(filepath.Join("/", path))
	p := strings.TrimPrefix(path, "/")
	if p == "" {
		return "."
	}
	return p
}

func joinPath(dir string, name string) string {
	if dir == "." {
		return name
	}
	return dir + "/" + name
}

func fsErr(path string, err error) error {
	if errT, ok := err.(*fs.PathError); ok {
		switch {
		case errors.Is(errT.Err, fs.ErrNotExist):
			return exc.Wrap(exc.Location{URI: errT.Path}, exc.CodeFileNotFound, errT)
		case errors.Is(errT.Err, fs.ErrPermission):
			return exc.Wrap(exc.Location{URI: errT.Path}, exc.CodePermissionDenied, errT)
		default:
			return exc.WrapUnknown(exc.Location{URI: errT.Path}, errT)
		}
	}
	return exc.WrapUnknown(exc.Location{URI: path}, err)
}
