// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package compiler drives the NL front end over a set of compile targets.
// Targets are resolved through a lang.FileSystem and every file found is
// handed to the sub-compiler registered for its kind. Files are processed
// concurrently and their exceptions are accumulated so that one bad file
// does not hide the errors of another.
package compiler

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"gopkg.nlang.org/compiler.go/internal/compiler/nl"
	"gopkg.nlang.org/compiler.go/internal/exc"
	"gopkg.nlang.org/compiler.go/internal/lang"
	"gopkg.nlang.org/compiler.go/internal/target"
)

type CompileRequest struct {
	// Files are file paths or URIs. Directories expand to the files they
	// contain.
	Files []string
	// DumpTree prints every parsed tree to the compiler's dump writer.
	DumpTree bool
}

type CompileResponse struct {
	// Files are ordered by name.
	Files []*nl.File
}

type Compiler interface {
	Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error)
}

type Option func(c *compiler) error

func OptionWithFS(fs lang.FileSystem) Option {
	return func(c *compiler) error {
		c.FS = fs
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *compiler) error {
		c.LookupENV = lookupEnv
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(c *compiler) error {
		c.Reporter = reporter
		return nil
	}
}

// OptionWithMaxConcurrency bounds the number of files processed at once. Zero
// selects min(GOMAXPROCS, NumCPU).
func OptionWithMaxConcurrency(n int) Option {
	return func(c *compiler) error {
		if n < 0 {
			return exc.New(exc.Location{}, exc.CodeInvalidConfig, "max concurrency must not be negative")
		}
		c.MaxConcurrency = n
		return nil
	}
}

// OptionWithDumpWriter sets the destination of DumpTree output. The default
// is os.Stdout.
func OptionWithDumpWriter(w io.Writer) Option {
	return func(c *compiler) error {
		c.Dump = w
		return nil
	}
}

func OptionWithSubCompiler(kind lang.FileKind, sc SubCompiler) Option {
	return func(c *compiler) error {
		if c.SubCompilers == nil {
			c.SubCompilers = DefaultSubCompilers()
		}
		c.SubCompilers[kind] = sc
		return nil
	}
}

func New(opts ...Option) (Compiler, error) {
	c := &compiler{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.LookupENV == nil {
		c.LookupENV = os.LookupEnv
	}
	if c.FS == nil {
		dfs, err := NewDefaultFS(c.LookupENV)
		if err != nil {
			return nil, err
		}
		c.FS = dfs
	}
	if c.MaxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		c.MaxConcurrency = max
	}
	if c.Semaphore == nil {
		c.Semaphore = newSemaphore(c.MaxConcurrency)
	}
	if c.Reporter == nil {
		c.Reporter = exc.NewReporter(nil)
	}
	if c.SubCompilers == nil {
		c.SubCompilers = DefaultSubCompilers()
	}
	if c.Dump == nil {
		c.Dump = os.Stdout
	}
	return c, nil
}

type compiler struct {
	LookupENV      func(string) (string, bool)
	FS             lang.FileSystem
	MaxConcurrency int
	Semaphore      *semaphore
	Reporter       exc.Reporter
	SubCompilers   map[lang.FileKind]SubCompiler
	Dump           io.Writer
	dumpLock       sync.Mutex
}

func (self *compiler) Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files := make([]lang.File, 0, len(req.Files))
	for _, f := range req.Files {
		uri := target.Normalize(f)
		in, err := self.FS.Open(ctx, uri)
		if err != nil {
			_ = self.Reporter.Report(asException(uri, err))
			continue
		}
		for _, inf := range in {
			if inf.Kind(ctx) == lang.FileKindNone {
				continue
			}
			files = append(files, inf)
		}
	}

	loaded := &sync.Map{}
	results := make(chan fileResult, len(files))
	for _, file := range files {
		go func(file lang.File) {
			parsed, err := self.compileFile(ctx, file, loaded, req.DumpTree)
			results <- fileResult{parsed, err}
		}(file)
	}

	parsed := make([]*nl.File, 0, len(files))
	for x := 0; x < len(files); x = x + 1 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-results:
			if result.err != nil && errorIsContext(result.err) {
				return nil, result.err
			}
			if result.file != nil {
				parsed = append(parsed, result.file)
			}
		}
	}
	sort.Slice(parsed, func(i, j int) bool {
		return parsed[i].Name < parsed[j].Name
	})

	resp := &CompileResponse{Files: parsed}
	if caught := self.Reporter.Reported(); len(caught) > 0 {
		return resp, MultiException(caught)
	}
	return resp, nil
}

func (self *compiler) compileFile(ctx context.Context, file lang.File, loaded *sync.Map, dumpTree bool) (*nl.File, error) {
	if err := self.Semaphore.Acquire(ctx); err != nil {
		return nil, err
	}
	defer self.Semaphore.Release()
	path := file.Path(ctx)
	if _, ok := loaded.LoadOrStore(path, true); ok {
		return nil, nil
	}
	sc := self.SubCompilers[file.Kind(ctx)]
	if sc == nil {
		e := exc.New(exc.Location{URI: path}, exc.CodeUnsupportedFileFormat, "Unsupported file format")
		return nil, self.Reporter.Report(e)
	}
	parsed, err := sc.CompileFile(ctx, self.Reporter, file)
	if err != nil {
		return nil, err
	}
	if dumpTree {
		self.dumpLock.Lock()
		defer self.dumpLock.Unlock()
		dumpTreeTo(self.Dump, parsed)
	}
	return parsed, nil
}

type fileResult struct {
	file *nl.File
	err  error
}

func errorIsContext(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// MultiException is returned from Compile when any exception was reported.
// It is ordered by location.
type MultiException []exc.Exception

func (self MultiException) Error() string {
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}
