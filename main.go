// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"gopkg.nlang.org/compiler.go/internal/compiler"
	"gopkg.nlang.org/compiler.go/internal/compiler/nl"
	"gopkg.nlang.org/compiler.go/internal/config"
	"gopkg.nlang.org/compiler.go/internal/exc"
	"gopkg.nlang.org/compiler.go/internal/export"
	"gopkg.nlang.org/compiler.go/internal/fs"
	"gopkg.nlang.org/compiler.go/internal/watch"
)

type opts struct {
	Config  string
	Watch   bool
	Verbose bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	op := &opts{}
	cfg := config.Default()
	flags := pflag.NewFlagSet("nlc", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&op.Config, "config", "", "Project file (nlc.toml or nlc.yaml). Defaults to the one in the working directory.")
	flags.BoolVar(&op.Watch, "watch", false, "Rebuild whenever a source below a root changes.")
	flags.BoolVar(&op.Verbose, "verbose", false, "Log progress to STDERR.")
	flags.StringSliceVar(&cfg.Roots, "root", cfg.Roots, "Root search paths for targets.")
	flags.StringVar(&cfg.Output, "output", cfg.Output, "Output directory for plugin results or - for STDOUT.")
	flags.BoolVar(&cfg.DumpTree, "dump-tree", false, "Output the parse tree after parsing.")
	flags.BoolVar(&cfg.Canonical, "canonical", false, "Print every parsed file in canonical form.")
	flags.StringVar(&cfg.ASTOut, "ast-out", "", "Write the parsed tree to FILE (.nlast for protobuf, .nlast.json for JSON).")
	flags.StringVar(&cfg.Plugin, "plugin", "", "Specifies a backend plugin executable to use.")
	flags.StringVar(&cfg.PluginParam, "plugin-parameter", "", "Parameter string passed to the plugin.")
	flags.IntVar(&cfg.MaxConcurrency, "max-concurrency", 0, "Files parsed at once. 0 selects the number of CPUs.")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(op.Config, flags, cfg)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	targets := flags.Args()
	if len(targets) < 1 {
		targets = cfg.Targets
	}
	if len(targets) < 1 {
		fmt.Fprintln(stderr, "nlc: no targets given")
		return 2
	}

	level := slog.LevelWarn
	if op.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	b := &builder{cfg: cfg, targets: targets, stdout: stdout, stderr: stderr, logger: logger}
	if op.Watch {
		if err := watch.Run(ctx, cfg.Roots, b.build, watch.OptionWithLogger(logger)); err != nil {
			fmt.Fprintln(stderr, err.Error())
			return 1
		}
		return 0
	}
	if err := b.build(ctx); err != nil {
		return 1
	}
	return 0
}

// loadConfig merges the project file under the flags that were set
// explicitly.
func loadConfig(path string, flags *pflag.FlagSet, fromFlags *config.Config) (*config.Config, error) {
	if path == "" {
		path = config.Discover(".")
	}
	if path == "" {
		return fromFlags, fromFlags.Validate()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flags.Changed("root") {
		cfg.Roots = fromFlags.Roots
	}
	if flags.Changed("output") {
		cfg.Output = fromFlags.Output
	}
	if flags.Changed("dump-tree") {
		cfg.DumpTree = fromFlags.DumpTree
	}
	if flags.Changed("canonical") {
		cfg.Canonical = fromFlags.Canonical
	}
	if flags.Changed("ast-out") {
		cfg.ASTOut = fromFlags.ASTOut
	}
	if flags.Changed("plugin") {
		cfg.Plugin = fromFlags.Plugin
	}
	if flags.Changed("plugin-parameter") {
		cfg.PluginParam = fromFlags.PluginParam
	}
	if flags.Changed("max-concurrency") {
		cfg.MaxConcurrency = fromFlags.MaxConcurrency
	}
	if err := cfg.Validate(); err != nil {
		return nil, exc.New(exc.Location{URI: path}, exc.CodeInvalidConfig, err.Error())
	}
	return cfg, nil
}

type builder struct {
	cfg     *config.Config
	targets []string
	stdout  io.Writer
	stderr  io.Writer
	logger  *slog.Logger
}

// build runs one compilation and every requested output. Diagnostics are
// written to stderr and the returned error only signals failure.
func (b *builder) build(ctx context.Context) error {
	err := b.compileAndEmit(ctx)
	if err == nil {
		return nil
	}
	var me compiler.MultiException
	if errors.As(err, &me) {
		for _, e := range me {
			fmt.Fprintln(b.stderr, e.Error())
		}
		return err
	}
	fmt.Fprintln(b.stderr, err.Error())
	return err
}

func (b *builder) compileAndEmit(ctx context.Context) error {
	roots, err := compiler.NewRootsFS(b.cfg.Roots)
	if err != nil {
		return err
	}
	// Absolute targets are looked up last, from the file system root.
	abs, err := fs.NewFileSystemLocal("/")
	if err != nil {
		return err
	}
	dfs, err := compiler.NewDefaultFS(os.LookupEnv)
	if err != nil {
		return err
	}
	c, err := compiler.New(
		compiler.OptionWithLookupEnv(os.LookupEnv),
		compiler.OptionWithFS(append(roots, dfs, abs)),
		compiler.OptionWithMaxConcurrency(b.cfg.MaxConcurrency),
		compiler.OptionWithDumpWriter(b.stdout),
	)
	if err != nil {
		return err
	}

	b.logger.Info("compiling", "targets", b.targets)
	out, err := c.Compile(ctx, &compiler.CompileRequest{
		Files:    b.targets,
		DumpTree: b.cfg.DumpTree,
	})
	if err != nil {
		return err
	}
	b.logger.Info("parsed", "files", len(out.Files))

	if b.cfg.Canonical {
		for _, f := range out.Files {
			fmt.Fprint(b.stdout, nl.Format(f))
		}
	}

	if b.cfg.ASTOut != "" {
		if err := b.writeAST(out.Files); err != nil {
			return err
		}
	}

	if b.cfg.Plugin != "" {
		return b.runPlugin(ctx, out.Files)
	}
	return nil
}

func (b *builder) writeAST(files []*nl.File) error {
	if len(files) != 1 {
		return exc.New(exc.Location{URI: b.cfg.ASTOut}, exc.CodeInvalidConfig, fmt.Sprintf("ast-out needs exactly one input file, got %d", len(files)))
	}
	encoded, err := export.Encode(files[0], fs.KindOf(b.cfg.ASTOut))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(b.cfg.ASTOut), 0o755); err != nil {
		return exc.WrapUnknown(exc.Location{URI: b.cfg.ASTOut}, err)
	}
	if err := os.WriteFile(b.cfg.ASTOut, encoded, 0o644); err != nil {
		return exc.WrapUnknown(exc.Location{URI: b.cfg.ASTOut}, err)
	}
	b.logger.Info("wrote tree", "file", b.cfg.ASTOut)
	return nil
}

func (b *builder) runPlugin(ctx context.Context, files []*nl.File) error {
	b.logger.Info("running plugin", "plugin", b.cfg.Plugin)
	resp, err := export.RunPlugin(ctx, b.cfg.Plugin, &export.PluginRequest{
		Files:     files,
		Parameter: b.cfg.PluginParam,
	})
	if err != nil {
		return err
	}
	if b.cfg.Output == "-" {
		for _, f := range resp.Files {
			fmt.Fprint(b.stdout, f.Content)
		}
		return nil
	}
	output, err := fs.NewFileSystemLocal(b.cfg.Output)
	if err != nil {
		return err
	}
	for _, f := range resp.Files {
		if err := output.Write(ctx, f.Name, f.Content); err != nil {
			return err
		}
		b.logger.Info("wrote", "file", filepath.Join(b.cfg.Output, f.Name))
	}
	return nil
}
