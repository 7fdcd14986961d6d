// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package config loads nlc project configuration from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"gopkg.nlang.org/compiler.go/internal/exc"
	"gopkg.nlang.org/compiler.go/internal/fs"
	"gopkg.nlang.org/compiler.go/internal/lang"
)

// FileNames are the project files Discover looks for, in order.
var FileNames = []string{"nlc.toml", "nlc.yaml", "nlc.yml"}

// Config holds the settings of an nlc project. Every field can be overridden
// from the command line.
type Config struct {
	Roots          []string `toml:"roots" yaml:"roots"`
	Targets        []string `toml:"targets" yaml:"targets"`
	Output         string   `toml:"output" yaml:"output"`
	DumpTree       bool     `toml:"dump_tree" yaml:"dump_tree"`
	Canonical      bool     `toml:"canonical" yaml:"canonical"`
	Plugin         string   `toml:"plugin" yaml:"plugin"`
	PluginParam    string   `toml:"plugin_parameter" yaml:"plugin_parameter"`
	ASTOut         string   `toml:"ast_out" yaml:"ast_out"`
	MaxConcurrency int      `toml:"max_concurrency" yaml:"max_concurrency"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Roots:  []string{"."},
		Output: ".",
	}
}

// Load reads a configuration file. The format follows the extension. Relative
// paths inside the file are resolved against the file's directory.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, exc.Wrap(exc.Location{URI: path}, exc.CodeFileNotFound, err)
		}
		return nil, exc.WrapUnknown(exc.Location{URI: path}, err)
	}
	cfg, err := Parse(b, filepath.Ext(path), path)
	if err != nil {
		return nil, err
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes configuration content of the given extension (".toml",
// ".yaml" or ".yml"). Unknown keys are rejected.
func Parse(b []byte, ext string, uri string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(b)).Decode(cfg)
		if err != nil {
			return nil, invalid(uri, err.Error())
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, invalid(uri, fmt.Sprintf("unknown key %q", undecoded[0].String()))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		// An empty document leaves the defaults.
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, invalid(uri, err.Error())
		}
	default:
		return nil, exc.New(exc.Location{URI: uri}, exc.CodeUnsupportedFileFormat, fmt.Sprintf("unsupported config format %q", ext))
	}
	if err := cfg.Validate(); err != nil {
		return nil, invalid(uri, err.Error())
	}
	return cfg, nil
}

// Discover returns the first project file found in dir, or "" if there is
// none.
func Discover(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// Validate checks values that cannot be expressed by the file format.
func (c *Config) Validate() error {
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative, got %d", c.MaxConcurrency)
	}
	if c.ASTOut != "" {
		switch fs.KindOf(c.ASTOut) {
		case lang.FileKindASTBinary, lang.FileKindASTJSON:
		default:
			return fmt.Errorf("ast_out %q must end in .nlast or .nlast.json", c.ASTOut)
		}
	}
	if c.PluginParam != "" && c.Plugin == "" {
		return errors.New("plugin_parameter is set without a plugin")
	}
	return nil
}

func (c *Config) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || p == "-" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i, root := range c.Roots {
		c.Roots[i] = abs(root)
	}
	c.Output = abs(c.Output)
	c.ASTOut = abs(c.ASTOut)
}

func invalid(uri string, message string) error {
	return exc.New(exc.Location{URI: uri}, exc.CodeInvalidConfig, message)
}
