// Package config loads the optional skbuild.yaml file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/goplus/skbuild/internal/gnargs"
	"github.com/goplus/skbuild/internal/platform"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "skbuild.yaml"

const (
	DefaultSkiaURL       = "https://github.com/google/skia.git"
	DefaultBranch        = "main"
	DefaultDepotToolsURL = "https://chromium.googlesource.com/chromium/tools/depot_tools.git"
)

//go:embed schema.json
var schema []byte

// Config represents the skbuild.yaml configuration file.
type Config struct {
	// Root for checkouts, output trees and artifacts.
	BaseDir string `yaml:"base_dir"`

	Skia       Repo `yaml:"skia"`
	DepotTools Repo `yaml:"depot_tools"`

	// icu or libgrapheme.
	Unicode       string   `yaml:"unicode"`
	IOSMinVersion string   `yaml:"ios_min_version"`
	ClangWin      string   `yaml:"clang_win"`
	ExcludeDeps   []string `yaml:"exclude_deps"`

	Tools Tools `yaml:"tools"`
}

// Repo is a git remote and branch.
type Repo struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
}

// Tools overrides executable paths. Empty means look up on PATH.
type Tools struct {
	Git        string `yaml:"git"`
	Python     string `yaml:"python"`
	GN         string `yaml:"gn"`
	Ninja      string `yaml:"ninja"`
	Lipo       string `yaml:"lipo"`
	Libtool    string `yaml:"libtool"`
	Xcodebuild string `yaml:"xcodebuild"`
}

// ValidationError lists schema violations in a config file.
type ValidationError struct {
	File   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s:\n  %s", e.File, strings.Join(e.Issues, "\n  "))
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Skia:       Repo{URL: DefaultSkiaURL, Branch: DefaultBranch},
		DepotTools: Repo{URL: DefaultDepotToolsURL},
		Unicode:    platform.ICU.String(),
		Tools:      Tools{Python: "python3"},
	}
}

// Load reads path over the defaults. With path empty, DefaultFile is tried
// and its absence is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return Parse(path, data)
}

// Parse validates data against the schema and decodes it over the defaults.
// name is used in error messages.
func Parse(name string, data []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if doc != nil {
		if err := validate(name, doc); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if cfg.Skia.Branch == "" {
		cfg.Skia.Branch = DefaultBranch
	}
	return cfg, nil
}

func validate(name string, doc any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}
	verr := &ValidationError{File: name}
	for _, desc := range result.Errors() {
		verr.Issues = append(verr.Issues, desc.String())
	}
	return verr
}

// GNOptions returns the synthesizer knobs carried by the config.
func (c *Config) GNOptions() (gnargs.Options, error) {
	u, err := platform.ParseUnicode(c.Unicode)
	if err != nil {
		return gnargs.Options{}, err
	}
	return gnargs.Options{
		Unicode:       u,
		IOSMinVersion: c.IOSMinVersion,
		ClangWin:      c.ClangWin,
	}, nil
}
