package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goplus/skbuild/internal/platform"
)

// chdir is a Go 1.21-compatible stand-in for testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaultMissing(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Skia.URL != DefaultSkiaURL || cfg.Skia.Branch != "main" || cfg.DepotTools.URL != DefaultDepotToolsURL {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Tools.Python != "python3" {
		t.Errorf("python = %q", cfg.Tools.Python)
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skbuild.yaml")
	content := `
base_dir: /data/skia-out
skia:
  url: https://skia.googlesource.com/skia.git
  branch: chrome/m126
unicode: libgrapheme
ios_min_version: "15.0"
exclude_deps:
  - third_party/externals/v8
tools:
  ninja: /opt/ninja
  gn: /opt/gn
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseDir != "/data/skia-out" || cfg.Skia.Branch != "chrome/m126" || cfg.Tools.Ninja != "/opt/ninja" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Tools.GN != "/opt/gn" {
		t.Errorf("gn = %q", cfg.Tools.GN)
	}
	if cfg.DepotTools.URL != DefaultDepotToolsURL {
		t.Errorf("unset depot_tools url lost its default: %q", cfg.DepotTools.URL)
	}
	if cfg.Tools.Python != "python3" {
		t.Errorf("unset python lost its default: %q", cfg.Tools.Python)
	}
	if len(cfg.ExcludeDeps) != 1 {
		t.Errorf("exclude_deps = %v", cfg.ExcludeDeps)
	}
	opts, err := cfg.GNOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Unicode != platform.Libgrapheme || opts.IOSMinVersion != "15.0" {
		t.Errorf("opts = %+v", opts)
	}
}

func TestParseSchemaErrors(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{"unknown key", "colour: red\n", "colour"},
		{"bad unicode", "unicode: utf8\n", "unicode"},
		{"bad version", "ios_min_version: latest\n", "ios_min_version"},
		{"wrong type", "exclude_deps: v8\n", "exclude_deps"},
		{"unknown tool", "tools:\n  cmake: /usr/bin/cmake\n", "cmake"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("skbuild.yaml", []byte(tt.doc))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if !strings.Contains(verr.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", verr.Error(), tt.want)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse("skbuild.yaml", nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Skia.Branch != DefaultBranch {
		t.Errorf("branch = %q", cfg.Skia.Branch)
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := Parse("skbuild.yaml", []byte("skia: [unclosed\n")); err == nil {
		t.Fatal("expected yaml error")
	}
}
