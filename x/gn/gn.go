// Package gn wraps the GN meta-build generator shipped in a Skia checkout.
package gn

import (
	"context"
	"os"
	"path/filepath"

	"github.com/goplus/skbuild/internal/toolexec"
)

// GN runs <sourceDir>/bin/gn from inside the source tree.
type GN struct {
	sourceDir string
	bin       string
	runner    toolexec.Runner
}

// New returns a GN bound to the checkout at sourceDir.
func New(sourceDir string, runner toolexec.Runner) *GN {
	return &GN{
		sourceDir: sourceDir,
		bin:       filepath.Join(sourceDir, "bin", "gn"),
		runner:    runner,
	}
}

// Bin overrides the gn executable. An empty path keeps the checkout's
// bin/gn.
func (g *GN) Bin(path string) {
	if path != "" {
		g.bin = path
	}
}

// Gen runs "gn gen <outDir> --args=<args>". args is the complete flag text,
// one "key = value" per line.
func (g *GN) Gen(ctx context.Context, outDir, args string) error {
	if err := os.MkdirAll(filepath.Dir(outDir), 0o755); err != nil {
		return err
	}
	return g.runner.Run(ctx, g.sourceDir, g.bin, "gen", outDir, "--args="+args)
}
