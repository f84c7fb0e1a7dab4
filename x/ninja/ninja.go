// Package ninja wraps the ninja build executor.
package ninja

import (
	"context"
	"errors"

	"github.com/goplus/skbuild/internal/toolexec"
)

// Ninja runs ninja builds in a generated output directory.
type Ninja struct {
	bin    string
	runner toolexec.Runner
}

// New returns a Ninja that resolves "ninja" on PATH.
func New(runner toolexec.Runner) *Ninja {
	return &Ninja{bin: "ninja", runner: runner}
}

// Bin overrides the ninja executable.
func (n *Ninja) Bin(path string) {
	if path != "" {
		n.bin = path
	}
}

// Build runs "ninja -C <outDir> <targets...>".
func (n *Ninja) Build(ctx context.Context, outDir string, targets ...string) error {
	if len(targets) == 0 {
		return errors.New("ninja: no targets")
	}
	args := append([]string{"-C", outDir}, targets...)
	return n.runner.Run(ctx, "", n.bin, args...)
}
