// Package build drives one generator + executor run per target.
package build

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"

	"github.com/goplus/skbuild/internal/gnargs"
	"github.com/goplus/skbuild/internal/platform"
	"github.com/goplus/skbuild/internal/toolexec"
	"github.com/goplus/skbuild/x/gn"
	"github.com/goplus/skbuild/x/ninja"
)

// Driver generates and builds output trees.
type Driver struct {
	layout Layout
	opts   gnargs.Options
	gn     *gn.GN
	ninja  *ninja.Ninja
	log    hclog.Logger
	out    io.Writer
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithNinja sets the ninja executable.
func WithNinja(path string) DriverOption {
	return func(d *Driver) { d.ninja.Bin(path) }
}

// WithGN sets the gn executable. Empty keeps the checkout's bin/gn.
func WithGN(path string) DriverOption {
	return func(d *Driver) { d.gn.Bin(path) }
}

// WithFlagOutput sets where the highlighted flag block is printed.
func WithFlagOutput(w io.Writer) DriverOption {
	return func(d *Driver) { d.out = w }
}

// NewDriver returns a Driver for the checkout described by layout.
func NewDriver(layout Layout, opts gnargs.Options, runner toolexec.Runner, log hclog.Logger, options ...DriverOption) *Driver {
	d := &Driver{
		layout: layout,
		opts:   opts,
		gn:     gn.New(layout.SrcDir(), runner),
		ninja:  ninja.New(runner),
		log:    log,
		out:    os.Stderr,
	}
	for _, o := range options {
		o(d)
	}
	return d
}

// Build runs gn gen then ninja for t and returns the flag text passed to gn.
func (d *Driver) Build(ctx context.Context, t platform.Target) (string, error) {
	args := gnargs.Synthesize(t, d.opts)
	outDir := d.layout.OutDir(t)

	d.log.Info("generating gn args", "platform", t.Platform, "arch", t.Arch, "variant", t.Variant)
	color.New(color.FgGreen).Fprint(d.out, args)

	if err := d.gn.Gen(ctx, outDir, args); err != nil {
		return "", fmt.Errorf("gn gen %s: %w", t.OutDirName(), err)
	}
	if err := d.ninja.Build(ctx, outDir, t.Platform.Targets(d.opts.Unicode)...); err != nil {
		return "", fmt.Errorf("build %s %s: %w", t.Platform, t.Arch, err)
	}
	d.log.Info("built targets", "platform", t.Platform, "arch", t.Arch)
	return args, nil
}
