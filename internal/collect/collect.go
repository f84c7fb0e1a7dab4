// Package collect moves built libraries out of output trees into the
// per-platform library directories and fuses Apple architectures.
package collect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/goplus/skbuild/internal/build"
	"github.com/goplus/skbuild/internal/platform"
	"github.com/goplus/skbuild/internal/xos"
	"github.com/goplus/skbuild/x/apple"
)

// dawnSubdir is where the Dawn CMake sub-build leaves its combined library.
const dawnSubdir = "cmake_dawn"

// Collector places artifacts according to a build.Layout.
type Collector struct {
	layout  build.Layout
	unicode platform.Unicode
	tools   *apple.Tools
	log     hclog.Logger
}

// New returns a Collector.
func New(layout build.Layout, unicode platform.Unicode, tools *apple.Tools, log hclog.Logger) *Collector {
	return &Collector{layout: layout, unicode: unicode, tools: tools, log: log}
}

// Move transfers t's libraries from its output tree into its destination.
// Missing libraries are logged and skipped. On the gpu variant the GPU
// backend libraries are copied too, looked up under cmake_dawn/ first.
func (c *Collector) Move(t platform.Target) error {
	src := c.layout.OutDir(t)
	dest := c.layout.DestDir(t)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}

	for _, lib := range t.Platform.Libs(c.unicode) {
		from := filepath.Join(src, lib)
		ok, err := xos.Exists(from)
		if err != nil {
			return err
		}
		if !ok {
			c.log.Warn("library not found", "lib", lib, "dir", src)
			continue
		}
		if err := xos.MoveFile(from, filepath.Join(dest, lib)); err != nil {
			return fmt.Errorf("move %s: %w", lib, err)
		}
		c.log.Debug("moved library", "lib", lib, "dest", dest)
	}

	if t.Variant != platform.GPU {
		return nil
	}
	for _, lib := range t.Platform.GPULibs() {
		from, err := firstExisting(filepath.Join(src, dawnSubdir, lib), filepath.Join(src, lib))
		if err != nil {
			return err
		}
		if from == "" {
			c.log.Warn("gpu library not found", "lib", lib, "dir", src)
			continue
		}
		if err := xos.CopyFile(from, filepath.Join(dest, lib)); err != nil {
			return fmt.Errorf("copy %s: %w", lib, err)
		}
		c.log.Debug("copied gpu library", "lib", lib, "dest", dest)
	}
	return nil
}

func firstExisting(paths ...string) (string, error) {
	for _, p := range paths {
		ok, err := xos.Exists(p)
		if err != nil {
			return "", err
		}
		if ok {
			return p, nil
		}
	}
	return "", nil
}

// Universal fuses the x86_64 and arm64 copies of every mac library into the
// arch-less configuration directory, then removes both arch directories.
// A library with one copy is copied as is; one with no copies is skipped.
func (c *Collector) Universal(ctx context.Context, v platform.Variant, cfg platform.Config) error {
	dest := c.layout.ConfigDir(platform.Mac, v, cfg)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}

	libs := platform.Mac.Libs(c.unicode)
	if v == platform.GPU {
		libs = append(libs, platform.Mac.GPULibs()...)
	}
	for _, lib := range libs {
		var inputs []string
		for _, arch := range platform.UniversalArchs {
			p := filepath.Join(dest, arch, lib)
			ok, err := xos.Exists(p)
			if err != nil {
				return err
			}
			if ok {
				inputs = append(inputs, p)
			}
		}
		out := filepath.Join(dest, lib)
		switch len(inputs) {
		case len(platform.UniversalArchs):
			if err := c.tools.Lipo(ctx, out, inputs...); err != nil {
				return fmt.Errorf("lipo %s: %w", lib, err)
			}
			c.log.Info("created universal file", "lib", lib)
		case 0:
			c.log.Warn("no architecture copies to fuse", "lib", lib)
		default:
			if err := xos.CopyFile(inputs[0], out); err != nil {
				return err
			}
			c.log.Warn("copied single-arch file", "lib", lib, "from", inputs[0])
		}
	}

	for _, arch := range platform.UniversalArchs {
		if err := os.RemoveAll(filepath.Join(dest, arch)); err != nil {
			return err
		}
	}
	return nil
}

// Combine links the libraries present in t's destination into one
// libSkia.a with libtool. GPU backend libraries are not included.
func (c *Collector) Combine(ctx context.Context, t platform.Target) error {
	dir := c.layout.DestDir(t)
	var inputs []string
	for _, lib := range t.Platform.Libs(c.unicode) {
		p := filepath.Join(dir, lib)
		ok, err := xos.Exists(p)
		if err != nil {
			return err
		}
		if ok {
			inputs = append(inputs, p)
		}
	}
	if len(inputs) == 0 {
		c.log.Warn("no libraries found to combine", "platform", t.Platform, "arch", t.Arch)
		return nil
	}
	out := filepath.Join(dir, build.CombinedLib)
	if err := c.tools.Libtool(ctx, out, inputs...); err != nil {
		return fmt.Errorf("combine %s %s: %w", t.Platform, t.Arch, err)
	}
	c.log.Info("created combined library", "path", out)
	return nil
}

// Clean removes the output trees of the given targets.
func (c *Collector) Clean(targets ...platform.Target) error {
	for _, t := range targets {
		if err := os.RemoveAll(c.layout.OutDir(t)); err != nil {
			return err
		}
	}
	return nil
}
