// Package pack assembles the distributable outputs: the unified include
// tree, the Apple xcframework and the all-platforms zip archive.
package pack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/goplus/skbuild/internal/build"
	"github.com/goplus/skbuild/internal/platform"
	"github.com/goplus/skbuild/x/apple"
)

// generated Dawn header directories, relative to an output tree's
// gen/third_party/dawn/include.
var dawnGenDirs = []string{"dawn", "webgpu"}

// Packager writes packaged artifacts under a build.Layout.
type Packager struct {
	layout build.Layout
	tools  *apple.Tools
	log    hclog.Logger
}

// New returns a Packager.
func New(layout build.Layout, tools *apple.Tools, log hclog.Logger) *Packager {
	return &Packager{layout: layout, tools: tools, log: log}
}

// Headers copies the public headers of the checkout into the include dir.
func (p *Packager) Headers() error {
	dest := p.layout.IncludeDir()
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	p.log.Info("packaging headers", "dest", dest)
	n, err := copyHeaders(p.layout.SrcDir(), dest, HeaderDirs, ExcludedDirs)
	if err != nil {
		return fmt.Errorf("package headers: %w", err)
	}
	p.log.Debug("packaged headers", "count", n)
	return nil
}

// GeneratedHeaders copies generated Dawn headers out of the output tree
// outDir into include/dawn and include/webgpu. A missing directory is
// logged and skipped.
func (p *Packager) GeneratedHeaders(outDir string) error {
	genRoot := filepath.Join(outDir, "gen", "third_party", "dawn", "include")
	for _, sub := range dawnGenDirs {
		src := filepath.Join(genRoot, sub)
		ok, files, err := copyGlob(src, filepath.Join(p.layout.IncludeDir(), sub), ".h")
		if err != nil {
			return fmt.Errorf("package generated %s headers: %w", sub, err)
		}
		if !ok {
			p.log.Warn("generated headers not found", "dir", src)
			continue
		}
		p.log.Info("packaged generated headers", "dir", sub, "count", len(files))
	}
	return nil
}

// XCFramework replaces the Skia.xcframework bundle with one built from the
// ios x86_64, ios arm64 and mac universal combined libraries, each paired
// with the include dir. Failure is returned to the caller.
func (p *Packager) XCFramework(ctx context.Context, v platform.Variant) error {
	out := p.layout.XCFrameworkPath()
	if err := os.RemoveAll(out); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}

	headers := p.layout.IncludeDir()
	var libs []apple.Library
	for _, arch := range platform.UniversalArchs {
		t := platform.Target{Platform: platform.IOS, Config: platform.Release, Arch: arch, Variant: v}
		libs = append(libs, apple.Library{
			Path:    filepath.Join(p.layout.DestDir(t), build.CombinedLib),
			Headers: headers,
		})
	}
	libs = append(libs, apple.Library{
		Path:    filepath.Join(p.layout.ConfigDir(platform.Mac, v, platform.Release), build.CombinedLib),
		Headers: headers,
	})

	p.log.Info("creating xcframework", "path", out)
	if err := p.tools.CreateXCFramework(ctx, out, libs...); err != nil {
		return fmt.Errorf("create xcframework: %w", err)
	}
	return nil
}
