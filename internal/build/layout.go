package build

import (
	"path/filepath"

	"github.com/goplus/skbuild/internal/platform"
)

// Base directory layout:
//
//	baseDir/
//	  src/skia/                          # Skia checkout
//	  tmp/depot_tools/                   # depot_tools checkout
//	  tmp/skia/<p>_<cfg>_<arch>_<v>/     # generator output trees
//	  <p>-<v>/lib/<cfg>[/<arch>]/        # collected libraries
//	  <p>-<v>/lib/gn_args.txt            # build summary (wasm: <p>-<v>/gn_args.txt)
//	  include/                           # packaged headers
//	  xcframework/Skia.xcframework
//	  skia-all-platforms-<v>.zip
const (
	summaryFile     = "gn_args.txt"
	xcframeworkName = "Skia.xcframework"
	// CombinedLib is the single static library libtool produces for Apple
	// targets.
	CombinedLib = "libSkia.a"
)

// Layout resolves every path the pipeline reads or writes under one base
// directory.
type Layout struct {
	Base string
}

// NewLayout returns the layout rooted at base.
func NewLayout(base string) Layout { return Layout{Base: base} }

// SrcDir returns the Skia checkout.
func (l Layout) SrcDir() string { return filepath.Join(l.Base, "src", "skia") }

// DepotToolsDir returns the depot_tools checkout.
func (l Layout) DepotToolsDir() string { return filepath.Join(l.Base, "tmp", "depot_tools") }

// TmpDir returns the parent of all output trees.
func (l Layout) TmpDir() string { return filepath.Join(l.Base, "tmp", "skia") }

// OutDir returns the output tree of t.
func (l Layout) OutDir(t platform.Target) string {
	return filepath.Join(l.TmpDir(), t.OutDirName())
}

// LibDir returns <base>/<p>-<v>/lib.
func (l Layout) LibDir(p platform.Platform, v platform.Variant) string {
	return filepath.Join(l.Base, platform.LibDirName(p, v), "lib")
}

// ConfigDir returns the arch-less destination <libdir>/<cfg>.
func (l Layout) ConfigDir(p platform.Platform, v platform.Variant, c platform.Config) string {
	return filepath.Join(l.LibDir(p, v), c.String())
}

// DestDir returns where t's libraries are collected. The arch segment is
// omitted for universal and on single-tree platforms.
func (l Layout) DestDir(t platform.Target) string {
	dir := l.ConfigDir(t.Platform, t.Variant, t.Config)
	if t.Arch == platform.Universal || t.Platform.SingleTree() {
		return dir
	}
	return filepath.Join(dir, t.Arch)
}

// SummaryPath returns the build summary file for a platform and variant.
func (l Layout) SummaryPath(p platform.Platform, v platform.Variant) string {
	if p.SingleTree() {
		return filepath.Join(l.Base, platform.LibDirName(p, v), summaryFile)
	}
	return filepath.Join(l.LibDir(p, v), summaryFile)
}

// IncludeDir returns the packaged header root.
func (l Layout) IncludeDir() string { return filepath.Join(l.Base, "include") }

// XCFrameworkPath returns the combined Apple framework bundle.
func (l Layout) XCFrameworkPath() string {
	return filepath.Join(l.Base, "xcframework", xcframeworkName)
}

// ZipPath returns the all-platforms archive for v.
func (l Layout) ZipPath(v platform.Variant) string {
	return filepath.Join(l.Base, "skia-all-platforms-"+v.String()+".zip")
}

// DepsFile returns the Skia DEPS manifest.
func (l Layout) DepsFile() string { return filepath.Join(l.SrcDir(), "DEPS") }

// ActivateEmsdk returns the emsdk activation script in the checkout.
func (l Layout) ActivateEmsdk() string { return filepath.Join(l.SrcDir(), "bin", "activate-emsdk") }

// DawnDir returns the Dawn build-integration directory in the checkout.
func (l Layout) DawnDir() string { return filepath.Join(l.SrcDir(), "third_party", "dawn") }
