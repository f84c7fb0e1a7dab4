// Package apple wraps the Apple toolchain programs that fuse static
// libraries: lipo, libtool and xcodebuild.
package apple

import (
	"context"
	"errors"

	"github.com/goplus/skbuild/internal/toolexec"
)

// Library is one slice of an xcframework.
type Library struct {
	Path    string
	Headers string // optional
}

// Tools drives lipo, libtool and xcodebuild.
type Tools struct {
	lipo       string
	libtool    string
	xcodebuild string
	runner     toolexec.Runner
}

// New returns Tools that resolve every program on PATH.
func New(runner toolexec.Runner) *Tools {
	return &Tools{
		lipo:       "lipo",
		libtool:    "libtool",
		xcodebuild: "xcodebuild",
		runner:     runner,
	}
}

// LipoBin overrides the lipo executable.
func (t *Tools) LipoBin(path string) {
	if path != "" {
		t.lipo = path
	}
}

// LibtoolBin overrides the libtool executable.
func (t *Tools) LibtoolBin(path string) {
	if path != "" {
		t.libtool = path
	}
}

// XcodebuildBin overrides the xcodebuild executable.
func (t *Tools) XcodebuildBin(path string) {
	if path != "" {
		t.xcodebuild = path
	}
}

// Lipo merges per-architecture copies of a library into a universal binary:
// "lipo -create <inputs...> -output <output>".
func (t *Tools) Lipo(ctx context.Context, output string, inputs ...string) error {
	if len(inputs) == 0 {
		return errors.New("lipo: no inputs")
	}
	args := append([]string{"-create"}, inputs...)
	args = append(args, "-output", output)
	return t.runner.Run(ctx, "", t.lipo, args...)
}

// Libtool combines static libraries: "libtool -static -o <output> <inputs...>".
func (t *Tools) Libtool(ctx context.Context, output string, inputs ...string) error {
	if len(inputs) == 0 {
		return errors.New("libtool: no inputs")
	}
	args := append([]string{"-static", "-o", output}, inputs...)
	return t.runner.Run(ctx, "", t.libtool, args...)
}

// CreateXCFramework runs "xcodebuild -create-xcframework" with one
// -library (and optional -headers) pair per slice.
func (t *Tools) CreateXCFramework(ctx context.Context, output string, libs ...Library) error {
	if len(libs) == 0 {
		return errors.New("xcodebuild: no libraries")
	}
	args := []string{"-create-xcframework"}
	for _, lib := range libs {
		args = append(args, "-library", lib.Path)
		if lib.Headers != "" {
			args = append(args, "-headers", lib.Headers)
		}
	}
	args = append(args, "-output", output)
	return t.runner.Run(ctx, "", t.xcodebuild, args...)
}
