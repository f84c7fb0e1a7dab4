package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/goplus/skbuild/internal/platform"
)

var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrInvalidArch     = errors.New("invalid architecture")
	ErrInvalidVariant  = errors.New("invalid variant")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// XCFramework is the pseudo platform that builds the combined Apple
// framework.
const XCFramework = "xcframework"

// Input is the raw, unvalidated description of a build.
type Input struct {
	Platform string   // a platform name or XCFramework
	Config   string   // "" means Release
	Variant  string   // "" means gpu
	Archs    []string // empty means the platform defaults
	Branch   string

	Shallow      bool
	ZipAll       bool
	Cleanup      bool
	ExcludeDeps  bool
	PatchEmsdk   bool
	PatchDawnIOS bool
}

// Request is a validated build. It is only produced by NewRequest and is
// treated as read-only afterwards.
type Request struct {
	Platform    platform.Platform
	Config      platform.Config
	Variant     platform.Variant
	Archs       []string
	Branch      string
	XCFramework bool

	Shallow      bool
	ZipAll       bool
	Cleanup      bool
	ExcludeDeps  bool
	PatchEmsdk   bool
	PatchDawnIOS bool
}

// NewRequest validates in. Every architecture must belong to the platform's
// valid set. The xcframework pseudo platform forces mac, Release and
// universal.
func NewRequest(in Input) (Request, error) {
	req := Request{
		Branch:       in.Branch,
		Shallow:      in.Shallow,
		ZipAll:       in.ZipAll,
		Cleanup:      in.Cleanup,
		ExcludeDeps:  in.ExcludeDeps,
		PatchEmsdk:   in.PatchEmsdk,
		PatchDawnIOS: in.PatchDawnIOS,
	}

	variant := in.Variant
	if variant == "" {
		variant = platform.GPU.String()
	}
	v, err := platform.ParseVariant(variant)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %q", ErrInvalidVariant, in.Variant)
	}
	req.Variant = v

	if in.Platform == XCFramework {
		req.XCFramework = true
		req.Platform = platform.Mac
		req.Config = platform.Release
		req.Archs = []string{platform.Universal}
		return req, nil
	}

	p, err := platform.Parse(in.Platform)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, in.Platform)
	}
	req.Platform = p

	cfg := in.Config
	if cfg == "" {
		cfg = platform.Release.String()
	}
	c, err := platform.ParseConfig(cfg)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %q", ErrInvalidConfig, in.Config)
	}
	req.Config = c

	archs := slices.Clone(in.Archs)
	if len(archs) == 0 {
		archs = p.DefaultArchs()
	}
	for _, arch := range archs {
		if !p.IsValidArch(arch) {
			return Request{}, fmt.Errorf("%w for %s: %q (valid: %v)", ErrInvalidArch, p, arch, p.ValidArchs())
		}
	}
	req.Archs = archs
	return req, nil
}

// BuildArchs returns the architectures actually compiled: universal, and
// the xcframework flow, expand to x86_64 and arm64.
func (r Request) BuildArchs() []string {
	if r.XCFramework || slices.Contains(r.Archs, platform.Universal) {
		return slices.Clone(platform.UniversalArchs)
	}
	return slices.Clone(r.Archs)
}

// Fuses reports whether the built mac architectures are fused with lipo.
func (r Request) Fuses() bool {
	return r.Platform == platform.Mac && slices.Equal(r.BuildArchs(), platform.UniversalArchs)
}

// Target returns the build target for arch.
func (r Request) Target(arch string) platform.Target {
	return platform.Target{Platform: r.Platform, Config: r.Config, Arch: arch, Variant: r.Variant}
}

// ios derives the iOS half of an xcframework request.
func (r Request) ios() Request {
	d := r
	d.Platform = platform.IOS
	d.Archs = slices.Clone(platform.UniversalArchs)
	d.XCFramework = false
	return d
}
