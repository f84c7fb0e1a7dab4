// Package platform holds the static tables that describe every supported
// target: which architectures are valid, which libraries the build produces,
// and how output directories are named.
package platform

import (
	"fmt"
	"slices"
	"strings"
)

// Platform identifies a build target operating system.
type Platform int

const (
	Mac Platform = iota
	IOS
	Win
	Linux
	Wasm
)

// All lists every platform in packaging order.
var All = []Platform{Mac, IOS, Win, Linux, Wasm}

// Universal is the pseudo-architecture that stands for "build every real
// architecture, then fuse them".
const Universal = "universal"

// UniversalArchs are the architectures Universal expands to.
var UniversalArchs = []string{"x86_64", "arm64"}

type spec struct {
	name         string
	validArchs   []string
	defaultArchs []string
	libExt       string
	libPrefix    string
	gpuLibs      []string
	singleTree   bool
}

var specs = map[Platform]spec{
	Mac: {
		name:         "mac",
		validArchs:   []string{"x86_64", "arm64", Universal},
		defaultArchs: []string{Universal},
		libPrefix:    "lib",
		libExt:       ".a",
		gpuLibs:      []string{"libdawn_combined.a"},
	},
	IOS: {
		name:         "ios",
		validArchs:   []string{"x86_64", "arm64"},
		defaultArchs: []string{"x86_64", "arm64"},
		libPrefix:    "lib",
		libExt:       ".a",
	},
	Win: {
		name:         "win",
		validArchs:   []string{"x64", "Win32", "arm64"},
		defaultArchs: []string{"x64"},
		libExt:       ".lib",
		gpuLibs:      []string{"dawn_combined.lib"},
	},
	Linux: {
		name:         "linux",
		validArchs:   []string{"x64", "arm64"},
		defaultArchs: []string{"x64"},
		libPrefix:    "lib",
		libExt:       ".a",
		gpuLibs:      []string{"libdawn_combined.a"},
	},
	Wasm: {
		name:         "wasm",
		validArchs:   []string{"wasm32"},
		defaultArchs: []string{"wasm32"},
		libPrefix:    "lib",
		libExt:       ".a",
		singleTree:   true,
	},
}

// Parse returns the platform named s.
func Parse(s string) (Platform, error) {
	for _, p := range All {
		if specs[p].name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown platform %q", s)
}

func (p Platform) String() string {
	if s, ok := specs[p]; ok {
		return s.name
	}
	return fmt.Sprintf("Platform(%d)", int(p))
}

// ValidArchs returns the architectures accepted for p.
func (p Platform) ValidArchs() []string { return slices.Clone(specs[p].validArchs) }

// DefaultArchs returns the architectures built when none are requested.
func (p Platform) DefaultArchs() []string { return slices.Clone(specs[p].defaultArchs) }

// IsValidArch reports whether arch belongs to p's valid set.
func (p Platform) IsValidArch(arch string) bool {
	return slices.Contains(specs[p].validArchs, arch)
}

// SingleTree reports whether p places all libraries in one directory per
// configuration, with no architecture segment.
func (p Platform) SingleTree() bool { return specs[p].singleTree }

// LibExt returns the static library suffix used on p.
func (p Platform) LibExt() string { return specs[p].libExt }

// Unicode selects the Unicode support library linked into Skia.
type Unicode int

const (
	ICU Unicode = iota
	Libgrapheme
)

// ParseUnicode returns the backend named s. The empty string means ICU.
func ParseUnicode(s string) (Unicode, error) {
	switch s {
	case "", "icu":
		return ICU, nil
	case "libgrapheme":
		return Libgrapheme, nil
	}
	return 0, fmt.Errorf("unknown unicode backend %q", s)
}

func (u Unicode) String() string {
	if u == Libgrapheme {
		return "libgrapheme"
	}
	return "icu"
}

// libNames is the per-platform library order; skparagraph and friends link
// in this order on every target.
var libNames = map[Platform][]string{
	Mac:   {"skia", "skottie", "skshaper", "sksg", "skparagraph", "svg", "skunicode_core"},
	IOS:   {"skia", "skottie", "sksg", "skshaper", "skparagraph", "svg", "skunicode_core"},
	Win:   {"skia", "skottie", "sksg", "skshaper", "skparagraph", "svg", "skunicode_core"},
	Linux: {"skia", "skottie", "skshaper", "sksg", "skparagraph", "svg", "skunicode_core"},
	Wasm:  {"skia", "skottie", "skshaper", "sksg", "skparagraph", "svg", "skunicode_core"},
}

// Libs returns the static library file names produced for p.
func (p Platform) Libs(u Unicode) []string {
	s := specs[p]
	names := append(slices.Clone(libNames[p]), "skunicode_"+u.String())
	libs := make([]string, len(names))
	for i, n := range names {
		libs[i] = s.libPrefix + n + s.libExt
	}
	return libs
}

// GPULibs returns the additional GPU-backend libraries collected for the gpu
// variant. ios uses Metal directly and wasm the browser's WebGPU, so both are
// empty.
func (p Platform) GPULibs() []string { return slices.Clone(specs[p].gpuLibs) }

// Targets returns the ninja target names for p's libraries. The Windows
// executor expects bare names without the .lib suffix.
func (p Platform) Targets(u Unicode) []string {
	libs := p.Libs(u)
	if p != Win {
		return libs
	}
	for i, lib := range libs {
		libs[i] = strings.TrimSuffix(lib, p.LibExt())
	}
	return libs
}

// Variant is the CPU-only / GPU-accelerated build axis.
type Variant int

const (
	GPU Variant = iota
	CPU
)

// ParseVariant returns the variant named s.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "gpu":
		return GPU, nil
	case "cpu":
		return CPU, nil
	}
	return 0, fmt.Errorf("unknown variant %q (want cpu or gpu)", s)
}

func (v Variant) String() string {
	if v == CPU {
		return "cpu"
	}
	return "gpu"
}

// Config is the debug/release build configuration.
type Config int

const (
	Release Config = iota
	Debug
)

// ParseConfig returns the configuration named s.
func ParseConfig(s string) (Config, error) {
	switch s {
	case "Release":
		return Release, nil
	case "Debug":
		return Debug, nil
	}
	return 0, fmt.Errorf("unknown configuration %q (want Debug or Release)", s)
}

func (c Config) String() string {
	if c == Debug {
		return "Debug"
	}
	return "Release"
}

// Target is the key of one generator output tree.
type Target struct {
	Platform Platform
	Config   Config
	Arch     string
	Variant  Variant
}

// OutDirName returns the deterministic name of the target's output tree.
func (t Target) OutDirName() string {
	return fmt.Sprintf("%s_%s_%s_%s", t.Platform, t.Config, t.Arch, t.Variant)
}

// LibDirName returns the per-platform, per-variant packaging directory name,
// e.g. "linux-gpu".
func LibDirName(p Platform, v Variant) string {
	return p.String() + "-" + v.String()
}
