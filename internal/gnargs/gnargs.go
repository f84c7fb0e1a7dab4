// Package gnargs composes the argument text handed to "gn gen --args".
package gnargs

import (
	"strconv"
	"strings"

	"github.com/goplus/skbuild/internal/platform"
)

// DefaultIOSMinVersion is the deployment target used when Options leaves it
// empty.
const DefaultIOSMinVersion = "13.0"

// DefaultClangWin is where the Windows toolchain is expected by default.
const DefaultClangWin = `C:\Program Files\LLVM`

// Flag is one GN build argument. Value is already in GN literal syntax.
type Flag struct {
	Key   string
	Value string
}

// String returns a flag whose value is a quoted GN string.
func String(key, value string) Flag {
	return Flag{Key: key, Value: quote(value)}
}

// Bool returns a boolean flag.
func Bool(key string, value bool) Flag {
	return Flag{Key: key, Value: strconv.FormatBool(value)}
}

// List returns a flag whose value is a GN list of strings.
func List(key string, values ...string) Flag {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return Flag{Key: key, Value: "[" + strings.Join(quoted, ", ") + "]"}
}

func (f Flag) String() string { return f.Key + " = " + f.Value }

// quote wraps s in double quotes. GN only treats \", \$ and \\ as escapes,
// so a Windows path such as C:\Program Files passes through unchanged.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Options carry the knobs that come from the configuration file.
type Options struct {
	Unicode       platform.Unicode
	IOSMinVersion string
	ClangWin      string
}

func (o Options) iosMinVersion() string {
	if o.IOSMinVersion == "" {
		return DefaultIOSMinVersion
	}
	return o.IOSMinVersion
}

func (o Options) clangWin() string {
	if o.ClangWin == "" {
		return DefaultClangWin
	}
	return o.ClangWin
}

// Flags returns the ordered flag list for t.
//
// Debug builds only get is_debug on top of the basic compiler selection.
// Release builds get the variant's platform table, the CPU-only table for
// the cpu variant, the shared release table, then is_debug=false and
// is_official_build=true. A key set by a later table replaces the earlier
// assignment, matching GN's last-assignment-wins reading of the concatenated
// tables, so every key still appears once. Per-platform CPU and runtime
// flags are appended last in both configurations.
func Flags(t platform.Target, opts Options) []Flag {
	flags := append([]Flag(nil), basic...)
	if t.Config == platform.Debug {
		flags = append(flags, Bool("is_debug", true))
	} else {
		flags = append(flags, platformFlags(t.Platform, t.Variant, opts)...)
		if t.Variant == platform.CPU {
			flags = override(flags, cpuOnly)
		}
		flags = override(flags, releaseFlags(opts.Unicode))
		flags = append(flags, Bool("is_debug", false), Bool("is_official_build", true))
	}
	return append(flags, targetFlags(t, opts)...)
}

// override drops every flag whose key extra sets, then appends extra.
func override(flags, extra []Flag) []Flag {
	set := make(map[string]bool, len(extra))
	for _, f := range extra {
		set[f.Key] = true
	}
	kept := flags[:0:0]
	for _, f := range flags {
		if !set[f.Key] {
			kept = append(kept, f)
		}
	}
	return append(kept, extra...)
}

func targetFlags(t platform.Target, opts Options) []Flag {
	switch t.Platform {
	case platform.Mac:
		return []Flag{String("target_cpu", t.Arch)}
	case platform.IOS:
		return []Flag{String("target_cpu", pick(t.Arch == "arm64", "arm64", "x64"))}
	case platform.Win:
		crt := pick(t.Config == platform.Debug, "/MTd", "/MT")
		cpu := "x64"
		switch t.Arch {
		case "Win32":
			cpu = "x86"
		case "arm64":
			cpu = "arm64"
		}
		return []Flag{
			List("extra_cflags", crt),
			String("target_cpu", cpu),
			String("clang_win", opts.clangWin()),
		}
	case platform.Linux:
		return []Flag{String("target_cpu", pick(t.Arch == "arm64", "arm64", "x64"))}
	case platform.Wasm:
		return []Flag{String("target_cpu", "wasm")}
	}
	return nil
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

// Render joins flags one per line, each line newline-terminated.
func Render(flags []Flag) string {
	var sb strings.Builder
	for _, f := range flags {
		sb.WriteString(f.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Synthesize returns the flag text for t. The result depends only on its
// arguments.
func Synthesize(t platform.Target, opts Options) string {
	return Render(Flags(t, opts))
}
