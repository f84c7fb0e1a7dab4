// Package patch applies the small text edits the build needs on a Skia
// checkout before dependency sync. Every patch can be applied repeatedly;
// a second application leaves the file unchanged.
package patch

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goplus/skbuild/internal/xos"
)

// DefaultExcludedDeps are the DEPS entries commented out by ExcludeDeps
// when no list is configured.
var DefaultExcludedDeps = []string{
	"third_party/externals/emsdk",
	"third_party/externals/v8",
	"third_party/externals/oboe",
	"third_party/externals/imgui",
	"third_party/externals/dng_sdk",
	"third_party/externals/microhttpd",
}

// ErrAnchorNotFound is returned when a file no longer contains the text a
// patch expects to replace.
var ErrAnchorNotFound = errors.New("patch anchor not found")

func rewrite(path string, fn func([]byte) ([]byte, error)) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	out, err := fn(data)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if bytes.Equal(out, data) {
		return false, nil
	}
	return true, xos.WriteFile(path, out, info.Mode().Perm())
}

// ExcludeDeps prefixes "# " to every line of the DEPS file that mentions
// one of deps. Lines already commented out are left alone. It returns the
// number of lines changed.
func ExcludeDeps(path string, deps []string) (int, error) {
	if len(deps) == 0 {
		deps = DefaultExcludedDeps
	}
	n := 0
	_, err := rewrite(path, func(data []byte) ([]byte, error) {
		lines := strings.SplitAfter(string(data), "\n")
		var sb strings.Builder
		for _, line := range lines {
			if mentions(line, deps) && !strings.HasPrefix(strings.TrimSpace(line), "#") {
				sb.WriteString("# ")
				n++
			}
			sb.WriteString(line)
		}
		return []byte(sb.String()), nil
	})
	return n, err
}

func mentions(line string, deps []string) bool {
	for _, d := range deps {
		if strings.Contains(line, d) {
			return true
		}
	}
	return false
}

const emsdkReturn = "    return\n"

// NeutralizeEmsdk makes activate-emsdk a no-op by inserting an early return
// after its "def main():" line, so dependency sync never downloads the
// Emscripten SDK. It reports whether the file changed.
func NeutralizeEmsdk(path string) (bool, error) {
	return rewrite(path, func(data []byte) ([]byte, error) {
		lines := strings.SplitAfter(string(data), "\n")
		var sb strings.Builder
		for i, line := range lines {
			sb.WriteString(line)
			if strings.TrimSpace(line) != "def main():" {
				continue
			}
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
			if i+1 < len(lines) && lines[i+1] == emsdkReturn {
				continue
			}
			sb.WriteString(emsdkReturn)
		}
		return []byte(sb.String()), nil
	})
}

type replacement struct {
	old, new string
}

// filePatch edits one file unless marker is already present. Every
// occurrence of an anchor is replaced.
type filePatch struct {
	name   string
	marker string
	edits  []replacement
}

var dawnPatches = []filePatch{
	{
		name:   "args.gni",
		marker: "dawn_target_platform",
		edits:  []replacement{{argsGniAnchor, argsGniPatched}},
	},
	{
		name:   "BUILD.gn",
		marker: "--ios_simulator",
		edits:  []replacement{{buildGnAnchor, buildGnPatched}},
	},
	{
		name:   "build_dawn.py",
		marker: "get_ios_settings",
		edits: []replacement{
			{buildDawnImports, buildDawnImportsPatched},
			{buildDawnParser, buildDawnParserPatched},
			{buildDawnConfigure, buildDawnConfigurePatched},
		},
	},
	{
		name:   "cmake_utils.py",
		marker: "get_ios_settings",
		edits: []replacement{
			{cmakeOSCPU, cmakeOSCPUPatched},
			{cmakeWindowsSettings, cmakeIOSSettings},
		},
	},
}

// Result reports what happened to one file.
type Result struct {
	File    string
	Applied bool // false when the file was already patched
}

// DawnIOS adds iOS simulator and visionOS support to Dawn's build
// integration under dawnDir (<skia>/third_party/dawn). Files that already
// carry a patch are skipped.
func DawnIOS(dawnDir string) ([]Result, error) {
	var results []Result
	for _, fp := range dawnPatches {
		path := filepath.Join(dawnDir, fp.name)
		changed, err := rewrite(path, fp.apply)
		if err != nil {
			return results, err
		}
		results = append(results, Result{File: fp.name, Applied: changed})
	}
	return results, nil
}

func (fp filePatch) apply(data []byte) ([]byte, error) {
	s := string(data)
	if strings.Contains(s, fp.marker) {
		return data, nil
	}
	for _, e := range fp.edits {
		if !strings.Contains(s, e.old) {
			return nil, fmt.Errorf("%w: %q", ErrAnchorNotFound, firstLine(e.old))
		}
		s = strings.ReplaceAll(s, e.old, e.new)
	}
	return []byte(s), nil
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
