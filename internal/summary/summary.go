// Package summary writes the per-build text record of the flags used.
package summary

import (
	"fmt"
	"strings"

	"github.com/goplus/skbuild/internal/platform"
	"github.com/goplus/skbuild/internal/xos"
)

// Arch is the flag text gn received for one architecture.
type Arch struct {
	Name  string
	Flags string
}

// Summary describes one platform build.
type Summary struct {
	Platform platform.Platform
	Variant  platform.Variant
	Config   platform.Config
	Revision string // Skia commit, may be empty
	BuildID  string
	Archs    []Arch
}

// String renders the summary file contents.
func (s *Summary) String() string {
	var sb strings.Builder
	names := make([]string, len(s.Archs))
	for i, a := range s.Archs {
		names[i] = a.Name
	}
	fmt.Fprintf(&sb, "Skia Build Summary for %s (%s)\n", s.Platform, s.Variant)
	fmt.Fprintf(&sb, "Configuration: %s\n", s.Config)
	fmt.Fprintf(&sb, "Variant: %s\n", s.Variant)
	fmt.Fprintf(&sb, "Architectures: %s\n", strings.Join(names, ", "))
	if s.Revision != "" {
		fmt.Fprintf(&sb, "Revision: %s\n", s.Revision)
	}
	if s.BuildID != "" {
		fmt.Fprintf(&sb, "Build ID: %s\n", s.BuildID)
	}
	sb.WriteString("\nGN Arguments:\n")
	for _, a := range s.Archs {
		fmt.Fprintf(&sb, "\nFor %s:\n", a.Name)
		sb.WriteString(strings.TrimRight(a.Flags, "\n"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Write atomically replaces path with the rendered summary.
func (s *Summary) Write(path string) error {
	return xos.WriteFile(path, []byte(s.String()), 0o644)
}
