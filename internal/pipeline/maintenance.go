package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goplus/skbuild/internal/platform"
	"github.com/goplus/skbuild/internal/xos"
)

// Clean removes generator output trees. With only set, just that
// platform's trees go; otherwise the whole tmp/skia directory. It returns
// the trees removed.
func (p *Pipeline) Clean(only *platform.Platform) ([]string, error) {
	dir := p.layout.TmpDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var removed []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if only != nil && !strings.HasPrefix(e.Name(), only.String()+"_") {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return removed, err
		}
		removed = append(removed, e.Name())
	}
	p.log.Info("cleaned output trees", "count", len(removed))
	return removed, nil
}

// Patch names accepted by ApplyPatch.
const (
	PatchDeps    = "deps"
	PatchEmsdk   = "emsdk"
	PatchDawnIOS = "dawn-ios"
)

// PatchNames lists the patches in application order.
var PatchNames = []string{PatchDeps, PatchEmsdk, PatchDawnIOS}

// ApplyPatch applies one named patch to an existing checkout.
func (p *Pipeline) ApplyPatch(name string) error {
	if !xos.IsDir(p.layout.SrcDir()) {
		return fmt.Errorf("no skia checkout at %s", p.layout.SrcDir())
	}
	switch name {
	case PatchDeps:
		return p.applyPatches(Request{ExcludeDeps: true})
	case PatchEmsdk:
		return p.applyPatches(Request{PatchEmsdk: true})
	case PatchDawnIOS:
		return p.applyPatches(Request{PatchDawnIOS: true})
	}
	return fmt.Errorf("unknown patch %q (want one of %s)", name, strings.Join(PatchNames, ", "))
}
