package pack

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goplus/skbuild/internal/xos"
)

// HeaderDirs are the source subdirectories whose headers are published,
// relative to the Skia checkout.
var HeaderDirs = []string{
	"include",
	"modules/skottie",
	"modules/skparagraph",
	"modules/skshaper",
	"modules/skresources",
	"modules/skunicode",
	"modules/skcms",
	"modules/svg",
	"src/core",
	"src/base",
	"src/utils",
	"src/xml",
	"third_party/externals/dawn/include",
}

// ExcludedDirs are directory names never packaged, wherever they appear.
var ExcludedDirs = []string{"android"}

const headerExt = ".h"

// copyHeaders mirrors every header under srcRoot/<allow> into destRoot,
// skipping any path with a segment in deny. Missing allow-listed directories
// are ignored.
func copyHeaders(srcRoot, destRoot string, allow, deny []string) (int, error) {
	n := 0
	for _, dir := range allow {
		root := filepath.Join(srcRoot, filepath.FromSlash(dir))
		if !xos.IsDir(root) {
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(srcRoot, path)
			if err != nil {
				return err
			}
			if denied(rel, deny) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), headerExt) {
				return nil
			}
			n++
			return xos.CopyFile(path, filepath.Join(destRoot, rel))
		})
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func denied(rel string, deny []string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if slices.Contains(deny, part) {
			return true
		}
	}
	return false
}

// copyGlob copies the files matching srcDir/*<ext> into destDir. It reports
// false if srcDir does not exist.
func copyGlob(srcDir, destDir, ext string) (bool, []string, error) {
	if !xos.IsDir(srcDir) {
		return false, nil, nil
	}
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return true, nil, err
	}
	var copied []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		if err := xos.CopyFile(filepath.Join(srcDir, e.Name()), filepath.Join(destDir, e.Name())); err != nil {
			return true, copied, err
		}
		copied = append(copied, e.Name())
	}
	return true, copied, nil
}
