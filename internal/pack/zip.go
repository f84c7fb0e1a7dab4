package pack

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goplus/skbuild/internal/platform"
	"github.com/goplus/skbuild/internal/xos"
)

// ZipAll bundles the include dir and every platform's library dir for v into
// skia-all-platforms-<v>.zip, with entry names relative to the base dir.
// It returns the archive path, or "" when there is no include dir to ship.
func (p *Packager) ZipAll(v platform.Variant) (string, error) {
	include := p.layout.IncludeDir()
	if !xos.IsDir(include) {
		p.log.Error("include directory not found, skipping archive", "dir", include)
		return "", nil
	}

	dirs := []string{include}
	for _, plat := range platform.All {
		dir := p.layout.LibDir(plat, v)
		if !xos.IsDir(dir) {
			p.log.Warn("library directory not found", "platform", plat, "dir", dir)
			continue
		}
		dirs = append(dirs, dir)
	}

	dest := p.layout.ZipPath(v)
	p.log.Info("creating archive", "path", dest)
	if err := zipDirs(p.layout.Base, dest, dirs...); err != nil {
		os.Remove(dest)
		return "", err
	}
	return dest, nil
}

// zipDirs creates a zip archive at dest holding the files under dirs, named
// relative to base.
func zipDirs(base, dest string, dirs ...string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, dir := range dirs {
		if err := addDir(w, base, dir); err != nil {
			w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

func addDir(w *zip.Writer, base, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		writer, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(writer, file)
		return err
	})
}
