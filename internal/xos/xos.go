// Package xos provides the file operations the pipeline uses to place
// artifacts. Writes go through a temp file and an atomic rename.
package xos

import (
	"errors"
	"io/fs"
	"os"
)

// CopyFile copies src to dst, keeping src's permission bits.
func CopyFile(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	return WriteReader(dst, f, info.Mode().Perm())
}

// MoveFile copies src to dst and then removes src. Output trees and
// destinations may sit on different volumes.
func MoveFile(src, dst string) error {
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// Exists reports whether path exists. Errors other than "not exist" are
// returned.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
