//go:build windows

package xos

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// WriteFile writes data to the named file.
// On Windows, this uses a temp file + rename approach within the same directory.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	return WriteReader(filename, bytes.NewReader(data), perm)
}

// WriteReader writes data from a reader to a temp file next to filename and
// renames it into place.
func WriteReader(filename string, r io.Reader, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tempName)
		}
	}()

	if _, err := io.Copy(tempFile, r); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tempName, perm); err != nil {
		return err
	}

	// the target must be removed before rename on Windows
	if _, err := os.Stat(filename); err == nil {
		if err := os.Remove(filename); err != nil {
			return err
		}
	}
	if err := os.Rename(tempName, filename); err != nil {
		return err
	}
	success = true
	return nil
}
