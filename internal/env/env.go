package env

import (
	"os"
	"path/filepath"
)

// DefaultBaseDir is used when neither a flag, the config file nor
// SKBUILD_BASE_DIR names a base directory.
const DefaultBaseDir = "build"

// BaseDirEnv overrides DefaultBaseDir.
const BaseDirEnv = "SKBUILD_BASE_DIR"

// BaseDir returns the absolute root under which sources, output trees and
// packaged artifacts live. An explicit dir wins over the environment.
func BaseDir(dir string) (string, error) {
	if dir == "" {
		dir = os.Getenv(BaseDirEnv)
	}
	if dir == "" {
		dir = DefaultBaseDir
	}
	return filepath.Abs(dir)
}
