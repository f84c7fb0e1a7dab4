package toolexec

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/execabs"
)

// MissingError lists required executables that were not found on PATH.
type MissingError struct {
	Tools []string
}

func (e *MissingError) Error() string {
	return "required executables not found: " + strings.Join(e.Tools, ", ")
}

// Check verifies that every named executable resolves on PATH. Names that
// contain a path separator are checked as given.
func Check(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, err := execabs.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingError{Tools: missing}
	}
	return nil
}

// PrependPath puts dir at the front of the process PATH so that later
// lookups and child processes see the tools it contains.
func PrependPath(dir string) error {
	cur := os.Getenv("PATH")
	if cur == "" {
		return os.Setenv("PATH", dir)
	}
	for _, p := range strings.Split(cur, string(os.PathListSeparator)) {
		if p == dir {
			return nil
		}
	}
	if err := os.Setenv("PATH", dir+string(os.PathListSeparator)+cur); err != nil {
		return fmt.Errorf("set PATH: %w", err)
	}
	return nil
}
