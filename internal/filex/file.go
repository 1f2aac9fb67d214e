package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// userHomeDir is a test seam.
var userHomeDir = os.UserHomeDir

// EnsureDir creates dir and its parents with owner-only permissions and
// returns the absolute path. A leading "~/" means the user's home directory;
// other relative paths resolve against the working directory.
func EnsureDir(dir string) (string, error) {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := userHomeDir()
		if err != nil {
			return "", fmt.Errorf("home dir: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}
