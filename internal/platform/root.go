package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigFile is the name of the configuration file marking a notes root.
const ConfigFile = "framenotes.yaml"

// ErrRootNotFound is returned by FindRoot when no configuration file exists
// in the start directory or any of its parents.
var ErrRootNotFound = errors.New("root not found")

// FindRoot looks upwards from startDir for a directory holding ConfigFile
// and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, ConfigFile)); err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}
