package runtimes

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

// Host is the filesystem probe boundary: existence and executability checks
// against fixed candidate paths plus PATH lookup.
type Host interface {
	LookPath(name string) (string, error)
	IsExecutable(path string) bool
	FileExists(path string) bool
	SubDirs(dir string) []string
}

// OSHost probes the real filesystem.
type OSHost struct{}

func (OSHost) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", err
	}
	if abs, absErr := filepath.Abs(path); absErr == nil {
		path = abs
	}
	return path, nil
}

func (OSHost) IsExecutable(path string) bool {
	return isExecutable(path)
}

func (OSHost) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// SubDirs lists the directory names directly under dir, sorted by name.
// Unreadable or missing directories yield nil.
func (OSHost) SubDirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
			continue
		}
		// pyenv and nvm versions are sometimes symlinked directories.
		if entry.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(dir, entry.Name())); err == nil && info.IsDir() {
				names = append(names, entry.Name())
			}
		}
	}
	sort.Strings(names)
	return names
}

var _ Host = OSHost{}
