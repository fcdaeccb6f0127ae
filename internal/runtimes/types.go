package runtimes

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

var (
	// ErrVersionNotFound means every candidate location was checked without a hit.
	ErrVersionNotFound = errors.New("version not found")
	// ErrEmptyVersion is returned when a blank version is asked for.
	ErrEmptyVersion = errors.New("version must not be empty")
	// ErrPrerequisiteMissing means an install needs a tool that is not present.
	ErrPrerequisiteMissing = errors.New("prerequisite missing")
)

// VersionCandidate is one selectable runtime version.
type VersionCandidate struct {
	Version   string `json:"version"`
	Installed bool   `json:"installed"`
}

// Catalog maps each language to its ordered candidates. It is a snapshot.
type Catalog map[Language][]VersionCandidate

// Locations are the well-known directories probed during resolution.
type Locations struct {
	BrewPrefix      string
	SecondaryPrefix string
	PyenvRoot       string
	NvmDir          string
}

// DefaultLocations derives locations from the environment, falling back to
// the conventional install prefixes for the current platform.
func DefaultLocations() Locations {
	home, _ := os.UserHomeDir()

	loc := Locations{
		BrewPrefix:      os.Getenv("HOMEBREW_PREFIX"),
		SecondaryPrefix: "/usr/local",
		PyenvRoot:       os.Getenv("PYENV_ROOT"),
		NvmDir:          os.Getenv("NVM_DIR"),
	}
	if loc.BrewPrefix == "" {
		loc.BrewPrefix = defaultBrewPrefix()
	}
	if loc.PyenvRoot == "" && home != "" {
		loc.PyenvRoot = filepath.Join(home, ".pyenv")
	}
	if loc.NvmDir == "" && home != "" {
		loc.NvmDir = filepath.Join(home, ".nvm")
	}
	return loc
}

func defaultBrewPrefix() string {
	switch {
	case runtime.GOOS == "darwin" && runtime.GOARCH == "arm64":
		return "/opt/homebrew"
	case runtime.GOOS == "darwin":
		return "/usr/local"
	case runtime.GOOS == "linux":
		return "/home/linuxbrew/.linuxbrew"
	default:
		return "/opt/homebrew"
	}
}

// merge fills empty fields of l from defaults.
func (l Locations) merge(defaults Locations) Locations {
	if l.BrewPrefix == "" {
		l.BrewPrefix = defaults.BrewPrefix
	}
	if l.SecondaryPrefix == "" {
		l.SecondaryPrefix = defaults.SecondaryPrefix
	}
	if l.PyenvRoot == "" {
		l.PyenvRoot = defaults.PyenvRoot
	}
	if l.NvmDir == "" {
		l.NvmDir = defaults.NvmDir
	}
	return l
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}
