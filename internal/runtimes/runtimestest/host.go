// Package runtimestest provides an in-memory runtimes.Host for tests.
package runtimestest

import (
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Host is a fake filesystem: registered paths exist, everything else does not.
type Host struct {
	mu          sync.Mutex
	executables map[string]bool
	files       map[string]bool
	dirs        map[string]bool
	path        map[string]string
}

// NewHost returns an empty fake host.
func NewHost() *Host {
	return &Host{
		executables: map[string]bool{},
		files:       map[string]bool{},
		dirs:        map[string]bool{},
		path:        map[string]string{},
	}
}

// AddExecutable registers an executable file at path.
func (h *Host) AddExecutable(paths ...string) *Host {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range paths {
		p = filepath.Clean(p)
		h.executables[p] = true
		h.files[p] = true
	}
	return h
}

// AddFile registers a regular, non-executable file.
func (h *Host) AddFile(paths ...string) *Host {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range paths {
		h.files[filepath.Clean(p)] = true
	}
	return h
}

// AddDir registers an empty directory.
func (h *Host) AddDir(paths ...string) *Host {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range paths {
		h.dirs[filepath.Clean(p)] = true
	}
	return h
}

// OnPath makes name resolvable through LookPath and marks path executable.
func (h *Host) OnPath(name, path string) *Host {
	h.AddExecutable(path)
	h.mu.Lock()
	h.path[name] = filepath.Clean(path)
	h.mu.Unlock()
	return h
}

func (h *Host) LookPath(name string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p, ok := h.path[name]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func (h *Host) IsExecutable(path string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.executables[filepath.Clean(path)]
}

func (h *Host) FileExists(path string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.files[filepath.Clean(path)]
}

// SubDirs derives directory names from every registered path below dir.
func (h *Host) SubDirs(dir string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	prefix := filepath.Clean(dir) + string(filepath.Separator)
	seen := map[string]bool{}
	collect := func(p string, isDir bool) {
		rest, ok := strings.CutPrefix(p, prefix)
		if !ok || rest == "" {
			return
		}
		name, _, nested := strings.Cut(rest, string(filepath.Separator))
		if nested || isDir {
			seen[name] = true
		}
	}
	for p := range h.files {
		collect(p, false)
	}
	for p := range h.dirs {
		collect(p, true)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
