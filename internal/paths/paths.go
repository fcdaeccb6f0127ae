package paths

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// AppName namespaces every per-user directory.
const AppName = "pcreator"

// ErrInvalidProjectName is returned for names that are empty or contain a
// path separator.
var ErrInvalidProjectName = errors.New("invalid project name")

// ProjectPaths captures canonical locations inside a generated project.
type ProjectPaths struct {
	Root             string
	SrcDir           string
	TestsDir         string
	PublicDir        string
	VenvDir          string
	CursorRulesDir   string
	ReadmeFile       string
	GitignoreFile    string
	RequirementsFile string
	PyprojectFile    string
	PackageJSONFile  string
	ComposerJSONFile string
	MainPyFile       string
	TestsInitFile    string
	IndexJSFile      string
	IndexPHPFile     string
}

// ForProject joins parent and name into an absolute project root.
func ForProject(parent, name string) (ProjectPaths, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ProjectPaths{}, fmt.Errorf("%w: %q", ErrInvalidProjectName, name)
	}
	parent, err := ExpandHome(parent)
	if err != nil {
		return ProjectPaths{}, err
	}
	root, err := filepath.Abs(filepath.Join(parent, name))
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}
	return New(root), nil
}

// New lays out the standard locations under root.
func New(root string) ProjectPaths {
	src := filepath.Join(root, "src")
	tests := filepath.Join(root, "tests")
	public := filepath.Join(root, "public")
	return ProjectPaths{
		Root:             root,
		SrcDir:           src,
		TestsDir:         tests,
		PublicDir:        public,
		VenvDir:          filepath.Join(root, ".venv"),
		CursorRulesDir:   filepath.Join(root, ".cursor", "rules"),
		ReadmeFile:       filepath.Join(root, "README.md"),
		GitignoreFile:    filepath.Join(root, ".gitignore"),
		RequirementsFile: filepath.Join(root, "requirements.txt"),
		PyprojectFile:    filepath.Join(root, "pyproject.toml"),
		PackageJSONFile:  filepath.Join(root, "package.json"),
		ComposerJSONFile: filepath.Join(root, "composer.json"),
		MainPyFile:       filepath.Join(src, "main.py"),
		TestsInitFile:    filepath.Join(tests, "__init__.py"),
		IndexJSFile:      filepath.Join(src, "index.js"),
		IndexPHPFile:     filepath.Join(public, "index.php"),
	}
}

// Rel returns path relative to the project root, for display.
func (p ProjectPaths) Rel(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// EnsureRoot makes sure the project root exists on disk.
func (p ProjectPaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create project root: %w", err)
	}
	return nil
}

// LogsDir returns the per-user log directory, creating it when missing.
func LogsDir() (string, error) {
	return ensure(filepath.Join(xdg.StateHome, AppName, "logs"), "logs")
}

// LocksDir returns the directory holding install lock files.
func LocksDir() (string, error) {
	return ensure(filepath.Join(xdg.CacheHome, AppName, "locks"), "locks")
}

func ensure(dir, what string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s dir: %w", what, err)
	}
	return dir, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// IsEmptyDir reports whether dir is missing or has no entries.
func IsEmptyDir(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}
