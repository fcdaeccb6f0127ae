// Package project writes starter source trees for a chosen language and wires
// the project's environment with a resolved interpreter.
package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"

	"pcreator/internal/paths"
	"pcreator/internal/proc"
	"pcreator/internal/runtimes"
	"pcreator/internal/task"
)

var (
	// ErrTargetNotEmpty is returned when the project directory already has
	// content and Force is not set.
	ErrTargetNotEmpty = errors.New("target directory is not empty")
	// ErrInterpreterRequired is returned when a Python project needs a venv
	// but no interpreter path was given.
	ErrInterpreterRequired = errors.New("python interpreter path required")
	// ErrCursorRulesPythonOnly is returned when rules are requested for a
	// JavaScript or PHP project.
	ErrCursorRulesPythonOnly = errors.New("cursor rules are only copied into Python projects")
)

// EnvironmentError reports a failed virtual environment creation. Output holds
// the interpreter's combined stdout and stderr.
type EnvironmentError struct {
	Interpreter string
	Target      string
	Output      string
	Err         error
}

func (e *EnvironmentError) Error() string {
	msg := fmt.Sprintf("create virtual environment in %s with %s: %v", e.Target, e.Interpreter, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

// Structure lists the directories and files a project will contain, relative
// to its root.
type Structure struct {
	Dirs  []string `json:"dirs"`
	Files []string `json:"files"`
}

// Options describes one project to create.
type Options struct {
	Name      string
	ParentDir string
	Language  runtimes.Language
	// Version is the selected runtime version; it pins the manifest's
	// minimum version.
	Version string
	// Interpreter is the resolved Python executable used for the venv.
	Interpreter string
	NoEnv       bool
	Force       bool
	// CursorRules is a directory copied to .cursor/rules. Python only.
	CursorRules string
}

// Materializer creates project trees on disk.
type Materializer struct {
	runner proc.Runner
	log    *logrus.Logger
}

// NewMaterializer returns a materializer that runs external tools via runner.
func NewMaterializer(runner proc.Runner, log *logrus.Logger) *Materializer {
	if runner == nil {
		runner = proc.CmdRunner{}
	}
	if log == nil {
		log = logrus.New()
	}
	return &Materializer{runner: runner, log: log}
}

type file struct {
	path    string
	content func(name, version string) ([]byte, error)
}

type layout struct {
	dirs  []string
	files []file
}

func static(text string) func(string, string) ([]byte, error) {
	return func(string, string) ([]byte, error) { return []byte(text), nil }
}

func readme(kind string) func(string, string) ([]byte, error) {
	return func(name, version string) ([]byte, error) {
		line := kind + " project"
		if v := strings.TrimSpace(version); v != "" {
			line = fmt.Sprintf("%s %s project", kind, v)
		}
		return []byte(fmt.Sprintf("# %s\n\n%s.\n", name, line)), nil
	}
}

func layoutFor(lang runtimes.Language, pp paths.ProjectPaths) (layout, error) {
	switch lang {
	case runtimes.Python:
		return layout{
			dirs: []string{pp.SrcDir, pp.TestsDir},
			files: []file{
				{pp.ReadmeFile, readme("Python")},
				{pp.GitignoreFile, static(".venv/\n__pycache__/\n*.pyc\n")},
				{pp.RequirementsFile, static("")},
				{pp.PyprojectFile, pyprojectTOML},
				{pp.MainPyFile, static("def main():\n    print(\"Hello from Python\")\n\n\nif __name__ == \"__main__\":\n    main()\n")},
				{pp.TestsInitFile, static("")},
			},
		}, nil
	case runtimes.JavaScript:
		return layout{
			dirs: []string{pp.SrcDir},
			files: []file{
				{pp.ReadmeFile, readme("JavaScript")},
				{pp.GitignoreFile, static("node_modules/\ndist/\n.env\n")},
				{pp.PackageJSONFile, packageJSON},
				{pp.IndexJSFile, static("console.log(\"Hello from JavaScript\");\n")},
			},
		}, nil
	case runtimes.PHP:
		return layout{
			dirs: []string{pp.PublicDir, pp.SrcDir},
			files: []file{
				{pp.ReadmeFile, readme("PHP")},
				{pp.GitignoreFile, static("vendor/\nnode_modules/\n.env\n")},
				{pp.ComposerJSONFile, composerJSON},
				{pp.IndexPHPFile, static("<?php\n\necho \"Hello from PHP\\n\";\n")},
			},
		}, nil
	default:
		return layout{}, fmt.Errorf("%w: %s", runtimes.ErrUnknownLanguage, lang)
	}
}

// Preview returns the tree Create would produce for lang, without touching
// the filesystem.
func (m *Materializer) Preview(lang runtimes.Language, withEnv bool) (Structure, error) {
	pp := paths.New(".")
	l, err := layoutFor(lang, pp)
	if err != nil {
		return Structure{}, err
	}
	var s Structure
	for _, dir := range l.dirs {
		s.Dirs = append(s.Dirs, pp.Rel(dir))
	}
	if lang == runtimes.Python && withEnv {
		s.Dirs = append(s.Dirs, pp.Rel(pp.VenvDir))
	}
	for _, f := range l.files {
		s.Files = append(s.Files, pp.Rel(f.path))
	}
	return s, nil
}

// Create writes the project tree and, for Python, creates the virtual
// environment with the given interpreter. It returns the project root.
func (m *Materializer) Create(ctx context.Context, opts Options) (string, error) {
	pp, err := paths.ForProject(opts.ParentDir, opts.Name)
	if err != nil {
		return "", err
	}
	l, err := layoutFor(opts.Language, pp)
	if err != nil {
		return "", err
	}
	wantEnv := opts.Language == runtimes.Python && !opts.NoEnv
	if wantEnv && strings.TrimSpace(opts.Interpreter) == "" {
		return "", ErrInterpreterRequired
	}
	rules := strings.TrimSpace(opts.CursorRules)
	if rules != "" {
		if opts.Language != runtimes.Python {
			return "", ErrCursorRulesPythonOnly
		}
		if ok, _ := paths.DirExists(rules); !ok {
			return "", fmt.Errorf("cursor rules %s: not a directory", rules)
		}
	}

	empty, err := paths.IsEmptyDir(pp.Root)
	if err != nil {
		return "", fmt.Errorf("inspect %s: %w", pp.Root, err)
	}
	if !empty && !opts.Force {
		return "", fmt.Errorf("%s: %w (use --force to write into it)", pp.Root, ErrTargetNotEmpty)
	}

	entry := m.log.WithFields(logrus.Fields{
		"language": opts.Language.String(),
		"version":  opts.Version,
		"root":     pp.Root,
	})
	entry.Info("creating project")

	if err := pp.EnsureRoot(); err != nil {
		return "", err
	}
	for _, dir := range l.dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", pp.Rel(dir), err)
		}
	}
	for _, f := range l.files {
		data, err := f.content(opts.Name, opts.Version)
		if err != nil {
			return "", err
		}
		if err := writeFile(f.path, data); err != nil {
			return "", err
		}
	}

	if rules != "" {
		if err := os.CopyFS(pp.CursorRulesDir, os.DirFS(rules)); err != nil {
			return "", fmt.Errorf("copy cursor rules: %w", err)
		}
		entry.WithField("from", rules).Info("cursor rules copied")
	}

	if wantEnv {
		if err := m.createVenv(ctx, opts.Interpreter, pp); err != nil {
			entry.WithError(err).Error("virtual environment creation failed")
			return pp.Root, err
		}
	}

	entry.Info("project created")
	return pp.Root, nil
}

func (m *Materializer) createVenv(ctx context.Context, interpreter string, pp paths.ProjectPaths) error {
	res, err := m.runner.Run(ctx, interpreter, []string{"-m", "venv", pp.VenvDir}, proc.RunOptions{Dir: pp.Root})
	if err != nil {
		return &EnvironmentError{
			Interpreter: interpreter,
			Target:      pp.VenvDir,
			Output:      res.Combined(),
			Err:         err,
		}
	}
	m.log.WithField("venv", pp.VenvDir).Info("virtual environment created")
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// DependencySteps returns the commands that install a project's
// dependencies: pip inside the venv, npm or composer.
func DependencySteps(lang runtimes.Language, root string) ([]task.Step, error) {
	pp := paths.New(root)
	switch lang {
	case runtimes.Python:
		pip := filepath.Join(pp.VenvDir, "bin", "pip")
		if runtime.GOOS == "windows" {
			pip = filepath.Join(pp.VenvDir, "Scripts", "pip.exe")
		}
		return []task.Step{
			{Description: "Upgrade pip", Command: pip, Args: []string{"install", "--upgrade", "pip", "setuptools", "wheel"}, Dir: root},
			{Description: "Install requirements", Command: pip, Args: []string{"install", "-r", pp.Rel(pp.RequirementsFile)}, Dir: root},
		}, nil
	case runtimes.JavaScript:
		return []task.Step{{Description: "Install npm dependencies", Command: "npm", Args: []string{"install"}, Dir: root}}, nil
	case runtimes.PHP:
		return []task.Step{{Description: "Install composer dependencies", Command: "composer", Args: []string{"install"}, Dir: root}}, nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimes.ErrUnknownLanguage, lang)
	}
}

// InstallDependencies runs DependencySteps as a task.
func (m *Materializer) InstallDependencies(ctx context.Context, lang runtimes.Language, root string) *task.Task {
	name := fmt.Sprintf("install %s dependencies", lang)
	steps, err := DependencySteps(lang, root)
	if err != nil {
		return task.Failed(name, err)
	}
	return task.Start(ctx, name, func(ctx context.Context, logf task.Logf) error {
		if err := task.RunSteps(ctx, m.runner, steps, logf); err != nil {
			m.log.WithError(err).WithField("root", root).Warn("dependency install failed")
			return err
		}
		return nil
	})
}
