package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"pcreator/internal/paths"
	"pcreator/internal/project"
	"pcreator/internal/runtimes"
	"pcreator/internal/tui"
)

var (
	newLanguage    string
	newVersion     string
	newPath        string
	newNoEnv       bool
	newInstallDeps bool
	newForce       bool
	newCursorRules string
)

// stdinInteractive is swapped out by tests.
var stdinInteractive = func(cmd *cobra.Command) bool {
	return tui.IsTerminal(cmd.InOrStdin())
}

func newNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a project for a language and runtime version",
		Long: `Create a starter project under the configured projects directory.

Missing name, language or version are prompted for when stdin is a terminal.
Otherwise the language is required and the newest installed version is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runNew,
	}

	fs := cmd.Flags()
	addLanguageFlag(fs, &newLanguage)
	addVersionFlag(fs, &newVersion)
	fs.StringVar(&newPath, "path", "", "Parent directory (default: projects_dir from config)")
	fs.BoolVar(&newNoEnv, "no-env", false, "Skip creating the Python virtual environment")
	fs.BoolVar(&newInstallDeps, "install-deps", false, "Run pip, npm or composer install after creating the project")
	fs.BoolVar(&newForce, "force", false, "Write into a non-empty directory")
	fs.StringVar(&newCursorRules, "cursor-rules", "", "Copy this directory to .cursor/rules (Python only; default: cursor_rules_dir from config)")
	return cmd
}

type newResult struct {
	Root        string            `json:"root"`
	Language    runtimes.Language `json:"language"`
	Version     string            `json:"version"`
	Interpreter string            `json:"interpreter,omitempty"`
	Structure   project.Structure `json:"structure"`
}

func runNew(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	interactive := !outputJSON && stdinInteractive(cmd)

	parent := newPath
	if parent == "" {
		parent, err = env.cfg.ResolvedProjectsDir()
		if err != nil {
			return err
		}
	}

	var name string
	if len(args) == 1 {
		name = args[0]
	}
	if name == "" {
		if !interactive {
			return errors.New("project name is required")
		}
		name, err = env.prompter.Input("Project name", "Created under "+parent, validateProjectName)
		if err != nil {
			return err
		}
	}
	if err := validateProjectName(name); err != nil {
		return err
	}

	lang, err := chooseLanguage(env, interactive)
	if err != nil {
		return err
	}
	version, err := chooseVersion(cmd, env, lang, interactive)
	if err != nil {
		return err
	}

	opts := project.Options{
		Name:      name,
		ParentDir: parent,
		Language:  lang,
		Version:   version,
		NoEnv:     newNoEnv,
		Force:     newForce,
	}
	if opts.CursorRules, err = cursorRulesFor(env, lang); err != nil {
		return err
	}
	if lang == runtimes.Python && !newNoEnv {
		var interpreter string
		withStatus(cmd, fmt.Sprintf("Resolving %s %s", lang.DisplayName(), version), func() {
			interpreter, err = env.service.Resolve(ctx, lang, version)
		})
		if err != nil {
			return fmt.Errorf("%w; %s", err, installHint(lang, version))
		}
		opts.Interpreter = interpreter
	}

	root, err := env.materializer.Create(ctx, opts)
	if err != nil {
		return err
	}
	structure, err := env.materializer.Preview(lang, opts.Interpreter != "")
	if err != nil {
		return err
	}
	if opts.CursorRules != "" {
		pp := paths.New(".")
		structure.Dirs = append(structure.Dirs, pp.Rel(pp.CursorRulesDir))
	}

	if newInstallDeps {
		depCtx, cancel := context.WithTimeout(ctx, env.cfg.InstallTimeout)
		defer cancel()
		t := env.materializer.InstallDependencies(depCtx, lang, root)
		if err := runTask(cmd, env, "Installing dependencies", t, cancel); err != nil {
			return fmt.Errorf("project created at %s, but installing dependencies failed: %w", root, err)
		}
	}

	result := newResult{
		Root:        root,
		Language:    lang,
		Version:     version,
		Interpreter: opts.Interpreter,
		Structure:   structure,
	}
	if outputJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	printNewResult(cmd, result)
	return nil
}

func validateProjectName(name string) error {
	_, err := paths.ForProject(".", name)
	return err
}

// cursorRulesFor picks the rules directory: the flag, else the configured
// default for Python projects.
func cursorRulesFor(env *environment, lang runtimes.Language) (string, error) {
	dir := strings.TrimSpace(newCursorRules)
	if dir == "" && lang == runtimes.Python {
		dir = strings.TrimSpace(env.cfg.CursorRulesDir)
	}
	if dir == "" {
		return "", nil
	}
	return paths.ExpandHome(dir)
}

func chooseLanguage(env *environment, interactive bool) (runtimes.Language, error) {
	if newLanguage != "" {
		return runtimes.ParseLanguage(newLanguage)
	}
	if !interactive {
		return 0, errors.New("--language is required when stdin is not a terminal")
	}
	options := make([]huh.Option[string], 0, len(runtimes.Languages()))
	for _, lang := range runtimes.Languages() {
		options = append(options, huh.NewOption(lang.DisplayName(), lang.String()))
	}
	choice, err := env.prompter.Select("Language", "", options)
	if err != nil {
		return 0, err
	}
	return runtimes.ParseLanguage(choice)
}

func chooseVersion(cmd *cobra.Command, env *environment, lang runtimes.Language, interactive bool) (string, error) {
	if v := strings.TrimSpace(newVersion); v != "" {
		return v, nil
	}

	var candidates []runtimes.VersionCandidate
	withStatus(cmd, "Discovering "+lang.DisplayName()+" runtimes", func() {
		candidates = env.catalog.ListVersions(cmd.Context(), lang)
	})
	if !interactive {
		if v, ok := newestInstalled(candidates); ok {
			return v, nil
		}
		return "", fmt.Errorf("--version is required: no installed %s runtime found", lang.DisplayName())
	}

	options := make([]huh.Option[string], 0, len(candidates))
	for _, c := range candidates {
		label := c.Version
		if c.Installed {
			label += " (installed)"
		}
		options = append(options, huh.NewOption(label, c.Version))
	}
	return env.prompter.Select(lang.DisplayName()+" version", "Installed versions are listed first", options)
}

func printNewResult(cmd *cobra.Command, r newResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Created %s %s project at %s\n", tui.OKStyle.Render("✓"), r.Language.DisplayName(), r.Version, r.Root)
	if r.Interpreter != "" {
		fmt.Fprintf(out, "  interpreter: %s\n", r.Interpreter)
	}
	for _, dir := range r.Structure.Dirs {
		fmt.Fprintf(out, "  %s/\n", dir)
	}
	for _, file := range r.Structure.Files {
		fmt.Fprintf(out, "  %s\n", file)
	}
}
