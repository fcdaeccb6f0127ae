package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pcreator/internal/runtimes"
	"pcreator/internal/task"
	"pcreator/internal/tui"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <language> <version>",
		Short: "Install a runtime version with pyenv, Homebrew or nvm",
		Args:  cobra.ExactArgs(2),
		RunE:  runInstall,
	}
}

func runInstall(cmd *cobra.Command, args []string) error {
	lang, version, err := parseTarget(args)
	if err != nil {
		return err
	}
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), env.cfg.InstallTimeout)
	defer cancel()

	title := fmt.Sprintf("Installing %s %s", lang.DisplayName(), version)
	t := env.installer.Install(ctx, lang, version)
	err = runTask(cmd, env, title, t, cancel)
	if err == nil {
		env.catalog.Invalidate()
	}

	if outputJSON {
		payload := struct {
			Language string `json:"language"`
			Version  string `json:"version"`
			OK       bool   `json:"ok"`
			Error    string `json:"error,omitempty"`
		}{Language: lang.String(), Version: version, OK: err == nil}
		if err != nil {
			payload.Error = err.Error()
		}
		if werr := writeJSON(cmd.OutOrStdout(), payload); werr != nil {
			return werr
		}
	}
	return err
}

// runTask renders t in the current output mode and returns its terminal
// error. In JSON mode the streamed lines go to the run log only.
func runTask(cmd *cobra.Command, env *environment, title string, t *task.Task, cancel context.CancelFunc) error {
	switch outputMode(cmd) {
	case tui.ModeTUI:
		return tui.RunTask(cmd.OutOrStdout(), title, t, cancel)
	case tui.ModeJSON:
		entry := env.log.WithField("task", t.Name)
		return t.Wait(func(line string) { entry.Info(line) })
	default:
		return tui.PlainTask(cmd.OutOrStdout(), title, t)
	}
}

// installHint is appended to "not found" errors for runtimes that could be
// installed with the install command.
func installHint(lang runtimes.Language, version string) string {
	return fmt.Sprintf("install it with: pcreator install %s %s", lang, version)
}
