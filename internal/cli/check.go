package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <language> <version>",
		Short: "Report whether a runtime version is installed",
		Args:  cobra.ExactArgs(2),
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	lang, version, err := parseTarget(args)
	if err != nil {
		return err
	}
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	var installed bool
	var path string
	withStatus(cmd, fmt.Sprintf("Checking %s %s", lang.DisplayName(), version), func() {
		installed = env.service.IsInstalled(cmd.Context(), lang, version)
		if installed && outputJSON {
			path, _ = env.service.ResolveExecutable(cmd.Context(), lang, version)
		}
	})
	env.log.WithField("installed", installed).Infof("check %s %s", lang, version)

	if outputJSON {
		payload := struct {
			Language  string `json:"language"`
			Version   string `json:"version"`
			Installed bool   `json:"installed"`
			Path      string `json:"path,omitempty"`
		}{lang.String(), version, installed, path}
		return writeJSON(cmd.OutOrStdout(), payload)
	}

	if installed {
		fmt.Fprintln(cmd.OutOrStdout(), "yes")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "no")
	}
	return nil
}
