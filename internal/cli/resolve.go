package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <language> <version>",
		Short: "Print the executable path for a runtime version",
		Args:  cobra.ExactArgs(2),
		RunE:  runResolve,
	}
}

func runResolve(cmd *cobra.Command, args []string) error {
	lang, version, err := parseTarget(args)
	if err != nil {
		return err
	}
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	var path string
	withStatus(cmd, fmt.Sprintf("Resolving %s %s", lang.DisplayName(), version), func() {
		path, err = env.service.Resolve(cmd.Context(), lang, version)
	})
	if err != nil {
		return err
	}

	if outputJSON {
		return writeJSON(cmd.OutOrStdout(), struct {
			Language string `json:"language"`
			Version  string `json:"version"`
			Path     string `json:"path"`
		}{lang.String(), version, path})
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
