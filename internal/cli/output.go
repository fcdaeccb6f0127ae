package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pcreator/internal/tui"
)

func outputMode(cmd *cobra.Command) tui.OutputMode {
	return tui.DetectMode(cmd.OutOrStdout(), noProgress, outputJSON)
}

// statusEnabled reports whether blocking calls draw a spinner on stderr.
var statusEnabled = func(cmd *cobra.Command) bool {
	return outputMode(cmd) == tui.ModeTUI
}

func withStatus(cmd *cobra.Command, label string, fn func()) {
	tui.WithStatus(cmd.ErrOrStderr(), statusEnabled(cmd), label, fn)
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
