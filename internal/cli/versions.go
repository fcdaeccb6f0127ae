package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pcreator/internal/runtimes"
	"pcreator/internal/tui"
)

var versionsRefresh bool

func newVersionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions [language|all]",
		Short: "List installed and common runtime versions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runVersions,
	}
	cmd.Flags().BoolVar(&versionsRefresh, "refresh", false, "Probe again even when a cached catalog is fresh")
	return cmd
}

func runVersions(cmd *cobra.Command, args []string) error {
	langs, err := parseLanguages(args)
	if err != nil {
		return err
	}
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	list := func(lang runtimes.Language) []runtimes.VersionCandidate {
		if versionsRefresh {
			return env.catalog.Refresh(ctx, lang)
		}
		return env.catalog.ListVersions(ctx, lang)
	}

	mode := outputMode(cmd)
	out := cmd.OutOrStdout()

	var catalog runtimes.Catalog
	if mode == tui.ModeTUI {
		catalog, err = discoverWithProgress(cmd, langs, list)
		if err != nil {
			return err
		}
	} else if versionsRefresh {
		catalog = make(runtimes.Catalog, len(langs))
		for _, lang := range langs {
			catalog[lang] = list(lang)
		}
	} else {
		catalog = env.catalog.Catalog(ctx, langs...)
	}

	if mode == tui.ModeJSON {
		return writeJSON(out, catalog)
	}
	fmt.Fprintln(out, tui.CatalogTable(catalog, mode == tui.ModeTUI))
	return nil
}

func discoverWithProgress(cmd *cobra.Command, langs []runtimes.Language, list func(runtimes.Language) []runtimes.VersionCandidate) (runtimes.Catalog, error) {
	model := tui.NewProgressModel("Discovering runtimes", []tui.Column{
		{Header: "LANGUAGE", Width: 10},
		{Header: "STATUS", Width: 8},
		{Header: "INSTALLED", Width: 30},
	})
	for _, lang := range langs {
		model.AddRow(lang.String(), []string{lang.DisplayName(), "pending", ""})
	}

	var mu sync.Mutex
	catalog := make(runtimes.Catalog, len(langs))
	store := func(lang runtimes.Language, candidates []runtimes.VersionCandidate) {
		mu.Lock()
		catalog[lang] = candidates
		mu.Unlock()
	}
	err := tui.RunWithWork(cmd.OutOrStdout(), model, discoveryWork(cmd.Context(), langs, list, store))
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	if len(catalog) < len(langs) {
		return nil, tui.ErrInterrupted
	}
	return catalog, nil
}

// discoveryWork probes each language in turn and reports rows as they finish.
// A cancelled context ends the program with an ErrorMsg.
func discoveryWork(
	ctx context.Context,
	langs []runtimes.Language,
	list func(runtimes.Language) []runtimes.VersionCandidate,
	store func(runtimes.Language, []runtimes.VersionCandidate),
) func(send func(tea.Msg)) {
	return func(send func(tea.Msg)) {
		for _, lang := range langs {
			if err := ctx.Err(); err != nil {
				send(tui.ErrorMsg{Err: fmt.Errorf("discovery stopped: %w", err)})
				return
			}
			send(tui.RowUpdateMsg{Key: lang.String(), Fields: map[string]string{"STATUS": "probing"}})
			candidates := list(lang)
			store(lang, candidates)
			send(tui.RowUpdateMsg{Key: lang.String(), Fields: map[string]string{
				"STATUS":    "done",
				"INSTALLED": tui.NonEmptyOrDash(installedSummary(candidates)),
			}})
		}
	}
}

func installedSummary(candidates []runtimes.VersionCandidate) string {
	var installed []string
	for _, c := range candidates {
		if c.Installed {
			installed = append(installed, c.Version)
		}
	}
	return strings.Join(installed, " ")
}

// newestInstalled returns the first installed candidate, which is the newest.
func newestInstalled(candidates []runtimes.VersionCandidate) (string, bool) {
	for _, c := range candidates {
		if c.Installed {
			return c.Version, true
		}
	}
	return "", false
}
