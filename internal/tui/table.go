package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"pcreator/internal/runtimes"
)

// CatalogTable renders the catalog as a bordered table, one row per
// candidate, languages in display order.
func CatalogTable(catalog runtimes.Catalog, styled bool) string {
	var rows [][]string
	for _, lang := range catalog.Languages() {
		for _, c := range catalog[lang] {
			status := "available"
			if c.Installed {
				status = "installed"
			}
			rows = append(rows, []string{lang.DisplayName(), c.Version, status})
		}
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("LANGUAGE", "VERSION", "STATUS").
		Rows(rows...)

	if styled {
		t.BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240")))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return cell.Bold(styled)
		}
		if styled && col == 2 && row >= 0 && row < len(rows) {
			return cell.Inherit(StatusStyle(rows[row][2]))
		}
		return cell
	})
	return t.Render()
}
