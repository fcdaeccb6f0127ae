package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"pcreator/internal/config"
	"pcreator/internal/runtimes"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check version managers, runtimes and configuration",
		RunE:  runDoctor,
	}
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

type doctorReport struct {
	Tools  []runtimes.ToolStatus `json:"tools"`
	Checks []healthCheck         `json:"checks"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	report := doctorReport{Tools: env.service.DetectTools(ctx)}

	report.Checks = append(report.Checks, checkTools(report.Tools))
	for _, lang := range runtimes.Languages() {
		report.Checks = append(report.Checks, checkLanguage(lang, env.catalog.Refresh(ctx, lang)))
	}
	report.Checks = append(report.Checks, checkConfig(env.cfg))

	return writeDoctorResult(cmd, report)
}

func checkTools(statuses []runtimes.ToolStatus) healthCheck {
	var found, missing []string
	for _, st := range statuses {
		if !st.Found {
			missing = append(missing, st.Tool)
			continue
		}
		label := st.Tool
		if st.Version != "" {
			label += " " + st.Version
		}
		found = append(found, label)
	}

	switch {
	case len(found) == 0:
		return healthCheck{Name: "Tools", Status: "error", Summary: "no version manager or runtime found"}
	case len(missing) > 0:
		return healthCheck{Name: "Tools", Status: "warning", Summary: strings.Join(found, ", ") + "; missing " + strings.Join(missing, ", ")}
	default:
		return healthCheck{Name: "Tools", Status: "ok", Summary: strings.Join(found, ", ")}
	}
}

func checkLanguage(lang runtimes.Language, candidates []runtimes.VersionCandidate) healthCheck {
	var installed []string
	for _, c := range candidates {
		if c.Installed {
			installed = append(installed, c.Version)
		}
	}
	if len(installed) == 0 {
		return healthCheck{
			Name:    lang.DisplayName(),
			Status:  "warning",
			Summary: fmt.Sprintf("no installed versions; try: pcreator install %s %s", lang, firstVersion(candidates)),
		}
	}
	return healthCheck{
		Name:    lang.DisplayName(),
		Status:  "ok",
		Summary: fmt.Sprintf("%d installed (%s)", len(installed), strings.Join(installed, ", ")),
	}
}

func firstVersion(candidates []runtimes.VersionCandidate) string {
	if len(candidates) == 0 {
		return "<version>"
	}
	return candidates[0].Version
}

func checkConfig(cfg config.Config) healthCheck {
	validations := cfg.Validate()
	if config.HasErrors(validations) {
		errs := messagesAt(validations, config.LevelError)
		return healthCheck{Name: "Config", Status: "error", Summary: fmt.Sprintf("%d errors; %s", len(errs), errs[0])}
	}

	summary := fmt.Sprintf("projects in %s", cfg.ProjectsDir)
	if warnings := messagesAt(validations, config.LevelWarning); len(warnings) > 0 {
		return healthCheck{Name: "Config", Status: "warning", Summary: fmt.Sprintf("%s; %d warnings; %s", summary, len(warnings), warnings[0])}
	}
	return healthCheck{Name: "Config", Status: "ok", Summary: summary}
}

func messagesAt(results []config.ValidationResult, level string) []string {
	var out []string
	for _, r := range results {
		if r.Level == level {
			out = append(out, r.Message)
		}
	}
	return out
}

func writeDoctorResult(cmd *cobra.Command, report doctorReport) error {
	if outputJSON {
		return writeJSON(cmd.OutOrStdout(), report)
	}

	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)
	faint := lipgloss.NewStyle().Faint(true).Inline(true)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Render("TOOLS:"))
	for _, st := range report.Tools {
		mark := green.Render("✓")
		detail := st.Path
		if !st.Found {
			mark = red.Render("✗")
			detail = "not found"
		}
		version := st.Version
		if st.Error != "" {
			version = st.Error
		}
		fmt.Fprintf(out, "  %s %-8s %-10s %s\n", mark, st.Tool, version, faint.Render(detail))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, bold.Render("HEALTH:"))
	for _, c := range report.Checks {
		var statusStr string
		switch c.Status {
		case "ok":
			statusStr = green.Render("OK")
		case "warning":
			statusStr = yellow.Render("WARN")
		case "error":
			statusStr = red.Render("ERROR")
		}
		fmt.Fprintf(out, "  %-12s %s    %s\n", c.Name+":", statusStr, c.Summary)
	}
	return nil
}
