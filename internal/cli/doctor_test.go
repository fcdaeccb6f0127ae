package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcreator/internal/config"
	"pcreator/internal/proc/proctest"
	"pcreator/internal/runtimes"
)

func TestCheckTools(t *testing.T) {
	tests := []struct {
		name     string
		statuses []runtimes.ToolStatus
		status   string
		summary  string
	}{
		{
			name:     "nothing found",
			statuses: []runtimes.ToolStatus{{Tool: "pyenv"}, {Tool: "brew"}},
			status:   "error",
			summary:  "no version manager or runtime found",
		},
		{
			name:     "some missing",
			statuses: []runtimes.ToolStatus{{Tool: "pyenv", Found: true, Version: "2.4.1"}, {Tool: "brew"}},
			status:   "warning",
			summary:  "pyenv 2.4.1; missing brew",
		},
		{
			name:     "all present",
			statuses: []runtimes.ToolStatus{{Tool: "node", Found: true, Version: "20.1.0"}, {Tool: "php", Found: true}},
			status:   "ok",
			summary:  "node 20.1.0, php",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkTools(tt.statuses)
			assert.Equal(t, "Tools", got.Name)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.summary, got.Summary)
		})
	}
}

func TestCheckLanguage(t *testing.T) {
	got := checkLanguage(runtimes.Python, []runtimes.VersionCandidate{
		{Version: "3.11", Installed: true},
		{Version: "3.9", Installed: true},
		{Version: "3.12"},
	})
	assert.Equal(t, healthCheck{Name: "Python", Status: "ok", Summary: "2 installed (3.11, 3.9)"}, got)

	got = checkLanguage(runtimes.PHP, []runtimes.VersionCandidate{{Version: "8.3"}})
	assert.Equal(t, "warning", got.Status)
	assert.Contains(t, got.Summary, "pcreator install php 8.3")
}

func TestCheckConfigWithErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Version = 7
	cfg.ProjectsDir = t.TempDir()

	result := checkConfig(cfg)
	assert.Equal(t, "Config", result.Name)
	assert.Equal(t, "error", result.Status)
	assert.Contains(t, result.Summary, "unsupported config version 7")
}

func TestCheckConfigErrorsOutrankWarnings(t *testing.T) {
	cfg := config.Default()
	cfg.Version = 7
	cfg.ProjectsDir = t.TempDir()
	cfg.Locations.NvmDir = filepath.Join(t.TempDir(), "missing")

	result := checkConfig(cfg)
	assert.Equal(t, "error", result.Status)
	assert.True(t, strings.HasPrefix(result.Summary, "1 errors; unsupported config version 7"), result.Summary)

	cfg.Version = config.Default().Version
	result = checkConfig(cfg)
	assert.Equal(t, "warning", result.Status)
	assert.Contains(t, result.Summary, "1 warnings; locations.nvm_dir")
}

func TestCheckConfigValid(t *testing.T) {
	cfg := config.Default()
	cfg.ProjectsDir = t.TempDir()

	result := checkConfig(cfg)
	assert.Equal(t, "ok", result.Status)
}

func TestDoctorJSON(t *testing.T) {
	runner, host := pyenvHost()
	runner.On(fakePyenv+" --version", proctest.Response{Stdout: "pyenv 2.4.1\n"})
	useFakeEnvironment(t, runner, host)

	out, err := execute(t, "doctor", "--json")
	require.NoError(t, err)

	var report doctorReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Tools, 6)
	assert.Equal(t, runtimes.ToolStatus{Tool: "pyenv", Found: true, Path: fakePyenv, Version: "2.4.1"}, report.Tools[0])

	names := make([]string, 0, len(report.Checks))
	for _, c := range report.Checks {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Tools", "Python", "JavaScript", "PHP", "Config"}, names)
	assert.Equal(t, "warning", report.Checks[0].Status)
	assert.Equal(t, "2 installed (3.11, 3.9)", report.Checks[1].Summary)
	// The fake locations do not exist on disk.
	assert.Equal(t, "warning", report.Checks[4].Status)
	assert.Contains(t, report.Checks[4].Summary, "is not a directory")
}

func TestDoctorText(t *testing.T) {
	runner, host := pyenvHost()
	useFakeEnvironment(t, runner, host)

	out, err := execute(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "TOOLS:")
	assert.Contains(t, out, "HEALTH:")
	assert.Contains(t, out, "not found")
	assert.Contains(t, out, "Python:")
}
