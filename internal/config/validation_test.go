package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func errorsOf(results []ValidationResult) []ValidationResult {
	var errs []ValidationResult
	for _, r := range results {
		if r.Level == LevelError {
			errs = append(errs, r)
		}
	}
	return errs
}

func validConfig(t *testing.T) Config {
	t.Helper()
	cfg := Default()
	cfg.ProjectsDir = t.TempDir()
	return cfg
}

func TestValidateDefaultsClean(t *testing.T) {
	results := validConfig(t).Validate()
	if len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
}

func TestValidateTimeouts(t *testing.T) {
	cfg := validConfig(t)
	cfg.ProbeTimeout = 0
	cfg.CacheTTL = -time.Second

	errs := errorsOf(cfg.Validate())
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if !HasErrors(errs) {
		t.Fatal("HasErrors = false")
	}
}

func TestValidateVersionTimeoutWarning(t *testing.T) {
	cfg := validConfig(t)
	cfg.VersionTimeout = 20 * time.Second

	results := cfg.Validate()
	if len(results) != 1 || results[0].Level != LevelWarning {
		t.Fatalf("expected one warning, got %v", results)
	}
}

func TestValidateProjectsDir(t *testing.T) {
	cfg := validConfig(t)
	cfg.ProjectsDir = filepath.Join(t.TempDir(), "later")
	results := cfg.Validate()
	if len(results) != 1 || results[0].Level != LevelWarning {
		t.Fatalf("missing dir: expected a warning, got %v", results)
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.ProjectsDir = file
	if errs := errorsOf(cfg.Validate()); len(errs) != 1 {
		t.Fatalf("file as projects_dir: expected 1 error, got %v", errs)
	}
}

func TestValidateLocations(t *testing.T) {
	cfg := validConfig(t)
	cfg.Locations.PyenvRoot = t.TempDir()
	cfg.Locations.NvmDir = filepath.Join(t.TempDir(), "nope")

	results := cfg.Validate()
	if len(results) != 1 || !strings.Contains(results[0].Message, "locations.nvm_dir") {
		t.Fatalf("expected nvm_dir warning, got %v", results)
	}
}

func TestValidateCommonVersions(t *testing.T) {
	cfg := validConfig(t)
	cfg.CommonVersions = map[string][]string{
		"ruby":   {"3.3"},
		"python": {"3.12", "three"},
		"js":     {"lts"},
		"php":    {},
	}

	results := cfg.Validate()
	errs := errorsOf(results)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	if len(results)-len(errs) != 1 {
		t.Fatalf("expected 1 warning for the empty php list, got %v", results)
	}
}

func TestValidateCursorRulesDir(t *testing.T) {
	cfg := validConfig(t)
	cfg.CursorRulesDir = t.TempDir()
	if results := cfg.Validate(); len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}

	cfg.CursorRulesDir = filepath.Join(t.TempDir(), "missing")
	results := cfg.Validate()
	if len(results) != 1 || results[0].Level != LevelWarning || !strings.Contains(results[0].Message, "cursor_rules_dir") {
		t.Fatalf("expected one cursor_rules_dir warning, got %v", results)
	}
}
