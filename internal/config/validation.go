package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"pcreator/internal/paths"
	"pcreator/internal/runtimes"
)

// Validation levels.
const (
	LevelError   = "error"
	LevelWarning = "warning"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate runs every check against the config and returns structured results.
func (c Config) Validate() []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateVersion()...)
	results = append(results, c.validateTimeouts()...)
	results = append(results, c.validateProjectsDir()...)
	results = append(results, c.validateLocations()...)
	results = append(results, c.validateCommonVersions()...)
	results = append(results, c.validateCursorRulesDir()...)
	return results
}

// HasErrors reports whether any result is at error level.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == LevelError {
			return true
		}
	}
	return false
}

func (c Config) validateVersion() []ValidationResult {
	if c.Version == 1 {
		return nil
	}
	return []ValidationResult{{
		Level:   LevelError,
		Message: fmt.Sprintf("unsupported config version %d (expected 1)", c.Version),
	}}
}

func (c Config) validateTimeouts() []ValidationResult {
	var results []ValidationResult
	check := func(name string, d time.Duration) {
		if d <= 0 {
			results = append(results, ValidationResult{
				Level:   LevelError,
				Message: fmt.Sprintf("%s must be > 0 (got %s)", name, d),
			})
		}
	}
	check("probe_timeout", c.ProbeTimeout)
	check("version_timeout", c.VersionTimeout)
	check("install_timeout", c.InstallTimeout)

	if c.CacheTTL < 0 {
		results = append(results, ValidationResult{
			Level:   LevelError,
			Message: fmt.Sprintf("cache_ttl must be >= 0 (got %s)", c.CacheTTL),
		})
	}
	if c.VersionTimeout > c.ProbeTimeout && c.ProbeTimeout > 0 {
		results = append(results, ValidationResult{
			Level:   LevelWarning,
			Message: fmt.Sprintf("version_timeout %s exceeds probe_timeout %s", c.VersionTimeout, c.ProbeTimeout),
		})
	}
	return results
}

func (c Config) validateProjectsDir() []ValidationResult {
	dir, err := c.ResolvedProjectsDir()
	if err != nil {
		return []ValidationResult{{Level: LevelError, Message: fmt.Sprintf("projects_dir: %v", err)}}
	}
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return []ValidationResult{{
			Level:   LevelWarning,
			Message: fmt.Sprintf("projects_dir %q does not exist yet; it will be created on first use", c.ProjectsDir),
		}}
	case err != nil:
		return []ValidationResult{{Level: LevelError, Message: fmt.Sprintf("projects_dir %q: %v", c.ProjectsDir, err)}}
	case !info.IsDir():
		return []ValidationResult{{Level: LevelError, Message: fmt.Sprintf("projects_dir %q is not a directory", c.ProjectsDir)}}
	}
	return nil
}

func (c Config) validateLocations() []ValidationResult {
	entries := []struct {
		key   string
		value string
	}{
		{"locations.brew_prefix", c.Locations.BrewPrefix},
		{"locations.secondary_prefix", c.Locations.SecondaryPrefix},
		{"locations.pyenv_root", c.Locations.PyenvRoot},
		{"locations.nvm_dir", c.Locations.NvmDir},
	}

	var results []ValidationResult
	for _, e := range entries {
		if strings.TrimSpace(e.value) == "" {
			continue
		}
		dir, err := paths.ExpandHome(e.value)
		if err != nil {
			results = append(results, ValidationResult{Level: LevelError, Message: fmt.Sprintf("%s: %v", e.key, err)})
			continue
		}
		if ok, _ := paths.DirExists(dir); !ok {
			results = append(results, ValidationResult{
				Level:   LevelWarning,
				Message: fmt.Sprintf("%s %q is not a directory; lookups there will find nothing", e.key, e.value),
			})
		}
	}
	return results
}

func (c Config) validateCommonVersions() []ValidationResult {
	names := make([]string, 0, len(c.CommonVersions))
	for name := range c.CommonVersions {
		names = append(names, name)
	}
	sort.Strings(names)

	var results []ValidationResult
	for _, name := range names {
		lang, err := runtimes.ParseLanguage(name)
		if err != nil {
			results = append(results, ValidationResult{
				Level:   LevelError,
				Message: fmt.Sprintf("common_versions: %v", err),
			})
			continue
		}
		versions := c.CommonVersions[name]
		if len(versions) == 0 {
			results = append(results, ValidationResult{
				Level:   LevelWarning,
				Message: fmt.Sprintf("common_versions.%s is empty; built-in defaults are used", lang),
			})
			continue
		}
		for _, v := range versions {
			if !wellFormed(lang, v) {
				results = append(results, ValidationResult{
					Level:   LevelError,
					Message: fmt.Sprintf("common_versions.%s: %q is not a %s version", lang, v, lang.DisplayName()),
				})
			}
		}
	}
	return results
}

func wellFormed(lang runtimes.Language, version string) bool {
	if lang == runtimes.JavaScript {
		_, ok := runtimes.CanonicalMajor(version)
		return ok
	}
	_, ok := runtimes.CanonicalMinor(version)
	return ok
}

func (c Config) validateCursorRulesDir() []ValidationResult {
	if strings.TrimSpace(c.CursorRulesDir) == "" {
		return nil
	}
	dir, err := paths.ExpandHome(c.CursorRulesDir)
	if err != nil {
		return []ValidationResult{{Level: LevelError, Message: fmt.Sprintf("cursor_rules_dir: %v", err)}}
	}
	if ok, _ := paths.DirExists(dir); !ok {
		return []ValidationResult{{
			Level:   LevelWarning,
			Message: fmt.Sprintf("cursor_rules_dir %q is not a directory; new Python projects will fail to copy rules", c.CursorRulesDir),
		}}
	}
	return nil
}
