package runtimes

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"pcreator/internal/task"
)

var (
	phpCommonVersions = []string{"8.3", "8.2", "8.1", "8.0"}

	brewPHPFormula = regexp.MustCompile(`^php@(\d+\.\d+)$`)
	phpBanner      = regexp.MustCompile(`PHP (\d+)\.(\d+)`)
)

type php struct {
	*env
	common []string
}

func newPHP(e *env, common []string) *php {
	if len(common) == 0 {
		common = phpCommonVersions
	}
	return &php{env: e, common: common}
}

func (p *php) Language() Language { return PHP }

func (p *php) CommonVersions() []string { return append([]string(nil), p.common...) }

func (p *php) Canonical(version string) string {
	raw := strings.TrimSpace(version)
	canonical, ok := CanonicalMinor(raw)
	return canonicalOr(raw, canonical, ok)
}

func (p *php) Detect(ctx context.Context) []string {
	var found []string
	found = append(found, p.fromBrew(ctx)...)
	found = append(found, p.fromSystem(ctx)...)
	return dedupe(found)
}

// fromBrew reads versioned php@X.Y formulae. The unversioned "php" formula
// tracks the latest release, so its binary is asked for its version.
func (p *php) fromBrew(ctx context.Context) []string {
	var versions []string
	for _, formula := range p.brewFormulae(ctx) {
		if m := brewPHPFormula.FindStringSubmatch(formula); m != nil {
			versions = append(versions, m[1])
			continue
		}
		if formula == "php" && p.loc.BrewPrefix != "" {
			bin := filepath.Join(p.loc.BrewPrefix, "opt", "php", "bin", executableName("php"))
			res := p.version(ctx, "brew", bin)
			if v, ok := phpVersion(res.Output()); res.OK() && ok {
				versions = append(versions, v)
			}
		}
	}
	return versions
}

func (p *php) fromSystem(ctx context.Context) []string {
	res := p.version(ctx, "system", executableName("php"))
	if !res.OK() {
		return nil
	}
	if v, ok := phpVersion(res.Output()); ok {
		return []string{v}
	}
	return nil
}

// phpVersion parses "PHP 8.3.0 (cli) ..." from the first non-empty line.
func phpVersion(output string) (string, bool) {
	m := phpBanner.FindStringSubmatch(firstLine(strings.TrimSpace(output)))
	if m == nil {
		return "", false
	}
	return trimZeros(m[1]) + "." + trimZeros(m[2]), true
}

// Resolve returns the php binary on PATH; the requested version is advisory.
func (p *php) Resolve(_ context.Context, version string) (string, bool) {
	if strings.TrimSpace(version) == "" {
		return "", false
	}
	path, err := p.host.LookPath(executableName("php"))
	if err != nil {
		return "", false
	}
	p.log.WithFields(logrus.Fields{"version": p.Canonical(version), "path": path}).
		Debug("resolved php from PATH; version match is advisory")
	return path, true
}

func (p *php) IsInstalled(ctx context.Context, version string) bool {
	path, ok := p.Resolve(ctx, version)
	if !ok {
		return false
	}
	res := p.version(ctx, "installed-check", path)
	if !res.OK() {
		return false
	}
	raw := strings.TrimSpace(version)
	out := res.Output()
	if got, ok := phpVersion(out); ok && got == p.Canonical(raw) {
		return true
	}
	return containsVersionToken(out, raw)
}

func (p *php) InstallPlan(version string) ([]task.Step, error) {
	canonical := p.Canonical(version)
	if canonical == "" {
		return nil, fmt.Errorf("php install: empty version")
	}
	brew := p.brew()
	if brew == "" {
		return nil, fmt.Errorf("php install: %w: Homebrew is not installed", ErrPrerequisiteMissing)
	}
	return []task.Step{{
		Description: fmt.Sprintf("Install PHP %s with Homebrew", canonical),
		Command:     brew,
		Args:        []string{"install", "php@" + canonical},
	}}, nil
}
