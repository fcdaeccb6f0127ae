package runtimes

import (
	"context"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"pcreator/internal/proc"
	"pcreator/internal/task"
)

// Strategy bundles everything language-specific: detection sources,
// resolution rules, the installed check and the install plan.
type Strategy interface {
	Language() Language
	// Canonical reduces a user-supplied version to the catalog form. When the
	// version cannot be normalized the trimmed input is returned.
	Canonical(version string) string
	// CommonVersions is the fallback list offered even when nothing is detected.
	CommonVersions() []string
	// Detect returns the canonical versions reported by every available source.
	Detect(ctx context.Context) []string
	Resolve(ctx context.Context, version string) (string, bool)
	IsInstalled(ctx context.Context, version string) bool
	InstallPlan(version string) ([]task.Step, error)
}

const (
	defaultProbeTimeout   = 10 * time.Second
	defaultVersionTimeout = 5 * time.Second
)

// env is the probing context shared by all strategies.
type env struct {
	runner         proc.Runner
	host           Host
	loc            Locations
	probeTimeout   time.Duration
	versionTimeout time.Duration
	log            *logrus.Entry
}

// probe runs a listing command with the probe timeout and logs its outcome.
func (e *env) probe(ctx context.Context, source, command string, args ...string) proc.ProbeResult {
	return e.run(ctx, e.probeTimeout, source, command, args...)
}

// version runs "<binary> --version" with the shorter version timeout.
func (e *env) version(ctx context.Context, source, binary string) proc.ProbeResult {
	return e.run(ctx, e.versionTimeout, source, binary, "--version")
}

func (e *env) run(ctx context.Context, timeout time.Duration, source, command string, args ...string) proc.ProbeResult {
	res := proc.Probe(ctx, e.runner, timeout, command, args...)
	entry := e.log.WithFields(logrus.Fields{
		"source":  source,
		"command": command,
		"outcome": res.Outcome.String(),
	})
	if res.Err != nil && res.Outcome != proc.OutcomeUnavailable {
		entry = entry.WithError(res.Err)
	}
	entry.Debug("probe finished")
	return res
}

// lookup finds name on PATH, then in the given fallback paths.
func (e *env) lookup(name string, fallbacks ...string) string {
	if path, err := e.host.LookPath(executableName(name)); err == nil {
		return path
	}
	for _, candidate := range fallbacks {
		if candidate != "" && e.host.IsExecutable(candidate) {
			return candidate
		}
	}
	return ""
}

func (e *env) brew() string {
	if e.loc.BrewPrefix == "" {
		return e.lookup("brew")
	}
	return e.lookup("brew", filepath.Join(e.loc.BrewPrefix, "bin", "brew"))
}

// brewFormulae lists installed Homebrew formulae, or nil when brew is absent
// or fails.
func (e *env) brewFormulae(ctx context.Context) []string {
	brew := e.brew()
	if brew == "" {
		e.log.WithField("source", "brew").Debug("brew not found")
		return nil
	}
	res := e.probe(ctx, "brew", brew, "list", "--formula")
	if !res.OK() {
		return nil
	}
	return splitLines(string(res.Result.Stdout))
}

func (e *env) firstExecutable(candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if e.host.IsExecutable(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func canonicalOr(raw string, canonical string, ok bool) string {
	if ok {
		return canonical
	}
	return raw
}
