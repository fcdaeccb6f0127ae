package runtimes

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"pcreator/internal/proc"
)

// Options configures a Service. Zero values select the real process runner,
// the real filesystem and the platform default locations.
type Options struct {
	Runner         proc.Runner
	Host           Host
	Locations      Locations
	ProbeTimeout   time.Duration
	VersionTimeout time.Duration
	// CommonVersions overrides the fallback list per language.
	CommonVersions map[Language][]string
	Logger         *logrus.Logger
}

// Service is the runtime discovery and resolution entry point. It holds no
// catalog state: every call probes the host again.
type Service struct {
	strategies map[Language]Strategy
	tools      *env
	runner     proc.Runner
	log        *logrus.Logger
}

// NewService wires one strategy per supported language.
func NewService(opts Options) *Service {
	if opts.Runner == nil {
		opts.Runner = proc.CmdRunner{}
	}
	if opts.Host == nil {
		opts.Host = OSHost{}
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = defaultProbeTimeout
	}
	if opts.VersionTimeout <= 0 {
		opts.VersionTimeout = defaultVersionTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
		opts.Logger.SetOutput(io.Discard)
	}
	loc := opts.Locations.merge(DefaultLocations())

	envWith := func(log *logrus.Entry) *env {
		return &env{
			runner:         opts.Runner,
			host:           opts.Host,
			loc:            loc,
			probeTimeout:   opts.ProbeTimeout,
			versionTimeout: opts.VersionTimeout,
			log:            log,
		}
	}
	newEnv := func(lang Language) *env {
		return envWith(opts.Logger.WithField("language", lang.String()))
	}

	return &Service{
		strategies: map[Language]Strategy{
			Python:     newPython(newEnv(Python), opts.CommonVersions[Python]),
			JavaScript: newJavaScript(newEnv(JavaScript), opts.CommonVersions[JavaScript]),
			PHP:        newPHP(newEnv(PHP), opts.CommonVersions[PHP]),
		},
		tools:  envWith(opts.Logger.WithField("component", "tools")),
		runner: opts.Runner,
		log:    opts.Logger,
	}
}

// Strategy returns the strategy registered for lang.
func (s *Service) Strategy(lang Language) (Strategy, error) {
	strategy, ok := s.strategies[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, lang)
	}
	return strategy, nil
}

// ListVersions merges every detection source for lang with the common
// versions. Installed entries come first; both groups are newest first.
// It never fails: with no tooling at all the common list is returned, all
// marked not installed.
func (s *Service) ListVersions(ctx context.Context, lang Language) []VersionCandidate {
	strategy, err := s.Strategy(lang)
	if err != nil {
		return nil
	}
	start := time.Now()
	detected := strategy.Detect(ctx)
	candidates := buildCatalog(strategy, detected)
	s.log.WithFields(logrus.Fields{
		"language":   lang.String(),
		"detected":   len(detected),
		"candidates": len(candidates),
		"elapsed":    time.Since(start).Round(time.Millisecond).String(),
	}).Info("runtime discovery finished")
	return candidates
}

// Catalog runs ListVersions for each requested language, or all of them.
func (s *Service) Catalog(ctx context.Context, langs ...Language) Catalog {
	if len(langs) == 0 {
		langs = Languages()
	}
	catalog := make(Catalog, len(langs))
	for _, lang := range langs {
		catalog[lang] = s.ListVersions(ctx, lang)
	}
	return catalog
}

// ResolveExecutable maps a requested version to an executable path.
func (s *Service) ResolveExecutable(ctx context.Context, lang Language, version string) (string, bool) {
	if strings.TrimSpace(version) == "" {
		return "", false
	}
	strategy, err := s.Strategy(lang)
	if err != nil {
		return "", false
	}
	return strategy.Resolve(ctx, version)
}

// Resolve is ResolveExecutable for callers that prefer an error value. A miss
// wraps ErrVersionNotFound.
func (s *Service) Resolve(ctx context.Context, lang Language, version string) (string, error) {
	if _, err := s.Strategy(lang); err != nil {
		return "", err
	}
	if strings.TrimSpace(version) == "" {
		return "", fmt.Errorf("%s: %w", lang.DisplayName(), ErrEmptyVersion)
	}
	path, ok := s.ResolveExecutable(ctx, lang, version)
	if !ok {
		return "", fmt.Errorf("%s %s: %w", lang.DisplayName(), version, ErrVersionNotFound)
	}
	return path, nil
}

// IsInstalled verifies by invocation that the requested version answers.
func (s *Service) IsInstalled(ctx context.Context, lang Language, version string) bool {
	if strings.TrimSpace(version) == "" {
		return false
	}
	strategy, err := s.Strategy(lang)
	if err != nil {
		return false
	}
	return strategy.IsInstalled(ctx, version)
}

func buildCatalog(strategy Strategy, detected []string) []VersionCandidate {
	installed := make([]string, 0, len(detected))
	seen := map[string]struct{}{}
	for _, v := range detected {
		v = strategy.Canonical(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		installed = append(installed, v)
	}

	var missing []string
	for _, v := range strategy.CommonVersions() {
		v = strategy.Canonical(v)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		missing = append(missing, v)
	}

	SortDescending(installed)
	SortDescending(missing)

	candidates := make([]VersionCandidate, 0, len(installed)+len(missing))
	for _, v := range installed {
		candidates = append(candidates, VersionCandidate{Version: v, Installed: true})
	}
	for _, v := range missing {
		candidates = append(candidates, VersionCandidate{Version: v, Installed: false})
	}
	return candidates
}

// Languages returns the catalog's languages in display order.
func (c Catalog) Languages() []Language {
	langs := make([]Language, 0, len(c))
	for lang := range c {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}
