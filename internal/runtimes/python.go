package runtimes

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"pcreator/internal/task"
)

var (
	pythonCommonVersions = []string{"3.12", "3.11", "3.10", "3.9", "3.8"}
	pythonProbeVersions  = []string{"3.13", "3.12", "3.11", "3.10", "3.9", "3.8"}

	brewPythonFormula = regexp.MustCompile(`^python@(\d+\.\d+)$`)
	pyenvVersionLine  = regexp.MustCompile(`^\d+\.\d+`)
)

const pythonProbeParallelism = 4

type python struct {
	*env
	common []string
}

func newPython(e *env, common []string) *python {
	if len(common) == 0 {
		common = pythonCommonVersions
	}
	return &python{env: e, common: common}
}

func (p *python) Language() Language { return Python }

func (p *python) CommonVersions() []string { return append([]string(nil), p.common...) }

func (p *python) Canonical(version string) string {
	raw := strings.TrimSpace(version)
	canonical, ok := CanonicalMinor(raw)
	return canonicalOr(raw, canonical, ok)
}

func (p *python) Detect(ctx context.Context) []string {
	var found []string
	found = append(found, p.fromPyenv(ctx)...)
	found = append(found, p.fromBrew(ctx)...)
	found = append(found, p.fromSystem(ctx)...)
	return dedupe(found)
}

func (p *python) pyenv() string {
	if p.loc.PyenvRoot == "" {
		return p.lookup("pyenv")
	}
	return p.lookup("pyenv", filepath.Join(p.loc.PyenvRoot, "bin", "pyenv"))
}

// fromPyenv reads "pyenv versions --bare". Virtualenv entries and non-CPython
// distributions are skipped.
func (p *python) fromPyenv(ctx context.Context) []string {
	pyenv := p.pyenv()
	if pyenv == "" {
		return nil
	}
	res := p.probe(ctx, "pyenv", pyenv, "versions", "--bare")
	if !res.OK() {
		return nil
	}
	var versions []string
	for _, line := range splitLines(string(res.Result.Stdout)) {
		if strings.Contains(line, "/envs/") || !pyenvVersionLine.MatchString(line) {
			continue
		}
		if v, ok := CanonicalMinor(line); ok {
			versions = append(versions, v)
		}
	}
	return versions
}

func (p *python) fromBrew(ctx context.Context) []string {
	var versions []string
	for _, formula := range p.brewFormulae(ctx) {
		if m := brewPythonFormula.FindStringSubmatch(formula); m != nil {
			versions = append(versions, m[1])
		}
	}
	return versions
}

// fromSystem probes pythonX.Y --version for each recent minor concurrently.
func (p *python) fromSystem(ctx context.Context) []string {
	hits := make([]bool, len(pythonProbeVersions))
	var g errgroup.Group
	g.SetLimit(pythonProbeParallelism)
	for i, v := range pythonProbeVersions {
		g.Go(func() error {
			res := p.version(ctx, "system", executableName("python"+v))
			hits[i] = res.OK() && containsVersionToken(res.Output(), v)
			return nil
		})
	}
	_ = g.Wait()

	var versions []string
	for i, hit := range hits {
		if hit {
			versions = append(versions, pythonProbeVersions[i])
		}
	}
	return versions
}

// Resolve walks the candidate locations in priority order: Homebrew, pyenv,
// the secondary prefix, then PATH by canonical and raw binary name.
func (p *python) Resolve(_ context.Context, version string) (string, bool) {
	raw := strings.TrimSpace(version)
	if raw == "" {
		return "", false
	}
	canonical := p.Canonical(raw)
	binary := executableName("python" + canonical)

	if p.loc.BrewPrefix != "" {
		if path, ok := p.firstExecutable(filepath.Join(p.loc.BrewPrefix, "bin", binary)); ok {
			return path, true
		}
	}

	if path, ok := p.fromPyenvRoot(canonical, raw); ok {
		return path, true
	}

	if p.loc.SecondaryPrefix != "" {
		if path, ok := p.firstExecutable(filepath.Join(p.loc.SecondaryPrefix, "bin", binary)); ok {
			return path, true
		}
	}

	if path, err := p.host.LookPath(binary); err == nil {
		return path, true
	}
	if raw != canonical {
		if path, err := p.host.LookPath(executableName("python" + raw)); err == nil {
			return path, true
		}
	}

	p.log.WithField("version", raw).Debug("python version not found")
	return "", false
}

func (p *python) fromPyenvRoot(canonical, raw string) (string, bool) {
	if p.loc.PyenvRoot == "" {
		return "", false
	}
	root := filepath.Join(p.loc.PyenvRoot, "versions")
	dirs := p.host.SubDirs(root)
	SortDescending(dirs)
	for _, dir := range dirs {
		if !hasVersionPrefix(dir, canonical) && !hasVersionPrefix(dir, raw) {
			continue
		}
		bin := filepath.Join(root, dir, "bin")
		path, ok := p.firstExecutable(
			filepath.Join(bin, executableName("python"+canonical)),
			filepath.Join(bin, executableName("python3")),
			filepath.Join(bin, executableName("python")),
		)
		if ok {
			return path, true
		}
	}
	return "", false
}

func (p *python) IsInstalled(ctx context.Context, version string) bool {
	raw := strings.TrimSpace(version)
	canonical := p.Canonical(raw)

	binary, ok := p.Resolve(ctx, raw)
	if !ok {
		binary = executableName("python" + canonical)
	}
	res := p.version(ctx, "installed-check", binary)
	if !res.OK() {
		return false
	}
	out := res.Output()
	return containsVersionToken(out, canonical) || containsVersionToken(out, raw)
}

func (p *python) InstallPlan(version string) ([]task.Step, error) {
	raw := strings.TrimSpace(version)
	if raw == "" {
		return nil, fmt.Errorf("python install: empty version")
	}

	var steps []task.Step
	pyenv := p.pyenv()
	if pyenv == "" {
		brew := p.brew()
		if brew == "" {
			return nil, fmt.Errorf("python install: %w: neither pyenv nor Homebrew is available", ErrPrerequisiteMissing)
		}
		steps = append(steps, task.Step{
			Description: "Install pyenv with Homebrew",
			Command:     brew,
			Args:        []string{"install", "pyenv"},
		})
		pyenv = filepath.Join(filepath.Dir(brew), "pyenv")
	}

	steps = append(steps, task.Step{
		Description: fmt.Sprintf("Install Python %s with pyenv", raw),
		Command:     pyenv,
		Args:        []string{"install", "-s", raw},
	})
	return steps, nil
}
