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
	nodeCommonVersions = []string{"20", "18", "16", "14"}

	nvmVersionToken = regexp.MustCompile(`v(\d+)\.\d+\.\d+`)
	nodeBanner      = regexp.MustCompile(`^v?(\d+)\.`)
)

// nvm is a shell function, so it is driven through bash with nvm.sh sourced.
const (
	nvmListScript    = `source "$1" >/dev/null 2>&1 && nvm ls --no-colors --no-alias`
	nvmInstallScript = `source "$1" && nvm install "$2" && nvm alias default "$2"`
)

type javascript struct {
	*env
	common []string
}

func newJavaScript(e *env, common []string) *javascript {
	if len(common) == 0 {
		common = nodeCommonVersions
	}
	return &javascript{env: e, common: common}
}

func (j *javascript) Language() Language { return JavaScript }

func (j *javascript) CommonVersions() []string { return append([]string(nil), j.common...) }

func (j *javascript) Canonical(version string) string {
	raw := strings.TrimSpace(version)
	canonical, ok := CanonicalMajor(raw)
	return canonicalOr(raw, canonical, ok)
}

func (j *javascript) Detect(ctx context.Context) []string {
	var found []string
	found = append(found, j.fromNvm(ctx)...)
	found = append(found, j.fromSystem(ctx)...)
	return dedupe(found)
}

func (j *javascript) nvmScript() string {
	if j.loc.NvmDir == "" {
		return ""
	}
	script := filepath.Join(j.loc.NvmDir, "nvm.sh")
	if !j.host.FileExists(script) {
		return ""
	}
	return script
}

func (j *javascript) fromNvm(ctx context.Context) []string {
	script := j.nvmScript()
	if script == "" {
		j.log.WithField("source", "nvm").Debug("nvm.sh not found")
		return nil
	}
	res := j.probe(ctx, "nvm", "bash", "-c", nvmListScript, "nvm", script)
	if !res.OK() {
		return nil
	}
	var versions []string
	for _, line := range splitLines(string(res.Result.Stdout)) {
		if strings.Contains(line, "N/A") {
			continue
		}
		if m := nvmVersionToken.FindStringSubmatch(line); m != nil {
			versions = append(versions, m[1])
		}
	}
	return versions
}

func (j *javascript) fromSystem(ctx context.Context) []string {
	res := j.version(ctx, "system", executableName("node"))
	if !res.OK() {
		return nil
	}
	if major, ok := nodeMajor(res.Output()); ok {
		return []string{major}
	}
	return nil
}

func nodeMajor(output string) (string, bool) {
	m := nodeBanner.FindStringSubmatch(strings.TrimSpace(firstLine(strings.TrimSpace(output))))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Resolve returns the node binary on PATH. Node versions are not multiplexed
// on disk here, so the requested version is advisory.
func (j *javascript) Resolve(_ context.Context, version string) (string, bool) {
	if strings.TrimSpace(version) == "" {
		return "", false
	}
	path, err := j.host.LookPath(executableName("node"))
	if err != nil {
		return "", false
	}
	j.log.WithFields(logrus.Fields{"version": j.Canonical(version), "path": path}).
		Debug("resolved node from PATH; version match is advisory")
	return path, true
}

func (j *javascript) IsInstalled(ctx context.Context, version string) bool {
	path, ok := j.Resolve(ctx, version)
	if !ok {
		return false
	}
	res := j.version(ctx, "installed-check", path)
	if !res.OK() {
		return false
	}
	major, ok := nodeMajor(res.Output())
	return ok && major == j.Canonical(version)
}

func (j *javascript) InstallPlan(version string) ([]task.Step, error) {
	major := j.Canonical(version)
	if major == "" {
		return nil, fmt.Errorf("node install: empty version")
	}
	script := j.nvmScript()
	if script == "" {
		return nil, fmt.Errorf("node install: %w: nvm is not installed in %s", ErrPrerequisiteMissing, j.loc.NvmDir)
	}
	return []task.Step{{
		Description: fmt.Sprintf("Install Node.js %s with nvm and make it the default", major),
		Command:     "bash",
		Args:        []string{"-c", nvmInstallScript, "nvm", script, major},
	}}, nil
}
