package runtimes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcreator/internal/proc"
	"pcreator/internal/proc/proctest"
	"pcreator/internal/runtimes/runtimestest"
)

var testLocations = Locations{
	BrewPrefix:      "/fake/brew",
	SecondaryPrefix: "/fake/local",
	PyenvRoot:       "/fake/pyenv",
	NvmDir:          "/fake/nvm",
}

const (
	fakePyenv = "/fake/pyenv/bin/pyenv"
	fakeBrew  = "/fake/brew/bin/brew"
)

func newTestService(runner *proctest.Runner, host *runtimestest.Host) *Service {
	return NewService(Options{
		Runner:         runner,
		Host:           host,
		Locations:      testLocations,
		ProbeTimeout:   time.Second,
		VersionTimeout: time.Second,
	})
}

func versionsOf(candidates []VersionCandidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Version)
	}
	return out
}

func TestListVersionsWithoutToolingReturnsCommonVersions(t *testing.T) {
	svc := newTestService(proctest.NewRunner(), runtimestest.NewHost())
	ctx := context.Background()

	want := map[Language][]string{
		Python:     {"3.12", "3.11", "3.10", "3.9", "3.8"},
		JavaScript: {"20", "18", "16", "14"},
		PHP:        {"8.3", "8.2", "8.1", "8.0"},
	}
	for _, lang := range Languages() {
		got := svc.ListVersions(ctx, lang)
		require.NotEmpty(t, got, lang.String())
		assert.Equal(t, want[lang], versionsOf(got), lang.String())
		for _, c := range got {
			assert.False(t, c.Installed, "%s %s", lang, c.Version)
		}
	}
}

func TestIsInstalledFalseWithoutTooling(t *testing.T) {
	svc := newTestService(proctest.NewRunner(), runtimestest.NewHost())
	ctx := context.Background()

	for _, lang := range Languages() {
		strategy, err := svc.Strategy(lang)
		require.NoError(t, err)
		for _, v := range strategy.CommonVersions() {
			assert.False(t, svc.IsInstalled(ctx, lang, v), "%s %s", lang, v)
			_, ok := svc.ResolveExecutable(ctx, lang, v)
			assert.False(t, ok, "%s %s", lang, v)
		}
	}
}

func TestPyenvScenario(t *testing.T) {
	host := runtimestest.NewHost().
		AddExecutable(fakePyenv).
		AddExecutable("/fake/pyenv/versions/3.11.6/bin/python3.11").
		AddExecutable("/fake/pyenv/versions/3.9.24/bin/python3")
	runner := proctest.NewRunner().
		On(fakePyenv+" versions --bare", proctest.Response{Stdout: "3.9.24\n3.11.6\n3.11.6/envs/tools\n"}).
		On("/fake/pyenv/versions/3.11.6/bin/python3.11 --version", proctest.Response{Stdout: "Python 3.11.6\n"}).
		On("/fake/pyenv/versions/3.9.24/bin/python3 --version", proctest.Response{Stdout: "Python 3.9.24\n"})
	svc := newTestService(runner, host)
	ctx := context.Background()

	got := svc.ListVersions(ctx, Python)
	assert.Equal(t, []VersionCandidate{
		{Version: "3.11", Installed: true},
		{Version: "3.9", Installed: true},
		{Version: "3.12", Installed: false},
		{Version: "3.10", Installed: false},
		{Version: "3.8", Installed: false},
	}, got)

	path, ok := svc.ResolveExecutable(ctx, Python, "3.11")
	require.True(t, ok)
	assert.Equal(t, "/fake/pyenv/versions/3.11.6/bin/python3.11", path)

	path, ok = svc.ResolveExecutable(ctx, Python, "3.9.24")
	require.True(t, ok)
	assert.Equal(t, "/fake/pyenv/versions/3.9.24/bin/python3", path)

	assert.True(t, svc.IsInstalled(ctx, Python, "3.11"))
	assert.True(t, svc.IsInstalled(ctx, Python, "3.9"))
	assert.False(t, svc.IsInstalled(ctx, Python, "3.10"))

	_, ok = svc.ResolveExecutable(ctx, Python, "3.1")
	assert.False(t, ok, "3.1 must not match the 3.11.6 directory")
}

func TestPyenvPrefersNewestPatch(t *testing.T) {
	host := runtimestest.NewHost().
		AddExecutable("/fake/pyenv/versions/3.11.2/bin/python3.11").
		AddExecutable("/fake/pyenv/versions/3.11.10/bin/python3.11")
	svc := newTestService(proctest.NewRunner(), host)

	path, ok := svc.ResolveExecutable(context.Background(), Python, "3.11")
	require.True(t, ok)
	assert.Equal(t, "/fake/pyenv/versions/3.11.10/bin/python3.11", path)
}

func TestPythonResolveOrder(t *testing.T) {
	all := func() *runtimestest.Host {
		return runtimestest.NewHost().
			AddExecutable("/fake/brew/bin/python3.12").
			AddExecutable("/fake/pyenv/versions/3.12.1/bin/python3.12").
			AddExecutable("/fake/local/bin/python3.12").
			OnPath("python3.12", "/usr/bin/python3.12")
	}

	tests := []struct {
		name    string
		host    *runtimestest.Host
		version string
		want    string
	}{
		{"brew first", all(), "3.12", "/fake/brew/bin/python3.12"},
		{"pyenv second", runtimestest.NewHost().
			AddExecutable("/fake/pyenv/versions/3.12.1/bin/python3.12").
			AddExecutable("/fake/local/bin/python3.12").
			OnPath("python3.12", "/usr/bin/python3.12"), "3.12", "/fake/pyenv/versions/3.12.1/bin/python3.12"},
		{"secondary prefix third", runtimestest.NewHost().
			AddExecutable("/fake/local/bin/python3.12").
			OnPath("python3.12", "/usr/bin/python3.12"), "3.12", "/fake/local/bin/python3.12"},
		{"PATH canonical", runtimestest.NewHost().
			OnPath("python3.12", "/usr/bin/python3.12"), "3.12", "/usr/bin/python3.12"},
		{"PATH raw", runtimestest.NewHost().
			OnPath("python3.12.1", "/opt/bin/python3.12.1"), "3.12.1", "/opt/bin/python3.12.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(proctest.NewRunner(), tt.host)
			path, ok := svc.ResolveExecutable(context.Background(), Python, tt.version)
			require.True(t, ok)
			assert.Equal(t, tt.want, path)
		})
	}
}

func TestPatchAndMinorResolveIdentically(t *testing.T) {
	// The secondary-prefix binary is unscripted, so invoking it fails.
	host := runtimestest.NewHost().AddExecutable("/fake/brew/bin/python3.13", "/fake/local/bin/python3.13")
	runner := proctest.NewRunner().
		On("/fake/brew/bin/python3.13 --version", proctest.Response{Stdout: "Python 3.13.0\n"})
	svc := newTestService(runner, host)
	ctx := context.Background()

	short, okShort := svc.ResolveExecutable(ctx, Python, "3.13")
	full, okFull := svc.ResolveExecutable(ctx, Python, "3.13.0")
	require.True(t, okShort)
	require.True(t, okFull)
	assert.Equal(t, short, full)

	assert.True(t, svc.IsInstalled(ctx, Python, "3.13"))
	assert.True(t, svc.IsInstalled(ctx, Python, "3.13.0"))

	for _, path := range []string{short, full} {
		res := proc.Probe(ctx, runner, time.Second, path, "--version")
		require.True(t, res.OK(), "%s: %s", path, res.Outcome)
		assert.Contains(t, res.Output(), "3.13")
	}
}

func TestBlankVersionNeverResolves(t *testing.T) {
	host := runtimestest.NewHost().
		OnPath("python", "/usr/bin/python").
		OnPath("node", "/usr/bin/node").
		OnPath("php", "/usr/bin/php")
	svc := newTestService(proctest.NewRunner(), host)
	ctx := context.Background()

	for _, lang := range Languages() {
		for _, version := range []string{"", "  "} {
			path, ok := svc.ResolveExecutable(ctx, lang, version)
			assert.False(t, ok, "%s %q", lang, version)
			assert.Empty(t, path)
			assert.False(t, svc.IsInstalled(ctx, lang, version))

			strategy, err := svc.Strategy(lang)
			require.NoError(t, err)
			_, ok = strategy.Resolve(ctx, version)
			assert.False(t, ok, "%s strategy %q", lang, version)
		}
		_, err := svc.Resolve(ctx, lang, "")
		assert.ErrorIs(t, err, ErrEmptyVersion)
	}
}

func TestFailingSourceDoesNotAbortDiscovery(t *testing.T) {
	host := runtimestest.NewHost().AddExecutable(fakePyenv, fakeBrew)
	runner := proctest.NewRunner().
		On(fakePyenv+" versions --bare", proctest.Response{Hang: true}).
		On(fakeBrew+" list --formula", proctest.Response{Stdout: "openssl@3\npython@3.13\npython@3.12\n"}).
		On("python3.10 --version", proctest.Response{Stderr: "broken", ExitCode: 1}).
		On("python3.11 --version", proctest.Response{Stdout: "Python 3.11.9\n"})
	svc := NewService(Options{
		Runner:         runner,
		Host:           host,
		Locations:      testLocations,
		ProbeTimeout:   30 * time.Millisecond,
		VersionTimeout: time.Second,
	})

	got := svc.ListVersions(context.Background(), Python)
	assert.Equal(t, []VersionCandidate{
		{Version: "3.13", Installed: true},
		{Version: "3.12", Installed: true},
		{Version: "3.11", Installed: true},
		{Version: "3.10", Installed: false},
		{Version: "3.9", Installed: false},
		{Version: "3.8", Installed: false},
	}, got)
}

func TestSystemProbeRequiresMatchingVersion(t *testing.T) {
	// A pythonX.Y shim that reports a different version is not counted.
	runner := proctest.NewRunner().
		On("python3.12 --version", proctest.Response{Stdout: "Python 3.11.4\n"})
	svc := newTestService(runner, runtimestest.NewHost())

	for _, c := range svc.ListVersions(context.Background(), Python) {
		assert.False(t, c.Installed, c.Version)
	}
}

func TestJavaScriptAdvisoryResolution(t *testing.T) {
	host := runtimestest.NewHost().OnPath("node", "/usr/bin/node")
	runner := proctest.NewRunner().
		On("node --version", proctest.Response{Stdout: "v20.1.0\n"}).
		On("/usr/bin/node --version", proctest.Response{Stdout: "v20.1.0\n"})
	svc := newTestService(runner, host)
	ctx := context.Background()

	path, ok := svc.ResolveExecutable(ctx, JavaScript, "18")
	require.True(t, ok)
	assert.Equal(t, "/usr/bin/node", path)

	assert.False(t, svc.IsInstalled(ctx, JavaScript, "18"))
	assert.True(t, svc.IsInstalled(ctx, JavaScript, "20"))
	assert.True(t, svc.IsInstalled(ctx, JavaScript, "v20.1.0"))

	assert.Equal(t, []VersionCandidate{
		{Version: "20", Installed: true},
		{Version: "18", Installed: false},
		{Version: "16", Installed: false},
		{Version: "14", Installed: false},
	}, svc.ListVersions(ctx, JavaScript))
}

func TestJavaScriptNvmDetection(t *testing.T) {
	host := runtimestest.NewHost().AddFile("/fake/nvm/nvm.sh")
	listing := "->     v18.17.0\n       v20.10.0\n       v22.1.0\nlts/argon -> v4.9.1 (-> N/A)\n"
	runner := proctest.NewRunner().
		On("bash -c "+nvmListScript+" nvm /fake/nvm/nvm.sh", proctest.Response{Stdout: listing})
	svc := newTestService(runner, host)

	got := svc.ListVersions(context.Background(), JavaScript)
	assert.Equal(t, []string{"22", "20", "18", "16", "14"}, versionsOf(got))
	assert.Equal(t, []bool{true, true, true, false, false}, []bool{
		got[0].Installed, got[1].Installed, got[2].Installed, got[3].Installed, got[4].Installed,
	})
}

func TestPHPDetection(t *testing.T) {
	host := runtimestest.NewHost().
		AddExecutable(fakeBrew).
		OnPath("php", "/usr/bin/php")
	runner := proctest.NewRunner().
		On(fakeBrew+" list --formula", proctest.Response{Stdout: "php@8.2\nphp\nopenssl@3\n"}).
		On("/fake/brew/opt/php/bin/php --version", proctest.Response{Stdout: "PHP 8.3.4 (cli) (built: Mar 12 2024)\n"}).
		On("php --version", proctest.Response{Stdout: "PHP 8.1.27 (cli)\nCopyright (c) The PHP Group\n"}).
		On("/usr/bin/php --version", proctest.Response{Stdout: "PHP 8.1.27 (cli)\n"})
	svc := newTestService(runner, host)
	ctx := context.Background()

	assert.Equal(t, []VersionCandidate{
		{Version: "8.3", Installed: true},
		{Version: "8.2", Installed: true},
		{Version: "8.1", Installed: true},
		{Version: "8.0", Installed: false},
	}, svc.ListVersions(ctx, PHP))

	path, ok := svc.ResolveExecutable(ctx, PHP, "8.3")
	require.True(t, ok, "php resolution is advisory")
	assert.Equal(t, "/usr/bin/php", path)

	assert.True(t, svc.IsInstalled(ctx, PHP, "8.1"))
	assert.True(t, svc.IsInstalled(ctx, PHP, "8.1.27"))
	assert.False(t, svc.IsInstalled(ctx, PHP, "8.3"))
}

func TestResolveWrapsNotFound(t *testing.T) {
	svc := newTestService(proctest.NewRunner(), runtimestest.NewHost())

	_, err := svc.Resolve(context.Background(), Python, "3.12")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionNotFound))

	_, err = svc.Resolve(context.Background(), Language(42), "1")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestCommonVersionOverrides(t *testing.T) {
	svc := NewService(Options{
		Runner:         proctest.NewRunner(),
		Host:           runtimestest.NewHost(),
		Locations:      testLocations,
		CommonVersions: map[Language][]string{Python: {"3.9", "3.13", "3.10"}},
	})

	got := svc.ListVersions(context.Background(), Python)
	assert.Equal(t, []string{"3.13", "3.10", "3.9"}, versionsOf(got))
}

func TestCatalogCoversRequestedLanguages(t *testing.T) {
	svc := newTestService(proctest.NewRunner(), runtimestest.NewHost())

	all := svc.Catalog(context.Background())
	assert.Equal(t, Languages(), all.Languages())

	one := svc.Catalog(context.Background(), PHP)
	assert.Equal(t, []Language{PHP}, one.Languages())
}
