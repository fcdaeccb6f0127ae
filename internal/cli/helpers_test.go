package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"pcreator/internal/config"
	"pcreator/internal/logx"
	"pcreator/internal/proc/proctest"
	"pcreator/internal/runtimes/runtimestest"
)

const (
	fakePyenv = "/fake/pyenv/bin/pyenv"
	fakeBrew  = "/fake/brew/bin/brew"
)

// useFakeEnvironment routes every command through runner and host. The
// projects directory is a fresh temp dir.
func useFakeEnvironment(t *testing.T, runner *proctest.Runner, host *runtimestest.Host) *environment {
	t.Helper()

	cfg := config.Default()
	cfg.ProjectsDir = t.TempDir()
	cfg.ProbeTimeout = time.Second
	cfg.VersionTimeout = time.Second
	cfg.InstallTimeout = 10 * time.Second
	cfg.Locations = config.LocationsConfig{
		BrewPrefix:      "/fake/brew",
		SecondaryPrefix: "/fake/local",
		PyenvRoot:       "/fake/pyenv",
		NvmDir:          "/fake/nvm",
	}

	env := assemble(cfg, logx.Discard(), runner, host, t.TempDir())
	env.prompter = &fakePrompter{}

	prev := newEnvironment
	newEnvironment = func(*cobra.Command) (*environment, error) { return env, nil }
	t.Cleanup(func() { newEnvironment = prev })
	return env
}

func setInteractive(t *testing.T, interactive bool) {
	t.Helper()
	prev := stdinInteractive
	stdinInteractive = func(*cobra.Command) bool { return interactive }
	t.Cleanup(func() { stdinInteractive = prev })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	setInteractive(t, false)
	return executeCmd(args...)
}

func executeCmd(args ...string) (string, error) {
	out, _, err := executeCapture(args...)
	return out, err
}

// executeCapture runs the root command and returns stdout and stderr.
func executeCapture(args ...string) (string, string, error) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func forceStatus(t *testing.T) {
	t.Helper()
	prev := statusEnabled
	statusEnabled = func(*cobra.Command) bool { return true }
	t.Cleanup(func() { statusEnabled = prev })
}

// pyenvHost has pyenv with 3.9.24 and 3.11.6 installed.
func pyenvHost() (*proctest.Runner, *runtimestest.Host) {
	host := runtimestest.NewHost().
		AddExecutable(fakePyenv).
		AddExecutable("/fake/pyenv/versions/3.11.6/bin/python3.11").
		AddExecutable("/fake/pyenv/versions/3.9.24/bin/python3")
	runner := proctest.NewRunner().
		On(fakePyenv+" versions --bare", proctest.Response{Stdout: "3.9.24\n3.11.6\n"}).
		On("/fake/pyenv/versions/3.11.6/bin/python3.11 --version", proctest.Response{Stdout: "Python 3.11.6\n"}).
		On("/fake/pyenv/versions/3.9.24/bin/python3 --version", proctest.Response{Stdout: "Python 3.9.24\n"})
	return runner, host
}

type fakePrompter struct {
	inputs  []string
	selects []string
	titles  []string
	options [][]string
}

func (p *fakePrompter) Input(title, _ string, validate func(string) error) (string, error) {
	p.titles = append(p.titles, title)
	if len(p.inputs) == 0 {
		return "", errors.New("unexpected input prompt: " + title)
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	if validate != nil {
		if err := validate(v); err != nil {
			return "", err
		}
	}
	return v, nil
}

func (p *fakePrompter) Select(title, _ string, options []huh.Option[string]) (string, error) {
	p.titles = append(p.titles, title)
	values := make([]string, 0, len(options))
	for _, o := range options {
		values = append(values, o.Value)
	}
	p.options = append(p.options, values)
	if len(p.selects) == 0 {
		return "", errors.New("unexpected select prompt: " + title)
	}
	v := p.selects[0]
	p.selects = p.selects[1:]
	return v, nil
}
