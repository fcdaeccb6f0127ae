// Package proctest provides a scripted proc.Runner for tests.
package proctest

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"pcreator/internal/proc"
)

// Response is the scripted outcome of one command line.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
	// Hang blocks until the context is done, simulating a stuck tool.
	Hang bool
	// Effect runs after the response is produced, e.g. to register what an
	// install command would have put on disk.
	Effect func()
}

// Runner answers commands from a table keyed by "command arg1 arg2".
// Commands without an entry behave like a missing executable.
type Runner struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []string
}

// NewRunner returns an empty scripted runner.
func NewRunner() *Runner {
	return &Runner{responses: map[string]Response{}}
}

// On registers the response for a command line.
func (r *Runner) On(commandLine string, resp Response) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[commandLine] = resp
	return r
}

// Calls returns the command lines seen so far, in order.
func (r *Runner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Called reports whether commandLine was invoked.
func (r *Runner) Called(commandLine string) bool {
	for _, c := range r.Calls() {
		if c == commandLine {
			return true
		}
	}
	return false
}

func (r *Runner) Run(ctx context.Context, command string, args []string, opts proc.RunOptions) (proc.RunResult, error) {
	line := strings.TrimSpace(command + " " + strings.Join(args, " "))

	r.mu.Lock()
	r.calls = append(r.calls, line)
	resp, ok := r.responses[line]
	r.mu.Unlock()

	if !ok {
		return proc.RunResult{}, &exec.Error{Name: command, Err: exec.ErrNotFound}
	}
	if resp.Hang {
		<-ctx.Done()
		return proc.RunResult{}, ctx.Err()
	}

	if opts.Stdout != nil && resp.Stdout != "" {
		_, _ = opts.Stdout.Write([]byte(resp.Stdout))
	}
	if opts.Stderr != nil && resp.Stderr != "" {
		_, _ = opts.Stderr.Write([]byte(resp.Stderr))
	}

	if resp.Effect != nil {
		resp.Effect()
	}

	res := proc.RunResult{Stdout: []byte(resp.Stdout), Stderr: []byte(resp.Stderr), ExitCode: resp.ExitCode}
	if resp.Err != nil {
		return res, resp.Err
	}
	if resp.ExitCode != 0 {
		return res, fmt.Errorf("exit status %d", resp.ExitCode)
	}
	return res, nil
}

var _ proc.Runner = (*Runner)(nil)
