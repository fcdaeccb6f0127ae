package proc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"
)

// Outcome classifies how a probe command ended.
type Outcome int

const (
	// OutcomeOK means the command ran and exited with status 0.
	OutcomeOK Outcome = iota
	// OutcomeUnavailable means the executable could not be found or started.
	OutcomeUnavailable
	// OutcomeFailed means the executable ran but exited non-zero.
	OutcomeFailed
	// OutcomeTimeout means the command exceeded its deadline.
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ProbeResult is the never-failing view of a command invocation.
type ProbeResult struct {
	Outcome Outcome
	Result  RunResult
	Err     error
}

// OK reports whether the probe exited with status 0.
func (p ProbeResult) OK() bool {
	return p.Outcome == OutcomeOK
}

// Output returns the combined stdout and stderr text.
func (p ProbeResult) Output() string {
	return p.Result.Combined()
}

// Probe runs command with a bounded timeout and folds every failure mode into
// an Outcome. It never returns an error and never panics on a missing binary.
func Probe(ctx context.Context, runner Runner, timeout time.Duration, command string, args ...string) ProbeResult {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := runner.Run(ctx, command, args, RunOptions{})
	return ProbeResult{Outcome: Classify(ctx, err), Result: res, Err: err}
}

// Classify maps an error returned by Runner.Run to an Outcome.
func Classify(ctx context.Context, err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	if ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return OutcomeTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeTimeout
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return OutcomeUnavailable
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return OutcomeUnavailable
	}
	return OutcomeFailed
}
