package task

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"pcreator/internal/proc"
)

// Step is one external command inside a multi-step task.
type Step struct {
	Description string
	Command     string
	Args        []string
	Dir         string
	Env         []string
}

// String renders the command line for logs.
func (s Step) String() string {
	return strings.TrimSpace(s.Command + " " + strings.Join(s.Args, " "))
}

// RunSteps executes steps in order, streaming their output through logf.
// The context is checked before every step; the first failing step stops the
// sequence.
func RunSteps(ctx context.Context, runner proc.Runner, steps []Step, logf Logf) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled before step %d (%s): %w", i+1, step.Description, err)
		}
		if step.Description != "" {
			logf("==> %s", step.Description)
		}
		logf("$ %s", step)

		w := &lineWriter{emit: func(line string) { logf("%s", line) }}
		res, err := runner.Run(ctx, step.Command, step.Args, proc.RunOptions{
			Dir:    step.Dir,
			Env:    step.Env,
			Stdout: w,
			Stderr: w,
		})
		w.Flush()
		if err != nil {
			if res.ExitCode != 0 {
				return fmt.Errorf("%s: exit status %d: %w", step, res.ExitCode, err)
			}
			return fmt.Errorf("%s: %w", step, err)
		}
	}
	return nil
}

// lineWriter turns a byte stream into complete lines.
type lineWriter struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	emit func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		idx := bytes.IndexByte(w.buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimRight(string(w.buf.Next(idx+1)), "\r\n")
		if line != "" {
			w.emit(line)
		}
	}
	return len(p), nil
}

// Flush emits any trailing partial line.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if rest := strings.TrimSpace(w.buf.String()); rest != "" {
		w.emit(rest)
	}
	w.buf.Reset()
}
