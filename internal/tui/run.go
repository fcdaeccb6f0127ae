package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pcreator/internal/task"
)

// ErrInterrupted is returned when the user stops a running task.
var ErrInterrupted = errors.New("interrupted")

// RunWithWork creates a bubbletea program, launches workFn in a goroutine,
// and blocks until the program exits. workFn receives a send callback wrapping
// tea.Program.Send.
func RunWithWork(out io.Writer, model ProgressModel, workFn func(send func(tea.Msg))) error {
	p := tea.NewProgram(model, tea.WithOutput(out))

	go func() {
		// Let bubbletea start its event loop and render the initial frame.
		time.Sleep(50 * time.Millisecond)
		workFn(p.Send)
		p.Send(WorkDoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(ProgressModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

// RunTask renders t with an InstallModel until its terminal event. Pressing
// ctrl+c calls cancel and waits for the task to wind down.
func RunTask(out io.Writer, title string, t *task.Task, cancel context.CancelFunc) error {
	p := tea.NewProgram(NewInstallModel(title), tea.WithOutput(out))

	result := make(chan error, 1)
	go func() {
		for ev := range t.Events() {
			switch ev.Kind {
			case task.KindLog:
				p.Send(LogLineMsg{Line: ev.Line})
			case task.KindDone:
				result <- ev.Err
				p.Send(TaskDoneMsg{Err: ev.Err})
			}
		}
	}()

	finalModel, err := p.Run()
	if err != nil {
		cancel()
		<-result
		return err
	}
	m, _ := finalModel.(InstallModel)
	if m.Interrupted() {
		cancel()
		<-result
		return ErrInterrupted
	}
	return <-result
}

// PlainTask prints t's log lines to out as they arrive and returns its
// terminal error.
func PlainTask(out io.Writer, title string, t *task.Task) error {
	fmt.Fprintln(out, title)
	start := time.Now()
	err := t.Wait(func(line string) {
		fmt.Fprintf(out, "  %s\n", line)
	})
	if err != nil {
		fmt.Fprintf(out, "failed after %s\n", formatElapsed(time.Since(start)))
		return err
	}
	fmt.Fprintf(out, "done in %s\n", formatElapsed(time.Since(start)))
	return nil
}
