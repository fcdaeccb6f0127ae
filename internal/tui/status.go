package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// StatusWriter draws a single spinner line on w until Stop is called. It is
// meant for blocking calls that have no progress of their own, such as
// resolving an interpreter.
type StatusWriter struct {
	w     io.Writer
	kind  spinner.Spinner
	label string
	start time.Time

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewStatusWriter starts drawing label with a spinner on w.
func NewStatusWriter(w io.Writer, label string) *StatusWriter {
	sw := &StatusWriter{
		w:     w,
		kind:  spinner.MiniDot,
		label: label,
		start: time.Now(),
		stop:  make(chan struct{}),
	}
	sw.wg.Add(1)
	go sw.draw()
	return sw
}

// Stop halts the spinner and erases its line. Safe to call more than once.
func (sw *StatusWriter) Stop() {
	sw.once.Do(func() {
		close(sw.stop)
		sw.wg.Wait()
		fmt.Fprint(sw.w, "\r\033[K")
	})
}

func (sw *StatusWriter) draw() {
	defer sw.wg.Done()
	ticker := time.NewTicker(sw.kind.FPS)
	defer ticker.Stop()

	for i := 0; ; i++ {
		frame := sw.kind.Frames[i%len(sw.kind.Frames)]
		fmt.Fprintf(sw.w, "\r\033[K%s %s %s", frame, sw.label,
			FaintStyle.Render(formatElapsed(time.Since(sw.start))))
		select {
		case <-sw.stop:
			return
		case <-ticker.C:
		}
	}
}

// WithStatus runs fn while a status line is shown on w. When enabled is
// false fn runs without any output.
func WithStatus(w io.Writer, enabled bool, label string, fn func()) {
	if !enabled {
		fn()
		return
	}
	sw := NewStatusWriter(w, label)
	defer sw.Stop()
	fn()
}

// formatElapsed formats a duration for display in the status line.
func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < 10*time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
