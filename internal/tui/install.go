package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const logTail = 8

// InstallModel renders a running task: a spinner with the title, the tail of
// its streamed output, then a terminal status line.
type InstallModel struct {
	title       string
	spinner     spinner.Model
	lines       []string
	total       int
	done        bool
	interrupted bool
	err         error
	started     time.Time
	elapsed     time.Duration
}

// NewInstallModel creates a model titled e.g. "Installing Python 3.12".
func NewInstallModel(title string) InstallModel {
	return InstallModel{
		title:   title,
		spinner: newSpinner(),
		started: time.Now(),
	}
}

// Init satisfies the tea.Model interface.
func (m InstallModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update satisfies the tea.Model interface.
func (m InstallModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case LogLineMsg:
		m.total++
		m.lines = append(m.lines, msg.Line)
		if len(m.lines) > logTail {
			m.lines = m.lines[len(m.lines)-logTail:]
		}
		return m, nil

	case TaskDoneMsg:
		m.done = true
		m.err = msg.Err
		m.elapsed = time.Since(m.started)
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.interrupted = true
			m.elapsed = time.Since(m.started)
			return m, tea.Quit
		}
	}
	return m, nil
}

// View satisfies the tea.Model interface.
func (m InstallModel) View() string {
	var b strings.Builder
	switch {
	case !m.done:
		fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), TitleStyle.Render(m.title))
	case m.interrupted:
		fmt.Fprintf(&b, "%s %s\n", WarnStyle.Render("!"), TitleStyle.Render(m.title))
	case m.err != nil:
		fmt.Fprintf(&b, "%s %s\n", ErrorStyle.Render("✗"), TitleStyle.Render(m.title))
	default:
		fmt.Fprintf(&b, "%s %s\n", OKStyle.Render("✓"), TitleStyle.Render(m.title))
	}

	if hidden := m.total - len(m.lines); hidden > 0 && !m.done {
		b.WriteString(FaintStyle.Render(fmt.Sprintf("  ... %d earlier lines", hidden)))
		b.WriteByte('\n')
	}
	if !m.done || m.err != nil {
		for _, line := range m.lines {
			b.WriteString(FaintStyle.Render("  " + line))
			b.WriteByte('\n')
		}
	}

	switch {
	case m.interrupted:
		b.WriteString(WarnStyle.Render("  interrupted"))
		b.WriteByte('\n')
	case m.done && m.err != nil:
		b.WriteString(ErrorStyle.Render("  failed: " + m.err.Error()))
		b.WriteByte('\n')
	case m.done:
		b.WriteString(OKStyle.Render("  done in " + formatElapsed(m.elapsed)))
		b.WriteByte('\n')
	}
	return b.String()
}

// Done reports whether the task finished or was interrupted.
func (m InstallModel) Done() bool { return m.done }

// Interrupted reports whether the user pressed ctrl+c.
func (m InstallModel) Interrupted() bool { return m.interrupted }

// Err returns the task's terminal error.
func (m InstallModel) Err() error { return m.err }
