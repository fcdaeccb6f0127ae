package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func discoveryModel() ProgressModel {
	m := NewProgressModel("Discovering runtimes", []Column{
		{Header: "LANGUAGE", Width: 10},
		{Header: "STATUS", Width: 10},
		{Header: "VERSIONS", Width: 20},
	})
	m.AddRow("python", []string{"Python", "probing", ""})
	m.AddRow("php", []string{"PHP", "pending", ""})
	return m
}

func TestRowUpdateMsg(t *testing.T) {
	m := discoveryModel()

	updated, _ := m.Update(RowUpdateMsg{
		Key:    "python",
		Fields: map[string]string{"STATUS": "done", "VERSIONS": "3.12 3.11"},
	})
	m = updated.(ProgressModel)

	if m.rows[0].Fields[1] != "done" {
		t.Errorf("expected STATUS=done, got %q", m.rows[0].Fields[1])
	}
	if m.rows[0].Fields[2] != "3.12 3.11" {
		t.Errorf("expected VERSIONS updated, got %q", m.rows[0].Fields[2])
	}
	if m.rows[1].Fields[1] != "pending" {
		t.Errorf("expected row 2 STATUS=pending, got %q", m.rows[1].Fields[1])
	}
}

func TestRowUpdateMsg_UnknownKey(t *testing.T) {
	m := discoveryModel()

	updated, _ := m.Update(RowUpdateMsg{
		Key:    "ruby",
		Fields: map[string]string{"STATUS": "done"},
	})
	m = updated.(ProgressModel)

	if m.rows[0].Fields[1] != "probing" {
		t.Errorf("expected STATUS unchanged, got %q", m.rows[0].Fields[1])
	}
}

func TestWorkDoneMsg(t *testing.T) {
	updated, cmd := discoveryModel().Update(WorkDoneMsg{})
	m := updated.(ProgressModel)

	if !m.Done() {
		t.Error("expected Done() to be true after WorkDoneMsg")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
}

func TestErrorMsg(t *testing.T) {
	updated, cmd := discoveryModel().Update(ErrorMsg{Err: errors.New("probe crashed")})
	m := updated.(ProgressModel)

	if !m.Done() || m.Err() == nil {
		t.Error("expected a finished model carrying the error")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
	if !strings.Contains(m.View(), "Error:") {
		t.Error("expected error view")
	}
}

func TestView(t *testing.T) {
	view := discoveryModel().View()

	for _, want := range []string{"Discovering runtimes", "LANGUAGE", "STATUS", "Python", "PHP", "probing", "Processing 0/2"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q:\n%s", want, view)
		}
	}
}

func TestViewHidesSpinnerWhenDone(t *testing.T) {
	updated, _ := discoveryModel().Update(WorkDoneMsg{})
	m := updated.(ProgressModel)

	if strings.Contains(m.View(), "Processing") {
		t.Error("expected view to NOT contain Processing footer when done")
	}
}

func TestSpinnerTickStopsAfterDone(t *testing.T) {
	m := discoveryModel()
	_, cmd := m.Update(m.spinner.Tick())
	if cmd == nil {
		t.Error("expected next tick while running")
	}

	updated, _ := m.Update(WorkDoneMsg{})
	m = updated.(ProgressModel)
	if _, cmd := m.Update(spinner.TickMsg{}); cmd != nil {
		t.Error("expected no tick command after done")
	}
}

func TestProgressCounts(t *testing.T) {
	m := discoveryModel()
	m.AddRow("js", []string{"JavaScript", "done", "20"})

	processed, total := m.progressCounts()
	if total != 3 || processed != 1 {
		t.Errorf("progressCounts = %d/%d, want 1/3", processed, total)
	}
}

func TestCtrlC(t *testing.T) {
	updated, cmd := discoveryModel().Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m := updated.(ProgressModel)

	if !m.Done() {
		t.Error("expected Done() to be true after ctrl+c")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
}

func TestNonEmptyOrDash(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "-"},
		{"  ", "-"},
		{"hello", "hello"},
		{" hello ", "hello"},
	}
	for _, tt := range tests {
		if got := NonEmptyOrDash(tt.input); got != tt.want {
			t.Errorf("NonEmptyOrDash(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"short", 10, "short"},
		{"a longer string here", 10, "a longe..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateWithEllipsis(tt.input, tt.max); got != tt.want {
			t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}
