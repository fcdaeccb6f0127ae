package logx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesTimestampedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, closer, err := New(dir, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.WithField("source", "pyenv").Debug("probe finished")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one log file, got %v (%v)", entries, err)
	}
	if !strings.HasSuffix(entries[0].Name(), ".log") {
		t.Fatalf("unexpected file name %q", entries[0].Name())
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "probe finished") || !strings.Contains(text, "source=pyenv") {
		t.Fatalf("log content = %q", text)
	}
}

func TestNewQuietDropsDebug(t *testing.T) {
	dir := t.TempDir()
	logger, closer, err := New(dir, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	_ = closer.Close()

	entries, _ := os.ReadDir(dir)
	data, _ := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Fatalf("log content = %q", data)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing happens")
}
