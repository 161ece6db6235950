package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{" error ", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.WarnLevel},
		{"chatty", log.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		input string
		want  log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
		{"yaml", log.TextFormatter},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormatter(tt.input); got != tt.want {
				t.Errorf("ParseFormatter(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromConfigLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := FromConfig(&buf, "warn", "text", false, false)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("shown warning", "key", "tasks")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn were logged: %q", out)
	}
	if !strings.Contains(out, "shown warning") || !strings.Contains(out, "key=tasks") {
		t.Errorf("warning missing: %q", out)
	}
	if !strings.Contains(out, Prefix) {
		t.Errorf("prefix missing: %q", out)
	}
}

func TestFromConfigJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := FromConfig(&buf, "debug", "json", false, false)
	logger.Debug("persisted tasks", "count", 2)

	out := buf.String()
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"msg":"persisted tasks"`) {
		t.Errorf("unexpected JSON output: %q", out)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Level != log.WarnLevel || opts.Formatter != log.TextFormatter || opts.Prefix != Prefix {
		t.Errorf("DefaultOptions() = %+v", opts)
	}
	if opts.ReportTimestamp || opts.ReportCaller {
		t.Error("timestamps and caller should be off by default")
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic.
	Discard().Error("dropped")
}

func TestNewRunLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	rl, err := NewRunLog(dir)
	if err != nil {
		t.Fatalf("NewRunLog: %v", err)
	}

	if rl.RunID == "" {
		t.Error("expected RunID to be set")
	}
	if rl.Path != filepath.Join(dir, rl.RunID+".log") {
		t.Errorf("Path = %q", rl.Path)
	}

	logger := New(rl.Writer(), Options{Level: log.InfoLevel, Formatter: log.LogfmtFormatter})
	logger.Info("tui started")
	if err := rl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(rl.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "tui started") {
		t.Errorf("log file content = %q", data)
	}
}

func TestNewRunLogEmptyDir(t *testing.T) {
	if _, err := NewRunLog(" "); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestRunLogCloseNil(t *testing.T) {
	var rl *RunLog
	if err := rl.Close(); err != nil {
		t.Errorf("Close on nil RunLog: %v", err)
	}
}

func TestRunID(t *testing.T) {
	id := runID()
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		t.Fatalf("runID() = %q, want <date>-<time>-<pid>", id)
	}
	if _, err := time.Parse("20060102-150405", parts[0]+"-"+parts[1]); err != nil {
		t.Errorf("runID() timestamp: %v", err)
	}
}

func TestFindLatestLog(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		got, err := FindLatestLog(filepath.Join(t.TempDir(), "nope"))
		if err != nil || got != "" {
			t.Errorf("FindLatestLog = %q, %v", got, err)
		}
	})

	t.Run("picks newest", func(t *testing.T) {
		dir := t.TempDir()
		older := filepath.Join(dir, "a.log")
		newer := filepath.Join(dir, "b.log")
		other := filepath.Join(dir, "c.txt")
		for _, p := range []string{older, newer, other} {
			if err := os.WriteFile(p, []byte("x\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
		now := time.Now()
		os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour))
		os.Chtimes(newer, now, now)
		os.Chtimes(other, now.Add(time.Hour), now.Add(time.Hour))

		got, err := FindLatestLog(dir)
		if err != nil {
			t.Fatal(err)
		}
		if got != newer {
			t.Errorf("FindLatestLog = %q, want %q", got, newer)
		}
	})
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\nfour\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n    int
		want string
	}{
		{0, "one\ntwo\nthree\nfour\n"},
		{2, "three\nfour\n"},
		{1, "four\n"},
		{10, "one\ntwo\nthree\nfour\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, path, tt.n, false); err != nil {
			t.Fatalf("TailLog(n=%d): %v", tt.n, err)
		}
		if buf.String() != tt.want {
			t.Errorf("TailLog(n=%d) = %q, want %q", tt.n, buf.String(), tt.want)
		}
	}
}

func TestTailLogFollowStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	if err := os.WriteFile(path, []byte("start\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	go func() {
		time.Sleep(50 * time.Millisecond)
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return
		}
		f.WriteString("later\n")
		f.Close()
	}()

	var buf syncBuffer
	if err := TailLog(ctx, &buf, path, 0, true); err != nil {
		t.Fatalf("TailLog: %v", err)
	}
	if got := buf.String(); got != "start\nlater\n" {
		t.Errorf("followed output = %q", got)
	}
}

func TestTailLogMissingFile(t *testing.T) {
	err := TailLog(context.Background(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "none.log"), 0, false)
	if err == nil {
		t.Error("expected error for missing file")
	}
}
