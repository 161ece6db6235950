package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/tasklist-go/internal/todo"
)

// setupCLI isolates config lookup and points the file store at a temp file.
// It returns the store path.
func setupCLI(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, name := range []string{
		"TASKLIST_STORE", "TASKLIST_STORE_DSN", "TASKLIST_STORE_KEY",
		"TASKLIST_NOTICE_DURATION", "TASKLIST_LOG_LEVEL", "TASKLIST_LOG_FORMAT",
		"TASKLIST_LOG_TIMESTAMPS", "TASKLIST_LOG_CALLER",
	} {
		t.Setenv(name, "")
	}
	storePath := filepath.Join(t.TempDir(), "store.json")
	t.Setenv("TASKLIST_STORE_PATH", storePath)
	t.Setenv("TASKLIST_LOG_DIR", filepath.Join(home, "logs"))
	{
		wd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Chdir(wd) })
	}
	return storePath
}

// runCLI runs the CLI and captures stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	defer func() { stdout, stderr = oldOut, oldErr }()

	err := Run(context.Background(), args)
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("tasklist %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestRun(t *testing.T) {
	setupCLI(t)

	for _, args := range [][]string{{"--help"}, {"-h"}, {"help"}} {
		out, err := runCLI(t, args...)
		if err != nil {
			t.Errorf("%v: expected no error, got %v", args, err)
		}
		if !strings.Contains(out, "Commands:") {
			t.Errorf("%v: usage not printed", args)
		}
	}

	for _, args := range [][]string{{"--version"}, {"-v"}, {"version"}} {
		out, err := runCLI(t, args...)
		if err != nil {
			t.Errorf("%v: expected no error, got %v", args, err)
		}
		if out != "tasklist version dev\n" {
			t.Errorf("%v: got %q", args, out)
		}
	}

	t.Run("unknown command returns error", func(t *testing.T) {
		_, err := runCLI(t, "frobnicate")
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})

	t.Run("bad global flag value", func(t *testing.T) {
		_, err := runCLI(t, "-store", "redis", "ls")
		if err == nil || !strings.Contains(err.Error(), "unknown store backend") {
			t.Errorf("got %v", err)
		}
	})
}

func TestEmptyList(t *testing.T) {
	setupCLI(t)
	if out := mustRun(t, "ls"); out != "No tasks added yet.\n" {
		t.Errorf("ls = %q", out)
	}
	if out := mustRun(t, "ls", "-json"); out != "[]\n" {
		t.Errorf("ls -json = %q", out)
	}
}

func TestScenario(t *testing.T) {
	storePath := setupCLI(t)

	if out := mustRun(t, "add", "buy", "milk"); out != "ok\n" {
		t.Errorf("add = %q", out)
	}
	mustRun(t, "add", "walk dog")
	if out := mustRun(t, "done", "1"); out != "Task completed!\n" {
		t.Errorf("done = %q", out)
	}
	mustRun(t, "rm", "2")

	if out := mustRun(t, "ls"); out != "  1. [x] buy milk\n" {
		t.Errorf("ls = %q", out)
	}

	if _, err := os.Stat(storePath); err != nil {
		t.Fatalf("store file not written: %v", err)
	}
	out := mustRun(t, "ls", "-json")
	tasks, err := todo.Decode([]byte(out))
	if err != nil {
		t.Fatalf("decode ls -json: %v", err)
	}
	if !todo.Equal(tasks, []todo.Task{{Text: "buy milk", Completed: true}}) {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestToggleBack(t *testing.T) {
	setupCLI(t)
	mustRun(t, "add", "a")
	mustRun(t, "toggle", "1")
	if out := mustRun(t, "toggle", "1"); out != "ok\n" {
		t.Errorf("second toggle = %q, want ok", out)
	}
	if out := mustRun(t, "ls"); out != "  1. [ ] a\n" {
		t.Errorf("ls = %q", out)
	}
}

func TestEditAndClear(t *testing.T) {
	setupCLI(t)
	mustRun(t, "add", "old")
	mustRun(t, "done", "1")
	mustRun(t, "edit", "1", "new", "text")
	if out := mustRun(t, "ls"); out != "  1. [x] new text\n" {
		t.Errorf("ls after edit = %q", out)
	}

	mustRun(t, "add", "second")
	mustRun(t, "clear")
	if out := mustRun(t, "ls"); out != "No tasks added yet.\n" {
		t.Errorf("ls after clear = %q", out)
	}
}

func TestUserErrors(t *testing.T) {
	setupCLI(t)
	mustRun(t, "add", "only")

	tests := []struct {
		args []string
		want string
		is   error
	}{
		{args: []string{"add"}, is: ErrTaskTextRequired},
		{args: []string{"add", "  "}, is: ErrTaskTextRequired},
		{args: []string{"done"}, is: ErrTaskNumberRequired},
		{args: []string{"rm"}, is: ErrTaskNumberRequired},
		{args: []string{"edit"}, is: ErrTaskNumberRequired},
		{args: []string{"edit", "1"}, is: ErrReplacementRequired},
		{args: []string{"done", "x"}, want: "invalid task number: x"},
		{args: []string{"done", "0"}, want: "task number out of range: 0"},
		{args: []string{"rm", "2"}, want: "task number out of range: 2"},
		{args: []string{"edit", "5", "text"}, want: "task number out of range: 5"},
		{args: []string{"clear", "now"}, want: "unexpected arguments"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}

	if out := mustRun(t, "ls"); out != "  1. [ ] only\n" {
		t.Errorf("failed commands changed the list: %q", out)
	}
}

func TestStoreKeyFlag(t *testing.T) {
	setupCLI(t)
	mustRun(t, "-store-key", "work", "add", "deploy")
	if out := mustRun(t, "ls"); out != "No tasks added yet.\n" {
		t.Errorf("default key saw work tasks: %q", out)
	}
	if out := mustRun(t, "-store-key", "work", "ls"); out != "  1. [ ] deploy\n" {
		t.Errorf("ls work = %q", out)
	}
}

func TestSQLiteBackend(t *testing.T) {
	setupCLI(t)
	db := filepath.Join(t.TempDir(), "tasks.db")
	mustRun(t, "-store", "sqlite", "-store-path", db, "add", "in sqlite")
	out := mustRun(t, "-store", "sqlite", "-store-path", db, "ls")
	if out != "  1. [ ] in sqlite\n" {
		t.Errorf("ls = %q", out)
	}
}

func TestExportCommand(t *testing.T) {
	setupCLI(t)
	mustRun(t, "add", "buy milk")
	mustRun(t, "add", "walk dog")
	mustRun(t, "done", "2")

	if out := mustRun(t, "export", "-format", "markdown"); out != "# To-Do List\n\n- [ ] buy milk\n- [x] walk dog\n" {
		t.Errorf("markdown = %q", out)
	}

	csvPath := filepath.Join(t.TempDir(), "tasks.csv")
	mustRun(t, "export", "-o", csvPath)
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(records) != 3 || records[2][2] != "true" {
		t.Errorf("csv export = %q (%v)", data, err)
	}

	pdfPath := filepath.Join(t.TempDir(), "tasks.pdf")
	mustRun(t, "export", "-o", pdfPath)
	pdf, err := os.ReadFile(pdfPath)
	if err != nil || !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Errorf("pdf export invalid (%v)", err)
	}

	badPath := filepath.Join(t.TempDir(), "tasks.out")
	if _, err := runCLI(t, "export", "-format", "docx", "-o", badPath); err == nil ||
		!strings.Contains(err.Error(), "unknown export format: docx") {
		t.Errorf("unknown format error = %v", err)
	}
	if _, err := os.Stat(badPath); !os.IsNotExist(err) {
		t.Error("failed export left a file behind")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"":          "text",
		"a.txt":     "text",
		"a.MD":      "markdown",
		"a.json":    "json",
		"a.csv":     "csv",
		"out/a.pdf": "pdf",
	}
	for in, want := range tests {
		if got := formatFromPath(in); got != want {
			t.Errorf("formatFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		format, out, want string
	}{
		{"", "", "text"},
		{"", "tasks.PDF", "pdf"},
		{"PDF", "", "pdf"},
		{" Markdown ", "", "markdown"},
		{"json", "tasks.csv", "json"},
	}
	for _, tt := range tests {
		if got := exportFormat(tt.format, tt.out); got != tt.want {
			t.Errorf("exportFormat(%q, %q) = %q, want %q", tt.format, tt.out, got, tt.want)
		}
	}
}

func TestExportUpperCaseFormat(t *testing.T) {
	setupCLI(t)
	mustRun(t, "add", "a")
	path := filepath.Join(t.TempDir(), "tasks.out")
	mustRun(t, "export", "-format", "PDF", "-o", path)
	data, err := os.ReadFile(path)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("PDF export with upper-case format failed (%v)", err)
	}
}

func TestValidateCommand(t *testing.T) {
	storePath := setupCLI(t)

	out := mustRun(t, "validate")
	if !strings.Contains(out, "Nothing stored yet") {
		t.Errorf("validate on empty store = %q", out)
	}

	mustRun(t, "add", "a")
	out = mustRun(t, "validate")
	if !strings.Contains(out, "Valid (1 tasks, 0 completed)") {
		t.Errorf("validate = %q", out)
	}

	bad := `{"tasks":"[{\"text\":1}]"}`
	if err := os.WriteFile(storePath, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "validate")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(out, "[0].text") {
		t.Errorf("validate output missing error path: %q", out)
	}

	// The controller treats the same value as an empty list.
	if out := mustRun(t, "ls"); out != "No tasks added yet.\n" {
		t.Errorf("ls over invalid data = %q", out)
	}
}

func TestConfigCommand(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "config", "-example")
	if !strings.Contains(out, "[store]") {
		t.Errorf("example config = %q", out)
	}

	// A saved example is a working project config.
	if err := os.WriteFile("tasklist.toml", []byte(out), 0o644); err != nil {
		t.Fatal(err)
	}
	mustRun(t, "add", "after example")
	if got := mustRun(t, "ls"); got != "  1. [ ] after example\n" {
		t.Errorf("ls with example config = %q", got)
	}

	if err := os.WriteFile("tasklist.toml", []byte("[store]\nkey = \"proj\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out = mustRun(t, "config")
	if !strings.Contains(out, "# loaded tasklist.toml") || !strings.Contains(out, `key = "proj"`) {
		t.Errorf("config = %q", out)
	}
}

func TestLogCommand(t *testing.T) {
	setupCLI(t)
	if out := mustRun(t, "log"); out != "No log files found.\n" {
		t.Errorf("log = %q", out)
	}

	dir := os.Getenv("TASKLIST_LOG_DIR")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "run.log"), []byte("a\nb\nc\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := mustRun(t, "log", "-n", "1")
	if !strings.HasSuffix(out, "\nc\n") || strings.Contains(out, "\nb\n") {
		t.Errorf("log -n 1 = %q", out)
	}
}
