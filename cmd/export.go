package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/export"
	"github.com/nibzard/tasklist-go/internal/todo"
	"github.com/nibzard/tasklist-go/internal/ui"
)

// exportCommand renders the task list in a printable format.
func exportCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "", "Output format ("+strings.Join(export.Formats(), "|")+")")
	out := fs.String("o", "", "Write to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	f := exportFormat(*format, *out)
	if f == "pdf" && *out == "" && ui.IsTTY(stdout) {
		return errors.New("refusing to write PDF to a terminal; use -o")
	}

	var tasks []todo.Task
	err := withSession(ctx, cfg, func(s *session) error {
		tasks = s.ctrl.Tasks()
		return nil
	})
	if err != nil {
		return err
	}

	if *out == "" {
		return export.Write(stdout, tasks, f)
	}
	return writeExportFile(*out, tasks, f)
}

func writeExportFile(path string, tasks []todo.Task, format string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	if err := export.Write(file, tasks, format); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "exported %d tasks to %s\n", len(tasks), path)
	return nil
}

// exportFormat returns the lower-cased format name, falling back to the
// output file extension when none was given.
func exportFormat(format, out string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		return formatFromPath(out)
	}
	return f
}

// formatFromPath picks a format from the output file extension.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "markdown"
	case ".json":
		return "json"
	case ".csv":
		return "csv"
	case ".pdf":
		return "pdf"
	}
	return "text"
}
