// Package ui provides the interactive terminal view of the task list.
package ui

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/logging"
	"github.com/nibzard/tasklist-go/internal/tasklist"
)

// ErrNotTTY is returned when the TUI is started without a terminal.
var ErrNotTTY = errors.New("tui requires a TTY")

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	logger *log.Logger
	input  io.Reader
	output io.Writer
}

// WithLogger sets the logger for key handling and persistence errors.
func WithLogger(l *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		c.logger = l
	}
}

// WithIO replaces the terminal streams. The TTY check is skipped.
func WithIO(in io.Reader, out io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.input = in
		c.output = out
	}
}

// RunTUI runs the interactive widget until the user quits or ctx is done.
func RunTUI(ctx context.Context, ctrl *tasklist.Controller, opts ...TUIOption) error {
	c := &tuiConfig{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.output != nil {
		progOpts = append(progOpts, tea.WithInput(c.input), tea.WithOutput(c.output))
	} else {
		if !IsTTY(os.Stdout) {
			return ErrNotTTY
		}
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	model := newTUIModel(ctx, ctrl, c.logger)
	return runProgram(ctx, model, progOpts...)
}

func runProgram(ctx context.Context, model *tuiModel, opts ...tea.ProgramOption) error {
	program := tea.NewProgram(model, opts...)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
