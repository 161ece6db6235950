package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/export"
	"github.com/nibzard/tasklist-go/internal/tasklist"
)

// User errors for task commands.
var (
	ErrTaskNumberRequired  = errors.New("task number required")
	ErrTaskTextRequired    = errors.New("task text required")
	ErrReplacementRequired = errors.New("replacement text required")
)

// withSession opens a session, runs fn, and closes the session.
func withSession(ctx context.Context, cfg *config.Config, fn func(*session) error) error {
	s, err := openSession(ctx, cfg, cliLogger(cfg))
	if err != nil {
		return err
	}
	fnErr := fn(s)
	if err := s.Close(); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}

// parseTaskNumber turns a 1-based task number into an index into ctrl's list.
func parseTaskNumber(ctrl *tasklist.Controller, arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid task number: %s", arg)
	}
	if n < 1 || n > ctrl.Len() {
		return 0, fmt.Errorf("task number out of range: %d", n)
	}
	return n - 1, nil
}

func printOK() {
	fmt.Fprintln(stdout, "ok")
}

// lsCommand prints the numbered task list.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Print the stored JSON layout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	format := "text"
	if *asJSON {
		format = "json"
	}
	return withSession(ctx, cfg, func(s *session) error {
		return export.Write(stdout, s.ctrl.Tasks(), format)
	})
}

// addCommand appends a task built from the joined arguments.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return ErrTaskTextRequired
	}
	return withSession(ctx, cfg, func(s *session) error {
		s.ctrl.SetDraftText(text)
		if _, err := s.ctrl.SubmitTask(ctx); err != nil {
			return err
		}
		printOK()
		return nil
	})
}

// toggleCommand flips the completed flag of one task.
func toggleCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrTaskNumberRequired
	}
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	return withSession(ctx, cfg, func(s *session) error {
		idx, err := parseTaskNumber(s.ctrl, args[0])
		if err != nil {
			return err
		}
		if _, err := s.ctrl.ToggleComplete(ctx, idx); err != nil {
			return err
		}
		if task, _ := s.ctrl.Task(idx); task.Completed {
			fmt.Fprintln(stdout, "Task completed!")
			return nil
		}
		printOK()
		return nil
	})
}

// editCommand replaces the text of one task.
func editCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrTaskNumberRequired
	}
	if len(args) == 1 {
		return ErrReplacementRequired
	}
	text := strings.Join(args[1:], " ")
	return withSession(ctx, cfg, func(s *session) error {
		idx, err := parseTaskNumber(s.ctrl, args[0])
		if err != nil {
			return err
		}
		if _, err := s.ctrl.EditTask(ctx, idx, text, true); err != nil {
			return err
		}
		printOK()
		return nil
	})
}

// rmCommand deletes one task.
func rmCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrTaskNumberRequired
	}
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	return withSession(ctx, cfg, func(s *session) error {
		idx, err := parseTaskNumber(s.ctrl, args[0])
		if err != nil {
			return err
		}
		if _, err := s.ctrl.DeleteTask(ctx, idx); err != nil {
			return err
		}
		printOK()
		return nil
	})
}

// clearCommand deletes every task.
func clearCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return withSession(ctx, cfg, func(s *session) error {
		if err := s.ctrl.ClearAll(ctx); err != nil {
			return err
		}
		printOK()
		return nil
	})
}
