package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// validateCommand checks the raw stored value against the snapshot schema.
func validateCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logger := cliLogger(cfg)
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintf(stdout, "Store: %s", cfg.Store.Backend)
	if cfg.Store.Path != "" {
		fmt.Fprintf(stdout, " (%s)", cfg.Store.Path)
	}
	fmt.Fprintf(stdout, "\nKey:   %s\n", cfg.Store.Key)

	data, found, err := store.Get(ctx, cfg.Store.Key)
	if err != nil {
		return fmt.Errorf("reading stored tasks: %w", err)
	}
	if !found {
		fmt.Fprintln(stdout, "✅ Nothing stored yet (empty list)")
		return nil
	}

	tasks, decodeErr := todo.Decode(data)
	if decodeErr == nil {
		fmt.Fprintf(stdout, "✅ Valid (%d tasks, %d completed)\n", len(tasks), todo.CountCompleted(tasks))
		return nil
	}

	fmt.Fprintln(stdout, "❌ Validation failed:")
	problems := []error{decodeErr}
	if !errors.Is(decodeErr, todo.ErrEmptySnapshot) {
		if result := todo.Validate(data); !result.Valid {
			problems = result.Errors
		}
	}
	for _, e := range problems {
		fmt.Fprintf(stdout, "   - %v\n", e)
	}
	return errors.New("stored tasks are invalid")
}
