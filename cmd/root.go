// Package cmd implements the CLI command structure for tasklist.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/logging"
	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/tasklist"
	"github.com/nibzard/tasklist-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the tasklist CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasklist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// No command starts the interactive widget.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(ctx, cfg, remainingArgs)
	case "done", "toggle":
		return toggleCommand(ctx, cfg, remainingArgs)
	case "edit":
		return editCommand(ctx, cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(ctx, cfg, remainingArgs)
	case "clear":
		return clearCommand(ctx, cfg, remainingArgs)
	case "export":
		return exportCommand(ctx, cfg, remainingArgs)
	case "validate":
		return validateCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cfg, remainingArgs)
	case "log":
		return logCommand(ctx, cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// session is an open store plus the controller reading from it.
type session struct {
	store  storage.Store
	ctrl   *tasklist.Controller
	logger *log.Logger
}

func openSession(ctx context.Context, cfg *config.Config, logger *log.Logger) (*session, error) {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	ctrl := tasklist.New(ctx, store,
		tasklist.WithKey(cfg.Store.Key),
		tasklist.WithNoticeDuration(cfg.Notice),
		tasklist.WithLogger(logger),
	)
	return &session{store: store, ctrl: ctrl, logger: logger}, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (storage.Store, error) {
	store, err := storage.Open(ctx, storage.Options{
		Backend: cfg.Store.Backend,
		Path:    cfg.Store.Path,
		DSN:     cfg.Store.DSN,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}
	logger.Debug("store opened", "backend", cfg.Store.Backend, "path", cfg.Store.Path, "key", cfg.Store.Key)
	return store, nil
}

func (s *session) Close() error {
	s.ctrl.Close()
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}

// cliLogger logs to stderr for non-interactive commands.
func cliLogger(cfg *config.Config) *log.Logger {
	return logging.FromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
}

// tuiCommand launches the interactive widget.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return ui.ErrNotTTY
	}

	// The widget owns the terminal, so logs go to a per-run file.
	logger := logging.Discard()
	runLog, err := logging.NewRunLog(cfg.LogDir)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: run log disabled: %v\n", err)
	} else {
		defer runLog.Close()
		logger = logging.FromConfig(runLog.Writer(), cfg.LogLevel, cfg.LogFormat, true, cfg.LogCaller)
		logger.Info("tui started", "run", runLog.RunID, "backend", cfg.Store.Backend)
	}

	s, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	return ui.RunTUI(ctx, s.ctrl, ui.WithLogger(logger))
}

// logCommand prints the latest TUI run log.
func logCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist log", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logPath, err := logging.FindLatestLog(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)
	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

// configCommand prints the effective configuration or an example file.
func configCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	if len(cfg.Files) == 0 {
		fmt.Fprintln(stdout, "# no config files found; showing defaults and overrides")
	}
	for _, f := range cfg.Files {
		fmt.Fprintf(stdout, "# loaded %s\n", f)
	}
	out, err := cfg.TOML()
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, out)
	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "tasklist version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasklist - a small persistent to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasklist [global options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Interactive to-do list (default command)")
	fmt.Fprintln(w, "  ls [-json]          List tasks")
	fmt.Fprintln(w, "  add <text...>       Add a task")
	fmt.Fprintln(w, "  done <n>            Toggle task n completed (alias: toggle)")
	fmt.Fprintln(w, "  edit <n> <text...>  Replace the text of task n")
	fmt.Fprintln(w, "  rm <n>              Delete task n")
	fmt.Fprintln(w, "  clear               Delete all tasks")
	fmt.Fprintln(w, "  export              Export tasks (text|markdown|json|csv|pdf)")
	fmt.Fprintln(w, "  validate            Check the stored task list")
	fmt.Fprintln(w, "  config [-example]   Show effective configuration")
	fmt.Fprintln(w, "  log [-n N] [-f]     Show the latest TUI run log")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Task numbers start at 1, as printed by ls.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options (use with 'export' command):")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format (text|markdown|json|csv|pdf)")
	fmt.Fprintln(w, "  -o string")
	fmt.Fprintln(w, "        Write to file instead of stdout")
}
