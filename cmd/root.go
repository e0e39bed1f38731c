// Package cmd implements the CLI command structure for duke.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/duke-go/internal/command"
	"github.com/nibzard/duke-go/internal/config"
	"github.com/nibzard/duke-go/internal/logging"
	"github.com/nibzard/duke-go/internal/session"
	"github.com/nibzard/duke-go/internal/storage"
	"github.com/nibzard/duke-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the duke CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("duke", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// With no arguments, or only flags, start the interactive loop.
	subcommand := "repl"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "repl":
		return replCommand(ctx, cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "exec":
		return execCommand(cfg, remainingArgs)
	case "ls":
		return lsCommand(cfg, remainingArgs)
	case "history":
		return historyCommand(cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// replCommand runs the interactive line loop on stdin and stdout.
func replCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	sess, err := openSession(cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	runErr := sess.Run(ctx, os.Stdin, os.Stdout)
	closeErr := sess.Close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}

// tuiCommand launches the terminal UI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("duke tui", flag.ContinueOnError)
	inline := fs.Bool("inline", false, "Render inline instead of using the alternate screen")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	// The TUI owns the terminal, so diagnostics are dropped while it runs.
	sess, err := openSession(cfg, logging.Discard())
	if err != nil {
		return err
	}
	runErr := ui.RunTUI(ctx, sess, ui.WithAltScreen(!*inline), ui.WithDataFile(cfg.DataFile))
	closeErr := sess.Close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}

// execCommand runs a single command against the data file.
func execCommand(cfg *config.Config, args []string) error {
	line := strings.Join(args, " ")
	if strings.TrimSpace(line) == "" {
		return fmt.Errorf("exec requires a command, e.g. duke exec todo read book")
	}

	sess, err := openSession(cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	res := sess.Handle(line)
	fmt.Println(res.Text())
	if err := sess.Close(); err != nil {
		return err
	}
	if res.Err != nil {
		return fmt.Errorf("command failed: %w", res.Err)
	}
	return nil
}

// lsCommand prints the stored task list without starting a session.
func lsCommand(cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	path := cfg.DataFile
	if len(args) == 1 {
		path = args[0]
	}

	list, err := storage.Load(path)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	res := command.New(list).Execute("list")
	fmt.Println(res.Text())
	return nil
}

// historyCommand prints the latest session history for the data file.
func historyCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("duke history", flag.ContinueOnError)
	n := fs.Int("n", 0, "Number of commands to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.DataFile)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Println("No history found.")
		return nil
	}

	entries, err := logging.ReadEntries(logPath)
	if err != nil {
		return err
	}
	fmt.Printf("History: %s\n\n", logPath)
	return logging.WriteEntries(os.Stdout, entries, *n)
}

// configCommand prints the effective configuration and where each value came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("duke config", flag.ContinueOnError)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Print(config.ExampleConfig())
		return nil
	}

	if len(cws.Files) == 0 {
		fmt.Println("Config files: (none)")
	} else {
		fmt.Println("Config files:")
		for _, f := range cws.Files {
			fmt.Printf("  %s\n", f)
		}
	}
	fmt.Println()
	for _, field := range config.Fields() {
		fmt.Printf("%-15s %-40s (%s)\n", field, cws.Config.Value(field), cws.Sources[field])
	}
	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("duke version %s\n", Version)
	return nil
}

func newLogger(cfg *config.Config) *log.Logger {
	return logging.New(os.Stderr, logging.Options{
		Level:           cfg.LogLevel,
		Format:          cfg.LogFormat,
		ReportTimestamp: cfg.LogTimestamps,
		ReportCaller:    cfg.LogCaller,
		Prefix:          "duke",
	})
}

// openSession loads the task list and wires a session around it.
func openSession(cfg *config.Config, logger *log.Logger) (*session.Session, error) {
	list, err := storage.Load(cfg.DataFile)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	logger.Debug("loaded tasks", "path", cfg.DataFile, "count", list.Size())

	opts := []session.Option{
		session.WithDataFile(cfg.DataFile),
		session.WithAutosave(cfg.Autosave),
		session.WithLogger(logger),
	}
	if cfg.History {
		h, err := logging.NewHistory(cfg.LogDir, cfg.DataFile)
		if err != nil {
			logger.Warn("history disabled", "err", err)
		} else {
			logger.Debug("recording history", "path", h.LogPath)
			opts = append(opts, session.WithHistory(h))
		}
	}

	proc := command.New(list, command.WithLogger(logger))
	return session.New(proc, opts...), nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Duke - a command-line task tracker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  duke [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  repl            Interactive session on stdin/stdout (default command)")
	fmt.Fprintln(w, "  tui             Launch terminal UI")
	fmt.Fprintln(w, "  exec <command>  Run one command, e.g. exec todo read book")
	fmt.Fprintln(w, "  ls [file]       Print the task list")
	fmt.Fprintln(w, "  history         Show the latest session history")
	fmt.Fprintln(w, "  config          Show the effective configuration")
	fmt.Fprintln(w, "  version         Show version information")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Session commands:")
	fmt.Fprintln(w, "  todo <description>")
	fmt.Fprintln(w, "  deadline <description> /by <date>")
	fmt.Fprintln(w, "  event <description> /at <date>")
	fmt.Fprintln(w, "  list | done <n> | delete <n> | find <keyword> | bye")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tui Options (use with 'tui' command):")
	fmt.Fprintln(w, "  -inline")
	fmt.Fprintln(w, "        Render inline instead of using the alternate screen")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "History Options (use with 'history' command):")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of commands to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
}
