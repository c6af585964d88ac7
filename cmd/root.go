// Package cmd implements the CLI command structure for ptm.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nibzard/ptm-go/internal/config"
	"github.com/nibzard/ptm-go/internal/logging"
	"github.com/nibzard/ptm-go/internal/render"
	"github.com/nibzard/ptm-go/internal/script"
	"github.com/nibzard/ptm-go/internal/task"
	"github.com/nibzard/ptm-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the ptm CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ptm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
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
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// With no subcommand, start the interactive shell
	subcommand := "shell"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "shell":
		return shellCommand(ctx, cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "run":
		return runCommand(ctx, cfg, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
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

// shellCommand runs the numbered menu on stdin/stdout.
func shellCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("ptm shell", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	shell := ui.NewShell(s.registry, stdin, stdout,
		ui.WithFormat(cfg.Format()),
		ui.WithShellLogger(s.logger),
	)
	return shell.Run(ctx)
}

// tuiCommand launches the terminal UI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("ptm tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	return ui.RunTUI(ctx, s.registry, cfg.Filter())
}

// runReport is the machine-readable output of the run command.
type runReport struct {
	Results []script.Result `json:"results" yaml:"results"`
	Failed  int             `json:"failed" yaml:"failed"`
	Tasks   []task.Snapshot `json:"tasks" yaml:"tasks"`
}

// runCommand executes a batch script against a fresh registry.
func runCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("ptm run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	stopOnError := fs.Bool("stop-on-error", false, "Stop at the first failing command")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("run requires exactly one script path")
	}

	sc, err := script.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	results, runErr := script.Run(ctx, s.registry, sc, script.Options{StopOnError: *stopOnError})
	failed := script.Failed(results)
	s.logger.Debug("script finished", "commands", len(results), "failed", failed)

	format := cfg.Format()
	tasks := s.registry.List(cfg.Filter())
	if format == render.FormatText {
		for _, r := range results {
			fmt.Fprintln(stdout, r.String())
		}
		fmt.Fprintln(stdout)
		if err := render.Tasks(stdout, format, tasks); err != nil {
			return err
		}
	} else {
		report := runReport{Results: results, Failed: failed, Tasks: tasks}
		if err := render.Document(stdout, format, report); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d commands failed", failed, len(results))
	}
	return nil
}

// tailCommand prints the latest session journal.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("ptm tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the journal (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the journal (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path, err := logging.FindLatestJournal(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest journal: %w", err)
	}
	if path == "" {
		fmt.Fprintln(stdout, "No journal files found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", path)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)

	return logging.Tail(ctx, stdout, path, *n, *follow)
}

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("ptm config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	fmt.Fprintln(stdout, "Config files:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(stdout, "  (none)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(stdout, "  %s\n", f)
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Values:")
	for _, field := range config.Fields() {
		value := cws.Config.Value(field)
		if value == "" {
			value = `""`
		}
		fmt.Fprintf(stdout, "  %-15s %s (%s)\n", field, value, cws.Sources[field])
	}
	return nil
}

func versionCommand() error {
	fmt.Fprintf(stdout, "ptm version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "ptm - Priority Task Manager")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ptm [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  shell           Interactive numbered menu (default command)")
	fmt.Fprintln(w, "  tui             Launch terminal UI")
	fmt.Fprintln(w, "  run <script>    Execute a JSON batch script")
	fmt.Fprintln(w, "  tail            Print the latest session journal")
	fmt.Fprintln(w, "  config          Show effective configuration and sources")
	fmt.Fprintln(w, "  version         Show version information")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run Options (use with 'run' command):")
	fmt.Fprintln(w, "  -stop-on-error")
	fmt.Fprintln(w, "        Stop at the first failing command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the journal (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
}
