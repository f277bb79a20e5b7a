// Package cmd implements the CLI command structure for tasks.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nibzard/tasklist/internal/app"
	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/logging"
	"github.com/nibzard/tasklist/internal/tasksvc"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams; tests swap them.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the tasks CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}
	cfg := cws.Config

	// Determine the subcommand; the terminal UI is the default
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "web":
		return webCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(ctx, cfg, remainingArgs)
	case "complete", "done":
		return completeCommand(ctx, cfg, remainingArgs)
	case "delete", "rm":
		return deleteCommand(ctx, cfg, remainingArgs)
	case "edit":
		return editCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, cws, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "devserver":
		return devserverCommand(ctx, cfg, remainingArgs)
	case "config-example":
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
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

func versionCommand() error {
	fmt.Fprintf(stdout, "tasks version %s\n", Version)
	return nil
}

// newLogger builds the console logger described by cfg.
func newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	return logging.New(w, logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
	})
}

// newClient builds the HTTP task service client. reg may be nil.
func newClient(cfg *config.Config, logger *log.Logger, reg prometheus.Registerer) (*tasksvc.Client, error) {
	client, err := tasksvc.NewClient(cfg.ServiceURL, cfg.CollectionPath,
		tasksvc.WithTimeout(cfg.RequestTimeout()),
		tasksvc.WithLogger(logger),
		tasksvc.WithRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("creating task client: %w", err)
	}
	return client, nil
}

// newApp builds the application context shared by every front end.
func newApp(cfg *config.Config, svc tasksvc.Service, logger *log.Logger) *app.App {
	return app.New(svc, app.Options{
		Locale: cfg.TaskLocale(),
		Theme:  cfg.InitialTheme(),
		Logger: logger,
	})
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasks - A to-do list client for a remote task service")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasks [options] [command] [command options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui               Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  web               Serve the to-do page to a browser")
	fmt.Fprintln(w, "  ls                List pending and completed tasks")
	fmt.Fprintln(w, "  add               Add a task")
	fmt.Fprintln(w, "  complete ID       Mark a task completed")
	fmt.Fprintln(w, "  delete ID         Delete a task")
	fmt.Fprintln(w, "  edit ID           Change a task's description, category or deadline")
	fmt.Fprintln(w, "  doctor            Check config and service reachability")
	fmt.Fprintln(w, "  tail              Tail the latest terminal UI log")
	fmt.Fprintln(w, "  devserver         Run a local in-memory task service")
	fmt.Fprintln(w, "  config-example    Print an example tasks.toml")
	fmt.Fprintln(w, "  version           Show version information")
	fmt.Fprintln(w, "  help              Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -pending       Only pending tasks")
	fmt.Fprintln(w, "  -completed     Only completed tasks")
	fmt.Fprintln(w, "  -json          Print the raw task list as JSON")
	fmt.Fprintln(w, "  -category      Comma-separated categories to show")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add/Edit Options:")
	fmt.Fprintln(w, "  -d string          Description")
	fmt.Fprintln(w, "  -c string          Category")
	fmt.Fprintln(w, "  -deadline string   Deadline (YYYY-MM-DD)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Web Options:")
	fmt.Fprintln(w, "  -addr string   Listen address (default from web_addr)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Devserver Options:")
	fmt.Fprintln(w, "  -addr string   Listen address (default from dev_addr)")
	fmt.Fprintln(w, "  -data string   JSON file to persist tasks (default in memory)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options:")
	fmt.Fprintln(w, "  -f, --follow   Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int         Number of lines to show (0 = all)")
}
