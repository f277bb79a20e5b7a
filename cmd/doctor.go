package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/logging"
	"github.com/nibzard/tasklist/internal/task"
	"github.com/nibzard/tasklist/internal/tasksvc"
)

// doctorTimeout bounds the reachability probe when no request timeout is set.
const doctorTimeout = 10 * time.Second

func doctorCommand(ctx context.Context, cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("tasks doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	cfg := cws.Config

	fmt.Fprintln(stdout, "Tasks Doctor")
	fmt.Fprintln(stdout, "============")
	fmt.Fprintln(stdout)

	allOK := true

	// Config
	fmt.Fprintln(stdout, "Config:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(stdout, "  ⚠️  No config file found (using defaults, environment and flags)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(stdout, "  ✅ Loaded %s\n", f)
	}
	fmt.Fprintf(stdout, "  ✅ Locale: %s\n", cfg.Locale)
	fmt.Fprintf(stdout, "  ✅ Theme: %s\n", cfg.Theme)
	if *verbose {
		fmt.Fprintln(stdout, "  Sources:")
		for _, field := range cws.SortedFields() {
			fmt.Fprintf(stdout, "    %-24s %s\n", field, cws.SourceOf(field))
		}
	}
	fmt.Fprintln(stdout)

	// Service
	logger := newLogger(cfg, stderr)
	client, err := newClient(cfg, logger, nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Task service: %s\n", client.Collection())
	probeCtx := ctx
	if cfg.RequestTimeout() == 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, doctorTimeout)
		defer cancel()
	}
	start := time.Now()
	tasks, err := client.List(probeCtx, tasksvc.ListOptions{})
	elapsed := time.Since(start).Round(time.Millisecond)
	var schemaErr *task.ValidationError
	var statusErr *tasksvc.StatusError
	switch {
	case err == nil:
		fmt.Fprintf(stdout, "  ✅ Reachable (%s)\n", elapsed)
		fmt.Fprintf(stdout, "  ✅ List matches schema (%d tasks)\n", len(tasks))
		if *verbose {
			for _, t := range tasks {
				state := "pending"
				if t.Completed {
					state = "completed"
				}
				fmt.Fprintf(stdout, "    - [%s] %s: %s\n", state, t.ID, t.Description)
			}
		}
	case errors.As(err, &schemaErr):
		fmt.Fprintf(stdout, "  ✅ Reachable (%s)\n", elapsed)
		fmt.Fprintln(stdout, "  ❌ List does not match schema:")
		fmt.Fprintf(stdout, "     - %v\n", err)
		allOK = false
	case errors.As(err, &statusErr):
		fmt.Fprintf(stdout, "  ❌ Service answered %d: %v\n", statusErr.StatusCode, err)
		allOK = false
	default:
		fmt.Fprintf(stdout, "  ❌ Unreachable: %v\n", err)
		allOK = false
	}
	fmt.Fprintln(stdout)

	// Log directory
	fmt.Fprintf(stdout, "Log directory: %s\n", cfg.LogDir)
	if _, err := os.Stat(cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(stdout, "  ⚠️  Not found (will be created by tui)")
		} else {
			fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
		if *verbose {
			if dir, err := logging.FindLogDir(cfg.LogDir, cfg.ServiceURL); err == nil {
				if runs, err := logging.FindLogRuns(dir); err == nil {
					fmt.Fprintf(stdout, "  Runs for this service: %d\n", len(runs))
				}
			}
		}
	}
	fmt.Fprintln(stdout)

	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed. tasks may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasks tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ServiceURL)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
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
