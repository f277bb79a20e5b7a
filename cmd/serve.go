package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/devserver"
	"github.com/nibzard/tasklist/internal/logging"
	"github.com/nibzard/tasklist/internal/ui"
	"github.com/nibzard/tasklist/internal/web"
)

// tuiCommand launches the terminal UI. Logs go to a per-run file so they
// do not scribble over the alternate screen.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasks tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	var logger *log.Logger
	runLog, err := logging.NewRunLogger(cfg.LogDir, cfg.ServiceURL)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: run log disabled: %v\n", err)
		logger = log.New(io.Discard)
	} else {
		defer runLog.Close()
		logger = logging.NewFile(runLog.Writer(), cfg.LogLevel)
		logger.Info("tui started", "service_url", cfg.ServiceURL, "run_id", runLog.RunID)
	}

	client, err := newClient(cfg, logger, nil)
	if err != nil {
		return err
	}
	return ui.RunTUI(ctx, newApp(cfg, client, logger))
}

// webCommand serves the browser front end.
func webCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasks web", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", cfg.WebAddr, "Listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logger := newLogger(cfg, stderr)
	reg := web.NewRegistry()
	client, err := newClient(cfg, logger, reg)
	if err != nil {
		return err
	}
	srv, err := web.New(newApp(cfg, client, logger), web.Options{Logger: logger, Registry: reg})
	if err != nil {
		return err
	}
	logger.Info("using task service", "url", client.Collection())
	return srv.Run(ctx, *addr)
}

// devserverCommand runs the local task service.
func devserverCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasks devserver", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", cfg.DevAddr, "Listen address")
	data := fs.String("data", cfg.DevDataFile, "JSON file to persist tasks (empty keeps them in memory)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logger := newLogger(cfg, stderr)
	store, err := devserver.NewStore(*data, cfg.TaskLocale().Categories())
	if err != nil {
		return fmt.Errorf("opening task store: %w", err)
	}
	if *data != "" {
		logger.Info("persisting tasks", "path", *data, "tasks", store.Len())
	}
	return devserver.New(store, logger).Run(ctx, *addr)
}
