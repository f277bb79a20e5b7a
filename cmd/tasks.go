package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/tasklist/internal/app"
	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/task"
	"github.com/nibzard/tasklist/internal/tasksvc"
	"github.com/nibzard/tasklist/internal/utils"
	"github.com/nibzard/tasklist/internal/view"
)

// lsCommand prints the task list.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasks ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pending := fs.Bool("pending", false, "Only pending tasks")
	completed := fs.Bool("completed", false, "Only completed tasks")
	asJSON := fs.Bool("json", false, "Print the raw task list as JSON")
	categories := fs.String("category", "", "Comma-separated categories to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *pending && *completed {
		return fmt.Errorf("--pending and --completed are mutually exclusive")
	}

	opts := tasksvc.ListOptions{}
	switch {
	case *pending:
		opts = tasksvc.OnlyPending()
	case *completed:
		opts = tasksvc.OnlyCompleted()
	}

	client, err := newClient(cfg, newLogger(cfg, stderr), nil)
	if err != nil {
		return err
	}
	tasks, err := client.List(ctx, opts)
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}
	if *categories != "" {
		tasks = filterCategories(tasks, utils.SplitAndTrim(*categories, ","))
	}

	if *asJSON {
		if tasks == nil {
			tasks = []task.Task{}
		}
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	locale := cfg.TaskLocale()
	v := view.Render(tasks, locale)
	words := view.StringsFor(locale)
	if !*completed {
		printItems(stdout, words.Pending, v.Pending, words)
	}
	if !*pending {
		printItems(stdout, words.Completed, v.Completed, words)
	}
	return nil
}

// addCommand creates a task and prints the refreshed list.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasks add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	desc := fs.String("d", "", "Description")
	fs.StringVar(desc, "description", "", "Description")
	category := fs.String("c", "", "Category")
	fs.StringVar(category, "category", "", "Category")
	deadline := fs.String("deadline", "", "Deadline (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	// Allow the description as a positional argument.
	if *desc == "" && fs.NArg() > 0 {
		*desc = strings.Join(fs.Args(), " ")
	} else if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	locale := cfg.TaskLocale()
	nt := task.NewTask{Description: *desc, Category: *category, Deadline: *deadline}.Normalize()
	if err := nt.Validate(locale); err != nil {
		return fmt.Errorf("invalid task (categories: %s): %w", strings.Join(locale.Categories(), ", "), err)
	}

	return runAction(ctx, cfg, func(a *app.App) (app.Snapshot, error) {
		return a.AddTask(ctx, nt)
	})
}

// completeCommand marks a task completed and prints the refreshed list.
func completeCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, err := parseID("tasks complete", args)
	if err != nil {
		return err
	}
	return runAction(ctx, cfg, func(a *app.App) (app.Snapshot, error) {
		return a.CompleteTask(ctx, id)
	})
}

// deleteCommand deletes a task and prints the refreshed list.
func deleteCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, err := parseID("tasks delete", args)
	if err != nil {
		return err
	}
	return runAction(ctx, cfg, func(a *app.App) (app.Snapshot, error) {
		return a.DeleteTask(ctx, id)
	})
}

// editCommand updates a task and prints the refreshed list.
func editCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasks edit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	desc := fs.String("d", "", "Description")
	fs.StringVar(desc, "description", "", "Description")
	category := fs.String("c", "", "Category")
	fs.StringVar(category, "category", "", "Category")
	deadline := fs.String("deadline", "", "Deadline (YYYY-MM-DD)")

	id, err := parseIDWithFlags(fs, args)
	if err != nil {
		return err
	}

	u := task.Update{
		Description: strings.TrimSpace(*desc),
		Category:    strings.TrimSpace(*category),
		Deadline:    strings.TrimSpace(*deadline),
	}
	if err := u.Validate(cfg.TaskLocale()); err != nil {
		return fmt.Errorf("invalid update: %w", err)
	}
	return runAction(ctx, cfg, func(a *app.App) (app.Snapshot, error) {
		return a.EditTask(ctx, id, u)
	})
}

// runAction performs one mutation through the app, then prints the list
// from the single refresh that followed it.
func runAction(ctx context.Context, cfg *config.Config, action func(*app.App) (app.Snapshot, error)) error {
	logger := newLogger(cfg, stderr)
	client, err := newClient(cfg, logger, nil)
	if err != nil {
		return err
	}
	a := newApp(cfg, client, logger)

	snap, actionErr := action(a)
	if snap.Err == nil {
		words := a.Strings()
		printItems(stdout, words.Pending, snap.View.Pending, words)
		printItems(stdout, words.Completed, snap.View.Completed, words)
	}
	if actionErr != nil {
		return actionErr
	}
	if snap.Err != nil {
		return fmt.Errorf("refresh failed: %w", snap.Err)
	}
	return nil
}

// filterCategories keeps tasks whose category matches one of cats, ignoring case.
func filterCategories(tasks []task.Task, cats []string) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		for _, c := range cats {
			if strings.EqualFold(t.Category, c) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

func parseID(name string, args []string) (task.ID, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return parseIDWithFlags(fs, args)
}

// parseIDWithFlags accepts the task id before or after the flags.
func parseIDWithFlags(fs *flag.FlagSet, args []string) (task.ID, error) {
	var id string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		id, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	rest := fs.Args()
	if id == "" && len(rest) > 0 {
		id, rest = rest[0], rest[1:]
	}
	if len(rest) > 0 {
		return "", fmt.Errorf("unexpected arguments: %v", rest)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%s: task id is required", fs.Name())
	}
	return task.ID(id), nil
}

func printItems(w io.Writer, heading string, items []view.Item, words view.Strings) {
	fmt.Fprintf(w, "%s (%d)\n", heading, len(items))
	if len(items) == 0 {
		fmt.Fprintf(w, "  %s\n\n", words.NoTasks)
		return
	}
	for _, item := range items {
		mark := "[ ]"
		if item.Completed {
			mark = "[✓]"
		}
		fmt.Fprintf(w, "  %s %-4s %s\n", mark, item.ID, item.Label)
	}
	fmt.Fprintln(w)
}
