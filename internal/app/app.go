// Package app wires the task service, rendering and theme into one
// application context shared by the front ends.
//
// Every user action follows the same shape: send the mutation, wait for it,
// then refresh the whole list exactly once whatever the mutation's outcome.
// Refreshes are numbered; only the most recently issued one may become the
// current snapshot, so a slow response never overwrites a newer one.
package app

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/task"
	"github.com/nibzard/tasklist/internal/tasksvc"
	"github.com/nibzard/tasklist/internal/theme"
	"github.com/nibzard/tasklist/internal/view"
)

// Snapshot is the result of one refresh.
type Snapshot struct {
	Gen   uint64
	Tasks []task.Task
	View  view.View
	Err   error // refresh error; the view is empty when set
	At    time.Time
}

// Options configures an App.
type Options struct {
	Locale task.Locale
	Theme  theme.Theme
	Logger *log.Logger
}

// App is the application context.
type App struct {
	svc    tasksvc.Service
	locale task.Locale
	logger *log.Logger
	now    func() time.Time

	gen atomic.Uint64

	mu      sync.Mutex
	current Snapshot
	theme   theme.Theme
}

// New creates an App backed by svc.
func New(svc tasksvc.Service, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	locale := opts.Locale
	if locale == "" {
		locale = task.DefaultLocale
	}
	return &App{
		svc:    svc,
		locale: locale,
		logger: logger,
		now:    time.Now,
		theme:  opts.Theme,
		current: Snapshot{
			View: view.Render(nil, locale),
		},
	}
}

// Locale returns the configured locale.
func (a *App) Locale() task.Locale {
	return a.locale
}

// Strings returns the wording for the configured locale.
func (a *App) Strings() view.Strings {
	return view.StringsFor(a.locale)
}

// Categories returns the category choices for the add form.
func (a *App) Categories() []string {
	return a.locale.Categories()
}

// Refresh fetches the full list and renders it. Errors are logged and
// produce an empty view; there is no retry.
func (a *App) Refresh(ctx context.Context) Snapshot {
	gen := a.gen.Add(1)
	tasks, err := a.svc.List(ctx, tasksvc.ListOptions{})
	snap := Snapshot{Gen: gen, At: a.now()}
	if err != nil {
		a.logger.Error("refresh failed", "generation", gen, "err", err)
		snap.Err = err
		snap.View = view.Render(nil, a.locale)
		return snap
	}
	a.logger.Debug("refreshed", "generation", gen, "tasks", len(tasks))
	snap.Tasks = tasks
	snap.View = view.Render(tasks, a.locale)
	return snap
}

// Apply makes s the current snapshot if it belongs to the most recently
// issued refresh. It reports whether s was accepted.
func (a *App) Apply(s Snapshot) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s.Gen != a.gen.Load() || s.Gen <= a.current.Gen {
		a.logger.Debug("discarding stale snapshot", "generation", s.Gen, "latest", a.gen.Load())
		return false
	}
	a.current = s
	return true
}

// Reload refreshes and applies in one step.
func (a *App) Reload(ctx context.Context) Snapshot {
	s := a.Refresh(ctx)
	a.Apply(s)
	return s
}

// Current returns the last applied snapshot.
func (a *App) Current() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// AddTask creates a task and refreshes. The returned error is the creation
// error, if any; the refresh happens regardless.
func (a *App) AddTask(ctx context.Context, nt task.NewTask) (Snapshot, error) {
	created, err := a.svc.Create(ctx, nt)
	if err != nil {
		a.logger.Warn("add task failed", "description", nt.Description, "err", err)
	} else if created != nil {
		a.logger.Info("task added", "task_id", created.ID)
	}
	return a.Refresh(ctx), err
}

// CompleteTask marks a task completed and refreshes.
func (a *App) CompleteTask(ctx context.Context, id task.ID) (Snapshot, error) {
	err := a.svc.Complete(ctx, id)
	if err != nil {
		a.logger.Warn("complete task failed", "task_id", id, "err", err)
	} else {
		a.logger.Info("task completed", "task_id", id)
	}
	return a.Refresh(ctx), err
}

// DeleteTask deletes a task and refreshes.
func (a *App) DeleteTask(ctx context.Context, id task.ID) (Snapshot, error) {
	err := a.svc.Delete(ctx, id)
	if err != nil {
		a.logger.Warn("delete task failed", "task_id", id, "err", err)
	} else {
		a.logger.Info("task deleted", "task_id", id)
	}
	return a.Refresh(ctx), err
}

// EditTask updates a task and refreshes.
func (a *App) EditTask(ctx context.Context, id task.ID, u task.Update) (Snapshot, error) {
	_, err := a.svc.Update(ctx, id, u)
	if err != nil {
		a.logger.Warn("edit task failed", "task_id", id, "err", err)
	} else {
		a.logger.Info("task edited", "task_id", id)
	}
	return a.Refresh(ctx), err
}

// Theme returns the current theme.
func (a *App) Theme() theme.Theme {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.theme
}

// ToggleTheme flips the theme and returns the new one.
func (a *App) ToggleTheme() theme.Theme {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.theme = a.theme.Toggle()
	return a.theme
}
