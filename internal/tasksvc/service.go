// Package tasksvc talks to the remote task service.
package tasksvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nibzard/tasklist/internal/task"
)

// Service is the remote task collection.
type Service interface {
	// List returns every task, optionally filtered by completion state.
	List(ctx context.Context, opts ListOptions) ([]task.Task, error)
	// Create adds a task and returns the stored record.
	Create(ctx context.Context, nt task.NewTask) (*task.Task, error)
	// Complete marks a task as completed. There is no inverse operation.
	Complete(ctx context.Context, id task.ID) error
	// Delete removes a task.
	Delete(ctx context.Context, id task.ID) error
	// Update edits the fields set in u.
	Update(ctx context.Context, id task.ID, u task.Update) (*task.Task, error)
}

// ListOptions filters a list request.
type ListOptions struct {
	// Completed restricts the list to completed (true) or pending (false)
	// tasks. Nil lists everything.
	Completed *bool
}

// OnlyCompleted returns ListOptions selecting completed tasks.
func OnlyCompleted() ListOptions {
	v := true
	return ListOptions{Completed: &v}
}

// OnlyPending returns ListOptions selecting pending tasks.
func OnlyPending() ListOptions {
	v := false
	return ListOptions{Completed: &v}
}

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string // "error" or "message" field of the response, if any
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
