package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DeadlineLayout is the date layout used by the service and by date inputs.
const DeadlineLayout = "2006-01-02"

// ID is a server-assigned task identifier.
type ID string

// UnmarshalJSON accepts both numeric and string ids.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode task id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode task id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes ids in canonical integer form as numbers and everything
// else as strings, so "007" and "+5" stay strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// idForm records how an id was spelled in the response it came from.
type idForm uint8

const (
	idFormAuto idForm = iota
	idFormNumber
	idFormString
)

// String returns the id as it appears in URLs.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// Task is a to-do item as returned by the service.
type Task struct {
	ID          ID     `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Deadline    string `json:"deadline"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at,omitempty"`

	idForm idForm
}

// taskFields is Task without its JSON methods.
type taskFields Task

// UnmarshalJSON decodes a task and remembers whether its id was a JSON
// number or a JSON string.
func (t *Task) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var f taskFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*t = Task(f)
	switch {
	case len(raw.ID) == 0 || bytes.Equal(raw.ID, []byte("null")):
		t.idForm = idFormAuto
	case raw.ID[0] == '"':
		t.idForm = idFormString
	default:
		t.idForm = idFormNumber
	}
	return nil
}

// MarshalJSON re-emits the id in the form it was decoded in. Tasks built in
// code fall back to ID.MarshalJSON.
func (t Task) MarshalJSON() ([]byte, error) {
	var id []byte
	var err error
	switch t.idForm {
	case idFormNumber:
		id = []byte(t.ID)
	case idFormString:
		id, err = json.Marshal(string(t.ID))
	default:
		id, err = t.ID.MarshalJSON()
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		ID json.RawMessage `json:"id"`
		taskFields
	}{ID: id, taskFields: taskFields(t)})
}

// NewTask is the payload sent to create a task.
type NewTask struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Deadline    string `json:"deadline"`
}

// Update is the payload sent to edit a task. Empty fields are left unchanged.
type Update struct {
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
}

// IsZero reports whether the update changes nothing.
func (u Update) IsZero() bool {
	return u.Description == "" && u.Category == "" && u.Deadline == ""
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validation sentinels.
var (
	ErrDescriptionRequired = errors.New("description is required")
	ErrUnknownCategory     = errors.New("unknown category")
	ErrInvalidDeadline     = errors.New("deadline must be a YYYY-MM-DD date")
)

// Normalize trims surrounding whitespace from every field.
func (n NewTask) Normalize() NewTask {
	return NewTask{
		Description: strings.TrimSpace(n.Description),
		Category:    strings.TrimSpace(n.Category),
		Deadline:    strings.TrimSpace(n.Deadline),
	}
}

// Validate applies the checks a native form would: a required description,
// a category from the locale's set, and a required date-shaped deadline.
// All failures are joined into the returned error.
func (n NewTask) Validate(locale Locale) error {
	var errs []error
	if strings.TrimSpace(n.Description) == "" {
		errs = append(errs, &ValidationError{Path: "description", Err: ErrDescriptionRequired})
	}
	if !locale.HasCategory(n.Category) {
		errs = append(errs, &ValidationError{Path: "category", Err: fmt.Errorf("%w %q", ErrUnknownCategory, n.Category)})
	}
	if err := ValidateDeadline(n.Deadline); err != nil {
		errs = append(errs, &ValidationError{Path: "deadline", Err: err})
	}
	return errors.Join(errs...)
}

// Validate checks only the fields the update sets.
func (u Update) Validate(locale Locale) error {
	var errs []error
	if u.IsZero() {
		errs = append(errs, errors.New("nothing to update"))
	}
	if u.Category != "" && !locale.HasCategory(u.Category) {
		errs = append(errs, &ValidationError{Path: "category", Err: fmt.Errorf("%w %q", ErrUnknownCategory, u.Category)})
	}
	if u.Deadline != "" {
		if err := ValidateDeadline(u.Deadline); err != nil {
			errs = append(errs, &ValidationError{Path: "deadline", Err: err})
		}
	}
	return errors.Join(errs...)
}

// ValidateDeadline reports whether s is a calendar date in DeadlineLayout.
func ValidateDeadline(s string) error {
	if s == "" {
		return ErrInvalidDeadline
	}
	if _, err := time.Parse(DeadlineLayout, s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDeadline, s)
	}
	return nil
}
