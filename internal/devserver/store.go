// Package devserver is a local, in-memory implementation of the task service.
//
// It follows the reference service's contract:
//
//   - GET    /tasks/                 list, ordered by deadline (nulls first) then id
//   - GET    /tasks/?completed=true  list filtered by completion
//   - POST   /tasks/                 create; 201 with the stored task
//   - PUT    /tasks/{id}             edit description, category or deadline
//   - PATCH  /tasks/{id}/complete    mark completed; 404 when missing
//   - DELETE /tasks/{id}             delete; always 200
//   - DELETE /tasks/clear            delete everything
//
// Tasks can optionally be persisted to a JSON file after every change.
package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/nibzard/tasklist/internal/task"
)

// CreatedAtLayout is the layout of created_at timestamps.
const CreatedAtLayout = "2006-01-02 15:04:05"

// Errors returned by Store. The handler maps them to the service's messages.
var (
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidDeadline     = errors.New("invalid deadline")
	ErrNotFound            = errors.New("task not found")
)

// record is the stored form of a task.
type record struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Deadline    *string   `json:"deadline"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r record) toTask() task.Task {
	t := task.Task{
		ID:          task.ID(strconv.Itoa(r.ID)),
		Description: r.Description,
		Category:    r.Category,
		Completed:   r.Completed,
		CreatedAt:   r.CreatedAt.UTC().Format(CreatedAtLayout),
	}
	if r.Deadline != nil {
		t.Deadline = *r.Deadline
	}
	return t
}

// storeFile is the on-disk layout.
type storeFile struct {
	NextID int      `json:"next_id"`
	Tasks  []record `json:"tasks"`
}

// Store holds tasks in memory.
type Store struct {
	mu         sync.Mutex
	path       string
	categories []string
	nextID     int
	tasks      []record
	now        func() time.Time
}

// NewStore creates a store accepting the given categories. When path is
// non-empty, existing tasks are loaded from it and every change is saved back.
func NewStore(path string, categories []string) (*Store, error) {
	if len(categories) == 0 {
		categories = task.LocalePT.Categories()
	}
	s := &Store{
		path:       path,
		categories: categories,
		nextID:     1,
		now:        time.Now,
	}
	if path == "" {
		return s, nil
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read store file: %w", err)
	}
	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse store file: %w", err)
	}
	s.tasks = f.Tasks
	s.nextID = f.NextID
	for _, r := range s.tasks {
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	if s.nextID < 1 {
		s.nextID = 1
	}
	return nil
}

// save writes the store with 2-space indentation and a trailing newline.
// Callers hold s.mu.
func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(storeFile{NextID: s.nextID, Tasks: s.tasks}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	data = append(data, '\n')
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func (s *Store) validCategory(name string) bool {
	for _, c := range s.categories {
		if c == name {
			return true
		}
	}
	return false
}

func (s *Store) find(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// List returns tasks ordered by deadline with missing deadlines first,
// then by id. A non-nil completed filters by completion state.
func (s *Store) List(completed *bool) []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := make([]record, 0, len(s.tasks))
	for _, r := range s.tasks {
		if completed != nil && r.Completed != *completed {
			continue
		}
		matching = append(matching, r)
	}
	sort.SliceStable(matching, func(i, j int) bool {
		a, b := matching[i].Deadline, matching[j].Deadline
		switch {
		case a == nil && b != nil:
			return true
		case a != nil && b == nil:
			return false
		case a != nil && b != nil && *a != *b:
			return *a < *b
		}
		return matching[i].ID < matching[j].ID
	})

	out := make([]task.Task, 0, len(matching))
	for _, r := range matching {
		out = append(out, r.toTask())
	}
	return out
}

// Add stores a new pending task.
func (s *Store) Add(description, category string, deadline *string) (task.Task, error) {
	if description == "" {
		return task.Task{}, ErrDescriptionRequired
	}
	if !s.validCategory(category) {
		return task.Task{}, ErrInvalidCategory
	}
	if deadline != nil && *deadline == "" {
		deadline = nil
	}
	if deadline != nil {
		if _, err := time.Parse(task.DeadlineLayout, *deadline); err != nil {
			return task.Task{}, ErrInvalidDeadline
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := record{
		ID:          s.nextID,
		Description: description,
		Category:    category,
		Deadline:    deadline,
		CreatedAt:   s.now().UTC(),
	}
	s.nextID++
	s.tasks = append(s.tasks, r)
	if err := s.save(); err != nil {
		return task.Task{}, err
	}
	return r.toTask(), nil
}

// Edit changes the non-empty fields. Unknown categories are ignored,
// matching the reference service.
func (s *Store) Edit(id int, description, category, deadline string) (task.Task, error) {
	if deadline != "" {
		if _, err := time.Parse(task.DeadlineLayout, deadline); err != nil {
			return task.Task{}, ErrInvalidDeadline
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return task.Task{}, ErrNotFound
	}
	if description != "" {
		s.tasks[i].Description = description
	}
	if category != "" && s.validCategory(category) {
		s.tasks[i].Category = category
	}
	if deadline != "" {
		d := deadline
		s.tasks[i].Deadline = &d
	}
	if err := s.save(); err != nil {
		return task.Task{}, err
	}
	return s.tasks[i].toTask(), nil
}

// Complete marks a task completed. Completing twice is not an error.
func (s *Store) Complete(id int) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return task.Task{}, ErrNotFound
	}
	s.tasks[i].Completed = true
	if err := s.save(); err != nil {
		return task.Task{}, err
	}
	return s.tasks[i].toTask(), nil
}

// Delete removes a task. Deleting a missing task is not an error.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return s.save()
}

// Clear removes every task. Ids keep increasing.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = nil
	return s.save()
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
