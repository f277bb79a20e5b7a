// Package view turns a task list into the two display containers.
package view

import (
	"fmt"

	"github.com/nibzard/tasklist/internal/task"
)

// Action is something the user can do to a rendered task.
type Action string

const (
	ActionComplete Action = "complete"
	ActionDelete   Action = "delete"
)

// Item is one rendered task.
type Item struct {
	ID        task.ID
	Label     string
	Completed bool
	Actions   []Action
}

// View holds the rendered containers. Both keep the service's order.
type View struct {
	Pending   []Item
	Completed []Item
}

// Len returns the total number of items.
func (v View) Len() int {
	return len(v.Pending) + len(v.Completed)
}

// Empty reports whether both containers are empty.
func (v View) Empty() bool {
	return v.Len() == 0
}

// Strings holds locale-specific wording.
type Strings struct {
	Title          string
	DeadlineLabel  string
	Complete       string
	Delete         string
	Pending        string
	Completed      string
	Add            string
	Description    string
	Category       string
	Deadline       string
	NoTasks        string
	ToggleThemeTip string
}

var stringsByLocale = map[task.Locale]Strings{
	task.LocalePT: {
		Title:          "Lista de Tarefas",
		DeadlineLabel:  "Prazo",
		Complete:       "Concluir",
		Delete:         "Deletar",
		Pending:        "Tarefas Pendentes",
		Completed:      "Tarefas Concluídas",
		Add:            "Adicionar",
		Description:    "Descrição",
		Category:       "Categoria",
		Deadline:       "Prazo",
		NoTasks:        "Nenhuma tarefa.",
		ToggleThemeTip: "Alternar tema",
	},
	task.LocaleEN: {
		Title:          "To-Do List",
		DeadlineLabel:  "Deadline",
		Complete:       "Complete",
		Delete:         "Delete",
		Pending:        "Pending Tasks",
		Completed:      "Completed Tasks",
		Add:            "Add",
		Description:    "Description",
		Category:       "Category",
		Deadline:       "Deadline",
		NoTasks:        "No tasks.",
		ToggleThemeTip: "Toggle theme",
	},
}

// StringsFor returns the wording for locale, falling back to the default locale.
func StringsFor(locale task.Locale) Strings {
	if s, ok := stringsByLocale[locale]; ok {
		return s
	}
	return stringsByLocale[task.DefaultLocale]
}

// ActionLabel returns the button text for a.
func (s Strings) ActionLabel(a Action) string {
	switch a {
	case ActionComplete:
		return s.Complete
	case ActionDelete:
		return s.Delete
	}
	return string(a)
}

// Label formats "{description} - {category} - {deadline label}: {deadline}".
func Label(t task.Task, locale task.Locale) string {
	return fmt.Sprintf("%s - %s - %s: %s", t.Description, t.Category, StringsFor(locale).DeadlineLabel, t.Deadline)
}

// Render partitions tasks into pending and completed items. Every task
// lands in exactly one container and input order is preserved.
func Render(tasks []task.Task, locale task.Locale) View {
	v := View{
		Pending:   make([]Item, 0, len(tasks)),
		Completed: make([]Item, 0),
	}
	for _, t := range tasks {
		item := Item{
			ID:        t.ID,
			Label:     Label(t, locale),
			Completed: t.Completed,
			Actions:   []Action{ActionComplete, ActionDelete},
		}
		if t.Completed {
			v.Completed = append(v.Completed, item)
		} else {
			v.Pending = append(v.Pending, item)
		}
	}
	return v
}
