package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasklist/internal/task"
	"github.com/nibzard/tasklist/internal/view"
)

type formField int

const (
	fieldDescription formField = iota
	fieldCategory
	fieldDeadline
	fieldCount
)

// addForm is the inline add-task form.
type addForm struct {
	description string
	categories  []string
	category    int
	deadline    string
	focus       formField
	err         error
	invalid     map[formField]bool
}

type formResult int

const (
	formPending formResult = iota
	formSubmit
	formCancel
)

func newAddForm(categories []string) *addForm {
	return &addForm{categories: categories}
}

// value returns the form contents as a creation payload.
func (f *addForm) value() task.NewTask {
	nt := task.NewTask{Description: f.description, Deadline: f.deadline}
	if len(f.categories) > 0 {
		nt.Category = f.categories[f.category]
	}
	return nt.Normalize()
}

// reject marks the fields err names and moves focus to the first of them,
// the way a browser treats required and date inputs.
func (f *addForm) reject(err error) {
	f.err = err
	f.invalid = invalidFields(err)
	for field := fieldDescription; field < fieldCount; field++ {
		if f.invalid[field] {
			f.focus = field
			return
		}
	}
}

func invalidFields(err error) map[formField]bool {
	fields := map[string]formField{
		"description": fieldDescription,
		"category":    fieldCategory,
		"deadline":    fieldDeadline,
	}
	out := make(map[formField]bool)
	var walk func(error)
	walk = func(err error) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}
		var ve *task.ValidationError
		if errors.As(err, &ve) {
			if field, ok := fields[ve.Path]; ok {
				out[field] = true
			}
		}
	}
	walk(err)
	return out
}

func (f *addForm) update(msg tea.KeyMsg) formResult {
	switch msg.String() {
	case "esc":
		return formCancel
	case "enter":
		return formSubmit
	case "tab", "down":
		f.focus = (f.focus + 1) % fieldCount
		return formPending
	case "shift+tab", "up":
		f.focus = (f.focus + fieldCount - 1) % fieldCount
		return formPending
	}

	if f.focus == fieldCategory {
		n := len(f.categories)
		if n == 0 {
			return formPending
		}
		switch msg.String() {
		case "right", "l", " ":
			f.category = (f.category + 1) % n
		case "left", "h":
			f.category = (f.category + n - 1) % n
		}
		return formPending
	}

	target := &f.description
	if f.focus == fieldDeadline {
		target = &f.deadline
	}
	switch msg.Type {
	case tea.KeyBackspace:
		if r := []rune(*target); len(r) > 0 {
			*target = string(r[:len(r)-1])
		}
	case tea.KeyRunes:
		*target += string(msg.Runes)
	case tea.KeySpace:
		*target += " "
	}
	return formPending
}

func (f *addForm) render(b *strings.Builder, s styles, words view.Strings) {
	b.WriteString(s.Header.Render(words.Add) + "\n")
	f.writeField(b, s, fieldDescription, words.Description, f.description)
	category := ""
	if len(f.categories) > 0 {
		category = "◂ " + f.categories[f.category] + " ▸"
	}
	f.writeField(b, s, fieldCategory, words.Category, category)
	f.writeField(b, s, fieldDeadline, words.Deadline+" (YYYY-MM-DD)", f.deadline)
	b.WriteString(s.Muted.Render("  tab next field · ←/→ category · enter submit · esc cancel") + "\n\n")
}

func (f *addForm) writeField(b *strings.Builder, s styles, field formField, label, value string) {
	style := s.Field
	marker := "  "
	cursor := ""
	if f.focus == field {
		style = s.Focused
		marker = "> "
		if field != fieldCategory {
			cursor = "_"
		}
	}
	if f.invalid[field] {
		style = style.Foreground(s.Invalid.GetForeground())
	}
	b.WriteString(style.Render(marker+label+": "+value+cursor) + "\n")
}
