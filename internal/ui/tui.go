// Package ui provides the terminal front end.
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasklist/internal/app"
	"github.com/nibzard/tasklist/internal/task"
	"github.com/nibzard/tasklist/internal/utils"
	"github.com/nibzard/tasklist/internal/view"
)

// RunTUI starts the terminal front end and blocks until the user quits or
// ctx is cancelled.
func RunTUI(ctx context.Context, a *app.App) error {
	if !utils.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(newModel(ctx, a), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

type pane int

const (
	panePending pane = iota
	paneCompleted
)

type tuiModel struct {
	ctx    context.Context
	app    *app.App
	words  view.Strings
	styles styles

	snap     app.Snapshot
	loaded   bool
	inFlight int

	focus    pane
	cursor   [2]int
	form     *addForm
	showHelp bool
}

// snapshotMsg carries the refresh that followed an action, or a plain refresh.
type snapshotMsg struct {
	snap app.Snapshot
}

func newModel(ctx context.Context, a *app.App) *tuiModel {
	return &tuiModel{
		ctx:    ctx,
		app:    a,
		words:  a.Strings(),
		styles: newStyles(a.Theme()),
		snap:   a.Current(),
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.inFlight++
	return m.refreshCmd()
}

func (m *tuiModel) refreshCmd() tea.Cmd {
	ctx, a := m.ctx, m.app
	return func() tea.Msg {
		return snapshotMsg{snap: a.Refresh(ctx)}
	}
}

// actionCmd runs a mutation and its single follow-up refresh off the UI goroutine.
// The action's own error is logged by the app and not shown.
func (m *tuiModel) actionCmd(run func(context.Context) (app.Snapshot, error)) tea.Cmd {
	m.inFlight++
	ctx := m.ctx
	return func() tea.Msg {
		snap, _ := run(ctx)
		return snapshotMsg{snap: snap}
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if m.inFlight > 0 {
			m.inFlight--
		}
		// Failures are logged by the app and never drawn. A snapshot that
		// lost to a newer refresh leaves the screen as it is.
		if m.app.Apply(msg.snap) {
			m.snap = msg.snap
			m.loaded = true
			m.clampCursors()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *tuiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.form.update(msg) {
	case formCancel:
		m.form = nil
	case formSubmit:
		nt := m.form.value()
		if err := nt.Validate(m.app.Locale()); err != nil {
			m.form.reject(err)
			return m, nil
		}
		m.form = nil
		return m, m.actionCmd(func(ctx context.Context) (app.Snapshot, error) {
			return m.app.AddTask(ctx, nt)
		})
	}
	return m, nil
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "up", "k":
		if m.cursor[m.focus] > 0 {
			m.cursor[m.focus]--
		}
	case "down", "j":
		if m.cursor[m.focus] < len(m.items(m.focus))-1 {
			m.cursor[m.focus]++
		}
	case "tab":
		m.focus = 1 - m.focus
	case "t":
		m.styles = newStyles(m.app.ToggleTheme())
	case "r", "f5":
		m.inFlight++
		return m, m.refreshCmd()
	case "a":
		m.form = newAddForm(m.app.Categories())
	case "c":
		if id, ok := m.selected(); ok {
			return m, m.actionCmd(func(ctx context.Context) (app.Snapshot, error) {
				return m.app.CompleteTask(ctx, id)
			})
		}
	case "d", "x":
		if id, ok := m.selected(); ok {
			return m, m.actionCmd(func(ctx context.Context) (app.Snapshot, error) {
				return m.app.DeleteTask(ctx, id)
			})
		}
	}
	return m, nil
}

func (m *tuiModel) items(p pane) []view.Item {
	if p == paneCompleted {
		return m.snap.View.Completed
	}
	return m.snap.View.Pending
}

func (m *tuiModel) selected() (task.ID, bool) {
	items := m.items(m.focus)
	i := m.cursor[m.focus]
	if i < 0 || i >= len(items) {
		return "", false
	}
	return items[i].ID, true
}

func (m *tuiModel) clampCursors() {
	for _, p := range []pane{panePending, paneCompleted} {
		n := len(m.items(p))
		if m.cursor[p] >= n {
			m.cursor[p] = n - 1
		}
		if m.cursor[p] < 0 {
			m.cursor[p] = 0
		}
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	m.writeTitle(&b)

	if m.showHelp {
		writeHelp(&b, m.styles)
		m.writeFooter(&b)
		return m.styles.App.Render(b.String())
	}

	if m.form != nil {
		m.form.render(&b, m.styles, m.words)
	}

	if !m.loaded && m.inFlight > 0 {
		b.WriteString("Loading...\n\n")
	} else {
		m.writePane(&b, panePending, m.words.Pending)
		m.writePane(&b, paneCompleted, m.words.Completed)
	}

	m.writeFooter(&b)
	return m.styles.App.Render(b.String())
}

func (m *tuiModel) writeTitle(b *strings.Builder) {
	title := m.words.Title
	b.WriteString(m.styles.Title.Render(title) + "  " + m.app.Theme().Icon() + "\n")
	b.WriteString(m.styles.Muted.Render(strings.Repeat("=", len([]rune(title)))) + "\n\n")
}

func (m *tuiModel) writePane(b *strings.Builder, p pane, heading string) {
	items := m.items(p)
	header := fmt.Sprintf("%s (%d)", heading, len(items))
	if m.focus == p && m.form == nil {
		b.WriteString(m.styles.Active.Render(header) + "\n")
	} else {
		b.WriteString(m.styles.Header.Render(header) + "\n")
	}
	if len(items) == 0 {
		b.WriteString(m.styles.Muted.Render("  "+m.words.NoTasks) + "\n\n")
		return
	}
	for i, item := range items {
		b.WriteString(m.formatItem(item, m.focus == p && m.cursor[p] == i) + "\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) formatItem(item view.Item, selected bool) string {
	mark := "[ ]"
	if item.Completed {
		mark = "[✓]"
	}
	actions := make([]string, 0, len(item.Actions))
	for _, a := range item.Actions {
		actions = append(actions, m.words.ActionLabel(a))
	}
	line := fmt.Sprintf("%s %s", mark, item.Label)
	suffix := m.styles.Muted.Render("  " + strings.Join(actions, " · "))

	prefix := "  "
	style := m.styles.Item
	if item.Completed {
		style = m.styles.Done
	}
	if selected {
		prefix = "> "
		style = m.styles.Selected
	}
	return prefix + style.Render(line) + suffix
}

func writeHelp(b *strings.Builder, s styles) {
	b.WriteString(s.Header.Render("Keyboard Shortcuts") + "\n\n")
	b.WriteString("  ↑/k, ↓/j     Move selection\n")
	b.WriteString("  tab          Switch between pending and completed\n")
	b.WriteString("  c            Complete selected task\n")
	b.WriteString("  d, x         Delete selected task\n")
	b.WriteString("  a            Add a task\n")
	b.WriteString("  t            Toggle light/dark theme\n")
	b.WriteString("  r, F5        Refresh\n")
	b.WriteString("  ?            Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
}

func (m *tuiModel) writeFooter(b *strings.Builder) {
	footer := "Press ? for help | q to quit"
	if m.inFlight > 0 {
		footer += " | working..."
	} else if !m.snap.At.IsZero() {
		footer += " | updated " + m.snap.At.Format("15:04:05")
	}
	b.WriteString(m.styles.Muted.Render(footer) + "\n")
}
