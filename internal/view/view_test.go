// Package view tests task list rendering.
package view

import (
	"fmt"
	"testing"

	"github.com/nibzard/tasklist/internal/task"
)

func TestLabel(t *testing.T) {
	tk := task.Task{ID: "1", Description: "Buy milk", Category: "Home", Deadline: "2024-01-01"}
	if got, want := Label(tk, task.LocalePT), "Buy milk - Home - Prazo: 2024-01-01"; got != want {
		t.Errorf("Label(pt): got %q, want %q", got, want)
	}
	if got, want := Label(tk, task.LocaleEN), "Buy milk - Home - Deadline: 2024-01-01"; got != want {
		t.Errorf("Label(en): got %q, want %q", got, want)
	}

	noDeadline := task.Task{ID: "2", Description: "Read", Category: "Pessoal"}
	if got, want := Label(noDeadline, task.LocalePT), "Read - Pessoal - Prazo: "; got != want {
		t.Errorf("Label(no deadline): got %q, want %q", got, want)
	}
}

func TestRenderPartition(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", Description: "a", Completed: false},
		{ID: "2", Description: "b", Completed: true},
		{ID: "3", Description: "c", Completed: false},
		{ID: "4", Description: "d", Completed: true},
	}
	v := Render(tasks, task.LocalePT)

	if v.Len() != len(tasks) {
		t.Fatalf("Len: got %d, want %d", v.Len(), len(tasks))
	}
	wantPending := []task.ID{"1", "3"}
	wantCompleted := []task.ID{"2", "4"}
	for i, id := range wantPending {
		if v.Pending[i].ID != id || v.Pending[i].Completed {
			t.Errorf("Pending[%d]: got %+v, want id %s", i, v.Pending[i], id)
		}
	}
	for i, id := range wantCompleted {
		if v.Completed[i].ID != id || !v.Completed[i].Completed {
			t.Errorf("Completed[%d]: got %+v, want id %s", i, v.Completed[i], id)
		}
	}
	for _, item := range append(v.Pending, v.Completed...) {
		if len(item.Actions) != 2 || item.Actions[0] != ActionComplete || item.Actions[1] != ActionDelete {
			t.Errorf("Actions for %s: got %v", item.ID, item.Actions)
		}
	}
}

func TestRenderNoDuplicatesOrOmissions(t *testing.T) {
	for _, n := range []int{0, 1, 7, 50} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			tasks := make([]task.Task, n)
			for i := range tasks {
				tasks[i] = task.Task{ID: task.ID(fmt.Sprint(i)), Completed: i%3 == 0}
			}
			v := Render(tasks, task.LocaleEN)
			seen := map[task.ID]int{}
			for _, item := range v.Pending {
				seen[item.ID]++
			}
			for _, item := range v.Completed {
				seen[item.ID]++
			}
			if len(seen) != n {
				t.Fatalf("distinct items: got %d, want %d", len(seen), n)
			}
			for id, count := range seen {
				if count != 1 {
					t.Errorf("item %s rendered %d times", id, count)
				}
			}
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	v := Render(nil, task.LocalePT)
	if !v.Empty() {
		t.Errorf("Render(nil): got %+v", v)
	}
	if v.Pending == nil || v.Completed == nil {
		t.Error("Render(nil): containers should be non-nil")
	}
}

func TestBuyMilkScenario(t *testing.T) {
	tasks := []task.Task{{ID: "1", Description: "Buy milk", Category: "Home", Deadline: "2024-01-01"}}
	v := Render(tasks, task.LocalePT)
	if len(v.Pending) != 1 || len(v.Completed) != 0 {
		t.Fatalf("containers: got %d pending, %d completed", len(v.Pending), len(v.Completed))
	}
	if v.Pending[0].Label != "Buy milk - Home - Prazo: 2024-01-01" {
		t.Errorf("Label: got %q", v.Pending[0].Label)
	}

	tasks[0].Completed = true
	v = Render(tasks, task.LocalePT)
	if len(v.Pending) != 0 || len(v.Completed) != 1 {
		t.Fatalf("after complete: got %d pending, %d completed", len(v.Pending), len(v.Completed))
	}

	v = Render(nil, task.LocalePT)
	if !v.Empty() {
		t.Error("after delete: expected empty view")
	}
}

func TestStrings(t *testing.T) {
	pt := StringsFor(task.LocalePT)
	if pt.ActionLabel(ActionComplete) != "Concluir" || pt.ActionLabel(ActionDelete) != "Deletar" {
		t.Errorf("pt actions: got %q, %q", pt.Complete, pt.Delete)
	}
	en := StringsFor(task.LocaleEN)
	if en.ActionLabel(ActionComplete) != "Complete" {
		t.Errorf("en complete: got %q", en.Complete)
	}
	if StringsFor("xx") != pt {
		t.Error("unknown locale should fall back to pt")
	}
}
