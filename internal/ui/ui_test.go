package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/board"
	"taskdash/internal/config"
	"taskdash/internal/storage"
	"taskdash/internal/task"
)

func newTestModel(t *testing.T, tasks ...task.Task) (Model, *board.Board, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	p := storage.NewTasks(kv, "tasks")
	require.NoError(t, p.Save(tasks))
	b := board.New(p, board.WithClock(func() time.Time { return time.UnixMilli(1704067200000) }))
	return New(b, config.Default()), b, kv
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

var (
	enter    = tea.KeyMsg{Type: tea.KeyEnter}
	esc      = tea.KeyMsg{Type: tea.KeyEsc}
	tab      = tea.KeyMsg{Type: tea.KeyTab}
	shiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	right    = tea.KeyMsg{Type: tea.KeyRight}
)

func TestAddTaskThroughForm(t *testing.T) {
	m, b, kv := newTestModel(t)

	m = send(t, m, runes("a"))
	require.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.View(), "Add Task")

	m = send(t, m,
		runes("Buy milk"),
		tab, runes("whole"),
		tab, right, right, // Low -> High
		tab, right, // To Do -> In Progress
		tab, runes("2024-01-01"),
		enter,
	)
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "Added task", m.status)

	tasks := b.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, task.Task{
		ID:          1704067200000,
		Title:       "Buy milk",
		Description: "whole",
		Priority:    task.PriorityHigh,
		Status:      task.StatusInProgress,
		DueDate:     "2024-01-01",
	}, tasks[0])

	raw, ok, err := kv.Get("tasks")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"title":"Buy milk"`)

	out := m.View()
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Total: 1  Completed: 0  Pending: 1")
}

func TestSubmitWithoutDueDateIsRejected(t *testing.T) {
	m, b, _ := newTestModel(t)
	m = send(t, m, runes("a"), runes("No date"), enter)
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, "Title and due date are required", m.status)
	assert.Empty(t, b.Tasks())
}

func TestFormCancel(t *testing.T) {
	m, b, _ := newTestModel(t)
	m = send(t, m, runes("a"), runes("draft"), esc)
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, b.Tasks())
	assert.Equal(t, task.Blank(), b.Draft())
}

func TestFormFieldNavigationWraps(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = send(t, m, runes("a"), shiftTab)
	assert.Equal(t, fieldDueDate, m.field)
	m = send(t, m, tab)
	assert.Equal(t, fieldTitle, m.field)
}

func TestEditTask(t *testing.T) {
	m, b, _ := newTestModel(t, task.Task{ID: 1, Title: "Buy milk", DueDate: "2024-01-01"})

	m = send(t, m, runes("e"))
	require.Equal(t, modeForm, m.mode)
	assert.True(t, b.Editing())
	assert.Equal(t, "Buy milk", m.inputs[fieldTitle].Value())
	assert.Contains(t, m.View(), "Update Task")

	m = send(t, m, tab, tab, tab, right, right, enter)
	assert.Equal(t, "Updated task", m.status)
	assert.False(t, b.Editing())
	assert.Equal(t, board.Summary{Total: 1, Completed: 1, Pending: 0}, b.Summary())
	assert.Equal(t, int64(1), b.Tasks()[0].ID)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, b, _ := newTestModel(t,
		task.Task{ID: 1, Title: "one", DueDate: "2024-01-01"},
		task.Task{ID: 2, Title: "two", DueDate: "2024-01-02"},
	)

	m = send(t, m, runes("d"))
	assert.Equal(t, modeConfirmDelete, m.mode)
	m = send(t, m, runes("n"))
	assert.Equal(t, modeList, m.mode)
	assert.Len(t, b.Tasks(), 2)

	m = send(t, m, runes("j"), runes("d"), runes("y"))
	assert.Equal(t, "Deleted task", m.status)
	tasks := b.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(1), tasks[0].ID)
	assert.Equal(t, 0, m.cursor)
}

func TestFilterAndSortKeys(t *testing.T) {
	m, b, _ := newTestModel(t,
		task.Task{ID: 1, Title: "early", Status: task.StatusCompleted, Priority: task.PriorityHigh, DueDate: "2024-01-01"},
		task.Task{ID: 2, Title: "late", DueDate: "2024-06-01"},
	)

	m = send(t, m, runes("o"))
	assert.Equal(t, board.Descending, b.Filters().Sort)
	assert.Equal(t, int64(2), b.View()[0].ID)

	m = send(t, m, runes("s"), runes("s"), runes("s"))
	assert.Equal(t, board.OnlyStatus(task.StatusCompleted), b.Filters().Status)
	assert.Contains(t, m.View(), "early")
	assert.NotContains(t, m.View(), "late")

	m = send(t, m, runes("p"))
	assert.Equal(t, board.OnlyPriority(task.PriorityLow), b.Filters().Priority)
	assert.Contains(t, m.View(), "No tasks match the current filters.")
	assert.Len(t, b.Tasks(), 2)
}

func TestEmptyListMessages(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Contains(t, m.View(), "No tasks yet")
	m = send(t, m, runes("e"))
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "No tasks to edit", m.status)
}

func TestQuitKeys(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestClampCursor(t *testing.T) {
	assert.Equal(t, 0, clampCursor(5, 0))
	assert.Equal(t, 0, clampCursor(-1, 3))
	assert.Equal(t, 2, clampCursor(9, 3))
	assert.Equal(t, 1, clampCursor(1, 3))
}

func TestWrapIndex(t *testing.T) {
	assert.Equal(t, 2, wrapIndex(-1, 3))
	assert.Equal(t, 0, wrapIndex(3, 3))
	assert.Equal(t, 0, wrapIndex(1, 0))
}
