package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdash/internal/board"
	"taskdash/internal/config"
	"taskdash/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldPriority
	fieldStatus
	fieldDueDate
	fieldCount
)

var fieldNames = [...]string{"title", "description", "priority", "status", "dueDate"}
var fieldLabels = [...]string{"Title", "Description", "Priority", "Status", "Due (YYYY-MM-DD)"}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Strikethrough(true)
	formStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type Model struct {
	board      *board.Board
	cfg        config.Config
	cursor     int
	mode       mode
	field      formField
	inputs     map[formField]*textinput.Model
	status     string
	pendingDel *task.Task
}

func Run(b *board.Board, cfg config.Config) error {
	program := tea.NewProgram(New(b, cfg))
	_, err := program.Run()
	return err
}

func New(b *board.Board, cfg config.Config) Model {
	newInput := func(placeholder string, limit int) *textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Width = 40
		return &ti
	}
	return Model{
		board: b,
		cfg:   cfg,
		mode:  modeList,
		inputs: map[formField]*textinput.Model{
			fieldTitle:       newInput("Task title", 256),
			fieldDescription: newInput("Description", 1024),
			fieldDueDate:     newInput("2006-01-02", 32),
		},
		status: fmt.Sprintf("Press '%s' to add, '%s' to edit, '%s' to delete.", cfg.Keys.Add, cfg.Keys.Edit, cfg.Keys.Delete),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateFormMode(msg.String(), msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		default:
			return m.updateListMode(msg.String())
		}
	case tea.WindowSizeMsg:
		for _, in := range m.inputs {
			in.Width = max(msg.Width-24, 10)
		}
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	view := m.board.View()
	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(view))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(view))
	case m.cfg.Keys.Add:
		m.board.CancelEdit()
		m.status = "New task: tab moves between fields, enter saves, esc cancels"
		return m.openForm()
	case m.cfg.Keys.Edit:
		if len(view) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		t := view[clampCursor(m.cursor, len(view))]
		if !m.board.BeginEdit(t.ID) {
			m.status = "Task no longer exists"
			return m, nil
		}
		m.status = fmt.Sprintf("Editing %q", t.Title)
		return m.openForm()
	case m.cfg.Keys.Delete:
		if len(view) == 0 {
			return m, nil
		}
		t := view[clampCursor(m.cursor, len(view))]
		m.mode = modeConfirmDelete
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete %q? y/n", t.Title)
	case m.cfg.Keys.FilterStatus:
		m.board.SetStatusFilter(m.board.Filters().Status.Next())
		m.cursor = clampCursor(m.cursor, len(m.board.View()))
		m.status = "Status filter: " + m.board.Filters().Status.String()
	case m.cfg.Keys.FilterPriority:
		m.board.SetPriorityFilter(m.board.Filters().Priority.Next())
		m.cursor = clampCursor(m.cursor, len(m.board.View()))
		m.status = "Priority filter: " + m.board.Filters().Priority.String()
	case m.cfg.Keys.ToggleSort:
		m.board.SetSortDirection(m.board.Filters().Sort.Toggle())
		m.status = "Sorted by due date " + sortLabel(m.board.Filters().Sort)
	}
	return m, nil
}

// openForm copies the board's draft into the text inputs and focuses the
// first field.
func (m Model) openForm() (tea.Model, tea.Cmd) {
	d := m.board.Draft()
	m.inputs[fieldTitle].SetValue(d.Title)
	m.inputs[fieldDescription].SetValue(d.Description)
	m.inputs[fieldDueDate].SetValue(d.DueDate)
	m.mode = modeForm
	return m.focus(fieldTitle)
}

func (m Model) focus(f formField) (tea.Model, tea.Cmd) {
	m.field = f
	var cmd tea.Cmd
	for k, in := range m.inputs {
		if k == f {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return m, cmd
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.board.CancelEdit()
		m.mode = modeList
		m.status = "Cancelled"
		return m.focus(-1)
	case m.cfg.Keys.Confirm:
		return m.submit()
	case m.cfg.Keys.NextField, "down":
		return m.focus((m.field + 1) % fieldCount)
	case m.cfg.Keys.PrevField, "up":
		return m.focus((m.field + fieldCount - 1) % fieldCount)
	}

	switch m.field {
	case fieldPriority, fieldStatus:
		return m.cycleEnum(key)
	}

	in := m.inputs[m.field]
	updated, cmd := in.Update(msg)
	*in = updated
	if err := m.board.SetField(fieldNames[m.field], in.Value()); err != nil {
		m.status = err.Error()
	}
	return m, cmd
}

func (m Model) cycleEnum(key string) (tea.Model, tea.Cmd) {
	var delta int
	switch key {
	case "right", "l", " ":
		delta = 1
	case "left", "h":
		delta = -1
	default:
		return m, nil
	}
	d := m.board.Draft()
	var value string
	if m.field == fieldPriority {
		value = task.Priorities()[wrapIndex(int(d.Priority)+delta, len(task.Priorities()))].String()
	} else {
		value = task.Statuses()[wrapIndex(int(d.Status)+delta, len(task.Statuses()))].String()
	}
	if err := m.board.SetField(fieldNames[m.field], value); err != nil {
		m.status = err.Error()
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	res, err := m.board.Submit()
	switch res.Kind {
	case board.Rejected:
		m.status = "Title and due date are required"
		return m, nil
	case board.Created:
		m.status = "Added task"
	case board.Updated:
		m.status = "Updated task"
	case board.Missing:
		m.status = "Task was deleted while editing"
	}
	if err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
	}
	m.mode = modeList
	view := m.board.View()
	for i, t := range view {
		if t.ID == res.Task.ID {
			m.cursor = i
			break
		}
	}
	m.cursor = clampCursor(m.cursor, len(view))
	return m.focus(-1)
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			break
		}
		ok, err := m.board.Delete(m.pendingDel.ID)
		switch {
		case err != nil:
			m.status = fmt.Sprintf("delete failed: %v", err)
		case !ok:
			m.status = "Task already gone"
		default:
			m.status = "Deleted task"
		}
		m.cursor = clampCursor(m.cursor, len(m.board.View()))
	default:
		return m, nil
	}
	m.mode = modeList
	m.pendingDel = nil
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Task Dashboard"))
	b.WriteString("\n")
	s := m.board.Summary()
	b.WriteString(summaryStyle.Render(fmt.Sprintf("Total: %d  Completed: %d  Pending: %d", s.Total, s.Completed, s.Pending)))
	b.WriteString("\n")
	f := m.board.Filters()
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Status: %s • Priority: %s • Due date %s", f.Status, f.Priority, sortLabel(f.Sort))))
	b.WriteString("\n\n")

	view := m.board.View()
	switch {
	case len(view) > 0:
		b.WriteString(m.renderTaskList(view))
	case s.Total > 0:
		b.WriteString("No tasks match the current filters.\n")
	default:
		b.WriteString(fmt.Sprintf("No tasks yet. Press '%s' to add one.\n", m.cfg.Keys.Add))
	}

	if m.mode == modeForm {
		b.WriteString("\n")
		b.WriteString(m.renderForm())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.renderHelp()))

	return b.String()
}

func (m Model) renderTaskList(view []task.Task) string {
	var b strings.Builder
	for i, t := range view {
		cursor := " "
		if m.cursor == i && m.mode != modeForm {
			cursor = ">"
		}
		checkbox := "[ ]"
		if t.Completed() {
			checkbox = "[x]"
		}
		title := t.Title
		switch {
		case m.cursor == i:
			title = selectedStyle.Render(title)
		case t.Completed():
			title = doneStyle.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s %s %s [%s | %s | due %s]\n", cursor, checkbox, title, t.Priority, t.Status, emptyPlaceholder(t.DueDate)))
		if strings.TrimSpace(t.Description) != "" {
			b.WriteString(mutedStyle.Render("      " + t.Description))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderForm() string {
	heading := "Add Task"
	if m.board.Editing() {
		heading = "Update Task"
	}
	d := m.board.Draft()
	var b strings.Builder
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n")
	for f := fieldTitle; f < fieldCount; f++ {
		prefix := " "
		if f == m.field {
			prefix = ">"
		}
		var value string
		switch f {
		case fieldPriority:
			value = "< " + d.Priority.String() + " >"
		case fieldStatus:
			value = "< " + d.Status.String() + " >"
		default:
			value = m.inputs[f].View()
		}
		b.WriteString(fmt.Sprintf("%s %-17s %s\n", prefix, fieldLabels[f], value))
	}
	return formStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderHelp() string {
	k := m.cfg.Keys
	switch m.mode {
	case modeForm:
		return fmt.Sprintf("%s/%s field • ←/→ change option • %s save • %s cancel", k.NextField, k.PrevField, k.Confirm, k.Cancel)
	case modeConfirmDelete:
		return "y confirm • n cancel"
	}
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s delete • %s status • %s priority • %s sort • %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Delete, k.FilterStatus, k.FilterPriority, k.ToggleSort, k.Quit)
}

func sortLabel(d board.SortDirection) string {
	if d == board.Descending {
		return "↓"
	}
	return "↑"
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
