// Package board owns the task list together with the form draft and the view
// filters, and derives the filtered, sorted list and summary counts from them.
//
// A Board is not safe for concurrent use; the UI drives it from a single
// goroutine.
package board

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"taskdash/internal/task"
)

var ErrUnknownField = errors.New("unknown form field")

// Persister loads the task list once and saves the full list after each
// mutation.
type Persister interface {
	Load() ([]task.Task, error)
	Save([]task.Task) error
}

type ResultKind int

const (
	// Rejected means the draft lacked a title or due date; nothing changed.
	Rejected ResultKind = iota
	Created
	Updated
	// Missing means an edit was submitted for a task that no longer exists.
	Missing
)

func (k ResultKind) String() string {
	switch k {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Missing:
		return "missing"
	default:
		return "rejected"
	}
}

type Result struct {
	Kind ResultKind
	Task task.Task
}

type Option func(*Board)

func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

func WithFilters(f Filters) Option {
	return func(b *Board) { b.filters = f }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.log = l }
}

type Board struct {
	store   Persister
	log     *slog.Logger
	now     func() time.Time
	tasks   []task.Task
	draft   task.Task
	editing bool
	filters Filters
}

// New loads the task list from store. A load failure is logged and the board
// starts empty.
func New(store Persister, opts ...Option) *Board {
	b := &Board{
		store:   store,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
		draft:   task.Blank(),
		filters: DefaultFilters(),
	}
	for _, opt := range opts {
		opt(b)
	}

	tasks, err := store.Load()
	if err != nil {
		b.log.Warn("could not load tasks, starting empty", "error", err)
		tasks = nil
	}
	b.tasks = append([]task.Task{}, tasks...)
	b.log.Debug("board loaded", "tasks", len(b.tasks))
	return b
}

// Tasks returns the full list in insertion order.
func (b *Board) Tasks() []task.Task {
	return append([]task.Task{}, b.tasks...)
}

func (b *Board) Draft() task.Task  { return b.draft }
func (b *Board) Editing() bool     { return b.editing }
func (b *Board) Filters() Filters  { return b.filters }
func (b *Board) View() []task.Task { return DerivedView(b.tasks, b.filters) }
func (b *Board) Summary() Summary  { return Summarize(b.tasks) }

func (b *Board) Find(id int64) (task.Task, bool) {
	if i := b.index(id); i >= 0 {
		return b.tasks[i], true
	}
	return task.Task{}, false
}

// SetField updates one draft field from its form value. Enum fields accept
// the display strings and their compact spellings.
func (b *Board) SetField(field, value string) error {
	switch strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(strings.TrimSpace(field))) {
	case "title":
		b.draft.Title = value
	case "description":
		b.draft.Description = value
	case "priority":
		p, err := task.ParsePriority(value)
		if err != nil {
			return err
		}
		b.draft.Priority = p
	case "status":
		s, err := task.ParseStatus(value)
		if err != nil {
			return err
		}
		b.draft.Status = s
	case "duedate", "due":
		b.draft.DueDate = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Submit commits the draft. An invalid draft is rejected without touching any
// state. Otherwise the draft is appended (create mode) or replaces the task
// with the same id (edit mode), and the form resets. A non-nil error means
// the change was applied but could not be persisted.
func (b *Board) Submit() (Result, error) {
	if !b.draft.Valid() {
		return Result{Kind: Rejected}, nil
	}

	var res Result
	if b.editing {
		if i := b.index(b.draft.ID); i >= 0 {
			b.tasks[i] = b.draft
			res = Result{Kind: Updated, Task: b.draft}
		} else {
			res = Result{Kind: Missing, Task: b.draft}
		}
	} else {
		t := b.draft
		t.ID = b.nextID()
		b.tasks = append(b.tasks, t)
		res = Result{Kind: Created, Task: t}
	}
	b.resetForm()

	if res.Kind == Missing {
		return res, nil
	}
	return res, b.persist(res.Kind.String(), res.Task.ID)
}

// BeginEdit loads the task into the draft and switches to edit mode. It
// reports false, changing nothing, if no task has that id.
func (b *Board) BeginEdit(id int64) bool {
	t, ok := b.Find(id)
	if !ok {
		return false
	}
	b.draft = t
	b.editing = true
	return true
}

// CancelEdit leaves edit mode and clears the draft.
func (b *Board) CancelEdit() {
	b.resetForm()
}

// Delete removes the task with id. Deleting an unknown id is a no-op that
// reports false.
func (b *Board) Delete(id int64) (bool, error) {
	i := b.index(id)
	if i < 0 {
		return false, nil
	}
	b.tasks = append(b.tasks[:i:i], b.tasks[i+1:]...)
	return true, b.persist("deleted", id)
}

func (b *Board) SetStatusFilter(f StatusFilter)     { b.filters.Status = f }
func (b *Board) SetPriorityFilter(f PriorityFilter) { b.filters.Priority = f }
func (b *Board) SetSortDirection(d SortDirection)   { b.filters.Sort = d }

func (b *Board) resetForm() {
	b.draft = task.Blank()
	b.editing = false
}

func (b *Board) index(id int64) int {
	for i, t := range b.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID uses the clock in milliseconds, bumped past every existing id so two
// submits in the same millisecond still get distinct ids.
func (b *Board) nextID() int64 {
	id := b.now().UnixMilli()
	for _, t := range b.tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

func (b *Board) persist(op string, id int64) error {
	if err := b.store.Save(b.tasks); err != nil {
		b.log.Error("save tasks", "op", op, "id", id, "error", err)
		return fmt.Errorf("save tasks: %w", err)
	}
	b.log.Info("tasks saved", "op", op, "id", id, "count", len(b.tasks))
	return nil
}
