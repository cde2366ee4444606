// Package task defines the task record shared by the board, storage and UI.
package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidStatus   = errors.New("invalid status")
)

type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

var priorityNames = [...]string{"Low", "Medium", "High"}

// Priorities lists every priority in display order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

func (p Priority) String() string {
	if p < PriorityLow || p > PriorityHigh {
		return fmt.Sprintf("Priority(%d)", int(p))
	}
	return priorityNames[p]
}

func ParsePriority(v string) (Priority, error) {
	switch normalize(v) {
	case "low":
		return PriorityLow, nil
	case "medium", "med":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return PriorityLow, fmt.Errorf("%w: %q", ErrInvalidPriority, v)
}

func (p Priority) MarshalText() ([]byte, error) {
	if p < PriorityLow || p > PriorityHigh {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, int(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

type Status int

const (
	StatusToDo Status = iota
	StatusInProgress
	StatusCompleted
)

var statusNames = [...]string{"To Do", "In Progress", "Completed"}

// Statuses lists every status in workflow order.
func Statuses() []Status {
	return []Status{StatusToDo, StatusInProgress, StatusCompleted}
}

func (s Status) String() string {
	if s < StatusToDo || s > StatusCompleted {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

func ParseStatus(v string) (Status, error) {
	switch normalize(v) {
	case "todo":
		return StatusToDo, nil
	case "inprogress", "doing":
		return StatusInProgress, nil
	case "completed", "done":
		return StatusCompleted, nil
	}
	return StatusToDo, fmt.Errorf("%w: %q", ErrInvalidStatus, v)
}

func (s Status) MarshalText() ([]byte, error) {
	if s < StatusToDo || s > StatusCompleted {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// normalize folds case and drops the separators people type between words,
// so "In Progress", "in-progress" and "in_progress" all match.
func normalize(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(v)
}

type Task struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	DueDate     string   `json:"dueDate"`
}

// Blank returns a task carrying the form defaults.
func Blank() Task {
	return Task{Priority: PriorityLow, Status: StatusToDo}
}

// Valid reports whether the task may be accepted into a board. Only an empty
// title or due date fails; whitespace counts as a value.
func (t Task) Valid() bool {
	return t.Title != "" && t.DueDate != ""
}

func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// Due parses DueDate as a calendar date, falling back to RFC 3339.
func (t Task) Due() (time.Time, bool) {
	return ParseDue(t.DueDate)
}

func ParseDue(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	if d, err := time.Parse(DateLayout, v); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, v); err == nil {
		return d.UTC(), true
	}
	return time.Time{}, false
}

// UnmarshalJSON accepts records without priority or status and fills in the
// defaults, matching what the form would have produced.
func (t *Task) UnmarshalJSON(b []byte) error {
	type plain Task
	aux := struct {
		plain
		Priority *Priority `json:"priority"`
		Status   *Status   `json:"status"`
	}{plain: plain(Blank())}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*t = Task(aux.plain)
	if aux.Priority != nil {
		t.Priority = *aux.Priority
	}
	if aux.Status != nil {
		t.Status = *aux.Status
	}
	return nil
}
