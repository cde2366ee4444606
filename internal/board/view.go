package board

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"taskdash/internal/task"
)

// StatusFilter is either All or one task status.
type StatusFilter struct {
	All    bool
	Status task.Status
}

// PriorityFilter is either All or one task priority.
type PriorityFilter struct {
	All      bool
	Priority task.Priority
}

var (
	AllStatuses   = StatusFilter{All: true}
	AllPriorities = PriorityFilter{All: true}
)

func OnlyStatus(s task.Status) StatusFilter { return StatusFilter{Status: s} }

func OnlyPriority(p task.Priority) PriorityFilter { return PriorityFilter{Priority: p} }

func (f StatusFilter) Match(t task.Task) bool { return f.All || t.Status == f.Status }

func (f PriorityFilter) Match(t task.Task) bool { return f.All || t.Priority == f.Priority }

func (f StatusFilter) String() string {
	if f.All {
		return "All"
	}
	return f.Status.String()
}

func (f PriorityFilter) String() string {
	if f.All {
		return "All"
	}
	return f.Priority.String()
}

func ParseStatusFilter(v string) (StatusFilter, error) {
	if strings.EqualFold(strings.TrimSpace(v), "all") || strings.TrimSpace(v) == "" {
		return AllStatuses, nil
	}
	s, err := task.ParseStatus(v)
	if err != nil {
		return AllStatuses, err
	}
	return OnlyStatus(s), nil
}

func ParsePriorityFilter(v string) (PriorityFilter, error) {
	if strings.EqualFold(strings.TrimSpace(v), "all") || strings.TrimSpace(v) == "" {
		return AllPriorities, nil
	}
	p, err := task.ParsePriority(v)
	if err != nil {
		return AllPriorities, err
	}
	return OnlyPriority(p), nil
}

// Next cycles All -> To Do -> In Progress -> Completed -> All.
func (f StatusFilter) Next() StatusFilter {
	if f.All {
		return OnlyStatus(task.StatusToDo)
	}
	if f.Status >= task.StatusCompleted {
		return AllStatuses
	}
	return OnlyStatus(f.Status + 1)
}

// Next cycles All -> Low -> Medium -> High -> All.
func (f PriorityFilter) Next() PriorityFilter {
	if f.All {
		return OnlyPriority(task.PriorityLow)
	}
	if f.Priority >= task.PriorityHigh {
		return AllPriorities
	}
	return OnlyPriority(f.Priority + 1)
}

type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

func (d SortDirection) Toggle() SortDirection {
	if d == Descending {
		return Ascending
	}
	return Descending
}

func ParseSortDirection(v string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("invalid sort direction %q", v)
}

// Filters is the transient view state.
type Filters struct {
	Status   StatusFilter
	Priority PriorityFilter
	Sort     SortDirection
}

func DefaultFilters() Filters {
	return Filters{Status: AllStatuses, Priority: AllPriorities, Sort: Ascending}
}

// DerivedView filters tasks by status and priority and orders the rest by due
// date. Equal dates keep their relative order, and dates that do not parse
// sort after every valid date whichever the direction. tasks is not modified.
func DerivedView(tasks []task.Task, f Filters) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Status.Match(t) && f.Priority.Match(t) {
			out = append(out, t)
		}
	}

	keyed := make([]dated, len(out))
	for i, t := range out {
		d, ok := t.Due()
		keyed[i] = dated{item: t, due: d, valid: ok}
	}
	sort.SliceStable(keyed, func(i, j int) bool {
		a, b := keyed[i], keyed[j]
		switch {
		case a.valid != b.valid:
			return a.valid
		case !a.valid:
			return false
		case f.Sort == Descending:
			return a.due.After(b.due)
		default:
			return a.due.Before(b.due)
		}
	})
	for i, k := range keyed {
		out[i] = k.item
	}
	return out
}

type dated struct {
	item  task.Task
	due   time.Time
	valid bool
}

type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

func Summarize(tasks []task.Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed() {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}
