package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/task"
)

func ids(tasks []task.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func mixedTasks() []task.Task {
	return []task.Task{
		{ID: 1, Title: "a", Priority: task.PriorityHigh, Status: task.StatusToDo, DueDate: "2024-03-01"},
		{ID: 2, Title: "b", Priority: task.PriorityLow, Status: task.StatusCompleted, DueDate: "2024-01-15"},
		{ID: 3, Title: "c", Priority: task.PriorityMedium, Status: task.StatusInProgress, DueDate: "2024-02-10"},
		{ID: 4, Title: "d", Priority: task.PriorityHigh, Status: task.StatusCompleted, DueDate: "2023-12-31"},
	}
}

func TestDerivedViewAllSortsByDueDate(t *testing.T) {
	tasks := mixedTasks()
	f := DefaultFilters()

	asc := DerivedView(tasks, f)
	assert.Equal(t, []int64{4, 2, 3, 1}, ids(asc))

	f.Sort = Descending
	desc := DerivedView(tasks, f)
	assert.Equal(t, []int64{1, 3, 2, 4}, ids(desc))

	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
	assert.Equal(t, mixedTasks(), tasks, "input is not reordered")
}

func TestDerivedViewFilters(t *testing.T) {
	tasks := mixedTasks()

	got := DerivedView(tasks, Filters{Status: OnlyStatus(task.StatusCompleted), Priority: AllPriorities})
	assert.Equal(t, []int64{4, 2}, ids(got))

	got = DerivedView(tasks, Filters{Status: AllStatuses, Priority: OnlyPriority(task.PriorityHigh)})
	assert.Equal(t, []int64{4, 1}, ids(got))

	got = DerivedView(tasks, Filters{Status: OnlyStatus(task.StatusCompleted), Priority: OnlyPriority(task.PriorityHigh), Sort: Descending})
	assert.Equal(t, []int64{4}, ids(got))

	got = DerivedView(tasks, Filters{Status: OnlyStatus(task.StatusToDo), Priority: OnlyPriority(task.PriorityLow)})
	assert.Empty(t, got)
}

func TestDerivedViewTiesKeepInsertionOrder(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, DueDate: "2024-01-02"},
		{ID: 2, DueDate: "2024-01-01"},
		{ID: 3, DueDate: "2024-01-02"},
		{ID: 4, DueDate: "2024-01-01"},
	}
	assert.Equal(t, []int64{2, 4, 1, 3}, ids(DerivedView(tasks, DefaultFilters())))
	assert.Equal(t, []int64{1, 3, 2, 4}, ids(DerivedView(tasks, Filters{Status: AllStatuses, Priority: AllPriorities, Sort: Descending})))
}

func TestDerivedViewInvalidDatesSortLast(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, DueDate: "someday"},
		{ID: 2, DueDate: "2024-01-02"},
		{ID: 3, DueDate: ""},
		{ID: 4, DueDate: "2023-06-01"},
	}
	assert.Equal(t, []int64{4, 2, 1, 3}, ids(DerivedView(tasks, DefaultFilters())))
	assert.Equal(t, []int64{2, 4, 1, 3}, ids(DerivedView(tasks, Filters{Status: AllStatuses, Priority: AllPriorities, Sort: Descending})))
}

func TestDerivedViewEmpty(t *testing.T) {
	got := DerivedView(nil, DefaultFilters())
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSummarize(t *testing.T) {
	s := Summarize(mixedTasks())
	assert.Equal(t, Summary{Total: 4, Completed: 2, Pending: 2}, s)
	assert.Equal(t, s.Total, s.Completed+s.Pending)
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestParseFilters(t *testing.T) {
	sf, err := ParseStatusFilter("All")
	require.NoError(t, err)
	assert.Equal(t, AllStatuses, sf)

	sf, err = ParseStatusFilter("in progress")
	require.NoError(t, err)
	assert.Equal(t, OnlyStatus(task.StatusInProgress), sf)
	assert.Equal(t, "In Progress", sf.String())

	_, err = ParseStatusFilter("later")
	assert.ErrorIs(t, err, task.ErrInvalidStatus)

	pf, err := ParsePriorityFilter("")
	require.NoError(t, err)
	assert.Equal(t, AllPriorities, pf)
	assert.Equal(t, "All", pf.String())

	pf, err = ParsePriorityFilter("medium")
	require.NoError(t, err)
	assert.Equal(t, OnlyPriority(task.PriorityMedium), pf)

	d, err := ParseSortDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, Descending, d)
	d, err = ParseSortDirection("ascending")
	require.NoError(t, err)
	assert.Equal(t, Ascending, d)
	_, err = ParseSortDirection("sideways")
	assert.Error(t, err)
}

func TestFilterCycles(t *testing.T) {
	sf := AllStatuses
	var seen []string
	for i := 0; i < 4; i++ {
		sf = sf.Next()
		seen = append(seen, sf.String())
	}
	assert.Equal(t, []string{"To Do", "In Progress", "Completed", "All"}, seen)

	pf := AllPriorities
	seen = nil
	for i := 0; i < 4; i++ {
		pf = pf.Next()
		seen = append(seen, pf.String())
	}
	assert.Equal(t, []string{"Low", "Medium", "High", "All"}, seen)

	assert.Equal(t, Descending, Ascending.Toggle())
	assert.Equal(t, Ascending, Descending.Toggle())
}
