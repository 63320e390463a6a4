package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterFixture() []*Task {
	assignee := "user-2"
	due1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	due2 := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)

	return []*Task{
		{ID: "t1", Title: "Buy milk", Status: TaskStatusPending, Priority: TaskPriorityHigh, DueDate: &due1},
		{ID: "t2", Title: "Call plumber", Status: TaskStatusCompleted, Priority: TaskPriorityLow, DueDate: &due2, AssignedTo: &assignee},
		{ID: "t3", Title: "Annual review", Status: TaskStatusPending, Priority: TaskPriorityMedium},
	}
}

func TestTaskFilter_Empty_PassesEverything(t *testing.T) {
	tasks := filterFixture()
	out := TaskFilter{}.Apply(tasks)
	assert.Len(t, out, 3)
}

func TestTaskFilter_All_PassesEverything(t *testing.T) {
	tasks := filterFixture()
	out := TaskFilter{Status: "all", Priority: "all", AssignedTo: "all"}.Apply(tasks)
	assert.Len(t, out, 3)
}

func TestTaskFilter_Status(t *testing.T) {
	out := TaskFilter{Status: "pending"}.Apply(filterFixture())

	require.Len(t, out, 2)
	assert.Equal(t, "t1", out[0].ID)
	assert.Equal(t, "t3", out[1].ID)
}

func TestTaskFilter_Priority(t *testing.T) {
	out := TaskFilter{Priority: "high"}.Apply(filterFixture())

	require.Len(t, out, 1)
	assert.Equal(t, "t1", out[0].ID)
}

func TestTaskFilter_AssignedTo(t *testing.T) {
	out := TaskFilter{AssignedTo: "user-2"}.Apply(filterFixture())

	require.Len(t, out, 1)
	assert.Equal(t, "t2", out[0].ID)
}

func TestTaskFilter_AssignedTo_NoMatchOnUnassigned(t *testing.T) {
	out := TaskFilter{AssignedTo: "user-9"}.Apply(filterFixture())
	assert.Empty(t, out)
}

func TestTaskFilter_Conjunctive(t *testing.T) {
	out := TaskFilter{Status: "pending", Priority: "medium"}.Apply(filterFixture())

	require.Len(t, out, 1)
	assert.Equal(t, "t3", out[0].ID)
}

func TestTaskFilter_DueDateRange_Inclusive(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)

	out := TaskFilter{DueDate: &DueDateRange{Start: &start, End: &end}}.Apply(filterFixture())

	// Both bounds are inclusive, and t3 without a due date passes.
	require.Len(t, out, 3)
}

func TestTaskFilter_DueDateRange_ExcludesOutside(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	out := TaskFilter{DueDate: &DueDateRange{Start: &start, End: &end}}.Apply(filterFixture())

	// t1 before the window, t2 after it, t3 has no due date.
	require.Len(t, out, 1)
	assert.Equal(t, "t3", out[0].ID)
}

func TestTaskFilter_Idempotent(t *testing.T) {
	f := TaskFilter{Status: "pending"}
	once := f.Apply(filterFixture())
	twice := f.Apply(once)

	assert.Equal(t, once, twice)
}

func TestSortTasks_TitleAsc(t *testing.T) {
	out := SortTasks(filterFixture(), TaskSort{Field: SortByTitle, Direction: "asc"})

	require.Len(t, out, 3)
	assert.Equal(t, "Annual review", out[0].Title)
	assert.Equal(t, "Buy milk", out[1].Title)
	assert.Equal(t, "Call plumber", out[2].Title)
}

func TestSortTasks_TitleDesc(t *testing.T) {
	out := SortTasks(filterFixture(), TaskSort{Field: SortByTitle, Direction: "desc"})

	require.Len(t, out, 3)
	assert.Equal(t, "Call plumber", out[0].Title)
	assert.Equal(t, "Annual review", out[2].Title)
}

func TestSortTasks_DueDate_NilLastAsc(t *testing.T) {
	out := SortTasks(filterFixture(), TaskSort{Field: SortByDueDate, Direction: "asc"})

	require.Len(t, out, 3)
	assert.Equal(t, "t1", out[0].ID)
	assert.Equal(t, "t2", out[1].ID)
	assert.Equal(t, "t3", out[2].ID)
}

func TestSortTasks_DueDate_NilLastDesc(t *testing.T) {
	out := SortTasks(filterFixture(), TaskSort{Field: SortByDueDate, Direction: "desc"})

	require.Len(t, out, 3)
	assert.Equal(t, "t2", out[0].ID)
	assert.Equal(t, "t1", out[1].ID)
	// Nil due date stays last even when descending.
	assert.Equal(t, "t3", out[2].ID)
}

func TestSortTasks_PriorityDesc_HighFirst(t *testing.T) {
	out := SortTasks(filterFixture(), TaskSort{Field: SortByPriority, Direction: "desc"})

	require.Len(t, out, 3)
	assert.Equal(t, TaskPriorityHigh, out[0].Priority)
	assert.Equal(t, TaskPriorityMedium, out[1].Priority)
	assert.Equal(t, TaskPriorityLow, out[2].Priority)
}

func TestSortTasks_StableOnTies(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []*Task{
		{ID: "a", Title: "same", CreatedAt: created},
		{ID: "b", Title: "same", CreatedAt: created},
		{ID: "c", Title: "same", CreatedAt: created},
	}

	out := SortTasks(tasks, TaskSort{Field: SortByCreatedAt, Direction: "asc"})

	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
}

func TestSortTasks_DoesNotMutateInput(t *testing.T) {
	tasks := filterFixture()
	SortTasks(tasks, TaskSort{Field: SortByTitle, Direction: "asc"})

	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, "t2", tasks[1].ID)
	assert.Equal(t, "t3", tasks[2].ID)
}

func TestDefaultSort(t *testing.T) {
	s := DefaultSort()
	assert.Equal(t, SortByCreatedAt, s.Field)
	assert.Equal(t, "desc", s.Direction)
}

func TestInBucket_Today(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	dueLaterToday := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	dueTomorrow := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	dueYesterday := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	assert.True(t, InBucket(&Task{Status: TaskStatusPending, DueDate: &dueLaterToday}, BucketToday, now))
	assert.False(t, InBucket(&Task{Status: TaskStatusPending, DueDate: &dueTomorrow}, BucketToday, now))
	assert.False(t, InBucket(&Task{Status: TaskStatusPending}, BucketToday, now))

	// Overdue pending tasks fold into the bucket.
	assert.True(t, InBucket(&Task{Status: TaskStatusPending, DueDate: &dueYesterday}, BucketToday, now))
	// Completed tasks in the past do not.
	assert.False(t, InBucket(&Task{Status: TaskStatusCompleted, DueDate: &dueYesterday}, BucketToday, now))
}

func TestInBucket_Next7Days(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	dueIn5Days := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	dueIn8Days := time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC)
	dueYesterday := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	assert.True(t, InBucket(&Task{Status: TaskStatusPending, DueDate: &dueIn5Days}, BucketNext7Days, now))
	assert.False(t, InBucket(&Task{Status: TaskStatusPending, DueDate: &dueIn8Days}, BucketNext7Days, now))
	assert.True(t, InBucket(&Task{Status: TaskStatusPending, DueDate: &dueYesterday}, BucketNext7Days, now))
}

func TestInBucket_UnknownBucketPassesEverything(t *testing.T) {
	now := time.Now().UTC()
	assert.True(t, InBucket(&Task{Status: TaskStatusPending}, "", now))
}

func TestSameCalendarDay(t *testing.T) {
	a := time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC)
	b := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	c := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameCalendarDay(a, b))
	assert.False(t, SameCalendarDay(b, c))
}
