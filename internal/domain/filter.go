package domain

import (
	"sort"
	"strings"
	"time"
)

// FilterAll is the sentinel meaning "no filter" for string-valued filter
// fields. Absent fields behave the same way.
const FilterAll = "all"

// DueDateRange is an inclusive due-date window. Either bound may be open.
// Tasks without a due date always pass the range filter.
type DueDateRange struct {
	Start *time.Time
	End   *time.Time
}

// TaskFilter is a conjunctive predicate over task fields. A field set to
// "all" or left empty is a no-op filter that always passes.
type TaskFilter struct {
	Status     string // "pending", "completed" or "all"
	Priority   string // "low", "medium", "high" or "all"
	AssignedTo string // user ID or "all"
	DueDate    *DueDateRange
}

// Matches reports whether a single task passes every configured predicate.
func (f TaskFilter) Matches(task *Task) bool {
	if f.Status != "" && f.Status != FilterAll {
		if string(task.Status) != f.Status {
			return false
		}
	}

	if f.Priority != "" && f.Priority != FilterAll {
		if string(task.Priority) != f.Priority {
			return false
		}
	}

	if f.AssignedTo != "" && f.AssignedTo != FilterAll {
		if task.AssignedTo == nil || *task.AssignedTo != f.AssignedTo {
			return false
		}
	}

	if f.DueDate != nil && task.DueDate != nil {
		if f.DueDate.Start != nil && task.DueDate.Before(*f.DueDate.Start) {
			return false
		}
		if f.DueDate.End != nil && task.DueDate.After(*f.DueDate.End) {
			return false
		}
	}

	return true
}

// Apply filters a task slice, preserving input order. Applying the same
// filter twice yields the same result as applying it once.
func (f TaskFilter) Apply(tasks []*Task) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Task sort fields.
const (
	SortByTitle     = "title"
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
	SortByDueDate   = "dueDate"
	SortByPriority  = "priority"
)

// TaskSort describes a single-field ordering. Direction is "asc" or "desc".
type TaskSort struct {
	Field     string
	Direction string
}

// DefaultSort orders newest-created first.
func DefaultSort() TaskSort {
	return TaskSort{Field: SortByCreatedAt, Direction: "desc"}
}

// SortTasks returns a sorted copy. The sort is stable, so ties keep input
// order. Tasks without a due date sort after tasks with one regardless of
// direction.
func SortTasks(tasks []*Task, s TaskSort) []*Task {
	out := make([]*Task, len(tasks))
	copy(out, tasks)

	desc := s.Direction == "desc"

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]

		if s.Field == SortByDueDate {
			// Nil due dates go last independent of direction.
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return false
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			}
		}

		c := compareTasks(a, b, s.Field)
		if desc {
			return c > 0
		}
		return c < 0
	})

	return out
}

func compareTasks(a, b *Task, field string) int {
	switch field {
	case SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case SortByDueDate:
		return a.DueDate.Compare(*b.DueDate)
	case SortByPriority:
		return a.Priority.ordinal() - b.Priority.ordinal()
	default:
		return 0
	}
}

// Time buckets used by list views. Overdue pending tasks are folded into
// both buckets so nothing due in the past silently disappears from
// near-term views.
const (
	BucketToday     = "today"
	BucketNext7Days = "next7days"
)

// InBucket reports whether a task belongs to the named time bucket at the
// given instant. Unknown bucket names match everything.
func InBucket(task *Task, bucket string, now time.Time) bool {
	var horizon time.Duration
	switch bucket {
	case BucketToday:
		horizon = 24 * time.Hour
	case BucketNext7Days:
		horizon = 7 * 24 * time.Hour
	default:
		return true
	}

	if task.Overdue(now) {
		return true
	}
	if task.DueDate == nil {
		return false
	}

	start := startOfDay(now)
	end := start.Add(horizon)
	return !task.DueDate.Before(start) && task.DueDate.Before(end)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameCalendarDay reports whether two instants fall on the same calendar
// date in UTC. Used to deduplicate generated recurring instances.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
