package domain

import (
	"math"
	"time"
)

// ListStats are read-only per-list counters derived from the raw task set.
// Invariant: Completed + Pending == Total.
type ListStats struct {
	TotalTasks     int
	CompletedTasks int
	PendingTasks   int
	OverdueTasks   int
}

// ComputeListStats derives list counters from tasks without mutating them.
func ComputeListStats(tasks []*Task, now time.Time) ListStats {
	var stats ListStats

	stats.TotalTasks = len(tasks)
	for _, t := range tasks {
		if t.Status == TaskStatusCompleted {
			stats.CompletedTasks++
			continue
		}
		stats.PendingTasks++
		if t.Overdue(now) {
			stats.OverdueTasks++
		}
	}

	return stats
}

// SubtaskStats are per-task subtask counters.
type SubtaskStats struct {
	Total     int
	Completed int
	Pending   int
}

// ComputeSubtaskStats derives subtask counters for a task.
func ComputeSubtaskStats(subtasks []*Subtask) SubtaskStats {
	var stats SubtaskStats

	stats.Total = len(subtasks)
	for _, s := range subtasks {
		if s.Status == TaskStatusCompleted {
			stats.Completed++
		} else {
			stats.Pending++
		}
	}

	return stats
}

// ProgressPercentage reports task completion as 0-100. With subtasks it is
// the rounded completed ratio; without, it is binary on the task's own
// status.
func ProgressPercentage(task *Task, stats SubtaskStats) int {
	if stats.Total > 0 {
		return int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	if task.Status == TaskStatusCompleted {
		return 100
	}
	return 0
}
