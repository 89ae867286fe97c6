// Package progress computes aggregate progress, blocker analysis, and
// time-ranged reports over a task's todo items. Everything here is pure
// aggregation over a snapshot: summaries are derivable from the current
// todo set and never persisted as authoritative.
package progress

import (
	"time"

	"github.com/workintel/workintel/pkg/domain/todo"
)

// Summary is the aggregate view over a task's todo items at a point in time.
type Summary struct {
	TaskID               string              `json:"task_id"`
	Total                int                 `json:"total"`
	ByStatus             map[todo.Status]int `json:"by_status"`
	CompletionPercentage float64             `json:"completion_percentage"`
	BlockedTodos         int                 `json:"blocked_todos"`
	ComputedAt           time.Time           `json:"computed_at"`
}

// Summarize aggregates the current state of a task's todos. Calling it twice
// over the same snapshot yields identical summaries.
func Summarize(taskID string, items []*todo.Item, now time.Time) *Summary {
	s := &Summary{
		TaskID:     taskID,
		Total:      len(items),
		ByStatus:   make(map[todo.Status]int, 4),
		ComputedAt: now,
	}
	for _, status := range todo.AllStatuses() {
		s.ByStatus[status] = 0
	}

	completed := 0
	for _, item := range items {
		s.ByStatus[item.Status]++
		if item.Status.IsComplete() {
			completed++
		}
		if item.Status.IsBlocked() {
			s.BlockedTodos++
		}
	}

	if s.Total > 0 {
		s.CompletionPercentage = float64(completed) / float64(s.Total) * 100
	}
	return s
}

// Milestones are the completion crossings that raise progress events.
var Milestones = []float64{25, 50, 75, 100}

// CrossedMilestones returns milestones passed when completion moves from
// before to after (exclusive/inclusive). A revert (after < before) crosses
// nothing.
func CrossedMilestones(before, after float64) []float64 {
	var crossed []float64
	for _, m := range Milestones {
		if before < m && after >= m {
			crossed = append(crossed, m)
		}
	}
	return crossed
}
