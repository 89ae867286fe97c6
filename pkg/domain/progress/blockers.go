package progress

import (
	"time"

	"github.com/workintel/workintel/pkg/domain/todo"
)

// BlockerAnalysis is the outcome of one blocker sweep over a task.
type BlockerAnalysis struct {
	TaskID               string                       `json:"task_id"`
	Blockers             []todo.Blocker               `json:"blockers"`
	ByCategory           map[todo.BlockerCategory]int `json:"by_category"`
	AverageBlockingHours float64                      `json:"average_blocking_hours"`
	AnalyzedAt           time.Time                    `json:"analyzed_at"`
}

// AnalyzeBlockers classifies every blocked todo and every todo with unmet
// dependencies. Classification goes through todo.ClassifyBlockers, the same
// function the transition guard uses, so the two call sites cannot drift.
func AnalyzeBlockers(taskID string, items []*todo.Item, now time.Time) *BlockerAnalysis {
	byID := make(map[string]*todo.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	analysis := &BlockerAnalysis{
		TaskID:     taskID,
		ByCategory: make(map[todo.BlockerCategory]int),
		AnalyzedAt: now,
	}

	var totalHours float64
	var timed int
	for _, item := range items {
		if item.Status.IsComplete() {
			continue
		}
		for _, b := range todo.ClassifyBlockers(item, byID) {
			analysis.Blockers = append(analysis.Blockers, b)
			analysis.ByCategory[b.Category]++
			if d := b.Duration(now); d > 0 {
				totalHours += d.Hours()
				timed++
			}
		}
	}

	if timed > 0 {
		analysis.AverageBlockingHours = totalHours / float64(timed)
	}
	return analysis
}

// ClearedBlockers returns the todo IDs whose blocking condition no longer
// holds. Clearance is re-evaluated on every sweep: dependency blocks clear
// as soon as every edge resolves to a completed todo, whatever reason was
// recorded at blocking time. Other categories hold until the recorded
// reason is wiped, and never clear while a dependency edge is still unmet.
func ClearedBlockers(items []*todo.Item) []string {
	byID := make(map[string]*todo.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	var cleared []string
	for _, item := range items {
		if !item.Status.IsBlocked() || !todo.DependenciesMet(item, byID) {
			continue
		}
		if todo.BlockerCategory(item.BlockCategory) == todo.BlockerDependency ||
			item.BlockReason == "" {
			cleared = append(cleared, item.ID)
		}
	}
	return cleared
}
