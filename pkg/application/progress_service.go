package application

import (
	"context"
	"time"

	"github.com/workintel/workintel/pkg/domain"
	"github.com/workintel/workintel/pkg/domain/progress"
	"github.com/workintel/workintel/pkg/domain/todo"
)

// ProgressService computes aggregate progress, blocker analysis, and
// time-ranged reports. Tracking is pure aggregation over current state;
// blocker identification may additionally flip todos with unmet
// dependencies from pending to blocked.
type ProgressService struct {
	repo  domain.WorkspaceRepository
	audit domain.AuditLogger
	now   func() time.Time
}

func NewProgressService(repo domain.WorkspaceRepository, audit domain.AuditLogger) *ProgressService {
	return &ProgressService{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

// TrackProgress aggregates the current todo state of a task. No mutation.
func (s *ProgressService) TrackProgress(ctx context.Context, taskID string) (*progress.Summary, error) {
	items, err := s.repo.ListTodosByTask(taskID)
	if err != nil {
		return nil, err
	}
	return progress.Summarize(taskID, items, s.now()), nil
}

// IdentifyBlockers classifies every blocker on the task and applies the two
// automatic transitions the sweep owns: pending todos with unmet
// dependencies flip to blocked, and blocked todos whose blocking condition
// has cleared flip back to in_progress.
func (s *ProgressService) IdentifyBlockers(ctx context.Context, taskID string) (*progress.BlockerAnalysis, error) {
	items, err := s.repo.ListTodosByTask(taskID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*todo.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	for _, item := range items {
		if item.Status.IsPending() && !todo.DependenciesMet(item, byID) {
			depID, _, _ := todo.FirstUnmetDependency(item, byID)
			item.Status = todo.StatusBlocked
			item.StatusChangedAt = s.now()
			item.UpdatedAt = item.StatusChangedAt
			item.BlockedAt = s.now()
			item.BlockCategory = string(todo.BlockerDependency)
			item.BlockReason = "waiting on dependency " + depID
			if err := s.repo.SaveTodo(item); err != nil {
				return nil, err
			}
			_ = s.audit.Log("todo.auto_blocked", "system", map[string]interface{}{
				"todo_id":    item.ID,
				"dependency": depID,
			})
		}
	}

	for _, id := range progress.ClearedBlockers(items) {
		item := byID[id]
		item.Status = todo.StatusInProgress
		item.StatusChangedAt = s.now()
		item.UpdatedAt = item.StatusChangedAt
		item.BlockedAt = time.Time{}
		item.BlockCategory = ""
		item.BlockReason = ""
		if err := s.repo.SaveTodo(item); err != nil {
			return nil, err
		}
		_ = s.audit.Log("todo.auto_unblocked", "system", map[string]interface{}{
			"todo_id": item.ID,
		})
	}

	return progress.AnalyzeBlockers(taskID, items, s.now()), nil
}

// GenerateProgressReport builds a time-scoped report. Malformed ranges are
// rejected with progress.ErrInvalidRange before any storage read.
func (s *ProgressService) GenerateProgressReport(ctx context.Context, taskID string, r progress.Range) (*progress.Report, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	items, err := s.repo.ListTodosByTask(taskID)
	if err != nil {
		return nil, err
	}
	return progress.BuildReport(taskID, items, r, s.now())
}

// OverdueTodos returns the incomplete todos of a task whose due date has
// passed. Consumed by the delayed-task sweep.
func (s *ProgressService) OverdueTodos(ctx context.Context, taskID string) ([]*todo.Item, error) {
	items, err := s.repo.ListTodosByTask(taskID)
	if err != nil {
		return nil, err
	}
	var overdue []*todo.Item
	now := s.now()
	for _, item := range items {
		if item.IsOverdue(now) {
			overdue = append(overdue, item)
		}
	}
	return overdue, nil
}
