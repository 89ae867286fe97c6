package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/workintel/workintel/pkg/domain"
	"github.com/workintel/workintel/pkg/domain/events"
	"github.com/workintel/workintel/pkg/domain/progress"
	"github.com/workintel/workintel/pkg/domain/todo"
)

// TodoService drives todo status transitions through the state machine with
// the dependency guard, and raises the domain events that feed the
// notification orchestrator.
type TodoService struct {
	repo       domain.WorkspaceRepository
	audit      domain.AuditLogger
	dispatcher *events.EventDispatcher
	now        func() time.Time
}

func NewTodoService(repo domain.WorkspaceRepository, audit domain.AuditLogger, dispatcher *events.EventDispatcher) *TodoService {
	return &TodoService{
		repo:       repo,
		audit:      audit,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// CreateTodo registers a new pending todo under a task. A missing ID is
// generated.
func (s *TodoService) CreateTodo(ctx context.Context, item *todo.Item) (*todo.Item, error) {
	if item == nil || item.TaskID == "" || item.Title == "" {
		return nil, fmt.Errorf("todo requires a task id and title")
	}
	if item.ID == "" {
		item.ID = "todo-" + uuid.NewString()
	}
	if !item.Status.IsValid() {
		item.Status = todo.StatusPending
	}
	now := s.now()
	item.CreatedAt = now
	item.UpdatedAt = now
	item.StatusChangedAt = now

	if err := s.repo.SaveTodo(item); err != nil {
		return nil, err
	}

	_ = s.audit.Log("todo.created", "system", map[string]interface{}{
		"todo_id": item.ID,
		"task_id": item.TaskID,
		"title":   item.Title,
	})
	return item, nil
}

// Transition applies an FSM event ("start", "complete", "block", "unblock",
// "stop") to a todo. Entry into in_progress is refused while any dependency
// is incomplete; callers asking to start such a todo get a DependencyError
// unless autoBlock is set, in which case the todo flips to blocked instead.
func (s *TodoService) Transition(ctx context.Context, todoID, event, actor, reason, category string, autoBlock bool) error {
	item, err := s.repo.GetTodo(todoID)
	if err != nil {
		return err
	}
	if item == nil {
		return todo.ErrTodoNotFound
	}
	if item.Status.IsFinal() {
		return todo.ErrTerminalStatus
	}

	siblings, err := s.repo.ListTodosByTask(item.TaskID)
	if err != nil {
		return err
	}
	byID := make(map[string]*todo.Item, len(siblings))
	for _, t := range siblings {
		byID[t.ID] = t
	}

	beforeSummary := progress.Summarize(item.TaskID, siblings, s.now())

	guard := func(id string, ev string) bool {
		if ev != "start" && ev != "unblock" {
			return true
		}
		return todo.DependenciesMet(item, byID)
	}

	fsm, err := todo.NewStateMachine(string(item.Status), item.ID, guard)
	if err != nil {
		return err
	}

	from := item.Status
	if err := fsm.Transition(event); err != nil {
		// A start refused by the dependency guard either fails with the
		// offending edge or auto-redirects to blocked.
		if event == "start" && !todo.DependenciesMet(item, byID) {
			depID, depStatus, _ := todo.FirstUnmetDependency(item, byID)
			if !autoBlock {
				return &todo.DependencyError{
					TodoID:       item.ID,
					DependencyID: depID,
					Status:       string(depStatus),
				}
			}
			return s.applyBlock(ctx, item, siblings, beforeSummary, actor,
				"waiting on dependency "+depID, string(todo.BlockerDependency))
		}
		return &todo.TransitionError{TodoID: item.ID, FromStatus: string(from), Event: event}
	}

	item.Status = fsm.CurrentStatus()
	item.StatusChangedAt = s.now()
	item.UpdatedAt = item.StatusChangedAt

	switch event {
	case "block":
		item.BlockedAt = s.now()
		item.BlockReason = reason
		if c := todo.BlockerCategory(category); c.IsValid() {
			item.BlockCategory = category
		} else {
			item.BlockCategory = string(todo.BlockerTechnical)
		}
	case "unblock":
		item.BlockedAt = time.Time{}
		item.BlockReason = ""
		item.BlockCategory = ""
	}

	if err := s.repo.SaveTodo(item); err != nil {
		return err
	}

	_ = s.audit.Log("todo.transition", actor, map[string]interface{}{
		"todo_id": item.ID,
		"event":   event,
		"from":    string(from),
		"status":  string(item.Status),
		"reason":  reason,
	})

	s.emitTransition(ctx, item, from, actor)
	s.emitMilestones(ctx, item.TaskID, beforeSummary, actor)
	return nil
}

// applyBlock flips a todo to blocked with the given classification.
func (s *TodoService) applyBlock(ctx context.Context, item *todo.Item, siblings []*todo.Item, before *progress.Summary, actor, reason, category string) error {
	from := item.Status
	item.Status = todo.StatusBlocked
	item.StatusChangedAt = s.now()
	item.UpdatedAt = item.StatusChangedAt
	item.BlockedAt = s.now()
	item.BlockReason = reason
	item.BlockCategory = category

	if err := s.repo.SaveTodo(item); err != nil {
		return err
	}

	_ = s.audit.Log("todo.transition", actor, map[string]interface{}{
		"todo_id": item.ID,
		"event":   "block",
		"from":    string(from),
		"status":  string(todo.StatusBlocked),
		"reason":  reason,
	})

	s.emitTransition(ctx, item, from, actor)
	if s.dispatcher != nil {
		_ = s.dispatcher.Dispatch(ctx, &events.TodoBlocked{
			BaseEvent: events.BaseEvent{
				ID:             uuid.NewString(),
				Type:           events.EventTypeTodoBlocked,
				AggregateID_:   item.ID,
				AggregateType_: events.AggregateTypeTodo,
				Timestamp:      s.now(),
				Actor:          actor,
			},
			TodoID:   item.ID,
			Category: category,
			Reason:   reason,
		})
	}
	return nil
}

func (s *TodoService) emitTransition(ctx context.Context, item *todo.Item, from todo.Status, actor string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Dispatch(ctx, &events.TodoTransitioned{
		BaseEvent: events.BaseEvent{
			ID:             uuid.NewString(),
			Type:           events.EventTypeTodoTransitioned,
			AggregateID_:   item.ID,
			AggregateType_: events.AggregateTypeTodo,
			Timestamp:      s.now(),
			Actor:          actor,
		},
		TodoID:     item.ID,
		TaskID:     item.TaskID,
		FromStatus: from,
		ToStatus:   item.Status,
	})
}

// emitMilestones recomputes completion and dispatches one event per crossed
// milestone (25/50/75/100).
func (s *TodoService) emitMilestones(ctx context.Context, taskID string, before *progress.Summary, actor string) {
	if s.dispatcher == nil {
		return
	}
	items, err := s.repo.ListTodosByTask(taskID)
	if err != nil {
		return
	}
	after := progress.Summarize(taskID, items, s.now())
	for _, m := range progress.CrossedMilestones(before.CompletionPercentage, after.CompletionPercentage) {
		_ = s.dispatcher.Dispatch(ctx, &events.ProgressMilestone{
			BaseEvent: events.BaseEvent{
				ID:             uuid.NewString(),
				Type:           events.EventTypeProgressMilestone,
				AggregateID_:   taskID,
				AggregateType_: events.AggregateTypeTask,
				Timestamp:      s.now(),
				Actor:          actor,
			},
			TaskID:     taskID,
			Milestone:  m,
			Completion: after.CompletionPercentage,
		})
	}
}
