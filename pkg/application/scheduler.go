package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/workintel/workintel/pkg/domain"
	"github.com/workintel/workintel/pkg/domain/events"
	"github.com/workintel/workintel/pkg/domain/todo"
)

// Scheduler runs the periodic delayed-task sweep. Each run walks every
// task's todos and emits a TodoDelayed event for items past their due date
// that are not yet completed. The schedule is a standard 5-field cron
// expression, e.g. "0 9 * * 1-5" for weekday mornings.
type Scheduler struct {
	repo       domain.WorkspaceRepository
	dispatcher *events.EventDispatcher
	audit      domain.AuditLogger
	now        func() time.Time
}

func NewScheduler(repo domain.WorkspaceRepository, dispatcher *events.EventDispatcher, audit domain.AuditLogger) *Scheduler {
	return &Scheduler{
		repo:       repo,
		dispatcher: dispatcher,
		audit:      audit,
		now:        time.Now,
	}
}

// Start parses the cron expression and runs the sweep loop until ctx is
// cancelled. An empty schedule disables the sweep without error.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		return nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	go s.run(ctx, sched)
	return nil
}

func (s *Scheduler) run(ctx context.Context, sched cron.Schedule) {
	for {
		now := s.now()
		wait := sched.Next(now).Sub(now)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := s.SweepDelayedTodos(ctx); err != nil {
			_ = s.audit.Log("scheduler.sweep_failed", "system", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// SweepDelayedTodos emits a TodoDelayed event for every overdue open todo
// and returns the items found. It is safe to call directly, outside the
// cron loop.
func (s *Scheduler) SweepDelayedTodos(ctx context.Context) ([]*todo.Item, error) {
	tasks, err := s.repo.ListTasks()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	now := s.now()
	var delayed []*todo.Item

	for _, taskID := range tasks {
		todos, err := s.repo.ListTodosByTask(taskID)
		if err != nil {
			return nil, fmt.Errorf("list todos for %s: %w", taskID, err)
		}
		for _, item := range todos {
			if !item.IsOverdue(now) {
				continue
			}
			delayed = append(delayed, item)

			if s.dispatcher == nil {
				continue
			}
			event := &events.TodoDelayed{
				BaseEvent: events.BaseEvent{
					ID:             uuid.NewString(),
					Type:           events.EventTypeTodoDelayed,
					AggregateID_:   item.ID,
					AggregateType_: events.AggregateTypeTodo,
					Timestamp:      now,
					Actor:          "scheduler",
				},
				TodoID:  item.ID,
				TaskID:  item.TaskID,
				DueDate: item.DueDate,
			}
			// Notification failures are the handlers' problem, not the
			// sweep's.
			_ = s.dispatcher.Dispatch(ctx, event)
		}
	}

	_ = s.audit.Log("scheduler.sweep_complete", "scheduler", map[string]interface{}{
		"tasks_scanned": len(tasks),
		"delayed_todos": len(delayed),
	})

	return delayed, nil
}
