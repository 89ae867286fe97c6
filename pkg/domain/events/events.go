// Package events defines the domain events raised by assessment, state
// transitions, and progress tracking, plus the dispatcher that fans them out.
package events

import (
	"time"

	"github.com/workintel/workintel/pkg/domain/todo"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
	AggregateType() string
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	ID             string                 `json:"id"`
	Type           string                 `json:"type"`
	AggregateID_   string                 `json:"aggregate_id"`
	AggregateType_ string                 `json:"aggregate_type"`
	Timestamp      time.Time              `json:"timestamp"`
	Actor          string                 `json:"actor"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.AggregateID_ }
func (e BaseEvent) AggregateType() string { return e.AggregateType_ }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// TodoTransitioned is emitted for any todo status change.
type TodoTransitioned struct {
	BaseEvent
	TodoID     string      `json:"todo_id"`
	TaskID     string      `json:"task_id"`
	FromStatus todo.Status `json:"from_status"`
	ToStatus   todo.Status `json:"to_status"`
}

// TodoBlocked is emitted when a todo becomes blocked.
type TodoBlocked struct {
	BaseEvent
	TodoID   string `json:"todo_id"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

// DeliverableAssessed is emitted when a quality assessment completes.
type DeliverableAssessed struct {
	BaseEvent
	DeliverableID string  `json:"deliverable_id"`
	TaskID        string  `json:"task_id"`
	Version       int     `json:"version"`
	OverallScore  float64 `json:"overall_score"`
	IsCompliant   bool    `json:"is_compliant"`
}

// ProgressMilestone is emitted when task completion crosses 25/50/75/100.
type ProgressMilestone struct {
	BaseEvent
	TaskID     string  `json:"task_id"`
	Milestone  float64 `json:"milestone"`
	Completion float64 `json:"completion"`
}

// TodoDelayed is emitted by the scheduled sweep when a due date has passed.
type TodoDelayed struct {
	BaseEvent
	TodoID  string    `json:"todo_id"`
	TaskID  string    `json:"task_id"`
	DueDate time.Time `json:"due_date"`
}

// Event type constants.
const (
	EventTypeTodoTransitioned    = "todo.transitioned"
	EventTypeTodoBlocked         = "todo.blocked"
	EventTypeDeliverableAssessed = "deliverable.assessed"
	EventTypeProgressMilestone   = "progress.milestone"
	EventTypeTodoDelayed         = "todo.delayed"
)

// Aggregate types.
const (
	AggregateTypeTodo        = "todo"
	AggregateTypeDeliverable = "deliverable"
	AggregateTypeTask        = "task"
)
