package domain

import (
	"github.com/workintel/workintel/pkg/domain/notify"
	"github.com/workintel/workintel/pkg/domain/todo"
)

// WorkspaceRepository handles the persistence of workintel artifacts in the
// .workintel/ directory.
type WorkspaceRepository interface {
	Initialize() error
	IsInitialized() bool

	// Todos
	ListTasks() ([]string, error)
	SaveTodo(item *todo.Item) error
	GetTodo(todoID string) (*todo.Item, error)
	ListTodosByTask(taskID string) ([]*todo.Item, error)

	// Deliverables (append-only version lineage)
	SaveDeliverable(d *todo.Deliverable) error
	GetDeliverable(deliverableID string, version int) (*todo.Deliverable, error)
	LatestDeliverable(deliverableID string) (*todo.Deliverable, error)
	ListDeliverableVersions(deliverableID string) ([]*todo.Deliverable, error)

	// Notification preferences
	SavePreferences(prefs *notify.Preferences) error
	LoadPreferences(ownerID string) (*notify.Preferences, error)

	// Audit
	RecordEvent(event Event) error
	LoadEvents() ([]Event, error)
}

// NotificationStore records dispatch attempts for auditing and status lookup.
// Records are append-only; retry outcomes append, never update.
type NotificationStore interface {
	RecordAttempt(record *notify.Record) error
	Attempts(notificationID string) ([]*notify.Record, error)
}
