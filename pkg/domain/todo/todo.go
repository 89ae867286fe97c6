// Package todo models todo items and the deliverables they own.
package todo

import "time"

// Priority classifies the importance of a todo item.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Item is a unit of work within a task.
type Item struct {
	ID                string    `json:"id" yaml:"id"`
	TaskID            string    `json:"task_id" yaml:"task_id"`
	Title             string    `json:"title" yaml:"title"`
	Description       string    `json:"description" yaml:"description"`
	Priority          Priority  `json:"priority" yaml:"priority"`
	EstimatedHours    float64   `json:"estimated_hours" yaml:"estimated_hours"`
	Category          string    `json:"category" yaml:"category"`
	Status            Status    `json:"status" yaml:"status"`
	Dependencies      []string  `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	RelatedWorkgroups []string  `json:"related_workgroups,omitempty" yaml:"related_workgroups,omitempty"`
	DueDate           time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	BlockedAt         time.Time `json:"blocked_at,omitempty" yaml:"blocked_at,omitempty"`
	BlockReason       string    `json:"block_reason,omitempty" yaml:"block_reason,omitempty"`
	BlockCategory     string    `json:"block_category,omitempty" yaml:"block_category,omitempty"`
	StatusChangedAt   time.Time `json:"status_changed_at,omitempty" yaml:"status_changed_at,omitempty"`
	CreatedAt         time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" yaml:"updated_at"`
}

// IsOverdue reports whether the item has a due date in the past and is not complete.
func (i *Item) IsOverdue(now time.Time) bool {
	if i.DueDate.IsZero() || i.Status.IsComplete() {
		return false
	}
	return i.DueDate.Before(now)
}

// DeliverableStatus is the lifecycle state of a submitted deliverable.
type DeliverableStatus string

const (
	DeliverableSubmitted     DeliverableStatus = "submitted"
	DeliverableValidating    DeliverableStatus = "validating"
	DeliverableApproved      DeliverableStatus = "approved"
	DeliverableRejected      DeliverableStatus = "rejected"
	DeliverableNeedsRevision DeliverableStatus = "needs_revision"
)

// IsValid returns true if the status is a known deliverable status.
func (s DeliverableStatus) IsValid() bool {
	switch s {
	case DeliverableSubmitted, DeliverableValidating, DeliverableApproved,
		DeliverableRejected, DeliverableNeedsRevision:
		return true
	default:
		return false
	}
}

// Deliverable is a submitted artifact under evaluation. Versions of the same
// logical deliverable form an append-only lineage: a new version never
// replaces prior versions. All assessment state is keyed by (ID, Version) so
// concurrent submissions cannot corrupt an in-flight assessment of an
// earlier version.
type Deliverable struct {
	ID          string            `json:"id"`
	TodoID      string            `json:"todo_id"`
	TaskID      string            `json:"task_id"`
	FileType    string            `json:"file_type"`
	FileName    string            `json:"file_name"`
	Version     int               `json:"version"`
	Status      DeliverableStatus `json:"status"`
	Content     string            `json:"content,omitempty"`
	SubmittedBy string            `json:"submitted_by,omitempty"`
	SubmittedAt time.Time         `json:"submitted_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Assessment holds the opaque result of the latest quality assessment
	// run against this version. Written once per version.
	Assessment map[string]interface{} `json:"quality_assessment,omitempty"`
}

// Key identifies a single deliverable version.
type Key struct {
	DeliverableID string
	Version       int
}

// VersionKey returns the (id, version) key for this deliverable.
func (d *Deliverable) VersionKey() Key {
	return Key{DeliverableID: d.ID, Version: d.Version}
}
