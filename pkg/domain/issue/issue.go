// Package issue defines coordination issues raised by the notification
// orchestrator and the tracker interface external backends implement.
package issue

import (
	"context"
	"time"
)

// Status of a created issue.
type Status string

const (
	StatusOpen            Status = "open"
	StatusPendingApproval Status = "pending_approval"
)

// Issue is one coordination issue to create in an external tracker.
type Issue struct {
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	TeamID      string    `json:"team_id,omitempty"` // empty for the primary issue
	Labels      []string  `json:"labels,omitempty"`
	Status      Status    `json:"status"`
	RequestedAt time.Time `json:"requested_at"`
}

// Created is the handle returned for one created issue.
type Created struct {
	ID       string `json:"id"`
	URL      string `json:"url,omitempty"`
	TeamID   string `json:"team_id,omitempty"`
	Primary  bool   `json:"primary"`
	Pending  bool   `json:"pending_approval"`
	Provider string `json:"provider"`
}

// Tracker creates issues in an external system (GitHub, Jira).
type Tracker interface {
	Create(ctx context.Context, issue Issue) (*Created, error)
	Provider() string
}
