package notify

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// TriggerKind identifies the event-bus trigger that raised a notification.
type TriggerKind string

const (
	TriggerStatusChanged     TriggerKind = "task-status-changed"
	TriggerQualityCheck      TriggerKind = "quality-check-complete"
	TriggerProgressMilestone TriggerKind = "progress-milestone"
	TriggerDelayedTask       TriggerKind = "delayed-task-detected"
)

// Stakeholder is one notification recipient.
type Stakeholder struct {
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	TeamID      string      `json:"team_id" yaml:"team_id"`
	ContactInfo ContactInfo `json:"contact_info" yaml:"contact_info"`
	Role        string      `json:"role" yaml:"role"`
	Priority    string      `json:"priority" yaml:"priority"` // "low" | "medium" | "high"
	Preferences Preferences `json:"notification_preferences" yaml:"notification_preferences"`
}

// ContactInfo carries per-channel addresses for a stakeholder.
type ContactInfo struct {
	SlackUserID  string `json:"slack_user_id,omitempty" yaml:"slack_user_id,omitempty"`
	TeamsWebhook string `json:"teams_webhook,omitempty" yaml:"teams_webhook,omitempty"`
	Email        string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone        string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// Request is the input to one orchestrated dispatch.
type Request struct {
	Trigger      TriggerKind   `json:"trigger"`
	Severity     Severity      `json:"severity"`
	TaskID       string        `json:"task_id,omitempty"`
	TodoID       string        `json:"todo_id,omitempty"`
	Subject      string        `json:"subject"`
	Message      string        `json:"message"`
	ActionURL    string        `json:"action_url,omitempty"`
	Stakeholders []Stakeholder `json:"stakeholders"`
}

// Delivery records the outcome for one stakeholder.
type Delivery struct {
	NotificationID string    `json:"notification_id"`
	Recipient      string    `json:"recipient"`
	TeamID         string    `json:"team_id"`
	Channels       []Channel `json:"channels"`
	FailedChannels []Channel `json:"failed_channels,omitempty"`
	Delayed        bool      `json:"delayed,omitempty"` // deferred by quiet hours
	SentAt         time.Time `json:"sent_at"`
}

// Summary aggregates a dispatch run.
type Summary struct {
	TotalStakeholders int `json:"total_stakeholders"`
	Sent              int `json:"sent"`
	Failed            int `json:"failed"`
	Delayed           int `json:"delayed"`
}

// Result reports a full orchestrated dispatch. Per-channel failures live in
// FailedNotifications; the orchestrator never raises them as errors.
type Result struct {
	SentNotifications   []Delivery `json:"sent_notifications"`
	FailedNotifications []Delivery `json:"failed_notifications"`
	Summary             Summary    `json:"summary"`
}

// Record is the append-only audit entry for one dispatch attempt. Retry
// outcomes append new records; nothing is updated in place.
type Record struct {
	NotificationID string      `json:"notification_id"`
	Recipient      string      `json:"recipient"`
	Contact        ContactInfo `json:"contact,omitempty"`
	Channel        Channel     `json:"channel"`
	Urgency        Severity    `json:"urgency"`
	Subject        string      `json:"subject,omitempty"`
	Message        string      `json:"message"`
	ActionURL      string      `json:"action_url,omitempty"`
	Attempt        int         `json:"attempt"`
	Succeeded      bool        `json:"succeeded"`
	Error          string      `json:"error,omitempty"`
	AttemptedAt    time.Time   `json:"attempted_at"`
}

// NewNotificationID generates a notification identifier in the documented
// format notif-<timestamp>-<random>, unique per call.
func NewNotificationID(now time.Time) string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("notif-%d-%s", now.UnixMilli(), hex.EncodeToString(buf))
}

// UrgencyForTrigger derives severity from the trigger type: delays and
// quality failures run high or critical, milestones run low.
func UrgencyForTrigger(trigger TriggerKind, critical bool) Severity {
	switch trigger {
	case TriggerDelayedTask:
		if critical {
			return SeverityCritical
		}
		return SeverityHigh
	case TriggerQualityCheck:
		if critical {
			return SeverityCritical
		}
		return SeverityHigh
	case TriggerProgressMilestone:
		return SeverityLow
	case TriggerStatusChanged:
		return SeverityMedium
	default:
		return SeverityMedium
	}
}
