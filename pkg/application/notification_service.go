package application

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/workintel/workintel/pkg/domain"
	"github.com/workintel/workintel/pkg/domain/notify"
)

// RetryQueue is the external collaborator re-invoking failed channel
// deliveries with bounded exponential backoff. The orchestrator itself is
// one-shot per invocation.
type RetryQueue interface {
	Enqueue(ctx context.Context, record *notify.Record) error
}

// NotificationService is the orchestrator: preference resolution, severity
// filtering, quiet hours, channel fan-out with partial-failure isolation.
// Preference snapshots are read-only during dispatch.
type NotificationService struct {
	repo     domain.WorkspaceRepository
	store    domain.NotificationStore
	adapters map[notify.Channel]notify.ChannelAdapter
	queue    RetryQueue
	audit    domain.AuditLogger
	now      func() time.Time

	retryConfig retry.Config
}

func NewNotificationService(repo domain.WorkspaceRepository, store domain.NotificationStore, adapters []notify.ChannelAdapter, queue RetryQueue, audit domain.AuditLogger) *NotificationService {
	byChannel := make(map[notify.Channel]notify.ChannelAdapter, len(adapters))
	for _, a := range adapters {
		byChannel[a.Channel()] = a
	}
	return &NotificationService{
		repo:     repo,
		store:    store,
		adapters: byChannel,
		queue:    queue,
		audit:    audit,
		now:      time.Now,
		retryConfig: retry.Config{
			MaxAttempts:   2,
			InitialDelay:  200 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// SetRetryQueue attaches the retry queue after construction. The queue
// resends through this service, so the two are wired in two steps.
func (s *NotificationService) SetRetryQueue(queue RetryQueue) {
	s.queue = queue
}

// SendNotificationsWithRetry dispatches one request to every eligible
// stakeholder. It always returns a result object: per-channel failures land
// in FailedNotifications and the retry queue, never in the error return.
// Stakeholders whose severity threshold disables the event's severity are
// filtered out entirely and do not count toward the summary.
func (s *NotificationService) SendNotificationsWithRetry(ctx context.Context, req *notify.Request) (*notify.Result, error) {
	if req == nil {
		return nil, fmt.Errorf("notification request is required")
	}

	result := &notify.Result{
		SentNotifications:   []notify.Delivery{},
		FailedNotifications: []notify.Delivery{},
	}

	now := s.now()
	msg := notify.Message{
		Subject:   req.Subject,
		Body:      req.Message,
		Severity:  req.Severity,
		ActionURL: req.ActionURL,
	}

	for _, stakeholder := range req.Stakeholders {
		explicit := s.loadExplicitPreferences(stakeholder)
		defaults := stakeholder.Preferences
		prefs := notify.ResolvePreferences(&defaults, explicit)

		if !prefs.SeverityEnabled(req.Severity) {
			continue
		}
		result.Summary.TotalStakeholders++

		delivery := notify.Delivery{
			NotificationID: notify.NewNotificationID(now),
			Recipient:      recipientLabel(stakeholder),
			TeamID:         stakeholder.TeamID,
			SentAt:         now,
		}

		if notify.SuppressedByQuietHours(prefs, req.Severity, now) {
			delivery.Delayed = true
			result.Summary.Delayed++
			result.SentNotifications = append(result.SentNotifications, delivery)
			s.record(&stakeholder, delivery.NotificationID, "", req, false, "delayed by quiet hours", 0)
			continue
		}

		channels := notify.DetermineChannels(stakeholder, req.Severity, prefs)
		delivery.Channels = channels

		for _, channel := range channels {
			if err := s.sendOnChannel(ctx, channel, stakeholder, msg); err != nil {
				delivery.FailedChannels = append(delivery.FailedChannels, channel)
				record := &notify.Record{
					NotificationID: delivery.NotificationID,
					Recipient:      delivery.Recipient,
					Contact:        stakeholder.ContactInfo,
					Channel:        channel,
					Urgency:        req.Severity,
					Subject:        req.Subject,
					Message:        req.Message,
					ActionURL:      req.ActionURL,
					Attempt:        1,
					Succeeded:      false,
					Error:          err.Error(),
					AttemptedAt:    s.now(),
				}
				s.persistRecord(record)
				if s.queue != nil {
					_ = s.queue.Enqueue(ctx, record)
				}
				continue
			}
			s.record(&stakeholder, delivery.NotificationID, channel, req, true, "", 1)
		}

		if len(delivery.FailedChannels) > 0 {
			result.FailedNotifications = append(result.FailedNotifications, delivery)
			result.Summary.Failed++
		}
		if len(delivery.FailedChannels) < len(channels) {
			result.SentNotifications = append(result.SentNotifications, delivery)
			result.Summary.Sent++
		}
	}

	_ = s.audit.Log("notification.dispatched", "system", map[string]interface{}{
		"trigger":            string(req.Trigger),
		"severity":           string(req.Severity),
		"total_stakeholders": result.Summary.TotalStakeholders,
		"failed":             result.Summary.Failed,
	})

	return result, nil
}

// sendOnChannel delivers with a bounded in-process retry before the failure
// is handed to the external queue. A missing adapter is a failure for that
// channel only.
func (s *NotificationService) sendOnChannel(ctx context.Context, channel notify.Channel, stakeholder notify.Stakeholder, msg notify.Message) error {
	adapter, ok := s.adapters[channel]
	if !ok {
		return fmt.Errorf("no adapter configured for channel %s", channel)
	}

	r := retry.New[struct{}](s.retryConfig)
	_, err := r.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, adapter.Send(ctx, stakeholder.ContactInfo, msg)
	})
	return err
}

// Resend delivers a previously failed notification once, without further
// in-process retries. The retry queue drives the attempt schedule.
func (s *NotificationService) Resend(ctx context.Context, record *notify.Record) error {
	adapter, ok := s.adapters[record.Channel]
	if !ok {
		return fmt.Errorf("no adapter configured for channel %s", record.Channel)
	}
	return adapter.Send(ctx, record.Contact, notify.Message{
		Subject:   record.Subject,
		Body:      record.Message,
		Severity:  record.Urgency,
		ActionURL: record.ActionURL,
	})
}

func (s *NotificationService) loadExplicitPreferences(stakeholder notify.Stakeholder) *notify.Preferences {
	if s.repo == nil {
		return nil
	}
	owner := stakeholder.ContactInfo.Email
	if owner == "" {
		owner = stakeholder.TeamID
	}
	prefs, err := s.repo.LoadPreferences(owner)
	if err != nil {
		return nil
	}
	return prefs
}

func (s *NotificationService) record(stakeholder *notify.Stakeholder, id string, channel notify.Channel, req *notify.Request, succeeded bool, errMsg string, attempt int) {
	s.persistRecord(&notify.Record{
		NotificationID: id,
		Recipient:      recipientLabel(*stakeholder),
		Channel:        channel,
		Urgency:        req.Severity,
		Message:        req.Message,
		Attempt:        attempt,
		Succeeded:      succeeded,
		Error:          errMsg,
		AttemptedAt:    s.now(),
	})
}

func (s *NotificationService) persistRecord(record *notify.Record) {
	if s.store == nil {
		return
	}
	// History failures must not affect the dispatch outcome.
	_ = s.store.RecordAttempt(record)
}

func recipientLabel(stakeholder notify.Stakeholder) string {
	if stakeholder.ContactInfo.Email != "" {
		return stakeholder.ContactInfo.Email
	}
	if stakeholder.ContactInfo.SlackUserID != "" {
		return stakeholder.ContactInfo.SlackUserID
	}
	return stakeholder.TeamID
}

// UpdateNotificationPreferences upserts an owner's preferences. Well-formed
// input never errors beyond storage failures.
func (s *NotificationService) UpdateNotificationPreferences(ctx context.Context, prefs *notify.Preferences) error {
	if prefs == nil {
		return fmt.Errorf("preferences are required")
	}
	if prefs.OwnerID == "" {
		return fmt.Errorf("preferences owner is required")
	}
	prefs.UpdatedAt = s.now()
	if err := s.repo.SavePreferences(prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	_ = s.audit.Log("notification.preferences_updated", prefs.OwnerID, map[string]interface{}{
		"channels": len(prefs.Channels),
	})
	return nil
}

// GetNotificationStatus returns the ordered delivery attempts for a
// notification. The slice may be empty, never nil.
func (s *NotificationService) GetNotificationStatus(ctx context.Context, notificationID string) ([]*notify.Record, error) {
	if s.store == nil {
		return []*notify.Record{}, nil
	}
	attempts, err := s.store.Attempts(notificationID)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []*notify.Record{}
	}
	return attempts, nil
}
