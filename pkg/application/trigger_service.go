package application

import (
	"context"
	"fmt"
	"time"

	"github.com/workintel/workintel/pkg/domain/events"
	"github.com/workintel/workintel/pkg/domain/notify"
)

// StakeholderDirectory resolves the stakeholders interested in a task.
type StakeholderDirectory interface {
	StakeholdersForTask(taskID string) ([]notify.Stakeholder, error)
}

// TriggerService bridges domain events to the notification orchestrator.
// Each handler translates one event type into a dispatch request; handlers
// are isolated by the dispatcher's ContinueOnError mode.
type TriggerService struct {
	notifications *NotificationService
	directory     StakeholderDirectory
	dashboardURL  string
	now           func() time.Time
}

func NewTriggerService(notifications *NotificationService, directory StakeholderDirectory, dashboardURL string) *TriggerService {
	return &TriggerService{
		notifications: notifications,
		directory:     directory,
		dashboardURL:  dashboardURL,
		now:           time.Now,
	}
}

// RegisterHandlers wires the trigger handlers onto the dispatcher.
func (s *TriggerService) RegisterHandlers(dispatcher *events.EventDispatcher) {
	dispatcher.ContinueOnError = true
	dispatcher.RegisterHandler("notify-status-change", s.handleTransition, events.EventTypeTodoTransitioned)
	dispatcher.RegisterHandler("notify-quality-result", s.handleAssessment, events.EventTypeDeliverableAssessed)
	dispatcher.RegisterHandler("notify-milestone", s.handleMilestone, events.EventTypeProgressMilestone)
	dispatcher.RegisterHandler("notify-delayed", s.handleDelayed, events.EventTypeTodoDelayed)
}

func (s *TriggerService) handleTransition(ctx context.Context, event events.DomainEvent) error {
	e, ok := event.(*events.TodoTransitioned)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	return s.SendTaskReminder(ctx, e.TaskID, notify.TriggerStatusChanged,
		fmt.Sprintf("Task update: %s", e.TodoID),
		fmt.Sprintf("Todo %s moved from %s to %s.", e.TodoID, e.FromStatus, e.ToStatus),
		notify.UrgencyForTrigger(notify.TriggerStatusChanged, false))
}

func (s *TriggerService) handleAssessment(ctx context.Context, event events.DomainEvent) error {
	e, ok := event.(*events.DeliverableAssessed)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if e.IsCompliant {
		return nil
	}
	critical := e.OverallScore < 50
	return s.SendQualityIssueNotification(ctx, e.TaskID, e.DeliverableID, e.Version, e.OverallScore, critical)
}

func (s *TriggerService) handleMilestone(ctx context.Context, event events.DomainEvent) error {
	e, ok := event.(*events.ProgressMilestone)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	return s.SendProgressUpdate(ctx, e.TaskID, e.Milestone, e.Completion)
}

func (s *TriggerService) handleDelayed(ctx context.Context, event events.DomainEvent) error {
	e, ok := event.(*events.TodoDelayed)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	critical := s.now().Sub(e.DueDate) > 72*time.Hour
	return s.SendTaskReminder(ctx, e.TaskID, notify.TriggerDelayedTask,
		fmt.Sprintf("Delayed: %s", e.TodoID),
		fmt.Sprintf("Todo %s is overdue since %s.", e.TodoID, e.DueDate.Format("2006-01-02")),
		notify.UrgencyForTrigger(notify.TriggerDelayedTask, critical))
}

// SendTaskReminder notifies a task's stakeholders about a status change or
// delay.
func (s *TriggerService) SendTaskReminder(ctx context.Context, taskID string, trigger notify.TriggerKind, subject, message string, severity notify.Severity) error {
	stakeholders, err := s.directory.StakeholdersForTask(taskID)
	if err != nil {
		return fmt.Errorf("resolve stakeholders for %s: %w", taskID, err)
	}
	_, err = s.notifications.SendNotificationsWithRetry(ctx, &notify.Request{
		Trigger:      trigger,
		Severity:     severity,
		TaskID:       taskID,
		Subject:      subject,
		Message:      message,
		ActionURL:    s.taskURL(taskID),
		Stakeholders: stakeholders,
	})
	return err
}

// SendQualityIssueNotification notifies stakeholders that a deliverable
// failed its quality assessment.
func (s *TriggerService) SendQualityIssueNotification(ctx context.Context, taskID, deliverableID string, version int, score float64, critical bool) error {
	stakeholders, err := s.directory.StakeholdersForTask(taskID)
	if err != nil {
		return fmt.Errorf("resolve stakeholders for %s: %w", taskID, err)
	}
	_, err = s.notifications.SendNotificationsWithRetry(ctx, &notify.Request{
		Trigger:  notify.TriggerQualityCheck,
		Severity: notify.UrgencyForTrigger(notify.TriggerQualityCheck, critical),
		TaskID:   taskID,
		Subject:  fmt.Sprintf("Quality check failed: %s v%d", deliverableID, version),
		Message: fmt.Sprintf("Deliverable %s version %d scored %.1f and needs revision.",
			deliverableID, version, score),
		ActionURL:    s.taskURL(taskID),
		Stakeholders: stakeholders,
	})
	return err
}

// SendProgressUpdate notifies stakeholders that a completion milestone was
// crossed.
func (s *TriggerService) SendProgressUpdate(ctx context.Context, taskID string, milestone, completion float64) error {
	stakeholders, err := s.directory.StakeholdersForTask(taskID)
	if err != nil {
		return fmt.Errorf("resolve stakeholders for %s: %w", taskID, err)
	}
	_, err = s.notifications.SendNotificationsWithRetry(ctx, &notify.Request{
		Trigger:  notify.TriggerProgressMilestone,
		Severity: notify.UrgencyForTrigger(notify.TriggerProgressMilestone, false),
		TaskID:   taskID,
		Subject:  fmt.Sprintf("Milestone reached: %.0f%%", milestone),
		Message: fmt.Sprintf("Task %s crossed the %.0f%% milestone and is now %.1f%% complete.",
			taskID, milestone, completion),
		ActionURL:    s.taskURL(taskID),
		Stakeholders: stakeholders,
	})
	return err
}

func (s *TriggerService) taskURL(taskID string) string {
	if s.dashboardURL == "" || taskID == "" {
		return ""
	}
	return fmt.Sprintf("%s/tasks/%s", s.dashboardURL, taskID)
}
