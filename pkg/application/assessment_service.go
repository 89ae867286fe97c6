package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/workintel/workintel/pkg/domain"
	"github.com/workintel/workintel/pkg/domain/events"
	"github.com/workintel/workintel/pkg/domain/quality"
	"github.com/workintel/workintel/pkg/domain/todo"
)

// AssessmentService runs quality assessments and applies their outcome to
// the deliverable lifecycle: approved when compliant, needs_revision
// otherwise.
type AssessmentService struct {
	repo       domain.WorkspaceRepository
	engine     *quality.Engine
	audit      domain.AuditLogger
	dispatcher *events.EventDispatcher
	now        func() time.Time
}

func NewAssessmentService(repo domain.WorkspaceRepository, engine *quality.Engine, audit domain.AuditLogger, dispatcher *events.EventDispatcher) *AssessmentService {
	return &AssessmentService{
		repo:       repo,
		engine:     engine,
		audit:      audit,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// SubmitDeliverable records a new deliverable version. Prior versions are
// never deleted; each submission extends the lineage.
func (s *AssessmentService) SubmitDeliverable(ctx context.Context, d *todo.Deliverable) (*todo.Deliverable, error) {
	if d == nil {
		return nil, fmt.Errorf("deliverable is required")
	}
	if d.TodoID == "" {
		return nil, fmt.Errorf("deliverable must reference its owning todo")
	}

	if d.ID == "" {
		d.ID = "dlv-" + uuid.NewString()
	}

	latest, err := s.repo.LatestDeliverable(d.ID)
	if err == nil && latest != nil {
		d.Version = latest.Version + 1
	} else if d.Version == 0 {
		d.Version = 1
	}

	d.Status = todo.DeliverableSubmitted
	d.SubmittedAt = s.now()
	d.UpdatedAt = d.SubmittedAt

	if err := s.repo.SaveDeliverable(d); err != nil {
		return nil, fmt.Errorf("save deliverable: %w", err)
	}

	_ = s.audit.Log("deliverable.submitted", d.SubmittedBy, map[string]interface{}{
		"deliverable_id": d.ID,
		"todo_id":        d.TodoID,
		"version":        d.Version,
		"file_type":      d.FileType,
	})

	return d, nil
}

// PerformQualityAssessment scores the given deliverable version, persists
// the result, and transitions the deliverable status. The assessment runs
// against an immutable snapshot keyed by (deliverableID, version), so a
// concurrent submission of a newer version cannot corrupt this run.
func (s *AssessmentService) PerformQualityAssessment(ctx context.Context, deliverableID string, version int, standards []string, assessCtx quality.AssessmentContext) (*quality.AssessmentResult, error) {
	d, err := s.repo.GetDeliverable(deliverableID, version)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, todo.ErrDeliverableNotFound
	}

	d.Status = todo.DeliverableValidating
	d.UpdatedAt = s.now()
	if err := s.repo.SaveDeliverable(d); err != nil {
		return nil, fmt.Errorf("mark deliverable validating: %w", err)
	}

	result, err := s.engine.PerformAssessment(ctx, d, standards, assessCtx)
	if err != nil {
		return nil, err
	}

	d.Assessment = result.ToMap()
	if result.ComplianceStatus.IsCompliant {
		d.Status = todo.DeliverableApproved
	} else {
		d.Status = todo.DeliverableNeedsRevision
	}
	d.UpdatedAt = s.now()

	if err := s.repo.SaveDeliverable(d); err != nil {
		return nil, fmt.Errorf("persist assessment: %w", err)
	}

	_ = s.audit.Log("deliverable.assessed", "system", map[string]interface{}{
		"deliverable_id": d.ID,
		"version":        d.Version,
		"overall_score":  result.OverallScore,
		"is_compliant":   result.ComplianceStatus.IsCompliant,
		"status":         string(d.Status),
	})

	if s.dispatcher != nil {
		event := &events.DeliverableAssessed{
			BaseEvent: events.BaseEvent{
				ID:             uuid.NewString(),
				Type:           events.EventTypeDeliverableAssessed,
				AggregateID_:   d.ID,
				AggregateType_: events.AggregateTypeDeliverable,
				Timestamp:      s.now(),
				Actor:          "system",
			},
			DeliverableID: d.ID,
			TaskID:        d.TaskID,
			Version:       d.Version,
			OverallScore:  result.OverallScore,
			IsCompliant:   result.ComplianceStatus.IsCompliant,
		}
		// Notification fan-out failures must not fail the assessment.
		_ = s.dispatcher.Dispatch(ctx, event)
	}

	return result, nil
}

// RejectDeliverable marks a version rejected outside the scoring flow.
func (s *AssessmentService) RejectDeliverable(ctx context.Context, deliverableID string, version int, actor, reason string) error {
	d, err := s.repo.GetDeliverable(deliverableID, version)
	if err != nil {
		return err
	}
	if d == nil {
		return todo.ErrDeliverableNotFound
	}

	d.Status = todo.DeliverableRejected
	d.UpdatedAt = s.now()
	if err := s.repo.SaveDeliverable(d); err != nil {
		return fmt.Errorf("reject deliverable: %w", err)
	}

	_ = s.audit.Log("deliverable.rejected", actor, map[string]interface{}{
		"deliverable_id": d.ID,
		"version":        d.Version,
		"reason":         reason,
	})
	return nil
}

// AvailableQualityStandards lists standard names for a file type; tolerant
// of empty/unknown input.
func (s *AssessmentService) AvailableQualityStandards(fileType string) []string {
	return quality.AvailableStandards(fileType)
}

// QualityDimensionConfig returns the dimension definitions applicable to a
// file type.
func (s *AssessmentService) QualityDimensionConfig(fileType string) []quality.DimensionConfig {
	return quality.DimensionConfigFor(fileType)
}

// ValidateQualityStandardConfig accumulates all invariant violations in the
// supplied config.
func (s *AssessmentService) ValidateQualityStandardConfig(cfg *quality.StandardConfig) quality.ValidationReport {
	return quality.ValidateConfig(cfg)
}
