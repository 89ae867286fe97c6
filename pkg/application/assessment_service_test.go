package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/workintel/workintel/pkg/domain"
	"github.com/workintel/workintel/pkg/domain/events"
	"github.com/workintel/workintel/pkg/domain/quality"
	"github.com/workintel/workintel/pkg/domain/todo"
)

func newAssessmentFixture(t *testing.T) (*AssessmentService, *memRepo, *eventRecorder) {
	t.Helper()
	repo := newMemRepo()
	dispatcher := events.NewEventDispatcher()
	recorder := newEventRecorder()
	dispatcher.RegisterWildcard("recorder", recorder.handle)

	engine, err := quality.NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	svc := NewAssessmentService(repo, engine, domain.NopAuditLogger{}, dispatcher)
	svc.now = testClock()
	return svc, repo, recorder
}

func markdownDeliverable(content string) *todo.Deliverable {
	return &todo.Deliverable{
		TodoID:   "todo-1",
		TaskID:   "task-1",
		FileType: ".md",
		FileName: "design.md",
		Content:  content,
	}
}

func TestSubmitDeliverableVersioning(t *testing.T) {
	svc, repo, _ := newAssessmentFixture(t)

	// 1. The first submission starts the lineage at version 1.
	first, err := svc.SubmitDeliverable(context.Background(), markdownDeliverable("# Design\n\ndraft one"))
	if err != nil {
		t.Fatalf("SubmitDeliverable: %v", err)
	}
	if first.ID == "" || first.Version != 1 {
		t.Errorf("first = %s v%d", first.ID, first.Version)
	}
	if first.Status != todo.DeliverableSubmitted {
		t.Errorf("Status = %s", first.Status)
	}

	// 2. Re-submitting the same ID appends a new version.
	second := markdownDeliverable("# Design\n\ndraft two")
	second.ID = first.ID
	second, err = svc.SubmitDeliverable(context.Background(), second)
	if err != nil {
		t.Fatalf("SubmitDeliverable v2: %v", err)
	}
	if second.Version != 2 {
		t.Errorf("second.Version = %d", second.Version)
	}

	// 3. The earlier version is untouched.
	stored, err := repo.GetDeliverable(first.ID, 1)
	if err != nil {
		t.Fatalf("GetDeliverable v1: %v", err)
	}
	if !strings.Contains(stored.Content, "draft one") {
		t.Errorf("v1 content = %q", stored.Content)
	}
	versions, _ := repo.ListDeliverableVersions(first.ID)
	if len(versions) != 2 {
		t.Errorf("versions = %d", len(versions))
	}
}

func TestSubmitDeliverableRequiresTodo(t *testing.T) {
	svc, _, _ := newAssessmentFixture(t)

	if _, err := svc.SubmitDeliverable(context.Background(), nil); err == nil {
		t.Error("expected nil deliverable to be rejected")
	}
	d := markdownDeliverable("content")
	d.TodoID = ""
	if _, err := svc.SubmitDeliverable(context.Background(), d); err == nil {
		t.Error("expected missing todo reference to be rejected")
	}
}

func TestPerformQualityAssessmentApproves(t *testing.T) {
	svc, repo, recorder := newAssessmentFixture(t)

	content := "# Design\n\n## Goals\n\n## Approach\n\n" +
		"The service reads each submission and scores it. Short sentences keep this readable. " +
		"Every section covers one concern."
	d, err := svc.SubmitDeliverable(context.Background(), markdownDeliverable(content))
	if err != nil {
		t.Fatalf("SubmitDeliverable: %v", err)
	}

	result, err := svc.PerformQualityAssessment(context.Background(), d.ID, d.Version, nil, quality.AssessmentContext{})
	if err != nil {
		t.Fatalf("PerformQualityAssessment: %v", err)
	}

	// 1. Well-formed markdown clears the document standard.
	if !result.ComplianceStatus.IsCompliant {
		t.Fatalf("expected compliant result, got %.1f: %+v", result.OverallScore, result.ImprovementSuggestions)
	}

	// 2. The deliverable is approved with the assessment attached.
	stored, _ := repo.GetDeliverable(d.ID, d.Version)
	if stored.Status != todo.DeliverableApproved {
		t.Errorf("Status = %s", stored.Status)
	}
	if stored.Assessment == nil {
		t.Error("assessment not persisted")
	}

	// 3. A DeliverableAssessed event went out.
	if recorder.count(events.EventTypeDeliverableAssessed) != 1 {
		t.Error("expected a DeliverableAssessed event")
	}
}

func TestPerformQualityAssessmentNeedsRevision(t *testing.T) {
	svc, repo, _ := newAssessmentFixture(t)

	d, err := svc.SubmitDeliverable(context.Background(), markdownDeliverable(""))
	if err != nil {
		t.Fatalf("SubmitDeliverable: %v", err)
	}

	result, err := svc.PerformQualityAssessment(context.Background(), d.ID, d.Version, nil, quality.AssessmentContext{})
	if err != nil {
		t.Fatalf("PerformQualityAssessment: %v", err)
	}

	if result.ComplianceStatus.IsCompliant {
		t.Error("expected non-compliant result for empty content")
	}
	stored, _ := repo.GetDeliverable(d.ID, d.Version)
	if stored.Status != todo.DeliverableNeedsRevision {
		t.Errorf("Status = %s", stored.Status)
	}
	if len(result.ImprovementSuggestions) == 0 {
		t.Error("expected improvement suggestions")
	}
}

func TestPerformQualityAssessmentUnknownDeliverable(t *testing.T) {
	svc, _, _ := newAssessmentFixture(t)

	_, err := svc.PerformQualityAssessment(context.Background(), "dlv-missing", 1, nil, quality.AssessmentContext{})
	if !errors.Is(err, todo.ErrDeliverableNotFound) {
		t.Errorf("expected ErrDeliverableNotFound, got %v", err)
	}
}

func TestRejectDeliverable(t *testing.T) {
	svc, repo, _ := newAssessmentFixture(t)

	d, err := svc.SubmitDeliverable(context.Background(), markdownDeliverable("# Draft"))
	if err != nil {
		t.Fatalf("SubmitDeliverable: %v", err)
	}

	if err := svc.RejectDeliverable(context.Background(), d.ID, d.Version, "alice", "off scope"); err != nil {
		t.Fatalf("RejectDeliverable: %v", err)
	}

	stored, _ := repo.GetDeliverable(d.ID, d.Version)
	if stored.Status != todo.DeliverableRejected {
		t.Errorf("Status = %s", stored.Status)
	}
}

func TestAvailableQualityStandards(t *testing.T) {
	svc, _, _ := newAssessmentFixture(t)

	names := svc.AvailableQualityStandards(".go")
	if len(names) == 0 || names[0] != "code-default" {
		t.Errorf("standards for .go = %v", names)
	}

	dims := svc.QualityDimensionConfig(".md")
	if len(dims) != 5 {
		t.Errorf("dimension count = %d", len(dims))
	}
}
