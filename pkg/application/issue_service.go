package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/workintel/workintel/pkg/domain"
	"github.com/workintel/workintel/pkg/domain/issue"
	"github.com/workintel/workintel/pkg/domain/notify"
)

// IssueService raises coordination issues in an external tracker. Every run
// creates one primary issue for the overall coordination need, plus one
// team-scoped issue for each high-priority stakeholder.
type IssueService struct {
	tracker issue.Tracker
	audit   domain.AuditLogger
	now     func() time.Time
}

func NewIssueService(tracker issue.Tracker, audit domain.AuditLogger) *IssueService {
	return &IssueService{
		tracker: tracker,
		audit:   audit,
		now:     time.Now,
	}
}

// CoordinationRequest describes the blocking condition a set of issues
// should track.
type CoordinationRequest struct {
	Title        string
	Body         string
	TaskID       string
	Labels       []string
	Stakeholders []notify.Stakeholder
}

// CreateIssueWithApproval creates the coordination issues. When
// requiresApproval is set, every issue starts in a pending-approval state
// and becomes actionable only after an explicit approval step outside this
// service; otherwise the issues open directly.
func (s *IssueService) CreateIssueWithApproval(ctx context.Context, req *CoordinationRequest, requiresApproval bool) ([]*issue.Created, error) {
	if s.tracker == nil {
		return nil, fmt.Errorf("no issue tracker configured")
	}
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("issue title is required")
	}

	status := issue.StatusOpen
	if requiresApproval {
		status = issue.StatusPendingApproval
	}

	now := s.now()
	created := make([]*issue.Created, 0, 1+len(req.Stakeholders))

	primary, err := s.tracker.Create(ctx, issue.Issue{
		Title:       req.Title,
		Body:        req.Body,
		Labels:      append([]string{"coordination"}, req.Labels...),
		Status:      status,
		RequestedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create primary issue: %w", err)
	}
	primary.Primary = true
	primary.Pending = requiresApproval
	created = append(created, primary)

	seen := make(map[string]bool)
	for _, stakeholder := range req.Stakeholders {
		if stakeholder.Priority != "high" || stakeholder.TeamID == "" || seen[stakeholder.TeamID] {
			continue
		}
		seen[stakeholder.TeamID] = true

		teamIssue, err := s.tracker.Create(ctx, issue.Issue{
			Title:       fmt.Sprintf("[%s] %s", stakeholder.TeamID, req.Title),
			Body:        req.Body,
			TeamID:      stakeholder.TeamID,
			Labels:      append([]string{"coordination", "team:" + stakeholder.TeamID}, req.Labels...),
			Status:      status,
			RequestedAt: now,
		})
		if err != nil {
			// A failed team issue does not undo the ones already created.
			_ = s.audit.Log("issue.create_failed", "system", map[string]interface{}{
				"team_id": stakeholder.TeamID,
				"error":   err.Error(),
			})
			continue
		}
		teamIssue.TeamID = stakeholder.TeamID
		teamIssue.Pending = requiresApproval
		created = append(created, teamIssue)
	}

	_ = s.audit.Log("issue.created", "system", map[string]interface{}{
		"task_id":  req.TaskID,
		"provider": s.tracker.Provider(),
		"count":    len(created),
	})

	return created, nil
}
