package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/workintel/workintel/pkg/domain"
)

// AuditService writes hash-chained audit events through the workspace
// repository.
type AuditService struct {
	repo domain.WorkspaceRepository
}

var _ domain.AuditLogger = (*AuditService)(nil)

func NewAuditService(repo domain.WorkspaceRepository) *AuditService {
	return &AuditService{repo: repo}
}

func (s *AuditService) Log(action string, actor string, metadata map[string]interface{}) error {
	// Continue the hash chain from the latest recorded event.
	events, _ := s.repo.LoadEvents()
	prevHash := ""
	if len(events) > 0 {
		prevHash = events[len(events)-1].Hash
	}

	event := domain.Event{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Action:    action,
		Actor:     actor,
		Metadata:  metadata,
	}
	event.Seal(prevHash)

	return s.repo.RecordEvent(event)
}

func (s *AuditService) GetTimeline() ([]domain.Event, error) {
	return s.repo.LoadEvents()
}

// VerifyIntegrity walks the chain and reports every broken link or
// content-hash mismatch.
func (s *AuditService) VerifyIntegrity() ([]string, error) {
	events, err := s.repo.LoadEvents()
	if err != nil {
		return nil, err
	}
	return domain.VerifyChain(events), nil
}
