package owner

import (
	"context"
	"fmt"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/tx"
	"stationdesk/internal/domain"
)

// Service provides business logic for owners.
type Service struct {
	*domain.RecordService[*Owner]
	repo Repository
}

// NewService creates a new owner service.
func NewService(repo Repository, txm tx.Manager, events domain.EventPublisher) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Owner]{
		Repo:          repo,
		TxManager:     txm,
		Events:        events,
		EntityName:    "owner",
		AggregateType: "owner",
	})
	svc := &Service{RecordService: base, repo: repo}

	base.Hooks().OnBeforeCreate(svc.checkTotalShare)
	base.Hooks().OnBeforeUpdate(svc.checkTotalShare)

	return svc
}

// checkTotalShare keeps the active owners' shares at or below 100%.
func (s *Service) checkTotalShare(ctx context.Context, o *Owner) error {
	if !o.IsActive || o.DeletionMark {
		return nil
	}
	others, err := s.repo.TotalOwnership(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("total ownership: %w", err)
	}
	total := others.Add(o.OwnershipPercent)
	if total.GreaterThan(FullOwnership) {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "ownership shares would exceed 100%").
			WithDetail("field", "ownership_percent").
			WithDetail("other_owners", others.String()).
			WithDetail("available", FullOwnership.Sub(others).String())
	}
	return nil
}
