package atm

import (
	"context"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/tx"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain"
	"stationdesk/pkg/logger"
)

// Service provides business logic for ATM records.
type Service struct {
	*domain.RecordService[*Record]
	repo      Repository
	tolerance types.Money
}

// NewService creates a new ATM service. A variance within tolerance counts as reconciled.
func NewService(repo Repository, txm tx.Manager, events domain.EventPublisher, tolerance types.Money) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Record]{
		Repo:          repo,
		TxManager:     txm,
		Events:        events,
		EntityName:    "ATM record",
		AggregateType: "atm_record",
	})
	svc := &Service{RecordService: base, repo: repo, tolerance: tolerance}

	base.Hooks().OnBeforeCreate(svc.checkDateFree)
	base.Hooks().OnBeforeCreate(svc.reconcile)
	base.Hooks().OnBeforeUpdate(svc.reconcile)

	return svc
}

// Tolerance is the configured variance tolerance.
func (s *Service) Tolerance() types.Money {
	return s.tolerance
}

// Reconcile computes the result for rec without storing it.
func (s *Service) Reconcile(rec *Record) Result {
	return rec.Reconcile(s.tolerance)
}

// reconcile stores the derived figures; an out-of-tolerance record is saved
// with reconciled=false rather than rejected.
func (s *Service) reconcile(ctx context.Context, rec *Record) error {
	res := rec.Reconcile(s.tolerance)
	rec.Apply(res)
	if !res.Reconciled {
		logger.Warn(ctx, "ATM variance outside tolerance",
			"business_date", rec.BusinessDate.String(),
			"variance", res.Variance.String(),
			"tolerance", s.tolerance.String())
	}
	return nil
}

func (s *Service) checkDateFree(ctx context.Context, rec *Record) error {
	_, err := s.repo.GetByDate(ctx, rec.BusinessDate)
	if err == nil {
		return apperror.NewDuplicate(s.EntityName(), "business_date", rec.BusinessDate.String())
	}
	if apperror.IsNotFound(err) {
		return nil
	}
	return err
}
