package safedrop

import (
	"context"
	"fmt"

	"stationdesk/internal/core/tx"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain"
)

// Service provides business logic for safedrops.
type Service struct {
	*domain.RecordService[*Safedrop]
	repo Repository
}

// NewService creates a new safedrop service.
func NewService(repo Repository, txm tx.Manager, events domain.EventPublisher) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Safedrop]{
		Repo:          repo,
		TxManager:     txm,
		Events:        events,
		EntityName:    "safedrop",
		AggregateType: "safedrop",
	})
	svc := &Service{RecordService: base, repo: repo}

	base.Hooks().OnBeforeCreate(svc.defaultDroppedAt)
	return svc
}

func (s *Service) defaultDroppedAt(ctx context.Context, d *Safedrop) error {
	if d.DroppedAt.IsZero() {
		d.DroppedAt = s.Now()
	}
	d.Amount = types.RoundMoney(d.Amount)
	return nil
}

// DayTotal is the sum of the drops recorded for a day.
type DayTotal struct {
	BusinessDate types.Date  `json:"business_date"`
	Amount       types.Money `json:"amount"`
	Count        int         `json:"count"`
}

// TotalForDate sums the drops for day.
func (s *Service) TotalForDate(ctx context.Context, day types.Date) (DayTotal, error) {
	amount, n, err := s.repo.SumByDate(ctx, day)
	if err != nil {
		return DayTotal{}, fmt.Errorf("sum safedrops for %s: %w", day, err)
	}
	return DayTotal{BusinessDate: day, Amount: amount, Count: n}, nil
}
