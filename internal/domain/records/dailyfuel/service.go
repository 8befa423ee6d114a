package dailyfuel

import (
	"context"
	"fmt"
	"time"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/tx"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain"
	"stationdesk/internal/domain/records/rules"
)

// Service provides business logic for daily fuel records.
type Service struct {
	*domain.RecordService[*DailyFuel]
	repo Repository
	loc  *time.Location
}

// NewService creates a new daily fuel service. loc is the station's time zone.
func NewService(repo Repository, txm tx.Manager, events domain.EventPublisher, loc *time.Location) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*DailyFuel]{
		Repo:          repo,
		TxManager:     txm,
		Events:        events,
		EntityName:    "daily fuel",
		AggregateType: "daily_fuel",
	})
	svc := &Service{RecordService: base, repo: repo, loc: loc}

	base.Hooks().OnBeforeCreate(svc.prepare)
	base.Hooks().OnChange(func(ctx context.Context, stored, f *DailyFuel) error {
		f.Reprice(stored)
		return nil
	})
	base.Hooks().OnBeforeUpdate(svc.prepare)

	return svc
}

func (s *Service) prepare(ctx context.Context, f *DailyFuel) error {
	f.Normalize()
	today := types.DateOf(s.Now().In(s.location()))
	return rules.NotAfter("business_date", f.BusinessDate, today)
}

func (s *Service) location() *time.Location {
	if s.loc == nil {
		return time.UTC
	}
	return s.loc
}

// DaySummary is every grade recorded for a day plus the totals.
type DaySummary struct {
	BusinessDate types.Date    `json:"business_date"`
	Grades       []*DailyFuel  `json:"grades"`
	Gallons      types.Gallons `json:"gallons"`
	Amount       types.Money   `json:"amount"`
}

// SummaryByDate totals all grades for a day.
func (s *Service) SummaryByDate(ctx context.Context, day types.Date) (DaySummary, error) {
	items, err := s.repo.ListByDate(ctx, day)
	if err != nil {
		return DaySummary{}, apperror.NewInternal(fmt.Errorf("list fuel for %s: %w", day, err))
	}
	sum := DaySummary{BusinessDate: day, Grades: items, Gallons: types.Zero(), Amount: types.Zero()}
	for _, f := range items {
		sum.Gallons = sum.Gallons.Add(f.Gallons)
		sum.Amount = sum.Amount.Add(f.Amount)
	}
	return sum, nil
}
