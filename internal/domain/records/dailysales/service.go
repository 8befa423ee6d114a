package dailysales

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

// Service provides business logic for daily sales.
type Service struct {
	*domain.RecordService[*DailySales]
	repo      Repository
	safedrops SafedropTotals
	loc       *time.Location
}

// NewService creates a new daily sales service. loc is the station's time zone
// and decides which day is "today".
func NewService(repo Repository, safedrops SafedropTotals, txm tx.Manager, events domain.EventPublisher, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	base := domain.NewRecordService(domain.RecordServiceConfig[*DailySales]{
		Repo:          repo,
		TxManager:     txm,
		Events:        events,
		EntityName:    "daily sales",
		AggregateType: "daily_sales",
	})
	svc := &Service{RecordService: base, repo: repo, safedrops: safedrops, loc: loc}

	base.Hooks().OnBeforeCreate(svc.checkDateFree)
	base.Hooks().OnBeforeCreate(svc.prepare)
	base.Hooks().OnBeforeUpdate(svc.prepare)

	return svc
}

func (s *Service) today() types.Date {
	return types.DateOf(s.Now().In(s.loc))
}

func (s *Service) prepare(ctx context.Context, d *DailySales) error {
	if err := rules.NotAfter("business_date", d.BusinessDate, s.today()); err != nil {
		return err
	}
	d.Derive()
	return nil
}

func (s *Service) checkDateFree(ctx context.Context, d *DailySales) error {
	_, err := s.repo.GetByDate(ctx, d.BusinessDate)
	switch {
	case err == nil:
		return apperror.NewDuplicate(s.EntityName(), "business_date", d.BusinessDate.String())
	case apperror.IsNotFound(err):
		return nil
	default:
		return fmt.Errorf("check business date: %w", err)
	}
}

// GetByDate returns the close-out for day.
func (s *Service) GetByDate(ctx context.Context, day types.Date) (*DailySales, error) {
	d, err := s.repo.GetByDate(ctx, day)
	if err != nil {
		return nil, s.NormalizeGetErr(err, day.String())
	}
	return d, nil
}

// Reconciliation compares the close-out with the safedrops recorded for the day.
type Reconciliation struct {
	BusinessDate      types.Date  `json:"business_date"`
	POSCash           types.Money `json:"pos_cash"`
	LotteryPayouts    types.Money `json:"lottery_payouts"`
	ExpectedCash      types.Money `json:"expected_cash"`
	ReportedSafedrops types.Money `json:"reported_safedrops"`
	RecordedSafedrops types.Money `json:"recorded_safedrops"`
	SafedropCount     int         `json:"safedrop_count"`
	// DropDifference is recorded - reported; non-zero means bags are missing or unlogged.
	DropDifference types.Money `json:"drop_difference"`
	// OverShort is recorded - expected cash.
	OverShort types.Money `json:"over_short"`
	Balanced  bool        `json:"balanced"`
}

// Reconcile builds the reconciliation for day. With strict set an unbalanced
// day returns RECONCILIATION_MISMATCH alongside the result.
func (s *Service) Reconcile(ctx context.Context, day types.Date, strict bool) (Reconciliation, error) {
	d, err := s.GetByDate(ctx, day)
	if err != nil {
		return Reconciliation{}, err
	}
	recorded, n, err := s.safedrops.SumByDate(ctx, day)
	if err != nil {
		return Reconciliation{}, apperror.NewInternal(fmt.Errorf("sum safedrops for %s: %w", day, err))
	}

	rec := Reconcile(d, recorded, n)
	if strict && !rec.Balanced {
		return rec, apperror.NewBusinessRule(apperror.CodeReconciliationMismatch, "safedrops do not match the daily close-out").
			WithDetail("business_date", day.String()).
			WithDetail("reported_safedrops", rec.ReportedSafedrops.String()).
			WithDetail("recorded_safedrops", rec.RecordedSafedrops.String()).
			WithDetail("drop_difference", rec.DropDifference.String())
	}
	return rec, nil
}

// Reconcile is the pure comparison used by Service.Reconcile.
func Reconcile(d *DailySales, recorded types.Money, count int) Reconciliation {
	expected := d.ExpectedCash()
	diff := types.RoundMoney(recorded.Sub(d.SafedropTotal))
	return Reconciliation{
		BusinessDate:      d.BusinessDate,
		POSCash:           d.POSCash,
		LotteryPayouts:    d.LotteryPayouts,
		ExpectedCash:      expected,
		ReportedSafedrops: d.SafedropTotal,
		RecordedSafedrops: recorded,
		SafedropCount:     count,
		DropDifference:    diff,
		OverShort:         types.RoundMoney(recorded.Sub(expected)),
		Balanced:          diff.IsZero(),
	}
}
