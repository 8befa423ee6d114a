package reports

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
)

// Service provides report generation operations.
type Service struct {
	repo              Repository
	settlementAccount *id.ID
}

// Option configures the service.
type Option func(*Service)

// WithSettlementAccount attributes card settlements to accountID on the balance report.
func WithSettlementAccount(accountID id.ID) Option {
	return func(s *Service) {
		if !id.IsNil(accountID) {
			s.settlementAccount = &accountID
		}
	}
}

// NewService creates a new reports service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validateRange(rng types.DateRange) error {
	if rng.Start.IsZero() {
		return apperror.NewFieldValidation("start_date", "start_date is required")
	}
	if rng.End.IsZero() {
		return apperror.NewFieldValidation("end_date", "end_date is required")
	}
	if rng.End.Before(rng.Start) {
		return apperror.NewFieldValidation("end_date", "end_date must not be before start_date")
	}
	return nil
}

// Income generates the income report for rng.
func (s *Service) Income(ctx context.Context, rng types.DateRange) (*IncomeReport, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	rows, err := s.repo.IncomeByMonth(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("get income report: %w", err)
	}
	return BuildIncome(rng, rows), nil
}

// Expense generates the expense report for rng.
func (s *Service) Expense(ctx context.Context, rng types.DateRange) (*ExpenseReport, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	rows, err := s.repo.ExpenseRows(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("get expense report: %w", err)
	}
	return BuildExpense(rng, rows), nil
}

// Balance generates the balance report. Income, expense and account
// activity are loaded concurrently.
func (s *Service) Balance(ctx context.Context, rng types.DateRange) (*BalanceReport, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}

	var (
		income   *IncomeReport
		expense  *ExpenseReport
		activity []AccountActivity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.Income(gctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		expense, err = s.Expense(gctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		activity, err = s.repo.AccountActivity(gctx, rng, s.settlementAccount)
		if err != nil {
			return fmt.Errorf("get account activity: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildBalance(rng, income, expense, activity), nil
}

// Build runs the report named kind and returns it as any, for exporters.
func (s *Service) Build(ctx context.Context, kind Kind, rng types.DateRange) (any, error) {
	switch kind {
	case KindIncome:
		return s.Income(ctx, rng)
	case KindExpense:
		return s.Expense(ctx, rng)
	case KindBalance:
		return s.Balance(ctx, rng)
	default:
		return nil, apperror.NewFieldValidation("report", fmt.Sprintf("unknown report %q", kind))
	}
}
