package reports

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
)

type fakeRepo struct {
	mu         sync.Mutex
	income     []IncomeRow
	expense    []ExpenseRow
	activity   []AccountActivity
	err        error
	settlement *id.ID
}

func (f *fakeRepo) IncomeByMonth(ctx context.Context, rng types.DateRange) ([]IncomeRow, error) {
	return f.income, nil
}

func (f *fakeRepo) ExpenseRows(ctx context.Context, rng types.DateRange) ([]ExpenseRow, error) {
	return f.expense, f.err
}

func (f *fakeRepo) AccountActivity(ctx context.Context, rng types.DateRange, settlement *id.ID) ([]AccountActivity, error) {
	f.mu.Lock()
	f.settlement = settlement
	f.mu.Unlock()
	return f.activity, nil
}

func TestService_Balance(t *testing.T) {
	acct := id.New()
	repo := &fakeRepo{
		income:  []IncomeRow{{Month: types.MustDate("2026-10-01"), FuelSales: m("1000")}},
		expense: []ExpenseRow{{Source: SourceBill, Group: "water", Party: "City", Month: types.MustDate("2026-10-01"), Amount: m("250")}},
		activity: []AccountActivity{
			{AccountID: acct, Name: "Operating", OpeningBalance: m("100"), Deposits: m("1000"), Payments: m("250")},
		},
	}
	svc := NewService(repo, WithSettlementAccount(acct))

	rep, err := svc.Balance(context.Background(), rangeOf("2026-10-01", "2026-10-19"))
	require.NoError(t, err)
	assert.Equal(t, "750", rep.Net.String())
	assert.Equal(t, "850", rep.Accounts[0].Closing.String())
	require.NotNil(t, repo.settlement)
	assert.Equal(t, acct, *repo.settlement)
}

func TestService_BalancePropagatesErrors(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	_, err := NewService(repo).Balance(context.Background(), rangeOf("2026-10-01", "2026-10-19"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestService_ValidatesRange(t *testing.T) {
	svc := NewService(&fakeRepo{})
	tests := []struct {
		name  string
		rng   types.DateRange
		field string
	}{
		{"no start", types.DateRange{End: types.MustDate("2026-10-01")}, "start_date"},
		{"no end", types.DateRange{Start: types.MustDate("2026-10-01")}, "end_date"},
		{"inverted", rangeOf("2026-10-02", "2026-10-01"), "end_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Income(context.Background(), tt.rng)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

func TestService_Build(t *testing.T) {
	svc := NewService(&fakeRepo{})
	rng := rangeOf("2026-10-01", "2026-10-19")

	rep, err := svc.Build(context.Background(), KindExpense, rng)
	require.NoError(t, err)
	assert.IsType(t, &ExpenseReport{}, rep)

	_, err = svc.Build(context.Background(), "payroll", rng)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestWithSettlementAccount_IgnoresNil(t *testing.T) {
	svc := NewService(&fakeRepo{}, WithSettlementAccount(id.ID{}))
	assert.Nil(t, svc.settlementAccount)
}
