package atm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain"
)

func TestRecord_Reconcile(t *testing.T) {
	tests := []struct {
		name       string
		opening    string
		loaded     string
		dispensed  string
		counted    string
		tolerance  string
		expected   string
		variance   string
		reconciled bool
	}{
		{"exact", "4000", "6000", "7340", "2660", "0", "2660", "0", true},
		{"short within tolerance", "4000", "6000", "7340", "2640", "20", "2660", "-20", true},
		{"over outside tolerance", "4000", "0", "1200", "2900", "20", "2800", "100", false},
		{"short outside tolerance", "1000", "0", "200", "780", "5", "800", "-20", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Record{
				OpeningCash:    types.MustMoney(tt.opening),
				CashLoaded:     types.MustMoney(tt.loaded),
				CashDispensed:  types.MustMoney(tt.dispensed),
				CountedClosing: types.MustMoney(tt.counted),
			}
			res := r.Reconcile(types.MustMoney(tt.tolerance))
			assert.Equal(t, tt.expected, res.ExpectedClosing.String())
			assert.Equal(t, tt.variance, res.Variance.String())
			assert.Equal(t, tt.reconciled, res.Reconciled)
		})
	}
}

func TestRecord_Validate(t *testing.T) {
	r := &Record{BusinessDate: types.MustDate("2026-10-18"), CashDispensed: types.MustMoney("-1")}
	appErr, ok := apperror.AsAppError(r.Validate(context.Background()))
	require.True(t, ok)
	assert.Equal(t, "cash_dispensed", appErr.Details["field"])

	r = &Record{BusinessDate: types.MustDate("2026-10-18"), TransactionCount: -3}
	appErr, ok = apperror.AsAppError(r.Validate(context.Background()))
	require.True(t, ok)
	assert.Equal(t, "transaction_count", appErr.Details["field"])
}

type memRepo struct {
	items map[id.ID]*Record
}

func (m *memRepo) Create(ctx context.Context, r *Record) error {
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, recID id.ID) (*Record, error) {
	r, ok := m.items[recID]
	if !ok {
		return nil, apperror.NewNotFound("atm_records", recID)
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) Update(ctx context.Context, r *Record) error {
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *memRepo) SetDeletionMark(ctx context.Context, recID id.ID, marked bool) error {
	m.items[recID].DeletionMark = marked
	return nil
}

func (m *memRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Record], error) {
	return domain.ListResult[*Record]{}, nil
}

func (m *memRepo) GetByDate(ctx context.Context, day types.Date) (*Record, error) {
	for _, r := range m.items {
		if r.BusinessDate.Equal(day) && !r.DeletionMark {
			return r, nil
		}
	}
	return nil, apperror.NewNotFound("atm_records", day.String())
}

func TestService_CreateFlagsVariance(t *testing.T) {
	repo := &memRepo{items: map[id.ID]*Record{}}
	svc := NewService(repo, nil, nil, types.MustMoney("10"))
	ctx := context.Background()

	rec := &Record{
		BusinessDate:   types.MustDate("2026-10-18"),
		OpeningCash:    types.MustMoney("3000"),
		CashDispensed:  types.MustMoney("800"),
		CountedClosing: types.MustMoney("2150"),
	}
	require.NoError(t, svc.Create(ctx, rec))

	stored := repo.items[rec.ID]
	assert.Equal(t, "2200", stored.ExpectedClosing.String())
	assert.Equal(t, "-50", stored.Variance.String())
	assert.False(t, stored.Reconciled)

	dup := &Record{BusinessDate: types.MustDate("2026-10-18")}
	assert.True(t, apperror.IsCode(svc.Create(ctx, dup), apperror.CodeDuplicate))
}
