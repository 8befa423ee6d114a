package dailyfuel

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain"
)

type memRepo struct {
	items map[id.ID]*DailyFuel
}

func (r *memRepo) Create(ctx context.Context, f *DailyFuel) error {
	cp := *f
	r.items[f.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, recID id.ID) (*DailyFuel, error) {
	f, ok := r.items[recID]
	if !ok {
		return nil, apperror.NewNotFound("daily_fuel", recID)
	}
	cp := *f
	return &cp, nil
}

func (r *memRepo) Update(ctx context.Context, f *DailyFuel) error {
	cp := *f
	cp.Version++
	r.items[f.ID] = &cp
	return nil
}

func (r *memRepo) SetDeletionMark(ctx context.Context, recID id.ID, marked bool) error {
	r.items[recID].DeletionMark = marked
	return nil
}

func (r *memRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*DailyFuel], error) {
	return domain.ListResult[*DailyFuel]{}, nil
}

func (r *memRepo) ListByDate(ctx context.Context, day types.Date) ([]*DailyFuel, error) {
	var out []*DailyFuel
	for _, f := range r.items {
		if f.BusinessDate == day && !f.DeletionMark {
			out = append(out, f)
		}
	}
	return out, nil
}

func newTestService(repo *memRepo) *Service {
	svc := NewService(repo, nil, nil, time.UTC)
	svc.SetClock(func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) })
	return svc
}

// edit applies a JSON body over the stored record the way PUT does.
func edit(t *testing.T, repo *memRepo, recID id.ID, body string) *DailyFuel {
	t.Helper()
	rec, err := repo.GetByID(context.Background(), recID)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(body), rec))
	return rec
}

func TestService_UpdateRepricesDerivedPrice(t *testing.T) {
	repo := &memRepo{items: map[id.ID]*DailyFuel{}}
	svc := newTestService(repo)
	ctx := context.Background()

	f := &DailyFuel{
		BusinessDate: types.MustDate("2026-10-18"),
		Grade:        GradeRegular,
		Gallons:      types.MustMoney("10"),
		Amount:       types.MustMoney("30"),
	}
	require.NoError(t, svc.Create(ctx, f))
	require.True(t, repo.items[f.ID].PricePerGallon.Equal(types.MustMoney("3")))

	tests := []struct {
		name  string
		body  string
		price string
	}{
		{"amount edited", `{"amount":"40"}`, "4"},
		{"gallons edited", `{"gallons":"16"}`, "2.5"},
		{"explicit price kept", `{"amount":"45","price_per_gallon":"4.099"}`, "4.099"},
		{"notes only", `{"notes":"pump 4 offline"}`, "4.099"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := edit(t, repo, f.ID, tt.body)
			require.NoError(t, svc.Update(ctx, rec))
			stored := repo.items[f.ID]
			assert.True(t, stored.PricePerGallon.Equal(types.MustMoney(tt.price)), "price %s", stored.PricePerGallon)
		})
	}
}

func TestService_UpdateKeepsManualPrice(t *testing.T) {
	repo := &memRepo{items: map[id.ID]*DailyFuel{}}
	svc := newTestService(repo)
	ctx := context.Background()

	f := &DailyFuel{
		BusinessDate:   types.MustDate("2026-10-18"),
		Grade:          GradeDiesel,
		Gallons:        types.MustMoney("100"),
		Amount:         types.MustMoney("389.90"),
		PricePerGallon: types.MustMoney("3.959"),
	}
	require.NoError(t, svc.Create(ctx, f))

	rec := edit(t, repo, f.ID, `{"gallons":"101"}`)
	require.NoError(t, svc.Update(ctx, rec))
	assert.True(t, repo.items[f.ID].PricePerGallon.Equal(types.MustMoney("3.959")))
}
