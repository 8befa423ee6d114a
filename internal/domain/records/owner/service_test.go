package owner

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/id"
	"stationdesk/internal/domain"
)

type memRepo struct {
	items map[id.ID]*Owner
}

func (r *memRepo) Create(ctx context.Context, o *Owner) error {
	cp := *o
	r.items[o.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, ownerID id.ID) (*Owner, error) {
	o, ok := r.items[ownerID]
	if !ok {
		return nil, apperror.NewNotFound("owners", ownerID)
	}
	cp := *o
	return &cp, nil
}

func (r *memRepo) Update(ctx context.Context, o *Owner) error {
	cp := *o
	cp.Version++
	r.items[o.ID] = &cp
	return nil
}

func (r *memRepo) SetDeletionMark(ctx context.Context, ownerID id.ID, marked bool) error {
	r.items[ownerID].DeletionMark = marked
	return nil
}

func (r *memRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Owner], error) {
	return domain.ListResult[*Owner]{}, nil
}

func (r *memRepo) TotalOwnership(ctx context.Context, excludeID id.ID) (decimal.Decimal, error) {
	total := decimal.Zero
	for oid, o := range r.items {
		if oid == excludeID || !o.IsActive || o.DeletionMark {
			continue
		}
		total = total.Add(o.OwnershipPercent)
	}
	return total, nil
}

func newOwner(name, pct string) *Owner {
	return &Owner{Name: name, OwnershipPercent: decimal.RequireFromString(pct), IsActive: true}
}

func TestService_OwnershipCap(t *testing.T) {
	repo := &memRepo{items: map[id.ID]*Owner{}}
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	a := newOwner("Amir", "60")
	require.NoError(t, svc.Create(ctx, a))
	require.NoError(t, svc.Create(ctx, newOwner("Bina", "40")))

	err := svc.Create(ctx, newOwner("Carl", "0.01"))
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	assert.Equal(t, "0", appErr.Details["available"])

	// raising a share is checked against the others only
	a.OwnershipPercent = decimal.NewFromInt(61)
	assert.Error(t, svc.Update(ctx, a))

	a.OwnershipPercent = decimal.NewFromInt(55)
	require.NoError(t, svc.Update(ctx, a))
	require.NoError(t, svc.Create(ctx, newOwner("Carl", "5")))
}

func TestService_InactiveOwnerSkipsCap(t *testing.T) {
	repo := &memRepo{items: map[id.ID]*Owner{}}
	svc := NewService(repo, nil, nil)

	require.NoError(t, svc.Create(context.Background(), newOwner("Amir", "100")))
	former := newOwner("Dana", "25")
	former.IsActive = false
	assert.NoError(t, svc.Create(context.Background(), former))
}

func TestOwner_Validate(t *testing.T) {
	tests := []struct {
		name  string
		owner *Owner
		field string
	}{
		{"valid", &Owner{Name: "Amir", OwnershipPercent: decimal.NewFromInt(50), Email: "amir@example.com"}, ""},
		{"zero share", &Owner{Name: "Amir"}, "ownership_percent"},
		{"over 100", &Owner{Name: "Amir", OwnershipPercent: decimal.NewFromInt(101)}, "ownership_percent"},
		{"three decimals", &Owner{Name: "Amir", OwnershipPercent: decimal.RequireFromString("33.333")}, "ownership_percent"},
		{"bad email", &Owner{Name: "Amir", OwnershipPercent: decimal.NewFromInt(1), Email: "nope"}, "email"},
		{"no name", &Owner{OwnershipPercent: decimal.NewFromInt(1)}, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.owner.Validate(context.Background())
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

type txKey struct{}

type markingTx struct{}

func (markingTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, txKey{}, true))
}

type txCheckRepo struct {
	*memRepo
	inTx []bool
}

func (r *txCheckRepo) TotalOwnership(ctx context.Context, excludeID id.ID) (decimal.Decimal, error) {
	r.inTx = append(r.inTx, ctx.Value(txKey{}) != nil)
	return r.memRepo.TotalOwnership(ctx, excludeID)
}

func TestService_ShareCheckRunsInWriteTx(t *testing.T) {
	repo := &txCheckRepo{memRepo: &memRepo{items: map[id.ID]*Owner{}}}
	svc := NewService(repo, markingTx{}, nil)
	ctx := context.Background()

	a := newOwner("Amir", "60")
	require.NoError(t, svc.Create(ctx, a))
	a.OwnershipPercent = decimal.NewFromInt(70)
	require.NoError(t, svc.Update(ctx, a))

	assert.Equal(t, []bool{true, true}, repo.inTx)
}
