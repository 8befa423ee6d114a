package record_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"stationdesk/internal/core/id"
	"stationdesk/internal/domain/records/owner"
	"stationdesk/internal/infrastructure/storage/postgres"
)

const ownerTable = "owners"

// ownershipLockKey serializes share checks across concurrent owner writes.
const ownershipLockKey int64 = 0x6f776e657273 // "owners"

// OwnerRepo implements owner.Repository.
type OwnerRepo struct {
	*BaseRecordRepo[*owner.Owner]
}

// NewOwnerRepo creates a new owner repository.
func NewOwnerRepo(db postgres.QuerierProvider) *OwnerRepo {
	return &OwnerRepo{
		BaseRecordRepo: NewBaseRecordRepo(db,
			ownerTable,
			postgres.ExtractDBColumns[owner.Owner](),
			func() *owner.Owner { return &owner.Owner{} },
			Options{SearchColumns: []string{"name", "email"}, DefaultSort: "name"},
		),
	}
}

var _ owner.Repository = (*OwnerRepo)(nil)

func (r *OwnerRepo) totalOwnershipQuery(excludeID id.ID) (string, []any, error) {
	return r.Builder().
		Select("COALESCE(SUM(ownership_percent), 0)").
		From(ownerTable).
		Where(squirrel.Eq{"is_active": true, "deletion_mark": false}).
		Where(squirrel.NotEq{"id": excludeID}).
		ToSql()
}

func (r *OwnerRepo) lockOwnershipQuery() (string, []any, error) {
	return r.Builder().
		Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(?)", ownershipLockKey)).
		ToSql()
}

// TotalOwnership sums the shares of active, non-deleted owners except excludeID.
// It holds a transaction-scoped advisory lock until the caller's transaction
// ends; must run inside the write transaction.
func (r *OwnerRepo) TotalOwnership(ctx context.Context, excludeID id.ID) (decimal.Decimal, error) {
	q := r.Querier(ctx)
	lockSQL, lockArgs, err := r.lockOwnershipQuery()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build lock: %w", err)
	}
	if _, err := q.Exec(ctx, lockSQL, lockArgs...); err != nil {
		return decimal.Zero, fmt.Errorf("lock ownership: %w", err)
	}

	sql, args, err := r.totalOwnershipQuery(excludeID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build query: %w", err)
	}
	var total decimal.Decimal
	if err := q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total ownership: %w", err)
	}
	return total, nil
}
