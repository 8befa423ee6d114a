package record_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/safedrop"
	"stationdesk/internal/infrastructure/storage/postgres"
)

const safedropTable = "safedrops"

// SafedropRepo implements safedrop.Repository.
type SafedropRepo struct {
	*BaseRecordRepo[*safedrop.Safedrop]
}

// NewSafedropRepo creates a new safedrop repository.
func NewSafedropRepo(db postgres.QuerierProvider) *SafedropRepo {
	return &SafedropRepo{
		BaseRecordRepo: NewBaseRecordRepo(db,
			safedropTable,
			postgres.ExtractDBColumns[safedrop.Safedrop](),
			func() *safedrop.Safedrop { return &safedrop.Safedrop{} },
			Options{DateColumn: "business_date", SearchColumns: []string{"employee", "bag_number"}},
		),
	}
}

var _ safedrop.Repository = (*SafedropRepo)(nil)

func (r *SafedropRepo) sumByDateQuery(day types.Date) (string, []any, error) {
	return r.Builder().
		Select("COALESCE(SUM(amount), 0)", "COUNT(*)").
		From(safedropTable).
		Where(squirrel.Eq{"business_date": day, "deletion_mark": false}).
		ToSql()
}

// SumByDate totals the non-deleted drops for a business day.
func (r *SafedropRepo) SumByDate(ctx context.Context, day types.Date) (types.Money, int, error) {
	sql, args, err := r.sumByDateQuery(day)
	if err != nil {
		return types.Zero(), 0, fmt.Errorf("build query: %w", err)
	}
	var (
		total types.Money
		count int
	)
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&total, &count); err != nil {
		return types.Zero(), 0, fmt.Errorf("sum safedrops: %w", err)
	}
	return total, count, nil
}
