package record_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/dailyfuel"
	"stationdesk/internal/infrastructure/storage/postgres"
)

const dailyFuelTable = "daily_fuel"

// DailyFuelRepo implements dailyfuel.Repository.
type DailyFuelRepo struct {
	*BaseRecordRepo[*dailyfuel.DailyFuel]
}

// NewDailyFuelRepo creates a new daily fuel repository.
func NewDailyFuelRepo(db postgres.QuerierProvider) *DailyFuelRepo {
	return &DailyFuelRepo{
		BaseRecordRepo: NewBaseRecordRepo(db,
			dailyFuelTable,
			postgres.ExtractDBColumns[dailyfuel.DailyFuel](),
			func() *dailyfuel.DailyFuel { return &dailyfuel.DailyFuel{} },
			Options{DateColumn: "business_date", SearchColumns: []string{"grade", "notes"}},
		),
	}
}

var _ dailyfuel.Repository = (*DailyFuelRepo)(nil)

// ListByDate returns the grades recorded for day in pump order.
func (r *DailyFuelRepo) ListByDate(ctx context.Context, day types.Date) ([]*dailyfuel.DailyFuel, error) {
	sql, args, err := r.BaseSelect().
		Where(squirrel.Eq{"business_date": day, "deletion_mark": false}).
		OrderBy("array_position(ARRAY['regular','plus','premium','diesel'], grade)").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var items []*dailyfuel.DailyFuel
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list fuel by date: %w", err)
	}
	return items, nil
}
