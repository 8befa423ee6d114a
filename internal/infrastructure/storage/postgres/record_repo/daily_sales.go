package record_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/dailysales"
	"stationdesk/internal/infrastructure/storage/postgres"
)

const dailySalesTable = "daily_sales"

// DailySalesRepo implements dailysales.Repository.
type DailySalesRepo struct {
	*BaseRecordRepo[*dailysales.DailySales]
}

// NewDailySalesRepo creates a new daily sales repository.
func NewDailySalesRepo(db postgres.QuerierProvider) *DailySalesRepo {
	return &DailySalesRepo{
		BaseRecordRepo: NewBaseRecordRepo(db,
			dailySalesTable,
			postgres.ExtractDBColumns[dailysales.DailySales](),
			func() *dailysales.DailySales { return &dailysales.DailySales{} },
			Options{DateColumn: "business_date", SearchColumns: []string{"notes"}},
		),
	}
}

var _ dailysales.Repository = (*DailySalesRepo)(nil)

// GetByDate returns the non-deleted close-out for day.
func (r *DailySalesRepo) GetByDate(ctx context.Context, day types.Date) (*dailysales.DailySales, error) {
	return r.FindOne(ctx, r.BaseSelect().
		Where(squirrel.Eq{"business_date": day, "deletion_mark": false}).
		Limit(1))
}
