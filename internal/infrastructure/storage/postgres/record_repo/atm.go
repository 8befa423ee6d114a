package record_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/atm"
	"stationdesk/internal/infrastructure/storage/postgres"
)

const atmTable = "atm_records"

// ATMRepo implements atm.Repository.
type ATMRepo struct {
	*BaseRecordRepo[*atm.Record]
}

// NewATMRepo creates a new ATM record repository.
func NewATMRepo(db postgres.QuerierProvider) *ATMRepo {
	return &ATMRepo{
		BaseRecordRepo: NewBaseRecordRepo(db,
			atmTable,
			postgres.ExtractDBColumns[atm.Record](),
			func() *atm.Record { return &atm.Record{} },
			Options{DateColumn: "business_date", SearchColumns: []string{"notes"}},
		),
	}
}

var _ atm.Repository = (*ATMRepo)(nil)

// GetByDate returns the non-deleted record for day.
func (r *ATMRepo) GetByDate(ctx context.Context, day types.Date) (*atm.Record, error) {
	return r.FindOne(ctx, r.BaseSelect().
		Where(squirrel.Eq{"business_date": day, "deletion_mark": false}).
		Limit(1))
}
