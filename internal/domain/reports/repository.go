package reports

import (
	"context"

	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
)

// Repository defines report data access interface.
type Repository interface {
	// IncomeByMonth sums daily sales and ATM fees per calendar month of rng.
	IncomeByMonth(ctx context.Context, rng types.DateRange) ([]IncomeRow, error)

	// ExpenseRows sums invoices (by invoice date) and bills (by bill date).
	ExpenseRows(ctx context.Context, rng types.DateRange) ([]ExpenseRow, error)

	// AccountActivity returns the flows of every active account. Card
	// settlements are attributed to settlementAccount when set.
	AccountActivity(ctx context.Context, rng types.DateRange, settlementAccount *id.ID) ([]AccountActivity, error)
}
