package dailysales

import (
	"context"

	"stationdesk/internal/core/types"
	"stationdesk/internal/domain"
)

// Repository defines data access for daily sales.
type Repository interface {
	domain.RecordRepository[*DailySales]

	// GetByDate returns the non-deleted close-out for day or a NOT_FOUND AppError.
	GetByDate(ctx context.Context, day types.Date) (*DailySales, error)
}

// SafedropTotals reads the drops recorded for a day.
type SafedropTotals interface {
	SumByDate(ctx context.Context, day types.Date) (types.Money, int, error)
}
