package safedrop

import (
	"context"

	"stationdesk/internal/core/types"
	"stationdesk/internal/domain"
)

// Repository defines data access for safedrops.
type Repository interface {
	domain.RecordRepository[*Safedrop]

	// SumByDate totals the non-deleted drops for a business day.
	SumByDate(ctx context.Context, day types.Date) (types.Money, int, error)
}
