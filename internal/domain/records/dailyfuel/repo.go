package dailyfuel

import (
	"context"

	"stationdesk/internal/core/types"
	"stationdesk/internal/domain"
)

// Repository defines data access for daily fuel records.
type Repository interface {
	domain.RecordRepository[*DailyFuel]

	// ListByDate returns the non-deleted grades recorded for a day.
	ListByDate(ctx context.Context, day types.Date) ([]*DailyFuel, error)
}
