package atm

import (
	"context"

	"stationdesk/internal/core/types"
	"stationdesk/internal/domain"
)

// Repository defines data access for ATM records.
type Repository interface {
	domain.RecordRepository[*Record]

	// GetByDate returns the non-deleted record for day or a NOT_FOUND AppError.
	GetByDate(ctx context.Context, day types.Date) (*Record, error)
}
