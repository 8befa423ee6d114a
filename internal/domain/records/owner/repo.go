package owner

import (
	"context"

	"github.com/shopspring/decimal"

	"stationdesk/internal/core/id"
	"stationdesk/internal/domain"
)

// Repository defines data access for owners.
type Repository interface {
	domain.RecordRepository[*Owner]

	// TotalOwnership sums the shares of active, non-deleted owners except excludeID.
	// Implementations serialize concurrent callers until their transactions end.
	TotalOwnership(ctx context.Context, excludeID id.ID) (decimal.Decimal, error)
}
