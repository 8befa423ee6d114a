package providerbill

import (
	"stationdesk/internal/domain"
)

// Repository defines data access for provider bills.
type Repository interface {
	domain.RecordRepository[*ProviderBill]
}
