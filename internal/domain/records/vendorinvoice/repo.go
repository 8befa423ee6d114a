package vendorinvoice

import (
	"context"

	"stationdesk/internal/core/id"
	"stationdesk/internal/domain"
)

// Repository defines data access for vendor invoices.
type Repository interface {
	domain.RecordRepository[*VendorInvoice]

	// ExistsByVendorNumber reports whether another non-deleted invoice
	// (other than excludeID) has the same vendor and invoice number.
	ExistsByVendorNumber(ctx context.Context, vendor, number string, excludeID id.ID) (bool, error)
}
