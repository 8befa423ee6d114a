package record_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stationdesk/internal/core/id"
	"stationdesk/internal/domain/records/vendorinvoice"
	"stationdesk/internal/infrastructure/storage/postgres"
)

const vendorInvoiceTable = "vendor_invoices"

// VendorInvoiceRepo implements vendorinvoice.Repository.
type VendorInvoiceRepo struct {
	*BaseRecordRepo[*vendorinvoice.VendorInvoice]
}

// NewVendorInvoiceRepo creates a new vendor invoice repository.
func NewVendorInvoiceRepo(db postgres.QuerierProvider) *VendorInvoiceRepo {
	return &VendorInvoiceRepo{
		BaseRecordRepo: NewBaseRecordRepo(db,
			vendorInvoiceTable,
			postgres.ExtractDBColumns[vendorinvoice.VendorInvoice](),
			func() *vendorinvoice.VendorInvoice { return &vendorinvoice.VendorInvoice{} },
			Options{
				DateColumn:    "invoice_date",
				SearchColumns: []string{"voucher_no", "vendor", "invoice_number", "description"},
			},
		),
	}
}

var _ vendorinvoice.Repository = (*VendorInvoiceRepo)(nil)

func (r *VendorInvoiceRepo) duplicateQuery(vendor, number string, excludeID id.ID) squirrel.SelectBuilder {
	return r.Builder().
		Select("1").
		From(vendorInvoiceTable).
		Where("lower(vendor) = lower(?)", vendor).
		Where(squirrel.Eq{"invoice_number": number, "deletion_mark": false}).
		Where(squirrel.NotEq{"id": excludeID})
}

// ExistsByVendorNumber reports whether another live invoice has the same vendor
// (case-insensitive) and invoice number.
func (r *VendorInvoiceRepo) ExistsByVendorNumber(ctx context.Context, vendor, number string, excludeID id.ID) (bool, error) {
	return r.Exists(ctx, r.duplicateQuery(vendor, number, excludeID))
}
