package record_repo

import (
	"stationdesk/internal/domain/records/providerbill"
	"stationdesk/internal/infrastructure/storage/postgres"
)

const providerBillTable = "provider_bills"

// ProviderBillRepo implements providerbill.Repository.
type ProviderBillRepo struct {
	*BaseRecordRepo[*providerbill.ProviderBill]
}

// NewProviderBillRepo creates a new provider bill repository.
func NewProviderBillRepo(db postgres.QuerierProvider) *ProviderBillRepo {
	return &ProviderBillRepo{
		BaseRecordRepo: NewBaseRecordRepo(db,
			providerBillTable,
			postgres.ExtractDBColumns[providerbill.ProviderBill](),
			func() *providerbill.ProviderBill { return &providerbill.ProviderBill{} },
			Options{
				DateColumn:    "bill_date",
				SearchColumns: []string{"voucher_no", "provider", "account_number"},
			},
		),
	}
}

var _ providerbill.Repository = (*ProviderBillRepo)(nil)
