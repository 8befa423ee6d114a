// Package providerbill tracks utility and service provider bills.
package providerbill

import (
	"context"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/entity"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/payable"
	"stationdesk/internal/domain/records/rules"
)

// VoucherPrefix numbers provider bills PB-YYYY-NNNNN.
const VoucherPrefix = "PB"

// ServiceType groups bills on the expense report.
type ServiceType string

const (
	ServiceElectricity ServiceType = "electricity"
	ServiceWater       ServiceType = "water"
	ServiceGas         ServiceType = "gas"
	ServiceInternet    ServiceType = "internet"
	ServicePhone       ServiceType = "phone"
	ServiceWaste       ServiceType = "waste"
	ServiceInsurance   ServiceType = "insurance"
	ServicePOS         ServiceType = "pos"
	ServiceSecurity    ServiceType = "security"
	ServiceOther       ServiceType = "other"
)

// ServiceTypes lists every service type.
var ServiceTypes = []ServiceType{
	ServiceElectricity, ServiceWater, ServiceGas, ServiceInternet, ServicePhone,
	ServiceWaste, ServiceInsurance, ServicePOS, ServiceSecurity, ServiceOther,
}

// ProviderBill is a recurring bill from a utility or service provider.
type ProviderBill struct {
	entity.BaseRecord
	payable.Payment

	VoucherNo     string      `db:"voucher_no" json:"voucher_no"`
	Provider      string      `db:"provider" json:"provider"`
	ServiceType   ServiceType `db:"service_type" json:"service_type"`
	AccountNumber string      `db:"account_number" json:"account_number"`
	BillDate      types.Date  `db:"bill_date" json:"bill_date"`
	PeriodStart   *types.Date `db:"period_start" json:"period_start"`
	PeriodEnd     *types.Date `db:"period_end" json:"period_end"`
	DueDate       *types.Date `db:"due_date" json:"due_date"`
	Amount        types.Money `db:"amount" json:"amount"`
	Autopay       bool        `db:"autopay" json:"autopay"`
	Notes         string      `db:"notes" json:"notes"`
}

// Validate implements entity.Validatable interface.
func (b *ProviderBill) Validate(ctx context.Context) error {
	if b.ServiceType == "" {
		b.ServiceType = ServiceOther
	}
	if err := rules.First(
		rules.Required("provider", b.Provider),
		rules.MaxLen("provider", b.Provider, 150),
		rules.MaxLen("account_number", b.AccountNumber, 60),
		rules.OneOf("service_type", b.ServiceType, ServiceTypes...),
		rules.DateSet("bill_date", b.BillDate),
		rules.Positive("amount", b.Amount),
	); err != nil {
		return err
	}
	if (b.PeriodStart == nil) != (b.PeriodEnd == nil) {
		return apperror.NewFieldValidation("period_end", "period_start and period_end must be given together")
	}
	if b.PeriodStart != nil && b.PeriodEnd.Before(*b.PeriodStart) {
		return apperror.NewFieldValidation("period_end", "period_end must not be before period_start")
	}
	if b.DueDate != nil && b.DueDate.Before(b.BillDate) {
		return apperror.NewFieldValidation("due_date", "due_date must not be before bill_date")
	}
	return b.ValidatePayment(b.BillDate)
}

// PaymentState implements payable.Document.
func (b *ProviderBill) PaymentState() *payable.Payment { return &b.Payment }

// DocumentDate implements payable.Document.
func (b *ProviderBill) DocumentDate() types.Date { return b.BillDate }

// Voucher implements payable.Document.
func (b *ProviderBill) Voucher() string { return b.VoucherNo }

// SetVoucher implements payable.Document.
func (b *ProviderBill) SetVoucher(no string) { b.VoucherNo = no }

// ServiceDays is the length of the billing period, 0 when unknown.
func (b *ProviderBill) ServiceDays() int {
	if b.PeriodStart == nil || b.PeriodEnd == nil {
		return 0
	}
	return types.DateRange{Start: *b.PeriodStart, End: *b.PeriodEnd}.Days()
}
