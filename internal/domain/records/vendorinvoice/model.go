// Package vendorinvoice tracks supplier invoices and their payment.
package vendorinvoice

import (
	"context"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/entity"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/payable"
	"stationdesk/internal/domain/records/rules"
)

// VoucherPrefix numbers vendor invoices VI-YYYY-NNNNN.
const VoucherPrefix = "VI"

// Category groups invoices on the expense report.
type Category string

const (
	CategoryFuel        Category = "fuel"
	CategoryGrocery     Category = "grocery"
	CategoryBeverage    Category = "beverage"
	CategoryTobacco     Category = "tobacco"
	CategoryLottery     Category = "lottery"
	CategorySupplies    Category = "supplies"
	CategoryMaintenance Category = "maintenance"
	CategoryOther       Category = "other"
)

// Categories lists every category.
var Categories = []Category{
	CategoryFuel, CategoryGrocery, CategoryBeverage, CategoryTobacco,
	CategoryLottery, CategorySupplies, CategoryMaintenance, CategoryOther,
}

// VendorInvoice is a supplier invoice. (Vendor, InvoiceNumber) is unique.
type VendorInvoice struct {
	entity.BaseRecord
	payable.Payment

	VoucherNo     string      `db:"voucher_no" json:"voucher_no"`
	Vendor        string      `db:"vendor" json:"vendor"`
	InvoiceNumber string      `db:"invoice_number" json:"invoice_number"`
	InvoiceDate   types.Date  `db:"invoice_date" json:"invoice_date"`
	DueDate       *types.Date `db:"due_date" json:"due_date"`
	Amount        types.Money `db:"amount" json:"amount"`
	Category      Category    `db:"category" json:"category"`
	Description   string      `db:"description" json:"description"`
}

// Validate implements entity.Validatable interface.
func (v *VendorInvoice) Validate(ctx context.Context) error {
	if v.Category == "" {
		v.Category = CategoryOther
	}
	if err := rules.First(
		rules.Required("vendor", v.Vendor),
		rules.MaxLen("vendor", v.Vendor, 150),
		rules.Required("invoice_number", v.InvoiceNumber),
		rules.MaxLen("invoice_number", v.InvoiceNumber, 60),
		rules.DateSet("invoice_date", v.InvoiceDate),
		rules.Positive("amount", v.Amount),
		rules.OneOf("category", v.Category, Categories...),
	); err != nil {
		return err
	}
	if v.DueDate != nil && !v.DueDate.IsZero() && v.DueDate.Before(v.InvoiceDate) {
		return apperror.NewFieldValidation("due_date", "due_date must not be before invoice_date")
	}
	return v.ValidatePayment(v.InvoiceDate)
}

// PaymentState implements payable.Document.
func (v *VendorInvoice) PaymentState() *payable.Payment { return &v.Payment }

// DocumentDate implements payable.Document.
func (v *VendorInvoice) DocumentDate() types.Date { return v.InvoiceDate }

// Voucher implements payable.Document.
func (v *VendorInvoice) Voucher() string { return v.VoucherNo }

// SetVoucher implements payable.Document.
func (v *VendorInvoice) SetVoucher(no string) { v.VoucherNo = no }

// IsOverdue reports whether an unpaid invoice is past its due date on day.
func (v *VendorInvoice) IsOverdue(day types.Date) bool {
	return v.Status == payable.StatusUnpaid && v.DueDate != nil && !v.DueDate.IsZero() && v.DueDate.Before(day)
}
