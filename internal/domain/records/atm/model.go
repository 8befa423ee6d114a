// Package atm records the daily cash cycle of the in-store ATM.
package atm

import (
	"context"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/entity"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/rules"
)

// Record is one business day of the ATM. BusinessDate is unique.
type Record struct {
	entity.BaseRecord

	BusinessDate     types.Date  `db:"business_date" json:"business_date"`
	OpeningCash      types.Money `db:"opening_cash" json:"opening_cash"`
	CashLoaded       types.Money `db:"cash_loaded" json:"cash_loaded"`
	CashDispensed    types.Money `db:"cash_dispensed" json:"cash_dispensed"`
	CountedClosing   types.Money `db:"counted_closing" json:"counted_closing"`
	SurchargeFees    types.Money `db:"surcharge_fees" json:"surcharge_fees"`
	TransactionCount int         `db:"transaction_count" json:"transaction_count"`
	BankAccountID    *id.ID      `db:"bank_account_id" json:"bank_account_id,omitempty"`
	Notes            string      `db:"notes" json:"notes"`

	// Derived on every write.
	ExpectedClosing types.Money `db:"expected_closing" json:"expected_closing"`
	Variance        types.Money `db:"variance" json:"variance"`
	Reconciled      bool        `db:"reconciled" json:"reconciled"`
}

// Validate implements entity.Validatable interface.
func (r *Record) Validate(ctx context.Context) error {
	if err := rules.First(
		rules.DateSet("business_date", r.BusinessDate),
		rules.MoneyFields(
			"opening_cash", r.OpeningCash,
			"cash_loaded", r.CashLoaded,
			"cash_dispensed", r.CashDispensed,
			"counted_closing", r.CountedClosing,
			"surcharge_fees", r.SurchargeFees,
		),
	); err != nil {
		return err
	}
	if r.TransactionCount < 0 {
		return apperror.NewFieldValidation("transaction_count", "transaction_count must not be negative")
	}
	return nil
}

// Result is the outcome of reconciling a record.
type Result struct {
	ExpectedClosing types.Money `json:"expected_closing"`
	Variance        types.Money `json:"variance"`
	Tolerance       types.Money `json:"tolerance"`
	Reconciled      bool        `json:"reconciled"`
}

// Reconcile computes expected = opening + loaded - dispensed and
// variance = counted - expected. The record is reconciled when
// |variance| <= tolerance.
func (r *Record) Reconcile(tolerance types.Money) Result {
	expected := types.RoundMoney(r.OpeningCash.Add(r.CashLoaded).Sub(r.CashDispensed))
	variance := types.RoundMoney(r.CountedClosing.Sub(expected))
	return Result{
		ExpectedClosing: expected,
		Variance:        variance,
		Tolerance:       tolerance,
		Reconciled:      variance.Abs().LessThanOrEqual(tolerance.Abs()),
	}
}

// Apply stores res on the record.
func (r *Record) Apply(res Result) {
	r.ExpectedClosing = res.ExpectedClosing
	r.Variance = res.Variance
	r.Reconciled = res.Reconciled
}
