// Package safedrop records cash moved from the register into the safe.
package safedrop

import (
	"context"
	"time"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/entity"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/rules"
)

// Safedrop is a single bag dropped into the safe during a shift.
type Safedrop struct {
	entity.BaseRecord

	BusinessDate  types.Date  `db:"business_date" json:"business_date"`
	DroppedAt     time.Time   `db:"dropped_at" json:"dropped_at"`
	Amount        types.Money `db:"amount" json:"amount"`
	Employee      string      `db:"employee" json:"employee"`
	BagNumber     string      `db:"bag_number" json:"bag_number"`
	BankAccountID *id.ID      `db:"bank_account_id" json:"bank_account_id,omitempty"`
	Notes         string      `db:"notes" json:"notes"`
}

// Validate implements entity.Validatable interface.
func (s *Safedrop) Validate(ctx context.Context) error {
	if err := rules.First(
		rules.DateSet("business_date", s.BusinessDate),
		rules.Positive("amount", s.Amount),
		rules.Required("employee", s.Employee),
		rules.MaxLen("employee", s.Employee, 100),
		rules.MaxLen("bag_number", s.BagNumber, 40),
	); err != nil {
		return err
	}
	if s.Amount.Exponent() < -types.MoneyPlaces && !s.Amount.Equal(types.RoundMoney(s.Amount)) {
		return apperror.NewFieldValidation("amount", "amount allows at most 2 decimal places")
	}
	// A drop late at night may belong to the previous business day, never to a later one.
	if !s.DroppedAt.IsZero() && types.DateOf(s.DroppedAt).Before(s.BusinessDate) {
		return apperror.NewFieldValidation("dropped_at", "dropped_at is before the business date")
	}
	return nil
}
