// Package dailyfuel records gallons and dollars pumped per fuel grade per day.
package dailyfuel

import (
	"context"

	"github.com/shopspring/decimal"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/entity"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/rules"
)

// Grade of fuel.
type Grade string

const (
	GradeRegular Grade = "regular"
	GradePlus    Grade = "plus"
	GradePremium Grade = "premium"
	GradeDiesel  Grade = "diesel"
)

// Grades lists every grade in pump order.
var Grades = []Grade{GradeRegular, GradePlus, GradePremium, GradeDiesel}

// GradeNames returns the grades as strings.
func GradeNames() []string {
	out := make([]string, len(Grades))
	for i, g := range Grades {
		out[i] = string(g)
	}
	return out
}

// DailyFuel is one grade's totals for one business day.
type DailyFuel struct {
	entity.BaseRecord

	BusinessDate   types.Date    `db:"business_date" json:"business_date"`
	Grade          Grade         `db:"grade" json:"grade"`
	Gallons        types.Gallons `db:"gallons" json:"gallons"`
	Amount         types.Money   `db:"amount" json:"amount"`
	PricePerGallon types.Money   `db:"price_per_gallon" json:"price_per_gallon"`
	Notes          string        `db:"notes" json:"notes"`
}

// Normalize rounds the quantities and derives the price when it is missing.
func (f *DailyFuel) Normalize() {
	f.Gallons = types.RoundGallons(f.Gallons)
	f.Amount = types.RoundMoney(f.Amount)
	if f.PricePerGallon.IsZero() && f.Gallons.IsPositive() {
		f.PricePerGallon = f.Amount.Div(f.Gallons).Round(3)
	}
}

// Reprice clears a derived price that an edit of the quantities left
// behind, so Normalize derives it again. A price that was entered by
// hand, or changed by the edit, is kept.
func (f *DailyFuel) Reprice(stored *DailyFuel) {
	if !f.PricePerGallon.Equal(stored.PricePerGallon) || !stored.PricePerGallon.Equal(stored.ImpliedPrice()) {
		return
	}
	if f.Amount.Equal(stored.Amount) && f.Gallons.Equal(stored.Gallons) {
		return
	}
	f.PricePerGallon = decimal.Zero
}

// Validate implements entity.Validatable interface.
func (f *DailyFuel) Validate(ctx context.Context) error {
	if err := rules.First(
		rules.DateSet("business_date", f.BusinessDate),
		rules.OneOf("grade", f.Grade, Grades...),
		rules.NonNegative("gallons", f.Gallons),
		rules.NonNegative("amount", f.Amount),
		rules.NonNegative("price_per_gallon", f.PricePerGallon),
	); err != nil {
		return err
	}
	if f.Gallons.IsZero() && f.Amount.IsPositive() {
		return apperror.NewFieldValidation("gallons", "gallons must be set when amount is not zero")
	}
	return nil
}

// ImpliedPrice is amount / gallons, zero when nothing was pumped.
func (f *DailyFuel) ImpliedPrice() types.Money {
	if f.Gallons.IsZero() {
		return decimal.Zero
	}
	return f.Amount.Div(f.Gallons).Round(3)
}
