// Package owner provides the station's owners and their ownership shares.
package owner

import (
	"context"
	"net/mail"

	"github.com/shopspring/decimal"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/entity"
	"stationdesk/internal/domain/records/rules"
)

// FullOwnership is the cap on the sum of all active owners' shares.
var FullOwnership = decimal.NewFromInt(100)

// Owner is a person holding a share of the business.
type Owner struct {
	entity.BaseRecord

	Name             string          `db:"name" json:"name"`
	Email            string          `db:"email" json:"email"`
	Phone            string          `db:"phone" json:"phone"`
	OwnershipPercent decimal.Decimal `db:"ownership_percent" json:"ownership_percent"`
	IsActive         bool            `db:"is_active" json:"is_active"`
}

// Validate implements entity.Validatable interface.
func (o *Owner) Validate(ctx context.Context) error {
	if err := rules.First(
		rules.Required("name", o.Name),
		rules.MaxLen("name", o.Name, 150),
		rules.MaxLen("phone", o.Phone, 30),
		rules.Positive("ownership_percent", o.OwnershipPercent),
	); err != nil {
		return err
	}
	if o.OwnershipPercent.GreaterThan(FullOwnership) {
		return apperror.NewFieldValidation("ownership_percent", "ownership_percent must not exceed 100")
	}
	if o.OwnershipPercent.Exponent() < -2 {
		return apperror.NewFieldValidation("ownership_percent", "ownership_percent allows at most 2 decimal places")
	}
	if o.Email != "" {
		if _, err := mail.ParseAddress(o.Email); err != nil {
			return apperror.NewFieldValidation("email", "email is not a valid address")
		}
	}
	return nil
}
