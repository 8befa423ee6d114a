// Package rules holds field checks shared by the record models.
package rules

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/types"
)

// Required fails when s is blank.
func Required(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return apperror.NewFieldValidation(field, field+" is required")
	}
	return nil
}

// MaxLen fails when s is longer than n runes.
func MaxLen(field, s string, n int) error {
	if len([]rune(s)) > n {
		return apperror.NewFieldValidation(field, fmt.Sprintf("%s must be at most %d characters", field, n))
	}
	return nil
}

// NonNegative fails when v < 0.
func NonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return apperror.NewFieldValidation(field, field+" must not be negative").WithDetail("value", v.String())
	}
	return nil
}

// Positive fails when v <= 0.
func Positive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return apperror.NewFieldValidation(field, field+" must be greater than zero").WithDetail("value", v.String())
	}
	return nil
}

// DateSet fails when d is the zero date.
func DateSet(field string, d types.Date) error {
	if d.IsZero() {
		return apperror.NewFieldValidation(field, field+" is required")
	}
	return nil
}

// NotAfter fails when d is later than limit (used for "not in the future").
func NotAfter(field string, d, limit types.Date) error {
	if d.After(limit) {
		return apperror.NewFieldValidation(field, fmt.Sprintf("%s must not be after %s", field, limit)).
			WithDetail("value", d.String())
	}
	return nil
}

// OneOf fails when v is not in allowed.
func OneOf[T ~string](field string, v T, allowed ...T) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return apperror.NewFieldValidation(field, fmt.Sprintf("invalid %s %q", field, v)).
		WithDetail("allowed", allowed)
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// MoneyFields checks a set of named amounts are non-negative, in order.
func MoneyFields(fields ...any) error {
	for i := 0; i+1 < len(fields); i += 2 {
		name, _ := fields[i].(string)
		v, _ := fields[i+1].(decimal.Decimal)
		if err := NonNegative(name, v); err != nil {
			return err
		}
	}
	return nil
}
