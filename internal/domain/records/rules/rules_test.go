package rules

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/types"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	if !assert.True(t, ok) {
		return ""
	}
	return appErr.Details["field"].(string)
}

func TestRules(t *testing.T) {
	assert.NoError(t, Required("name", "Chase"))
	assert.Equal(t, "name", fieldOf(t, Required("name", "  ")))

	assert.NoError(t, MaxLen("code", "abc", 3))
	assert.Error(t, MaxLen("code", "abcd", 3))

	assert.NoError(t, NonNegative("amount", decimal.Zero))
	assert.Equal(t, "amount", fieldOf(t, NonNegative("amount", decimal.NewFromInt(-1))))

	assert.Error(t, Positive("amount", decimal.Zero))
	assert.NoError(t, Positive("amount", decimal.RequireFromString("0.01")))

	assert.Error(t, DateSet("business_date", types.Date{}))

	today := types.MustDate("2026-10-19")
	assert.NoError(t, NotAfter("business_date", today, today))
	assert.Error(t, NotAfter("business_date", today.AddDays(1), today))
}

func TestOneOf(t *testing.T) {
	type grade string
	assert.NoError(t, OneOf("grade", grade("plus"), "regular", "plus"))
	assert.Equal(t, "grade", fieldOf(t, OneOf("grade", grade("e85"), "regular", "plus")))
}

func TestMoneyFieldsAndFirst(t *testing.T) {
	err := MoneyFields("fuel_sales", decimal.NewFromInt(1), "inside_sales", decimal.NewFromInt(-2))
	assert.Equal(t, "inside_sales", fieldOf(t, err))

	assert.NoError(t, First(nil, nil))
	assert.Equal(t, "b", fieldOf(t, First(nil, Required("b", ""), Required("c", ""))))
}
