package dailyfuel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/types"
)

func TestDailyFuel_NormalizeDerivesPrice(t *testing.T) {
	f := &DailyFuel{
		BusinessDate: types.MustDate("2026-10-18"),
		Grade:        GradeRegular,
		Gallons:      types.MustMoney("1234.5678"),
		Amount:       types.MustMoney("4314.559"),
	}
	f.Normalize()

	assert.Equal(t, "1234.568", f.Gallons.String())
	assert.Equal(t, "4314.56", f.Amount.String())
	assert.Equal(t, "3.495", f.PricePerGallon.String())
	assert.Equal(t, f.PricePerGallon.String(), f.ImpliedPrice().String())
}

func TestDailyFuel_NormalizeKeepsExplicitPrice(t *testing.T) {
	f := &DailyFuel{Gallons: types.MustMoney("10"), Amount: types.MustMoney("35"), PricePerGallon: types.MustMoney("3.599")}
	f.Normalize()
	assert.Equal(t, "3.599", f.PricePerGallon.String())
}

func TestDailyFuel_Validate(t *testing.T) {
	base := func() *DailyFuel {
		return &DailyFuel{
			BusinessDate: types.MustDate("2026-10-18"),
			Grade:        GradeDiesel,
			Gallons:      types.MustMoney("100"),
			Amount:       types.MustMoney("389.90"),
		}
	}

	tests := []struct {
		name   string
		mutate func(f *DailyFuel)
		field  string
	}{
		{"valid", func(f *DailyFuel) {}, ""},
		{"no date", func(f *DailyFuel) { f.BusinessDate = types.Date{} }, "business_date"},
		{"bad grade", func(f *DailyFuel) { f.Grade = "e85" }, "grade"},
		{"negative gallons", func(f *DailyFuel) { f.Gallons = types.MustMoney("-1") }, "gallons"},
		{"amount without gallons", func(f *DailyFuel) { f.Gallons = types.Zero() }, "gallons"},
		{"zero day", func(f *DailyFuel) { f.Gallons, f.Amount = types.Zero(), types.Zero() }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base()
			tt.mutate(f)
			err := f.Validate(context.Background())
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

func TestGradeNames(t *testing.T) {
	assert.Equal(t, []string{"regular", "plus", "premium", "diesel"}, GradeNames())
}
