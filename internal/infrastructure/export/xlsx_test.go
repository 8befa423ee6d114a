package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/reports"
)

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func raw(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestReport_Income(t *testing.T) {
	rng := types.DateRange{Start: types.MustDate("2026-01-01"), End: types.MustDate("2026-02-28")}
	rep := reports.BuildIncome(rng, []reports.IncomeRow{
		{Month: types.MustDate("2026-01-01"), FuelSales: types.MustMoney("1200"), InsideSales: types.MustMoney("300.5")},
		{Month: types.MustDate("2026-02-01"), FuelSales: types.MustMoney("800")},
	})

	data, name, err := Report(rep)
	require.NoError(t, err)
	assert.Equal(t, "income_2026-01-01_2026-02-28.xlsx", name)

	f := open(t, data)
	assert.Equal(t, []string{"Income", "By month"}, f.GetSheetList())

	assert.Equal(t, "Line", raw(t, f, "Income", "A1"))
	assert.Equal(t, "Fuel sales", raw(t, f, "Income", "A2"))
	assert.Equal(t, "2000", raw(t, f, "Income", "B2"))
	assert.Equal(t, "300.5", raw(t, f, "Income", "B3"))
	assert.Equal(t, "Total", raw(t, f, "Income", "A6"))
	assert.Equal(t, "2300.5", raw(t, f, "Income", "B6"))

	assert.Equal(t, "2026-01", raw(t, f, "By month", "A2"))
	assert.Equal(t, "2026-02", raw(t, f, "By month", "A3"))
	assert.Equal(t, "total", raw(t, f, "By month", "F1"))
	assert.Equal(t, "1500.5", raw(t, f, "By month", "F2"))
}

func TestReport_Balance(t *testing.T) {
	rep := &reports.BalanceReport{
		Range:   types.DateRange{Start: types.MustDate("2026-03-01"), End: types.MustDate("2026-03-31")},
		Income:  types.MustMoney("5000"),
		Expense: types.MustMoney("3200"),
		Net:     types.MustMoney("1800"),
		Accounts: []reports.AccountBalance{
			{Name: "Operating", Opening: types.MustMoney("100"), Deposits: types.MustMoney("50"), Payments: types.MustMoney("20"), Closing: types.MustMoney("130")},
		},
		Totals: reports.AccountBalance{Name: "Total", Closing: types.MustMoney("130")},
	}

	data, name, err := Report(rep)
	require.NoError(t, err)
	assert.Equal(t, "balance_2026-03-01_2026-03-31.xlsx", name)

	f := open(t, data)
	assert.Equal(t, "1800", raw(t, f, "Balance", "B4"))
	assert.Equal(t, "Net", raw(t, f, "Balance", "A4"))
	assert.Equal(t, "Operating", raw(t, f, "Bank accounts", "A2"))
	assert.Equal(t, "130", raw(t, f, "Bank accounts", "E2"))
	assert.Equal(t, "Total", raw(t, f, "Bank accounts", "A3"))
}

func TestReport_ExpenseSheets(t *testing.T) {
	rng := types.DateRange{Start: types.MustDate("2026-01-01"), End: types.MustDate("2026-01-31")}
	rep := reports.BuildExpense(rng, nil)

	data, _, err := Report(rep)
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{"Expense", "By category", "By vendor", "By service type", "By provider", "By month"}, f.GetSheetList())
}

func TestReport_UnsupportedType(t *testing.T) {
	_, _, err := Report("nope")
	assert.Error(t, err)
}

func TestWorkbook_NoSheets(t *testing.T) {
	_, err := Workbook(nil)
	assert.Error(t, err)
}
