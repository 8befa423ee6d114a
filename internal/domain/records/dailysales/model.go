// Package dailysales records the register close-out for one business day.
package dailysales

import (
	"context"

	"stationdesk/internal/core/entity"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/rules"
)

// DailySales is the close-out of one business day. BusinessDate is unique.
type DailySales struct {
	entity.BaseRecord

	BusinessDate   types.Date  `db:"business_date" json:"business_date"`
	FuelSales      types.Money `db:"fuel_sales" json:"fuel_sales"`
	InsideSales    types.Money `db:"inside_sales" json:"inside_sales"`
	LotterySales   types.Money `db:"lottery_sales" json:"lottery_sales"`
	LotteryPayouts types.Money `db:"lottery_payouts" json:"lottery_payouts"`
	SalesTax       types.Money `db:"sales_tax" json:"sales_tax"`
	POSCard        types.Money `db:"pos_card" json:"pos_card"`
	POSCash        types.Money `db:"pos_cash" json:"pos_cash"`
	AFDCard        types.Money `db:"afd_card" json:"afd_card"`
	SafedropTotal  types.Money `db:"safedrop_total" json:"safedrop_total"`
	CashOverShort  types.Money `db:"cash_over_short" json:"cash_over_short"`
	Notes          string      `db:"notes" json:"notes"`
}

// Validate implements entity.Validatable interface.
func (d *DailySales) Validate(ctx context.Context) error {
	return rules.First(
		rules.DateSet("business_date", d.BusinessDate),
		rules.MoneyFields(
			"fuel_sales", d.FuelSales,
			"inside_sales", d.InsideSales,
			"lottery_sales", d.LotterySales,
			"lottery_payouts", d.LotteryPayouts,
			"sales_tax", d.SalesTax,
			"pos_card", d.POSCard,
			"pos_cash", d.POSCash,
			"afd_card", d.AFDCard,
			"safedrop_total", d.SafedropTotal,
		),
		rules.MaxLen("notes", d.Notes, 2000),
	)
}

// TotalSales is fuel + inside + lottery.
func (d *DailySales) TotalSales() types.Money {
	return types.Sum(d.FuelSales, d.InsideSales, d.LotterySales)
}

// CardTotal is what the card processors settle: inside POS cards plus pay-at-pump.
func (d *DailySales) CardTotal() types.Money {
	return d.POSCard.Add(d.AFDCard)
}

// ExpectedCash is the cash that should have reached the safe: POS cash less lottery paid out.
func (d *DailySales) ExpectedCash() types.Money {
	return d.POSCash.Sub(d.LotteryPayouts)
}

// Derive recomputes CashOverShort from the counted safedrops.
// Positive means over, negative means short.
func (d *DailySales) Derive() {
	d.CashOverShort = types.RoundMoney(d.SafedropTotal.Sub(d.ExpectedCash()))
}
