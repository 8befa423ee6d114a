// Package reports builds the income, expense and balance reports.
package reports

import (
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
)

// Kind names a report.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindBalance Kind = "balance"
)

// Income lines.
const (
	LineFuelSales    = "fuel_sales"
	LineInsideSales  = "inside_sales"
	LineLotteryNet   = "lottery_net"
	LineATMSurcharge = "atm_surcharge"
)

// IncomeLines is the order income lines are reported in.
var IncomeLines = []string{LineFuelSales, LineInsideSales, LineLotteryNet, LineATMSurcharge}

var lineLabels = map[string]string{
	LineFuelSales:    "Fuel sales",
	LineInsideSales:  "Inside sales",
	LineLotteryNet:   "Lottery (net of payouts)",
	LineATMSurcharge: "ATM surcharge",
}

// Expense sources.
const (
	SourceInvoice = "invoice"
	SourceBill    = "bill"
)

// Line is one labelled amount.
type Line struct {
	Key    string      `json:"key"`
	Label  string      `json:"label"`
	Amount types.Money `json:"amount"`
}

// MonthRow is a per-month breakdown row. Month is formatted YYYY-MM.
type MonthRow struct {
	Month   string                 `json:"month"`
	Amounts map[string]types.Money `json:"amounts"`
	Total   types.Money            `json:"total"`
}

// IncomeReport totals income lines over a range.
type IncomeReport struct {
	Range  types.DateRange `json:"range"`
	Lines  []Line          `json:"lines"`
	Months []MonthRow      `json:"months"`
	Total  types.Money     `json:"total"`
}

// ExpenseReport totals invoices and bills over a range.
type ExpenseReport struct {
	Range         types.DateRange `json:"range"`
	ByCategory    []Line          `json:"by_category"`
	ByVendor      []Line          `json:"by_vendor"`
	ByServiceType []Line          `json:"by_service_type"`
	ByProvider    []Line          `json:"by_provider"`
	Months        []MonthRow      `json:"months"`
	InvoiceTotal  types.Money     `json:"invoice_total"`
	BillTotal     types.Money     `json:"bill_total"`
	Total         types.Money     `json:"total"`
	Unpaid        types.Money     `json:"unpaid"`
}

// AccountBalance is the movement of one bank account over a range.
type AccountBalance struct {
	AccountID id.ID       `json:"account_id"`
	Name      string      `json:"name"`
	Opening   types.Money `json:"opening"`
	Deposits  types.Money `json:"deposits"`
	Payments  types.Money `json:"payments"`
	Closing   types.Money `json:"closing"`
}

// BalanceReport nets income against expense and rolls the bank accounts forward.
type BalanceReport struct {
	Range    types.DateRange  `json:"range"`
	Income   types.Money      `json:"income"`
	Expense  types.Money      `json:"expense"`
	Net      types.Money      `json:"net"`
	Accounts []AccountBalance `json:"accounts"`
	Totals   AccountBalance   `json:"totals"`
}

// --- Source rows ---

// IncomeRow is one month of income as summed by the repository.
type IncomeRow struct {
	Month          types.Date  `db:"month"`
	FuelSales      types.Money `db:"fuel_sales"`
	InsideSales    types.Money `db:"inside_sales"`
	LotterySales   types.Money `db:"lottery_sales"`
	LotteryPayouts types.Money `db:"lottery_payouts"`
	ATMSurcharge   types.Money `db:"atm_surcharge"`
}

// ExpenseRow is an expense total per source, group, party and month.
// Group is the invoice category or bill service type; Party is the vendor or provider.
type ExpenseRow struct {
	Source string      `db:"source"`
	Group  string      `db:"grp"`
	Party  string      `db:"party"`
	Month  types.Date  `db:"month"`
	Amount types.Money `db:"amount"`
	Unpaid types.Money `db:"unpaid"`
}

// AccountActivity is a bank account's flows before and inside the range.
type AccountActivity struct {
	AccountID      id.ID       `db:"account_id"`
	Name           string      `db:"name"`
	OpeningBalance types.Money `db:"opening_balance"`
	PriorDeposits  types.Money `db:"prior_deposits"`
	PriorPayments  types.Money `db:"prior_payments"`
	Deposits       types.Money `db:"deposits"`
	Payments       types.Money `db:"payments"`
}
