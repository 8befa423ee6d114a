package reports

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"stationdesk/internal/core/types"
)

const monthLayout = "2006-01"

// monthsOf lists every YYYY-MM touched by rng, in order.
func monthsOf(rng types.DateRange) []string {
	if rng.End.Before(rng.Start) {
		return nil
	}
	var out []string
	last := rng.End.StartOfMonth()
	for m := rng.Start.StartOfMonth(); !m.After(last); m = types.DateOf(m.AddDate(0, 1, 0)) {
		out = append(out, m.Format(monthLayout))
	}
	return out
}

func newMonthRows(rng types.DateRange, keys []string) ([]MonthRow, map[string]*MonthRow) {
	months := monthsOf(rng)
	rows := make([]MonthRow, len(months))
	index := make(map[string]*MonthRow, len(months))
	for i, m := range months {
		amounts := make(map[string]types.Money, len(keys))
		for _, k := range keys {
			amounts[k] = decimal.Zero
		}
		rows[i] = MonthRow{Month: m, Amounts: amounts, Total: decimal.Zero}
		index[m] = &rows[i]
	}
	return rows, index
}

func (r *MonthRow) add(key string, v types.Money) {
	r.Amounts[key] = r.Amounts[key].Add(v)
	r.Total = r.Total.Add(v)
}

// BuildIncome folds monthly income rows into the income report.
// Rows for months outside rng are ignored.
func BuildIncome(rng types.DateRange, rows []IncomeRow) *IncomeReport {
	months, index := newMonthRows(rng, IncomeLines)
	totals := make(map[string]types.Money, len(IncomeLines))

	for _, row := range rows {
		mr, ok := index[row.Month.Format(monthLayout)]
		if !ok {
			continue
		}
		values := map[string]types.Money{
			LineFuelSales:    row.FuelSales,
			LineInsideSales:  row.InsideSales,
			LineLotteryNet:   row.LotterySales.Sub(row.LotteryPayouts),
			LineATMSurcharge: row.ATMSurcharge,
		}
		for _, key := range IncomeLines {
			mr.add(key, values[key])
			totals[key] = totals[key].Add(values[key])
		}
	}

	rep := &IncomeReport{Range: rng, Months: months, Total: decimal.Zero}
	for _, key := range IncomeLines {
		rep.Lines = append(rep.Lines, Line{Key: key, Label: lineLabels[key], Amount: totals[key]})
		rep.Total = rep.Total.Add(totals[key])
	}
	return rep
}

// grouper accumulates amounts per key and emits lines ordered by amount desc.
type grouper map[string]types.Money

func (g grouper) add(key string, v types.Money) {
	if key == "" {
		key = "unspecified"
	}
	g[key] = g[key].Add(v)
}

func (g grouper) lines() []Line {
	out := make([]Line, 0, len(g))
	for k, v := range g {
		out = append(out, Line{Key: k, Label: labelOf(k), Amount: v})
	}
	slices.SortFunc(out, func(a, b Line) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

func labelOf(key string) string {
	if key == "" {
		return key
	}
	s := strings.ReplaceAll(key, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

// BuildExpense folds expense rows into the expense report.
func BuildExpense(rng types.DateRange, rows []ExpenseRow) *ExpenseReport {
	months, index := newMonthRows(rng, []string{SourceInvoice, SourceBill})
	categories, vendors := grouper{}, grouper{}
	services, providers := grouper{}, grouper{}

	rep := &ExpenseReport{
		Range:        rng,
		Months:       months,
		InvoiceTotal: decimal.Zero,
		BillTotal:    decimal.Zero,
		Total:        decimal.Zero,
		Unpaid:       decimal.Zero,
	}
	for _, row := range rows {
		mr, ok := index[row.Month.Format(monthLayout)]
		if !ok {
			continue
		}
		switch row.Source {
		case SourceInvoice:
			categories.add(row.Group, row.Amount)
			vendors.add(row.Party, row.Amount)
			rep.InvoiceTotal = rep.InvoiceTotal.Add(row.Amount)
		case SourceBill:
			services.add(row.Group, row.Amount)
			providers.add(row.Party, row.Amount)
			rep.BillTotal = rep.BillTotal.Add(row.Amount)
		default:
			continue
		}
		mr.add(row.Source, row.Amount)
		rep.Total = rep.Total.Add(row.Amount)
		rep.Unpaid = rep.Unpaid.Add(row.Unpaid)
	}

	rep.ByCategory = categories.lines()
	rep.ByVendor = partyLines(vendors)
	rep.ByServiceType = services.lines()
	rep.ByProvider = partyLines(providers)
	return rep
}

// partyLines keeps vendor and provider names as labels verbatim.
func partyLines(g grouper) []Line {
	lines := g.lines()
	for i := range lines {
		lines[i].Label = lines[i].Key
	}
	return lines
}

// BuildBalance nets income against expense and rolls each account forward:
// opening = opening balance + prior deposits - prior payments,
// closing = opening + deposits - payments.
func BuildBalance(rng types.DateRange, income *IncomeReport, expense *ExpenseReport, activity []AccountActivity) *BalanceReport {
	rep := &BalanceReport{
		Range:   rng,
		Income:  income.Total,
		Expense: expense.Total,
		Net:     income.Total.Sub(expense.Total),
		Totals: AccountBalance{
			Name:     "Total",
			Opening:  decimal.Zero,
			Deposits: decimal.Zero,
			Payments: decimal.Zero,
			Closing:  decimal.Zero,
		},
	}
	for _, a := range activity {
		opening := a.OpeningBalance.Add(a.PriorDeposits).Sub(a.PriorPayments)
		bal := AccountBalance{
			AccountID: a.AccountID,
			Name:      a.Name,
			Opening:   opening,
			Deposits:  a.Deposits,
			Payments:  a.Payments,
			Closing:   opening.Add(a.Deposits).Sub(a.Payments),
		}
		rep.Accounts = append(rep.Accounts, bal)
		rep.Totals.Opening = rep.Totals.Opening.Add(bal.Opening)
		rep.Totals.Deposits = rep.Totals.Deposits.Add(bal.Deposits)
		rep.Totals.Payments = rep.Totals.Payments.Add(bal.Payments)
		rep.Totals.Closing = rep.Totals.Closing.Add(bal.Closing)
	}
	slices.SortStableFunc(rep.Accounts, func(a, b AccountBalance) int {
		return strings.Compare(a.Name, b.Name)
	})
	return rep
}
