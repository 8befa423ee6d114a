// Package export renders reports as XLSX workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/reports"
)

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet is one worksheet: a header row followed by data rows.
// Money cells are written as numbers with a thousands/cents format.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
	// Totals, when set, is appended as a bold final row.
	Totals []any
}

// Report renders one of the report types and suggests a filename.
func Report(v any) ([]byte, string, error) {
	var (
		kind   reports.Kind
		rng    types.DateRange
		sheets []Sheet
	)
	switch rep := v.(type) {
	case *reports.IncomeReport:
		kind, rng, sheets = reports.KindIncome, rep.Range, IncomeSheets(rep)
	case *reports.ExpenseReport:
		kind, rng, sheets = reports.KindExpense, rep.Range, ExpenseSheets(rep)
	case *reports.BalanceReport:
		kind, rng, sheets = reports.KindBalance, rep.Range, BalanceSheets(rep)
	default:
		return nil, "", fmt.Errorf("export: unsupported report type %T", v)
	}

	data, err := Workbook(sheets)
	if err != nil {
		return nil, "", err
	}
	return data, Filename(kind, rng), nil
}

// Filename is "<kind>_<start>_<end>.xlsx".
func Filename(kind reports.Kind, rng types.DateRange) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", kind, rng.Start, rng.End)
}

// IncomeSheets lays out the income report: lines, then months.
func IncomeSheets(rep *reports.IncomeReport) []Sheet {
	summary := Sheet{Name: "Income", Header: []string{"Line", "Amount"}}
	for _, l := range rep.Lines {
		summary.Rows = append(summary.Rows, []any{l.Label, money(l.Amount)})
	}
	summary.Totals = []any{"Total", money(rep.Total)}

	return []Sheet{summary, monthSheet(rep.Months, reports.IncomeLines)}
}

// ExpenseSheets lays out the expense report across grouping sheets.
func ExpenseSheets(rep *reports.ExpenseReport) []Sheet {
	summary := Sheet{
		Name:   "Expense",
		Header: []string{"", "Amount"},
		Rows: [][]any{
			{"Vendor invoices", money(rep.InvoiceTotal)},
			{"Provider bills", money(rep.BillTotal)},
			{"Unpaid", money(rep.Unpaid)},
		},
		Totals: []any{"Total", money(rep.Total)},
	}
	return []Sheet{
		summary,
		lineSheet("By category", "Category", rep.ByCategory, rep.InvoiceTotal),
		lineSheet("By vendor", "Vendor", rep.ByVendor, rep.InvoiceTotal),
		lineSheet("By service type", "Service type", rep.ByServiceType, rep.BillTotal),
		lineSheet("By provider", "Provider", rep.ByProvider, rep.BillTotal),
		monthSheet(rep.Months, []string{reports.SourceInvoice, reports.SourceBill}),
	}
}

// BalanceSheets lays out the balance report: net, then bank accounts.
func BalanceSheets(rep *reports.BalanceReport) []Sheet {
	net := Sheet{
		Name:   "Balance",
		Header: []string{"", "Amount"},
		Rows: [][]any{
			{"Income", money(rep.Income)},
			{"Expense", money(rep.Expense)},
		},
		Totals: []any{"Net", money(rep.Net)},
	}
	accounts := Sheet{
		Name:   "Bank accounts",
		Header: []string{"Account", "Opening", "Deposits", "Payments", "Closing"},
	}
	for _, a := range rep.Accounts {
		accounts.Rows = append(accounts.Rows, accountRow(a))
	}
	accounts.Totals = accountRow(rep.Totals)
	return []Sheet{net, accounts}
}

func accountRow(a reports.AccountBalance) []any {
	return []any{a.Name, money(a.Opening), money(a.Deposits), money(a.Payments), money(a.Closing)}
}

func lineSheet(name, label string, lines []reports.Line, total types.Money) Sheet {
	s := Sheet{Name: name, Header: []string{label, "Amount"}}
	for _, l := range lines {
		s.Rows = append(s.Rows, []any{l.Label, money(l.Amount)})
	}
	s.Totals = []any{"Total", money(total)}
	return s
}

func monthSheet(months []reports.MonthRow, keys []string) Sheet {
	s := Sheet{Name: "By month", Header: []string{"Month"}}
	for _, k := range keys {
		s.Header = append(s.Header, k)
	}
	s.Header = append(s.Header, "total")
	for _, mr := range months {
		row := []any{mr.Month}
		for _, k := range keys {
			row = append(row, money(mr.Amounts[k]))
		}
		s.Rows = append(s.Rows, append(row, money(mr.Total)))
	}
	return s
}

func money(m types.Money) float64 {
	return types.RoundMoney(m).InexactFloat64()
}

// Workbook writes the sheets in order into a new workbook.
func Workbook(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("export: no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", s.Name, err)
		}
		if err := writeSheet(f, st, s); err != nil {
			return nil, fmt.Errorf("write sheet %q: %w", s.Name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type styles struct {
	header int
	number int
	total  int
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	st.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#2F5597"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "#1F3864", Style: 2}},
	})
	if err != nil {
		return st, fmt.Errorf("header style: %w", err)
	}
	st.number, err = f.NewStyle(&excelize.Style{
		NumFmt:    4, // #,##0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return st, fmt.Errorf("number style: %w", err)
	}
	st.total, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		NumFmt: 4,
		Border: []excelize.Border{{Type: "top", Color: "#000000", Style: 1}},
	})
	if err != nil {
		return st, fmt.Errorf("total style: %w", err)
	}
	return st, nil
}

func writeSheet(f *excelize.File, st styles, s Sheet) error {
	header := make([]any, len(s.Header))
	for i, h := range s.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(max(len(s.Header), 1), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.Name, "A1", last, st.header); err != nil {
		return err
	}

	row := 2
	put := func(values []any, style int) error {
		start, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.Name, start, &values); err != nil {
			return err
		}
		if len(values) > 1 {
			from, _ := excelize.CoordinatesToCellName(2, row)
			to, _ := excelize.CoordinatesToCellName(len(values), row)
			if err := f.SetCellStyle(s.Name, from, to, style); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	for _, values := range s.Rows {
		if err := put(values, st.number); err != nil {
			return err
		}
	}
	if len(s.Totals) > 0 {
		if err := put(s.Totals, st.total); err != nil {
			return err
		}
		first, _ := excelize.CoordinatesToCellName(1, row-1)
		if err := f.SetCellStyle(s.Name, first, first, st.total); err != nil {
			return err
		}
	}
	return f.SetColWidth(s.Name, "A", "A", 28)
}
