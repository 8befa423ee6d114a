// Package report_repo provides PostgreSQL implementations for report and trend repositories.
package report_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/reports"
	"stationdesk/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	db postgres.QuerierProvider
}

// NewReportRepo creates a new report repository.
func NewReportRepo(db postgres.QuerierProvider) *ReportRepo {
	return &ReportRepo{db: db}
}

var _ reports.Repository = (*ReportRepo)(nil)

const incomeByMonthSQL = `
	WITH sales AS (
		SELECT date_trunc('month', business_date)::date AS month,
			SUM(fuel_sales) AS fuel_sales,
			SUM(inside_sales) AS inside_sales,
			SUM(lottery_sales) AS lottery_sales,
			SUM(lottery_payouts) AS lottery_payouts
		FROM daily_sales
		WHERE deletion_mark = false AND business_date BETWEEN $1 AND $2
		GROUP BY 1
	), atm AS (
		SELECT date_trunc('month', business_date)::date AS month,
			SUM(surcharge_fees) AS atm_surcharge
		FROM atm_records
		WHERE deletion_mark = false AND business_date BETWEEN $1 AND $2
		GROUP BY 1
	)
	SELECT COALESCE(s.month, a.month) AS month,
		COALESCE(s.fuel_sales, 0) AS fuel_sales,
		COALESCE(s.inside_sales, 0) AS inside_sales,
		COALESCE(s.lottery_sales, 0) AS lottery_sales,
		COALESCE(s.lottery_payouts, 0) AS lottery_payouts,
		COALESCE(a.atm_surcharge, 0) AS atm_surcharge
	FROM sales s
	FULL OUTER JOIN atm a ON a.month = s.month
	ORDER BY 1`

// IncomeByMonth sums daily sales and ATM fees per calendar month of rng.
func (r *ReportRepo) IncomeByMonth(ctx context.Context, rng types.DateRange) ([]reports.IncomeRow, error) {
	var rows []reports.IncomeRow
	if err := pgxscan.Select(ctx, r.db.GetQuerier(ctx), &rows, incomeByMonthSQL, rng.Start, rng.End); err != nil {
		return nil, fmt.Errorf("income by month: %w", err)
	}
	return rows, nil
}

const expenseRowsSQL = `
	SELECT 'invoice' AS source, category AS grp, vendor AS party,
		date_trunc('month', invoice_date)::date AS month,
		SUM(amount) AS amount,
		SUM(CASE WHEN status = 'unpaid' THEN amount ELSE 0 END) AS unpaid
	FROM vendor_invoices
	WHERE deletion_mark = false AND status <> 'void' AND invoice_date BETWEEN $1 AND $2
	GROUP BY 1, 2, 3, 4
	UNION ALL
	SELECT 'bill', service_type, provider,
		date_trunc('month', bill_date)::date,
		SUM(amount),
		SUM(CASE WHEN status = 'unpaid' THEN amount ELSE 0 END)
	FROM provider_bills
	WHERE deletion_mark = false AND status <> 'void' AND bill_date BETWEEN $1 AND $2
	GROUP BY 1, 2, 3, 4
	ORDER BY 4, 1, 2, 3`

// ExpenseRows sums invoices (by invoice date) and bills (by bill date); void documents are skipped.
func (r *ReportRepo) ExpenseRows(ctx context.Context, rng types.DateRange) ([]reports.ExpenseRow, error) {
	var rows []reports.ExpenseRow
	if err := pgxscan.Select(ctx, r.db.GetQuerier(ctx), &rows, expenseRowsSQL, rng.Start, rng.End); err != nil {
		return nil, fmt.Errorf("expense rows: %w", err)
	}
	return rows, nil
}

// accountActivitySQL collects every flow per account. Deposits are safedrops,
// ATM settlements (dispensed cash plus surcharge) and, for the settlement
// account ($3), card sales; payments are paid invoices and bills by paid date.
// Flows before the account's opening date are ignored.
const accountActivitySQL = `
	WITH flows AS (
		SELECT bank_account_id AS account_id, business_date AS day, amount AS deposit, 0::numeric AS payment
		FROM safedrops
		WHERE deletion_mark = false AND bank_account_id IS NOT NULL
		UNION ALL
		SELECT bank_account_id, business_date, cash_dispensed + surcharge_fees, 0
		FROM atm_records
		WHERE deletion_mark = false AND bank_account_id IS NOT NULL
		UNION ALL
		SELECT $3::uuid, business_date, pos_card + afd_card, 0
		FROM daily_sales
		WHERE deletion_mark = false AND $3::uuid IS NOT NULL
		UNION ALL
		SELECT bank_account_id, paid_date, 0, amount
		FROM vendor_invoices
		WHERE deletion_mark = false AND status = 'paid' AND bank_account_id IS NOT NULL
		UNION ALL
		SELECT bank_account_id, paid_date, 0, amount
		FROM provider_bills
		WHERE deletion_mark = false AND status = 'paid' AND bank_account_id IS NOT NULL
	)
	SELECT a.id AS account_id, a.name, a.opening_balance,
		COALESCE(SUM(f.deposit) FILTER (WHERE f.day >= a.opening_date AND f.day < $1), 0) AS prior_deposits,
		COALESCE(SUM(f.payment) FILTER (WHERE f.day >= a.opening_date AND f.day < $1), 0) AS prior_payments,
		COALESCE(SUM(f.deposit) FILTER (WHERE f.day >= GREATEST($1::date, a.opening_date) AND f.day <= $2), 0) AS deposits,
		COALESCE(SUM(f.payment) FILTER (WHERE f.day >= GREATEST($1::date, a.opening_date) AND f.day <= $2), 0) AS payments
	FROM bank_accounts a
	LEFT JOIN flows f ON f.account_id = a.id
	WHERE a.deletion_mark = false AND a.is_active = true AND a.opening_date <= $2
	GROUP BY a.id, a.name, a.opening_balance
	ORDER BY a.name`

// AccountActivity returns the flows of every active account opened by rng.End.
func (r *ReportRepo) AccountActivity(ctx context.Context, rng types.DateRange, settlementAccount *id.ID) ([]reports.AccountActivity, error) {
	var settlement any
	if settlementAccount != nil {
		settlement = *settlementAccount
	}
	var rows []reports.AccountActivity
	if err := pgxscan.Select(ctx, r.db.GetQuerier(ctx), &rows, accountActivitySQL, rng.Start, rng.End, settlement); err != nil {
		return nil, fmt.Errorf("account activity: %w", err)
	}
	return rows, nil
}
