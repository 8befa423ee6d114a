package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/trends"
	"stationdesk/internal/infrastructure/storage/postgres"
)

// metricSource maps a metric onto the table and expression summed per business day.
type metricSource struct {
	table string
	expr  string
}

var metricSources = map[trends.Metric]metricSource{
	trends.MetricFuelGallons:  {"daily_fuel", "gallons"},
	trends.MetricFuelSales:    {"daily_sales", "fuel_sales"},
	trends.MetricInsideSales:  {"daily_sales", "inside_sales"},
	trends.MetricTotalSales:   {"daily_sales", "fuel_sales + inside_sales + lottery_sales"},
	trends.MetricLotterySales: {"daily_sales", "lottery_sales"},
	trends.MetricATMDispensed: {"atm_records", "cash_dispensed"},
	trends.MetricSafedrops:    {"safedrops", "amount"},
}

// gradeSources replace the source when a fuel grade is requested.
var gradeSources = map[trends.Metric]metricSource{
	trends.MetricFuelGallons: {"daily_fuel", "gallons"},
	trends.MetricFuelSales:   {"daily_fuel", "amount"},
}

// TrendRepo implements trends.Repository.
type TrendRepo struct {
	db      postgres.QuerierProvider
	builder squirrel.StatementBuilderType
}

// NewTrendRepo creates a new trend repository.
func NewTrendRepo(db postgres.QuerierProvider) *TrendRepo {
	return &TrendRepo{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ trends.Repository = (*TrendRepo)(nil)

func (r *TrendRepo) dailyTotalsQuery(metric trends.Metric, grade string, rng types.DateRange) (string, []any, error) {
	src, ok := metricSources[metric]
	if grade != "" {
		src, ok = gradeSources[metric]
	}
	if !ok {
		return "", nil, fmt.Errorf("no source for metric %q", metric)
	}

	q := r.builder.
		Select("business_date", fmt.Sprintf("SUM(%s) AS value", src.expr)).
		From(src.table).
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.GtOrEq{"business_date": rng.Start}).
		Where(squirrel.LtOrEq{"business_date": rng.End})
	if grade != "" {
		q = q.Where(squirrel.Eq{"grade": grade})
	}
	return q.GroupBy("business_date").OrderBy("business_date").ToSql()
}

// DailyTotals sums metric per business day inside rng. Days without rows are omitted.
func (r *TrendRepo) DailyTotals(ctx context.Context, metric trends.Metric, grade string, rng types.DateRange) ([]trends.DailyValue, error) {
	sql, args, err := r.dailyTotalsQuery(metric, grade, rng)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var values []trends.DailyValue
	if err := pgxscan.Select(ctx, r.db.GetQuerier(ctx), &values, sql, args...); err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	return values, nil
}
