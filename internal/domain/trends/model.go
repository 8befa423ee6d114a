// Package trends turns daily totals into fixed-length chart series and
// period-over-period change metrics for the dashboard widgets.
package trends

import (
	"fmt"

	"github.com/shopspring/decimal"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/types"
)

// Window selects the shape of a series.
type Window string

const (
	// WindowLast15Days is 15 daily points ending on the reference day.
	WindowLast15Days Window = "last_15_days"
	// WindowCurrentMonth is one point per day from the 1st through the reference day.
	WindowCurrentMonth Window = "current_month"
	// WindowLast4Weeks is 4 ISO weeks (Monday start), the last containing the reference day.
	WindowLast4Weeks Window = "last_4_weeks"
)

// Windows lists every supported window.
var Windows = []Window{WindowLast15Days, WindowCurrentMonth, WindowLast4Weeks}

// ParseWindow validates a window name.
func ParseWindow(s string) (Window, error) {
	for _, w := range Windows {
		if string(w) == s {
			return w, nil
		}
	}
	return "", apperror.NewFieldValidation("window", fmt.Sprintf("unknown window %q", s)).
		WithDetail("allowed", Windows)
}

// Metric is a daily quantity that can be charted.
type Metric string

const (
	MetricFuelGallons  Metric = "fuel_gallons"
	MetricFuelSales    Metric = "fuel_sales"
	MetricInsideSales  Metric = "inside_sales"
	MetricTotalSales   Metric = "total_sales"
	MetricLotterySales Metric = "lottery_sales"
	MetricATMDispensed Metric = "atm_dispensed"
	MetricSafedrops    Metric = "safedrops"
)

// Metrics lists every supported metric.
var Metrics = []Metric{
	MetricFuelGallons, MetricFuelSales, MetricInsideSales, MetricTotalSales,
	MetricLotterySales, MetricATMDispensed, MetricSafedrops,
}

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", apperror.NewFieldValidation("metric", fmt.Sprintf("unknown metric %q", s)).
		WithDetail("allowed", Metrics)
}

// GradeAware reports whether the metric can be narrowed to one fuel grade.
func (m Metric) GradeAware() bool {
	return m == MetricFuelGallons || m == MetricFuelSales
}

// Places is the rounding precision for averages of the metric.
func (m Metric) Places() int32 {
	if m == MetricFuelGallons {
		return types.GallonsPlaces
	}
	return types.MoneyPlaces
}

// DailyValue is one day's total for a metric.
type DailyValue struct {
	Date  types.Date      `db:"business_date" json:"date"`
	Value decimal.Decimal `db:"value" json:"value"`
}

// Point is one bar/dot of a series. Start and End are inclusive.
type Point struct {
	Label string          `json:"label"`
	Start types.Date      `json:"start_date"`
	End   types.Date      `json:"end_date"`
	Value decimal.Decimal `json:"value"`
}

// Series is a zero-filled, fixed-length series.
type Series struct {
	Metric    Metric          `json:"metric"`
	Grade     string          `json:"grade,omitempty"`
	Window    Window          `json:"window"`
	Reference types.Date      `json:"reference_date"`
	Points    []Point         `json:"points"`
	Total     decimal.Decimal `json:"total"`
	Average   decimal.Decimal `json:"average"`
}

// Direction of a change.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Change compares two equally long spans. Percent is nil when Previous is zero.
type Change struct {
	Current       decimal.Decimal  `json:"current"`
	Previous      decimal.Decimal  `json:"previous"`
	Percent       *decimal.Decimal `json:"percent"`
	Direction     Direction        `json:"direction"`
	CurrentRange  types.DateRange  `json:"current_range"`
	PreviousRange types.DateRange  `json:"previous_range"`
}

// Card is the three-point summary shown on a dashboard widget.
type Card struct {
	Metric         Metric     `json:"metric"`
	Grade          string     `json:"grade,omitempty"`
	Reference      types.Date `json:"reference_date"`
	DayOverDay     Change     `json:"day_over_day"`
	WeekOverWeek   Change     `json:"week_over_week"`
	MonthOverMonth Change     `json:"month_over_month"`
}
