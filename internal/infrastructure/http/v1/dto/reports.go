package dto

import (
	"stationdesk/internal/core/types"
)

// ReportQuery selects the report range and output format.
type ReportQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Format    string `form:"format"`
}

// Report formats.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Range parses both ends. Missing ends are left zero for the service to reject.
func (q ReportQuery) Range() (types.DateRange, error) {
	var rng types.DateRange
	if q.StartDate != "" {
		d, err := ParseDate("start_date", q.StartDate)
		if err != nil {
			return rng, err
		}
		rng.Start = d
	}
	if q.EndDate != "" {
		d, err := ParseDate("end_date", q.EndDate)
		if err != nil {
			return rng, err
		}
		rng.End = d
	}
	return rng, nil
}

// TrendQuery is the query of the trend endpoints.
type TrendQuery struct {
	Metric string `form:"metric"`
	Window string `form:"window"`
	Grade  string `form:"grade"`
	Date   string `form:"date"`
}
