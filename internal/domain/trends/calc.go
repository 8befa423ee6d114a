package trends

import (
	"fmt"

	"github.com/shopspring/decimal"

	"stationdesk/internal/core/types"
)

// WindowRange returns the inclusive span of days a window covers.
func WindowRange(w Window, ref types.Date) (types.DateRange, error) {
	switch w {
	case WindowLast15Days:
		return types.DateRange{Start: ref.AddDays(-14), End: ref}, nil
	case WindowCurrentMonth:
		return types.DateRange{Start: ref.StartOfMonth(), End: ref}, nil
	case WindowLast4Weeks:
		return types.DateRange{Start: ref.StartOfISOWeek().AddDays(-21), End: ref}, nil
	default:
		return types.DateRange{}, fmt.Errorf("unknown window %q", w)
	}
}

// dailySums indexes values by day inside rng. Duplicate days are summed and
// days outside rng are dropped.
type dailySums map[string]decimal.Decimal

func sumByDay(values []DailyValue, rng types.DateRange) dailySums {
	sums := make(dailySums, rng.Days())
	for _, v := range values {
		if !rng.Contains(v.Date) {
			continue
		}
		key := v.Date.String()
		sums[key] = sums[key].Add(v.Value)
	}
	return sums
}

// over returns the total of the days in rng; missing days count as zero.
func (s dailySums) over(rng types.DateRange) decimal.Decimal {
	total := decimal.Zero
	for d := rng.Start; !d.After(rng.End); d = d.AddDays(1) {
		total = total.Add(s[d.String()])
	}
	return total
}

// BuildSeries aggregates daily values into the window's fixed set of points.
func BuildSeries(metric Metric, w Window, ref types.Date, values []DailyValue) (Series, error) {
	rng, err := WindowRange(w, ref)
	if err != nil {
		return Series{}, err
	}
	sums := sumByDay(values, rng)

	var points []Point
	switch w {
	case WindowLast4Weeks:
		points = make([]Point, 0, 4)
		for i := 0; i < 4; i++ {
			start := rng.Start.AddDays(7 * i)
			end := start.AddDays(6)
			if end.After(ref) {
				end = ref
			}
			points = append(points, Point{
				Label: start.ISOWeekLabel(),
				Start: start,
				End:   end,
				Value: sums.over(types.DateRange{Start: start, End: end}),
			})
		}
	default:
		points = make([]Point, 0, rng.Days())
		for d := rng.Start; !d.After(rng.End); d = d.AddDays(1) {
			points = append(points, Point{Label: d.String(), Start: d, End: d, Value: sums[d.String()]})
		}
	}

	total := decimal.Zero
	for _, p := range points {
		total = total.Add(p.Value)
	}
	avg := decimal.Zero
	if len(points) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(points)))).Round(metric.Places())
	}

	return Series{
		Metric:    metric,
		Window:    w,
		Reference: ref,
		Points:    points,
		Total:     total,
		Average:   avg,
	}, nil
}

// Compare builds a Change from two totals.
func Compare(current, previous decimal.Decimal) Change {
	c := Change{Current: current, Previous: previous}
	if pct, ok := types.PercentChange(current, previous); ok {
		c.Percent = &pct
	}
	switch current.Cmp(previous) {
	case 1:
		c.Direction = DirectionUp
	case -1:
		c.Direction = DirectionDown
	default:
		c.Direction = DirectionFlat
	}
	return c
}

// CardSpans returns the current and previous spans for day-over-day,
// week-over-week and month-over-month, in that order.
//
// Week over week compares Monday..ref with the same weekdays a week earlier.
// Month over month compares the 1st..ref with the same number of days from
// the 1st of the previous month, clamped to that month's last day.
func CardSpans(ref types.Date) [3][2]types.DateRange {
	day := types.DateRange{Start: ref, End: ref}
	prevDay := types.DateRange{Start: ref.AddDays(-1), End: ref.AddDays(-1)}

	weekStart := ref.StartOfISOWeek()
	week := types.DateRange{Start: weekStart, End: ref}
	prevWeek := types.DateRange{Start: weekStart.AddDays(-7), End: ref.AddDays(-7)}

	monthStart := ref.StartOfMonth()
	month := types.DateRange{Start: monthStart, End: ref}
	prevMonthStart := monthStart.AddDays(-1).StartOfMonth()
	prevMonthEnd := prevMonthStart.AddDays(ref.Day() - 1)
	if last := prevMonthStart.EndOfMonth(); prevMonthEnd.After(last) {
		prevMonthEnd = last
	}
	prevMonth := types.DateRange{Start: prevMonthStart, End: prevMonthEnd}

	return [3][2]types.DateRange{
		{day, prevDay},
		{week, prevWeek},
		{month, prevMonth},
	}
}

// CardRange is the smallest span holding every day BuildCard reads.
func CardRange(ref types.Date) types.DateRange {
	rng := types.DateRange{Start: ref, End: ref}
	for _, pair := range CardSpans(ref) {
		for _, r := range pair {
			if r.Start.Before(rng.Start) {
				rng.Start = r.Start
			}
		}
	}
	return rng
}

// BuildCard computes the three change metrics ending on ref.
func BuildCard(metric Metric, ref types.Date, values []DailyValue) Card {
	sums := sumByDay(values, CardRange(ref))
	spans := CardSpans(ref)

	change := func(i int) Change {
		c := Compare(sums.over(spans[i][0]), sums.over(spans[i][1]))
		c.CurrentRange, c.PreviousRange = spans[i][0], spans[i][1]
		return c
	}

	return Card{
		Metric:         metric,
		Reference:      ref,
		DayOverDay:     change(0),
		WeekOverWeek:   change(1),
		MonthOverMonth: change(2),
	}
}
