package trends

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationdesk/internal/core/types"
)

func dv(day, value string) DailyValue {
	return DailyValue{Date: types.MustDate(day), Value: decimal.RequireFromString(value)}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s got %s %v", want, got.String(), msgAndArgs)
}

func TestWindowRange(t *testing.T) {
	ref := types.MustDate("2026-10-22")

	tests := []struct {
		window Window
		start  string
		days   int
	}{
		{WindowLast15Days, "2026-10-08", 15},
		{WindowCurrentMonth, "2026-10-01", 22},
		{WindowLast4Weeks, "2026-09-28", 25},
	}
	for _, tt := range tests {
		t.Run(string(tt.window), func(t *testing.T) {
			rng, err := WindowRange(tt.window, ref)
			require.NoError(t, err)
			assert.Equal(t, tt.start, rng.Start.String())
			assert.Equal(t, "2026-10-22", rng.End.String())
			assert.Equal(t, tt.days, rng.Days())
		})
	}

	_, err := WindowRange("last_year", ref)
	assert.Error(t, err)
}

func TestBuildSeries_Last15DaysZeroFillsAndSumsDuplicates(t *testing.T) {
	ref := types.MustDate("2026-10-19")
	values := []DailyValue{
		dv("2026-10-04", "99"), // before window
		dv("2026-10-05", "10"),
		dv("2026-10-19", "5"),
		dv("2026-10-19", "3"),
		dv("2026-10-20", "77"), // after reference
	}

	s, err := BuildSeries(MetricInsideSales, WindowLast15Days, ref, values)
	require.NoError(t, err)

	require.Len(t, s.Points, 15)
	assert.Equal(t, "2026-10-05", s.Points[0].Label)
	assertDec(t, "10", s.Points[0].Value)
	assertDec(t, "0", s.Points[1].Value)
	assert.Equal(t, "2026-10-19", s.Points[14].Label)
	assertDec(t, "8", s.Points[14].Value)
	assertDec(t, "18", s.Total)
	assertDec(t, "1.2", s.Average)

	for i, p := range s.Points {
		assert.Equal(t, p.Start, p.End, "point %d", i)
		if i > 0 {
			assert.Equal(t, 1, s.Points[i-1].Start.DaysUntil(p.Start))
		}
	}
}

func TestBuildSeries_EmptyInputIsAllZeros(t *testing.T) {
	s, err := BuildSeries(MetricSafedrops, WindowLast15Days, types.MustDate("2026-10-19"), nil)
	require.NoError(t, err)
	require.Len(t, s.Points, 15)
	for _, p := range s.Points {
		assertDec(t, "0", p.Value)
	}
	assertDec(t, "0", s.Total)
	assertDec(t, "0", s.Average)
}

func TestBuildSeries_CurrentMonth(t *testing.T) {
	tests := []struct {
		ref    string
		points int
		first  string
	}{
		{"2026-10-01", 1, "2026-10-01"},
		{"2026-10-03", 3, "2026-10-01"},
		{"2024-02-29", 29, "2024-02-01"},
		{"2026-12-31", 31, "2026-12-01"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			s, err := BuildSeries(MetricTotalSales, WindowCurrentMonth, types.MustDate(tt.ref), []DailyValue{
				dv(tt.first, "1"),
				dv(types.MustDate(tt.first).AddDays(-1).String(), "50"), // previous month
			})
			require.NoError(t, err)
			require.Len(t, s.Points, tt.points)
			assert.Equal(t, tt.first, s.Points[0].Label)
			assert.Equal(t, tt.ref, s.Points[len(s.Points)-1].Label)
			assertDec(t, "1", s.Total)
		})
	}
}

func TestBuildSeries_Last4Weeks(t *testing.T) {
	ref := types.MustDate("2026-10-22") // Thursday
	values := []DailyValue{
		dv("2026-09-27", "100"), // Sunday before the first week
		dv("2026-09-28", "1"),
		dv("2026-10-04", "2"),
		dv("2026-10-05", "4"),
		dv("2026-10-18", "8"),
		dv("2026-10-22", "16"),
		dv("2026-10-23", "32"), // after reference
	}

	s, err := BuildSeries(MetricFuelGallons, WindowLast4Weeks, ref, values)
	require.NoError(t, err)
	require.Len(t, s.Points, 4)

	want := []struct {
		label, start, end, value string
	}{
		{"2026-W40", "2026-09-28", "2026-10-04", "3"},
		{"2026-W41", "2026-10-05", "2026-10-11", "4"},
		{"2026-W42", "2026-10-12", "2026-10-18", "8"},
		{"2026-W43", "2026-10-19", "2026-10-22", "16"},
	}
	for i, w := range want {
		assert.Equal(t, w.label, s.Points[i].Label)
		assert.Equal(t, w.start, s.Points[i].Start.String())
		assert.Equal(t, w.end, s.Points[i].End.String())
		assertDec(t, w.value, s.Points[i].Value, "week %d", i)
	}
	assertDec(t, "31", s.Total)
	assertDec(t, "7.75", s.Average)
}

func TestBuildSeries_Last4WeeksOnMonday(t *testing.T) {
	s, err := BuildSeries(MetricFuelSales, WindowLast4Weeks, types.MustDate("2026-10-19"), nil)
	require.NoError(t, err)
	last := s.Points[3]
	assert.Equal(t, "2026-10-19", last.Start.String())
	assert.Equal(t, "2026-10-19", last.End.String())
	assert.Equal(t, "2026-09-28", s.Points[0].Start.String())
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name      string
		cur, prev string
		percent   string // empty means undefined
		direction Direction
	}{
		{"growth", "150", "120", "25", DirectionUp},
		{"decline", "90", "120", "-25", DirectionDown},
		{"rounding", "1", "3", "-66.67", DirectionDown},
		{"unchanged", "100", "100", "0", DirectionFlat},
		{"both zero", "0", "0", "", DirectionFlat},
		{"from zero", "10", "0", "", DirectionUp},
		{"to zero", "0", "10", "-100", DirectionDown},
		{"negative base", "-5", "-10", "50", DirectionUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Compare(decimal.RequireFromString(tt.cur), decimal.RequireFromString(tt.prev))
			assert.Equal(t, tt.direction, c.Direction)
			if tt.percent == "" {
				assert.Nil(t, c.Percent)
				return
			}
			require.NotNil(t, c.Percent)
			assertDec(t, tt.percent, *c.Percent)
		})
	}
}

func TestCardSpans(t *testing.T) {
	tests := []struct {
		name                     string
		ref                      string
		weekStart, prevWeekStart string
		prevWeekEnd              string
		prevMonthStart           string
		prevMonthEnd             string
	}{
		{"mid month", "2026-03-15", "2026-03-09", "2026-03-02", "2026-03-08", "2026-02-01", "2026-02-15"},
		{"clamped to february", "2026-03-31", "2026-03-30", "2026-03-23", "2026-03-24", "2026-02-01", "2026-02-28"},
		{"leap february", "2024-03-30", "2024-03-25", "2024-03-18", "2024-03-23", "2024-02-01", "2024-02-29"},
		{"year boundary", "2026-01-10", "2026-01-05", "2025-12-29", "2026-01-03", "2025-12-01", "2025-12-10"},
		{"monday", "2026-10-19", "2026-10-19", "2026-10-12", "2026-10-12", "2026-09-01", "2026-09-19"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := types.MustDate(tt.ref)
			spans := CardSpans(ref)

			assert.Equal(t, tt.ref, spans[0][0].Start.String())
			assert.Equal(t, ref.AddDays(-1).String(), spans[0][1].End.String())

			assert.Equal(t, tt.weekStart, spans[1][0].Start.String())
			assert.Equal(t, tt.prevWeekStart, spans[1][1].Start.String())
			assert.Equal(t, tt.prevWeekEnd, spans[1][1].End.String())
			assert.Equal(t, spans[1][0].Days(), spans[1][1].Days())

			assert.Equal(t, tt.prevMonthStart, spans[2][1].Start.String())
			assert.Equal(t, tt.prevMonthEnd, spans[2][1].End.String())

			assert.Equal(t, tt.prevMonthStart, CardRange(ref).Start.String())
			assert.Equal(t, tt.ref, CardRange(ref).End.String())
		})
	}
}

func TestBuildCard(t *testing.T) {
	ref := types.MustDate("2026-03-31")

	var values []DailyValue
	for d := types.MustDate("2026-02-01"); !d.After(types.MustDate("2026-02-28")); d = d.AddDays(1) {
		values = append(values, DailyValue{Date: d, Value: decimal.NewFromInt(2)})
	}
	for d := types.MustDate("2026-03-01"); !d.After(ref); d = d.AddDays(1) {
		values = append(values, DailyValue{Date: d, Value: decimal.NewFromInt(1)})
	}
	values = append(values, dv("2026-03-31", "4"))
	values = append(values, dv("2026-01-31", "1000")) // outside every span

	card := BuildCard(MetricTotalSales, ref, values)

	assertDec(t, "5", card.DayOverDay.Current)
	assertDec(t, "1", card.DayOverDay.Previous)
	assertDec(t, "400", *card.DayOverDay.Percent)
	assert.Equal(t, DirectionUp, card.DayOverDay.Direction)

	assertDec(t, "6", card.WeekOverWeek.Current)
	assertDec(t, "2", card.WeekOverWeek.Previous)
	assertDec(t, "200", *card.WeekOverWeek.Percent)

	assertDec(t, "35", card.MonthOverMonth.Current)
	assertDec(t, "56", card.MonthOverMonth.Previous)
	assertDec(t, "-37.5", *card.MonthOverMonth.Percent)
	assert.Equal(t, DirectionDown, card.MonthOverMonth.Direction)
	assert.Equal(t, "2026-02-28", card.MonthOverMonth.PreviousRange.End.String())
}

func TestBuildCard_NoHistory(t *testing.T) {
	card := BuildCard(MetricATMDispensed, types.MustDate("2026-10-19"), []DailyValue{dv("2026-10-19", "640")})

	assert.Nil(t, card.DayOverDay.Percent)
	assert.Equal(t, DirectionUp, card.DayOverDay.Direction)
	assert.Nil(t, card.MonthOverMonth.Percent)
}

func TestParseWindowAndMetric(t *testing.T) {
	w, err := ParseWindow("current_month")
	require.NoError(t, err)
	assert.Equal(t, WindowCurrentMonth, w)
	_, err = ParseWindow("yesterday")
	assert.Error(t, err)

	m, err := ParseMetric("fuel_gallons")
	require.NoError(t, err)
	assert.True(t, m.GradeAware())
	assert.Equal(t, types.GallonsPlaces, m.Places())
	_, err = ParseMetric("profit")
	assert.Error(t, err)
	assert.False(t, MetricSafedrops.GradeAware())
}
