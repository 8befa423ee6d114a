package trends

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/types"
)

// Repository reads per-day totals. Days without data may be omitted.
type Repository interface {
	DailyTotals(ctx context.Context, metric Metric, grade string, rng types.DateRange) ([]DailyValue, error)
}

// Service answers chart and card requests.
type Service struct {
	repo   Repository
	grades []string
	loc    *time.Location
}

// NewService creates the trend service. grades is the set of valid fuel grades;
// loc decides what "today" is when no reference date is given.
func NewService(repo Repository, grades []string, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, grades: grades, loc: loc}
}

// Query selects a metric, an optional fuel grade and the reference day.
type Query struct {
	Metric    Metric
	Grade     string
	Reference *types.Date
}

func (s *Service) resolve(q Query) (types.Date, error) {
	if q.Grade != "" {
		if !q.Metric.GradeAware() {
			return types.Date{}, apperror.NewFieldValidation("grade",
				fmt.Sprintf("metric %s cannot be filtered by grade", q.Metric))
		}
		if !slices.Contains(s.grades, q.Grade) {
			return types.Date{}, apperror.NewFieldValidation("grade", fmt.Sprintf("unknown grade %q", q.Grade)).
				WithDetail("allowed", s.grades)
		}
	}
	today := types.Today(s.loc)
	if q.Reference == nil {
		return today, nil
	}
	if q.Reference.After(today) {
		return types.Date{}, apperror.NewFieldValidation("date", "reference date must not be in the future")
	}
	return *q.Reference, nil
}

// Series returns the zero-filled series for a window.
func (s *Service) Series(ctx context.Context, q Query, w Window) (Series, error) {
	ref, err := s.resolve(q)
	if err != nil {
		return Series{}, err
	}
	rng, err := WindowRange(w, ref)
	if err != nil {
		return Series{}, apperror.NewFieldValidation("window", err.Error())
	}

	values, err := s.repo.DailyTotals(ctx, q.Metric, q.Grade, rng)
	if err != nil {
		return Series{}, fmt.Errorf("daily totals for %s: %w", q.Metric, err)
	}

	series, err := BuildSeries(q.Metric, w, ref, values)
	if err != nil {
		return Series{}, err
	}
	series.Grade = q.Grade
	return series, nil
}

// Card returns day/week/month-over-period changes ending on the reference day.
func (s *Service) Card(ctx context.Context, q Query) (Card, error) {
	ref, err := s.resolve(q)
	if err != nil {
		return Card{}, err
	}

	values, err := s.repo.DailyTotals(ctx, q.Metric, q.Grade, CardRange(ref))
	if err != nil {
		return Card{}, fmt.Errorf("daily totals for %s: %w", q.Metric, err)
	}

	card := BuildCard(q.Metric, ref, values)
	card.Grade = q.Grade
	return card, nil
}

// Overview builds a card for every metric concurrently.
func (s *Service) Overview(ctx context.Context, ref *types.Date) ([]Card, error) {
	cards := make([]Card, len(Metrics))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, m := range Metrics {
		g.Go(func() error {
			card, err := s.Card(gctx, Query{Metric: m, Reference: ref})
			if err != nil {
				return err
			}
			cards[i] = card
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cards, nil
}
