// Package numerator issues voucher numbers from the sys_sequences table.
package numerator

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	core "stationdesk/internal/core/numerator"
)

// Querier is the part of pgx the numerator needs; pgx.Tx, *pgx.Conn and
// *pgxpool.Pool satisfy it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierFunc resolves the querier for ctx (a transaction if one is active).
type QuerierFunc func(ctx context.Context) Querier

const (
	bumpSQL = `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val`

	setSQL = `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val`
)

var _ core.Generator = (*Service)(nil)

// Service issues vouchers without gaps: the counter row is locked by the
// upsert until the record transaction ends, and rolls back with it.
type Service struct {
	querier QuerierFunc
}

// New creates a numerator backed by a fixed querier.
func New(q Querier) *Service {
	return NewWithQuerierFunc(func(context.Context) Querier { return q })
}

// NewWithQuerierFunc creates a numerator that resolves its querier per call.
func NewWithQuerierFunc(fn QuerierFunc) *Service {
	return &Service{querier: fn}
}

// Next implements core.Generator.
func (s *Service) Next(ctx context.Context, series core.Series, year int) (string, error) {
	key := series.Key(year)
	var n int64
	if err := s.querier(ctx).QueryRow(ctx, bumpSQL, key).Scan(&n); err != nil {
		return "", fmt.Errorf("next %s: %w", key, err)
	}
	return series.Format(year, n), nil
}

// SetLast implements core.Generator.
func (s *Service) SetLast(ctx context.Context, series core.Series, year int, last int64) error {
	if last < 0 {
		return fmt.Errorf("last counter must not be negative, got %d", last)
	}
	key := series.Key(year)
	var stored int64
	if err := s.querier(ctx).QueryRow(ctx, setSQL, key, last).Scan(&stored); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
