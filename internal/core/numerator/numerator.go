// Package numerator is the voucher numbering contract. A voucher reads
// PREFIX-YEAR-NNNNN; the counter restarts each calendar year.
package numerator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// DefaultWidth is the zero-padded width of the counter.
const DefaultWidth = 5

// Series is one numbered document kind, e.g. vendor invoices ("VI").
type Series struct {
	Prefix string
	Width  int
}

// NewSeries returns a series with the default counter width.
func NewSeries(prefix string) Series {
	return Series{Prefix: prefix, Width: DefaultWidth}
}

// Key names the stored counter for year.
func (s Series) Key(year int) string {
	return fmt.Sprintf("%s_%04d", s.Prefix, year)
}

// Format renders counter n of year.
func (s Series) Format(year int, n int64) string {
	w := s.Width
	if w <= 0 {
		w = DefaultWidth
	}
	return fmt.Sprintf("%s-%04d-%0*d", s.Prefix, year, w, n)
}

// Parse splits a voucher of this series into its year and counter.
func (s Series) Parse(voucher string) (year int, n int64, err error) {
	parts := strings.Split(voucher, "-")
	if len(parts) != 3 || parts[0] != s.Prefix {
		return 0, 0, fmt.Errorf("voucher %q is not in series %s", voucher, s.Prefix)
	}
	if year, err = strconv.Atoi(parts[1]); err != nil || year < 1 {
		return 0, 0, fmt.Errorf("voucher %q: bad year", voucher)
	}
	if n, err = strconv.ParseInt(parts[2], 10, 64); err != nil || n < 1 {
		return 0, 0, fmt.Errorf("voucher %q: bad counter", voucher)
	}
	return year, n, nil
}

// Generator issues voucher numbers.
type Generator interface {
	// Next issues the next voucher of s for year.
	Next(ctx context.Context, s Series, year int) (string, error)
	// SetLast makes last the most recently issued counter of s for year,
	// used after importing vouchers issued elsewhere.
	SetLast(ctx context.Context, s Series, year int, last int64) error
}

// Memory is an in-process Generator.
type Memory struct {
	mu   sync.Mutex
	last map[string]int64
}

// NewMemory returns an empty in-process generator.
func NewMemory() *Memory {
	return &Memory{last: make(map[string]int64)}
}

// Next implements Generator.
func (m *Memory) Next(ctx context.Context, s Series, year int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[s.Key(year)]++
	return s.Format(year, m.last[s.Key(year)]), nil
}

// SetLast implements Generator.
func (m *Memory) SetLast(ctx context.Context, s Series, year int, last int64) error {
	if last < 0 {
		return fmt.Errorf("last counter must not be negative, got %d", last)
	}
	m.mu.Lock()
	m.last[s.Key(year)] = last
	m.mu.Unlock()
	return nil
}

var _ Generator = (*Memory)(nil)
