// Package postgres provides PostgreSQL infrastructure components.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// poolSettings are the knobs stationdesk sets on top of the DSN.
type poolSettings struct {
	appName  string
	maxConns int32
	minConns int32
}

// PoolOption adjusts a pool before it connects.
type PoolOption func(*poolSettings)

// WithMaxConns caps the pool. Values below 1 keep the default.
func WithMaxConns(n int) PoolOption {
	return func(s *poolSettings) {
		if n > 0 {
			s.maxConns = int32(n)
			s.minConns = min(s.minConns, s.maxConns)
		}
	}
}

// WithApplicationName tags connections in pg_stat_activity.
func WithApplicationName(name string) PoolOption {
	return func(s *poolSettings) {
		if name != "" {
			s.appName = name
		}
	}
}

// Pool is the process-wide connection pool.
type Pool struct {
	*pgxpool.Pool
}

// Close closes all connections in the pool.
func (p *Pool) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

// poolConfig parses dsn and applies the station defaults and opts.
func poolConfig(dsn string, opts ...PoolOption) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	s := poolSettings{appName: "stationdesk", maxConns: 10, minConns: 2}
	for _, opt := range opts {
		opt(&s)
	}

	cfg.MaxConns = s.maxConns
	cfg.MinConns = s.minConns
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute
	cfg.HealthCheckPeriod = time.Minute
	cfg.ConnConfig.RuntimeParams["application_name"] = s.appName
	// business dates are calendar days; keep the session in UTC
	cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
	return cfg, nil
}

// NewPool connects to dsn and pings the server.
func NewPool(ctx context.Context, dsn string, opts ...PoolOption) (*Pool, error) {
	cfg, err := poolConfig(dsn, opts...)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Pool{Pool: pool}, nil
}

// PoolStats is the pool section of /health/info.
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	IdleConns     int32 `json:"idle_conns"`
	MaxConns      int32 `json:"max_conns"`
	AcquireCount  int64 `json:"acquire_count"`
	// EmptyAcquires counts waits for a free connection.
	EmptyAcquires int64 `json:"empty_acquire_count"`
}

// Stats snapshots the pool counters.
func (p *Pool) Stats() PoolStats {
	st := p.Pool.Stat()
	return PoolStats{
		TotalConns:    st.TotalConns(),
		AcquiredConns: st.AcquiredConns(),
		IdleConns:     st.IdleConns(),
		MaxConns:      st.MaxConns(),
		AcquireCount:  st.AcquireCount(),
		EmptyAcquires: st.EmptyAcquireCount(),
	}
}
