package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stationdesk/internal/core/tx"
	"stationdesk/pkg/logger"
)

var tracer = otel.Tracer("stationdesk/postgres")

var _ tx.Manager = (*TxManager)(nil)

// DefaultStatementTimeout caps every statement run inside a record write.
const DefaultStatementTimeout = 30 * time.Second

// TxManager runs record writes in a READ COMMITTED transaction carried in
// the context. A nested RunInTransaction joins the outer one, so a hook,
// its outbox event and its voucher number commit or roll back together.
type TxManager struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTxManager creates a transaction manager over pool.
func NewTxManager(pool *Pool) *TxManager {
	return &TxManager{pool: pool.Pool, timeout: DefaultStatementTimeout}
}

type txKey struct{}

// RunInTransaction implements tx.Manager.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.GetTx(ctx) != nil {
		return fn(ctx)
	}

	ctx, span := tracer.Start(ctx, "db.transaction",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.system", "postgresql")))
	defer span.End()

	err := m.run(ctx, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transaction failed")
	}
	return err
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	pgTx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	rollback := func(cause error) error {
		// the request context may already be cancelled
		if rbErr := pgTx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.Error(ctx, "rollback failed", "error", rbErr, "cause", cause)
		}
		return cause
	}

	if m.timeout > 0 {
		if _, err := pgTx.Exec(ctx, statementTimeoutSQL(m.timeout)); err != nil {
			return rollback(fmt.Errorf("set statement_timeout: %w", err))
		}
	}

	if err := fn(context.WithValue(ctx, txKey{}, pgTx)); err != nil {
		return rollback(err)
	}
	if err := pgTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func statementTimeoutSQL(d time.Duration) string {
	return fmt.Sprintf("SET LOCAL statement_timeout = %d", d.Milliseconds())
}

// GetTx returns the transaction carried by ctx, or nil.
func (m *TxManager) GetTx(ctx context.Context) pgx.Tx {
	pgTx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return pgTx
}

// Querier is satisfied by both pgx.Tx and *pgxpool.Pool so repositories
// work inside and outside transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierProvider resolves the querier for ctx. Repositories depend on it
// rather than on *TxManager.
type QuerierProvider interface {
	GetQuerier(ctx context.Context) Querier
}

var _ QuerierProvider = (*TxManager)(nil)

// GetQuerier returns the transaction in ctx, else the pool.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if pgTx := m.GetTx(ctx); pgTx != nil {
		return pgTx
	}
	return m.pool
}
