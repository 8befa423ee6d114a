// Package record_repo provides PostgreSQL implementations for the record repositories.
package record_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/entity"
	"stationdesk/internal/core/id"
	"stationdesk/internal/domain"
	"stationdesk/internal/domain/filter"
	"stationdesk/internal/infrastructure/storage/postgres"
)

// Options tune the list behaviour of a table.
type Options struct {
	// DateColumn is filtered by start_date/end_date and is the default sort.
	DateColumn string
	// SearchColumns are matched with ILIKE by ?search=.
	SearchColumns []string
	// DefaultSort is used when sort_by is empty (defaults to DateColumn, then created_at).
	DefaultSort string
}

// Columns never written by Update. Voucher numbers are issued once, on create.
var immutableColumns = []string{"id", "version", "created_at", "created_by", "deletion_mark", "voucher_no"}

// BaseRecordRepo provides common CRUD operations for record tables.
// Embed this in specific record repositories.
type BaseRecordRepo[T entity.Record] struct {
	db         postgres.QuerierProvider
	tableName  string
	selectCols []string
	newFn      func() T
	opts       Options
	columnSet  map[string]struct{}
}

// NewBaseRecordRepo creates a new base record repository.
func NewBaseRecordRepo[T entity.Record](
	db postgres.QuerierProvider,
	tableName string,
	selectCols []string,
	newFn func() T,
	opts Options,
) *BaseRecordRepo[T] {
	set := make(map[string]struct{}, len(selectCols))
	for _, c := range selectCols {
		set[c] = struct{}{}
	}
	if opts.DefaultSort == "" {
		opts.DefaultSort = opts.DateColumn
	}
	if opts.DefaultSort == "" {
		opts.DefaultSort = "created_at"
	}
	return &BaseRecordRepo[T]{
		db:         db,
		tableName:  tableName,
		selectCols: selectCols,
		newFn:      newFn,
		opts:       opts,
		columnSet:  set,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseRecordRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Querier returns the querier for ctx.
func (r *BaseRecordRepo[T]) Querier(ctx context.Context) postgres.Querier {
	return r.db.GetQuerier(ctx)
}

// TableName returns the table the repository reads.
func (r *BaseRecordRepo[T]) TableName() string {
	return r.tableName
}

// HasColumn reports whether col is a column of the table.
func (r *BaseRecordRepo[T]) HasColumn(col string) bool {
	_, ok := r.columnSet[col]
	return ok
}

// insertQuery builds the INSERT for rec.
func (r *BaseRecordRepo[T]) insertQuery(rec T) (string, []any, error) {
	data := postgres.StructToMap(rec)
	if len(data) == 0 {
		return "", nil, fmt.Errorf("no db tags found in %s record", r.tableName)
	}
	return r.Builder().
		Insert(r.tableName).
		SetMap(postgres.FilterColumns(data, r.selectCols...)).
		ToSql()
}

// Create inserts a new record using its "db" tags.
func (r *BaseRecordRepo[T]) Create(ctx context.Context, rec T) error {
	sql, args, err := r.insertQuery(rec)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return r.mapWriteErr(err, "insert")
	}
	return nil
}

// updateQuery builds the optimistic-lock UPDATE for rec.
func (r *BaseRecordRepo[T]) updateQuery(rec T) (string, []any, error) {
	data := postgres.FilterColumns(postgres.StructToMap(rec), r.selectCols...)
	postgres.OmitColumns(data, immutableColumns...)

	return r.Builder().
		Update(r.tableName).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": rec.GetID()}).
		Where(squirrel.Eq{"version": rec.GetVersion()}). // optimistic lock: expect current version
		ToSql()
}

// Update modifies an existing record with optimistic locking.
func (r *BaseRecordRepo[T]) Update(ctx context.Context, rec T) error {
	sql, args, err := r.updateQuery(rec)
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.mapWriteErr(err, "update")
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.tableName, rec.GetID().String())
	}
	return nil
}

// baseSelect creates a SELECT builder.
func (r *BaseRecordRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// BaseSelect exposes the SELECT builder to embedding repositories.
func (r *BaseRecordRepo[T]) BaseSelect() squirrel.SelectBuilder {
	return r.baseSelect()
}

// GetByID retrieves record by ID.
func (r *BaseRecordRepo[T]) GetByID(ctx context.Context, recID id.ID) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": recID}).
		Limit(1)
	rec, err := r.FindOne(ctx, q)
	if apperror.IsNotFound(err) {
		return rec, apperror.NewNotFound(r.tableName, recID.String())
	}
	return rec, err
}

// FindOne executes a SELECT query and returns a single record.
func (r *BaseRecordRepo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder) (T, error) {
	rec := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return rec, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.Querier(ctx), rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return rec, apperror.NewNotFound(r.tableName, "matching query")
		}
		return rec, fmt.Errorf("find one in %s: %w", r.tableName, err)
	}
	return rec, nil
}

// Exists runs q wrapped in SELECT EXISTS.
func (r *BaseRecordRepo[T]) Exists(ctx context.Context, q squirrel.SelectBuilder) (bool, error) {
	sql, args, err := q.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}
	var exists bool
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists in %s: %w", r.tableName, err)
	}
	return exists, nil
}

// SetDeletionMark sets or clears the deletion mark (soft delete).
func (r *BaseRecordRepo[T]) SetDeletionMark(ctx context.Context, recID id.ID, marked bool) error {
	q := r.Builder().
		Update(r.tableName).
		Set("deletion_mark", marked).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": recID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set deletion mark: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("execute set deletion mark: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, recID.String())
	}
	return nil
}

// listQuery applies the list contract (except paging) to the base select.
func (r *BaseRecordRepo[T]) listQuery(f domain.ListFilter) (squirrel.SelectBuilder, error) {
	q := r.baseSelect()

	if !f.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if r.opts.DateColumn != "" {
		if f.StartDate != nil {
			q = q.Where(squirrel.GtOrEq{r.opts.DateColumn: *f.StartDate})
		}
		if f.EndDate != nil {
			q = q.Where(squirrel.LtOrEq{r.opts.DateColumn: *f.EndDate})
		}
	}
	if s := strings.TrimSpace(f.Search); s != "" && len(r.opts.SearchColumns) > 0 {
		pattern := "%" + s + "%"
		or := make(squirrel.Or, 0, len(r.opts.SearchColumns))
		for _, col := range r.opts.SearchColumns {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}

	return r.applyConditions(q, f.Conditions)
}

// List retrieves records with filtering, sorting and pagination.
func (r *BaseRecordRepo[T]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{Page: f.Page, PerPage: f.PerPage, Items: []T{}}

	q, err := r.listQuery(f)
	if err != nil {
		return result, err
	}
	orderBy, err := r.orderBy(f.SortBy, f.SortDirection)
	if err != nil {
		return result, err
	}

	// Count total (before pagination)
	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.Querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.Total); err != nil {
		return result, fmt.Errorf("count %s: %w", r.tableName, err)
	}
	if result.Total == 0 {
		return result, nil
	}

	q = q.OrderBy(orderBy...)
	if f.PerPage > 0 {
		q = q.Limit(uint64(f.PerPage)).Offset(uint64(f.Offset()))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return result, nil
}

// applyConditions applies field conditions; columns are whitelisted against the table.
func (r *BaseRecordRepo[T]) applyConditions(q squirrel.SelectBuilder, items []filter.Item) (squirrel.SelectBuilder, error) {
	for _, item := range items {
		if !r.HasColumn(item.Field) {
			return q, apperror.NewFieldValidation(item.Field, fmt.Sprintf("cannot filter by %s", item.Field))
		}

		switch item.Operator {
		case filter.Equal:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.NotEqual:
			q = q.Where(squirrel.NotEq{item.Field: item.Value})
		case filter.LessOrEqual:
			q = q.Where(squirrel.LtOrEq{item.Field: item.Value})
		case filter.GreaterOrEqual:
			q = q.Where(squirrel.GtOrEq{item.Field: item.Value})
		case filter.Less:
			q = q.Where(squirrel.Lt{item.Field: item.Value})
		case filter.Greater:
			q = q.Where(squirrel.Gt{item.Field: item.Value})
		case filter.InList:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.NotInList:
			q = q.Where(squirrel.NotEq{item.Field: item.Value})
		case filter.IsNull:
			q = q.Where(squirrel.Eq{item.Field: nil})
		case filter.IsNotNull:
			q = q.Where(squirrel.NotEq{item.Field: nil})
		case filter.Contains:
			q = q.Where(squirrel.ILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)})
		default:
			return q, apperror.NewFieldValidation(item.Field, fmt.Sprintf("unsupported operator %q", item.Operator))
		}
	}
	return q, nil
}

// orderBy validates sort_by against the table and adds id as a tie breaker
// so pages are stable.
func (r *BaseRecordRepo[T]) orderBy(sortBy string, dir domain.SortDirection) ([]string, error) {
	field := strings.TrimSpace(sortBy)
	if field == "" {
		field = r.opts.DefaultSort
	}
	if !r.HasColumn(field) {
		return nil, apperror.NewFieldValidation("sort_by", fmt.Sprintf("cannot sort by %s", field)).
			WithDetail("sort_by", sortBy)
	}

	direction := "DESC"
	if dir == domain.SortAsc {
		direction = "ASC"
	}
	if field == "id" {
		return []string{"id " + direction}, nil
	}
	return []string{field + " " + direction, "id " + direction}, nil
}

// mapWriteErr turns constraint violations into AppErrors.
func (r *BaseRecordRepo[T]) mapWriteErr(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperror.NewDuplicate(r.tableName, constraintField(pgErr.ConstraintName), pgErr.Detail).WithCause(err)
		case "23503":
			return apperror.NewConflict("referenced record does not exist or is in use").
				WithDetail("entity", r.tableName).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case "23514":
			return apperror.NewValidation("value violates a table check").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound(r.tableName, "")
	}
	return fmt.Errorf("%s %s: %w", op, r.tableName, err)
}

// constraintField extracts the column part of "<table>_<column>_key" style names.
func constraintField(constraint string) string {
	name := strings.TrimSuffix(strings.TrimSuffix(constraint, "_key"), "_uniq")
	if i := strings.LastIndex(name, "__"); i >= 0 {
		return name[i+2:]
	}
	return name
}
