// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
	"strings"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/entity"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/filter"
)

// --- Filter & Pagination ---

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ListFilter carries the list contract: page/per_page, sort_by/sort_direction,
// start_date/end_date (inclusive), plus free-text search and field conditions.
type ListFilter struct {
	Page          int
	PerPage       int
	SortBy        string
	SortDirection SortDirection

	StartDate *types.Date
	EndDate   *types.Date

	// Search performs ILIKE search on the repository's searchable columns
	Search string

	// Conditions are whitelisted per resource by the handler
	Conditions []filter.Item

	IncludeDeleted bool
}

// Normalize applies defaults and validates the ranges.
func (f *ListFilter) Normalize() error {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
	f.SortBy = strings.TrimSpace(f.SortBy)
	switch SortDirection(strings.ToLower(string(f.SortDirection))) {
	case "":
		f.SortDirection = SortDesc
	case SortAsc:
		f.SortDirection = SortAsc
	case SortDesc:
		f.SortDirection = SortDesc
	default:
		return apperror.NewFieldValidation("sort_direction", "sort_direction must be asc or desc")
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return apperror.NewFieldValidation("end_date", "end_date must not be before start_date")
	}
	return nil
}

// Offset returns the row offset of the requested page.
func (f ListFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PerPage
}

// ListResult contains one page of results.
type ListResult[T any] struct {
	Items   []T
	Total   int64
	Page    int
	PerPage int
}

// LastPage is the number of the last page; an empty result still has page 1.
func (r ListResult[T]) LastPage() int {
	if r.PerPage <= 0 || r.Total == 0 {
		return 1
	}
	return int((r.Total + int64(r.PerPage) - 1) / int64(r.PerPage))
}

// From is the 1-based position of the first item on the page, 0 when empty.
func (r ListResult[T]) From() int {
	if len(r.Items) == 0 {
		return 0
	}
	return (r.Page-1)*r.PerPage + 1
}

// To is the 1-based position of the last item on the page, 0 when empty.
func (r ListResult[T]) To() int {
	if len(r.Items) == 0 {
		return 0
	}
	return r.From() + len(r.Items) - 1
}

// --- Repository Interfaces ---

// RecordRepository defines storage operations shared by every record type.
type RecordRepository[T entity.Record] interface {
	// Create inserts a new record
	Create(ctx context.Context, rec T) error

	// GetByID retrieves record by ID (deleted records included)
	GetByID(ctx context.Context, id id.ID) (T, error)

	// Update modifies existing record (with optimistic locking)
	Update(ctx context.Context, rec T) error

	// SetDeletionMark sets or clears the soft-delete flag
	SetDeletionMark(ctx context.Context, id id.ID, marked bool) error

	// List retrieves records with filtering, sorting and pagination
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
// Before-hooks run inside the write transaction and may abort it.
type Hook[T any] func(ctx context.Context, rec T) error

// ChangeHook sees the stored record next to the incoming one during update.
// It runs inside the write transaction, before the before-update hooks.
type ChangeHook[T any] func(ctx context.Context, stored, rec T) error

// HookRegistry stores lifecycle hooks for a record type.
type HookRegistry[T any] struct {
	hooks   map[HookEvent][]Hook[T]
	changes []ChangeHook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// OnChange registers a hook comparing the stored and incoming record.
func (r *HookRegistry[T]) OnChange(hook ChangeHook[T]) {
	r.changes = append(r.changes, hook)
}

// RunChange executes the change hooks, stopping at the first error.
func (r *HookRegistry[T]) RunChange(ctx context.Context, stored, rec T) error {
	for _, hook := range r.changes {
		if err := hook(ctx, stored, rec); err != nil {
			return err
		}
	}
	return nil
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, rec T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeCreate registers a hook to run before create.
func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) { r.On(BeforeCreate, hook) }

// OnAfterCreate registers a hook to run after create.
func (r *HookRegistry[T]) OnAfterCreate(hook Hook[T]) { r.On(AfterCreate, hook) }

// OnBeforeUpdate registers a hook to run before update.
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) { r.On(BeforeUpdate, hook) }

// OnAfterUpdate registers a hook to run after update.
func (r *HookRegistry[T]) OnAfterUpdate(hook Hook[T]) { r.On(AfterUpdate, hook) }

// OnBeforeDelete registers a hook to run before delete.
func (r *HookRegistry[T]) OnBeforeDelete(hook Hook[T]) { r.On(BeforeDelete, hook) }

// OnAfterDelete registers a hook to run after delete.
func (r *HookRegistry[T]) OnAfterDelete(hook Hook[T]) { r.On(AfterDelete, hook) }
