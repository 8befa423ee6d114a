// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain"
)

// --- Pagination ---

// ListQuery is the list contract shared by every record endpoint.
type ListQuery struct {
	Page           int    `form:"page"`
	PerPage        int    `form:"per_page"`
	SortBy         string `form:"sort_by"`
	SortDirection  string `form:"sort_direction"`
	StartDate      string `form:"start_date"`
	EndDate        string `form:"end_date"`
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"include_deleted"`
}

// ToFilter converts the query into a domain filter.
func (q ListQuery) ToFilter() (domain.ListFilter, error) {
	f := domain.ListFilter{
		Page:           q.Page,
		PerPage:        q.PerPage,
		SortBy:         q.SortBy,
		SortDirection:  domain.SortDirection(q.SortDirection),
		Search:         q.Search,
		IncludeDeleted: q.IncludeDeleted,
	}
	var err error
	if f.StartDate, err = optionalDate("start_date", q.StartDate); err != nil {
		return f, err
	}
	if f.EndDate, err = optionalDate("end_date", q.EndDate); err != nil {
		return f, err
	}
	return f, nil
}

// ParseDate parses a YYYY-MM-DD parameter into a field validation error on failure.
func ParseDate(field, raw string) (types.Date, error) {
	d, err := types.ParseDate(raw)
	if err != nil {
		return types.Date{}, apperror.NewFieldValidation(field, field+" must be YYYY-MM-DD").
			WithDetail("value", raw)
	}
	return d, nil
}

func optionalDate(field, raw string) (*types.Date, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := ParseDate(field, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListMeta is the pagination block of the list envelope.
type ListMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

// ListResponse is the { data, meta } list envelope.
type ListResponse[T any] struct {
	Data []T      `json:"data"`
	Meta ListMeta `json:"meta"`
}

// NewListResponse wraps one page of results. Data is never null.
func NewListResponse[T any](r domain.ListResult[T]) ListResponse[T] {
	items := r.Items
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Data: items,
		Meta: ListMeta{
			CurrentPage: r.Page,
			PerPage:     r.PerPage,
			Total:       r.Total,
			LastPage:    r.LastPage(),
			From:        r.From(),
			To:          r.To(),
		},
	}
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
