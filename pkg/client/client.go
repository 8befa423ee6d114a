// Package client is a Go client for the stationdesk REST API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to one stationdesk server.
type Client struct {
	base  *url.URL
	http  *http.Client
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends the bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", baseURL)
	}
	c := &Client{base: u, http: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s: %s", e.Status, e.Code, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Response, error) {
	u := *c.base
	u.Path = c.base.Path + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, u.Path, err)
	}
	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(apiErr)
		return nil, apiErr
	}
	return resp, nil
}

// GetJSON decodes the response of GET path into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Download returns the body of GET path and the filename from Content-Disposition.
func (c *Client) Download(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	var name string
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	return data, name, nil
}

// Meta is the pagination block of a list response.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

// Page is one { data, meta } list response.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// ListParams are the list query parameters. Filters carries field or
// field__op conditions, e.g. grade=premium or amount__gte=100.
type ListParams struct {
	Page          int
	PerPage       int
	SortBy        string
	SortDirection string
	StartDate     string
	EndDate       string
	Search        string
	Filters       url.Values
}

// Values encodes the parameters; zero fields are omitted.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	for key, vals := range p.Filters {
		for _, val := range vals {
			v.Add(key, val)
		}
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	setIf(v, "sort_by", p.SortBy)
	setIf(v, "sort_direction", p.SortDirection)
	setIf(v, "start_date", p.StartDate)
	setIf(v, "end_date", p.EndDate)
	setIf(v, "search", p.Search)
	return v
}

func setIf(v url.Values, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}

// List fetches one page of resource, e.g. "daily-sales".
func List[T any](ctx context.Context, c *Client, resource string, params ListParams) (Page[T], error) {
	var page Page[T]
	if err := c.GetJSON(ctx, resource, params.Values(), &page); err != nil {
		return page, err
	}
	return page, nil
}

// FetchAllPerPage is the page size FetchAll asks for when params leave it unset.
const FetchAllPerPage = 100

// maxPrealloc bounds the capacity FetchAll reserves from a server's meta.
const maxPrealloc = 10_000

// capacityHint is meta.total clamped to [0, perPage*last_page] and maxPrealloc.
func capacityHint(m Meta, perPage int) int {
	if m.Total <= 0 || m.LastPage <= 0 {
		return 0
	}
	limit := int64(maxPrealloc)
	if pages := int64(m.LastPage); pages <= limit/int64(perPage) {
		limit = min(limit, pages*int64(perPage))
	}
	return int(min(m.Total, limit))
}

// FetchAll walks pages 1..last_page of resource and merges their data in
// page order. It stops at the first failing page.
func FetchAll[T any](ctx context.Context, c *Client, resource string, params ListParams) ([]T, error) {
	if params.PerPage <= 0 {
		params.PerPage = FetchAllPerPage
	}
	params.Page = 1

	first, err := List[T](ctx, c, resource, params)
	if err != nil {
		return nil, fmt.Errorf("fetch %s page 1: %w", resource, err)
	}
	all := make([]T, 0, capacityHint(first.Meta, params.PerPage))
	all = append(all, first.Data...)

	for page := 2; page <= first.Meta.LastPage; page++ {
		params.Page = page
		next, err := List[T](ctx, c, resource, params)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", resource, page, err)
		}
		all = append(all, next.Data...)
	}
	return all, nil
}
