package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/payable"
	"stationdesk/internal/domain/reports"
	"stationdesk/internal/domain/trends"
	"stationdesk/internal/infrastructure/export"
	"stationdesk/internal/infrastructure/http/v1/middleware"
	"stationdesk/internal/infrastructure/storage/postgres"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	return r
}

// --- pay ---

type paidDoc struct {
	ID  id.ID              `json:"id"`
	Cmd payable.PayCommand `json:"cmd"`
}

func TestPayHandler(t *testing.T) {
	acct := id.New()
	docID := id.New()

	var got payable.PayCommand
	h := NewPayHandler(NewBaseHandler(), func(ctx context.Context, d id.ID, cmd payable.PayCommand) (paidDoc, error) {
		if d != docID {
			return paidDoc{}, apperror.NewNotFound("vendor invoice", d.String())
		}
		got = cmd
		return paidDoc{ID: d, Cmd: cmd}, nil
	})
	r := newEngine()
	r.POST("/docs/:id/pay", h.Pay)

	tests := []struct {
		name   string
		target id.ID
		body   string
		status int
	}{
		{"paid", docID, `{"paid_date":"2026-03-02","bank_account_id":"` + acct.String() + `","payment_method":"check","check_number":"1001","version":3}`, http.StatusOK},
		{"bad date", docID, `{"paid_date":"03/02/2026","bank_account_id":"` + acct.String() + `"}`, http.StatusBadRequest},
		{"bad account", docID, `{"paid_date":"2026-03-02","bank_account_id":"x"}`, http.StatusBadRequest},
		{"missing fields", docID, `{}`, http.StatusBadRequest},
		{"unknown document", id.New(), `{"paid_date":"2026-03-02","bank_account_id":"` + acct.String() + `"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(r, http.MethodPost, "/docs/"+tt.target.String()+"/pay", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	assert.Equal(t, "2026-03-02", got.PaidDate.String())
	assert.Equal(t, acct, got.BankAccountID)
	assert.Equal(t, payable.MethodCheck, got.Method)
	assert.Equal(t, "1001", got.CheckNumber)
	assert.Equal(t, 3, got.Version)
}

// --- reports ---

type fakeReports struct {
	kind reports.Kind
	rng  types.DateRange
	err  error
}

func (f *fakeReports) Build(ctx context.Context, kind reports.Kind, rng types.DateRange) (any, error) {
	f.kind, f.rng = kind, rng
	if f.err != nil {
		return nil, f.err
	}
	return &reports.IncomeReport{
		Range: rng,
		Lines: []reports.Line{{Key: "fuel_sales", Label: "Fuel sales", Amount: decimal.NewFromInt(1200)}},
		Total: decimal.NewFromInt(1200),
	}, nil
}

func reportsEngine(svc ReportBuilder) *gin.Engine {
	h := NewReportsHandler(NewBaseHandler(), svc)
	r := newEngine()
	r.GET("/reports/income", h.Income)
	r.GET("/reports/expense", h.Expense)
	r.GET("/reports/balance", h.Balance)
	return r
}

func TestReportsHandler_JSON(t *testing.T) {
	svc := &fakeReports{}
	r := reportsEngine(svc)

	w := request(r, http.MethodGet, "/reports/income?start_date=2026-01-01&end_date=2026-01-31", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, reports.KindIncome, svc.kind)
	assert.Equal(t, "2026-01-31", svc.rng.End.String())

	var body struct {
		Total string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "1200", body.Total)

	request(r, http.MethodGet, "/reports/balance?start_date=2026-01-01&end_date=2026-01-31", "")
	assert.Equal(t, reports.KindBalance, svc.kind)
}

func TestReportsHandler_XLSX(t *testing.T) {
	r := reportsEngine(&fakeReports{})

	w := request(r, http.MethodGet, "/reports/income?start_date=2026-01-01&end_date=2026-01-31&format=xlsx", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="income_2026-01-01_2026-01-31.xlsx"`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Income", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Fuel sales", v)
}

func TestReportsHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{"format", "start_date=2026-01-01&end_date=2026-01-31&format=pdf", nil, http.StatusBadRequest},
		{"date", "start_date=yesterday", nil, http.StatusBadRequest},
		{"service validation", "", apperror.NewFieldValidation("start_date", "start_date is required"), http.StatusBadRequest},
		{"service failure", "start_date=2026-01-01&end_date=2026-01-31", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := reportsEngine(&fakeReports{err: tt.err})
			w := request(r, http.MethodGet, "/reports/expense?"+tt.query, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

// --- trends ---

type fakeTrends struct {
	query  trends.Query
	window trends.Window
}

func (f *fakeTrends) Series(ctx context.Context, q trends.Query, w trends.Window) (trends.Series, error) {
	f.query, f.window = q, w
	return trends.Series{Metric: q.Metric, Window: w}, nil
}

func (f *fakeTrends) Card(ctx context.Context, q trends.Query) (trends.Card, error) {
	f.query = q
	return trends.Card{Metric: q.Metric}, nil
}

func (f *fakeTrends) Overview(ctx context.Context, ref *types.Date) ([]trends.Card, error) {
	f.query = trends.Query{Reference: ref}
	return []trends.Card{{Metric: trends.MetricFuelSales}, {Metric: trends.MetricSafedrops}}, nil
}

func trendsEngine(svc TrendReader) *gin.Engine {
	h := NewTrendsHandler(NewBaseHandler(), svc)
	r := newEngine()
	r.GET("/trends/series", h.Series)
	r.GET("/trends/card", h.Card)
	r.GET("/trends/overview", h.Overview)
	return r
}

func TestTrendsHandler_Series(t *testing.T) {
	svc := &fakeTrends{}
	r := trendsEngine(svc)

	w := request(r, http.MethodGet, "/trends/series?metric=fuel_gallons&grade=premium&date=2026-03-10", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, trends.WindowLast15Days, svc.window)
	assert.Equal(t, trends.MetricFuelGallons, svc.query.Metric)
	assert.Equal(t, "premium", svc.query.Grade)
	require.NotNil(t, svc.query.Reference)
	assert.Equal(t, "2026-03-10", svc.query.Reference.String())

	w = request(r, http.MethodGet, "/trends/series?metric=inside_sales&window=last_4_weeks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, trends.WindowLast4Weeks, svc.window)
	assert.Nil(t, svc.query.Reference)
}

func TestTrendsHandler_Validation(t *testing.T) {
	r := trendsEngine(&fakeTrends{})

	tests := []struct {
		name   string
		target string
		field  string
	}{
		{"unknown metric", "/trends/series?metric=diesel_love", "metric"},
		{"missing metric", "/trends/card", "metric"},
		{"unknown window", "/trends/series?metric=fuel_sales&window=last_year", "window"},
		{"bad date", "/trends/card?metric=fuel_sales&date=10-03-2026", "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(r, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"field":"`+tt.field+`"`)
		})
	}
}

func TestTrendsHandler_Overview(t *testing.T) {
	r := trendsEngine(&fakeTrends{})

	w := request(r, http.MethodGet, "/trends/overview", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []trends.Card `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, trends.MetricSafedrops, body.Data[1].Metric)
}

// --- health ---

type fakeDB struct{ err error }

func (f fakeDB) Ping(ctx context.Context) error { return f.err }
func (f fakeDB) Stats() postgres.PoolStats     { return postgres.PoolStats{MaxConns: 10, IdleConns: 4} }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		db     fakeDB
		status int
	}{
		{"ready", fakeDB{}, http.StatusOK},
		{"database down", fakeDB{err: errors.New("connection refused")}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, BuildInfo{App: "stationdesk", Version: "test"})
			r := newEngine()
			r.GET("/health/live", h.Live)
			r.GET("/health/ready", h.Ready)
			r.GET("/health/info", h.Info)

			assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/health/live", "").Code)
			assert.Equal(t, tt.status, request(r, http.MethodGet, "/health/ready", "").Code)

			w := request(r, http.MethodGet, "/health/info", "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"max_conns":10`)
			assert.Contains(t, w.Body.String(), `"version":"test"`)
		})
	}
}
