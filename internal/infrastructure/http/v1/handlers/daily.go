package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/atm"
	"stationdesk/internal/domain/records/dailyfuel"
	"stationdesk/internal/domain/records/dailysales"
	"stationdesk/internal/domain/records/safedrop"
	"stationdesk/internal/infrastructure/http/v1/dto"
)

// SalesReconciler compares a day's safedrops with its close-out.
type SalesReconciler interface {
	Reconcile(ctx context.Context, day types.Date, strict bool) (dailysales.Reconciliation, error)
}

// FuelSummarizer totals a day's fuel across grades.
type FuelSummarizer interface {
	SummaryByDate(ctx context.Context, day types.Date) (dailyfuel.DaySummary, error)
}

// SafedropTotaler totals a day's safedrops.
type SafedropTotaler interface {
	TotalForDate(ctx context.Context, day types.Date) (safedrop.DayTotal, error)
}

// ATMReconciler previews an ATM reconciliation.
type ATMReconciler interface {
	Reconcile(rec *atm.Record) atm.Result
}

// DailyHandler serves the per-day views that sit beside the record CRUD.
type DailyHandler struct {
	*BaseHandler
	sales     SalesReconciler
	fuel      FuelSummarizer
	safedrops SafedropTotaler
	atm       ATMReconciler
}

// NewDailyHandler creates the daily handler.
func NewDailyHandler(base *BaseHandler, sales SalesReconciler, fuel FuelSummarizer, safedrops SafedropTotaler, atm ATMReconciler) *DailyHandler {
	return &DailyHandler{BaseHandler: base, sales: sales, fuel: fuel, safedrops: safedrops, atm: atm}
}

// Reconciliation handles GET /daily-sales/:id/reconciliation where :id is a
// business date. ?strict=true turns an unbalanced day into a 422.
func (h *DailyHandler) Reconciliation(c *gin.Context) {
	day, err := dto.ParseDate("date", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	strict, _ := strconv.ParseBool(c.Query("strict"))

	rec, err := h.sales.Reconcile(c.Request.Context(), day, strict)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// FuelSummary handles GET /summaries/fuel/:date.
func (h *DailyHandler) FuelSummary(c *gin.Context) {
	day, ok := h.ParamDate(c, "date")
	if !ok {
		return
	}
	sum, err := h.fuel.SummaryByDate(c.Request.Context(), day)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sum)
}

// SafedropTotal handles GET /summaries/safedrops/:date.
func (h *DailyHandler) SafedropTotal(c *gin.Context) {
	day, ok := h.ParamDate(c, "date")
	if !ok {
		return
	}
	total, err := h.safedrops.TotalForDate(c.Request.Context(), day)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, total)
}

// ATMReconcile handles POST /atm-records/reconcile: the figures a record
// would be stored with, without storing it.
func (h *DailyHandler) ATMReconcile(c *gin.Context) {
	var rec atm.Record
	if !h.BindJSON(c, &rec) {
		return
	}
	h.OK(c, h.atm.Reconcile(&rec))
}
