package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/reports"
	"stationdesk/internal/infrastructure/export"
	"stationdesk/internal/infrastructure/http/v1/dto"
)

// ReportBuilder builds a report by kind.
type ReportBuilder interface {
	Build(ctx context.Context, kind reports.Kind, rng types.DateRange) (any, error)
}

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service ReportBuilder
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service ReportBuilder) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// Income handles GET /reports/income.
func (h *ReportsHandler) Income(c *gin.Context) { h.serve(c, reports.KindIncome) }

// Expense handles GET /reports/expense.
func (h *ReportsHandler) Expense(c *gin.Context) { h.serve(c, reports.KindExpense) }

// Balance handles GET /reports/balance.
func (h *ReportsHandler) Balance(c *gin.Context) { h.serve(c, reports.KindBalance) }

func (h *ReportsHandler) serve(c *gin.Context, kind reports.Kind) {
	var q dto.ReportQuery
	if !h.BindQuery(c, &q) {
		return
	}
	switch q.Format {
	case "", dto.FormatJSON, dto.FormatXLSX:
	default:
		h.Error(c, apperror.NewFieldValidation("format", "format must be json or xlsx"))
		return
	}
	rng, err := q.Range()
	if err != nil {
		h.Error(c, err)
		return
	}

	rep, err := h.service.Build(c.Request.Context(), kind, rng)
	if err != nil {
		h.Error(c, err)
		return
	}

	if q.Format != dto.FormatXLSX {
		h.OK(c, rep)
		return
	}
	data, name, err := export.Report(rep)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, export.ContentType, data)
}
