package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/trends"
	"stationdesk/internal/infrastructure/http/v1/dto"
)

// TrendReader answers chart and card requests.
type TrendReader interface {
	Series(ctx context.Context, q trends.Query, w trends.Window) (trends.Series, error)
	Card(ctx context.Context, q trends.Query) (trends.Card, error)
	Overview(ctx context.Context, ref *types.Date) ([]trends.Card, error)
}

// TrendsHandler serves the dashboard widgets.
type TrendsHandler struct {
	*BaseHandler
	service TrendReader
}

// NewTrendsHandler creates the trends handler.
func NewTrendsHandler(base *BaseHandler, service TrendReader) *TrendsHandler {
	return &TrendsHandler{BaseHandler: base, service: service}
}

func (h *TrendsHandler) query(c *gin.Context) (dto.TrendQuery, trends.Query, bool) {
	var raw dto.TrendQuery
	if !h.BindQuery(c, &raw) {
		return raw, trends.Query{}, false
	}
	q := trends.Query{Grade: raw.Grade}
	if raw.Date != "" {
		ref, err := dto.ParseDate("date", raw.Date)
		if err != nil {
			h.Error(c, err)
			return raw, q, false
		}
		q.Reference = &ref
	}
	return raw, q, true
}

// Series handles GET /trends/series?metric=&window=&grade=&date=.
func (h *TrendsHandler) Series(c *gin.Context) {
	raw, q, ok := h.query(c)
	if !ok {
		return
	}
	metric, err := trends.ParseMetric(raw.Metric)
	if err != nil {
		h.Error(c, err)
		return
	}
	window := trends.WindowLast15Days
	if raw.Window != "" {
		if window, err = trends.ParseWindow(raw.Window); err != nil {
			h.Error(c, err)
			return
		}
	}
	q.Metric = metric

	series, err := h.service.Series(c.Request.Context(), q, window)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, series)
}

// Card handles GET /trends/card?metric=&grade=&date=.
func (h *TrendsHandler) Card(c *gin.Context) {
	raw, q, ok := h.query(c)
	if !ok {
		return
	}
	metric, err := trends.ParseMetric(raw.Metric)
	if err != nil {
		h.Error(c, err)
		return
	}
	q.Metric = metric

	card, err := h.service.Card(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, card)
}

// Overview handles GET /trends/overview?date=: one card per metric.
func (h *TrendsHandler) Overview(c *gin.Context) {
	_, q, ok := h.query(c)
	if !ok {
		return
	}
	cards, err := h.service.Overview(c.Request.Context(), q.Reference)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"data": cards})
}
