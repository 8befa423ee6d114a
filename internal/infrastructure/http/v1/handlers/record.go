package handlers

import (
	"github.com/gin-gonic/gin"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/entity"
	"stationdesk/internal/domain"
	"stationdesk/internal/domain/filter"
	"stationdesk/internal/infrastructure/http/v1/dto"
)

// RecordHandler provides generic CRUD handlers for a record type.
// Records are their own DTOs: the JSON body binds straight onto T.
type RecordHandler[T entity.Record] struct {
	*BaseHandler
	service *domain.RecordService[T]
	newFn   func() T
	// filterFields are the columns accepted as field / field__op query conditions
	filterFields []string
}

// RecordHandlerConfig configures the record handler.
type RecordHandlerConfig[T entity.Record] struct {
	Service      *domain.RecordService[T]
	New          func() T
	FilterFields []string
}

// NewRecordHandler creates a new record handler.
func NewRecordHandler[T entity.Record](base *BaseHandler, cfg RecordHandlerConfig[T]) *RecordHandler[T] {
	return &RecordHandler[T]{
		BaseHandler:  base,
		service:      cfg.Service,
		newFn:        cfg.New,
		filterFields: cfg.FilterFields,
	}
}

// List handles GET /{resource} with the page/sort/date-range contract.
func (h *RecordHandler[T]) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	f, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}
	f.Conditions, err = filter.ParseQuery(c.Request.URL.Query(), h.filterFields)
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	result, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result))
}

// Get handles GET /{resource}/:id.
func (h *RecordHandler[T]) Get(c *gin.Context) {
	recID, ok := h.ParamID(c)
	if !ok {
		return
	}
	rec, err := h.service.GetByID(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// Create handles POST /{resource}. Identity and audit fields in the body are ignored.
func (h *RecordHandler[T]) Create(c *gin.Context) {
	rec := h.newFn()
	if !h.BindJSON(c, rec) {
		return
	}
	*rec.Base() = entity.BaseRecord{}

	if err := h.service.Create(c.Request.Context(), rec); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, rec)
}

// Update handles PUT /{resource}/:id. The body is applied over the stored
// record; its version must be the version the client read.
func (h *RecordHandler[T]) Update(c *gin.Context) {
	recID, ok := h.ParamID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	rec, err := h.service.GetByID(ctx, recID)
	if err != nil {
		h.Error(c, err)
		return
	}
	stored := *rec.Base()
	if !h.BindJSON(c, rec) {
		return
	}
	version := rec.GetVersion()
	*rec.Base() = stored
	rec.SetVersion(version)

	if err := h.service.Update(ctx, rec); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// Delete handles DELETE /{resource}/:id (soft delete).
func (h *RecordHandler[T]) Delete(c *gin.Context) {
	recID, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), recID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
