package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/id"
	"stationdesk/internal/domain/records/payable"
	"stationdesk/internal/infrastructure/http/v1/dto"
)

// PayFunc records a payment against a payable document.
type PayFunc[T any] func(ctx context.Context, docID id.ID, cmd payable.PayCommand) (T, error)

// PayHandler serves POST /{resource}/:id/pay for invoices and bills.
type PayHandler[T any] struct {
	*BaseHandler
	pay PayFunc[T]
}

// NewPayHandler creates a pay handler around a service's MarkPaid.
func NewPayHandler[T any](base *BaseHandler, pay PayFunc[T]) *PayHandler[T] {
	return &PayHandler[T]{BaseHandler: base, pay: pay}
}

// Pay marks the document paid and returns it.
func (h *PayHandler[T]) Pay(c *gin.Context) {
	docID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.PayRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cmd, err := payCommand(req)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.pay(c.Request.Context(), docID, cmd)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

func payCommand(req dto.PayRequest) (payable.PayCommand, error) {
	paid, err := dto.ParseDate("paid_date", req.PaidDate)
	if err != nil {
		return payable.PayCommand{}, err
	}
	acct, err := id.Parse(req.BankAccountID)
	if err != nil {
		return payable.PayCommand{}, apperror.NewFieldValidation("bank_account_id", "invalid id format")
	}
	return payable.PayCommand{
		PaidDate:      paid,
		BankAccountID: acct,
		Method:        req.PaymentMethod,
		CheckNumber:   req.CheckNumber,
		Version:       req.Version,
	}, nil
}
