package dto

import (
	"stationdesk/internal/domain/records/payable"
)

// PayRequest is the body of POST /{invoices|bills}/:id/pay.
type PayRequest struct {
	PaidDate      string         `json:"paid_date" binding:"required"`
	BankAccountID string         `json:"bank_account_id" binding:"required"`
	PaymentMethod payable.Method `json:"payment_method"`
	CheckNumber   string         `json:"check_number"`
	Version       int            `json:"version"`
}
