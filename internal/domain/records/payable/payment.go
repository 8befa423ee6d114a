// Package payable holds the payment state shared by vendor invoices and provider bills.
package payable

import (
	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/rules"
)

// Status of a payable document.
type Status string

const (
	StatusUnpaid Status = "unpaid"
	StatusPaid   Status = "paid"
	StatusVoid   Status = "void"
)

// Statuses lists every status.
var Statuses = []Status{StatusUnpaid, StatusPaid, StatusVoid}

// Method is how a payable was paid.
type Method string

const (
	MethodCheck Method = "check"
	MethodACH   Method = "ach"
	MethodCash  Method = "cash"
	MethodCard  Method = "card"
)

// Methods lists every payment method.
var Methods = []Method{MethodCheck, MethodACH, MethodCash, MethodCard}

// Payment is embedded into invoices and bills.
type Payment struct {
	Status        Status      `db:"status" json:"status"`
	PaidDate      *types.Date `db:"paid_date" json:"paid_date"`
	PaymentMethod Method      `db:"payment_method" json:"payment_method"`
	CheckNumber   string      `db:"check_number" json:"check_number"`
	BankAccountID *id.ID      `db:"bank_account_id" json:"bank_account_id"`
}

// IsPaid reports whether the payable has been paid.
func (p *Payment) IsPaid() bool {
	return p.Status == StatusPaid
}

// ValidatePayment checks the payment fields against issued (the document date).
func (p *Payment) ValidatePayment(issued types.Date) error {
	if p.Status == "" {
		p.Status = StatusUnpaid
	}
	if err := rules.OneOf("status", p.Status, Statuses...); err != nil {
		return err
	}
	if p.PaymentMethod != "" {
		if err := rules.OneOf("payment_method", p.PaymentMethod, Methods...); err != nil {
			return err
		}
	}
	if p.PaymentMethod == MethodCheck && p.CheckNumber == "" {
		return apperror.NewFieldValidation("check_number", "check_number is required for check payments")
	}
	if !p.IsPaid() {
		return nil
	}
	if p.PaidDate == nil || p.PaidDate.IsZero() {
		return apperror.NewFieldValidation("paid_date", "paid_date is required when status is paid")
	}
	if p.BankAccountID == nil || id.IsNil(*p.BankAccountID) {
		return apperror.NewFieldValidation("bank_account_id", "bank_account_id is required when status is paid")
	}
	if p.PaymentMethod == "" {
		return apperror.NewFieldValidation("payment_method", "payment_method is required when status is paid")
	}
	if !issued.IsZero() && p.PaidDate.Before(issued) {
		return apperror.NewFieldValidation("paid_date", "paid_date must not be before the document date")
	}
	return nil
}

// PayCommand is the input of MarkPaid.
type PayCommand struct {
	PaidDate      types.Date `json:"paid_date"`
	BankAccountID id.ID      `json:"bank_account_id"`
	Method        Method     `json:"payment_method"`
	CheckNumber   string     `json:"check_number"`
	// Version is the version the caller read; zero skips the check.
	Version int `json:"version"`
}

// Apply moves the payment to paid. It refuses void or already paid documents.
func (p *Payment) Apply(cmd PayCommand) error {
	switch p.Status {
	case StatusPaid:
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "document is already paid").
			WithDetail("paid_date", p.PaidDate.String())
	case StatusVoid:
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "void documents cannot be paid")
	}
	paid := cmd.PaidDate
	acct := cmd.BankAccountID
	p.Status = StatusPaid
	p.PaidDate = &paid
	p.BankAccountID = &acct
	p.PaymentMethod = cmd.Method
	p.CheckNumber = cmd.CheckNumber
	return nil
}
