package payable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
)

func ptrDate(s string) *types.Date {
	d := types.MustDate(s)
	return &d
}

func TestPayment_ValidatePayment(t *testing.T) {
	acct := id.New()
	issued := types.MustDate("2026-10-01")

	tests := []struct {
		name    string
		payment Payment
		field   string
	}{
		{"empty defaults to unpaid", Payment{}, ""},
		{"unknown status", Payment{Status: "overdue"}, "status"},
		{"unknown method", Payment{PaymentMethod: "wire"}, "payment_method"},
		{"check without number", Payment{PaymentMethod: MethodCheck}, "check_number"},
		{"paid without date", Payment{Status: StatusPaid, BankAccountID: &acct, PaymentMethod: MethodACH}, "paid_date"},
		{"paid without account", Payment{Status: StatusPaid, PaidDate: ptrDate("2026-10-05"), PaymentMethod: MethodACH}, "bank_account_id"},
		{"paid without method", Payment{Status: StatusPaid, PaidDate: ptrDate("2026-10-05"), BankAccountID: &acct}, "payment_method"},
		{"paid before issue", Payment{Status: StatusPaid, PaidDate: ptrDate("2026-09-30"), BankAccountID: &acct, PaymentMethod: MethodCash}, "paid_date"},
		{"paid by check", Payment{Status: StatusPaid, PaidDate: ptrDate("2026-10-05"), BankAccountID: &acct, PaymentMethod: MethodCheck, CheckNumber: "1042"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.payment
			err := p.ValidatePayment(issued)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

func TestPayment_Apply(t *testing.T) {
	acct := id.New()
	cmd := PayCommand{PaidDate: types.MustDate("2026-10-05"), BankAccountID: acct, Method: MethodACH}

	p := Payment{Status: StatusUnpaid}
	require.NoError(t, p.Apply(cmd))
	assert.True(t, p.IsPaid())
	assert.Equal(t, "2026-10-05", p.PaidDate.String())
	assert.Equal(t, acct, *p.BankAccountID)

	err := p.Apply(cmd)
	assert.True(t, apperror.IsCode(err, apperror.CodeBusinessRule))

	void := Payment{Status: StatusVoid}
	assert.Error(t, void.Apply(cmd))
}
