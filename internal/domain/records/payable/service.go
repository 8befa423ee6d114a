package payable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stationdesk/internal/core/apperror"
	appctx "stationdesk/internal/core/context"
	"stationdesk/internal/core/entity"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/numerator"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain"
)

// Document is a record carrying a Payment and a voucher number.
type Document interface {
	entity.Record
	PaymentState() *Payment
	DocumentDate() types.Date
	Voucher() string
	SetVoucher(v string)
}

// AccountChecker verifies a bank account can be paid from.
type AccountChecker interface {
	EnsureUsable(ctx context.Context, accountID id.ID) error
}

// AssignVoucher returns a before-create hook that numbers documents
// PREFIX-YEAR-NNNNN by document date. A voucher sent by the client is
// replaced.
func AssignVoucher[T Document](gen numerator.Generator, prefix string) domain.Hook[T] {
	series := numerator.NewSeries(prefix)
	return func(ctx context.Context, doc T) error {
		if gen == nil {
			return errors.New("voucher number: no numerator configured")
		}
		num, err := gen.Next(ctx, series, doc.DocumentDate().Time.Year())
		if err != nil {
			return fmt.Errorf("voucher number: %w", err)
		}
		doc.SetVoucher(num)
		return nil
	}
}

// KeepVoucher returns a change hook that restores the stored voucher number.
func KeepVoucher[T Document]() domain.ChangeHook[T] {
	return func(ctx context.Context, stored, doc T) error {
		doc.SetVoucher(stored.Voucher())
		return nil
	}
}

// CheckAccount returns a before-write hook that validates the paying account.
func CheckAccount[T Document](accounts AccountChecker) domain.Hook[T] {
	return func(ctx context.Context, doc T) error {
		p := doc.PaymentState()
		if accounts == nil || p.BankAccountID == nil || !p.IsPaid() {
			return nil
		}
		return accounts.EnsureUsable(ctx, *p.BankAccountID)
	}
}

// MarkPaid applies cmd to the document recID inside one transaction and
// writes a "paid" event.
func MarkPaid[T Document](ctx context.Context, svc *domain.RecordService[T], accounts AccountChecker, recID id.ID, cmd PayCommand, now time.Time) (T, error) {
	var doc T
	if cmd.PaidDate.IsZero() {
		return doc, apperror.NewFieldValidation("paid_date", "paid_date is required")
	}
	if id.IsNil(cmd.BankAccountID) {
		return doc, apperror.NewFieldValidation("bank_account_id", "bank_account_id is required")
	}
	if cmd.Method == "" {
		cmd.Method = MethodCheck
	}

	err := svc.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = svc.GetLive(ctx, recID)
		if err != nil {
			return err
		}
		if cmd.Version != 0 && cmd.Version != doc.GetVersion() {
			return apperror.NewConcurrentModification(svc.EntityName(), recID.String())
		}
		if accounts != nil {
			if err := accounts.EnsureUsable(ctx, cmd.BankAccountID); err != nil {
				return err
			}
		}

		p := doc.PaymentState()
		if err := p.Apply(cmd); err != nil {
			return err
		}
		if err := p.ValidatePayment(doc.DocumentDate()); err != nil {
			return err
		}

		doc.Stamp(appctx.GetUserID(ctx), now, false)
		if err := svc.Repo().Update(ctx, doc); err != nil {
			return fmt.Errorf("pay %s: %w", svc.EntityName(), err)
		}
		doc.SetVersion(doc.GetVersion() + 1)
		return svc.Emit(ctx, domain.EventPaid, doc)
	})
	return doc, err
}
