package providerbill

import (
	"context"

	"stationdesk/internal/core/id"
	"stationdesk/internal/core/numerator"
	"stationdesk/internal/core/tx"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain"
	"stationdesk/internal/domain/records/payable"
)

// Service provides business logic for provider bills.
type Service struct {
	*domain.RecordService[*ProviderBill]
	accounts payable.AccountChecker
}

// NewService creates a new provider bill service.
func NewService(
	repo Repository,
	txm tx.Manager,
	events domain.EventPublisher,
	numbers numerator.Generator,
	accounts payable.AccountChecker,
) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*ProviderBill]{
		Repo:          repo,
		TxManager:     txm,
		Events:        events,
		EntityName:    "provider bill",
		AggregateType: "provider_bill",
	})
	svc := &Service{RecordService: base, accounts: accounts}

	base.Hooks().OnBeforeCreate(payable.AssignVoucher[*ProviderBill](numbers, VoucherPrefix))
	base.Hooks().OnBeforeCreate(svc.autopay)
	base.Hooks().OnBeforeCreate(payable.CheckAccount[*ProviderBill](accounts))
	base.Hooks().OnChange(payable.KeepVoucher[*ProviderBill]())
	base.Hooks().OnBeforeUpdate(payable.CheckAccount[*ProviderBill](accounts))

	return svc
}

// autopay marks autopay bills with a known account as paid on their due date
// (or bill date) by ACH.
func (s *Service) autopay(ctx context.Context, b *ProviderBill) error {
	if !b.Autopay || b.Status != payable.StatusUnpaid || b.BankAccountID == nil {
		return nil
	}
	paid := b.BillDate
	if b.DueDate != nil {
		paid = *b.DueDate
	}
	if paid.After(types.DateOf(s.Now())) {
		return nil
	}
	return b.Apply(payable.PayCommand{PaidDate: paid, BankAccountID: *b.BankAccountID, Method: payable.MethodACH})
}

// MarkPaid records the payment of bill billID.
func (s *Service) MarkPaid(ctx context.Context, billID id.ID, cmd payable.PayCommand) (*ProviderBill, error) {
	return payable.MarkPaid(ctx, s.RecordService, s.accounts, billID, cmd, s.Now())
}
