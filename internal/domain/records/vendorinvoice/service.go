package vendorinvoice

import (
	"context"
	"fmt"
	"strings"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/numerator"
	"stationdesk/internal/core/tx"
	"stationdesk/internal/domain"
	"stationdesk/internal/domain/records/payable"
)

// Service provides business logic for vendor invoices.
type Service struct {
	*domain.RecordService[*VendorInvoice]
	repo     Repository
	accounts payable.AccountChecker
}

// NewService creates a new vendor invoice service.
func NewService(
	repo Repository,
	txm tx.Manager,
	events domain.EventPublisher,
	numbers numerator.Generator,
	accounts payable.AccountChecker,
) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*VendorInvoice]{
		Repo:          repo,
		TxManager:     txm,
		Events:        events,
		EntityName:    "vendor invoice",
		AggregateType: "vendor_invoice",
	})
	svc := &Service{RecordService: base, repo: repo, accounts: accounts}

	base.Hooks().OnBeforeCreate(svc.checkUnique)
	base.Hooks().OnBeforeCreate(payable.AssignVoucher[*VendorInvoice](numbers, VoucherPrefix))
	base.Hooks().OnBeforeCreate(payable.CheckAccount[*VendorInvoice](accounts))
	base.Hooks().OnChange(payable.KeepVoucher[*VendorInvoice]())
	base.Hooks().OnBeforeUpdate(svc.checkUnique)
	base.Hooks().OnBeforeUpdate(payable.CheckAccount[*VendorInvoice](accounts))

	return svc
}

func (s *Service) checkUnique(ctx context.Context, v *VendorInvoice) error {
	v.Vendor = strings.TrimSpace(v.Vendor)
	v.InvoiceNumber = strings.TrimSpace(v.InvoiceNumber)
	exists, err := s.repo.ExistsByVendorNumber(ctx, v.Vendor, v.InvoiceNumber, v.ID)
	if err != nil {
		return fmt.Errorf("check invoice number: %w", err)
	}
	if exists {
		return apperror.NewDuplicate(s.EntityName(), "invoice_number", v.InvoiceNumber).
			WithDetail("vendor", v.Vendor)
	}
	return nil
}

// MarkPaid records the payment of invoice invID.
func (s *Service) MarkPaid(ctx context.Context, invID id.ID, cmd payable.PayCommand) (*VendorInvoice, error) {
	return payable.MarkPaid(ctx, s.RecordService, s.accounts, invID, cmd, s.Now())
}
