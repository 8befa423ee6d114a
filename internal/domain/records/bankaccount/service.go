package bankaccount

import (
	"context"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/tx"
	"stationdesk/internal/domain"
)

// Service provides business logic for bank accounts.
type Service struct {
	*domain.RecordService[*BankAccount]
	repo Repository
}

// NewService creates a new bank account service.
func NewService(repo Repository, txm tx.Manager, events domain.EventPublisher) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*BankAccount]{
		Repo:          repo,
		TxManager:     txm,
		Events:        events,
		EntityName:    "bank account",
		AggregateType: "bank_account",
	})
	return &Service{RecordService: base, repo: repo}
}

// EnsureUsable checks that the account exists, is active and not deleted.
// Invoices and bills call it before recording a payment.
func (s *Service) EnsureUsable(ctx context.Context, accountID id.ID) error {
	acct, err := s.GetByID(ctx, accountID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewFieldValidation("bank_account_id", "bank account does not exist").
				WithDetail("bank_account_id", accountID.String())
		}
		return err
	}
	if acct.DeletionMark || !acct.IsActive {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "bank account is inactive").
			WithDetail("bank_account_id", accountID.String())
	}
	return nil
}
