package record_repo

import (
	"stationdesk/internal/domain/records/bankaccount"
	"stationdesk/internal/infrastructure/storage/postgres"
)

const bankAccountTable = "bank_accounts"

// BankAccountRepo implements bankaccount.Repository.
type BankAccountRepo struct {
	*BaseRecordRepo[*bankaccount.BankAccount]
}

// NewBankAccountRepo creates a new bank account repository.
func NewBankAccountRepo(db postgres.QuerierProvider) *BankAccountRepo {
	return &BankAccountRepo{
		BaseRecordRepo: NewBaseRecordRepo(db,
			bankAccountTable,
			postgres.ExtractDBColumns[bankaccount.BankAccount](),
			func() *bankaccount.BankAccount { return &bankaccount.BankAccount{} },
			Options{SearchColumns: []string{"name", "bank_name", "last_four"}, DefaultSort: "name"},
		),
	}
}

var _ bankaccount.Repository = (*BankAccountRepo)(nil)
