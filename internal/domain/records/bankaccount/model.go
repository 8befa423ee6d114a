// Package bankaccount provides the station's bank accounts. Deposits and
// payments on the balance report are attributed to these accounts.
package bankaccount

import (
	"context"
	"regexp"

	"stationdesk/internal/core/apperror"
	"stationdesk/internal/core/entity"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/rules"
)

var lastFourRE = regexp.MustCompile(`^\d{4}$`)

// AccountType of a bank account.
type AccountType string

const (
	TypeChecking AccountType = "checking"
	TypeSavings  AccountType = "savings"
)

// BankAccount is a deposit account.
type BankAccount struct {
	entity.BaseRecord

	Name           string      `db:"name" json:"name"`
	BankName       string      `db:"bank_name" json:"bank_name"`
	LastFour       string      `db:"last_four" json:"last_four"`
	AccountType    AccountType `db:"account_type" json:"account_type"`
	OpeningBalance types.Money `db:"opening_balance" json:"opening_balance"`
	OpeningDate    types.Date  `db:"opening_date" json:"opening_date"`
	IsActive       bool        `db:"is_active" json:"is_active"`
	Notes          string      `db:"notes" json:"notes"`
}

// NewBankAccount creates an active account.
func NewBankAccount(name, bankName, lastFour string) *BankAccount {
	return &BankAccount{
		BaseRecord:  entity.NewBaseRecord(),
		Name:        name,
		BankName:    bankName,
		LastFour:    lastFour,
		AccountType: TypeChecking,
		IsActive:    true,
	}
}

// Validate implements entity.Validatable interface.
func (a *BankAccount) Validate(ctx context.Context) error {
	if err := rules.First(
		rules.Required("name", a.Name),
		rules.MaxLen("name", a.Name, 100),
		rules.Required("bank_name", a.BankName),
		rules.OneOf("account_type", a.AccountType, TypeChecking, TypeSavings),
		rules.DateSet("opening_date", a.OpeningDate),
	); err != nil {
		return err
	}
	if !lastFourRE.MatchString(a.LastFour) {
		return apperror.NewFieldValidation("last_four", "last_four must be exactly 4 digits")
	}
	return nil
}

// DisplayName is "Chase Operating ••1234".
func (a *BankAccount) DisplayName() string {
	return a.Name + " ••" + a.LastFour
}
