package bankaccount

import (
	"stationdesk/internal/domain"
)

// Repository defines data access for bank accounts.
type Repository interface {
	domain.RecordRepository[*BankAccount]
}
