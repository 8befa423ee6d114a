package v1

import (
	"context"
	"time"

	"stationdesk/internal/core/id"
	"stationdesk/internal/core/types"
	"stationdesk/internal/domain/records/atm"
	"stationdesk/internal/domain/records/bankaccount"
	"stationdesk/internal/domain/records/dailyfuel"
	"stationdesk/internal/domain/records/dailysales"
	"stationdesk/internal/domain/records/owner"
	"stationdesk/internal/domain/records/providerbill"
	"stationdesk/internal/domain/records/safedrop"
	"stationdesk/internal/domain/records/vendorinvoice"
	"stationdesk/internal/domain/reports"
	"stationdesk/internal/domain/trends"
	"stationdesk/internal/infrastructure/storage/postgres"
	"stationdesk/internal/infrastructure/storage/postgres/record_repo"
	"stationdesk/internal/infrastructure/storage/postgres/report_repo"
	"stationdesk/pkg/numerator"
)

// Services is every domain service the API exposes.
type Services struct {
	BankAccounts   *bankaccount.Service
	Owners         *owner.Service
	DailySales     *dailysales.Service
	DailyFuel      *dailyfuel.Service
	Safedrops      *safedrop.Service
	ATM            *atm.Service
	VendorInvoices *vendorinvoice.Service
	ProviderBills  *providerbill.Service
	Reports        *reports.Service
	Trends         *trends.Service
}

// ServiceDeps are the settings and infrastructure the services are built from.
type ServiceDeps struct {
	TxManager *postgres.TxManager
	// Location decides the station's business day.
	Location          *time.Location
	ATMTolerance      types.Money
	SettlementAccount *id.ID
	Grades            []string
}

// NewServices wires repositories and services over one transaction manager.
// Every record write emits an outbox event in its own transaction.
func NewServices(deps ServiceDeps) *Services {
	txm := deps.TxManager
	events := postgres.NewOutboxPublisher(txm)
	numbers := numerator.NewWithQuerierFunc(func(ctx context.Context) numerator.Querier {
		return txm.GetQuerier(ctx)
	})

	grades := deps.Grades
	if len(grades) == 0 {
		grades = dailyfuel.GradeNames()
	}

	safedropRepo := record_repo.NewSafedropRepo(txm)
	accounts := bankaccount.NewService(record_repo.NewBankAccountRepo(txm), txm, events)

	var reportOpts []reports.Option
	if deps.SettlementAccount != nil {
		reportOpts = append(reportOpts, reports.WithSettlementAccount(*deps.SettlementAccount))
	}

	return &Services{
		BankAccounts:   accounts,
		Owners:         owner.NewService(record_repo.NewOwnerRepo(txm), txm, events),
		DailySales:     dailysales.NewService(record_repo.NewDailySalesRepo(txm), safedropRepo, txm, events, deps.Location),
		DailyFuel:      dailyfuel.NewService(record_repo.NewDailyFuelRepo(txm), txm, events, deps.Location),
		Safedrops:      safedrop.NewService(safedropRepo, txm, events),
		ATM:            atm.NewService(record_repo.NewATMRepo(txm), txm, events, deps.ATMTolerance),
		VendorInvoices: vendorinvoice.NewService(record_repo.NewVendorInvoiceRepo(txm), txm, events, numbers, accounts),
		ProviderBills:  providerbill.NewService(record_repo.NewProviderBillRepo(txm), txm, events, numbers, accounts),
		Reports:        reports.NewService(report_repo.NewReportRepo(txm), reportOpts...),
		Trends:         trends.NewService(report_repo.NewTrendRepo(txm), grades, deps.Location),
	}
}
