package v1

import (
	"github.com/gin-gonic/gin"

	"stationdesk/internal/domain/records/atm"
	"stationdesk/internal/domain/records/bankaccount"
	"stationdesk/internal/domain/records/dailyfuel"
	"stationdesk/internal/domain/records/dailysales"
	"stationdesk/internal/domain/records/owner"
	"stationdesk/internal/domain/records/providerbill"
	"stationdesk/internal/domain/records/safedrop"
	"stationdesk/internal/domain/records/vendorinvoice"
	"stationdesk/internal/infrastructure/http/v1/handlers"
	"stationdesk/internal/infrastructure/http/v1/middleware"
	"stationdesk/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	Services *Services

	// DB backs the readiness and info probes
	DB handlers.Database

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Policy maps resources to roles; zero value means DefaultPolicy
	Policy *middleware.Policy

	Info handlers.BuildInfo
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	if cfg.DB != nil {
		healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Info)
		health := router.Group("/health")
		{
			health.GET("/live", healthHandler.Live)
			health.GET("/ready", healthHandler.Ready)
			health.GET("/info", healthHandler.Info)
		}
	}

	policy := middleware.DefaultPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTValidator))
	{
		registerRecordRoutes(api, cfg.Services, policy)
		registerReportRoutes(api, cfg.Services, policy)
		registerTrendRoutes(api, cfg.Services, policy)
	}

	return router
}

// registerRecordRoutes registers the CRUD resources and their extra operations.
func registerRecordRoutes(rg *gin.RouterGroup, svc *Services, policy middleware.Policy) {
	base := handlers.NewBaseHandler()

	// --- BANK ACCOUNTS ---
	RegisterRecordRoutes(rg.Group("/bank-accounts"), handlers.NewRecordHandler(base, handlers.RecordHandlerConfig[*bankaccount.BankAccount]{
		Service:      svc.BankAccounts.RecordService,
		New:          func() *bankaccount.BankAccount { return bankaccount.NewBankAccount("", "", "") },
		FilterFields: []string{"is_active", "account_type", "bank_name"},
	}), policy, "bank_accounts")

	// --- OWNERS ---
	RegisterRecordRoutes(rg.Group("/owners"), handlers.NewRecordHandler(base, handlers.RecordHandlerConfig[*owner.Owner]{
		Service:      svc.Owners.RecordService,
		New:          func() *owner.Owner { return &owner.Owner{IsActive: true} },
		FilterFields: []string{"is_active", "ownership_percent"},
	}), policy, "owners")

	// --- DAILY SALES ---
	sales := rg.Group("/daily-sales")
	RegisterRecordRoutes(sales, handlers.NewRecordHandler(base, handlers.RecordHandlerConfig[*dailysales.DailySales]{
		Service:      svc.DailySales.RecordService,
		New:          func() *dailysales.DailySales { return &dailysales.DailySales{} },
		FilterFields: []string{"business_date", "fuel_sales", "inside_sales", "cash_over_short"},
	}), policy, "daily_sales")

	daily := handlers.NewDailyHandler(base, svc.DailySales, svc.DailyFuel, svc.Safedrops, svc.ATM)
	sales.GET("/:id/reconciliation", policy.Require("daily_sales", middleware.AccessRead), daily.Reconciliation)

	// --- DAILY FUEL ---
	RegisterRecordRoutes(rg.Group("/daily-fuel"), handlers.NewRecordHandler(base, handlers.RecordHandlerConfig[*dailyfuel.DailyFuel]{
		Service:      svc.DailyFuel.RecordService,
		New:          func() *dailyfuel.DailyFuel { return &dailyfuel.DailyFuel{} },
		FilterFields: []string{"business_date", "grade", "gallons", "amount"},
	}), policy, "daily_fuel")

	// --- SAFEDROPS ---
	RegisterRecordRoutes(rg.Group("/safedrops"), handlers.NewRecordHandler(base, handlers.RecordHandlerConfig[*safedrop.Safedrop]{
		Service:      svc.Safedrops.RecordService,
		New:          func() *safedrop.Safedrop { return &safedrop.Safedrop{} },
		FilterFields: []string{"business_date", "employee", "bag_number", "bank_account_id", "amount"},
	}), policy, "safedrops")

	// --- ATM RECORDS ---
	atmGroup := rg.Group("/atm-records")
	RegisterRecordRoutes(atmGroup, handlers.NewRecordHandler(base, handlers.RecordHandlerConfig[*atm.Record]{
		Service:      svc.ATM.RecordService,
		New:          func() *atm.Record { return &atm.Record{} },
		FilterFields: []string{"business_date", "reconciled", "bank_account_id"},
	}), policy, "atm_records")
	atmGroup.POST("/reconcile", policy.Require("atm_records", middleware.AccessRead), daily.ATMReconcile)

	summaries := rg.Group("/summaries")
	summaries.GET("/fuel/:date", policy.Require("daily_fuel", middleware.AccessRead), daily.FuelSummary)
	summaries.GET("/safedrops/:date", policy.Require("safedrops", middleware.AccessRead), daily.SafedropTotal)

	// --- VENDOR INVOICES ---
	invoices := rg.Group("/vendor-invoices")
	RegisterRecordRoutes(invoices, handlers.NewRecordHandler(base, handlers.RecordHandlerConfig[*vendorinvoice.VendorInvoice]{
		Service:      svc.VendorInvoices.RecordService,
		New:          func() *vendorinvoice.VendorInvoice { return &vendorinvoice.VendorInvoice{} },
		FilterFields: []string{"vendor", "category", "status", "due_date", "amount", "bank_account_id", "payment_method"},
	}), policy, "vendor_invoices")
	invoices.POST("/:id/pay", policy.Require("vendor_invoices", middleware.AccessWrite),
		handlers.NewPayHandler(base, svc.VendorInvoices.MarkPaid).Pay)

	// --- PROVIDER BILLS ---
	bills := rg.Group("/provider-bills")
	RegisterRecordRoutes(bills, handlers.NewRecordHandler(base, handlers.RecordHandlerConfig[*providerbill.ProviderBill]{
		Service:      svc.ProviderBills.RecordService,
		New:          func() *providerbill.ProviderBill { return &providerbill.ProviderBill{} },
		FilterFields: []string{"provider", "service_type", "status", "due_date", "amount", "autopay", "bank_account_id"},
	}), policy, "provider_bills")
	bills.POST("/:id/pay", policy.Require("provider_bills", middleware.AccessWrite),
		handlers.NewPayHandler(base, svc.ProviderBills.MarkPaid).Pay)
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, svc *Services, policy middleware.Policy) {
	h := handlers.NewReportsHandler(handlers.NewBaseHandler(), svc.Reports)
	read := policy.Require("reports", middleware.AccessRead)

	reportsGroup := rg.Group("/reports")
	reportsGroup.GET("/income", read, h.Income)
	reportsGroup.GET("/expense", read, h.Expense)
	reportsGroup.GET("/balance", read, h.Balance)
}

// registerTrendRoutes registers the dashboard widget endpoints.
func registerTrendRoutes(rg *gin.RouterGroup, svc *Services, policy middleware.Policy) {
	h := handlers.NewTrendsHandler(handlers.NewBaseHandler(), svc.Trends)
	read := policy.Require("trends", middleware.AccessRead)

	trendsGroup := rg.Group("/trends")
	trendsGroup.GET("/series", read, h.Series)
	trendsGroup.GET("/card", read, h.Card)
	trendsGroup.GET("/overview", read, h.Overview)
}
