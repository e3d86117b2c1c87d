package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager       TransactionManager
	TreasuryRepo    TreasuryRepositoryFacade
	LedgerRepo      LedgerRepositoryFacade
	PartnerRepo     PartnerRepositoryFacade
	DocumentRepo    DocumentRepositoryFacade
	PaymentRepo     InvoicePaymentRepositoryFacade
	InventoryRepo   InventoryRepositoryFacade
	ExpenseRepo     ExpenseRepositoryFacade
	RevenueRepo     RevenueRepositoryFacade
	InstallmentRepo InstallmentRepositoryFacade
	EquityRepo      EquityRepositoryFacade
	UserRepo        UserRepositoryFacade
}
