package services

import (
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The ledger is the only writer of treasury transactions; everything else appends through it
	container.Ledger = NewLedgerService(repos.TxManager, repos.TreasuryRepo, repos.LedgerRepo, repos.PartnerRepo, cfg.BankAllowOverdraft, options...)
	container.Treasury = NewTreasuryService(repos, container.Ledger, options...)
	container.Installment = NewInstallmentService(repos, container.Ledger, container.Treasury, options...)
	container.Document = NewDocumentService(repos, container.Ledger, container.Installment, container.Treasury, options...)

	container.Partner = NewPartnerService(repos.TxManager, repos.PartnerRepo, options...)
	container.Equity = NewEquityService(repos, options...)
	container.Reporting = NewReportingService(repos, options...)

	container.User = NewUserService(repos.UserRepo, options...)
	container.Token = NewTokenService(cfg, repos.UserRepo, options...)

	return container
}
