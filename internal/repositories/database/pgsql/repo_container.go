package pgsql

import (
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:       &BaseRepository{Pool: dbPool},
		TreasuryRepo:    newPgxTreasuryRepository(dbPool),
		LedgerRepo:      newPgxLedgerRepository(dbPool),
		PartnerRepo:     newPgxPartnerRepository(dbPool),
		DocumentRepo:    newPgxDocumentRepository(dbPool),
		PaymentRepo:     newPgxInvoicePaymentRepository(dbPool),
		InventoryRepo:   newPgxInventoryRepository(dbPool),
		ExpenseRepo:     newPgxExpenseRepository(dbPool),
		RevenueRepo:     newPgxRevenueRepository(dbPool),
		InstallmentRepo: newPgxInstallmentRepository(dbPool),
		EquityRepo:      newPgxEquityRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
	}
}
