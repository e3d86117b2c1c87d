package services

import (
	"context"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// TreasuryReaderSvc defines read operations for treasuries and their ledger
type TreasuryReaderSvc interface {
	GetTreasury(ctx context.Context, treasuryID string) (*domain.Treasury, error)
	ListTreasuries(ctx context.Context) ([]domain.Treasury, error)

	// GetBalance sums the treasury's ledger inside a transaction.
	GetBalance(ctx context.Context, treasuryID string) (money.Money, error)

	// ListTransactions returns a page of entries, newest first.
	ListTransactions(ctx context.Context, treasuryID string, params dto.ListTreasuryTransactionsParams) (*dto.ListTreasuryTransactionsResponse, error)
}

// TreasuryWriterSvc defines write operations for treasuries
type TreasuryWriterSvc interface {
	CreateTreasury(ctx context.Context, req dto.CreateTreasuryRequest, userID string) (*domain.Treasury, error)

	// DeleteTreasury fails with apperrors.ErrHasAssociatedRecords when anything references the treasury.
	DeleteTreasury(ctx context.Context, treasuryID string, userID string) error
}

// LedgerAppender appends signed entries to the ledger.
type LedgerAppender interface {
	// Append signs entry.Amount by entry.Type, enforces the overdraft policy and
	// inserts the entry. When an entry with the same reference and purpose already
	// exists it returns that entry together with apperrors.ErrDuplicatePosting.
	Append(ctx context.Context, entry domain.TreasuryTransaction) (*domain.TreasuryTransaction, error)
}

// LedgerSvcFacade combines all treasury ledger service interfaces
type LedgerSvcFacade interface {
	TreasuryReaderSvc
	TreasuryWriterSvc
	LedgerAppender
}
