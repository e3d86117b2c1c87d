package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// TreasuryReader defines read operations for treasury data
type TreasuryReader interface {
	// FindTreasuryByID retrieves a treasury by its unique identifier.
	FindTreasuryByID(ctx context.Context, treasuryID string) (*domain.Treasury, error)

	// FindTreasuryByIDForUpdate retrieves a treasury and locks its row until the
	// surrounding transaction ends. Writers to one treasury serialize on this lock.
	FindTreasuryByIDForUpdate(ctx context.Context, treasuryID string) (*domain.Treasury, error)

	// ListTreasuries retrieves all treasuries ordered by name.
	ListTreasuries(ctx context.Context) ([]domain.Treasury, error)

	// TreasuryHasReferences reports whether any transaction, expense, revenue or
	// fixed asset points at the treasury.
	TreasuryHasReferences(ctx context.Context, treasuryID string) (bool, error)
}

// TreasuryWriter defines write operations for treasury data
type TreasuryWriter interface {
	SaveTreasury(ctx context.Context, treasury domain.Treasury) error
	DeleteTreasury(ctx context.Context, treasuryID string) error
}

// TreasuryRepositoryFacade combines all treasury-related repository interfaces
type TreasuryRepositoryFacade interface {
	TreasuryReader
	TreasuryWriter
}

// LedgerReader defines read operations over treasury transactions
type LedgerReader interface {
	// FindTransactionByReference returns the entry posted for (refType, refID, purpose).
	FindTransactionByReference(ctx context.Context, refType domain.ReferenceType, refID, purpose string) (*domain.TreasuryTransaction, error)

	// SumByTreasury returns the signed sum of every entry of the treasury.
	SumByTreasury(ctx context.Context, treasuryID string) (money.Money, error)

	// ListTransactionsByTreasury returns entries newest first using token-based pagination.
	ListTransactionsByTreasury(ctx context.Context, treasuryID string, limit int, nextToken *string) ([]domain.TreasuryTransaction, *string, error)

	// ListTransactionsByPartner returns every entry linked to the partner, oldest first.
	ListTransactionsByPartner(ctx context.Context, partnerID string) ([]domain.TreasuryTransaction, error)

	// SumUnsettledByPartner sums the partner's entries that do not settle a document.
	SumUnsettledByPartner(ctx context.Context, partnerID string) (money.Money, error)

	// SumPartnerEntries sums the partner's entries of txType created on a
	// calendar day in [from, to].
	SumPartnerEntries(ctx context.Context, partnerID string, txType domain.TransactionType, from, to time.Time) (money.Money, error)

	// ReferenceExists reports whether the referenced row exists.
	ReferenceExists(ctx context.Context, refType domain.ReferenceType, refID string) (bool, error)
}

// LedgerWriter appends to the ledger. Entries are never updated or deleted.
type LedgerWriter interface {
	// InsertTransaction appends an entry. When the entry carries a reference and a
	// purpose that were already posted it returns apperrors.ErrDuplicatePosting
	// and writes nothing.
	InsertTransaction(ctx context.Context, txn domain.TreasuryTransaction) error
}

// LedgerRepositoryFacade combines ledger reads and appends
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
