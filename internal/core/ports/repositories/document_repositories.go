package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/pkg/money"
	"github.com/shopspring/decimal"
)

// DocumentReader defines read operations for documents
type DocumentReader interface {
	// FindDocumentByID retrieves a document with its lines.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// FindDocumentByIDForUpdate retrieves a document with its lines and locks the header row.
	FindDocumentByIDForUpdate(ctx context.Context, documentID string) (*domain.Document, error)

	// SumRemainingByPartner sums remaining_amount of the partner's posted documents per kind.
	SumRemainingByPartner(ctx context.Context, partnerID string) (map[domain.DocumentKind]money.Money, error)

	// ListOpenDocumentsByPartner lists posted documents with a non-zero remaining amount.
	ListOpenDocumentsByPartner(ctx context.Context, partnerID string) ([]domain.Document, error)

	// SumPostedTotals sums totals of posted documents of kind dated within [from, to].
	SumPostedTotals(ctx context.Context, kind domain.DocumentKind, from, to time.Time) (money.Money, error)
}

// DocumentWriter defines write operations for documents
type DocumentWriter interface {
	// SaveDocument persists a draft document and its lines.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// MarkDocumentPosted flips a draft to posted together with its settled amounts.
	// It returns apperrors.ErrConflict when the document is no longer a draft.
	MarkDocumentPosted(ctx context.Context, doc domain.Document) error

	// UpdateRemainingAmount stores a new remaining amount after a payment.
	UpdateRemainingAmount(ctx context.Context, documentID string, remaining money.Money, userID string, now time.Time) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}

// InvoicePaymentRepositoryFacade stores payments recorded against invoices
type InvoicePaymentRepositoryFacade interface {
	SavePayment(ctx context.Context, payment domain.InvoicePayment) error
	ListPaymentsByDocument(ctx context.Context, documentID string) ([]domain.InvoicePayment, error)
}

// InventoryRepositoryFacade covers products and stock levels touched by posting
type InventoryRepositoryFacade interface {
	SaveProduct(ctx context.Context, product domain.Product) error

	// FindProductsByIDs returns the products that exist among productIDs.
	FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)

	// ApplyStockDelta adds delta to the stock level. It returns
	// apperrors.ErrInsufficientStock when the level would drop below zero.
	ApplyStockDelta(ctx context.Context, productID, warehouseID string, delta decimal.Decimal) error

	// GetStockLevel returns the current quantity, zero when no row exists.
	GetStockLevel(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error)
}
