package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
)

// InstallmentReader defines read operations for installments
type InstallmentReader interface {
	FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)
	FindInstallmentByIDForUpdate(ctx context.Context, installmentID string) (*domain.Installment, error)
	// ListInstallmentsByInvoice returns the schedule ordered by installment number.
	ListInstallmentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Installment, error)
}

// InstallmentWriter defines write operations for installments
type InstallmentWriter interface {
	SaveInstallments(ctx context.Context, installments []domain.Installment) error
	UpdateInstallmentPayment(ctx context.Context, installment domain.Installment) error
	// MarkOverdue flips every pending installment due before today to overdue and
	// returns how many rows changed.
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}

// InstallmentRepositoryFacade combines all installment-related repository interfaces
type InstallmentRepositoryFacade interface {
	InstallmentReader
	InstallmentWriter
}
