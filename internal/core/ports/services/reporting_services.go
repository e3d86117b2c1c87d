package services

import (
	"context"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
)

// ReportingService defines read-only ledger reports
type ReportingService interface {
	// DebtorCreditorSummary totals positive and negative partner balances, excluding shareholders.
	DebtorCreditorSummary(ctx context.Context) (*domain.DebtorCreditorSummary, error)

	PartnerStatement(ctx context.Context, partnerID string) (*domain.PartnerStatement, error)
}
