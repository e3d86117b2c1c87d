package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// PartnerReader defines read operations for partner data
type PartnerReader interface {
	FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error)

	// FindPartnerByIDForUpdate locks the partner row for the rest of the transaction.
	FindPartnerByIDForUpdate(ctx context.Context, partnerID string) (*domain.Partner, error)

	// ListPartners lists partners, optionally restricted to one type.
	ListPartners(ctx context.Context, partnerType *domain.PartnerType) ([]domain.Partner, error)

	// PartnerHasReferences reports whether documents or ledger entries point at the partner.
	PartnerHasReferences(ctx context.Context, partnerID string) (bool, error)
}

// PartnerWriter defines write operations for partner data
type PartnerWriter interface {
	SavePartner(ctx context.Context, partner domain.Partner) error

	// UpdatePartnerBalance overwrites the cached balance with a recomputed value.
	UpdatePartnerBalance(ctx context.Context, partnerID string, balance money.Money, userID string, now time.Time) error

	DeletePartner(ctx context.Context, partnerID string) error
}

// PartnerRepositoryFacade combines all partner-related repository interfaces
type PartnerRepositoryFacade interface {
	PartnerReader
	PartnerWriter
}
