package services

import (
	"context"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/internal/dto"
)

// PartnerSvcFacade manages customers, suppliers and shareholders
type PartnerSvcFacade interface {
	CreatePartner(ctx context.Context, req dto.CreatePartnerRequest, userID string) (*domain.Partner, error)
	GetPartner(ctx context.Context, partnerID string) (*domain.Partner, error)
	ListPartners(ctx context.Context, params dto.ListPartnersParams) ([]domain.Partner, error)

	// DeletePartner fails with apperrors.ErrHasAssociatedRecords when documents or entries point at the partner.
	DeletePartner(ctx context.Context, partnerID string, userID string) error
}
