package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
)

type partnerService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	partnerRepo portsrepo.PartnerRepositoryFacade
}

// NewPartnerService creates a new PartnerService.
func NewPartnerService(txManager portsrepo.TransactionManager, partnerRepo portsrepo.PartnerRepositoryFacade, options ...ServiceOption) portssvc.PartnerSvcFacade {
	return &partnerService{
		BaseService: newBaseService(options...),
		txManager:   txManager,
		partnerRepo: partnerRepo,
	}
}

var _ portssvc.PartnerSvcFacade = (*partnerService)(nil)

func (s *partnerService) CreatePartner(ctx context.Context, req dto.CreatePartnerRequest, userID string) (*domain.Partner, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: partner name is required", apperrors.ErrValidation)
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown partner type %q", apperrors.ErrValidation, req.Type)
	}

	partner := domain.Partner{
		PartnerID:   uuid.NewString(),
		Name:        name,
		Type:        req.Type,
		Phone:       strings.TrimSpace(req.Phone),
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.partnerRepo.SavePartner(ctx, partner); err != nil {
		s.LogError(ctx, err, "Failed to save partner", slog.String("name", name))
		return nil, fmt.Errorf("failed to create partner: %w", err)
	}
	return &partner, nil
}

func (s *partnerService) GetPartner(ctx context.Context, partnerID string) (*domain.Partner, error) {
	return s.partnerRepo.FindPartnerByID(ctx, partnerID)
}

func (s *partnerService) ListPartners(ctx context.Context, params dto.ListPartnersParams) ([]domain.Partner, error) {
	var filter *domain.PartnerType
	if params.Type != "" {
		t := domain.PartnerType(params.Type)
		if !t.IsValid() {
			return nil, fmt.Errorf("%w: unknown partner type %q", apperrors.ErrValidation, params.Type)
		}
		filter = &t
	}
	return s.partnerRepo.ListPartners(ctx, filter)
}

func (s *partnerService) DeletePartner(ctx context.Context, partnerID string, userID string) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.partnerRepo.FindPartnerByIDForUpdate(ctx, partnerID); err != nil {
			return err
		}
		referenced, err := s.partnerRepo.PartnerHasReferences(ctx, partnerID)
		if err != nil {
			return err
		}
		if referenced {
			return fmt.Errorf("%w: partner %s has documents or ledger entries", apperrors.ErrHasAssociatedRecords, partnerID)
		}
		return s.partnerRepo.DeletePartner(ctx, partnerID)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete partner", slog.String("partner_id", partnerID))
		return err
	}
	s.LogInfo(ctx, "Partner deleted", slog.String("partner_id", partnerID), slog.String("user_id", userID))
	return nil
}
