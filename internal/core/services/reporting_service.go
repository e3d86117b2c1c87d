package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	partnerRepo  portsrepo.PartnerReader
	ledgerRepo   portsrepo.LedgerReader
	documentRepo portsrepo.DocumentReader
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repos portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.ReportingService {
	return &reportingService{
		BaseService:  newBaseService(options...),
		partnerRepo:  repos.PartnerRepo,
		ledgerRepo:   repos.LedgerRepo,
		documentRepo: repos.DocumentRepo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// DebtorCreditorSummary reads the cached partner balances.
func (s *reportingService) DebtorCreditorSummary(ctx context.Context) (*domain.DebtorCreditorSummary, error) {
	partners, err := s.partnerRepo.ListPartners(ctx, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to list partners for debtor/creditor summary")
		return nil, fmt.Errorf("failed to retrieve partners: %w", err)
	}

	summary := domain.SummarizePartners(partners)
	s.LogInfo(ctx, "Debtor/creditor summary generated",
		slog.Int("debtor_count", summary.DebtorCount),
		slog.Int("creditor_count", summary.CreditorCount))
	return &summary, nil
}

// PartnerStatement returns a partner with its ledger history and open documents
func (s *reportingService) PartnerStatement(ctx context.Context, partnerID string) (*domain.PartnerStatement, error) {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.ListTransactionsByPartner(ctx, partnerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list partner transactions", slog.String("partner_id", partnerID))
		return nil, fmt.Errorf("failed to retrieve partner transactions: %w", err)
	}

	openDocs, err := s.documentRepo.ListOpenDocumentsByPartner(ctx, partnerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list open documents", slog.String("partner_id", partnerID))
		return nil, fmt.Errorf("failed to retrieve open documents: %w", err)
	}

	return &domain.PartnerStatement{
		Partner:       *partner,
		Transactions:  entries,
		OpenDocuments: openDocs,
	}, nil
}
