package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/internal/middleware"
	"github.com/SscSPs/treasury_ledger/internal/utils/pagination"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// ledgerService owns treasuries and the append-only treasury ledger.
type ledgerService struct {
	BaseService
	txManager          portsrepo.TransactionManager
	treasuryRepo       portsrepo.TreasuryRepositoryFacade
	ledgerRepo         portsrepo.LedgerRepositoryFacade
	partnerRepo        portsrepo.PartnerReader
	bankAllowOverdraft bool
}

// NewLedgerService creates the treasury ledger service. bankAllowOverdraft is the
// default for bank treasuries created without an explicit overdraft flag.
func NewLedgerService(
	txManager portsrepo.TransactionManager,
	treasuryRepo portsrepo.TreasuryRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	partnerRepo portsrepo.PartnerReader,
	bankAllowOverdraft bool,
	options ...ServiceOption,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService:        newBaseService(options...),
		txManager:          txManager,
		treasuryRepo:       treasuryRepo,
		ledgerRepo:         ledgerRepo,
		partnerRepo:        partnerRepo,
		bankAllowOverdraft: bankAllowOverdraft,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) CreateTreasury(ctx context.Context, req dto.CreateTreasuryRequest, userID string) (*domain.Treasury, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: treasury name is required", apperrors.ErrValidation)
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown treasury type %q", apperrors.ErrValidation, req.Type)
	}

	allowOverdraft := false
	if req.Type == domain.TreasuryBank {
		allowOverdraft = s.bankAllowOverdraft
		if req.AllowOverdraft != nil {
			allowOverdraft = *req.AllowOverdraft
		}
	}

	treasury := domain.Treasury{
		TreasuryID:     uuid.NewString(),
		Name:           name,
		Type:           req.Type,
		AllowOverdraft: allowOverdraft,
		AuditFields:    domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.treasuryRepo.SaveTreasury(ctx, treasury); err != nil {
		s.LogError(ctx, err, "Failed to save treasury", slog.String("name", name))
		return nil, fmt.Errorf("failed to create treasury: %w", err)
	}

	s.LogInfo(ctx, "Treasury created",
		slog.String("treasury_id", treasury.TreasuryID),
		slog.String("type", string(treasury.Type)),
		slog.Bool("allow_overdraft", treasury.AllowOverdraft))
	return &treasury, nil
}

func (s *ledgerService) GetTreasury(ctx context.Context, treasuryID string) (*domain.Treasury, error) {
	return s.treasuryRepo.FindTreasuryByID(ctx, treasuryID)
}

func (s *ledgerService) ListTreasuries(ctx context.Context) ([]domain.Treasury, error) {
	return s.treasuryRepo.ListTreasuries(ctx)
}

func (s *ledgerService) GetBalance(ctx context.Context, treasuryID string) (money.Money, error) {
	var balance money.Money
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.treasuryRepo.FindTreasuryByID(ctx, treasuryID); err != nil {
			return err
		}
		sum, err := s.ledgerRepo.SumByTreasury(ctx, treasuryID)
		if err != nil {
			return err
		}
		balance = sum
		return nil
	})
	if err != nil {
		return money.Zero(), err
	}
	return balance, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, treasuryID string, params dto.ListTreasuryTransactionsParams) (*dto.ListTreasuryTransactionsResponse, error) {
	if _, err := s.treasuryRepo.FindTreasuryByID(ctx, treasuryID); err != nil {
		return nil, err
	}

	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}

	entries, next, err := s.ledgerRepo.ListTransactionsByTreasury(ctx, treasuryID, pagination.ClampLimit(params.Limit), nextToken)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to list treasury transactions", slog.String("treasury_id", treasuryID))
		return nil, err
	}
	return &dto.ListTreasuryTransactionsResponse{Transactions: entries, NextToken: next}, nil
}

func (s *ledgerService) DeleteTreasury(ctx context.Context, treasuryID string, userID string) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.treasuryRepo.FindTreasuryByIDForUpdate(ctx, treasuryID); err != nil {
			return err
		}
		referenced, err := s.treasuryRepo.TreasuryHasReferences(ctx, treasuryID)
		if err != nil {
			return err
		}
		if referenced {
			return fmt.Errorf("%w: treasury %s is used by ledger entries or vouchers", apperrors.ErrHasAssociatedRecords, treasuryID)
		}
		return s.treasuryRepo.DeleteTreasury(ctx, treasuryID)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete treasury", slog.String("treasury_id", treasuryID))
		return err
	}

	s.LogInfo(ctx, "Treasury deleted", slog.String("treasury_id", treasuryID), slog.String("user_id", userID))
	return nil
}

func (s *ledgerService) Append(ctx context.Context, entry domain.TreasuryTransaction) (*domain.TreasuryTransaction, error) {
	if !entry.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, entry.Type)
	}
	if entry.Amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must not be zero", apperrors.ErrInvalidAmount)
	}

	entry.Amount = entry.Type.SignedAmount(entry.Amount)
	if entry.TransactionID == "" {
		entry.TransactionID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.Now()
	}

	var posted *domain.TreasuryTransaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		guarded := entry.HasReference() && entry.Purpose != ""
		if guarded {
			existing, err := s.ledgerRepo.FindTransactionByReference(ctx, *entry.ReferenceType, *entry.ReferenceID, entry.Purpose)
			if err == nil {
				posted = existing
				return fmt.Errorf("%w: %s %s", apperrors.ErrDuplicatePosting, *entry.ReferenceType, *entry.ReferenceID)
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
		}

		treasury, err := s.treasuryRepo.FindTreasuryByIDForUpdate(ctx, entry.TreasuryID)
		if err != nil {
			return err
		}
		if entry.PartnerID != nil {
			if _, err := s.partnerRepo.FindPartnerByID(ctx, *entry.PartnerID); err != nil {
				return err
			}
		}

		balance, err := s.ledgerRepo.SumByTreasury(ctx, entry.TreasuryID)
		if err != nil {
			return err
		}
		if !treasury.CanApply(balance, entry.Amount) {
			return fmt.Errorf("%w: treasury %s holds %s, cannot post %s",
				apperrors.ErrInsufficientBalance, treasury.TreasuryID, balance, entry.Amount)
		}

		if err := s.ledgerRepo.InsertTransaction(ctx, entry); err != nil {
			if guarded && errors.Is(err, apperrors.ErrDuplicatePosting) {
				// Lost a race with a concurrent post of the same reference.
				if existing, findErr := s.ledgerRepo.FindTransactionByReference(ctx, *entry.ReferenceType, *entry.ReferenceID, entry.Purpose); findErr == nil {
					posted = existing
				}
			}
			return err
		}
		posted = &entry
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicatePosting) && posted != nil {
			return posted, err
		}
		s.LogFailure(ctx, err, "Failed to append treasury transaction",
			slog.String("treasury_id", entry.TreasuryID),
			slog.String("type", string(entry.Type)),
			slog.String("amount", entry.Amount.String()))
		return nil, err
	}

	s.LogDebug(ctx, "Treasury transaction appended",
		slog.String("transaction_id", posted.TransactionID),
		slog.String("treasury_id", posted.TreasuryID),
		slog.String("amount", posted.Amount.String()))
	return posted, nil
}

// appendOnce appends entry through ledger and treats an already posted
// reference as success, returning the entry that was posted first.
func appendOnce(ctx context.Context, ledger portssvc.LedgerAppender, entry domain.TreasuryTransaction) (*domain.TreasuryTransaction, error) {
	posted, err := ledger.Append(ctx, entry)
	if errors.Is(err, apperrors.ErrDuplicatePosting) && posted != nil {
		middleware.GetLoggerFromCtx(ctx).Info("Reference already posted, skipping",
			slog.String("reference_type", string(*entry.ReferenceType)),
			slog.String("reference_id", *entry.ReferenceID),
			slog.String("transaction_id", posted.TransactionID))
		return posted, nil
	}
	return posted, err
}
