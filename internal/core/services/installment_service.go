package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
)

type installmentService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	installmentRepo portsrepo.InstallmentRepositoryFacade
	documentRepo    portsrepo.DocumentRepositoryFacade
	ledger          portssvc.LedgerAppender
	balances        portssvc.PartnerBalanceUpdater
}

// NewInstallmentService creates the installment scheduler and collector.
func NewInstallmentService(
	repos portsrepo.RepositoryProvider,
	ledger portssvc.LedgerAppender,
	balances portssvc.PartnerBalanceUpdater,
	options ...ServiceOption,
) portssvc.InstallmentSvcFacade {
	return &installmentService{
		BaseService:     newBaseService(options...),
		txManager:       repos.TxManager,
		installmentRepo: repos.InstallmentRepo,
		documentRepo:    repos.DocumentRepo,
		ledger:          ledger,
		balances:        balances,
	}
}

var _ portssvc.InstallmentSvcFacade = (*installmentService)(nil)

// GenerateSchedule splits the invoice's remaining amount into plan.Count
// installments at cent precision. The last one absorbs the rounding remainder.
func (s *installmentService) GenerateSchedule(ctx context.Context, invoice domain.Document, plan domain.InstallmentPlan) ([]domain.Installment, error) {
	if invoice.Kind != domain.DocSalesInvoice {
		return nil, fmt.Errorf("%w: installments are only scheduled for sales invoices", apperrors.ErrValidation)
	}
	if plan.Count < 1 {
		return nil, fmt.Errorf("%w: installment count must be at least 1", apperrors.ErrValidation)
	}
	if plan.Count > 1 && plan.IntervalDays < 1 {
		return nil, fmt.Errorf("%w: interval must be at least one day", apperrors.ErrValidation)
	}
	if !invoice.RemainingAmount.IsPositive() {
		return nil, fmt.Errorf("%w: nothing remains to schedule on invoice %s", apperrors.ErrInvalidAmount, invoice.DocumentID)
	}

	now := s.Now()
	parts := invoice.RemainingAmount.Split(plan.Count, domain.InstallmentPrecision)
	schedule := make([]domain.Installment, plan.Count)
	for k, amount := range parts {
		schedule[k] = domain.Installment{
			InstallmentID:     uuid.NewString(),
			SalesInvoiceID:    invoice.DocumentID,
			InstallmentNumber: k + 1,
			Amount:            amount,
			DueDate:           domain.InstallmentDueDate(plan.FirstDueDate, k, plan.IntervalDays),
			Status:            domain.InstallmentPending,
			CreatedAt:         now,
		}
	}

	if err := s.installmentRepo.SaveInstallments(ctx, schedule); err != nil {
		s.LogFailure(ctx, err, "Failed to save installment schedule", slog.String("invoice_id", invoice.DocumentID))
		return nil, err
	}

	s.LogInfo(ctx, "Installment schedule generated",
		slog.String("invoice_id", invoice.DocumentID),
		slog.Int("count", plan.Count),
		slog.String("total", invoice.RemainingAmount.String()))
	return schedule, nil
}

func (s *installmentService) ListInstallments(ctx context.Context, invoiceID string) ([]domain.Installment, error) {
	if _, err := s.documentRepo.FindDocumentByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.installmentRepo.ListInstallmentsByInvoice(ctx, invoiceID)
}

func (s *installmentService) SweepOverdue(ctx context.Context, today time.Time) (int64, error) {
	day := domain.DateOnly(today)
	updated, err := s.installmentRepo.MarkOverdue(ctx, day)
	if err != nil {
		s.LogError(ctx, err, "Overdue sweep failed", slog.String("date", day.Format(dto.DateLayout)))
		return 0, err
	}
	s.LogInfo(ctx, "Overdue sweep finished",
		slog.String("date", day.Format(dto.DateLayout)),
		slog.Int64("updated", updated))
	return updated, nil
}

func (s *installmentService) RecordInstallmentPayment(ctx context.Context, installmentID string, req dto.RecordInstallmentPaymentRequest, userID string) (*domain.Installment, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrInvalidAmount)
	}

	var installment *domain.Installment
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		installment, err = s.installmentRepo.FindInstallmentByIDForUpdate(ctx, installmentID)
		if err != nil {
			return err
		}
		remaining := installment.Remaining()
		if req.Amount.GreaterThan(remaining) {
			return fmt.Errorf("%w: paying %s against %s remaining on installment %d",
				apperrors.ErrExceedsRemainingAmount, req.Amount, remaining, installment.InstallmentNumber)
		}

		invoice, err := s.documentRepo.FindDocumentByIDForUpdate(ctx, installment.SalesInvoiceID)
		if err != nil {
			return err
		}

		now := s.Now()
		installment.ApplyPayment(req.Amount, now)
		if err := s.installmentRepo.UpdateInstallmentPayment(ctx, *installment); err != nil {
			return err
		}

		// Partial payments share the reference, so the entry carries no purpose.
		_, err = s.ledger.Append(ctx, domain.TreasuryTransaction{
			TreasuryID:    req.TreasuryID,
			Type:          domain.TxnCollection,
			Amount:        req.Amount,
			Description:   fmt.Sprintf("Installment %d of invoice %s", installment.InstallmentNumber, invoice.DocumentID),
			PartnerID:     invoice.PartnerID,
			ReferenceType: refPtr(domain.RefInstallment),
			ReferenceID:   &installment.InstallmentID,
			CreatedBy:     userID,
		})
		if err != nil {
			return err
		}

		if err := s.documentRepo.UpdateRemainingAmount(ctx, invoice.DocumentID, invoice.RemainingAmount.Sub(req.Amount), userID, now); err != nil {
			return err
		}
		if invoice.PartnerID != nil {
			if _, err := s.balances.UpdatePartnerBalance(ctx, *invoice.PartnerID, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to record installment payment",
			slog.String("installment_id", installmentID),
			slog.String("amount", req.Amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Installment payment recorded",
		slog.String("installment_id", installmentID),
		slog.String("status", string(installment.Status)))
	return installment, nil
}
