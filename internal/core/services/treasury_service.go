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
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// treasuryService coordinates the ledger with vouchers, invoices and partners.
// Every exported operation is a single unit of work.
type treasuryService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	ledger       portssvc.LedgerAppender
	ledgerRepo   portsrepo.LedgerReader
	treasuryRepo portsrepo.TreasuryReader
	partnerRepo  portsrepo.PartnerRepositoryFacade
	documentRepo portsrepo.DocumentRepositoryFacade
	paymentRepo  portsrepo.InvoicePaymentRepositoryFacade
	expenseRepo  portsrepo.ExpenseRepositoryFacade
	revenueRepo  portsrepo.RevenueRepositoryFacade
}

// NewTreasuryService creates the orchestrator on top of the ledger appender.
func NewTreasuryService(repos portsrepo.RepositoryProvider, ledger portssvc.LedgerAppender, options ...ServiceOption) portssvc.TreasurySvcFacade {
	return &treasuryService{
		BaseService:  newBaseService(options...),
		txManager:    repos.TxManager,
		ledger:       ledger,
		ledgerRepo:   repos.LedgerRepo,
		treasuryRepo: repos.TreasuryRepo,
		partnerRepo:  repos.PartnerRepo,
		documentRepo: repos.DocumentRepo,
		paymentRepo:  repos.PaymentRepo,
		expenseRepo:  repos.ExpenseRepo,
		revenueRepo:  repos.RevenueRepo,
	}
}

var _ portssvc.TreasurySvcFacade = (*treasuryService)(nil)

func refPtr(r domain.ReferenceType) *domain.ReferenceType { return &r }

// --- Vouchers ---

func (s *treasuryService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, userID string) (*domain.Expense, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrInvalidAmount)
	}
	if _, err := s.treasuryRepo.FindTreasuryByID(ctx, req.TreasuryID); err != nil {
		return nil, err
	}
	expenseDate, err := dto.ParseOptionalDate(req.ExpenseDate, s.Today())
	if err != nil {
		return nil, err
	}

	expense := domain.Expense{
		ExpenseID:   uuid.NewString(),
		TreasuryID:  req.TreasuryID,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		ExpenseDate: expenseDate,
		Status:      domain.StatusDraft,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("treasury_id", req.TreasuryID))
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return &expense, nil
}

func (s *treasuryService) CreateRevenue(ctx context.Context, req dto.CreateRevenueRequest, userID string) (*domain.Revenue, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: revenue amount must be positive", apperrors.ErrInvalidAmount)
	}
	if _, err := s.treasuryRepo.FindTreasuryByID(ctx, req.TreasuryID); err != nil {
		return nil, err
	}
	revenueDate, err := dto.ParseOptionalDate(req.RevenueDate, s.Today())
	if err != nil {
		return nil, err
	}

	revenue := domain.Revenue{
		RevenueID:   uuid.NewString(),
		TreasuryID:  req.TreasuryID,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		RevenueDate: revenueDate,
		Status:      domain.StatusDraft,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.revenueRepo.SaveRevenue(ctx, revenue); err != nil {
		s.LogError(ctx, err, "Failed to save revenue", slog.String("treasury_id", req.TreasuryID))
		return nil, fmt.Errorf("failed to create revenue: %w", err)
	}
	return &revenue, nil
}

func (s *treasuryService) PostExpense(ctx context.Context, expenseID string, userID string) (*domain.TreasuryTransaction, error) {
	var posted *domain.TreasuryTransaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		expense, err := s.expenseRepo.FindExpenseByIDForUpdate(ctx, expenseID)
		if err != nil {
			return err
		}
		if expense.Status == domain.StatusPosted {
			posted, err = s.ledgerRepo.FindTransactionByReference(ctx, domain.RefExpense, expenseID, domain.PurposePosting)
			return err
		}

		posted, err = appendOnce(ctx, s.ledger, domain.TreasuryTransaction{
			TreasuryID:    expense.TreasuryID,
			Type:          domain.TxnExpense,
			Amount:        expense.Amount,
			Description:   expense.Description,
			ReferenceType: refPtr(domain.RefExpense),
			ReferenceID:   &expense.ExpenseID,
			Purpose:       domain.PurposePosting,
			CreatedBy:     userID,
		})
		if err != nil {
			return err
		}
		return s.expenseRepo.MarkExpensePosted(ctx, expenseID, userID, s.Now())
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to post expense", slog.String("expense_id", expenseID))
		return nil, err
	}

	s.LogInfo(ctx, "Expense posted",
		slog.String("expense_id", expenseID),
		slog.String("transaction_id", posted.TransactionID))
	return posted, nil
}

func (s *treasuryService) PostRevenue(ctx context.Context, revenueID string, userID string) (*domain.TreasuryTransaction, error) {
	var posted *domain.TreasuryTransaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		revenue, err := s.revenueRepo.FindRevenueByIDForUpdate(ctx, revenueID)
		if err != nil {
			return err
		}
		if revenue.Status == domain.StatusPosted {
			posted, err = s.ledgerRepo.FindTransactionByReference(ctx, domain.RefRevenue, revenueID, domain.PurposePosting)
			return err
		}

		posted, err = appendOnce(ctx, s.ledger, domain.TreasuryTransaction{
			TreasuryID:    revenue.TreasuryID,
			Type:          domain.TxnIncome,
			Amount:        revenue.Amount,
			Description:   revenue.Description,
			ReferenceType: refPtr(domain.RefRevenue),
			ReferenceID:   &revenue.RevenueID,
			Purpose:       domain.PurposePosting,
			CreatedBy:     userID,
		})
		if err != nil {
			return err
		}
		return s.revenueRepo.MarkRevenuePosted(ctx, revenueID, userID, s.Now())
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to post revenue", slog.String("revenue_id", revenueID))
		return nil, err
	}

	s.LogInfo(ctx, "Revenue posted",
		slog.String("revenue_id", revenueID),
		slog.String("transaction_id", posted.TransactionID))
	return posted, nil
}

// --- Invoice payments ---

func (s *treasuryService) RecordInvoicePayment(ctx context.Context, documentID string, req dto.RecordInvoicePaymentRequest, userID string) (*domain.InvoicePayment, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrInvalidAmount)
	}
	if req.Discount.IsNegative() {
		return nil, fmt.Errorf("%w: discount must not be negative", apperrors.ErrInvalidAmount)
	}
	paymentDate, err := dto.ParseOptionalDate(req.PaymentDate, s.Today())
	if err != nil {
		return nil, err
	}

	var payment domain.InvoicePayment
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.documentRepo.FindDocumentByIDForUpdate(ctx, documentID)
		if err != nil {
			return err
		}
		if !doc.Kind.IsPayable() {
			return fmt.Errorf("%w: payments are only recorded against invoices, not %s", apperrors.ErrValidation, doc.Kind)
		}
		if !doc.IsPosted() {
			return fmt.Errorf("%w: document %s must be posted before it can be paid", apperrors.ErrConflict, documentID)
		}
		// Installment invoices are collected per installment so the schedule stays in step.
		if doc.PaymentMethod == domain.PaymentInstallment {
			return fmt.Errorf("%w: document %s is collected through its installments", apperrors.ErrValidation, documentID)
		}

		settles := req.Amount.Add(req.Discount)
		if settles.GreaterThan(doc.RemainingAmount) {
			return fmt.Errorf("%w: paying %s against %s remaining", apperrors.ErrExceedsRemainingAmount, settles, doc.RemainingAmount)
		}

		paymentID := uuid.NewString()
		entry, err := s.ledger.Append(ctx, domain.TreasuryTransaction{
			TreasuryID:    req.TreasuryID,
			Type:          doc.Kind.SettlementType(),
			Amount:        req.Amount,
			Description:   fmt.Sprintf("Payment for %s %s", doc.Kind, doc.DocumentID),
			PartnerID:     doc.PartnerID,
			ReferenceType: refPtr(domain.RefInvoicePayment),
			ReferenceID:   &paymentID,
			Purpose:       domain.PurposePosting,
			CreatedBy:     userID,
		})
		if err != nil {
			return err
		}

		now := s.Now()
		payment = domain.InvoicePayment{
			PaymentID:     paymentID,
			DocumentKind:  doc.Kind,
			DocumentID:    doc.DocumentID,
			Amount:        req.Amount,
			Discount:      req.Discount,
			PaymentDate:   paymentDate,
			PartnerID:     doc.PartnerID,
			TreasuryID:    req.TreasuryID,
			TransactionID: entry.TransactionID,
			Notes:         req.Notes,
			CreatedAt:     now,
			CreatedBy:     userID,
		}
		if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
			return err
		}
		if err := s.documentRepo.UpdateRemainingAmount(ctx, doc.DocumentID, doc.RemainingAmount.Sub(settles), userID, now); err != nil {
			return err
		}

		if doc.PartnerID != nil {
			if _, err := s.UpdatePartnerBalance(ctx, *doc.PartnerID, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to record invoice payment",
			slog.String("document_id", documentID),
			slog.String("amount", req.Amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Invoice payment recorded",
		slog.String("document_id", documentID),
		slog.String("payment_id", payment.PaymentID),
		slog.String("amount", payment.Amount.String()))
	return &payment, nil
}

// --- Partners and ad hoc entries ---

func (s *treasuryService) UpdatePartnerBalance(ctx context.Context, partnerID string, userID string) (money.Money, error) {
	var balance money.Money
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.partnerRepo.FindPartnerByIDForUpdate(ctx, partnerID); err != nil {
			return err
		}
		remaining, err := s.documentRepo.SumRemainingByPartner(ctx, partnerID)
		if err != nil {
			return err
		}
		unsettled, err := s.ledgerRepo.SumUnsettledByPartner(ctx, partnerID)
		if err != nil {
			return err
		}
		balance = domain.ComputePartnerBalance(remaining, unsettled)
		return s.partnerRepo.UpdatePartnerBalance(ctx, partnerID, balance, userID, s.Now())
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to recalculate partner balance", slog.String("partner_id", partnerID))
		return money.Zero(), err
	}

	s.LogDebug(ctx, "Partner balance recalculated",
		slog.String("partner_id", partnerID),
		slog.String("balance", balance.String()))
	return balance, nil
}

func (s *treasuryService) RecordTransaction(ctx context.Context, req dto.RecordTransactionRequest, userID string) (*domain.TreasuryTransaction, error) {
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.Type)
	}
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must not be zero", apperrors.ErrInvalidAmount)
	}

	entry := domain.TreasuryTransaction{
		TreasuryID:  req.TreasuryID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		PartnerID:   req.PartnerID,
		EmployeeID:  req.EmployeeID,
		CreatedBy:   userID,
	}
	if req.ReferenceType != nil {
		refType, err := domain.ParseReferenceType(*req.ReferenceType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if req.ReferenceID == nil || *req.ReferenceID == "" {
			return nil, fmt.Errorf("%w: referenceID is required with referenceType", apperrors.ErrValidation)
		}
		entry.ReferenceType = &refType
		entry.ReferenceID = req.ReferenceID
	}

	var posted *domain.TreasuryTransaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if entry.HasReference() {
			exists, err := s.ledgerRepo.ReferenceExists(ctx, *entry.ReferenceType, *entry.ReferenceID)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("%w: referenced %s %s does not exist", apperrors.ErrValidation, *entry.ReferenceType, *entry.ReferenceID)
			}
		}

		var err error
		posted, err = s.ledger.Append(ctx, entry)
		if err != nil {
			return err
		}
		if entry.PartnerID != nil {
			if _, err := s.UpdatePartnerBalance(ctx, *entry.PartnerID, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to record treasury transaction",
			slog.String("treasury_id", req.TreasuryID),
			slog.String("type", string(req.Type)))
		return nil, err
	}

	s.LogInfo(ctx, "Treasury transaction recorded",
		slog.String("transaction_id", posted.TransactionID),
		slog.String("treasury_id", posted.TreasuryID),
		slog.String("amount", posted.Amount.String()))
	return posted, nil
}
