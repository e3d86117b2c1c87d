package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// documentService drives invoices, returns and stock adjustments from draft to posted.
type documentService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	documentRepo  portsrepo.DocumentRepositoryFacade
	inventoryRepo portsrepo.InventoryRepositoryFacade
	partnerRepo   portsrepo.PartnerReader
	treasuryRepo  portsrepo.TreasuryReader
	ledger        portssvc.LedgerAppender
	schedules     portssvc.ScheduleGenerator
	balances      portssvc.PartnerBalanceUpdater
}

// NewDocumentService creates the document posting service.
func NewDocumentService(
	repos portsrepo.RepositoryProvider,
	ledger portssvc.LedgerAppender,
	schedules portssvc.ScheduleGenerator,
	balances portssvc.PartnerBalanceUpdater,
	options ...ServiceOption,
) portssvc.DocumentSvcFacade {
	return &documentService{
		BaseService:   newBaseService(options...),
		txManager:     repos.TxManager,
		documentRepo:  repos.DocumentRepo,
		inventoryRepo: repos.InventoryRepo,
		partnerRepo:   repos.PartnerRepo,
		treasuryRepo:  repos.TreasuryRepo,
		ledger:        ledger,
		schedules:     schedules,
		balances:      balances,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

func (s *documentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, userID string) (*domain.Document, error) {
	if !req.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, req.Kind)
	}
	method := req.PaymentMethod
	if method == "" {
		method = domain.PaymentCash
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.PaymentMethod)
	}
	if req.Discount.IsNegative() || req.PaidAmount.IsNegative() {
		return nil, fmt.Errorf("%w: discount and paid amount must not be negative", apperrors.ErrInvalidAmount)
	}
	documentDate, err := dto.ParseOptionalDate(req.DocumentDate, s.Today())
	if err != nil {
		return nil, err
	}

	lines := make([]domain.DocumentLine, len(req.Lines))
	for i, l := range req.Lines {
		if req.Kind == domain.DocStockAdjustment {
			if l.Quantity.IsZero() {
				return nil, fmt.Errorf("%w: line %d: adjustment quantity must not be zero", apperrors.ErrValidation, i+1)
			}
		} else if !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: line %d: quantity must be positive", apperrors.ErrValidation, i+1)
		}
		warehouseID := strings.TrimSpace(l.WarehouseID)
		if warehouseID == "" {
			warehouseID = domain.DefaultWarehouseID
		}
		lines[i] = domain.DocumentLine{
			LineID:      uuid.NewString(),
			ProductID:   l.ProductID,
			WarehouseID: warehouseID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
	}

	var plan *domain.InstallmentPlan
	if req.InstallmentPlan != nil {
		firstDue, err := dto.ParseDate(req.InstallmentPlan.FirstDueDate)
		if err != nil {
			return nil, err
		}
		plan = &domain.InstallmentPlan{
			Count:        req.InstallmentPlan.Count,
			FirstDueDate: firstDue,
			IntervalDays: req.InstallmentPlan.IntervalDays,
		}
	}

	doc := domain.Document{
		DocumentID:      uuid.NewString(),
		Kind:            req.Kind,
		Status:          domain.StatusDraft,
		PartnerID:       req.PartnerID,
		TreasuryID:      req.TreasuryID,
		PaymentMethod:   method,
		DocumentDate:    documentDate,
		Discount:        req.Discount,
		PaidAmount:      req.PaidAmount,
		Notes:           req.Notes,
		Lines:           lines,
		InstallmentPlan: plan,
		AuditFields:     domain.NewAuditFields(userID, s.Now()),
	}
	if err := doc.ComputeTotals(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidAmount, err)
	}
	if doc.Total.IsNegative() {
		return nil, fmt.Errorf("%w: discount %s exceeds subtotal %s", apperrors.ErrValidation, doc.Discount, doc.Subtotal)
	}

	if err := s.documentRepo.SaveDocument(ctx, doc); err != nil {
		s.LogError(ctx, err, "Failed to save document", slog.String("kind", string(doc.Kind)))
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	s.LogInfo(ctx, "Draft document created",
		slog.String("document_id", doc.DocumentID),
		slog.String("kind", string(doc.Kind)),
		slog.String("total", doc.Total.String()))
	return &doc, nil
}

func (s *documentService) GetDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.documentRepo.FindDocumentByID(ctx, documentID)
}

// validateForPosting checks everything posting depends on before any write happens.
func (s *documentService) validateForPosting(ctx context.Context, doc *domain.Document) error {
	if len(doc.Lines) == 0 {
		return fmt.Errorf("%w: document %s has no lines", apperrors.ErrValidation, doc.DocumentID)
	}

	productIDs := make([]string, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		productIDs = append(productIDs, l.ProductID)
	}
	products, err := s.inventoryRepo.FindProductsByIDs(ctx, productIDs)
	if err != nil {
		return err
	}
	for _, id := range productIDs {
		if _, ok := products[id]; !ok {
			return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, id)
		}
	}

	if doc.PartnerID != nil {
		if _, err := s.partnerRepo.FindPartnerByID(ctx, *doc.PartnerID); err != nil {
			return err
		}
	}
	if doc.TreasuryID != nil {
		if _, err := s.treasuryRepo.FindTreasuryByID(ctx, *doc.TreasuryID); err != nil {
			return err
		}
	}

	if !doc.Kind.HasFinancialEffect() {
		return nil
	}
	if doc.PaymentMethod != domain.PaymentCash && doc.PartnerID == nil {
		return fmt.Errorf("%w: %s documents need a partner", apperrors.ErrValidation, doc.PaymentMethod)
	}
	if doc.PaymentMethod == domain.PaymentInstallment {
		if doc.Kind != domain.DocSalesInvoice {
			return fmt.Errorf("%w: installment payment is only allowed on sales invoices", apperrors.ErrValidation)
		}
		if doc.InstallmentPlan == nil {
			return fmt.Errorf("%w: installment sales need an installment plan", apperrors.ErrValidation)
		}
	}
	if doc.PaidAmount.GreaterThan(doc.Total) {
		return fmt.Errorf("%w: paid amount %s exceeds total %s", apperrors.ErrValidation, doc.PaidAmount, doc.Total)
	}
	if !doc.SettledAtPosting().IsZero() && doc.TreasuryID == nil {
		return fmt.Errorf("%w: a treasury is required to settle %s", apperrors.ErrValidation, doc.SettledAtPosting())
	}
	return nil
}

func (s *documentService) PostDocument(ctx context.Context, documentID string, userID string) (*domain.Document, error) {
	var doc *domain.Document
	alreadyPosted := false
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.documentRepo.FindDocumentByIDForUpdate(ctx, documentID)
		if err != nil {
			return err
		}
		if doc.IsPosted() {
			alreadyPosted = true
			return nil
		}
		if err := s.validateForPosting(ctx, doc); err != nil {
			return err
		}

		direction := decimal.NewFromInt(int64(doc.Kind.StockDirection()))
		for _, l := range doc.Lines {
			if err := s.inventoryRepo.ApplyStockDelta(ctx, l.ProductID, l.WarehouseID, l.Quantity.Mul(direction)); err != nil {
				return err
			}
		}

		settled := doc.SettledAtPosting()
		if !settled.IsZero() {
			_, err := appendOnce(ctx, s.ledger, domain.TreasuryTransaction{
				TreasuryID:    *doc.TreasuryID,
				Type:          doc.Kind.SettlementType(),
				Amount:        settled,
				Description:   fmt.Sprintf("Settlement of %s %s", doc.Kind, doc.DocumentID),
				PartnerID:     doc.PartnerID,
				ReferenceType: refPtr(doc.Kind.ReferenceType()),
				ReferenceID:   &doc.DocumentID,
				Purpose:       domain.PurposePosting,
				CreatedBy:     userID,
			})
			if err != nil {
				return err
			}
		}

		now := s.Now()
		doc.Status = domain.StatusPosted
		doc.PaidAmount = settled
		doc.RemainingAmount = money.Zero()
		if doc.Kind.HasFinancialEffect() {
			doc.RemainingAmount = doc.Total.Sub(settled)
		}
		doc.PostedAt = &now
		doc.PostedBy = &userID
		doc.LastUpdatedAt = now
		doc.LastUpdatedBy = userID
		if err := s.documentRepo.MarkDocumentPosted(ctx, *doc); err != nil {
			return err
		}

		if doc.Kind == domain.DocSalesInvoice && doc.PaymentMethod == domain.PaymentInstallment && doc.RemainingAmount.IsPositive() {
			if _, err := s.schedules.GenerateSchedule(ctx, *doc, *doc.InstallmentPlan); err != nil {
				return err
			}
		}

		if doc.PartnerID != nil && doc.Kind.HasFinancialEffect() {
			if _, err := s.balances.UpdatePartnerBalance(ctx, *doc.PartnerID, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to post document", slog.String("document_id", documentID))
		return nil, err
	}

	if alreadyPosted {
		s.LogInfo(ctx, "Document already posted, nothing to do", slog.String("document_id", documentID))
		return doc, nil
	}
	s.LogInfo(ctx, "Document posted",
		slog.String("document_id", doc.DocumentID),
		slog.String("kind", string(doc.Kind)),
		slog.String("remaining", doc.RemainingAmount.String()))
	return doc, nil
}

// --- Inventory ---

func (s *documentService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", apperrors.ErrValidation)
	}
	product := domain.Product{
		ProductID:   uuid.NewString(),
		Name:        name,
		SKU:         strings.TrimSpace(req.SKU),
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.inventoryRepo.SaveProduct(ctx, product); err != nil {
		s.LogFailure(ctx, err, "Failed to save product", slog.String("sku", product.SKU))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

func (s *documentService) GetStockLevel(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	if warehouseID == "" {
		warehouseID = domain.DefaultWarehouseID
	}
	return s.inventoryRepo.GetStockLevel(ctx, productID, warehouseID)
}
