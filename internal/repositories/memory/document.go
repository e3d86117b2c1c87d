package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/pkg/money"
	"github.com/shopspring/decimal"
)

func (s *Store) SaveDocument(ctx context.Context, doc domain.Document) error {
	defer s.lock(ctx)()
	if _, ok := s.st.documents[doc.DocumentID]; ok {
		return fmt.Errorf("%w: document %s", apperrors.ErrDuplicate, doc.DocumentID)
	}
	s.st.documents[doc.DocumentID] = copyDocument(doc)
	return nil
}

func (s *Store) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	defer s.lock(ctx)()
	d, ok := s.st.documents[documentID]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, documentID)
	}
	d = copyDocument(d)
	return &d, nil
}

func (s *Store) FindDocumentByIDForUpdate(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.FindDocumentByID(ctx, documentID)
}

func (s *Store) MarkDocumentPosted(ctx context.Context, doc domain.Document) error {
	defer s.lock(ctx)()
	stored, ok := s.st.documents[doc.DocumentID]
	if !ok {
		return fmt.Errorf("%w: document %s", apperrors.ErrNotFound, doc.DocumentID)
	}
	if stored.Status != domain.StatusDraft {
		return fmt.Errorf("%w: document %s is already posted", apperrors.ErrConflict, doc.DocumentID)
	}
	stored.Status = domain.StatusPosted
	stored.PaidAmount = doc.PaidAmount
	stored.RemainingAmount = doc.RemainingAmount
	stored.PostedAt = doc.PostedAt
	stored.PostedBy = doc.PostedBy
	stored.LastUpdatedAt = doc.LastUpdatedAt
	stored.LastUpdatedBy = doc.LastUpdatedBy
	s.st.documents[doc.DocumentID] = stored
	return nil
}

func (s *Store) UpdateRemainingAmount(ctx context.Context, documentID string, remaining money.Money, userID string, now time.Time) error {
	defer s.lock(ctx)()
	d, ok := s.st.documents[documentID]
	if !ok {
		return fmt.Errorf("%w: document %s", apperrors.ErrNotFound, documentID)
	}
	if remaining.IsNegative() {
		return fmt.Errorf("%w: document %s", apperrors.ErrExceedsRemainingAmount, documentID)
	}
	d.RemainingAmount = remaining
	d.LastUpdatedAt = now
	d.LastUpdatedBy = userID
	s.st.documents[documentID] = d
	return nil
}

func (s *Store) SumRemainingByPartner(ctx context.Context, partnerID string) (map[domain.DocumentKind]money.Money, error) {
	defer s.lock(ctx)()
	sums := make(map[domain.DocumentKind]money.Money)
	for _, d := range s.st.documents {
		if d.IsPosted() && d.PartnerID != nil && *d.PartnerID == partnerID {
			sums[d.Kind] = sums[d.Kind].Add(d.RemainingAmount)
		}
	}
	return sums, nil
}

func (s *Store) ListOpenDocumentsByPartner(ctx context.Context, partnerID string) ([]domain.Document, error) {
	defer s.lock(ctx)()
	out := []domain.Document{}
	for _, d := range s.st.documents {
		if d.IsPosted() && d.PartnerID != nil && *d.PartnerID == partnerID && !d.RemainingAmount.IsZero() {
			out = append(out, copyDocument(d))
		}
	}
	slices.SortFunc(out, func(a, b domain.Document) int {
		return cmpOr(a.DocumentDate.Compare(b.DocumentDate), strings.Compare(a.DocumentID, b.DocumentID))
	})
	return out, nil
}

// withinDates reports whether t falls on a calendar day in [from, to].
func withinDates(t, from, to time.Time) bool {
	day := domain.DateOnly(t)
	return !day.Before(domain.DateOnly(from)) && !day.After(domain.DateOnly(to))
}

func (s *Store) SumPostedTotals(ctx context.Context, kind domain.DocumentKind, from, to time.Time) (money.Money, error) {
	defer s.lock(ctx)()
	sum := money.Zero()
	for _, d := range s.st.documents {
		if d.Kind == kind && d.IsPosted() && withinDates(d.DocumentDate, from, to) {
			sum = sum.Add(d.Total)
		}
	}
	return sum, nil
}

func (s *Store) SavePayment(ctx context.Context, payment domain.InvoicePayment) error {
	defer s.lock(ctx)()
	s.st.payments = append(s.st.payments, payment)
	return nil
}

func (s *Store) ListPaymentsByDocument(ctx context.Context, documentID string) ([]domain.InvoicePayment, error) {
	defer s.lock(ctx)()
	out := []domain.InvoicePayment{}
	for _, p := range s.st.payments {
		if p.DocumentID == documentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) SaveProduct(ctx context.Context, product domain.Product) error {
	defer s.lock(ctx)()
	for _, p := range s.st.products {
		if p.ProductID == product.ProductID || (product.SKU != "" && p.SKU == product.SKU) {
			return fmt.Errorf("%w: product %s", apperrors.ErrDuplicate, product.ProductID)
		}
	}
	s.st.products[product.ProductID] = product
	return nil
}

func (s *Store) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	defer s.lock(ctx)()
	found := make(map[string]domain.Product, len(productIDs))
	for _, id := range productIDs {
		if p, ok := s.st.products[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

func (s *Store) ApplyStockDelta(ctx context.Context, productID, warehouseID string, delta decimal.Decimal) error {
	defer s.lock(ctx)()
	key := stockKey{productID: productID, warehouseID: warehouseID}
	next := s.st.stock[key].Add(delta)
	if next.IsNegative() {
		return fmt.Errorf("%w: product %s in warehouse %s", apperrors.ErrInsufficientStock, productID, warehouseID)
	}
	s.st.stock[key] = next
	return nil
}

func (s *Store) GetStockLevel(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	defer s.lock(ctx)()
	return s.st.stock[stockKey{productID: productID, warehouseID: warehouseID}], nil
}
