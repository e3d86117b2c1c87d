package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/internal/utils/pagination"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

func sameReference(e domain.TreasuryTransaction, refType domain.ReferenceType, refID, purpose string) bool {
	return e.HasReference() && *e.ReferenceType == refType && *e.ReferenceID == refID && e.Purpose == purpose
}

func (s *Store) InsertTransaction(ctx context.Context, txn domain.TreasuryTransaction) error {
	defer s.lock(ctx)()
	if txn.HasReference() && txn.Purpose != "" {
		for _, e := range s.st.ledger {
			if sameReference(e, *txn.ReferenceType, *txn.ReferenceID, txn.Purpose) {
				return fmt.Errorf("%w: %s %s", apperrors.ErrDuplicatePosting, *txn.ReferenceType, *txn.ReferenceID)
			}
		}
	}
	s.st.ledger = append(s.st.ledger, txn)
	return nil
}

func (s *Store) FindTransactionByReference(ctx context.Context, refType domain.ReferenceType, refID, purpose string) (*domain.TreasuryTransaction, error) {
	defer s.lock(ctx)()
	for _, e := range s.st.ledger {
		if sameReference(e, refType, refID, purpose) {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("%w: treasury transaction for %s %s", apperrors.ErrNotFound, refType, refID)
}

func (s *Store) SumByTreasury(ctx context.Context, treasuryID string) (money.Money, error) {
	defer s.lock(ctx)()
	sum := money.Zero()
	for _, e := range s.st.ledger {
		if e.TreasuryID == treasuryID {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

// newestFirst orders entries by (created_at, transaction_id) descending.
func newestFirst(a, b domain.TreasuryTransaction) int {
	return cmpOr(b.CreatedAt.Compare(a.CreatedAt), strings.Compare(b.TransactionID, a.TransactionID))
}

func (s *Store) ListTransactionsByTreasury(ctx context.Context, treasuryID string, limit int, nextToken *string) ([]domain.TreasuryTransaction, *string, error) {
	defer s.lock(ctx)()

	var after *domain.TreasuryTransaction
	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		after = &domain.TreasuryTransaction{CreatedAt: createdAt, TransactionID: id}
	}

	entries := []domain.TreasuryTransaction{}
	for _, e := range s.st.ledger {
		if e.TreasuryID != treasuryID {
			continue
		}
		if after != nil && newestFirst(*after, e) >= 0 {
			continue
		}
		entries = append(entries, e)
	}
	slices.SortFunc(entries, newestFirst)

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		next = &token
	}
	return entries, next, nil
}

func (s *Store) ListTransactionsByPartner(ctx context.Context, partnerID string) ([]domain.TreasuryTransaction, error) {
	defer s.lock(ctx)()
	entries := []domain.TreasuryTransaction{}
	for _, e := range s.st.ledger {
		if e.PartnerID != nil && *e.PartnerID == partnerID {
			entries = append(entries, e)
		}
	}
	slices.SortFunc(entries, func(a, b domain.TreasuryTransaction) int { return newestFirst(b, a) })
	return entries, nil
}

func (s *Store) SumUnsettledByPartner(ctx context.Context, partnerID string) (money.Money, error) {
	defer s.lock(ctx)()
	sum := money.Zero()
	for _, e := range s.st.ledger {
		if e.PartnerID != nil && *e.PartnerID == partnerID && !e.SettlesDocument() {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

func (s *Store) SumPartnerEntries(ctx context.Context, partnerID string, txType domain.TransactionType, from, to time.Time) (money.Money, error) {
	defer s.lock(ctx)()
	sum := money.Zero()
	for _, e := range s.st.ledger {
		if e.PartnerID != nil && *e.PartnerID == partnerID && e.Type == txType && withinDates(e.CreatedAt, from, to) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

func (s *Store) ReferenceExists(ctx context.Context, refType domain.ReferenceType, refID string) (bool, error) {
	table, ok := refType.Table()
	if !ok {
		return false, fmt.Errorf("%w: unknown reference type %q", apperrors.ErrValidation, refType)
	}

	defer s.lock(ctx)()
	switch table {
	case "documents":
		d, ok := s.st.documents[refID]
		return ok && d.Kind.ReferenceType() == refType, nil
	case "expenses":
		_, ok := s.st.expenses[refID]
		return ok, nil
	case "revenues":
		_, ok := s.st.revenues[refID]
		return ok, nil
	case "installments":
		_, ok := s.st.installments[refID]
		return ok, nil
	case "treasury_transactions":
		return slices.ContainsFunc(s.st.ledger, func(e domain.TreasuryTransaction) bool { return e.TransactionID == refID }), nil
	case "invoice_payments":
		return slices.ContainsFunc(s.st.payments, func(p domain.InvoicePayment) bool { return p.PaymentID == refID }), nil
	default:
		// Fixed assets are registered by the asset module against postgres only.
		return false, nil
	}
}
