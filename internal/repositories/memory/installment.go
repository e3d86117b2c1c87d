package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
)

func (s *Store) SaveInstallments(ctx context.Context, installments []domain.Installment) error {
	defer s.lock(ctx)()
	for _, in := range installments {
		if _, ok := s.st.installments[in.InstallmentID]; ok {
			return fmt.Errorf("%w: installment %s", apperrors.ErrDuplicate, in.InstallmentID)
		}
		for _, existing := range s.st.installments {
			if existing.SalesInvoiceID == in.SalesInvoiceID && existing.InstallmentNumber == in.InstallmentNumber {
				return fmt.Errorf("%w: installment %d of invoice %s", apperrors.ErrDuplicate, in.InstallmentNumber, in.SalesInvoiceID)
			}
		}
	}
	for _, in := range installments {
		s.st.installments[in.InstallmentID] = in
	}
	return nil
}

func (s *Store) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	defer s.lock(ctx)()
	in, ok := s.st.installments[installmentID]
	if !ok {
		return nil, fmt.Errorf("%w: installment %s", apperrors.ErrNotFound, installmentID)
	}
	return &in, nil
}

func (s *Store) FindInstallmentByIDForUpdate(ctx context.Context, installmentID string) (*domain.Installment, error) {
	return s.FindInstallmentByID(ctx, installmentID)
}

func (s *Store) ListInstallmentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Installment, error) {
	defer s.lock(ctx)()
	out := []domain.Installment{}
	for _, in := range s.st.installments {
		if in.SalesInvoiceID == invoiceID {
			out = append(out, in)
		}
	}
	slices.SortFunc(out, func(a, b domain.Installment) int { return a.InstallmentNumber - b.InstallmentNumber })
	return out, nil
}

func (s *Store) UpdateInstallmentPayment(ctx context.Context, installment domain.Installment) error {
	defer s.lock(ctx)()
	stored, ok := s.st.installments[installment.InstallmentID]
	if !ok {
		return fmt.Errorf("%w: installment %s", apperrors.ErrNotFound, installment.InstallmentID)
	}
	if installment.PaidAmount.GreaterThan(stored.Amount) {
		return fmt.Errorf("%w: installment %s", apperrors.ErrExceedsRemainingAmount, installment.InstallmentID)
	}
	stored.PaidAmount = installment.PaidAmount
	stored.Status = installment.Status
	stored.PaidAt = installment.PaidAt
	s.st.installments[installment.InstallmentID] = stored
	return nil
}

func (s *Store) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	defer s.lock(ctx)()
	var updated int64
	for id, in := range s.st.installments {
		if in.IsOverdueOn(today) {
			in.Status = domain.InstallmentOverdue
			s.st.installments[id] = in
			updated++
		}
	}
	return updated, nil
}
