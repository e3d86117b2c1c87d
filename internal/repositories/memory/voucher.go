package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

func (s *Store) SaveExpense(ctx context.Context, e domain.Expense) error {
	defer s.lock(ctx)()
	if _, ok := s.st.expenses[e.ExpenseID]; ok {
		return fmt.Errorf("%w: expense %s", apperrors.ErrDuplicate, e.ExpenseID)
	}
	s.st.expenses[e.ExpenseID] = e
	return nil
}

func (s *Store) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	defer s.lock(ctx)()
	e, ok := s.st.expenses[expenseID]
	if !ok {
		return nil, fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
	}
	return &e, nil
}

func (s *Store) FindExpenseByIDForUpdate(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return s.FindExpenseByID(ctx, expenseID)
}

func (s *Store) MarkExpensePosted(ctx context.Context, expenseID string, userID string, now time.Time) error {
	defer s.lock(ctx)()
	e, ok := s.st.expenses[expenseID]
	if !ok {
		return fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
	}
	if e.Status != domain.StatusDraft {
		return fmt.Errorf("%w: expense %s is already posted", apperrors.ErrConflict, expenseID)
	}
	e.Status = domain.StatusPosted
	e.PostedAt = &now
	e.LastUpdatedAt = now
	e.LastUpdatedBy = userID
	s.st.expenses[expenseID] = e
	return nil
}

func (s *Store) SumPostedExpenses(ctx context.Context, from, to time.Time) (money.Money, error) {
	defer s.lock(ctx)()
	sum := money.Zero()
	for _, e := range s.st.expenses {
		if e.Status == domain.StatusPosted && withinDates(e.ExpenseDate, from, to) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

func (s *Store) SaveRevenue(ctx context.Context, r domain.Revenue) error {
	defer s.lock(ctx)()
	if _, ok := s.st.revenues[r.RevenueID]; ok {
		return fmt.Errorf("%w: revenue %s", apperrors.ErrDuplicate, r.RevenueID)
	}
	s.st.revenues[r.RevenueID] = r
	return nil
}

func (s *Store) FindRevenueByID(ctx context.Context, revenueID string) (*domain.Revenue, error) {
	defer s.lock(ctx)()
	r, ok := s.st.revenues[revenueID]
	if !ok {
		return nil, fmt.Errorf("%w: revenue %s", apperrors.ErrNotFound, revenueID)
	}
	return &r, nil
}

func (s *Store) FindRevenueByIDForUpdate(ctx context.Context, revenueID string) (*domain.Revenue, error) {
	return s.FindRevenueByID(ctx, revenueID)
}

func (s *Store) MarkRevenuePosted(ctx context.Context, revenueID string, userID string, now time.Time) error {
	defer s.lock(ctx)()
	r, ok := s.st.revenues[revenueID]
	if !ok {
		return fmt.Errorf("%w: revenue %s", apperrors.ErrNotFound, revenueID)
	}
	if r.Status != domain.StatusDraft {
		return fmt.Errorf("%w: revenue %s is already posted", apperrors.ErrConflict, revenueID)
	}
	r.Status = domain.StatusPosted
	r.PostedAt = &now
	r.LastUpdatedAt = now
	r.LastUpdatedBy = userID
	s.st.revenues[revenueID] = r
	return nil
}

func (s *Store) SumPostedRevenues(ctx context.Context, from, to time.Time) (money.Money, error) {
	defer s.lock(ctx)()
	sum := money.Zero()
	for _, r := range s.st.revenues {
		if r.Status == domain.StatusPosted && withinDates(r.RevenueDate, from, to) {
			sum = sum.Add(r.Amount)
		}
	}
	return sum, nil
}
