package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// ExpenseRepositoryFacade stores expenses
type ExpenseRepositoryFacade interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	FindExpenseByIDForUpdate(ctx context.Context, expenseID string) (*domain.Expense, error)
	MarkExpensePosted(ctx context.Context, expenseID string, userID string, now time.Time) error
	// SumPostedExpenses sums posted expenses dated within [from, to].
	SumPostedExpenses(ctx context.Context, from, to time.Time) (money.Money, error)
}

// RevenueRepositoryFacade stores revenues
type RevenueRepositoryFacade interface {
	SaveRevenue(ctx context.Context, revenue domain.Revenue) error
	FindRevenueByID(ctx context.Context, revenueID string) (*domain.Revenue, error)
	FindRevenueByIDForUpdate(ctx context.Context, revenueID string) (*domain.Revenue, error)
	MarkRevenuePosted(ctx context.Context, revenueID string, userID string, now time.Time) error
	// SumPostedRevenues sums posted revenues dated within [from, to].
	SumPostedRevenues(ctx context.Context, from, to time.Time) (money.Money, error)
}
