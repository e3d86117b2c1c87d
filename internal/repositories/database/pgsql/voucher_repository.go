package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/treasury_ledger/pkg/money"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Expenses and revenues share a table shape, so both repositories live here.

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const expenseColumns = `expense_id, treasury_id, amount, description, category, expense_date, status, posted_at,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, e domain.Expense) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ExpenseID, e.TreasuryID, e.Amount, e.Description, e.Category, dateOnly(e.ExpenseDate), e.Status, e.PostedAt,
		e.CreatedAt, e.CreatedBy, e.LastUpdatedAt, e.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save expense %s: %w", e.ExpenseID, err)
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return r.findExpense(ctx, expenseID, "")
}

func (r *PgxExpenseRepository) FindExpenseByIDForUpdate(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return r.findExpense(ctx, expenseID, "FOR UPDATE")
}

func (r *PgxExpenseRepository) findExpense(ctx context.Context, expenseID, lock string) (*domain.Expense, error) {
	var e domain.Expense
	err := r.db(ctx).QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE expense_id = $1 `+lock, expenseID).Scan(
		&e.ExpenseID, &e.TreasuryID, &e.Amount, &e.Description, &e.Category, &e.ExpenseDate, &e.Status, &e.PostedAt,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapNotFound(err, "expense", expenseID)
	}
	return &e, nil
}

func (r *PgxExpenseRepository) MarkExpensePosted(ctx context.Context, expenseID string, userID string, now time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE expenses SET status = 'posted', posted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE expense_id = $1 AND status = 'draft'`, expenseID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to post expense %s: %w", expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s is not a draft", apperrors.ErrConflict, expenseID)
	}
	return nil
}

func (r *PgxExpenseRepository) SumPostedExpenses(ctx context.Context, from, to time.Time) (money.Money, error) {
	var sum money.Money
	err := r.db(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses
		WHERE status = 'posted' AND expense_date BETWEEN $1 AND $2`, dateOnly(from), dateOnly(to)).Scan(&sum)
	if err != nil {
		return money.Zero(), fmt.Errorf("failed to sum expenses: %w", err)
	}
	return sum, nil
}

type PgxRevenueRepository struct {
	BaseRepository
}

func newPgxRevenueRepository(pool *pgxpool.Pool) portsrepo.RevenueRepositoryFacade {
	return &PgxRevenueRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RevenueRepositoryFacade = (*PgxRevenueRepository)(nil)

const revenueColumns = `revenue_id, treasury_id, amount, description, category, revenue_date, status, posted_at,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxRevenueRepository) SaveRevenue(ctx context.Context, rv domain.Revenue) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO revenues (`+revenueColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rv.RevenueID, rv.TreasuryID, rv.Amount, rv.Description, rv.Category, dateOnly(rv.RevenueDate), rv.Status, rv.PostedAt,
		rv.CreatedAt, rv.CreatedBy, rv.LastUpdatedAt, rv.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save revenue %s: %w", rv.RevenueID, err)
	}
	return nil
}

func (r *PgxRevenueRepository) FindRevenueByID(ctx context.Context, revenueID string) (*domain.Revenue, error) {
	return r.findRevenue(ctx, revenueID, "")
}

func (r *PgxRevenueRepository) FindRevenueByIDForUpdate(ctx context.Context, revenueID string) (*domain.Revenue, error) {
	return r.findRevenue(ctx, revenueID, "FOR UPDATE")
}

func (r *PgxRevenueRepository) findRevenue(ctx context.Context, revenueID, lock string) (*domain.Revenue, error) {
	var rv domain.Revenue
	err := r.db(ctx).QueryRow(ctx, `SELECT `+revenueColumns+` FROM revenues WHERE revenue_id = $1 `+lock, revenueID).Scan(
		&rv.RevenueID, &rv.TreasuryID, &rv.Amount, &rv.Description, &rv.Category, &rv.RevenueDate, &rv.Status, &rv.PostedAt,
		&rv.CreatedAt, &rv.CreatedBy, &rv.LastUpdatedAt, &rv.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapNotFound(err, "revenue", revenueID)
	}
	return &rv, nil
}

func (r *PgxRevenueRepository) MarkRevenuePosted(ctx context.Context, revenueID string, userID string, now time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE revenues SET status = 'posted', posted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE revenue_id = $1 AND status = 'draft'`, revenueID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to post revenue %s: %w", revenueID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: revenue %s is not a draft", apperrors.ErrConflict, revenueID)
	}
	return nil
}

func (r *PgxRevenueRepository) SumPostedRevenues(ctx context.Context, from, to time.Time) (money.Money, error) {
	var sum money.Money
	err := r.db(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM revenues
		WHERE status = 'posted' AND revenue_date BETWEEN $1 AND $2`, dateOnly(from), dateOnly(to)).Scan(&sum)
	if err != nil {
		return money.Zero(), fmt.Errorf("failed to sum revenues: %w", err)
	}
	return sum, nil
}
