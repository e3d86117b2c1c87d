package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInstallmentRepository struct {
	BaseRepository
}

func newPgxInstallmentRepository(pool *pgxpool.Pool) portsrepo.InstallmentRepositoryFacade {
	return &PgxInstallmentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InstallmentRepositoryFacade = (*PgxInstallmentRepository)(nil)

const installmentColumns = `installment_id, sales_invoice_id, installment_number, amount, paid_amount,
	due_date, status, paid_at, created_at`

func scanInstallment(row pgx.Row) (domain.Installment, error) {
	var i domain.Installment
	err := row.Scan(
		&i.InstallmentID,
		&i.SalesInvoiceID,
		&i.InstallmentNumber,
		&i.Amount,
		&i.PaidAmount,
		&i.DueDate,
		&i.Status,
		&i.PaidAt,
		&i.CreatedAt,
	)
	return i, err
}

func (r *PgxInstallmentRepository) SaveInstallments(ctx context.Context, installments []domain.Installment) error {
	if len(installments) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `INSERT INTO installments (` + installmentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	for _, i := range installments {
		batch.Queue(query, i.InstallmentID, i.SalesInvoiceID, i.InstallmentNumber, i.Amount, i.PaidAmount,
			dateOnly(i.DueDate), i.Status, i.PaidAt, i.CreatedAt)
	}
	if err := r.db(ctx).SendBatch(ctx, batch).Close(); err != nil {
		if isPgError(err, pgUniqueViolation) {
			return fmt.Errorf("%w: installments for invoice %s", apperrors.ErrDuplicate, installments[0].SalesInvoiceID)
		}
		return apperrors.NewAppError(http.StatusInternalServerError,
			"failed to insert installments for invoice "+installments[0].SalesInvoiceID, err)
	}
	return nil
}

func (r *PgxInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	return r.findInstallment(ctx, installmentID, "")
}

func (r *PgxInstallmentRepository) FindInstallmentByIDForUpdate(ctx context.Context, installmentID string) (*domain.Installment, error) {
	return r.findInstallment(ctx, installmentID, "FOR UPDATE")
}

func (r *PgxInstallmentRepository) findInstallment(ctx context.Context, installmentID, lock string) (*domain.Installment, error) {
	i, err := scanInstallment(r.db(ctx).QueryRow(ctx,
		`SELECT `+installmentColumns+` FROM installments WHERE installment_id = $1 `+lock, installmentID))
	if err != nil {
		return nil, mapNotFound(err, "installment", installmentID)
	}
	return &i, nil
}

func (r *PgxInstallmentRepository) ListInstallmentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Installment, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+installmentColumns+` FROM installments WHERE sales_invoice_id = $1 ORDER BY installment_number`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	installments := []domain.Installment{}
	for rows.Next() {
		i, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		installments = append(installments, i)
	}
	return installments, rows.Err()
}

func (r *PgxInstallmentRepository) UpdateInstallmentPayment(ctx context.Context, i domain.Installment) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE installments SET paid_amount = $2, status = $3, paid_at = $4
		WHERE installment_id = $1`, i.InstallmentID, i.PaidAmount, i.Status, i.PaidAt)
	if err != nil {
		if isPgError(err, pgCheckViolation) {
			return fmt.Errorf("%w: installment %s", apperrors.ErrExceedsRemainingAmount, i.InstallmentID)
		}
		return fmt.Errorf("failed to update installment %s: %w", i.InstallmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("installment " + i.InstallmentID)
	}
	return nil
}

func (r *PgxInstallmentRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE installments SET status = 'overdue'
		WHERE status = 'pending' AND due_date < $1`, dateOnly(today))
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue installments: %w", err)
	}
	return tag.RowsAffected(), nil
}
