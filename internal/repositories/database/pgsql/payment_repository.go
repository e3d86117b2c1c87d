package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInvoicePaymentRepository struct {
	BaseRepository
}

func newPgxInvoicePaymentRepository(pool *pgxpool.Pool) portsrepo.InvoicePaymentRepositoryFacade {
	return &PgxInvoicePaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoicePaymentRepositoryFacade = (*PgxInvoicePaymentRepository)(nil)

const paymentColumns = `payment_id, document_kind, document_id, amount, discount, payment_date, partner_id,
	treasury_id, transaction_id, notes, created_at, created_by`

func (r *PgxInvoicePaymentRepository) SavePayment(ctx context.Context, p domain.InvoicePayment) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO invoice_payments (`+paymentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.PaymentID, p.DocumentKind, p.DocumentID, p.Amount, p.Discount, dateOnly(p.PaymentDate), p.PartnerID,
		p.TreasuryID, p.TransactionID, p.Notes, p.CreatedAt, p.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save invoice payment %s: %w", p.PaymentID, err)
	}
	return nil
}

func (r *PgxInvoicePaymentRepository) ListPaymentsByDocument(ctx context.Context, documentID string) ([]domain.InvoicePayment, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+paymentColumns+` FROM invoice_payments WHERE document_id = $1 ORDER BY created_at, payment_id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for document %s: %w", documentID, err)
	}
	defer rows.Close()

	payments := []domain.InvoicePayment{}
	for rows.Next() {
		var p domain.InvoicePayment
		if err := rows.Scan(
			&p.PaymentID, &p.DocumentKind, &p.DocumentID, &p.Amount, &p.Discount, &p.PaymentDate, &p.PartnerID,
			&p.TreasuryID, &p.TransactionID, &p.Notes, &p.CreatedAt, &p.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
