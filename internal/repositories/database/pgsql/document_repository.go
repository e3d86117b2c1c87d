package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/treasury_ledger/pkg/money"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxDocumentRepository struct {
	BaseRepository
}

func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

const documentColumns = `document_id, kind, status, partner_id, treasury_id, payment_method, document_date,
	subtotal, discount, total, paid_amount, remaining_amount, notes,
	installment_count, first_due_date, interval_days, posted_at, posted_by,
	created_at, created_by, last_updated_at, last_updated_by`

func scanDocument(row pgx.Row) (domain.Document, error) {
	var d domain.Document
	var installmentCount, intervalDays *int
	var firstDue *time.Time
	err := row.Scan(
		&d.DocumentID,
		&d.Kind,
		&d.Status,
		&d.PartnerID,
		&d.TreasuryID,
		&d.PaymentMethod,
		&d.DocumentDate,
		&d.Subtotal,
		&d.Discount,
		&d.Total,
		&d.PaidAmount,
		&d.RemainingAmount,
		&d.Notes,
		&installmentCount,
		&firstDue,
		&intervalDays,
		&d.PostedAt,
		&d.PostedBy,
		&d.CreatedAt,
		&d.CreatedBy,
		&d.LastUpdatedAt,
		&d.LastUpdatedBy,
	)
	if err != nil {
		return d, err
	}
	if installmentCount != nil && firstDue != nil {
		plan := domain.InstallmentPlan{Count: *installmentCount, FirstDueDate: *firstDue}
		if intervalDays != nil {
			plan.IntervalDays = *intervalDays
		}
		d.InstallmentPlan = &plan
	}
	return d, nil
}

// SaveDocument inserts the header and its lines atomically.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		var installmentCount, intervalDays *int
		var firstDue *time.Time
		if doc.InstallmentPlan != nil {
			installmentCount = &doc.InstallmentPlan.Count
			intervalDays = &doc.InstallmentPlan.IntervalDays
			fd := dateOnly(doc.InstallmentPlan.FirstDueDate)
			firstDue = &fd
		}

		query := `INSERT INTO documents (` + documentColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
		_, err := r.db(ctx).Exec(ctx, query,
			doc.DocumentID, doc.Kind, doc.Status, doc.PartnerID, doc.TreasuryID, doc.PaymentMethod, dateOnly(doc.DocumentDate),
			doc.Subtotal, doc.Discount, doc.Total, doc.PaidAmount, doc.RemainingAmount, doc.Notes,
			installmentCount, firstDue, intervalDays, doc.PostedAt, doc.PostedBy,
			doc.CreatedAt, doc.CreatedBy, doc.LastUpdatedAt, doc.LastUpdatedBy,
		)
		if err != nil {
			if isPgError(err, pgUniqueViolation) {
				return fmt.Errorf("%w: document %s", apperrors.ErrDuplicate, doc.DocumentID)
			}
			return fmt.Errorf("failed to insert document %s: %w", doc.DocumentID, err)
		}

		batch := &pgx.Batch{}
		lineQuery := `
			INSERT INTO document_lines (line_id, document_id, line_number, product_id, warehouse_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
		`
		for i, line := range doc.Lines {
			batch.Queue(lineQuery, line.LineID, doc.DocumentID, i+1, line.ProductID, line.WarehouseID, line.Quantity, line.UnitPrice)
		}
		// Close the batch results to surface errors from every queued insert.
		if err := r.db(ctx).SendBatch(ctx, batch).Close(); err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert lines for document "+doc.DocumentID, err)
		}
		return nil
	})
}

func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	return r.findDocument(ctx, documentID, "")
}

func (r *PgxDocumentRepository) FindDocumentByIDForUpdate(ctx context.Context, documentID string) (*domain.Document, error) {
	return r.findDocument(ctx, documentID, "FOR UPDATE")
}

func (r *PgxDocumentRepository) findDocument(ctx context.Context, documentID, lock string) (*domain.Document, error) {
	doc, err := scanDocument(r.db(ctx).QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE document_id = $1 `+lock, documentID))
	if err != nil {
		return nil, mapNotFound(err, "document", documentID)
	}
	lines, err := r.findLines(ctx, documentID)
	if err != nil {
		return nil, err
	}
	doc.Lines = lines
	return &doc, nil
}

func (r *PgxDocumentRepository) findLines(ctx context.Context, documentID string) ([]domain.DocumentLine, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT line_id, product_id, warehouse_id, quantity, unit_price
		FROM document_lines WHERE document_id = $1 ORDER BY line_number`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for document %s: %w", documentID, err)
	}
	defer rows.Close()

	lines := []domain.DocumentLine{}
	for rows.Next() {
		var l domain.DocumentLine
		if err := rows.Scan(&l.LineID, &l.ProductID, &l.WarehouseID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan document line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *PgxDocumentRepository) MarkDocumentPosted(ctx context.Context, doc domain.Document) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE documents
		SET status = 'posted', paid_amount = $2, remaining_amount = $3, posted_at = $4, posted_by = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE document_id = $1 AND status = 'draft'`,
		doc.DocumentID, doc.PaidAmount, doc.RemainingAmount, doc.PostedAt, doc.PostedBy, doc.LastUpdatedAt, doc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to post document %s: %w", doc.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: document %s is not a draft", apperrors.ErrConflict, doc.DocumentID)
	}
	return nil
}

func (r *PgxDocumentRepository) UpdateRemainingAmount(ctx context.Context, documentID string, remaining money.Money, userID string, now time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE documents SET remaining_amount = $2, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $1`,
		documentID, remaining, now, userID,
	)
	if err != nil {
		if isPgError(err, pgCheckViolation) {
			return fmt.Errorf("%w: document %s", apperrors.ErrExceedsRemainingAmount, documentID)
		}
		return fmt.Errorf("failed to update remaining amount of document %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("document " + documentID)
	}
	return nil
}

func (r *PgxDocumentRepository) SumRemainingByPartner(ctx context.Context, partnerID string) (map[domain.DocumentKind]money.Money, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT kind, COALESCE(SUM(remaining_amount), 0)
		FROM documents
		WHERE partner_id = $1 AND status = 'posted'
		GROUP BY kind`, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum documents for partner %s: %w", partnerID, err)
	}
	defer rows.Close()

	sums := make(map[domain.DocumentKind]money.Money)
	for rows.Next() {
		var kind domain.DocumentKind
		var sum money.Money
		if err := rows.Scan(&kind, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan document sum: %w", err)
		}
		sums[kind] = sum
	}
	return sums, rows.Err()
}

func (r *PgxDocumentRepository) ListOpenDocumentsByPartner(ctx context.Context, partnerID string) ([]domain.Document, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE partner_id = $1 AND status = 'posted' AND remaining_amount <> 0
		ORDER BY document_date, document_id`, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open documents for partner %s: %w", partnerID, err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *PgxDocumentRepository) SumPostedTotals(ctx context.Context, kind domain.DocumentKind, from, to time.Time) (money.Money, error) {
	var sum money.Money
	err := r.db(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0) FROM documents
		WHERE kind = $1 AND status = 'posted' AND document_date BETWEEN $2 AND $3`,
		string(kind), dateOnly(from), dateOnly(to),
	).Scan(&sum)
	if err != nil {
		return money.Zero(), fmt.Errorf("failed to sum %s totals: %w", kind, err)
	}
	return sum, nil
}
