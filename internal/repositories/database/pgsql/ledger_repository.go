package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/treasury_ledger/internal/utils/pagination"
	"github.com/SscSPs/treasury_ledger/pkg/money"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a repository over the append-only treasury_transactions table.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const ledgerColumns = `transaction_id, treasury_id, transaction_type, amount, description, partner_id, employee_id,
	reference_type, reference_id, purpose, created_at, created_by`

// referenceKeyColumns maps each referenced table to its primary key column.
var referenceKeyColumns = map[string]string{
	"documents":             "document_id",
	"expenses":              "expense_id",
	"revenues":              "revenue_id",
	"fixed_assets":          "fixed_asset_id",
	"treasury_transactions": "transaction_id",
	"invoice_payments":      "payment_id",
	"installments":          "installment_id",
}

func scanLedgerEntry(row pgx.Row) (domain.TreasuryTransaction, error) {
	var t domain.TreasuryTransaction
	var refType *string
	err := row.Scan(
		&t.TransactionID,
		&t.TreasuryID,
		&t.Type,
		&t.Amount,
		&t.Description,
		&t.PartnerID,
		&t.EmployeeID,
		&refType,
		&t.ReferenceID,
		&t.Purpose,
		&t.CreatedAt,
		&t.CreatedBy,
	)
	if refType != nil {
		rt := domain.ReferenceType(*refType)
		t.ReferenceType = &rt
	}
	return t, err
}

func (r *PgxLedgerRepository) InsertTransaction(ctx context.Context, txn domain.TreasuryTransaction) error {
	// Same shape as an idempotency key: a conflicting posting inserts nothing and
	// returns no row, and the caller decides what a duplicate means.
	query := `
		INSERT INTO treasury_transactions (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (reference_type, reference_id, purpose) WHERE purpose <> '' DO NOTHING
		RETURNING transaction_id;
	`
	var refType *string
	if txn.ReferenceType != nil {
		s := string(*txn.ReferenceType)
		refType = &s
	}

	var insertedID string
	err := r.db(ctx).QueryRow(ctx, query,
		txn.TransactionID,
		txn.TreasuryID,
		txn.Type,
		txn.Amount,
		txn.Description,
		txn.PartnerID,
		txn.EmployeeID,
		refType,
		txn.ReferenceID,
		txn.Purpose,
		txn.CreatedAt,
		txn.CreatedBy,
	).Scan(&insertedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s %s", apperrors.ErrDuplicatePosting, derefRef(txn.ReferenceType), derefString(txn.ReferenceID))
		}
		return fmt.Errorf("failed to insert treasury transaction: %w", err)
	}
	return nil
}

func (r *PgxLedgerRepository) FindTransactionByReference(ctx context.Context, refType domain.ReferenceType, refID, purpose string) (*domain.TreasuryTransaction, error) {
	query := `SELECT ` + ledgerColumns + ` FROM treasury_transactions
		WHERE reference_type = $1 AND reference_id = $2 AND purpose = $3
		ORDER BY created_at LIMIT 1`
	t, err := scanLedgerEntry(r.db(ctx).QueryRow(ctx, query, string(refType), refID, purpose))
	if err != nil {
		return nil, mapNotFound(err, "treasury transaction for", string(refType)+" "+refID)
	}
	return &t, nil
}

func (r *PgxLedgerRepository) SumByTreasury(ctx context.Context, treasuryID string) (money.Money, error) {
	var sum money.Money
	err := r.db(ctx).QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM treasury_transactions WHERE treasury_id = $1`, treasuryID,
	).Scan(&sum)
	if err != nil {
		return money.Zero(), fmt.Errorf("failed to sum treasury %s: %w", treasuryID, err)
	}
	return sum, nil
}

func (r *PgxLedgerRepository) ListTransactionsByTreasury(ctx context.Context, treasuryID string, limit int, nextToken *string) ([]domain.TreasuryTransaction, *string, error) {
	args := []any{treasuryID}
	query := `SELECT ` + ledgerColumns + ` FROM treasury_transactions WHERE treasury_id = $1`

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}
	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC, transaction_id DESC LIMIT %d`, limit+1)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list treasury transactions: %w", err)
	}
	defer rows.Close()

	entries := []domain.TreasuryTransaction{}
	for rows.Next() {
		t, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan treasury transaction row: %w", err)
		}
		entries = append(entries, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		next = &token
	}
	return entries, next, nil
}

func (r *PgxLedgerRepository) ListTransactionsByPartner(ctx context.Context, partnerID string) ([]domain.TreasuryTransaction, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+ledgerColumns+` FROM treasury_transactions WHERE partner_id = $1 ORDER BY created_at, transaction_id`, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partner transactions: %w", err)
	}
	defer rows.Close()

	entries := []domain.TreasuryTransaction{}
	for rows.Next() {
		t, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan treasury transaction row: %w", err)
		}
		entries = append(entries, t)
	}
	return entries, rows.Err()
}

func (r *PgxLedgerRepository) SumUnsettledByPartner(ctx context.Context, partnerID string) (money.Money, error) {
	settlement := domain.SettlementReferenceTypes()
	kinds := make([]string, len(settlement))
	for i, k := range settlement {
		kinds[i] = string(k)
	}

	var sum money.Money
	err := r.db(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM treasury_transactions
		WHERE partner_id = $1 AND (reference_type IS NULL OR NOT (reference_type = ANY($2)))`,
		partnerID, kinds,
	).Scan(&sum)
	if err != nil {
		return money.Zero(), fmt.Errorf("failed to sum partner %s ledger entries: %w", partnerID, err)
	}
	return sum, nil
}

func (r *PgxLedgerRepository) SumPartnerEntries(ctx context.Context, partnerID string, txType domain.TransactionType, from, to time.Time) (money.Money, error) {
	var sum money.Money
	err := r.db(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM treasury_transactions
		WHERE partner_id = $1 AND transaction_type = $2
		  AND created_at >= $3 AND created_at < $4`,
		partnerID, string(txType), dateOnly(from), dateOnly(to).AddDate(0, 0, 1),
	).Scan(&sum)
	if err != nil {
		return money.Zero(), fmt.Errorf("failed to sum partner %s %s entries: %w", partnerID, txType, err)
	}
	return sum, nil
}

func (r *PgxLedgerRepository) ReferenceExists(ctx context.Context, refType domain.ReferenceType, refID string) (bool, error) {
	table, ok := refType.Table()
	if !ok {
		return false, fmt.Errorf("%w: unknown reference type %q", apperrors.ErrValidation, refType)
	}
	// Table and column come from closed lookups, never from input.
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1`, table, referenceKeyColumns[table])
	args := []any{refID}
	if table == "documents" {
		query += ` AND kind = $2`
		args = append(args, string(refType))
	}
	query += `)`

	var exists bool
	if err := r.db(ctx).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check reference %s %s: %w", refType, refID, err)
	}
	return exists, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefRef(r *domain.ReferenceType) string {
	if r == nil {
		return ""
	}
	return string(*r)
}

// dateOnly keeps DATE parameters free of time-of-day noise.
func dateOnly(t time.Time) time.Time { return domain.DateOnly(t) }
