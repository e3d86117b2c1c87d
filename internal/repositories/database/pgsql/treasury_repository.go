package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTreasuryRepository struct {
	BaseRepository
}

func newPgxTreasuryRepository(pool *pgxpool.Pool) portsrepo.TreasuryRepositoryFacade {
	return &PgxTreasuryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TreasuryRepositoryFacade = (*PgxTreasuryRepository)(nil)

const treasuryColumns = `treasury_id, name, treasury_type, allow_overdraft, created_at, created_by, last_updated_at, last_updated_by`

func scanTreasury(row pgx.Row) (domain.Treasury, error) {
	var t domain.Treasury
	err := row.Scan(
		&t.TreasuryID,
		&t.Name,
		&t.Type,
		&t.AllowOverdraft,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	return t, err
}

func (r *PgxTreasuryRepository) SaveTreasury(ctx context.Context, t domain.Treasury) error {
	query := `
		INSERT INTO treasuries (` + treasuryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		t.TreasuryID, t.Name, t.Type, t.AllowOverdraft,
		t.CreatedAt, t.CreatedBy, t.LastUpdatedAt, t.LastUpdatedBy,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return fmt.Errorf("%w: treasury %s", apperrors.ErrDuplicate, t.TreasuryID)
		}
		return fmt.Errorf("failed to save treasury %s: %w", t.TreasuryID, err)
	}
	return nil
}

func (r *PgxTreasuryRepository) FindTreasuryByID(ctx context.Context, treasuryID string) (*domain.Treasury, error) {
	return r.findTreasury(ctx, treasuryID, "")
}

func (r *PgxTreasuryRepository) FindTreasuryByIDForUpdate(ctx context.Context, treasuryID string) (*domain.Treasury, error) {
	return r.findTreasury(ctx, treasuryID, "FOR UPDATE")
}

func (r *PgxTreasuryRepository) findTreasury(ctx context.Context, treasuryID, lock string) (*domain.Treasury, error) {
	query := `SELECT ` + treasuryColumns + ` FROM treasuries WHERE treasury_id = $1 ` + lock
	t, err := scanTreasury(r.db(ctx).QueryRow(ctx, query, treasuryID))
	if err != nil {
		return nil, mapNotFound(err, "treasury", treasuryID)
	}
	return &t, nil
}

func (r *PgxTreasuryRepository) ListTreasuries(ctx context.Context) ([]domain.Treasury, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+treasuryColumns+` FROM treasuries ORDER BY name, treasury_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list treasuries: %w", err)
	}
	defer rows.Close()

	treasuries := []domain.Treasury{}
	for rows.Next() {
		t, err := scanTreasury(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan treasury row: %w", err)
		}
		treasuries = append(treasuries, t)
	}
	return treasuries, rows.Err()
}

func (r *PgxTreasuryRepository) TreasuryHasReferences(ctx context.Context, treasuryID string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM treasury_transactions WHERE treasury_id = $1)
		    OR EXISTS (SELECT 1 FROM expenses WHERE treasury_id = $1)
		    OR EXISTS (SELECT 1 FROM revenues WHERE treasury_id = $1)
		    OR EXISTS (SELECT 1 FROM fixed_assets WHERE treasury_id = $1)
		    OR EXISTS (SELECT 1 FROM documents WHERE treasury_id = $1)
	`
	var referenced bool
	if err := r.db(ctx).QueryRow(ctx, query, treasuryID).Scan(&referenced); err != nil {
		return false, fmt.Errorf("failed to check treasury references: %w", err)
	}
	return referenced, nil
}

func (r *PgxTreasuryRepository) DeleteTreasury(ctx context.Context, treasuryID string) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM treasuries WHERE treasury_id = $1`, treasuryID)
	if err != nil {
		return fmt.Errorf("failed to delete treasury %s: %w", treasuryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("treasury " + treasuryID)
	}
	return nil
}
