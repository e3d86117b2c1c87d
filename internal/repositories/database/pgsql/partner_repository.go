package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/treasury_ledger/pkg/money"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPartnerRepository struct {
	BaseRepository
}

func newPgxPartnerRepository(pool *pgxpool.Pool) portsrepo.PartnerRepositoryFacade {
	return &PgxPartnerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PartnerRepositoryFacade = (*PgxPartnerRepository)(nil)

const partnerColumns = `partner_id, name, partner_type, phone, current_balance, created_at, created_by, last_updated_at, last_updated_by`

func scanPartner(row pgx.Row) (domain.Partner, error) {
	var p domain.Partner
	err := row.Scan(
		&p.PartnerID,
		&p.Name,
		&p.Type,
		&p.Phone,
		&p.CurrentBalance,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func (r *PgxPartnerRepository) SavePartner(ctx context.Context, p domain.Partner) error {
	query := `INSERT INTO partners (` + partnerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db(ctx).Exec(ctx, query,
		p.PartnerID, p.Name, p.Type, p.Phone, p.CurrentBalance,
		p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return fmt.Errorf("%w: partner %s", apperrors.ErrDuplicate, p.PartnerID)
		}
		return fmt.Errorf("failed to save partner %s: %w", p.PartnerID, err)
	}
	return nil
}

func (r *PgxPartnerRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	p, err := scanPartner(r.db(ctx).QueryRow(ctx, `SELECT `+partnerColumns+` FROM partners WHERE partner_id = $1`, partnerID))
	if err != nil {
		return nil, mapNotFound(err, "partner", partnerID)
	}
	return &p, nil
}

func (r *PgxPartnerRepository) FindPartnerByIDForUpdate(ctx context.Context, partnerID string) (*domain.Partner, error) {
	p, err := scanPartner(r.db(ctx).QueryRow(ctx, `SELECT `+partnerColumns+` FROM partners WHERE partner_id = $1 FOR UPDATE`, partnerID))
	if err != nil {
		return nil, mapNotFound(err, "partner", partnerID)
	}
	return &p, nil
}

func (r *PgxPartnerRepository) ListPartners(ctx context.Context, partnerType *domain.PartnerType) ([]domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners`
	args := []any{}
	if partnerType != nil {
		query += ` WHERE partner_type = $1`
		args = append(args, string(*partnerType))
	}
	query += ` ORDER BY name, partner_id`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	partners := []domain.Partner{}
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner row: %w", err)
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

func (r *PgxPartnerRepository) PartnerHasReferences(ctx context.Context, partnerID string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM documents WHERE partner_id = $1)
		    OR EXISTS (SELECT 1 FROM treasury_transactions WHERE partner_id = $1)
		    OR EXISTS (SELECT 1 FROM equity_period_partners WHERE partner_id = $1)
	`
	var referenced bool
	if err := r.db(ctx).QueryRow(ctx, query, partnerID).Scan(&referenced); err != nil {
		return false, fmt.Errorf("failed to check partner references: %w", err)
	}
	return referenced, nil
}

func (r *PgxPartnerRepository) UpdatePartnerBalance(ctx context.Context, partnerID string, balance money.Money, userID string, now time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE partners SET current_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE partner_id = $1`,
		partnerID, balance, now, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update partner %s balance: %w", partnerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("partner " + partnerID)
	}
	return nil
}

func (r *PgxPartnerRepository) DeletePartner(ctx context.Context, partnerID string) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM partners WHERE partner_id = $1`, partnerID)
	if err != nil {
		return fmt.Errorf("failed to delete partner %s: %w", partnerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("partner " + partnerID)
	}
	return nil
}
