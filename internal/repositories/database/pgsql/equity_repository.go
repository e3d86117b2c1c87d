package pgsql

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEquityRepository struct {
	BaseRepository
}

func newPgxEquityRepository(pool *pgxpool.Pool) portsrepo.EquityRepositoryFacade {
	return &PgxEquityRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EquityRepositoryFacade = (*PgxEquityRepository)(nil)

const periodColumns = `period_id, period_number, start_date, end_date, status, total_revenue, total_expenses,
	net_profit, closed_at, closed_by, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanPeriod(row pgx.Row) (domain.EquityPeriod, error) {
	var p domain.EquityPeriod
	err := row.Scan(
		&p.PeriodID,
		&p.PeriodNumber,
		&p.StartDate,
		&p.EndDate,
		&p.Status,
		&p.TotalRevenue,
		&p.TotalExpenses,
		&p.NetProfit,
		&p.ClosedAt,
		&p.ClosedBy,
		&p.Notes,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func (r *PgxEquityRepository) SavePeriod(ctx context.Context, p domain.EquityPeriod) error {
	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := r.db(ctx).Exec(ctx,
			`INSERT INTO equity_periods (`+periodColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			p.PeriodID, p.PeriodNumber, dateOnly(p.StartDate), p.EndDate, p.Status, p.TotalRevenue, p.TotalExpenses,
			p.NetProfit, p.ClosedAt, p.ClosedBy, p.Notes, p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
		)
		if err != nil {
			if isPgError(err, pgUniqueViolation) {
				return fmt.Errorf("%w: an open equity period already exists", apperrors.ErrConflict)
			}
			return fmt.Errorf("failed to insert equity period %s: %w", p.PeriodID, err)
		}

		batch := &pgx.Batch{}
		for _, ep := range p.Partners {
			batch.Queue(`
				INSERT INTO equity_period_partners
					(period_id, partner_id, equity_percentage, capital_at_start, capital_injected, profit_allocated)
				VALUES ($1, $2, $3, $4, $5, $6);`,
				p.PeriodID, ep.PartnerID, ep.EquityPercentage, ep.CapitalAtStart, ep.CapitalInjected, ep.ProfitAllocated)
		}
		if err := r.db(ctx).SendBatch(ctx, batch).Close(); err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert partners for period "+p.PeriodID, err)
		}
		return nil
	})
}

func (r *PgxEquityRepository) UpdateClosedPeriod(ctx context.Context, p domain.EquityPeriod) error {
	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		tag, err := r.db(ctx).Exec(ctx, `
			UPDATE equity_periods
			SET end_date = $2, status = $3, total_revenue = $4, total_expenses = $5, net_profit = $6,
			    closed_at = $7, closed_by = $8, notes = $9, last_updated_at = $10, last_updated_by = $11
			WHERE period_id = $1 AND status = 'open'`,
			p.PeriodID, p.EndDate, p.Status, p.TotalRevenue, p.TotalExpenses, p.NetProfit,
			p.ClosedAt, p.ClosedBy, p.Notes, p.LastUpdatedAt, p.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to close equity period %s: %w", p.PeriodID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: equity period %s is not open", apperrors.ErrConflict, p.PeriodID)
		}

		batch := &pgx.Batch{}
		for _, ep := range p.Partners {
			batch.Queue(`
				UPDATE equity_period_partners SET capital_injected = $3, profit_allocated = $4
				WHERE period_id = $1 AND partner_id = $2;`, p.PeriodID, ep.PartnerID, ep.CapitalInjected, ep.ProfitAllocated)
		}
		if err := r.db(ctx).SendBatch(ctx, batch).Close(); err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to allocate profit for period "+p.PeriodID, err)
		}
		return nil
	})
}

func (r *PgxEquityRepository) FindPeriodByIDForUpdate(ctx context.Context, periodID string) (*domain.EquityPeriod, error) {
	p, err := scanPeriod(r.db(ctx).QueryRow(ctx,
		`SELECT `+periodColumns+` FROM equity_periods WHERE period_id = $1 FOR UPDATE`, periodID))
	if err != nil {
		return nil, mapNotFound(err, "equity period", periodID)
	}
	if err := r.loadPartners(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgxEquityRepository) FindOpenPeriod(ctx context.Context) (*domain.EquityPeriod, error) {
	p, err := scanPeriod(r.db(ctx).QueryRow(ctx,
		`SELECT `+periodColumns+` FROM equity_periods WHERE status = 'open'`))
	if err != nil {
		return nil, mapNotFound(err, "equity period", "open")
	}
	if err := r.loadPartners(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgxEquityRepository) ListPeriods(ctx context.Context) ([]domain.EquityPeriod, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+periodColumns+` FROM equity_periods ORDER BY period_number DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list equity periods: %w", err)
	}
	periods := []domain.EquityPeriod{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan equity period: %w", err)
		}
		periods = append(periods, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range periods {
		if err := r.loadPartners(ctx, &periods[i]); err != nil {
			return nil, err
		}
	}
	return periods, nil
}

func (r *PgxEquityRepository) loadPartners(ctx context.Context, p *domain.EquityPeriod) error {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT partner_id, equity_percentage, capital_at_start, capital_injected, profit_allocated
		FROM equity_period_partners WHERE period_id = $1 ORDER BY partner_id`, p.PeriodID)
	if err != nil {
		return fmt.Errorf("failed to query partners of period %s: %w", p.PeriodID, err)
	}
	defer rows.Close()

	p.Partners = []domain.EquityPartner{}
	for rows.Next() {
		var ep domain.EquityPartner
		if err := rows.Scan(&ep.PartnerID, &ep.EquityPercentage, &ep.CapitalAtStart, &ep.CapitalInjected, &ep.ProfitAllocated); err != nil {
			return fmt.Errorf("failed to scan period partner: %w", err)
		}
		p.Partners = append(p.Partners, ep)
	}
	return rows.Err()
}
