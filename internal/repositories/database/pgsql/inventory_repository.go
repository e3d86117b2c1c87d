package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxInventoryRepository struct {
	BaseRepository
}

func newPgxInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryRepositoryFacade {
	return &PgxInventoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

func (r *PgxInventoryRepository) SaveProduct(ctx context.Context, p domain.Product) error {
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO products (product_id, name, sku, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ProductID, p.Name, p.SKU, p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return fmt.Errorf("%w: product sku %s", apperrors.ErrDuplicate, p.SKU)
		}
		return fmt.Errorf("failed to save product %s: %w", p.ProductID, err)
	}
	return nil
}

func (r *PgxInventoryRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	products := make(map[string]domain.Product)
	if len(productIDs) == 0 {
		return products, nil
	}
	rows, err := r.db(ctx).Query(ctx, `
		SELECT product_id, name, sku, created_at, created_by, last_updated_at, last_updated_by
		FROM products WHERE product_id = ANY($1)`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ProductID, &p.Name, &p.SKU, &p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[p.ProductID] = p
	}
	return products, rows.Err()
}

// ApplyStockDelta upserts the level; the CHECK (quantity >= 0) constraint rejects overdraws.
func (r *PgxInventoryRepository) ApplyStockDelta(ctx context.Context, productID, warehouseID string, delta decimal.Decimal) error {
	if delta.IsNegative() {
		// Upserting a negative quantity for a missing row would hit the CHECK on insert;
		// report it the same way as a real shortfall.
		var current decimal.Decimal
		err := r.db(ctx).QueryRow(ctx, `
			SELECT quantity FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`,
			productID, warehouseID,
		).Scan(&current)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to lock stock level: %w", err)
		}
		if current.Add(delta).IsNegative() {
			return fmt.Errorf("%w: product %s in %s has %s, needs %s",
				apperrors.ErrInsufficientStock, productID, warehouseID, current.String(), delta.Neg().String())
		}
	}

	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO stock_levels (product_id, warehouse_id, quantity) VALUES ($1, $2, $3)
		ON CONFLICT (product_id, warehouse_id) DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity`,
		productID, warehouseID, delta,
	)
	if err != nil {
		if isPgError(err, pgCheckViolation) {
			return fmt.Errorf("%w: product %s in %s", apperrors.ErrInsufficientStock, productID, warehouseID)
		}
		return fmt.Errorf("failed to apply stock movement: %w", err)
	}
	return nil
}

func (r *PgxInventoryRepository) GetStockLevel(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := r.db(ctx).QueryRow(ctx,
		`SELECT quantity FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2`, productID, warehouseID,
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to read stock level: %w", err)
	}
	return qty, nil
}
