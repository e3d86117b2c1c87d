package repositories

import (
	"context"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
)

// EquityRepositoryFacade stores equity periods and their partner stakes
type EquityRepositoryFacade interface {
	// SavePeriod inserts a period with its partners. Inserting a second open
	// period returns apperrors.ErrConflict.
	SavePeriod(ctx context.Context, period domain.EquityPeriod) error

	// UpdateClosedPeriod persists the closing totals and each partner's allocation.
	UpdateClosedPeriod(ctx context.Context, period domain.EquityPeriod) error

	FindPeriodByIDForUpdate(ctx context.Context, periodID string) (*domain.EquityPeriod, error)

	// FindOpenPeriod returns the open period or apperrors.ErrNotFound.
	FindOpenPeriod(ctx context.Context) (*domain.EquityPeriod, error)

	// ListPeriods returns every period, newest first.
	ListPeriods(ctx context.Context) ([]domain.EquityPeriod, error)
}
