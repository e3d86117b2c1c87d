package services

import (
	"context"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/internal/dto"
)

// EquitySvcFacade opens, closes and lists profit sharing periods
type EquitySvcFacade interface {
	OpenFirstPeriod(ctx context.Context, req dto.OpenPeriodRequest, userID string) (*domain.EquityPeriod, error)

	// ClosePeriod closes periodID and opens its successor. It returns the closed period and the new one.
	ClosePeriod(ctx context.Context, periodID string, req dto.ClosePeriodRequest, userID string) (*domain.EquityPeriod, *domain.EquityPeriod, error)

	GetOpenPeriod(ctx context.Context) (*domain.EquityPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.EquityPeriod, error)
}
