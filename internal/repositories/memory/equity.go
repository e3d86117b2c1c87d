package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
)

func (s *Store) SavePeriod(ctx context.Context, period domain.EquityPeriod) error {
	defer s.lock(ctx)()
	if _, ok := s.st.periods[period.PeriodID]; ok {
		return fmt.Errorf("%w: equity period %s", apperrors.ErrDuplicate, period.PeriodID)
	}
	if period.IsOpen() {
		for _, p := range s.st.periods {
			if p.IsOpen() {
				return fmt.Errorf("%w: an open equity period already exists", apperrors.ErrConflict)
			}
		}
	}
	s.st.periods[period.PeriodID] = copyPeriod(period)
	return nil
}

func (s *Store) UpdateClosedPeriod(ctx context.Context, period domain.EquityPeriod) error {
	defer s.lock(ctx)()
	stored, ok := s.st.periods[period.PeriodID]
	if !ok {
		return fmt.Errorf("%w: equity period %s", apperrors.ErrNotFound, period.PeriodID)
	}
	if !stored.IsOpen() {
		return fmt.Errorf("%w: equity period %s is already closed", apperrors.ErrConflict, period.PeriodID)
	}
	s.st.periods[period.PeriodID] = copyPeriod(period)
	return nil
}

func (s *Store) FindPeriodByIDForUpdate(ctx context.Context, periodID string) (*domain.EquityPeriod, error) {
	defer s.lock(ctx)()
	p, ok := s.st.periods[periodID]
	if !ok {
		return nil, fmt.Errorf("%w: equity period %s", apperrors.ErrNotFound, periodID)
	}
	p = copyPeriod(p)
	return &p, nil
}

func (s *Store) FindOpenPeriod(ctx context.Context) (*domain.EquityPeriod, error) {
	defer s.lock(ctx)()
	for _, p := range s.st.periods {
		if p.IsOpen() {
			p = copyPeriod(p)
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: open equity period", apperrors.ErrNotFound)
}

func (s *Store) ListPeriods(ctx context.Context) ([]domain.EquityPeriod, error) {
	defer s.lock(ctx)()
	out := make([]domain.EquityPeriod, 0, len(s.st.periods))
	for _, p := range s.st.periods {
		out = append(out, copyPeriod(p))
	}
	slices.SortFunc(out, func(a, b domain.EquityPeriod) int { return b.PeriodNumber - a.PeriodNumber })
	return out, nil
}
