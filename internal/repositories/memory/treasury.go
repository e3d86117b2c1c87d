package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
)

func (s *Store) SaveTreasury(ctx context.Context, t domain.Treasury) error {
	defer s.lock(ctx)()
	if _, ok := s.st.treasuries[t.TreasuryID]; ok {
		return fmt.Errorf("%w: treasury %s", apperrors.ErrDuplicate, t.TreasuryID)
	}
	s.st.treasuries[t.TreasuryID] = t
	return nil
}

func (s *Store) FindTreasuryByID(ctx context.Context, treasuryID string) (*domain.Treasury, error) {
	defer s.lock(ctx)()
	t, ok := s.st.treasuries[treasuryID]
	if !ok {
		return nil, fmt.Errorf("%w: treasury %s", apperrors.ErrNotFound, treasuryID)
	}
	return &t, nil
}

// FindTreasuryByIDForUpdate is FindTreasuryByID; the store lock already serializes writers.
func (s *Store) FindTreasuryByIDForUpdate(ctx context.Context, treasuryID string) (*domain.Treasury, error) {
	return s.FindTreasuryByID(ctx, treasuryID)
}

func (s *Store) ListTreasuries(ctx context.Context) ([]domain.Treasury, error) {
	defer s.lock(ctx)()
	out := make([]domain.Treasury, 0, len(s.st.treasuries))
	for _, t := range s.st.treasuries {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b domain.Treasury) int {
		return cmpOr(strings.Compare(a.Name, b.Name), strings.Compare(a.TreasuryID, b.TreasuryID))
	})
	return out, nil
}

func (s *Store) TreasuryHasReferences(ctx context.Context, treasuryID string) (bool, error) {
	defer s.lock(ctx)()
	for _, e := range s.st.ledger {
		if e.TreasuryID == treasuryID {
			return true, nil
		}
	}
	for _, e := range s.st.expenses {
		if e.TreasuryID == treasuryID {
			return true, nil
		}
	}
	for _, r := range s.st.revenues {
		if r.TreasuryID == treasuryID {
			return true, nil
		}
	}
	for _, d := range s.st.documents {
		if d.TreasuryID != nil && *d.TreasuryID == treasuryID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeleteTreasury(ctx context.Context, treasuryID string) error {
	defer s.lock(ctx)()
	if _, ok := s.st.treasuries[treasuryID]; !ok {
		return fmt.Errorf("%w: treasury %s", apperrors.ErrNotFound, treasuryID)
	}
	delete(s.st.treasuries, treasuryID)
	return nil
}
