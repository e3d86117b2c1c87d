package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

func (s *Store) SavePartner(ctx context.Context, p domain.Partner) error {
	defer s.lock(ctx)()
	if _, ok := s.st.partners[p.PartnerID]; ok {
		return fmt.Errorf("%w: partner %s", apperrors.ErrDuplicate, p.PartnerID)
	}
	s.st.partners[p.PartnerID] = p
	return nil
}

func (s *Store) FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	defer s.lock(ctx)()
	p, ok := s.st.partners[partnerID]
	if !ok {
		return nil, fmt.Errorf("%w: partner %s", apperrors.ErrNotFound, partnerID)
	}
	return &p, nil
}

func (s *Store) FindPartnerByIDForUpdate(ctx context.Context, partnerID string) (*domain.Partner, error) {
	return s.FindPartnerByID(ctx, partnerID)
}

func (s *Store) ListPartners(ctx context.Context, partnerType *domain.PartnerType) ([]domain.Partner, error) {
	defer s.lock(ctx)()
	out := []domain.Partner{}
	for _, p := range s.st.partners {
		if partnerType != nil && p.Type != *partnerType {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b domain.Partner) int {
		return cmpOr(strings.Compare(a.Name, b.Name), strings.Compare(a.PartnerID, b.PartnerID))
	})
	return out, nil
}

func (s *Store) PartnerHasReferences(ctx context.Context, partnerID string) (bool, error) {
	defer s.lock(ctx)()
	for _, d := range s.st.documents {
		if d.PartnerID != nil && *d.PartnerID == partnerID {
			return true, nil
		}
	}
	for _, e := range s.st.ledger {
		if e.PartnerID != nil && *e.PartnerID == partnerID {
			return true, nil
		}
	}
	for _, p := range s.st.periods {
		for _, ep := range p.Partners {
			if ep.PartnerID == partnerID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *Store) UpdatePartnerBalance(ctx context.Context, partnerID string, balance money.Money, userID string, now time.Time) error {
	defer s.lock(ctx)()
	p, ok := s.st.partners[partnerID]
	if !ok {
		return fmt.Errorf("%w: partner %s", apperrors.ErrNotFound, partnerID)
	}
	p.CurrentBalance = balance
	p.LastUpdatedAt = now
	p.LastUpdatedBy = userID
	s.st.partners[partnerID] = p
	return nil
}

func (s *Store) DeletePartner(ctx context.Context, partnerID string) error {
	defer s.lock(ctx)()
	if _, ok := s.st.partners[partnerID]; !ok {
		return fmt.Errorf("%w: partner %s", apperrors.ErrNotFound, partnerID)
	}
	delete(s.st.partners, partnerID)
	return nil
}
