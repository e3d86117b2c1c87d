package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
)

func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	defer s.lock(ctx)()
	for _, u := range s.st.users {
		if u.UserID == user.UserID || u.Username == user.Username {
			return fmt.Errorf("%w: user %s", apperrors.ErrDuplicate, user.Username)
		}
	}
	s.st.users[user.UserID] = user
	return nil
}

func (s *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	defer s.lock(ctx)()
	u, ok := s.st.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	return &u, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	defer s.lock(ctx)()
	for _, u := range s.st.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, username)
}
