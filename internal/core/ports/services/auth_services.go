package services

import (
	"context"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/internal/dto"
)

// UserSvcFacade manages ledger operators
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// TokenSvcFacade issues access tokens for operators
type TokenSvcFacade interface {
	// Login checks credentials and returns a signed token with its expiry.
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}
