package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/internal/core/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/internal/platform/config"
	"github.com/SscSPs/treasury_ledger/internal/utils"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

type UserServiceTestSuite struct {
	serviceSuite
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) TestCreateUserAndLogin() {
	user, err := s.svc.User.CreateUser(s.ctx, dto.CreateUserRequest{
		Username: "  cashier ",
		Name:     "Front Desk",
		Password: "correct horse",
	}, "admin")
	s.Require().NoError(err)
	s.Equal("cashier", user.Username)
	s.NotEqual("correct horse", user.PasswordHash)
	s.Equal("admin", user.CreatedBy)

	fetched, err := s.svc.User.GetUserByID(s.ctx, user.UserID)
	s.Require().NoError(err)
	s.Equal(user.Username, fetched.Username)

	token, expiresAt, err := s.svc.Token.Login(s.ctx, "cashier", "correct horse")
	s.Require().NoError(err)
	s.Equal(s.now.Add(s.cfg.JWTExpiryDuration), expiresAt)

	claims, err := utils.ParseAndValidateJWT(token, s.cfg.JWTSecret, s.cfg.JWTIssuer)
	s.Require().NoError(err)
	s.Equal(user.UserID, claims.Subject)
	s.Equal("cashier", claims.Username)
}

func (s *UserServiceTestSuite) TestLoginRejectsBadCredentials() {
	_, err := s.svc.User.CreateUser(s.ctx, dto.CreateUserRequest{Username: "cashier", Password: "correct horse"}, "admin")
	s.Require().NoError(err)

	_, _, err = s.svc.Token.Login(s.ctx, "cashier", "wrong horse")
	s.ErrorIs(err, apperrors.ErrUnauthorized)

	_, _, err = s.svc.Token.Login(s.ctx, "nobody", "correct horse")
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *UserServiceTestSuite) TestCreateUser_Validation() {
	_, err := s.svc.User.CreateUser(s.ctx, dto.CreateUserRequest{Username: " ", Password: "correct horse"}, "admin")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.User.CreateUser(s.ctx, dto.CreateUserRequest{Username: "cashier", Password: "short"}, "admin")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.User.CreateUser(s.ctx, dto.CreateUserRequest{Username: "cashier", Password: "correct horse"}, "admin")
	s.Require().NoError(err)
	_, err = s.svc.User.CreateUser(s.ctx, dto.CreateUserRequest{Username: "cashier", Password: "another horse"}, "admin")
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func TestLogin_RepositoryFailureIsNotUnauthorized(t *testing.T) {
	repo := new(MockUserRepository)
	boom := errors.New("connection reset")
	repo.On("FindUserByUsername", mock.Anything, "cashier").Return(nil, boom)

	svc := services.NewTokenService(&config.Config{JWTSecret: "s", JWTExpiryDuration: time.Hour}, repo)
	_, _, err := svc.Login(context.Background(), "cashier", "correct horse")

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
	repo.AssertExpectations(t)
}

func TestGetUserByID_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindUserByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	svc := services.NewUserService(repo)
	user, err := svc.GetUserByID(context.Background(), "missing")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertExpectations(t)
}
