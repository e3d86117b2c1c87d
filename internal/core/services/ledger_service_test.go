package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/treasury_ledger/internal/core/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

type LedgerServiceTestSuite struct {
	serviceSuite
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (s *LedgerServiceTestSuite) TestCreateTreasury_OverdraftDefaults() {
	cash, err := s.svc.Ledger.CreateTreasury(s.ctx, dto.CreateTreasuryRequest{Name: "Till", Type: domain.TreasuryCash, AllowOverdraft: ptr(true)}, testUserID)
	s.Require().NoError(err)
	s.False(cash.AllowOverdraft, "cash can never be overdrawn")

	bank, err := s.svc.Ledger.CreateTreasury(s.ctx, dto.CreateTreasuryRequest{Name: "Bank", Type: domain.TreasuryBank}, testUserID)
	s.Require().NoError(err)
	s.False(bank.AllowOverdraft, "falls back to the configured default")

	overdraft, err := s.svc.Ledger.CreateTreasury(s.ctx, dto.CreateTreasuryRequest{Name: "Credit line", Type: domain.TreasuryBank, AllowOverdraft: ptr(true)}, testUserID)
	s.Require().NoError(err)
	s.True(overdraft.AllowOverdraft)

	_, err = s.svc.Ledger.CreateTreasury(s.ctx, dto.CreateTreasuryRequest{Name: " ", Type: domain.TreasuryCash}, testUserID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestRejectsOutflowBeyondBalance() {
	till := s.cashTreasury("Till", "10000")

	_, err := s.svc.Treasury.RecordTransaction(s.ctx, dto.RecordTransactionRequest{
		TreasuryID: till.TreasuryID,
		Type:       domain.TxnOtherExpense,
		Amount:     money.MustParse("15000"),
	}, testUserID)
	s.ErrorIs(err, apperrors.ErrInsufficientBalance)
	s.assertMoney("10000", s.balance(till))

	// Exactly draining the treasury is allowed.
	_, err = s.svc.Treasury.RecordTransaction(s.ctx, dto.RecordTransactionRequest{
		TreasuryID: till.TreasuryID,
		Type:       domain.TxnOtherExpense,
		Amount:     money.MustParse("10000"),
	}, testUserID)
	s.NoError(err)
	s.assertMoney("0", s.balance(till))
}

func (s *LedgerServiceTestSuite) TestBankOverdraftAllowed() {
	bank, err := s.svc.Ledger.CreateTreasury(s.ctx, dto.CreateTreasuryRequest{Name: "Bank", Type: domain.TreasuryBank, AllowOverdraft: ptr(true)}, testUserID)
	s.Require().NoError(err)

	_, err = s.svc.Treasury.RecordTransaction(s.ctx, dto.RecordTransactionRequest{
		TreasuryID: bank.TreasuryID,
		Type:       domain.TxnPayment,
		Amount:     money.MustParse("250.5"),
	}, testUserID)
	s.NoError(err)
	s.assertMoney("-250.5", s.balance(bank))
}

func (s *LedgerServiceTestSuite) TestBalanceEqualsSumOfEntries() {
	till := s.cashTreasury("Till", "1000")

	amounts := []struct {
		typ    domain.TransactionType
		amount string
	}{
		{domain.TxnIncome, "200.25"},
		{domain.TxnExpense, "-50"}, // sign of the input is ignored
		{domain.TxnSalaryPayment, "300"},
		{domain.TxnOtherIncome, "0.0001"},
	}
	for _, a := range amounts {
		_, err := s.svc.Treasury.RecordTransaction(s.ctx, dto.RecordTransactionRequest{
			TreasuryID: till.TreasuryID, Type: a.typ, Amount: money.MustParse(a.amount),
		}, testUserID)
		s.Require().NoError(err)
	}

	page, err := s.svc.Ledger.ListTransactions(s.ctx, till.TreasuryID, dto.ListTreasuryTransactionsParams{Limit: 500})
	s.Require().NoError(err)
	s.Len(page.Transactions, 5)

	sum := money.Zero()
	for _, e := range page.Transactions {
		sum = sum.Add(e.Amount)
		if e.Type.IsOutflow() {
			s.True(e.Amount.IsNegative(), "outflow %s stored with sign", e.Type)
		} else {
			s.True(e.Amount.IsPositive(), "inflow %s stored with sign", e.Type)
		}
	}
	s.assertMoney("850.2501", sum)
	s.Equal(sum, s.balance(till))
}

func (s *LedgerServiceTestSuite) TestRecordTransaction_Validation() {
	till := s.cashTreasury("Till", "")

	_, err := s.svc.Treasury.RecordTransaction(s.ctx, dto.RecordTransactionRequest{
		TreasuryID: till.TreasuryID, Type: domain.TxnIncome, Amount: money.Zero(),
	}, testUserID)
	s.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = s.svc.Treasury.RecordTransaction(s.ctx, dto.RecordTransactionRequest{
		TreasuryID: till.TreasuryID, Type: "bonus", Amount: money.FromInt(1),
	}, testUserID)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Treasury.RecordTransaction(s.ctx, dto.RecordTransactionRequest{
		TreasuryID: till.TreasuryID, Type: domain.TxnIncome, Amount: money.FromInt(1),
		ReferenceType: ptr("expense"), ReferenceID: ptr("missing"),
	}, testUserID)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Treasury.RecordTransaction(s.ctx, dto.RecordTransactionRequest{
		TreasuryID: "nope", Type: domain.TxnIncome, Amount: money.FromInt(1),
	}, testUserID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestListTransactions_Pagination() {
	till := s.cashTreasury("Till", "")
	for i := 0; i < 5; i++ {
		s.advance(1)
		_, err := s.svc.Treasury.RecordTransaction(s.ctx, dto.RecordTransactionRequest{
			TreasuryID: till.TreasuryID, Type: domain.TxnIncome, Amount: money.FromInt(int64(i + 1)),
		}, testUserID)
		s.Require().NoError(err)
	}

	first, err := s.svc.Ledger.ListTransactions(s.ctx, till.TreasuryID, dto.ListTreasuryTransactionsParams{Limit: 3})
	s.Require().NoError(err)
	s.Require().Len(first.Transactions, 3)
	s.Require().NotNil(first.NextToken)
	s.assertMoney("5", first.Transactions[0].Amount)

	second, err := s.svc.Ledger.ListTransactions(s.ctx, till.TreasuryID, dto.ListTreasuryTransactionsParams{Limit: 3, NextToken: *first.NextToken})
	s.Require().NoError(err)
	s.Len(second.Transactions, 2)
	s.Nil(second.NextToken)
	s.assertMoney("1", second.Transactions[1].Amount)
}

func (s *LedgerServiceTestSuite) TestDeleteTreasury() {
	empty := s.cashTreasury("Spare", "")
	s.NoError(s.svc.Ledger.DeleteTreasury(s.ctx, empty.TreasuryID, testUserID))
	_, err := s.svc.Ledger.GetTreasury(s.ctx, empty.TreasuryID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	used := s.cashTreasury("Till", "10")
	s.ErrorIs(s.svc.Ledger.DeleteTreasury(s.ctx, used.TreasuryID, testUserID), apperrors.ErrHasAssociatedRecords)
}

func ptr[T any](v T) *T { return &v }

// --- Mocks for the concurrent duplicate path ---

type passThroughTx struct{}

func (passThroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockTreasuryRepository struct {
	mock.Mock
}

var _ portsrepo.TreasuryRepositoryFacade = (*MockTreasuryRepository)(nil)

func (m *MockTreasuryRepository) FindTreasuryByID(ctx context.Context, treasuryID string) (*domain.Treasury, error) {
	args := m.Called(ctx, treasuryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Treasury), args.Error(1)
}

func (m *MockTreasuryRepository) FindTreasuryByIDForUpdate(ctx context.Context, treasuryID string) (*domain.Treasury, error) {
	args := m.Called(ctx, treasuryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Treasury), args.Error(1)
}

func (m *MockTreasuryRepository) ListTreasuries(ctx context.Context) ([]domain.Treasury, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Treasury), args.Error(1)
}

func (m *MockTreasuryRepository) TreasuryHasReferences(ctx context.Context, treasuryID string) (bool, error) {
	args := m.Called(ctx, treasuryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTreasuryRepository) SaveTreasury(ctx context.Context, treasury domain.Treasury) error {
	return m.Called(ctx, treasury).Error(0)
}

func (m *MockTreasuryRepository) DeleteTreasury(ctx context.Context, treasuryID string) error {
	return m.Called(ctx, treasuryID).Error(0)
}

type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindTransactionByReference(ctx context.Context, refType domain.ReferenceType, refID, purpose string) (*domain.TreasuryTransaction, error) {
	args := m.Called(ctx, refType, refID, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TreasuryTransaction), args.Error(1)
}

func (m *MockLedgerRepository) SumByTreasury(ctx context.Context, treasuryID string) (money.Money, error) {
	args := m.Called(ctx, treasuryID)
	return args.Get(0).(money.Money), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactionsByTreasury(ctx context.Context, treasuryID string, limit int, nextToken *string) ([]domain.TreasuryTransaction, *string, error) {
	args := m.Called(ctx, treasuryID, limit, nextToken)
	return args.Get(0).([]domain.TreasuryTransaction), nil, args.Error(2)
}

func (m *MockLedgerRepository) ListTransactionsByPartner(ctx context.Context, partnerID string) ([]domain.TreasuryTransaction, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).([]domain.TreasuryTransaction), args.Error(1)
}

func (m *MockLedgerRepository) SumUnsettledByPartner(ctx context.Context, partnerID string) (money.Money, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).(money.Money), args.Error(1)
}

func (m *MockLedgerRepository) SumPartnerEntries(ctx context.Context, partnerID string, txType domain.TransactionType, from, to time.Time) (money.Money, error) {
	args := m.Called(ctx, partnerID, txType, from, to)
	return args.Get(0).(money.Money), args.Error(1)
}

func (m *MockLedgerRepository) ReferenceExists(ctx context.Context, refType domain.ReferenceType, refID string) (bool, error) {
	args := m.Called(ctx, refType, refID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) InsertTransaction(ctx context.Context, txn domain.TreasuryTransaction) error {
	return m.Called(ctx, txn).Error(0)
}

func TestAppend_LosingConcurrentPostReturnsWinner(t *testing.T) {
	ctx := context.Background()
	treasuries := new(MockTreasuryRepository)
	ledger := new(MockLedgerRepository)

	till := &domain.Treasury{TreasuryID: "t1", Type: domain.TreasuryCash}
	winner := &domain.TreasuryTransaction{TransactionID: "winner", TreasuryID: "t1", Amount: money.MustParse("-40")}

	// The pre-check misses because the winner has not committed yet; the insert then conflicts.
	ledger.On("FindTransactionByReference", mock.Anything, domain.RefExpense, "exp-1", domain.PurposePosting).
		Return(nil, apperrors.ErrNotFound).Once()
	treasuries.On("FindTreasuryByIDForUpdate", mock.Anything, "t1").Return(till, nil)
	ledger.On("SumByTreasury", mock.Anything, "t1").Return(money.MustParse("100"), nil)
	ledger.On("InsertTransaction", mock.Anything, mock.AnythingOfType("domain.TreasuryTransaction")).
		Return(apperrors.ErrDuplicatePosting)
	ledger.On("FindTransactionByReference", mock.Anything, domain.RefExpense, "exp-1", domain.PurposePosting).
		Return(winner, nil).Once()

	svc := services.NewLedgerService(passThroughTx{}, treasuries, ledger, nil, false)
	ref := domain.RefExpense
	refID := "exp-1"
	got, err := svc.Append(ctx, domain.TreasuryTransaction{
		TreasuryID:    "t1",
		Type:          domain.TxnExpense,
		Amount:        money.MustParse("40"),
		ReferenceType: &ref,
		ReferenceID:   &refID,
		Purpose:       domain.PurposePosting,
	})

	assert.ErrorIs(t, err, apperrors.ErrDuplicatePosting)
	require.NotNil(t, got)
	assert.Equal(t, "winner", got.TransactionID)
	treasuries.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestAppend_SignsAmountBeforeInsert(t *testing.T) {
	ctx := context.Background()
	treasuries := new(MockTreasuryRepository)
	ledger := new(MockLedgerRepository)

	treasuries.On("FindTreasuryByIDForUpdate", mock.Anything, "t1").Return(&domain.Treasury{TreasuryID: "t1", Type: domain.TreasuryCash}, nil)
	ledger.On("SumByTreasury", mock.Anything, "t1").Return(money.MustParse("100"), nil)
	ledger.On("InsertTransaction", mock.Anything, mock.MatchedBy(func(txn domain.TreasuryTransaction) bool {
		return txn.Amount.Equal(money.MustParse("-25")) && txn.TransactionID != "" && !txn.CreatedAt.IsZero()
	})).Return(nil)

	svc := services.NewLedgerService(passThroughTx{}, treasuries, ledger, nil, false)
	got, err := svc.Append(ctx, domain.TreasuryTransaction{TreasuryID: "t1", Type: domain.TxnPayment, Amount: money.MustParse("25")})

	require.NoError(t, err)
	assert.Equal(t, "-25.0000", got.Amount.String())
	ledger.AssertExpectations(t)
}
