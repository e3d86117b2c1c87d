package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/language"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/core/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/internal/handlers"
	"github.com/SscSPs/treasury_ledger/internal/platform/config"
	"github.com/SscSPs/treasury_ledger/internal/repositories/memory"
	"github.com/SscSPs/treasury_ledger/internal/utils"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		IsProduction:       true,
		JWTSecret:          "handler-test-secret",
		JWTExpiryDuration:  time.Hour,
		JWTIssuer:          "treasury-ledger-test",
		RateLimit:          "1000-M",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		SchedulerTimezone:  time.UTC,
		DisplayLocale:      language.English,
	}
}

type HandlersTestSuite struct {
	suite.Suite
	cfg    *config.Config
	svc    *portssvc.ServiceContainer
	router *gin.Engine
	token  string
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *HandlersTestSuite) SetupTest() {
	s.cfg = testConfig()
	s.svc = services.NewServiceContainer(s.cfg, memory.NewRepositoryProvider())

	var err error
	s.router, err = handlers.NewRouter(s.cfg, s.svc, discardLogger(), nil)
	s.Require().NoError(err)

	user, err := s.svc.User.CreateUser(context.Background(), dto.CreateUserRequest{Username: "cashier", Password: "correct horse"}, "bootstrap")
	s.Require().NoError(err)
	s.token, err = utils.GenerateJWT(user.UserID, user.Username, s.cfg.JWTSecret, time.Hour, s.cfg.JWTIssuer)
	s.Require().NoError(err)
}

func (s *HandlersTestSuite) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	return s.request(method, path, body, s.token)
}

func (s *HandlersTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (s *HandlersTestSuite) createTreasury(name string, funding string) domain.Treasury {
	w := s.do(http.MethodPost, "/api/v1/treasuries", map[string]any{"name": name, "type": "cash"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var t domain.Treasury
	s.decode(w, &t)

	w = s.do(http.MethodPost, "/api/v1/treasury-transactions", map[string]any{
		"treasuryID": t.TreasuryID, "type": "capital_deposit", "amount": funding,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return t
}

func (s *HandlersTestSuite) TestHealthIsPublic() {
	w := s.request(http.MethodGet, "/health", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
	s.NotEmpty(w.Header().Get("X-Request-ID"))
}

func (s *HandlersTestSuite) TestAuthRequired() {
	w := s.request(http.MethodGet, "/api/v1/treasuries", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.request(http.MethodGet, "/api/v1/treasuries", nil, "not-a-jwt")
	s.Equal(http.StatusUnauthorized, w.Code)

	other, err := utils.GenerateJWT("user-1", "x", "some-other-secret", time.Hour, s.cfg.JWTIssuer)
	s.Require().NoError(err)
	w = s.request(http.MethodGet, "/api/v1/treasuries", nil, other)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestLogin() {
	w := s.request(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "cashier", Password: "correct horse"}, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	s.decode(w, &resp)
	s.NotEmpty(resp.Token)

	w = s.request(http.MethodGet, "/api/v1/treasuries", nil, resp.Token)
	s.Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "cashier", Password: "wrong horse"}, "")
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.request(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "cashier"}, "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestTreasuryBalanceAndOverdraft() {
	till := s.createTreasury("Till", "10000")

	w := s.do(http.MethodGet, "/api/v1/treasuries/"+till.TreasuryID+"/balance", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var balance dto.TreasuryBalanceResponse
	s.decode(w, &balance)
	s.Equal("10000.0000", balance.Balance.String())
	s.Equal("10,000.00", balance.BalanceDisplay)

	w = s.do(http.MethodPost, "/api/v1/expenses", map[string]any{"treasuryID": till.TreasuryID, "amount": "15000"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var expense domain.Expense
	s.decode(w, &expense)

	w = s.do(http.MethodPost, "/api/v1/expenses/"+expense.ExpenseID+"/post", nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/treasuries/"+till.TreasuryID+"/transactions?limit=10", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListTreasuryTransactionsResponse
	s.decode(w, &page)
	s.Len(page.Transactions, 1)

	w = s.do(http.MethodDelete, "/api/v1/treasuries/"+till.TreasuryID, nil)
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/v1/treasuries/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestMoneyValidators() {
	till := s.createTreasury("Till", "100")

	w := s.do(http.MethodPost, "/api/v1/treasury-transactions", map[string]any{
		"treasuryID": till.TreasuryID, "type": "income", "amount": "0",
	})
	s.Equal(http.StatusBadRequest, w.Code, "zero amounts are rejected by money_nonzero")

	w = s.do(http.MethodPost, "/api/v1/expenses", map[string]any{"treasuryID": till.TreasuryID, "amount": "-5"})
	s.Equal(http.StatusBadRequest, w.Code, "negative amounts are rejected by money_positive")

	w = s.do(http.MethodPost, "/api/v1/expenses", map[string]any{"treasuryID": till.TreasuryID, "amount": "1.00001"})
	s.Equal(http.StatusBadRequest, w.Code, "more than four decimals do not parse")
}

func (s *HandlersTestSuite) TestCreditSaleFlow() {
	till := s.createTreasury("Till", "1000")

	w := s.do(http.MethodPost, "/api/v1/partners", map[string]any{"name": "Acme", "type": "customer"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var customer domain.Partner
	s.decode(w, &customer)

	w = s.do(http.MethodPost, "/api/v1/products", map[string]any{"name": "Widget", "sku": "W-1"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var widget domain.Product
	s.decode(w, &widget)

	post := func(body map[string]any) domain.Document {
		w := s.do(http.MethodPost, "/api/v1/documents", body)
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
		var doc domain.Document
		s.decode(w, &doc)
		w = s.do(http.MethodPost, "/api/v1/documents/"+doc.DocumentID+"/post", nil)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		s.decode(w, &doc)
		return doc
	}
	line := func(qty int, price string) []map[string]any {
		return []map[string]any{{"productID": widget.ProductID, "quantity": qty, "unitPrice": price}}
	}

	post(map[string]any{"kind": "purchase_invoice", "treasuryID": till.TreasuryID, "lines": line(5, "10")})
	sale := post(map[string]any{
		"kind": "sales_invoice", "partnerID": customer.PartnerID, "paymentMethod": "credit", "lines": line(1, "500"),
	})
	s.Equal(domain.StatusPosted, sale.Status)

	w = s.do(http.MethodPost, "/api/v1/documents/"+sale.DocumentID+"/payments", map[string]any{
		"amount": "600", "treasuryID": till.TreasuryID,
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/documents/"+sale.DocumentID+"/payments", map[string]any{
		"amount": "200", "treasuryID": till.TreasuryID,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/partners/"+customer.PartnerID+"/recalculate-balance", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var balance dto.PartnerBalanceResponse
	s.decode(w, &balance)
	s.Equal("300.0000", balance.Balance.String())

	w = s.do(http.MethodGet, "/api/v1/reports/debtors-creditors", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var report dto.DebtorCreditorResponse
	s.decode(w, &report)
	s.Equal("300.0000", report.TotalDebtors.String())
	s.Equal("300.00", report.TotalDebtorsDisplay)
	s.Equal(1, report.DebtorCount)

	w = s.do(http.MethodGet, "/api/v1/partners/"+customer.PartnerID+"/statement", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var statement domain.PartnerStatement
	s.decode(w, &statement)
	s.Len(statement.OpenDocuments, 1)

	w = s.do(http.MethodDelete, "/api/v1/partners/"+customer.PartnerID, nil)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlersTestSuite) TestOverdueSweepAndEquity() {
	w := s.do(http.MethodPost, "/api/v1/installments/overdue-sweep", dto.OverdueSweepRequest{Date: "2026-05-02"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var sweep dto.OverdueSweepResponse
	s.decode(w, &sweep)
	s.Equal("2026-05-02", sweep.Date)
	s.Zero(sweep.Updated)

	w = s.do(http.MethodPost, "/api/v1/installments/overdue-sweep", dto.OverdueSweepRequest{Date: "05/02/2026"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/equity-periods/current", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/partners", map[string]any{"name": "Alice", "type": "shareholder"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var alice domain.Partner
	s.decode(w, &alice)

	w = s.do(http.MethodPost, "/api/v1/equity-periods", map[string]any{
		"startDate": "2026-01-01",
		"partners":  []map[string]any{{"partnerID": alice.PartnerID, "equityPercentage": "100", "capitalAtStart": "1000"}},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var period domain.EquityPeriod
	s.decode(w, &period)

	w = s.do(http.MethodPost, "/api/v1/equity-periods/"+period.PeriodID+"/close", dto.ClosePeriodRequest{EndDate: "2026-01-31"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var closed dto.ClosePeriodResponse
	s.decode(w, &closed)
	s.Equal(domain.PeriodClosed, closed.Closed.Status)
	s.Equal(2, closed.Next.PeriodNumber)

	w = s.do(http.MethodPost, "/api/v1/equity-periods/"+period.PeriodID+"/close", nil)
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/v1/equity-periods", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var periods []domain.EquityPeriod
	s.decode(w, &periods)
	s.Len(periods, 2)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

func (m *MockReportingService) DebtorCreditorSummary(ctx context.Context) (*domain.DebtorCreditorSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtorCreditorSummary), args.Error(1)
}

func (m *MockReportingService) PartnerStatement(ctx context.Context, partnerID string) (*domain.PartnerStatement, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartnerStatement), args.Error(1)
}

func TestReportingErrorsAreMapped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	reporting := new(MockReportingService)
	svc := services.NewServiceContainer(cfg, memory.NewRepositoryProvider())
	svc.Reporting = reporting

	router, err := handlers.NewRouter(cfg, svc, discardLogger(), nil)
	require.NoError(t, err)
	token, err := utils.GenerateJWT("user-1", "cashier", cfg.JWTSecret, time.Hour, cfg.JWTIssuer)
	require.NoError(t, err)

	reporting.On("DebtorCreditorSummary", mock.Anything).
		Return(nil, apperrors.NewAppError(http.StatusInternalServerError, "query failed", errors.New("connection reset")))
	reporting.On("PartnerStatement", mock.Anything, "ghost").
		Return(nil, apperrors.NewNotFoundError("partner ghost"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/debtors-creditors", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/partners/ghost/statement", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	reporting.AssertExpectations(t)
}

func TestMoneyFieldsRenderCanonically(t *testing.T) {
	out, err := json.Marshal(dto.TreasuryBalanceResponse{TreasuryID: "t", Balance: money.MustParse("-12.5")})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"balance":"-12.5000"`)
}
