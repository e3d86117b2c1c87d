package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/core/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/internal/platform/config"
	"github.com/SscSPs/treasury_ledger/internal/repositories/memory"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

const testUserID = "user-1"

// serviceSuite wires the real services over the in-memory store with a pinned clock.
type serviceSuite struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	cfg   *config.Config
	store *memory.Store
	svc   *portssvc.ServiceContainer
}

func (s *serviceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	s.cfg = &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "treasury-ledger-test",
	}
	s.store = memory.NewStore()
	s.svc = services.NewServiceContainer(s.cfg, memory.NewRepositoryProviderFor(s.store),
		services.WithClock(func() time.Time { return s.now }))
}

func (s *serviceSuite) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

// cashTreasury creates a cash treasury funded with a capital deposit of funding.
func (s *serviceSuite) cashTreasury(name, funding string) *domain.Treasury {
	t, err := s.svc.Ledger.CreateTreasury(s.ctx, dto.CreateTreasuryRequest{Name: name, Type: domain.TreasuryCash}, testUserID)
	s.Require().NoError(err)
	if funding != "" {
		_, err = s.svc.Treasury.RecordTransaction(s.ctx, dto.RecordTransactionRequest{
			TreasuryID:  t.TreasuryID,
			Type:        domain.TxnCapitalDeposit,
			Amount:      money.MustParse(funding),
			Description: "opening float",
		}, testUserID)
		s.Require().NoError(err)
	}
	return t
}

func (s *serviceSuite) partner(name string, t domain.PartnerType) *domain.Partner {
	p, err := s.svc.Partner.CreatePartner(s.ctx, dto.CreatePartnerRequest{Name: name, Type: t}, testUserID)
	s.Require().NoError(err)
	return p
}

func (s *serviceSuite) product(sku string) *domain.Product {
	p, err := s.svc.Document.CreateProduct(s.ctx, dto.CreateProductRequest{Name: sku, SKU: sku}, testUserID)
	s.Require().NoError(err)
	return p
}

// stock posts a cash purchase invoice of qty units so later sales have something to move.
func (s *serviceSuite) stock(product *domain.Product, treasury *domain.Treasury, qty int64, unitPrice string) {
	doc, err := s.svc.Document.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		Kind:       domain.DocPurchaseInvoice,
		TreasuryID: &treasury.TreasuryID,
		Lines: []dto.DocumentLineRequest{
			{ProductID: product.ProductID, Quantity: decimal.NewFromInt(qty), UnitPrice: money.MustParse(unitPrice)},
		},
	}, testUserID)
	s.Require().NoError(err)
	_, err = s.svc.Document.PostDocument(s.ctx, doc.DocumentID, testUserID)
	s.Require().NoError(err)
}

// creditSale posts a credit sales invoice of one unit at price.
func (s *serviceSuite) creditSale(customer *domain.Partner, product *domain.Product, price string) *domain.Document {
	doc, err := s.svc.Document.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		Kind:          domain.DocSalesInvoice,
		PartnerID:     &customer.PartnerID,
		PaymentMethod: domain.PaymentCredit,
		Lines: []dto.DocumentLineRequest{
			{ProductID: product.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: money.MustParse(price)},
		},
	}, testUserID)
	s.Require().NoError(err)
	posted, err := s.svc.Document.PostDocument(s.ctx, doc.DocumentID, testUserID)
	s.Require().NoError(err)
	return posted
}

func (s *serviceSuite) balance(treasury *domain.Treasury) money.Money {
	b, err := s.svc.Ledger.GetBalance(s.ctx, treasury.TreasuryID)
	s.Require().NoError(err)
	return b
}

func (s *serviceSuite) partnerBalance(partnerID string) money.Money {
	p, err := s.svc.Partner.GetPartner(s.ctx, partnerID)
	s.Require().NoError(err)
	return p.CurrentBalance
}

func (s *serviceSuite) assertMoney(expected string, actual money.Money, msgAndArgs ...any) {
	s.T().Helper()
	s.Equal(money.MustParse(expected).String(), actual.String(), msgAndArgs...)
}

func decimalFromInt(n int64) decimal.Decimal { return decimal.NewFromInt(n) }
