package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

type DocumentServiceTestSuite struct {
	serviceSuite
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}

func (s *DocumentServiceTestSuite) stockLevel(p *domain.Product) decimal.Decimal {
	level, err := s.svc.Document.GetStockLevel(s.ctx, p.ProductID, "")
	s.Require().NoError(err)
	return level
}

func (s *DocumentServiceTestSuite) TestCreateDocument_ComputesTotals() {
	widget := s.product("W-1")
	doc, err := s.svc.Document.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		Kind:     domain.DocSalesInvoice,
		Discount: money.MustParse("5"),
		Lines: []dto.DocumentLineRequest{
			{ProductID: widget.ProductID, Quantity: decimal.RequireFromString("2.5"), UnitPrice: money.MustParse("10")},
			{ProductID: widget.ProductID, Quantity: decimal.NewFromInt(3), UnitPrice: money.MustParse("0.3333")},
		},
	}, testUserID)
	s.Require().NoError(err)

	s.Equal(domain.StatusDraft, doc.Status)
	s.Equal(domain.PaymentCash, doc.PaymentMethod)
	s.Equal(domain.DefaultWarehouseID, doc.Lines[0].WarehouseID)
	s.assertMoney("25.9999", doc.Subtotal)
	s.assertMoney("20.9999", doc.Total)
	s.Equal(s.now.Format(dto.DateLayout), doc.DocumentDate.Format(dto.DateLayout))
}

func (s *DocumentServiceTestSuite) TestCreateDocument_Validation() {
	widget := s.product("W-1")
	line := dto.DocumentLineRequest{ProductID: widget.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: money.MustParse("10")}

	_, err := s.svc.Document.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		Kind: domain.DocSalesInvoice, Discount: money.MustParse("11"), Lines: []dto.DocumentLineRequest{line},
	}, testUserID)
	s.ErrorIs(err, apperrors.ErrValidation, "discount larger than subtotal")

	negative := line
	negative.Quantity = decimal.NewFromInt(-1)
	_, err = s.svc.Document.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		Kind: domain.DocSalesInvoice, Lines: []dto.DocumentLineRequest{negative},
	}, testUserID)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Document.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		Kind: domain.DocStockAdjustment, Lines: []dto.DocumentLineRequest{negative},
	}, testUserID)
	s.NoError(err, "adjustments carry their own sign")
}

func (s *DocumentServiceTestSuite) TestPostDocument_CashSaleIsIdempotent() {
	till := s.cashTreasury("Till", "1000")
	widget := s.product("W-1")
	s.stock(widget, till, 10, "20")
	s.True(s.stockLevel(widget).Equal(decimal.NewFromInt(10)))
	s.assertMoney("800", s.balance(till))

	doc, err := s.svc.Document.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		Kind:       domain.DocSalesInvoice,
		TreasuryID: &till.TreasuryID,
		Lines: []dto.DocumentLineRequest{
			{ProductID: widget.ProductID, Quantity: decimal.NewFromInt(4), UnitPrice: money.MustParse("50")},
		},
	}, testUserID)
	s.Require().NoError(err)

	for i := 0; i < 2; i++ {
		posted, err := s.svc.Document.PostDocument(s.ctx, doc.DocumentID, testUserID)
		s.Require().NoError(err)
		s.Equal(domain.StatusPosted, posted.Status)
		s.assertMoney("200", posted.PaidAmount)
		s.True(posted.RemainingAmount.IsZero())
	}

	s.True(s.stockLevel(widget).Equal(decimal.NewFromInt(6)), "stock moves once")
	s.assertMoney("1000", s.balance(till), "cash is collected once")

	entry, err := s.store.FindTransactionByReference(s.ctx, domain.RefSalesInvoice, doc.DocumentID, domain.PurposePosting)
	s.Require().NoError(err)
	s.Equal(domain.TxnCollection, entry.Type)
}

func (s *DocumentServiceTestSuite) TestPostDocument_InsufficientStockRollsBack() {
	till := s.cashTreasury("Till", "1000")
	customer := s.partner("Acme", domain.PartnerCustomer)
	widget := s.product("W-1")
	gadget := s.product("G-1")
	s.stock(widget, till, 5, "10")

	doc, err := s.svc.Document.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		Kind:          domain.DocSalesInvoice,
		PartnerID:     &customer.PartnerID,
		TreasuryID:    &till.TreasuryID,
		PaymentMethod: domain.PaymentCredit,
		PaidAmount:    money.MustParse("40"),
		Lines: []dto.DocumentLineRequest{
			{ProductID: widget.ProductID, Quantity: decimal.NewFromInt(2), UnitPrice: money.MustParse("30")},
			{ProductID: gadget.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: money.MustParse("30")},
		},
	}, testUserID)
	s.Require().NoError(err)

	_, err = s.svc.Document.PostDocument(s.ctx, doc.DocumentID, testUserID)
	s.ErrorIs(err, apperrors.ErrInsufficientStock)

	after, err := s.svc.Document.GetDocument(s.ctx, doc.DocumentID)
	s.Require().NoError(err)
	s.Equal(domain.StatusDraft, after.Status)
	s.True(s.stockLevel(widget).Equal(decimal.NewFromInt(5)))
	s.assertMoney("950", s.balance(till))
	s.True(s.partnerBalance(customer.PartnerID).IsZero())
}

func (s *DocumentServiceTestSuite) TestPostDocument_CreditSaleWithDownPayment() {
	till := s.cashTreasury("Till", "1000")
	customer := s.partner("Acme", domain.PartnerCustomer)
	widget := s.product("W-1")
	s.stock(widget, till, 5, "10")

	doc, err := s.svc.Document.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		Kind:          domain.DocSalesInvoice,
		PartnerID:     &customer.PartnerID,
		TreasuryID:    &till.TreasuryID,
		PaymentMethod: domain.PaymentCredit,
		PaidAmount:    money.MustParse("100"),
		Lines: []dto.DocumentLineRequest{
			{ProductID: widget.ProductID, Quantity: decimal.NewFromInt(2), UnitPrice: money.MustParse("200")},
		},
	}, testUserID)
	s.Require().NoError(err)

	posted, err := s.svc.Document.PostDocument(s.ctx, doc.DocumentID, testUserID)
	s.Require().NoError(err)
	s.assertMoney("300", posted.RemainingAmount)
	s.assertMoney("1050", s.balance(till))
	s.assertMoney("300", s.partnerBalance(customer.PartnerID))
}

func (s *DocumentServiceTestSuite) TestPostDocument_SalesReturnRefundsCustomer() {
	till := s.cashTreasury("Till", "1000")
	customer := s.partner("Acme", domain.PartnerCustomer)
	widget := s.product("W-1")
	s.stock(widget, till, 5, "10")
	s.creditSale(customer, widget, "100")

	doc, err := s.svc.Document.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		Kind:          domain.DocSalesReturn,
		PartnerID:     &customer.PartnerID,
		PaymentMethod: domain.PaymentCredit,
		Lines: []dto.DocumentLineRequest{
			{ProductID: widget.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: money.MustParse("100")},
		},
	}, testUserID)
	s.Require().NoError(err)
	_, err = s.svc.Document.PostDocument(s.ctx, doc.DocumentID, testUserID)
	s.Require().NoError(err)

	s.True(s.stockLevel(widget).Equal(decimal.NewFromInt(5)), "returned goods come back")
	s.True(s.partnerBalance(customer.PartnerID).IsZero(), "return offsets the sale")
}

func (s *DocumentServiceTestSuite) TestPostDocument_StockAdjustment() {
	widget := s.product("W-1")
	doc, err := s.svc.Document.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		Kind: domain.DocStockAdjustment,
		Lines: []dto.DocumentLineRequest{
			{ProductID: widget.ProductID, Quantity: decimal.NewFromInt(7)},
		},
	}, testUserID)
	s.Require().NoError(err)
	posted, err := s.svc.Document.PostDocument(s.ctx, doc.DocumentID, testUserID)
	s.Require().NoError(err)
	s.True(posted.RemainingAmount.IsZero())
	s.True(s.stockLevel(widget).Equal(decimal.NewFromInt(7)))
}

func (s *DocumentServiceTestSuite) TestPostDocument_Validation() {
	till := s.cashTreasury("Till", "1000")
	customer := s.partner("Acme", domain.PartnerCustomer)
	supplier := s.partner("Parts", domain.PartnerSupplier)
	widget := s.product("W-1")
	s.stock(widget, till, 5, "10")
	line := []dto.DocumentLineRequest{{ProductID: widget.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: money.MustParse("10")}}

	cases := []struct {
		name string
		req  dto.CreateDocumentRequest
		want error
	}{
		{"no lines", dto.CreateDocumentRequest{Kind: domain.DocSalesInvoice, TreasuryID: &till.TreasuryID}, apperrors.ErrValidation},
		{"credit without partner", dto.CreateDocumentRequest{Kind: domain.DocSalesInvoice, PaymentMethod: domain.PaymentCredit, Lines: line}, apperrors.ErrValidation},
		{"installment on purchase", dto.CreateDocumentRequest{
			Kind: domain.DocPurchaseInvoice, PartnerID: &supplier.PartnerID, PaymentMethod: domain.PaymentInstallment,
			Lines: line, InstallmentPlan: &dto.InstallmentPlanRequest{Count: 2, FirstDueDate: "2026-04-01", IntervalDays: 30},
		}, apperrors.ErrValidation},
		{"paid above total", dto.CreateDocumentRequest{
			Kind: domain.DocSalesInvoice, PartnerID: &customer.PartnerID, TreasuryID: &till.TreasuryID,
			PaymentMethod: domain.PaymentCredit, PaidAmount: money.MustParse("11"), Lines: line,
		}, apperrors.ErrValidation},
		{"cash without treasury", dto.CreateDocumentRequest{Kind: domain.DocSalesInvoice, Lines: line}, apperrors.ErrValidation},
		{"unknown product", dto.CreateDocumentRequest{
			Kind: domain.DocSalesInvoice, TreasuryID: &till.TreasuryID,
			Lines: []dto.DocumentLineRequest{{ProductID: "ghost", Quantity: decimal.NewFromInt(1)}},
		}, apperrors.ErrNotFound},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			doc, err := s.svc.Document.CreateDocument(s.ctx, tc.req, testUserID)
			s.Require().NoError(err)
			_, err = s.svc.Document.PostDocument(s.ctx, doc.DocumentID, testUserID)
			s.ErrorIs(err, tc.want)
		})
	}
}
