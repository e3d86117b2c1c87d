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

type ReportingServiceTestSuite struct {
	serviceSuite
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func (s *ReportingServiceTestSuite) TestDebtorCreditorSummary_ShareholdersOnlyCountAsCreditors() {
	till := s.cashTreasury("Till", "1000")
	widget := s.product("W-1")
	s.stock(widget, till, 10, "10")

	owing := s.partner("Acme", domain.PartnerCustomer)
	settled := s.partner("Globex", domain.PartnerCustomer)
	supplier := s.partner("Parts Co", domain.PartnerSupplier)
	shareholder := s.partner("Alice", domain.PartnerShareholder)

	s.creditSale(owing, widget, "300")
	paidUp := s.creditSale(settled, widget, "200")
	_, err := s.svc.Treasury.RecordInvoicePayment(s.ctx, paidUp.DocumentID, dto.RecordInvoicePaymentRequest{
		Amount: money.MustParse("200"), TreasuryID: till.TreasuryID,
	}, testUserID)
	s.Require().NoError(err)

	purchase, err := s.svc.Document.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		Kind:          domain.DocPurchaseInvoice,
		PartnerID:     &supplier.PartnerID,
		PaymentMethod: domain.PaymentCredit,
		Lines: []dto.DocumentLineRequest{
			{ProductID: widget.ProductID, Quantity: decimal.NewFromInt(4), UnitPrice: money.MustParse("100")},
		},
	}, testUserID)
	s.Require().NoError(err)
	_, err = s.svc.Document.PostDocument(s.ctx, purchase.DocumentID, testUserID)
	s.Require().NoError(err)

	_, err = s.svc.Treasury.RecordTransaction(s.ctx, dto.RecordTransactionRequest{
		TreasuryID: till.TreasuryID,
		Type:       domain.TxnCapitalDeposit,
		Amount:     money.MustParse("1000"),
		PartnerID:  &shareholder.PartnerID,
	}, testUserID)
	s.Require().NoError(err)
	s.True(s.partnerBalance(shareholder.PartnerID).IsNegative())

	drawing := s.partner("Bob", domain.PartnerShareholder)
	_, err = s.svc.Treasury.RecordTransaction(s.ctx, dto.RecordTransactionRequest{
		TreasuryID: till.TreasuryID,
		Type:       domain.TxnPartnerDrawing,
		Amount:     money.MustParse("50"),
		PartnerID:  &drawing.PartnerID,
	}, testUserID)
	s.Require().NoError(err)
	s.True(s.partnerBalance(drawing.PartnerID).IsPositive())

	summary, err := s.svc.Reporting.DebtorCreditorSummary(s.ctx)
	s.Require().NoError(err)
	s.assertMoney("300", summary.TotalDebtors)
	s.Equal(1, summary.DebtorCount)
	s.assertMoney("1400", summary.TotalCreditors)
	s.Equal(2, summary.CreditorCount)
}

func (s *ReportingServiceTestSuite) TestPartnerStatement() {
	till := s.cashTreasury("Till", "1000")
	widget := s.product("W-1")
	s.stock(widget, till, 10, "10")
	customer := s.partner("Acme", domain.PartnerCustomer)

	first := s.creditSale(customer, widget, "300")
	second := s.creditSale(customer, widget, "50")
	_, err := s.svc.Treasury.RecordInvoicePayment(s.ctx, first.DocumentID, dto.RecordInvoicePaymentRequest{
		Amount: money.MustParse("100"), TreasuryID: till.TreasuryID,
	}, testUserID)
	s.Require().NoError(err)
	_, err = s.svc.Treasury.RecordInvoicePayment(s.ctx, second.DocumentID, dto.RecordInvoicePaymentRequest{
		Amount: money.MustParse("50"), TreasuryID: till.TreasuryID,
	}, testUserID)
	s.Require().NoError(err)

	statement, err := s.svc.Reporting.PartnerStatement(s.ctx, customer.PartnerID)
	s.Require().NoError(err)
	s.assertMoney("200", statement.Partner.CurrentBalance)
	s.Len(statement.Transactions, 2)
	s.Require().Len(statement.OpenDocuments, 1)
	s.Equal(first.DocumentID, statement.OpenDocuments[0].DocumentID)
	s.assertMoney("200", statement.OpenDocuments[0].RemainingAmount)

	_, err = s.svc.Reporting.PartnerStatement(s.ctx, "ghost")
	s.ErrorIs(err, apperrors.ErrNotFound)
}
