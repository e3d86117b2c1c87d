package services_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

type TreasuryServiceTestSuite struct {
	serviceSuite
}

func TestTreasuryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TreasuryServiceTestSuite))
}

func (s *TreasuryServiceTestSuite) TestPostExpense_IsIdempotent() {
	till := s.cashTreasury("Till", "1000")
	expense, err := s.svc.Treasury.CreateExpense(s.ctx, dto.CreateExpenseRequest{
		TreasuryID: till.TreasuryID, Amount: money.MustParse("120.5"), Description: "Rent",
	}, testUserID)
	s.Require().NoError(err)
	s.Equal(domain.StatusDraft, expense.Status)

	first, err := s.svc.Treasury.PostExpense(s.ctx, expense.ExpenseID, testUserID)
	s.Require().NoError(err)
	s.Equal(domain.TxnExpense, first.Type)
	s.assertMoney("-120.5", first.Amount)

	second, err := s.svc.Treasury.PostExpense(s.ctx, expense.ExpenseID, testUserID)
	s.Require().NoError(err)
	s.Equal(first.TransactionID, second.TransactionID)
	s.assertMoney("879.5", s.balance(till))

	stored, err := s.store.FindExpenseByID(s.ctx, expense.ExpenseID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPosted, stored.Status)
}

func (s *TreasuryServiceTestSuite) TestPostExpense_InsufficientFundsLeavesDraft() {
	till := s.cashTreasury("Till", "100")
	expense, err := s.svc.Treasury.CreateExpense(s.ctx, dto.CreateExpenseRequest{
		TreasuryID: till.TreasuryID, Amount: money.MustParse("150"),
	}, testUserID)
	s.Require().NoError(err)

	_, err = s.svc.Treasury.PostExpense(s.ctx, expense.ExpenseID, testUserID)
	s.ErrorIs(err, apperrors.ErrInsufficientBalance)

	stored, err := s.store.FindExpenseByID(s.ctx, expense.ExpenseID)
	s.Require().NoError(err)
	s.Equal(domain.StatusDraft, stored.Status)
	s.assertMoney("100", s.balance(till))
}

func (s *TreasuryServiceTestSuite) TestPostRevenue_IsIdempotent() {
	till := s.cashTreasury("Till", "")
	revenue, err := s.svc.Treasury.CreateRevenue(s.ctx, dto.CreateRevenueRequest{
		TreasuryID: till.TreasuryID, Amount: money.MustParse("75"), Description: "Scrap sale",
	}, testUserID)
	s.Require().NoError(err)

	first, err := s.svc.Treasury.PostRevenue(s.ctx, revenue.RevenueID, testUserID)
	s.Require().NoError(err)
	second, err := s.svc.Treasury.PostRevenue(s.ctx, revenue.RevenueID, testUserID)
	s.Require().NoError(err)

	s.Equal(first.TransactionID, second.TransactionID)
	s.Equal(domain.TxnIncome, first.Type)
	s.assertMoney("75", s.balance(till))
}

func (s *TreasuryServiceTestSuite) TestRecordInvoicePayment_CapsAtRemaining() {
	till := s.cashTreasury("Till", "")
	customer := s.partner("Acme", domain.PartnerCustomer)
	widget := s.product("W-1")
	s.stock(widget, s.cashTreasury("Stores", "1000"), 5, "100")

	invoice := s.creditSale(customer, widget, "500")
	s.assertMoney("500", invoice.RemainingAmount)
	s.assertMoney("500", s.partnerBalance(customer.PartnerID))

	_, err := s.svc.Treasury.RecordInvoicePayment(s.ctx, invoice.DocumentID, dto.RecordInvoicePaymentRequest{
		Amount: money.MustParse("600"), TreasuryID: till.TreasuryID,
	}, testUserID)
	s.ErrorIs(err, apperrors.ErrExceedsRemainingAmount)

	_, err = s.svc.Treasury.RecordInvoicePayment(s.ctx, invoice.DocumentID, dto.RecordInvoicePaymentRequest{
		Amount: money.MustParse("480"), Discount: money.MustParse("30"), TreasuryID: till.TreasuryID,
	}, testUserID)
	s.ErrorIs(err, apperrors.ErrExceedsRemainingAmount, "discount counts towards the cap")

	payment, err := s.svc.Treasury.RecordInvoicePayment(s.ctx, invoice.DocumentID, dto.RecordInvoicePaymentRequest{
		Amount: money.MustParse("500"), TreasuryID: till.TreasuryID, PaymentDate: "2026-03-11",
	}, testUserID)
	s.Require().NoError(err)
	s.Equal("2026-03-11", payment.PaymentDate.Format(dto.DateLayout))

	doc, err := s.svc.Document.GetDocument(s.ctx, invoice.DocumentID)
	s.Require().NoError(err)
	s.True(doc.RemainingAmount.IsZero())
	s.assertMoney("500", s.balance(till))
	s.True(s.partnerBalance(customer.PartnerID).IsZero())

	entry, err := s.store.FindTransactionByReference(s.ctx, domain.RefInvoicePayment, payment.PaymentID, domain.PurposePosting)
	s.Require().NoError(err)
	s.Equal(domain.TxnCollection, entry.Type)
	s.Equal(payment.TransactionID, entry.TransactionID)
}

func (s *TreasuryServiceTestSuite) TestRecordInvoicePayment_RejectsBadAmounts() {
	_, err := s.svc.Treasury.RecordInvoicePayment(s.ctx, "doc", dto.RecordInvoicePaymentRequest{Amount: money.Zero(), TreasuryID: "t"}, testUserID)
	s.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = s.svc.Treasury.RecordInvoicePayment(s.ctx, "doc", dto.RecordInvoicePaymentRequest{
		Amount: money.FromInt(1), Discount: money.MustParse("-1"), TreasuryID: "t",
	}, testUserID)
	s.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (s *TreasuryServiceTestSuite) TestFailedPurchasePaymentChangesNothing() {
	till := s.cashTreasury("Till", "100")
	supplier := s.partner("Parts Co", domain.PartnerSupplier)
	bolt := s.product("B-1")

	doc, err := s.svc.Document.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		Kind:          domain.DocPurchaseInvoice,
		PartnerID:     &supplier.PartnerID,
		PaymentMethod: domain.PaymentCredit,
		Lines: []dto.DocumentLineRequest{
			{ProductID: bolt.ProductID, Quantity: decimalFromInt(10), UnitPrice: money.MustParse("50")},
		},
	}, testUserID)
	s.Require().NoError(err)
	invoice, err := s.svc.Document.PostDocument(s.ctx, doc.DocumentID, testUserID)
	s.Require().NoError(err)
	s.assertMoney("-500", s.partnerBalance(supplier.PartnerID))

	_, err = s.svc.Treasury.RecordInvoicePayment(s.ctx, invoice.DocumentID, dto.RecordInvoicePaymentRequest{
		Amount: money.MustParse("300"), TreasuryID: till.TreasuryID,
	}, testUserID)
	s.ErrorIs(err, apperrors.ErrInsufficientBalance)

	after, err := s.svc.Document.GetDocument(s.ctx, invoice.DocumentID)
	s.Require().NoError(err)
	s.assertMoney("500", after.RemainingAmount)
	payments, err := s.store.ListPaymentsByDocument(s.ctx, invoice.DocumentID)
	s.Require().NoError(err)
	s.Empty(payments)
	s.assertMoney("100", s.balance(till))
	s.assertMoney("-500", s.partnerBalance(supplier.PartnerID))
}

func (s *TreasuryServiceTestSuite) TestUpdatePartnerBalance_IsIdempotent() {
	till := s.cashTreasury("Till", "1000")
	customer := s.partner("Acme", domain.PartnerCustomer)
	widget := s.product("W-1")
	s.stock(widget, till, 5, "10")
	s.creditSale(customer, widget, "300")

	// An ad hoc refund to the customer raises what they owe.
	_, err := s.svc.Treasury.RecordTransaction(s.ctx, dto.RecordTransactionRequest{
		TreasuryID: till.TreasuryID, Type: domain.TxnPayment, Amount: money.MustParse("20"), PartnerID: &customer.PartnerID,
	}, testUserID)
	s.Require().NoError(err)

	first, err := s.svc.Treasury.UpdatePartnerBalance(s.ctx, customer.PartnerID, testUserID)
	s.Require().NoError(err)
	second, err := s.svc.Treasury.UpdatePartnerBalance(s.ctx, customer.PartnerID, testUserID)
	s.Require().NoError(err)

	s.assertMoney("320", first)
	s.Equal(first, second)
	s.Equal(first, s.partnerBalance(customer.PartnerID))
}
