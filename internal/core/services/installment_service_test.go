package services_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

type InstallmentServiceTestSuite struct {
	serviceSuite
	till     *domain.Treasury
	customer *domain.Partner
	widget   *domain.Product
}

func TestInstallmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InstallmentServiceTestSuite))
}

func (s *InstallmentServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.till = s.cashTreasury("Till", "1000")
	s.customer = s.partner("Acme", domain.PartnerCustomer)
	s.widget = s.product("W-1")
	s.stock(s.widget, s.till, 5, "10")
}

func (s *InstallmentServiceTestSuite) installmentSale(price string, plan dto.InstallmentPlanRequest) *domain.Document {
	doc, err := s.svc.Document.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		Kind:            domain.DocSalesInvoice,
		PartnerID:       &s.customer.PartnerID,
		PaymentMethod:   domain.PaymentInstallment,
		InstallmentPlan: &plan,
		Lines: []dto.DocumentLineRequest{
			{ProductID: s.widget.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: money.MustParse(price)},
		},
	}, testUserID)
	s.Require().NoError(err)
	return doc
}

func (s *InstallmentServiceTestSuite) postedSchedule() (*domain.Document, []domain.Installment) {
	doc := s.installmentSale("1000", dto.InstallmentPlanRequest{Count: 3, FirstDueDate: "2026-04-01", IntervalDays: 30})
	posted, err := s.svc.Document.PostDocument(s.ctx, doc.DocumentID, testUserID)
	s.Require().NoError(err)
	schedule, err := s.svc.Installment.ListInstallments(s.ctx, posted.DocumentID)
	s.Require().NoError(err)
	s.Require().Len(schedule, 3)
	return posted, schedule
}

func (s *InstallmentServiceTestSuite) TestPostingGeneratesExactSchedule() {
	invoice, schedule := s.postedSchedule()

	total := money.Zero()
	wantAmounts := []string{"333.33", "333.33", "333.34"}
	wantDue := []string{"2026-04-01", "2026-05-01", "2026-05-31"}
	for i, inst := range schedule {
		s.Equal(i+1, inst.InstallmentNumber)
		s.assertMoney(wantAmounts[i], inst.Amount)
		s.Equal(wantDue[i], inst.DueDate.Format(dto.DateLayout))
		s.Equal(domain.InstallmentPending, inst.Status)
		total = total.Add(inst.Amount)
	}
	s.True(total.Equal(invoice.RemainingAmount), "installments add up to the remaining amount")
	s.assertMoney("1000", s.partnerBalance(s.customer.PartnerID))
}

func (s *InstallmentServiceTestSuite) TestPostingRejectsZeroInterval() {
	doc := s.installmentSale("1000", dto.InstallmentPlanRequest{Count: 2, FirstDueDate: "2026-04-01"})
	_, err := s.svc.Document.PostDocument(s.ctx, doc.DocumentID, testUserID)
	s.ErrorIs(err, apperrors.ErrValidation)

	after, err := s.svc.Document.GetDocument(s.ctx, doc.DocumentID)
	s.Require().NoError(err)
	s.Equal(domain.StatusDraft, after.Status)
	s.True(s.partnerBalance(s.customer.PartnerID).IsZero())
}

func (s *InstallmentServiceTestSuite) TestGenerateSchedule_Validation() {
	invoice := domain.Document{DocumentID: "inv-1", Kind: domain.DocSalesInvoice, RemainingAmount: money.MustParse("90")}
	first := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.svc.Installment.GenerateSchedule(s.ctx, invoice, domain.InstallmentPlan{Count: 0, FirstDueDate: first})
	s.ErrorIs(err, apperrors.ErrValidation)

	purchase := invoice
	purchase.Kind = domain.DocPurchaseInvoice
	_, err = s.svc.Installment.GenerateSchedule(s.ctx, purchase, domain.InstallmentPlan{Count: 1, FirstDueDate: first})
	s.ErrorIs(err, apperrors.ErrValidation)

	settled := invoice
	settled.RemainingAmount = money.Zero()
	_, err = s.svc.Installment.GenerateSchedule(s.ctx, settled, domain.InstallmentPlan{Count: 1, FirstDueDate: first})
	s.ErrorIs(err, apperrors.ErrInvalidAmount)

	single, err := s.svc.Installment.GenerateSchedule(s.ctx, invoice, domain.InstallmentPlan{Count: 1, FirstDueDate: first})
	s.Require().NoError(err)
	s.Require().Len(single, 1)
	s.assertMoney("90", single[0].Amount)
}

func (s *InstallmentServiceTestSuite) TestSweepOverdueIsMonotone() {
	_, _ = s.postedSchedule()

	updated, err := s.svc.Installment.SweepOverdue(s.ctx, time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Equal(int64(2), updated)

	updated, err = s.svc.Installment.SweepOverdue(s.ctx, time.Date(2026, 5, 2, 23, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Zero(updated, "a second sweep on the same day changes nothing")

	updated, err = s.svc.Installment.SweepOverdue(s.ctx, time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Zero(updated, "due today is not overdue yet")

	updated, err = s.svc.Installment.SweepOverdue(s.ctx, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Equal(int64(1), updated)
}

func (s *InstallmentServiceTestSuite) TestRecordInstallmentPayment() {
	invoice, schedule := s.postedSchedule()
	pay := func(inst domain.Installment, amount string) (*domain.Installment, error) {
		return s.svc.Installment.RecordInstallmentPayment(s.ctx, inst.InstallmentID, dto.RecordInstallmentPaymentRequest{
			Amount:     money.MustParse(amount),
			TreasuryID: s.till.TreasuryID,
		}, testUserID)
	}

	first, err := pay(schedule[0], "333.33")
	s.Require().NoError(err)
	s.Equal(domain.InstallmentPaid, first.Status)
	s.NotNil(first.PaidAt)

	_, err = pay(schedule[0], "0.01")
	s.ErrorIs(err, apperrors.ErrExceedsRemainingAmount)
	_, err = pay(schedule[1], "400")
	s.ErrorIs(err, apperrors.ErrExceedsRemainingAmount)

	for i := 0; i < 2; i++ {
		partial, err := pay(schedule[1], "100")
		s.Require().NoError(err, "partial payments against one installment are separate postings")
		s.Equal(domain.InstallmentPending, partial.Status)
	}

	after, err := s.svc.Document.GetDocument(s.ctx, invoice.DocumentID)
	s.Require().NoError(err)
	s.assertMoney("466.67", after.RemainingAmount)
	s.assertMoney("466.67", s.partnerBalance(s.customer.PartnerID))
	s.assertMoney("1483.33", s.balance(s.till))
}

func (s *InstallmentServiceTestSuite) TestInstallmentInvoiceIsCollectedThroughItsSchedule() {
	invoice, schedule := s.postedSchedule()

	_, err := s.svc.Treasury.RecordInvoicePayment(s.ctx, invoice.DocumentID, dto.RecordInvoicePaymentRequest{
		Amount:     money.MustParse("1000"),
		TreasuryID: s.till.TreasuryID,
	}, testUserID)
	s.ErrorIs(err, apperrors.ErrValidation)

	unchanged, err := s.svc.Document.GetDocument(s.ctx, invoice.DocumentID)
	s.Require().NoError(err)
	s.assertMoney("1000", unchanged.RemainingAmount)
	s.assertMoney("950", s.balance(s.till))

	for _, inst := range schedule {
		paid, err := s.svc.Installment.RecordInstallmentPayment(s.ctx, inst.InstallmentID, dto.RecordInstallmentPaymentRequest{
			Amount:     inst.Amount,
			TreasuryID: s.till.TreasuryID,
		}, testUserID)
		s.Require().NoError(err)
		s.Equal(domain.InstallmentPaid, paid.Status)
	}

	settled, err := s.svc.Document.GetDocument(s.ctx, invoice.DocumentID)
	s.Require().NoError(err)
	s.True(settled.RemainingAmount.IsZero())
	s.assertMoney("1950", s.balance(s.till))

	updated, err := s.svc.Installment.SweepOverdue(s.ctx, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Zero(updated, "a fully collected schedule has nothing to flag")
}
