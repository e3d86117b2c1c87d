package domain_test

import (
	"testing"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/pkg/money"
	"github.com/stretchr/testify/assert"
)

func TestTransactionType_SignedAmount(t *testing.T) {
	tests := []struct {
		name    string
		txnType domain.TransactionType
		amount  string
		want    string
	}{
		{name: "payment is negative", txnType: domain.TxnPayment, amount: "150", want: "-150.0000"},
		{name: "expense is negative even if passed negative", txnType: domain.TxnExpense, amount: "-150", want: "-150.0000"},
		{name: "partner drawing is negative", txnType: domain.TxnPartnerDrawing, amount: "10", want: "-10.0000"},
		{name: "employee advance is negative", txnType: domain.TxnEmployeeAdvance, amount: "10", want: "-10.0000"},
		{name: "collection is positive", txnType: domain.TxnCollection, amount: "-99.5", want: "99.5000"},
		{name: "capital deposit is positive", txnType: domain.TxnCapitalDeposit, amount: "10000", want: "10000.0000"},
		{name: "loan receipt is positive", txnType: domain.TxnPartnerLoanReceipt, amount: "1", want: "1.0000"},
		{name: "loan repayment is negative", txnType: domain.TxnPartnerLoanRepayment, amount: "1", want: "-1.0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.txnType.SignedAmount(money.MustParse(tt.amount))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTransactionType_IsValid(t *testing.T) {
	assert.True(t, domain.TxnOtherIncome.IsValid())
	assert.False(t, domain.TransactionType("refund").IsValid())
}

func TestParseReferenceType(t *testing.T) {
	for _, name := range []string{
		"sales_invoice", "purchase_invoice", "sales_return", "purchase_return", "expense",
		"revenue", "fixed_asset", "treasury_transaction", "invoice_payment", "installment",
	} {
		ref, err := domain.ParseReferenceType(name)
		assert.NoError(t, err, name)
		_, ok := ref.Table()
		assert.True(t, ok, name)
	}

	_, err := domain.ParseReferenceType("App\\Models\\SalesInvoice")
	assert.Error(t, err)
}

func TestReferenceType_SettlesDocument(t *testing.T) {
	assert.True(t, domain.RefInvoicePayment.SettlesDocument())
	assert.True(t, domain.RefInstallment.SettlesDocument())
	assert.False(t, domain.RefExpense.SettlesDocument())
	assert.False(t, domain.RefTreasuryTransaction.SettlesDocument())
	assert.Len(t, domain.SettlementReferenceTypes(), 6)
}

func TestTreasury_CanApply(t *testing.T) {
	cash := domain.Treasury{Type: domain.TreasuryCash, AllowOverdraft: true}
	bank := domain.Treasury{Type: domain.TreasuryBank}
	overdraftBank := domain.Treasury{Type: domain.TreasuryBank, AllowOverdraft: true}

	balance := money.MustParse("10000")
	assert.False(t, cash.CanApply(balance, money.MustParse("-15000")), "cash ignores the overdraft flag")
	assert.True(t, cash.CanApply(balance, money.MustParse("-10000")))
	assert.False(t, bank.CanApply(balance, money.MustParse("-10000.0001")))
	assert.True(t, overdraftBank.CanApply(balance, money.MustParse("-15000")))
	assert.True(t, bank.CanApply(money.MustParse("-5"), money.MustParse("1")), "inflows are always accepted")
}
