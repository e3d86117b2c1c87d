package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// TransactionType classifies a ledger entry and fixes the sign of its amount.
type TransactionType string

const (
	TxnIncome               TransactionType = "income"
	TxnPayment              TransactionType = "payment"
	TxnCollection           TransactionType = "collection"
	TxnExpense              TransactionType = "expense"
	TxnPartnerDrawing       TransactionType = "partner_drawing"
	TxnEmployeeAdvance      TransactionType = "employee_advance"
	TxnSalaryPayment        TransactionType = "salary_payment"
	TxnPartnerLoanReceipt   TransactionType = "partner_loan_receipt"
	TxnPartnerLoanRepayment TransactionType = "partner_loan_repayment"
	TxnCapitalDeposit       TransactionType = "capital_deposit"
	TxnOtherIncome          TransactionType = "other_income"
	TxnOtherExpense         TransactionType = "other_expense"
)

// outflow is true for types whose amounts are stored negative.
var transactionOutflow = map[TransactionType]bool{
	TxnIncome:               false,
	TxnPayment:              true,
	TxnCollection:           false,
	TxnExpense:              true,
	TxnPartnerDrawing:       true,
	TxnEmployeeAdvance:      true,
	TxnSalaryPayment:        true,
	TxnPartnerLoanReceipt:   false,
	TxnPartnerLoanRepayment: true,
	TxnCapitalDeposit:       false,
	TxnOtherIncome:          false,
	TxnOtherExpense:         true,
}

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	_, ok := transactionOutflow[t]
	return ok
}

// IsOutflow reports whether money leaves the treasury for this type.
func (t TransactionType) IsOutflow() bool {
	return transactionOutflow[t]
}

// SignedAmount applies the sign convention to amount: outflows negative, inflows positive.
// The sign of the input is ignored.
func (t TransactionType) SignedAmount(amount money.Money) money.Money {
	if t.IsOutflow() {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// ReferenceType names the kind of record a ledger entry points back to.
// The string values are persisted and must not change.
type ReferenceType string

const (
	RefSalesInvoice        ReferenceType = "sales_invoice"
	RefPurchaseInvoice     ReferenceType = "purchase_invoice"
	RefSalesReturn         ReferenceType = "sales_return"
	RefPurchaseReturn      ReferenceType = "purchase_return"
	RefExpense             ReferenceType = "expense"
	RefRevenue             ReferenceType = "revenue"
	RefFixedAsset          ReferenceType = "fixed_asset"
	RefTreasuryTransaction ReferenceType = "treasury_transaction"
	RefInvoicePayment      ReferenceType = "invoice_payment"
	RefInstallment         ReferenceType = "installment"
)

// referenceTables is the lookup from reference kind to the table holding the referenced row.
var referenceTables = map[ReferenceType]string{
	RefSalesInvoice:        "documents",
	RefPurchaseInvoice:     "documents",
	RefSalesReturn:         "documents",
	RefPurchaseReturn:      "documents",
	RefExpense:             "expenses",
	RefRevenue:             "revenues",
	RefFixedAsset:          "fixed_assets",
	RefTreasuryTransaction: "treasury_transactions",
	RefInvoicePayment:      "invoice_payments",
	RefInstallment:         "installments",
}

// settlementReferences are the kinds whose ledger entries settle a document's
// remaining amount; their effect on a partner is already in remaining_amount.
var settlementReferences = map[ReferenceType]bool{
	RefSalesInvoice:    true,
	RefPurchaseInvoice: true,
	RefSalesReturn:     true,
	RefPurchaseReturn:  true,
	RefInvoicePayment:  true,
	RefInstallment:     true,
}

// ParseReferenceType validates s against the closed set of reference kinds.
func ParseReferenceType(s string) (ReferenceType, error) {
	r := ReferenceType(s)
	if _, ok := referenceTables[r]; !ok {
		return "", fmt.Errorf("unknown reference type %q", s)
	}
	return r, nil
}

// Table returns the table that stores rows of this reference kind.
func (r ReferenceType) Table() (string, bool) {
	t, ok := referenceTables[r]
	return t, ok
}

// SettlesDocument reports whether entries of this kind settle a document balance.
func (r ReferenceType) SettlesDocument() bool {
	return settlementReferences[r]
}

// SettlementReferenceTypes lists the kinds excluded from a partner's direct ledger effect.
func SettlementReferenceTypes() []ReferenceType {
	return []ReferenceType{RefSalesInvoice, RefPurchaseInvoice, RefSalesReturn, RefPurchaseReturn, RefInvoicePayment, RefInstallment}
}

// PurposePosting marks the single entry a record produces when it is posted.
const PurposePosting = "posting"

// TreasuryTransaction is one immutable ledger entry.
type TreasuryTransaction struct {
	TransactionID string          `json:"transactionID"`
	TreasuryID    string          `json:"treasuryID"`
	Type          TransactionType `json:"type"`
	Amount        money.Money     `json:"amount"` // signed
	Description   string          `json:"description"`
	PartnerID     *string         `json:"partnerID,omitempty"`
	EmployeeID    *string         `json:"employeeID,omitempty"`
	ReferenceType *ReferenceType  `json:"referenceType,omitempty"`
	ReferenceID   *string         `json:"referenceID,omitempty"`
	Purpose       string          `json:"purpose,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// HasReference reports whether the entry carries a back-reference.
func (t TreasuryTransaction) HasReference() bool {
	return t.ReferenceType != nil && t.ReferenceID != nil
}

// SettlesDocument reports whether the entry settles a document balance.
func (t TreasuryTransaction) SettlesDocument() bool {
	return t.ReferenceType != nil && t.ReferenceType.SettlesDocument()
}
