package domain

import "github.com/SscSPs/treasury_ledger/pkg/money"

// PartnerType is the role a counterparty plays for the business.
type PartnerType string

const (
	PartnerCustomer    PartnerType = "customer"
	PartnerSupplier    PartnerType = "supplier"
	PartnerShareholder PartnerType = "shareholder"
)

// IsValid reports whether t is a known partner type.
func (t PartnerType) IsValid() bool {
	return t == PartnerCustomer || t == PartnerSupplier || t == PartnerShareholder
}

// Partner is a customer, supplier or shareholder.
//
// CurrentBalance is positive when the partner owes the business and negative
// when the business owes the partner. It is a cache rebuilt by ComputePartnerBalance.
type Partner struct {
	PartnerID      string      `json:"partnerID"`
	Name           string      `json:"name"`
	Type           PartnerType `json:"type"`
	Phone          string      `json:"phone,omitempty"`
	CurrentBalance money.Money `json:"currentBalance"`
	AuditFields
}

// IsDebtor reports whether the partner counts as a debtor in reporting.
func (p Partner) IsDebtor() bool {
	return p.Type != PartnerShareholder && p.CurrentBalance.IsPositive()
}

// IsCreditor reports whether the partner counts as a creditor in reporting.
// Shareholders count too: capital they deposited is owed back to them.
func (p Partner) IsCreditor() bool {
	return p.CurrentBalance.IsNegative()
}

// PartnerLedgerEffect is how a partner-linked ledger entry moves that partner's balance.
// Cash received from the partner lowers what they owe, cash paid to them raises it.
// Entries that settle a document are already reflected in its remaining amount.
func PartnerLedgerEffect(txn TreasuryTransaction) money.Money {
	if txn.SettlesDocument() {
		return money.Zero()
	}
	return txn.Amount.Neg()
}

// ComputePartnerBalance derives a partner balance from first principles.
//
// remainingByKind holds the summed remaining amounts of the partner's posted
// documents. unsettledLedgerSum is the signed sum of the partner's ledger
// entries that do not settle a document.
func ComputePartnerBalance(remainingByKind map[DocumentKind]money.Money, unsettledLedgerSum money.Money) money.Money {
	balance := unsettledLedgerSum.Neg()
	for kind, remaining := range remainingByKind {
		switch kind.PartnerSign() {
		case 1:
			balance = balance.Add(remaining)
		case -1:
			balance = balance.Sub(remaining)
		}
	}
	return balance
}
