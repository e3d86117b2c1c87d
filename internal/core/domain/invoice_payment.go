package domain

import (
	"time"

	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// InvoicePayment records cash settled against a sales or purchase invoice.
// Discount reduces what is owed without moving cash.
type InvoicePayment struct {
	PaymentID     string       `json:"paymentID"`
	DocumentKind  DocumentKind `json:"documentKind"`
	DocumentID    string       `json:"documentID"`
	Amount        money.Money  `json:"amount"`
	Discount      money.Money  `json:"discount"`
	PaymentDate   time.Time    `json:"paymentDate"`
	PartnerID     *string      `json:"partnerID,omitempty"`
	TreasuryID    string       `json:"treasuryID"`
	TransactionID string       `json:"transactionID"`
	Notes         string       `json:"notes,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	CreatedBy     string       `json:"createdBy"`
}

// Settles is the amount removed from the invoice's remaining balance.
func (p InvoicePayment) Settles() money.Money {
	return p.Amount.Add(p.Discount)
}
