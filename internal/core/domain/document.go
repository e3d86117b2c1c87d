package domain

import (
	"time"

	"github.com/SscSPs/treasury_ledger/pkg/money"
	"github.com/shopspring/decimal"
)

// DocumentKind identifies the business document type.
type DocumentKind string

const (
	DocSalesInvoice    DocumentKind = "sales_invoice"
	DocPurchaseInvoice DocumentKind = "purchase_invoice"
	DocSalesReturn     DocumentKind = "sales_return"
	DocPurchaseReturn  DocumentKind = "purchase_return"
	DocStockAdjustment DocumentKind = "stock_adjustment"
)

// IsValid reports whether k is a known document kind.
func (k DocumentKind) IsValid() bool {
	switch k {
	case DocSalesInvoice, DocPurchaseInvoice, DocSalesReturn, DocPurchaseReturn, DocStockAdjustment:
		return true
	}
	return false
}

// PartnerSign is +1 when the document's open amount is owed to the business
// and -1 when the business owes it. Documents without financial effect return 0.
func (k DocumentKind) PartnerSign() int {
	switch k {
	case DocSalesInvoice, DocPurchaseReturn:
		return 1
	case DocPurchaseInvoice, DocSalesReturn:
		return -1
	}
	return 0
}

// StockDirection is the sign applied to line quantities when the document posts.
func (k DocumentKind) StockDirection() int {
	switch k {
	case DocSalesInvoice, DocPurchaseReturn:
		return -1
	default:
		return 1
	}
}

// HasFinancialEffect reports whether posting touches treasuries or partners.
func (k DocumentKind) HasFinancialEffect() bool {
	return k.PartnerSign() != 0
}

// IsPayable reports whether invoice payments can be recorded against the kind.
func (k DocumentKind) IsPayable() bool {
	return k == DocSalesInvoice || k == DocPurchaseInvoice
}

// SettlementType is the ledger type used for cash settled against the document.
// Money comes in for sales invoices and purchase returns.
func (k DocumentKind) SettlementType() TransactionType {
	if k.PartnerSign() > 0 {
		return TxnCollection
	}
	return TxnPayment
}

// ReferenceType is the ledger back-reference kind for the document.
func (k DocumentKind) ReferenceType() ReferenceType {
	return ReferenceType(k)
}

// DocumentStatus is the posting state. Posted is terminal.
type DocumentStatus string

const (
	StatusDraft  DocumentStatus = "draft"
	StatusPosted DocumentStatus = "posted"
)

// PaymentMethod decides how much of a document is settled in cash at posting.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCredit      PaymentMethod = "credit"
	PaymentInstallment PaymentMethod = "installment"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentCash || m == PaymentCredit || m == PaymentInstallment
}

// DocumentLine is one product row. For stock adjustments Quantity carries its own sign.
type DocumentLine struct {
	LineID      string          `json:"lineID"`
	ProductID   string          `json:"productID"`
	WarehouseID string          `json:"warehouseID"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   money.Money     `json:"unitPrice"`
}

// LineTotal is Quantity * UnitPrice at money scale.
func (l DocumentLine) LineTotal() (money.Money, error) {
	return money.FromDecimal(l.UnitPrice.Decimal().Mul(l.Quantity).Round(money.Scale))
}

// InstallmentPlan is captured on an installment sale and used when it posts.
type InstallmentPlan struct {
	Count        int       `json:"count"`
	FirstDueDate time.Time `json:"firstDueDate"`
	IntervalDays int       `json:"intervalDays"`
}

// Document is an invoice, return or stock adjustment.
type Document struct {
	DocumentID      string           `json:"documentID"`
	Kind            DocumentKind     `json:"kind"`
	Status          DocumentStatus   `json:"status"`
	PartnerID       *string          `json:"partnerID,omitempty"`
	TreasuryID      *string          `json:"treasuryID,omitempty"`
	PaymentMethod   PaymentMethod    `json:"paymentMethod"`
	DocumentDate    time.Time        `json:"documentDate"`
	Subtotal        money.Money      `json:"subtotal"`
	Discount        money.Money      `json:"discount"`
	Total           money.Money      `json:"total"`
	PaidAmount      money.Money      `json:"paidAmount"`
	RemainingAmount money.Money      `json:"remainingAmount"`
	Notes           string           `json:"notes,omitempty"`
	Lines           []DocumentLine   `json:"lines"`
	InstallmentPlan *InstallmentPlan `json:"installmentPlan,omitempty"`
	PostedAt        *time.Time       `json:"postedAt,omitempty"`
	PostedBy        *string          `json:"postedBy,omitempty"`
	AuditFields
}

// IsPosted reports whether the document has been posted.
func (d Document) IsPosted() bool { return d.Status == StatusPosted }

// ComputeTotals sets Subtotal and Total from the lines and discount.
func (d *Document) ComputeTotals() error {
	subtotal := money.Zero()
	for _, line := range d.Lines {
		lt, err := line.LineTotal()
		if err != nil {
			return err
		}
		subtotal = subtotal.Add(lt.Abs())
	}
	d.Subtotal = subtotal
	d.Total = subtotal.Sub(d.Discount)
	return nil
}

// SettledAtPosting is the part of the total paid in cash when the document posts.
func (d Document) SettledAtPosting() money.Money {
	if !d.Kind.HasFinancialEffect() {
		return money.Zero()
	}
	if d.PaymentMethod == PaymentCash {
		return d.Total
	}
	return d.PaidAmount
}
