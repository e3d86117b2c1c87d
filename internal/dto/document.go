package dto

import (
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/pkg/money"
	"github.com/shopspring/decimal"
)

// CreateDocumentRequest creates a draft invoice, return or stock adjustment.
type CreateDocumentRequest struct {
	Kind            domain.DocumentKind     `json:"kind" binding:"required,oneof=sales_invoice purchase_invoice sales_return purchase_return stock_adjustment"`
	PartnerID       *string                 `json:"partnerID"`
	TreasuryID      *string                 `json:"treasuryID"`
	PaymentMethod   domain.PaymentMethod    `json:"paymentMethod" binding:"omitempty,oneof=cash credit installment"`
	DocumentDate    string                  `json:"documentDate" binding:"omitempty,datetime=2006-01-02"`
	Discount        money.Money             `json:"discount" binding:"money_nonnegative"`
	PaidAmount      money.Money             `json:"paidAmount" binding:"money_nonnegative"`
	Notes           string                  `json:"notes"`
	Lines           []DocumentLineRequest   `json:"lines" binding:"dive"`
	InstallmentPlan *InstallmentPlanRequest `json:"installmentPlan"`
}

// DocumentLineRequest is one product row of a new document.
type DocumentLineRequest struct {
	ProductID   string          `json:"productID" binding:"required"`
	WarehouseID string          `json:"warehouseID"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   money.Money     `json:"unitPrice" binding:"money_nonnegative"`
}

// InstallmentPlanRequest describes the schedule generated when an installment sale posts.
type InstallmentPlanRequest struct {
	Count        int    `json:"count" binding:"required,min=1,max=360"`
	FirstDueDate string `json:"firstDueDate" binding:"required,datetime=2006-01-02"`
	IntervalDays int    `json:"intervalDays" binding:"min=0"`
}

// RecordInvoicePaymentRequest records cash settled against an invoice.
type RecordInvoicePaymentRequest struct {
	Amount      money.Money `json:"amount" binding:"money_positive"`
	Discount    money.Money `json:"discount" binding:"money_nonnegative"`
	TreasuryID  string      `json:"treasuryID" binding:"required"`
	PaymentDate string      `json:"paymentDate" binding:"omitempty,datetime=2006-01-02"`
	Notes       string      `json:"notes"`
}

// ListInstallmentsResponse wraps an invoice's schedule.
type ListInstallmentsResponse struct {
	Installments []domain.Installment `json:"installments"`
}
