package dto

import "github.com/SscSPs/treasury_ledger/pkg/money"

// RecordInstallmentPaymentRequest collects cash against one installment.
type RecordInstallmentPaymentRequest struct {
	Amount     money.Money `json:"amount" binding:"money_positive"`
	TreasuryID string      `json:"treasuryID" binding:"required"`
}

// OverdueSweepRequest runs the sweep for Date, today when empty.
type OverdueSweepRequest struct {
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// OverdueSweepResponse reports how many installments were flagged.
type OverdueSweepResponse struct {
	Date    string `json:"date"`
	Updated int64  `json:"updated"`
}
