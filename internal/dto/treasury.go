package dto

import (
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// CreateTreasuryRequest defines the data needed to create a treasury.
type CreateTreasuryRequest struct {
	Name string              `json:"name" binding:"required,max=255"`
	Type domain.TreasuryType `json:"type" binding:"required,oneof=cash bank"`
	// AllowOverdraft only applies to bank treasuries. Nil falls back to the configured default.
	AllowOverdraft *bool `json:"allowOverdraft"`
}

// TreasuryBalanceResponse carries the exact balance plus a display rendering.
type TreasuryBalanceResponse struct {
	TreasuryID     string      `json:"treasuryID"`
	Balance        money.Money `json:"balance"`
	BalanceDisplay string      `json:"balanceDisplay"`
}

// ListTreasuriesResponse wraps the list of treasuries.
type ListTreasuriesResponse struct {
	Treasuries []domain.Treasury `json:"treasuries"`
}

// ListTreasuryTransactionsParams defines query parameters for the ledger listing.
type ListTreasuryTransactionsParams struct {
	Limit     int    `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
	NextToken string `form:"nextToken"`
}

// ListTreasuryTransactionsResponse is one page of ledger entries, newest first.
type ListTreasuryTransactionsResponse struct {
	Transactions []domain.TreasuryTransaction `json:"transactions"`
	NextToken    *string                      `json:"nextToken,omitempty"`
}

// RecordTransactionRequest appends an ad hoc ledger entry. The sign of Amount is
// ignored; the transaction type decides it.
type RecordTransactionRequest struct {
	TreasuryID    string                 `json:"treasuryID" binding:"required"`
	Type          domain.TransactionType `json:"type" binding:"required"`
	Amount        money.Money            `json:"amount" binding:"money_nonzero"`
	Description   string                 `json:"description"`
	PartnerID     *string                `json:"partnerID"`
	EmployeeID    *string                `json:"employeeID"`
	ReferenceType *string                `json:"referenceType"`
	ReferenceID   *string                `json:"referenceID" binding:"required_with=ReferenceType"`
}
