package domain

import (
	"time"

	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// Expense is money paid out of a treasury for operating costs.
type Expense struct {
	ExpenseID   string         `json:"expenseID"`
	TreasuryID  string         `json:"treasuryID"`
	Amount      money.Money    `json:"amount"`
	Description string         `json:"description"`
	Category    string         `json:"category,omitempty"`
	ExpenseDate time.Time      `json:"expenseDate"`
	Status      DocumentStatus `json:"status"`
	PostedAt    *time.Time     `json:"postedAt,omitempty"`
	AuditFields
}

// Revenue is non-sales income received into a treasury.
type Revenue struct {
	RevenueID   string         `json:"revenueID"`
	TreasuryID  string         `json:"treasuryID"`
	Amount      money.Money    `json:"amount"`
	Description string         `json:"description"`
	Category    string         `json:"category,omitempty"`
	RevenueDate time.Time      `json:"revenueDate"`
	Status      DocumentStatus `json:"status"`
	PostedAt    *time.Time     `json:"postedAt,omitempty"`
	AuditFields
}
