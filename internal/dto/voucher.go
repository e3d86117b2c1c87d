package dto

import "github.com/SscSPs/treasury_ledger/pkg/money"

// CreateExpenseRequest creates a draft expense.
type CreateExpenseRequest struct {
	TreasuryID  string      `json:"treasuryID" binding:"required"`
	Amount      money.Money `json:"amount" binding:"money_positive"`
	Description string      `json:"description" binding:"max=1000"`
	Category    string      `json:"category" binding:"max=100"`
	ExpenseDate string      `json:"expenseDate" binding:"omitempty,datetime=2006-01-02"`
}

// CreateRevenueRequest creates a draft revenue.
type CreateRevenueRequest struct {
	TreasuryID  string      `json:"treasuryID" binding:"required"`
	Amount      money.Money `json:"amount" binding:"money_positive"`
	Description string      `json:"description" binding:"max=1000"`
	Category    string      `json:"category" binding:"max=100"`
	RevenueDate string      `json:"revenueDate" binding:"omitempty,datetime=2006-01-02"`
}
