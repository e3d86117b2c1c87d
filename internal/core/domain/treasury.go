package domain

import "github.com/SscSPs/treasury_ledger/pkg/money"

// TreasuryType distinguishes physical cash boxes from bank accounts.
type TreasuryType string

const (
	TreasuryCash TreasuryType = "cash"
	TreasuryBank TreasuryType = "bank"
)

// IsValid reports whether t is a known treasury type.
func (t TreasuryType) IsValid() bool {
	return t == TreasuryCash || t == TreasuryBank
}

// Treasury is a named pool of funds. Its balance is never stored; it is the
// sum of its ledger entries.
type Treasury struct {
	TreasuryID     string       `json:"treasuryID"`
	Name           string       `json:"name"`
	Type           TreasuryType `json:"type"`
	AllowOverdraft bool         `json:"allowOverdraft"`
	AuditFields
}

// PermitsNegativeBalance reports whether the treasury may go below zero.
// Cash can never be overdrawn regardless of the flag.
func (t Treasury) PermitsNegativeBalance() bool {
	return t.Type == TreasuryBank && t.AllowOverdraft
}

// CanApply reports whether posting delta on top of balance respects the overdraft policy.
// Inflows are always accepted.
func (t Treasury) CanApply(balance, delta money.Money) bool {
	if !delta.IsNegative() || t.PermitsNegativeBalance() {
		return true
	}
	return !money.Add(balance, delta).IsNegative()
}
