package dto

import (
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/pkg/money"
	"golang.org/x/text/language"
)

// DebtorCreditorResponse is the debtor/creditor summary with display strings.
type DebtorCreditorResponse struct {
	domain.DebtorCreditorSummary
	TotalDebtorsDisplay   string `json:"totalDebtorsDisplay"`
	TotalCreditorsDisplay string `json:"totalCreditorsDisplay"`
}

// ToDebtorCreditorResponse renders the summary for locale.
func ToDebtorCreditorResponse(s domain.DebtorCreditorSummary, locale language.Tag) DebtorCreditorResponse {
	return DebtorCreditorResponse{
		DebtorCreditorSummary: s,
		TotalDebtorsDisplay:   money.Format(s.TotalDebtors, locale),
		TotalCreditorsDisplay: money.Format(s.TotalCreditors, locale),
	}
}
