package domain

import "github.com/SscSPs/treasury_ledger/pkg/money"

// DebtorCreditorSummary totals what partners owe and are owed.
// Shareholders never count as debtors but do count as creditors.
type DebtorCreditorSummary struct {
	TotalDebtors   money.Money `json:"totalDebtors"`
	TotalCreditors money.Money `json:"totalCreditors"`
	DebtorCount    int         `json:"debtorCount"`
	CreditorCount  int         `json:"creditorCount"`
}

// SummarizePartners builds the debtor/creditor totals from cached balances.
func SummarizePartners(partners []Partner) DebtorCreditorSummary {
	var s DebtorCreditorSummary
	for _, p := range partners {
		switch {
		case p.IsDebtor():
			s.TotalDebtors = s.TotalDebtors.Add(p.CurrentBalance)
			s.DebtorCount++
		case p.IsCreditor():
			s.TotalCreditors = s.TotalCreditors.Add(p.CurrentBalance.Abs())
			s.CreditorCount++
		}
	}
	return s
}

// PartnerStatement is a partner with its ledger history and unsettled documents.
type PartnerStatement struct {
	Partner       Partner               `json:"partner"`
	Transactions  []TreasuryTransaction `json:"transactions"`
	OpenDocuments []Document            `json:"openDocuments"`
}
