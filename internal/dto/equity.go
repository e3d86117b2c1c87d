package dto

import (
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/pkg/money"
	"github.com/shopspring/decimal"
)

// OpenPeriodRequest opens the first equity period.
type OpenPeriodRequest struct {
	StartDate string                 `json:"startDate" binding:"required,datetime=2006-01-02"`
	Partners  []EquityPartnerRequest `json:"partners" binding:"required,min=1,dive"`
}

// EquityPartnerRequest is one shareholder's stake.
type EquityPartnerRequest struct {
	PartnerID        string          `json:"partnerID" binding:"required"`
	EquityPercentage decimal.Decimal `json:"equityPercentage"`
	CapitalAtStart   money.Money     `json:"capitalAtStart" binding:"money_nonnegative"`
}

// ClosePeriodRequest closes the period. EndDate defaults to today.
type ClosePeriodRequest struct {
	EndDate string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Notes   string `json:"notes" binding:"max=1000"`
}

// ClosePeriodResponse pairs the closed period with the one opened after it.
type ClosePeriodResponse struct {
	Closed *domain.EquityPeriod `json:"closed"`
	Next   *domain.EquityPeriod `json:"next"`
}
