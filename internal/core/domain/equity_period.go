package domain

import (
	"time"

	"github.com/SscSPs/treasury_ledger/pkg/money"
	"github.com/shopspring/decimal"
)

// EquityPeriodStatus is open while postings accumulate and closed once profit is allocated.
type EquityPeriodStatus string

const (
	PeriodOpen   EquityPeriodStatus = "open"
	PeriodClosed EquityPeriodStatus = "closed"
)

// EquityPartner is a shareholder's stake in one period.
type EquityPartner struct {
	PartnerID        string          `json:"partnerID"`
	EquityPercentage decimal.Decimal `json:"equityPercentage"`
	CapitalAtStart   money.Money     `json:"capitalAtStart"`
	CapitalInjected  money.Money     `json:"capitalInjected"`
	ProfitAllocated  money.Money     `json:"profitAllocated"`
}

// EquityPeriod is a profit sharing window.
type EquityPeriod struct {
	PeriodID      string             `json:"periodID"`
	PeriodNumber  int                `json:"periodNumber"`
	StartDate     time.Time          `json:"startDate"`
	EndDate       *time.Time         `json:"endDate,omitempty"`
	Status        EquityPeriodStatus `json:"status"`
	TotalRevenue  money.Money        `json:"totalRevenue"`
	TotalExpenses money.Money        `json:"totalExpenses"`
	NetProfit     money.Money        `json:"netProfit"`
	ClosedAt      *time.Time         `json:"closedAt,omitempty"`
	ClosedBy      *string            `json:"closedBy,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	Partners      []EquityPartner    `json:"partners"`
	AuditFields
}

// IsOpen reports whether the period still accepts a close.
func (p EquityPeriod) IsOpen() bool { return p.Status == PeriodOpen }

// Close freezes the period totals and allocates net profit by equity percentage.
// The last partner absorbs the rounding remainder so allocations sum to NetProfit.
func (p *EquityPeriod) Close(revenue, expenses money.Money, endDate time.Time, closedBy, notes string, now time.Time) {
	end := DateOnly(endDate)
	p.EndDate = &end
	p.TotalRevenue = revenue
	p.TotalExpenses = expenses
	p.NetProfit = revenue.Sub(expenses)
	allocated := money.Zero()
	for i := range p.Partners {
		if i == len(p.Partners)-1 {
			p.Partners[i].ProfitAllocated = p.NetProfit.Sub(allocated)
			break
		}
		p.Partners[i].ProfitAllocated = p.NetProfit.MulPercent(p.Partners[i].EquityPercentage)
		allocated = allocated.Add(p.Partners[i].ProfitAllocated)
	}
	p.Status = PeriodClosed
	p.ClosedAt = &now
	p.ClosedBy = &closedBy
	p.Notes = notes
	p.LastUpdatedAt = now
	p.LastUpdatedBy = closedBy
}

// Next builds the period that follows a closed one. Partner capital carries
// forward with this period's injections and allocated profit.
func (p EquityPeriod) Next(periodID, userID string, now time.Time) EquityPeriod {
	start := now
	if p.EndDate != nil {
		start = p.EndDate.AddDate(0, 0, 1)
	}
	partners := make([]EquityPartner, len(p.Partners))
	for i, ep := range p.Partners {
		partners[i] = EquityPartner{
			PartnerID:        ep.PartnerID,
			EquityPercentage: ep.EquityPercentage,
			CapitalAtStart:   money.Sum(ep.CapitalAtStart, ep.CapitalInjected, ep.ProfitAllocated),
		}
	}
	return EquityPeriod{
		PeriodID:     periodID,
		PeriodNumber: p.PeriodNumber + 1,
		StartDate:    DateOnly(start),
		Status:       PeriodOpen,
		Partners:     partners,
		AuditFields:  NewAuditFields(userID, now),
	}
}
