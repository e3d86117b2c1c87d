package domain

import (
	"time"

	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// InstallmentStatus tracks collection of one installment.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
)

// InstallmentPrecision is the number of fractional digits installments are split at.
const InstallmentPrecision = 2

// Installment is one scheduled part of a credit sale.
type Installment struct {
	InstallmentID     string            `json:"installmentID"`
	SalesInvoiceID    string            `json:"salesInvoiceID"`
	InstallmentNumber int               `json:"installmentNumber"`
	Amount            money.Money       `json:"amount"`
	PaidAmount        money.Money       `json:"paidAmount"`
	DueDate           time.Time         `json:"dueDate"`
	Status            InstallmentStatus `json:"status"`
	PaidAt            *time.Time        `json:"paidAt,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// Remaining is Amount - PaidAmount.
func (i Installment) Remaining() money.Money {
	return i.Amount.Sub(i.PaidAmount)
}

// ApplyPayment adds amount to PaidAmount and marks the installment paid once
// it is fully covered. The caller must have checked amount against Remaining.
func (i *Installment) ApplyPayment(amount money.Money, at time.Time) {
	i.PaidAmount = i.PaidAmount.Add(amount)
	if i.PaidAmount.Equal(i.Amount) {
		i.Status = InstallmentPaid
		i.PaidAt = &at
	}
}

// IsOverdueOn reports whether the sweep for today should flag the installment.
func (i Installment) IsOverdueOn(today time.Time) bool {
	return i.Status == InstallmentPending && DateOnly(i.DueDate).Before(DateOnly(today))
}

// InstallmentDueDate is the due date of the k-th (zero based) installment.
func InstallmentDueDate(first time.Time, k, intervalDays int) time.Time {
	return DateOnly(first).AddDate(0, 0, k*intervalDays)
}
