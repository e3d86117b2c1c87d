package services

import (
	"context"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/internal/dto"
)

// ScheduleGenerator builds and stores an installment plan
type ScheduleGenerator interface {
	GenerateSchedule(ctx context.Context, invoice domain.Document, plan domain.InstallmentPlan) ([]domain.Installment, error)
}

// InstallmentSvcFacade combines all installment-related service interfaces
type InstallmentSvcFacade interface {
	ScheduleGenerator

	ListInstallments(ctx context.Context, invoiceID string) ([]domain.Installment, error)

	// SweepOverdue flags pending installments due before today and returns how many changed.
	SweepOverdue(ctx context.Context, today time.Time) (int64, error)

	RecordInstallmentPayment(ctx context.Context, installmentID string, req dto.RecordInstallmentPaymentRequest, userID string) (*domain.Installment, error)
}
