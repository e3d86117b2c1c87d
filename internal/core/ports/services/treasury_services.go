package services

import (
	"context"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// PartnerBalanceUpdater recomputes a partner's cached balance from documents and ledger.
type PartnerBalanceUpdater interface {
	UpdatePartnerBalance(ctx context.Context, partnerID string, userID string) (money.Money, error)
}

// VoucherSvc creates and posts expenses and revenues
type VoucherSvc interface {
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, userID string) (*domain.Expense, error)
	CreateRevenue(ctx context.Context, req dto.CreateRevenueRequest, userID string) (*domain.Revenue, error)

	// PostExpense posts the expense once. Posting again returns the existing entry.
	PostExpense(ctx context.Context, expenseID string, userID string) (*domain.TreasuryTransaction, error)

	// PostRevenue posts the revenue once. Posting again returns the existing entry.
	PostRevenue(ctx context.Context, revenueID string, userID string) (*domain.TreasuryTransaction, error)
}

// TreasurySvcFacade is the orchestrator: every operation is one atomic unit.
type TreasurySvcFacade interface {
	PartnerBalanceUpdater
	VoucherSvc

	// RecordInvoicePayment settles part of an invoice in cash.
	RecordInvoicePayment(ctx context.Context, documentID string, req dto.RecordInvoicePaymentRequest, userID string) (*domain.InvoicePayment, error)

	// RecordTransaction appends an ad hoc entry and refreshes the linked partner.
	RecordTransaction(ctx context.Context, req dto.RecordTransactionRequest, userID string) (*domain.TreasuryTransaction, error)
}
