package pgsql_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/core/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/internal/platform/config"
	"github.com/SscSPs/treasury_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/treasury_ledger/pkg/database"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

const userID = "integration"

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../../../.env")

	// Never point this at a database whose data matters: every table is truncated.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, database.RunMigrations(dbURL, "file://../../../../migrations", database.MigrateUp, logger))

	ctx := context.Background()
	pool, err := database.NewPgxPool(ctx, dbURL, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE equity_period_partners, equity_periods, installments, invoice_payments,
			treasury_transactions, document_lines, documents, expenses, revenues, stock_levels,
			products, partners, treasuries, users CASCADE;
	`)
	require.NoError(t, err)
	return pool
}

func newServices(pool *pgxpool.Pool) *portssvc.ServiceContainer {
	cfg := &config.Config{JWTSecret: "integration", JWTExpiryDuration: time.Hour, JWTIssuer: "integration"}
	return services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool))
}

func fundedTill(t *testing.T, svc *portssvc.ServiceContainer, funding string) *domain.Treasury {
	t.Helper()
	ctx := context.Background()
	till, err := svc.Ledger.CreateTreasury(ctx, dto.CreateTreasuryRequest{Name: "Till", Type: domain.TreasuryCash}, userID)
	require.NoError(t, err)
	_, err = svc.Treasury.RecordTransaction(ctx, dto.RecordTransactionRequest{
		TreasuryID: till.TreasuryID,
		Type:       domain.TxnCapitalDeposit,
		Amount:     money.MustParse(funding),
	}, userID)
	require.NoError(t, err)
	return till
}

func TestPostDocument_IsIdempotent(t *testing.T) {
	pool := setupTestDB(t)
	svc := newServices(pool)
	ctx := context.Background()

	till := fundedTill(t, svc, "1000")
	widget, err := svc.Document.CreateProduct(ctx, dto.CreateProductRequest{Name: "Widget", SKU: "W-1"}, userID)
	require.NoError(t, err)

	line := []dto.DocumentLineRequest{{ProductID: widget.ProductID, Quantity: decimal.NewFromInt(4), UnitPrice: money.MustParse("25")}}
	purchase, err := svc.Document.CreateDocument(ctx, dto.CreateDocumentRequest{
		Kind: domain.DocPurchaseInvoice, TreasuryID: &till.TreasuryID, Lines: line,
	}, userID)
	require.NoError(t, err)
	_, err = svc.Document.PostDocument(ctx, purchase.DocumentID, userID)
	require.NoError(t, err)

	sale, err := svc.Document.CreateDocument(ctx, dto.CreateDocumentRequest{
		Kind: domain.DocSalesInvoice, TreasuryID: &till.TreasuryID,
		Lines: []dto.DocumentLineRequest{{ProductID: widget.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: money.MustParse("60")}},
	}, userID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Document.PostDocument(ctx, sale.DocumentID, userID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, err := svc.Ledger.GetBalance(ctx, till.TreasuryID)
	require.NoError(t, err)
	assert.Equal(t, "960.0000", balance.String())

	stock, err := svc.Document.GetStockLevel(ctx, widget.ProductID, "")
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(3)), "stock is %s", stock)
}

func TestConcurrentExpensesNeverOverdraw(t *testing.T) {
	pool := setupTestDB(t)
	svc := newServices(pool)
	ctx := context.Background()

	till := fundedTill(t, svc, "100")

	const attempts = 5
	ids := make([]string, attempts)
	for i := range ids {
		exp, err := svc.Treasury.CreateExpense(ctx, dto.CreateExpenseRequest{TreasuryID: till.TreasuryID, Amount: money.MustParse("30")}, userID)
		require.NoError(t, err)
		ids[i] = exp.ExpenseID
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		posted   int
		rejected int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.Treasury.PostExpense(ctx, id, userID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				posted++
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
			rejected++
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, posted)
	assert.Equal(t, 2, rejected)

	balance, err := svc.Ledger.GetBalance(ctx, till.TreasuryID)
	require.NoError(t, err)
	assert.Equal(t, "10.0000", balance.String())
}
