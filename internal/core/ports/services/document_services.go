package services

import (
	"context"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// DocumentReaderSvc defines read operations for documents
type DocumentReaderSvc interface {
	GetDocument(ctx context.Context, documentID string) (*domain.Document, error)
}

// DocumentWriterSvc drives the draft to posted transition
type DocumentWriterSvc interface {
	// CreateDocument computes totals and stores a draft.
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, userID string) (*domain.Document, error)

	// PostDocument applies stock, cash, status and schedule effects in one unit.
	// Posting an already posted document returns it unchanged.
	PostDocument(ctx context.Context, documentID string, userID string) (*domain.Document, error)
}

// InventorySvc covers the products documents move
type InventorySvc interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error)
	GetStockLevel(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error)
}

// DocumentSvcFacade combines all document-related service interfaces
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
	InventorySvc
}
