package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/internal/middleware"
)

// documentHandler handles invoices, returns, adjustments and the products they move.
type documentHandler struct {
	documentService    portssvc.DocumentSvcFacade
	treasuryService    portssvc.TreasurySvcFacade
	installmentService portssvc.InstallmentSvcFacade
}

func registerDocumentRoutes(rg *gin.RouterGroup, ds portssvc.DocumentSvcFacade, ts portssvc.TreasurySvcFacade, is portssvc.InstallmentSvcFacade) {
	h := &documentHandler{documentService: ds, treasuryService: ts, installmentService: is}

	rg.POST("/products", h.createProduct)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("/:documentID", h.getDocument)
		documents.POST("/:documentID/post", h.postDocument)
		documents.POST("/:documentID/payments", h.recordPayment)
		documents.GET("/:documentID/installments", h.listInstallments)
	}
}

// createProduct godoc
// @Summary Register a product
// @Tags documents
// @Accept json
// @Produce json
// @Param product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} domain.Product
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "SKU already registered"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /products [post]
func (h *documentHandler) createProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	product, err := h.documentService.CreateProduct(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// createDocument godoc
// @Summary Create a draft document
// @Description Creates a sales/purchase invoice, return or stock adjustment in draft status.
// @Tags documents
// @Accept json
// @Produce json
// @Param document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} domain.Document
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	doc, err := h.documentService.CreateDocument(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create document")
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// getDocument godoc
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {object} domain.Document
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /documents/{documentID} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	doc, err := h.documentService.GetDocument(c.Request.Context(), c.Param("documentID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve document")
		return
	}
	c.JSON(http.StatusOK, doc)
}

// postDocument godoc
// @Summary Post a document
// @Description Moves stock, settles cash and generates installments in one unit. Posting twice is a no-op.
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {object} domain.Document
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "Insufficient stock or treasury balance"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /documents/{documentID}/post [post]
func (h *documentHandler) postDocument(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	doc, err := h.documentService.PostDocument(c.Request.Context(), c.Param("documentID"), userID)
	if err != nil {
		respondError(c, err, "Failed to post document")
		return
	}
	c.JSON(http.StatusOK, doc)
}

// recordPayment godoc
// @Summary Record an invoice payment
// @Description Settles part of a posted invoice. Amount plus discount may not exceed the remaining amount. Installment invoices are collected per installment instead.
// @Tags documents
// @Accept json
// @Produce json
// @Param documentID path string true "Document ID"
// @Param payment body dto.RecordInvoicePaymentRequest true "Payment details"
// @Success 201 {object} domain.InvoicePayment
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "Exceeds remaining amount or insufficient balance"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /documents/{documentID}/payments [post]
func (h *documentHandler) recordPayment(c *gin.Context) {
	var req dto.RecordInvoicePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	documentID := c.Param("documentID")
	payment, err := h.treasuryService.RecordInvoicePayment(c.Request.Context(), documentID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to record payment")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Invoice payment recorded",
		slog.String("document_id", documentID),
		slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, payment)
}

// listInstallments godoc
// @Summary List an invoice's installments
// @Tags documents
// @Produce json
// @Param documentID path string true "Sales invoice ID"
// @Success 200 {object} dto.ListInstallmentsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /documents/{documentID}/installments [get]
func (h *documentHandler) listInstallments(c *gin.Context) {
	schedule, err := h.installmentService.ListInstallments(c.Request.Context(), c.Param("documentID"))
	if err != nil {
		respondError(c, err, "Failed to list installments")
		return
	}
	c.JSON(http.StatusOK, dto.ListInstallmentsResponse{Installments: schedule})
}
