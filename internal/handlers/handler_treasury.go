package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/internal/middleware"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// treasuryHandler handles treasuries and ad hoc ledger entries.
type treasuryHandler struct {
	ledgerService   portssvc.LedgerSvcFacade
	treasuryService portssvc.TreasurySvcFacade
	locale          language.Tag
}

func newTreasuryHandler(ls portssvc.LedgerSvcFacade, ts portssvc.TreasurySvcFacade, locale language.Tag) *treasuryHandler {
	return &treasuryHandler{ledgerService: ls, treasuryService: ts, locale: locale}
}

func registerTreasuryRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvcFacade, ts portssvc.TreasurySvcFacade, locale language.Tag) {
	h := newTreasuryHandler(ls, ts, locale)

	treasuries := rg.Group("/treasuries")
	{
		treasuries.POST("", h.createTreasury)
		treasuries.GET("", h.listTreasuries)
		treasuries.GET("/:treasuryID", h.getTreasury)
		treasuries.DELETE("/:treasuryID", h.deleteTreasury)
		treasuries.GET("/:treasuryID/balance", h.getBalance)
		treasuries.GET("/:treasuryID/transactions", h.listTransactions)
	}

	rg.POST("/treasury-transactions", h.recordTransaction)
}

// createTreasury godoc
// @Summary Create a treasury
// @Description Creates a cash box or bank account. Its balance is always derived from the ledger.
// @Tags treasuries
// @Accept json
// @Produce json
// @Param treasury body dto.CreateTreasuryRequest true "Treasury details"
// @Success 201 {object} domain.Treasury
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /treasuries [post]
func (h *treasuryHandler) createTreasury(c *gin.Context) {
	var req dto.CreateTreasuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	treasury, err := h.ledgerService.CreateTreasury(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create treasury")
		return
	}
	c.JSON(http.StatusCreated, treasury)
}

// listTreasuries godoc
// @Summary List treasuries
// @Tags treasuries
// @Produce json
// @Success 200 {object} dto.ListTreasuriesResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /treasuries [get]
func (h *treasuryHandler) listTreasuries(c *gin.Context) {
	treasuries, err := h.ledgerService.ListTreasuries(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list treasuries")
		return
	}
	c.JSON(http.StatusOK, dto.ListTreasuriesResponse{Treasuries: treasuries})
}

// getTreasury godoc
// @Summary Get a treasury
// @Tags treasuries
// @Produce json
// @Param treasuryID path string true "Treasury ID"
// @Success 200 {object} domain.Treasury
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /treasuries/{treasuryID} [get]
func (h *treasuryHandler) getTreasury(c *gin.Context) {
	treasury, err := h.ledgerService.GetTreasury(c.Request.Context(), c.Param("treasuryID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve treasury")
		return
	}
	c.JSON(http.StatusOK, treasury)
}

// deleteTreasury godoc
// @Summary Delete a treasury
// @Description Only treasuries nothing references can be deleted.
// @Tags treasuries
// @Param treasuryID path string true "Treasury ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Treasury has ledger entries or vouchers"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /treasuries/{treasuryID} [delete]
func (h *treasuryHandler) deleteTreasury(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	if err := h.ledgerService.DeleteTreasury(c.Request.Context(), c.Param("treasuryID"), userID); err != nil {
		respondError(c, err, "Failed to delete treasury")
		return
	}
	c.Status(http.StatusNoContent)
}

// getBalance godoc
// @Summary Get a treasury balance
// @Description Returns the sum of the treasury's ledger entries.
// @Tags treasuries
// @Produce json
// @Param treasuryID path string true "Treasury ID"
// @Success 200 {object} dto.TreasuryBalanceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /treasuries/{treasuryID}/balance [get]
func (h *treasuryHandler) getBalance(c *gin.Context) {
	treasuryID := c.Param("treasuryID")
	balance, err := h.ledgerService.GetBalance(c.Request.Context(), treasuryID)
	if err != nil {
		respondError(c, err, "Failed to calculate balance")
		return
	}
	c.JSON(http.StatusOK, dto.TreasuryBalanceResponse{
		TreasuryID:     treasuryID,
		Balance:        balance,
		BalanceDisplay: money.Format(balance, h.locale),
	})
}

// listTransactions godoc
// @Summary List ledger entries of a treasury
// @Description Returns entries newest first. Pass nextToken from the previous page to continue.
// @Tags treasuries
// @Produce json
// @Param treasuryID path string true "Treasury ID"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTreasuryTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /treasuries/{treasuryID}/transactions [get]
func (h *treasuryHandler) listTransactions(c *gin.Context) {
	var params dto.ListTreasuryTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	page, err := h.ledgerService.ListTransactions(c.Request.Context(), c.Param("treasuryID"), params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// recordTransaction godoc
// @Summary Record a ledger entry
// @Description Appends an ad hoc entry. The transaction type decides the sign of the amount.
// @Tags treasuries
// @Accept json
// @Produce json
// @Param transaction body dto.RecordTransactionRequest true "Entry details"
// @Success 201 {object} domain.TreasuryTransaction
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "Insufficient treasury balance"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /treasury-transactions [post]
func (h *treasuryHandler) recordTransaction(c *gin.Context) {
	var req dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	entry, err := h.treasuryService.RecordTransaction(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record transaction")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Ledger entry recorded",
		slog.String("transaction_id", entry.TransactionID),
		slog.String("type", string(entry.Type)))
	c.JSON(http.StatusCreated, entry)
}
