package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
)

// voucherHandler handles expense and revenue vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvc
}

func registerVoucherRoutes(rg *gin.RouterGroup, vs portssvc.VoucherSvc) {
	h := &voucherHandler{voucherService: vs}

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.POST("/:expenseID/post", h.postExpense)
	}
	revenues := rg.Group("/revenues")
	{
		revenues.POST("", h.createRevenue)
		revenues.POST("/:revenueID/post", h.postRevenue)
	}
}

// createExpense godoc
// @Summary Create a draft expense
// @Tags vouchers
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Treasury not found"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenses [post]
func (h *voucherHandler) createExpense(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	expense, err := h.voucherService.CreateExpense(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create expense")
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// postExpense godoc
// @Summary Post an expense
// @Description Writes the outflow to the ledger once. Posting again returns the same entry.
// @Tags vouchers
// @Produce json
// @Param expenseID path string true "Expense ID"
// @Success 200 {object} domain.TreasuryTransaction
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "Insufficient treasury balance"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenses/{expenseID}/post [post]
func (h *voucherHandler) postExpense(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	entry, err := h.voucherService.PostExpense(c.Request.Context(), c.Param("expenseID"), userID)
	if err != nil {
		respondError(c, err, "Failed to post expense")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// createRevenue godoc
// @Summary Create a draft revenue
// @Tags vouchers
// @Accept json
// @Produce json
// @Param revenue body dto.CreateRevenueRequest true "Revenue details"
// @Success 201 {object} domain.Revenue
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Treasury not found"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /revenues [post]
func (h *voucherHandler) createRevenue(c *gin.Context) {
	var req dto.CreateRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	revenue, err := h.voucherService.CreateRevenue(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create revenue")
		return
	}
	c.JSON(http.StatusCreated, revenue)
}

// postRevenue godoc
// @Summary Post a revenue
// @Tags vouchers
// @Produce json
// @Param revenueID path string true "Revenue ID"
// @Success 200 {object} domain.TreasuryTransaction
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /revenues/{revenueID}/post [post]
func (h *voucherHandler) postRevenue(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	entry, err := h.voucherService.PostRevenue(c.Request.Context(), c.Param("revenueID"), userID)
	if err != nil {
		respondError(c, err, "Failed to post revenue")
		return
	}
	c.JSON(http.StatusOK, entry)
}
