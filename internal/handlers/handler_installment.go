package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
)

type installmentHandler struct {
	installmentService portssvc.InstallmentSvcFacade
	location           *time.Location
}

func registerInstallmentRoutes(rg *gin.RouterGroup, is portssvc.InstallmentSvcFacade, location *time.Location) {
	h := &installmentHandler{installmentService: is, location: location}

	installments := rg.Group("/installments")
	{
		installments.POST("/overdue-sweep", h.sweepOverdue)
		installments.POST("/:installmentID/payments", h.recordPayment)
	}
}

// recordPayment godoc
// @Summary Pay an installment
// @Description Collects cash against one installment. Partial payments are allowed up to the remaining amount.
// @Tags installments
// @Accept json
// @Produce json
// @Param installmentID path string true "Installment ID"
// @Param payment body dto.RecordInstallmentPaymentRequest true "Payment details"
// @Success 200 {object} domain.Installment
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "Exceeds remaining amount"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /installments/{installmentID}/payments [post]
func (h *installmentHandler) recordPayment(c *gin.Context) {
	var req dto.RecordInstallmentPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	installment, err := h.installmentService.RecordInstallmentPayment(c.Request.Context(), c.Param("installmentID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record installment payment")
		return
	}
	c.JSON(http.StatusOK, installment)
}

// sweepOverdue godoc
// @Summary Run the overdue sweep
// @Description Flags pending installments due before the given date (today by default). Safe to repeat.
// @Tags installments
// @Accept json
// @Produce json
// @Param sweep body dto.OverdueSweepRequest false "Sweep date"
// @Success 200 {object} dto.OverdueSweepResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /installments/overdue-sweep [post]
func (h *installmentHandler) sweepOverdue(c *gin.Context) {
	var req dto.OverdueSweepRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	day, err := dto.ParseOptionalDate(req.Date, dto.CalendarDate(time.Now(), h.location))
	if err != nil {
		respondError(c, err, "Failed to run overdue sweep")
		return
	}

	updated, err := h.installmentService.SweepOverdue(c.Request.Context(), day)
	if err != nil {
		respondError(c, err, "Failed to run overdue sweep")
		return
	}
	c.JSON(http.StatusOK, dto.OverdueSweepResponse{Date: day.Format(dto.DateLayout), Updated: updated})
}
