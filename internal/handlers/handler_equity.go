package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/internal/middleware"
)

// equityHandler handles profit sharing periods.
type equityHandler struct {
	equityService portssvc.EquitySvcFacade
}

func registerEquityRoutes(rg *gin.RouterGroup, es portssvc.EquitySvcFacade) {
	h := &equityHandler{equityService: es}

	periods := rg.Group("/equity-periods")
	{
		periods.POST("", h.openFirstPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/current", h.getCurrentPeriod)
		periods.POST("/:periodID/close", h.closePeriod)
	}
}

// openFirstPeriod godoc
// @Summary Open the first equity period
// @Description Shareholder percentages must add up to exactly 100.
// @Tags equity
// @Accept json
// @Produce json
// @Param period body dto.OpenPeriodRequest true "Period details"
// @Success 201 {object} domain.EquityPeriod
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "A period is already open"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /equity-periods [post]
func (h *equityHandler) openFirstPeriod(c *gin.Context) {
	var req dto.OpenPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	period, err := h.equityService.OpenFirstPeriod(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to open equity period")
		return
	}
	c.JSON(http.StatusCreated, period)
}

// listPeriods godoc
// @Summary List equity periods
// @Tags equity
// @Produce json
// @Success 200 {array} domain.EquityPeriod
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /equity-periods [get]
func (h *equityHandler) listPeriods(c *gin.Context) {
	periods, err := h.equityService.ListPeriods(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list equity periods")
		return
	}
	c.JSON(http.StatusOK, periods)
}

// getCurrentPeriod godoc
// @Summary Get the open equity period
// @Tags equity
// @Produce json
// @Success 200 {object} domain.EquityPeriod
// @Failure 404 {object} dto.ErrorResponse "No open period"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /equity-periods/current [get]
func (h *equityHandler) getCurrentPeriod(c *gin.Context) {
	period, err := h.equityService.GetOpenPeriod(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve open equity period")
		return
	}
	c.JSON(http.StatusOK, period)
}

// closePeriod godoc
// @Summary Close an equity period
// @Description Computes net profit, allocates it by equity percentage and opens the next period.
// @Tags equity
// @Accept json
// @Produce json
// @Param periodID path string true "Period ID"
// @Param close body dto.ClosePeriodRequest false "Close details"
// @Success 200 {object} dto.ClosePeriodResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Period already closed"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /equity-periods/{periodID}/close [post]
func (h *equityHandler) closePeriod(c *gin.Context) {
	var req dto.ClosePeriodRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	closed, next, err := h.equityService.ClosePeriod(c.Request.Context(), c.Param("periodID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to close equity period")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Equity period closed",
		slog.String("period_id", closed.PeriodID),
		slog.String("net_profit", closed.NetProfit.String()))
	c.JSON(http.StatusOK, dto.ClosePeriodResponse{Closed: closed, Next: next})
}
