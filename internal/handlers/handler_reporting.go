package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
)

// reportingHandler handles HTTP requests related to ledger reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	locale           language.Tag
}

// registerReportingRoutes registers routes related to ledger reports
func registerReportingRoutes(rg *gin.RouterGroup, rs portssvc.ReportingService, locale language.Tag) {
	h := &reportingHandler{reportingService: rs, locale: locale}

	reports := rg.Group("/reports")
	{
		reports.GET("/debtors-creditors", h.getDebtorCreditorSummary)
	}
}

// getDebtorCreditorSummary godoc
// @Summary Debtor/creditor summary
// @Description Totals what partners owe and are owed. Shareholders only count as creditors.
// @Tags reports
// @Produce json
// @Success 200 {object} dto.DebtorCreditorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /reports/debtors-creditors [get]
func (h *reportingHandler) getDebtorCreditorSummary(c *gin.Context) {
	summary, err := h.reportingService.DebtorCreditorSummary(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtorCreditorResponse(*summary, h.locale))
}
