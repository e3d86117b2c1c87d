package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// partnerHandler handles customers, suppliers and shareholders.
type partnerHandler struct {
	partnerService   portssvc.PartnerSvcFacade
	balanceService   portssvc.PartnerBalanceUpdater
	reportingService portssvc.ReportingService
	locale           language.Tag
}

func registerPartnerRoutes(rg *gin.RouterGroup, ps portssvc.PartnerSvcFacade, bs portssvc.PartnerBalanceUpdater, rs portssvc.ReportingService, locale language.Tag) {
	h := &partnerHandler{partnerService: ps, balanceService: bs, reportingService: rs, locale: locale}

	partners := rg.Group("/partners")
	{
		partners.POST("", h.createPartner)
		partners.GET("", h.listPartners)
		partners.GET("/:partnerID", h.getPartner)
		partners.DELETE("/:partnerID", h.deletePartner)
		partners.POST("/:partnerID/recalculate-balance", h.recalculateBalance)
		partners.GET("/:partnerID/statement", h.getStatement)
	}
}

// createPartner godoc
// @Summary Create a partner
// @Tags partners
// @Accept json
// @Produce json
// @Param partner body dto.CreatePartnerRequest true "Partner details"
// @Success 201 {object} domain.Partner
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /partners [post]
func (h *partnerHandler) createPartner(c *gin.Context) {
	var req dto.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	partner, err := h.partnerService.CreatePartner(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create partner")
		return
	}
	c.JSON(http.StatusCreated, partner)
}

// listPartners godoc
// @Summary List partners
// @Tags partners
// @Produce json
// @Param type query string false "Partner type" Enums(customer, supplier, shareholder)
// @Success 200 {object} dto.ListPartnersResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /partners [get]
func (h *partnerHandler) listPartners(c *gin.Context) {
	var params dto.ListPartnersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	partners, err := h.partnerService.ListPartners(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list partners")
		return
	}
	c.JSON(http.StatusOK, dto.ListPartnersResponse{Partners: partners})
}

// getPartner godoc
// @Summary Get a partner
// @Tags partners
// @Produce json
// @Param partnerID path string true "Partner ID"
// @Success 200 {object} domain.Partner
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /partners/{partnerID} [get]
func (h *partnerHandler) getPartner(c *gin.Context) {
	partner, err := h.partnerService.GetPartner(c.Request.Context(), c.Param("partnerID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve partner")
		return
	}
	c.JSON(http.StatusOK, partner)
}

// deletePartner godoc
// @Summary Delete a partner
// @Tags partners
// @Param partnerID path string true "Partner ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Partner has documents or ledger entries"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /partners/{partnerID} [delete]
func (h *partnerHandler) deletePartner(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	if err := h.partnerService.DeletePartner(c.Request.Context(), c.Param("partnerID"), userID); err != nil {
		respondError(c, err, "Failed to delete partner")
		return
	}
	c.Status(http.StatusNoContent)
}

// recalculateBalance godoc
// @Summary Recalculate a partner balance
// @Description Rebuilds the cached balance from posted documents and ledger entries. Safe to repeat.
// @Tags partners
// @Produce json
// @Param partnerID path string true "Partner ID"
// @Success 200 {object} dto.PartnerBalanceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /partners/{partnerID}/recalculate-balance [post]
func (h *partnerHandler) recalculateBalance(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	partnerID := c.Param("partnerID")
	balance, err := h.balanceService.UpdatePartnerBalance(c.Request.Context(), partnerID, userID)
	if err != nil {
		respondError(c, err, "Failed to recalculate partner balance")
		return
	}
	c.JSON(http.StatusOK, dto.PartnerBalanceResponse{
		PartnerID:      partnerID,
		Balance:        balance,
		BalanceDisplay: money.Format(balance, h.locale),
	})
}

// getStatement godoc
// @Summary Partner statement
// @Description Returns the partner with its ledger entries and unsettled documents.
// @Tags partners
// @Produce json
// @Param partnerID path string true "Partner ID"
// @Success 200 {object} domain.PartnerStatement
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /partners/{partnerID}/statement [get]
func (h *partnerHandler) getStatement(c *gin.Context) {
	statement, err := h.reportingService.PartnerStatement(c.Request.Context(), c.Param("partnerID"))
	if err != nil {
		respondError(c, err, "Failed to build partner statement")
		return
	}
	c.JSON(http.StatusOK, statement)
}
