package dto

import (
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// CreatePartnerRequest defines the data needed to create a partner.
type CreatePartnerRequest struct {
	Name  string             `json:"name" binding:"required,max=255"`
	Type  domain.PartnerType `json:"type" binding:"required,oneof=customer supplier shareholder"`
	Phone string             `json:"phone" binding:"max=50"`
}

// ListPartnersParams filters the partner listing.
type ListPartnersParams struct {
	Type string `form:"type" binding:"omitempty,oneof=customer supplier shareholder"`
}

// ListPartnersResponse wraps the list of partners.
type ListPartnersResponse struct {
	Partners []domain.Partner `json:"partners"`
}

// PartnerBalanceResponse is returned after a recalculation.
type PartnerBalanceResponse struct {
	PartnerID      string      `json:"partnerID"`
	Balance        money.Money `json:"balance"`
	BalanceDisplay string      `json:"balanceDisplay"`
}

// CreateProductRequest defines the data needed to register a stock item.
type CreateProductRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	SKU  string `json:"sku" binding:"required,max=100"`
}
