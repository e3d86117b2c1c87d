package domain

// Product is a stock item referenced by document lines.
type Product struct {
	ProductID string `json:"productID"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	AuditFields
}

// DefaultWarehouseID is used for lines that do not name a warehouse.
const DefaultWarehouseID = "main"
