package domain

import "github.com/shopspring/decimal"

// StockInquiry is the manufacturer's answer to a stock check.
type StockInquiry struct {
	IsAvailable       bool   `json:"isAvailable"`
	AvailableQuantity int    `json:"availableQuantity"`
	LeadTimeDays      int    `json:"leadTimeDays"`
	Message           string `json:"message"`
}

// ManufacturerOrder is the advisory order notification sent upstream after
// an escalated order has been committed locally.
type ManufacturerOrder struct {
	DistributorID int64              `json:"distributorId"`
	OrderNumber   string             `json:"orderNumber"`
	Items         []OrderLineRequest `json:"items"`
	LeadTimeDays  int                `json:"leadTimeDays"`
}

// CatalogItem is a manufacturer catalog entry, proxied through to sellers.
type CatalogItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	ModelNumber string          `json:"modelNumber"`
	Price       decimal.Decimal `json:"price"`
	Material    string          `json:"material"`
}
