package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	// OrderStatusProcessing means every line item was covered by local stock.
	OrderStatusProcessing OrderStatus = "Processing"
	// OrderStatusAwaitingManufacturer means at least one line item was
	// escalated to the manufacturer for backorder.
	OrderStatusAwaitingManufacturer OrderStatus = "AwaitingManufacturer"
)

// Order is a finalized seller order. Immutable once persisted.
type Order struct {
	ID                int64
	SellerID          int64
	CustomerName      string
	OrderNumber       string
	TotalAmount       decimal.Decimal
	Status            OrderStatus
	OrderDate         time.Time
	EstimatedDelivery *time.Time
	Items             []OrderLine
}

// OrderLine is a persisted line item, referencing its order by id only.
type OrderLine struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// OrderRequest is the inbound purchase request from a seller.
type OrderRequest struct {
	SellerID        int64
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	Items           []OrderLineRequest
}

type OrderLineRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}
