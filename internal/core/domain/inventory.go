package domain

import "time"

// InventoryRecord tracks local stock of a product held by a distributor.
// Uniquely keyed by (DistributorID, ProductID); Quantity never goes negative.
type InventoryRecord struct {
	ID            int64     `json:"id"`
	DistributorID int64     `json:"distributorId"`
	ProductID     int64     `json:"productId"`
	Quantity      int       `json:"quantity"`
	ReorderLevel  int       `json:"reorderLevel"`
	LastRestocked time.Time `json:"lastRestocked"`
}

// Reservation is a provisional decrement of local stock made while an order
// is being evaluated. It is committed with the order or released on abort.
type Reservation struct {
	ProductID int64
	Quantity  int
}
