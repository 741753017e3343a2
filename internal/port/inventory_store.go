package port

import (
	"context"

	"github.com/cozycomfort/distribution/internal/core/domain"
)

// ReserveResult reports the outcome of a reservation attempt. When Reserved
// is false, Available carries the quantity actually on hand.
type ReserveResult struct {
	Reserved  bool
	Available int
}

type InventoryStore interface {
	// Reserve atomically checks and decrements stock for one product key.
	// Concurrent callers never drive the quantity below zero.
	Reserve(ctx context.Context, distributorID, productID int64, quantity int) (ReserveResult, error)

	// Release restores stock reserved earlier (rollback of an aborted order).
	Release(ctx context.Context, distributorID, productID int64, quantity int) error
}

type InventoryRepository interface {
	// ListInventory returns the distributor's durable inventory records.
	ListInventory(ctx context.Context, distributorID int64) ([]domain.InventoryRecord, error)
}
