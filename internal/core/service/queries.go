package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cozycomfort/distribution/internal/core/domain"
	"github.com/cozycomfort/distribution/internal/port"
)

// Read-through lookups. No decision logic lives here; these exist so the
// HTTP surface talks to one service.

func (s *FulfillmentService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *FulfillmentService) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return s.orders.FindByOrderNumber(ctx, orderNumber)
}

// ListSellerOrders returns the seller's orders newest first, or
// port.ErrOrderNotFound when the seller has none.
func (s *FulfillmentService) ListSellerOrders(ctx context.Context, sellerID int64) ([]domain.Order, error) {
	orders, err := s.orders.FindBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("seller %d: %w", sellerID, port.ErrOrderNotFound)
	}
	return orders, nil
}

func (s *FulfillmentService) ListInventory(ctx context.Context) ([]domain.InventoryRecord, error) {
	return s.inventoryRepo.ListInventory(ctx, s.distributorID)
}

// Catalog proxies the manufacturer catalog, falling back to the built-in
// blanket list when the upstream is unreachable.
func (s *FulfillmentService) Catalog(ctx context.Context) []domain.CatalogItem {
	items, err := s.manufacturer.Catalog(ctx)
	if err != nil {
		logrus.Warnf("manufacturer catalog unavailable, serving fallback: %v", err)
		return fallbackCatalog()
	}
	return items
}

func fallbackCatalog() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: 1, Name: "Winter Warm", ModelNumber: "CC-001", Price: decimal.NewFromFloat(49.99), Material: "Wool"},
		{ID: 2, Name: "Summer Light", ModelNumber: "CC-002", Price: decimal.NewFromFloat(39.99), Material: "Cotton"},
		{ID: 3, Name: "Luxury Silk", ModelNumber: "CC-003", Price: decimal.NewFromFloat(89.99), Material: "Silk"},
	}
}
