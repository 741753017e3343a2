package port

import (
	"context"
	"errors"

	"github.com/cozycomfort/distribution/internal/core/domain"
)

var (
	ErrDuplicateOrderNumber = errors.New("duplicate order number")
	ErrOrderNotFound        = errors.New("order not found")
)

type OrderRepository interface {
	// CreateOrder persists an order with its line items and commits the
	// durable inventory decrement for the given reservations, all in one
	// transaction. Returns ErrDuplicateOrderNumber on an order-number
	// collision so the caller can retry with a fresh number.
	CreateOrder(ctx context.Context, order *domain.Order, reserved []domain.Reservation) (int64, error)

	// FindByID returns the order with its line items, or ErrOrderNotFound.
	FindByID(ctx context.Context, id int64) (*domain.Order, error)

	// FindByOrderNumber returns the order with its line items, or ErrOrderNotFound.
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)

	// FindBySeller returns the seller's orders, newest first.
	FindBySeller(ctx context.Context, sellerID int64) ([]domain.Order, error)
}
