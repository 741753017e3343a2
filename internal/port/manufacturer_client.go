package port

import (
	"context"
	"errors"

	"github.com/cozycomfort/distribution/internal/core/domain"
)

// ErrUpstreamUnavailable marks a manufacturer call that errored, timed out,
// or returned a non-success status. Callers translate it into a business
// outcome; it never propagates as a crash.
var ErrUpstreamUnavailable = errors.New("manufacturer unavailable")

type ManufacturerClient interface {
	// CheckStock asks the manufacturer whether it can cover a shortfall.
	CheckStock(ctx context.Context, productID int64, quantity int) (domain.StockInquiry, error)

	// SubmitOrder notifies the manufacturer of an escalated order. Advisory:
	// failures are logged and counted, never rolled back.
	SubmitOrder(ctx context.Context, order domain.ManufacturerOrder) error

	// Catalog fetches the manufacturer's product catalog.
	Catalog(ctx context.Context) ([]domain.CatalogItem, error)
}
