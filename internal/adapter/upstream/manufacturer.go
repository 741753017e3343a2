package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cozycomfort/distribution/internal/core/domain"
	"github.com/cozycomfort/distribution/internal/port"
)

// ManufacturerAPI talks to the upstream manufacturer over HTTP. Every
// transport failure, timeout, or non-2xx status maps to
// port.ErrUpstreamUnavailable.
type ManufacturerAPI struct {
	baseURL string
	client  *http.Client
}

func NewManufacturerAPI(baseURL string, timeout time.Duration) *ManufacturerAPI {
	return &ManufacturerAPI{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (m *ManufacturerAPI) CheckStock(ctx context.Context, productID int64, quantity int) (domain.StockInquiry, error) {
	url := fmt.Sprintf("%s/api/manufacturer/stock/%d?quantity=%d", m.baseURL, productID, quantity)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.StockInquiry{}, fmt.Errorf("build stock request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return domain.StockInquiry{}, fmt.Errorf("check stock: %v: %w", err, port.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.StockInquiry{}, fmt.Errorf("check stock: status %d: %w", resp.StatusCode, port.ErrUpstreamUnavailable)
	}

	var inquiry domain.StockInquiry
	if err := json.NewDecoder(resp.Body).Decode(&inquiry); err != nil {
		return domain.StockInquiry{}, fmt.Errorf("decode stock response: %v: %w", err, port.ErrUpstreamUnavailable)
	}
	return inquiry, nil
}

func (m *ManufacturerAPI) SubmitOrder(ctx context.Context, order domain.ManufacturerOrder) error {
	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode manufacturer order: %w", err)
	}

	url := m.baseURL + "/api/manufacturer/order"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit order: %v: %w", err, port.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("submit order: status %d: %w", resp.StatusCode, port.ErrUpstreamUnavailable)
	}
	return nil
}

func (m *ManufacturerAPI) Catalog(ctx context.Context) ([]domain.CatalogItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/api/manufacturer/blankets", nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %v: %w", err, port.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: status %d: %w", resp.StatusCode, port.ErrUpstreamUnavailable)
	}

	var items []domain.CatalogItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode catalog: %v: %w", err, port.ErrUpstreamUnavailable)
	}
	return items, nil
}
