package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cozycomfort/distribution/internal/core/domain"
	"github.com/cozycomfort/distribution/internal/metrics"
	"github.com/cozycomfort/distribution/internal/port"
)

var ErrInvalidRequest = errors.New("invalid order request")

// maxOrderNumberAttempts bounds retries after an order-number collision.
const maxOrderNumberAttempts = 3

// manufacturerDeliveryPadDays is added on top of the manufacturer lead time
// when estimating delivery of an escalated order.
const manufacturerDeliveryPadDays = 2

// RejectionError aggregates per-item failures of an order that could not be
// fulfilled. The whole order is rolled back; nothing is persisted.
type RejectionError struct {
	Errors []string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("order cannot be fulfilled: %s", strings.Join(e.Errors, "; "))
}

// PlacedOrder is the caller-visible result of a successful PlaceOrder.
type PlacedOrder struct {
	OrderID           int64
	OrderNumber       string
	Status            domain.OrderStatus
	EstimatedDelivery *time.Time
	TotalAmount       decimal.Decimal
}

// FulfillmentService decides per line item whether an order can be satisfied
// from local inventory or must be escalated to the manufacturer, prices the
// order, and persists a single consistent order record.
type FulfillmentService struct {
	inventory     port.InventoryStore
	inventoryRepo port.InventoryRepository
	manufacturer  port.ManufacturerClient
	orders        port.OrderRepository
	prices        domain.PriceList
	distributorID int64
	submissions   chan domain.ManufacturerOrder
	now           func() time.Time
}

func NewFulfillmentService(
	inventory port.InventoryStore,
	inventoryRepo port.InventoryRepository,
	manufacturer port.ManufacturerClient,
	orders port.OrderRepository,
	prices domain.PriceList,
	distributorID int64,
	queueSize int,
) *FulfillmentService {
	return &FulfillmentService{
		inventory:     inventory,
		inventoryRepo: inventoryRepo,
		manufacturer:  manufacturer,
		orders:        orders,
		prices:        prices,
		distributorID: distributorID,
		submissions:   make(chan domain.ManufacturerOrder, queueSize),
		now:           time.Now,
	}
}

// escalation is a line item the manufacturer agreed to cover.
type escalation struct {
	item         domain.OrderLineRequest
	leadTimeDays int
}

// PlaceOrder runs the fulfillment workflow as one logical transaction: every
// line item is either reserved locally or escalated; if any item fails, all
// reservations are released and nothing is persisted.
func (s *FulfillmentService) PlaceOrder(ctx context.Context, req domain.OrderRequest) (*PlacedOrder, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	status := domain.OrderStatusProcessing
	var estimated *time.Time
	total := decimal.Zero

	var reserved []domain.Reservation
	var lines []domain.OrderLine
	var escalations []escalation
	var itemErrs []string

	for _, item := range req.Items {
		res, err := s.inventory.Reserve(ctx, s.distributorID, item.ProductID, item.Quantity)
		if err != nil {
			s.releaseAll(ctx, reserved)
			return nil, fmt.Errorf("reserve stock for product %d: %w", item.ProductID, err)
		}

		if res.Reserved {
			reserved = append(reserved, domain.Reservation{ProductID: item.ProductID, Quantity: item.Quantity})
			price := s.prices.Price(item.ProductID)
			total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			lines = append(lines, domain.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: price})
			continue
		}

		inquiry, err := s.manufacturer.CheckStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
			}).Warnf("manufacturer stock check failed: %v", err)
			itemErrs = append(itemErrs, fmt.Sprintf("Cannot check manufacturer stock for product %d", item.ProductID))
			continue
		}
		if !inquiry.IsAvailable {
			itemErrs = append(itemErrs, fmt.Sprintf("Insufficient stock for product %d - %s", item.ProductID, inquiry.Message))
			continue
		}

		status = domain.OrderStatusAwaitingManufacturer
		candidate := now.AddDate(0, 0, inquiry.LeadTimeDays+manufacturerDeliveryPadDays)
		if estimated == nil || candidate.After(*estimated) {
			estimated = &candidate
		}
		price := s.prices.Price(item.ProductID)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		lines = append(lines, domain.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: price})
		escalations = append(escalations, escalation{item: item, leadTimeDays: inquiry.LeadTimeDays})
		metrics.StockEscalations.Inc()
	}

	if len(itemErrs) > 0 {
		s.releaseAll(ctx, reserved)
		metrics.OrdersRejected.Inc()
		return nil, &RejectionError{Errors: itemErrs}
	}

	order := &domain.Order{
		SellerID:          req.SellerID,
		CustomerName:      req.CustomerName,
		TotalAmount:       total,
		Status:            status,
		OrderDate:         now,
		EstimatedDelivery: estimated,
		Items:             lines,
	}

	var id int64
	var err error
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		order.OrderNumber = newOrderNumber(now)
		id, err = s.orders.CreateOrder(ctx, order, reserved)
		if !errors.Is(err, port.ErrDuplicateOrderNumber) {
			break
		}
		logrus.WithField("order_number", order.OrderNumber).Warn("order number collision, retrying")
	}
	if err != nil {
		s.releaseAll(ctx, reserved)
		return nil, fmt.Errorf("persist order: %w", err)
	}

	for _, esc := range escalations {
		s.submissions <- domain.ManufacturerOrder{
			DistributorID: s.distributorID,
			OrderNumber:   order.OrderNumber,
			Items:         []domain.OrderLineRequest{esc.item},
			LeadTimeDays:  esc.leadTimeDays,
		}
	}

	metrics.OrdersAccepted.WithLabelValues(string(status)).Inc()
	logrus.WithFields(logrus.Fields{
		"order_id":     id,
		"order_number": order.OrderNumber,
		"status":       status,
		"total":        total.StringFixed(2),
	}).Info("order placed")

	return &PlacedOrder{
		OrderID:           id,
		OrderNumber:       order.OrderNumber,
		Status:            status,
		EstimatedDelivery: estimated,
		TotalAmount:       total,
	}, nil
}

func validateRequest(req domain.OrderRequest) error {
	if req.SellerID <= 0 {
		return fmt.Errorf("%w: seller id must be positive", ErrInvalidRequest)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: order has no items", ErrInvalidRequest)
	}
	for _, item := range req.Items {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: product id must be positive", ErrInvalidRequest)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive for product %d", ErrInvalidRequest, item.ProductID)
		}
	}
	return nil
}

func (s *FulfillmentService) releaseAll(ctx context.Context, reserved []domain.Reservation) {
	for _, r := range reserved {
		if err := s.inventory.Release(ctx, s.distributorID, r.ProductID, r.Quantity); err != nil {
			logrus.WithFields(logrus.Fields{
				"product_id": r.ProductID,
				"quantity":   r.Quantity,
			}).Errorf("CRITICAL failed to release reservation: %v", err)
		}
	}
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// Submissions exposes the queue of pending manufacturer notifications.
// Consumed by SubmitWorker; submission never extends PlaceOrder latency.
func (s *FulfillmentService) Submissions() <-chan domain.ManufacturerOrder {
	return s.submissions
}

func (s *FulfillmentService) Close() {
	close(s.submissions)
}

// SubmitWorker drains the submission queue and notifies the manufacturer.
// Failures are logged and counted; the local order record already committed.
func SubmitWorker(id int, queue <-chan domain.ManufacturerOrder, client port.ManufacturerClient, timeout time.Duration) {
	for mo := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		if err := client.SubmitOrder(ctx, mo); err != nil {
			metrics.ManufacturerSubmitFailures.Inc()
			logrus.WithFields(logrus.Fields{
				"worker":       id,
				"order_number": mo.OrderNumber,
			}).Warnf("manufacturer submission failed: %v", err)
		} else {
			logrus.WithFields(logrus.Fields{
				"worker":       id,
				"order_number": mo.OrderNumber,
			}).Info("manufacturer notified")
		}
		cancel()
	}
}
