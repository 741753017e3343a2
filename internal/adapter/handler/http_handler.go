package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/cozycomfort/distribution/internal/core/domain"
	"github.com/cozycomfort/distribution/internal/core/service"
	"github.com/cozycomfort/distribution/internal/port"
)

type HTTPHandler struct {
	fulfillment *service.FulfillmentService
}

func NewHTTPHandler(fulfillment *service.FulfillmentService) *HTTPHandler {
	return &HTTPHandler{fulfillment: fulfillment}
}

// Register wires all routes onto the mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /order", h.PlaceOrder)
	mux.HandleFunc("GET /inventory", h.ListInventory)
	mux.HandleFunc("GET /orders", h.SellerOrders)
	mux.HandleFunc("GET /orders/{orderId}", h.OrderByID)
	mux.HandleFunc("GET /order/by-number/{orderNumber}", h.OrderByNumber)
	mux.HandleFunc("GET /blankets", h.Blankets)
	mux.HandleFunc("GET /health", h.HealthCheck)
}

type orderHTTPRequest struct {
	SellerID        int64                     `json:"sellerId"`
	CustomerName    string                    `json:"customerName"`
	CustomerEmail   string                    `json:"customerEmail"`
	ShippingAddress string                    `json:"shippingAddress"`
	Items           []domain.OrderLineRequest `json:"items"`
}

type orderHTTPResponse struct {
	OrderID           int64   `json:"orderId"`
	OrderNumber       string  `json:"orderNumber"`
	Status            string  `json:"status"`
	Message           string  `json:"message"`
	EstimatedDelivery *string `json:"estimatedDelivery"`
	TotalAmount       string  `json:"totalAmount"`
}

type errorHTTPResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req orderHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorHTTPResponse{Message: "invalid request body"})
		return
	}

	placed, err := h.fulfillment.PlaceOrder(r.Context(), domain.OrderRequest{
		SellerID:        req.SellerID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
		Items:           req.Items,
	})
	if err != nil {
		var rejection *service.RejectionError
		switch {
		case errors.As(err, &rejection):
			writeJSON(w, http.StatusBadRequest, errorHTTPResponse{
				Message: "Order cannot be fulfilled",
				Errors:  rejection.Errors,
			})
		case errors.Is(err, service.ErrInvalidRequest):
			writeJSON(w, http.StatusBadRequest, errorHTTPResponse{
				Message: "invalid order request",
				Errors:  []string{err.Error()},
			})
		default:
			logrus.Errorf("place order: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorHTTPResponse{
				Message: "Error processing order",
				Error:   "internal error",
			})
		}
		return
	}

	var estimated *string
	if placed.EstimatedDelivery != nil {
		s := placed.EstimatedDelivery.Format("2006-01-02")
		estimated = &s
	}

	writeJSON(w, http.StatusOK, orderHTTPResponse{
		OrderID:           placed.OrderID,
		OrderNumber:       placed.OrderNumber,
		Status:            string(placed.Status),
		Message:           "Order placed successfully",
		EstimatedDelivery: estimated,
		TotalAmount:       placed.TotalAmount.StringFixed(2),
	})
}

func (h *HTTPHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	records, err := h.fulfillment.ListInventory(r.Context())
	if err != nil {
		logrus.Errorf("list inventory: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorHTTPResponse{
			Message: "Error getting inventory",
			Error:   "internal error",
		})
		return
	}
	if records == nil {
		records = []domain.InventoryRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *HTTPHandler) SellerOrders(w http.ResponseWriter, r *http.Request) {
	sellerID, err := strconv.ParseInt(r.URL.Query().Get("sellerId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorHTTPResponse{Message: "invalid sellerId"})
		return
	}

	orders, err := h.fulfillment.ListSellerOrders(r.Context(), sellerID)
	if err != nil {
		if errors.Is(err, port.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, errorHTTPResponse{
				Message: fmt.Sprintf("No orders found for seller ID: %d", sellerID),
			})
			return
		}
		logrus.Errorf("seller orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorHTTPResponse{
			Message: "Error getting orders",
			Error:   "internal error",
		})
		return
	}

	out := make([]orderJSON, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderJSON(&orders[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) OrderByID(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.PathValue("orderId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorHTTPResponse{Message: "invalid order id"})
		return
	}

	order, err := h.fulfillment.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, port.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, errorHTTPResponse{
				Message: fmt.Sprintf("Order with ID %d not found", orderID),
			})
			return
		}
		logrus.Errorf("order by id: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorHTTPResponse{
			Message: "Error getting order details",
			Error:   "internal error",
		})
		return
	}
	writeJSON(w, http.StatusOK, toOrderJSON(order))
}

func (h *HTTPHandler) OrderByNumber(w http.ResponseWriter, r *http.Request) {
	orderNumber := r.PathValue("orderNumber")

	order, err := h.fulfillment.GetOrderByNumber(r.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, port.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, errorHTTPResponse{
				Message: fmt.Sprintf("Order %s not found", orderNumber),
			})
			return
		}
		logrus.Errorf("order by number: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorHTTPResponse{
			Message: "Error getting order",
			Error:   "internal error",
		})
		return
	}
	writeJSON(w, http.StatusOK, toOrderJSON(order))
}

func (h *HTTPHandler) Blankets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.fulfillment.Catalog(r.Context()))
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type orderJSON struct {
	ID                int64           `json:"id"`
	SellerID          int64           `json:"sellerId"`
	CustomerName      string          `json:"customerName"`
	OrderNumber       string          `json:"orderNumber"`
	TotalAmount       string          `json:"totalAmount"`
	Status            string          `json:"status"`
	OrderDate         string          `json:"orderDate"`
	EstimatedDelivery *string         `json:"estimatedDelivery"`
	Items             []orderLineJSON `json:"items,omitempty"`
}

type orderLineJSON struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

func toOrderJSON(order *domain.Order) orderJSON {
	var estimated *string
	if order.EstimatedDelivery != nil {
		s := order.EstimatedDelivery.Format("2006-01-02")
		estimated = &s
	}

	out := orderJSON{
		ID:                order.ID,
		SellerID:          order.SellerID,
		CustomerName:      order.CustomerName,
		OrderNumber:       order.OrderNumber,
		TotalAmount:       order.TotalAmount.StringFixed(2),
		Status:            string(order.Status),
		OrderDate:         order.OrderDate.Format("2006-01-02T15:04:05Z07:00"),
		EstimatedDelivery: estimated,
	}
	for _, line := range order.Items {
		out.Items = append(out.Items, orderLineJSON{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
