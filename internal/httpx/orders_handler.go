package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-inventory-admin.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-inventory-admin.git/internal/kafka"
	"github.com/ariefcatur/go-inventory-admin.git/internal/redisx"
)

type OrdersHandler struct {
	Engine   *inventory.Engine
	Producer *kafkax.Producer // nil = tanpa event (test)
	Redis    *redis.Client    // nil = tanpa cache (test)
	Validate *validator.Validate
	Service  string
}

type LineReq struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderReq struct {
	CustomerName    string    `json:"customer_name" validate:"required"`
	CustomerEmail   string    `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone   string    `json:"customer_phone"`
	CustomerAddress string    `json:"customer_address"`
	Items           []LineReq `json:"order_items" validate:"required,min=1,dive"`
}

type UpdateOrderReq struct {
	CustomerName    *string    `json:"customer_name"`
	CustomerEmail   *string    `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone   *string    `json:"customer_phone"`
	CustomerAddress *string    `json:"customer_address"`
	Items           *[]LineReq `json:"order_items"`
}

type UpdateStatusReq struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/by-number/{number}", h.getOrderByNumber)
	r.Put("/orders/{id}", h.updateOrder)
	r.Put("/orders/{id}/status", h.updateOrderStatus)
	r.Delete("/orders/{id}", h.deleteOrder)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Engine.CreateOrder(ctx, inventory.NewOrder{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Items:           toLineInputs(req.Items),
	})
	if err != nil {
		writeErr(w, err)
		return
	}

	h.cacheOrder(ctx, o)
	h.publish(r, inventory.EventOrderCreated, o.ID, inventory.OrderCreatedPayload{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Items:       inventory.ToLinePayloads(o.Lines),
		TotalAmount: o.TotalAmount.String(),
	})
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.Engine.ListOrders(ctx, r.URL.Query().Get("status"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) coba cache
	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrder, id)
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	// 2) fallback DB
	o, err := h.Engine.GetOrder(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.cacheOrder(ctx, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) getOrderByNumber(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Engine.GetOrderByNumber(ctx, chi.URLParam(r, "number"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	upd := inventory.OrderUpdate{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
	}
	if req.Items != nil {
		upd.ReplaceItems = true
		upd.Items = toLineInputs(*req.Items)
	}
	o, err := h.Engine.UpdateOrder(ctx, id, upd)
	if err != nil {
		writeErr(w, err)
		return
	}

	h.dropOrderCache(ctx, id)
	if upd.ReplaceItems {
		h.publish(r, inventory.EventOrderItemsReplaced, o.ID, inventory.OrderItemsReplacedPayload{
			OrderID:     o.ID,
			Items:       inventory.ToLinePayloads(o.Lines),
			TotalAmount: o.TotalAmount.String(),
		})
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	before, err := h.Engine.GetOrder(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	o, err := h.Engine.UpdateOrderStatus(ctx, id, req.Status)
	if err != nil {
		writeErr(w, err)
		return
	}

	h.dropOrderCache(ctx, id)
	h.publish(r, inventory.EventOrderStatusChanged, o.ID, inventory.OrderStatusChangedPayload{
		OrderID:   o.ID,
		OldStatus: string(before.Status),
		NewStatus: string(o.Status),
	})
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Engine.DeleteOrder(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}

	h.dropOrderCache(ctx, id)
	h.publish(r, inventory.EventOrderDeleted, id, inventory.OrderDeletedPayload{
		OrderID:     id,
		OrderNumber: o.OrderNumber,
	})
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func toLineInputs(items []LineReq) []inventory.LineInput {
	out := make([]inventory.LineInput, 0, len(items))
	for _, it := range items {
		out = append(out, inventory.LineInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

func (h *OrdersHandler) cacheOrder(ctx context.Context, o *inventory.Order) {
	if h.Redis == nil {
		return
	}
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrder, o.ID)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLOrderCache).Err()
}

func (h *OrdersHandler) dropOrderCache(ctx context.Context, id string) {
	if h.Redis == nil {
		return
	}
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrder, id)).Err()
}

// publish event (envelope v1) setelah operasi commit.
func (h *OrdersHandler) publish(r *http.Request, eventType, correlationID string, payload any) {
	if h.Producer == nil {
		return
	}
	ev := inventory.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: correlationID,
		Payload:       kafkax.MustMarshal(payload),
	}
	h.Producer.Publish(inventory.PartitionKey(correlationID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
