package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-inventory-admin.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-inventory-admin.git/internal/kafka"
)

type TransactionsHandler struct {
	Engine   *inventory.Engine
	Producer *kafkax.Producer // nil = tanpa event (test)
	Validate *validator.Validate
	Service  string
}

type CreateTransactionReq struct {
	OrderID       string          `json:"order_id"`
	PaymentMethod string          `json:"payment_method"`
	Type          string          `json:"transaction_type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
}

func (h *TransactionsHandler) Register(r *chi.Mux) {
	r.Post("/transactions", h.createTransaction)
	r.Get("/transactions", h.listTransactions)
	r.Get("/transactions/{id}", h.getTransaction)
	r.Get("/transactions/order/{orderID}", h.listByOrder)
	r.Put("/transactions/{id}/status", h.updateStatus)
	r.Delete("/transactions/{id}", h.deleteTransaction)
}

func (h *TransactionsHandler) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	t, err := h.Engine.CreateTransaction(ctx, inventory.NewTransaction{
		OrderID:       req.OrderID,
		PaymentMethod: req.PaymentMethod,
		Type:          req.Type,
		Amount:        req.Amount,
		Description:   req.Description,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TransactionsHandler) listTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	txns, err := h.Engine.ListTransactions(ctx, "", r.URL.Query().Get("status"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (h *TransactionsHandler) getTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	t, err := h.Engine.GetTransaction(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TransactionsHandler) listByOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	txns, err := h.Engine.ListTransactions(ctx, chi.URLParam(r, "orderID"), "")
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (h *TransactionsHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
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

	before, err := h.Engine.GetTransaction(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	t, err := h.Engine.UpdateTransactionStatus(ctx, id, req.Status)
	if err != nil {
		writeErr(w, err)
		return
	}

	h.publish(r, t, string(before.Status))
	writeJSON(w, http.StatusOK, t)
}

func (h *TransactionsHandler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Engine.DeleteTransaction(ctx, id); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *TransactionsHandler) publish(r *http.Request, t *inventory.Transaction, oldStatus string) {
	if h.Producer == nil {
		return
	}
	ev := inventory.Envelope{
		EventID:       uuid.NewString(),
		EventType:     inventory.EventTransactionStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: t.ID,
		Payload: kafkax.MustMarshal(inventory.TransactionStatusChangedPayload{
			TransactionID:     t.ID,
			TransactionNumber: t.TransactionNumber,
			OrderID:           t.OrderID,
			OldStatus:         oldStatus,
			NewStatus:         string(t.Status),
		}),
	}
	h.Producer.Publish(inventory.PartitionKey(t.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(inventory.EventTransactionStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
