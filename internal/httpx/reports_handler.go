package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-inventory-admin.git/internal/reports"
)

type ReportsHandler struct {
	Reports *reports.Service
}

func (h *ReportsHandler) Register(r *chi.Mux) {
	r.Get("/reports/orders", h.orderStats)
	r.Get("/reports/transactions", h.transactionSummary)
	r.Get("/reports/inventory", h.inventoryValuation)
}

func (h *ReportsHandler) orderStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	st, err := h.Reports.OrderStats(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *ReportsHandler) transactionSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sum, err := h.Reports.TransactionSummary(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *ReportsHandler) inventoryValuation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.Reports.InventoryValuation(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
