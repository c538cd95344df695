package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-inventory-admin.git/internal/inventory"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// Mapping error engine -> HTTP. Error storage yang tidak dikenal = 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, inventory.ErrOrderNotFound),
		errors.Is(err, inventory.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrProductNotFound),
		errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, inventory.ErrInvalidAmount),
		errors.Is(err, inventory.ErrEmptyOrder),
		errors.Is(err, inventory.ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
