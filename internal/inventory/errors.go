package inventory

import "errors"

// Semua error validasi engine. Operasi yang gagal ditolak utuh: tidak ada
// perubahan stok parsial yang tersisa (rollback di level store transaction).
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidQuantity     = errors.New("quantity must be greater than 0")
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
	ErrEmptyOrder          = errors.New("order must have at least one item")
	ErrOrderNotFound       = errors.New("order not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidStatus       = errors.New("invalid status")
)
