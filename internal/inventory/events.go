package inventory

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated             = "OrderCreated"
	EventOrderItemsReplaced       = "OrderItemsReplaced"
	EventOrderStatusChanged       = "OrderStatusChanged"
	EventOrderDeleted             = "OrderDeleted"
	EventTransactionStatusChanged = "TransactionStatusChanged"
)

const (
	TopicOrderEvents       = "inventory.order.events"
	TopicTransactionEvents = "inventory.transaction.events"
)

// Partition key = order_id, supaya semua event 1 order maintain urutan.
func PartitionKey(id string) []byte { return []byte(id) }

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "inventory-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload tipe per event ----

type LinePayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"` // decimal as string
}

type OrderCreatedPayload struct {
	OrderID     string        `json:"order_id"`
	OrderNumber string        `json:"order_number"`
	Items       []LinePayload `json:"items"`
	TotalAmount string        `json:"total_amount"`
}

type OrderItemsReplacedPayload struct {
	OrderID     string        `json:"order_id"`
	Items       []LinePayload `json:"items"`
	TotalAmount string        `json:"total_amount"`
}

type OrderStatusChangedPayload struct {
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

type OrderDeletedPayload struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
}

type TransactionStatusChangedPayload struct {
	TransactionID     string `json:"transaction_id"`
	TransactionNumber string `json:"transaction_number"`
	OrderID           string `json:"order_id,omitempty"`
	OldStatus         string `json:"old_status"`
	NewStatus         string `json:"new_status"`
}

func ToLinePayloads(lines []OrderLine) []LinePayload {
	out := make([]LinePayload, 0, len(lines))
	for _, l := range lines {
		out = append(out, LinePayload{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice.String()})
	}
	return out
}
