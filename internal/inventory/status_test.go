package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionStockEffect(t *testing.T) {
	cases := []struct {
		name string
		old  OrderStatus
		next OrderStatus
		want StockEffect
	}{
		{"cancel from pending", StatusPending, StatusCancelled, StockRestore},
		{"cancel from shipped", StatusShipped, StatusCancelled, StockRestore},
		{"cancel from completed", StatusCompleted, StatusCancelled, StockRestore},
		{"cancel twice", StatusCancelled, StatusCancelled, StockNone},

		{"pending to delivered deducts again", StatusPending, StatusDelivered, StockDeduct},
		{"pending to completed deducts again", StatusPending, StatusCompleted, StockDeduct},
		{"processing to delivered", StatusProcessing, StatusDelivered, StockDeduct},
		{"processing to completed", StatusProcessing, StatusCompleted, StockDeduct},

		{"delivered back to pending restores", StatusDelivered, StatusPending, StockRestore},
		{"completed back to processing restores", StatusCompleted, StatusProcessing, StockRestore},

		{"pending to confirmed is neutral", StatusPending, StatusConfirmed, StockNone},
		{"confirmed to processing is neutral", StatusConfirmed, StatusProcessing, StockNone},
		{"processing to shipped is neutral", StatusProcessing, StatusShipped, StockNone},
		{"shipped to delivered is neutral", StatusShipped, StatusDelivered, StockNone},
		{"confirmed to completed is neutral", StatusConfirmed, StatusCompleted, StockNone},
		{"delivered to refunded is neutral", StatusDelivered, StatusRefunded, StockNone},
		{"cancelled back to pending is neutral", StatusCancelled, StatusPending, StockNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TransitionStockEffect(tc.old, tc.next))
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	st, err := ParseOrderStatus("SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, st)

	_, err = ParseOrderStatus("SHIPPING")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// lowercase tidak diterima, status disimpan uppercase
	_, err = ParseOrderStatus("pending")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseTransactionEnums(t *testing.T) {
	st, err := ParseTransactionStatus("REFUNDED")
	require.NoError(t, err)
	assert.Equal(t, TxnRefunded, st)

	_, err = ParseTransactionStatus("DONE")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// kosong = default
	typ, err := ParseTransactionType("")
	require.NoError(t, err)
	assert.Equal(t, TxnPayment, typ)

	m, err := ParsePaymentMethod("")
	require.NoError(t, err)
	assert.Equal(t, PayCash, m)

	_, err = ParsePaymentMethod("BARTER")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
