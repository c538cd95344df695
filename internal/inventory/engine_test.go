package inventory_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-inventory-admin.git/internal/inventory"
	"github.com/ariefcatur/go-inventory-admin.git/internal/memstore"
)

func newEngine() (*inventory.Engine, *memstore.Store) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := memstore.New()
	return inventory.NewEngine(store, log), store
}

func seedProduct(s *memstore.Store, name, price string, stock int) string {
	id := uuid.NewString()
	now := time.Now().UTC()
	s.SeedProduct(inventory.Product{
		ID:            id,
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	return id
}

func stockOf(t *testing.T, s *memstore.Store, id string) int {
	t.Helper()
	p, err := s.Product(context.Background(), id)
	require.NoError(t, err)
	return p.StockQuantity
}

func TestCreateOrderDeductsStockAndComputesTotals(t *testing.T) {
	e, s := newEngine()
	ctx := context.Background()
	p1 := seedProduct(s, "Kopi Gayo", "10.50", 10)
	p2 := seedProduct(s, "Teh Melati", "3.25", 4)

	o, err := e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "Budi",
		Items: []inventory.LineInput{
			{ProductID: p1, Quantity: 2},
			{ProductID: p2, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, inventory.StatusPending, o.Status)
	assert.NotEmpty(t, o.OrderNumber)
	assert.Len(t, o.Lines, 2)
	// total = 10.50*2 + 3.25*1
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("24.25")),
		"total = %s", o.TotalAmount)
	assert.Equal(t, 8, stockOf(t, s, p1))
	assert.Equal(t, 3, stockOf(t, s, p2))

	// unit price = snapshot harga produk, line total = unit * qty
	assert.True(t, o.Lines[0].UnitPrice.Equal(decimal.RequireFromString("10.50")))
	assert.True(t, o.Lines[0].TotalPrice.Equal(decimal.RequireFromString("21.00")))
}

func TestCreateOrderInsufficientStockIsAllOrNothing(t *testing.T) {
	e, s := newEngine()
	ctx := context.Background()
	p1 := seedProduct(s, "A", "5.00", 10)
	p2 := seedProduct(s, "B", "5.00", 1)

	_, err := e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "Sari",
		Items: []inventory.LineInput{
			{ProductID: p1, Quantity: 2}, // ini sendiri cukup
			{ProductID: p2, Quantity: 3}, // ini tidak
		},
	})
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)

	// termasuk produk yang check-nya sendiri lolos
	assert.Equal(t, 10, stockOf(t, s, p1))
	assert.Equal(t, 1, stockOf(t, s, p2))
}

func TestCreateOrderValidation(t *testing.T) {
	e, s := newEngine()
	ctx := context.Background()
	p1 := seedProduct(s, "A", "5.00", 10)

	_, err := e.CreateOrder(ctx, inventory.NewOrder{CustomerName: "X"})
	assert.ErrorIs(t, err, inventory.ErrEmptyOrder)

	_, err = e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "X",
		Items:        []inventory.LineInput{{ProductID: p1, Quantity: 0}},
	})
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)

	_, err = e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "X",
		Items:        []inventory.LineInput{{ProductID: uuid.NewString(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)
	assert.Equal(t, 10, stockOf(t, s, p1))
}

func TestCancelRestoresStockOnce(t *testing.T) {
	e, s := newEngine()
	ctx := context.Background()
	p1 := seedProduct(s, "A", "2.00", 10)

	o, err := e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "Budi",
		Items:        []inventory.LineInput{{ProductID: p1, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 7, stockOf(t, s, p1))

	o2, err := e.UpdateOrderStatus(ctx, o.ID, "CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusCancelled, o2.Status)
	assert.Equal(t, 10, stockOf(t, s, p1))

	// cancel kedua: status tetap, stok tidak dikembalikan lagi
	_, err = e.UpdateOrderStatus(ctx, o.ID, "CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, 10, stockOf(t, s, p1))
}

func TestFulfillmentDeductsAgainAndReversalRestoresOnce(t *testing.T) {
	e, s := newEngine()
	ctx := context.Background()
	p1 := seedProduct(s, "A", "2.00", 10)

	o, err := e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "Budi",
		Items:        []inventory.LineInput{{ProductID: p1, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 7, stockOf(t, s, p1))

	// PENDING -> DELIVERED: dikurangi SEKALI LAGI di atas pengurangan create
	_, err = e.UpdateOrderStatus(ctx, o.ID, "DELIVERED")
	require.NoError(t, err)
	assert.Equal(t, 4, stockOf(t, s, p1))

	// DELIVERED -> PENDING: dikembalikan sekali
	_, err = e.UpdateOrderStatus(ctx, o.ID, "PENDING")
	require.NoError(t, err)
	assert.Equal(t, 7, stockOf(t, s, p1))
}

func TestFulfillmentDeductionChecksAvailability(t *testing.T) {
	e, s := newEngine()
	ctx := context.Background()
	p1 := seedProduct(s, "A", "2.00", 5)

	o, err := e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "Budi",
		Items:        []inventory.LineInput{{ProductID: p1, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, stockOf(t, s, p1))

	// sisa 2 < 3: fulfillment ditolak, stok tidak boleh jadi negatif
	_, err = e.UpdateOrderStatus(ctx, o.ID, "COMPLETED")
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, 2, stockOf(t, s, p1))

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusPending, got.Status)
}

func TestNeutralTransitionsDoNotTouchStock(t *testing.T) {
	e, s := newEngine()
	ctx := context.Background()
	p1 := seedProduct(s, "A", "2.00", 10)

	o, err := e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "Budi",
		Items:        []inventory.LineInput{{ProductID: p1, Quantity: 3}},
	})
	require.NoError(t, err)

	for _, st := range []string{"CONFIRMED", "PROCESSING", "SHIPPED"} {
		_, err = e.UpdateOrderStatus(ctx, o.ID, st)
		require.NoError(t, err)
		assert.Equal(t, 7, stockOf(t, s, p1), "status %s", st)
	}

	_, err = e.UpdateOrderStatus(ctx, o.ID, "IN_TRANSIT")
	assert.ErrorIs(t, err, inventory.ErrInvalidStatus)
}

func TestReplaceItemsNetsRestoreThenDeduct(t *testing.T) {
	e, s := newEngine()
	ctx := context.Background()
	p1 := seedProduct(s, "A", "4.00", 10)

	o, err := e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "Budi",
		Items:        []inventory.LineInput{{ProductID: p1, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, 8, stockOf(t, s, p1))

	// [(p1,2)] -> [(p1,5)]: restore 2, deduct 5 => net -3
	o2, err := e.UpdateOrder(ctx, o.ID, inventory.OrderUpdate{
		ReplaceItems: true,
		Items:        []inventory.LineInput{{ProductID: p1, Quantity: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, stockOf(t, s, p1))
	assert.True(t, o2.TotalAmount.Equal(decimal.RequireFromString("20.00")))
	assert.Len(t, o2.Lines, 1)
}

func TestReplaceItemsFailureRollsBackRestore(t *testing.T) {
	e, s := newEngine()
	ctx := context.Background()
	p1 := seedProduct(s, "A", "4.00", 10)

	o, err := e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "Budi",
		Items:        []inventory.LineInput{{ProductID: p1, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, 8, stockOf(t, s, p1))

	// restore 2 bikin stok 10, tapi 11 tetap kurang: seluruh operasi batal,
	// termasuk restore-nya
	_, err = e.UpdateOrder(ctx, o.ID, inventory.OrderUpdate{
		ReplaceItems: true,
		Items:        []inventory.LineInput{{ProductID: p1, Quantity: 11}},
	})
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, 8, stockOf(t, s, p1))

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 2, got.Lines[0].Quantity)

	// replace ke set kosong juga ditolak
	_, err = e.UpdateOrder(ctx, o.ID, inventory.OrderUpdate{
		ReplaceItems: true,
		Items:        []inventory.LineInput{},
	})
	assert.ErrorIs(t, err, inventory.ErrEmptyOrder)
}

func TestReplaceItemsSnapshotsCurrentPrice(t *testing.T) {
	e, s := newEngine()
	ctx := context.Background()
	p1 := seedProduct(s, "A", "4.00", 10)

	o, err := e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "Budi",
		Items:        []inventory.LineInput{{ProductID: p1, Quantity: 2}},
	})
	require.NoError(t, err)

	// harga naik setelah order dibuat
	newPrice := decimal.RequireFromString("6.00")
	_, err = e.UpdateProduct(ctx, p1, inventory.ProductUpdate{Price: &newPrice})
	require.NoError(t, err)

	// line lama tetap pakai harga snapshot
	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Lines[0].UnitPrice.Equal(decimal.RequireFromString("4.00")))

	// replace ambil harga sekarang
	o2, err := e.UpdateOrder(ctx, o.ID, inventory.OrderUpdate{
		ReplaceItems: true,
		Items:        []inventory.LineInput{{ProductID: p1, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, o2.Lines[0].UnitPrice.Equal(newPrice))
	assert.True(t, o2.TotalAmount.Equal(decimal.RequireFromString("12.00")))
}

func TestDeleteOrderRestoresStockThenRemoves(t *testing.T) {
	e, s := newEngine()
	ctx := context.Background()
	p1 := seedProduct(s, "A", "4.00", 10)
	p2 := seedProduct(s, "B", "1.00", 10)

	o, err := e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "Budi",
		Items: []inventory.LineInput{
			{ProductID: p1, Quantity: 2},
			{ProductID: p2, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 8, stockOf(t, s, p1))
	require.Equal(t, 9, stockOf(t, s, p2))

	_, err = e.DeleteOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stockOf(t, s, p1))
	assert.Equal(t, 10, stockOf(t, s, p2))

	_, err = s.GetOrder(ctx, o.ID)
	assert.ErrorIs(t, err, inventory.ErrOrderNotFound)

	_, err = e.DeleteOrder(ctx, o.ID)
	assert.ErrorIs(t, err, inventory.ErrOrderNotFound)
}

func TestCompletedTransactionConfirmsPendingOrder(t *testing.T) {
	e, s := newEngine()
	ctx := context.Background()
	p1 := seedProduct(s, "A", "4.00", 10)

	o, err := e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "Budi",
		Items:        []inventory.LineInput{{ProductID: p1, Quantity: 2}},
	})
	require.NoError(t, err)

	tr, err := e.CreateTransaction(ctx, inventory.NewTransaction{
		OrderID: o.ID,
		Amount:  decimal.RequireFromString("8.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, inventory.TxnPending, tr.Status)
	assert.Equal(t, inventory.TxnPayment, tr.Type)
	assert.Equal(t, inventory.PayCash, tr.PaymentMethod)

	_, err = e.UpdateTransactionStatus(ctx, tr.ID, "COMPLETED")
	require.NoError(t, err)

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusConfirmed, got.Status)
	// CONFIRMED bukan transisi stock-affecting
	assert.Equal(t, 8, stockOf(t, s, p1))
}

func TestCompletedTransactionLeavesNonPendingOrderAlone(t *testing.T) {
	e, s := newEngine()
	ctx := context.Background()
	p1 := seedProduct(s, "A", "4.00", 10)

	o, err := e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "Budi",
		Items:        []inventory.LineInput{{ProductID: p1, Quantity: 2}},
	})
	require.NoError(t, err)
	_, err = e.UpdateOrderStatus(ctx, o.ID, "SHIPPED")
	require.NoError(t, err)

	tr, err := e.CreateTransaction(ctx, inventory.NewTransaction{
		OrderID: o.ID,
		Amount:  decimal.RequireFromString("8.00"),
	})
	require.NoError(t, err)
	_, err = e.UpdateTransactionStatus(ctx, tr.ID, "COMPLETED")
	require.NoError(t, err)

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusShipped, got.Status)
}

func TestTransactionWithoutOrderNeverPropagates(t *testing.T) {
	e, _ := newEngine()
	ctx := context.Background()

	tr, err := e.CreateTransaction(ctx, inventory.NewTransaction{
		Amount: decimal.RequireFromString("5.00"),
		Type:   "FEE",
	})
	require.NoError(t, err)

	got, err := e.UpdateTransactionStatus(ctx, tr.ID, "COMPLETED")
	require.NoError(t, err)
	assert.Equal(t, inventory.TxnCompleted, got.Status)
}

func TestTransactionValidation(t *testing.T) {
	e, _ := newEngine()
	ctx := context.Background()

	_, err := e.CreateTransaction(ctx, inventory.NewTransaction{Amount: decimal.Zero})
	assert.ErrorIs(t, err, inventory.ErrInvalidAmount)

	_, err = e.CreateTransaction(ctx, inventory.NewTransaction{
		OrderID: uuid.NewString(),
		Amount:  decimal.RequireFromString("1.00"),
	})
	assert.ErrorIs(t, err, inventory.ErrOrderNotFound)

	// amount dibulatkan half-up ke 2 desimal saat masuk
	tr, err := e.CreateTransaction(ctx, inventory.NewTransaction{
		Amount: decimal.RequireFromString("1.005"),
	})
	require.NoError(t, err)
	assert.True(t, tr.Amount.Equal(decimal.RequireFromString("1.01")), "amount = %s", tr.Amount)

	_, err = e.UpdateTransactionStatus(ctx, tr.ID, "SETTLED")
	assert.ErrorIs(t, err, inventory.ErrInvalidStatus)

	_, err = e.UpdateTransactionStatus(ctx, uuid.NewString(), "COMPLETED")
	assert.ErrorIs(t, err, inventory.ErrTransactionNotFound)
}

func TestStockNeverNegativeAcrossAcceptedOps(t *testing.T) {
	e, s := newEngine()
	ctx := context.Background()
	p1 := seedProduct(s, "A", "1.00", 6)

	o, err := e.CreateOrder(ctx, inventory.NewOrder{
		CustomerName: "Budi",
		Items:        []inventory.LineInput{{ProductID: p1, Quantity: 3}},
	})
	require.NoError(t, err)

	ops := []func() error{
		func() error { _, err := e.UpdateOrderStatus(ctx, o.ID, "DELIVERED"); return err },
		func() error { _, err := e.UpdateOrderStatus(ctx, o.ID, "PENDING"); return err },
		func() error { _, err := e.UpdateOrderStatus(ctx, o.ID, "COMPLETED"); return err },
		func() error { _, err := e.UpdateOrderStatus(ctx, o.ID, "CANCELLED"); return err },
		func() error { _, err := e.DeleteOrder(ctx, o.ID); return err },
	}
	for i, op := range ops {
		_ = op() // sebagian boleh gagal; invariannya stok >= 0
		got := stockOf(t, s, p1)
		assert.GreaterOrEqual(t, got, 0, "op %d", i)
	}
}
