package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-inventory-admin.git/internal/inventory"
	"github.com/ariefcatur/go-inventory-admin.git/internal/memstore"
)

func TestWithinRollsBackOnError(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	id := uuid.NewString()
	s.SeedProduct(inventory.Product{
		ID: id, Name: "A", Price: decimal.RequireFromString("2.00"),
		StockQuantity: 5, Active: true,
	})

	boom := errors.New("boom")
	err := s.Within(ctx, func(tx inventory.Tx) error {
		p, err := tx.ProductForUpdate(ctx, id)
		require.NoError(t, err)
		p.StockQuantity = 0
		require.NoError(t, tx.SaveProduct(ctx, p))

		require.NoError(t, tx.SaveOrder(ctx, &inventory.Order{
			ID: uuid.NewString(), OrderNumber: "ORD1", Status: inventory.StatusPending,
			TotalAmount: decimal.Zero, PlacedAt: time.Now(), UpdatedAt: time.Now(),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	// unit of work gagal: semua perubahan hilang
	p, err := s.Product(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5, p.StockQuantity)

	orders, err := s.Orders(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestWithinCommitsOnNil(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	id := uuid.NewString()
	s.SeedProduct(inventory.Product{ID: id, Name: "A", Price: decimal.Zero, StockQuantity: 5})

	err := s.Within(ctx, func(tx inventory.Tx) error {
		p, err := tx.ProductForUpdate(ctx, id)
		if err != nil {
			return err
		}
		p.StockQuantity = 2
		return tx.SaveProduct(ctx, p)
	})
	require.NoError(t, err)

	p, err := s.Product(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, p.StockQuantity)
}

func TestReadersReturnCopies(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	id := uuid.NewString()
	s.SeedProduct(inventory.Product{ID: id, Name: "A", Price: decimal.Zero, StockQuantity: 5})

	p, err := s.Product(ctx, id)
	require.NoError(t, err)
	p.StockQuantity = 999

	again, err := s.Product(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5, again.StockQuantity)
}
