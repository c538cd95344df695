// Package reports adalah read-side: agregasi di atas order/transaksi/produk
// yang sudah committed. Tidak pernah ikut campur aturan stok engine.
package reports

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-inventory-admin.git/internal/inventory"
	"github.com/ariefcatur/go-inventory-admin.git/internal/redisx"
)

// Stok di bawah ini dihitung "low stock" di inventory valuation.
const lowStockThreshold = 5

type Service struct {
	store inventory.Reader
	rdb   *redis.Client // nil = cache off (test / dev tanpa redis)
	log   logrus.FieldLogger
}

func NewService(store inventory.Reader, rdb *redis.Client, log logrus.FieldLogger) *Service {
	return &Service{store: store, rdb: rdb, log: log}
}

type OrderStats struct {
	TotalOrders     int             `json:"total_orders"`
	ByStatus        map[string]int  `json:"by_status"`
	PendingOrders   int             `json:"pending_orders"`
	CompletedOrders int             `json:"completed_orders"`
	CancelledOrders int             `json:"cancelled_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"` // exclude CANCELLED
}

type TransactionSummary struct {
	TotalTransactions     int             `json:"total_transactions"`
	CompletedTransactions int             `json:"completed_transactions"`
	TotalPayments         decimal.Decimal `json:"total_payments"` // COMPLETED PAYMENT
	TotalRefunds          decimal.Decimal `json:"total_refunds"`  // COMPLETED REFUND
	NetRevenue            decimal.Decimal `json:"net_revenue"`
}

type InventoryValuation struct {
	TotalProducts   int             `json:"total_products"`
	ActiveProducts  int             `json:"active_products"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"` // sum(price * stock)
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
}

func (s *Service) OrderStats(ctx context.Context) (*OrderStats, error) {
	return cached(ctx, s, "order_stats", s.computeOrderStats)
}

func (s *Service) TransactionSummary(ctx context.Context) (*TransactionSummary, error) {
	return cached(ctx, s, "transaction_summary", s.computeTransactionSummary)
}

func (s *Service) InventoryValuation(ctx context.Context) (*InventoryValuation, error) {
	return cached(ctx, s, "inventory_valuation", s.computeInventoryValuation)
}

// Refresh hitung ulang semua agregat dan tulis ke cache. Dipanggil
// statsworker setiap ada lifecycle event.
func (s *Service) Refresh(ctx context.Context) error {
	if _, err := refresh(ctx, s, "order_stats", s.computeOrderStats); err != nil {
		return err
	}
	if _, err := refresh(ctx, s, "transaction_summary", s.computeTransactionSummary); err != nil {
		return err
	}
	_, err := refresh(ctx, s, "inventory_valuation", s.computeInventoryValuation)
	return err
}

func (s *Service) computeOrderStats(ctx context.Context) (*OrderStats, error) {
	orders, err := s.store.Orders(ctx, "")
	if err != nil {
		return nil, err
	}
	st := &OrderStats{
		TotalOrders:  len(orders),
		ByStatus:     map[string]int{},
		TotalRevenue: decimal.Zero,
	}
	for _, o := range orders {
		st.ByStatus[string(o.Status)]++
		if o.Status != inventory.StatusCancelled {
			st.TotalRevenue = st.TotalRevenue.Add(o.TotalAmount)
		}
	}
	st.PendingOrders = st.ByStatus[string(inventory.StatusPending)]
	st.CompletedOrders = st.ByStatus[string(inventory.StatusCompleted)]
	st.CancelledOrders = st.ByStatus[string(inventory.StatusCancelled)]
	return st, nil
}

func (s *Service) computeTransactionSummary(ctx context.Context) (*TransactionSummary, error) {
	txns, err := s.store.Transactions(ctx, inventory.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	sum := &TransactionSummary{
		TotalPayments: decimal.Zero,
		TotalRefunds:  decimal.Zero,
	}
	sum.TotalTransactions = len(txns)
	for _, t := range txns {
		if t.Status != inventory.TxnCompleted {
			continue
		}
		sum.CompletedTransactions++
		switch t.Type {
		case inventory.TxnPayment:
			sum.TotalPayments = sum.TotalPayments.Add(t.Amount)
		case inventory.TxnRefund:
			sum.TotalRefunds = sum.TotalRefunds.Add(t.Amount)
		}
	}
	sum.NetRevenue = sum.TotalPayments.Sub(sum.TotalRefunds)
	return sum, nil
}

func (s *Service) computeInventoryValuation(ctx context.Context) (*InventoryValuation, error) {
	products, err := s.store.Products(ctx, false)
	if err != nil {
		return nil, err
	}
	v := &InventoryValuation{TotalStockValue: decimal.Zero}
	v.TotalProducts = len(products)
	for _, p := range products {
		if p.Active {
			v.ActiveProducts++
		}
		v.TotalStockValue = v.TotalStockValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
		switch {
		case p.StockQuantity == 0:
			v.OutOfStockCount++
		case p.StockQuantity < lowStockThreshold:
			v.LowStockCount++
		}
	}
	return v, nil
}

// cached: coba redis dulu, miss -> hitung lalu simpan. Cache error tidak
// pernah menggagalkan request, cuma dicatat.
func cached[T any](ctx context.Context, s *Service, name string, compute func(context.Context) (*T, error)) (*T, error) {
	if s.rdb != nil {
		key := fmt.Sprintf(redisx.KeyReport, name)
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil && raw != "" {
			var out T
			if err := json.Unmarshal([]byte(raw), &out); err == nil {
				return &out, nil
			}
		}
	}
	return refresh(ctx, s, name, compute)
}

func refresh[T any](ctx context.Context, s *Service, name string, compute func(context.Context) (*T, error)) (*T, error) {
	out, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	if s.rdb != nil {
		key := fmt.Sprintf(redisx.KeyReport, name)
		b, _ := json.Marshal(out)
		if err := s.rdb.Set(ctx, key, b, redisx.TTLReportCache).Err(); err != nil {
			s.log.WithError(err).WithField("report", name).Warn("cache set")
		}
	}
	return out, nil
}
