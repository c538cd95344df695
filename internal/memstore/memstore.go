// Package memstore adalah implementasi inventory.Store di memori.
// Dipakai untuk test dan jalan lokal tanpa Postgres. Satu mutex
// men-serialize semua unit of work, jadi check-then-subtract tidak
// pernah interleave; rollback lewat snapshot copy-on-write sederhana.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ariefcatur/go-inventory-admin.git/internal/inventory"
)

type Store struct {
	mu       sync.Mutex
	products map[string]inventory.Product
	orders   map[string]inventory.Order
	txns     map[string]inventory.Transaction
}

func New() *Store {
	return &Store{
		products: map[string]inventory.Product{},
		orders:   map[string]inventory.Order{},
		txns:     map[string]inventory.Transaction{},
	}
}

// SeedProduct buat setup test / data awal dev.
func (s *Store) SeedProduct(p inventory.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = cloneProduct(p)
}

func (s *Store) Within(ctx context.Context, fn func(inventory.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapProducts := cloneProducts(s.products)
	snapOrders := cloneOrders(s.orders)
	snapTxns := cloneTxns(s.txns)

	if err := fn(&memTx{s: s}); err != nil {
		s.products = snapProducts
		s.orders = snapOrders
		s.txns = snapTxns
		return err
	}
	return nil
}

type memTx struct{ s *Store }

func (t *memTx) ProductForUpdate(ctx context.Context, id string) (*inventory.Product, error) {
	p, ok := t.s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", inventory.ErrProductNotFound, id)
	}
	cp := cloneProduct(p)
	return &cp, nil
}

func (t *memTx) SaveProduct(ctx context.Context, p *inventory.Product) error {
	t.s.products[p.ID] = cloneProduct(*p)
	return nil
}

func (t *memTx) Order(ctx context.Context, id string) (*inventory.Order, error) {
	o, ok := t.s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", inventory.ErrOrderNotFound, id)
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (t *memTx) SaveOrder(ctx context.Context, o *inventory.Order) error {
	t.s.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (t *memTx) DeleteOrder(ctx context.Context, id string) error {
	if _, ok := t.s.orders[id]; !ok {
		return fmt.Errorf("%w: %s", inventory.ErrOrderNotFound, id)
	}
	delete(t.s.orders, id)
	return nil
}

func (t *memTx) Transaction(ctx context.Context, id string) (*inventory.Transaction, error) {
	tr, ok := t.s.txns[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", inventory.ErrTransactionNotFound, id)
	}
	cp := tr
	return &cp, nil
}

func (t *memTx) SaveTransaction(ctx context.Context, tr *inventory.Transaction) error {
	t.s.txns[tr.ID] = *tr
	return nil
}

func (t *memTx) DeleteTransaction(ctx context.Context, id string) error {
	if _, ok := t.s.txns[id]; !ok {
		return fmt.Errorf("%w: %s", inventory.ErrTransactionNotFound, id)
	}
	delete(t.s.txns, id)
	return nil
}

// ---- Reader ----

func (s *Store) Product(ctx context.Context, id string) (*inventory.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", inventory.ErrProductNotFound, id)
	}
	cp := cloneProduct(p)
	return &cp, nil
}

func (s *Store) Products(ctx context.Context, activeOnly bool) ([]inventory.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]inventory.Product, 0, len(s.products))
	for _, p := range s.products {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*inventory.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", inventory.ErrOrderNotFound, id)
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (s *Store) OrderByNumber(ctx context.Context, number string) (*inventory.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.OrderNumber == number {
			cp := cloneOrder(o)
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: number %s", inventory.ErrOrderNotFound, number)
}

func (s *Store) Orders(ctx context.Context, status inventory.OrderStatus) ([]inventory.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]inventory.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlacedAt.After(out[j].PlacedAt) })
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*inventory.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr, ok := s.txns[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", inventory.ErrTransactionNotFound, id)
	}
	cp := tr
	return &cp, nil
}

func (s *Store) Transactions(ctx context.Context, f inventory.TransactionFilter) ([]inventory.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]inventory.Transaction, 0, len(s.txns))
	for _, tr := range s.txns {
		if f.OrderID != "" && tr.OrderID != f.OrderID {
			continue
		}
		if f.Status != "" && tr.Status != f.Status {
			continue
		}
		out = append(out, tr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ---- clone helpers ----

func cloneProduct(p inventory.Product) inventory.Product { return p }

func cloneOrder(o inventory.Order) inventory.Order {
	cp := o
	cp.Lines = make([]inventory.OrderLine, len(o.Lines))
	copy(cp.Lines, o.Lines)
	return cp
}

func cloneProducts(m map[string]inventory.Product) map[string]inventory.Product {
	out := make(map[string]inventory.Product, len(m))
	for k, v := range m {
		out[k] = cloneProduct(v)
	}
	return out
}

func cloneOrders(m map[string]inventory.Order) map[string]inventory.Order {
	out := make(map[string]inventory.Order, len(m))
	for k, v := range m {
		out[k] = cloneOrder(v)
	}
	return out
}

func cloneTxns(m map[string]inventory.Transaction) map[string]inventory.Transaction {
	out := make(map[string]inventory.Transaction, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
