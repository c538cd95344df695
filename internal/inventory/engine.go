package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Engine menjaga stok produk konsisten dengan lifecycle order, dan
// mem-propagate transaksi COMPLETED ke status order. Semua operasi mutasi
// jalan di dalam satu store transaction: gagal di tengah = rollback total.
type Engine struct {
	store Store
	log   logrus.FieldLogger
}

func NewEngine(store Store, log logrus.FieldLogger) *Engine {
	return &Engine{store: store, log: log}
}

type LineInput struct {
	ProductID string
	Quantity  int
}

type NewOrder struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	Items           []LineInput
}

// OrderUpdate: field customer nil = tidak diubah; Items nil = line set tetap,
// Items non-nil = wholesale replace.
type OrderUpdate struct {
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	CustomerAddress *string
	Items           []LineInput
	ReplaceItems    bool
}

func (e *Engine) CreateOrder(ctx context.Context, in NewOrder) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	now := time.Now().UTC()
	o := &Order{
		ID:              uuid.NewString(),
		OrderNumber:     newOrderNumber(),
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
		Status:          StatusPending,
		PlacedAt:        now,
		UpdatedAt:       now,
	}
	err := e.store.Within(ctx, func(tx Tx) error {
		lines, err := e.reserveLines(ctx, tx, o.ID, in.Items)
		if err != nil {
			return err
		}
		o.Lines = lines
		o.TotalAmount = OrderTotal(lines)
		return tx.SaveOrder(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{"order_id": o.ID, "order_number": o.OrderNumber, "total": o.TotalAmount}).
		Info("order created")
	return o, nil
}

// UpdateOrder ubah data customer dan/atau wholesale-replace line set.
// Replace = restore stok line lama, lalu validasi + kurangi stok set baru;
// dua langkah itu satu unit atomik, gagal di set baru ikut membatalkan restore.
func (e *Engine) UpdateOrder(ctx context.Context, id string, upd OrderUpdate) (*Order, error) {
	var out *Order
	err := e.store.Within(ctx, func(tx Tx) error {
		o, err := tx.Order(ctx, id)
		if err != nil {
			return err
		}
		if upd.CustomerName != nil {
			o.CustomerName = *upd.CustomerName
		}
		if upd.CustomerEmail != nil {
			o.CustomerEmail = *upd.CustomerEmail
		}
		if upd.CustomerPhone != nil {
			o.CustomerPhone = *upd.CustomerPhone
		}
		if upd.CustomerAddress != nil {
			o.CustomerAddress = *upd.CustomerAddress
		}
		if upd.ReplaceItems {
			if len(upd.Items) == 0 {
				return ErrEmptyOrder
			}
			if err := e.restoreLines(ctx, tx, o.Lines); err != nil {
				return err
			}
			lines, err := e.reserveLines(ctx, tx, o.ID, upd.Items)
			if err != nil {
				return err
			}
			o.Lines = lines
			o.TotalAmount = OrderTotal(lines)
		}
		o.UpdatedAt = time.Now().UTC()
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateOrderStatus set status baru dan terapkan efek stoknya
// (lihat TransitionStockEffect). CONFIRMED/SHIPPED/REFUNDED dll tidak
// menyentuh stok.
func (e *Engine) UpdateOrderStatus(ctx context.Context, id, status string) (*Order, error) {
	next, err := ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	var out *Order
	err = e.store.Within(ctx, func(tx Tx) error {
		o, err := tx.Order(ctx, id)
		if err != nil {
			return err
		}
		old := o.Status
		switch TransitionStockEffect(old, next) {
		case StockRestore:
			if err := e.restoreLines(ctx, tx, o.Lines); err != nil {
				return err
			}
		case StockDeduct:
			// Fulfillment mengurangi stok sekali lagi, di atas pengurangan
			// saat order dibuat; kebalikannya me-restore sekali.
			if err := e.deductLines(ctx, tx, o.Lines); err != nil {
				return err
			}
		}
		o.Status = next
		o.UpdatedAt = time.Now().UTC()
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{"order_id": id, "status": next}).Info("order status updated")
	return out, nil
}

// DeleteOrder restore stok semua line dulu, baru hapus order + line-nya.
func (e *Engine) DeleteOrder(ctx context.Context, id string) (*Order, error) {
	var out *Order
	err := e.store.Within(ctx, func(tx Tx) error {
		o, err := tx.Order(ctx, id)
		if err != nil {
			return err
		}
		if err := e.restoreLines(ctx, tx, o.Lines); err != nil {
			return err
		}
		if err := tx.DeleteOrder(ctx, id); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.WithField("order_id", id).Info("order deleted, stock restored")
	return out, nil
}

// reserveLines: validasi + kurangi stok untuk line set baru, all-or-nothing.
// Harga selalu snapshot dari produk, jangan pernah trust harga dari client.
func (e *Engine) reserveLines(ctx context.Context, tx Tx, orderID string, items []LineInput) ([]OrderLine, error) {
	lines := make([]OrderLine, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w (product %s)", ErrInvalidQuantity, it.ProductID)
		}
		p, err := tx.ProductForUpdate(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p.StockQuantity < it.Quantity {
			return nil, fmt.Errorf("%w for product %q: have %d, need %d",
				ErrInsufficientStock, p.Name, p.StockQuantity, it.Quantity)
		}
		p.StockQuantity -= it.Quantity
		p.UpdatedAt = time.Now().UTC()
		if err := tx.SaveProduct(ctx, p); err != nil {
			return nil, err
		}
		lines = append(lines, OrderLine{
			ID:         uuid.NewString(),
			OrderID:    orderID,
			ProductID:  p.ID,
			Quantity:   it.Quantity,
			UnitPrice:  p.Price,
			TotalPrice: LineTotal(p.Price, it.Quantity),
		})
	}
	return lines, nil
}

// deductLines: pengurangan stok untuk line yang sudah ada (transisi fulfillment),
// tetap dengan availability check supaya stok tidak pernah negatif.
func (e *Engine) deductLines(ctx context.Context, tx Tx, lines []OrderLine) error {
	for _, l := range lines {
		p, err := tx.ProductForUpdate(ctx, l.ProductID)
		if err != nil {
			return err
		}
		if p.StockQuantity < l.Quantity {
			return fmt.Errorf("%w for product %q: have %d, need %d",
				ErrInsufficientStock, p.Name, p.StockQuantity, l.Quantity)
		}
		p.StockQuantity -= l.Quantity
		p.UpdatedAt = time.Now().UTC()
		if err := tx.SaveProduct(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// restoreLines: kembalikan qty setiap line ke stok produknya, sekali.
func (e *Engine) restoreLines(ctx context.Context, tx Tx, lines []OrderLine) error {
	for _, l := range lines {
		p, err := tx.ProductForUpdate(ctx, l.ProductID)
		if err != nil {
			return err
		}
		p.StockQuantity += l.Quantity
		p.UpdatedAt = time.Now().UTC()
		if err := tx.SaveProduct(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

type NewTransaction struct {
	OrderID       string
	PaymentMethod string
	Type          string
	Amount        decimal.Decimal
	Description   string
}

func (e *Engine) CreateTransaction(ctx context.Context, in NewTransaction) (*Transaction, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	method, err := ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	typ, err := ParseTransactionType(in.Type)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := &Transaction{
		ID:                uuid.NewString(),
		TransactionNumber: newTransactionNumber(),
		OrderID:           in.OrderID,
		PaymentMethod:     method,
		Type:              typ,
		Amount:            RoundAmount(in.Amount),
		Description:       in.Description,
		Status:            TxnPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err = e.store.Within(ctx, func(tx Tx) error {
		if t.OrderID != "" {
			if _, err := tx.Order(ctx, t.OrderID); err != nil {
				return err
			}
		}
		return tx.SaveTransaction(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{"transaction_id": t.ID, "amount": t.Amount}).Info("transaction created")
	return t, nil
}

// UpdateTransactionStatus set status transaksi. Kalau jadi COMPLETED dan
// transaksi menunjuk order yang masih PENDING, order naik ke CONFIRMED
// (tanpa efek stok; CONFIRMED bukan transisi stock-affecting).
func (e *Engine) UpdateTransactionStatus(ctx context.Context, id, status string) (*Transaction, error) {
	next, err := ParseTransactionStatus(status)
	if err != nil {
		return nil, err
	}
	var out *Transaction
	err = e.store.Within(ctx, func(tx Tx) error {
		t, err := tx.Transaction(ctx, id)
		if err != nil {
			return err
		}
		t.Status = next
		t.UpdatedAt = time.Now().UTC()
		if err := tx.SaveTransaction(ctx, t); err != nil {
			return err
		}
		if next == TxnCompleted && t.OrderID != "" {
			o, err := tx.Order(ctx, t.OrderID)
			if err != nil {
				return err
			}
			if o.Status == StatusPending {
				o.Status = StatusConfirmed
				o.UpdatedAt = time.Now().UTC()
				if err := tx.SaveOrder(ctx, o); err != nil {
					return err
				}
				e.log.WithFields(logrus.Fields{"order_id": o.ID, "transaction_id": t.ID}).
					Info("order confirmed by completed transaction")
			}
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) DeleteTransaction(ctx context.Context, id string) error {
	return e.store.Within(ctx, func(tx Tx) error {
		if _, err := tx.Transaction(ctx, id); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, id)
	})
}

type NewProduct struct {
	Name          string
	Price         decimal.Decimal
	StockQuantity int
	Active        bool
}

func (e *Engine) CreateProduct(ctx context.Context, in NewProduct) (*Product, error) {
	if in.StockQuantity < 0 {
		return nil, fmt.Errorf("%w (initial stock)", ErrInvalidQuantity)
	}
	now := time.Now().UTC()
	p := &Product{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Price:         RoundAmount(in.Price),
		StockQuantity: in.StockQuantity,
		Active:        in.Active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := e.store.Within(ctx, func(tx Tx) error { return tx.SaveProduct(ctx, p) })
	if err != nil {
		return nil, err
	}
	return p, nil
}

type ProductUpdate struct {
	Name   *string
	Price  *decimal.Decimal
	Active *bool
}

// UpdateProduct: edit admin untuk field non-stok; stok hanya lewat engine.
func (e *Engine) UpdateProduct(ctx context.Context, id string, upd ProductUpdate) (*Product, error) {
	var out *Product
	err := e.store.Within(ctx, func(tx Tx) error {
		p, err := tx.ProductForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.Price != nil {
			p.Price = RoundAmount(*upd.Price)
		}
		if upd.Active != nil {
			p.Active = *upd.Active
		}
		p.UpdatedAt = time.Now().UTC()
		if err := tx.SaveProduct(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ---- read-side delegations ----

func (e *Engine) GetOrder(ctx context.Context, id string) (*Order, error) {
	return e.store.GetOrder(ctx, id)
}
func (e *Engine) GetOrderByNumber(ctx context.Context, number string) (*Order, error) {
	return e.store.OrderByNumber(ctx, number)
}
func (e *Engine) ListOrders(ctx context.Context, status string) ([]Order, error) {
	var st OrderStatus
	if status != "" {
		parsed, err := ParseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		st = parsed
	}
	return e.store.Orders(ctx, st)
}
func (e *Engine) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	return e.store.GetTransaction(ctx, id)
}
func (e *Engine) ListTransactions(ctx context.Context, orderID, status string) ([]Transaction, error) {
	f := TransactionFilter{OrderID: orderID}
	if status != "" {
		st, err := ParseTransactionStatus(status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	return e.store.Transactions(ctx, f)
}
func (e *Engine) GetProduct(ctx context.Context, id string) (*Product, error) {
	return e.store.Product(ctx, id)
}
func (e *Engine) ListProducts(ctx context.Context, activeOnly bool) ([]Product, error) {
	return e.store.Products(ctx, activeOnly)
}

// Nomor dokumen ala sistem lama: prefix + timestamp. UnixNano biar dua
// dokumen dalam milisecond yang sama tetap unik.
func newOrderNumber() string       { return fmt.Sprintf("ORD%d", time.Now().UnixNano()) }
func newTransactionNumber() string { return fmt.Sprintf("TXN%d", time.Now().UnixNano()) }
