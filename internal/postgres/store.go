package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-inventory-admin.git/internal/inventory"
)

// Store implementasi inventory.Store di atas pgxpool. Satu unit of work =
// satu DB transaction; produk di-lock per row dengan SELECT ... FOR UPDATE
// supaya dua request yang rebutan stok produk yang sama ter-serialize.
type Store struct{ pool *pgxpool.Pool }

func NewStore(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

func (s *Store) Within(ctx context.Context, fn func(inventory.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgTx struct{ tx pgx.Tx }

const productCols = `id, name, price, stock_quantity, active, created_at, updated_at`

func (t *pgTx) ProductForUpdate(ctx context.Context, id string) (*inventory.Product, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1 FOR UPDATE`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", inventory.ErrProductNotFound, id)
	}
	return p, err
}

func (t *pgTx) SaveProduct(ctx context.Context, p *inventory.Product) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO products (id, name, price, stock_quantity, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name, price=EXCLUDED.price,
			stock_quantity=EXCLUDED.stock_quantity, active=EXCLUDED.active,
			updated_at=EXCLUDED.updated_at`,
		p.ID, p.Name, p.Price, p.StockQuantity, p.Active, p.CreatedAt, p.UpdatedAt)
	return err
}

func (t *pgTx) Order(ctx context.Context, id string) (*inventory.Order, error) {
	return getOrder(ctx, t.tx, `WHERE id=$1`, id)
}

// SaveOrder: upsert header lalu replace seluruh line (aggregate save).
func (t *pgTx) SaveOrder(ctx context.Context, o *inventory.Order) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, customer_name, customer_email, customer_phone,
			customer_address, total_amount, status, placed_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			customer_name=EXCLUDED.customer_name, customer_email=EXCLUDED.customer_email,
			customer_phone=EXCLUDED.customer_phone, customer_address=EXCLUDED.customer_address,
			total_amount=EXCLUDED.total_amount, status=EXCLUDED.status,
			updated_at=EXCLUDED.updated_at`,
		o.ID, o.OrderNumber, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.CustomerAddress, o.TotalAmount, string(o.Status), o.PlacedAt, o.UpdatedAt)
	if err != nil {
		return err
	}
	if _, err := t.tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, o.ID); err != nil {
		return err
	}
	for _, l := range o.Lines {
		_, err := t.tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, total_price)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			l.ID, o.ID, l.ProductID, l.Quantity, l.UnitPrice, l.TotalPrice)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *pgTx) DeleteOrder(ctx context.Context, id string) error {
	ct, err := t.tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", inventory.ErrOrderNotFound, id)
	}
	return nil
}

func (t *pgTx) Transaction(ctx context.Context, id string) (*inventory.Transaction, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+txnCols+` FROM transactions WHERE id=$1`, id)
	tr, err := scanTxn(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", inventory.ErrTransactionNotFound, id)
	}
	return tr, err
}

func (t *pgTx) SaveTransaction(ctx context.Context, tr *inventory.Transaction) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO transactions (id, transaction_number, order_id, payment_method,
			transaction_type, amount, description, status, created_at, updated_at)
		VALUES ($1,$2,NULLIF($3,'')::uuid,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			payment_method=EXCLUDED.payment_method, transaction_type=EXCLUDED.transaction_type,
			amount=EXCLUDED.amount, description=EXCLUDED.description,
			status=EXCLUDED.status, updated_at=EXCLUDED.updated_at`,
		tr.ID, tr.TransactionNumber, tr.OrderID, string(tr.PaymentMethod),
		string(tr.Type), tr.Amount, tr.Description, string(tr.Status), tr.CreatedAt, tr.UpdatedAt)
	return err
}

func (t *pgTx) DeleteTransaction(ctx context.Context, id string) error {
	ct, err := t.tx.Exec(ctx, `DELETE FROM transactions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", inventory.ErrTransactionNotFound, id)
	}
	return nil
}

// ---- Reader (di luar transaction, baca committed state) ----

func (s *Store) Product(ctx context.Context, id string) (*inventory.Product, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", inventory.ErrProductNotFound, id)
	}
	return p, err
}

func (s *Store) Products(ctx context.Context, activeOnly bool) ([]inventory.Product, error) {
	q := `SELECT ` + productCols + ` FROM products`
	if activeOnly {
		q += ` WHERE active`
	}
	q += ` ORDER BY name`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inventory.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) GetOrder(ctx context.Context, id string) (*inventory.Order, error) {
	return getOrder(ctx, s.pool, `WHERE id=$1`, id)
}

func (s *Store) OrderByNumber(ctx context.Context, number string) (*inventory.Order, error) {
	o, err := getOrder(ctx, s.pool, `WHERE order_number=$1`, number)
	if errors.Is(err, inventory.ErrOrderNotFound) {
		return nil, fmt.Errorf("%w: number %s", inventory.ErrOrderNotFound, number)
	}
	return o, err
}

func (s *Store) Orders(ctx context.Context, status inventory.OrderStatus) ([]inventory.Order, error) {
	q := `SELECT ` + orderCols + ` FROM orders`
	args := []any{}
	if status != "" {
		q += ` WHERE status=$1`
		args = append(args, string(status))
	}
	q += ` ORDER BY placed_at DESC`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inventory.Order
	ids := []string{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// satu query untuk semua line, hindari N+1
	lineRows, err := s.pool.Query(ctx,
		`SELECT `+lineCols+` FROM order_items WHERE order_id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()

	byOrder := map[string][]inventory.OrderLine{}
	for lineRows.Next() {
		l, err := scanLine(lineRows)
		if err != nil {
			return nil, err
		}
		byOrder[l.OrderID] = append(byOrder[l.OrderID], *l)
	}
	if err := lineRows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Lines = byOrder[out[i].ID]
	}
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*inventory.Transaction, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+txnCols+` FROM transactions WHERE id=$1`, id)
	tr, err := scanTxn(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", inventory.ErrTransactionNotFound, id)
	}
	return tr, err
}

func (s *Store) Transactions(ctx context.Context, f inventory.TransactionFilter) ([]inventory.Transaction, error) {
	q := `SELECT ` + txnCols + ` FROM transactions`
	args := []any{}
	where := ""
	if f.OrderID != "" {
		args = append(args, f.OrderID)
		where = fmt.Sprintf(` WHERE order_id=$%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		if where == "" {
			where = fmt.Sprintf(` WHERE status=$%d`, len(args))
		} else {
			where += fmt.Sprintf(` AND status=$%d`, len(args))
		}
	}
	q += where + ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inventory.Transaction
	for rows.Next() {
		tr, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *tr)
	}
	return out, rows.Err()
}

// ---- scan helpers ----

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const orderCols = `id, order_number, customer_name, COALESCE(customer_email,''),
	COALESCE(customer_phone,''), COALESCE(customer_address,''), total_amount, status,
	placed_at, updated_at`

const lineCols = `id, order_id, product_id, quantity, unit_price, total_price`

const txnCols = `id, transaction_number, COALESCE(order_id::text,''), payment_method,
	transaction_type, amount, COALESCE(description,''), status, created_at, updated_at`

func getOrder(ctx context.Context, q querier, where string, arg any) (*inventory.Order, error) {
	row := q.QueryRow(ctx, `SELECT `+orderCols+` FROM orders `+where, arg)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", inventory.ErrOrderNotFound, arg)
	}
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+lineCols+` FROM order_items WHERE order_id=$1`, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, *l)
	}
	return o, rows.Err()
}

func scanProduct(row pgx.Row) (*inventory.Product, error) {
	var p inventory.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanOrder(row pgx.Row) (*inventory.Order, error) {
	var o inventory.Order
	var status string
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail,
		&o.CustomerPhone, &o.CustomerAddress, &o.TotalAmount, &status, &o.PlacedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = inventory.OrderStatus(status)
	return &o, nil
}

func scanLine(row pgx.Row) (*inventory.OrderLine, error) {
	var l inventory.OrderLine
	err := row.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.TotalPrice)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanTxn(row pgx.Row) (*inventory.Transaction, error) {
	var tr inventory.Transaction
	var method, typ, status string
	err := row.Scan(&tr.ID, &tr.TransactionNumber, &tr.OrderID, &method, &typ,
		&tr.Amount, &tr.Description, &status, &tr.CreatedAt, &tr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	tr.PaymentMethod = inventory.PaymentMethod(method)
	tr.Type = inventory.TransactionType(typ)
	tr.Status = inventory.TransactionStatus(status)
	return &tr, nil
}
