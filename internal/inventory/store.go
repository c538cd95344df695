package inventory

import "context"

// Store adalah kontrak persistence engine. Implementasi SQL ada di
// internal/postgres, versi in-process di internal/memstore.
//
// Within menjalankan fn sebagai satu unit of work: kalau fn return error,
// tidak boleh ada perubahan dari fn yang kelihatan caller lain. Operasi stok
// check-then-subtract wajib serialized per product (row lock / mutex).
type Store interface {
	Within(ctx context.Context, fn func(Tx) error) error
	Reader
}

// Tx: operasi di dalam satu unit of work.
type Tx interface {
	// ProductForUpdate ambil produk dan tahan lock-nya sampai unit of work selesai.
	ProductForUpdate(ctx context.Context, id string) (*Product, error)
	SaveProduct(ctx context.Context, p *Product) error

	Order(ctx context.Context, id string) (*Order, error)
	// SaveOrder menyimpan order + semua line-nya sebagai satu aggregate
	// (line lama yang tidak ada lagi ikut terhapus).
	SaveOrder(ctx context.Context, o *Order) error
	DeleteOrder(ctx context.Context, id string) error

	Transaction(ctx context.Context, id string) (*Transaction, error)
	SaveTransaction(ctx context.Context, t *Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
}

// Reader: akses baca committed state, dipakai handler list dan report reader.
type Reader interface {
	Product(ctx context.Context, id string) (*Product, error)
	Products(ctx context.Context, activeOnly bool) ([]Product, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	OrderByNumber(ctx context.Context, number string) (*Order, error)
	// Orders dengan status == "" berarti semua status.
	Orders(ctx context.Context, status OrderStatus) ([]Order, error)
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	// Transactions difilter by order dan/atau status; zero value = tanpa filter.
	Transactions(ctx context.Context, f TransactionFilter) ([]Transaction, error)
}

type TransactionFilter struct {
	OrderID string
	Status  TransactionStatus
}
