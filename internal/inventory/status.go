package inventory

import "fmt"

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
	StatusRefunded   OrderStatus = "REFUNDED"
)

var orderStatuses = map[OrderStatus]bool{
	StatusPending:    true,
	StatusConfirmed:  true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCompleted:  true,
	StatusCancelled:  true,
	StatusRefunded:   true,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !orderStatuses[st] {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// StockEffect: efek transisi status ke stok produk.
type StockEffect int

const (
	StockNone StockEffect = iota
	StockRestore
	StockDeduct
)

// TransitionStockEffect memetakan (old,new) ke efek stok. Fungsi murni,
// supaya aturannya bisa dites tanpa storage.
//
// Aturannya (hanya tiga transisi yang menyentuh stok):
//   - apa pun (non-CANCELLED) -> CANCELLED           : restore
//   - COMPLETED|DELIVERED -> PROCESSING|PENDING      : restore ("uncomplete")
//   - PROCESSING|PENDING  -> COMPLETED|DELIVERED     : deduct lagi, di atas
//     pengurangan yang sudah terjadi saat order dibuat
func TransitionStockEffect(old, next OrderStatus) StockEffect {
	switch {
	case next == StatusCancelled && old != StatusCancelled:
		return StockRestore
	case fulfilled(old) && open(next):
		return StockRestore
	case open(old) && fulfilled(next):
		return StockDeduct
	default:
		return StockNone
	}
}

func fulfilled(s OrderStatus) bool { return s == StatusCompleted || s == StatusDelivered }
func open(s OrderStatus) bool      { return s == StatusProcessing || s == StatusPending }

type TransactionStatus string

const (
	TxnPending   TransactionStatus = "PENDING"
	TxnCompleted TransactionStatus = "COMPLETED"
	TxnFailed    TransactionStatus = "FAILED"
	TxnCancelled TransactionStatus = "CANCELLED"
	TxnRefunded  TransactionStatus = "REFUNDED"
)

var txnStatuses = map[TransactionStatus]bool{
	TxnPending: true, TxnCompleted: true, TxnFailed: true, TxnCancelled: true, TxnRefunded: true,
}

func ParseTransactionStatus(s string) (TransactionStatus, error) {
	st := TransactionStatus(s)
	if !txnStatuses[st] {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

type TransactionType string

const (
	TxnPayment    TransactionType = "PAYMENT"
	TxnRefund     TransactionType = "REFUND"
	TxnAdjustment TransactionType = "ADJUSTMENT"
	TxnFee        TransactionType = "FEE"
)

var txnTypes = map[TransactionType]bool{
	TxnPayment: true, TxnRefund: true, TxnAdjustment: true, TxnFee: true,
}

func ParseTransactionType(s string) (TransactionType, error) {
	if s == "" {
		return TxnPayment, nil
	}
	t := TransactionType(s)
	if !txnTypes[t] {
		return "", fmt.Errorf("%w: transaction type %q", ErrInvalidStatus, s)
	}
	return t, nil
}

type PaymentMethod string

const (
	PayCash         PaymentMethod = "CASH"
	PayCreditCard   PaymentMethod = "CREDIT_CARD"
	PayDebitCard    PaymentMethod = "DEBIT_CARD"
	PayPaypal       PaymentMethod = "PAYPAL"
	PayBankTransfer PaymentMethod = "BANK_TRANSFER"
	PayOther        PaymentMethod = "OTHER"
)

var payMethods = map[PaymentMethod]bool{
	PayCash: true, PayCreditCard: true, PayDebitCard: true,
	PayPaypal: true, PayBankTransfer: true, PayOther: true,
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	if s == "" {
		return PayCash, nil
	}
	m := PaymentMethod(s)
	if !payMethods[m] {
		return "", fmt.Errorf("%w: payment method %q", ErrInvalidStatus, s)
	}
	return m, nil
}
