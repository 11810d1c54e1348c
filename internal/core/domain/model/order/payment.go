package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryUnitKey is the settlement unit of the delivery fee.
const DeliveryUnitKey = "delivery"

type PaymentStatus string

const (
	PaymentPendingStatus PaymentStatus = "pending"
	PaymentPaidStatus    PaymentStatus = "paid"
)

// PaymentRecord is the state of one settlement unit: a pavilion or the delivery fee.
// Amount is what is due until the unit is paid, and what was paid afterwards.
type PaymentRecord struct {
	Status     PaymentStatus   `json:"status"`
	Amount     decimal.Decimal `json:"amount"`
	ReceiptURL string          `json:"receiptUrl,omitempty"`
	PaidAt     *time.Time      `json:"paidAt,omitempty"`
}

func (p PaymentRecord) IsPaid() bool {
	return p.Status == PaymentPaidStatus
}

// SettlementUnit is a payable share of an order, computed when delivery is priced.
type SettlementUnit struct {
	Key    string
	Amount decimal.Decimal
}
