package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentRecord is one verified payment event. The composite unique index on
// (order_id, provider_txn_id) is what makes duplicate webhook deliveries a
// no-op at the storage layer.
type PaymentRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID       uuid.UUID `gorm:"not null;uniqueIndex:idx_payment_records_order_txn" json:"order_id"`
	ProviderTxnID string    `gorm:"size:255;not null;uniqueIndex:idx_payment_records_order_txn" json:"provider_txn_id"`
	Amount        float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status        string    `gorm:"size:20;not null" json:"status"`
	ConfirmedAt   time.Time `json:"confirmed_at"`

	Order Order `gorm:"foreignkey:OrderID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
