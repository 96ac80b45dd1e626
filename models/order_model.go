package models

import (
	"time"

	"github.com/google/uuid"
)

// Order lifecycle. Transitions only move forward; the webhook is the sole
// writer of pending->paid, fulfillment owns the rest.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
)

type Order struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID    uuid.UUID `gorm:"not null;index" json:"student_id"`
	DisciplineID uuid.UUID `gorm:"not null" json:"discipline_id"`
	Price        float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	Status       string    `gorm:"size:20;not null;default:'pending';index" json:"status"`

	Student    Student    `gorm:"foreignkey:StudentID" json:"-"`
	Discipline Discipline `gorm:"foreignkey:DisciplineID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
