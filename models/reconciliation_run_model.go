package models

import (
	"time"

	"github.com/google/uuid"
)

// ReconciliationRun is the persisted summary of one audit or repair pass.
type ReconciliationRun struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Mode            string    `gorm:"size:10;not null" json:"mode"`
	PaidOrders      int       `gorm:"not null" json:"paid_orders"`
	Enrollments     int       `json:"enrollments"`
	Missing         int       `json:"missing"`
	Fixed           int       `json:"fixed"`
	AlreadyEnrolled int       `json:"already_enrolled"`
	Failed          int       `json:"failed"`
	DurationMs      int64     `json:"duration_ms"`

	CreatedAt time.Time `json:"created_at"`
}
