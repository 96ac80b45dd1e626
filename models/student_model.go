package models

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID             uuid.UUID `gorm:"not null;unique" json:"user_id"`
	RegistrationNumber string    `gorm:"size:12;not null;unique" json:"registration_number"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
