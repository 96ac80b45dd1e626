package models

import (
	"time"

	"github.com/google/uuid"
)

type Discipline struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Code          string    `gorm:"size:20;not null;unique" json:"code"`
	MaterialPrice float64   `gorm:"type:numeric(10,2);not null" json:"material_price"`
	Currency      string    `gorm:"size:3" json:"currency"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
