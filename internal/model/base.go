package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status values used across the catalog. 1 = active, 0 = inactive.
const (
	StatusInactive = 0
	StatusActive   = 1
)

// BaseModel handles the UUID primary key and timestamps shared by every
// catalog document.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// ValidStatus reports whether s is one of the two allowed status values.
func ValidStatus(s int) bool {
	return s == StatusInactive || s == StatusActive
}
