package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WasteEntry records ingredient lost to spoilage or accidents. It lowers
// stock without touching the unit price.
type WasteEntry struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID      uint      `gorm:"index;not null" json:"owner_id"`
	IngredientID string    `gorm:"type:uuid;index;not null" json:"ingredient_id"`
	Date         time.Time `gorm:"index;not null" json:"date"`
	Quantity     float64   `gorm:"not null" json:"quantity"`
	Note         string    `gorm:"size:500;not null" json:"note"` // required: what happened
	CreatedAt    time.Time `json:"created_at"`
}

func (w *WasteEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
