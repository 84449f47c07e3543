package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Purchase struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uint           `gorm:"index;not null" json:"owner_id"`
	Date      time.Time      `gorm:"index;not null" json:"date"`
	Items     []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items"`
	Total     float64        `gorm:"not null" json:"total"`
	Notes     string         `gorm:"size:500" json:"notes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// PurchaseItem: an empty IngredientID marks a plain expense line
// (gas, cleaning supplies...) that never touches stock.
type PurchaseItem struct {
	ID           uint    `gorm:"primaryKey" json:"-"`
	PurchaseID   string  `gorm:"type:uuid;index;not null" json:"-"`
	Position     int     `gorm:"not null" json:"-"`
	IngredientID string  `gorm:"size:36;index" json:"ingredient_id"`
	Name         string  `gorm:"size:150" json:"name"`
	Unit         string  `gorm:"size:10" json:"unit"`
	Quantity     float64 `gorm:"not null" json:"quantity"`
	TotalPrice   float64 `gorm:"not null" json:"total_price"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (i PurchaseItem) IsExpense() bool {
	return i.IngredientID == ""
}
