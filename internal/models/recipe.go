package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe: one batch consumes Items and yields YieldAmount sellable units.
type Recipe struct {
	ID                     string       `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID                uint         `gorm:"index;not null" json:"owner_id"`
	Name                   string       `gorm:"size:150;not null" json:"name"`
	Items                  []RecipeItem `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"items"`
	YieldAmount            float64      `gorm:"not null" json:"yield_amount"`
	YieldUnit              string       `gorm:"size:30" json:"yield_unit"`
	SellingPrice           float64      `gorm:"not null;default:0" json:"selling_price"` // per yielded unit
	IndirectCosts          float64      `gorm:"not null;default:0" json:"indirect_costs"` // gas, energy, packaging per batch
	PreparationTimeMinutes int          `gorm:"not null;default:0" json:"preparation_time_minutes"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

type RecipeItem struct {
	ID           uint    `gorm:"primaryKey" json:"-"`
	RecipeID     string  `gorm:"type:uuid;index;not null" json:"-"`
	Position     int     `gorm:"not null" json:"-"`
	IngredientID string  `gorm:"type:uuid;index;not null" json:"ingredient_id"`
	Quantity     float64 `gorm:"not null" json:"quantity"` // per batch, in the ingredient's unit
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
