package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLiter      Unit = "l"
	UnitMilliliter Unit = "ml"
	UnitPiece      Unit = "un"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPiece:
		return true
	}
	return false
}

// Ingredient: stocked raw material. PricePerUnit is the normalized cost of
// one Unit; LastPackage* only record what was paid last time.
type Ingredient struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID          uint      `gorm:"index;not null" json:"owner_id"`
	Name             string    `gorm:"size:150;not null" json:"name"`
	Unit             Unit      `gorm:"size:10;not null" json:"unit"`
	PricePerUnit     float64   `gorm:"not null;default:0" json:"price_per_unit"`
	LastPackagePrice float64   `gorm:"not null;default:0" json:"last_package_price"`
	LastPackageSize  float64   `gorm:"not null;default:0" json:"last_package_size"`
	CurrentStock     float64   `gorm:"not null;default:0" json:"current_stock"`
	MinStockAlert    float64   `gorm:"not null;default:0" json:"min_stock_alert"`
	Version          int       `gorm:"not null;default:1" json:"version"` // optimistic concurrency stamp
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// LowStock reports whether the stock reached the alert threshold.
func (i Ingredient) LowStock() bool {
	return i.CurrentStock <= i.MinStockAlert
}
