package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentPix    PaymentMethod = "pix"
	PaymentDebit  PaymentMethod = "debit"
	PaymentCredit PaymentMethod = "credit"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentDebit, PaymentCredit:
		return true
	}
	return false
}

type Sale struct {
	ID            string        `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID       uint          `gorm:"index;not null" json:"owner_id"`
	CashSessionID *string       `gorm:"type:uuid;index" json:"cash_session_id"`
	Date          time.Time     `gorm:"index;not null" json:"date"`
	Items         []SaleItem    `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	Total         float64       `gorm:"not null" json:"total"`
	PaymentMethod PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	Profit        float64       `gorm:"not null" json:"profit"`
	CreatedAt     time.Time     `json:"created_at"`
}

// SaleItem keeps price and cost as they were at sale time; later
// ingredient price changes must not rewrite historical profit.
type SaleItem struct {
	ID         uint    `gorm:"primaryKey" json:"-"`
	SaleID     string  `gorm:"type:uuid;index;not null" json:"-"`
	Position   int     `gorm:"not null" json:"-"`
	RecipeID   string  `gorm:"type:uuid;index;not null" json:"recipe_id"`
	RecipeName string  `gorm:"size:150" json:"recipe_name"`
	Quantity   float64 `gorm:"not null" json:"quantity"`
	UnitPrice  float64 `gorm:"not null" json:"unit_price"`
	CostPrice  float64 `gorm:"not null" json:"cost_price"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
