package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CashSessionStatus string

const (
	CashSessionOpen   CashSessionStatus = "open"
	CashSessionClosed CashSessionStatus = "closed"
)

// CashSession: one cashier shift, from opening the drawer to counting it.
type CashSession struct {
	ID              string            `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID         uint              `gorm:"index;not null" json:"owner_id"`
	OpenedAt        time.Time         `gorm:"index;not null" json:"opened_at"`
	ClosedAt        *time.Time        `json:"closed_at"`
	InitialBalance  float64           `gorm:"not null" json:"initial_balance"`
	FinalBalance    *float64          `json:"final_balance"` // counted by the operator
	SalesTotal      float64           `gorm:"not null;default:0" json:"sales_total"`
	ExpectedBalance float64           `gorm:"not null;default:0" json:"expected_balance"`
	Difference      float64           `gorm:"not null;default:0" json:"difference"`
	Status          CashSessionStatus `gorm:"size:10;index;not null" json:"status"`
	Notes           string            `gorm:"size:500" json:"notes"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (s *CashSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
