package models

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionBlocked SubscriptionStatus = "blocked"
)

// User is both the login account and the tenant: every business record
// carries the OwnerID of the user that created it.
type User struct {
	ID                    uint               `gorm:"primaryKey" json:"id"`
	Email                 string             `gorm:"size:100;uniqueIndex;not null" json:"email"`
	FullName              string             `gorm:"size:150" json:"full_name"`
	Phone                 string             `gorm:"size:30" json:"phone"`
	PasswordHash          string             `gorm:"size:255;not null" json:"-"`
	IsAdmin               bool               `gorm:"not null;default:false" json:"is_admin"`
	SubscriptionStatus    SubscriptionStatus `gorm:"size:20;not null;default:active" json:"subscription_status"`
	SubscriptionExpiresAt *time.Time         `json:"subscription_expires_at"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}
