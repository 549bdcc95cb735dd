package models

import (
	"time"

	"gorm.io/gorm"
)

// Account holds money for a tenant. BalanceCent is the persisted balance:
// the opening baseline while the account has no counted transactions, and
// the current running balance afterwards.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TenantID     string    `gorm:"size:64;index;not null" json:"tenant_id"`
	CategoryID   *uint     `gorm:"index" json:"category_id"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	BalanceCent  int64     `gorm:"not null;default:0" json:"balance_cent"`
	Currency     string    `gorm:"size:8;default:USD" json:"currency"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
