package models

import "time"

// Category represents income/expense category.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  string    `gorm:"size:64;index;not null" json:"tenant_id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Icon      string    `gorm:"size:32" json:"icon"`
	Color     string    `gorm:"size:16" json:"color"`
	Type      string    `gorm:"size:16;index" json:"type"` // income / expense / other
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
