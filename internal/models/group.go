package models

import "time"

// TransactionGroup links the line items of one split economic event.
type TransactionGroup struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"` // UUID
	TenantID  string    `gorm:"size:64;index;not null" json:"tenant_id"`
	Name      string    `gorm:"size:128" json:"name"`
	Icon      string    `gorm:"size:32" json:"icon"`
	TotalCent int64     `gorm:"not null" json:"total_cent"` // declared total of the split
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
