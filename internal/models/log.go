package models

import "time"

// AuditLog records mutating API calls per tenant.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	TenantID  string    `gorm:"size:64;index"`
	RequestID string    `gorm:"size:36"`
	Method    string    `gorm:"size:16"`
	Path      string    `gorm:"size:255"`
	Status    int
	IP        string    `gorm:"size:64"`
	UserAgent string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"index"`
}
