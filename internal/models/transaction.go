package models

import (
	"time"

	"gorm.io/gorm"
)

// TxType classifies a ledger transaction.
type TxType string

const (
	TxIncome     TxType = "Income"
	TxExpense    TxType = "Expense"
	TxTransfer   TxType = "Transfer"
	TxAdjustment TxType = "Adjustment"
	TxInitial    TxType = "Initial"
	TxRefund     TxType = "Refund"
)

// Valid reports whether t is one of the known transaction types.
func (t TxType) Valid() bool {
	switch t {
	case TxIncome, TxExpense, TxTransfer, TxAdjustment, TxInitial, TxRefund:
		return true
	}
	return false
}

// Transaction is one signed monetary movement on an account.
// Amounts are stored in minor units (cents) so sums stay exact.
type Transaction struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	TenantID          string     `gorm:"size:64;index:idx_tx_tenant_account;not null" json:"tenant_id"`
	AccountID         uint       `gorm:"index:idx_tx_tenant_account;not null" json:"account_id"`
	CategoryID        *uint      `gorm:"index" json:"category_id"`
	AmountCent        int64      `gorm:"not null;default:0" json:"amount_cent"`
	Date              time.Time  `gorm:"index;not null" json:"date"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"` // nil until first update
	CreatedBy         string     `gorm:"size:64" json:"created_by"`
	Type              TxType     `gorm:"size:16;index;not null" json:"type"`
	IsVoid            bool       `gorm:"not null;default:false" json:"is_void"`
	TransferID        *uint      `gorm:"index" json:"transfer_id"`
	TransferAccountID *uint      `json:"transfer_account_id"`
	GroupID           *string    `gorm:"size:36;index" json:"group_id"`
	Payee             string     `gorm:"size:128" json:"payee"`
	Description       string     `gorm:"size:255" json:"description"`
	Notes             string     `gorm:"type:text" json:"notes"`
	Name              string     `gorm:"size:128;index" json:"name"`
	Tags              []string   `gorm:"serializer:json" json:"tags"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsDeleted reports whether the row is soft deleted.
func (t *Transaction) IsDeleted() bool {
	return t.DeletedAt.Valid
}

// Counted reports whether the row contributes to balances.
func (t *Transaction) Counted() bool {
	return !t.IsVoid && !t.IsDeleted()
}

// IsTransferLeg reports whether the row belongs to a transfer pair.
func (t *Transaction) IsTransferLeg() bool {
	return t.TransferID != nil
}
