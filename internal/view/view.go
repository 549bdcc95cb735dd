// Package view materialises transactions for display: each row carries its
// account, category and split group details plus the running balance of
// the transaction within its account.
package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/balance"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/money"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/store"
)

// Filter is the closed listing filter shared with the store.
type Filter = store.Filter

// Row is one denormalised transaction.
type Row struct {
	ID                uint          `json:"id"`
	TenantID          string        `json:"tenant_id"`
	AccountID         uint          `json:"account_id"`
	CategoryID        *uint         `json:"category_id"`
	AmountCent        int64         `json:"amount_cent"`
	Amount            string        `json:"amount"`
	AmountDisplay     string        `json:"amount_display"`
	Date              time.Time     `json:"date"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         *time.Time    `json:"updated_at"`
	Type              models.TxType `json:"type"`
	IsVoid            bool          `json:"is_void"`
	TransferID        *uint         `json:"transfer_id"`
	TransferAccountID *uint         `json:"transfer_account_id"`
	GroupID           *string       `json:"group_id"`
	Payee             string        `json:"payee"`
	Description       string        `json:"description"`
	Notes             string        `json:"notes"`
	Name              string        `json:"name"`
	Tags              []string      `json:"tags"`

	AccountName        string `json:"account_name"`
	AccountBalanceCent int64  `json:"account_balance_cent"`
	Currency           string `json:"currency"`
	CategoryName       string `json:"category_name"`
	CategoryIcon       string `json:"category_icon"`
	GroupName          string `json:"group_name"`
	GroupIcon          string `json:"group_icon"`

	RunningBalanceCent int64  `json:"running_balance_cent"`
	RunningBalance     string `json:"running_balance"`
}

// Materializer builds Rows. Running balances come from the configured
// balance.Engine, scoped to each row's account.
type Materializer struct {
	store  *store.Store
	engine balance.Engine
}

func New(s *store.Store, engine balance.Engine) *Materializer {
	return &Materializer{store: s, engine: engine}
}

// ListView returns one page of the tenant's transactions, newest first.
func (m *Materializer) ListView(ctx context.Context, tenantID string, f Filter) (store.Page[Row], error) {
	page, err := m.store.FindAll(ctx, tenantID, f)
	out := store.Page[Row]{Total: page.Total, Offset: page.Offset, Limit: page.Limit}
	if err != nil {
		return out, err
	}
	out.Items, err = m.Materialize(ctx, tenantID, page.Items)
	return out, err
}

// FindByTransferID returns the sibling leg of transaction id with its own
// running balance.
func (m *Materializer) FindByTransferID(ctx context.Context, tenantID string, id uint) (*Row, error) {
	t, err := m.store.FindByTransferID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	rows, err := m.Materialize(ctx, tenantID, []models.Transaction{*t})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// FindByNameContains matches text against name, payee and description and
// keeps, per distinct name, only the most recent transaction.
func (m *Materializer) FindByNameContains(ctx context.Context, tenantID, text string) ([]Row, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("text", "search text is required")
	}
	if tenantID == "" {
		return nil, apperr.Validation("tenant_id", "tenant id is required")
	}
	pattern := store.LikePattern(text)

	var txs []models.Transaction
	err := m.store.DB().WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where(`(name LIKE ? ESCAPE '\' OR payee LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`, pattern, pattern, pattern).
		Order(store.DescOrder("")).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("search transactions: %w", err)
	}

	seen := make(map[string]struct{}, len(txs))
	latest := txs[:0]
	for _, t := range txs {
		if _, ok := seen[t.Name]; ok {
			continue
		}
		seen[t.Name] = struct{}{}
		latest = append(latest, t)
	}
	return m.Materialize(ctx, tenantID, latest)
}

// Materialize joins txs with their lookups and running balances, keeping
// the order of txs.
func (m *Materializer) Materialize(ctx context.Context, tenantID string, txs []models.Transaction) ([]Row, error) {
	rows := make([]Row, 0, len(txs))
	if len(txs) == 0 {
		return rows, nil
	}

	lk, err := m.lookups(ctx, tenantID, txs)
	if err != nil {
		return nil, err
	}

	running := make(map[uint]map[uint]int64)
	for _, t := range txs {
		if _, ok := running[t.AccountID]; ok {
			continue
		}
		rb, err := m.engine.RunningBalances(ctx, tenantID, t.AccountID)
		if err != nil {
			return nil, err
		}
		running[t.AccountID] = rb
	}

	for _, t := range txs {
		r := fromTransaction(t)
		if a, ok := lk.accounts[t.AccountID]; ok {
			r.AccountName, r.AccountBalanceCent, r.Currency = a.Name, a.BalanceCent, a.Currency
		}
		if t.CategoryID != nil {
			if c, ok := lk.categories[*t.CategoryID]; ok {
				r.CategoryName, r.CategoryIcon = c.Name, c.Icon
			}
		}
		if t.GroupID != nil {
			if g, ok := lk.groups[*t.GroupID]; ok {
				r.GroupName, r.GroupIcon = g.Name, g.Icon
			}
		}
		r.RunningBalanceCent = running[t.AccountID][t.ID]
		r.RunningBalance = money.String(r.RunningBalanceCent)
		r.AmountDisplay = money.Format(r.AmountCent, r.Currency)
		rows = append(rows, r)
	}
	return rows, nil
}

func fromTransaction(t models.Transaction) Row {
	return Row{
		ID:                t.ID,
		TenantID:          t.TenantID,
		AccountID:         t.AccountID,
		CategoryID:        t.CategoryID,
		AmountCent:        t.AmountCent,
		Amount:            money.String(t.AmountCent),
		Date:              t.Date,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
		Type:              t.Type,
		IsVoid:            t.IsVoid,
		TransferID:        t.TransferID,
		TransferAccountID: t.TransferAccountID,
		GroupID:           t.GroupID,
		Payee:             t.Payee,
		Description:       t.Description,
		Notes:             t.Notes,
		Name:              t.Name,
		Tags:              t.Tags,
	}
}

type lookups struct {
	accounts   map[uint]models.Account
	categories map[uint]models.Category
	groups     map[string]models.TransactionGroup
}

// lookups loads every account, category and group referenced by txs in
// three queries. Deleted accounts are included so old rows keep their names.
func (m *Materializer) lookups(ctx context.Context, tenantID string, txs []models.Transaction) (lookups, error) {
	lk := lookups{
		accounts:   make(map[uint]models.Account),
		categories: make(map[uint]models.Category),
		groups:     make(map[string]models.TransactionGroup),
	}
	var accountIDs, categoryIDs []uint
	var groupIDs []string
	for _, t := range txs {
		accountIDs = append(accountIDs, t.AccountID)
		if t.CategoryID != nil {
			categoryIDs = append(categoryIDs, *t.CategoryID)
		}
		if t.GroupID != nil {
			groupIDs = append(groupIDs, *t.GroupID)
		}
	}

	db := m.store.DB().WithContext(ctx)
	scoped := func(q *gorm.DB) *gorm.DB { return q.Where("tenant_id = ?", tenantID) }

	var accounts []models.Account
	if err := scoped(db.Unscoped()).Where("id IN ?", accountIDs).Find(&accounts).Error; err != nil {
		return lk, fmt.Errorf("load accounts: %w", err)
	}
	for _, a := range accounts {
		lk.accounts[a.ID] = a
	}
	if len(categoryIDs) > 0 {
		var cats []models.Category
		if err := scoped(db).Where("id IN ?", categoryIDs).Find(&cats).Error; err != nil {
			return lk, fmt.Errorf("load categories: %w", err)
		}
		for _, c := range cats {
			lk.categories[c.ID] = c
		}
	}
	if len(groupIDs) > 0 {
		var groups []models.TransactionGroup
		if err := scoped(db).Where("id IN ?", groupIDs).Find(&groups).Error; err != nil {
			return lk, fmt.Errorf("load groups: %w", err)
		}
		for _, g := range groups {
			lk.groups[g.ID] = g
		}
	}
	return lk, nil
}
