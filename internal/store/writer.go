package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/money"
)

// mutableColumns are the columns an update may rewrite; id, tenant_id,
// created_at, created_by and deleted_at are never among them.
var mutableColumns = []string{
	"account_id", "category_id", "amount_cent", "date", "updated_at", "type", "is_void",
	"transfer_id", "transfer_account_id", "group_id",
	"payee", "description", "notes", "name", "tags",
}

// Writer performs mutations inside one Store.Write transaction. It must
// not be retained after the callback returns.
type Writer struct {
	tx       *gorm.DB
	tenantID string
	touched  map[uint]struct{}
	created  int
}

func (w *Writer) touch(accountIDs ...uint) {
	for _, id := range accountIDs {
		if id != 0 {
			w.touched[id] = struct{}{}
		}
	}
}

// TenantID is the tenant every row written through w belongs to.
func (w *Writer) TenantID() string { return w.tenantID }

// Get loads a non-deleted transaction of the writer's tenant.
func (w *Writer) Get(id uint) (*models.Transaction, error) {
	return w.get(w.tx, id)
}

func (w *Writer) get(q *gorm.DB, id uint) (*models.Transaction, error) {
	var t models.Transaction
	err := q.Where("id = ? AND tenant_id = ?", id, w.tenantID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("transaction", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load transaction %d: %w", id, err)
	}
	return &t, nil
}

func (w *Writer) requireAccount(id uint) (*models.Account, error) {
	var a models.Account
	err := w.tx.Where("id = ? AND tenant_id = ?", id, w.tenantID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Validation("account_id", "account %d does not exist", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load account %d: %w", id, err)
	}
	return &a, nil
}

func (w *Writer) requireCategory(id *uint) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := w.tx.Model(&models.Category{}).
		Where("id = ? AND tenant_id = ?", *id, w.tenantID).
		Count(&n).Error; err != nil {
		return fmt.Errorf("check category %d: %w", *id, err)
	}
	if n == 0 {
		return apperr.Validation("category_id", "category %d does not exist", *id)
	}
	return nil
}

// requireNoOpening fails when account already has a live Initial row other
// than except.
func (w *Writer) requireNoOpening(accountID, except uint) error {
	var n int64
	if err := w.tx.Model(&models.Transaction{}).
		Where("tenant_id = ? AND account_id = ? AND type = ? AND id <> ?",
			w.tenantID, accountID, models.TxInitial, except).
		Count(&n).Error; err != nil {
		return fmt.Errorf("check opening of account %d: %w", accountID, err)
	}
	if n > 0 {
		return apperr.Validation("type", "account %d already has an opening transaction", accountID)
	}
	return nil
}

// Create validates and inserts one transaction.
func (w *Writer) Create(in Insert) (*models.Transaction, error) {
	if in.TenantID == "" {
		in.TenantID = w.tenantID
	}
	t, err := in.normalize()
	if err != nil {
		return nil, err
	}
	if t.TenantID != w.tenantID {
		return nil, apperr.Validation("tenant_id", "row belongs to another tenant")
	}
	if _, err := w.requireAccount(t.AccountID); err != nil {
		return nil, err
	}
	if err := w.requireCategory(t.CategoryID); err != nil {
		return nil, err
	}
	if t.Type == models.TxInitial {
		if err := w.requireNoOpening(t.AccountID, 0); err != nil {
			return nil, err
		}
	}

	if err := w.tx.Create(&t).Error; err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	w.created++
	w.touch(t.AccountID)
	return &t, nil
}

// CreateGroup inserts a split group row.
func (w *Writer) CreateGroup(g *models.TransactionGroup) error {
	g.TenantID = w.tenantID
	if g.ID == "" {
		return apperr.Validation("group_id", "group id is required")
	}
	if err := w.tx.Create(g).Error; err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

// SaveGroup inserts g or, when a group with its id already exists for the
// tenant, rewrites its name, icon and total.
func (w *Writer) SaveGroup(g *models.TransactionGroup) error {
	if g.ID == "" {
		return apperr.Validation("group_id", "group id is required")
	}
	g.TenantID = w.tenantID
	res := w.tx.Model(&models.TransactionGroup{}).
		Where("id = ? AND tenant_id = ?", g.ID, w.tenantID).
		Updates(map[string]any{"name": g.Name, "icon": g.Icon, "total_cent": g.TotalCent})
	if res.Error != nil {
		return fmt.Errorf("update group %s: %w", g.ID, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return w.CreateGroup(g)
}

// GroupMembers returns the non-deleted rows of split group groupID.
func (w *Writer) GroupMembers(groupID string) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := w.tx.Where("tenant_id = ? AND group_id = ?", w.tenantID, groupID).
		Order(AscOrder("")).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load group %s: %w", groupID, err)
	}
	return out, nil
}

// Link makes a and b a transfer pair: each leg references the other and
// the other's account. The pair invariant is checked before returning.
func (w *Writer) Link(a, b *models.Transaction) error {
	a.TransferID, a.TransferAccountID = &b.ID, &b.AccountID
	b.TransferID, b.TransferAccountID = &a.ID, &a.AccountID
	if err := checkPair(a, b); err != nil {
		return err
	}
	for _, t := range []*models.Transaction{a, b} {
		if err := w.tx.Model(&models.Transaction{}).Where("id = ?", t.ID).Updates(map[string]any{
			"transfer_id":         t.TransferID,
			"transfer_account_id": t.TransferAccountID,
		}).Error; err != nil {
			return fmt.Errorf("link transfer %d: %w", t.ID, err)
		}
	}
	return nil
}

// checkPair verifies the transfer-pair invariant between two legs.
func checkPair(a, b *models.Transaction) error {
	switch {
	case a.ID == b.ID:
		return apperr.Invariant(apperr.InvTransferPair, "a transfer needs two distinct rows")
	case a.TransferID == nil || *a.TransferID != b.ID || b.TransferID == nil || *b.TransferID != a.ID:
		return apperr.Invariant(apperr.InvTransferPair, "legs %d and %d do not reference each other", a.ID, b.ID)
	case a.AccountID == b.AccountID:
		return apperr.Invariant(apperr.InvTransferPair, "source and destination account are both %d", a.AccountID)
	case a.TenantID != b.TenantID:
		return apperr.Invariant(apperr.InvTransferPair, "legs belong to different tenants")
	case !a.Date.Equal(b.Date):
		return apperr.Invariant(apperr.InvTransferPair, "legs have different dates")
	case a.AmountCent+b.AmountCent != 0:
		return apperr.Invariant(apperr.InvTransferPair, "legs do not cancel out (%s + %s)",
			money.String(a.AmountCent), money.String(b.AmountCent))
	case a.IsVoid != b.IsVoid:
		return apperr.Invariant(apperr.InvTransferPair, "only one leg is void")
	}
	return nil
}

// CheckPair is checkPair for callers outside the write path.
func CheckPair(a, b *models.Transaction) error { return checkPair(a, b) }

// Sibling loads the other leg of a transfer. withDeleted includes soft
// deleted rows, which Restore needs.
func (w *Writer) sibling(t *models.Transaction, withDeleted bool) (*models.Transaction, error) {
	if t.TransferID == nil {
		return nil, nil
	}
	q := w.tx
	if withDeleted {
		q = q.Unscoped()
	}
	s, err := w.get(q, *t.TransferID)
	if apperr.IsNotFound(err) {
		return nil, apperr.Invariant(apperr.InvTransferPair, "transfer %d has no sibling %d", t.ID, *t.TransferID)
	}
	return s, err
}

// SaveLegs persists both legs of a transfer after the caller changed them.
// Stored balances of the legs' old and new accounts are resynchronised.
func (w *Writer) SaveLegs(a, b *models.Transaction) error {
	if err := checkPair(a, b); err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, t := range []*models.Transaction{a, b} {
		old, err := w.Get(t.ID)
		if err != nil {
			return err
		}
		if old.TransferID == nil || *old.TransferID != *t.TransferID {
			return apperr.Invariant(apperr.InvTransferPair, "row %d is not a leg of this transfer", t.ID)
		}
		if err := w.requireCategory(t.CategoryID); err != nil {
			return err
		}
		if _, err := w.requireAccount(t.AccountID); err != nil {
			return err
		}
		t.TenantID, t.CreatedAt, t.CreatedBy = old.TenantID, old.CreatedAt, old.CreatedBy
		t.Tags = normalizeTags(t.Tags)
		t.UpdatedAt = &now
		if err := w.tx.Model(t).Select(mutableColumns).Updates(t).Error; err != nil {
			return fmt.Errorf("save transfer leg %d: %w", t.ID, err)
		}
		w.touch(old.AccountID, t.AccountID)
	}
	return nil
}

// legs returns t and, for transfers, its sibling.
func (w *Writer) legs(id uint, withDeleted bool) ([]*models.Transaction, error) {
	q := w.tx
	if withDeleted {
		q = q.Unscoped()
	}
	t, err := w.get(q, id)
	if err != nil {
		return nil, err
	}
	out := []*models.Transaction{t}
	s, err := w.sibling(t, withDeleted)
	if err != nil {
		return nil, err
	}
	if s != nil {
		out = append(out, s)
	}
	return out, nil
}

// Void marks the transaction, and its transfer sibling, void.
func (w *Writer) Void(id uint) error {
	legs, err := w.legs(id, false)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, t := range legs {
		if err := w.tx.Model(&models.Transaction{}).Where("id = ?", t.ID).
			Updates(map[string]any{"is_void": true, "updated_at": now}).Error; err != nil {
			return fmt.Errorf("void transaction %d: %w", t.ID, err)
		}
		w.touch(t.AccountID)
	}
	return nil
}

// SoftDelete hides the transaction and its transfer sibling.
func (w *Writer) SoftDelete(id uint) error {
	legs, err := w.legs(id, false)
	if err != nil {
		return err
	}
	for _, t := range legs {
		if err := w.tx.Delete(&models.Transaction{}, t.ID).Error; err != nil {
			return fmt.Errorf("soft delete transaction %d: %w", t.ID, err)
		}
		w.touch(t.AccountID)
	}
	return nil
}

// Restore brings back a soft deleted transaction and its transfer sibling.
func (w *Writer) Restore(id uint) error {
	legs, err := w.legs(id, true)
	if err != nil {
		return err
	}
	for _, t := range legs {
		if t.Type == models.TxInitial && t.DeletedAt.Valid {
			if err := w.requireNoOpening(t.AccountID, t.ID); err != nil {
				return err
			}
		}
		if err := w.tx.Unscoped().Model(&models.Transaction{}).Where("id = ?", t.ID).
			Update("deleted_at", nil).Error; err != nil {
			return fmt.Errorf("restore transaction %d: %w", t.ID, err)
		}
		w.touch(t.AccountID)
	}
	return nil
}

// HardDelete permanently removes the transaction and its transfer sibling.
func (w *Writer) HardDelete(id uint) error {
	legs, err := w.legs(id, true)
	if err != nil {
		return err
	}
	for _, t := range legs {
		if err := w.tx.Unscoped().Delete(&models.Transaction{}, t.ID).Error; err != nil {
			return fmt.Errorf("hard delete transaction %d: %w", t.ID, err)
		}
		w.touch(t.AccountID)
	}
	return nil
}

// syncBalances stores the computed running balance on every touched account.
// The stored balance is the sum of counted transactions, 0 when none count.
func (w *Writer) syncBalances() error {
	for id := range w.touched {
		sum, err := countedSum(w.tx, w.tenantID, id)
		if err != nil {
			return err
		}
		if err := w.tx.Unscoped().Model(&models.Account{}).
			Where("id = ? AND tenant_id = ?", id, w.tenantID).
			Update("balance_cent", sum).Error; err != nil {
			return fmt.Errorf("store balance of account %d: %w", id, err)
		}
	}
	return nil
}

func countedSum(q *gorm.DB, tenantID string, accountID uint) (int64, error) {
	var sum int64
	err := q.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount_cent), 0)").
		Where("tenant_id = ? AND account_id = ? AND is_void = ?", tenantID, accountID, false).
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("sum account %d: %w", accountID, err)
	}
	return sum, nil
}
