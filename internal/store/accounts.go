package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
)

// NewAccount describes an account to open.
type NewAccount struct {
	TenantID     string
	Name         string
	Currency     string
	CategoryID   *uint
	DisplayOrder int
	// Opening balance recorded as the account's Initial transaction.
	OpeningCent int64
	OpeningDate time.Time
	CreatedBy   string
}

// CreateAccount opens an account together with its Initial transaction,
// so every account has exactly one opening row from the start.
func (s *Store) CreateAccount(ctx context.Context, in NewAccount) (*models.Account, *models.Transaction, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, nil, apperr.Validation("name", "account name is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.currency
	}
	date := in.OpeningDate
	if date.IsZero() {
		date = time.Now().UTC()
	}

	var (
		acct    models.Account
		opening *models.Transaction
	)
	err := s.Write(ctx, in.TenantID, "create_account", func(w *Writer) error {
		if err := w.requireCategory(in.CategoryID); err != nil {
			return err
		}
		acct = models.Account{
			TenantID:     w.tenantID,
			CategoryID:   in.CategoryID,
			Name:         name,
			Currency:     currency,
			DisplayOrder: in.DisplayOrder,
		}
		if err := w.tx.Create(&acct).Error; err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		t, err := w.Create(Insert{
			AccountID:  acct.ID,
			AmountCent: Cents(in.OpeningCent),
			Date:       date,
			Type:       models.TxInitial,
			Name:       "Opening balance",
			CreatedBy:  in.CreatedBy,
		})
		opening = t
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	acct.BalanceCent = in.OpeningCent
	return &acct, opening, nil
}

// AccountChange lists editable account fields; nil leaves a field alone.
// The balance is not among them: it always follows the transactions.
type AccountChange struct {
	Name         *string
	Currency     *string
	CategoryID   *uint
	DisplayOrder *int
}

func (s *Store) UpdateAccount(ctx context.Context, tenantID string, id uint, c AccountChange) (*models.Account, error) {
	var out *models.Account
	err := s.Write(ctx, tenantID, "update_account", func(w *Writer) error {
		a, err := w.requireAccount(id)
		if apperr.IsValidation(err) {
			return apperr.NotFound("account", id)
		}
		if err != nil {
			return err
		}
		if c.Name != nil {
			if strings.TrimSpace(*c.Name) == "" {
				return apperr.Validation("name", "account name is required")
			}
			a.Name = strings.TrimSpace(*c.Name)
		}
		if c.Currency != nil {
			a.Currency = strings.ToUpper(strings.TrimSpace(*c.Currency))
		}
		if c.CategoryID != nil {
			if err := w.requireCategory(c.CategoryID); err != nil {
				return err
			}
			a.CategoryID = c.CategoryID
		}
		if c.DisplayOrder != nil {
			a.DisplayOrder = *c.DisplayOrder
		}
		if err := w.tx.Model(a).Select("name", "currency", "category_id", "display_order").Updates(a).Error; err != nil {
			return fmt.Errorf("update account %d: %w", id, err)
		}
		out = a
		return nil
	})
	return out, err
}

// DeleteAccount soft deletes an account. Its transactions stay in place
// and keep counting for the account if it is restored.
func (s *Store) DeleteAccount(ctx context.Context, tenantID string, id uint) error {
	return s.Write(ctx, tenantID, "delete_account", func(w *Writer) error {
		res := w.tx.Where("id = ? AND tenant_id = ?", id, w.tenantID).Delete(&models.Account{})
		if res.Error != nil {
			return fmt.Errorf("delete account %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("account", id)
		}
		return nil
	})
}

// FindAccount returns a non-deleted account of the tenant.
func (s *Store) FindAccount(ctx context.Context, tenantID string, id uint) (*models.Account, error) {
	q, err := s.tenantQuery(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var a models.Account
	err = q.Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("account", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find account %d: %w", id, err)
	}
	return &a, nil
}

// ListAccounts returns the tenant's non-deleted accounts in display order.
func (s *Store) ListAccounts(ctx context.Context, tenantID string) ([]models.Account, error) {
	q, err := s.tenantQuery(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var out []models.Account
	if err := q.Order("display_order ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

// CreateCategory adds a category for the tenant.
func (s *Store) CreateCategory(ctx context.Context, c models.Category) (*models.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, apperr.Validation("name", "category name is required")
	}
	err := s.Write(ctx, c.TenantID, "create_category", func(w *Writer) error {
		c.TenantID = w.tenantID
		c.ID = 0
		return w.tx.Create(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCategory returns a category of the tenant.
func (s *Store) FindCategory(ctx context.Context, tenantID string, id uint) (*models.Category, error) {
	q, err := s.tenantQuery(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var c models.Category
	err = q.Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("category", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find category %d: %w", id, err)
	}
	return &c, nil
}

// ListCategories returns the tenant's categories by name.
func (s *Store) ListCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	q, err := s.tenantQuery(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var out []models.Category
	if err := q.Order("name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}
