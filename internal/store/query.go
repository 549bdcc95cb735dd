package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
)

func (s *Store) tenantQuery(ctx context.Context, tenantID string) (*gorm.DB, error) {
	if tenantID == "" {
		return nil, apperr.Validation("tenant_id", "tenant id is required")
	}
	return s.db.WithContext(ctx).Where("tenant_id = ?", tenantID), nil
}

// FindByID returns a non-deleted transaction of the tenant.
func (s *Store) FindByID(ctx context.Context, tenantID string, id uint) (*models.Transaction, error) {
	q, err := s.tenantQuery(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var t models.Transaction
	err = q.Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("transaction", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction %d: %w", id, err)
	}
	return &t, nil
}

// FindAll lists non-deleted transactions matching f, newest first.
func (s *Store) FindAll(ctx context.Context, tenantID string, f Filter) (Page[models.Transaction], error) {
	offset, limit := s.Window(f)
	page := Page[models.Transaction]{Offset: offset, Limit: limit}

	q, err := s.tenantQuery(ctx, tenantID)
	if err != nil {
		return page, err
	}
	base := f.Apply(q.Model(&models.Transaction{}), "")

	if err := base.Session(&gorm.Session{}).Count(&page.Total).Error; err != nil {
		return page, fmt.Errorf("count transactions: %w", err)
	}
	if err := base.Session(&gorm.Session{}).
		Order(DescOrder("")).
		Offset(offset).
		Limit(limit).
		Find(&page.Items).Error; err != nil {
		return page, fmt.Errorf("list transactions: %w", err)
	}
	return page, nil
}

// AccountTransactions returns every non-deleted transaction of an account,
// void rows included, in canonical order. It satisfies balance.Loader.
func (s *Store) AccountTransactions(ctx context.Context, tenantID string, accountID uint) ([]models.Transaction, error) {
	q, err := s.tenantQuery(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var out []models.Transaction
	if err := q.Where("account_id = ?", accountID).Order(AscOrder("")).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load account %d transactions: %w", accountID, err)
	}
	return out, nil
}

// FindByTransferID returns the transaction whose TransferID is id, i.e.
// the sibling leg of transaction id.
func (s *Store) FindByTransferID(ctx context.Context, tenantID string, id uint) (*models.Transaction, error) {
	q, err := s.tenantQuery(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var out []models.Transaction
	if err := q.Where("transfer_id = ?", id).Limit(2).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find transfer sibling of %d: %w", id, err)
	}
	switch len(out) {
	case 0:
		return nil, apperr.NotFound("transfer sibling of transaction", id)
	case 1:
		return &out[0], nil
	}
	return nil, apperr.Invariant(apperr.InvTransferPair, "transaction %d is referenced by more than one leg", id)
}

// GroupMembers returns the non-deleted transactions of a split group.
func (s *Store) GroupMembers(ctx context.Context, tenantID, groupID string) ([]models.Transaction, error) {
	q, err := s.tenantQuery(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var out []models.Transaction
	if err := q.Where("group_id = ?", groupID).Order(AscOrder("")).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load group %s: %w", groupID, err)
	}
	return out, nil
}

// FindGroup returns a split group of the tenant.
func (s *Store) FindGroup(ctx context.Context, tenantID, groupID string) (*models.TransactionGroup, error) {
	q, err := s.tenantQuery(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var g models.TransactionGroup
	err = q.Where("id = ?", groupID).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("group", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("find group %s: %w", groupID, err)
	}
	return &g, nil
}

// InitialTransactions returns the non-deleted Initial rows of an account.
func (s *Store) InitialTransactions(ctx context.Context, tenantID string, accountID uint) ([]models.Transaction, error) {
	q, err := s.tenantQuery(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var out []models.Transaction
	if err := q.Where("account_id = ? AND type = ?", accountID, models.TxInitial).
		Order(AscOrder("")).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load opening transactions of account %d: %w", accountID, err)
	}
	return out, nil
}

// CountedSum is the sum of non-void, non-deleted amounts of an account.
func (s *Store) CountedSum(ctx context.Context, tenantID string, accountID uint) (int64, error) {
	if tenantID == "" {
		return 0, apperr.Validation("tenant_id", "tenant id is required")
	}
	return countedSum(s.db.WithContext(ctx), tenantID, accountID)
}
