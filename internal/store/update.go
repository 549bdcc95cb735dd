package store

import (
	"strings"
	"time"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/money"
)

// Update lists the fields to change; nil means "leave as is".
type Update struct {
	// Immutable. Setting any of these makes the update fail.
	ID        *uint
	CreatedAt *time.Time
	CreatedBy *string
	TenantID  *string

	AccountID     *uint
	CategoryID    *uint
	ClearCategory bool
	Amount        *string
	AmountCent    *int64
	Date          *time.Time
	Type          *models.TxType
	IsVoid        *bool
	Payee         *string
	Description   *string
	Notes         *string
	Name          *string
	Tags          *[]string
}

func (u Update) immutableField() string {
	switch {
	case u.ID != nil:
		return "id"
	case u.CreatedAt != nil:
		return "created_at"
	case u.CreatedBy != nil:
		return "created_by"
	case u.TenantID != nil:
		return "tenant_id"
	}
	return ""
}

// touchesMoney reports whether u changes anything that moves a balance or
// the transfer pairing.
func (u Update) touchesMoney() bool {
	return u.AccountID != nil || u.Amount != nil || u.AmountCent != nil ||
		u.Date != nil || u.Type != nil || u.IsVoid != nil
}

// Update applies u to transaction id. Transfer legs only accept descriptive
// changes here; amounts, dates and accounts of a transfer move both legs
// together through SaveLegs.
func (w *Writer) Update(id uint, u Update) (*models.Transaction, error) {
	if f := u.immutableField(); f != "" {
		return nil, apperr.Validation(f, "%s cannot be modified", f)
	}

	t, err := w.Get(id)
	if err != nil {
		return nil, err
	}
	if t.IsTransferLeg() && u.touchesMoney() {
		return nil, apperr.Invariant(apperr.InvTransferPair,
			"transaction %d is a transfer leg; update it as a transfer", id)
	}
	oldAccount, oldType := t.AccountID, t.Type

	if u.AccountID != nil {
		if _, err := w.requireAccount(*u.AccountID); err != nil {
			return nil, err
		}
		t.AccountID = *u.AccountID
	}
	if u.ClearCategory {
		t.CategoryID = nil
	} else if u.CategoryID != nil {
		if err := w.requireCategory(u.CategoryID); err != nil {
			return nil, err
		}
		t.CategoryID = u.CategoryID
	}
	switch {
	case u.AmountCent != nil:
		t.AmountCent = *u.AmountCent
	case u.Amount != nil:
		t.AmountCent = money.Coerce(*u.Amount)
	}
	if u.Date != nil {
		if u.Date.IsZero() {
			return nil, apperr.Validation("date", "date is required")
		}
		t.Date = u.Date.UTC()
	}
	if u.Type != nil {
		if !u.Type.Valid() {
			return nil, apperr.Validation("type", "unknown transaction type %q", *u.Type)
		}
		t.Type = *u.Type
	}
	if u.IsVoid != nil {
		t.IsVoid = *u.IsVoid
	}
	if t.Type == models.TxInitial && (t.AccountID != oldAccount || oldType != models.TxInitial) {
		if err := w.requireNoOpening(t.AccountID, t.ID); err != nil {
			return nil, err
		}
	}
	setText(&t.Payee, u.Payee)
	setText(&t.Description, u.Description)
	setText(&t.Notes, u.Notes)
	setText(&t.Name, u.Name)
	if u.Tags != nil {
		t.Tags = normalizeTags(*u.Tags)
	}

	now := time.Now().UTC()
	t.UpdatedAt = &now
	if err := w.tx.Model(t).Select(mutableColumns).Updates(t).Error; err != nil {
		return nil, err
	}
	w.touch(oldAccount, t.AccountID)
	return t, nil
}

func setText(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
