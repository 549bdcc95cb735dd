package store

import (
	"strings"
	"time"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/money"
)

// Insert carries the fields of a new transaction.
type Insert struct {
	TenantID   string
	AccountID  uint
	CategoryID *uint

	// Amount is decimal text as typed by a user or read from a file;
	// anything that is not a number becomes 0. AmountCent, when set, wins.
	Amount     string
	AmountCent *int64

	Date time.Time
	// Type defaults to Income for amounts >= 0 and Expense otherwise.
	Type   models.TxType
	IsVoid bool

	Payee       string
	Description string
	Notes       string
	Name        string
	Tags        []string
	CreatedBy   string

	GroupID           *string
	TransferAccountID *uint
}

// Cents is a helper for building Insert.AmountCent.
func Cents(v int64) *int64 { return &v }

// normalize coerces numbers, trims text, cleans tags and checks the
// fields every transaction needs.
func (in Insert) normalize() (models.Transaction, error) {
	t := models.Transaction{
		TenantID:          strings.TrimSpace(in.TenantID),
		AccountID:         in.AccountID,
		CategoryID:        in.CategoryID,
		Date:              in.Date.UTC(),
		Type:              in.Type,
		IsVoid:            in.IsVoid,
		Payee:             strings.TrimSpace(in.Payee),
		Description:       strings.TrimSpace(in.Description),
		Notes:             strings.TrimSpace(in.Notes),
		Name:              strings.TrimSpace(in.Name),
		Tags:              normalizeTags(in.Tags),
		CreatedBy:         strings.TrimSpace(in.CreatedBy),
		GroupID:           in.GroupID,
		TransferAccountID: in.TransferAccountID,
	}

	if in.AmountCent != nil {
		t.AmountCent = *in.AmountCent
	} else {
		t.AmountCent = money.Coerce(in.Amount)
	}

	if t.TenantID == "" {
		return t, apperr.Validation("tenant_id", "tenant id is required")
	}
	if t.AccountID == 0 {
		return t, apperr.Validation("account_id", "account id is required")
	}
	if in.Date.IsZero() {
		return t, apperr.Validation("date", "date is required")
	}
	if t.CategoryID != nil && *t.CategoryID == 0 {
		t.CategoryID = nil
	}

	if t.Type == "" {
		t.Type = models.TxIncome
		if t.AmountCent < 0 {
			t.Type = models.TxExpense
		}
	}
	if !t.Type.Valid() {
		return t, apperr.Validation("type", "unknown transaction type %q", t.Type)
	}
	if t.Name == "" {
		t.Name = t.Payee
	}
	return t, nil
}

// normalizeTags trims, drops empties and de-duplicates while keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
