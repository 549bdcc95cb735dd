package store

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
)

// Filter is the closed set of conditions a transaction listing accepts.
// Zero values mean "no condition". Dates are inclusive on both ends.
type Filter struct {
	StartDate           *time.Time
	EndDate             *time.Time
	AccountID           *uint
	CategoryID          *uint
	Type                *models.TxType
	Amount              *int64
	NameContains        string
	DescriptionContains string
	Offset              int
	Limit               int
}

// Page is one window of a listing.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

// Window clamps offset and limit to the store's page settings.
func (s *Store) Window(f Filter) (offset, limit int) {
	offset, limit = f.Offset, f.Limit
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = s.pageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	return offset, limit
}

// Apply adds the filter's conditions to q. alias is the table alias of
// transactions in q ("" for the bare table).
func (f Filter) Apply(q *gorm.DB, alias string) *gorm.DB {
	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}

	if f.StartDate != nil {
		q = q.Where(col("date")+" >= ?", f.StartDate.UTC())
	}
	if f.EndDate != nil {
		q = q.Where(col("date")+" <= ?", f.EndDate.UTC())
	}
	if f.AccountID != nil {
		q = q.Where(col("account_id")+" = ?", *f.AccountID)
	}
	if f.CategoryID != nil {
		q = q.Where(col("category_id")+" = ?", *f.CategoryID)
	}
	if f.Type != nil {
		q = q.Where(col("type")+" = ?", *f.Type)
	}
	if f.Amount != nil {
		q = q.Where(col("amount_cent")+" = ?", *f.Amount)
	}
	if s := strings.TrimSpace(f.NameContains); s != "" {
		q = q.Where(col("name")+` LIKE ? ESCAPE '\'`, LikePattern(s))
	}
	if s := strings.TrimSpace(f.DescriptionContains); s != "" {
		q = q.Where(col("description")+` LIKE ? ESCAPE '\'`, LikePattern(s))
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern wraps s for a substring LIKE match with wildcards escaped.
func LikePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// DescOrder is canonical order reversed: newest first.
func DescOrder(alias string) string {
	p := ""
	if alias != "" {
		p = alias + "."
	}
	return p + "date DESC, " + p + "created_at DESC, " + p + "updated_at DESC, " + p + "type DESC, " + p + "id DESC"
}

// AscOrder is canonical order: oldest first.
func AscOrder(alias string) string {
	p := ""
	if alias != "" {
		p = alias + "."
	}
	return p + "date ASC, " + p + "created_at ASC, " + p + "updated_at ASC, " + p + "type ASC, " + p + "id ASC"
}
