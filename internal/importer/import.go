// Package importer moves transactions in and out of the ledger as CSV or
// XLSX files.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/money"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/store"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/view"
)

// Column names understood by Import. date, account and amount are required.
const (
	ColDate        = "date"
	ColAccount     = "account"
	ColCategory    = "category"
	ColAmount      = "amount"
	ColType        = "type"
	ColPayee       = "payee"
	ColDescription = "description"
	ColNotes       = "notes"
	ColName        = "name"
	ColTags        = "tags"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

type Importer struct {
	store *store.Store
	view  *view.Materializer
	log   *zap.Logger
}

func New(s *store.Store, v *view.Materializer, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{store: s, view: v, log: log.Named("importer")}
}

// Options control an import.
type Options struct {
	CreatedBy string
	// AllOrNothing stores nothing when any row is invalid. Otherwise the
	// valid rows are stored and the invalid ones reported.
	AllOrNothing bool
}

// RowResult is the outcome of one data row. Line counts from 1 with the
// header on line 1.
type RowResult struct {
	Line  int    `json:"line"`
	ID    uint   `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

type Result struct {
	Imported int         `json:"imported"`
	Failed   int         `json:"failed"`
	Rows     []RowResult `json:"rows"`
}

// ImportCSV reads a CSV file with a header row.
func (im *Importer) ImportCSV(ctx context.Context, tenantID string, r io.Reader, opts Options) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return Result{}, apperr.Validation("file", "read csv: %v", err)
	}
	return im.importRecords(ctx, tenantID, records, opts)
}

// ImportXLSX reads the first sheet of a workbook with a header row.
func (im *Importer) ImportXLSX(ctx context.Context, tenantID string, r io.Reader, opts Options) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, apperr.Validation("file", "read xlsx: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, apperr.Validation("file", "workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return Result{}, apperr.Validation("file", "read sheet %q: %v", sheets[0], err)
	}
	return im.importRecords(ctx, tenantID, records, opts)
}

func (im *Importer) importRecords(ctx context.Context, tenantID string, records [][]string, opts Options) (Result, error) {
	var res Result
	if len(records) == 0 {
		return res, apperr.Validation("file", "file is empty")
	}
	cols, err := header(records[0])
	if err != nil {
		return res, err
	}

	ref, err := im.references(ctx, tenantID)
	if err != nil {
		return res, err
	}

	var (
		inserts []store.Insert
		lines   []int
	)
	for i, rec := range records[1:] {
		line := i + 2
		if blank(rec) {
			continue
		}
		in, err := cols.insert(rec, ref)
		if err != nil {
			res.Rows = append(res.Rows, RowResult{Line: line, Error: err.Error()})
			res.Failed++
			continue
		}
		in.TenantID, in.CreatedBy = tenantID, opts.CreatedBy
		inserts = append(inserts, in)
		lines = append(lines, line)
	}

	if res.Failed > 0 && opts.AllOrNothing {
		return res, apperr.Validation("file", "%d of %d rows are invalid", res.Failed, res.Failed+len(inserts))
	}
	if len(inserts) == 0 {
		return res, nil
	}

	created, err := im.store.CreateMultiple(ctx, tenantID, inserts)
	if err != nil {
		return res, err
	}
	for i, t := range created {
		res.Rows = append(res.Rows, RowResult{Line: lines[i], ID: t.ID})
	}
	res.Imported = len(created)
	im.log.Info("transactions imported",
		zap.String("tenant", tenantID),
		zap.Int("imported", res.Imported),
		zap.Int("failed", res.Failed))
	return res, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

type columns map[string]int

func header(rec []string) (columns, error) {
	cols := make(columns, len(rec))
	for i, name := range rec {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if name != "" {
			cols[name] = i
		}
	}
	for _, required := range []string{ColDate, ColAccount, ColAmount} {
		if _, ok := cols[required]; !ok {
			return nil, apperr.Validation(required, "missing column %q", required)
		}
	}
	return cols, nil
}

func (c columns) get(rec []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// insert validates one record strictly: a malformed amount or date is an
// error here, unlike the lenient coercion of the store.
func (c columns) insert(rec []string, ref references) (store.Insert, error) {
	var in store.Insert

	acct, err := ref.account(c.get(rec, ColAccount))
	if err != nil {
		return in, err
	}
	in.AccountID = acct

	if name := c.get(rec, ColCategory); name != "" {
		cat, err := ref.category(name)
		if err != nil {
			return in, err
		}
		in.CategoryID = &cat
	}

	cents, err := money.Parse(c.get(rec, ColAmount))
	if err != nil {
		return in, apperr.Validation(ColAmount, "%q is not an amount", c.get(rec, ColAmount))
	}
	in.AmountCent = store.Cents(cents)

	if in.Date, err = parseDate(c.get(rec, ColDate)); err != nil {
		return in, err
	}

	if s := c.get(rec, ColType); s != "" {
		t, err := parseType(s)
		if err != nil {
			return in, err
		}
		in.Type = t
	}

	in.Payee = c.get(rec, ColPayee)
	in.Description = c.get(rec, ColDescription)
	in.Notes = c.get(rec, ColNotes)
	in.Name = c.get(rec, ColName)
	if s := c.get(rec, ColTags); s != "" {
		in.Tags = strings.Split(s, ";")
	}
	return in, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, apperr.Validation(ColDate, "date is required")
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, apperr.Validation(ColDate, "%q is not a date", s)
}

// parseType accepts the known types except Transfer, whose legs only the
// transfer coordinator may create, and Initial, which account creation
// writes once per account.
func parseType(s string) (models.TxType, error) {
	for _, t := range []models.TxType{models.TxIncome, models.TxExpense, models.TxAdjustment, models.TxRefund} {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", apperr.Validation(ColType, "type %q cannot be imported", s)
}

type references struct {
	accounts   map[string]uint
	categories map[string]uint
}

func (im *Importer) references(ctx context.Context, tenantID string) (references, error) {
	ref := references{accounts: map[string]uint{}, categories: map[string]uint{}}
	accts, err := im.store.ListAccounts(ctx, tenantID)
	if err != nil {
		return ref, err
	}
	for _, a := range accts {
		ref.accounts[strings.ToLower(a.Name)] = a.ID
		ref.accounts["#"+strconv.FormatUint(uint64(a.ID), 10)] = a.ID
	}
	cats, err := im.store.ListCategories(ctx, tenantID)
	if err != nil {
		return ref, err
	}
	for _, c := range cats {
		ref.categories[strings.ToLower(c.Name)] = c.ID
		ref.categories["#"+strconv.FormatUint(uint64(c.ID), 10)] = c.ID
	}
	return ref, nil
}

// lookup resolves a name, case-insensitively, or a numeric id.
func lookup(m map[string]uint, kind, field, s string) (uint, error) {
	if s == "" {
		return 0, apperr.Validation(field, "%s is required", kind)
	}
	if id, ok := m[strings.ToLower(s)]; ok {
		return id, nil
	}
	if _, err := strconv.ParseUint(s, 10, 64); err == nil {
		if id, ok := m["#"+s]; ok {
			return id, nil
		}
	}
	return 0, apperr.Validation(field, "unknown %s %q", kind, s)
}

func (r references) account(s string) (uint, error) {
	return lookup(r.accounts, "account", ColAccount, s)
}

func (r references) category(s string) (uint, error) {
	return lookup(r.categories, "category", ColCategory, s)
}

// FileName is the download name of an export with extension ext.
func FileName(ext string) string {
	return fmt.Sprintf("transactions_%s.%s", time.Now().UTC().Format("20060102"), ext)
}
