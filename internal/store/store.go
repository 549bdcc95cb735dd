// Package store is the tenant-scoped ledger store: CRUD over transactions,
// accounts, categories and split groups on top of gorm. Every mutation runs
// inside Write, which serialises writers per tenant, commits all rows or
// none, and keeps each touched account's stored balance equal to its
// computed running balance.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/metrics"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
)

// Options tune a Store.
type Options struct {
	PageSize    int
	MaxPageSize int
	// DefaultCurrency is used for accounts opened without one. USD if empty.
	DefaultCurrency string
	Logger          *zap.Logger
}

// Store is safe for concurrent use.
type Store struct {
	db          *gorm.DB
	log         *zap.Logger
	pageSize    int
	maxPageSize int
	currency    string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(db *gorm.DB, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.MaxPageSize < opts.PageSize {
		opts.MaxPageSize = opts.PageSize
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}
	return &Store{
		db:          db,
		log:         opts.Logger.Named("store"),
		pageSize:    opts.PageSize,
		maxPageSize: opts.MaxPageSize,
		currency:    strings.ToUpper(opts.DefaultCurrency),
		locks:       make(map[string]*sync.Mutex),
	}
}

// DB exposes the handle for read-side components (view materialiser).
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) tenantLock(tenantID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[tenantID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[tenantID] = l
	}
	return l
}

// Write runs fn inside one database transaction for tenantID. Writers of
// the same tenant are serialised. If fn or the balance resynchronisation
// fails, nothing is persisted.
func (s *Store) Write(ctx context.Context, tenantID, op string, fn func(w *Writer) error) error {
	if tenantID == "" {
		return apperr.Validation("tenant_id", "tenant id is required")
	}

	l := s.tenantLock(tenantID)
	l.Lock()
	defer l.Unlock()

	start := time.Now()
	var created int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w := &Writer{tx: tx, tenantID: tenantID, touched: make(map[uint]struct{})}
		if err := fn(w); err != nil {
			return err
		}
		if err := w.syncBalances(); err != nil {
			return err
		}
		created = w.created
		return nil
	})
	err = translate(op, err)

	metrics.LedgerWriteDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.LedgerWrites.WithLabelValues(op, outcome(err)).Inc()
	if err != nil {
		s.log.Debug("ledger write rolled back",
			zap.String("op", op), zap.String("tenant", tenantID), zap.Error(err))
		return err
	}
	metrics.RowsWritten.WithLabelValues(op).Add(float64(created))
	s.log.Debug("ledger write committed",
		zap.String("op", op), zap.String("tenant", tenantID), zap.Int("created", created))
	return nil
}

// translate maps driver errors onto the apperr taxonomy and adds op context.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.IsValidation(err) || apperr.IsNotFound(err) || apperr.IsInvariant(err) || apperr.IsConcurrency(err) {
		return err
	}
	var se sqlite3.Error
	if errors.As(err, &se) && (se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked) {
		return apperr.Concurrency(op, err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("record", op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case apperr.IsValidation(err):
		return "validation"
	case apperr.IsNotFound(err):
		return "not_found"
	case apperr.IsInvariant(err):
		return "invariant"
	case apperr.IsConcurrency(err):
		return "conflict"
	}
	return "error"
}

// Create inserts one transaction.
func (s *Store) Create(ctx context.Context, in Insert) (*models.Transaction, error) {
	var out *models.Transaction
	err := s.Write(ctx, in.TenantID, "create", func(w *Writer) error {
		t, err := w.Create(in)
		out = t
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMultiple inserts every row of ins in one atomic batch. All rows must
// belong to tenantID.
func (s *Store) CreateMultiple(ctx context.Context, tenantID string, ins []Insert) ([]models.Transaction, error) {
	if len(ins) == 0 {
		return nil, apperr.Validation("rows", "at least one row is required")
	}
	out := make([]models.Transaction, 0, len(ins))
	err := s.Write(ctx, tenantID, "create_multiple", func(w *Writer) error {
		for i, in := range ins {
			if in.TenantID == "" {
				in.TenantID = tenantID
			}
			if in.TenantID != tenantID {
				return apperr.Validation(fmt.Sprintf("rows[%d].tenant_id", i), "row belongs to another tenant")
			}
			t, err := w.Create(in)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			out = append(out, *t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies u to transaction id.
func (s *Store) Update(ctx context.Context, tenantID string, id uint, u Update) (*models.Transaction, error) {
	var out *models.Transaction
	err := s.Write(ctx, tenantID, "update", func(w *Writer) error {
		t, err := w.Update(id, u)
		out = t
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Void marks a transaction (and its transfer sibling) void.
func (s *Store) Void(ctx context.Context, tenantID string, id uint) error {
	return s.Write(ctx, tenantID, "void", func(w *Writer) error { return w.Void(id) })
}

// SoftDelete hides a transaction (and its transfer sibling).
func (s *Store) SoftDelete(ctx context.Context, tenantID string, id uint) error {
	return s.Write(ctx, tenantID, "soft_delete", func(w *Writer) error { return w.SoftDelete(id) })
}

// Restore undoes SoftDelete.
func (s *Store) Restore(ctx context.Context, tenantID string, id uint) error {
	return s.Write(ctx, tenantID, "restore", func(w *Writer) error { return w.Restore(id) })
}

// HardDelete permanently removes a transaction (and its transfer sibling).
func (s *Store) HardDelete(ctx context.Context, tenantID string, id uint) error {
	return s.Write(ctx, tenantID, "hard_delete", func(w *Writer) error { return w.HardDelete(id) })
}
