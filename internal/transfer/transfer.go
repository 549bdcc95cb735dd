// Package transfer moves money between two accounts of one tenant as a
// pair of linked transactions that are always written together.
package transfer

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/money"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/store"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/view"
)

// Request describes a new transfer. AmountCent is a magnitude; its sign is
// ignored and the source leg always receives the negative amount.
type Request struct {
	TenantID             string
	SourceAccountID      uint
	DestinationAccountID uint
	AmountCent           int64
	Date                 time.Time
	CategoryID           *uint
	Payee                string
	Description          string
	Notes                string
	Name                 string
	Tags                 []string
	CreatedBy            string
}

// Change lists the transfer fields to rewrite on both legs. nil keeps the
// current value.
type Change struct {
	AmountCent           *int64
	Date                 *time.Time
	SourceAccountID      *uint
	DestinationAccountID *uint
	Payee                *string
	Description          *string
	Notes                *string
	Name                 *string
	Tags                 *[]string
}

type Coordinator struct {
	store *store.Store
	view  *view.Materializer
	log   *zap.Logger
}

func NewCoordinator(s *store.Store, v *view.Materializer, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{store: s, view: v, log: log.Named("transfer")}
}

// CreateTransfer writes both legs in one batch and returns them as
// (source, destination).
func (c *Coordinator) CreateTransfer(ctx context.Context, r Request) (*models.Transaction, *models.Transaction, error) {
	if r.SourceAccountID == r.DestinationAccountID {
		return nil, nil, apperr.Invariant(apperr.InvTransferPair,
			"source and destination account are both %d", r.SourceAccountID)
	}
	amount := money.Abs(r.AmountCent)
	if amount == 0 {
		return nil, nil, apperr.Validation("amount", "transfer amount must not be zero")
	}

	var src, dst *models.Transaction
	err := c.store.Write(ctx, r.TenantID, "create_transfer", func(w *store.Writer) error {
		leg := func(account, other uint, cents int64) (*models.Transaction, error) {
			return w.Create(store.Insert{
				AccountID:         account,
				CategoryID:        r.CategoryID,
				AmountCent:        store.Cents(cents),
				Date:              r.Date,
				Type:              models.TxTransfer,
				Payee:             r.Payee,
				Description:       r.Description,
				Notes:             r.Notes,
				Name:              r.Name,
				Tags:              r.Tags,
				CreatedBy:         r.CreatedBy,
				TransferAccountID: &other,
			})
		}
		var err error
		if src, err = leg(r.SourceAccountID, r.DestinationAccountID, -amount); err != nil {
			return err
		}
		if dst, err = leg(r.DestinationAccountID, r.SourceAccountID, amount); err != nil {
			return err
		}
		return w.Link(src, dst)
	})
	if err != nil {
		return nil, nil, err
	}
	c.log.Debug("transfer created",
		zap.String("tenant", r.TenantID),
		zap.Uint("source", src.ID),
		zap.Uint("destination", dst.ID),
		zap.String("amount", money.String(amount)))
	return src, dst, nil
}

// FindByTransferID returns the leg whose TransferID is id, that is the
// sibling of transaction id, with its own running balance.
func (c *Coordinator) FindByTransferID(ctx context.Context, tenantID string, id uint) (*view.Row, error) {
	return c.view.FindByTransferID(ctx, tenantID, id)
}

// Pair returns both legs of the transfer containing transaction id, source
// (negative) leg first.
func (c *Coordinator) Pair(ctx context.Context, tenantID string, id uint) (*models.Transaction, *models.Transaction, error) {
	t, err := c.store.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, nil, err
	}
	if !t.IsTransferLeg() {
		return nil, nil, apperr.Validation("id", "transaction %d is not a transfer", id)
	}
	s, err := c.store.FindByID(ctx, tenantID, *t.TransferID)
	if apperr.IsNotFound(err) {
		return nil, nil, apperr.Invariant(apperr.InvTransferPair, "transfer %d has no sibling %d", id, *t.TransferID)
	}
	if err != nil {
		return nil, nil, err
	}
	src, dst := ordered(t, s)
	return src, dst, nil
}

// Verify checks the pair invariant for the transfer containing id.
func (c *Coordinator) Verify(ctx context.Context, tenantID string, id uint) error {
	src, dst, err := c.Pair(ctx, tenantID, id)
	if err != nil {
		return err
	}
	return store.CheckPair(src, dst)
}

// UpdateTransfer applies ch to both legs in one write. A change that would
// break the pair is rejected and neither leg is modified.
func (c *Coordinator) UpdateTransfer(ctx context.Context, tenantID string, id uint, ch Change) (*models.Transaction, *models.Transaction, error) {
	var src, dst *models.Transaction
	err := c.store.Write(ctx, tenantID, "update_transfer", func(w *store.Writer) error {
		t, err := w.Get(id)
		if err != nil {
			return err
		}
		if !t.IsTransferLeg() {
			return apperr.Validation("id", "transaction %d is not a transfer", id)
		}
		s, err := w.Get(*t.TransferID)
		if apperr.IsNotFound(err) {
			return apperr.Invariant(apperr.InvTransferPair, "transfer %d has no sibling %d", id, *t.TransferID)
		}
		if err != nil {
			return err
		}
		src, dst = ordered(t, s)
		if err := apply(src, dst, ch); err != nil {
			return err
		}
		return w.SaveLegs(src, dst)
	})
	if err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}

// ordered returns the negative leg first.
func ordered(a, b *models.Transaction) (*models.Transaction, *models.Transaction) {
	if a.AmountCent > b.AmountCent {
		return b, a
	}
	return a, b
}

func apply(src, dst *models.Transaction, ch Change) error {
	if ch.AmountCent != nil {
		amount := money.Abs(*ch.AmountCent)
		if amount == 0 {
			return apperr.Validation("amount", "transfer amount must not be zero")
		}
		src.AmountCent, dst.AmountCent = -amount, amount
	}
	if ch.Date != nil {
		if ch.Date.IsZero() {
			return apperr.Validation("date", "date is required")
		}
		d := ch.Date.UTC()
		src.Date, dst.Date = d, d
	}
	if ch.SourceAccountID != nil {
		src.AccountID = *ch.SourceAccountID
	}
	if ch.DestinationAccountID != nil {
		dst.AccountID = *ch.DestinationAccountID
	}
	if src.AccountID == dst.AccountID {
		return apperr.Invariant(apperr.InvTransferPair, "source and destination account are both %d", src.AccountID)
	}
	srcAcct, dstAcct := src.AccountID, dst.AccountID
	src.TransferAccountID, dst.TransferAccountID = &dstAcct, &srcAcct

	for _, t := range []*models.Transaction{src, dst} {
		if ch.Payee != nil {
			t.Payee = strings.TrimSpace(*ch.Payee)
		}
		if ch.Description != nil {
			t.Description = strings.TrimSpace(*ch.Description)
		}
		if ch.Notes != nil {
			t.Notes = strings.TrimSpace(*ch.Notes)
		}
		if ch.Name != nil {
			t.Name = strings.TrimSpace(*ch.Name)
		}
		if ch.Tags != nil {
			t.Tags = append([]string(nil), (*ch.Tags)...)
		}
	}
	return nil
}
