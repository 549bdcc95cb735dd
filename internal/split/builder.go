package split

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/money"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/store"
)

// Builder loads and commits drafts.
type Builder struct {
	store     *store.Store
	tolerance int64
	log       *zap.Logger
}

// NewBuilder returns a Builder accepting drafts off by at most
// toleranceCent from their total.
func NewBuilder(s *store.Store, toleranceCent int64, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	if toleranceCent < 0 {
		toleranceCent = 0
	}
	return &Builder{store: s, tolerance: toleranceCent, log: log.Named("split")}
}

// Commit writes every line of d under one group id and voids the
// superseded transactions, all in a single write. When d.GroupID names an
// existing group, its live lines are voided too so that only the new lines
// count. An unbalanced draft is rejected and nothing is stored. On success
// d.GroupID is set.
func (b *Builder) Commit(ctx context.Context, d *DraftSplitGroup) ([]models.Transaction, error) {
	if len(d.Lines) == 0 {
		return nil, apperr.Invariant(apperr.InvSplitNonEmpty, "a split needs at least one line")
	}
	if !d.Balanced(b.tolerance) {
		return nil, apperr.Invariant(apperr.InvSplitBalance, "lines sum to %s, total is %s",
			money.String(d.Sum()), money.String(d.Total))
	}

	groupID := d.GroupID
	if groupID == "" {
		groupID = uuid.NewString()
	}

	var out []models.Transaction
	err := b.store.Write(ctx, d.TenantID, "commit_split", func(w *store.Writer) error {
		for _, id := range d.Supersedes {
			old, err := w.Get(id)
			if err != nil {
				return err
			}
			if old.IsTransferLeg() {
				return apperr.Validation("supersedes", "transaction %d is a transfer and cannot be split", id)
			}
			if err := w.Void(id); err != nil {
				return err
			}
		}
		if d.GroupID != "" {
			members, err := w.GroupMembers(groupID)
			if err != nil {
				return err
			}
			for _, m := range members {
				if m.IsVoid {
					continue
				}
				if err := w.Void(m.ID); err != nil {
					return err
				}
			}
		}

		if err := w.SaveGroup(&models.TransactionGroup{
			ID:        groupID,
			Name:      strings.TrimSpace(d.GroupName),
			Icon:      d.GroupIcon,
			TotalCent: d.Total,
		}); err != nil {
			return err
		}

		out = make([]models.Transaction, 0, len(d.Lines))
		for i, l := range d.Lines {
			name := l.Name
			if name == "" {
				name = d.GroupName
			}
			t, err := w.Create(store.Insert{
				AccountID:   d.AccountID,
				CategoryID:  l.CategoryID,
				AmountCent:  store.Cents(l.AmountCent),
				Date:        d.Date,
				Type:        d.Type,
				Payee:       d.Payee,
				Description: d.Description,
				Notes:       l.Notes,
				Name:        name,
				Tags:        l.Tags,
				CreatedBy:   d.CreatedBy,
				GroupID:     &groupID,
			})
			if err != nil {
				return wrapLine(i, err)
			}
			out = append(out, *t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.GroupID = groupID
	b.log.Debug("split committed",
		zap.String("tenant", d.TenantID),
		zap.String("group", groupID),
		zap.Int("lines", len(out)),
		zap.Int("superseded", len(d.Supersedes)))
	return out, nil
}

func wrapLine(i int, err error) error {
	var v *apperr.ValidationError
	if errors.As(err, &v) {
		return apperr.Validation(v.Field, "line %d: %s", i+1, v.Message)
	}
	return err
}

// LoadDraft builds an edit-mode draft from transaction txID: the whole
// group when it belongs to one, otherwise the transaction alone. The
// loaded rows become the draft's Supersedes.
func (b *Builder) LoadDraft(ctx context.Context, tenantID string, txID uint) (*DraftSplitGroup, error) {
	t, err := b.store.FindByID(ctx, tenantID, txID)
	if err != nil {
		return nil, err
	}
	if t.IsTransferLeg() {
		return nil, apperr.Validation("id", "transaction %d is a transfer and cannot be split", txID)
	}

	d := &DraftSplitGroup{
		TenantID:    tenantID,
		AccountID:   t.AccountID,
		Date:        t.Date,
		Type:        t.Type,
		Payee:       t.Payee,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
	}
	members := []models.Transaction{*t}
	if t.GroupID != nil {
		g, err := b.store.FindGroup(ctx, tenantID, *t.GroupID)
		if err != nil {
			return nil, err
		}
		all, err := b.store.GroupMembers(ctx, tenantID, g.ID)
		if err != nil {
			return nil, err
		}
		members = members[:0]
		for _, m := range all {
			if !m.IsVoid {
				members = append(members, m)
			}
		}
		d.GroupID, d.GroupName, d.GroupIcon = g.ID, g.Name, g.Icon
		d.SetTotal(g.TotalCent)
	} else {
		d.SetTotal(t.AmountCent)
	}

	for _, m := range members {
		d.nextID++
		mode := d.Mode
		if m.AmountCent != 0 {
			mode = ModeOf(m.AmountCent)
		}
		d.Lines = append(d.Lines, Line{
			ID:         d.nextID,
			AmountCent: m.AmountCent,
			Mode:       mode,
			CategoryID: m.CategoryID,
			Name:       m.Name,
			Notes:      m.Notes,
			Tags:       m.Tags,
		})
		d.Supersedes = append(d.Supersedes, m.ID)
	}
	return d, nil
}
