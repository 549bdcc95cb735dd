// Package split edits and commits split transactions: one economic event
// broken into line items that together equal a declared total.
//
// A DraftSplitGroup is owned by the caller and only ever touches storage
// through Builder.Commit.
package split

import (
	"slices"
	"strings"
	"time"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/money"
)

// Mode is the sign convention of a total or a line.
type Mode int

const (
	Minus Mode = iota
	Plus
)

func (m Mode) String() string {
	if m == Minus {
		return "minus"
	}
	return "plus"
}

// ModeOf returns Minus for negative amounts and Plus otherwise.
func ModeOf(cents int64) Mode {
	if cents < 0 {
		return Minus
	}
	return Plus
}

func (m Mode) sign(magnitude int64) int64 {
	if m == Minus {
		return -magnitude
	}
	return magnitude
}

// Line is one item of the split. ID is local to the draft.
type Line struct {
	ID         int
	AmountCent int64
	Mode       Mode
	CategoryID *uint
	Name       string
	Notes      string
	Tags       []string
}

// LineDetails are the non-monetary fields of a line.
type LineDetails struct {
	CategoryID *uint
	Name       string
	Notes      string
	Tags       []string
}

// DraftSplitGroup is a split being edited. Lines keep insertion order.
type DraftSplitGroup struct {
	TenantID    string
	AccountID   uint
	Date        time.Time
	Type        models.TxType
	Payee       string
	Description string
	CreatedBy   string
	GroupName   string
	GroupIcon   string

	// Total is the declared amount of the event, signed by Mode.
	Total int64
	Mode  Mode
	Lines []Line

	// GroupID is set when editing an existing group.
	GroupID string
	// Supersedes lists the transactions the commit replaces; they are voided.
	Supersedes []uint

	nextID int
}

// NewDraft starts a draft with a single line carrying the whole total.
func NewDraft(tenantID string, accountID uint, date time.Time, total int64) *DraftSplitGroup {
	d := &DraftSplitGroup{
		TenantID:  tenantID,
		AccountID: accountID,
		Date:      date,
		Total:     total,
		Mode:      ModeOf(total),
	}
	d.AddLine()
	return d
}

// DraftFromLines builds a draft from finished lines, such as a split
// submitted in one request. Amounts are kept as given and each line's mode
// follows its sign, zero lines taking the global mode. Commit still checks
// balance.
func DraftFromLines(tenantID string, accountID uint, date time.Time, total int64, lines []Line) *DraftSplitGroup {
	d := &DraftSplitGroup{
		TenantID:  tenantID,
		AccountID: accountID,
		Date:      date,
		Total:     total,
		Mode:      ModeOf(total),
	}
	for _, l := range lines {
		d.nextID++
		l.ID = d.nextID
		l.Mode = ModeOf(l.AmountCent)
		if l.AmountCent == 0 {
			l.Mode = d.Mode
		}
		l.Tags = slices.Clone(l.Tags)
		d.Lines = append(d.Lines, l)
	}
	return d
}

// Sum is the signed sum of all lines.
func (d *DraftSplitGroup) Sum() int64 {
	var sum int64
	for _, l := range d.Lines {
		sum += l.AmountCent
	}
	return sum
}

// Remainder is what the lines still lack to reach Total.
func (d *DraftSplitGroup) Remainder() int64 {
	return d.Total - d.Sum()
}

// Balanced reports whether the lines add up to Total within tolerance.
func (d *DraftSplitGroup) Balanced(toleranceCent int64) bool {
	return money.Abs(d.Remainder()) <= toleranceCent
}

// SetTotal changes the declared total; the global mode follows its sign.
func (d *DraftSplitGroup) SetTotal(total int64) {
	d.Total = total
	d.Mode = ModeOf(total)
}

// AddLine appends a line holding the current remainder and returns its id.
func (d *DraftSplitGroup) AddLine() int {
	d.nextID++
	d.Lines = append(d.Lines, Line{
		ID:         d.nextID,
		AmountCent: d.Remainder(),
		Mode:       d.Mode,
	})
	return d.nextID
}

func (d *DraftSplitGroup) line(id int) (*Line, error) {
	for i := range d.Lines {
		if d.Lines[i].ID == id {
			return &d.Lines[i], nil
		}
	}
	return nil, apperr.NotFound("split line", id)
}

// EditLineAmount sets a line's amount and returns the value stored. A line
// following the global mode is clamped to the headroom left by the other
// lines; a line switched to the opposite sign is taken as is.
func (d *DraftSplitGroup) EditLineAmount(id int, cents int64) (int64, error) {
	l, err := d.line(id)
	if err != nil {
		return 0, err
	}
	magnitude := money.Abs(cents)
	if l.Mode == d.Mode {
		headroom := money.Abs(d.Total) - money.Abs(d.Sum()-l.AmountCent)
		magnitude = min(magnitude, max(headroom, 0))
	}
	l.AmountCent = l.Mode.sign(magnitude)
	return l.AmountCent, nil
}

// SetLineMode switches the sign of a line.
func (d *DraftSplitGroup) SetLineMode(id int, m Mode) error {
	l, err := d.line(id)
	if err != nil {
		return err
	}
	l.Mode = m
	l.AmountCent = m.sign(money.Abs(l.AmountCent))
	return nil
}

func (d *DraftSplitGroup) SetLineDetails(id int, det LineDetails) error {
	l, err := d.line(id)
	if err != nil {
		return err
	}
	l.CategoryID = det.CategoryID
	l.Name = strings.TrimSpace(det.Name)
	l.Notes = strings.TrimSpace(det.Notes)
	l.Tags = slices.Clone(det.Tags)
	return nil
}

// RemoveLine drops a line. The last line cannot be removed.
func (d *DraftSplitGroup) RemoveLine(id int) error {
	if _, err := d.line(id); err != nil {
		return err
	}
	if len(d.Lines) == 1 {
		return apperr.Invariant(apperr.InvSplitNonEmpty, "a split needs at least one line")
	}
	d.Lines = slices.DeleteFunc(d.Lines, func(l Line) bool { return l.ID == id })
	return nil
}
