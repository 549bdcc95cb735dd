package split

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
)

var date = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func TestDraft_AddLineTakesRemainder(t *testing.T) {
	d := NewDraft("t", 1, date, -9000)
	require.Len(t, d.Lines, 1)
	assert.Equal(t, int64(-9000), d.Lines[0].AmountCent)
	assert.Equal(t, Minus, d.Mode)

	got, err := d.EditLineAmount(d.Lines[0].ID, -6000)
	require.NoError(t, err)
	assert.Equal(t, int64(-6000), got)
	assert.Equal(t, int64(-3000), d.Remainder())

	second := d.AddLine()
	assert.Equal(t, int64(-3000), d.Lines[1].AmountCent)
	assert.Equal(t, 2, second)
	assert.True(t, d.Balanced(1))
	assert.Zero(t, d.Remainder())
}

func TestDraft_EditClampsToHeadroom(t *testing.T) {
	d := NewDraft("t", 1, date, -9000)
	first := d.Lines[0].ID
	_, err := d.EditLineAmount(first, -6000)
	require.NoError(t, err)
	second := d.AddLine()

	got, err := d.EditLineAmount(first, -10000)
	require.NoError(t, err)
	assert.Equal(t, int64(-6000), got, "headroom is |T| minus the other lines")

	// Sign of the input is ignored for a line in the global mode.
	got, err = d.EditLineAmount(second, 2500)
	require.NoError(t, err)
	assert.Equal(t, int64(-2500), got)
	assert.False(t, d.Balanced(1))
	assert.Equal(t, int64(-500), d.Remainder())
}

func TestDraft_HeadroomNeverNegative(t *testing.T) {
	d := NewDraft("t", 1, date, 1000)
	first := d.Lines[0].ID
	second := d.AddLine() // zero remainder
	require.NoError(t, d.SetLineMode(second, Minus))
	_, err := d.EditLineAmount(second, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(500), d.Sum())

	require.NoError(t, d.SetLineMode(second, Plus))
	_, err = d.EditLineAmount(second, 0)
	require.NoError(t, err)
	_, err = d.EditLineAmount(first, 99999)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), d.Lines[0].AmountCent)

	third := d.AddLine()
	require.NoError(t, d.SetLineMode(third, Minus))
	_, err = d.EditLineAmount(third, 3000)
	require.NoError(t, err)
	// |Sum of others| is 2000 > |T|, so the plus line is floored at zero.
	_, err = d.EditLineAmount(second, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), d.Lines[1].AmountCent)
}

func TestDraft_OppositeModeIsNotClamped(t *testing.T) {
	d := NewDraft("t", 1, date, -9000)
	refund := d.AddLine()
	require.NoError(t, d.SetLineMode(refund, Plus))

	got, err := d.EditLineAmount(refund, 50000)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), got)
	assert.Equal(t, int64(41000), d.Sum())
	assert.False(t, d.Balanced(1))

	require.NoError(t, d.SetLineMode(refund, Minus))
	assert.Equal(t, int64(-50000), d.Lines[1].AmountCent)
}

func TestDraft_RemoveLine(t *testing.T) {
	d := NewDraft("t", 1, date, -9000)
	first := d.Lines[0].ID
	_, err := d.EditLineAmount(first, -6000)
	require.NoError(t, err)
	second := d.AddLine()

	require.NoError(t, d.RemoveLine(first))
	assert.Equal(t, int64(-3000), d.Sum())

	err = d.RemoveLine(second)
	assert.True(t, apperr.IsInvariant(err))
	require.Len(t, d.Lines, 1, "the last line stays")
	assert.Equal(t, int64(-3000), d.Lines[0].AmountCent)

	assert.True(t, apperr.IsNotFound(d.RemoveLine(42)))
	_, err = d.EditLineAmount(42, 1)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDraft_SetLineDetails(t *testing.T) {
	d := NewDraft("t", 1, date, 500)
	cat := uint(3)
	tags := []string{"a"}
	require.NoError(t, d.SetLineDetails(d.Lines[0].ID, LineDetails{CategoryID: &cat, Name: " Lunch ", Tags: tags}))
	tags[0] = "changed"
	assert.Equal(t, "Lunch", d.Lines[0].Name)
	assert.Equal(t, []string{"a"}, d.Lines[0].Tags)
	assert.Equal(t, &cat, d.Lines[0].CategoryID)
}

func TestDraftFromLines(t *testing.T) {
	d := DraftFromLines("t", 1, date, -9000, []Line{
		{AmountCent: -10000, Name: "Shoes"},
		{AmountCent: 1000, Name: "Coupon"},
		{AmountCent: 0},
	})
	require.Len(t, d.Lines, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{d.Lines[0].ID, d.Lines[1].ID, d.Lines[2].ID})
	assert.Equal(t, Minus, d.Lines[0].Mode)
	assert.Equal(t, Plus, d.Lines[1].Mode)
	assert.Equal(t, Minus, d.Lines[2].Mode)
	assert.True(t, d.Balanced(0))

	id := d.AddLine()
	assert.Equal(t, 4, id)
}
