package balance

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func tx(id uint, date string, amount int64, typ models.TxType) models.Transaction {
	d := day(date)
	return models.Transaction{ID: id, Date: d, CreatedAt: d, AmountCent: amount, Type: typ}
}

func scenario() []models.Transaction {
	return []models.Transaction{
		tx(3, "2024-01-15", 250000, models.TxIncome),
		tx(1, "2024-01-01", 50000, models.TxInitial),
		tx(2, "2024-01-05", -30000, models.TxExpense),
	}
}

func TestCompute_Scenario(t *testing.T) {
	txs := scenario()

	got := Compute(txs)
	assert.Equal(t, map[uint]int64{1: 50000, 2: 20000, 3: 270000}, got)
	assert.Equal(t, int64(270000), Current(txs, 0))

	// input untouched
	assert.Equal(t, uint(3), txs[0].ID)
}

func TestCompute_VoidAndDeletedDoNotMoveSum(t *testing.T) {
	txs := scenario()
	void := tx(4, "2024-01-10", -99999, models.TxExpense)
	void.IsVoid = true
	deleted := tx(5, "2024-01-12", 12345, models.TxIncome)
	deleted.DeletedAt = gorm.DeletedAt{Time: day("2024-02-01"), Valid: true}
	txs = append(txs, void, deleted)

	got := Compute(txs)
	assert.Equal(t, int64(20000), got[4], "void row carries the balance forward")
	assert.Equal(t, int64(20000), got[5], "deleted row carries the balance forward")
	assert.Equal(t, int64(270000), got[3])
	assert.Equal(t, int64(270000), Current(txs, 0))
}

func TestCurrent_Baseline(t *testing.T) {
	assert.Equal(t, int64(777), Current(nil, 777))

	only := tx(1, "2024-01-01", 100, models.TxIncome)
	only.IsVoid = true
	assert.Equal(t, int64(777), Current([]models.Transaction{only}, 777))
}

func TestCurrent_IndependentOfInputOrder(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	txs := randomLedger(r, 200)

	var want int64
	for _, t := range txs {
		if t.Counted() {
			want += t.AmountCent
		}
	}

	for i := 0; i < 20; i++ {
		r.Shuffle(len(txs), func(a, b int) { txs[a], txs[b] = txs[b], txs[a] })
		assert.Equal(t, want, Current(txs, 0))
		assert.Equal(t, Compute(txs), Compute(scenarioCopy(txs)))
	}
}

func scenarioCopy(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	return out
}

func TestAtDate_Inclusive(t *testing.T) {
	txs := scenario()
	d := day("2024-01-05")

	assert.Equal(t, int64(20000), AtDate(txs, d))
	assert.Equal(t, int64(50000), AtDate(txs, d.Add(-time.Nanosecond)))
	assert.Equal(t, int64(0), AtDate(txs, day("2023-12-31")))
}

func TestCompare_TieBreakers(t *testing.T) {
	base := day("2024-03-01")
	later := base.Add(time.Hour)

	a := models.Transaction{ID: 10, Date: base, CreatedAt: base, Type: models.TxIncome}
	b := a
	b.ID = 2
	assert.True(t, Less(&b, &a), "id breaks the final tie")

	b.Type = models.TxExpense
	b.ID = 99
	assert.True(t, Less(&b, &a), "type compares before id")

	b = a
	b.ID = 1
	b.UpdatedAt = &later
	assert.True(t, Less(&a, &b), "nil updated_at sorts first")

	b = a
	b.ID = 1
	b.CreatedAt = later
	assert.True(t, Less(&a, &b), "created_at compares before updated_at")
}

func TestCompare_StrictTotalOrder(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	txs := randomLedger(r, 120)

	for i := range txs {
		assert.Equal(t, 0, Compare(&txs[i], &txs[i]))
		for j := range txs {
			if i == j {
				continue
			}
			c := Compare(&txs[i], &txs[j])
			require.NotZero(t, c, "distinct transactions %d and %d compare equal", txs[i].ID, txs[j].ID)
			require.Equal(t, -c, Compare(&txs[j], &txs[i]), "antisymmetry")
		}
	}

	Sort(txs)
	for i := 1; i < len(txs); i++ {
		require.True(t, Less(&txs[i-1], &txs[i]))
	}
	desc := scenarioCopy(txs)
	SortDesc(desc)
	for i := range desc {
		require.Equal(t, txs[len(txs)-1-i].ID, desc[i].ID, "descending is the mirror image")
	}
}

type stubLoader struct {
	txs []models.Transaction
	err error
}

func (s stubLoader) AccountTransactions(context.Context, string, uint) ([]models.Transaction, error) {
	return s.txs, s.err
}

func TestScanEngine(t *testing.T) {
	e := NewScanEngine(stubLoader{txs: scenario()})
	got, err := e.RunningBalances(context.Background(), "t1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(270000), got[3])

	boom := errors.New("boom")
	_, err = NewScanEngine(stubLoader{err: boom}).RunningBalances(context.Background(), "t1", 1)
	assert.ErrorIs(t, err, boom)
}

// randomLedger builds rows with heavy key collisions so every tie-breaker is exercised.
func randomLedger(r *rand.Rand, n int) []models.Transaction {
	types := []models.TxType{models.TxIncome, models.TxExpense, models.TxTransfer, models.TxRefund}
	base := day("2024-01-01")
	out := make([]models.Transaction, 0, n)
	for i := 0; i < n; i++ {
		t := models.Transaction{
			ID:         uint(i + 1),
			Date:       base.AddDate(0, 0, r.IntN(5)),
			CreatedAt:  base.Add(time.Duration(r.IntN(3)) * time.Second),
			Type:       types[r.IntN(len(types))],
			AmountCent: r.Int64N(20000) - 10000,
			IsVoid:     r.IntN(10) == 0,
		}
		if r.IntN(3) == 0 {
			u := base.Add(time.Duration(r.IntN(2)) * time.Minute)
			t.UpdatedAt = &u
		}
		out = append(out, t)
	}
	return out
}
