package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/balance"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/database/dbtest"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
)

const tenant = "tenant-a"

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(dbtest.Open(t), Options{PageSize: 10, MaxPageSize: 50})
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func openAccount(t *testing.T, s *Store, tenantID, name string, opening int64) *models.Account {
	t.Helper()
	a, _, err := s.CreateAccount(context.Background(), NewAccount{
		TenantID:    tenantID,
		Name:        name,
		OpeningCent: opening,
		OpeningDate: day("2024-01-01"),
	})
	require.NoError(t, err)
	return a
}

func storedBalance(t *testing.T, s *Store, tenantID string, id uint) int64 {
	t.Helper()
	a, err := s.FindAccount(context.Background(), tenantID, id)
	require.NoError(t, err)
	return a.BalanceCent
}

func TestCreateAccount_WritesOpeningTransaction(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	a, opening, err := s.CreateAccount(ctx, NewAccount{TenantID: tenant, Name: " Checking ", OpeningCent: 50000, OpeningDate: day("2024-01-01")})
	require.NoError(t, err)
	assert.Equal(t, "Checking", a.Name)
	assert.Equal(t, "USD", a.Currency)
	assert.Equal(t, models.TxInitial, opening.Type)
	assert.Equal(t, int64(50000), opening.AmountCent)
	assert.Equal(t, int64(50000), storedBalance(t, s, tenant, a.ID))

	_, _, err = s.CreateAccount(ctx, NewAccount{TenantID: tenant})
	assert.True(t, apperr.IsValidation(err))
}

func TestCreate_Normalizes(t *testing.T) {
	s := newStore(t)
	a := openAccount(t, s, tenant, "Checking", 0)

	tx, err := s.Create(context.Background(), Insert{
		TenantID:  tenant,
		AccountID: a.ID,
		Amount:    "not-a-number",
		Date:      time.Date(2024, 2, 1, 10, 0, 0, 0, time.FixedZone("X", 3600)),
		Payee:     "  Corner Shop ",
		Tags:      []string{"food", " food", "", "weekly"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), tx.AmountCent)
	assert.Equal(t, models.TxIncome, tx.Type)
	assert.Equal(t, "Corner Shop", tx.Payee)
	assert.Equal(t, "Corner Shop", tx.Name)
	assert.Equal(t, []string{"food", "weekly"}, tx.Tags)
	assert.Equal(t, time.UTC, tx.Date.Location())
	assert.Nil(t, tx.UpdatedAt)

	got, err := s.FindByID(context.Background(), tenant, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"food", "weekly"}, got.Tags)

	neg, err := s.Create(context.Background(), Insert{TenantID: tenant, AccountID: a.ID, Amount: "-12.345", Date: day("2024-02-02")})
	require.NoError(t, err)
	assert.Equal(t, int64(-1235), neg.AmountCent)
	assert.Equal(t, models.TxExpense, neg.Type)
	assert.Equal(t, int64(-1235), storedBalance(t, s, tenant, a.ID))
}

func TestCreate_Validation(t *testing.T) {
	s := newStore(t)
	a := openAccount(t, s, tenant, "Checking", 0)
	other := openAccount(t, s, "tenant-b", "Foreign", 0)
	missingCat := uint(999)

	tests := []struct {
		name string
		in   Insert
	}{
		{"no tenant", Insert{AccountID: a.ID, Date: day("2024-01-02")}},
		{"no account", Insert{TenantID: tenant, Date: day("2024-01-02")}},
		{"no date", Insert{TenantID: tenant, AccountID: a.ID}},
		{"unknown account", Insert{TenantID: tenant, AccountID: 4242, Date: day("2024-01-02")}},
		{"other tenant's account", Insert{TenantID: tenant, AccountID: other.ID, Date: day("2024-01-02")}},
		{"unknown category", Insert{TenantID: tenant, AccountID: a.ID, CategoryID: &missingCat, Date: day("2024-01-02")}},
		{"bad type", Insert{TenantID: tenant, AccountID: a.ID, Type: "Gift", Date: day("2024-01-02")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err), "got %v", err)
		})
	}
}

func TestCreateMultiple_IsAtomic(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := openAccount(t, s, tenant, "Checking", 10000)

	_, err := s.CreateMultiple(ctx, tenant, []Insert{
		{AccountID: a.ID, AmountCent: Cents(-2000), Date: day("2024-01-03")},
		{AccountID: a.ID, AmountCent: Cents(-3000), Date: day("2024-01-04")},
		{AccountID: 777, AmountCent: Cents(-1), Date: day("2024-01-05")},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	txs, err := s.AccountTransactions(ctx, tenant, a.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1, "only the opening row remains")
	assert.Equal(t, int64(10000), storedBalance(t, s, tenant, a.ID))

	rows, err := s.CreateMultiple(ctx, tenant, []Insert{
		{AccountID: a.ID, AmountCent: Cents(-2000), Date: day("2024-01-03")},
		{AccountID: a.ID, AmountCent: Cents(-3000), Date: day("2024-01-04")},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(5000), storedBalance(t, s, tenant, a.ID))

	_, err = s.CreateMultiple(ctx, tenant, []Insert{{TenantID: "tenant-b", AccountID: a.ID, Date: day("2024-01-03")}})
	assert.True(t, apperr.IsValidation(err))
	_, err = s.CreateMultiple(ctx, tenant, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestUpdate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := openAccount(t, s, tenant, "Checking", 0)
	b := openAccount(t, s, tenant, "Cash", 0)
	tx, err := s.Create(ctx, Insert{TenantID: tenant, AccountID: a.ID, AmountCent: Cents(-500), Date: day("2024-01-02"), Payee: "Cafe"})
	require.NoError(t, err)

	id := uint(5)
	now := time.Now()
	who := "mallory"
	other := "tenant-b"
	for _, u := range []Update{{ID: &id}, {CreatedAt: &now}, {CreatedBy: &who}, {TenantID: &other}} {
		_, err := s.Update(ctx, tenant, tx.ID, u)
		assert.True(t, apperr.IsValidation(err), "immutable field accepted: %+v", u)
	}

	_, err = s.Update(ctx, tenant, 9999, Update{Notes: strPtr("x")})
	assert.True(t, apperr.IsNotFound(err))
	_, err = s.Update(ctx, "tenant-b", tx.ID, Update{Notes: strPtr("x")})
	assert.True(t, apperr.IsNotFound(err), "other tenants cannot see the row")

	amount := "-7.50"
	got, err := s.Update(ctx, tenant, tx.ID, Update{Amount: &amount, AccountID: &b.ID, Notes: strPtr(" lunch ")})
	require.NoError(t, err)
	assert.Equal(t, int64(-750), got.AmountCent)
	assert.Equal(t, "lunch", got.Notes)
	require.NotNil(t, got.UpdatedAt)
	assert.Equal(t, tx.CreatedAt.Unix(), got.CreatedAt.Unix())
	assert.Equal(t, int64(0), storedBalance(t, s, tenant, a.ID), "old account resynced")
	assert.Equal(t, int64(-750), storedBalance(t, s, tenant, b.ID))
}

func strPtr(s string) *string { return &s }

func TestVoidDeleteRestore(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := openAccount(t, s, tenant, "Checking", 10000)
	tx, err := s.Create(ctx, Insert{TenantID: tenant, AccountID: a.ID, AmountCent: Cents(-2500), Date: day("2024-01-02")})
	require.NoError(t, err)
	assert.Equal(t, int64(7500), storedBalance(t, s, tenant, a.ID))

	require.NoError(t, s.Void(ctx, tenant, tx.ID))
	assert.Equal(t, int64(10000), storedBalance(t, s, tenant, a.ID))
	got, err := s.FindByID(ctx, tenant, tx.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVoid, "void rows stay readable for audit")

	_, err = s.Update(ctx, tenant, tx.ID, Update{IsVoid: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, int64(7500), storedBalance(t, s, tenant, a.ID))

	require.NoError(t, s.SoftDelete(ctx, tenant, tx.ID))
	_, err = s.FindByID(ctx, tenant, tx.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, int64(10000), storedBalance(t, s, tenant, a.ID))

	require.NoError(t, s.Restore(ctx, tenant, tx.ID))
	_, err = s.FindByID(ctx, tenant, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), storedBalance(t, s, tenant, a.ID))

	require.NoError(t, s.HardDelete(ctx, tenant, tx.ID))
	assert.True(t, apperr.IsNotFound(s.Restore(ctx, tenant, tx.ID)))
	assert.Equal(t, int64(10000), storedBalance(t, s, tenant, a.ID))

	assert.True(t, apperr.IsNotFound(s.Void(ctx, tenant, 31337)))
}

func TestOpeningTransactionIsUnique(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := openAccount(t, s, tenant, "Checking", 10000)
	b := openAccount(t, s, tenant, "Savings", 0)

	_, err := s.Create(ctx, Insert{TenantID: tenant, AccountID: a.ID, AmountCent: Cents(500), Date: day("2024-01-03"), Type: models.TxInitial})
	assert.True(t, apperr.IsValidation(err), "second opening row: %v", err)

	tx, err := s.Create(ctx, Insert{TenantID: tenant, AccountID: a.ID, AmountCent: Cents(-100), Date: day("2024-01-03")})
	require.NoError(t, err)
	initial := models.TxInitial
	_, err = s.Update(ctx, tenant, tx.ID, Update{Type: &initial})
	assert.True(t, apperr.IsValidation(err), "retyped to Initial: %v", err)

	openings, err := s.InitialTransactions(ctx, tenant, a.ID)
	require.NoError(t, err)
	require.Len(t, openings, 1)
	_, err = s.Update(ctx, tenant, openings[0].ID, Update{AccountID: &b.ID})
	assert.True(t, apperr.IsValidation(err), "moved onto an account with an opening row: %v", err)
	_, err = s.Update(ctx, tenant, openings[0].ID, Update{Notes: strPtr("ok")})
	require.NoError(t, err, "the opening row itself stays editable")

	// a deleted opening row frees the slot; restoring it then conflicts
	require.NoError(t, s.SoftDelete(ctx, tenant, openings[0].ID))
	_, err = s.Create(ctx, Insert{TenantID: tenant, AccountID: a.ID, AmountCent: Cents(700), Date: day("2024-01-01"), Type: models.TxInitial})
	require.NoError(t, err)
	assert.True(t, apperr.IsValidation(s.Restore(ctx, tenant, openings[0].ID)))

	openings, err = s.InitialTransactions(ctx, tenant, a.ID)
	require.NoError(t, err)
	assert.Len(t, openings, 1)
}

func boolPtr(b bool) *bool { return &b }

func TestLinkedLegsCascade(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := openAccount(t, s, tenant, "Checking", 100000)
	b := openAccount(t, s, tenant, "Savings", 0)

	var src, dst *models.Transaction
	err := s.Write(ctx, tenant, "transfer", func(w *Writer) error {
		var err error
		if src, err = w.Create(Insert{AccountID: a.ID, AmountCent: Cents(-50000), Date: day("2024-01-10"), Type: models.TxTransfer}); err != nil {
			return err
		}
		if dst, err = w.Create(Insert{AccountID: b.ID, AmountCent: Cents(50000), Date: day("2024-01-10"), Type: models.TxTransfer}); err != nil {
			return err
		}
		return w.Link(src, dst)
	})
	require.NoError(t, err)

	_, err = s.Update(ctx, tenant, src.ID, Update{AmountCent: Cents(-1)})
	assert.True(t, apperr.IsInvariant(err), "money changes on one leg are refused")
	_, err = s.Update(ctx, tenant, src.ID, Update{Notes: strPtr("rent pot")})
	require.NoError(t, err)

	require.NoError(t, s.SoftDelete(ctx, tenant, dst.ID))
	_, err = s.FindByID(ctx, tenant, src.ID)
	assert.True(t, apperr.IsNotFound(err), "sibling deleted with it")
	assert.Equal(t, int64(100000), storedBalance(t, s, tenant, a.ID))
	assert.Equal(t, int64(0), storedBalance(t, s, tenant, b.ID))

	require.NoError(t, s.Restore(ctx, tenant, src.ID))
	sib, err := s.FindByTransferID(ctx, tenant, src.ID)
	require.NoError(t, err)
	assert.Equal(t, dst.ID, sib.ID)
	assert.Equal(t, int64(50000), storedBalance(t, s, tenant, b.ID))

	require.NoError(t, s.Void(ctx, tenant, src.ID))
	sib, err = s.FindByID(ctx, tenant, dst.ID)
	require.NoError(t, err)
	assert.True(t, sib.IsVoid)
}

func TestLink_RejectsSameAccount(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := openAccount(t, s, tenant, "Checking", 0)

	err := s.Write(ctx, tenant, "transfer", func(w *Writer) error {
		x, err := w.Create(Insert{AccountID: a.ID, AmountCent: Cents(-100), Date: day("2024-01-10")})
		if err != nil {
			return err
		}
		y, err := w.Create(Insert{AccountID: a.ID, AmountCent: Cents(100), Date: day("2024-01-10")})
		if err != nil {
			return err
		}
		return w.Link(x, y)
	})
	assert.True(t, apperr.IsInvariant(err))

	txs, err := s.AccountTransactions(ctx, tenant, a.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1, "rolled back")
}

func TestFindAll_FiltersAndOrder(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := openAccount(t, s, tenant, "Checking", 0)
	b := openAccount(t, s, tenant, "Cash", 0)
	cat, err := s.CreateCategory(ctx, models.Category{TenantID: tenant, Name: "Food"})
	require.NoError(t, err)

	_, err = s.CreateMultiple(ctx, tenant, []Insert{
		{AccountID: a.ID, AmountCent: Cents(-1200), Date: day("2024-03-01"), Name: "Groceries 100%", CategoryID: &cat.ID},
		{AccountID: a.ID, AmountCent: Cents(-800), Date: day("2024-03-02"), Name: "Bakery", Description: "bread_and_more"},
		{AccountID: b.ID, AmountCent: Cents(300000), Date: day("2024-03-05"), Name: "Salary"},
		{AccountID: a.ID, AmountCent: Cents(-1200), Date: day("2024-03-09"), Name: "groceries"},
	})
	require.NoError(t, err)

	page, err := s.FindAll(ctx, tenant, Filter{AccountID: &a.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total, "three rows plus the opening row")
	assert.Equal(t, "groceries", page.Items[0].Name, "newest first")

	start, end := day("2024-03-02"), day("2024-03-05")
	page, err = s.FindAll(ctx, tenant, Filter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total, "date bounds are inclusive")

	page, err = s.FindAll(ctx, tenant, Filter{NameContains: "GROCER"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = s.FindAll(ctx, tenant, Filter{NameContains: "100%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total, "wildcards are literal")

	page, err = s.FindAll(ctx, tenant, Filter{DescriptionContains: "d_a"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	amount := int64(-1200)
	page, err = s.FindAll(ctx, tenant, Filter{Amount: &amount, CategoryID: &cat.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	typ := models.TxInitial
	page, err = s.FindAll(ctx, tenant, Filter{Type: &typ})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = s.FindAll(ctx, tenant, Filter{Offset: 4, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(6), page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Limit)

	page, err = s.FindAll(ctx, "tenant-b", Filter{})
	require.NoError(t, err)
	assert.Zero(t, page.Total, "tenants are isolated")

	_, limit := s.Window(Filter{Limit: 1000})
	assert.Equal(t, 50, limit)
}

// Both engines must produce identical running-balance maps.
func TestSQLEngineMatchesScan(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := openAccount(t, s, tenant, "Checking", 12345)
	b := openAccount(t, s, tenant, "Savings", 0)

	r := rand.New(rand.NewPCG(3, 5))
	types := []models.TxType{models.TxIncome, models.TxExpense, models.TxRefund, models.TxAdjustment}
	var ins []Insert
	for i := 0; i < 150; i++ {
		acct := a.ID
		if r.IntN(4) == 0 {
			acct = b.ID
		}
		ins = append(ins, Insert{
			AccountID:  acct,
			AmountCent: Cents(r.Int64N(100000) - 50000),
			// few distinct dates so created_at/type/id tie-breaks matter
			Date: day("2024-01-01").AddDate(0, 0, r.IntN(4)),
			Type: types[r.IntN(len(types))],
		})
	}
	rows, err := s.CreateMultiple(ctx, tenant, ins)
	require.NoError(t, err)
	for i, row := range rows {
		switch i % 9 {
		case 0:
			require.NoError(t, s.Void(ctx, tenant, row.ID))
		case 4:
			require.NoError(t, s.SoftDelete(ctx, tenant, row.ID))
		case 7:
			_, err := s.Update(ctx, tenant, row.ID, Update{Notes: strPtr("touched")})
			require.NoError(t, err)
		}
	}

	sqlEngine := NewSQLEngine(s)
	scanEngine := balance.NewScanEngine(s)
	for _, acct := range []uint{a.ID, b.ID} {
		fromSQL, err := sqlEngine.RunningBalances(ctx, tenant, acct)
		require.NoError(t, err)
		fromScan, err := scanEngine.RunningBalances(ctx, tenant, acct)
		require.NoError(t, err)
		require.Equal(t, fromScan, fromSQL, "account %d", acct)

		txs, err := s.AccountTransactions(ctx, tenant, acct)
		require.NoError(t, err)
		assert.Equal(t, balance.Current(txs, 0), storedBalance(t, s, tenant, acct), "stored equals computed")
	}
}

// Rows sharing date and created_at are ordered by updated_at (nil first),
// then type, then id, in both engines.
func TestSQLEngineMatchesScan_TieBreaks(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := openAccount(t, s, tenant, "Checking", 0)

	stamp := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	later := stamp.Add(time.Hour)
	types := []models.TxType{models.TxRefund, models.TxExpense, models.TxIncome, models.TxExpense, models.TxAdjustment, models.TxIncome}
	var ins []Insert
	for i, typ := range types {
		ins = append(ins, Insert{
			AccountID:  a.ID,
			AmountCent: Cents(int64((i + 1) * 100)),
			Date:       day("2024-02-01"),
			Type:       typ,
		})
	}
	rows, err := s.CreateMultiple(ctx, tenant, ins)
	require.NoError(t, err)

	db := s.DB().Session(&gorm.Session{})
	for i, row := range rows {
		cols := map[string]any{"created_at": stamp, "updated_at": nil}
		if i%2 == 1 {
			cols["updated_at"] = later
		}
		require.NoError(t, db.Model(&models.Transaction{}).Where("id = ?", row.ID).UpdateColumns(cols).Error)
	}
	require.NoError(t, s.Void(ctx, tenant, rows[2].ID))
	// Void stamps updated_at; put the tie back.
	require.NoError(t, db.Model(&models.Transaction{}).Where("id = ?", rows[2].ID).
		UpdateColumn("updated_at", nil).Error)

	fromSQL, err := NewSQLEngine(s).RunningBalances(ctx, tenant, a.ID)
	require.NoError(t, err)
	fromScan, err := balance.NewScanEngine(s).RunningBalances(ctx, tenant, a.ID)
	require.NoError(t, err)
	require.Equal(t, fromScan, fromSQL)

	// nil updated_at first: rows 0 (Refund), 2 (Income, void), 4 (Adjustment)
	// order by type: Adjustment 500, Income void, Refund 100
	// then updated rows 1 (Expense), 3 (Expense), 5 (Income): by type then id
	assert.Equal(t, int64(500), fromScan[rows[4].ID])
	assert.Equal(t, int64(500), fromScan[rows[2].ID])
	assert.Equal(t, int64(600), fromScan[rows[0].ID])
	assert.Equal(t, int64(800), fromScan[rows[1].ID])
	assert.Equal(t, int64(1200), fromScan[rows[3].ID])
	assert.Equal(t, int64(1800), fromScan[rows[5].ID])
}

func TestConcurrentWritersSameTenant(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := openAccount(t, s, tenant, "Checking", 0)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Create(ctx, Insert{TenantID: tenant, AccountID: a.ID, AmountCent: Cents(100), Date: day("2024-01-02"), Name: fmt.Sprint(i)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2000), storedBalance(t, s, tenant, a.ID))
}

func TestAccountsAndCategories(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := openAccount(t, s, tenant, "Checking", 0)
	openAccount(t, s, tenant, "Cash", 0)

	order := -1
	upd, err := s.UpdateAccount(ctx, tenant, a.ID, AccountChange{Name: strPtr("Main"), Currency: strPtr("eur"), DisplayOrder: &order})
	require.NoError(t, err)
	assert.Equal(t, "Main", upd.Name)
	assert.Equal(t, "EUR", upd.Currency)

	list, err := s.ListAccounts(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Main", list[0].Name)

	require.NoError(t, s.DeleteAccount(ctx, tenant, a.ID))
	_, err = s.FindAccount(ctx, tenant, a.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(s.DeleteAccount(ctx, tenant, a.ID)))
	_, err = s.Create(ctx, Insert{TenantID: tenant, AccountID: a.ID, Date: day("2024-01-02")})
	assert.True(t, apperr.IsValidation(err), "deleted accounts take no new rows")

	_, err = s.CreateCategory(ctx, models.Category{TenantID: tenant, Name: "  "})
	assert.True(t, apperr.IsValidation(err))
	c, err := s.CreateCategory(ctx, models.Category{TenantID: tenant, Name: "Rent", Icon: "house"})
	require.NoError(t, err)
	got, err := s.FindCategory(ctx, tenant, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "house", got.Icon)
	_, err = s.FindCategory(ctx, "tenant-b", c.ID)
	assert.True(t, apperr.IsNotFound(err))
}
