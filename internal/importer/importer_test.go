package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/apperr"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/database/dbtest"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/store"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/view"
)

const tenant = "tenant-a"

func setup(t *testing.T) (*store.Store, *Importer, *models.Account) {
	t.Helper()
	ctx := context.Background()
	s := store.New(dbtest.Open(t), store.Options{PageSize: 2, MaxPageSize: 2})
	acct, _, err := s.CreateAccount(ctx, store.NewAccount{
		TenantID: tenant, Name: "Checking", OpeningCent: 10000,
		OpeningDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = s.CreateCategory(ctx, models.Category{TenantID: tenant, Name: "Food"})
	require.NoError(t, err)
	return s, New(s, view.New(s, store.NewSQLEngine(s)), nil), acct
}

func balanceOf(t *testing.T, s *store.Store, id uint) int64 {
	t.Helper()
	a, err := s.FindAccount(context.Background(), tenant, id)
	require.NoError(t, err)
	return a.BalanceCent
}

const sample = "\ufeffDate,Account,Category,Amount,Payee,Tags\n" +
	"2024-02-01,checking,Food,-12.50,Bakery,bread;weekly\n" +
	"2024-02-02,Checking,,100,Employer,\n" +
	",,,,,\n" +
	"2024-02-03,Savings,,5,Nobody,\n" +
	"2024-02-04,Checking,Food,abc,Shop,\n" +
	"02/05/2024,Checking,,1,Shop,\n" +
	"2024-02-06,Checking,Travel,-3,Taxi,\n"

func TestImportCSV_ReportsEveryRow(t *testing.T) {
	s, im, acct := setup(t)

	res, err := im.ImportCSV(context.Background(), tenant, strings.NewReader(sample), Options{CreatedBy: "cli"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 4, res.Failed)

	byLine := map[int]RowResult{}
	for _, r := range res.Rows {
		byLine[r.Line] = r
	}
	assert.NotZero(t, byLine[2].ID)
	assert.NotZero(t, byLine[3].ID)
	assert.Contains(t, byLine[5].Error, "unknown account")
	assert.Contains(t, byLine[6].Error, "not an amount")
	assert.Contains(t, byLine[7].Error, "not a date")
	assert.Contains(t, byLine[8].Error, "unknown category")

	tx, err := s.FindByID(context.Background(), tenant, byLine[2].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-1250), tx.AmountCent)
	assert.Equal(t, models.TxExpense, tx.Type)
	assert.Equal(t, []string{"bread", "weekly"}, tx.Tags)
	assert.Equal(t, "cli", tx.CreatedBy)
	require.NotNil(t, tx.CategoryID)

	assert.Equal(t, int64(10000-1250+10000), balanceOf(t, s, acct.ID))
}

func TestImportCSV_AllOrNothing(t *testing.T) {
	s, im, acct := setup(t)

	_, err := im.ImportCSV(context.Background(), tenant, strings.NewReader(sample), Options{AllOrNothing: true})
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, int64(10000), balanceOf(t, s, acct.ID))
}

func TestImportCSV_BadHeader(t *testing.T) {
	_, im, _ := setup(t)

	_, err := im.ImportCSV(context.Background(), tenant, strings.NewReader("date,amount\n2024-01-01,1\n"), Options{})
	assert.True(t, apperr.IsValidation(err))

	_, err = im.ImportCSV(context.Background(), tenant, strings.NewReader(""), Options{})
	assert.True(t, apperr.IsValidation(err))
}

func TestImportCSV_RejectsTransferAndInitialTypes(t *testing.T) {
	_, im, _ := setup(t)

	res, err := im.ImportCSV(context.Background(), tenant,
		strings.NewReader("date,account,amount,type\n"+
			"2024-01-05,Checking,-5,Transfer\n"+
			"2024-01-05,#1,7,refund\n"+
			"2024-01-01,Checking,100,Initial\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, 1, res.Imported)
}

func TestExportThenImport_KeepsOneOpeningRow(t *testing.T) {
	s, im, acct := setup(t)
	ctx := context.Background()
	_, err := s.Create(ctx, store.Insert{TenantID: tenant, AccountID: acct.ID, AmountCent: store.Cents(-700), Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, im.ExportCSV(ctx, tenant, view.Filter{}, &buf))
	res, err := im.ImportCSV(ctx, tenant, &buf, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Failed)

	openings, err := s.InitialTransactions(ctx, tenant, acct.ID)
	require.NoError(t, err)
	assert.Len(t, openings, 1)
}

func TestExportCSV_AllPages(t *testing.T) {
	_, im, _ := setup(t)
	ctx := context.Background()
	_, err := im.ImportCSV(ctx, tenant, strings.NewReader(sample), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, im.ExportCSV(ctx, tenant, view.Filter{}, &buf))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header plus three rows across two pages")
	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, []string{"2024-02-02", "Checking", "", "Income", "100.00", "187.50"}, records[1][:6])
	assert.Equal(t, "bread;weekly", records[2][11])
}

func TestExportXLSX_RoundTrip(t *testing.T) {
	s, im, acct := setup(t)
	ctx := context.Background()
	_, err := im.ImportCSV(ctx, tenant, strings.NewReader(sample), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, im.ExportXLSX(ctx, tenant, view.Filter{}, &buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{exportSheet}, f.GetSheetList())
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	require.NoError(t, f.Close())

	// Re-importing the export doubles every row, the opening one included.
	res, err := im.ImportXLSX(ctx, tenant, bytes.NewReader(buf.Bytes()), Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, 2*int64(10000-1250+10000), balanceOf(t, s, acct.ID))
}
