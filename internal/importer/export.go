package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/view"
)

const exportSheet = "Transactions"

var exportHeader = []string{
	"date", "account", "category", "type", "amount", "running_balance",
	"currency", "payee", "description", "notes", "name", "tags", "void", "group",
}

// rows walks every page of the filtered view, newest first.
func (im *Importer) rows(ctx context.Context, tenantID string, f view.Filter, fn func(view.Row) error) error {
	f.Offset = 0
	for {
		page, err := im.view.ListView(ctx, tenantID, f)
		if err != nil {
			return err
		}
		for _, r := range page.Items {
			if err := fn(r); err != nil {
				return err
			}
		}
		f.Offset += len(page.Items)
		if len(page.Items) == 0 || int64(f.Offset) >= page.Total {
			return nil
		}
	}
}

func record(r view.Row) []string {
	void := ""
	if r.IsVoid {
		void = "yes"
	}
	return []string{
		r.Date.Format("2006-01-02"),
		r.AccountName,
		r.CategoryName,
		string(r.Type),
		r.Amount,
		r.RunningBalance,
		r.Currency,
		r.Payee,
		r.Description,
		r.Notes,
		r.Name,
		strings.Join(r.Tags, ";"),
		void,
		r.GroupName,
	}
}

// ExportCSV writes the filtered view as CSV with a UTF-8 BOM so that
// spreadsheet tools detect the encoding.
func (im *Importer) ExportCSV(ctx context.Context, tenantID string, f view.Filter, w io.Writer) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	err := im.rows(ctx, tenantID, f, func(r view.Row) error {
		return cw.Write(record(r))
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// ExportXLSX writes the filtered view as a single-sheet workbook.
func (im *Importer) ExportXLSX(ctx context.Context, tenantID string, f view.Filter, w io.Writer) error {
	x := excelize.NewFile()
	defer x.Close()

	if _, err := x.NewSheet(exportSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := x.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	idx, err := x.GetSheetIndex(exportSheet)
	if err != nil {
		return err
	}
	x.SetActiveSheet(idx)

	if err := x.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return err
	}
	line := 2
	err = im.rows(ctx, tenantID, f, func(r view.Row) error {
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		rec := record(r)
		line++
		return x.SetSheetRow(exportSheet, cell, &rec)
	})
	if err != nil {
		return err
	}

	widths := map[string]float64{"A": 12, "B": 16, "C": 16, "E": 12, "F": 14, "H": 20, "I": 30, "J": 30, "K": 20}
	for col, width := range widths {
		if err := x.SetColWidth(exportSheet, col, col, width); err != nil {
			return err
		}
	}
	return x.Write(w)
}
