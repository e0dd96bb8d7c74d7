// Package export writes reconciliation results to .xlsx workbooks for
// head-office bookkeeping.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/warp/pettycash/reconcile"
)

const (
	SheetSummary      = "Ringkasan"
	SheetDaily        = "Harian"
	SheetTransactions = "Transaksi"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	summaryHeader = []any{"Outlet", "Periode Mulai", "Periode Selesai", "Sisa Saldo", "Kas Masuk", "Pengeluaran", "Saldo Akhir"}
	dailyHeader   = []any{"Outlet", "Tanggal", "Saldo Awal", "Kas Masuk", "Pengeluaran", "Saldo Akhir"}
	txHeader      = []any{"Outlet", "Tanggal", "Jenis", "Keterangan", "Jumlah", "Satuan", "Nominal", "Status"}
)

// Workbook builds one workbook covering every calculation. Amounts are
// whole rupiah numbers so spreadsheet formulas work on them.
func Workbook(calcs []reconcile.Calculation) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetDaily, SheetTransactions} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	w := &sheetWriter{f: f, next: map[string]int{}}
	w.row(SheetSummary, summaryHeader...)
	w.row(SheetDaily, dailyHeader...)
	w.row(SheetTransactions, txHeader...)

	for _, c := range calcs {
		name := c.Outlet.Name
		w.row(SheetSummary,
			name,
			c.Period.Start.String(),
			c.Period.End.String(),
			c.Residual.Amount.Int64(),
			c.Breakdown.Totals.Inflow.Int64(),
			c.Breakdown.Totals.Outflow.Int64(),
			c.Breakdown.Closing.Int64(),
		)

		for _, day := range c.Breakdown.Days {
			w.row(SheetDaily,
				name,
				day.Date.String(),
				day.Opening.Int64(),
				day.InflowTotal.Int64(),
				day.OutflowTotal.Int64(),
				day.Closing.Int64(),
			)

			for _, in := range day.Inflows {
				w.row(SheetTransactions, name, day.Date.String(), "Kas Masuk", in.Note, "", "", in.Amount.Int64(), "")
			}
			for _, out := range day.OutflowItems {
				if len(out.LineItems) == 0 {
					w.row(SheetTransactions, name, day.Date.String(), "Pengeluaran", out.Note, "", "", out.Amount.Int64(), string(out.Status))
					continue
				}
				for _, li := range out.LineItems {
					w.row(SheetTransactions, name, day.Date.String(), "Pengeluaran", li.Description, li.Quantity, li.Unit, li.LineTotal.Int64(), string(out.Status))
				}
			}
		}
	}
	if w.err != nil {
		return nil, w.err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook and streams it to dst.
func Write(dst io.Writer, calcs []reconcile.Calculation) error {
	f, err := Workbook(calcs)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(dst)
	return err
}

// sheetWriter appends rows and keeps the first error.
type sheetWriter struct {
	f    *excelize.File
	next map[string]int
	err  error
}

func (w *sheetWriter) row(sheet string, values ...any) {
	if w.err != nil {
		return
	}
	w.next[sheet]++
	cell, err := excelize.CoordinatesToCellName(1, w.next[sheet])
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("write %s row %d: %w", sheet, w.next[sheet], err)
	}
}
