package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/pettycash/export"
	"github.com/warp/pettycash/ledger"
	"github.com/warp/pettycash/reconcile"
)

func d(s string) ledger.Date { return ledger.MustParseDate(s) }

func workedExampleCalc() reconcile.Calculation {
	rp := ledger.NewMoney
	return reconcile.Calculation{
		Outlet: ledger.Outlet{ID: "outlet-1", Name: "Kemang"},
		Period: ledger.Period{Start: d("2024-01-15"), End: d("2024-01-16")},
		Residual: reconcile.Residual{
			Amount: rp(120000),
			Anchor: reconcile.Anchor{Kind: reconcile.AnchorCarried, Date: d("2024-01-10"), Amount: rp(50000)},
		},
		Breakdown: reconcile.Breakdown{
			Days: []reconcile.DaySummary{
				{
					Date: d("2024-01-15"), Opening: rp(120000), OutflowTotal: rp(20000), Closing: rp(100000),
					OutflowItems: []ledger.OutflowEvent{{
						Amount: rp(20000), Status: ledger.OutflowSubmitted,
						LineItems: []ledger.LineItem{
							{Description: "Gas", Quantity: 1, Unit: "tabung", LineTotal: rp(15000)},
							{Description: "Sabun", Quantity: 2, Unit: "pcs", LineTotal: rp(5000)},
						},
					}},
				},
				{
					Date: d("2024-01-16"), Opening: rp(100000), InflowTotal: rp(10000), Closing: rp(110000),
					Inflows: []ledger.InflowEvent{{Amount: rp(10000), Note: "Tambahan modal"}},
				},
			},
			Totals:  reconcile.Totals{Inflow: rp(10000), Outflow: rp(20000)},
			Closing: rp(110000),
		},
	}
}

func TestWorkbook_Sheets(t *testing.T) {
	f, err := export.Workbook([]reconcile.Calculation{workedExampleCalc()})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetSummary, export.SheetDaily, export.SheetTransactions}, f.GetSheetList())

	summary, err := f.GetRows(export.SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, []string{"Kemang", "2024-01-15", "2024-01-16", "120000", "10000", "20000", "110000"}, summary[1])

	daily, err := f.GetRows(export.SheetDaily)
	require.NoError(t, err)
	require.Len(t, daily, 3)
	assert.Equal(t, []string{"Kemang", "2024-01-15", "120000", "0", "20000", "100000"}, daily[1])

	txs, err := f.GetRows(export.SheetTransactions)
	require.NoError(t, err)
	// header + two line items + one inflow
	require.Len(t, txs, 4)
	assert.Equal(t, "Gas", txs[1][3])
	assert.Equal(t, "15000", txs[1][6])
	assert.Equal(t, "submitted", txs[1][7])
	assert.Equal(t, "Kas Masuk", txs[3][2])
	assert.Equal(t, "Tambahan modal", txs[3][3])
}

func TestWrite_ProducesReadableFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, []reconcile.Calculation{workedExampleCalc()}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(export.SheetSummary, "G2")
	require.NoError(t, err)
	assert.Equal(t, "110000", v)
}

func TestWorkbook_Empty(t *testing.T) {
	f, err := export.Workbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetSummary)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
