package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pettycash/ledger"
	"github.com/warp/pettycash/ledger/store"
)

func d(s string) ledger.Date { return ledger.MustParseDate(s) }

func newSeeded(t *testing.T) (*store.Memory, ledger.Outlet) {
	m := store.NewMemory()
	o := ledger.Outlet{ID: "outlet-1", Name: "Kemang", InitialBalance: ledger.NewMoney(100000)}
	require.NoError(t, m.SaveOutlet(context.Background(), o))
	return m, o
}

func TestMemory_AppendKeepsDateOrder(t *testing.T) {
	m, o := newSeeded(t)
	ctx := context.Background()

	// Appended out of order, as happens when a cashier back-fills a receipt.
	for _, date := range []string{"2024-01-10", "2024-01-03", "2024-01-07"} {
		require.NoError(t, m.AppendOutflow(ctx, ledger.OutflowEvent{
			ID: ledger.EventID(date), OutletID: o.ID, Date: d(date), Amount: ledger.NewMoney(1000),
		}))
	}

	outs, err := m.OutflowsInRange(ctx, o.ID, d("2024-01-01"), d("2024-01-31"))
	require.NoError(t, err)
	require.Len(t, outs, 3)
	assert.Equal(t, d("2024-01-03"), outs[0].Date)
	assert.Equal(t, d("2024-01-07"), outs[1].Date)
	assert.Equal(t, d("2024-01-10"), outs[2].Date)
	assert.Equal(t, ledger.OutflowRecorded, outs[0].Status)

	sum, err := m.SumOutflowsBefore(ctx, o.ID, d("2024-01-10"))
	require.NoError(t, err)
	assert.Equal(t, int64(2000), sum.Int64())
}

func TestMemory_LastInflowBefore(t *testing.T) {
	m, o := newSeeded(t)
	ctx := context.Background()

	for i, date := range []string{"2024-01-05", "2024-01-10", "2024-01-10"} {
		require.NoError(t, m.AppendInflow(ctx, ledger.InflowEvent{
			ID: ledger.NewEventID(), OutletID: o.ID, Date: d(date), Amount: ledger.NewMoney(int64(1000 * (i + 1))),
		}))
	}

	last, err := m.LastInflowBefore(ctx, o.ID, d("2024-01-11"))
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, int64(3000), last.Amount.Int64())

	none, err := m.LastInflowBefore(ctx, o.ID, d("2024-01-05"))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMemory_AppendErrors(t *testing.T) {
	m, o := newSeeded(t)
	ctx := context.Background()

	in := ledger.InflowEvent{ID: "in-1", OutletID: o.ID, Date: d("2024-01-02"), Amount: ledger.NewMoney(1)}
	require.NoError(t, m.AppendInflow(ctx, in))
	assert.ErrorIs(t, m.AppendInflow(ctx, in), ledger.ErrDuplicateID)

	in.ID, in.OutletID = "in-2", "missing"
	assert.ErrorIs(t, m.AppendInflow(ctx, in), ledger.ErrOutletNotFound)
}

func TestMemory_WithTxRollsBackLinks(t *testing.T) {
	m, o := newSeeded(t)
	ctx := context.Background()
	require.NoError(t, m.AppendOutflow(ctx, ledger.OutflowEvent{
		ID: "out-1", OutletID: o.ID, Date: d("2024-01-12"), Amount: ledger.NewMoney(1000),
	}))

	err := m.WithTx(ctx, func(tx ledger.Store) error {
		require.NoError(t, tx.CreateReimbursement(ctx, ledger.ReimbursementRequest{
			ID: "r-1", OutletID: o.ID, Status: ledger.ReimbursementPending,
		}))
		n, err := tx.LinkOutflows(ctx, o.ID, ledger.Period{Start: d("2024-01-11"), End: d("2024-01-20")}, "r-1")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		return errors.New("abort")
	})
	require.Error(t, err)

	_, err = m.GetReimbursement(ctx, "r-1")
	assert.ErrorIs(t, err, ledger.ErrReimbursementNotFound)

	outs, err := m.OutflowsInRange(ctx, o.ID, d("2024-01-12"), d("2024-01-12"))
	require.NoError(t, err)
	assert.Equal(t, ledger.OutflowRecorded, outs[0].Status)
	assert.Empty(t, outs[0].ReimbursementID)
}

func TestMemory_Reset(t *testing.T) {
	m, _ := newSeeded(t)
	require.NoError(t, m.Reset(context.Background()))

	all, err := m.ListOutlets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemory_ResetRolledBackWithTx(t *testing.T) {
	m, o := newSeeded(t)
	ctx := context.Background()

	err := m.WithTx(ctx, func(tx ledger.Store) error {
		require.NoError(t, tx.(ledger.Resetter).Reset(ctx))
		return errors.New("abort")
	})
	require.Error(t, err)

	_, err = m.GetOutlet(ctx, o.ID)
	assert.NoError(t, err)
}
