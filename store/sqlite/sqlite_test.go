package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pettycash/ledger"
	"github.com/warp/pettycash/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func d(s string) ledger.Date { return ledger.MustParseDate(s) }

func seedOutlet(t *testing.T, store *sqlite.Store) ledger.Outlet {
	t.Helper()
	o := ledger.Outlet{
		ID:                 "outlet-1",
		Name:               "Kemang",
		BankName:           "Mandiri",
		BankAccount:        "1300012345678",
		AccountHolder:      "Budi",
		InitialBalance:     ledger.NewMoney(100000),
		InitialBalanceDate: d("2024-01-01"),
		AlertThreshold:     ledger.NewMoney(25000),
	}
	require.NoError(t, store.SaveOutlet(context.Background(), o))
	return o
}

// =============================================================================
// OUTLETS
// =============================================================================

func TestOutlet_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	o := seedOutlet(t, store)

	got, err := store.GetOutlet(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kemang", got.Name)
	assert.Equal(t, "Mandiri", got.BankName)
	assert.Equal(t, int64(100000), got.InitialBalance.Int64())
	assert.Equal(t, d("2024-01-01"), got.InitialBalanceDate)
	assert.Equal(t, int64(25000), got.AlertThreshold.Int64())
	assert.False(t, got.CreatedAt.IsZero())

	// Saving again updates in place.
	o.InitialBalance = ledger.NewMoney(150000)
	o.InitialBalanceDate = d("2024-02-01")
	require.NoError(t, store.SaveOutlet(ctx, o))

	got, err = store.GetOutlet(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), got.InitialBalance.Int64())
	assert.Equal(t, d("2024-02-01"), got.InitialBalanceDate)

	all, err := store.ListOutlets(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOutlet_WithoutInitialBalanceDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveOutlet(ctx, ledger.Outlet{ID: "o2", Name: "Depok"}))

	got, err := store.GetOutlet(ctx, "o2")
	require.NoError(t, err)
	assert.True(t, got.InitialBalanceDate.IsZero())
}

func TestGetOutlet_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetOutlet(context.Background(), "missing")
	assert.ErrorIs(t, err, ledger.ErrOutletNotFound)
}

// =============================================================================
// LEDGER QUERIES
// =============================================================================

func TestRangeQueries_Boundaries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	o := seedOutlet(t, store)

	for _, in := range []struct {
		date   string
		amount int64
	}{{"2024-01-05", 10000}, {"2024-01-10", 50000}, {"2024-01-10", 5000}, {"2024-01-11", 7000}} {
		require.NoError(t, store.AppendInflow(ctx, ledger.InflowEvent{
			ID: ledger.NewEventID(), OutletID: o.ID, Date: d(in.date), Amount: ledger.NewMoney(in.amount),
		}))
	}
	require.NoError(t, store.AppendOutflow(ctx, ledger.OutflowEvent{
		ID: ledger.NewEventID(), OutletID: o.ID, Date: d("2024-01-10"), Amount: ledger.NewMoney(3000),
	}))

	t.Run("sums are strictly before", func(t *testing.T) {
		in, err := store.SumInflowsBefore(ctx, o.ID, d("2024-01-10"))
		require.NoError(t, err)
		assert.Equal(t, int64(10000), in.Int64())

		in, err = store.SumInflowsBefore(ctx, o.ID, d("2024-01-11"))
		require.NoError(t, err)
		assert.Equal(t, int64(65000), in.Int64())

		out, err := store.SumOutflowsBefore(ctx, o.ID, d("2024-01-10"))
		require.NoError(t, err)
		assert.True(t, out.IsZero())
	})

	t.Run("last inflow before picks the latest earlier one", func(t *testing.T) {
		last, err := store.LastInflowBefore(ctx, o.ID, d("2024-01-11"))
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.Equal(t, d("2024-01-10"), last.Date)
		assert.Equal(t, int64(5000), last.Amount.Int64())

		none, err := store.LastInflowBefore(ctx, o.ID, d("2024-01-05"))
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("ranges are inclusive and ordered", func(t *testing.T) {
		ins, err := store.InflowsInRange(ctx, o.ID, d("2024-01-10"), d("2024-01-11"))
		require.NoError(t, err)
		require.Len(t, ins, 3)
		assert.Equal(t, int64(50000), ins[0].Amount.Int64())
		assert.Equal(t, int64(5000), ins[1].Amount.Int64())
		assert.Equal(t, d("2024-01-11"), ins[2].Date)

		outs, err := store.OutflowsInRange(ctx, o.ID, d("2024-01-10"), d("2024-01-10"))
		require.NoError(t, err)
		require.Len(t, outs, 1)
		assert.Equal(t, ledger.OutflowRecorded, outs[0].Status)
	})

	t.Run("other outlets are invisible", func(t *testing.T) {
		sum, err := store.SumInflowsBefore(ctx, "other", d("2030-01-01"))
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})
}

func TestAppend_Errors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	o := seedOutlet(t, store)

	in := ledger.InflowEvent{ID: "in-1", OutletID: o.ID, Date: d("2024-01-02"), Amount: ledger.NewMoney(1000)}
	require.NoError(t, store.AppendInflow(ctx, in))
	assert.ErrorIs(t, store.AppendInflow(ctx, in), ledger.ErrDuplicateID)

	orphan := ledger.OutflowEvent{ID: "out-1", OutletID: "missing", Date: d("2024-01-02"), Amount: ledger.NewMoney(1000)}
	assert.ErrorIs(t, store.AppendOutflow(ctx, orphan), ledger.ErrOutletNotFound)
}

func TestOutflow_LineItemsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	o := seedOutlet(t, store)

	out := ledger.OutflowEvent{
		ID: "out-1", OutletID: o.ID, Date: d("2024-01-03"), Amount: ledger.NewMoney(45000), Note: "Pasar",
		LineItems: []ledger.LineItem{
			{Description: "Telur", Quantity: 2, Unit: "kg", LineTotal: ledger.NewMoney(30000)},
			{Description: "Minyak", Quantity: 1, Unit: "liter", LineTotal: ledger.NewMoney(15000)},
		},
		CreatedBy: "cashier-1",
	}
	require.NoError(t, store.AppendOutflow(ctx, out))

	got, err := store.OutflowsInRange(ctx, o.ID, out.Date, out.Date)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].LineItems, 2)
	assert.Equal(t, "Telur", got[0].LineItems[0].Description)
	assert.Equal(t, int64(15000), got[0].LineItems[1].LineTotal.Int64())
	assert.Equal(t, "cashier-1", got[0].CreatedBy)
	assert.Equal(t, "Pasar", got[0].Note)
}

// =============================================================================
// REIMBURSEMENTS
// =============================================================================

func TestReimbursement_LinkAndRelease(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	o := seedOutlet(t, store)

	for i, date := range []string{"2024-01-05", "2024-01-12", "2024-01-15"} {
		require.NoError(t, store.AppendOutflow(ctx, ledger.OutflowEvent{
			ID: ledger.EventID("out-" + date), OutletID: o.ID, Date: d(date), Amount: ledger.NewMoney(int64(1000 * (i + 1))),
		}))
	}

	req := ledger.ReimbursementRequest{
		ID: "r-1", OutletID: o.ID, PeriodStart: d("2024-01-11"), PeriodEnd: d("2024-01-20"),
		RequestedAmount: ledger.NewMoney(5000), ComputedAmount: ledger.NewMoney(5000),
		Status: ledger.ReimbursementPending, SubmittedBy: "cashier-1",
	}
	require.NoError(t, store.CreateReimbursement(ctx, req))

	n, err := store.LinkOutflows(ctx, o.ID, req.Period(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Already-submitted outflows are not linked twice.
	n, err = store.LinkOutflows(ctx, o.ID, req.Period(), "r-2")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = store.UpdateLinkedOutflows(ctx, req.ID, ledger.OutflowRecorded)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	outs, err := store.OutflowsInRange(ctx, o.ID, d("2024-01-01"), d("2024-01-31"))
	require.NoError(t, err)
	for _, out := range outs {
		assert.Equal(t, ledger.OutflowRecorded, out.Status)
		assert.Empty(t, out.ReimbursementID)
	}
}

func TestReimbursement_UpdateAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	o := seedOutlet(t, store)

	for _, id := range []ledger.ReimbursementID{"r-1", "r-2"} {
		require.NoError(t, store.CreateReimbursement(ctx, ledger.ReimbursementRequest{
			ID: id, OutletID: o.ID, PeriodStart: d("2024-01-01"), PeriodEnd: d("2024-01-07"),
			RequestedAmount: ledger.NewMoney(1000), Status: ledger.ReimbursementPending,
		}))
	}

	req, err := store.GetReimbursement(ctx, "r-1")
	require.NoError(t, err)
	req.Status = ledger.ReimbursementRejected
	req.DecidedBy = "admin"
	req.RejectionReason = "duplikat"
	require.NoError(t, store.UpdateReimbursement(ctx, *req))

	got, err := store.GetReimbursement(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, ledger.ReimbursementRejected, got.Status)
	assert.Equal(t, "duplikat", got.RejectionReason)
	assert.Equal(t, d("2024-01-07"), got.PeriodEnd)

	pending, err := store.ListReimbursements(ctx, ledger.ReimbursementFilter{Status: ledger.ReimbursementPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ledger.ReimbursementID("r-2"), pending[0].ID)

	all, err := store.ListReimbursements(ctx, ledger.ReimbursementFilter{OutletID: o.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	err = store.UpdateReimbursement(ctx, ledger.ReimbursementRequest{ID: "missing"})
	assert.ErrorIs(t, err, ledger.ErrReimbursementNotFound)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestWithTx_RollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	o := seedOutlet(t, store)
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx ledger.Store) error {
		require.NoError(t, tx.AppendInflow(ctx, ledger.InflowEvent{
			ID: "in-1", OutletID: o.ID, Date: d("2024-01-02"), Amount: ledger.NewMoney(1000),
		}))
		// Reads inside the transaction see its own writes.
		sum, err := tx.SumInflowsBefore(ctx, o.ID, d("2024-01-03"))
		require.NoError(t, err)
		assert.Equal(t, int64(1000), sum.Int64())
		return boom
	})
	assert.ErrorIs(t, err, boom)

	sum, err := store.SumInflowsBefore(ctx, o.ID, d("2024-01-03"))
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestWithTx_Commits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	o := seedOutlet(t, store)

	err := store.WithTx(ctx, func(tx ledger.Store) error {
		return tx.AppendInflow(ctx, ledger.InflowEvent{
			ID: "in-1", OutletID: o.ID, Date: d("2024-01-02"), Amount: ledger.NewMoney(1000),
		})
	})
	require.NoError(t, err)

	sum, err := store.SumInflowsBefore(ctx, o.ID, d("2024-01-03"))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), sum.Int64())
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedOutlet(t, store)

	require.NoError(t, store.Reset(ctx))

	all, err := store.ListOutlets(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestReset_RolledBackWithTx(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	o := seedOutlet(t, store)

	err := store.WithTx(ctx, func(tx ledger.Store) error {
		resetter, ok := tx.(ledger.Resetter)
		require.True(t, ok)
		require.NoError(t, resetter.Reset(ctx))
		return errors.New("abort")
	})
	require.Error(t, err)

	got, err := store.GetOutlet(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestNew_FileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pettycash.db")
	ctx := context.Background()

	store, err := sqlite.New(path)
	require.NoError(t, err)
	seedOutlet(t, store)
	require.NoError(t, store.Close())

	reopened, err := sqlite.New(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetOutlet(ctx, "outlet-1")
	require.NoError(t, err)
	assert.Equal(t, "Kemang", got.Name)
}
