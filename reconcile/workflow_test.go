package reconcile_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pettycash/ledger"
	mock_ledger "github.com/warp/pettycash/ledger/mocks"
	memstore "github.com/warp/pettycash/ledger/store"
	"github.com/warp/pettycash/reconcile"
)

// =============================================================================
// SUBMIT
// =============================================================================

func submitWorkedExample(t *testing.T, r *reconcile.Reconciler, outlet ledger.OutletID, requested int64) ledger.ReimbursementID {
	t.Helper()
	ctx := context.Background()
	p := period("2024-01-11", "2024-01-20")

	calc, err := r.Reconcile(ctx, outlet, p)
	require.NoError(t, err)

	id, err := r.SubmitReimbursement(ctx, reconcile.SubmitInput{
		Outlet:          outlet,
		Period:          p,
		RequestedAmount: rp(requested),
		Notes:           "Belanja minggu kedua",
		Actor:           "cashier-1",
		Calculation:     calc,
	})
	require.NoError(t, err)
	return id
}

func TestSubmitReimbursement(t *testing.T) {
	// GIVEN: the worked example and a calculation for [01-11, 01-20]
	r, store, hook := newTestReconciler(t)
	ctx := context.Background()
	outlet := seedWorkedExample(t, store)

	// WHEN: the cashier requests more than the computed outflow total
	id := submitWorkedExample(t, r, outlet.ID, 25000)

	// THEN: the request carries exactly what was requested
	req, err := store.GetReimbursement(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ledger.ReimbursementPending, req.Status)
	assert.Equal(t, int64(25000), req.RequestedAmount.Int64())
	assert.Equal(t, int64(20000), req.ComputedAmount.Int64())
	assert.Equal(t, d("2024-01-11"), req.PeriodStart)
	assert.Equal(t, d("2024-01-20"), req.PeriodEnd)
	assert.Equal(t, "cashier-1", req.SubmittedBy)

	// AND: only the outflow inside the period is linked
	outs, err := store.OutflowsInRange(ctx, outlet.ID, d("2024-01-01"), d("2024-01-31"))
	require.NoError(t, err)
	require.Len(t, outs, 2)
	assert.Equal(t, ledger.OutflowRecorded, outs[0].Status)
	assert.Empty(t, outs[0].ReimbursementID)
	assert.Equal(t, ledger.OutflowSubmitted, outs[1].Status)
	assert.Equal(t, id, outs[1].ReimbursementID)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "reimbursement submitted", hook.LastEntry().Message)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}

func TestSubmitReimbursement_Validation(t *testing.T) {
	r, store, _ := newTestReconciler(t)
	ctx := context.Background()
	outlet := seedWorkedExample(t, store)
	p := period("2024-01-11", "2024-01-20")

	calc, err := r.Reconcile(ctx, outlet.ID, p)
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   reconcile.SubmitInput
		wantErr error
	}{
		{
			name:    "missing calculation",
			input:   reconcile.SubmitInput{Outlet: outlet.ID, Period: p, RequestedAmount: rp(1000)},
			wantErr: ledger.ErrStaleCalculation,
		},
		{
			name: "calculation for another period",
			input: reconcile.SubmitInput{
				Outlet: outlet.ID, Period: period("2024-01-11", "2024-01-21"),
				RequestedAmount: rp(1000), Calculation: calc,
			},
			wantErr: ledger.ErrStaleCalculation,
		},
		{
			name: "calculation for another outlet",
			input: reconcile.SubmitInput{
				Outlet: "other", Period: p, RequestedAmount: rp(1000), Calculation: calc,
			},
			wantErr: ledger.ErrStaleCalculation,
		},
		{
			name: "zero amount",
			input: reconcile.SubmitInput{
				Outlet: outlet.ID, Period: p, RequestedAmount: rp(0), Calculation: calc,
			},
			wantErr: ledger.ErrValidation,
		},
		{
			name: "inverted period",
			input: reconcile.SubmitInput{
				Outlet: outlet.ID, Period: period("2024-01-20", "2024-01-11"),
				RequestedAmount: rp(1000), Calculation: calc,
			},
			wantErr: ledger.ErrInvalidPeriod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.SubmitReimbursement(ctx, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, ledger.IsClientError(err))
		})
	}

	reqs, err := store.ListReimbursements(ctx, ledger.ReimbursementFilter{})
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestSubmitReimbursement_PeriodAlreadyClaimed(t *testing.T) {
	// GIVEN: [01-11, 01-20] already submitted
	r, store, _ := newTestReconciler(t)
	ctx := context.Background()
	outlet := seedWorkedExample(t, store)
	first := submitWorkedExample(t, r, outlet.ID, 20000)

	// WHEN: the same period is submitted again with a fresh calculation
	p := period("2024-01-11", "2024-01-20")
	calc, err := r.Reconcile(ctx, outlet.ID, p)
	require.NoError(t, err)
	_, err = r.SubmitReimbursement(ctx, reconcile.SubmitInput{
		Outlet: outlet.ID, Period: p, RequestedAmount: rp(20000), Calculation: calc,
	})

	// THEN: it is a conflict and no second request exists
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrNothingToClaim)
	assert.True(t, ledger.IsConflict(err))

	reqs, err := store.ListReimbursements(ctx, ledger.ReimbursementFilter{OutletID: outlet.ID})
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, first, reqs[0].ID)
}

func TestSubmitReimbursement_OverlapCountsOnlyNewlyLinked(t *testing.T) {
	// GIVEN: the 01-15 outflow is already claimed by [01-11, 01-20]
	r, store, _ := newTestReconciler(t)
	ctx := context.Background()
	outlet := seedWorkedExample(t, store)
	submitWorkedExample(t, r, outlet.ID, 20000)

	// WHEN: the whole month is submitted
	p := period("2024-01-01", "2024-01-31")
	calc, err := r.Reconcile(ctx, outlet.ID, p)
	require.NoError(t, err)
	require.Equal(t, int64(50000), calc.Breakdown.Totals.Outflow.Int64())

	id, err := r.SubmitReimbursement(ctx, reconcile.SubmitInput{
		Outlet: outlet.ID, Period: p, RequestedAmount: rp(30000), Calculation: calc,
	})
	require.NoError(t, err)

	// THEN: only the 01-05 outflow is claimed by the new request
	req, err := store.GetReimbursement(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), req.ComputedAmount.Int64())

	outs, err := store.OutflowsInRange(ctx, outlet.ID, d("2024-01-05"), d("2024-01-05"))
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, id, outs[0].ReimbursementID)
}

// failingLinkStore fails LinkOutflows inside transactions.
type failingLinkStore struct {
	*memstore.Memory
}

func (s failingLinkStore) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	return s.Memory.WithTx(ctx, func(tx ledger.Store) error {
		return fn(failingLinkTx{Store: tx})
	})
}

type failingLinkTx struct {
	ledger.Store
}

func (failingLinkTx) LinkOutflows(context.Context, ledger.OutletID, ledger.Period, ledger.ReimbursementID) (int, error) {
	return 0, errors.New("disk full")
}

func TestSubmitReimbursement_AtomicOnFailure(t *testing.T) {
	// GIVEN: a store whose status update fails
	mem := memstore.NewMemory()
	outlet := seedWorkedExample(t, mem)
	logger, _ := logtest.NewNullLogger()
	r := reconcile.NewReconciler(failingLinkStore{Memory: mem}, logger)
	ctx := context.Background()
	p := period("2024-01-11", "2024-01-20")

	calc, err := r.Reconcile(ctx, outlet.ID, p)
	require.NoError(t, err)

	// WHEN: submitting
	_, err = r.SubmitReimbursement(ctx, reconcile.SubmitInput{
		Outlet: outlet.ID, Period: p, RequestedAmount: rp(20000), Calculation: calc,
	})

	// THEN: a write failure is reported and no Pending request remains
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrWriteFailed)
	var we *ledger.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "link_outflows", we.Op)

	reqs, err := mem.ListReimbursements(ctx, ledger.ReimbursementFilter{Status: ledger.ReimbursementPending})
	require.NoError(t, err)
	assert.Empty(t, reqs)

	outs, err := mem.OutflowsInRange(ctx, outlet.ID, p.Start, p.End)
	require.NoError(t, err)
	for _, out := range outs {
		assert.Equal(t, ledger.OutflowRecorded, out.Status)
	}
}

func TestSubmitReimbursement_CreateFailsViaMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	outlet := ledger.Outlet{ID: "outlet-1"}
	p := period("2024-01-11", "2024-01-20")
	calc := &reconcile.Calculation{Outlet: outlet, Period: p}

	tx := mock_ledger.NewMockStore(ctrl)
	gomock.InOrder(
		tx.EXPECT().LinkOutflows(gomock.Any(), outlet.ID, p, gomock.Any()).Return(1, nil),
		tx.EXPECT().OutflowsInRange(gomock.Any(), outlet.ID, p.Start, p.End).Return(nil, nil),
		tx.EXPECT().CreateReimbursement(gomock.Any(), gomock.Any()).Return(errors.New("connection reset")),
	)

	store := mock_ledger.NewMockTxStore(ctrl)
	store.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(ledger.Store) error) error {
			return fn(tx)
		})

	logger, hook := logtest.NewNullLogger()
	r := reconcile.NewReconciler(store, logger)

	_, err := r.SubmitReimbursement(context.Background(), reconcile.SubmitInput{
		Outlet: outlet.ID, Period: p, RequestedAmount: rp(20000), Calculation: calc,
	})
	assert.ErrorIs(t, err, ledger.ErrWriteFailed)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "submit", hook.LastEntry().Data["step"])
}

// =============================================================================
// APPROVE / REJECT
// =============================================================================

func TestApproveReimbursement(t *testing.T) {
	r, store, _ := newTestReconciler(t)
	ctx := context.Background()
	outlet := seedWorkedExample(t, store)
	id := submitWorkedExample(t, r, outlet.ID, 20000)

	approved, err := r.ApproveReimbursement(ctx, id, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, ledger.ReimbursementApproved, approved.Status)
	assert.Equal(t, "admin-1", approved.DecidedBy)
	require.NotNil(t, approved.DecidedAt)

	t.Run("payout inflow is dated at the approval date", func(t *testing.T) {
		ins, err := store.InflowsInRange(ctx, outlet.ID, d("2024-01-25"), d("2024-01-25"))
		require.NoError(t, err)
		require.Len(t, ins, 1)
		assert.Equal(t, int64(20000), ins[0].Amount.Int64())
		assert.Equal(t, id, ins[0].ReimbursementID)
		assert.Equal(t, "admin-1", ins[0].CreatedBy)
	})

	t.Run("linked outflows are approved", func(t *testing.T) {
		outs, err := store.OutflowsInRange(ctx, outlet.ID, d("2024-01-15"), d("2024-01-15"))
		require.NoError(t, err)
		require.Len(t, outs, 1)
		assert.Equal(t, ledger.OutflowApproved, outs[0].Status)
	})

	t.Run("payout counts as past inflow from the next day", func(t *testing.T) {
		residual, err := r.ComputeResidual(ctx, outlet, d("2024-01-26"))
		require.NoError(t, err)
		assert.Equal(t, int64(120000), residual.Amount.Int64())
		assert.Equal(t, reconcile.AnchorCarried, residual.Anchor.Kind)
		assert.Equal(t, d("2024-01-25"), residual.Anchor.Date)
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		_, err := r.ApproveReimbursement(ctx, id, "admin-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, ledger.ErrInvalidStatus)
		assert.True(t, ledger.IsConflict(err))

		ins, err := store.InflowsInRange(ctx, outlet.ID, d("2024-01-25"), d("2024-01-25"))
		require.NoError(t, err)
		assert.Len(t, ins, 1)
	})
}

func TestApproveReimbursement_UsesLocationForDate(t *testing.T) {
	r, store, _ := newTestReconciler(t)
	ctx := context.Background()
	outlet := seedWorkedExample(t, store)
	id := submitWorkedExample(t, r, outlet.ID, 20000)

	// 2024-01-25 20:00 UTC is already 01-26 in Jakarta.
	r.Clock = func() time.Time { return time.Date(2024, 1, 25, 20, 0, 0, 0, time.UTC) }
	r.Location = time.FixedZone("WIB", 7*60*60)

	_, err := r.ApproveReimbursement(ctx, id, "admin-1")
	require.NoError(t, err)

	ins, err := store.InflowsInRange(ctx, outlet.ID, d("2024-01-26"), d("2024-01-26"))
	require.NoError(t, err)
	assert.Len(t, ins, 1)
}

func TestRejectReimbursement(t *testing.T) {
	r, store, _ := newTestReconciler(t)
	ctx := context.Background()
	outlet := seedWorkedExample(t, store)
	id := submitWorkedExample(t, r, outlet.ID, 20000)

	rejected, err := r.RejectReimbursement(ctx, id, "admin-1", "nota tidak lengkap")
	require.NoError(t, err)
	assert.Equal(t, ledger.ReimbursementRejected, rejected.Status)
	assert.Equal(t, "nota tidak lengkap", rejected.RejectionReason)

	outs, err := store.OutflowsInRange(ctx, outlet.ID, d("2024-01-15"), d("2024-01-15"))
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, ledger.OutflowRecorded, outs[0].Status)
	assert.Empty(t, outs[0].ReimbursementID)

	// No payout was made.
	ins, err := store.InflowsInRange(ctx, outlet.ID, d("2024-01-11"), d("2024-01-31"))
	require.NoError(t, err)
	assert.Empty(t, ins)

	// The released outflow can be claimed again.
	again := submitWorkedExample(t, r, outlet.ID, 20000)
	outs, err = store.OutflowsInRange(ctx, outlet.ID, d("2024-01-15"), d("2024-01-15"))
	require.NoError(t, err)
	assert.Equal(t, again, outs[0].ReimbursementID)

	_, err = r.ApproveReimbursement(ctx, id, "admin-1")
	assert.ErrorIs(t, err, ledger.ErrInvalidStatus)
}

func TestApproveReimbursement_NotFound(t *testing.T) {
	r, _, _ := newTestReconciler(t)

	_, err := r.ApproveReimbursement(context.Background(), "missing", "admin-1")
	assert.ErrorIs(t, err, ledger.ErrReimbursementNotFound)
	assert.True(t, ledger.IsNotFound(err))
}
