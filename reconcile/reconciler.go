/*
reconciler.go - Running-balance reconciliation for one outlet

PURPOSE:
  Turns an outlet's three append-only ledgers (initial balance, inflows,
  outflows) into the numbers every screen shows: the balance carried into
  a period, a day-by-day running balance across it, and period totals.
  The dashboard, the daily report and the reimbursement form all go
  through Reconcile, so they can never disagree.

KEY INSIGHT:
  The residual is SUBTRACTION-BASED:

    residual = initial_balance + Σ inflow(date < start) − Σ outflow(date < start)

  The anchor (last inflow, or the initial-balance reset if later) only
  labels where the residual came from. It is never added to anything.
  Showing "Kas masuk sebelumnya: Rp 50.000" next to "Sisa saldo:
  Rp 120.000" does NOT mean the outlet holds Rp 170.000.

ANCHOR KINDS:
  reset:   initial_balance_date is set and later than the last inflow
  carried: the last inflow before the period wins
  none:    no inflow before the period and no initial-balance date

CHAINING:
  Opening[0] = residual
  Opening[i] = Closing[i-1]
  Closing[i] = Opening[i] + Inflow[i] − Outflow[i]

  Every calendar day appears, including days with no activity, so the
  chain can be checked by eye.

EXAMPLE:
  Initial 100000 on 01-01, inflow 50000 on 01-10,
  outflows 30000 on 01-05 and 20000 on 01-15.

  Reconcile(outlet, [01-11, 01-20]):
    anchor   = carried, 01-10, 50000
    residual = 100000 + 50000 − 30000 = 120000
    01-15    opening 120000, outflow 20000, closing 100000
    closing  = 100000

SEE ALSO:
  - workflow.go: Submit / approve / reject
  - report.go: Text rendering
  - ledger/store.go: The queries used here
*/
package reconcile

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/pettycash/ledger"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

type AnchorKind string

const (
	AnchorReset   AnchorKind = "reset"
	AnchorCarried AnchorKind = "carried"
	AnchorNone    AnchorKind = "none"
)

// Anchor names the most recent event explaining the residual. Display only.
type Anchor struct {
	Kind   AnchorKind   `json:"kind"`
	Date   ledger.Date  `json:"date"`
	Amount ledger.Money `json:"amount"`
}

// Residual is the balance carried into a period, before any of the
// period's own activity.
type Residual struct {
	Amount ledger.Money `json:"amount"`
	Anchor Anchor       `json:"anchor"`
}

// DaySummary is one row of the running balance.
type DaySummary struct {
	Date         ledger.Date           `json:"date"`
	Opening      ledger.Money          `json:"opening_balance"`
	InflowTotal  ledger.Money          `json:"inflow_total"`
	OutflowTotal ledger.Money          `json:"outflow_total"`
	Closing      ledger.Money          `json:"closing_balance"`
	Inflows      []ledger.InflowEvent  `json:"inflows"`
	OutflowItems []ledger.OutflowEvent `json:"outflows"`
}

// Active reports whether anything was recorded on the day.
func (d DaySummary) Active() bool {
	return len(d.Inflows) > 0 || len(d.OutflowItems) > 0
}

type Totals struct {
	Inflow  ledger.Money `json:"inflow"`
	Outflow ledger.Money `json:"outflow"`
}

// Breakdown is the day-by-day view of a period.
type Breakdown struct {
	Days    []DaySummary `json:"days"`
	Totals  Totals       `json:"totals"`
	Closing ledger.Money `json:"closing_balance"`
}

// Calculation bundles everything computed for one outlet and period.
// SubmitReimbursement requires one for the same outlet and period.
type Calculation struct {
	Outlet    ledger.Outlet `json:"outlet"`
	Period    ledger.Period `json:"period"`
	Residual  Residual      `json:"residual"`
	Breakdown Breakdown     `json:"breakdown"`
}

// Matches reports whether the calculation was produced for this outlet
// and period.
func (c *Calculation) Matches(outletID ledger.OutletID, p ledger.Period) bool {
	return c != nil && c.Outlet.ID == outletID && c.Period == p
}

// BalanceSnapshot is the dashboard view of an outlet.
type BalanceSnapshot struct {
	OutletID       ledger.OutletID `json:"outlet_id"`
	AsOf           ledger.Date     `json:"as_of"`
	Balance        ledger.Money    `json:"balance"`
	Anchor         Anchor          `json:"anchor"`
	Threshold      ledger.Money    `json:"alert_threshold"`
	BelowThreshold bool            `json:"below_threshold"`
}

// =============================================================================
// RECONCILER
// =============================================================================

// Reconciler computes balances and runs the reimbursement workflow.
// Safe for concurrent use; every call is independent.
type Reconciler struct {
	Store ledger.TxStore

	// Clock dates approval inflows. Location turns its instant into a
	// calendar date.
	Clock    func() time.Time
	Location *time.Location

	Logger *logrus.Logger
}

// NewReconciler returns a reconciler using the wall clock in UTC.
func NewReconciler(store ledger.TxStore, logger *logrus.Logger) *Reconciler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Reconciler{
		Store:    store,
		Clock:    time.Now,
		Location: time.UTC,
		Logger:   logger,
	}
}

func (r *Reconciler) today() ledger.Date {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	return ledger.DateOf(r.Clock().In(loc))
}

// ComputeResidual returns the balance at the instant before periodStart
// and the anchor that labels it.
func (r *Reconciler) ComputeResidual(ctx context.Context, outlet ledger.Outlet, periodStart ledger.Date) (Residual, error) {
	return computeResidual(ctx, r.Store, outlet, periodStart)
}

func computeResidual(ctx context.Context, store ledger.Store, outlet ledger.Outlet, periodStart ledger.Date) (Residual, error) {
	if periodStart.IsZero() {
		return Residual{}, &ledger.ValidationError{Field: "period_start", Message: "period start is required"}
	}

	lastInflow, err := store.LastInflowBefore(ctx, outlet.ID, periodStart)
	if err != nil {
		return Residual{}, ledger.QueryErr("last_inflow_before", err)
	}
	pastInflow, err := store.SumInflowsBefore(ctx, outlet.ID, periodStart)
	if err != nil {
		return Residual{}, ledger.QueryErr("sum_inflows_before", err)
	}
	pastOutflow, err := store.SumOutflowsBefore(ctx, outlet.ID, periodStart)
	if err != nil {
		return Residual{}, ledger.QueryErr("sum_outflows_before", err)
	}

	return Residual{
		Amount: outlet.InitialBalance.Add(pastInflow).Sub(pastOutflow),
		Anchor: selectAnchor(outlet, lastInflow),
	}, nil
}

// selectAnchor picks the later of the initial-balance date and the last
// inflow. Ties go to the inflow.
func selectAnchor(outlet ledger.Outlet, lastInflow *ledger.InflowEvent) Anchor {
	reset := !outlet.InitialBalanceDate.IsZero() &&
		(lastInflow == nil || outlet.InitialBalanceDate.After(lastInflow.Date))
	switch {
	case reset:
		return Anchor{Kind: AnchorReset, Date: outlet.InitialBalanceDate, Amount: outlet.InitialBalance}
	case lastInflow != nil:
		return Anchor{Kind: AnchorCarried, Date: lastInflow.Date, Amount: lastInflow.Amount}
	default:
		return Anchor{Kind: AnchorNone}
	}
}

// BuildDailyBreakdown chains the running balance across every day of the
// period, starting from residual.
func (r *Reconciler) BuildDailyBreakdown(ctx context.Context, outlet ledger.Outlet, period ledger.Period, residual ledger.Money) (Breakdown, error) {
	return buildDailyBreakdown(ctx, r.Store, outlet, period, residual)
}

func buildDailyBreakdown(ctx context.Context, store ledger.Store, outlet ledger.Outlet, period ledger.Period, residual ledger.Money) (Breakdown, error) {
	if err := period.Validate(); err != nil {
		return Breakdown{}, err
	}

	inflows, err := store.InflowsInRange(ctx, outlet.ID, period.Start, period.End)
	if err != nil {
		return Breakdown{}, ledger.QueryErr("inflows_in_range", err)
	}
	outflows, err := store.OutflowsInRange(ctx, outlet.ID, period.Start, period.End)
	if err != nil {
		return Breakdown{}, ledger.QueryErr("outflows_in_range", err)
	}

	inByDay := make(map[ledger.Date][]ledger.InflowEvent)
	for _, in := range inflows {
		inByDay[in.Date] = append(inByDay[in.Date], in)
	}
	outByDay := make(map[ledger.Date][]ledger.OutflowEvent)
	for _, out := range outflows {
		outByDay[out.Date] = append(outByDay[out.Date], out)
	}

	b := Breakdown{Days: make([]DaySummary, 0, period.Len())}
	balance := residual
	for _, day := range period.Days() {
		summary := DaySummary{
			Date:         day,
			Opening:      balance,
			Inflows:      inByDay[day],
			OutflowItems: outByDay[day],
		}
		for _, in := range summary.Inflows {
			summary.InflowTotal = summary.InflowTotal.Add(in.Amount)
		}
		for _, out := range summary.OutflowItems {
			summary.OutflowTotal = summary.OutflowTotal.Add(out.Amount)
		}
		summary.Closing = summary.Opening.Add(summary.InflowTotal).Sub(summary.OutflowTotal)
		balance = summary.Closing

		b.Totals.Inflow = b.Totals.Inflow.Add(summary.InflowTotal)
		b.Totals.Outflow = b.Totals.Outflow.Add(summary.OutflowTotal)
		b.Days = append(b.Days, summary)
	}
	b.Closing = balance
	return b, nil
}

// Reconcile loads the outlet and computes its residual and breakdown for
// the period.
func (r *Reconciler) Reconcile(ctx context.Context, outletID ledger.OutletID, period ledger.Period) (*Calculation, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	outlet, err := r.Store.GetOutlet(ctx, outletID)
	if err != nil {
		return nil, ledger.QueryErr("get_outlet", err)
	}
	residual, err := r.ComputeResidual(ctx, *outlet, period.Start)
	if err != nil {
		r.logQueryFailure(outletID, err)
		return nil, err
	}
	breakdown, err := r.BuildDailyBreakdown(ctx, *outlet, period, residual.Amount)
	if err != nil {
		r.logQueryFailure(outletID, err)
		return nil, err
	}
	return &Calculation{
		Outlet:    *outlet,
		Period:    period,
		Residual:  residual,
		Breakdown: breakdown,
	}, nil
}

// Snapshot returns the balance at the end of asOf. A zero asOf means
// today.
func (r *Reconciler) Snapshot(ctx context.Context, outletID ledger.OutletID, asOf ledger.Date) (*BalanceSnapshot, error) {
	if asOf.IsZero() {
		asOf = r.today()
	}
	outlet, err := r.Store.GetOutlet(ctx, outletID)
	if err != nil {
		return nil, ledger.QueryErr("get_outlet", err)
	}
	residual, err := r.ComputeResidual(ctx, *outlet, asOf.AddDays(1))
	if err != nil {
		r.logQueryFailure(outletID, err)
		return nil, err
	}
	return &BalanceSnapshot{
		OutletID:       outletID,
		AsOf:           asOf,
		Balance:        residual.Amount,
		Anchor:         residual.Anchor,
		Threshold:      outlet.AlertThreshold,
		BelowThreshold: outlet.AlertThreshold.IsPositive() && residual.Amount.LessThan(outlet.AlertThreshold),
	}, nil
}

func (r *Reconciler) logQueryFailure(outletID ledger.OutletID, err error) {
	if ledger.IsClientError(err) {
		return
	}
	r.Logger.WithFields(logrus.Fields{
		"outlet_id": outletID,
		"error":     err.Error(),
	}).Error("reconciliation query failed")
}
