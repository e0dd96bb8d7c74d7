/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Populates the store with small, realistic ledgers that exercise the
  reconciliation rules. Each scenario creates outlets and appends
  inflows/outflows through the same Store calls the API uses.

AVAILABLE SCENARIOS:
  worked-example:         Initial float, one top-up, two expenses (January 2024)
  overdrawn-outlet:       Expenses exceed the float; balance goes negative
  pending-reimbursement:  Worked example plus a submitted request awaiting approval

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "worked-example"}

NOTE:
  Loading a scenario wipes the store first. Reset and load share one store
  transaction, so a failed load leaves the previous data and scenario in
  place. Only stores whose transactions implement ledger.Resetter support
  this; use in development/demo only.

SEE ALSO:
  - handlers.go: Handler
  - reconcile/reconciler.go: Worked example in the package doc
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/warp/pettycash/ledger"
	"github.com/warp/pettycash/reconcile"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "worked-example",
		Name:        "Worked Example",
		Description: "Float of Rp 100.000 on 1 Jan 2024, Rp 50.000 top-up on 10 Jan, expenses on 5 and 15 Jan",
	},
	{
		ID:          "overdrawn-outlet",
		Name:        "Overdrawn Outlet",
		Description: "Small float with expenses larger than it; the balance runs negative",
	},
	{
		ID:          "pending-reimbursement",
		Name:        "Pending Reimbursement",
		Description: "Worked example with 15-16 Jan submitted for reimbursement",
	},
}

var scenarioLoaders = map[string]func(ctx context.Context, s *scenarioTx) error{
	"worked-example":        loadWorkedExample,
	"overdrawn-outlet":      loadOverdrawnOutlet,
	"pending-reimbursement": loadPendingReimbursement,
}

// scenarioTx is what a loader writes through: the open transaction and a
// reconciler bound to it.
type scenarioTx struct {
	store ledger.Store
	rec   *reconcile.Reconciler
}

// joinedTx runs nested WithTx calls inside the transaction already open.
type joinedTx struct {
	ledger.Store
}

func (j joinedTx) WithTx(_ context.Context, fn func(ledger.Store) error) error {
	return fn(j.Store)
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the store and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	load, ok := scenarioLoaders[req.ScenarioID]
	if !ok {
		h.writeDomainError(w, r, &ledger.ValidationError{Field: "scenario_id", Message: "unknown scenario " + req.ScenarioID})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	err := h.Store.WithTx(ctx, func(tx ledger.Store) error {
		resetter, ok := tx.(ledger.Resetter)
		if !ok {
			return fmt.Errorf("store %T does not support reset", tx)
		}
		if err := resetter.Reset(ctx); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		rec := *h.Reconciler
		rec.Store = joinedTx{Store: tx}
		return load(ctx, &scenarioTx{store: tx, rec: &rec})
	})
	if err != nil {
		h.Logger.WithFields(logrus.Fields{
			"scenario": req.ScenarioID,
			"error":    err.Error(),
		}).Error("scenario load failed")
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	h.currentScenario = req.ScenarioID

	h.Logger.WithField("scenario", req.ScenarioID).Info("scenario loaded")
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase wipes all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// reset must be called with h.mu held.
func (h *Handler) reset(ctx context.Context) error {
	resetter, ok := h.Store.(ledger.Resetter)
	if !ok {
		return fmt.Errorf("store %T does not support reset", h.Store)
	}
	if err := resetter.Reset(ctx); err != nil {
		return err
	}
	h.currentScenario = ""
	h.Logger.WithFields(logrus.Fields{"store": fmt.Sprintf("%T", h.Store)}).Warn("store reset")
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadWorkedExample(ctx context.Context, s *scenarioTx) error {
	outlet := ledger.Outlet{
		ID:                 "outlet-kemang",
		Name:               "Kemang",
		BankName:           "BCA",
		BankAccount:        "1234567890",
		AccountHolder:      "Siti Rahma",
		InitialBalance:     ledger.NewMoney(100000),
		InitialBalanceDate: ledger.MustParseDate("2024-01-01"),
		AlertThreshold:     ledger.NewMoney(50000),
	}
	if err := s.store.SaveOutlet(ctx, outlet); err != nil {
		return err
	}

	b := scenarioBuilder{ctx: ctx, store: s.store, outlet: outlet.ID}
	b.outflow("2024-01-05", "Belanja dapur",
		ledger.LineItem{Description: "Gas LPG", Quantity: 1, Unit: "tabung", LineTotal: ledger.NewMoney(22000)},
		ledger.LineItem{Description: "Sabun cuci", Quantity: 2, Unit: "botol", LineTotal: ledger.NewMoney(8000)},
	)
	b.inflow("2024-01-10", 50000, "Tambahan modal")
	b.outflow("2024-01-15", "Kebersihan",
		ledger.LineItem{Description: "Kantong sampah", Quantity: 4, Unit: "pak", LineTotal: ledger.NewMoney(20000)},
	)
	return b.err
}

func loadOverdrawnOutlet(ctx context.Context, s *scenarioTx) error {
	outlet := ledger.Outlet{
		ID:                 "outlet-blok-m",
		Name:               "Blok M",
		BankName:           "Mandiri",
		BankAccount:        "9876543210",
		AccountHolder:      "Budi Santoso",
		InitialBalance:     ledger.NewMoney(30000),
		InitialBalanceDate: ledger.MustParseDate("2024-02-01"),
		AlertThreshold:     ledger.NewMoney(25000),
	}
	if err := s.store.SaveOutlet(ctx, outlet); err != nil {
		return err
	}

	b := scenarioBuilder{ctx: ctx, store: s.store, outlet: outlet.ID}
	b.outflow("2024-02-02", "Perbaikan",
		ledger.LineItem{Description: "Servis kulkas", Quantity: 1, Unit: "kali", LineTotal: ledger.NewMoney(45000)},
	)
	b.outflow("2024-02-03", "Transport",
		ledger.LineItem{Description: "Ojek belanja", Quantity: 2, Unit: "trip", LineTotal: ledger.NewMoney(15000)},
	)
	return b.err
}

func loadPendingReimbursement(ctx context.Context, s *scenarioTx) error {
	if err := loadWorkedExample(ctx, s); err != nil {
		return err
	}
	b := scenarioBuilder{ctx: ctx, store: s.store, outlet: "outlet-kemang"}
	b.outflow("2024-01-16", "Minuman tamu",
		ledger.LineItem{Description: "Air mineral", Quantity: 2, Unit: "dus", LineTotal: ledger.NewMoney(10000)},
	)
	if b.err != nil {
		return b.err
	}

	period := ledger.Period{Start: ledger.MustParseDate("2024-01-15"), End: ledger.MustParseDate("2024-01-16")}
	calc, err := s.rec.Reconcile(ctx, b.outlet, period)
	if err != nil {
		return err
	}
	_, err = s.rec.SubmitReimbursement(ctx, reconcile.SubmitInput{
		Outlet:          b.outlet,
		Period:          period,
		RequestedAmount: calc.Breakdown.Totals.Outflow,
		Notes:           "Reimburse pertengahan Januari",
		Actor:           "kasir-kemang",
		Calculation:     calc,
	})
	return err
}

// scenarioBuilder appends events for one outlet and keeps the first error.
type scenarioBuilder struct {
	ctx    context.Context
	store  ledger.Store
	outlet ledger.OutletID
	err    error
}

func (b *scenarioBuilder) inflow(date string, amount int64, note string) {
	if b.err != nil {
		return
	}
	b.err = b.store.AppendInflow(b.ctx, ledger.InflowEvent{
		ID:        ledger.NewEventID(),
		OutletID:  b.outlet,
		Date:      ledger.MustParseDate(date),
		Amount:    ledger.NewMoney(amount),
		Note:      note,
		CreatedBy: "scenario",
	})
}

func (b *scenarioBuilder) outflow(date, note string, items ...ledger.LineItem) {
	if b.err != nil {
		return
	}
	out := ledger.OutflowEvent{
		ID:        ledger.NewEventID(),
		OutletID:  b.outlet,
		Date:      ledger.MustParseDate(date),
		Note:      note,
		Status:    ledger.OutflowRecorded,
		LineItems: items,
		CreatedBy: "scenario",
	}
	out.Amount = out.LineItemsTotal()
	b.err = b.store.AppendOutflow(b.ctx, out)
}
