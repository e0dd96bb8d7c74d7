package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pettycash/ledger"
	"github.com/warp/pettycash/reconcile"
)

func TestListScenarios(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/scenarios", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)

	list := decode[[]ScenarioDTO](t, resp)
	require.Len(t, list, len(scenarios))
	for _, s := range list {
		assert.Contains(t, scenarioLoaders, s.ID, "scenario %s has no loader", s.ID)
	}
}

func TestScenario_WorkedExample(t *testing.T) {
	// GIVEN: The worked-example scenario
	// WHEN: Reconciling 15-16 January
	// THEN: Residual 120000 carried from the 10 Jan inflow, closing 100000
	env := newTestEnv(t)
	env.loadScenario(t, "worked-example")

	resp := env.do(t, http.MethodGet, "/api/scenarios/current", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "worked-example", decode[ScenarioDTO](t, resp).ID)

	calc, err := env.handler.Reconciler.Reconcile(context.Background(), "outlet-kemang", ledger.Period{
		Start: ledger.MustParseDate("2024-01-15"),
		End:   ledger.MustParseDate("2024-01-16"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(120000), calc.Residual.Amount.Int64())
	assert.Equal(t, reconcile.AnchorCarried, calc.Residual.Anchor.Kind)
	assert.Equal(t, int64(100000), calc.Breakdown.Closing.Int64())
}

func TestScenario_OverdrawnOutlet(t *testing.T) {
	env := newTestEnv(t)
	env.loadScenario(t, "overdrawn-outlet")

	resp := env.do(t, http.MethodGet, "/api/outlets/outlet-blok-m/balance", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)

	snap := decode[reconcile.BalanceSnapshot](t, resp)
	assert.Equal(t, int64(-30000), snap.Balance.Int64())
	assert.True(t, snap.BelowThreshold)

	resp = env.do(t, http.MethodGet, "/api/alerts", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	alerts := decode[[]reconcile.BalanceSnapshot](t, resp)
	require.Len(t, alerts, 1)
	assert.Equal(t, ledger.OutletID("outlet-blok-m"), alerts[0].OutletID)
}

func TestScenario_PendingReimbursement(t *testing.T) {
	env := newTestEnv(t)
	env.loadScenario(t, "pending-reimbursement")

	resp := env.do(t, http.MethodGet, "/api/reimbursements?status=pending&outlet_id=outlet-kemang", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)

	reqs := decode[[]ledger.ReimbursementRequest](t, resp)
	require.Len(t, reqs, 1)
	assert.Equal(t, int64(30000), reqs[0].RequestedAmount.Int64())
	assert.Equal(t, int64(30000), reqs[0].ComputedAmount.Int64())
	assert.Equal(t, "kasir-kemang", reqs[0].SubmittedBy)
}

func TestScenario_LoadReplacesPrevious(t *testing.T) {
	env := newTestEnv(t)
	env.loadScenario(t, "worked-example")
	env.loadScenario(t, "overdrawn-outlet")

	resp := env.do(t, http.MethodGet, "/api/outlets", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	outlets := decode[[]ledger.Outlet](t, resp)
	require.Len(t, outlets, 1)
	assert.Equal(t, ledger.OutletID("outlet-blok-m"), outlets[0].ID)
}

func TestScenario_UnknownAndReset(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	env.loadScenario(t, "worked-example")
	resp = env.do(t, http.MethodPost, "/api/scenarios/reset", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = env.do(t, http.MethodGet, "/api/scenarios/current", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "null", strings.TrimSpace(resp.Body.String()))

	resp = env.do(t, http.MethodGet, "/api/outlets", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[[]ledger.Outlet](t, resp))
}

func TestScenario_FailedLoadKeepsPrevious(t *testing.T) {
	// GIVEN: the worked example is loaded and a loader that fails halfway
	env := newTestEnv(t)
	env.loadScenario(t, "worked-example")

	scenarioLoaders["half-seeded"] = func(ctx context.Context, s *scenarioTx) error {
		if err := loadOverdrawnOutlet(ctx, s); err != nil {
			return err
		}
		return errors.New("fixture missing")
	}
	t.Cleanup(func() { delete(scenarioLoaders, "half-seeded") })

	// WHEN: loading it
	resp := env.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "half-seeded"}, "")

	// THEN: 500, and the store and current scenario are untouched
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, decode[ErrorResponse](t, resp).Details, "fixture missing")

	resp = env.do(t, http.MethodGet, "/api/outlets", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	outlets := decode[[]ledger.Outlet](t, resp)
	require.Len(t, outlets, 1)
	assert.Equal(t, ledger.OutletID("outlet-kemang"), outlets[0].ID)

	resp = env.do(t, http.MethodGet, "/api/scenarios/current", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "worked-example", decode[ScenarioDTO](t, resp).ID)
}
