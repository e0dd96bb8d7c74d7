package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pettycash/ledger"
	mock_ledger "github.com/warp/pettycash/ledger/mocks"
)

func warnings(env *testEnv, msg string) []logrus.Fields {
	var out []logrus.Fields
	for _, e := range env.hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == msg {
			out = append(out, e.Data)
		}
	}
	return out
}

func TestBalanceMonitor_RunNow(t *testing.T) {
	env := newTestEnv(t)
	env.loadScenario(t, "overdrawn-outlet")
	env.hook.Reset()

	env.handler.Monitor.RunNow()

	got := warnings(env, "outlet balance below threshold")
	require.Len(t, got, 1)
	assert.Equal(t, ledger.OutletID("outlet-blok-m"), got[0]["outlet_id"])
	assert.Equal(t, int64(-30000), got[0]["balance"])
	assert.Equal(t, "2024-01-25", got[0]["as_of"])
}

func TestBalanceMonitor_HealthyOutletNotFlagged(t *testing.T) {
	env := newTestEnv(t)
	env.loadScenario(t, "worked-example")

	alerts, err := env.handler.Monitor.Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestBalanceMonitor_StartStop(t *testing.T) {
	env := newTestEnv(t)
	env.loadScenario(t, "overdrawn-outlet")
	env.hook.Reset()

	m := env.handler.Monitor
	m.CheckInterval = time.Hour
	m.Start()
	m.Start() // no-op while running
	m.Stop()
	m.Stop()

	// The first check runs before the loop waits on the ticker.
	assert.Len(t, warnings(env, "outlet balance below threshold"), 1)
}

func TestBalanceMonitor_Disabled(t *testing.T) {
	env := newTestEnv(t)
	m := env.handler.Monitor
	m.Enabled = false

	m.Start()
	m.Stop()

	require.NotNil(t, env.hook.LastEntry())
	assert.Equal(t, "balance monitor disabled", env.hook.LastEntry().Message)
}

func TestBalanceMonitor_SkipsFailingOutlet(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_ledger.NewMockTxStore(ctrl)
	store.EXPECT().ListOutlets(gomock.Any()).Return([]ledger.Outlet{
		{ID: "no-threshold"},
		{ID: "broken", AlertThreshold: ledger.NewMoney(10000)},
	}, nil)
	store.EXPECT().GetOutlet(gomock.Any(), ledger.OutletID("broken")).Return(nil, errors.New("disk I/O error"))

	env := newTestEnvWithStore(t, store)
	alerts, err := env.handler.Monitor.Check(context.Background())

	require.NoError(t, err)
	assert.Empty(t, alerts)
	entry := env.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "balance snapshot failed", entry.Message)
	assert.Equal(t, ledger.OutletID("broken"), entry.Data["outlet_id"])
}

func TestBalanceMonitor_ListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_ledger.NewMockTxStore(ctrl)
	store.EXPECT().ListOutlets(gomock.Any()).Return(nil, errors.New("timeout"))

	env := newTestEnvWithStore(t, store)
	_, err := env.handler.Monitor.Check(context.Background())

	assert.ErrorIs(t, err, ledger.ErrQueryFailed)
}
