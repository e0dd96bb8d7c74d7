/*
monitor.go - Low-balance monitor

PURPOSE:
  Periodically snapshots every outlet's balance and logs a warning for
  outlets that fell below their alert threshold, so the finance team can
  push a reimbursement before the cashier runs dry. The same check backs
  GET /api/alerts.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Outlets with a zero threshold are never flagged
  - A failing outlet is logged and skipped; the rest are still checked

USAGE:
  monitor := NewBalanceMonitor(reconciler, logger)
  monitor.Start()
  // ... later
  monitor.Stop()

SEE ALSO:
  - reconcile/reconciler.go: Snapshot
  - handlers.go: ListAlerts
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/pettycash/ledger"
	"github.com/warp/pettycash/reconcile"
)

// BalanceMonitor checks outlet balances against their thresholds.
type BalanceMonitor struct {
	Reconciler    *reconcile.Reconciler
	Logger        *logrus.Logger
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewBalanceMonitor creates a monitor checking once an hour.
func NewBalanceMonitor(rec *reconcile.Reconciler, logger *logrus.Logger) *BalanceMonitor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &BalanceMonitor{
		Reconciler:    rec,
		Logger:        logger,
		CheckInterval: time.Hour,
		Enabled:       true,
	}
}

// Start begins periodic checks. The first check runs immediately.
func (m *BalanceMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.Enabled {
		m.Logger.Info("balance monitor disabled")
		return
	}
	if m.ticker != nil {
		return
	}

	m.ticker = time.NewTicker(m.CheckInterval)
	m.stop = make(chan struct{})
	m.wg.Add(1)
	go m.run(m.ticker, m.stop)

	m.Logger.WithField("interval", m.CheckInterval.String()).Info("balance monitor started")
}

// Stop halts the monitor and waits for an in-flight check to finish.
func (m *BalanceMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ticker == nil {
		return
	}
	m.ticker.Stop()
	close(m.stop)
	m.wg.Wait()
	m.ticker = nil
	m.Logger.Info("balance monitor stopped")
}

func (m *BalanceMonitor) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer m.wg.Done()

	m.RunNow()
	for {
		select {
		case <-ticker.C:
			m.RunNow()
		case <-stop:
			return
		}
	}
}

// RunNow runs one check and logs the result.
func (m *BalanceMonitor) RunNow() {
	alerts, err := m.Check(context.Background())
	if err != nil {
		m.Logger.WithError(err).Error("balance check failed")
		return
	}
	for _, snap := range alerts {
		m.Logger.WithFields(logrus.Fields{
			"outlet_id": snap.OutletID,
			"balance":   snap.Balance.Int64(),
			"threshold": snap.Threshold.Int64(),
			"as_of":     snap.AsOf.String(),
		}).Warn("outlet balance below threshold")
	}
}

// Check returns today's snapshot for every outlet below its threshold.
// Only a failure to list outlets is returned; per-outlet failures are
// logged and skipped.
func (m *BalanceMonitor) Check(ctx context.Context) ([]reconcile.BalanceSnapshot, error) {
	outlets, err := m.Reconciler.Store.ListOutlets(ctx)
	if err != nil {
		return nil, ledger.QueryErr("list_outlets", err)
	}

	alerts := []reconcile.BalanceSnapshot{}
	for _, o := range outlets {
		if !o.AlertThreshold.IsPositive() {
			continue
		}
		snap, err := m.Reconciler.Snapshot(ctx, o.ID, ledger.Date{})
		if err != nil {
			m.Logger.WithFields(logrus.Fields{
				"outlet_id": o.ID,
				"error":     err.Error(),
			}).Error("balance snapshot failed")
			continue
		}
		if snap.BelowThreshold {
			alerts = append(alerts, *snap)
		}
	}
	return alerts, nil
}
