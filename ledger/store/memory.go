// Package store provides an in-memory ledger.TxStore.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/pettycash/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu             sync.RWMutex
	outlets        map[ledger.OutletID]ledger.Outlet
	inflows        map[ledger.OutletID][]ledger.InflowEvent
	outflows       map[ledger.OutletID][]ledger.OutflowEvent
	reimbursements map[ledger.ReimbursementID]ledger.ReimbursementRequest
	now            func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		outlets:        make(map[ledger.OutletID]ledger.Outlet),
		inflows:        make(map[ledger.OutletID][]ledger.InflowEvent),
		outflows:       make(map[ledger.OutletID][]ledger.OutflowEvent),
		reimbursements: make(map[ledger.ReimbursementID]ledger.ReimbursementRequest),
		now:            time.Now,
	}
}

// Reset drops all data.
func (m *Memory) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m: m}).Reset(ctx)
}

// WithTx executes fn within a transaction.
// For the memory store this is simulated with a snapshot + rollback on error.
func (m *Memory) WithTx(_ context.Context, fn func(ledger.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	if err := fn(&view{m: m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type memorySnapshot struct {
	outlets        map[ledger.OutletID]ledger.Outlet
	inflows        map[ledger.OutletID][]ledger.InflowEvent
	outflows       map[ledger.OutletID][]ledger.OutflowEvent
	reimbursements map[ledger.ReimbursementID]ledger.ReimbursementRequest
}

func (m *Memory) snapshot() memorySnapshot {
	s := memorySnapshot{
		outlets:        make(map[ledger.OutletID]ledger.Outlet, len(m.outlets)),
		inflows:        make(map[ledger.OutletID][]ledger.InflowEvent, len(m.inflows)),
		outflows:       make(map[ledger.OutletID][]ledger.OutflowEvent, len(m.outflows)),
		reimbursements: make(map[ledger.ReimbursementID]ledger.ReimbursementRequest, len(m.reimbursements)),
	}
	for k, v := range m.outlets {
		s.outlets[k] = v
	}
	for k, v := range m.inflows {
		s.inflows[k] = append([]ledger.InflowEvent{}, v...)
	}
	for k, v := range m.outflows {
		s.outflows[k] = append([]ledger.OutflowEvent{}, v...)
	}
	for k, v := range m.reimbursements {
		s.reimbursements[k] = v
	}
	return s
}

func (m *Memory) restore(s memorySnapshot) {
	m.outlets = s.outlets
	m.inflows = s.inflows
	m.outflows = s.outflows
	m.reimbursements = s.reimbursements
}

// =============================================================================
// ledger.Store - each method locks, then defers to the unlocked view
// =============================================================================

func (m *Memory) SaveOutlet(ctx context.Context, o ledger.Outlet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m: m}).SaveOutlet(ctx, o)
}

func (m *Memory) GetOutlet(ctx context.Context, id ledger.OutletID) (*ledger.Outlet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return (&view{m: m}).GetOutlet(ctx, id)
}

func (m *Memory) ListOutlets(ctx context.Context) ([]ledger.Outlet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return (&view{m: m}).ListOutlets(ctx)
}

func (m *Memory) AppendInflow(ctx context.Context, in ledger.InflowEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m: m}).AppendInflow(ctx, in)
}

func (m *Memory) AppendOutflow(ctx context.Context, out ledger.OutflowEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m: m}).AppendOutflow(ctx, out)
}

func (m *Memory) LastInflowBefore(ctx context.Context, outletID ledger.OutletID, before ledger.Date) (*ledger.InflowEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return (&view{m: m}).LastInflowBefore(ctx, outletID, before)
}

func (m *Memory) SumInflowsBefore(ctx context.Context, outletID ledger.OutletID, before ledger.Date) (ledger.Money, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return (&view{m: m}).SumInflowsBefore(ctx, outletID, before)
}

func (m *Memory) SumOutflowsBefore(ctx context.Context, outletID ledger.OutletID, before ledger.Date) (ledger.Money, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return (&view{m: m}).SumOutflowsBefore(ctx, outletID, before)
}

func (m *Memory) InflowsInRange(ctx context.Context, outletID ledger.OutletID, from, to ledger.Date) ([]ledger.InflowEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return (&view{m: m}).InflowsInRange(ctx, outletID, from, to)
}

func (m *Memory) OutflowsInRange(ctx context.Context, outletID ledger.OutletID, from, to ledger.Date) ([]ledger.OutflowEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return (&view{m: m}).OutflowsInRange(ctx, outletID, from, to)
}

func (m *Memory) CreateReimbursement(ctx context.Context, r ledger.ReimbursementRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m: m}).CreateReimbursement(ctx, r)
}

func (m *Memory) GetReimbursement(ctx context.Context, id ledger.ReimbursementID) (*ledger.ReimbursementRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return (&view{m: m}).GetReimbursement(ctx, id)
}

func (m *Memory) ListReimbursements(ctx context.Context, f ledger.ReimbursementFilter) ([]ledger.ReimbursementRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return (&view{m: m}).ListReimbursements(ctx, f)
}

func (m *Memory) UpdateReimbursement(ctx context.Context, r ledger.ReimbursementRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m: m}).UpdateReimbursement(ctx, r)
}

func (m *Memory) LinkOutflows(ctx context.Context, outletID ledger.OutletID, p ledger.Period, id ledger.ReimbursementID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m: m}).LinkOutflows(ctx, outletID, p, id)
}

func (m *Memory) UpdateLinkedOutflows(ctx context.Context, id ledger.ReimbursementID, status ledger.OutflowStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m: m}).UpdateLinkedOutflows(ctx, id, status)
}

// =============================================================================
// VIEW - Unlocked implementation, shared by Memory and WithTx
// =============================================================================

type view struct {
	m *Memory
}

func (v *view) Reset(_ context.Context) error {
	v.m.restore(NewMemory().snapshot())
	return nil
}

func (v *view) SaveOutlet(_ context.Context, o ledger.Outlet) error {
	if existing, ok := v.m.outlets[o.ID]; ok {
		o.CreatedAt = existing.CreatedAt
	} else if o.CreatedAt.IsZero() {
		o.CreatedAt = v.m.now().UTC()
	}
	v.m.outlets[o.ID] = o
	return nil
}

func (v *view) GetOutlet(_ context.Context, id ledger.OutletID) (*ledger.Outlet, error) {
	o, ok := v.m.outlets[id]
	if !ok {
		return nil, ledger.ErrOutletNotFound
	}
	return &o, nil
}

func (v *view) ListOutlets(_ context.Context) ([]ledger.Outlet, error) {
	result := make([]ledger.Outlet, 0, len(v.m.outlets))
	for _, o := range v.m.outlets {
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (v *view) AppendInflow(_ context.Context, in ledger.InflowEvent) error {
	if _, ok := v.m.outlets[in.OutletID]; !ok {
		return ledger.ErrOutletNotFound
	}
	for _, existing := range v.m.inflows[in.OutletID] {
		if existing.ID == in.ID {
			return ledger.ErrDuplicateID
		}
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = v.m.now().UTC()
	}
	txs := v.m.inflows[in.OutletID]
	// Keep date order; equal dates keep insertion order.
	i := sort.Search(len(txs), func(i int) bool { return txs[i].Date.After(in.Date) })
	txs = append(txs, ledger.InflowEvent{})
	copy(txs[i+1:], txs[i:])
	txs[i] = in
	v.m.inflows[in.OutletID] = txs
	return nil
}

func (v *view) AppendOutflow(_ context.Context, out ledger.OutflowEvent) error {
	if _, ok := v.m.outlets[out.OutletID]; !ok {
		return ledger.ErrOutletNotFound
	}
	for _, existing := range v.m.outflows[out.OutletID] {
		if existing.ID == out.ID {
			return ledger.ErrDuplicateID
		}
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = v.m.now().UTC()
	}
	if out.Status == "" {
		out.Status = ledger.OutflowRecorded
	}
	out.LineItems = append([]ledger.LineItem(nil), out.LineItems...)
	txs := v.m.outflows[out.OutletID]
	i := sort.Search(len(txs), func(i int) bool { return txs[i].Date.After(out.Date) })
	txs = append(txs, ledger.OutflowEvent{})
	copy(txs[i+1:], txs[i:])
	txs[i] = out
	v.m.outflows[out.OutletID] = txs
	return nil
}

func (v *view) LastInflowBefore(_ context.Context, outletID ledger.OutletID, before ledger.Date) (*ledger.InflowEvent, error) {
	txs := v.m.inflows[outletID]
	for i := len(txs) - 1; i >= 0; i-- {
		if txs[i].Date.Before(before) {
			in := txs[i]
			return &in, nil
		}
	}
	return nil, nil
}

func (v *view) SumInflowsBefore(_ context.Context, outletID ledger.OutletID, before ledger.Date) (ledger.Money, error) {
	total := ledger.Money{}
	for _, in := range v.m.inflows[outletID] {
		if in.Date.Before(before) {
			total = total.Add(in.Amount)
		}
	}
	return total, nil
}

func (v *view) SumOutflowsBefore(_ context.Context, outletID ledger.OutletID, before ledger.Date) (ledger.Money, error) {
	total := ledger.Money{}
	for _, out := range v.m.outflows[outletID] {
		if out.Date.Before(before) {
			total = total.Add(out.Amount)
		}
	}
	return total, nil
}

func (v *view) InflowsInRange(_ context.Context, outletID ledger.OutletID, from, to ledger.Date) ([]ledger.InflowEvent, error) {
	var result []ledger.InflowEvent
	for _, in := range v.m.inflows[outletID] {
		if from.BeforeOrEqual(in.Date) && in.Date.BeforeOrEqual(to) {
			result = append(result, in)
		}
	}
	return result, nil
}

func (v *view) OutflowsInRange(_ context.Context, outletID ledger.OutletID, from, to ledger.Date) ([]ledger.OutflowEvent, error) {
	var result []ledger.OutflowEvent
	for _, out := range v.m.outflows[outletID] {
		if from.BeforeOrEqual(out.Date) && out.Date.BeforeOrEqual(to) {
			out.LineItems = append([]ledger.LineItem(nil), out.LineItems...)
			result = append(result, out)
		}
	}
	return result, nil
}

func (v *view) CreateReimbursement(_ context.Context, r ledger.ReimbursementRequest) error {
	if _, ok := v.m.outlets[r.OutletID]; !ok {
		return ledger.ErrOutletNotFound
	}
	if _, ok := v.m.reimbursements[r.ID]; ok {
		return ledger.ErrDuplicateID
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = v.m.now().UTC()
	}
	v.m.reimbursements[r.ID] = r
	return nil
}

func (v *view) GetReimbursement(_ context.Context, id ledger.ReimbursementID) (*ledger.ReimbursementRequest, error) {
	r, ok := v.m.reimbursements[id]
	if !ok {
		return nil, ledger.ErrReimbursementNotFound
	}
	return &r, nil
}

func (v *view) ListReimbursements(_ context.Context, f ledger.ReimbursementFilter) ([]ledger.ReimbursementRequest, error) {
	var result []ledger.ReimbursementRequest
	for _, r := range v.m.reimbursements {
		if f.OutletID != "" && r.OutletID != f.OutletID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (v *view) UpdateReimbursement(_ context.Context, r ledger.ReimbursementRequest) error {
	existing, ok := v.m.reimbursements[r.ID]
	if !ok {
		return ledger.ErrReimbursementNotFound
	}
	existing.Status = r.Status
	existing.DecidedBy = r.DecidedBy
	existing.DecidedAt = r.DecidedAt
	existing.RejectionReason = r.RejectionReason
	existing.Notes = r.Notes
	v.m.reimbursements[r.ID] = existing
	return nil
}

func (v *view) LinkOutflows(_ context.Context, outletID ledger.OutletID, p ledger.Period, id ledger.ReimbursementID) (int, error) {
	n := 0
	txs := v.m.outflows[outletID]
	for i := range txs {
		if txs[i].Status == ledger.OutflowRecorded && p.Contains(txs[i].Date) {
			txs[i].Status = ledger.OutflowSubmitted
			txs[i].ReimbursementID = id
			n++
		}
	}
	return n, nil
}

func (v *view) UpdateLinkedOutflows(_ context.Context, id ledger.ReimbursementID, status ledger.OutflowStatus) (int, error) {
	n := 0
	for _, txs := range v.m.outflows {
		for i := range txs {
			if txs[i].ReimbursementID != id {
				continue
			}
			txs[i].Status = status
			if status == ledger.OutflowRecorded {
				txs[i].ReimbursementID = ""
			}
			n++
		}
	}
	return n, nil
}
