/*
store.go - Persistence contract for the petty-cash ledger

PURPOSE:
  Defines the interface between reconciliation logic and the database.
  The reconciler only needs range queries ("date < X", "X <= date <= Y"),
  ordered reads, and a handful of writes for the reimbursement workflow.

KEY INTERFACES:
  Store:   Outlets, inflow/outflow ledgers, reimbursement requests
  TxStore: Store plus WithTx for multi-record writes that must land together

APPEND-ONLY CONTRACT:
  Inflow and outflow events are never deleted and their amounts and dates
  never change. The only mutation on an outflow is its reimbursement status
  and link, moved by LinkOutflows and UpdateLinkedOutflows.

ATOMIC WORKFLOW STEPS:
  Submitting a reimbursement inserts a request AND flips outflow statuses.
  Approving one appends an inflow AND updates statuses. Each step runs
  inside WithTx so a failure part-way leaves nothing behind.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Embedded SQLite (default)
  - store/gormdb/gormdb.go: MySQL through gorm (hosted deployments)
  - ledger/store/memory.go: In-memory for tests and demos

SEE ALSO:
  - reconcile/reconciler.go: The only consumer of these reads
*/
package ledger

import "context"

//go:generate mockgen -destination=mocks/mock_store.go -package=mock_ledger github.com/warp/pettycash/ledger Store,TxStore

// =============================================================================
// STORE
// =============================================================================

// Store handles persistence for outlets, ledgers and reimbursements.
//
// Not-found lookups return ErrOutletNotFound / ErrReimbursementNotFound.
// Range reads are ordered by date, then by creation time.
type Store interface {
	// Outlets
	SaveOutlet(ctx context.Context, outlet Outlet) error
	GetOutlet(ctx context.Context, id OutletID) (*Outlet, error)
	ListOutlets(ctx context.Context) ([]Outlet, error)

	// Appends. Amounts must already be validated.
	AppendInflow(ctx context.Context, inflow InflowEvent) error
	AppendOutflow(ctx context.Context, outflow OutflowEvent) error

	// LastInflowBefore returns the most recent inflow dated strictly before
	// `before`, or nil if there is none.
	LastInflowBefore(ctx context.Context, outletID OutletID, before Date) (*InflowEvent, error)

	// SumInflowsBefore / SumOutflowsBefore total everything dated strictly
	// before `before`.
	SumInflowsBefore(ctx context.Context, outletID OutletID, before Date) (Money, error)
	SumOutflowsBefore(ctx context.Context, outletID OutletID, before Date) (Money, error)

	// InflowsInRange / OutflowsInRange return events with from <= date <= to.
	InflowsInRange(ctx context.Context, outletID OutletID, from, to Date) ([]InflowEvent, error)
	OutflowsInRange(ctx context.Context, outletID OutletID, from, to Date) ([]OutflowEvent, error)

	// Reimbursement requests
	CreateReimbursement(ctx context.Context, req ReimbursementRequest) error
	GetReimbursement(ctx context.Context, id ReimbursementID) (*ReimbursementRequest, error)
	ListReimbursements(ctx context.Context, filter ReimbursementFilter) ([]ReimbursementRequest, error)
	// UpdateReimbursement persists status and decision fields.
	UpdateReimbursement(ctx context.Context, req ReimbursementRequest) error

	// LinkOutflows moves every Recorded outflow of the outlet dated within
	// the period to Submitted and links it to the request. Returns the
	// number of outflows changed.
	LinkOutflows(ctx context.Context, outletID OutletID, period Period, id ReimbursementID) (int, error)

	// UpdateLinkedOutflows sets the status of every outflow linked to the
	// request. Moving back to Recorded also clears the link.
	UpdateLinkedOutflows(ctx context.Context, id ReimbursementID, status OutflowStatus) (int, error)
}

// TxStore wraps Store with transaction support.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, every write made through the passed Store is
	// rolled back. If fn returns nil, the writes are committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// Resetter is implemented by stores that can wipe all data. Only used by
// demo scenarios.
type Resetter interface {
	Reset(ctx context.Context) error
}
