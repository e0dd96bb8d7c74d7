/*
Package ledger provides the petty-cash data model shared by every layer.

PURPOSE:
  An outlet's cash position is never stored. It is derived from three
  append-only record sets:
    - the outlet's initial balance (and the date it was set),
    - inflow events ("kas masuk": capital injections, reimbursement payouts),
    - outflow events ("kas keluar": recorded expenses with line items).
  Everything here is plain data plus the Store contract. Computation lives
  in the reconcile package.

KEY CONCEPTS IN THIS FILE (types.go):
  - Outlet: a branch holding its own petty-cash float
  - InflowEvent / OutflowEvent: immutable ledger entries
  - OutflowStatus: where an expense sits in the reimbursement workflow
  - ReimbursementRequest: a batched claim for a period's expenses

CONVENTIONS:
  1. Dates are ledger.Date (calendar dates, no time-of-day)
  2. Amounts are ledger.Money (whole rupiah, exact)
  3. IDs are typed strings so outlet and request IDs cannot be mixed

SEE ALSO:
  - store.go: Persistence contract
  - errors.go: Error taxonomy
  - reconcile/reconciler.go: Balance reconciliation
*/
package ledger

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type OutletID string
type EventID string
type ReimbursementID string

// NewEventID returns a random event ID.
func NewEventID() EventID { return EventID(uuid.NewString()) }

// NewReimbursementID returns a random reimbursement ID.
func NewReimbursementID() ReimbursementID { return ReimbursementID(uuid.NewString()) }

// NewOutletID returns a random outlet ID.
func NewOutletID() OutletID { return OutletID(uuid.NewString()) }

// =============================================================================
// OUTLET
// =============================================================================

// Outlet is a physical branch with its own petty-cash balance.
type Outlet struct {
	ID            OutletID `json:"id"`
	Name          string   `json:"name"`
	BankName      string   `json:"bank_name"`
	BankAccount   string   `json:"bank_account"`
	AccountHolder string   `json:"account_holder"`

	// InitialBalance is the float the outlet started with. When an admin
	// resets it, InitialBalanceDate moves forward and becomes the anchor
	// for any period starting after it.
	InitialBalance     Money `json:"initial_balance"`
	InitialBalanceDate Date  `json:"initial_balance_date"`

	// AlertThreshold flags a low balance on the dashboard. Zero disables it.
	AlertThreshold Money `json:"alert_threshold"`

	CreatedAt time.Time `json:"created_at"`
}

// =============================================================================
// INFLOW - Kas masuk
// =============================================================================

type InflowEvent struct {
	ID       EventID  `json:"id"`
	OutletID OutletID `json:"outlet_id"`
	Date     Date     `json:"date"`
	Amount   Money    `json:"amount"`
	Note     string   `json:"note"`

	// ReimbursementID is set when the inflow is the payout of an approved
	// reimbursement request.
	ReimbursementID ReimbursementID `json:"reimbursement_id,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// =============================================================================
// OUTFLOW - Kas keluar
// =============================================================================

type OutflowStatus string

const (
	OutflowRecorded  OutflowStatus = "recorded"  // Not yet claimed
	OutflowSubmitted OutflowStatus = "submitted" // Part of a pending reimbursement
	OutflowApproved  OutflowStatus = "approved"  // Reimbursed
)

func (s OutflowStatus) Valid() bool {
	switch s {
	case OutflowRecorded, OutflowSubmitted, OutflowApproved:
		return true
	}
	return false
}

// LineItem is one purchased item on an expense receipt.
type LineItem struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
	LineTotal   Money  `json:"line_total"`
}

type OutflowEvent struct {
	ID        EventID    `json:"id"`
	OutletID  OutletID   `json:"outlet_id"`
	Date      Date       `json:"date"`
	Amount    Money      `json:"amount"`
	Note      string     `json:"note"`
	LineItems []LineItem `json:"line_items"`

	Status          OutflowStatus   `json:"reimbursement_status"`
	ReimbursementID ReimbursementID `json:"reimbursement_id,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// LineItemsTotal sums the line totals.
func (o OutflowEvent) LineItemsTotal() Money {
	total := Money{}
	for _, li := range o.LineItems {
		total = total.Add(li.LineTotal)
	}
	return total
}

// =============================================================================
// REIMBURSEMENT REQUEST
// =============================================================================

type ReimbursementStatus string

const (
	ReimbursementPending  ReimbursementStatus = "pending"
	ReimbursementApproved ReimbursementStatus = "approved"
	ReimbursementRejected ReimbursementStatus = "rejected"
)

func (s ReimbursementStatus) Valid() bool {
	switch s {
	case ReimbursementPending, ReimbursementApproved, ReimbursementRejected:
		return true
	}
	return false
}

// ReimbursementRequest claims a period's expenses back from head office.
//
// RequestedAmount is what the cashier confirmed and is persisted verbatim,
// even when it differs from ComputedAmount (the period's outflow total).
type ReimbursementRequest struct {
	ID              ReimbursementID     `json:"id"`
	OutletID        OutletID            `json:"outlet_id"`
	PeriodStart     Date                `json:"period_start"`
	PeriodEnd       Date                `json:"period_end"`
	RequestedAmount Money               `json:"requested_amount"`
	ComputedAmount  Money               `json:"computed_amount"`
	Status          ReimbursementStatus `json:"status"`
	Notes           string              `json:"notes"`

	SubmittedBy     string     `json:"submitted_by"`
	DecidedBy       string     `json:"decided_by,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Period returns the request's reporting window.
func (r ReimbursementRequest) Period() Period {
	return Period{Start: r.PeriodStart, End: r.PeriodEnd}
}

// ReimbursementFilter narrows ListReimbursements. Zero fields match all.
type ReimbursementFilter struct {
	OutletID OutletID
	Status   ReimbursementStatus
}
