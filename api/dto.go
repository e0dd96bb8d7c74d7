/*
dto.go - Request/response bodies for the HTTP API

PURPOSE:
  Wire shapes for the petty-cash endpoints. Request DTOs carry validate
  tags (go-playground/validator); decodeAndValidate turns failures into
  ledger.ValidationError so they map to 400 like every other bad input.

CONVENTIONS:
  - Amounts are whole rupiah integers
  - Dates are "YYYY-MM-DD" strings
  - Domain types with their own JSON tags (ledger.Outlet,
    reconcile.Calculation, ...) are returned as-is
*/
package api

import (
	"github.com/warp/pettycash/ledger"
	"github.com/warp/pettycash/reconcile"
)

// =============================================================================
// OUTLETS
// =============================================================================

type CreateOutletRequest struct {
	ID                 string `json:"id" validate:"omitempty,max=64"`
	Name               string `json:"name" validate:"required,max=255"`
	BankName           string `json:"bank_name" validate:"max=128"`
	BankAccount        string `json:"bank_account" validate:"omitempty,numeric,max=64"`
	AccountHolder      string `json:"account_holder" validate:"max=255"`
	InitialBalance     int64  `json:"initial_balance" validate:"gte=0"`
	InitialBalanceDate string `json:"initial_balance_date" validate:"omitempty,datetime=2006-01-02"`
	AlertThreshold     int64  `json:"alert_threshold" validate:"gte=0"`
}

// UpdateInitialBalanceRequest resets the outlet's float. The date becomes
// the anchor for periods starting after it.
type UpdateInitialBalanceRequest struct {
	InitialBalance     int64  `json:"initial_balance" validate:"gte=0"`
	InitialBalanceDate string `json:"initial_balance_date" validate:"required,datetime=2006-01-02"`
}

// =============================================================================
// LEDGER ENTRIES
// =============================================================================

type CreateInflowRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Amount int64  `json:"amount" validate:"gt=0"`
	Note   string `json:"note" validate:"max=512"`
}

type LineItemDTO struct {
	Description string `json:"description" validate:"required,max=255"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	Unit        string `json:"unit" validate:"max=32"`
	LineTotal   int64  `json:"line_total" validate:"gt=0"`
}

// CreateOutflowRequest records an expense. Amount may be omitted when line
// items are given; it then defaults to their sum.
type CreateOutflowRequest struct {
	Date      string        `json:"date" validate:"required,datetime=2006-01-02"`
	Amount    int64         `json:"amount" validate:"gte=0"`
	Note      string        `json:"note" validate:"max=512"`
	LineItems []LineItemDTO `json:"line_items" validate:"dive"`
}

// =============================================================================
// REIMBURSEMENTS
// =============================================================================

// SubmitReimbursementRequest is the reimbursement form. ComputedAmount is
// the outflow total the cashier saw; when it no longer matches the ledger
// the submission is refused as stale.
type SubmitReimbursementRequest struct {
	Start           string `json:"start" validate:"required,datetime=2006-01-02"`
	End             string `json:"end" validate:"required,datetime=2006-01-02"`
	RequestedAmount int64  `json:"requested_amount" validate:"gt=0"`
	ComputedAmount  *int64 `json:"computed_amount,omitempty" validate:"omitempty,gte=0"`
	Notes           string `json:"notes" validate:"max=1000"`
}

type RejectReimbursementRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type SubmitReimbursementResponse struct {
	ID          ledger.ReimbursementID `json:"id"`
	Calculation *reconcile.Calculation `json:"calculation"`
}

// =============================================================================
// REPORTS
// =============================================================================

type ReportResponse struct {
	Text        string                 `json:"text"`
	Calculation *reconcile.Calculation `json:"calculation"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func (req CreateOutletRequest) toOutlet() (ledger.Outlet, error) {
	o := ledger.Outlet{
		ID:             ledger.OutletID(req.ID),
		Name:           req.Name,
		BankName:       req.BankName,
		BankAccount:    req.BankAccount,
		AccountHolder:  req.AccountHolder,
		InitialBalance: ledger.NewMoney(req.InitialBalance),
		AlertThreshold: ledger.NewMoney(req.AlertThreshold),
	}
	if o.ID == "" {
		o.ID = ledger.NewOutletID()
	}
	if req.InitialBalanceDate != "" {
		d, err := ledger.ParseDate(req.InitialBalanceDate)
		if err != nil {
			return o, &ledger.ValidationError{Field: "initial_balance_date", Message: err.Error()}
		}
		o.InitialBalanceDate = d
	}
	return o, nil
}

// toOutflow resolves the amount against the line items.
func (req CreateOutflowRequest) toOutflow(outletID ledger.OutletID, actor string) (ledger.OutflowEvent, error) {
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		return ledger.OutflowEvent{}, &ledger.ValidationError{Field: "date", Message: err.Error()}
	}
	out := ledger.OutflowEvent{
		ID:        ledger.NewEventID(),
		OutletID:  outletID,
		Date:      date,
		Amount:    ledger.NewMoney(req.Amount),
		Note:      req.Note,
		Status:    ledger.OutflowRecorded,
		CreatedBy: actor,
	}
	for _, li := range req.LineItems {
		out.LineItems = append(out.LineItems, ledger.LineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			Unit:        li.Unit,
			LineTotal:   ledger.NewMoney(li.LineTotal),
		})
	}

	if len(out.LineItems) > 0 {
		itemsTotal := out.LineItemsTotal()
		switch {
		case out.Amount.IsZero():
			out.Amount = itemsTotal
		case !out.Amount.Equal(itemsTotal):
			return out, &ledger.ValidationError{
				Field:   "amount",
				Message: "amount " + out.Amount.String() + " does not match line items total " + itemsTotal.String(),
			}
		}
	}
	if !out.Amount.IsPositive() {
		return out, &ledger.ValidationError{Field: "amount", Message: "must be greater than zero"}
	}
	return out, nil
}
