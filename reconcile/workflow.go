/*
workflow.go - Reimbursement submit / approve / reject

PURPOSE:
  The only writes the reconciler performs. Each step touches more than one
  record, so each runs in a single store transaction:

  Submit:  Recorded outflows in period -> Submitted + insert Pending request
           (nothing left to link is a conflict)
  Approve: append payout inflow + Submitted outflows -> Approved + request Approved
  Reject:  Submitted outflows -> Recorded (unlinked) + request Rejected

  A failure at any point rolls the whole step back.

READ/WRITE AGREEMENT:
  The approval inflow is dated at the approval calendar date. From the next
  day on, ComputeResidual counts it as past inflow, which is exactly the
  cash the outlet received.

SEE ALSO:
  - reconciler.go: Produces the Calculation required by Submit
*/
package reconcile

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/warp/pettycash/ledger"
)

// SubmitInput is everything the cashier confirms on the reimbursement form.
type SubmitInput struct {
	Outlet          ledger.OutletID
	Period          ledger.Period
	RequestedAmount ledger.Money
	Notes           string
	Actor           string

	// Calculation must come from Reconcile for the same outlet and period.
	Calculation *Calculation
}

// SubmitReimbursement links the period's unclaimed outflows to a new Pending
// request. ComputedAmount is the total of the outflows this call linked, so
// a period that was already claimed fails with ErrNothingToClaim.
//
// RequestedAmount is stored as given, even when it differs from the
// computed outflow total.
func (r *Reconciler) SubmitReimbursement(ctx context.Context, in SubmitInput) (ledger.ReimbursementID, error) {
	if err := in.Period.Validate(); err != nil {
		return "", err
	}
	if !in.Calculation.Matches(in.Outlet, in.Period) {
		return "", &ledger.ValidationError{
			Field:   "calculation",
			Message: "recalculate the balance for this outlet and period before submitting",
			Err:     ledger.ErrStaleCalculation,
		}
	}
	if !in.RequestedAmount.IsPositive() {
		return "", &ledger.ValidationError{Field: "requested_amount", Message: "must be greater than zero"}
	}

	req := ledger.ReimbursementRequest{
		ID:              ledger.NewReimbursementID(),
		OutletID:        in.Outlet,
		PeriodStart:     in.Period.Start,
		PeriodEnd:       in.Period.End,
		RequestedAmount: in.RequestedAmount,
		Status:          ledger.ReimbursementPending,
		Notes:           in.Notes,
		SubmittedBy:     in.Actor,
		CreatedAt:       r.Clock().UTC(),
	}

	linked := 0
	err := r.Store.WithTx(ctx, func(tx ledger.Store) error {
		n, err := tx.LinkOutflows(ctx, req.OutletID, in.Period, req.ID)
		if err != nil {
			return ledger.WriteErr("link_outflows", err)
		}
		if n == 0 {
			return &ledger.ValidationError{
				Field:   "period",
				Message: "no unclaimed outflows in " + in.Period.String(),
				Err:     ledger.ErrNothingToClaim,
			}
		}
		linked = n

		computed, err := linkedTotal(ctx, tx, req.OutletID, in.Period, req.ID)
		if err != nil {
			return err
		}
		req.ComputedAmount = computed
		if err := tx.CreateReimbursement(ctx, req); err != nil {
			return ledger.WriteErr("create_reimbursement", err)
		}
		return nil
	})
	if err != nil {
		r.logWriteFailure("submit", req.OutletID, req.ID, err)
		return "", err
	}

	r.Logger.WithFields(logrus.Fields{
		"outlet_id":        req.OutletID,
		"reimbursement_id": req.ID,
		"period":           in.Period.String(),
		"requested_amount": req.RequestedAmount.Int64(),
		"computed_amount":  req.ComputedAmount.Int64(),
		"linked_outflows":  linked,
		"actor":            in.Actor,
	}).Info("reimbursement submitted")
	return req.ID, nil
}

// ApproveReimbursement pays out a Pending request: the requested amount
// lands as an inflow dated today and the linked outflows become Approved.
func (r *Reconciler) ApproveReimbursement(ctx context.Context, id ledger.ReimbursementID, actor string) (*ledger.ReimbursementRequest, error) {
	now := r.Clock()
	var approved ledger.ReimbursementRequest

	err := r.Store.WithTx(ctx, func(tx ledger.Store) error {
		req, err := pendingRequest(ctx, tx, id)
		if err != nil {
			return err
		}

		payout := ledger.InflowEvent{
			ID:              ledger.NewEventID(),
			OutletID:        req.OutletID,
			Date:            r.today(),
			Amount:          req.RequestedAmount,
			Note:            "Reimburse " + req.PeriodStart.Format("02/01/2006") + " - " + req.PeriodEnd.Format("02/01/2006"),
			ReimbursementID: req.ID,
			CreatedBy:       actor,
			CreatedAt:       now.UTC(),
		}
		if err := tx.AppendInflow(ctx, payout); err != nil {
			return ledger.WriteErr("append_inflow", err)
		}
		if _, err := tx.UpdateLinkedOutflows(ctx, req.ID, ledger.OutflowApproved); err != nil {
			return ledger.WriteErr("update_linked_outflows", err)
		}

		decidedAt := now.UTC()
		req.Status = ledger.ReimbursementApproved
		req.DecidedBy = actor
		req.DecidedAt = &decidedAt
		if err := tx.UpdateReimbursement(ctx, *req); err != nil {
			return ledger.WriteErr("update_reimbursement", err)
		}
		approved = *req
		return nil
	})
	if err != nil {
		r.logWriteFailure("approve", "", id, err)
		return nil, err
	}

	r.Logger.WithFields(logrus.Fields{
		"outlet_id":        approved.OutletID,
		"reimbursement_id": approved.ID,
		"amount":           approved.RequestedAmount.Int64(),
		"actor":            actor,
	}).Info("reimbursement approved")
	return &approved, nil
}

// RejectReimbursement declines a Pending request and releases its outflows
// so they can be claimed again.
func (r *Reconciler) RejectReimbursement(ctx context.Context, id ledger.ReimbursementID, actor, reason string) (*ledger.ReimbursementRequest, error) {
	now := r.Clock()
	var rejected ledger.ReimbursementRequest

	err := r.Store.WithTx(ctx, func(tx ledger.Store) error {
		req, err := pendingRequest(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.UpdateLinkedOutflows(ctx, req.ID, ledger.OutflowRecorded); err != nil {
			return ledger.WriteErr("update_linked_outflows", err)
		}

		decidedAt := now.UTC()
		req.Status = ledger.ReimbursementRejected
		req.DecidedBy = actor
		req.DecidedAt = &decidedAt
		req.RejectionReason = reason
		if err := tx.UpdateReimbursement(ctx, *req); err != nil {
			return ledger.WriteErr("update_reimbursement", err)
		}
		rejected = *req
		return nil
	})
	if err != nil {
		r.logWriteFailure("reject", "", id, err)
		return nil, err
	}

	r.Logger.WithFields(logrus.Fields{
		"outlet_id":        rejected.OutletID,
		"reimbursement_id": rejected.ID,
		"reason":           reason,
		"actor":            actor,
	}).Info("reimbursement rejected")
	return &rejected, nil
}

// linkedTotal sums the outflows this transaction just linked to id. Outflows
// claimed by an earlier request are not counted.
func linkedTotal(ctx context.Context, tx ledger.Store, outletID ledger.OutletID, p ledger.Period, id ledger.ReimbursementID) (ledger.Money, error) {
	outs, err := tx.OutflowsInRange(ctx, outletID, p.Start, p.End)
	if err != nil {
		return ledger.Money{}, ledger.QueryErr("outflows_in_range", err)
	}
	total := ledger.NewMoney(0)
	for _, out := range outs {
		if out.ReimbursementID == id {
			total = total.Add(out.Amount)
		}
	}
	return total, nil
}

func pendingRequest(ctx context.Context, tx ledger.Store, id ledger.ReimbursementID) (*ledger.ReimbursementRequest, error) {
	req, err := tx.GetReimbursement(ctx, id)
	if err != nil {
		return nil, ledger.QueryErr("get_reimbursement", err)
	}
	if req.Status != ledger.ReimbursementPending {
		return nil, &ledger.ValidationError{
			Field:   "status",
			Message: "reimbursement is already " + string(req.Status),
			Err:     ledger.ErrInvalidStatus,
		}
	}
	return req, nil
}

func (r *Reconciler) logWriteFailure(step string, outletID ledger.OutletID, id ledger.ReimbursementID, err error) {
	if ledger.IsClientError(err) || ledger.IsNotFound(err) {
		return
	}
	fields := logrus.Fields{
		"step":  step,
		"error": err.Error(),
	}
	if outletID != "" {
		fields["outlet_id"] = outletID
	}
	if id != "" {
		fields["reimbursement_id"] = id
	}
	r.Logger.WithFields(fields).Error("reimbursement workflow failed")
}
