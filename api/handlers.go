/*
handlers.go - HTTP API handlers for the petty-cash ledger

PURPOSE:
  Exposes outlets, ledger entry, reconciliation and the reimbursement
  workflow over REST. Handlers parse and validate input, call the
  reconciler, and serialize the result. No balance arithmetic happens
  here: every number comes from reconcile.Reconciler.

ENDPOINTS:
  Outlets:
    GET    /api/outlets                          List outlets
    POST   /api/outlets                          Create outlet
    GET    /api/outlets/{id}                     Outlet details
    PUT    /api/outlets/{id}/initial-balance     Reset initial balance

  Ledger entry:
    POST   /api/outlets/{id}/inflows             Record kas masuk
    POST   /api/outlets/{id}/outflows            Record kas keluar

  Reconciliation:
    GET    /api/outlets/{id}/balance             Dashboard balance (?as_of=)
    GET    /api/outlets/{id}/reconciliation      Residual + daily breakdown
    GET    /api/outlets/{id}/report              WhatsApp text report
    GET    /api/outlets/{id}/export              .xlsx workbook
    GET    /api/export                           .xlsx for every outlet
    GET    /api/alerts                           Outlets under threshold

  Reimbursements:
    POST   /api/outlets/{id}/reimbursements      Submit request
    GET    /api/reimbursements                   List (?status=&outlet_id=)
    GET    /api/reimbursements/{id}              Details
    POST   /api/reimbursements/{id}/approve      Approve and pay out
    POST   /api/reimbursements/{id}/reject       Reject and release

ACTING USER:
  The caller's identity arrives in the X-Actor-ID header and is passed to
  the reconciler explicitly. Authentication happens upstream.

ERROR HANDLING:
  - 400: ledger.ErrValidation (bad input, stale calculation)
  - 404: ledger.ErrOutletNotFound, ledger.ErrReimbursementNotFound
  - 409: ledger.ErrInvalidStatus, ledger.ErrDuplicateID
  - 500: query/write failures

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/warp/pettycash/export"
	"github.com/warp/pettycash/ledger"
	"github.com/warp/pettycash/reconcile"
)

// ActorHeader carries the acting user's identity.
const ActorHeader = "X-Actor-ID"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      ledger.TxStore
	Reconciler *reconcile.Reconciler
	Monitor    *BalanceMonitor
	Logger     *logrus.Logger

	validate *validator.Validate

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler around a reconciler.
func NewHandler(rec *reconcile.Reconciler, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = rec.Logger
	}
	return &Handler{
		Store:      rec.Store,
		Reconciler: rec,
		Monitor:    NewBalanceMonitor(rec, logger),
		Logger:     logger,
		validate:   newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// =============================================================================
// OUTLET ENDPOINTS
// =============================================================================

func (h *Handler) ListOutlets(w http.ResponseWriter, r *http.Request) {
	outlets, err := h.Store.ListOutlets(r.Context())
	if err != nil {
		h.writeDomainError(w, r, ledger.QueryErr("list_outlets", err))
		return
	}
	if outlets == nil {
		outlets = []ledger.Outlet{}
	}
	writeJSON(w, http.StatusOK, outlets)
}

func (h *Handler) CreateOutlet(w http.ResponseWriter, r *http.Request) {
	var req CreateOutletRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	outlet, err := req.toOutlet()
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	ctx := r.Context()
	if _, err := h.Store.GetOutlet(ctx, outlet.ID); err == nil {
		h.writeDomainError(w, r, fmt.Errorf("outlet %s: %w", outlet.ID, ledger.ErrDuplicateID))
		return
	} else if !errors.Is(err, ledger.ErrOutletNotFound) {
		h.writeDomainError(w, r, ledger.QueryErr("get_outlet", err))
		return
	}
	if err := h.Store.SaveOutlet(ctx, outlet); err != nil {
		h.writeDomainError(w, r, ledger.WriteErr("save_outlet", err))
		return
	}

	saved, err := h.Store.GetOutlet(ctx, outlet.ID)
	if err != nil {
		h.writeDomainError(w, r, ledger.QueryErr("get_outlet", err))
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) GetOutlet(w http.ResponseWriter, r *http.Request) {
	outlet, err := h.Store.GetOutlet(r.Context(), outletParam(r))
	if err != nil {
		h.writeDomainError(w, r, ledger.QueryErr("get_outlet", err))
		return
	}
	writeJSON(w, http.StatusOK, outlet)
}

func (h *Handler) UpdateInitialBalance(w http.ResponseWriter, r *http.Request) {
	var req UpdateInitialBalanceRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	date, err := ledger.ParseDate(req.InitialBalanceDate)
	if err != nil {
		h.writeDomainError(w, r, &ledger.ValidationError{Field: "initial_balance_date", Message: err.Error()})
		return
	}

	ctx := r.Context()
	var updated ledger.Outlet
	err = h.Store.WithTx(ctx, func(tx ledger.Store) error {
		outlet, err := tx.GetOutlet(ctx, outletParam(r))
		if err != nil {
			return ledger.QueryErr("get_outlet", err)
		}
		outlet.InitialBalance = ledger.NewMoney(req.InitialBalance)
		outlet.InitialBalanceDate = date
		if err := tx.SaveOutlet(ctx, *outlet); err != nil {
			return ledger.WriteErr("save_outlet", err)
		}
		updated = *outlet
		return nil
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.Logger.WithFields(logrus.Fields{
		"outlet_id":            updated.ID,
		"initial_balance":      updated.InitialBalance.Int64(),
		"initial_balance_date": updated.InitialBalanceDate.String(),
		"actor":                actorFrom(r),
	}).Info("initial balance reset")
	writeJSON(w, http.StatusOK, updated)
}

// =============================================================================
// LEDGER ENTRY ENDPOINTS
// =============================================================================

func (h *Handler) CreateInflow(w http.ResponseWriter, r *http.Request) {
	var req CreateInflowRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		h.writeDomainError(w, r, &ledger.ValidationError{Field: "date", Message: err.Error()})
		return
	}

	in := ledger.InflowEvent{
		ID:        ledger.NewEventID(),
		OutletID:  outletParam(r),
		Date:      date,
		Amount:    ledger.NewMoney(req.Amount),
		Note:      req.Note,
		CreatedBy: actorFrom(r),
	}
	if err := h.Store.AppendInflow(r.Context(), in); err != nil {
		h.writeDomainError(w, r, ledger.WriteErr("append_inflow", err))
		return
	}
	writeJSON(w, http.StatusCreated, in)
}

func (h *Handler) CreateOutflow(w http.ResponseWriter, r *http.Request) {
	var req CreateOutflowRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	out, err := req.toOutflow(outletParam(r), actorFrom(r))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if err := h.Store.AppendOutflow(r.Context(), out); err != nil {
		h.writeDomainError(w, r, ledger.WriteErr("append_outflow", err))
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// =============================================================================
// RECONCILIATION ENDPOINTS
// =============================================================================

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	var asOf ledger.Date
	if s := r.URL.Query().Get("as_of"); s != "" {
		d, err := ledger.ParseDate(s)
		if err != nil {
			h.writeDomainError(w, r, &ledger.ValidationError{Field: "as_of", Message: err.Error()})
			return
		}
		asOf = d
	}

	snap, err := h.Reconciler.Snapshot(r.Context(), outletParam(r), asOf)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) GetReconciliation(w http.ResponseWriter, r *http.Request) {
	calc, ok := h.reconcileFromQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, calc)
}

// GetReport renders the text report. requested defaults to the period's
// outflow total.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	calc, ok := h.reconcileFromQuery(w, r)
	if !ok {
		return
	}

	requested := calc.Breakdown.Totals.Outflow
	if s := r.URL.Query().Get("requested"); s != "" {
		m, err := ledger.ParseMoney(s)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		requested = m
	}

	text := reconcile.FormatReport(reconcile.ReportInputFrom(calc, requested, r.URL.Query().Get("notes")))
	if strings.Contains(r.Header.Get("Accept"), "text/plain") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(text))
		return
	}
	writeJSON(w, http.StatusOK, ReportResponse{Text: text, Calculation: calc})
}

func (h *Handler) ExportOutlet(w http.ResponseWriter, r *http.Request) {
	calc, ok := h.reconcileFromQuery(w, r)
	if !ok {
		return
	}
	filename := fmt.Sprintf("kas-kecil-%s-%s-%s.xlsx", calc.Outlet.ID, calc.Period.Start, calc.Period.End)
	h.writeWorkbook(w, r, filename, []reconcile.Calculation{*calc})
}

// ExportAll writes one workbook covering every outlet for the period.
func (h *Handler) ExportAll(w http.ResponseWriter, r *http.Request) {
	period, err := ledger.ParsePeriod(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	ctx := r.Context()
	outlets, err := h.Store.ListOutlets(ctx)
	if err != nil {
		h.writeDomainError(w, r, ledger.QueryErr("list_outlets", err))
		return
	}
	calcs := make([]reconcile.Calculation, 0, len(outlets))
	for _, o := range outlets {
		calc, err := h.Reconciler.Reconcile(ctx, o.ID, period)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		calcs = append(calcs, *calc)
	}
	h.writeWorkbook(w, r, fmt.Sprintf("kas-kecil-%s-%s.xlsx", period.Start, period.End), calcs)
}

func (h *Handler) writeWorkbook(w http.ResponseWriter, r *http.Request, filename string, calcs []reconcile.Calculation) {
	f, err := export.Workbook(calcs)
	if err != nil {
		h.Logger.WithError(err).Error("failed to build workbook")
		writeError(w, http.StatusInternalServerError, "Failed to build workbook", err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := f.WriteTo(w); err != nil {
		h.Logger.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"error":      err.Error(),
		}).Error("failed to stream workbook")
	}
}

func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.Monitor.Check(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// reconcileFromQuery runs Reconcile for the {id} outlet and the start/end
// query parameters, writing the error response itself on failure.
func (h *Handler) reconcileFromQuery(w http.ResponseWriter, r *http.Request) (*reconcile.Calculation, bool) {
	period, err := ledger.ParsePeriod(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return nil, false
	}
	calc, err := h.Reconciler.Reconcile(r.Context(), outletParam(r), period)
	if err != nil {
		h.writeDomainError(w, r, err)
		return nil, false
	}
	return calc, true
}

// =============================================================================
// REIMBURSEMENT ENDPOINTS
// =============================================================================

// SubmitReimbursement recomputes the period server-side and submits
// against that calculation.
func (h *Handler) SubmitReimbursement(w http.ResponseWriter, r *http.Request) {
	var req SubmitReimbursementRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	period, err := ledger.ParsePeriod(req.Start, req.End)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	ctx := r.Context()
	outletID := outletParam(r)
	calc, err := h.Reconciler.Reconcile(ctx, outletID, period)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if req.ComputedAmount != nil && *req.ComputedAmount != calc.Breakdown.Totals.Outflow.Int64() {
		msg := "ledger changed: outflow total is now " + reconcile.FormatRupiah(calc.Breakdown.Totals.Outflow)
		h.writeDomainError(w, r, &ledger.ValidationError{
			Field:   "computed_amount",
			Message: msg,
			Err:     ledger.ErrStaleCalculation,
		})
		return
	}

	id, err := h.Reconciler.SubmitReimbursement(ctx, reconcile.SubmitInput{
		Outlet:          outletID,
		Period:          period,
		RequestedAmount: ledger.NewMoney(req.RequestedAmount),
		Notes:           req.Notes,
		Actor:           actorFrom(r),
		Calculation:     calc,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, SubmitReimbursementResponse{ID: id, Calculation: calc})
}

func (h *Handler) ListReimbursements(w http.ResponseWriter, r *http.Request) {
	filter := ledger.ReimbursementFilter{
		OutletID: ledger.OutletID(r.URL.Query().Get("outlet_id")),
		Status:   ledger.ReimbursementStatus(r.URL.Query().Get("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		h.writeDomainError(w, r, &ledger.ValidationError{Field: "status", Message: "unknown status " + string(filter.Status)})
		return
	}

	reqs, err := h.Store.ListReimbursements(r.Context(), filter)
	if err != nil {
		h.writeDomainError(w, r, ledger.QueryErr("list_reimbursements", err))
		return
	}
	if reqs == nil {
		reqs = []ledger.ReimbursementRequest{}
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *Handler) GetReimbursement(w http.ResponseWriter, r *http.Request) {
	req, err := h.Store.GetReimbursement(r.Context(), ledger.ReimbursementID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, r, ledger.QueryErr("get_reimbursement", err))
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) ApproveReimbursement(w http.ResponseWriter, r *http.Request) {
	id := ledger.ReimbursementID(chi.URLParam(r, "id"))
	req, err := h.Reconciler.ApproveReimbursement(r.Context(), id, actorFrom(r))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) RejectReimbursement(w http.ResponseWriter, r *http.Request) {
	var body RejectReimbursementRequest
	if err := h.decodeAndValidate(r, &body); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	id := ledger.ReimbursementID(chi.URLParam(r, "id"))
	req, err := h.Reconciler.RejectReimbursement(r.Context(), id, actorFrom(r), body.Reason)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// =============================================================================
// HELPERS
// =============================================================================

func outletParam(r *http.Request) ledger.OutletID {
	return ledger.OutletID(chi.URLParam(r, "id"))
}

func actorFrom(r *http.Request) string {
	if actor := strings.TrimSpace(r.Header.Get(ActorHeader)); actor != "" {
		return actor
	}
	return "anonymous"
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func (h *Handler) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ledger.ValidationError{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := h.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ledger.ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed %q check", fe.Tag()),
			}
		}
		return &ledger.ValidationError{Message: err.Error()}
	}
	return nil
}

// writeDomainError maps the error taxonomy to HTTP status codes. Conflict
// is checked first since status conflicts are also validation errors.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ledger.ValidationError
	field := ""
	if errors.As(err, &ve) {
		field = ve.Field
	}

	switch {
	case ledger.IsConflict(err):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Field: field})
	case ledger.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case ledger.IsClientError(err):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: field})
	default:
		h.Logger.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"path":       r.URL.Path,
			"error":      err.Error(),
		}).Error("request failed")
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
