/*
errors.go - Error taxonomy for the petty-cash ledger

PURPOSE:
  All error types in one place. Every failure the reconciler can surface
  falls into one of three classes:
    - QueryFailure:      a Ledger Store read failed
    - WriteFailure:      a submit/approve/reject write failed
    - ValidationFailure: bad input, caught before any I/O where possible

  Structured errors unwrap to a sentinel, so callers classify with
  errors.Is and inspect details with errors.As.

USAGE:
  if errors.Is(err, ledger.ErrValidation) {
      // 400
  }
  var qe *ledger.QueryError
  if errors.As(err, &qe) {
      log.Printf("query %s failed", qe.Op)
  }

SEE ALSO:
  - api/handlers.go: Maps these to HTTP status codes
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrQueryFailed classifies store read failures.
	ErrQueryFailed = errors.New("ledger query failed")

	// ErrWriteFailed classifies store write failures. Writes that belong to
	// one workflow step are rolled back together.
	ErrWriteFailed = errors.New("ledger write failed")

	// ErrValidation classifies rejected input.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPeriod is returned when a period ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrStaleCalculation is returned when a reimbursement is submitted
	// without a calculation for the same outlet and period.
	ErrStaleCalculation = errors.New("calculation missing or stale for this period")

	// ErrInvalidStatus is returned when a reimbursement is not in the status
	// the transition requires (e.g. approving an already rejected request).
	ErrInvalidStatus = errors.New("invalid reimbursement status for this action")

	// ErrNothingToClaim is returned when a reimbursement period has no
	// Recorded outflows left to link.
	ErrNothingToClaim = errors.New("no unclaimed outflows in period")

	// ErrPeriodTooLong is returned when a period spans more than MaxPeriodDays.
	ErrPeriodTooLong = errors.New("period too long")

	// ErrOutletNotFound is returned when a referenced outlet doesn't exist.
	ErrOutletNotFound = errors.New("outlet not found")

	// ErrReimbursementNotFound is returned when a referenced request doesn't exist.
	ErrReimbursementNotFound = errors.New("reimbursement not found")

	// ErrDuplicateID is returned when inserting a record whose ID exists.
	ErrDuplicateID = errors.New("duplicate id")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// QueryError wraps a failed read.
type QueryError struct {
	Op  string // e.g. "sum_outflows_before"
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() []error {
	return []error{ErrQueryFailed, e.Err}
}

// WriteError wraps a failed write.
type WriteError struct {
	Op  string // e.g. "create_reimbursement"
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrWriteFailed, e.Err}
}

// ValidationError describes rejected input. Err optionally narrows the cause
// (ErrInvalidPeriod, ErrStaleCalculation, ErrInvalidStatus).
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConflict returns true if the request was valid but the record's state
// forbids the action.
func IsConflict(err error) bool {
	return errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrNothingToClaim)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOutletNotFound) ||
		errors.Is(err, ErrReimbursementNotFound)
}

// QueryErr tags a read failure. Not-found sentinels pass through untouched.
func QueryErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || errors.Is(err, ErrQueryFailed) {
		return err
	}
	return &QueryError{Op: op, Err: err}
}

// WriteErr tags a write failure. Not-found and validation errors pass through.
func WriteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || errors.Is(err, ErrWriteFailed) || errors.Is(err, ErrValidation) {
		return err
	}
	return &WriteError{Op: op, Err: err}
}
