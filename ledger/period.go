package ledger

import "fmt"

// =============================================================================
// PERIOD - Reporting window for reconciliation
// =============================================================================

// MaxPeriodDays bounds a period to one leap year. Breakdowns hold one row
// per day.
const MaxPeriodDays = 366

// Period is an inclusive range of calendar days [Start, End].
//
// Examples:
//   - Daily report for Jan 15: {2024-01-15, 2024-01-15}
//   - Reimbursement window:    {2024-01-11, 2024-01-20}
type Period struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// NewPeriod builds and validates a period.
func NewPeriod(start, end Date) (Period, error) {
	p := Period{Start: start, End: end}
	return p, p.Validate()
}

// ParsePeriod parses two YYYY-MM-DD strings into a validated period.
func ParsePeriod(start, end string) (Period, error) {
	if start == "" || end == "" {
		return Period{}, &ValidationError{Field: "period", Message: "start and end dates are required"}
	}
	s, err := ParseDate(start)
	if err != nil {
		return Period{}, &ValidationError{Field: "start", Message: err.Error()}
	}
	e, err := ParseDate(end)
	if err != nil {
		return Period{}, &ValidationError{Field: "end", Message: err.Error()}
	}
	return NewPeriod(s, e)
}

// SingleDay returns the period covering just d.
func SingleDay(d Date) Period {
	return Period{Start: d, End: d}
}

// Validate rejects unset dates, inverted ranges and periods longer than
// MaxPeriodDays.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return &ValidationError{Field: "period", Message: "start and end dates are required"}
	}
	if p.End.Before(p.Start) {
		return &ValidationError{Field: "period", Message: "end before start", Err: ErrInvalidPeriod}
	}
	if p.Len() > MaxPeriodDays {
		return &ValidationError{
			Field:   "period",
			Message: fmt.Sprintf("spans %d days, at most %d allowed", p.Len(), MaxPeriodDays),
			Err:     ErrPeriodTooLong,
		}
	}
	return nil
}

// Contains returns true if d is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every calendar day in the period, in order.
func (p Period) Days() []Date {
	if p.End.Before(p.Start) {
		return nil
	}
	days := make([]Date, 0, DaysBetween(p.Start, p.End)+1)
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Len returns the number of days in the period.
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
