package ledger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Whole-rupiah amount
// =============================================================================

// Money is an IDR amount. Values are whole rupiah; decimal keeps the
// arithmetic exact and lets the same type flow into SQL and JSON unchanged.
// The zero value is Rp 0.
type Money struct {
	Value decimal.Decimal
}

func NewMoney(v int64) Money { return Money{Value: decimal.NewFromInt(v)} }

// amountPattern accepts plain digits or digits grouped by threes with one
// kind of separator: "20000", "20.000", "1,234,567".
var amountPattern = regexp.MustCompile(`^-?(\d+|\d{1,3}(\.\d{3})+|\d{1,3}(,\d{3})+)$`)

// ParseMoney parses a whole-rupiah amount. Thousands separators ("." or ",")
// and an "Rp" prefix are tolerated since that is how amounts are typed in.
// A separator that does not split off a group of three digits is rejected,
// so "1500.50" is an error rather than 150050.
func ParseMoney(s string) (Money, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(clean, "Rp"), "rp"))
	if clean == "" {
		return Money{}, &ValidationError{Field: "amount", Message: "amount is required"}
	}
	if !amountPattern.MatchString(clean) {
		return Money{}, &ValidationError{Field: "amount", Message: fmt.Sprintf("%q is not a whole rupiah amount", s)}
	}
	d, err := decimal.NewFromString(strings.NewReplacer(".", "", ",", "").Replace(clean))
	if err != nil {
		return Money{}, &ValidationError{Field: "amount", Message: fmt.Sprintf("%q is not a number", s)}
	}
	return Money{Value: d}, nil
}

func (m Money) Add(o Money) Money     { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money     { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Abs() Money            { return Money{Value: m.Value.Abs()} }
func (m Money) IsNegative() bool      { return m.Value.IsNegative() }
func (m Money) IsZero() bool          { return m.Value.IsZero() }
func (m Money) IsPositive() bool      { return m.Value.IsPositive() }
func (m Money) Equal(o Money) bool    { return m.Value.Equal(o.Value) }
func (m Money) LessThan(o Money) bool { return m.Value.LessThan(o.Value) }
func (m Money) Int64() int64          { return m.Value.IntPart() }
func (m Money) String() string        { return m.Value.StringFixed(0) }

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	total := Money{}
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// MarshalJSON encodes the amount as a bare JSON integer.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Value.StringFixed(0)), nil
}

// UnmarshalJSON accepts either a JSON number or a string.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*m = Money{}
		return nil
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
