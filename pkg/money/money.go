// Package money implements exact fixed-point monetary amounts.
//
// A Money value is an integer count of minor units at Scale fractional digits,
// so addition, subtraction and comparison never lose precision. Parsing,
// percentage allocation and rounding go through shopspring/decimal.
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// Scale is the number of fractional digits every amount is stored with.
	Scale = 4
	// DisplayPlaces is the number of fractional digits shown to users.
	DisplayPlaces = 2
)

// ErrInvalid is returned when a value cannot be represented as Money.
var ErrInvalid = errors.New("invalid monetary amount")

var (
	unitsPerWhole = int64(10000)
	maxUnits      = decimal.NewFromInt(math.MaxInt64)
	minUnits      = decimal.NewFromInt(math.MinInt64)
	hundred       = decimal.NewFromInt(100)
)

// Money is a signed amount. Positive values are inflows, negative values outflows.
// The zero value is 0.0000.
type Money struct {
	units int64
}

// Zero returns 0.0000.
func Zero() Money { return Money{} }

// FromUnits builds a Money from a raw count of 0.0001 units.
func FromUnits(units int64) Money { return Money{units: units} }

// FromInt builds a Money from a whole amount.
func FromInt(n int64) Money { return Money{units: n * unitsPerWhole} }

// FromDecimal converts d, rejecting values with more than Scale fractional digits.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Truncate(Scale)) {
		return Money{}, fmt.Errorf("%w: %s has more than %d fractional digits", ErrInvalid, d.String(), Scale)
	}
	shifted := d.Shift(Scale)
	if shifted.GreaterThan(maxUnits) || shifted.LessThan(minUnits) {
		return Money{}, fmt.Errorf("%w: %s is out of range", ErrInvalid, d.String())
	}
	return Money{units: shifted.IntPart()}, nil
}

// Parse reads a plain decimal string such as "-1250.5".
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("%w: empty value", ErrInvalid)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return FromDecimal(d)
}

// MustParse is Parse for constants and tests. It panics on bad input.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Add returns a + b.
func Add(a, b Money) Money { return Money{units: a.units + b.units} }

// Sub returns a - b.
func Sub(a, b Money) Money { return Money{units: a.units - b.units} }

// Compare returns -1, 0 or +1.
func Compare(a, b Money) int {
	switch {
	case a.units < b.units:
		return -1
	case a.units > b.units:
		return 1
	default:
		return 0
	}
}

// Abs returns |a|.
func Abs(a Money) Money {
	if a.units < 0 {
		return Money{units: -a.units}
	}
	return a
}

// IsZero reports whether a is 0.
func IsZero(a Money) bool { return a.units == 0 }

// Sum adds all values.
func Sum(values ...Money) Money {
	var total int64
	for _, v := range values {
		total += v.units
	}
	return Money{units: total}
}

// Add returns m + o.
func (m Money) Add(o Money) Money { return Add(m, o) }

// Sub returns m - o.
func (m Money) Sub(o Money) Money { return Sub(m, o) }

// Cmp returns -1, 0 or +1 as m is less than, equal to or greater than o.
func (m Money) Cmp(o Money) int { return Compare(m, o) }

// Equal reports whether m and o are the same amount.
func (m Money) Equal(o Money) bool { return m.units == o.units }

// LessThan reports whether m < o.
func (m Money) LessThan(o Money) bool { return m.units < o.units }

// GreaterThan reports whether m > o.
func (m Money) GreaterThan(o Money) bool { return m.units > o.units }

// Abs returns |m|.
func (m Money) Abs() Money { return Abs(m) }

// Neg returns -m.
func (m Money) Neg() Money { return Money{units: -m.units} }

// IsZero reports whether m is 0.
func (m Money) IsZero() bool { return m.units == 0 }

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool { return m.units > 0 }

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool { return m.units < 0 }

// Units returns the raw count of 0.0001 units.
func (m Money) Units() int64 { return m.units }

// Decimal returns the exact decimal value.
func (m Money) Decimal() decimal.Decimal { return decimal.New(m.units, -Scale) }

// String returns the canonical fixed-scale form, e.g. "1234.5000".
func (m Money) String() string { return m.Decimal().StringFixed(Scale) }

// StringFixed rounds half away from zero to places digits.
func (m Money) StringFixed(places int) string { return m.Decimal().StringFixed(int32(places)) }

// Round rounds half away from zero to places fractional digits.
func (m Money) Round(places int) Money {
	if places >= Scale {
		return m
	}
	r := m.Decimal().Round(int32(places))
	return Money{units: r.Shift(Scale).IntPart()}
}

// MulPercent returns m * pct / 100 rounded to Scale.
func (m Money) MulPercent(pct decimal.Decimal) Money {
	r := m.Decimal().Mul(pct).Div(hundred).Round(Scale)
	return Money{units: r.Shift(Scale).IntPart()}
}

// Split divides m into n parts rounded down to places fractional digits.
// The last part absorbs the remainder so the parts always sum to m.
func (m Money) Split(n int, places int) []Money {
	if n < 1 {
		return nil
	}
	if places > Scale {
		places = Scale
	}
	step := int64(1)
	for i := 0; i < Scale-places; i++ {
		step *= 10
	}
	per := m.units / (int64(n) * step) * step
	parts := make([]Money, n)
	for i := 0; i < n-1; i++ {
		parts[i] = Money{units: per}
	}
	parts[n-1] = Money{units: m.units - per*int64(n-1)}
	return parts
}

// Format renders m for display with DisplayPlaces digits and the grouping of tag.
// Only the output is rounded; m itself is unchanged. The whole and fractional
// parts are printed as integers so every digit of the int64 range survives.
func Format(m Money, tag language.Tag) string {
	units := m.Round(DisplayPlaces).units
	abs := uint64(units)
	if units < 0 {
		abs = uint64(-(units + 1)) + 1
	}
	whole := abs / uint64(unitsPerWhole)
	frac := abs % uint64(unitsPerWhole) / 100

	p := message.NewPrinter(tag)
	out := p.Sprint(number.Decimal(whole)) + decimalSeparator(p) +
		p.Sprint(number.Decimal(frac, number.MinIntegerDigits(DisplayPlaces)))
	if units < 0 {
		out = "-" + out
	}
	return out
}

// decimalSeparator returns the fraction separator the printer's locale uses.
func decimalSeparator(p *message.Printer) string {
	s := p.Sprint(number.Decimal(1.5, number.Scale(1)))
	return strings.TrimFunc(s, unicode.IsDigit)
}

// MarshalJSON writes the canonical string so clients never see float rounding.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts both "12.5" and 12.5.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*m = Money{}
		return nil
	}
	s = strings.Trim(s, `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Money{}
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case []byte:
		parsed, err := Parse(string(v))
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case int64:
		*m = FromInt(v)
		return nil
	case float64:
		parsed, err := FromDecimal(decimal.NewFromFloat(v).Round(Scale))
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalid, src)
	}
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
