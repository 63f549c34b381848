package types

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// decimalScale is the fixed number of fractional digits every monetary
// value in the corpus carries, per spec's fixed-point requirement
// (4 fractional digits, >=28 significant digits, no binary floats).
const decimalScale = 4

// Decimal is a fixed-scale, arbitrary-precision monetary value. All
// arithmetic is exact decimal arithmetic via shopspring/decimal; no
// float64 ever participates in an amount. Serialization is always a
// decimal string, never a float.
type Decimal struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Decimal{d: decimal.Zero}

// NewDecimal builds a Decimal from an integer and an exponent, e.g.
// NewDecimal(12345, -2) == 123.45.
func NewDecimal(value int64, exp int32) Decimal {
	return fromDecimal(decimal.New(value, exp))
}

// NewFromInt builds a whole-unit Decimal.
func NewFromInt(value int64) Decimal {
	return fromDecimal(decimal.NewFromInt(value))
}

// NewFromFloat builds a Decimal from a float64. Only used at generation-time
// inputs (distribution samples); never used for exact comparisons.
func NewFromFloat(value float64) Decimal {
	return fromDecimal(decimal.NewFromFloat(value))
}

// ParseDecimal parses a decimal string, e.g. "1234.5600".
func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("types: parse decimal %q: %w", s, err)
	}
	return fromDecimal(d), nil
}

func fromDecimal(d decimal.Decimal) Decimal {
	return Decimal{d: d.Round(decimalScale)}
}

// Add returns d+other.
func (d Decimal) Add(other Decimal) Decimal { return fromDecimal(d.d.Add(other.d)) }

// Sub returns d-other.
func (d Decimal) Sub(other Decimal) Decimal { return fromDecimal(d.d.Sub(other.d)) }

// Mul returns d*other.
func (d Decimal) Mul(other Decimal) Decimal { return fromDecimal(d.d.Mul(other.d)) }

// MulInt returns d*n.
func (d Decimal) MulInt(n int64) Decimal { return fromDecimal(d.d.Mul(decimal.NewFromInt(n))) }

// DivInt returns d/n. Panics if n is zero, same discipline as the teacher's
// Money.Divide.
func (d Decimal) DivInt(n int64) Decimal {
	if n == 0 {
		panic("types: division by zero")
	}
	return fromDecimal(d.d.Div(decimal.NewFromInt(n)))
}

// Neg returns -d.
func (d Decimal) Neg() Decimal { return fromDecimal(d.d.Neg()) }

// Abs returns |d|.
func (d Decimal) Abs() Decimal { return fromDecimal(d.d.Abs()) }

// IsZero reports whether d == 0.
func (d Decimal) IsZero() bool { return d.d.IsZero() }

// IsPositive reports whether d > 0.
func (d Decimal) IsPositive() bool { return d.d.IsPositive() }

// IsNegative reports whether d < 0.
func (d Decimal) IsNegative() bool { return d.d.IsNegative() }

// Equal reports exact decimal equality.
func (d Decimal) Equal(other Decimal) bool { return d.d.Equal(other.d) }

// LessThan reports whether d < other.
func (d Decimal) LessThan(other Decimal) bool { return d.d.LessThan(other.d) }

// GreaterThan reports whether d > other.
func (d Decimal) GreaterThan(other Decimal) bool { return d.d.GreaterThan(other.d) }

// Min returns the smaller of d and other.
func (d Decimal) Min(other Decimal) Decimal {
	if d.LessThan(other) {
		return d
	}
	return other
}

// Max returns the larger of d and other.
func (d Decimal) Max(other Decimal) Decimal {
	if d.GreaterThan(other) {
		return d
	}
	return other
}

// LeadingDigit returns the first significant (non-zero) digit of |d|, used
// by the Benford-bias sampler and the P5 Benford test. Returns 0 for a
// zero value.
func (d Decimal) LeadingDigit() int {
	abs := d.d.Abs()
	if abs.IsZero() {
		return 0
	}
	coeff := abs.Coefficient()
	s := coeff.String()
	// strip trailing zeros introduced by the exponent so the leading digit
	// reflects the significant value, not its scale.
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return int(s[0] - '0')
}

// Float64 returns the nearest float64 approximation, for use as sampling
// bounds only — never for exact comparisons or invariant checks.
func (d Decimal) Float64() float64 {
	f, _ := d.d.Float64()
	return f
}

// String returns the canonical decimal string, e.g. "1234.5600".
func (d Decimal) String() string { return d.d.StringFixed(decimalScale) }

// MarshalJSON implements json.Marshaler, always as a decimal string.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler from a decimal string.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDecimal(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer for sink/sqlite storage.
func (d Decimal) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Decimal) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseDecimal(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := ParseDecimal(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = Zero
		return nil
	default:
		return fmt.Errorf("types: cannot scan %T into Decimal", src)
	}
}

// SumDecimal sums a slice of Decimals.
func SumDecimal(values ...Decimal) Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}
