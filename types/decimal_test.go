package types

import "testing"

func TestDecimalArithmetic(t *testing.T) {
	tests := []struct {
		name string
		a, b Decimal
		want Decimal
		op   func(a, b Decimal) Decimal
	}{
		{"add", NewDecimal(1050, -2), NewDecimal(250, -2), NewDecimal(1300, -2), Decimal.Add},
		{"sub", NewDecimal(1050, -2), NewDecimal(250, -2), NewDecimal(800, -2), Decimal.Sub},
		{"mul", NewDecimal(200, -2), NewDecimal(300, -2), NewDecimal(600, -2), Decimal.Mul},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.op(tt.a, tt.b)
			if !got.Equal(tt.want) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecimalStringRoundTrip(t *testing.T) {
	cases := []string{"0.0000", "1234.5600", "-99.9900"}
	for _, c := range cases {
		d, err := ParseDecimal(c)
		if err != nil {
			t.Fatalf("parse %q: %v", c, err)
		}
		if got := d.String(); got != c {
			t.Errorf("round trip %q: got %q", c, got)
		}
	}
}

func TestDecimalLeadingDigit(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"123.45", 1},
		{"987.00", 9},
		{"0.0042", 4},
		{"0.0000", 0},
	}
	for _, tt := range tests {
		d, err := ParseDecimal(tt.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.in, err)
		}
		if got := d.LeadingDigit(); got != tt.want {
			t.Errorf("LeadingDigit(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDecimalSum(t *testing.T) {
	got := SumDecimal(NewFromInt(10), NewFromInt(20), NewFromInt(5))
	if want := NewFromInt(35); !got.Equal(want) {
		t.Errorf("SumDecimal = %s, want %s", got, want)
	}
}

func TestDecimalDivideByZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic dividing by zero")
		}
	}()
	NewFromInt(10).DivInt(0)
}

func TestDecimalMinMax(t *testing.T) {
	a, b := NewFromInt(5), NewFromInt(9)
	if got := a.Min(b); !got.Equal(a) {
		t.Errorf("Min = %s, want %s", got, a)
	}
	if got := a.Max(b); !got.Equal(b) {
		t.Errorf("Max = %s, want %s", got, b)
	}
}
