package id

import "testing"

func TestNewIsDeterministic(t *testing.T) {
	ns := Namespace(42)
	a := New(ns, PrefixVendor, "vendor", 7)
	b := New(ns, PrefixVendor, "vendor", 7)
	if a.String() != b.String() {
		t.Fatalf("same inputs produced different IDs: %s != %s", a, b)
	}
}

func TestNewDiffersByIndex(t *testing.T) {
	ns := Namespace(42)
	a := New(ns, PrefixVendor, "vendor", 1)
	b := New(ns, PrefixVendor, "vendor", 2)
	if a.Equal(b) {
		t.Fatal("distinct indices produced the same ID")
	}
}

func TestNamespaceDiffersBySeed(t *testing.T) {
	a := New(Namespace(1), PrefixVendor, "vendor", 1)
	b := New(Namespace(2), PrefixVendor, "vendor", 1)
	if a.Equal(b) {
		t.Fatal("distinct seeds produced the same ID")
	}
}

func TestParseRoundTrip(t *testing.T) {
	ns := Namespace(42)
	original := New(ns, PrefixJournalEntry, "je", 100)
	parsed, err := Parse(original.String())
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(original) || parsed.Prefix() != PrefixJournalEntry {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, original)
	}
}

func TestNilID(t *testing.T) {
	if !Nil.IsNil() {
		t.Fatal("Nil.IsNil() should be true")
	}
	if Nil.String() != "" {
		t.Fatalf("Nil.String() = %q, want empty", Nil.String())
	}
}

func TestParseEmptyIsError(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatal("expected error parsing empty string")
	}
}
