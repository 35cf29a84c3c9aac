package core

import (
	"errors"
	"testing"
)

func TestParseDecimalToMinorUnits(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"150.50", 15050, true},
		{"1.005", 101, true}, // half-up rounding on the third decimal
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"10000000", 1_000_000_000, true}, // at the sanity bound
		{"0", 0, false},
		{"0.00", 0, false},
		{"-5", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"1e3", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToMinorUnits(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseDecimalToMinorUnits_SanityBound(t *testing.T) {
	for _, in := range []string{"10000000.01", "20000000", "99999999999"} {
		_, err := ParseDecimalToMinorUnits(in)
		if !errors.Is(err, ErrAmountTooLarge) {
			t.Fatalf("%q expected ErrAmountTooLarge, got %v", in, err)
		}
	}
}

func TestFormatMinorUnits(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{1, "0.01"},
		{100, "1.00"},
		{123, "1.23"},
		{15050, "150.50"},
		{1_000_000_000, "10000000.00"},
	}
	for _, tc := range cases {
		if got := FormatMinorUnits(tc.in); got != tc.out {
			t.Fatalf("FormatMinorUnits(%d) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

// Round-trip law: any decimal with exactly two fractional digits survives
// parse-then-format unchanged.
func TestMinorUnitsRoundTrip(t *testing.T) {
	for _, in := range []string{"0.01", "0.99", "1.00", "12.34", "150.50", "9999.99", "10000000.00"} {
		minor, err := ParseDecimalToMinorUnits(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got := FormatMinorUnits(minor); got != in {
			t.Fatalf("round trip %q -> %d -> %q", in, minor, got)
		}
	}
}
