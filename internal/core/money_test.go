package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,500", 150000, true},
		{"$18,000", 1800000, true},
		{"1,250.50", 125050, true},
		{"1,234,567.89", 123456789, true},
		{"1,23", 0, false},
		{"12,34", 0, false},
		{"1,2345", 0, false},
		{",500", 0, false},
		{"1,500,", 0, false},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"$1500", 150000, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
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

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		0:         "$0.00",
		150000:    "$1,500.00",
		35050:     "$350.50",
		1800000:   "$18,000.00",
		123456789: "$1,234,567.89",
		-25000:    "-$250.00",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Errorf("Money{%d}.String() = %q, want %q", cents, got, want)
		}
	}
}

func TestMoneyJSONUsesPesos(t *testing.T) {
	var tx Transaction
	if err := json.Unmarshal([]byte(`{"id":"txn-1","amount":1200.5}`), &tx); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tx.Amount.Cents != 120050 {
		t.Fatalf("expected 120050 centavos, got %d", tx.Amount.Cents)
	}
	b, err := json.Marshal(Pesos(1500))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "1500" {
		t.Fatalf("expected 1500, got %s", b)
	}
}
