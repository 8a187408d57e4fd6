package vix

import "testing"

func TestMarkPriceTruncates(t *testing.T) {
	tests := []struct {
		bid, ask Cents
		expected Cents
	}{
		{100, 200, 150},
		{100, 201, 150}, // odd sum truncates down
		{0, 1, 0},
		{1, 2, 1},
		{0, 0, 0},
		{1040, 1060, 1050},
	}

	for _, test := range tests {
		c := NewOptionContract(nearExpiry, 10000, Call, test.bid, test.ask)
		if got := c.Mark(); got != test.expected {
			t.Fatalf("mark of bid=%d ask=%d: expected %d, got %d", test.bid, test.ask, test.expected, got)
		}
	}
}

func TestOptionKindString(t *testing.T) {
	if Call.String() != "call" || Put.String() != "put" {
		t.Fatalf("unexpected kind strings: %q %q", Call.String(), Put.String())
	}
}
