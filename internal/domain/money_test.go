package domain

import "testing"

func TestDollarsToCents_Valid(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{1, 100},
		{1.1, 110},
		{19.99, 1999},
		{20.00, 2000},
		{0.01, 1},
	}
	for _, tt := range tests {
		got, err := DollarsToCents(tt.in)
		if err != nil {
			t.Errorf("DollarsToCents(%v): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("DollarsToCents(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDollarsToCents_TooMuchPrecision(t *testing.T) {
	if _, err := DollarsToCents(1.999); err == nil {
		t.Error("expected error for 3 decimal places")
	}
}

func TestCentsToDollars(t *testing.T) {
	if got := CentsToDollars(1999); got != 19.99 {
		t.Errorf("CentsToDollars(1999) = %v, want 19.99", got)
	}
}

func TestQuantizeToTick(t *testing.T) {
	tests := []struct {
		price, tick, want int64
	}{
		{1000, 5, 1000}, // already on tick
		{1002, 5, 1000}, // rounds down
		{1003, 5, 1005}, // rounds up
		{998, 5, 1000},
		{7, 5, 5},
		{8, 5, 10},
		{6, 4, 8},    // exact half rounds up
		{1234, 1, 1234}, // tick of one cent is identity
		{1000, 0, 1000}, // non-positive tick leaves price untouched
	}
	for _, tt := range tests {
		if got := QuantizeToTick(tt.price, tt.tick); got != tt.want {
			t.Errorf("QuantizeToTick(%d, %d) = %d, want %d", tt.price, tt.tick, got, tt.want)
		}
	}
}
