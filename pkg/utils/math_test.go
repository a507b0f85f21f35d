package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWeightedEntryPrice(t *testing.T) {
	tests := []struct {
		name      string
		oldQty    string
		oldEntry  string
		fillQty   string
		fillPrice string
		expected  string
	}{
		{"first fill", "0", "0", "1", "100", "100"},
		{"equal weights", "1", "100", "1", "110", "105"},
		{"unequal weights", "3", "100", "1", "120", "105"},
		{"fractional quantities", "0.5", "100", "0.25", "106", "102"},
		{"price unchanged when adding at entry", "2", "100", "3", "100", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedEntryPrice(d(tt.oldQty), d(tt.oldEntry), d(tt.fillQty), d(tt.fillPrice))
			if !got.Equal(d(tt.expected)) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}

	t.Run("zero total quantity falls back to fill price", func(t *testing.T) {
		got := WeightedEntryPrice(decimal.Zero, decimal.Zero, decimal.Zero, d("100"))
		if !got.Equal(d("100")) {
			t.Errorf("expected 100, got %s", got)
		}
	})
}

func TestDirectionalPnl(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		price    string
		qty      string
		sign     int
		expected string
	}{
		{"long profit", "100", "110", "2", 1, "20"},
		{"long loss", "100", "95", "2", 1, "-10"},
		{"short profit", "100", "90", "1", -1, "10"},
		{"short loss", "100", "103", "1", -1, "-3"},
		{"flat price", "100", "100", "5", 1, "0"},
		{"fractional quantity", "100", "110", "0.5", 1, "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DirectionalPnl(d(tt.entry), d(tt.price), d(tt.qty), tt.sign)
			if !got.Equal(d(tt.expected)) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		weights  []string
		expected string
	}{
		{"simple average", []string{"100", "110"}, []string{"1", "1"}, "105"},
		{"weighted", []string{"120", "130"}, []string{"0.5", "1.5"}, "127.5"},
		{"single value", []string{"42"}, []string{"3"}, "42"},
		{"negative weights skipped", []string{"100", "200"}, []string{"1", "-1"}, "100"},
		{"empty input", nil, nil, "0"},
		{"length mismatch", []string{"100"}, []string{"1", "2"}, "0"},
		{"zero weights", []string{"100"}, []string{"0"}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([]decimal.Decimal, len(tt.values))
			for i, v := range tt.values {
				values[i] = d(v)
			}
			weights := make([]decimal.Decimal, len(tt.weights))
			for i, w := range tt.weights {
				weights[i] = d(w)
			}

			got := WeightedAverage(values, weights)
			if !got.Equal(d(tt.expected)) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}
