package aggregation

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccumulator_Fold(t *testing.T) {
	acc := NewAccumulator([]string{DistinctAccounts})

	acc.Fold(decimal.NewFromFloat(100.00), map[string]string{DistinctAccounts: "1234567890"})
	acc.Fold(decimal.NewFromFloat(50.00), map[string]string{DistinctAccounts: "1234567890"})
	acc.Fold(decimal.NewFromFloat(25.00), map[string]string{DistinctAccounts: "0987654321"})

	if !acc.Sum.Equal(decimal.NewFromFloat(175.00)) {
		t.Errorf("expected sum 175.00, got %s", acc.Sum)
	}
	if acc.Count != 3 {
		t.Errorf("expected count 3, got %d", acc.Count)
	}
	if !acc.Min.Equal(decimal.NewFromFloat(25.00)) {
		t.Errorf("expected min 25.00, got %s", acc.Min)
	}
	if !acc.Max.Equal(decimal.NewFromFloat(100.00)) {
		t.Errorf("expected max 100.00, got %s", acc.Max)
	}

	counts := acc.DistinctCounts()
	if counts[DistinctAccounts] != 2 {
		t.Errorf("expected 2 distinct accounts, got %d", counts[DistinctAccounts])
	}
}

func TestAccumulator_AverageComputedAtFinalization(t *testing.T) {
	acc := NewAccumulator(nil)

	acc.Fold(decimal.NewFromFloat(100.00), nil)
	acc.Fold(decimal.NewFromFloat(50.00), nil)
	acc.Fold(decimal.NewFromFloat(25.00), nil)

	avg := acc.Average()
	if !avg.Round(2).Equal(decimal.NewFromFloat(58.33)) {
		t.Errorf("expected average 58.33, got %s", avg.Round(2))
	}
}

func TestAccumulator_EmptyDistinctValuesNotCounted(t *testing.T) {
	acc := NewAccumulator([]string{DistinctMerchants})

	acc.Fold(decimal.NewFromInt(10), map[string]string{DistinctMerchants: ""})
	acc.Fold(decimal.NewFromInt(10), map[string]string{DistinctMerchants: "acme"})

	if got := acc.DistinctCounts()[DistinctMerchants]; got != 1 {
		t.Errorf("expected 1 distinct merchant, got %d", got)
	}
}

func TestAccumulator_SingleRecordMinMax(t *testing.T) {
	acc := NewAccumulator(nil)
	acc.Fold(decimal.NewFromFloat(42.50), nil)

	if !acc.Min.Equal(acc.Max) || !acc.Min.Equal(decimal.NewFromFloat(42.50)) {
		t.Errorf("expected min == max == 42.50, got min=%s max=%s", acc.Min, acc.Max)
	}
}
