package aggregation

import (
	"github.com/shopspring/decimal"
)

// Accumulator holds the running statistics of one open window. Amounts are
// folded with exact decimal arithmetic; the average is derived from sum and
// count only at finalization to avoid incremental rounding drift.
type Accumulator struct {
	Sum   decimal.Decimal
	Count int64
	Min   decimal.Decimal
	Max   decimal.Decimal

	distinct map[string]map[string]struct{}
}

// NewAccumulator creates an empty accumulator tracking distinct values for
// the named fields.
func NewAccumulator(distinctFields []string) *Accumulator {
	distinct := make(map[string]map[string]struct{}, len(distinctFields))
	for _, f := range distinctFields {
		distinct[f] = make(map[string]struct{})
	}
	return &Accumulator{
		Sum:      decimal.Zero,
		distinct: distinct,
	}
}

// Fold incorporates one record's amount and distinct-field values.
// Empty distinct values are not counted.
func (a *Accumulator) Fold(amount decimal.Decimal, distinctValues map[string]string) {
	if a.Count == 0 {
		a.Min = amount
		a.Max = amount
	} else {
		if amount.LessThan(a.Min) {
			a.Min = amount
		}
		if amount.GreaterThan(a.Max) {
			a.Max = amount
		}
	}

	a.Sum = a.Sum.Add(amount)
	a.Count++

	for field, value := range distinctValues {
		if value == "" {
			continue
		}
		if set, ok := a.distinct[field]; ok {
			set[value] = struct{}{}
		}
	}
}

// Average returns sum/count. Must not be called on an empty accumulator.
func (a *Accumulator) Average() decimal.Decimal {
	return a.Sum.Div(decimal.NewFromInt(a.Count))
}

// DistinctCounts returns the cardinality of each tracked distinct set.
func (a *Accumulator) DistinctCounts() map[string]int64 {
	if len(a.distinct) == 0 {
		return nil
	}
	counts := make(map[string]int64, len(a.distinct))
	for field, set := range a.distinct {
		counts[field] = int64(len(set))
	}
	return counts
}
