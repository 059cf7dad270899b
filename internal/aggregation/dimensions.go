package aggregation

import (
	"github.com/aurora/txnstream/internal/domain"
)

// Distinct-count field names used in emitted aggregates.
const (
	DistinctAccounts   = "accounts"
	DistinctMerchants  = "merchants"
	DistinctCurrencies = "currencies"
)

// DistinctField extracts one distinct-counted value from a record.
type DistinctField struct {
	Name    string
	Extract func(*domain.StreamRecord) string
}

// Dimension defines one grouping axis of the aggregation engine: how a
// record maps to a group key, the window parameters, and which extra
// distinct counts the dimension tracks.
type Dimension struct {
	Name     string
	Window   WindowConfig
	Key      func(*domain.StreamRecord) (string, bool)
	Distinct []DistinctField
}

func (d Dimension) distinctFieldNames() []string {
	names := make([]string, len(d.Distinct))
	for i, f := range d.Distinct {
		names[i] = f.Name
	}
	return names
}

func (d Dimension) distinctValues(rec *domain.StreamRecord) map[string]string {
	if len(d.Distinct) == 0 {
		return nil
	}
	values := make(map[string]string, len(d.Distinct))
	for _, f := range d.Distinct {
		values[f.Name] = f.Extract(rec)
	}
	return values
}

// CurrencyDimension groups records by currency code.
func CurrencyDimension(cfg WindowConfig) Dimension {
	return Dimension{
		Name:   domain.DimensionCurrency,
		Window: cfg,
		Key: func(rec *domain.StreamRecord) (string, bool) {
			return rec.Currency, rec.Currency != ""
		},
		Distinct: []DistinctField{
			{Name: DistinctAccounts, Extract: func(r *domain.StreamRecord) string { return r.Account }},
			{Name: DistinctMerchants, Extract: func(r *domain.StreamRecord) string { return r.Merchant }},
		},
	}
}

// AccountDimension groups records by account identifier.
func AccountDimension(cfg WindowConfig) Dimension {
	return Dimension{
		Name:   domain.DimensionAccount,
		Window: cfg,
		Key: func(rec *domain.StreamRecord) (string, bool) {
			return rec.Account, rec.Account != ""
		},
		Distinct: []DistinctField{
			{Name: DistinctCurrencies, Extract: func(r *domain.StreamRecord) string { return r.Currency }},
			{Name: DistinctMerchants, Extract: func(r *domain.StreamRecord) string { return r.Merchant }},
		},
	}
}

// MerchantCategoryDimension groups records by merchant and category.
// Records without a merchant carry no signal on this axis and are skipped.
func MerchantCategoryDimension(cfg WindowConfig) Dimension {
	return Dimension{
		Name:   domain.DimensionMerchantCategory,
		Window: cfg,
		Key: func(rec *domain.StreamRecord) (string, bool) {
			if rec.Merchant == "" {
				return "", false
			}
			return rec.Merchant + "|" + rec.Category, true
		},
		Distinct: []DistinctField{
			{Name: DistinctAccounts, Extract: func(r *domain.StreamRecord) string { return r.Account }},
			{Name: DistinctCurrencies, Extract: func(r *domain.StreamRecord) string { return r.Currency }},
		},
	}
}
