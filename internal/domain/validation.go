package domain

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MinAccountLength     = 10
	MaxAccountLength     = 20
	MaxDescriptionLength = 500
	MaxMerchantLength    = 100
	MaxCategoryLength    = 50
)

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Validate checks the record against business constraints and returns a
// ValidationError carrying one message per violated field. The record is
// expected to be normalized (currency uppercased) before validation.
func (t *TransactionRecord) Validate() error {
	verr := &ValidationError{}

	if len(t.Account) < MinAccountLength || len(t.Account) > MaxAccountLength {
		verr.Add("account", fmt.Sprintf("must be between %d and %d characters", MinAccountLength, MaxAccountLength))
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		verr.Add("amount", "must be positive")
	}

	if !currencyRegex.MatchString(t.Currency) {
		verr.Add("currency", "must be a 3-letter ISO 4217 code")
	}

	if len(t.Description) > MaxDescriptionLength {
		verr.Add("description", fmt.Sprintf("cannot exceed %d characters", MaxDescriptionLength))
	}

	if len(t.Merchant) > MaxMerchantLength {
		verr.Add("merchant", fmt.Sprintf("cannot exceed %d characters", MaxMerchantLength))
	}

	if len(t.Category) > MaxCategoryLength {
		verr.Add("category", fmt.Sprintf("cannot exceed %d characters", MaxCategoryLength))
	}

	if verr.HasErrors() {
		return verr
	}

	return nil
}
