package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aurora/txnstream/internal/usecase"
)

// CreateTransactionRequest represents a request to submit a transaction.
type CreateTransactionRequest struct {
	Account     string          `json:"account"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Timestamp   *time.Time      `json:"timestamp,omitempty"`
	Description string          `json:"description,omitempty"`
	Merchant    string          `json:"merchant,omitempty"`
	Category    string          `json:"category,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.IngestInput {
	return usecase.IngestInput{
		Account:     r.Account,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Timestamp:   r.Timestamp,
		Description: r.Description,
		Merchant:    r.Merchant,
		Category:    r.Category,
	}
}
