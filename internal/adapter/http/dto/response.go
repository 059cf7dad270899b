package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aurora/txnstream/internal/domain"
)

// TransactionAcceptedResponse acknowledges an accepted transaction.
type TransactionAcceptedResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// AcceptedFromDomain converts a persisted record to an acceptance response.
func AcceptedFromDomain(t *domain.TransactionRecord) *TransactionAcceptedResponse {
	return &TransactionAcceptedResponse{
		ID:        t.ID,
		Timestamp: t.Timestamp,
	}
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Account     string          `json:"account"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Timestamp   time.Time       `json:"timestamp"`
	Description string          `json:"description,omitempty"`
	Merchant    string          `json:"merchant,omitempty"`
	Category    string          `json:"category,omitempty"`
}

// TransactionFromDomain converts a domain record to a response.
func TransactionFromDomain(t *domain.TransactionRecord) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		Account:     t.Account,
		Amount:      t.Amount,
		Currency:    t.Currency,
		Timestamp:   t.Timestamp,
		Description: t.Description,
		Merchant:    t.Merchant,
		Category:    t.Category,
	}
}

// FieldErrorResponse is a single field validation failure.
type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse lists every field that failed validation.
type ValidationErrorResponse struct {
	Error  string               `json:"error"`
	Fields []FieldErrorResponse `json:"fields"`
}

// ValidationFromDomain converts a domain validation error to a response.
func ValidationFromDomain(verr *domain.ValidationError) *ValidationErrorResponse {
	fields := make([]FieldErrorResponse, len(verr.Fields))
	for i, f := range verr.Fields {
		fields[i] = FieldErrorResponse{Field: f.Field, Message: f.Message}
	}
	return &ValidationErrorResponse{
		Error:  "validation failed",
		Fields: fields,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
