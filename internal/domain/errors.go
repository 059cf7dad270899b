package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransactionNotFound is returned by lookups for an unknown id.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// FieldError describes a single failed validation constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level messages for a rejected submission.
// Nothing is written anywhere when this is returned.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a field-level message.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any constraint failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// PersistenceError wraps a durable store write failure. The failing ingest
// call is surfaced to the caller; the publish path is never reached.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("durable store write failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PublishError wraps an asynchronous event-stream publish failure after a
// successful durable write. Recorded via metric and log only; never
// propagated to the original caller and not retried.
type PublishError struct {
	TransactionID string
	Err           error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish failed for transaction %s: %v", e.TransactionID, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
