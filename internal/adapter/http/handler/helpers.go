package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aurora/txnstream/internal/adapter/http/dto"
	"github.com/aurora/txnstream/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps domain errors to HTTP responses. Validation failures
// carry their field list; everything else gets the generic error shape.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, dto.ValidationFromDomain(verr))
		return
	}

	var perr *domain.PersistenceError
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, "transaction not found", "")
	case errors.As(err, &perr):
		writeError(w, http.StatusServiceUnavailable, "failed to persist transaction", perr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
