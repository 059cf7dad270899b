package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aurora/txnstream/internal/adapter/http/dto"
	"github.com/aurora/txnstream/internal/usecase"
)

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	ingestUC *usecase.IngestUseCase
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ingestUC *usecase.IngestUseCase) *TransactionHandler {
	return &TransactionHandler{ingestUC: ingestUC}
}

// Create accepts a transaction for ingestion. The durable write happens
// before the response; the stream publish does not.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	record, err := h.ingestUC.Ingest(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, dto.AcceptedFromDomain(record))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	record, err := h.ingestUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(record))
}
