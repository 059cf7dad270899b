package memory

import (
	"context"
	"sync"

	"github.com/aurora/txnstream/internal/domain"
	"github.com/aurora/txnstream/internal/usecase"
)

// TransactionRepository is an in-memory implementation of
// usecase.TransactionRepository, used in tests and local development.
type TransactionRepository struct {
	mu      sync.RWMutex
	records map[string]domain.TransactionRecord
}

// NewTransactionRepository creates an empty in-memory repository.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		records: make(map[string]domain.TransactionRecord),
	}
}

// Save stores a copy of the record.
func (r *TransactionRepository) Save(ctx context.Context, record *domain.TransactionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.ID] = *record
	return nil
}

// GetByID returns the stored record or domain.ErrTransactionNotFound.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.TransactionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return &record, nil
}

// Len returns the number of stored records.
func (r *TransactionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

var _ usecase.TransactionRepository = (*TransactionRepository)(nil)
