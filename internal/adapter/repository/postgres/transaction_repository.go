package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/aurora/txnstream/internal/domain"
)

// TransactionRepository implements usecase.TransactionRepository on
// PostgreSQL. Transient write failures (deadlock, serialization) are
// retried with the package retrier.
type TransactionRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		pool:    pool,
		retrier: NewRetrier(),
	}
}

// Save persists a transaction record.
func (r *TransactionRepository) Save(ctx context.Context, record *domain.TransactionRecord) error {
	const query = `
		INSERT INTO transactions (
			id, account, amount, currency, event_timestamp,
			description, merchant, category
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, query,
			record.ID,
			record.Account,
			record.Amount.String(),
			record.Currency,
			record.Timestamp,
			nullable(record.Description),
			nullable(record.Merchant),
			nullable(record.Category),
		)
		return err
	})
}

// GetByID retrieves a transaction by id.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.TransactionRecord, error) {
	const query = `
		SELECT id, account, amount::text, currency, event_timestamp,
		       COALESCE(description, ''), COALESCE(merchant, ''), COALESCE(category, '')
		FROM transactions
		WHERE id = $1`

	record := &domain.TransactionRecord{}
	var amount string

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.Account,
		&amount,
		&record.Currency,
		&record.Timestamp,
		&record.Description,
		&record.Merchant,
		&record.Category,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	record.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
