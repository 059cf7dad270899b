package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validRecord() TransactionRecord {
	return TransactionRecord{
		ID:        "txn-1",
		Account:   "1234567890",
		Amount:    decimal.NewFromFloat(100.00),
		Currency:  "USD",
		Timestamp: time.Now().UTC(),
	}
}

func TestTransactionRecord_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*TransactionRecord)
		wantField   string
		wantMessage string
	}{
		{
			name:   "valid record",
			mutate: func(r *TransactionRecord) {},
		},
		{
			name:        "account too short",
			mutate:      func(r *TransactionRecord) { r.Account = "123" },
			wantField:   "account",
			wantMessage: "between 10 and 20 characters",
		},
		{
			name:        "account too long",
			mutate:      func(r *TransactionRecord) { r.Account = strings.Repeat("9", 21) },
			wantField:   "account",
			wantMessage: "between 10 and 20 characters",
		},
		{
			name:      "zero amount",
			mutate:    func(r *TransactionRecord) { r.Amount = decimal.Zero },
			wantField: "amount",
		},
		{
			name:      "negative amount",
			mutate:    func(r *TransactionRecord) { r.Amount = decimal.NewFromInt(-5) },
			wantField: "amount",
		},
		{
			name:      "lowercase currency",
			mutate:    func(r *TransactionRecord) { r.Currency = "usd" },
			wantField: "currency",
		},
		{
			name:      "currency wrong length",
			mutate:    func(r *TransactionRecord) { r.Currency = "USDT" },
			wantField: "currency",
		},
		{
			name:      "description too long",
			mutate:    func(r *TransactionRecord) { r.Description = strings.Repeat("a", 501) },
			wantField: "description",
		},
		{
			name:      "merchant too long",
			mutate:    func(r *TransactionRecord) { r.Merchant = strings.Repeat("m", 101) },
			wantField: "merchant",
		},
		{
			name:      "category too long",
			mutate:    func(r *TransactionRecord) { r.Category = strings.Repeat("c", 51) },
			wantField: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)

			err := rec.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}

			found := false
			for _, f := range verr.Fields {
				if f.Field == tt.wantField {
					found = true
					if tt.wantMessage != "" && !strings.Contains(f.Message, tt.wantMessage) {
						t.Errorf("expected message containing %q, got %q", tt.wantMessage, f.Message)
					}
				}
			}
			if !found {
				t.Errorf("expected field error for %q, got %+v", tt.wantField, verr.Fields)
			}
		})
	}
}

func TestTransactionRecord_Validate_MultipleFields(t *testing.T) {
	rec := TransactionRecord{
		Account:  "123",
		Amount:   decimal.Zero,
		Currency: "x",
	}

	err := rec.Validate()

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}

	if len(verr.Fields) != 3 {
		t.Errorf("expected 3 field errors, got %d: %+v", len(verr.Fields), verr.Fields)
	}
}
