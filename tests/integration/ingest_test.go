package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/aurora/txnstream/internal/adapter/http"
	"github.com/aurora/txnstream/internal/adapter/http/dto"
	"github.com/aurora/txnstream/internal/adapter/http/handler"
	postgresrepo "github.com/aurora/txnstream/internal/adapter/repository/postgres"
	"github.com/aurora/txnstream/internal/domain"
	"github.com/aurora/txnstream/internal/usecase"
	"github.com/aurora/txnstream/tests/testutil"
)

type capturePublisher struct {
	mu      sync.Mutex
	records []*domain.TransactionRecord
}

func (p *capturePublisher) Publish(ctx context.Context, key string, record *domain.TransactionRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, record)
	return nil
}

func (p *capturePublisher) published() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}

type noopMetrics struct{}

func (noopMetrics) TransactionIngested(amount float64) {}
func (noopMetrics) TransactionFailed() {}
func (noopMetrics) PublishSucceeded() {}
func (noopMetrics) PublishFailed() {}
func (noopMetrics) PublishDropped(count int) {}
func (noopMetrics) ObserveIngestDuration(d time.Duration) {}
func (noopMetrics) ObserveLookupDuration(d time.Duration) {}

func domainAmount(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad test amount %q: %v", s, err)
	}
	return d
}

func TestIngestEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	db.Truncate(ctx)

	publisher := &capturePublisher{}
	uc := usecase.NewIngestUseCase(usecase.Config{
		Repo:      postgresrepo.NewTransactionRepository(db.Pool),
		Publisher: publisher,
		IDGen:     postgresrepo.NewUUIDGenerator(),
		Metrics:   noopMetrics{},
	})
	t.Cleanup(func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		uc.Close(closeCtx)
	})

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(uc),
		HealthHandler:      handler.NewHealthHandler(db.Pool),
		Logger:             zerolog.Nop(),
	})

	body := `{"account":"1234567890","amount":"42.17","currency":"usd","merchant":"Acme","category":"retail"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var accepted dto.TransactionAcceptedResponse
	if err := json.NewDecoder(rec.Body).Decode(&accepted); err != nil {
		t.Fatalf("failed to decode acceptance: %v", err)
	}

	// Read-your-write through the API.
	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+accepted.ID, nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)

	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200 for stored transaction, got %d", getRec.Code)
	}

	var fetched dto.TransactionResponse
	if err := json.NewDecoder(getRec.Body).Decode(&fetched); err != nil {
		t.Fatalf("failed to decode transaction: %v", err)
	}
	if fetched.Currency != "USD" {
		t.Fatalf("expected normalized currency USD, got %q", fetched.Currency)
	}
	if !fetched.Amount.Equal(domainAmount(t, "42.17")) {
		t.Fatalf("expected stored amount 42.17, got %s", fetched.Amount)
	}

	// The async publish lands shortly after the response.
	deadline := time.Now().Add(2 * time.Second)
	for publisher.published() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if publisher.published() != 1 {
		t.Fatalf("expected 1 published record, got %d", publisher.published())
	}

	if got := db.CountTransactions(ctx); got != 1 {
		t.Fatalf("expected 1 stored row, got %d", got)
	}
}

func TestIngestValidationWritesNothing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	db.Truncate(ctx)

	publisher := &capturePublisher{}
	uc := usecase.NewIngestUseCase(usecase.Config{
		Repo:      postgresrepo.NewTransactionRepository(db.Pool),
		Publisher: publisher,
		IDGen:     postgresrepo.NewUUIDGenerator(),
		Metrics:   noopMetrics{},
	})
	t.Cleanup(func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		uc.Close(closeCtx)
	})

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(uc),
		HealthHandler:      handler.NewHealthHandler(db.Pool),
		Logger:             zerolog.Nop(),
	})

	body := `{"account":"123","amount":"-1","currency":"dollars"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	if got := db.CountTransactions(ctx); got != 0 {
		t.Fatalf("expected no rows after rejection, got %d", got)
	}
	if publisher.published() != 0 {
		t.Fatalf("expected no publishes after rejection, got %d", publisher.published())
	}
}
