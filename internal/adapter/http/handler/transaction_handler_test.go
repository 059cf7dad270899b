package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aurora/txnstream/internal/adapter/http/dto"
	"github.com/aurora/txnstream/internal/adapter/repository/memory"
	"github.com/aurora/txnstream/internal/domain"
	"github.com/aurora/txnstream/internal/usecase"
)

type stubPublisher struct{}

func (p *stubPublisher) Publish(ctx context.Context, key string, record *domain.TransactionRecord) error {
	return nil
}

type stubIDGen struct{ next string }

func (g *stubIDGen) Generate() string { return g.next }

type stubMetrics struct{}

func (stubMetrics) TransactionIngested(amount float64) {}
func (stubMetrics) TransactionFailed() {}
func (stubMetrics) PublishSucceeded() {}
func (stubMetrics) PublishFailed() {}
func (stubMetrics) PublishDropped(count int) {}
func (stubMetrics) ObserveIngestDuration(d time.Duration) {}
func (stubMetrics) ObserveLookupDuration(d time.Duration) {}

func newTestHandler(t *testing.T) (*TransactionHandler, *memory.TransactionRepository) {
	t.Helper()

	repo := memory.NewTransactionRepository()
	uc := usecase.NewIngestUseCase(usecase.Config{
		Repo:      repo,
		Publisher: &stubPublisher{},
		IDGen:     &stubIDGen{next: "txn-1"},
		Metrics:   stubMetrics{},
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		uc.Close(ctx)
	})

	return NewTransactionHandler(uc), repo
}

func TestTransactionHandler_CreateAccepted(t *testing.T) {
	h, repo := newTestHandler(t)

	body := `{"account":"1234567890","amount":"99.95","currency":"usd","merchant":"Acme"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TransactionAcceptedResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.ID != "txn-1" {
		t.Fatalf("expected generated id in response, got %q", resp.ID)
	}

	stored, err := repo.GetByID(context.Background(), "txn-1")
	if err != nil {
		t.Fatalf("expected record to be persisted: %v", err)
	}
	if stored.Currency != "USD" {
		t.Fatalf("expected currency normalized to USD, got %q", stored.Currency)
	}
}

func TestTransactionHandler_CreateValidationFailure(t *testing.T) {
	h, repo := newTestHandler(t)

	body := `{"account":"123","amount":"-5","currency":"usd"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ValidationErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	fields := map[string]bool{}
	for _, f := range resp.Fields {
		fields[f.Field] = true
	}
	if !fields["account"] || !fields["amount"] {
		t.Fatalf("expected account and amount field errors, got %+v", resp.Fields)
	}

	if repo.Len() != 0 {
		t.Fatalf("expected nothing persisted on validation failure, got %d records", repo.Len())
	}
}

func TestTransactionHandler_CreateMalformedBody(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestTransactionHandler_GetNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/unknown", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "unknown")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTransactionHandler_GetRoundTrip(t *testing.T) {
	h, repo := newTestHandler(t)

	record := &domain.TransactionRecord{
		ID:        "txn-9",
		Account:   "1234567890",
		Currency:  "EUR",
		Timestamp: time.Now().UTC(),
	}
	if err := repo.Save(context.Background(), record); err != nil {
		t.Fatalf("failed to seed repo: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/txn-9", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "txn-9")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.TransactionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "txn-9" || resp.Currency != "EUR" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
