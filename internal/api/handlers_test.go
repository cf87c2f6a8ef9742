package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexbotov/rgs/internal/auth"
	"github.com/alexbotov/rgs/internal/domain"
	"github.com/alexbotov/rgs/internal/metrics"
	"github.com/alexbotov/rgs/internal/ratelimit"
	"github.com/alexbotov/rgs/internal/sessionmgr"
	"github.com/alexbotov/rgs/internal/store"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const testToken = "handler-test-token"

func newTestHandler(limiter *ratelimit.Limiter) (*Handler, store.WalletStore, store.ExperienceStore) {
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	log := logrus.NewEntry(logger)

	sessions := store.NewInMemorySessionStore()
	wallets := store.NewInMemoryWalletStore()
	events := store.NewInMemoryEventStore()
	experiences := store.NewInMemoryExperienceStore()
	fingerprints := store.NewInMemoryFingerprintStore()

	if limiter == nil {
		limiter = ratelimit.New(1000, time.Minute)
	}

	h := New(Dependencies{
		Sessions:       sessionmgr.New(sessions, log),
		Wallets:        wallets,
		Events:         events,
		Experiences:    experiences,
		Fingerprints:   fingerprints,
		Tokens:         auth.NewTokenSet([]string{testToken}),
		Limiter:        limiter,
		Counters:       metrics.New(),
		CostPerSpin:    0.01,
		LikenessWeight: 0.3,
		Log:            log,
	})
	return h, wallets, experiences
}

func doRequest(t *testing.T, router *mux.Router, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRLExportPaginatesByLimitAndOffset(t *testing.T) {
	h, _, experiences := newTestHandler(nil)
	router := h.SetupRouter()

	sid := domain.NewSessionId()
	for i := int64(0); i < 5; i++ {
		ts := i
		if err := experiences.Insert(context.Background(), domain.Experience{
			SessionId: sid,
			Reward:    float64(i),
			CreatedAt: &ts,
		}); err != nil {
			t.Fatalf("seed experience %d: %v", i, err)
		}
	}

	url := fmt.Sprintf("/v1/rl/export?sessionId=%s&limit=2&offset=1", sid.String())
	rec := doRequest(t, router, http.MethodGet, url, testToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body RLExportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Experiences) != 2 {
		t.Fatalf("expected 2 experiences for limit=2, got %d", len(body.Experiences))
	}
	if body.Experiences[0].Reward != 1 || body.Experiences[1].Reward != 2 {
		t.Fatalf("expected rewards [1,2] (offset 1, created_at order), got [%v,%v]",
			body.Experiences[0].Reward, body.Experiences[1].Reward)
	}
}

func TestRLExportOffsetPastEndReturnsEmpty(t *testing.T) {
	h, _, experiences := newTestHandler(nil)
	router := h.SetupRouter()

	sid := domain.NewSessionId()
	ts := int64(0)
	if err := experiences.Insert(context.Background(), domain.Experience{SessionId: sid, CreatedAt: &ts}); err != nil {
		t.Fatalf("seed experience: %v", err)
	}

	url := fmt.Sprintf("/v1/rl/export?sessionId=%s&offset=50", sid.String())
	rec := doRequest(t, router, http.MethodGet, url, testToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body RLExportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Experiences) != 0 {
		t.Fatalf("expected 0 experiences past the end, got %d", len(body.Experiences))
	}
}

func TestWalletOperationOverLimitReturnsWalletLimitExceededCode(t *testing.T) {
	h, wallets, _ := newTestHandler(nil)
	router := h.SetupRouter()

	wallet := domain.Wallet{
		WalletId:   domain.NewWalletId(),
		Balance:    domain.Money{Amount: 100, Currency: domain.USD},
		DailyLimit: domain.Money{Amount: 50, Currency: domain.USD},
		DailySpent: domain.Money{Amount: 0, Currency: domain.USD},
	}
	if err := wallets.Create(context.Background(), wallet); err != nil {
		t.Fatalf("seed wallet: %v", err)
	}

	url := fmt.Sprintf("/v1/wallets/%s/operations", wallet.WalletId.String())
	rec := doRequest(t, router, http.MethodPost, url, testToken, WalletOperationRequest{
		Operation: domain.Debit,
		Amount:    domain.Money{Amount: 75, Currency: domain.USD},
	})
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Error.Code != "WALLET_LIMIT_EXCEEDED" {
		t.Fatalf("expected WALLET_LIMIT_EXCEEDED, got %q", resp.Error.Code)
	}
}

func TestAuthMiddlewareReturns429WithRetryAfterOnceLimitExhausted(t *testing.T) {
	limiter := ratelimit.New(1, time.Minute)
	h, _, _ := newTestHandler(limiter)
	router := h.SetupRouter()

	first := doRequest(t, router, http.MethodGet, "/v1/metrics", testToken, nil)
	if first.Code == http.StatusTooManyRequests {
		t.Fatalf("expected first request under budget to pass the rate limiter, got 429")
	}

	second := doRequest(t, router, http.MethodGet, "/v1/metrics", testToken, nil)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the per-token budget is exhausted, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("expected a Retry-After header on the 429 response")
	}

	var resp errorBody
	if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Error.Code != "RATE_LIMIT" {
		t.Fatalf("expected RATE_LIMIT code, got %q", resp.Error.Code)
	}
}
