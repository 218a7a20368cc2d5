package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"movie-discovery/pkg/ratelimit"
	"movie-discovery/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type countingStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (s *countingStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func (s *countingStore) Expire(context.Context, string, time.Duration) error { return nil }

func (s *countingStore) TTL(context.Context, string) (time.Duration, error) {
	return 42 * time.Second, nil
}

func TestRateLimitPerKey(t *testing.T) {
	store := &countingStore{counts: map[string]int64{}}
	limited := RateLimit(ratelimit.New(store), "redeem", 2, ByUser, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	send := func(userID uuid.UUID) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/credits/redeem", nil)
		req = req.WithContext(utils.SetUserContext(req.Context(), userID, "user"))
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec
	}

	alice, bob := uuid.New(), uuid.New()
	for i := 0; i < 2; i++ {
		if rec := send(alice); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}

	rec := send(alice)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "42" {
		t.Errorf("Retry-After = %q, want 42", rec.Header().Get("Retry-After"))
	}

	if rec := send(bob); rec.Code != http.StatusOK {
		t.Errorf("other user limited: status = %d", rec.Code)
	}
	if _, ok := store.counts["rl:redeem:user:"+alice.String()]; !ok {
		t.Errorf("keys = %v", store.counts)
	}
}

func TestRateLimitDisabledWithoutStore(t *testing.T) {
	limited := RateLimit(ratelimit.New(nil), "api", 1, ByIP, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/trending", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d limited without a store", i+1)
		}
	}
}

func TestByUserFallsBackToIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/redeem-code", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	if got := ByUser(req); got != "ip:203.0.113.9" {
		t.Errorf("key = %q", got)
	}
}
