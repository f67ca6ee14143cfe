package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubRateLimitStore struct {
	counts map[string]int64
}

func newStubRateLimitStore() *stubRateLimitStore {
	return &stubRateLimitStore{counts: map[string]int64{}}
}

func (s *stubRateLimitStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.counts[key]++
	return s.counts[key], nil
}

func (s *stubRateLimitStore) RateLimitKey(scope string) string {
	return "ratelimit:" + scope
}

func loginAttempt(handler http.Handler, email string) int {
	body := []byte(`{"email":"` + email + `","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "10.0.0.1:4000"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp.Code
}

func TestAuthRateLimitBlocksEmailAfterLimit(t *testing.T) {
	store := newStubRateLimitStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 100, 2)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		if code := loginAttempt(handler, "target@example.com"); code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 got %d", i+1, code)
		}
	}
	if code := loginAttempt(handler, "target@example.com"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit got %d", code)
	}
	if code := loginAttempt(handler, "other@example.com"); code != http.StatusOK {
		t.Fatalf("different email should not be blocked, got %d", code)
	}
}

func TestAuthRateLimitBlocksIPAfterLimit(t *testing.T) {
	store := newStubRateLimitStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 3, 0)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		if code := loginAttempt(handler, "a@example.com"); code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 got %d", i+1, code)
		}
	}
	if code := loginAttempt(handler, "b@example.com"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for same ip got %d", code)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	handler := AuthRateLimit(NewAuthRateLimitPolicy("login", 0, 5, 5), newStubRateLimitStore(), nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	for i := 0; i < 20; i++ {
		if code := loginAttempt(handler, "a@example.com"); code != http.StatusOK {
			t.Fatalf("expected pass-through, got %d", code)
		}
	}
}
