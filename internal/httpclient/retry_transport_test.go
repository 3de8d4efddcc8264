package httpclient

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRetryHTTPClient_RetriesOnRetryableStatusThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	policy := DefaultPolicy()
	policy.Sleep = func(time.Duration) {}
	client := NewRetryHTTPClient(policy)

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 calls, got %d", got)
	}
}

func TestRetryHTTPClient_ReturnsTerminalStatusImmediately(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	policy := DefaultPolicy()
	policy.Sleep = func(time.Duration) {}
	client := NewRetryHTTPClient(policy)

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 to pass through untouched, got %d", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected exactly 1 call for non-retryable status, got %d", got)
	}
}

func TestRetryHTTPClient_ExhaustsRetriesOnPersistentFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var delays []time.Duration
	policy := DefaultPolicy()
	policy.Sleep = func(d time.Duration) { delays = append(delays, d) }
	client := NewRetryHTTPClient(policy)

	_, err := client.Get(srv.URL)
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected exactly 3 calls, got %d", got)
	}
	want := []time.Duration{0, 1000 * time.Millisecond, 2000 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("expected %d delays, got %d: %v", len(want), len(delays), delays)
	}
	for i, d := range want {
		if delays[i] != d {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], d)
		}
	}
}
