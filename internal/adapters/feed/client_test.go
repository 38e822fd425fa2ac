package feed_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"lion_estate/internal/adapters/feed"
)

type doc struct {
	Slug string `json:"slug"`
}

func TestClient_GetJSON_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_ = json.NewEncoder(w).Encode([]doc{{Slug: "villa-a"}, {Slug: "villa-b"}})
		}
	}))
	defer ts.Close()

	cl := feed.New("tok", 100) // high RPS for tests
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var got []doc
	if err := cl.GetJSON(ctx, ts.URL+"/export.json", &got); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[1].Slug != "villa-b" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Fatalf("expected 3 calls due to retries, got %d", n)
	}
}

func TestClient_GetJSON_TerminalStatuses(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:     feed.ErrNotFound,
		http.StatusUnauthorized: feed.ErrUnauthorized,
		http.StatusForbidden:    feed.ErrForbidden,
	}
	for status, want := range cases {
		var hits int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(status)
		}))
		var out []doc
		err := feed.New("", 100).GetJSON(context.Background(), ts.URL, &out)
		ts.Close()
		if !errors.Is(err, want) {
			t.Fatalf("status %d: want %v, got %v", status, want, err)
		}
		if hits != 1 {
			t.Fatalf("status %d must not retry, got %d calls", status, hits)
		}
	}
}

func TestClient_GetJSON_RejectsBadURL(t *testing.T) {
	var out any
	if err := feed.New("", 1).GetJSON(context.Background(), "file:///etc/passwd", &out); err == nil {
		t.Fatalf("expected error for non-http scheme")
	}
}

func TestClient_GetJSON_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	var out any
	err := feed.New("", 100).GetJSON(ctx, ts.URL, &out)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
}
