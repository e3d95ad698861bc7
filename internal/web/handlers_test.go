package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t, Options{})

	r := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q, want application/json", ct)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q, want status ok", w.Body.String())
	}
}

func TestHealthEndpointUnavailable(t *testing.T) {
	srv := NewServer(&fakeStore{}, Options{Pinger: fakePinger{err: errors.New("sql: database is closed")}})

	r := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
	if !strings.Contains(w.Body.String(), `"status":"unavailable"`) {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestHealthWithoutPinger(t *testing.T) {
	srv := NewServer(&fakeStore{}, Options{})

	r := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := NewServer(&fakeStore{}, Options{Prefix: "/api"})

	r := httptest.NewRequest("GET", "/api/comments/", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestNormalizePrefix(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"/":        "",
		"api":      "/api",
		"/api":     "/api",
		"/api/":    "/api",
		" /v1/x/ ": "/v1/x",
	}
	for in, want := range tests {
		if got := normalizePrefix(in); got != want {
			t.Errorf("normalizePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestListenAndServeShutsDownOnCancel(t *testing.T) {
	srv := NewServer(&fakeStore{}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestListenAndServeBadAddr(t *testing.T) {
	srv := NewServer(&fakeStore{}, Options{})

	err := srv.ListenAndServe(context.Background(), "127.0.0.1:-1")
	if err == nil {
		t.Fatal("expected error for invalid address")
	}
}
