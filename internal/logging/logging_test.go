package logging

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func TestNewDevMode(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)

	logger.Debug("test debug")
	logger.Info("test info")

	output := buf.String()
	if !strings.Contains(output, "test debug") {
		t.Error("expected debug message visible in dev mode")
	}
	if !strings.Contains(output, "test info") {
		t.Error("expected info message visible in dev mode")
	}
}

func TestNewProdMode(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Error("expected debug message suppressed in prod mode")
	}
	if !strings.Contains(output, `"msg":"shown"`) {
		t.Errorf("expected JSON output, got %q", output)
	}
}

func TestSetupSetsDefault(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	logger := Setup(false)
	if slog.Default() != logger {
		t.Error("expected Setup to install the returned logger as default")
	}
}

// captureDefault swaps the default logger for a buffer-backed one.
func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestRequestLogger(t *testing.T) {
	buf := captureDefault(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := RequestLogger(inner)

	req := httptest.NewRequest("GET", "/api/comments/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	output := buf.String()
	if output == "" {
		t.Fatal("expected log output")
	}
	if !strings.Contains(output, "GET") {
		t.Error("expected method in log")
	}
	if !strings.Contains(output, "/api/comments/") {
		t.Error("expected path in log")
	}
	if !strings.Contains(output, "request_id=") {
		t.Error("expected request_id in log")
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestRequestLoggerReusesInboundID(t *testing.T) {
	buf := captureDefault(t)

	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	})

	req := httptest.NewRequest("POST", "/api/comments/create/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	RequestLogger(inner).ServeHTTP(rec, req)

	if seen != "abc-123" {
		t.Errorf("context request id = %q, want %q", seen, "abc-123")
	}
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("header = %q, want %q", got, "abc-123")
	}
	if !strings.Contains(buf.String(), "abc-123") {
		t.Error("expected inbound id in log")
	}
}

func TestRequestLoggerSkipsHealth(t *testing.T) {
	buf := captureDefault(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := RequestLogger(inner)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if buf.Len() > 0 {
		t.Error("expected no log for /health path")
	}
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusCreated, "level=INFO"},
		{http.StatusBadRequest, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			buf := captureDefault(t)

			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			req := httptest.NewRequest("GET", "/missing", nil)
			rec := httptest.NewRecorder()
			RequestLogger(inner).ServeHTTP(rec, req)

			output := buf.String()
			if !strings.Contains(output, "status="+strconv.Itoa(tt.status)) {
				t.Errorf("expected status %d in log: %s", tt.status, output)
			}
			if !strings.Contains(output, tt.level) {
				t.Errorf("expected %s in log: %s", tt.level, output)
			}
		})
	}
}
