package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type staticSeen struct {
	keys []string
}

func (s *staticSeen) Load(ctx context.Context) ([]string, error) {
	_ = ctx
	return s.keys, nil
}

func (s *staticSeen) Replace(ctx context.Context, keys []string) error {
	_ = ctx
	s.keys = keys
	return nil
}

func (s *staticSeen) Close() error { return nil }

func newTestServer() *Server {
	return NewServer(nil, "/watches", []WatchEntry{
		{
			Name:     "github-links",
			Schedule: "0 9 * * *",
			Source:   "https://example.com/projects",
			Seen:     &staticSeen{keys: []string{"https://github.com/golang/go"}},
		},
		{
			Name:     "releases",
			Schedule: "*/30 * * * *",
			Source:   "https://example.com/releases.atom",
			Seen:     &staticSeen{},
		},
	})
}

func TestPageRendersWatchesAndSeenKeys(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/watches", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "github-links") || !strings.Contains(body, "releases") {
		t.Fatalf("expected both watches on page, got %q", body)
	}
	if !strings.Contains(body, "https://github.com/golang/go") {
		t.Fatalf("expected recorded key on page, got %q", body)
	}
	if !strings.Contains(body, "nothing recorded yet") {
		t.Fatalf("expected empty-state text for fresh watch, got %q", body)
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("expected html content type, got %q", rec.Header().Get("Content-Type"))
	}
}

func TestUnknownPathReturnsJSON404(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/somewhere-else", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("expected json 404 payload, got %q", rec.Body.String())
	}
	if payload["status"] != float64(http.StatusNotFound) {
		t.Fatalf("expected status 404 in payload, got %v", payload)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Fatalf("expected health payload, got %q", rec.Body.String())
	}
}
