package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bakkerme/pagewatch/internal/outputs/chat"
)

func TestSendPostsContentPayload(t *testing.T) {
	var payload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("expected json payload, got: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sender := NewSender(server.URL, 5*time.Second)
	if err := sender.Send(context.Background(), chat.Message{Text: "release v1.2.3"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if payload["content"] != "release v1.2.3" {
		t.Fatalf("expected content field, got %v", payload)
	}
}

func TestSendRetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sender := NewSender(server.URL, 5*time.Second)
	if err := sender.Send(context.Background(), chat.Message{Text: "hello"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestSendSurfacesClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sender := NewSender(server.URL, 5*time.Second)
	if err := sender.Send(context.Background(), chat.Message{Text: "hello"}); err == nil {
		t.Fatal("expected error on 400")
	}
}

func TestSendRequiresWebhookURL(t *testing.T) {
	sender := NewSender("", 5*time.Second)
	if err := sender.Send(context.Background(), chat.Message{Text: "hello"}); err == nil {
		t.Fatal("expected error without webhook url")
	}
}
