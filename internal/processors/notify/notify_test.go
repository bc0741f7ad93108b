package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/bakkerme/pagewatch/internal/config"
	chatmock "github.com/bakkerme/pagewatch/internal/outputs/chat/mock"
	emailmock "github.com/bakkerme/pagewatch/internal/outputs/email/mock"
)

func TestEmailNotifierAggregatesKeysInOneMessage(t *testing.T) {
	sender := &emailmock.Sender{}
	notifier, err := NewEmailNotifier(&config.EmailNotify{
		To:      "alerts@example.com",
		From:    "pagewatch@example.com",
		Subject: "New links",
	}, sender)
	if err != nil {
		t.Fatalf("failed to create notifier: %v", err)
	}

	err = notifier.Notify(context.Background(), []string{
		"https://github.com/golang/go",
		"https://github.com/robfig/cron",
	})
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if len(sender.Messages) != 1 {
		t.Fatalf("expected exactly one email, got %d", len(sender.Messages))
	}

	message := sender.Messages[0]
	if message.To != "alerts@example.com" || message.Subject != "New links" {
		t.Fatalf("unexpected envelope: %+v", message)
	}
	if !strings.Contains(message.Body, "github.com/golang/go") ||
		!strings.Contains(message.Body, "github.com/robfig/cron") {
		t.Fatalf("expected body to carry both keys, got %q", message.Body)
	}
	// Markdown bullets render to an HTML list.
	if !strings.Contains(message.Body, "<li>") {
		t.Fatalf("expected rendered HTML body, got %q", message.Body)
	}
}

func TestEmailNotifierCustomTemplate(t *testing.T) {
	sender := &emailmock.Sender{}
	notifier, err := NewEmailNotifier(&config.EmailNotify{
		To:       "alerts@example.com",
		Subject:  "Releases",
		Template: "{{.Count}} new release(s):\n{{range .Keys}}- {{.}}\n{{end}}",
	}, sender)
	if err != nil {
		t.Fatalf("failed to create notifier: %v", err)
	}

	if err := notifier.Notify(context.Background(), []string{"v1.2.3"}); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if !strings.Contains(sender.Messages[0].Body, "1 new release(s)") {
		t.Fatalf("expected count in body, got %q", sender.Messages[0].Body)
	}
}

func TestEmailNotifierRequiresEnvelope(t *testing.T) {
	if _, err := NewEmailNotifier(&config.EmailNotify{Subject: "x"}, &emailmock.Sender{}); err == nil {
		t.Fatal("expected error without to address")
	}
	if _, err := NewEmailNotifier(&config.EmailNotify{To: "a@b.c"}, &emailmock.Sender{}); err == nil {
		t.Fatal("expected error without subject")
	}
}

func TestChatNotifierJoinsKeysWithNewlines(t *testing.T) {
	sender := &chatmock.Sender{}
	notifier, err := NewChatNotifier(&config.ChatNotify{}, sender)
	if err != nil {
		t.Fatalf("failed to create notifier: %v", err)
	}

	if err := notifier.Notify(context.Background(), []string{"rel-1", "rel-2"}); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if len(sender.Messages) != 1 {
		t.Fatalf("expected exactly one message, got %d", len(sender.Messages))
	}
	if sender.Messages[0].Text != "rel-1\nrel-2" {
		t.Fatalf("expected newline-joined text, got %q", sender.Messages[0].Text)
	}
}

func TestChatNotifierPrependsHeader(t *testing.T) {
	sender := &chatmock.Sender{}
	notifier, err := NewChatNotifier(&config.ChatNotify{Header: "New release:"}, sender)
	if err != nil {
		t.Fatalf("failed to create notifier: %v", err)
	}

	if err := notifier.Notify(context.Background(), []string{"v2.0.0"}); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if sender.Messages[0].Text != "New release:\nv2.0.0" {
		t.Fatalf("expected header line, got %q", sender.Messages[0].Text)
	}
}
