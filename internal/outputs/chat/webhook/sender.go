package webhook

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bakkerme/pagewatch/internal/outputs/chat"
	"github.com/bakkerme/pagewatch/internal/retry"
)

// Sender posts messages to a chat webhook (Discord-compatible payload shape:
// a JSON object with a "content" field).
type Sender struct {
	client     *resty.Client
	webhookURL string
}

func NewSender(webhookURL string, timeout time.Duration) *Sender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Sender{client: client, webhookURL: strings.TrimSpace(webhookURL)}
}

func (s *Sender) Send(ctx context.Context, message chat.Message) error {
	if s.webhookURL == "" {
		return fmt.Errorf("chat: webhook url is required")
	}
	if message.Text == "" {
		return fmt.Errorf("chat: message text is required")
	}

	err := retry.Do(ctx, retry.Config{Attempts: 3, BaseDelay: 200 * time.Millisecond}, func() error {
		resp, err := s.client.R().
			SetContext(ctx).
			SetBody(map[string]string{"content": message.Text}).
			Post(s.webhookURL)
		if err != nil {
			return err
		}
		if resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError {
			return fmt.Errorf("chat transient error: %s", resp.Status())
		}
		if resp.IsError() {
			return fmt.Errorf("chat request failed: %s", resp.Status())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("chat: post webhook: %w", err)
	}
	return nil
}
