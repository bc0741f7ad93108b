package impl

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bakkerme/pagewatch/internal/retry"
	"github.com/bakkerme/pagewatch/internal/sources/page"
)

type Fetcher struct {
	client *resty.Client
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if userAgent == "" {
		userAgent = "pagewatch/0.1"
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
	return &Fetcher{client: client}
}

func (f *Fetcher) Fetch(ctx context.Context, pageURL string, options page.FetchOptions) (string, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return "", fmt.Errorf("page: url is required")
	}

	var body string
	err := retry.Do(ctx, retry.Config{Attempts: 3, BaseDelay: 200 * time.Millisecond}, func() error {
		req := f.client.R().SetContext(ctx)
		if options.UserAgent != "" {
			req.SetHeader("User-Agent", options.UserAgent)
		}
		resp, err := req.Get(pageURL)
		if err != nil {
			return err
		}
		if resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError {
			return fmt.Errorf("page transient error: %s", resp.Status())
		}
		if resp.IsError() {
			return fmt.Errorf("page request failed: %s", resp.Status())
		}
		body = resp.String()
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("page: fetch %s: %w", pageURL, err)
	}
	return body, nil
}
