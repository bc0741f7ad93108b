package impl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/bakkerme/pagewatch/internal/retry"
	"github.com/bakkerme/pagewatch/internal/sources/feed"
)

type Fetcher struct {
	client    *http.Client
	parser    *gofeed.Parser
	userAgent string
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		parser:    gofeed.NewParser(),
		userAgent: userAgent,
	}
}

// Fetch downloads the feed with retry, then parses it once. Malformed feed
// documents fail immediately; only the transport leg is retried.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string, options feed.FetchOptions) ([]feed.Entry, error) {
	body, err := f.fetchBody(ctx, feedURL, options.UserAgent)
	if err != nil {
		return nil, err
	}

	parsed, err := f.parser.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	limit := options.Limit
	if limit <= 0 {
		limit = len(parsed.Items)
	}

	entries := make([]feed.Entry, 0, limit)
	for _, item := range parsed.Items {
		if len(entries) >= limit {
			break
		}
		entry := feed.Entry{
			ID:    item.GUID,
			Title: item.Title,
			Link:  item.Link,
		}
		if item.PublishedParsed != nil {
			entry.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			entry.PublishedAt = *item.UpdatedParsed
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (f *Fetcher) fetchBody(ctx context.Context, feedURL, userAgent string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", fmt.Errorf("feed: build request: %w", err)
	}
	if userAgent == "" {
		userAgent = f.userAgent
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	var body string
	err = retry.Do(ctx, retry.Config{Attempts: 3, BaseDelay: 200 * time.Millisecond}, func() error {
		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("feed transient error: %s", resp.Status)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("feed request failed: %s", resp.Status)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		body = string(data)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("feed: fetch %s: %w", feedURL, err)
	}
	return body, nil
}
