package feed

import (
	"context"
	"time"
)

// FetchOptions controls feed fetch behavior.
type FetchOptions struct {
	// Limit caps the number of entries returned; 0 means all. A release
	// tracker watching only the newest entry sets Limit to 1.
	Limit     int
	UserAgent string
}

// Entry represents a single RSS or Atom entry.
type Entry struct {
	ID          string
	Title       string
	Link        string
	PublishedAt time.Time
}

// Fetcher fetches and parses RSS/Atom feeds.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string, options FetchOptions) ([]Entry, error)
}
