package page

import "context"

// FetchOptions controls page fetch behavior.
type FetchOptions struct {
	UserAgent string
}

// Fetcher retrieves the raw textual content of a web page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string, options FetchOptions) (string, error)
}
