package mock

import (
	"context"

	"github.com/bakkerme/pagewatch/internal/sources/feed"
)

type Fetcher struct {
	EntriesByFeed map[string][]feed.Entry
	ErrByFeed     map[string]error
}

func (f *Fetcher) Fetch(ctx context.Context, feedURL string, options feed.FetchOptions) ([]feed.Entry, error) {
	_ = ctx
	if f.ErrByFeed != nil {
		if err, ok := f.ErrByFeed[feedURL]; ok {
			return nil, err
		}
	}
	entries := f.EntriesByFeed[feedURL]
	if options.Limit > 0 && len(entries) > options.Limit {
		return entries[:options.Limit], nil
	}
	return entries, nil
}
