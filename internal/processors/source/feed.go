package source

import (
	"context"
	"fmt"

	"github.com/bakkerme/pagewatch/internal/config"
	"github.com/bakkerme/pagewatch/internal/sources/feed"
)

// FeedSource snapshots the entry identifiers of an RSS/Atom feed. With
// limit 1 it tracks only the newest entry, which is how the release bot
// watches a project's release feed.
type FeedSource struct {
	name    string
	config  config.FeedSource
	fetcher feed.Fetcher
}

func NewFeedSource(cfg *config.FeedSource, fetcher feed.Fetcher) (*FeedSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("feed source config is required")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("feed source url is required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("feed fetcher is required")
	}
	return &FeedSource{
		name:    "feed",
		config:  *cfg,
		fetcher: fetcher,
	}, nil
}

func (s *FeedSource) Name() string {
	return s.name
}

func (s *FeedSource) FetchSnapshot(ctx context.Context) ([]string, error) {
	entries, err := s.fetcher.Fetch(ctx, s.config.URL, feed.FetchOptions{
		Limit:     s.config.Limit,
		UserAgent: s.config.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		key := entry.ID
		if key == "" {
			key = entry.Link
		}
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}
