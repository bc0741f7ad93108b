package source

import (
	"context"
	"fmt"
	"regexp"

	"github.com/bakkerme/pagewatch/internal/config"
	"github.com/bakkerme/pagewatch/internal/sources/page"
)

// PageSource snapshots the links on a web page that match a configured
// pattern. The first polling bot ("watch this page for new GitHub links") is
// one of these.
type PageSource struct {
	name    string
	config  config.PageSource
	fetcher page.Fetcher
	pattern *regexp.Regexp
}

func NewPageSource(cfg *config.PageSource, fetcher page.Fetcher) (*PageSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("page source config is required")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("page source url is required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("page fetcher is required")
	}
	var pattern *regexp.Regexp
	if cfg.Pattern != "" {
		compiled, err := regexp.Compile(cfg.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile page pattern: %w", err)
		}
		pattern = compiled
	}
	return &PageSource{
		name:    "page",
		config:  *cfg,
		fetcher: fetcher,
		pattern: pattern,
	}, nil
}

func (s *PageSource) Name() string {
	return s.name
}

func (s *PageSource) FetchSnapshot(ctx context.Context) ([]string, error) {
	content, err := s.fetcher.Fetch(ctx, s.config.URL, page.FetchOptions{UserAgent: s.config.UserAgent})
	if err != nil {
		return nil, err
	}
	return page.ExtractLinks(content, s.pattern)
}
