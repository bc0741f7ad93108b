package mock

import (
	"context"

	"github.com/bakkerme/pagewatch/internal/sources/page"
)

type Fetcher struct {
	BodyByURL map[string]string
	ErrByURL  map[string]error
}

func (f *Fetcher) Fetch(ctx context.Context, pageURL string, options page.FetchOptions) (string, error) {
	_ = ctx
	_ = options
	if f.ErrByURL != nil {
		if err, ok := f.ErrByURL[pageURL]; ok {
			return "", err
		}
	}
	return f.BodyByURL[pageURL], nil
}
