package seen

import "context"

// Store holds the durably recorded key set for one watch.
//
// The set is read once at the start of a run and replaced at most once at the
// end; the detector never merges into it.
type Store interface {
	// Load returns the recorded keys in insert order. A store that has never
	// been written loads as an empty set.
	Load(ctx context.Context) ([]string, error)
	// Replace discards the recorded set and stores keys in its place.
	Replace(ctx context.Context, keys []string) error
	Close() error
}
