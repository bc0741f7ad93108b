package core

import "context"

// Snapshotter fetches a point-in-time list of keys from an external resource.
// A fetch that succeeds but matches nothing returns an empty slice, not an
// error; only transport or extraction failures produce errors.
type Snapshotter interface {
	// Name returns the source name.
	Name() string
	// FetchSnapshot retrieves the current key list. No ordering guarantee is
	// made beyond whatever the underlying resource provides.
	FetchSnapshot(ctx context.Context) ([]string, error)
}

// KeyFilter narrows a snapshot before it is diffed against the seen set.
type KeyFilter interface {
	Name() string
	// Apply returns the keys that survive the filter, preserving relative order.
	Apply(ctx context.Context, keys []string) ([]string, error)
}

// Notifier delivers one aggregated notification for the keys added in a run.
// It is never called with an empty key list.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, added []string) error
}

// TriggerProcessor defines when a watch runs.
type TriggerProcessor interface {
	Name() string
	// Start begins the trigger and returns a channel of trigger events.
	// The processor manages its own lifecycle and sends events when triggered.
	Start(ctx context.Context, watchID string) (<-chan TriggerEvent, error)
	// Stop gracefully shuts down the trigger.
	Stop() error
}
