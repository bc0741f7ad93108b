// Package detect implements the poll → diff → notify → commit cycle behind
// each watch. A run fetches a snapshot of keys from its source, subtracts the
// previously recorded seen set, sends one aggregated notification for the new
// keys and then replaces the seen set with exactly those keys.
package detect

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bakkerme/pagewatch/internal/core"
	"github.com/bakkerme/pagewatch/internal/seen"
)

type Detector struct {
	name     string
	source   core.Snapshotter
	filters  []core.KeyFilter
	notifier core.Notifier
	store    seen.Store
}

func New(name string, source core.Snapshotter, filters []core.KeyFilter, notifier core.Notifier, store seen.Store) (*Detector, error) {
	if name == "" {
		return nil, fmt.Errorf("detector name is required")
	}
	if source == nil {
		return nil, fmt.Errorf("detector source is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("detector notifier is required")
	}
	if store == nil {
		return nil, fmt.Errorf("detector seen store is required")
	}
	return &Detector{
		name:     name,
		source:   source,
		filters:  filters,
		notifier: notifier,
		store:    store,
	}, nil
}

func (d *Detector) Name() string {
	return d.name
}

// Run executes one complete poll cycle. Errors from any stage propagate to
// the caller unwrapped of policy: there is no retry or partial-failure
// recovery here, the next scheduled run starts from scratch. A notify that
// succeeds followed by a commit that fails leaves the seen set stale, so the
// same keys notify again next run (at-least-once semantics).
func (d *Detector) Run(ctx context.Context) (*core.RunResult, error) {
	logger := core.LoggerFromContext(ctx)
	result := &core.RunResult{
		ID:        uuid.NewString(),
		WatchID:   d.name,
		StartedAt: time.Now().UTC(),
		Status:    core.RunStatusIdle,
	}

	snapshot, err := d.source.FetchSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	for _, filter := range d.filters {
		if filter == nil {
			continue
		}
		snapshot, err = filter.Apply(ctx, snapshot)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", filter.Name(), err)
		}
	}
	result.Snapshot = snapshot

	seenKeys, err := d.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load seen set: %w", err)
	}

	added := Diff(snapshot, seenKeys)
	result.Added = added
	if len(added) == 0 {
		logger.Debug("no new keys", "snapshot", len(snapshot), "seen", len(seenKeys))
		result.CompletedAt = time.Now().UTC()
		return result, nil
	}

	if err := d.notifier.Notify(ctx, added); err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}
	// The seen set is replaced with the added set, not merged. Keys that were
	// recorded but absent from this snapshot drop out and will notify again
	// if they reappear.
	if err := d.store.Replace(ctx, added); err != nil {
		return nil, fmt.Errorf("commit seen set: %w", err)
	}

	result.Status = core.RunStatusUpdated
	result.CompletedAt = time.Now().UTC()
	logger.Info("new keys notified", "added", len(added), "snapshot", len(snapshot))
	return result, nil
}

// Diff returns the elements of snapshot absent from seenKeys, by exact string
// equality, preserving snapshot's relative order. Duplicates within snapshot
// are carried through untouched.
func Diff(snapshot, seenKeys []string) []string {
	recorded := make(map[string]struct{}, len(seenKeys))
	for _, key := range seenKeys {
		recorded[key] = struct{}{}
	}
	added := []string{}
	for _, key := range snapshot {
		if _, ok := recorded[key]; !ok {
			added = append(added, key)
		}
	}
	return added
}
