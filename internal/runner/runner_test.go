package runner

import (
	"context"
	"log/slog"
	"reflect"
	"testing"

	"github.com/bakkerme/pagewatch/internal/detect"
)

type staticSource struct {
	keys []string
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) FetchSnapshot(ctx context.Context) ([]string, error) {
	_ = ctx
	return s.keys, nil
}

type recordingNotifier struct {
	calls [][]string
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Notify(ctx context.Context, added []string) error {
	_ = ctx
	n.calls = append(n.calls, added)
	return nil
}

type memoryStore struct {
	keys []string
}

func (s *memoryStore) Load(ctx context.Context) ([]string, error) {
	_ = ctx
	return s.keys, nil
}

func (s *memoryStore) Replace(ctx context.Context, keys []string) error {
	_ = ctx
	s.keys = keys
	return nil
}

func (s *memoryStore) Close() error { return nil }

func TestRunOnceThenIdle(t *testing.T) {
	source := &staticSource{keys: []string{"a", "b"}}
	notifier := &recordingNotifier{}
	store := &memoryStore{}
	detector, err := detect.New("releases", source, nil, notifier, store)
	if err != nil {
		t.Fatalf("failed to create detector: %v", err)
	}
	watch := &Watch{Name: "releases", Detector: detector}
	r := New(slog.Default())

	first, err := r.RunOnce(context.Background(), watch)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.Status != "updated" || !reflect.DeepEqual(first.Added, []string{"a", "b"}) {
		t.Fatalf("unexpected first run result: %+v", first)
	}

	second, err := r.RunOnce(context.Background(), watch)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.Status != "idle" || len(second.Added) != 0 {
		t.Fatalf("expected idle second run, got %+v", second)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("expected one notification across both runs, got %d", len(notifier.calls))
	}
}

func TestRunOnceRequiresDetector(t *testing.T) {
	r := New(nil)
	if _, err := r.RunOnce(context.Background(), &Watch{Name: "empty"}); err == nil {
		t.Fatal("expected error for watch without detector")
	}
}

func TestStartRequiresWatches(t *testing.T) {
	r := New(nil)
	if err := r.Start(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty watch list")
	}
}
