package seen

import (
	"context"
	"testing"
)

func openTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLoadEmptyOnFirstRun(t *testing.T) {
	db := openTestDB(t)
	store := db.Watch("releases")

	keys, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected empty seen set, got %v", keys)
	}
}

func TestReplacePreservesOrder(t *testing.T) {
	db := openTestDB(t)
	store := db.Watch("links")
	ctx := context.Background()

	if err := store.Replace(ctx, []string{"c", "a", "b"}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	keys, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(keys) != 3 || keys[0] != "c" || keys[1] != "a" || keys[2] != "b" {
		t.Fatalf("expected [c a b], got %v", keys)
	}
}

func TestReplaceDiscardsPreviousSet(t *testing.T) {
	db := openTestDB(t)
	store := db.Watch("links")
	ctx := context.Background()

	if err := store.Replace(ctx, []string{"a", "b"}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if err := store.Replace(ctx, []string{"c"}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	keys, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "c" {
		t.Fatalf("expected [c], got %v", keys)
	}
}

func TestReplaceDropsDuplicatesAndEmptyKeys(t *testing.T) {
	db := openTestDB(t)
	store := db.Watch("links")
	ctx := context.Background()

	if err := store.Replace(ctx, []string{"a", "", "b", "a"}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	keys, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("expected [a b], got %v", keys)
	}
}

func TestWatchesAreNamespaced(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Watch("one").Replace(ctx, []string{"a"}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if err := db.Watch("two").Replace(ctx, []string{"b"}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	keys, err := db.Watch("one").Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "a" {
		t.Fatalf("expected watch one to hold [a], got %v", keys)
	}
}
