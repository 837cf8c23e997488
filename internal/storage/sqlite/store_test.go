package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"matchsim/internal/match"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "matches.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult() match.Result {
	return match.Result{
		Home:             "home",
		Away:             "away",
		Score:            [2]int{2, 1},
		MinutesSimulated: 94,
		Events: []match.Event{
			{Minute: 1, Type: match.EvKickOff},
			{Minute: 94, Type: match.EvFullTime},
		},
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSaveAndGetResult(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.SaveResult(ctx, 42, sampleResult())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a row id")
	}

	got, err := store.GetResult(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Score != [2]int{2, 1} || got.Home != "home" || got.MinutesSimulated != 94 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if len(got.Events) != 2 || got.Events[1].Type != match.EvFullTime {
		t.Fatalf("events did not survive the round trip: %+v", got.Events)
	}
}

func TestGetResultNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.GetResult(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	partial := sampleResult()
	partial.Partial = true
	partial.Reason = "wall clock budget exhausted"
	if _, err := store.SaveResult(ctx, 1, sampleResult()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.SaveResult(ctx, 2, partial); err != nil {
		t.Fatalf("save: %v", err)
	}

	rows, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	// Newest first: the partial run was saved last.
	if rows[0].Seed != 2 || !rows[0].Partial {
		t.Fatalf("first row %+v", rows[0])
	}
	if rows[1].Seed != 1 || rows[1].Partial {
		t.Fatalf("second row %+v", rows[1])
	}

	if _, err := store.ListRecent(ctx, 0); err == nil {
		t.Fatal("expected error for non-positive limit")
	}
}

func TestSaveResultCanceledContext(t *testing.T) {
	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.SaveResult(ctx, 1, sampleResult()); err == nil {
		t.Fatal("expected context error")
	}
}
