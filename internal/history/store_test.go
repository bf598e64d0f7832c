package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"lonelymovie/internal/media"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	records := []media.Record{
		{IMDBID: "tt0111161", Source: "vidsrc.me", StreamURL: "https://cdn.example.com/master.m3u8", Type: "m3u8", Attempts: 1, Found: true},
		{IMDBID: "tt0903747", Source: "2embed.cc", Attempts: 2, Found: false},
	}
	for _, rec := range records {
		if err := store.Record(ctx, rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}

	// Newest first.
	if got[0].IMDBID != "tt0903747" {
		t.Errorf("got[0].IMDBID = %q, want tt0903747", got[0].IMDBID)
	}
	if got[0].Found || got[0].StreamURL != "" {
		t.Errorf("failed extraction should persist as not found: %+v", got[0])
	}
	if !got[1].Found || got[1].StreamURL != "https://cdn.example.com/master.m3u8" {
		t.Errorf("got[1] = %+v", got[1])
	}
	if got[1].Type != "m3u8" || got[1].Attempts != 1 {
		t.Errorf("got[1] = %+v", got[1])
	}
	if got[1].CreatedAt.IsZero() {
		t.Error("CreatedAt should be backfilled when zero")
	}
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := media.Record{IMDBID: "tt0111161", Source: "vidsrc.me", CreatedAt: time.Now().UTC()}
		if err := store.Record(ctx, rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
}

func TestRecentEmpty(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Record(context.Background(), media.Record{IMDBID: "tt0111161", Source: "vidsrc.me"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	got, err := second.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected existing record to survive reopen, got %d", len(got))
	}
}
