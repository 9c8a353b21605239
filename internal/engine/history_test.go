package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// resetHistory resets the singleton so each test gets a fresh DB.
func resetHistory(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	// Override HOME so openHistoryDB uses the temp dir.
	t.Setenv("HOME", dir)
	// Reset the singleton.
	historyDB = nil
	historyErr = nil
	historyOnce = sync.Once{}
	return filepath.Join(dir, ".go_youtube", "history.db")
}

func TestRecordFetch_Basic(t *testing.T) {
	resetHistory(t)
	ctx := context.Background()

	err := RecordFetch(ctx, FetchRecord{
		VideoID:         "dQw4w9WgXcQ",
		URL:             "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Title:           "Never Gonna Give You Up",
		Uploader:        "Rick Astley",
		DurationSec:     213,
		TranscriptChars: 4096,
		Source:          "watch",
		Language:        "en",
	})
	if err != nil {
		t.Fatalf("RecordFetch error: %v", err)
	}

	list, err := ListFetches(ctx, HistoryInput{})
	if err != nil {
		t.Fatalf("ListFetches error: %v", err)
	}
	if list.Count != 1 {
		t.Fatalf("count = %d, want 1", list.Count)
	}
	rec := list.Fetches[0]
	if rec.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("video_id = %q, want dQw4w9WgXcQ", rec.VideoID)
	}
	if rec.TranscriptChars != 4096 {
		t.Errorf("transcript_chars = %d, want 4096", rec.TranscriptChars)
	}
	if rec.Raw {
		t.Error("raw = true, want false")
	}
	if rec.FetchedAt == "" {
		t.Error("fetched_at is empty")
	}
}

func TestRecordFetch_MissingVideoID(t *testing.T) {
	resetHistory(t)
	ctx := context.Background()

	err := RecordFetch(ctx, FetchRecord{URL: "https://youtu.be/x"})
	if err == nil {
		t.Error("expected error when video_id is missing")
	}
}

func TestListFetches_Empty(t *testing.T) {
	resetHistory(t)
	ctx := context.Background()

	list, err := ListFetches(ctx, HistoryInput{})
	if err != nil {
		t.Fatalf("ListFetches error: %v", err)
	}
	if list.Count != 0 {
		t.Errorf("count = %d, want 0", list.Count)
	}
	if list.Fetches == nil {
		t.Error("fetches should be an empty slice, not nil")
	}
}

func TestListFetches_FilterByVideo(t *testing.T) {
	resetHistory(t)
	ctx := context.Background()

	for _, tc := range []struct {
		id, source string
		raw        bool
	}{
		{"aaaaaaaaaaa", "watch", false},
		{"bbbbbbbbbbb", "player", true},
		{"aaaaaaaaaaa", "panel", false},
	} {
		err := RecordFetch(ctx, FetchRecord{
			VideoID: tc.id,
			URL:     "https://youtu.be/" + tc.id,
			Source:  tc.source,
			Raw:     tc.raw,
		})
		if err != nil {
			t.Fatalf("RecordFetch error: %v", err)
		}
	}

	all, err := ListFetches(ctx, HistoryInput{})
	if err != nil {
		t.Fatalf("ListFetches error: %v", err)
	}
	if all.Count != 3 {
		t.Errorf("count = %d, want 3", all.Count)
	}

	one, err := ListFetches(ctx, HistoryInput{VideoID: "aaaaaaaaaaa"})
	if err != nil {
		t.Fatalf("ListFetches filter error: %v", err)
	}
	if one.Count != 2 {
		t.Errorf("filtered count = %d, want 2", one.Count)
	}
	for _, rec := range one.Fetches {
		if rec.VideoID != "aaaaaaaaaaa" {
			t.Errorf("filter leaked video_id %q", rec.VideoID)
		}
	}
}

func TestListFetches_LimitClamped(t *testing.T) {
	resetHistory(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := RecordFetch(ctx, FetchRecord{VideoID: "ccccccccccc", URL: "u", Source: "watch"})
		if err != nil {
			t.Fatalf("RecordFetch error: %v", err)
		}
	}

	list, err := ListFetches(ctx, HistoryInput{Limit: 2})
	if err != nil {
		t.Fatalf("ListFetches error: %v", err)
	}
	if list.Count != 2 {
		t.Errorf("count = %d, want 2", list.Count)
	}

	// Limit=0 defaults to 20, over-limit clamps to 100; both just list.
	list, err = ListFetches(ctx, HistoryInput{Limit: 500})
	if err != nil {
		t.Fatalf("ListFetches error: %v", err)
	}
	if list.Count != 5 {
		t.Errorf("count = %d, want 5", list.Count)
	}
}

func TestInitHistorySchema_Idempotent(t *testing.T) {
	resetHistory(t)
	ctx := context.Background()

	err := RecordFetch(ctx, FetchRecord{VideoID: "ddddddddddd", URL: "u", Source: "watch"})
	if err != nil {
		t.Fatalf("first insert error: %v", err)
	}

	// Reset singleton but keep same HOME dir (same DB file).
	home := os.Getenv("HOME")
	historyDB = nil
	historyErr = nil
	historyOnce = sync.Once{}
	t.Setenv("HOME", home)

	err = RecordFetch(ctx, FetchRecord{VideoID: "eeeeeeeeeee", URL: "u", Source: "player"})
	if err != nil {
		t.Fatalf("second insert after re-open error: %v", err)
	}

	list, _ := ListFetches(ctx, HistoryInput{})
	if list.Count != 2 {
		t.Errorf("expected 2 rows after re-open, got %d", list.Count)
	}
}
