package engine

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// FetchRecord is one completed transcript fetch. The transcript body itself
// is never stored, only metadata and sizes.
type FetchRecord struct {
	ID              int64  `json:"id"`
	VideoID         string `json:"video_id"`
	URL             string `json:"url"`
	Title           string `json:"title,omitempty"`
	Uploader        string `json:"uploader,omitempty"`
	DurationSec     int64  `json:"duration_sec,omitempty"`
	TranscriptChars int    `json:"transcript_chars"`
	Raw             bool   `json:"raw"`
	Source          string `json:"source"` // watch, player, panel
	Language        string `json:"language,omitempty"`
	FetchedAt       string `json:"fetched_at"`
}

var (
	historyDB   *sql.DB
	historyOnce sync.Once
	historyErr  error
)

// openHistoryDB opens (or creates) the SQLite history database.
func openHistoryDB() (*sql.DB, error) {
	historyOnce.Do(func() {
		dir := filepath.Join(os.Getenv("HOME"), ".go_youtube")
		if err := os.MkdirAll(dir, 0750); err != nil {
			historyErr = fmt.Errorf("history: mkdir %s: %w", dir, err)
			return
		}
		dbPath := filepath.Join(dir, "history.db")
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			historyErr = fmt.Errorf("history: open db: %w", err)
			return
		}
		db.SetMaxOpenConns(1) // SQLite: single writer
		if err := initHistorySchema(db); err != nil {
			historyErr = fmt.Errorf("history: init schema: %w", err)
			return
		}
		historyDB = db
	})
	return historyDB, historyErr
}

// initHistorySchema creates the fetches table if it doesn't exist.
func initHistorySchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS fetches (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id         TEXT NOT NULL,
		url              TEXT NOT NULL,
		title            TEXT,
		uploader         TEXT,
		duration_sec     INTEGER NOT NULL DEFAULT 0,
		transcript_chars INTEGER NOT NULL DEFAULT 0,
		raw              INTEGER NOT NULL DEFAULT 0,
		source           TEXT NOT NULL,
		language         TEXT,
		fetched_at       TEXT NOT NULL
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_fetches_video ON fetches (video_id, fetched_at)`)
	return err
}

// RecordFetch appends one row to the fetch history. History is append-only;
// repeated fetches of the same video produce separate rows.
func RecordFetch(_ context.Context, rec FetchRecord) error {
	if rec.VideoID == "" {
		return fmt.Errorf("history: video_id is required")
	}

	db, err := openHistoryDB()
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	rawInt := 0
	if rec.Raw {
		rawInt = 1
	}
	_, err = db.Exec(
		`INSERT INTO fetches (video_id, url, title, uploader, duration_sec, transcript_chars, raw, source, language, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.VideoID, rec.URL, rec.Title, rec.Uploader, rec.DurationSec,
		rec.TranscriptChars, rawInt, rec.Source, rec.Language, now,
	)
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	incrHistoryWrites()
	return nil
}

// ListFetches returns recent fetches, newest first, optionally filtered by video ID.
func ListFetches(_ context.Context, input HistoryInput) (*HistoryOutput, error) {
	db, err := openHistoryDB()
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var rows *sql.Rows
	if input.VideoID != "" {
		rows, err = db.Query(
			`SELECT id, video_id, url, title, uploader, duration_sec, transcript_chars, raw, source, language, fetched_at
			 FROM fetches WHERE video_id = ? ORDER BY fetched_at DESC, id DESC LIMIT ?`,
			input.VideoID, limit,
		)
	} else {
		rows, err = db.Query(
			`SELECT id, video_id, url, title, uploader, duration_sec, transcript_chars, raw, source, language, fetched_at
			 FROM fetches ORDER BY fetched_at DESC, id DESC LIMIT ?`,
			limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var fetches []FetchRecord
	for rows.Next() {
		var rec FetchRecord
		var title, uploader, language sql.NullString
		var rawInt int
		if err := rows.Scan(&rec.ID, &rec.VideoID, &rec.URL, &title, &uploader,
			&rec.DurationSec, &rec.TranscriptChars, &rawInt, &rec.Source, &language, &rec.FetchedAt); err != nil {
			continue
		}
		rec.Title = title.String
		rec.Uploader = uploader.String
		rec.Language = language.String
		rec.Raw = rawInt != 0
		fetches = append(fetches, rec)
	}

	if fetches == nil {
		fetches = []FetchRecord{}
	}
	return &HistoryOutput{Count: len(fetches), Fetches: fetches}, nil
}
