// Package sqlite provides a SQLite-backed implementation of the repository port.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
	"github.com/edh5623/Songtiment-Analysis/internal/core/ports"
)

// Adapter implements the repository port for SQLite
type Adapter struct {
	db *sql.DB
}

var _ ports.AnalysisRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping db: %w", err)
	}

	// every connection to ":memory:" is a fresh database
	if strings.Contains(storagePath, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) SaveAnalysis(ctx context.Context, an domain.Analysis) error {
	if an.ID == "" {
		return errors.New("sqlite: analysis id is required")
	}
	features, err := json.Marshal(an.Features)
	if err != nil {
		return fmt.Errorf("sqlite: failed to encode features: %w", err)
	}
	createdAt := an.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO analyses (
			id, title, artist, song_id, features, tempo, mode, loudness,
			lyric_lexicon, lyric_model_a, lyric_model_b, lyric_sentiment,
			title_lexicon, title_model_a, title_model_b, title_sentiment,
			final_sentiment, synthesized, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		an.ID, an.Title, an.Artist, an.SongID, string(features), an.Tempo, an.Mode, an.Loudness,
		an.LyricScores.Lexicon, an.LyricScores.ModelA, an.LyricScores.ModelB, an.LyricScores.Mean,
		an.TitleScores.Lexicon, an.TitleScores.ModelA, an.TitleScores.ModelB, an.TitleScores.Mean,
		an.Final, an.Synthesized, createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: failed to insert analysis: %w", err)
	}
	return nil
}

// GetAnalysis loads one saved analysis by ID.
func (a *Adapter) GetAnalysis(ctx context.Context, id string) (domain.Analysis, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, title, artist, song_id, features, tempo, mode, loudness,
			lyric_lexicon, lyric_model_a, lyric_model_b, lyric_sentiment,
			title_lexicon, title_model_a, title_model_b, title_sentiment,
			final_sentiment, synthesized, created_at
		FROM analyses WHERE id = ?
	`, id)

	var an domain.Analysis
	var features, createdAt string
	if err := row.Scan(
		&an.ID, &an.Title, &an.Artist, &an.SongID, &features, &an.Tempo, &an.Mode, &an.Loudness,
		&an.LyricScores.Lexicon, &an.LyricScores.ModelA, &an.LyricScores.ModelB, &an.LyricScores.Mean,
		&an.TitleScores.Lexicon, &an.TitleScores.ModelA, &an.TitleScores.ModelB, &an.TitleScores.Mean,
		&an.Final, &an.Synthesized, &createdAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Analysis{}, domain.ErrNotFound
		}
		return domain.Analysis{}, fmt.Errorf("sqlite: failed to load analysis: %w", err)
	}

	if err := json.Unmarshal([]byte(features), &an.Features); err != nil {
		return domain.Analysis{}, fmt.Errorf("sqlite: failed to decode features: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		an.CreatedAt = t
	}
	return an, nil
}

func (a *Adapter) GetLyrics(ctx context.Context, songID string) (string, error) {
	var lyrics string
	err := a.db.QueryRowContext(ctx, "SELECT lyrics FROM lyrics WHERE song_id = ?", songID).Scan(&lyrics)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("sqlite: failed to load lyrics: %w", err)
	}
	return lyrics, nil
}

func (a *Adapter) SaveLyrics(ctx context.Context, song domain.Song, lyrics string) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO lyrics (song_id, title, artist, url, lyrics) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(song_id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			url = excluded.url,
			lyrics = excluded.lyrics,
			fetched_at = CURRENT_TIMESTAMP
	`, song.ID, song.Title, song.Artist, song.URL, lyrics)
	if err != nil {
		return fmt.Errorf("sqlite: failed to save lyrics: %w", err)
	}
	return nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		song_id TEXT,
		features TEXT NOT NULL,
		tempo INTEGER,
		mode INTEGER,
		loudness INTEGER,
		lyric_lexicon REAL,
		lyric_model_a REAL,
		lyric_model_b REAL,
		lyric_sentiment REAL,
		title_lexicon REAL,
		title_model_a REAL,
		title_model_b REAL,
		title_sentiment REAL,
		final_sentiment REAL,
		synthesized INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_song ON analyses(song_id);

	CREATE TABLE IF NOT EXISTS lyrics (
		song_id TEXT PRIMARY KEY,
		title TEXT,
		artist TEXT,
		url TEXT,
		lyrics TEXT NOT NULL,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	return nil
}
