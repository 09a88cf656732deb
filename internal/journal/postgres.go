// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moodboard/core/internal/models"
)

// PostgresStore keeps the journal in the mood_journal table. The seq
// column orders entries.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a journal store backed by the given pool and
// ensures the table exists.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure journal schema: %w", err)
	}
	slog.Info("journal store initialised", "backend", "postgres")
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS mood_journal (
			seq             BIGSERIAL PRIMARY KEY,
			entry_id        TEXT UNIQUE,
			recorded_at     TEXT NOT NULL,
			emotion         TEXT NOT NULL,
			confidence      DOUBLE PRECISION NOT NULL,
			input_text      TEXT,
			recommendations JSONB,
			created_at      TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_journal_emotion ON mood_journal(emotion);
	`)
	return err
}

// Append inserts entry at the end of the journal.
func (s *PostgresStore) Append(ctx context.Context, e models.JournalEntry) error {
	var recs []byte
	if e.Recommendations != nil {
		var err error
		if recs, err = json.Marshal(e.Recommendations); err != nil {
			return fmt.Errorf("encode recommendations: %w", err)
		}
	}

	var entryID *string
	if e.ID != "" {
		entryID = &e.ID
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO mood_journal
			(entry_id, recorded_at, emotion, confidence, input_text, recommendations)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entryID, e.Timestamp, string(e.Emotion), e.Confidence, e.InputText, recs)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// Load returns every entry ordered by seq.
func (s *PostgresStore) Load(ctx context.Context) ([]models.JournalEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT entry_id, recorded_at, emotion, confidence, input_text, recommendations
		FROM mood_journal
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// collectEntries scans journal rows. Undecodable recommendations mark the
// store corrupt.
func collectEntries(rows pgx.Rows) ([]models.JournalEntry, error) {
	entries := []models.JournalEntry{}
	for rows.Next() {
		var (
			e       models.JournalEntry
			entryID *string
			emotion string
			recs    []byte
		)
		if err := rows.Scan(&entryID, &e.Timestamp, &emotion, &e.Confidence, &e.InputText, &recs); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		if entryID != nil {
			e.ID = *entryID
		}
		e.Emotion = models.Label(emotion)
		if recs != nil {
			var b models.Bundle
			if err := json.Unmarshal(recs, &b); err != nil {
				return nil, fmt.Errorf("%w: entry %s recommendations: %w", ErrStoreCorrupt, e.ID, err)
			}
			e.Recommendations = &b
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
