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

// Package journal records detection sessions and derives mood analytics
// from them. Entries are append-only and read back in insertion order.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/moodboard/core/internal/metrics"
	"github.com/moodboard/core/internal/models"
)

// Store persists journal entries. Load returns entries in the order they
// were appended.
type Store interface {
	Load(ctx context.Context) ([]models.JournalEntry, error)
	Append(ctx context.Context, entry models.JournalEntry) error
}

// Notifier is told about every saved entry.
type Notifier interface {
	PublishEntry(ctx context.Context, entry models.JournalEntry) error
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock overrides the time source used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// WithNotifier publishes an event for every saved entry.
func WithNotifier(n Notifier) Option {
	return func(j *Journal) { j.notifier = n }
}

// Journal is the mood journal service.
type Journal struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

// New creates a Journal over store.
func New(store Store, opts ...Option) *Journal {
	j := &Journal{store: store, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// AddEntry validates and appends a new entry stamped with the current time.
func (j *Journal) AddEntry(ctx context.Context, emotion models.Label, confidence float64, inputText *string, recs *models.Bundle) (models.JournalEntry, error) {
	label, ok := models.NormalizeLabel(string(emotion))
	if !ok {
		return models.JournalEntry{}, fmt.Errorf("%w: unknown emotion %q", ErrInvalidEntry, emotion)
	}
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return models.JournalEntry{}, fmt.Errorf("%w: confidence %v outside [0, 1]", ErrInvalidEntry, confidence)
	}

	entry := models.JournalEntry{
		ID:         uuid.NewString(),
		Timestamp:  j.now().Format(models.TimestampLayout),
		Emotion:    label,
		Confidence: confidence,
		InputText:  inputText,
	}
	if recs != nil {
		b := models.NewBundle(recs.Tracks, recs.Movies, recs.Quotes)
		entry.Recommendations = &b
	}

	if err := j.store.Append(ctx, entry); err != nil {
		return models.JournalEntry{}, fmt.Errorf("append journal entry: %w", err)
	}
	metrics.JournalEntries.WithLabelValues(string(label)).Inc()

	if j.notifier != nil {
		if err := j.notifier.PublishEntry(ctx, entry); err != nil {
			slog.Warn("failed to publish journal entry", "entry_id", entry.ID, "error", err)
		}
	}

	slog.Info("journal entry saved", "entry_id", entry.ID, "emotion", label)
	return entry, nil
}

// LoadEntries returns every entry in insertion order. A missing or corrupt
// store reads as an empty journal.
func (j *Journal) LoadEntries(ctx context.Context) []models.JournalEntry {
	entries, err := j.store.Load(ctx)
	if err != nil {
		reason := "read"
		if errors.Is(err, ErrStoreCorrupt) {
			reason = "corrupt"
		}
		metrics.JournalReadFailures.WithLabelValues(reason).Inc()
		slog.Warn("journal unreadable, treating as empty", "reason", reason, "error", err)
		return []models.JournalEntry{}
	}

	// Older journals stored the model's own vocabulary.
	for i := range entries {
		entries[i].Emotion, _ = models.NormalizeLabel(string(entries[i].Emotion))
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	return entries
}

// ComputeTrends loads the journal and summarises it.
func (j *Journal) ComputeTrends(ctx context.Context) Trends {
	return ComputeTrends(j.LoadEntries(ctx))
}

// BuildVisualization loads the journal and builds chart definitions, or nil when
// the journal is empty.
func (j *Journal) BuildVisualization(ctx context.Context) *Visualization {
	return BuildVisualization(j.LoadEntries(ctx))
}
