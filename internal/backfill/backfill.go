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

// Package backfill imports a legacy JSON mood journal into the configured
// journal store. Entries are normalised on the way in and fingerprinted so
// repeated runs over the same file import nothing new.
package backfill

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/moodboard/core/internal/dedup"
	"github.com/moodboard/core/internal/journal"
	"github.com/moodboard/core/internal/models"
)

// Request defines the scope of an import run.
type Request struct {
	SourcePath string
	DryRun     bool
}

// Result summarises a completed import.
type Result struct {
	Read     int
	Imported int
	Skipped  int
	Invalid  int
	Elapsed  time.Duration
}

// Deduper remembers fingerprints across runs.
type Deduper interface {
	IsNew(ctx context.Context, fingerprint string) (bool, error)
	Forget(ctx context.Context, fingerprint string) error
}

// RunnerConfig holds dependencies for the import runner.
type RunnerConfig struct {
	Target journal.Store
	Dedup  Deduper // optional
}

// Runner imports legacy journals.
type Runner struct {
	target journal.Store
	dedup  Deduper
}

// NewRunner creates an import runner.
func NewRunner(cfg RunnerConfig) *Runner {
	return &Runner{target: cfg.Target, dedup: cfg.Dedup}
}

// Run imports every valid, unseen entry from req.SourcePath in file order.
// It stops at the first write failure, returning the counts so far.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	source, err := readLegacy(req.SourcePath)
	if err != nil {
		return nil, err
	}

	existing, err := r.target.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load target journal: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[dedup.Fingerprint(e)] = true
	}

	slog.Info("starting journal import",
		"source", req.SourcePath,
		"entries", len(source),
		"existing", len(existing),
		"dry_run", req.DryRun,
	)

	result := &Result{}
	for i, e := range source {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Read++

		entry, ok := normalise(e)
		if !ok {
			slog.Warn("skipping invalid legacy entry",
				"index", i,
				"emotion", e.Emotion,
				"timestamp", e.Timestamp,
			)
			result.Invalid++
			continue
		}

		fp := dedup.Fingerprint(entry)
		if seen[fp] {
			result.Skipped++
			continue
		}
		seen[fp] = true

		if req.DryRun {
			result.Imported++
			continue
		}

		if r.dedup != nil {
			isNew, err := r.dedup.IsNew(ctx, fp)
			if err != nil {
				slog.Warn("dedup check failed", "error", err)
			} else if !isNew {
				result.Skipped++
				continue
			}
		}

		if err := r.target.Append(ctx, entry); err != nil {
			if r.dedup != nil {
				if ferr := r.dedup.Forget(ctx, fp); ferr != nil {
					slog.Warn("failed to release fingerprint", "error", ferr)
				}
			}
			return result, fmt.Errorf("append entry %d: %w", i, err)
		}
		result.Imported++
	}

	result.Elapsed = time.Since(start)
	slog.Info("journal import complete",
		"read", result.Read,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"invalid", result.Invalid,
		"elapsed", result.Elapsed,
	)
	return result, nil
}

func readLegacy(path string) ([]models.JournalEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read legacy journal: %w", err)
	}
	var entries []models.JournalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", journal.ErrStoreCorrupt, path, err)
	}
	return entries, nil
}

// normalise maps the entry's label onto the seven labels and checks the
// remaining fields. IDs are kept as-is; legacy entries have none.
func normalise(e models.JournalEntry) (models.JournalEntry, bool) {
	label, ok := models.NormalizeLabel(string(e.Emotion))
	if !ok {
		return e, false
	}
	if math.IsNaN(e.Confidence) || e.Confidence < 0 || e.Confidence > 1 {
		return e, false
	}
	if _, err := e.Time(); err != nil {
		return e, false
	}
	e.Emotion = label
	return e, true
}
