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

// Package dedup remembers which journal entries an import has already
// written, so re-running a backfill over the same file does not duplicate
// entries.
package dedup

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moodboard/core/internal/models"
)

const (
	// DefaultTTL is how long an imported fingerprint is remembered.
	DefaultTTL = 30 * 24 * time.Hour

	keyPrefix = "moodboard:imported:"
)

// Filter tracks which fingerprints have already been imported.
type Filter struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFilter creates a dedup filter backed by Redis. A non-positive ttl
// uses DefaultTTL.
func NewFilter(rdb *redis.Client, ttl time.Duration) *Filter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Filter{rdb: rdb, ttl: ttl}
}

// Fingerprint identifies an entry by timestamp, emotion and confidence.
// Legacy entries have no ID, so content is the only stable key.
func Fingerprint(e models.JournalEntry) string {
	return e.Timestamp + "|" + string(e.Emotion) + "|" + strconv.FormatFloat(e.Confidence, 'g', -1, 64)
}

// IsNew reports whether fingerprint has NOT been seen, marking it seen
// atomically (SETNX).
func (f *Filter) IsNew(ctx context.Context, fingerprint string) (bool, error) {
	set, err := f.rdb.SetNX(ctx, keyPrefix+fingerprint, 1, f.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup SETNX: %w", err)
	}
	return set, nil
}

// Forget removes fingerprint so a failed write can be retried.
func (f *Filter) Forget(ctx context.Context, fingerprint string) error {
	if err := f.rdb.Del(ctx, keyPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("dedup DEL: %w", err)
	}
	return nil
}
