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

package recommend

import (
	"context"
	"log/slog"

	"github.com/moodboard/core/internal/cache"
	"github.com/moodboard/core/internal/metrics"
	"github.com/moodboard/core/internal/models"
	"github.com/moodboard/core/internal/provider"
)

// Fetcher is a provider client that reports whether its call succeeded.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, label models.Label, limit int) provider.Outcome[T]
}

// Cached serves a Fetcher's results from the cache when present. Only
// successful non-empty results are stored, so failures are retried on the
// next call.
type Cached[T any] struct {
	next   Fetcher[T]
	cache  *cache.Cache
	domain string
}

// NewCached wraps next. A nil cache disables caching.
func NewCached[T any](domain string, next Fetcher[T], c *cache.Cache) *Cached[T] {
	return &Cached[T]{next: next, cache: c, domain: domain}
}

// Recommendations implements Source.
func (c *Cached[T]) Recommendations(ctx context.Context, label models.Label, limit int) []T {
	if c.cache == nil {
		return c.fetch(ctx, label, limit)
	}

	key := cache.Key(c.domain, string(label), limit)
	var items []T
	hit, err := c.cache.Get(ctx, key, &items)
	if err != nil {
		slog.Warn("cache read failed", "domain", c.domain, "error", err)
	}
	if hit {
		metrics.CacheHits.WithLabelValues(c.domain).Inc()
		if items == nil {
			items = []T{}
		}
		return items
	}
	metrics.CacheMisses.WithLabelValues(c.domain).Inc()

	out := c.next.Fetch(ctx, label, limit)
	if out.OK() && len(out.Items) > 0 {
		if err := c.cache.Set(ctx, key, out.Items); err != nil {
			slog.Warn("cache write failed", "domain", c.domain, "error", err)
		}
	}
	return c.collapse(label, out)
}

func (c *Cached[T]) fetch(ctx context.Context, label models.Label, limit int) []T {
	return c.collapse(label, c.next.Fetch(ctx, label, limit))
}

func (c *Cached[T]) collapse(label models.Label, out provider.Outcome[T]) []T {
	if !out.OK() {
		slog.Warn("recommendations unavailable",
			"domain", c.domain,
			"emotion", label,
			"reason", provider.Reason(out.Err),
			"error", out.Err,
		)
	}
	return out.OrEmpty()
}
