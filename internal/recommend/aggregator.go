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

// Package recommend assembles the music, movie and quote recommendations for
// an emotion into a single Bundle.
package recommend

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/moodboard/core/internal/models"
)

// Source is the edge of a provider client: it never fails, returning an
// empty (or fallback) list instead.
type Source[T any] interface {
	Recommendations(ctx context.Context, label models.Label, limit int) []T
}

// Limits sets how many items each domain asks for. Zero uses the client
// default.
type Limits struct {
	Music  int
	Movies int
	Quotes int
}

// Aggregator fans out to the three providers.
type Aggregator struct {
	music  Source[models.Track]
	movies Source[models.Movie]
	quotes Source[models.Quote]
	limits Limits
}

// NewAggregator creates an Aggregator. A nil source contributes an empty
// list.
func NewAggregator(music Source[models.Track], movies Source[models.Movie], quotes Source[models.Quote], limits Limits) *Aggregator {
	return &Aggregator{music: music, movies: movies, quotes: quotes, limits: limits}
}

// Aggregate queries all providers concurrently and returns their results
// positionally. It never fails; a bundle with every list empty is valid.
func (a *Aggregator) Aggregate(ctx context.Context, label models.Label) models.Bundle {
	label, _ = models.NormalizeLabel(string(label))

	var (
		tracks []models.Track
		movies []models.Movie
		quotes []models.Quote
	)

	var g errgroup.Group
	if a.music != nil {
		g.Go(func() error {
			tracks = a.music.Recommendations(ctx, label, a.limits.Music)
			return nil
		})
	}
	if a.movies != nil {
		g.Go(func() error {
			movies = a.movies.Recommendations(ctx, label, a.limits.Movies)
			return nil
		})
	}
	if a.quotes != nil {
		g.Go(func() error {
			quotes = a.quotes.Recommendations(ctx, label, a.limits.Quotes)
			return nil
		})
	}
	_ = g.Wait()

	bundle := models.NewBundle(tracks, movies, quotes)
	slog.Debug("recommendations aggregated",
		"emotion", label,
		"tracks", len(bundle.Tracks),
		"movies", len(bundle.Movies),
		"quotes", len(bundle.Quotes),
	)
	return bundle
}
