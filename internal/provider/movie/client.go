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

// Package movie implements the movie provider client against a TMDB-style
// API: one discover query by genre, followed by one detail query per result
// to enrich it.
package movie

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/moodboard/core/internal/mapping"
	"github.com/moodboard/core/internal/models"
	"github.com/moodboard/core/internal/provider"
)

const (
	// DefaultBaseURL is the root of the TMDB v3 API.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultImageBaseURL prefixes poster paths.
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	// DefaultSiteURL prefixes public movie pages.
	DefaultSiteURL = "https://www.themoviedb.org"
	// DefaultLimit is the number of movies requested when no limit is given.
	DefaultLimit = 5

	defaultDetailConcurrency = 4
	providerName             = "movie"
)

// Config holds the dependencies for a movie client. An empty APIKey leaves
// the client unconfigured.
type Config struct {
	APIKey            string
	BaseURL           string
	ImageBaseURL      string
	SiteURL           string
	DetailConcurrency int
	HTTPClient        *http.Client
	Guard             *provider.Guard
}

// Client fetches emotion-matched movies.
type Client struct {
	httpClient        *http.Client
	apiKey            string
	baseURL           string
	imageBaseURL      string
	siteURL           string
	detailConcurrency int
	guard             *provider.Guard
}

// NewClient creates a movie client.
func NewClient(cfg Config) *Client {
	c := &Client{
		httpClient:        cfg.HTTPClient,
		apiKey:            cfg.APIKey,
		baseURL:           orDefault(cfg.BaseURL, DefaultBaseURL),
		imageBaseURL:      orDefault(cfg.ImageBaseURL, DefaultImageBaseURL),
		siteURL:           orDefault(cfg.SiteURL, DefaultSiteURL),
		detailConcurrency: cfg.DetailConcurrency,
		guard:             cfg.Guard,
	}
	if c.httpClient == nil {
		c.httpClient = provider.NewHTTPClient(provider.DefaultTimeout)
	}
	if c.detailConcurrency <= 0 {
		c.detailConcurrency = defaultDetailConcurrency
	}
	return c
}

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Fetch queries the provider for movies matching label and reports the outcome.
func (c *Client) Fetch(ctx context.Context, label models.Label, limit int) provider.Outcome[models.Movie] {
	if c.apiKey == "" {
		provider.Record(providerName, provider.ErrNotConfigured, 0)
		return provider.Failure[models.Movie](provider.ErrNotConfigured)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	return provider.Run(ctx, c.guard, func(ctx context.Context) ([]models.Movie, error) {
		return c.fetch(ctx, label, limit)
	})
}

// Recommendations returns movies for label, or an empty list when the
// provider is unconfigured or failing.
func (c *Client) Recommendations(ctx context.Context, label models.Label, limit int) []models.Movie {
	out := c.Fetch(ctx, label, limit)
	if !out.OK() {
		slog.Warn("movie recommendations unavailable",
			"emotion", label,
			"reason", provider.Reason(out.Err),
			"error", out.Err,
		)
	}
	return out.OrEmpty()
}

func (c *Client) fetch(ctx context.Context, label models.Label, limit int) ([]models.Movie, error) {
	ids, err := c.discover(ctx, mapping.Movie(label), limit)
	if err != nil {
		return nil, err
	}

	// Details are fetched concurrently but slotted by index so the
	// provider's popularity order survives.
	slots := make([]*models.Movie, len(ids))

	var g errgroup.Group
	g.SetLimit(c.detailConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			m, err := c.detail(ctx, id)
			if err != nil {
				slog.Debug("dropping movie after failed detail lookup",
					"movie_id", id,
					"error", err,
				)
				return nil
			}
			slots[i] = m
			return nil
		})
	}
	_ = g.Wait()

	movies := make([]models.Movie, 0, len(slots))
	for _, m := range slots {
		if m != nil {
			movies = append(movies, *m)
		}
	}
	return movies, nil
}

// discover returns the ids of the first limit movies for the query.
func (c *Client) discover(ctx context.Context, q mapping.MovieQuery, limit int) ([]int, error) {
	genres := make([]string, len(q.GenreIDs))
	for i, id := range q.GenreIDs {
		genres[i] = strconv.Itoa(id)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("with_genres", strings.Join(genres, ","))
	params.Set("sort_by", "popularity.desc")
	params.Set("page", "1")

	var resp discoverResponse
	if err := provider.GetJSON(ctx, c.httpClient, c.baseURL+"/discover/movie?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("discover movies: %w", err)
	}

	ids := make([]int, 0, limit)
	for _, r := range resp.Results {
		if len(ids) == limit {
			break
		}
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func (c *Client) detail(ctx context.Context, id int) (*models.Movie, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)

	var d movieDetail
	u := fmt.Sprintf("%s/movie/%d?%s", c.baseURL, id, params.Encode())
	if err := provider.GetJSON(ctx, c.httpClient, u, nil, &d); err != nil {
		return nil, fmt.Errorf("movie detail %d: %w", id, err)
	}

	return parseDetail(d, id, c.imageBaseURL, c.siteURL)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return strings.TrimRight(v, "/")
}
