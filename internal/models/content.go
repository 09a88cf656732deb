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

package models

import "encoding/json"

// Track is a single music recommendation. PreviewURL and AlbumImage are nil
// when the provider has no value for them.
type Track struct {
	Name        string  `json:"name"`
	Artist      string  `json:"artist"`
	PreviewURL  *string `json:"preview_url"`
	ExternalURL string  `json:"external_url"`
	AlbumImage  *string `json:"album_image"`
}

// Movie is a single movie recommendation enriched from the detail endpoint.
type Movie struct {
	Title          string   `json:"title"`
	Overview       string   `json:"overview"`
	ReleaseDate    string   `json:"release_date"`
	Rating         float64  `json:"rating"`
	PosterURL      *string  `json:"poster_url"`
	Genres         []string `json:"genres"`
	RuntimeMinutes int      `json:"runtime_minutes"`
	DetailURL      string   `json:"detail_url"`
}

// UnmarshalJSON also accepts the legacy movie keys poster_path, runtime and
// tmdb_url. Current keys win when both are present.
func (m *Movie) UnmarshalJSON(data []byte) error {
	type plain Movie
	var raw struct {
		plain
		PosterPath *string `json:"poster_path"`
		Runtime    *int    `json:"runtime"`
		TMDBURL    string  `json:"tmdb_url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Movie(raw.plain)
	if m.PosterURL == nil && raw.PosterPath != nil && *raw.PosterPath != "" {
		m.PosterURL = raw.PosterPath
	}
	if m.RuntimeMinutes == 0 && raw.Runtime != nil {
		m.RuntimeMinutes = *raw.Runtime
	}
	if m.DetailURL == "" {
		m.DetailURL = raw.TMDBURL
	}
	return nil
}

// Quote is a single quote recommendation.
type Quote struct {
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
}

// Bundle combines the recommendations for one detected emotion.
type Bundle struct {
	Tracks []Track `json:"tracks"`
	Movies []Movie `json:"movies"`
	Quotes []Quote `json:"quotes"`
}

// NewBundle assembles a bundle, replacing nil slices with empty ones so the
// JSON form always carries arrays.
func NewBundle(tracks []Track, movies []Movie, quotes []Quote) Bundle {
	if tracks == nil {
		tracks = []Track{}
	}
	if movies == nil {
		movies = []Movie{}
	}
	if quotes == nil {
		quotes = []Quote{}
	}
	return Bundle{Tracks: tracks, Movies: movies, Quotes: quotes}
}

// UnmarshalJSON also accepts journals written before the bundle was renamed,
// where tracks were stored under "music".
func (b *Bundle) UnmarshalJSON(data []byte) error {
	var raw struct {
		Tracks []Track `json:"tracks"`
		Music  []Track `json:"music"`
		Movies []Movie `json:"movies"`
		Quotes []Quote `json:"quotes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	tracks := raw.Tracks
	if tracks == nil {
		tracks = raw.Music
	}
	*b = NewBundle(tracks, raw.Movies, raw.Quotes)
	return nil
}

// Empty reports whether the bundle carries no recommendations at all.
func (b Bundle) Empty() bool {
	return len(b.Tracks) == 0 && len(b.Movies) == 0 && len(b.Quotes) == 0
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
