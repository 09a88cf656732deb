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

package movie

import (
	"fmt"

	"github.com/moodboard/core/internal/models"
	"github.com/moodboard/core/internal/provider"
)

// discoverResponse is a page of /discover/movie.
type discoverResponse struct {
	Results []struct {
		ID int `json:"id"`
	} `json:"results"`
}

// movieDetail mirrors the subset of /movie/{id} we read.
type movieDetail struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  *string `json:"poster_path"`
	Runtime     *int    `json:"runtime"`
	Genres      []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// parseDetail validates a detail payload and maps it onto a Movie.
func parseDetail(d movieDetail, id int, imageBaseURL, siteURL string) (*models.Movie, error) {
	if d.Title == "" {
		return nil, fmt.Errorf("%w: movie %d has no title", provider.ErrDecode, id)
	}

	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}

	m := &models.Movie{
		Title:       d.Title,
		Overview:    d.Overview,
		ReleaseDate: d.ReleaseDate,
		Rating:      min(max(d.VoteAverage, 0), 10),
		Genres:      genres,
		DetailURL:   fmt.Sprintf("%s/movie/%d", siteURL, id),
	}
	if d.Runtime != nil {
		m.RuntimeMinutes = *d.Runtime
	}
	if d.PosterPath != nil && *d.PosterPath != "" {
		m.PosterURL = models.StringPtr(imageBaseURL + *d.PosterPath)
	}
	return m, nil
}
