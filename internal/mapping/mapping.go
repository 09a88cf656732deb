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

// Package mapping holds the static emotion → provider query tables for the
// music, movie and quote domains. Lookups never fail: any label missing from
// a table resolves to the neutral entry.
package mapping

import (
	"slices"

	"github.com/moodboard/core/internal/models"
)

// maxSeeds is how many ranked genres are sent to the music provider.
const maxSeeds = 3

// AudioHints are target audio features for the music provider. Nil fields
// are not sent.
type AudioHints struct {
	TargetValence *float64
	TargetEnergy  *float64
	MinTempo      *float64
	MaxTempo      *float64
}

// MusicQuery is the music provider query for one emotion.
type MusicQuery struct {
	Genres []string // ranked by relevance
	Hints  AudioHints
}

// Seeds returns the top-ranked genres used as provider seed values.
func (q MusicQuery) Seeds() []string {
	n := min(len(q.Genres), maxSeeds)
	return slices.Clone(q.Genres[:n])
}

// MovieQuery is the movie provider query for one emotion.
type MovieQuery struct {
	GenreIDs []int
	Keywords []string
}

// QuoteQuery is the quote provider query for one emotion.
type QuoteQuery struct {
	Tags []string
}

func f(v float64) *float64 { return &v }

// clone copies h so the pointed-at values are not shared with the table.
func (h AudioHints) clone() AudioHints {
	return AudioHints{
		TargetValence: clonePtr(h.TargetValence),
		TargetEnergy:  clonePtr(h.TargetEnergy),
		MinTempo:      clonePtr(h.MinTempo),
		MaxTempo:      clonePtr(h.MaxTempo),
	}
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return f(*p)
}

// Valence/energy/tempo follow arousal: happy and surprise run bright and
// fast, sad and fear run dark with a tempo ceiling, angry runs hot with a
// tempo floor.
var (
	brightHints = AudioHints{TargetValence: f(0.8), TargetEnergy: f(0.8), MinTempo: f(120)}
	darkHints   = AudioHints{TargetValence: f(0.3), TargetEnergy: f(0.3), MaxTempo: f(100)}
	hotHints    = AudioHints{TargetValence: f(0.4), TargetEnergy: f(0.9), MinTempo: f(130)}
)

var musicTable = map[models.Label]MusicQuery{
	models.Happy:    {Genres: []string{"pop", "dance", "happy"}, Hints: brightHints},
	models.Sad:      {Genres: []string{"sad", "acoustic", "piano"}, Hints: darkHints},
	models.Angry:    {Genres: []string{"rock", "metal", "intense"}, Hints: hotHints},
	models.Fear:     {Genres: []string{"ambient", "classical", "calm"}, Hints: darkHints},
	models.Surprise: {Genres: []string{"electronic", "experimental"}, Hints: brightHints},
	models.Disgust:  {Genres: []string{"punk", "grunge", "metal"}},
	models.Neutral:  {Genres: []string{"indie", "alternative", "folk"}},
}

// TMDB genre ids: 35 Comedy, 10751 Family, 18 Drama, 10749 Romance,
// 28 Action, 12 Adventure, 27 Horror, 53 Thriller, 878 Science Fiction,
// 14 Fantasy, 99 Documentary.
var movieTable = map[models.Label]MovieQuery{
	models.Happy:    {GenreIDs: []int{35, 10751}, Keywords: []string{"feel-good", "uplifting", "comedy"}},
	models.Sad:      {GenreIDs: []int{18, 10749}, Keywords: []string{"emotional", "touching", "heartwarming"}},
	models.Angry:    {GenreIDs: []int{28, 12}, Keywords: []string{"revenge", "justice", "triumph"}},
	models.Fear:     {GenreIDs: []int{27, 53}, Keywords: []string{"suspense", "supernatural", "mystery"}},
	models.Surprise: {GenreIDs: []int{878, 14}, Keywords: []string{"plot-twist", "mind-bending", "unexpected"}},
	models.Disgust:  {GenreIDs: []int{27, 53}, Keywords: []string{"disturbing", "controversial", "dark"}},
	models.Neutral:  {GenreIDs: []int{18, 99}, Keywords: []string{"thought-provoking", "inspiring", "meaningful"}},
}

var quoteTable = map[models.Label]QuoteQuery{
	models.Happy:    {Tags: []string{"happiness", "joy", "inspirational", "success"}},
	models.Sad:      {Tags: []string{"hope", "courage", "perseverance", "strength"}},
	models.Angry:    {Tags: []string{"peace", "calm", "wisdom", "patience"}},
	models.Fear:     {Tags: []string{"courage", "confidence", "faith", "strength"}},
	models.Surprise: {Tags: []string{"wisdom", "change", "philosophy"}},
	models.Disgust:  {Tags: []string{"change", "hope", "wisdom"}},
	models.Neutral:  {Tags: []string{"wisdom", "life", "philosophy"}},
}

// Music resolves the music query for label.
func Music(label models.Label) MusicQuery {
	q := lookup(musicTable, label)
	return MusicQuery{Genres: slices.Clone(q.Genres), Hints: q.Hints.clone()}
}

// Movie resolves the movie query for label.
func Movie(label models.Label) MovieQuery {
	q := lookup(movieTable, label)
	return MovieQuery{GenreIDs: slices.Clone(q.GenreIDs), Keywords: slices.Clone(q.Keywords)}
}

// Quote resolves the quote query for label.
func Quote(label models.Label) QuoteQuery {
	q := lookup(quoteTable, label)
	return QuoteQuery{Tags: slices.Clone(q.Tags)}
}

// lookup normalises label (so synonyms like "joy" hit the right row) and
// falls back to the neutral entry.
func lookup[T any](table map[models.Label]T, label models.Label) T {
	norm, _ := models.NormalizeLabel(string(label))
	if v, ok := table[norm]; ok {
		return v
	}
	return table[models.Neutral]
}
