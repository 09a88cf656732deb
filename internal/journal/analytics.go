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
	"cmp"
	"log/slog"
	"maps"
	"slices"

	"github.com/moodboard/core/internal/models"
)

// dayLayout keys the timeline.
const dayLayout = "2006-01-02"

// Trends summarises a journal. Timeline maps each calendar day with entries
// to that day's most frequent emotion; it is nil for an empty journal.
type Trends struct {
	Frequencies map[models.Label]int    `json:"frequencies"`
	Timeline    map[string]models.Label `json:"timeline"`
}

// ComputeTrends counts emotions and picks the modal emotion per day. Days
// are taken from each timestamp in its own offset. Ties go to the
// lexicographically smallest label.
func ComputeTrends(entries []models.JournalEntry) Trends {
	t := Trends{Frequencies: map[models.Label]int{}}
	if len(entries) == 0 {
		return t
	}

	perDay := map[string]map[models.Label]int{}
	for _, e := range entries {
		t.Frequencies[e.Emotion]++

		ts, err := e.Time()
		if err != nil {
			slog.Debug("skipping entry with unparseable timestamp in timeline",
				"entry_id", e.ID,
				"timestamp", e.Timestamp,
			)
			continue
		}
		day := ts.Format(dayLayout)
		if perDay[day] == nil {
			perDay[day] = map[models.Label]int{}
		}
		perDay[day][e.Emotion]++
	}

	if len(perDay) == 0 {
		return t
	}
	t.Timeline = make(map[string]models.Label, len(perDay))
	for day, counts := range perDay {
		t.Timeline[day] = mode(counts)
	}
	return t
}

func mode(counts map[models.Label]int) models.Label {
	var best models.Label
	bestCount := 0
	for _, l := range slices.Sorted(maps.Keys(counts)) {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best
}

// Visualization holds chart definitions for the journal in a renderer-neutral
// shape.
type Visualization struct {
	Distribution PieChart     `json:"distribution"`
	Timeline     ScatterChart `json:"timeline"`
}

// PieChart is the emotion distribution.
type PieChart struct {
	Title  string     `json:"title"`
	Slices []PieSlice `json:"slices"`
}

// PieSlice is one emotion's share of all entries.
type PieSlice struct {
	Label      models.Label `json:"label"`
	Count      int          `json:"count"`
	Proportion float64      `json:"proportion"`
}

// ScatterChart plots every entry on a time axis, one series per emotion.
type ScatterChart struct {
	Title      string          `json:"title"`
	XAxisTitle string          `json:"xaxis_title"`
	YAxisTitle string          `json:"yaxis_title"`
	Series     []ScatterSeries `json:"series"`
}

// ScatterSeries is the set of points for one emotion.
type ScatterSeries struct {
	Name models.Label   `json:"name"`
	Mode string         `json:"mode"`
	X    []string       `json:"x"`
	Y    []models.Label `json:"y"`
}

// BuildVisualization returns the distribution and timeline charts, or nil
// for an empty journal. Slices are ordered by count, largest first; series
// follow the order in which each emotion first appears.
func BuildVisualization(entries []models.JournalEntry) *Visualization {
	if len(entries) == 0 {
		return nil
	}

	counts := map[models.Label]int{}
	var order []models.Label
	series := map[models.Label]*ScatterSeries{}
	for _, e := range entries {
		if _, seen := series[e.Emotion]; !seen {
			order = append(order, e.Emotion)
			series[e.Emotion] = &ScatterSeries{Name: e.Emotion, Mode: "markers"}
		}
		counts[e.Emotion]++
		s := series[e.Emotion]
		s.X = append(s.X, e.Timestamp)
		s.Y = append(s.Y, e.Emotion)
	}

	total := float64(len(entries))
	pieSlices := make([]PieSlice, 0, len(counts))
	for label, n := range counts {
		pieSlices = append(pieSlices, PieSlice{Label: label, Count: n, Proportion: float64(n) / total})
	}
	slices.SortFunc(pieSlices, func(a, b PieSlice) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})

	scatter := make([]ScatterSeries, 0, len(order))
	for _, l := range order {
		scatter = append(scatter, *series[l])
	}

	return &Visualization{
		Distribution: PieChart{Title: "Emotion Distribution", Slices: pieSlices},
		Timeline: ScatterChart{
			Title:      "Emotion Timeline",
			XAxisTitle: "Date",
			YAxisTitle: "Emotion",
			Series:     scatter,
		},
	}
}
