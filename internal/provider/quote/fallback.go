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

package quote

import (
	"slices"

	"github.com/moodboard/core/internal/models"
)

var fallbacks = map[models.Label][]models.Quote{
	models.Happy: {
		{Content: "Happiness is not something ready made. It comes from your own actions.", Author: "Dalai Lama", Tags: []string{"happiness"}},
	},
	models.Sad: {
		{Content: "Even the darkest night will end and the sun will rise.", Author: "Victor Hugo", Tags: []string{"hope"}},
	},
	models.Angry: {
		{Content: "For every minute you are angry you lose sixty seconds of happiness.", Author: "Ralph Waldo Emerson", Tags: []string{"peace"}},
	},
	models.Fear: {
		{Content: "Fear is only as deep as the mind allows.", Author: "Japanese Proverb", Tags: []string{"courage"}},
	},
	models.Surprise: {
		{Content: "Life is full of surprises and serendipity. Being open to unexpected turns in the road is an important part of success.", Author: "Condoleezza Rice", Tags: []string{"change"}},
	},
	models.Disgust: {
		{Content: "The only way to make sense out of change is to plunge into it, move with it, and join the dance.", Author: "Alan Watts", Tags: []string{"change"}},
	},
	models.Neutral: {
		{Content: "Life is really simple, but we insist on making it complicated.", Author: "Confucius", Tags: []string{"wisdom"}},
	},
}

// Fallback returns the static quotes for label. Unknown labels get the
// neutral set. The result is a copy.
func Fallback(label models.Label) []models.Quote {
	l, _ := models.NormalizeLabel(string(label))
	qs, ok := fallbacks[l]
	if !ok {
		qs = fallbacks[models.Neutral]
	}

	out := make([]models.Quote, len(qs))
	for i, q := range qs {
		q.Tags = slices.Clone(q.Tags)
		out[i] = q
	}
	return out
}
