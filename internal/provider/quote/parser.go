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

import "github.com/moodboard/core/internal/models"

// quotableQuote is one element of /quotes/random.
type quotableQuote struct {
	ID      string   `json:"_id"`
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
}

// parseQuotes keeps provider order and skips quotes with no content.
func parseQuotes(raw []quotableQuote) []models.Quote {
	quotes := make([]models.Quote, 0, len(raw))
	for _, q := range raw {
		if q.Content == "" {
			continue
		}
		tags := q.Tags
		if tags == nil {
			tags = []string{}
		}
		quotes = append(quotes, models.Quote{
			Content: q.Content,
			Author:  q.Author,
			Tags:    tags,
		})
	}
	return quotes
}
