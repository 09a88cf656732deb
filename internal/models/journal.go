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

import (
	"fmt"
	"time"
)

// TimestampLayout is the layout used when stamping new journal entries.
const TimestampLayout = time.RFC3339Nano

// legacyTimestampLayouts are accepted on read. Older journals were written
// with naive ISO-8601 timestamps that carry no offset.
var legacyTimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
}

// JournalEntry is one saved detection session. Entries are immutable once
// written. ID is empty for entries written before IDs were assigned.
type JournalEntry struct {
	ID              string  `json:"id,omitempty"`
	Timestamp       string  `json:"timestamp"`
	Emotion         Label   `json:"emotion"`
	Confidence      float64 `json:"confidence"`
	InputText       *string `json:"input_text"`
	Recommendations *Bundle `json:"recommendations"`
}

// Time parses the entry timestamp.
func (e JournalEntry) Time() (time.Time, error) {
	return ParseTimestamp(e.Timestamp)
}

// ParseTimestamp parses an ISO-8601 journal timestamp, with or without offset.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range legacyTimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
