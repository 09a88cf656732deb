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

// Package models defines the data structures shared across the mood service:
// emotion labels and detection results, per-domain content items, the
// recommendation bundle, and journal entries.
package models

import "strings"

// Label is one of the seven emotions the service understands.
type Label string

const (
	Happy    Label = "happy"
	Sad      Label = "sad"
	Angry    Label = "angry"
	Fear     Label = "fear"
	Surprise Label = "surprise"
	Disgust  Label = "disgust"
	Neutral  Label = "neutral"
)

// AllLabels lists every label in canonical order.
var AllLabels = []Label{Happy, Sad, Angry, Fear, Surprise, Disgust, Neutral}

// synonyms maps model vocabularies onto the canonical labels. Text models
// such as distilbert-base-emotion emit "joy"/"sadness"/"anger"/"love",
// face models emit the canonical names directly.
var synonyms = map[string]Label{
	"happy":     Happy,
	"happiness": Happy,
	"joy":       Happy,
	"love":      Happy,
	"sad":       Sad,
	"sadness":   Sad,
	"angry":     Angry,
	"anger":     Angry,
	"fear":      Fear,
	"scared":    Fear,
	"afraid":    Fear,
	"surprise":  Surprise,
	"surprised": Surprise,
	"disgust":   Disgust,
	"disgusted": Disgust,
	"neutral":   Neutral,
	"calm":      Neutral,
}

// NormalizeLabel maps a raw label onto the canonical vocabulary. The second
// return value is false when the label is not recognised, in which case
// Neutral is returned.
func NormalizeLabel(raw string) (Label, bool) {
	l, ok := synonyms[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return Neutral, false
	}
	return l, true
}

// Valid reports whether l is one of the seven canonical labels.
func (l Label) Valid() bool {
	for _, v := range AllLabels {
		if l == v {
			return true
		}
	}
	return false
}

func (l Label) String() string { return string(l) }

// EmotionResult is the normalised output of a single detection request.
type EmotionResult struct {
	Label           Label             `json:"label"`
	Confidence      float64           `json:"confidence"`
	SecondaryScores map[Label]float64 `json:"secondary_scores,omitempty"`
}
