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

// Package emotion turns raw user input into a normalised EmotionResult.
// Text goes to a sentence classification model and images to a facial
// expression model; both return per-label scores that are folded onto the
// seven labels the rest of the system understands.
package emotion

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/moodboard/core/internal/metrics"
	"github.com/moodboard/core/internal/models"
)

// LabelScore is one raw (label, score) pair produced by a model.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Face is one detected face with its expression scores.
type Face struct {
	Box      [4]int             `json:"box"`
	Emotions map[string]float64 `json:"emotions"`
}

// TextModel scores text against the model's emotion vocabulary.
type TextModel interface {
	Predict(ctx context.Context, text string) ([]LabelScore, error)
}

// FaceModel finds faces in a frame and scores their expressions.
type FaceModel interface {
	Detect(ctx context.Context, frame image.Image) ([]Face, error)
}

// Input is either a TextInput or an ImageInput.
type Input interface {
	kind() string
}

// TextInput is free text typed by the user.
type TextInput struct {
	Text string
}

// ImageInput is a single decoded camera frame.
type ImageInput struct {
	Frame image.Image
}

func (TextInput) kind() string  { return "text" }
func (ImageInput) kind() string { return "image" }

// Classifier dispatches inputs to the configured models. Either model may be
// nil, in which case inputs of that kind fail with ErrUnsupportedInput.
type Classifier struct {
	text TextModel
	face FaceModel
}

// NewClassifier creates a Classifier over already-initialised models.
func NewClassifier(text TextModel, face FaceModel) *Classifier {
	return &Classifier{text: text, face: face}
}

// Classify returns the dominant emotion for input. For images with no
// detectable face it returns nil, nil.
func (c *Classifier) Classify(ctx context.Context, input Input) (*models.EmotionResult, error) {
	var (
		result *models.EmotionResult
		err    error
	)
	switch in := input.(type) {
	case TextInput:
		result, err = c.classifyText(ctx, in.Text)
	case ImageInput:
		result, err = c.classifyImage(ctx, in.Frame)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedInput, input)
	}

	if err != nil {
		metrics.ClassificationErrors.WithLabelValues(input.kind()).Inc()
		return nil, err
	}
	if result != nil {
		metrics.Classifications.WithLabelValues(input.kind(), string(result.Label)).Inc()
	}
	return result, nil
}

func (c *Classifier) classifyText(ctx context.Context, text string) (*models.EmotionResult, error) {
	if strings.TrimSpace(text) == "" {
		return neutralResult(), nil
	}
	if c.text == nil {
		return nil, fmt.Errorf("%w: no text model configured", ErrUnsupportedInput)
	}

	scores, err := c.text.Predict(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: text model: %w", ErrModelInvocation, err)
	}
	return fromScores(scores), nil
}

func (c *Classifier) classifyImage(ctx context.Context, frame image.Image) (*models.EmotionResult, error) {
	if c.face == nil {
		return nil, fmt.Errorf("%w: no face model configured", ErrUnsupportedInput)
	}
	if frame == nil {
		return nil, fmt.Errorf("%w: nil frame", ErrInvalidImage)
	}

	faces, err := c.face.Detect(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("%w: face model: %w", ErrModelInvocation, err)
	}
	if len(faces) == 0 {
		return nil, nil
	}

	// Single user: only the first face counts.
	return fromScores(faceScores(faces[0])), nil
}

// fromScores folds raw model scores onto the seven labels. The best score
// per label is kept; the highest overall wins, earlier entries winning ties.
func fromScores(scores []LabelScore) *models.EmotionResult {
	if len(scores) == 0 {
		return neutralResult()
	}

	secondary := make(map[models.Label]float64, len(scores))
	best := models.Neutral
	bestScore := -1.0

	for _, s := range scores {
		label, ok := models.NormalizeLabel(s.Label)
		if !ok {
			slog.Warn("unrecognised model label folded into neutral", "label", s.Label)
		}
		score := clamp(s.Score)
		if prev, seen := secondary[label]; !seen || score > prev {
			secondary[label] = score
		}
		if score > bestScore {
			best, bestScore = label, score
		}
	}

	return &models.EmotionResult{
		Label:           best,
		Confidence:      bestScore,
		SecondaryScores: secondary,
	}
}

// faceScores orders a face's emotion map by the canonical label order so
// tie-breaking does not depend on map iteration.
func faceScores(f Face) []LabelScore {
	scores := make([]LabelScore, 0, len(f.Emotions))
	seen := make(map[string]bool, len(f.Emotions))
	for _, l := range models.AllLabels {
		if v, ok := f.Emotions[string(l)]; ok {
			scores = append(scores, LabelScore{Label: string(l), Score: v})
			seen[string(l)] = true
		}
	}
	for _, k := range slices.Sorted(maps.Keys(f.Emotions)) {
		if !seen[k] {
			scores = append(scores, LabelScore{Label: k, Score: f.Emotions[k]})
		}
	}
	return scores
}

func neutralResult() *models.EmotionResult {
	return &models.EmotionResult{Label: models.Neutral, Confidence: 0}
}

// clamp bounds v to [0,1]; NaN maps to 0.
func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 1)
}
