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

// Package api exposes the MoodBoard core over HTTP: classification,
// recommendations and the mood journal, plus health and metrics endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/moodboard/core/internal/emotion"
	"github.com/moodboard/core/internal/journal"
	"github.com/moodboard/core/internal/models"
)

// maxUploadBytes caps image uploads.
const maxUploadBytes = 10 << 20

// maxJSONBytes caps JSON request bodies.
const maxJSONBytes = 1 << 20

// Classifier turns user input into an emotion.
type Classifier interface {
	Classify(ctx context.Context, input emotion.Input) (*models.EmotionResult, error)
}

// Recommender builds the recommendation bundle for an emotion.
type Recommender interface {
	Aggregate(ctx context.Context, label models.Label) models.Bundle
}

// Journal is the mood journal service.
type Journal interface {
	AddEntry(ctx context.Context, emotion models.Label, confidence float64, inputText *string, recs *models.Bundle) (models.JournalEntry, error)
	LoadEntries(ctx context.Context) []models.JournalEntry
	ComputeTrends(ctx context.Context) journal.Trends
	BuildVisualization(ctx context.Context) *journal.Visualization
}

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// Handler serves the MoodBoard API.
type Handler struct {
	classifier  Classifier
	recommender Recommender
	journal     Journal
	checks      map[string]HealthCheck
	validate    *validator.Validate
}

// NewHandler creates an API handler. checks are reported by /health keyed
// by component name.
func NewHandler(classifier Classifier, recommender Recommender, j Journal, checks map[string]HealthCheck) *Handler {
	return &Handler{
		classifier:  classifier,
		recommender: recommender,
		journal:     j,
		checks:      checks,
		validate:    validator.New(),
	}
}

type textRequest struct {
	Text string `json:"text" validate:"max=5000"`
}

type detectRequest struct {
	Text string `json:"text" validate:"max=5000"`
	Save bool   `json:"save"`
}

type journalRequest struct {
	Emotion         string         `json:"emotion" validate:"required"`
	Confidence      *float64       `json:"confidence" validate:"required,gte=0,lte=1"`
	InputText       *string        `json:"input_text" validate:"omitempty,max=5000"`
	Recommendations *models.Bundle `json:"recommendations"`
}

type classifyResponse struct {
	Detected bool                  `json:"detected"`
	Result   *models.EmotionResult `json:"result,omitempty"`
}

type detectResponse struct {
	Detected        bool                  `json:"detected"`
	Result          *models.EmotionResult `json:"result,omitempty"`
	Recommendations *models.Bundle        `json:"recommendations,omitempty"`
	Entry           *models.JournalEntry  `json:"entry,omitempty"`
}

// ClassifyText handles POST /v1/classify/text.
func (h *Handler) ClassifyText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.classifier.Classify(r.Context(), emotion.TextInput{Text: req.Text})
	if err != nil {
		respondClassifyError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, classifyResponse{Detected: result != nil, Result: result})
}

// ClassifyImage handles POST /v1/classify/image. The frame is either the raw
// body or the multipart field "image".
func (h *Handler) ClassifyImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	body, closeBody, err := imageBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer closeBody()

	input, err := emotion.DecodeImage(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.classifier.Classify(r.Context(), input)
	if err != nil {
		respondClassifyError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, classifyResponse{Detected: result != nil, Result: result})
}

// Detect handles POST /v1/detect: classify text, then recommend, and
// optionally save the session to the journal.
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.classifier.Classify(r.Context(), emotion.TextInput{Text: req.Text})
	if err != nil {
		respondClassifyError(w, err)
		return
	}
	if result == nil {
		respondJSON(w, http.StatusOK, detectResponse{Detected: false})
		return
	}

	bundle := h.recommender.Aggregate(r.Context(), result.Label)
	resp := detectResponse{Detected: true, Result: result, Recommendations: &bundle}

	if req.Save {
		var text *string
		if req.Text != "" {
			text = &req.Text
		}
		entry, err := h.journal.AddEntry(r.Context(), result.Label, result.Confidence, text, &bundle)
		if err != nil {
			slog.Error("failed to save detection to journal", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to save journal entry")
			return
		}
		resp.Entry = &entry
	}

	respondJSON(w, http.StatusOK, resp)
}

// Recommendations handles GET /v1/recommendations/{emotion}. Unknown
// emotions get the neutral recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	label, _ := models.NormalizeLabel(chi.URLParam(r, "emotion"))
	respondJSON(w, http.StatusOK, h.recommender.Aggregate(r.Context(), label))
}

// AddJournalEntry handles POST /v1/journal.
func (h *Handler) AddJournalEntry(w http.ResponseWriter, r *http.Request) {
	var req journalRequest
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.journal.AddEntry(r.Context(), models.Label(req.Emotion), *req.Confidence, req.InputText, req.Recommendations)
	if errors.Is(err, journal.ErrInvalidEntry) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to add journal entry", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save journal entry")
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// ListJournal handles GET /v1/journal.
func (h *Handler) ListJournal(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.journal.LoadEntries(r.Context()))
}

// JournalTrends handles GET /v1/journal/trends.
func (h *Handler) JournalTrends(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.journal.ComputeTrends(r.Context()))
}

// JournalVisualization handles GET /v1/journal/visualization.
func (h *Handler) JournalVisualization(w http.ResponseWriter, r *http.Request) {
	v := h.journal.BuildVisualization(r.Context())
	if v == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	failing := map[string]string{}
	for name, check := range h.checks {
		if err := check(r.Context()); err != nil {
			failing[name] = err.Error()
		}
	}
	if len(failing) > 0 {
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unhealthy", "failing": failing})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// decode reads and validates a JSON body, answering 400 itself on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func imageBody(r *http.Request) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		return r.Body, func() {}, nil
	}

	f, _, err := r.FormFile("image")
	if err != nil {
		return nil, nil, errors.New("missing multipart field \"image\"")
	}
	return f, func() { f.Close() }, nil
}

func respondClassifyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, emotion.ErrModelInvocation):
		slog.Error("emotion model failed", "error", err)
		respondError(w, http.StatusBadGateway, "emotion model unavailable")
	case errors.Is(err, emotion.ErrUnsupportedInput):
		respondError(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, emotion.ErrInvalidImage):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("classification failed", "error", err)
		respondError(w, http.StatusInternalServerError, "classification failed")
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
