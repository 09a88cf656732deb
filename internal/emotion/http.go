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

package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"

	"github.com/moodboard/core/internal/provider"
)

const jpegQuality = 90

// HTTPTextModel calls a hosted text classification endpoint in the Hugging
// Face inference format.
type HTTPTextModel struct {
	httpClient *http.Client
	url        string
	token      string
}

// NewHTTPTextModel creates a text model client. token may be empty for
// endpoints that need no authentication.
func NewHTTPTextModel(httpClient *http.Client, url, token string) *HTTPTextModel {
	if httpClient == nil {
		httpClient = provider.NewHTTPClient(0)
	}
	return &HTTPTextModel{httpClient: httpClient, url: url, token: token}
}

type textRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters textParameters `json:"parameters"`
}

// TopK is always sent as null so every label's score comes back.
type textParameters struct {
	TopK *int `json:"top_k"`
}

// Predict returns every label score for text.
func (m *HTTPTextModel) Predict(ctx context.Context, text string) ([]LabelScore, error) {
	body, err := json.Marshal(textRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("marshal text request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	var raw json.RawMessage
	if err := provider.DoJSON(m.httpClient, req, &raw); err != nil {
		return nil, err
	}
	return parseTextScores(raw)
}

// parseTextScores accepts both the batched [[...]] and flat [...] shapes.
func parseTextScores(raw json.RawMessage) ([]LabelScore, error) {
	var batched [][]LabelScore
	if err := json.Unmarshal(raw, &batched); err == nil {
		if len(batched) == 0 {
			return nil, nil
		}
		return batched[0], nil
	}

	var flat []LabelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("%w: unexpected text model response: %w", provider.ErrDecode, err)
	}
	return flat, nil
}

// HTTPFaceModel posts JPEG frames to a facial expression endpoint that
// answers with FER-style face records.
type HTTPFaceModel struct {
	httpClient *http.Client
	url        string
	token      string
}

// NewHTTPFaceModel creates a face model client.
func NewHTTPFaceModel(httpClient *http.Client, url, token string) *HTTPFaceModel {
	if httpClient == nil {
		httpClient = provider.NewHTTPClient(0)
	}
	return &HTTPFaceModel{httpClient: httpClient, url: url, token: token}
}

// Detect returns the faces found in frame, possibly none.
func (m *HTTPFaceModel) Detect(ctx context.Context, frame image.Image) ([]Face, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")
	req.Header.Set("Accept", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	var faces []Face
	if err := provider.DoJSON(m.httpClient, req, &faces); err != nil {
		return nil, err
	}
	return faces, nil
}
