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

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/moodboard/core/internal/emotion"
	"github.com/moodboard/core/internal/journal"
	"github.com/moodboard/core/internal/models"
)

// mockClassifier returns a fixed result for every input and records the
// input it saw.
type mockClassifier struct {
	result *models.EmotionResult
	err    error
	last   emotion.Input
}

func (m *mockClassifier) Classify(_ context.Context, in emotion.Input) (*models.EmotionResult, error) {
	m.last = in
	return m.result, m.err
}

// mockRecommender returns a one-track bundle named after the label.
type mockRecommender struct {
	last models.Label
}

func (m *mockRecommender) Aggregate(_ context.Context, l models.Label) models.Bundle {
	m.last = l
	return models.NewBundle([]models.Track{{Name: "for " + string(l)}}, nil, nil)
}

func newTestRouter(t *testing.T, c *mockClassifier, rec *mockRecommender) (http.Handler, *journal.Journal) {
	t.Helper()
	store, err := journal.NewFileStore(filepath.Join(t.TempDir(), "journal.json"))
	if err != nil {
		t.Fatal(err)
	}
	j := journal.New(store)
	return NewRouter(NewHandler(c, rec, j, nil)), j
}

func do(t *testing.T, h http.Handler, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func happyResult() *models.EmotionResult {
	return &models.EmotionResult{Label: models.Happy, Confidence: 0.93}
}

func TestClassifyText(t *testing.T) {
	c := &mockClassifier{result: happyResult()}
	h, _ := newTestRouter(t, c, &mockRecommender{})

	rr := do(t, h, http.MethodPost, "/v1/classify/text", "application/json", []byte(`{"text":"great day"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}

	var resp classifyResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if !resp.Detected || resp.Result.Label != models.Happy {
		t.Errorf("response = %+v", resp)
	}
	if in, ok := c.last.(emotion.TextInput); !ok || in.Text != "great day" {
		t.Errorf("classifier input = %#v", c.last)
	}
}

// TestClassifyText_ModelFailure verifies a model failure is visible as a 502
// rather than an empty result.
func TestClassifyText_ModelFailure(t *testing.T) {
	c := &mockClassifier{err: errors.Join(emotion.ErrModelInvocation, errors.New("timeout"))}
	h, _ := newTestRouter(t, c, &mockRecommender{})

	rr := do(t, h, http.MethodPost, "/v1/classify/text", "application/json", []byte(`{"text":"hi"}`))
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "error") {
		t.Errorf("body = %s", rr.Body)
	}
}

func TestClassifyText_BadBody(t *testing.T) {
	h, _ := newTestRouter(t, &mockClassifier{}, &mockRecommender{})

	rr := do(t, h, http.MethodPost, "/v1/classify/text", "application/json", []byte(`{not json`))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}

	long := strings.Repeat("a", 5001)
	rr = do(t, h, http.MethodPost, "/v1/classify/text", "application/json", []byte(`{"text":"`+long+`"}`))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("oversized text status = %d, want 400", rr.Code)
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestClassifyImage_NoFace(t *testing.T) {
	c := &mockClassifier{}
	h, _ := newTestRouter(t, c, &mockRecommender{})

	rr := do(t, h, http.MethodPost, "/v1/classify/image", "image/png", pngBytes(t))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"detected":false}` {
		t.Errorf("body = %s", got)
	}
	if _, ok := c.last.(emotion.ImageInput); !ok {
		t.Errorf("classifier input = %T", c.last)
	}
}

func TestClassifyImage_Multipart(t *testing.T) {
	c := &mockClassifier{result: &models.EmotionResult{Label: models.Surprise, Confidence: 0.7}}
	h, _ := newTestRouter(t, c, &mockRecommender{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("image", "frame.png")
	part.Write(pngBytes(t))
	mw.Close()

	rr := do(t, h, http.MethodPost, "/v1/classify/image", mw.FormDataContentType(), body.Bytes())
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	var resp classifyResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if !resp.Detected || resp.Result.Label != models.Surprise {
		t.Errorf("response = %+v", resp)
	}
}

func TestClassifyImage_NotAnImage(t *testing.T) {
	h, _ := newTestRouter(t, &mockClassifier{}, &mockRecommender{})

	rr := do(t, h, http.MethodPost, "/v1/classify/image", "image/png", []byte("definitely not a png"))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestDetect_SavesToJournal(t *testing.T) {
	rec := &mockRecommender{}
	h, j := newTestRouter(t, &mockClassifier{result: happyResult()}, rec)

	rr := do(t, h, http.MethodPost, "/v1/detect", "application/json", []byte(`{"text":"I'm feeling really happy and excited today!","save":true}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}

	var resp detectResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if !resp.Detected || resp.Recommendations == nil || resp.Recommendations.Tracks[0].Name != "for happy" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Entry == nil || resp.Entry.ID == "" {
		t.Fatalf("entry = %+v", resp.Entry)
	}
	if rec.last != models.Happy {
		t.Errorf("recommender label = %s", rec.last)
	}

	entries := j.LoadEntries(context.Background())
	if len(entries) != 1 || entries[0].Recommendations == nil {
		t.Errorf("journal = %+v", entries)
	}
}

func TestRecommendations_UnknownEmotion(t *testing.T) {
	rec := &mockRecommender{}
	h, _ := newTestRouter(t, &mockClassifier{}, rec)

	rr := do(t, h, http.MethodGet, "/v1/recommendations/bewildered", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if rec.last != models.Neutral {
		t.Errorf("label = %s, want neutral", rec.last)
	}
	var b models.Bundle
	json.NewDecoder(rr.Body).Decode(&b)
	if b.Movies == nil || b.Quotes == nil {
		t.Errorf("bundle lists must be present: %+v", b)
	}
}

func TestJournalEndpoints(t *testing.T) {
	h, _ := newTestRouter(t, &mockClassifier{}, &mockRecommender{})

	// Empty journal.
	if rr := do(t, h, http.MethodGet, "/v1/journal/visualization", "", nil); rr.Code != http.StatusNoContent {
		t.Errorf("empty visualization status = %d, want 204", rr.Code)
	}
	rr := do(t, h, http.MethodGet, "/v1/journal/trends", "", nil)
	if got := strings.TrimSpace(rr.Body.String()); got != `{"frequencies":{},"timeline":null}` {
		t.Errorf("empty trends = %s", got)
	}

	for _, body := range []string{
		`{"emotion":"happy","confidence":0.9,"input_text":"sunny"}`,
		`{"emotion":"sad","confidence":0.4}`,
		`{"emotion":"happy","confidence":0.8}`,
	} {
		rr := do(t, h, http.MethodPost, "/v1/journal", "application/json", []byte(body))
		if rr.Code != http.StatusCreated {
			t.Fatalf("POST %s status = %d, body = %s", body, rr.Code, rr.Body)
		}
	}

	rr = do(t, h, http.MethodGet, "/v1/journal", "", nil)
	var entries []models.JournalEntry
	json.NewDecoder(rr.Body).Decode(&entries)
	if len(entries) != 3 || entries[1].Emotion != models.Sad {
		t.Errorf("entries = %+v", entries)
	}

	rr = do(t, h, http.MethodGet, "/v1/journal/trends", "", nil)
	var trends journal.Trends
	json.NewDecoder(rr.Body).Decode(&trends)
	if trends.Frequencies[models.Happy] != 2 || trends.Frequencies[models.Sad] != 1 {
		t.Errorf("frequencies = %v", trends.Frequencies)
	}

	rr = do(t, h, http.MethodGet, "/v1/journal/visualization", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("visualization status = %d", rr.Code)
	}
	var v journal.Visualization
	json.NewDecoder(rr.Body).Decode(&v)
	if v.Distribution.Title != "Emotion Distribution" || len(v.Timeline.Series) != 2 {
		t.Errorf("visualization = %+v", v)
	}
}

func TestAddJournalEntry_Validation(t *testing.T) {
	h, _ := newTestRouter(t, &mockClassifier{}, &mockRecommender{})

	for _, body := range []string{
		`{"emotion":"happy"}`,
		`{"emotion":"happy","confidence":2}`,
		`{"confidence":0.5}`,
		`{"emotion":"ennui","confidence":0.5}`,
	} {
		if rr := do(t, h, http.MethodPost, "/v1/journal", "application/json", []byte(body)); rr.Code != http.StatusBadRequest {
			t.Errorf("POST %s status = %d, want 400", body, rr.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	store, _ := journal.NewFileStore(filepath.Join(t.TempDir(), "j.json"))
	checks := map[string]HealthCheck{
		"journal": func(context.Context) error { return nil },
	}
	h := NewRouter(NewHandler(&mockClassifier{}, &mockRecommender{}, journal.New(store), checks))

	if rr := do(t, h, http.MethodGet, "/health", "", nil); rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}

	checks["redis"] = func(context.Context) error { return errors.New("connection refused") }
	rr := do(t, h, http.MethodGet, "/health", "", nil)
	if rr.Code != http.StatusServiceUnavailable || !strings.Contains(rr.Body.String(), "redis") {
		t.Errorf("status = %d, body = %s", rr.Code, rr.Body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, &mockClassifier{}, &mockRecommender{})
	do(t, h, http.MethodGet, "/v1/journal", "", nil)

	rr := do(t, h, http.MethodGet, "/metrics", "", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "moodboard_http_requests_total") {
		t.Errorf("metrics status = %d", rr.Code)
	}
}

func TestServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ready, done, err := Serve(ctx, 0, http.NotFoundHandler())
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}
	<-ready
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}
