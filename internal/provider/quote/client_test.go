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
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/moodboard/core/internal/models"
	"github.com/moodboard/core/internal/provider"
)

func firstTag(tags []string) string { return tags[0] }

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	return NewClient(Config{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Picker:     firstTag,
	})
}

func TestFetch_ParsesQuotes(t *testing.T) {
	var query atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quotes/random" {
			http.NotFound(w, r)
			return
		}
		query.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"_id": "a", "content": "Keep going.", "author": "Anon", "tags": ["hope"]},
			{"_id": "b", "content": "", "author": "Nobody", "tags": []},
			{"_id": "c", "content": "Rise.", "author": "Someone", "tags": null}
		]`))
	})

	out := c.Fetch(context.Background(), models.Sad, 0)
	if !out.OK() {
		t.Fatalf("unexpected failure: %v", out.Err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(out.Items))
	}
	if out.Items[0].Content != "Keep going." || out.Items[1].Author != "Someone" {
		t.Errorf("quotes = %+v", out.Items)
	}
	if out.Items[1].Tags == nil {
		t.Error("tags should be non-nil")
	}

	q := query.Load().(url.Values)
	if got := q.Get("tags"); got != "hope" {
		t.Errorf("tags = %q, want hope", got)
	}
	if got := q.Get("limit"); got != "3" {
		t.Errorf("limit = %q, want default 3", got)
	}
}

// TestRecommendations_FallbackOnTransportError verifies an unreachable
// provider yields the static quotes for the label.
func TestRecommendations_FallbackOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	c := NewClient(Config{BaseURL: base, Picker: firstTag})

	quotes := c.Recommendations(context.Background(), models.Sad, 3)
	if len(quotes) == 0 {
		t.Fatal("expected fallback quotes")
	}
	if quotes[0].Author != "Victor Hugo" || quotes[0].Content != "Even the darkest night will end and the sun will rise." {
		t.Errorf("fallback = %+v", quotes[0])
	}
}

func TestRecommendations_FallbackOnStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	out := c.Fetch(context.Background(), models.Angry, 3)
	if !errors.Is(out.Err, provider.ErrStatus) {
		t.Fatalf("expected ErrStatus, got %v", out.Err)
	}

	quotes := c.Recommendations(context.Background(), models.Angry, 3)
	if len(quotes) != 1 || quotes[0].Author != "Ralph Waldo Emerson" {
		t.Errorf("fallback = %+v", quotes)
	}
}

func TestRecommendations_EmptySuccessIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	quotes := c.Recommendations(context.Background(), models.Happy, 3)
	if quotes == nil || len(quotes) != 0 {
		t.Errorf("expected empty non-nil list, got %v", quotes)
	}
}

func TestFallback_CoversAllLabels(t *testing.T) {
	for _, l := range models.AllLabels {
		if len(Fallback(l)) == 0 {
			t.Errorf("no fallback for %s", l)
		}
	}

	got := Fallback(models.Label("bewildered"))
	if len(got) == 0 || got[0].Author != "Confucius" {
		t.Errorf("unknown label fallback = %+v", got)
	}

	// Mutating a returned slice must not leak into later calls.
	got[0].Tags[0] = "changed"
	if Fallback(models.Neutral)[0].Tags[0] != "wisdom" {
		t.Error("Fallback returned shared tag slice")
	}
}
