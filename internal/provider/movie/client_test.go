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

package movie

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/moodboard/core/internal/models"
	"github.com/moodboard/core/internal/provider"
)

// fakeTMDB serves discover and detail endpoints. Detail requests for ids in
// failIDs answer 500.
type fakeTMDB struct {
	discoverIDs    []int
	discoverStatus int
	failIDs        map[int]bool
	lastDiscover   atomic.Value
	detailCalls    atomic.Int32
}

func (f *fakeTMDB) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/3/discover/movie", func(w http.ResponseWriter, r *http.Request) {
		f.lastDiscover.Store(r.URL.Query())
		if f.discoverStatus != 0 {
			w.WriteHeader(f.discoverStatus)
			return
		}
		parts := make([]string, len(f.discoverIDs))
		for i, id := range f.discoverIDs {
			parts[i] = fmt.Sprintf(`{"id": %d}`, id)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"page": 1, "results": [%s]}`, strings.Join(parts, ","))
	})
	mux.HandleFunc("/3/movie/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.detailCalls.Add(1)
		var id int
		fmt.Sscanf(r.PathValue("id"), "%d", &id)
		if f.failIDs[id] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		poster := `null`
		if id%2 == 1 {
			poster = fmt.Sprintf(`"/poster-%d.jpg"`, id)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id": %d, "title": "Movie %d", "overview": "About %d",
			"release_date": "2020-01-0%d", "vote_average": 7.5, "poster_path": %s,
			"runtime": 100, "genres": [{"id": 35, "name": "Comedy"}]}`, id, id, id, id%9+1, poster)
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeTMDB) *Client {
	t.Helper()
	server := httptest.NewServer(f.handler())
	t.Cleanup(server.Close)

	return NewClient(Config{
		APIKey:     "key",
		BaseURL:    server.URL + "/3",
		HTTPClient: server.Client(),
	})
}

// TestFetch_DropsFailedDetails verifies a failed detail lookup drops only
// that movie and order follows the discover results.
func TestFetch_DropsFailedDetails(t *testing.T) {
	f := &fakeTMDB{
		discoverIDs: []int{1, 2, 3, 4, 5, 6, 7},
		failIDs:     map[int]bool{3: true},
	}
	c := newTestClient(t, f)

	out := c.Fetch(context.Background(), models.Happy, 5)
	if !out.OK() {
		t.Fatalf("unexpected failure: %v", out.Err)
	}
	if len(out.Items) != 4 {
		t.Fatalf("expected 4 movies, got %d", len(out.Items))
	}
	if got := f.detailCalls.Load(); got != 5 {
		t.Errorf("expected 5 detail calls, got %d", got)
	}

	want := []string{"Movie 1", "Movie 2", "Movie 4", "Movie 5"}
	for i, m := range out.Items {
		if m.Title != want[i] {
			t.Errorf("movie %d = %q, want %q", i, m.Title, want[i])
		}
	}

	first := out.Items[0]
	if first.PosterURL == nil || *first.PosterURL != DefaultImageBaseURL+"/poster-1.jpg" {
		t.Errorf("poster_url = %v", first.PosterURL)
	}
	if first.DetailURL != DefaultSiteURL+"/movie/1" {
		t.Errorf("detail_url = %q", first.DetailURL)
	}
	if first.RuntimeMinutes != 100 || first.Rating != 7.5 {
		t.Errorf("runtime/rating = %d/%v", first.RuntimeMinutes, first.Rating)
	}
	if len(first.Genres) != 1 || first.Genres[0] != "Comedy" {
		t.Errorf("genres = %v", first.Genres)
	}
	if out.Items[1].PosterURL != nil {
		t.Errorf("expected nil poster for movie 2, got %v", *out.Items[1].PosterURL)
	}
}

// TestFetch_DiscoverQuery verifies the genre ids and sorting for a label.
func TestFetch_DiscoverQuery(t *testing.T) {
	f := &fakeTMDB{discoverIDs: []int{1}}
	c := newTestClient(t, f)

	c.Fetch(context.Background(), models.Fear, 5)

	q := f.lastDiscover.Load().(url.Values)
	if got := q.Get("with_genres"); got != "27,53" {
		t.Errorf("with_genres = %q", got)
	}
	if got := q.Get("sort_by"); got != "popularity.desc" {
		t.Errorf("sort_by = %q", got)
	}
	if got := q.Get("api_key"); got != "key" {
		t.Errorf("api_key = %q", got)
	}
}

func TestFetch_FewerResultsThanLimit(t *testing.T) {
	f := &fakeTMDB{discoverIDs: []int{1, 2}}
	c := newTestClient(t, f)

	movies := c.Recommendations(context.Background(), models.Neutral, 5)
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}
}

func TestFetch_DiscoverFailure(t *testing.T) {
	f := &fakeTMDB{discoverStatus: http.StatusUnauthorized}
	c := newTestClient(t, f)

	out := c.Fetch(context.Background(), models.Sad, 5)
	if !errors.Is(out.Err, provider.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", out.Err)
	}
	if f.detailCalls.Load() != 0 {
		t.Error("detail lookups should not run after discover fails")
	}

	movies := c.Recommendations(context.Background(), models.Sad, 5)
	if movies == nil || len(movies) != 0 {
		t.Errorf("expected empty non-nil list, got %v", movies)
	}
}

func TestFetch_NotConfigured(t *testing.T) {
	c := NewClient(Config{})
	if c.Configured() {
		t.Fatal("client without key should be unconfigured")
	}
	out := c.Fetch(context.Background(), models.Happy, 5)
	if !errors.Is(out.Err, provider.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", out.Err)
	}
}

func TestParseDetail_RequiresTitle(t *testing.T) {
	_, err := parseDetail(movieDetail{ID: 9}, 9, DefaultImageBaseURL, DefaultSiteURL)
	if !errors.Is(err, provider.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}
