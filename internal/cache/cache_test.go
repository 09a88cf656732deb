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

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/moodboard/core/internal/models"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, ttl), mr
}

func TestCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	key := Key("music", "happy", 5)

	var got []models.Track
	hit, err := c.Get(ctx, key, &got)
	if err != nil || hit {
		t.Fatalf("expected clean miss, got hit=%v err=%v", hit, err)
	}

	want := []models.Track{{Name: "Happy", Artist: "Pharrell Williams", ExternalURL: "https://open.example/3"}}
	if err := c.Set(ctx, key, want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	hit, err = c.Get(ctx, key, &got)
	if err != nil || !hit {
		t.Fatalf("expected hit, got hit=%v err=%v", hit, err)
	}
	if len(got) != 1 || got[0].Name != "Happy" || got[0].PreviewURL != nil {
		t.Errorf("got %+v", got)
	}
}

func TestCache_Expires(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	key := Key("movie", "sad", 5)

	if err := c.Set(ctx, key, []string{"x"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	var got []string
	if hit, _ := c.Get(ctx, key, &got); hit {
		t.Error("expected entry to expire")
	}
}

func TestCache_CorruptValue(t *testing.T) {
	c, mr := newTestCache(t, 0)
	key := Key("music", "fear", 5)
	mr.Set(key, "{not json")

	var got []models.Track
	if _, err := c.Get(context.Background(), key, &got); err == nil {
		t.Error("expected decode error")
	}
}

func TestKey(t *testing.T) {
	if got := Key("music", "happy", 5); got != "moodboard:recs:music:happy:5" {
		t.Errorf("Key = %q", got)
	}
}
