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

// Package music implements the music provider client against a
// Spotify-style Web API. Credentials are exchanged for a bearer token with
// the OAuth2 client-credentials flow; the token and its expiry are owned by
// the client and refreshed lazily before each call.
package music

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/moodboard/core/internal/mapping"
	"github.com/moodboard/core/internal/models"
	"github.com/moodboard/core/internal/provider"
)

const (
	// DefaultBaseURL is the root of the Spotify Web API.
	DefaultBaseURL = "https://api.spotify.com/v1"
	// DefaultTokenURL is the Spotify accounts token endpoint.
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
	// DefaultLimit is the number of tracks requested when no limit is given.
	DefaultLimit = 5

	providerName = "music"
)

// Config holds the dependencies for a music client. Empty ClientID or
// ClientSecret leaves the client unconfigured: every call then returns an
// empty result.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	HTTPClient   *http.Client
	Guard        *provider.Guard
}

// Client fetches emotion-matched tracks.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      *clientcredentials.Config
	guard      *provider.Guard
	now        func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

// NewClient creates a music client.
func NewClient(cfg Config) *Client {
	c := &Client{
		httpClient: cfg.HTTPClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		guard:      cfg.Guard,
		now:        time.Now,
	}
	if c.httpClient == nil {
		c.httpClient = provider.NewHTTPClient(provider.DefaultTimeout)
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}

	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		tokenURL := cfg.TokenURL
		if tokenURL == "" {
			tokenURL = DefaultTokenURL
		}
		c.creds = &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
		}
	}

	return c
}

// Configured reports whether credentials were supplied.
func (c *Client) Configured() bool { return c.creds != nil }

// EnsureValidToken returns a usable bearer token, exchanging credentials
// when no token is held or the held token has expired.
func (c *Client) EnsureValidToken(ctx context.Context) (string, error) {
	if c.creds == nil {
		return "", provider.ErrNotConfigured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tokenValidLocked() {
		return c.token.AccessToken, nil
	}

	// Route the token exchange through our own HTTP client so it shares the
	// configured timeout.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.creds.Token(ctx)
	if err != nil {
		c.token = nil
		return "", fmt.Errorf("%w: token exchange: %w", provider.ErrAuth, err)
	}

	c.token = tok
	slog.Debug("music provider token refreshed", "expires_at", tok.Expiry)
	return tok.AccessToken, nil
}

// tokenValidLocked reports whether the held token exists and has not
// expired. A zero expiry means the token does not expire.
func (c *Client) tokenValidLocked() bool {
	if c.token == nil || c.token.AccessToken == "" {
		return false
	}
	return c.token.Expiry.IsZero() || c.now().Before(c.token.Expiry)
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = nil
	c.mu.Unlock()
}

// Fetch queries the provider for tracks matching label and reports the
// outcome, distinguishing "no matches" from "call failed".
func (c *Client) Fetch(ctx context.Context, label models.Label, limit int) provider.Outcome[models.Track] {
	if c.creds == nil {
		provider.Record(providerName, provider.ErrNotConfigured, 0)
		return provider.Failure[models.Track](provider.ErrNotConfigured)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	return provider.Run(ctx, c.guard, func(ctx context.Context) ([]models.Track, error) {
		return c.fetch(ctx, label, limit)
	})
}

// Recommendations returns tracks for label, or an empty list when the
// provider is unconfigured or failing.
func (c *Client) Recommendations(ctx context.Context, label models.Label, limit int) []models.Track {
	out := c.Fetch(ctx, label, limit)
	if !out.OK() {
		slog.Warn("music recommendations unavailable",
			"emotion", label,
			"reason", provider.Reason(out.Err),
			"error", out.Err,
		)
	}
	return out.OrEmpty()
}

func (c *Client) fetch(ctx context.Context, label models.Label, limit int) ([]models.Track, error) {
	token, err := c.EnsureValidToken(ctx)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/recommendations?%s", c.baseURL, queryParams(mapping.Music(label), limit).Encode())

	var resp recommendationsResponse
	err = provider.GetJSON(ctx, c.httpClient, u, http.Header{"Authorization": {"Bearer " + token}}, &resp)
	if err != nil {
		if errors.Is(err, provider.ErrAuth) {
			// Revoked or expired early; force a fresh exchange next call.
			c.invalidateToken()
		}
		return nil, fmt.Errorf("fetch recommendations: %w", err)
	}

	return parseTracks(resp), nil
}

func queryParams(q mapping.MusicQuery, limit int) url.Values {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("seed_genres", strings.Join(q.Seeds(), ","))

	setFloat := func(key string, v *float64) {
		if v != nil {
			params.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	setFloat("target_valence", q.Hints.TargetValence)
	setFloat("target_energy", q.Hints.TargetEnergy)
	setFloat("min_tempo", q.Hints.MinTempo)
	setFloat("max_tempo", q.Hints.MaxTempo)

	return params
}
