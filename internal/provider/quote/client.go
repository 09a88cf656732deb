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

// Package quote implements the quote provider client against a
// quotable-style API. Unlike the other providers it never returns an empty
// list on failure: each label has a static fallback set.
package quote

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/moodboard/core/internal/mapping"
	"github.com/moodboard/core/internal/metrics"
	"github.com/moodboard/core/internal/models"
	"github.com/moodboard/core/internal/provider"
)

const (
	// DefaultBaseURL is the public quotable endpoint.
	DefaultBaseURL = "https://api.quotable.io"
	// DefaultLimit is the number of quotes requested when no limit is given.
	DefaultLimit = 3

	providerName = "quote"
)

// TagPicker chooses one tag from a non-empty set.
type TagPicker func(tags []string) string

// RandomTag picks a tag uniformly at random.
func RandomTag(tags []string) string {
	return tags[rand.IntN(len(tags))]
}

// Config holds the dependencies for a quote client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Guard      *provider.Guard
	Picker     TagPicker
}

// Client fetches emotion-matched quotes.
type Client struct {
	httpClient *http.Client
	baseURL    string
	guard      *provider.Guard
	pick       TagPicker
}

// NewClient creates a quote client. The public API needs no credentials so
// the client is always configured.
func NewClient(cfg Config) *Client {
	c := &Client{
		httpClient: cfg.HTTPClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		guard:      cfg.Guard,
		pick:       cfg.Picker,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = provider.NewHTTPClient(provider.DefaultTimeout)
	}
	if c.pick == nil {
		c.pick = RandomTag
	}
	return c
}

// Fetch queries the provider for quotes matching label and reports the
// outcome. Fallbacks are not applied here.
func (c *Client) Fetch(ctx context.Context, label models.Label, limit int) provider.Outcome[models.Quote] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	tag := c.pick(mapping.Quote(label).Tags)

	return provider.Run(ctx, c.guard, func(ctx context.Context) ([]models.Quote, error) {
		return c.fetch(ctx, tag, limit)
	})
}

// Recommendations returns quotes for label. Any failure yields the label's
// fallback quotes instead.
func (c *Client) Recommendations(ctx context.Context, label models.Label, limit int) []models.Quote {
	out := c.Fetch(ctx, label, limit)
	if out.OK() {
		return out.OrEmpty()
	}

	slog.Warn("quote provider failed, serving fallback",
		"emotion", label,
		"reason", provider.Reason(out.Err),
		"error", out.Err,
	)
	metrics.ProviderFallbacks.WithLabelValues(providerName).Inc()
	return Fallback(label)
}

func (c *Client) fetch(ctx context.Context, tag string, limit int) ([]models.Quote, error) {
	params := url.Values{}
	params.Set("tags", tag)
	params.Set("limit", strconv.Itoa(limit))

	var resp []quotableQuote
	if err := provider.GetJSON(ctx, c.httpClient, c.baseURL+"/quotes/random?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("random quotes for tag %q: %w", tag, err)
	}
	return parseQuotes(resp), nil
}
