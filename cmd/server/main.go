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

// MoodBoard — Core Service
//
// Entry point for the MoodBoard API. It:
//  1. Loads configuration from config.yaml and the environment
//  2. Opens the journal store (file, Postgres or Badger)
//  3. Connects to Redis when configured (cache, journal events)
//  4. Builds the emotion models and the three content provider clients
//  5. Serves the HTTP API until SIGTERM/SIGINT, then shuts down gracefully
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/moodboard/core/internal/api"
	"github.com/moodboard/core/internal/cache"
	"github.com/moodboard/core/internal/config"
	"github.com/moodboard/core/internal/emotion"
	"github.com/moodboard/core/internal/journal"
	"github.com/moodboard/core/internal/models"
	"github.com/moodboard/core/internal/provider"
	"github.com/moodboard/core/internal/provider/movie"
	"github.com/moodboard/core/internal/provider/music"
	"github.com/moodboard/core/internal/provider/quote"
	"github.com/moodboard/core/internal/queue"
	"github.com/moodboard/core/internal/recommend"
)

func main() {
	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("starting MoodBoard core service",
		"journal_backend", cfg.Journal.Backend,
		"redis", cfg.RedisURL != "",
		"music_configured", cfg.Music.ClientID != "" && cfg.Music.ClientSecret != "",
		"movie_configured", cfg.Movie.APIKey != "",
		"face_model", cfg.Models.FaceURL != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	checks := map[string]api.HealthCheck{}

	// --- Journal Store ---
	store, closeStore, err := journal.OpenStore(ctx, journal.StoreConfig{
		Backend:     cfg.Journal.Backend,
		Path:        cfg.Journal.Path,
		BadgerDir:   cfg.Journal.BadgerDir,
		DatabaseURL: cfg.Journal.DatabaseURL,
	})
	if err != nil {
		slog.Error("failed to open journal store", "backend", cfg.Journal.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// --- Redis (optional) ---
	var (
		respCache   *cache.Cache
		journalOpts []journal.Option
	)
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()

		publisher := queue.NewPublisher(rdb, cfg.JournalQueue)
		if err := publisher.Ping(ctx); err != nil {
			slog.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		slog.Info("connected to Redis")

		respCache = cache.New(rdb, cfg.CacheTTL)
		journalOpts = append(journalOpts, journal.WithNotifier(publisher))
		checks["redis"] = publisher.Ping
	}

	j := journal.New(store, journalOpts...)
	checks["journal"] = func(ctx context.Context) error {
		_, err := store.Load(ctx)
		return err
	}

	// --- Emotion Models ---
	modelClient := provider.NewHTTPClient(cfg.Models.Timeout)
	var (
		textModel emotion.TextModel
		faceModel emotion.FaceModel
	)
	if cfg.Models.TextURL != "" {
		textModel = emotion.NewHTTPTextModel(modelClient, cfg.Models.TextURL, cfg.Models.Token)
	}
	if cfg.Models.FaceURL != "" {
		faceModel = emotion.NewHTTPFaceModel(modelClient, cfg.Models.FaceURL, cfg.Models.Token)
	}
	classifier := emotion.NewClassifier(textModel, faceModel)

	// --- Provider Clients ---
	httpClient := provider.NewHTTPClient(cfg.ProviderTimeout)
	guard := func(name string, rps float64, burst int) *provider.Guard {
		return provider.NewGuard(provider.GuardConfig{
			Name:             name,
			RatePerSecond:    rps,
			Burst:            burst,
			FailureThreshold: cfg.FailureThreshold,
			OpenTimeout:      cfg.OpenTimeout,
		})
	}

	musicClient := music.NewClient(music.Config{
		ClientID:     cfg.Music.ClientID,
		ClientSecret: cfg.Music.ClientSecret,
		BaseURL:      cfg.Music.BaseURL,
		TokenURL:     cfg.Music.TokenURL,
		HTTPClient:   httpClient,
		Guard:        guard("music", cfg.Music.RatePerSecond, cfg.Music.Burst),
	})
	if !musicClient.Configured() {
		slog.Warn("music provider credentials missing, music recommendations disabled")
	}

	movieClient := movie.NewClient(movie.Config{
		APIKey:     cfg.Movie.APIKey,
		BaseURL:    cfg.Movie.BaseURL,
		HTTPClient: httpClient,
		Guard:      guard("movie", cfg.Movie.RatePerSecond, cfg.Movie.Burst),
	})
	if !movieClient.Configured() {
		slog.Warn("movie provider API key missing, movie recommendations disabled")
	}

	quoteClient := quote.NewClient(quote.Config{
		BaseURL:    cfg.Quote.BaseURL,
		HTTPClient: httpClient,
		Guard:      guard("quote", cfg.Quote.RatePerSecond, cfg.Quote.Burst),
	})

	aggregator := recommend.NewAggregator(
		recommend.NewCached[models.Track]("music", musicClient, respCache),
		recommend.NewCached[models.Movie]("movie", movieClient, respCache),
		quoteClient,
		recommend.Limits{
			Music:  cfg.Music.Limit,
			Movies: cfg.Movie.Limit,
			Quotes: cfg.Quote.Limit,
		},
	)

	// --- HTTP API ---
	handler := api.NewHandler(classifier, aggregator, j, checks)
	ready, done, err := api.Serve(ctx, cfg.Port, api.NewRouter(handler))
	if err != nil {
		slog.Error("failed to start api server", "error", err)
		os.Exit(1)
	}
	<-ready
	slog.Info("MoodBoard core service ready", "port", cfg.Port)

	<-ctx.Done()
	slog.Info("received shutdown signal")
	<-done
	slog.Info("MoodBoard core service stopped")
}

