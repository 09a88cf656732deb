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

// MoodBoard — Journal Backfill Command
//
// Standalone CLI tool that imports a legacy JSON mood journal into the
// configured journal store. Re-running it over the same file imports
// nothing new.
//
// Usage:
//
//	go run ./cmd/backfill/ --source app/data/mood_journal.json [--dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/moodboard/core/internal/backfill"
	"github.com/moodboard/core/internal/config"
	"github.com/moodboard/core/internal/dedup"
	"github.com/moodboard/core/internal/journal"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// --- CLI Flags ---
	sourceFlag := flag.String("source", "", "Path to the legacy journal JSON file (required)")
	dryRunFlag := flag.Bool("dry-run", false, "Count what would be imported without writing")
	flag.Parse()

	if *sourceFlag == "" {
		fmt.Fprintf(os.Stderr, "Error: --source is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Target Store ---
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

	// --- Optional Redis Dedup ---
	runnerCfg := backfill.RunnerConfig{Target: store}
	if cfg.RedisURL != "" && !*dryRunFlag {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable, importing without cross-run dedup", "error", err)
		} else {
			runnerCfg.Dedup = dedup.NewFilter(rdb, 0)
		}
	}

	// --- Run Import ---
	result, err := backfill.NewRunner(runnerCfg).Run(ctx, backfill.Request{
		SourcePath: *sourceFlag,
		DryRun:     *dryRunFlag,
	})
	if err != nil {
		slog.Error("backfill failed", "error", err)
		os.Exit(1)
	}

	// --- Summary ---
	slog.Info("backfill complete",
		"backend", cfg.Journal.Backend,
		"read", result.Read,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"invalid", result.Invalid,
		"dry_run", *dryRunFlag,
		"elapsed", result.Elapsed,
	)
}
