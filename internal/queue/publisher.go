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

// Package queue publishes journal events to a Redis list so downstream
// consumers (notifications, offline analytics) can react to saved entries.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/moodboard/core/internal/models"
)

const (
	// DefaultQueue is the list journal events are pushed to.
	DefaultQueue = "moodboard:journal"

	// EntrySavedType identifies an entry_saved event.
	EntrySavedType = "journal.entry_saved"
)

// Publisher pushes journal events onto a Redis list.
type Publisher struct {
	rdb       *redis.Client
	queueName string
	now       func() time.Time
}

// NewPublisher creates a publisher targeting queueName. An empty name uses
// DefaultQueue.
func NewPublisher(rdb *redis.Client, queueName string) *Publisher {
	if queueName == "" {
		queueName = DefaultQueue
	}
	return &Publisher{
		rdb:       rdb,
		queueName: queueName,
		now:       time.Now,
	}
}

// Envelope is the message consumers pop from the list.
type Envelope struct {
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	PublishedAt string              `json:"published_at"`
	Entry       models.JournalEntry `json:"entry"`
}

// PublishEntry LPUSHes an entry_saved event for entry.
func (p *Publisher) PublishEntry(ctx context.Context, entry models.JournalEntry) error {
	env := Envelope{
		ID:          uuid.NewString(),
		Type:        EntrySavedType,
		PublishedAt: p.now().UTC().Format(time.RFC3339Nano),
		Entry:       entry,
	}

	msg, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal journal event: %w", err)
	}

	if err := p.rdb.LPush(ctx, p.queueName, string(msg)).Err(); err != nil {
		return fmt.Errorf("redis LPUSH: %w", err)
	}

	slog.Debug("published journal event",
		"event_id", env.ID,
		"entry_id", entry.ID,
		"queue", p.queueName,
	)
	return nil
}

// Ping checks the Redis connection.
func (p *Publisher) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.rdb.Ping(ctx).Err()
}
