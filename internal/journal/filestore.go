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

package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/moodboard/core/internal/models"
)

// FileStore keeps the journal as a JSON array in a single file. Writes go
// to a temporary file that is renamed over the journal, so readers never
// observe a partial write. It is safe for concurrent use within one process.
type FileStore struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewFileStore opens the journal at path, creating its directory and an
// empty journal if needed.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, now: time.Now}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.write(nil); err != nil {
			return nil, fmt.Errorf("initialise journal: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat journal: %w", err)
	}
	return s, nil
}

// Path returns the journal file location.
func (s *FileStore) Path() string { return s.path }

// Load reads every entry. A missing file is an empty journal.
func (s *FileStore) Load(_ context.Context) ([]models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Append adds entry to the end of the journal. A corrupt journal is moved
// aside to <path>.corrupt-<unix> and a new journal started.
func (s *FileStore) Append(_ context.Context, entry models.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if errors.Is(err, ErrStoreCorrupt) {
		backup := fmt.Sprintf("%s.corrupt-%d", s.path, s.now().Unix())
		if rerr := os.Rename(s.path, backup); rerr != nil {
			return fmt.Errorf("move corrupt journal aside: %w", rerr)
		}
		slog.Warn("corrupt journal moved aside", "path", s.path, "backup", backup, "error", err)
		entries = nil
	} else if err != nil {
		return err
	}

	return s.write(append(entries, entry))
}

func (s *FileStore) read() ([]models.JournalEntry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.JournalEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.JournalEntry{}, nil
	}

	var entries []models.JournalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrStoreCorrupt, s.path, err)
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	return entries, nil
}

func (s *FileStore) write(entries []models.JournalEntry) error {
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".journal-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp journal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp journal: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp journal: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace journal: %w", err)
	}
	return nil
}
