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
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/moodboard/core/internal/models"
)

const (
	badgerEntryPrefix = "journal:entry:"
	badgerSeqKey      = "journal:seq"
	badgerSeqLease    = 100
)

// BadgerStore keeps the journal in an embedded Badger database. Keys carry
// a zero-padded sequence number so key order is insertion order.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
}

// OpenBadgerStore opens (or creates) a Badger journal in dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger journal: %w", err)
	}
	s, err := NewBadgerStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewBadgerStore creates a journal store on an existing database.
func NewBadgerStore(db *badger.DB) (*BadgerStore, error) {
	seq, err := db.GetSequence([]byte(badgerSeqKey), badgerSeqLease)
	if err != nil {
		return nil, fmt.Errorf("journal sequence: %w", err)
	}
	return &BadgerStore{db: db, seq: seq}, nil
}

// Append stores entry under the next sequence number.
func (s *BadgerStore) Append(_ context.Context, entry models.JournalEntry) error {
	n, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("next journal sequence: %w", err)
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(n), data)
	})
}

// Load iterates entries in key order.
func (s *BadgerStore) Load(_ context.Context) ([]models.JournalEntry, error) {
	entries := []models.JournalEntry{}
	prefix := []byte(badgerEntryPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var e models.JournalEntry
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return fmt.Errorf("%w: key %s: %w", ErrStoreCorrupt, item.Key(), err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Close releases the sequence lease and closes the database.
func (s *BadgerStore) Close() error {
	if err := s.seq.Release(); err != nil {
		s.db.Close()
		return fmt.Errorf("release journal sequence: %w", err)
	}
	return s.db.Close()
}

func badgerKey(n uint64) []byte {
	return fmt.Appendf(nil, "%s%020d", badgerEntryPrefix, n)
}
