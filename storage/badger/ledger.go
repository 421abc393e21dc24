// Copyright 2025 Poiesic Systems
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


package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/quotesync/core"
	"github.com/poiesic/quotesync/storage"
)

// LedgerRepository implements storage.LedgerRepository over BadgerDB.
// Each record is written twice: under a latest-per-quote key and under
// a time-ordered history key.
type LedgerRepository struct {
	backend *Backend
}

var _ storage.LedgerRepository = (*LedgerRepository)(nil)

// NewLedgerRepository creates a ledger repository on the given backend.
func NewLedgerRepository(backend *Backend) (*LedgerRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &LedgerRepository{backend: backend}, nil
}

// RecordSync stores record as the latest entry for its quote number and
// appends it to the history index. A zero PublishedAt is stamped with
// the current time.
func (r *LedgerRepository) RecordSync(ctx context.Context, record *core.SyncRecord) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if record.PublishedAt.IsZero() {
		record.PublishedAt = time.Now().UTC()
	}

	data := storage.MarshalSyncRecord(record)

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeLatestKey(record.QuoteNumber), data); err != nil {
			return err
		}
		if err := tx.Set(makeHistoryKey(record.PublishedAt, record.QuoteNumber), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetLatest returns the most recent sync record for a quote number.
func (r *LedgerRepository) GetLatest(ctx context.Context, quoteNumber string) (*core.SyncRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var record *core.SyncRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeLatestKey(quoteNumber))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			record, err = storage.UnmarshalSyncRecord(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// History returns sync records published at or after since, oldest
// first. A non-positive limit returns everything.
func (r *LedgerRepository) History(ctx context.Context, since time.Time, limit int) ([]*core.SyncRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var records []*core.SyncRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(ledgerHistoryPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(makePartialHistoryKey(since)); iter.Valid(); iter.Next() {
			if limit > 0 && len(records) >= limit {
				break
			}
			err := iter.Item().Value(func(val []byte) error {
				record, err := storage.UnmarshalSyncRecord(val)
				if err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close releases repository resources. The backend itself is owned by
// the caller.
func (r *LedgerRepository) Close() error {
	return nil
}
