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


package storage

import (
	"context"
	"time"

	"github.com/poiesic/quotesync/core"
)

// LedgerRepository records successful publishes and answers history
// queries about them.
type LedgerRepository interface {
	// RecordSync stores a sync record as the latest entry for its quote
	// number and appends it to the time-ordered history.
	RecordSync(ctx context.Context, record *core.SyncRecord) error

	// GetLatest returns the most recent sync record for a quote number.
	// Returns ErrNotFound when the quote has never been published.
	GetLatest(ctx context.Context, quoteNumber string) (*core.SyncRecord, error)

	// History returns sync records published at or after since, oldest
	// first, up to limit records. A non-positive limit means no limit.
	History(ctx context.Context, since time.Time, limit int) ([]*core.SyncRecord, error)

	// Close releases repository resources.
	Close() error
}
