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
	"encoding/binary"
	"time"
)

// Key prefixes for the sync ledger.
const (
	ledgerLatestPrefix  = "ledlat"
	ledgerHistoryPrefix = "ledhis"
)

// makeLatestKey generates the key holding the most recent sync record
// for a quote number.
func makeLatestKey(quoteNumber string) []byte {
	return []byte(ledgerLatestPrefix + ":" + quoteNumber)
}

// makeHistoryKey generates a composite key for the time-ordered history
// index. Format: prefix:timestamp:quoteNumber
func makeHistoryKey(publishedAt time.Time, quoteNumber string) []byte {
	prefix := ledgerHistoryPrefix + ":"
	prefixBytes := []byte(prefix)
	quoteBytes := []byte(quoteNumber)
	buf := make([]byte, len(prefixBytes)+8+len(quoteBytes))
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(publishedAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], quoteBytes)
	return buf
}

// makePartialHistoryKey generates a partial key for history range
// scans. Format: prefix:timestamp
func makePartialHistoryKey(since time.Time) []byte {
	prefix := ledgerHistoryPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Pre-epoch times (including the zero time) clamp to zero so the
	// cast below cannot wrap past every real timestamp.
	micro := since.UnixMicro()
	if micro < 0 {
		micro = 0
	}
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(micro))
	return buf
}
