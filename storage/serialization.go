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
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/quotesync/core"
)

// syncRecordSer is a hand-written mus serializer for core.SyncRecord.
// Field order is part of the stored format; append new fields at the
// end only. PublishedAt is stored as Unix microseconds.
type syncRecordSer struct{}

// SyncRecordMUS serializes SyncRecord values for the ledger.
var SyncRecordMUS = syncRecordSer{}

func (syncRecordSer) Marshal(v core.SyncRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.QuoteNumber, bs)
	n += ord.String.Marshal(v.SheetURL, bs[n:])
	n += ord.String.Marshal(v.SourceFile, bs[n:])
	n += varint.Uint64.Marshal(uint64(v.Digest), bs[n:])
	n += varint.Int.Marshal(v.LineItems, bs[n:])
	n += varint.Int64.Marshal(v.PublishedAt.UnixMicro(), bs[n:])
	return n
}

func (syncRecordSer) Unmarshal(bs []byte) (v core.SyncRecord, n int, err error) {
	var n1 int

	if v.QuoteNumber, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.SheetURL, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.SourceFile, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1

	var digest uint64
	if digest, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.Digest = core.Digest(digest)

	if v.LineItems, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1

	var micro int64
	if micro, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.PublishedAt = time.UnixMicro(micro).UTC()
	return
}

func (syncRecordSer) Size(v core.SyncRecord) (size int) {
	size = ord.String.Size(v.QuoteNumber)
	size += ord.String.Size(v.SheetURL)
	size += ord.String.Size(v.SourceFile)
	size += varint.Uint64.Size(uint64(v.Digest))
	size += varint.Int.Size(v.LineItems)
	size += varint.Int64.Size(v.PublishedAt.UnixMicro())
	return size
}

// MarshalSyncRecord serializes a SyncRecord to bytes.
func MarshalSyncRecord(record *core.SyncRecord) []byte {
	buf := make([]byte, SyncRecordMUS.Size(*record))
	SyncRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalSyncRecord deserializes a SyncRecord from bytes.
func UnmarshalSyncRecord(data []byte) (*core.SyncRecord, error) {
	record, _, err := SyncRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return &record, nil
}
