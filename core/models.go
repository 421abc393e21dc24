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


package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/shopspring/decimal"
)

// Digest is a 64-bit content fingerprint of a raw export buffer.
// The sync ledger stores it so that re-deliveries of identical content
// can be told apart from genuinely updated exports.
type Digest uint64

// DigestContent computes a deterministic Digest from raw export bytes
// using BLAKE2b hashing. Identical content produces identical digests.
func DigestContent(data []byte) Digest {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(data)
	sum := h.Sum(nil)
	return Digest(binary.LittleEndian.Uint64(sum))
}

// CanonicalQuote is the normalized quote record produced by the ingest
// router and consumed by the publisher.
type CanonicalQuote struct {
	QuoteNumber string
	Header      QuoteHeader
	Customer    CustomerInfo
	LineItems   []LineItem
	Totals      Totals
}

// QuoteHeader holds quote-level metadata. Fields the source omits are
// empty strings.
type QuoteHeader struct {
	Date        string
	PONumber    string
	Terms       string
	ShipVia     string
	OrderNumber string
	Salesperson string
}

// CustomerInfo holds billing details. Address lines are free text in
// source order.
type CustomerInfo struct {
	Name         string
	Organization string
	Address      []string
}

// LineItem is one quoted product or service row.
//
// Every field is a string: the legacy export leaves arbitrary fields
// blank, and a value that fails numeric parsing degrades to the empty
// string rather than failing the record.
type LineItem struct {
	Quantity    string
	PartNumber  string
	Description string
	UnitPrice   string
	ExtPrice    string
	Type        string
}

// Totals is the financial summary of a quote. Absent values are zero.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// SyncRecord is one sync-ledger entry describing a successful publish.
type SyncRecord struct {
	QuoteNumber string
	SheetURL    string
	SourceFile  string
	Digest      Digest
	LineItems   int
	PublishedAt time.Time
}
