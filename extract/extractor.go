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


package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/quotesync/core"
	"github.com/shopspring/decimal"
)

// Section keys the legacy export writes at the top level. Each section
// is individually well-formed even when the document as a whole is not.
const (
	SectionMeta        = "meta"
	SectionInvoicedTo  = "invoiced_to"
	SectionShipTo      = "ship_to"
	SectionQuoteDetail = "quote_detail"
	SectionEntryDetail = "entry_detail"
	SectionTotals      = "totals"
)

var sectionKeys = []string{
	SectionMeta,
	SectionInvoicedTo,
	SectionShipTo,
	SectionQuoteDetail,
	SectionEntryDetail,
}

// Extractor recovers a CanonicalQuote from malformed export text using
// section-local recovery. See the package documentation for the
// recovery rules.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates a tolerant extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract recovers as much of the canonical schema as possible from
// malformed content. Individual section failures degrade to empty
// sections; only the complete absence of line items fails the whole
// extraction, wrapping core.ErrNoLineItems.
//
// The returned quote's QuoteNumber is the content-embedded one when the
// meta section carries it, and empty otherwise; the caller falls back
// to its filename-derived identifier.
func (e *Extractor) Extract(content []byte) (*core.CanonicalQuote, error) {
	doc := string(content)

	items := recoverLineItems(doc)
	if len(items) == 0 {
		return nil, fmt.Errorf("tolerant extraction: %w", core.ErrNoLineItems)
	}
	e.logger.Debug("recovered line items", "count", len(items))

	sections := e.recoverSections(doc)

	pairs := map[string]*decimal.Decimal{}
	if span, ok := sectionSpan(doc, SectionTotals); ok {
		pairs = scanTotalsPairs(span)
	} else {
		e.logger.Debug("totals section not found")
	}

	meta := sections[SectionMeta]
	return &core.CanonicalQuote{
		QuoteNumber: QuoteNumberFromMeta(meta),
		Header:      HeaderFromSections(meta, sections[SectionQuoteDetail]),
		Customer:    CustomerFromSection(sections[SectionInvoicedTo]),
		LineItems:   items,
		Totals:      TotalsFromPairs(pairs),
	}, nil
}

// recoverSections isolates and parses each named section. A section
// that is missing or fails to parse degrades to an empty mapping.
func (e *Extractor) recoverSections(doc string) map[string]map[string]any {
	sections := make(map[string]map[string]any, len(sectionKeys))

	for _, key := range sectionKeys {
		sections[key] = map[string]any{}

		span, ok := sectionSpan(doc, key)
		if !ok {
			e.logger.Debug("section not found", "section", key)
			continue
		}

		dec := json.NewDecoder(strings.NewReader(span))
		dec.UseNumber()

		var parsed map[string]any
		if err := dec.Decode(&parsed); err != nil {
			e.logger.Debug("section failed to parse", "section", key, "err", err)
			continue
		}
		sections[key] = parsed
	}

	return sections
}
