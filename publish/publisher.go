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


package publish

import (
	"context"

	"github.com/poiesic/quotesync/core"
)

// Table is an ordered table of string cells with column headers.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Metadata is the optional structured record accompanying a table.
type Metadata struct {
	Header   core.QuoteHeader
	Customer core.CustomerInfo
	Totals   core.Totals
}

// Publisher writes a quote table to the external document store and
// returns a location reference for it.
type Publisher interface {
	Publish(ctx context.Context, quoteNumber string, table *Table, meta *Metadata) (url string, err error)
}

// Columns of the published line-item table, in LineItem field order.
var lineItemColumns = []string{"Qty", "Part Number", "Description", "Unit Price", "Ext Price", "Type"}

// TableFromQuote flattens a quote's line items into a publishable
// table. Empty-string sentinels pass through as empty cells.
func TableFromQuote(quote *core.CanonicalQuote) *Table {
	rows := make([][]string, 0, len(quote.LineItems))
	for _, item := range quote.LineItems {
		rows = append(rows, []string{
			item.Quantity,
			item.PartNumber,
			item.Description,
			item.UnitPrice,
			item.ExtPrice,
			item.Type,
		})
	}
	return &Table{Columns: lineItemColumns, Rows: rows}
}

// MetadataFromQuote extracts the structured metadata record.
func MetadataFromQuote(quote *core.CanonicalQuote) *Metadata {
	return &Metadata{
		Header:   quote.Header,
		Customer: quote.Customer,
		Totals:   quote.Totals,
	}
}
