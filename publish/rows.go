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
	"strings"
	"time"
)

// buildSheetRows assembles the full cell grid for a worksheet: banner,
// optional metadata block, column headers, item rows, then a totals
// block. headerRow is the zero-based index of the column-header row,
// used by the formatting step. All cells are strings; Sheets value
// input is USER_ENTERED so numeric-looking cells become numbers on the
// sheet.
func buildSheetRows(quoteNumber string, table *Table, meta *Metadata, now time.Time) (rows [][]any, headerRow int) {
	rows = [][]any{
		{"QUOTATION", "#" + quoteNumber},
		{"Date", now.Format("2006-01-02")},
	}

	if meta != nil {
		rows = append(rows, metadataRows(meta)...)
	}
	rows = append(rows, []any{})
	headerRow = len(rows)

	header := make([]any, len(table.Columns))
	for i, column := range table.Columns {
		header[i] = column
	}
	rows = append(rows, header)

	for _, tableRow := range table.Rows {
		row := make([]any, len(tableRow))
		for i, cell := range tableRow {
			row[i] = cell
		}
		rows = append(rows, row)
	}

	if meta != nil {
		rows = append(rows, []any{})
		rows = append(rows,
			[]any{"Sub Total", meta.Totals.Subtotal.String()},
			[]any{"Tax", meta.Totals.Tax.String()},
			[]any{"Shipping", meta.Totals.Shipping.String()},
			[]any{"Total", meta.Totals.Total.String()},
		)
	}

	return rows, headerRow
}

// metadataRows renders the header/customer block shown under the
// banner. Blank fields are skipped so sparse legacy quotes do not
// produce a wall of empty rows.
func metadataRows(meta *Metadata) [][]any {
	var rows [][]any

	add := func(label, value string) {
		if value != "" {
			rows = append(rows, []any{label, value})
		}
	}

	add("PO Number", meta.Header.PONumber)
	add("Terms", meta.Header.Terms)
	add("Ship Via", meta.Header.ShipVia)
	add("Order Number", meta.Header.OrderNumber)
	add("Salesperson", meta.Header.Salesperson)

	billed := meta.Customer.Name
	if meta.Customer.Organization != "" {
		billed += ", " + meta.Customer.Organization
	}
	add("Billed To", billed)
	add("Address", strings.Join(meta.Customer.Address, ", "))

	return rows
}
