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


package router

import (
	"github.com/poiesic/quotesync/core"
	"github.com/poiesic/quotesync/extract"
)

// Canonical vocabulary keys used by well-formed exports.
const (
	fieldHeader   = "header"
	fieldCustomer = "customer"
	fieldTotals   = "totals"
)

// lineItemsFromRecords converts parsed line-item records verbatim:
// values are rendered as strings but not reinterpreted, so a
// well-formed document's items round-trip untouched.
func lineItemsFromRecords(records []map[string]any) []core.LineItem {
	items := make([]core.LineItem, 0, len(records))
	for _, record := range records {
		items = append(items, core.LineItem{
			Quantity:    extract.NormalizeValue(record[extract.LineItemKeys[0]]),
			PartNumber:  extract.NormalizeValue(record[extract.LineItemKeys[1]]),
			Description: extract.NormalizeValue(record[extract.LineItemKeys[2]]),
			UnitPrice:   extract.NormalizeValue(record[extract.LineItemKeys[3]]),
			ExtPrice:    extract.NormalizeValue(record[extract.LineItemKeys[4]]),
			Type:        extract.NormalizeValue(record[extract.LineItemKeys[5]]),
		})
	}
	return items
}

// itemRecords extracts the line_items collection from a parsed wrapper
// object as a record list.
func itemRecords(object map[string]any) []map[string]any {
	list, _ := object[fieldLineItems].([]any)
	records := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		if record, isObject := entry.(map[string]any); isObject {
			records = append(records, record)
		}
	}
	return records
}

// canonicalQuote interprets a wrapper object that already uses the
// canonical vocabulary.
func canonicalQuote(object map[string]any, quoteNumber string) *core.CanonicalQuote {
	header := subObject(object, fieldHeader)
	customer := subObject(object, fieldCustomer)

	quote := &core.CanonicalQuote{
		QuoteNumber: quoteNumber,
		Header: core.QuoteHeader{
			Date:        stringField(header, "date"),
			PONumber:    stringField(header, "po_number"),
			Terms:       stringField(header, "terms"),
			ShipVia:     stringField(header, "ship_via"),
			OrderNumber: stringField(header, "order_number"),
			Salesperson: stringField(header, "salesperson"),
		},
		Customer: core.CustomerInfo{
			Name:         stringField(customer, "name"),
			Organization: stringField(customer, "organization"),
		},
		LineItems: lineItemsFromRecords(itemRecords(object)),
		Totals:    canonicalTotals(subObject(object, fieldTotals)),
	}

	if lines, isList := customer["address"].([]any); isList {
		for _, line := range lines {
			quote.Customer.Address = append(quote.Customer.Address, extract.NormalizeValue(line))
		}
	}
	return quote
}

// legacyQuote interprets a wrapper object carrying the legacy marker:
// the line-items collection is taken directly, everything else goes
// through the legacy vocabulary mapping shared with the tolerant
// extractor.
func legacyQuote(object map[string]any, quoteNumber string) *core.CanonicalQuote {
	meta := subObject(object, extract.SectionMeta)

	if embedded := extract.QuoteNumberFromMeta(meta); embedded != "" {
		quoteNumber = embedded
	}

	return &core.CanonicalQuote{
		QuoteNumber: quoteNumber,
		Header:      extract.HeaderFromSections(meta, subObject(object, extract.SectionQuoteDetail)),
		Customer:    extract.CustomerFromSection(subObject(object, extract.SectionInvoicedTo)),
		LineItems:   lineItemsFromRecords(itemRecords(object)),
		Totals:      extract.TotalsFromSection(subObject(object, extract.SectionTotals)),
	}
}

func canonicalTotals(totals map[string]any) core.Totals {
	return extract.TotalsFromSection(map[string]any{
		"Sub Total": totals["subtotal"],
		"Tax":       totals["tax"],
		"Shipping":  totals["shipping"],
		"Total":     totals["total"],
	})
}

func subObject(object map[string]any, key string) map[string]any {
	if sub, isObject := object[key].(map[string]any); isObject {
		return sub
	}
	return map[string]any{}
}
