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
	"strings"

	"github.com/poiesic/quotesync/core"
	"github.com/shopspring/decimal"
)

// The FilePro vocabulary drifted across releases: the same field shows
// up under different labels, with and without trailing colons. Each
// canonical field therefore tries a fixed list of source labels in
// order and takes the first hit.
var (
	dateLabels        = []string{"DATE", "QUOTE DATE", "Date"}
	poNumberLabels    = []string{"PURCHASE ORDER #", "PO NUMBER", "PO#"}
	termsLabels       = []string{"TERMS", "Terms"}
	shipViaLabels     = []string{"SHIP VIA", "SHIPVIA", "Ship Via"}
	orderNumberLabels = []string{"ORDER #", "ORDER NUMBER"}
	salespersonLabels = []string{"SALESPERSON", "SALESMAN", "SLSMN"}

	subtotalLabels = []string{"Sub Total", "Sub Total:", "Subtotal"}
	taxLabels      = []string{"Tax", "Tax:", "Sales Tax"}
	shippingLabels = []string{"Shipping", "Shipping:", "Freight"}
	totalLabels    = []string{"Total", "Total:", "Grand Total"}
)

// quoteNumberMarker identifies the meta label carrying the quote
// number; the exact label varies ("QUOTE#", "QUOTE# :", ...) but always
// contains this substring.
const quoteNumberMarker = "QUOTE#"

// customerLineKeys are the keys under which the invoiced_to section
// carries its ordered free-text lines.
var customerLineKeys = []string{"lines", "address"}

// QuoteNumberFromMeta returns the content-embedded quote number from a
// recovered meta section, or "" when none is present.
func QuoteNumberFromMeta(meta map[string]any) string {
	for key, value := range meta {
		if strings.Contains(strings.ToUpper(key), quoteNumberMarker) {
			return strings.TrimSpace(NormalizeValue(value))
		}
	}
	return ""
}

// HeaderFromSections builds a QuoteHeader from the recovered meta and
// quote_detail sections. quote_detail wins when both carry a label.
func HeaderFromSections(meta, quoteDetail map[string]any) core.QuoteHeader {
	sections := []map[string]any{quoteDetail, meta}
	return core.QuoteHeader{
		Date:        lookupLabel(sections, dateLabels),
		PONumber:    lookupLabel(sections, poNumberLabels),
		Terms:       lookupLabel(sections, termsLabels),
		ShipVia:     lookupLabel(sections, shipViaLabels),
		OrderNumber: lookupLabel(sections, orderNumberLabels),
		Salesperson: lookupLabel(sections, salespersonLabels),
	}
}

// CustomerFromSection builds CustomerInfo from the recovered
// invoiced_to section. The section carries an ordered list of free-text
// lines: first is the billing name, second the organization, and the
// remainder are address lines.
func CustomerFromSection(invoicedTo map[string]any) core.CustomerInfo {
	var lines []string
	for _, key := range customerLineKeys {
		raw, found := invoicedTo[key]
		if !found {
			continue
		}
		list, isList := raw.([]any)
		if !isList {
			continue
		}
		for _, entry := range list {
			lines = append(lines, NormalizeValue(entry))
		}
		break
	}

	customer := core.CustomerInfo{}
	if len(lines) > 0 {
		customer.Name = lines[0]
	}
	if len(lines) > 1 {
		customer.Organization = lines[1]
	}
	if len(lines) > 2 {
		customer.Address = lines[2:]
	}
	return customer
}

// TotalsFromPairs maps recovered totals labels onto the canonical
// financial summary. A missing or null label defaults to zero.
func TotalsFromPairs(pairs map[string]*decimal.Decimal) core.Totals {
	return core.Totals{
		Subtotal: totalsLookup(pairs, subtotalLabels),
		Tax:      totalsLookup(pairs, taxLabels),
		Shipping: totalsLookup(pairs, shippingLabels),
		Total:    totalsLookup(pairs, totalLabels),
	}
}

// TotalsFromSection adapts a totals section that parsed as ordinary
// JSON (numbers and nulls) to the same label lookup used for scanned
// pairs.
func TotalsFromSection(section map[string]any) core.Totals {
	pairs := make(map[string]*decimal.Decimal, len(section))
	for label, raw := range section {
		switch value := raw.(type) {
		case float64:
			d := decimal.NewFromFloat(value)
			pairs[label] = &d
		case json.Number:
			if d, err := decimal.NewFromString(value.String()); err == nil {
				pairs[label] = &d
			} else {
				pairs[label] = nil
			}
		case string:
			if d, err := decimal.NewFromString(value); err == nil {
				pairs[label] = &d
			} else {
				pairs[label] = nil
			}
		default:
			pairs[label] = nil
		}
	}
	return TotalsFromPairs(pairs)
}

func lookupLabel(sections []map[string]any, labels []string) string {
	for _, section := range sections {
		for _, label := range labels {
			if raw, found := section[label]; found {
				return strings.TrimSpace(NormalizeValue(raw))
			}
		}
	}
	return ""
}

func totalsLookup(pairs map[string]*decimal.Decimal, labels []string) decimal.Decimal {
	for _, label := range labels {
		if d, found := pairs[label]; found && d != nil {
			return *d
		}
	}
	return decimal.Zero
}
