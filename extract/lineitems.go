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
)

// LineItemKeys is the fixed six-field object shape of a line item, in
// the exact order the legacy export writes it. An object is recognized
// as a line item only when its keys match this sequence completely.
var LineItemKeys = [6]string{"qty", "part_number", "description", "unit_price", "ext_price", "item_type"}

// recoverLineItems scans the whole document for standalone objects
// matching the line-item shape and returns them in document order. The
// items are not required to live inside an enclosing array; the legacy
// export emits them as loose siblings.
func recoverLineItems(doc string) []core.LineItem {
	var items []core.LineItem
	scanObjectSpans(doc, func(span string) bool {
		item, ok := lineItemFromSpan(span)
		if ok {
			items = append(items, item)
		}
		return ok
	})
	return items
}

// lineItemFromSpan decodes an object span and returns a LineItem when
// the span carries exactly the six line-item keys in order, each with a
// scalar value. Nested objects or arrays disqualify the span.
func lineItemFromSpan(span string) (core.LineItem, bool) {
	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return core.LineItem{}, false
	}
	if delim, isDelim := tok.(json.Delim); !isDelim || delim != '{' {
		return core.LineItem{}, false
	}

	values := make([]string, 0, len(LineItemKeys))
	for {
		tok, err = dec.Token()
		if err != nil {
			return core.LineItem{}, false
		}
		if delim, isDelim := tok.(json.Delim); isDelim {
			if delim == '}' {
				break
			}
			return core.LineItem{}, false
		}

		key, isString := tok.(string)
		if !isString || len(values) >= len(LineItemKeys) || key != LineItemKeys[len(values)] {
			return core.LineItem{}, false
		}

		value, err := dec.Token()
		if err != nil {
			return core.LineItem{}, false
		}
		if _, isDelim := value.(json.Delim); isDelim {
			return core.LineItem{}, false
		}
		values = append(values, NormalizeValue(value))
	}

	if len(values) != len(LineItemKeys) {
		return core.LineItem{}, false
	}
	return LineItemFromValues(values), true
}

// LineItemFromValues builds a LineItem from the six field values in
// LineItemKeys order, applying tolerant number handling: quantities and
// prices that fail to parse degrade to the empty string.
func LineItemFromValues(values []string) core.LineItem {
	return core.LineItem{
		Quantity:    ParseQuantity(values[0]),
		PartNumber:  values[1],
		Description: values[2],
		UnitPrice:   ParsePrice(values[3]),
		ExtPrice:    ParsePrice(values[4]),
		Type:        values[5],
	}
}
