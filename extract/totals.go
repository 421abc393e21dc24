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
	"github.com/shopspring/decimal"
)

// scanTotalsPairs scans a totals span for repeating label/value pairs:
// a quoted label optionally followed by a colon and a numeric or null
// value. The legacy export drops commas between pairs, so separators
// are not required. A label with no recognizable trailing value is
// recorded with a nil value rather than dropped. A nil entry means the
// label was present with no value.
func scanTotalsPairs(span string) map[string]*decimal.Decimal {
	pairs := make(map[string]*decimal.Decimal)

	i := 0
	for i < len(span) {
		if span[i] != '"' {
			i++
			continue
		}

		label, next, ok := readQuoted(span, i)
		if !ok {
			// Unterminated string, nothing more to recover
			break
		}
		i = next

		i = skipSpace(span, i)
		if i < len(span) && span[i] == ':' {
			i = skipSpace(span, i+1)
		}

		value, next, found := readTotalsValue(span, i)
		if found {
			i = next
		}
		pairs[label] = value
	}

	return pairs
}

// readQuoted reads a quoted string starting at the '"' at position i,
// returning its unescaped-enough contents and the index just past the
// closing quote. Escapes are honored for boundary purposes only; the
// raw label text between the quotes is returned as-is.
func readQuoted(s string, i int) (contents string, next int, ok bool) {
	start := i + 1
	escaped := false
	for j := start; j < len(s); j++ {
		switch {
		case escaped:
			escaped = false
		case s[j] == '\\':
			escaped = true
		case s[j] == '"':
			return s[start:j], j + 1, true
		}
	}
	return "", 0, false
}

// readTotalsValue attempts to read a numeric or null value at position
// i. found is false when the next token is not a recognizable value, in
// which case the scan position is left alone.
func readTotalsValue(s string, i int) (value *decimal.Decimal, next int, found bool) {
	if i >= len(s) {
		return nil, i, false
	}

	if len(s)-i >= 4 && s[i:i+4] == "null" {
		return nil, i + 4, true
	}

	if s[i] != '-' && s[i] != '+' && (s[i] < '0' || s[i] > '9') {
		return nil, i, false
	}

	j := i
	if s[j] == '-' || s[j] == '+' {
		j++
	}
	for j < len(s) && (s[j] == '.' || (s[j] >= '0' && s[j] <= '9')) {
		j++
	}

	d, err := decimal.NewFromString(s[i:j])
	if err != nil {
		// Consume the run so a garbage value does not re-trigger as a
		// label boundary, but record nothing for it.
		return nil, j, true
	}
	return &d, j, true
}
