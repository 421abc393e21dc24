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

import "strings"

// objectSpan returns the end index (exclusive) of the JSON object
// beginning at start, where doc[start] must be '{'. String and escape
// state is tracked so braces inside quoted values, and escaped quotes
// inside strings, do not terminate the span early. Nested objects are
// included in the span.
func objectSpan(doc string, start int) (end int, ok bool) {
	if start >= len(doc) || doc[start] != '{' {
		return 0, false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(doc); i++ {
		ch := doc[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}

	// Object never closed
	return 0, false
}

// sectionSpan locates the first occurrence of `"key"` followed by a
// colon and an object, and returns that object's text. The search is
// purely lexical: the surrounding document does not need to parse.
func sectionSpan(doc, key string) (span string, ok bool) {
	needle := `"` + key + `"`
	from := 0

	for {
		idx := strings.Index(doc[from:], needle)
		if idx < 0 {
			return "", false
		}

		i := from + idx + len(needle)
		i = skipSpace(doc, i)
		if i < len(doc) && doc[i] == ':' {
			i = skipSpace(doc, i+1)
			if i < len(doc) && doc[i] == '{' {
				if end, spanOK := objectSpan(doc, i); spanOK {
					return doc[i:end], true
				}
			}
		}

		from += idx + len(needle)
	}
}

// scanObjectSpans walks the document and yields the span of every
// object it can close, in document order. After a span is yielded the
// scan resumes past it, so nested objects inside a yielded span are not
// yielded again. An unclosed '{' is skipped.
func scanObjectSpans(doc string, yield func(span string) bool) {
	i := 0
	for i < len(doc) {
		if doc[i] != '{' {
			i++
			continue
		}

		end, ok := objectSpan(doc, i)
		if !ok {
			i++
			continue
		}

		if yield(doc[i:end]) {
			i = end
		} else {
			// Caller rejected the span; its children may still match.
			i++
		}
	}
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}
