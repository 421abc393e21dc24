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
	"bytes"
	"encoding/json"
)

// shape tags the structural variant of an export document.
type shape int

const (
	shapeMalformed shape = iota
	shapeRedirect
	shapeLegacy
	shapeCanonical
	shapeFlat
)

// Top-level field names the detector branches on.
const (
	fieldRedirect     = "redirect"
	fieldQuoteNumber  = "quote_number"
	fieldLineItems    = "line_items"
	fieldLegacyMarker = "filepro_version"
)

// document is a detected export document. Only the fields belonging to
// the detected shape are populated.
type document struct {
	shape shape

	// redirect shape
	redirectPath string

	// quote number embedded in the content (redirect, legacy)
	quoteNumber string

	// canonical and legacy shapes
	object map[string]any

	// flat shape
	records []map[string]any
}

// detectShape classifies raw content into exactly one shape. Content
// that fails whole-document parsing, or parses to something with
// neither a redirect field nor a recognizable line-items collection, is
// malformed.
func detectShape(content []byte) *document {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return &document{shape: shapeMalformed}
	}

	switch value := raw.(type) {
	case map[string]any:
		return detectObjectShape(value)
	case []any:
		return detectFlatShape(value)
	default:
		return &document{shape: shapeMalformed}
	}
}

func detectObjectShape(object map[string]any) *document {
	if target, found := object[fieldRedirect]; found {
		path, isString := target.(string)
		if isString && path != "" {
			return &document{
				shape:        shapeRedirect,
				redirectPath: path,
				quoteNumber:  stringField(object, fieldQuoteNumber),
			}
		}
	}

	items, found := object[fieldLineItems]
	if _, isList := items.([]any); !found || !isList {
		return &document{shape: shapeMalformed}
	}

	doc := &document{
		object:      object,
		quoteNumber: stringField(object, fieldQuoteNumber),
	}
	if _, legacy := object[fieldLegacyMarker]; legacy {
		doc.shape = shapeLegacy
	} else {
		doc.shape = shapeCanonical
	}
	return doc
}

func detectFlatShape(list []any) *document {
	records := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		record, isObject := entry.(map[string]any)
		if !isObject {
			return &document{shape: shapeMalformed}
		}
		records = append(records, record)
	}
	return &document{shape: shapeFlat, records: records}
}

func stringField(object map[string]any, key string) string {
	if value, found := object[key]; found {
		if s, isString := value.(string); isString {
			return s
		}
		if n, isNumber := value.(json.Number); isNumber {
			return n.String()
		}
	}
	return ""
}
