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
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseQuantity normalizes a quantity value. All-digit input is kept as
// an integer string, anything else is parsed as a decimal. Input that
// is neither degrades to the empty string; quantities never fail a
// record.
func ParseQuantity(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if allDigits(s) {
		return s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return ""
	}
	return d.String()
}

// ParsePrice normalizes a price value. The value is accepted only when,
// ignoring one leading sign and one decimal point, it is entirely
// digits; anything else (e.g. "--12.3.4") degrades to the empty string.
func ParsePrice(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	t := s
	if t[0] == '-' || t[0] == '+' {
		t = t[1:]
	}
	t = strings.Replace(t, ".", "", 1)
	if !allDigits(t) {
		return ""
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return ""
	}
	return d.String()
}

// NormalizeValue renders a decoded JSON value as a string without
// interpreting it. Numbers keep their source representation when
// decoded with json.Decoder.UseNumber; null becomes the empty string.
func NormalizeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
