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


package core

import "fmt"

// ValidatePublishable validates a CanonicalQuote before publishing.
//
// Validation rules:
//   - QuoteNumber must not be empty
//   - LineItems must be non-empty
//
// NOT validated (empty is a preserved sentinel, see LineItem):
//   - Header, Customer, Totals fields
//   - individual LineItem fields
func ValidatePublishable(quote *CanonicalQuote) error {
	if quote == nil {
		return fmt.Errorf("%w: quote is nil", ErrInvalidQuote)
	}

	if quote.QuoteNumber == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuote, ErrEmptyQuoteNumber)
	}

	if len(quote.LineItems) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidQuote, ErrNoLineItems)
	}

	return nil
}
