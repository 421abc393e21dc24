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

import "errors"

// Domain validation errors
var (
	// ErrInvalidQuote indicates a CanonicalQuote failed validation.
	ErrInvalidQuote = errors.New("invalid quote")

	// ErrNoLineItems indicates an extraction recovered zero line items.
	// A quote with no line items is never publishable.
	ErrNoLineItems = errors.New("no line items recovered")

	// ErrEmptyQuoteNumber indicates the quote number is empty.
	ErrEmptyQuoteNumber = errors.New("quote number cannot be empty")
)
