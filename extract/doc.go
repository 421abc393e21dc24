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


// Package extract recovers canonical quote records from malformed
// FilePro export text.
//
// The legacy system emits documents where most top-level sections are
// individually well-formed JSON objects, but line items appear as loose
// sibling objects with no enclosing array, and the totals section drops
// separators between key/value pairs. Whole-document parsing fails on
// such files, so the Extractor isolates each known section with a small
// span scanner and parses it independently:
//   - named sections (meta, invoiced_to, ship_to, quote_detail,
//     entry_detail) are located by key and parsed in isolation; a
//     section that fails to parse degrades to an empty mapping
//   - the totals section is scanned for repeating label/value pairs
//     regardless of separator style
//   - line items are recognized anywhere in the document by their fixed
//     six-field object shape
//
// Only the complete absence of line items fails an extraction; every
// other recovery failure is local to its section.
package extract
