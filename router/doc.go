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


// Package router decides, per export file, which extraction strategy
// applies and produces a canonical quote record.
//
// An export file arrives in one of five shapes:
//   - canonical: a well-formed document with a line_items collection
//   - legacy: well-formed, line_items plus a filepro_version marker;
//     the remaining fields use the legacy metadata vocabulary
//   - flat: a bare array of line-item records with no wrapper object
//   - redirect: a small document whose redirect field points at the
//     file holding the real content
//   - malformed: text that fails whole-document parsing and is handed
//     to the tolerant extractor
//
// Shape detection is a tagged variant with one handler per shape, so
// adding a shape without a handler is a compile-time hole rather than a
// silently skipped conditional.
package router
