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


// Package publish writes canonical quote records to Google Sheets.
//
// The Publisher contract is deliberately narrow: a quote identifier, an
// ordered table of rows with column headers, and optional structured
// metadata go in; a spreadsheet URL comes out. Create-or-update
// semantics are keyed by the derived document name "<prefix> <number>"
// within a Drive folder. Presentation formatting is applied
// best-effort; a formatting failure never fails a publish.
package publish
