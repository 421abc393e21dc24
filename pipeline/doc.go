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


// Package pipeline wires routing, publishing, the sync ledger,
// notification and archival into a single per-file processing run.
//
// Failure policy: a routing or publishing failure aborts the run and
// leaves the source file in place for a retry. Ledger, notification
// and archival failures after a successful publish are logged but do
// not fail the run, since the spreadsheet already reflects the quote.
package pipeline
