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


// Package storage defines the sync-ledger repository contract and the
// binary serialization of ledger records.
//
// The ledger records every successful publish so operators can answer
// "when did quote N last sync, and to which sheet" without trawling
// logs, and so re-deliveries of unchanged content are visible by
// digest. Implementations live in subpackages (see storage/badger).
package storage
