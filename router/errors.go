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

import "errors"

var (
	// ErrUnroutableFilename indicates a filename the quote identifier
	// cannot be derived from.
	ErrUnroutableFilename = errors.New("cannot derive quote number from filename")

	// ErrRedirectTarget indicates a redirect document whose target file
	// does not exist or cannot be read.
	ErrRedirectTarget = errors.New("redirect target unavailable")

	// ErrRedirectLoop indicates a redirect document pointing at another
	// redirect document.
	ErrRedirectLoop = errors.New("redirect points at another redirect")
)
