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
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/quotesync/core"
	"github.com/poiesic/quotesync/extract"
)

// FilenameTag is the fixed literal an export file stem must start with:
// QUOTE_<identifier>_... .
const FilenameTag = "QUOTE"

// RawExport is an immutable byte buffer read from a single export file,
// together with the provisional quote number derived from its filename.
type RawExport struct {
	Path        string
	QuoteNumber string
	Content     []byte
}

// QuoteNumberFromFilename derives the provisional quote number from an
// export filename. The stem is split on underscores; the first segment
// must equal FilenameTag and the second is the identifier. Any other
// shape is a routing failure.
func QuoteNumberFromFilename(path string) (string, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(stem, "_")
	if len(parts) >= 2 && parts[0] == FilenameTag && parts[1] != "" {
		return parts[1], nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnroutableFilename, base)
}

// ReadExport derives the provisional quote number and reads the file.
func ReadExport(path string) (*RawExport, error) {
	quoteNumber, err := QuoteNumberFromFilename(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export %s: %w", path, err)
	}

	return &RawExport{Path: path, QuoteNumber: quoteNumber, Content: content}, nil
}

// Router routes a RawExport to the extraction strategy matching its
// shape and produces a CanonicalQuote or a definitive failure.
type Router struct {
	extractor *extract.Extractor
	repair    *RepairRunner
	logger    *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithRepair installs the external repair pass, applied to content
// before each parse attempt. Without it no repair is attempted.
func WithRepair(runner *RepairRunner) Option {
	return func(r *Router) {
		r.repair = runner
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRouter creates a Router.
func NewRouter(opts ...Option) *Router {
	r := &Router{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	r.extractor = extract.NewExtractor(extract.WithLogger(r.logger))
	return r
}

// Route produces a CanonicalQuote from a raw export, along with the
// content the quote was actually derived from: the repaired bytes,
// and for redirect stubs the resolved target's bytes. Callers that
// fingerprint a routed export must use the returned content, since the
// stub's own bytes stay constant while the target changes underneath.
//
// The content-embedded quote number, when present, silently overrides
// the filename-derived one. The returned quote always satisfies
// core.ValidatePublishable.
func (r *Router) Route(ctx context.Context, export *RawExport) (*core.CanonicalQuote, []byte, error) {
	content := export.Content
	if r.repair != nil {
		content = r.repair.Repair(ctx, export.Path, content)
	}

	quoteNumber := export.QuoteNumber
	doc := detectShape(content)

	if doc.shape == shapeRedirect {
		if doc.quoteNumber != "" {
			quoteNumber = doc.quoteNumber
		}

		target := doc.redirectPath
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(export.Path), target)
		}
		r.logger.Info("following redirect", "quote", quoteNumber, "target", target)

		targetContent, err := os.ReadFile(target)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrRedirectTarget, target, err)
		}
		if r.repair != nil {
			targetContent = r.repair.Repair(ctx, target, targetContent)
		}

		content = targetContent
		doc = detectShape(content)
		if doc.shape == shapeRedirect {
			return nil, nil, fmt.Errorf("%w: %s", ErrRedirectLoop, target)
		}
	}

	quote, err := r.dispatch(doc, quoteNumber, content)
	if err != nil {
		return nil, nil, err
	}
	if quote.QuoteNumber == "" {
		quote.QuoteNumber = quoteNumber
	}

	if err := core.ValidatePublishable(quote); err != nil {
		return nil, nil, err
	}
	return quote, content, nil
}

// dispatch applies the handler for the detected shape. Every shape has
// exactly one arm here; the compiler flags a new shape constant that is
// used without one only if this switch stays exhaustive, so keep it so.
func (r *Router) dispatch(doc *document, quoteNumber string, content []byte) (*core.CanonicalQuote, error) {
	switch doc.shape {
	case shapeCanonical:
		if doc.quoteNumber != "" {
			quoteNumber = doc.quoteNumber
		}
		r.logger.Debug("routing canonical document", "quote", quoteNumber)
		return canonicalQuote(doc.object, quoteNumber), nil

	case shapeLegacy:
		r.logger.Debug("routing legacy document", "quote", quoteNumber)
		return legacyQuote(doc.object, quoteNumber), nil

	case shapeFlat:
		r.logger.Debug("routing flat item list", "quote", quoteNumber, "items", len(doc.records))
		return &core.CanonicalQuote{
			QuoteNumber: quoteNumber,
			LineItems:   lineItemsFromRecords(doc.records),
		}, nil

	case shapeMalformed:
		r.logger.Info("document malformed, using tolerant extraction", "quote", quoteNumber)
		return r.extractor.Extract(content)

	case shapeRedirect:
		// Route resolves redirects before dispatching.
		return nil, fmt.Errorf("%w: unresolved redirect", ErrRedirectLoop)

	default:
		return nil, fmt.Errorf("unhandled document shape %d", doc.shape)
	}
}
