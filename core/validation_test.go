package core

import (
	"errors"
	"testing"
)

func TestValidatePublishable(t *testing.T) {
	quote := &CanonicalQuote{
		QuoteNumber: "12345",
		LineItems: []LineItem{
			{Quantity: "2", PartNumber: "WID-100", Description: "Widget", UnitPrice: "10.00", ExtPrice: "20.00", Type: "P"},
		},
	}

	if err := ValidatePublishable(quote); err != nil {
		t.Fatalf("Expected valid quote, got %v", err)
	}
}

func TestValidatePublishableNil(t *testing.T) {
	err := ValidatePublishable(nil)
	if !errors.Is(err, ErrInvalidQuote) {
		t.Fatalf("Expected ErrInvalidQuote, got %v", err)
	}
}

func TestValidatePublishableEmptyQuoteNumber(t *testing.T) {
	quote := &CanonicalQuote{
		LineItems: []LineItem{{Description: "Widget"}},
	}

	err := ValidatePublishable(quote)
	if !errors.Is(err, ErrEmptyQuoteNumber) {
		t.Fatalf("Expected ErrEmptyQuoteNumber, got %v", err)
	}
}

func TestValidatePublishableNoLineItems(t *testing.T) {
	quote := &CanonicalQuote{QuoteNumber: "12345"}

	err := ValidatePublishable(quote)
	if !errors.Is(err, ErrNoLineItems) {
		t.Fatalf("Expected ErrNoLineItems, got %v", err)
	}

	quote.LineItems = []LineItem{}
	err = ValidatePublishable(quote)
	if !errors.Is(err, ErrNoLineItems) {
		t.Fatalf("Expected ErrNoLineItems for empty slice, got %v", err)
	}
}

func TestEmptyLineItemFieldsAreValid(t *testing.T) {
	// The legacy export omits arbitrary fields; empty strings are
	// preserved, not rejected.
	quote := &CanonicalQuote{
		QuoteNumber: "99001",
		LineItems:   []LineItem{{Quantity: "", PartNumber: "", Description: "Freight", UnitPrice: "", ExtPrice: "", Type: ""}},
	}

	if err := ValidatePublishable(quote); err != nil {
		t.Fatalf("Expected valid quote, got %v", err)
	}
}
