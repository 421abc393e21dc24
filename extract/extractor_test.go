package extract

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/quotesync/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// malformedExport builds a document in the broken legacy shape: named
// sections are individually valid, line items are loose siblings with
// no enclosing array, and the totals section has no commas between
// pairs.
func malformedExport(itemCount int) string {
	var b strings.Builder
	b.WriteString(`{
	"meta": {"QUOTE# :": "70211", "DATE": "01/24/2025"},
	"invoiced_to": {"lines": ["JANE DOE", "ACME CORP", "123 MAIN ST", "SPRINGFIELD IL 62701"]},
	"ship_to": {"lines": ["ACME CORP", "DOCK 4"]},
	"quote_detail": {"PURCHASE ORDER #": "PO-9931", "TERMS": "NET 30", "SHIP VIA": "UPS GROUND", "SALESPERSON": "RWB"},
	"entry_detail": {"ENTERED BY": "ops"},
`)
	for i := 0; i < itemCount; i++ {
		// Loose sibling objects with junk between them
		fmt.Fprintf(&b, "\tgarbage %d >>> {\"qty\": %d, \"part_number\": \"P-%03d\", \"description\": \"Widget %d\", \"unit_price\": 10.50, \"ext_price\": %0.2f, \"item_type\": \"P\"} <<<\n",
			i, i+1, i, i, float64(i+1)*10.50)
	}
	b.WriteString(`	"totals": {"Sub Total": 120.50 "Tax": null "Shipping": 9.99 "Total": 130.49}
}`)
	return b.String()
}

func TestExtractRecoversScatteredLineItems(t *testing.T) {
	for _, count := range []int{3, 7, 50} {
		doc := malformedExport(count)

		quote, err := NewExtractor().Extract([]byte(doc))
		require.NoError(t, err, "count=%d", count)
		require.Len(t, quote.LineItems, count)

		// Document order is preserved
		for i, item := range quote.LineItems {
			assert.Equal(t, fmt.Sprintf("P-%03d", i), item.PartNumber)
			assert.Equal(t, fmt.Sprintf("%d", i+1), item.Quantity)
			assert.Equal(t, "10.5", item.UnitPrice)
			assert.Equal(t, "P", item.Type)
		}
	}
}

func TestExtractHeaderAndCustomer(t *testing.T) {
	quote, err := NewExtractor().Extract([]byte(malformedExport(3)))
	require.NoError(t, err)

	assert.Equal(t, "70211", quote.QuoteNumber)
	assert.Equal(t, "01/24/2025", quote.Header.Date)
	assert.Equal(t, "PO-9931", quote.Header.PONumber)
	assert.Equal(t, "NET 30", quote.Header.Terms)
	assert.Equal(t, "UPS GROUND", quote.Header.ShipVia)
	assert.Equal(t, "RWB", quote.Header.Salesperson)

	assert.Equal(t, "JANE DOE", quote.Customer.Name)
	assert.Equal(t, "ACME CORP", quote.Customer.Organization)
	assert.Equal(t, []string{"123 MAIN ST", "SPRINGFIELD IL 62701"}, quote.Customer.Address)
}

func TestExtractTotalsWithoutSeparators(t *testing.T) {
	quote, err := NewExtractor().Extract([]byte(malformedExport(3)))
	require.NoError(t, err)

	assert.Equal(t, "120.5", quote.Totals.Subtotal.String())
	assert.True(t, quote.Totals.Tax.IsZero(), "null tax defaults to zero")
	assert.Equal(t, "9.99", quote.Totals.Shipping.String())
	assert.Equal(t, "130.49", quote.Totals.Total.String())
}

func TestExtractZeroLineItemsFails(t *testing.T) {
	doc := `{
	"meta": {"QUOTE# :": "70211"},
	"invoiced_to": {"lines": ["JANE DOE"]},
	"totals": {"Sub Total": 10.00}
}`

	quote, err := NewExtractor().Extract([]byte(doc))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNoLineItems))
	assert.Nil(t, quote, "zero line items is a failure, not an empty quote")
}

func TestExtractSectionFailureIsNonFatal(t *testing.T) {
	// meta never closes, invoiced_to is absent; both degrade to empty
	doc := `{
	"meta": {"QUOTE# :" "70211",
	{"qty": 1, "part_number": "A", "description": "Thing", "unit_price": 5, "ext_price": 5, "item_type": "P"}
`

	quote, err := NewExtractor().Extract([]byte(doc))
	require.NoError(t, err)
	require.Len(t, quote.LineItems, 1)
	assert.Empty(t, quote.QuoteNumber)
	assert.Empty(t, quote.Customer.Name)
}

func TestExtractUnparseablePriceDegrades(t *testing.T) {
	doc := `{"qty": 2, "part_number": "X-1", "description": "Broken price", "unit_price": "--12.3.4", "ext_price": "24.00", "item_type": "P"}`

	quote, err := NewExtractor().Extract([]byte(doc))
	require.NoError(t, err)
	require.Len(t, quote.LineItems, 1)
	assert.Equal(t, "", quote.LineItems[0].UnitPrice)
	assert.Equal(t, "24", quote.LineItems[0].ExtPrice)
}

func TestExtractBlankFieldsPreserved(t *testing.T) {
	doc := `{"qty": "", "part_number": "", "description": "Freight charge", "unit_price": null, "ext_price": 15.00, "item_type": ""}`

	quote, err := NewExtractor().Extract([]byte(doc))
	require.NoError(t, err)
	require.Len(t, quote.LineItems, 1)

	item := quote.LineItems[0]
	assert.Equal(t, "", item.Quantity)
	assert.Equal(t, "", item.PartNumber)
	assert.Equal(t, "Freight charge", item.Description)
	assert.Equal(t, "", item.UnitPrice)
	assert.Equal(t, "15", item.ExtPrice)
}

func TestExtractRejectsWrongKeyOrder(t *testing.T) {
	// Same six keys, wrong order: not a line item
	doc := `{"part_number": "X-1", "qty": 2, "description": "d", "unit_price": 1, "ext_price": 2, "item_type": "P"}`

	_, err := NewExtractor().Extract([]byte(doc))
	assert.True(t, errors.Is(err, core.ErrNoLineItems))
}
