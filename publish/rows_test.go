package publish

import (
	"testing"
	"time"

	"github.com/poiesic/quotesync/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuote() *core.CanonicalQuote {
	return &core.CanonicalQuote{
		QuoteNumber: "70211",
		Header:      core.QuoteHeader{PONumber: "PO-9931", Terms: "NET 30"},
		Customer:    core.CustomerInfo{Name: "JANE DOE", Organization: "ACME", Address: []string{"123 MAIN ST"}},
		LineItems: []core.LineItem{
			{Quantity: "2", PartNumber: "P-1", Description: "Widget", UnitPrice: "10.5", ExtPrice: "21", Type: "P"},
			{Quantity: "", PartNumber: "", Description: "Freight", UnitPrice: "", ExtPrice: "15", Type: ""},
		},
		Totals: core.Totals{
			Subtotal: decimal.RequireFromString("36"),
			Total:    decimal.RequireFromString("36"),
		},
	}
}

func TestTableFromQuote(t *testing.T) {
	table := TableFromQuote(sampleQuote())

	assert.Equal(t, []string{"Qty", "Part Number", "Description", "Unit Price", "Ext Price", "Type"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"2", "P-1", "Widget", "10.5", "21", "P"}, table.Rows[0])
	// Empty sentinels become empty cells, not dropped columns
	assert.Equal(t, []string{"", "", "Freight", "", "15", ""}, table.Rows[1])
}

func TestBuildSheetRows(t *testing.T) {
	quote := sampleQuote()
	table := TableFromQuote(quote)
	meta := MetadataFromQuote(quote)
	now := time.Date(2025, 1, 24, 10, 0, 0, 0, time.UTC)

	rows, headerRow := buildSheetRows(quote.QuoteNumber, table, meta, now)

	assert.Equal(t, []any{"QUOTATION", "#70211"}, rows[0])
	assert.Equal(t, []any{"Date", "2025-01-24"}, rows[1])

	// The header row index points at the column headers
	assert.Equal(t, []any{"Qty", "Part Number", "Description", "Unit Price", "Ext Price", "Type"}, rows[headerRow])
	assert.Equal(t, []any{"2", "P-1", "Widget", "10.5", "21", "P"}, rows[headerRow+1])

	// Totals block at the end
	last := rows[len(rows)-1]
	assert.Equal(t, []any{"Total", "36"}, last)
}

func TestBuildSheetRowsWithoutMetadata(t *testing.T) {
	quote := sampleQuote()
	table := TableFromQuote(quote)

	rows, headerRow := buildSheetRows(quote.QuoteNumber, table, nil, time.Now())

	// banner(2) + blank(1) puts headers at index 3
	assert.Equal(t, 3, headerRow)
	// no totals block without metadata
	assert.Len(t, rows, 3+1+len(table.Rows))
}

func TestMetadataRowsSkipBlankFields(t *testing.T) {
	meta := &Metadata{Header: core.QuoteHeader{Terms: "COD"}}

	rows := metadataRows(meta)
	require.Len(t, rows, 1)
	assert.Equal(t, []any{"Terms", "COD"}, rows[0])
}
