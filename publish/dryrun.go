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


package publish

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// DryRunPublisher prints the table that would be published instead of
// writing to Google Sheets. Used by the CLI --dry-run mode.
type DryRunPublisher struct {
	Out io.Writer
}

var _ Publisher = (*DryRunPublisher)(nil)

func (p *DryRunPublisher) Publish(ctx context.Context, quoteNumber string, table *Table, meta *Metadata) (string, error) {
	fmt.Fprintf(p.Out, "QUOTATION #%s (%d line items)\n", quoteNumber, len(table.Rows))

	w := tabwriter.NewWriter(p.Out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(table.Columns, "\t"))
	for _, row := range table.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return "", err
	}

	if meta != nil {
		fmt.Fprintf(p.Out, "Sub Total %s  Tax %s  Shipping %s  Total %s\n",
			meta.Totals.Subtotal, meta.Totals.Tax, meta.Totals.Shipping, meta.Totals.Total)
	}
	return "dry-run://quote/" + quoteNumber, nil
}
