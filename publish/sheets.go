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
	"log/slog"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsConfig configures the Google Sheets publisher.
type SheetsConfig struct {
	// CredentialsFile is the OAuth client secret JSON file.
	CredentialsFile string

	// TokenFile is the stored user token JSON file.
	TokenFile string

	// FolderID is the Drive folder that holds the quote spreadsheets.
	FolderID string

	// SheetPrefix prefixes the derived document name:
	// "<prefix> <quote_number>". Default "Quote".
	SheetPrefix string
}

// SheetsPublisher implements Publisher against the Google Sheets and
// Drive APIs.
type SheetsPublisher struct {
	sheets   *sheets.Service
	drive    *drive.Service
	folderID string
	prefix   string
	logger   *slog.Logger
}

var _ Publisher = (*SheetsPublisher)(nil)

// NewSheetsPublisher authenticates and builds the API services.
func NewSheetsPublisher(ctx context.Context, config SheetsConfig, logger *slog.Logger) (*SheetsPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.SheetPrefix == "" {
		config.SheetPrefix = "Quote"
	}

	client, err := newOAuthClient(ctx, config.CredentialsFile, config.TokenFile, logger)
	if err != nil {
		return nil, err
	}

	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("creating Sheets service: %w", err)
	}
	driveService, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("creating Drive service: %w", err)
	}

	logger.Info("Google Sheets publisher initialized", "folder", config.FolderID)
	return &SheetsPublisher{
		sheets:   sheetsService,
		drive:    driveService,
		folderID: config.FolderID,
		prefix:   config.SheetPrefix,
		logger:   logger,
	}, nil
}

// Publish creates or updates the spreadsheet named after the quote and
// writes the full cell grid in one batch. The spreadsheet URL is
// returned on success.
func (p *SheetsPublisher) Publish(ctx context.Context, quoteNumber string, table *Table, meta *Metadata) (string, error) {
	name := p.prefix + " " + quoteNumber

	spreadsheetID, err := p.findSpreadsheet(ctx, name)
	if err != nil {
		return "", err
	}

	if spreadsheetID == "" {
		p.logger.Info("creating new sheet", "name", name)
		spreadsheetID, err = p.createSpreadsheet(ctx, name)
		if err != nil {
			return "", err
		}
	} else {
		p.logger.Info("updating existing sheet", "name", name)
		clearReq := p.sheets.Spreadsheets.Values.Clear(spreadsheetID, "A1:Z10000", &sheets.ClearValuesRequest{})
		if _, err := clearReq.Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("clearing sheet %s: %w", name, err)
		}
	}

	rows, headerRow := buildSheetRows(quoteNumber, table, meta, time.Now())
	valueRange := &sheets.ValueRange{Values: rows}
	updateReq := p.sheets.Spreadsheets.Values.Update(spreadsheetID, fmt.Sprintf("A1:Z%d", len(rows)), valueRange)
	if _, err := updateReq.ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("writing sheet %s: %w", name, err)
	}

	// Presentation only; never fails the publish
	if err := p.applyFormatting(ctx, spreadsheetID, headerRow, len(table.Columns)); err != nil {
		p.logger.Warn("error applying formatting", "name", name, "err", err)
	}

	p.logger.Info("successfully synced quotation", "quote", quoteNumber)
	return "https://docs.google.com/spreadsheets/d/" + spreadsheetID, nil
}

// findSpreadsheet looks the derived document name up within the target
// folder. Returns "" when no spreadsheet with that name exists yet.
func (p *SheetsPublisher) findSpreadsheet(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf(
		"name = '%s' and '%s' in parents and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`), p.folderID)

	list, err := p.drive.Files.List().Q(query).Fields("files(id, name)").PageSize(5).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("searching for sheet %q: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

// createSpreadsheet creates a new spreadsheet and moves it into the
// target folder (the API always creates in the Drive root).
func (p *SheetsPublisher) createSpreadsheet(ctx context.Context, name string) (string, error) {
	created, err := p.sheets.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: name},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("creating sheet %q: %w", name, err)
	}

	move := p.drive.Files.Update(created.SpreadsheetId, nil).AddParents(p.folderID).RemoveParents("root")
	if _, err := move.Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("moving sheet %q into folder: %w", name, err)
	}
	return created.SpreadsheetId, nil
}

// applyFormatting applies the banner, header band, frozen rows and
// column auto-sizing in one batch.
func (p *SheetsPublisher) applyFormatting(ctx context.Context, spreadsheetID string, headerRow, columns int) error {
	bold := &sheets.TextFormat{Bold: true}

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{SheetId: 0, StartRowIndex: 0, EndRowIndex: 2, StartColumnIndex: 0, EndColumnIndex: 2},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor:     &sheets.Color{Red: 0.12, Green: 0.31, Blue: 0.47},
						TextFormat:          &sheets.TextFormat{Bold: true, ForegroundColor: &sheets.Color{Red: 1, Green: 1, Blue: 1}},
						HorizontalAlignment: "LEFT",
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat,horizontalAlignment)",
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{SheetId: 0, StartRowIndex: int64(headerRow), EndRowIndex: int64(headerRow + 1)},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor:     &sheets.Color{Red: 0.84, Green: 0.91, Blue: 0.94},
						TextFormat:          bold,
						HorizontalAlignment: "CENTER",
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat,horizontalAlignment)",
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        0,
					GridProperties: &sheets.GridProperties{FrozenRowCount: int64(headerRow + 1)},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{SheetId: 0, Dimension: "COLUMNS", StartIndex: 0, EndIndex: int64(columns)},
			},
		},
	}

	batch := &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}
	_, err := p.sheets.Spreadsheets.BatchUpdate(spreadsheetID, batch).Context(ctx).Do()
	return err
}
