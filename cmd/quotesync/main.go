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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/quotesync/config"
	"github.com/poiesic/quotesync/notify"
	"github.com/poiesic/quotesync/pipeline"
	"github.com/poiesic/quotesync/publish"
	"github.com/poiesic/quotesync/router"
	"github.com/poiesic/quotesync/storage/badger"
	"github.com/poiesic/quotesync/watch"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "quotesync",
		Usage: "Sync quotation exports to Google Sheets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "watch",
				Usage:  "Watch the export directory and sync new files as they appear",
				Action: watchCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "backfill",
						Usage: "Process files already in the export directory before watching",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Print the rendered table instead of writing to Google Sheets",
					},
				},
			},
			{
				Name:      "process",
				Usage:     "Process a single export file",
				ArgsUsage: "FILE",
				Action:    processCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Print the rendered table instead of writing to Google Sheets",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Publish even if the ledger shows the content unchanged",
					},
				},
			},
			{
				Name:   "backfill",
				Usage:  "Process every matching file in the export directory, then exit",
				Action: backfillCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Print the rendered tables instead of writing to Google Sheets",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Publish even if the ledger shows the content unchanged",
					},
				},
			},
			{
				Name:   "oauth-setup",
				Usage:  "Authorize Google Sheets access and store the OAuth token",
				Action: oauthSetupCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "credentials",
						Usage: "OAuth client secret file (overrides sheets.credentials_file)",
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "Token output file (overrides sheets.token_file)",
					},
				},
			},
			{
				Name:   "history",
				Usage:  "List recorded syncs from the ledger",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "since",
						Usage: "Only show syncs within this lookback window (e.g. 72h)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records to show (0 = all)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func watchCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	dryRun := c.Bool("dry-run")
	if err := cfg.Validate(dryRun); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, cleanup, err := buildPipeline(ctx, cfg, dryRun, false)
	if err != nil {
		return err
	}
	defer cleanup()

	watcher := watch.NewWatcher(cfg.Watch.ExportDir, cfg.Watch.Pattern, p,
		watch.WithSettleDelay(cfg.Watch.SettleDelay))

	if c.Bool("backfill") {
		count, err := watcher.Backfill(ctx)
		if err != nil {
			return err
		}
		slog.Info("backfill complete", "processed", count)
	}

	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	slog.Info("shutting down")
	return nil
}

func processCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one FILE argument")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	// A single file run does not need watch.export_dir, only the
	// Sheets credentials when actually publishing.
	dryRun := c.Bool("dry-run")
	if !dryRun {
		if cfg.Sheets.CredentialsFile == "" || cfg.Sheets.TokenFile == "" || cfg.Sheets.FolderID == "" {
			return fmt.Errorf("sheets credentials_file, token_file and folder_id must be configured (or use --dry-run)")
		}
	}

	ctx := context.Background()
	p, cleanup, err := buildPipeline(ctx, cfg, dryRun, c.Bool("force"))
	if err != nil {
		return err
	}
	defer cleanup()

	return p.Process(ctx, c.Args().First())
}

func backfillCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	dryRun := c.Bool("dry-run")
	if err := cfg.Validate(dryRun); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, cleanup, err := buildPipeline(ctx, cfg, dryRun, c.Bool("force"))
	if err != nil {
		return err
	}
	defer cleanup()

	watcher := watch.NewWatcher(cfg.Watch.ExportDir, cfg.Watch.Pattern, p,
		watch.WithSettleDelay(0))
	count, err := watcher.Backfill(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Processed %d file(s)\n", count)
	return nil
}

func oauthSetupCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	credentials := c.String("credentials")
	if credentials == "" {
		credentials = cfg.Sheets.CredentialsFile
	}
	tokenFile := c.String("token")
	if tokenFile == "" {
		tokenFile = cfg.Sheets.TokenFile
	}
	if credentials == "" || tokenFile == "" {
		return fmt.Errorf("credentials and token paths must be set via flags or sheets config")
	}

	return publish.RunOAuthSetup(context.Background(), credentials, tokenFile, os.Stdin, os.Stdout)
}

func historyCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if cfg.Ledger.Path == "" {
		return fmt.Errorf("no ledger configured (set ledger.path)")
	}

	backend, err := badger.OpenBackend(cfg.Ledger.Path, false)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer backend.Close()

	ledger, err := badger.NewLedgerRepository(backend)
	if err != nil {
		return err
	}
	defer ledger.Close()

	var since time.Time
	if lookback := c.Duration("since"); lookback > 0 {
		since = time.Now().Add(-lookback)
	}

	records, err := ledger.History(context.Background(), since, c.Int("limit"))
	if err != nil {
		return err
	}

	for _, record := range records {
		fmt.Printf("%s  quote %-10s  %2d items  %s  %s\n",
			record.PublishedAt.Format(time.RFC3339), record.QuoteNumber,
			record.LineItems, record.SourceFile, record.SheetURL)
	}
	fmt.Fprintf(os.Stderr, "%d record(s)\n", len(records))
	return nil
}

// buildPipeline assembles the processing pipeline from the loaded
// configuration. The returned cleanup closes the pipeline and any
// ledger backend it opened.
func buildPipeline(ctx context.Context, cfg *config.Config, dryRun, force bool) (*pipeline.Pipeline, func(), error) {
	var opts []router.Option
	if cfg.Repair.Command != "" {
		opts = append(opts, router.WithRepair(
			router.NewRepairRunner(cfg.Repair.Command, cfg.Repair.Timeout, slog.Default())))
	}
	rt := router.NewRouter(opts...)

	var publisher publish.Publisher
	if dryRun {
		publisher = &publish.DryRunPublisher{Out: os.Stdout}
	} else {
		sheetsPublisher, err := publish.NewSheetsPublisher(ctx, publish.SheetsConfig{
			CredentialsFile: cfg.Sheets.CredentialsFile,
			TokenFile:       cfg.Sheets.TokenFile,
			FolderID:        cfg.Sheets.FolderID,
			SheetPrefix:     cfg.Sheets.SheetPrefix,
		}, slog.Default())
		if err != nil {
			return nil, nil, err
		}
		publisher = sheetsPublisher
	}

	pipelineOpts := []pipeline.Option{pipeline.WithForce(force)}

	var backend *badger.Backend
	if cfg.Ledger.Path != "" && !dryRun {
		var err error
		backend, err = badger.OpenBackend(cfg.Ledger.Path, false)
		if err != nil {
			return nil, nil, fmt.Errorf("opening ledger: %w", err)
		}
		ledger, err := badger.NewLedgerRepository(backend)
		if err != nil {
			backend.Close()
			return nil, nil, err
		}
		pipelineOpts = append(pipelineOpts, pipeline.WithLedger(ledger))
	}

	if cfg.Notify.WebhookURL != "" && !dryRun {
		notifier := notify.NewWebhookNotifier(cfg.Notify.WebhookURL,
			notify.WithTimeout(cfg.Notify.Timeout))
		pipelineOpts = append(pipelineOpts, pipeline.WithNotifier(notifier))
	}

	if cfg.Watch.ArchiveDir != "" && !dryRun {
		pipelineOpts = append(pipelineOpts, pipeline.WithArchiver(
			watch.NewArchiver(cfg.Watch.ArchiveDir)))
	}

	p, err := pipeline.NewPipeline(rt, publisher, pipelineOpts...)
	if err != nil {
		if backend != nil {
			backend.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		p.Close()
		if backend != nil {
			backend.Close()
		}
	}
	return p, cleanup, nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
