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
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/refind"
	"github.com/poiesic/refind/ai"
	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/reindex"
	"github.com/poiesic/refind/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "refind",
		Usage: "Cross-modal matching engine for lost and found reports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "add-report",
				Usage:  "File a report and run matching against the opposite kind",
				Action: addReportCommand,
				Flags: append(dbFlags(), aiFlags(
					&cli.StringFlag{
						Name:  "id",
						Usage: "Report id (generated if omitted)",
					},
					&cli.StringFlag{
						Name:     "kind",
						Usage:    "Report kind: lost or found",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "subject",
						Usage:    "Subject kind: person or item",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Free-text description",
					},
					&cli.StringFlag{
						Name:  "language",
						Usage: "BCP 47 language code of the description",
						Value: "en",
					},
					&cli.Float64Flag{
						Name:     "lat",
						Usage:    "Latitude of the report location",
						Required: true,
					},
					&cli.Float64Flag{
						Name:     "lon",
						Usage:    "Longitude of the report location",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "location-label",
						Usage: "Free-text location label",
					},
					&cli.StringSliceFlag{
						Name:  "photo",
						Usage: "Path to a photo file (repeatable)",
					},
				)...),
			},
			{
				Name:   "matches",
				Usage:  "List match records",
				Action: listMatchesCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status: pending, confirmed, false",
					},
				),
			},
			{
				Name:   "confirm",
				Usage:  "Confirm a match as a successful reunification",
				Action: confirmCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Match record id",
						Required: true,
					},
				),
			},
			{
				Name:   "flag-false",
				Usage:  "Flag a match as a false positive",
				Action: flagFalseCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Match record id",
						Required: true,
					},
				),
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild the modality indexes from stored embeddings, dropping non-open reports",
				Action: reindexCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:     "target",
						Usage:    "Path to the rebuilt database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N embedding sets",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed inserts",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
	}
}

func aiFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Text embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Text embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "encoder-host",
			Usage: "Visual encoder service host URL (face/image embeddings disabled if empty)",
		},
	}, extra...)
}

func openEngine(c *cli.Context) (*refind.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithEncoderHost(c.String("encoder-host")),
	)
	return refind.NewEngine(c.String("db"), refind.WithAIConfig(aiConfig))
}

func addReportCommand(c *cli.Context) error {
	ctx := context.Background()

	kind, err := parseKind(c.String("kind"))
	if err != nil {
		return err
	}
	subject, err := parseSubject(c.String("subject"))
	if err != nil {
		return err
	}

	var photos [][]byte
	var photoRefs []string
	for _, path := range c.StringSlice("photo") {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read photo %s: %w", path, err)
		}
		photos = append(photos, data)
		photoRefs = append(photoRefs, path)
	}

	id := c.String("id")
	if id == "" {
		id = uuid.NewString()
	}

	report := &core.Report{
		Id:          id,
		Kind:        kind,
		Subject:     subject,
		Description: c.String("description"),
		Language:    c.String("language"),
		Location: core.Location{
			Latitude:  c.Float64("lat"),
			Longitude: c.Float64("lon"),
			Label:     c.String("location-label"),
		},
		PhotoRefs: photoRefs,
		CreatedAt: time.Now().UTC(),
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	if err := engine.ReportRepository().AddReports(ctx, report); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}

	matcher, err := engine.NewMatcher()
	if err != nil {
		return fmt.Errorf("failed to create matcher: %w", err)
	}
	defer matcher.Release()

	records, err := matcher.Run(ctx, report, photos)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	fmt.Printf("Report %s filed (%s %s)\n", report.Id, report.Kind, report.Subject)
	if len(records) == 0 {
		fmt.Println("No matches above threshold")
		return nil
	}
	for _, record := range records {
		printMatch(record)
	}
	return nil
}

func listMatchesCommand(c *cli.Context) error {
	status, err := parseMatchStatus(c.String("status"))
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	records, err := engine.MatchRepository().ListMatches(context.Background(), status)
	if err != nil {
		return fmt.Errorf("failed to list matches: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No matches")
		return nil
	}
	for _, record := range records {
		printMatch(record)
	}
	return nil
}

func confirmCommand(c *cli.Context) error {
	return updateMatchStatus(c, core.MatchStatusConfirmedReunited)
}

func flagFalseCommand(c *cli.Context) error {
	return updateMatchStatus(c, core.MatchStatusFalseMatch)
}

func updateMatchStatus(c *cli.Context, status core.MatchStatus) error {
	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	id := c.String("id")
	if err := engine.MatchRepository().UpdateMatchStatus(context.Background(), id, status); err != nil {
		return fmt.Errorf("failed to update match %s: %w", id, err)
	}
	fmt.Printf("Match %s -> %s\n", id, status)
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	sourceBackend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer sourceBackend.Close()

	reports, err := badger.NewReportRepository(sourceBackend)
	if err != nil {
		return fmt.Errorf("failed to create report repository: %w", err)
	}
	defer reports.Close()

	embeddings, err := badger.NewEmbeddingRepository(sourceBackend)
	if err != nil {
		return fmt.Errorf("failed to create embedding repository: %w", err)
	}
	defer embeddings.Close()

	targetBackend, err := badger.OpenBackend(c.String("target"), false)
	if err != nil {
		return fmt.Errorf("failed to open target database: %w", err)
	}
	defer targetBackend.Close()

	target, err := badger.NewIndexStore(targetBackend)
	if err != nil {
		return fmt.Errorf("failed to create target index store: %w", err)
	}
	defer target.Close()

	config := &reindex.Config{
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	rebuilder := reindex.NewRebuilder(reports, embeddings, target, config, os.Stderr)

	fmt.Fprintf(os.Stderr, "Source: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Target: %s\n", c.String("target"))
	fmt.Fprintln(os.Stderr)

	indexed, err := rebuilder.Run(ctx)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	fmt.Printf("Indexed %d embedding sets into %s\n", indexed, c.String("target"))
	return nil
}

func printMatch(record *core.MatchRecord) {
	fmt.Printf("%s  lost=%s found=%s fused=%.3f status=%s\n",
		record.Id, record.LostReportId, record.FoundReportId, record.FusedScore, record.Status)
	fmt.Printf("    face=%s image=%s text=%s distance=%s\n",
		formatScore(record.FaceScore), formatScore(record.ImageScore),
		formatScore(record.TextScore), formatScore(record.DistanceScore))
}

func formatScore(s core.Score) string {
	if !s.Valid {
		return "-"
	}
	return fmt.Sprintf("%.3f", s.Value)
}

func parseKind(s string) (core.ReportKind, error) {
	switch strings.ToLower(s) {
	case "lost":
		return core.ReportKindLost, nil
	case "found":
		return core.ReportKindFound, nil
	default:
		return 0, fmt.Errorf("invalid kind %q: must be lost or found", s)
	}
}

func parseSubject(s string) (core.SubjectKind, error) {
	switch strings.ToLower(s) {
	case "person":
		return core.SubjectKindPerson, nil
	case "item":
		return core.SubjectKindItem, nil
	default:
		return 0, fmt.Errorf("invalid subject %q: must be person or item", s)
	}
}

func parseMatchStatus(s string) (core.MatchStatus, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "pending":
		return core.MatchStatusPending, nil
	case "confirmed":
		return core.MatchStatusConfirmedReunited, nil
	case "false":
		return core.MatchStatusFalseMatch, nil
	default:
		return 0, fmt.Errorf("invalid status %q: must be pending, confirmed, or false", s)
	}
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
