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

	"github.com/poiesic/librarian"
	"github.com/poiesic/librarian/core"
	"github.com/poiesic/librarian/embed"
	"github.com/poiesic/librarian/fusion"
	"github.com/poiesic/librarian/router"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "librarian",
		Usage: "Query orchestration for a personal library knowledge base",
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
				Name:      "route",
				Usage:     "Show the routing decision for a query without executing it",
				ArgsUsage: "<query>",
				Action:    routeCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "static",
						Usage: "Use static routing (all strategies) instead of the rule table",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Route, execute and fuse a query against the library",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(libraryFlags(),
					&cli.Uint64Flag{
						Name:  "item",
						Usage: "Restrict the query to a single item ID",
					},
					&cli.StringFlag{
						Name:  "fusion",
						Usage: "Fusion mode (rrf, concat)",
						Value: "rrf",
					},
					&cli.BoolFlag{
						Name:  "static",
						Usage: "Use static routing (all strategies) instead of the rule table",
					},
				),
			},
			{
				Name:   "freshness",
				Usage:  "Show the index freshness of an item",
				Action: freshnessCommand,
				Flags: append(libraryFlags(),
					&cli.Uint64Flag{
						Name:     "item",
						Usage:    "Item ID to inspect",
						Required: true,
					},
				),
			},
			{
				Name:   "ingest",
				Usage:  "Record ingested chunks for an item and update its freshness",
				Action: ingestCommand,
				Flags: append(libraryFlags(),
					&cli.Uint64Flag{
						Name:     "item",
						Usage:    "Item ID the chunks belong to",
						Required: true,
					},
					&cli.Uint64Flag{
						Name:     "chunks",
						Usage:    "Number of newly ingested chunks",
						Required: true,
					},
					&cli.Uint64Flag{
						Name:  "embedded",
						Usage: "How many of the new chunks already have embeddings",
					},
				),
			},
			{
				Name:   "seed",
				Usage:  "Seed the library with sample items for testing",
				Action: seedCommand,
				Flags:  libraryFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// libraryFlags are the flags shared by every command that opens a library.
func libraryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "owner",
			Aliases:  []string{"o"},
			Usage:    "Owner whose library to operate on",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}
}

func openLibrary(c *cli.Context, opts ...librarian.LibraryOption) (*librarian.Library, error) {
	config := embed.DefaultConfig(
		embed.WithHost(c.String("embedding-host")),
		embed.WithModel(c.String("embedding-model")),
	)
	opts = append([]librarian.LibraryOption{librarian.WithEmbeddingConfig(config)}, opts...)

	lib, err := librarian.NewLibrary(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	return lib, nil
}

func queryArg(c *cli.Context) (string, error) {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return "", fmt.Errorf("query text is required")
	}
	return query, nil
}

func routeCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}

	var opts []router.Option
	if c.Bool("static") {
		opts = append(opts, router.WithMode(router.ModeStatic))
	}
	rtr, err := router.New(opts...)
	if err != nil {
		return err
	}

	decision := rtr.Route(core.NewQuery(query, core.Scope{}))

	fmt.Printf("query:   %s\n", query)
	fmt.Printf("reason:  %s\n", decision.Reason)
	fmt.Printf("buckets: %s\n", formatKinds(decision.Buckets))
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query, err := queryArg(c)
	if err != nil {
		return err
	}

	fusionMode := fusion.Mode(c.String("fusion"))
	if fusionMode != fusion.ModeRRF && fusionMode != fusion.ModeConcat {
		return fmt.Errorf("invalid fusion mode %q: must be rrf or concat", c.String("fusion"))
	}

	opts := []librarian.LibraryOption{librarian.WithFusionMode(fusionMode)}
	if c.Bool("static") {
		opts = append(opts, librarian.WithRouterOptions(router.WithMode(router.ModeStatic)))
	}

	lib, err := openLibrary(c, opts...)
	if err != nil {
		return err
	}
	defer lib.Close()

	scope := core.Scope{
		OwnerID: c.String("owner"),
		ItemID:  core.ID(c.Uint64("item")),
	}
	result, err := lib.Search(ctx, query, scope)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "routing: %s (%s), executed %s\n",
		result.RouterReason, result.RouterMode, formatKinds(result.ExecutedStrategies))

	if len(result.Items) == 0 {
		fmt.Println("no results")
		return nil
	}
	for rank, item := range result.Items {
		title := fmt.Sprintf("item %d", item.Item)
		if entry, err := lib.Items().GetItem(ctx, item.Item); err == nil {
			title = entry.Title
		}
		fmt.Printf("%2d. %-40s score=%.4f\n", rank+1, title, item.Score)
	}
	return nil
}

func freshnessCommand(c *cli.Context) error {
	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	record, state, err := lib.GetFreshness(context.Background(), c.String("owner"), core.ID(c.Uint64("item")))
	if err != nil {
		return err
	}

	fmt.Printf("state: %s\n", state)
	if record == nil {
		return nil
	}
	fmt.Printf("chunks: total=%d embedded=%d graph-linked=%d\n",
		record.TotalChunks, record.EmbeddedChunks, record.GraphLinkedChunks)
	fmt.Printf("coverage: vector=%.2f graph=%.2f backlog=%d\n",
		record.VectorCoverage(), record.GraphCoverage(), record.Backlog())
	return nil
}

func ingestCommand(c *cli.Context) error {
	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	record, err := lib.NotifyIngestion(context.Background(),
		c.String("owner"), core.ID(c.Uint64("item")),
		c.Uint64("chunks"), c.Uint64("embedded"))
	if err != nil {
		return fmt.Errorf("ingestion notification failed: %w", err)
	}

	fmt.Printf("recorded: total=%d embedded=%d graph-linked=%d\n",
		record.TotalChunks, record.EmbeddedChunks, record.GraphLinkedChunks)
	return nil
}

// seedTitles is a small sample library for local testing.
var seedTitles = []string{
	"Sefiller",
	"Suç ve Ceza",
	"Ahlak Felsefesi",
	"Körlük",
	"Tutunamayanlar",
	"The Brothers Karamazov",
	"Meditations",
	"Nicomachean Ethics",
	"The Name of the Rose",
	"Kar",
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	owner := c.String("owner")
	entries := make([]*core.ItemEntry, len(seedTitles))
	for i, title := range seedTitles {
		entries[i] = &core.ItemEntry{OwnerID: owner, Title: title}
	}

	stored, err := lib.AddItems(ctx, entries...)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	for _, entry := range stored {
		if _, err := lib.NotifyIngestion(ctx, owner, entry.Id, 4, 4); err != nil {
			return fmt.Errorf("failed to record ingestion for %q: %w", entry.Title, err)
		}
		fmt.Fprintf(os.Stderr, "seeded %q as item %d\n", entry.Title, entry.Id)
	}

	slog.Info("seeding complete", "owner", owner, "items", len(stored))
	return nil
}

func formatKinds(kinds []core.StrategyKind) string {
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = kind.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
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
