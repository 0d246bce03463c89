// Package main loads trade event and holding snapshot feed files into
// storage.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"insider-radar/internal/app"
	"insider-radar/internal/ingest"
	"insider-radar/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (defaults apply when empty)")
	eventsPath := flag.String("events", "", "JSON file with trade events")
	holdingsPath := flag.String("holdings", "", "JSON file with holding snapshots")
	flag.Parse()

	if *eventsPath == "" && *holdingsPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -events and/or -holdings")
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	a, err := app.New(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	loader := ingest.NewLoader(ingest.Options{
		Events:   a.Events,
		Holdings: a.Holdings,
		Archive:  a.Archive,
		Logger:   a.Log,
	})

	if *eventsPath != "" {
		if err := loadFile(ctx, loader.LoadEvents, *eventsPath, a); err != nil {
			fmt.Fprintf(os.Stderr, "Load events: %v\n", err)
			os.Exit(1)
		}
	}
	if *holdingsPath != "" {
		if err := loadFile(ctx, loader.LoadHoldings, *holdingsPath, a); err != nil {
			fmt.Fprintf(os.Stderr, "Load holdings: %v\n", err)
			os.Exit(1)
		}
	}
}

func loadFile(ctx context.Context, load func(context.Context, io.Reader) (*ingest.Result, error), path string, a *app.App) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := load(ctx, f)
	if err != nil {
		return err
	}
	observability.RecordFeedLoaded(result.EventsInserted, result.EventsDuplicate,
		result.HoldingsUpserted, result.RecordsRejected, result.ArchiveFailed)
	a.Log.Info().
		Str("file", path).
		Int("events_inserted", result.EventsInserted).
		Int("events_duplicate", result.EventsDuplicate).
		Int("holdings_upserted", result.HoldingsUpserted).
		Int("rejected", result.RecordsRejected).
		Bool("archive_failed", result.ArchiveFailed).
		Msg("feed loaded")
	return nil
}
