// Package main runs a single engine pass: detect, score, filter, rank,
// truncate, deliver, then render the run report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"insider-radar/internal/app"
	"insider-radar/internal/reporting"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (defaults apply when empty)")
	reportPath := flag.String("report", "", "Write the Markdown run report to this file")
	csvPath := flag.String("csv", "", "Write the alert rows as CSV to this file")
	flag.Parse()

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

	engine, err := a.Engine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result, err := engine.RunOnce(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
		os.Exit(1)
	}

	report := reporting.FromRunResult(result, nil)
	markdown := reporting.RenderMarkdown(report)

	if *reportPath != "" {
		if err := os.WriteFile(*reportPath, []byte(markdown), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Write report: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Print(markdown)
	}

	if *csvPath != "" {
		if err := os.WriteFile(*csvPath, []byte(reporting.RenderCSV(report.Alerts)), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Write csv: %v\n", err)
			os.Exit(1)
		}
	}
}
