// Package main runs the engine periodically on a cron schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"insider-radar/internal/app"
	"insider-radar/internal/domain"
	"insider-radar/internal/observability"
	"insider-radar/internal/selector"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (defaults apply when empty)")
	runOnStart := flag.Bool("run-on-start", false, "Run one pass immediately before scheduling")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			a.Log.Info().Str("addr", *metricsAddr).Msg("metrics server started")
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				a.Log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	runPass := func() {
		start := time.Now()
		result, err := engine.RunOnce(ctx)
		if err != nil {
			observability.RecordRun("error", time.Since(start).Seconds())
			a.Log.Error().Err(err).Msg("scheduled run failed")
			return
		}
		observability.RecordRun("ok", time.Since(start).Seconds())
		recordRunMetrics(result)
		a.Log.Info().
			Int("items", len(result.Items)).
			Int("suppressed", len(result.Suppressed)).
			Msg("scheduled run finished")
	}

	if *runOnStart {
		runPass()
	}

	scheduler := cron.New(cron.WithSeconds())
	if _, err := scheduler.AddFunc(a.Config.Daemon.Schedule, runPass); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid schedule %q: %v\n", a.Config.Daemon.Schedule, err)
		os.Exit(1)
	}
	scheduler.Start()
	a.Log.Info().Str("schedule", a.Config.Daemon.Schedule).Msg("daemon started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	a.Log.Info().Msg("shutting down")
	cancel()
	<-scheduler.Stop().Done()
}

func recordRunMetrics(result *selector.RunResult) {
	for _, item := range result.Items {
		observability.RecordSignalDetected(string(item.Pattern))
		switch item.Status {
		case domain.DeliveryDelivered:
			observability.RecordDelivered()
		case domain.DeliveryFailed:
			observability.RecordDeliveryFailure()
		}
	}
	for _, item := range result.Suppressed {
		observability.RecordSignalDetected(string(item.Pattern))
		observability.RecordSuppressed()
	}
	observability.RecordTruncated(result.Truncated)
	for _, derr := range result.DetectorErrors {
		observability.RecordDetectorError(string(derr.Pattern))
	}
	observability.RecordSwept(result.SweptExpired)
}
