package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/vncsmyrnk/wishpool/internal/app"
	"github.com/vncsmyrnk/wishpool/internal/config"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Println("No .env file loaded:", err)
	}
	cfg := config.Load()

	var timeout time.Duration
	flag.StringVar(&cfg.Store, "store", cfg.Store, "storage backend (postgres or sheet)")
	flag.StringVar(&cfg.SheetDir, "sheet-dir", cfg.SheetDir, "directory for sheet store CSV files")
	flag.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Postgres connection URL")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "job timeout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	logger.Info("starting vote reconciliation")

	report, err := app.NewReconciler(store, logger).ReconcileAll(ctx)
	if err != nil {
		log.Fatalf("Error reconciling votes: %v", err)
	}

	logger.Info("vote reconciliation completed",
		"wishes", report.Wishes,
		"recounted", report.Recounted,
		"orphans_removed", report.OrphansRemoved,
	)
}
