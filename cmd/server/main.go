package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vncsmyrnk/wishpool/internal/adapters/handler/http"
	"github.com/vncsmyrnk/wishpool/internal/adapters/oauth/google"
	"github.com/vncsmyrnk/wishpool/internal/app"
	"github.com/vncsmyrnk/wishpool/internal/config"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.StringVar(&cfg.Store, "store", cfg.Store, "storage backend (postgres or sheet)")
	flag.StringVar(&cfg.SheetDir, "sheet-dir", cfg.SheetDir, "directory for sheet store CSV files")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	var verifier ports.TokenVerifier
	if cfg.GoogleClientID != "" {
		verifier = google.NewVerifier()
	} else {
		slog.Warn("GOOGLE_CLIENT_ID not set, sign-in routes disabled")
	}

	handler := app.NewRouter(cfg, store, verifier, http.NewMetrics())
	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		slog.Info("listening", "addr", cfg.Addr, "store", cfg.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	slog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
