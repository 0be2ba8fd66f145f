// Package app wires repositories, services and handlers for the configured
// store.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/lib/pq"
	handler "github.com/vncsmyrnk/wishpool/internal/adapters/handler/http"
	"github.com/vncsmyrnk/wishpool/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/wishpool/internal/adapters/repository/sheet"
	"github.com/vncsmyrnk/wishpool/internal/config"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
	"github.com/vncsmyrnk/wishpool/internal/core/services"
)

type Store struct {
	Wishes ports.WishRepository
	Votes  ports.VoteRepository
	Users  ports.UserRepository
	Auth   ports.AuthRepository
	close  func() error
}

func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStore opens the backend named by cfg.Store. The postgres store is
// migrated to the latest schema before use.
func OpenStore(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.Store {
	case config.StoreSheet:
		wb, err := sheet.OpenBoard(cfg.SheetDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open sheet store: %w", err)
		}
		slog.Info("using sheet store", "dir", cfg.SheetDir)
		return SheetStore(wb), nil

	case config.StorePostgres:
		if err := postgres.MigrateUp(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to reach database: %w", err)
		}
		slog.Info("using postgres store")
		return PostgresStore(db), nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func SheetStore(wb *sheet.Workbook) *Store {
	return &Store{
		Wishes: sheet.NewWishRepository(wb),
		Votes:  sheet.NewVoteRepository(wb),
		Users:  sheet.NewUserRepository(wb),
		Auth:   sheet.NewAuthRepository(wb),
	}
}

// PostgresStore builds a store over db. Closing the store closes db.
func PostgresStore(db *sql.DB) *Store {
	return &Store{
		Wishes: postgres.NewWishRepository(db),
		Votes:  postgres.NewVoteRepository(db),
		Users:  postgres.NewUserRepository(db),
		Auth:   postgres.NewAuthRepository(db),
		close:  db.Close,
	}
}

// NewRouter builds the HTTP surface over store. A nil verifier disables the
// Google sign-in routes.
func NewRouter(cfg config.Config, store *Store, verifier ports.TokenVerifier, metrics *handler.Metrics) http.Handler {
	authService := services.NewAuthService(store.Users, store.Auth, verifier, services.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		GoogleClientID: cfg.GoogleClientID,
		AdminEmail:     cfg.AdminEmail,
	})

	h := handler.Handlers{
		Wish:    handler.NewWishHandler(services.NewWishService(store.Wishes)),
		Vote:    handler.NewVoteHandler(services.NewVoteService(store.Votes)),
		User:    handler.NewUserHandler(services.NewUserService(store.Users)),
		Viewers: authService,
		Metrics: metrics,
	}
	if verifier != nil {
		h.Auth = handler.NewAuthHandler(authService, handler.CookieConfig{
			RedirectURL: cfg.RedirectURL,
			Domain:      cfg.CookieDomain,
			SameSite:    cfg.SameSite(),
			Secure:      cfg.CookieSecure,
		})
	}
	return handler.NewHandler(h, cfg.AllowedOrigins)
}

func NewReconciler(store *Store, logger *slog.Logger) ports.ReconcileService {
	return services.NewReconcileService(store.Wishes, store.Votes, logger)
}
