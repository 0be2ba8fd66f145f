package config

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreSheet    = "sheet"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Addr           string
	Store          string
	SheetDir       string
	DatabaseURL    string
	JWTSecret      string
	GoogleClientID string
	AdminEmail     string
	RedirectURL    string
	CookieDomain   string
	CookieSameSite string
	CookieSecure   bool
	AllowedOrigins []string
	LogLevel       string
}

func Default() Config {
	return Config{
		Addr:           "0.0.0.0:8080",
		Store:          StorePostgres,
		SheetDir:       "data",
		RedirectURL:    "/",
		CookieSameSite: "lax",
		CookieSecure:   true,
		AllowedOrigins: []string{"*"},
		LogLevel:       "info",
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("ADDR"); raw != "" {
		cfg.Addr = raw
	}
	if raw := os.Getenv("STORE"); raw != "" {
		cfg.Store = strings.ToLower(raw)
	}
	if raw := os.Getenv("SHEET_DIR"); raw != "" {
		cfg.SheetDir = raw
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" && os.Getenv("POSTGRES_HOST") != "" {
		cfg.DatabaseURL = PostgresURL(
			os.Getenv("POSTGRES_USER"),
			os.Getenv("POSTGRES_PASSWORD"),
			os.Getenv("POSTGRES_HOST"),
			os.Getenv("POSTGRES_PORT"),
			os.Getenv("POSTGRES_DB"),
		)
	}
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")
	if raw := os.Getenv("AUTH_REDIRECT_URL"); raw != "" {
		cfg.RedirectURL = raw
	}
	cfg.CookieDomain = os.Getenv("COOKIE_DOMAIN")
	if raw := os.Getenv("COOKIE_SAMESITE"); raw != "" {
		cfg.CookieSameSite = strings.ToLower(raw)
	}
	if raw := os.Getenv("COOKIE_SECURE"); raw != "" {
		cfg.CookieSecure = raw != "false" && raw != "0"
	}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		cfg.AllowedOrigins = splitList(raw)
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}
	return cfg
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database URL required for the %s store (DATABASE_URL or POSTGRES_*)", StorePostgres)
		}
	case StoreSheet:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func (c Config) SameSite() http.SameSite {
	switch c.CookieSameSite {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (c Config) SlogLevel() slog.Level {
	return ParseLogLevel(c.LogLevel)
}

func ParseLogLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func PostgresURL(user, password, host, port, dbName string) string {
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
