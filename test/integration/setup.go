package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgrepo "github.com/vncsmyrnk/wishpool/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/wishpool/internal/app"
	"github.com/vncsmyrnk/wishpool/internal/config"
	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
	"github.com/vncsmyrnk/wishpool/internal/core/services"
)

const (
	testSecret = "test-secret"
	adminEmail = "admin@example.com"
)

type TestApp struct {
	DB          *sql.DB
	Store       *app.Store
	Server      *httptest.Server
	Client      *http.Client
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func setupTestApp(t *testing.T, verifier ports.TokenVerifier) *TestApp {
	t.Helper()

	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	require.NoError(t, pgrepo.MigrateUp(dbURL))

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.DatabaseURL = dbURL
	cfg.JWTSecret = testSecret
	cfg.AdminEmail = adminEmail
	cfg.RedirectURL = "https://example.com/redirect"
	cfg.CookieSecure = false

	store := app.PostgresStore(db)
	server := httptest.NewServer(app.NewRouter(cfg, store, verifier, nil))

	return &TestApp{
		DB:          db,
		Store:       store,
		Server:      server,
		Client:      server.Client(),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.Store.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// createUserAndToken inserts a user and returns a signed access token for it.
func createUserAndToken(t *testing.T, db *sql.DB, email string) string {
	t.Helper()

	user := &domain.User{ID: uuid.New(), Email: email, Name: "User " + email}
	_, err := db.Exec("INSERT INTO users (id, email, name) VALUES ($1, $2, $3)", user.ID, user.Email, user.Name)
	require.NoError(t, err)

	token, err := services.SignAccessToken([]byte(testSecret), user, 15*time.Minute)
	require.NoError(t, err)
	return token
}

func newUserToken(t *testing.T, db *sql.DB) string {
	t.Helper()
	return createUserAndToken(t, db, fmt.Sprintf("user-%s@example.com", uuid.NewString()))
}

// call sends a JSON request with the access token cookie and returns the
// status and raw body.
func (app *TestApp) call(t *testing.T, method, path, token string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (app *TestApp) listWishes(t *testing.T, token string) []domain.Wish {
	t.Helper()
	status, body := app.call(t, http.MethodGet, "/api/wishes", token, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	var wishes []domain.Wish
	require.NoError(t, json.Unmarshal(body, &wishes))
	return wishes
}

func (app *TestApp) votedIDs(t *testing.T, token string) []string {
	t.Helper()
	status, body := app.call(t, http.MethodGet, "/api/me/votes", token, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	var ids []string
	require.NoError(t, json.Unmarshal(body, &ids))
	return ids
}

func wishPayload(id, title, desc string) map[string]string {
	return map[string]string{"id": id, "title": title, "desc": desc}
}

func findWish(wishes []domain.Wish, id string) (domain.Wish, bool) {
	for _, w := range wishes {
		if w.ID == id {
			return w, true
		}
	}
	return domain.Wish{}, false
}

// vote posts a vote without asserting, so it can run off the test goroutine.
func (app *TestApp) vote(token, wishID string) (int, error) {
	req, err := http.NewRequest(http.MethodPost, app.Server.URL+"/api/wishes/"+wishID+"/votes", nil)
	if err != nil {
		return 0, err
	}
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

	resp, err := app.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
