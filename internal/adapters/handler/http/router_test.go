package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	handler "github.com/vncsmyrnk/wishpool/internal/adapters/handler/http"
	"github.com/vncsmyrnk/wishpool/internal/adapters/repository/sheet"
	"github.com/vncsmyrnk/wishpool/internal/app"
	"github.com/vncsmyrnk/wishpool/internal/config"
	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/services"
)

const secret = "router-test-secret"

func newRouter(t *testing.T, metrics *handler.Metrics) http.Handler {
	t.Helper()
	wb, err := sheet.OpenBoard("")
	require.NoError(t, err)

	cfg := config.Default()
	cfg.JWTSecret = secret
	cfg.AdminEmail = "admin@example.com"
	cfg.AllowedOrigins = []string{"https://wishes.example.com"}
	return app.NewRouter(cfg, app.SheetStore(wb), nil, metrics)
}

func bearer(t *testing.T, email string) string {
	t.Helper()
	token, err := services.SignAccessToken([]byte(secret), &domain.User{ID: uuid.New(), Email: email}, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(t *testing.T, h http.Handler, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(t, newRouter(t, nil), http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAPIRequiresToken(t *testing.T) {
	h := newRouter(t, nil)
	for _, path := range []string{"/api/wishes", "/api/me", "/api/me/votes", "/api/me/admin"} {
		rec := do(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := do(t, h, http.MethodGet, "/api/wishes", "Bearer nope", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAcceptsAccessTokenCookie(t *testing.T) {
	h := newRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/me/admin", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: strings.TrimPrefix(bearer(t, "admin@example.com"), "Bearer ")})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"is_admin":true}`, rec.Body.String())
}

func TestWishRoutes(t *testing.T) {
	h := newRouter(t, nil)
	alice := bearer(t, "alice@example.com")
	bob := bearer(t, "bob@example.com")

	rec := do(t, h, http.MethodPost, "/api/wishes", alice, map[string]string{"id": "w1", "title": "Dark mode"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"wish added"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/wishes", alice, map[string]string{"id": "w1", "title": "Again"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/wishes/w1/votes", bob, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/wishes/w1/votes", bob, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/me/votes", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["w1"]`, rec.Body.String())

	rec = do(t, h, http.MethodPut, "/api/wishes/w1", bob, map[string]string{"title": "Mine"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/wishes/w1", alice, map[string]string{"id": "other", "title": "Mismatch"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/wishes/w1", alice, map[string]string{"title": "Dark theme", "desc": "at night"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/wishes", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var wishes []domain.Wish
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wishes))
	require.Len(t, wishes, 1)
	assert.Equal(t, "Dark theme", wishes[0].Title)
	assert.Equal(t, "at night", wishes[0].Description)
	assert.Equal(t, int64(2), wishes[0].Votes)
	assert.False(t, wishes[0].IsOwner)

	rec = do(t, h, http.MethodDelete, "/api/wishes/w1", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/wishes/w1", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMalformedBody(t *testing.T) {
	h := newRouter(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/wishes", strings.NewReader("{not json"))
	req.Header.Set("Authorization", bearer(t, "alice@example.com"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newRouter(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/wishes", nil)
	req.Header.Set("Origin", "https://wishes.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://wishes.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newRouter(t, handler.NewMetrics())
	do(t, h, http.MethodGet, "/api/wishes", bearer(t, "alice@example.com"), nil)

	rec := do(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `wishpool_http_requests_total{method="GET",route="/api/wishes`)
	assert.Contains(t, rec.Body.String(), "wishpool_http_request_duration_seconds")
}
