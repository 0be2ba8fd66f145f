package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
)

type contextKey string

const ViewerKey contextKey = "viewer"

// ViewerResolver turns an access token into the viewer it identifies.
type ViewerResolver interface {
	ViewerFromAccessToken(accessToken string) (domain.Viewer, error)
}

// Authenticate requires an access token, taken from the access_token cookie or
// an Authorization bearer header, and stores the resolved viewer in the context.
func Authenticate(resolver ViewerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := accessToken(r)
			if token == "" {
				http.Error(w, "Unauthorized: missing access token", http.StatusUnauthorized)
				return
			}

			viewer, err := resolver.ViewerFromAccessToken(token)
			if err != nil {
				http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ViewerKey, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ViewerFromContext(ctx context.Context) (domain.Viewer, bool) {
	viewer, ok := ctx.Value(ViewerKey).(domain.Viewer)
	return viewer, ok
}

func accessToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// viewerOrReject writes 401 when the request has no viewer.
func viewerOrReject(w http.ResponseWriter, r *http.Request) (domain.Viewer, bool) {
	viewer, ok := ViewerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
	}
	return viewer, ok
}
