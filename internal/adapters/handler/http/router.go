package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Wish    *WishHandler
	Vote    *VoteHandler
	User    *UserHandler
	Auth    *AuthHandler
	Viewers ViewerResolver
	Metrics *Metrics
}

func NewHandler(h Handlers, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics.Handler())
	}

	if h.Auth != nil {
		r.Route("/oauth", func(r chi.Router) {
			r.Post("/callback", h.Auth.GoogleCallback)
			r.Post("/refresh", h.Auth.Refresh)
			r.Post("/logout", h.Auth.Logout)
		})
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(Authenticate(h.Viewers))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", h.User.GetMe)
			r.Get("/admin", h.User.IsAdmin)
			r.Get("/votes", h.Vote.MyVotes)
		})

		r.Route("/wishes", func(r chi.Router) {
			r.Get("/", h.Wish.ListWishes)
			r.Post("/", h.Wish.CreateWish)
			r.Put("/{id}", h.Wish.UpdateWish)
			r.Delete("/{id}", h.Wish.DeleteWish)
			r.Post("/{id}/votes", h.Vote.VoteOnWish)
		})
	})

	return r
}
